package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/learning-progress-api/internal/middleware"
	"github.com/noah-isme/learning-progress-api/internal/models"
)

// Routes bundles the handlers mounted under the API prefix.
type Routes struct {
	Tokens      middleware.TokenValidator
	Leaderboard *LeaderboardHandler
	Analytics   *AnalyticsHandler
	Metrics     *MetricsHandler
}

// Register mounts the protected API on group.
func (r Routes) Register(group *gin.RouterGroup) {
	group.Use(middleware.WithResponseMeta(), middleware.JWT(r.Tokens))

	leaderboards := group.Group("/leaderboards")
	leaderboards.GET("", r.Leaderboard.List)
	leaderboards.GET("/position", r.Leaderboard.Position)

	classes := group.Group("/classes/:id", middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin))
	classes.GET("/analytics", r.Analytics.Class)
	classes.GET("/analytics/export", r.Analytics.Export)
	classes.GET("/alerts", r.Analytics.Alerts)

	group.GET("/students/:id/analytics",
		middleware.RBAC(string(models.RoleTeacher), string(models.RoleAdmin), middleware.RoleSelf),
		r.Analytics.Student)

	if r.Metrics != nil {
		group.GET("/system/metrics", middleware.RequireRoles(models.RoleAdmin), r.Metrics.Status)
	}
}
