package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/learning-progress-api/internal/dto"
	"github.com/noah-isme/learning-progress-api/internal/middleware"
	"github.com/noah-isme/learning-progress-api/internal/models"
	appErrors "github.com/noah-isme/learning-progress-api/pkg/errors"
	"github.com/noah-isme/learning-progress-api/pkg/response"
)

type leaderboardService interface {
	Build(ctx context.Context, filter models.LeaderboardFilter) (*models.Leaderboard, bool, error)
	Position(ctx context.Context, filter models.LeaderboardFilter) (*models.UserLeaderboardPosition, bool, error)
}

// LeaderboardHandler exposes ranked leaderboards over HTTP.
type LeaderboardHandler struct {
	service   leaderboardService
	validator *validator.Validate
	maxLimit  int
}

// NewLeaderboardHandler constructs the handler. maxLimit <= 0 leaves limit unbounded.
func NewLeaderboardHandler(service leaderboardService, validate *validator.Validate, maxLimit int) *LeaderboardHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &LeaderboardHandler{service: service, validator: validate, maxLimit: maxLimit}
}

// List godoc
// @Summary Ranked leaderboard
// @Tags Leaderboards
// @Produce json
// @Param metric query string false "wordsLearned|currentStreak|accuracy|timeSpent"
// @Param period query string false "daily|weekly|monthly|allTime"
// @Param scope query string false "global|friends"
// @Param limit query int false "Maximum entries (default 50)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /leaderboards [get]
func (h *LeaderboardHandler) List(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	board, cacheHit, err := h.service.Build(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, board, middleware.ExtractMeta(c))
}

// Position godoc
// @Summary Caller's leaderboard position
// @Description Returns null data when the caller has no qualifying entry.
// @Tags Leaderboards
// @Produce json
// @Param metric query string false "wordsLearned|currentStreak|accuracy|timeSpent"
// @Param period query string false "daily|weekly|monthly|allTime"
// @Param scope query string false "global|friends"
// @Success 200 {object} response.Envelope
// @Router /leaderboards/position [get]
func (h *LeaderboardHandler) Position(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	position, cacheHit, err := h.service.Position(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, position, middleware.ExtractMeta(c))
}

func (h *LeaderboardHandler) bindFilter(c *gin.Context) (models.LeaderboardFilter, bool) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return models.LeaderboardFilter{}, false
	}
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return models.LeaderboardFilter{}, false
	}

	var query dto.LeaderboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return models.LeaderboardFilter{}, false
	}
	if err := h.validator.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, dto.ValidationMessage(err)))
		return models.LeaderboardFilter{}, false
	}
	if h.maxLimit > 0 && query.Limit > h.maxLimit {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("limit must be at most %d", h.maxLimit)))
		return models.LeaderboardFilter{}, false
	}
	return query.Filter(claims.UserID), true
}
