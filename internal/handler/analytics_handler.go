package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/learning-progress-api/internal/dto"
	"github.com/noah-isme/learning-progress-api/internal/middleware"
	"github.com/noah-isme/learning-progress-api/internal/models"
	"github.com/noah-isme/learning-progress-api/internal/service"
	appErrors "github.com/noah-isme/learning-progress-api/pkg/errors"
	"github.com/noah-isme/learning-progress-api/pkg/export"
	"github.com/noah-isme/learning-progress-api/pkg/response"
)

type classAnalyticsService interface {
	Roster(ctx context.Context, classID string) (*models.ClassRoster, error)
	Aggregate(ctx context.Context, roster models.ClassRoster, period models.AnalyticsPeriod) (*models.ClassReport, error)
}

type alertService interface {
	Detect(ctx context.Context, studentIDs []string) ([]models.StudentAlert, error)
}

type studentAnalyticsService interface {
	StudentAnalytics(ctx context.Context, studentID string) (*models.StudentAnalytics, error)
}

type reportExporter interface {
	ExportClassReport(report *models.ClassReport, format export.Format) (*service.ExportResult, error)
}

// AnalyticsHandlerParams groups handler dependencies.
type AnalyticsHandlerParams struct {
	Classes   classAnalyticsService
	Alerts    alertService
	Students  studentAnalyticsService
	Exporter  reportExporter
	Validator *validator.Validate
}

// AnalyticsHandler serves classroom and student analytics.
type AnalyticsHandler struct {
	classes   classAnalyticsService
	alerts    alertService
	students  studentAnalyticsService
	exporter  reportExporter
	validator *validator.Validate
}

// NewAnalyticsHandler constructs the handler. A nil exporter disables the export endpoint.
func NewAnalyticsHandler(params AnalyticsHandlerParams) *AnalyticsHandler {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	return &AnalyticsHandler{
		classes:   params.Classes,
		alerts:    params.Alerts,
		students:  params.Students,
		exporter:  params.Exporter,
		validator: validate,
	}
}

// Class godoc
// @Summary Class analytics for the teacher dashboard
// @Tags Analytics
// @Produce json
// @Param id path string true "Class ID"
// @Param period query string false "week|month"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{id}/analytics [get]
func (h *AnalyticsHandler) Class(c *gin.Context) {
	var query dto.ClassAnalyticsQuery
	if !h.bindQuery(c, &query) {
		return
	}
	roster, ok := h.authorizedRoster(c)
	if !ok {
		return
	}
	report, err := h.classes.Aggregate(c.Request.Context(), *roster, query.AnalyticsPeriod())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report.Analytics, middleware.ExtractMeta(c))
}

// Alerts godoc
// @Summary Students needing attention in a class
// @Tags Analytics
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/alerts [get]
func (h *AnalyticsHandler) Alerts(c *gin.Context) {
	roster, ok := h.authorizedRoster(c)
	if !ok {
		return
	}
	alerts, err := h.alerts.Detect(c.Request.Context(), roster.StudentIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "total", len(alerts))
	response.JSON(c, http.StatusOK, alerts, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Download the per-student class report
// @Tags Analytics
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Class ID"
// @Param period query string false "week|month"
// @Param format query string false "csv|pdf"
// @Success 200 {file} file
// @Router /classes/{id}/analytics/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}
	var query dto.ClassExportQuery
	if !h.bindQuery(c, &query) {
		return
	}
	roster, ok := h.authorizedRoster(c)
	if !ok {
		return
	}
	report, err := h.classes.Aggregate(c.Request.Context(), *roster, query.AnalyticsPeriod())
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exporter.ExportClassReport(report, export.Format(query.ExportFormat()))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, result.Filename, result.ContentType, result.Payload)
}

// Student godoc
// @Summary Student analytics
// @Tags Analytics
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/analytics [get]
func (h *AnalyticsHandler) Student(c *gin.Context) {
	if h.students == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	studentID := strings.TrimSpace(c.Param("id"))
	if studentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student id is required"))
		return
	}
	analytics, err := h.students.StudentAnalytics(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analytics, middleware.ExtractMeta(c))
}

func (h *AnalyticsHandler) bindQuery(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindQuery(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return false
	}
	if err := h.validator.Struct(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, dto.ValidationMessage(err)))
		return false
	}
	return true
}

// authorizedRoster resolves the class and checks the caller is an admin or the class teacher.
func (h *AnalyticsHandler) authorizedRoster(c *gin.Context) (*models.ClassRoster, bool) {
	if h.classes == nil {
		response.Error(c, appErrors.ErrInternal)
		return nil, false
	}
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	classID := strings.TrimSpace(c.Param("id"))
	if classID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "class id is required"))
		return nil, false
	}
	roster, err := h.classes.Roster(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	if claims.Role != models.RoleAdmin && roster.TeacherID != claims.UserID {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "class belongs to another teacher"))
		return nil, false
	}
	return roster, true
}
