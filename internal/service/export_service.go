package service

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/learning-progress-api/internal/models"
	"github.com/noah-isme/learning-progress-api/pkg/export"
)

// ExportResult is a rendered class report ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders class reports into downloadable documents.
type ExportService struct {
	renderers map[export.Format]export.Renderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService with the csv and pdf renderers.
func NewExportService(logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		renderers: map[export.Format]export.Renderer{
			export.FormatCSV: export.NewCSVExporter(),
			export.FormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
	}
}

// ExportClassReport renders the per-student breakdown of report in the requested format.
func (s *ExportService) ExportClassReport(report *models.ClassReport, format export.Format) (*ExportResult, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}

	payload, err := renderer.Render(ClassReportDataset(report))
	if err != nil {
		s.logger.Error("render class report", zap.String("class_id", report.Analytics.ClassID), zap.Error(err))
		return nil, fmt.Errorf("render class report: %w", err)
	}

	filename := fmt.Sprintf("class-%s-%s-%s.%s",
		report.Analytics.ClassID, report.Analytics.Period, report.GeneratedAt.Format("20060102"), renderer.Extension())
	return &ExportResult{Filename: filename, ContentType: renderer.ContentType(), Payload: payload}, nil
}

// ClassReportDataset flattens a class report into export rows, one per loaded student.
func ClassReportDataset(report *models.ClassReport) export.Dataset {
	analytics := report.Analytics
	rows := make([][]string, 0, len(report.Students))
	for _, student := range report.Students {
		accuracy := "-"
		if student.QuizScored {
			accuracy = strconv.Itoa(student.Accuracy)
		}
		rows = append(rows, []string{
			student.StudentID,
			student.DisplayName,
			strconv.Itoa(student.WordsLearned),
			strconv.Itoa(student.TimeSpent),
			accuracy,
			strconv.FormatBool(student.Active),
		})
	}
	return export.Dataset{
		Title: fmt.Sprintf("Class %s, last %d days: %d/%d active, avg %d words, %d%% completion",
			analytics.ClassID, analytics.Period.Days(), analytics.ActiveStudents, analytics.TotalStudents,
			analytics.AvgWordsLearned, analytics.CompletionRate),
		Headers: []string{"Student ID", "Name", "Words Learned", "Minutes", "Quiz Accuracy", "Active"},
		Rows:    rows,
	}
}
