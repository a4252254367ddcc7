package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/audlex/audlex-api/internal/dto"
	"github.com/audlex/audlex-api/internal/models"
	appErrors "github.com/audlex/audlex-api/pkg/errors"
	"github.com/audlex/audlex-api/pkg/export"
)

var reportHeaders = []string{"Fecha", "Hora", "Juzgado", "Carátula", "Demandado", "Modalidad", "Estado", "Asignado", "Testigos"}

type hearingSearcher interface {
	List(ctx context.Context, session *models.SessionClaims, filter models.HearingFilter) ([]dto.HearingView, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title, footer string) ([]byte, error)
}

// ExportResult is a rendered report ready to download.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
	Count       int
}

// ExportService renders hearing search results as downloadable reports.
type ExportService struct {
	hearings hearingSearcher
	csv      csvRenderer
	pdf      pdfRenderer
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers use the defaults.
func NewExportService(hearings hearingSearcher, csv csvRenderer, pdf pdfRenderer, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter(';', true)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{hearings: hearings, csv: csv, pdf: pdf, metrics: metrics, logger: logger, now: time.Now}
}

// Export runs the search and renders the result in format.
func (s *ExportService) Export(ctx context.Context, session *models.SessionClaims, filter models.HearingFilter, format models.ReportFormat) (*ExportResult, error) {
	if format == "" {
		format = models.ReportFormatText
	}
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be one of txt, csv, pdf")
	}

	views, err := s.hearings.List(ctx, session, filter)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no hearings to export")
	}

	now := s.now()
	var payload []byte
	switch format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(reportDataset(views))
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(reportDataset(views), "Reporte de audiencias", "Generado el "+now.Format("02/01/2006 15:04"))
	default:
		payload = export.TextReport(reportEntries(views), now)
	}
	if err != nil {
		s.logger.Error("failed to render report", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to render report")
	}

	s.metrics.RecordExport(string(format))
	return &ExportResult{
		Filename:    export.ReportFilename(now, string(format)),
		ContentType: format.ContentType(),
		Payload:     payload,
		Count:       len(views),
	}, nil
}

func reportEntries(views []dto.HearingView) []export.HearingEntry {
	entries := make([]export.HearingEntry, 0, len(views))
	for _, v := range views {
		entry := export.HearingEntry{
			Date:         v.Date,
			Time:         v.Time,
			CourtNumber:  v.CourtNumber,
			Caption:      v.Caption,
			AssignedUser: v.AssignedUserName,
			Details:      derefString(v.Details),
			Info:         derefString(v.Info),
		}
		for _, w := range v.Witnesses {
			entry.Witnesses = append(entry.Witnesses, export.WitnessEntry{
				FirstName: w.FirstName,
				LastName:  w.LastName,
				Phone:     w.Phone,
				Flagged:   w.Flagged,
				Difficult: w.Difficult,
			})
		}
		entries = append(entries, entry)
	}
	return entries
}

func reportDataset(views []dto.HearingView) export.Dataset {
	rows := make([]map[string]string, 0, len(views))
	for _, v := range views {
		names := make([]string, 0, len(v.Witnesses))
		for _, w := range v.Witnesses {
			names = append(names, w.FullName())
		}
		rows = append(rows, map[string]string{
			"Fecha":     v.Date,
			"Hora":      v.Time,
			"Juzgado":   strconv.Itoa(v.CourtNumber),
			"Carátula":  v.Caption,
			"Demandado": v.OpposingParty,
			"Modalidad": string(v.Modality),
			"Estado":    string(v.Status),
			"Asignado":  v.AssignedUserName,
			"Testigos":  strings.Join(names, ", "),
		})
	}
	return export.Dataset{Headers: reportHeaders, Rows: rows}
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
