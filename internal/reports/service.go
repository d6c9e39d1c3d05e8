package reports

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dashboardCacheKey = "dashboard_summary"

// Service assembles exports and the cached dashboard view.
type Service struct {
	repo   Repository
	xlsx   *XLSXExporter
	pdf    *PDFExporter
	cache  *summaryCache
	logger *zap.Logger
}

func NewService(repo Repository, cacheTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		xlsx:   NewXLSXExporter(),
		pdf:    NewPDFExporter(),
		cache:  newSummaryCache(cacheTTL),
		logger: logger,
	}
}

// ExportXLSX writes the submission report workbook to w.
func (s *Service) ExportXLSX(ctx context.Context, projectID uuid.UUID, w io.Writer) error {
	report, err := s.repo.GetSubmissionReport(ctx, projectID)
	if err != nil {
		return err
	}
	return s.xlsx.Export(report, w)
}

// ExportPDF writes the submission report document to w.
func (s *Service) ExportPDF(ctx context.Context, projectID uuid.UUID, w io.Writer) error {
	report, err := s.repo.GetSubmissionReport(ctx, projectID)
	if err != nil {
		return err
	}
	return s.pdf.Export(report, w)
}

// Dashboard returns the portfolio summary, served from cache while fresh.
func (s *Service) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	if cached, ok := s.cache.Get(dashboardCacheKey); ok {
		return cached, nil
	}
	return s.RefreshDashboard(ctx)
}

// RefreshDashboard recomputes the summary and replaces the cached copy.
// Also called on a schedule by the maintenance worker.
func (s *Service) RefreshDashboard(ctx context.Context) (*DashboardSummary, error) {
	summary, err := s.repo.GetDashboardSummary(ctx)
	if err != nil {
		return nil, err
	}
	summary.GeneratedAt = time.Now()
	s.cache.Set(dashboardCacheKey, summary)
	s.logger.Debug("Dashboard summary refreshed",
		zap.Int64("total_projects", summary.TotalProjects))
	return summary, nil
}
