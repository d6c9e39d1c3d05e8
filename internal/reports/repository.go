package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotExportable is returned when a submission has not reached a final
// status yet.
var ErrNotExportable = errors.New("only approved or locked submissions can be exported")

// Repository is the read-only reporting view over the workflow tables.
type Repository interface {
	GetSubmissionReport(ctx context.Context, projectID uuid.UUID) (*SubmissionReport, error)
	GetDashboardSummary(ctx context.Context) (*DashboardSummary, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const submissionReportQuery = `
SELECT p.id AS project_id,
       p.name AS project_name,
       p.organization,
       p.reporting_year,
       p.reporting_period,
       p.status,
       p.scope1_total::text AS scope1_total,
       p.scope2_total::text AS scope2_total,
       p.scope3_total::text AS scope3_total,
       p.total_co2e::text AS total_co2e,
       p.submitted_at,
       p.approved_at,
       p.locked_at
FROM projects p
WHERE p.id = $1`

const reportLinesQuery = `
SELECT cr.criteria_number::text AS criteria_number,
       c.scope,
       c.category,
       ad.quantity::text AS quantity,
       ad.unit,
       c.emission_factor::text AS emission_factor,
       c.gwp::text AS gwp,
       c.emissions_kg::text AS emissions_kg,
       c.emissions_tonnes::text AS emissions_tonnes,
       c.formula_used AS formula
FROM calculations c
JOIN activity_data ad ON ad.id = c.activity_data_id
JOIN criteria cr ON cr.id = c.criteria_id
WHERE c.project_id = $1
  AND c.superseded = false
ORDER BY cr.criteria_number`

func (r *postgresRepository) GetSubmissionReport(ctx context.Context, projectID uuid.UUID) (*SubmissionReport, error) {
	var report SubmissionReport
	if err := r.db.GetContext(ctx, &report, submissionReportQuery, projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("submission %s not found", projectID)
		}
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}
	if report.Status != "APPROVED" && report.Status != "LOCKED" {
		return nil, ErrNotExportable
	}

	if err := r.db.SelectContext(ctx, &report.Lines, reportLinesQuery, projectID); err != nil {
		return nil, fmt.Errorf("failed to load report lines: %w", err)
	}
	return &report, nil
}

func (r *postgresRepository) GetDashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{ByStatus: make(map[string]int64)}

	var counts []statusCount
	err := r.db.SelectContext(ctx, &counts,
		`SELECT status, COUNT(*) AS count FROM projects GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	for _, c := range counts {
		summary.ByStatus[c.Status] = c.Count
		summary.TotalProjects += c.Count
	}

	// Portfolio totals only count finalized submissions.
	err = r.db.GetContext(ctx, summary, `
SELECT COALESCE(SUM(scope1_total), 0)::text AS scope1_total,
       COALESCE(SUM(scope2_total), 0)::text AS scope2_total,
       COALESCE(SUM(scope3_total), 0)::text AS scope3_total,
       COALESCE(SUM(total_co2e), 0)::text AS total_co2e
FROM projects
WHERE status IN ('APPROVED', 'LOCKED')`)
	if err != nil {
		return nil, fmt.Errorf("failed to sum portfolio totals: %w", err)
	}

	err = r.db.SelectContext(ctx, &summary.ByYear, `
SELECT reporting_year,
       COUNT(*) AS projects,
       COALESCE(SUM(total_co2e), 0)::text AS total_co2e
FROM projects
WHERE status IN ('APPROVED', 'LOCKED')
GROUP BY reporting_year
ORDER BY reporting_year DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load yearly totals: %w", err)
	}
	return summary, nil
}
