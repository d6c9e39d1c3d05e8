package reports

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionReport is the full read model of one approved or locked
// submission, assembled for export.
type SubmissionReport struct {
	ProjectID       uuid.UUID `db:"project_id"`
	ProjectName     string    `db:"project_name"`
	Organization    string    `db:"organization"`
	ReportingYear   int       `db:"reporting_year"`
	ReportingPeriod string    `db:"reporting_period"`
	Status          string    `db:"status"`

	Scope1Total string `db:"scope1_total"`
	Scope2Total string `db:"scope2_total"`
	Scope3Total string `db:"scope3_total"`
	TotalCO2e   string `db:"total_co2e"`

	SubmittedAt *time.Time `db:"submitted_at"`
	ApprovedAt  *time.Time `db:"approved_at"`
	LockedAt    *time.Time `db:"locked_at"`

	Lines []ReportLine `db:"-"`
}

// ReportLine is one category row of a submission report.
type ReportLine struct {
	CriteriaNumber string `db:"criteria_number"`
	Scope          string `db:"scope"`
	Category       string `db:"category"`
	Quantity       string `db:"quantity"`
	Unit           string `db:"unit"`
	EmissionFactor string `db:"emission_factor"`
	GWP            string `db:"gwp"`
	EmissionsKg    string `db:"emissions_kg"`
	EmissionsT     string `db:"emissions_tonnes"`
	Formula        string `db:"formula"`
}

// DashboardSummary is the cached portfolio-level view.
type DashboardSummary struct {
	TotalProjects int64            `json:"total_projects" db:"-"`
	ByStatus      map[string]int64 `json:"by_status" db:"-"`

	Scope1Total string `json:"scope1_total" db:"scope1_total"`
	Scope2Total string `json:"scope2_total" db:"scope2_total"`
	Scope3Total string `json:"scope3_total" db:"scope3_total"`
	TotalCO2e   string `json:"total_co2e" db:"total_co2e"`

	ByYear      []YearTotal `json:"by_year" db:"-"`
	GeneratedAt time.Time   `json:"generated_at" db:"-"`
}

// YearTotal is one reporting-year slice of finalized emissions.
type YearTotal struct {
	ReportingYear int    `db:"reporting_year" json:"reporting_year"`
	Projects      int64  `db:"projects" json:"projects"`
	TotalCO2e     string `db:"total_co2e" json:"total_co2e"`
}

type statusCount struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
}
