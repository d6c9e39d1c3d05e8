package projects

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ghg-portal/reporting-portal-backend/pkg/workflows"
)

// Project is one reporting submission: the organisation's emissions data
// for one reporting period, moving through the four-level workflow.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`

	Organization    string `gorm:"size:255" json:"organization"`
	ReportingYear   int    `gorm:"not null" json:"reporting_year"`
	ReportingPeriod string `gorm:"size:50" json:"reporting_period"`

	Status workflows.Status `gorm:"size:30;not null;default:'DRAFT';index" json:"status"`

	// Aggregated totals in tonnes CO2e, refreshed whenever line
	// calculations change.
	Scope1Total decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"scope1_total"`
	Scope2Total decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"scope2_total"`
	Scope3Total decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"scope3_total"`
	TotalCO2e   decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0" json:"total_co2e"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`

	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
	CalculatedAt *time.Time `json:"calculated_at,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	LockedAt     *time.Time `json:"locked_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

// CreateProjectRequest is the payload for creating a new submission.
type CreateProjectRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	Organization    string `json:"organization"`
	ReportingYear   int    `json:"reporting_year" binding:"required"`
	ReportingPeriod string `json:"reporting_period"`
}

// TransitionRequest asks to move a submission to a new status.
type TransitionRequest struct {
	ToStatus   workflows.Status `json:"to_status" binding:"required"`
	Comments   string           `json:"comments"`
	ReasonCode string           `json:"reason_code"`
	// Confirm must be true for the APPROVED to LOCKED transition.
	Confirm bool `json:"confirm"`
}

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	Status        workflows.Status
	ReportingYear int
	CreatedBy     uuid.UUID
	Limit         int
	Offset        int
}
