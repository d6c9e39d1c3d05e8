package calculation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Calculation is one computed emissions result tied to an activity data line.
// Lines from a previous submission cycle are marked superseded instead of
// deleted, so review history stays reconstructible.
type Calculation struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID      uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	ActivityDataID uuid.UUID `gorm:"type:uuid;not null;index" json:"activity_data_id"`
	CriteriaID     uint      `gorm:"not null;index" json:"criteria_id"`

	// Inputs
	ActivityQuantity     decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"activity_quantity"`
	EmissionFactor       decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"emission_factor"`
	EmissionFactorID     *uint           `json:"emission_factor_id,omitempty"`
	EmissionFactorSource string          `gorm:"size:255" json:"emission_factor_source"`
	GWP                  decimal.Decimal `gorm:"type:numeric(20,6);default:1.0" json:"gwp"`
	UnitConversion       decimal.Decimal `gorm:"type:numeric(20,6);default:1.0" json:"unit_conversion"`

	// Results
	EmissionsKg     decimal.Decimal `gorm:"type:numeric(24,6);not null" json:"emissions_kg"`
	EmissionsTonnes decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"emissions_tco2e"`

	Scope    string `gorm:"size:20;not null;index" json:"scope"`
	Category string `gorm:"size:255;not null" json:"category"`

	FormulaUsed string         `gorm:"size:255" json:"formula_used"`
	Breakdown   datatypes.JSON `json:"calculation_breakdown"`

	Superseded bool `gorm:"not null;default:false;index" json:"superseded"`

	CalculatedBy uuid.UUID `gorm:"type:uuid" json:"calculated_by"`
	CalculatedAt time.Time `json:"calculated_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Notes        string    `gorm:"type:text" json:"notes"`
}

// CoverageSummary reports how many activity lines still lack a current
// calculation. Used by the workflow guard before PENDING_REVIEW.
type CoverageSummary struct {
	TotalLines     int `json:"total_lines"`
	CoveredLines   int `json:"covered_lines"`
	UncoveredLines int `json:"uncovered_lines"`
}
