package masterdata

import (
	"time"
)

// Criteria is one of the GHG Protocol reporting categories an organization
// reports activity data against.
type Criteria struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CriteriaNumber int       `gorm:"uniqueIndex;not null" json:"criteria_number"`
	Scope          string    `gorm:"size:20;not null;index" json:"scope"`
	Category       string    `gorm:"size:255;not null" json:"category"`
	Subcategory    string    `gorm:"size:255" json:"subcategory"`
	Description    string    `gorm:"type:text" json:"description"`
	Unit           string    `gorm:"size:50" json:"unit"`
	HelpText       string    `gorm:"type:text" json:"help_text"`
	Example        string    `gorm:"size:255" json:"example"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ReasonCode is a standard rejection reason attached to review decisions.
type ReasonCode struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Category    string    `gorm:"size:100;index" json:"category"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// EmissionFactor is a reference coefficient converting an activity quantity
// into emitted mass (kg CO2e per unit).
type EmissionFactor struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	FactorName  string  `gorm:"size:500;not null" json:"factor_name"`
	Category    string  `gorm:"size:255;not null;index:idx_factor_category_scope" json:"category"`
	Subcategory string  `gorm:"size:255;index" json:"subcategory"`
	Scope       string  `gorm:"size:20;not null;index:idx_factor_category_scope" json:"scope"`
	Factor      float64 `gorm:"not null" json:"emission_factor"`
	Unit        string  `gorm:"size:100;not null" json:"unit"`
	GWP         float64 `gorm:"default:1.0" json:"gwp"`
	Region      string  `gorm:"size:100;index" json:"region"`
	Source      string  `gorm:"size:255" json:"source"`
	Description string  `gorm:"type:text" json:"description"`
	Year        int     `gorm:"index" json:"year"`
	SearchText  string  `gorm:"type:text" json:"-"`
}

// FactorFilter narrows emission factor searches.
type FactorFilter struct {
	Query    string
	Scope    string
	Category string
	Region   string
	Limit    int
}
