package collection

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActivityData is one data point for one reporting category within a
// submission. Editable only while the submission is in DRAFT or REJECTED.
type ActivityData struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_activity_project_criteria,unique" json:"project_id"`
	CriteriaID uint            `gorm:"not null;index:idx_activity_project_criteria,unique" json:"criteria_id"`
	Quantity   decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"quantity"`
	Unit       string          `gorm:"size:50" json:"unit"`
	Notes      string          `gorm:"type:text" json:"notes"`

	EvidenceCount int `gorm:"not null;default:0" json:"evidence_count"`

	EnteredBy uuid.UUID `gorm:"type:uuid" json:"entered_by"`
	EnteredAt time.Time `json:"entered_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Evidence rows are owned by the line and cascade-delete with it.
	Evidence []Evidence `gorm:"foreignKey:ActivityDataID;constraint:OnDelete:CASCADE" json:"evidence,omitempty"`
}

func (ActivityData) TableName() string { return "activity_data" }

// Evidence is the metadata of one supporting file stored in S3. The core
// records references only, never file bytes.
type Evidence struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID      uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	ActivityDataID uuid.UUID `gorm:"type:uuid;not null;index" json:"activity_data_id"`
	CriteriaID     uint      `gorm:"not null" json:"criteria_id"`

	Filename    string `gorm:"size:500;not null" json:"filename"`
	S3Bucket    string `gorm:"size:255;not null" json:"-"`
	S3Key       string `gorm:"size:1000;not null" json:"-"`
	FileSize    int64  `gorm:"not null" json:"file_size"`
	ContentType string `gorm:"size:100" json:"content_type"`

	UploadedBy uuid.UUID `gorm:"type:uuid" json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func (Evidence) TableName() string { return "evidence" }
