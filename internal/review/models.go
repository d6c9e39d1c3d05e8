package review

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Review is one reviewer verdict on a submission in PENDING_REVIEW.
// Rows are immutable once written.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`

	Approved    bool   `gorm:"not null" json:"approved"`
	ReasonCode  string `gorm:"size:50" json:"reason_code,omitempty"`
	Comments    string `gorm:"type:text;not null" json:"comments"`
	Suggestions string `gorm:"type:text" json:"suggestions,omitempty"`

	ReviewerID uuid.UUID `gorm:"type:uuid;not null" json:"reviewer_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Review) TableName() string { return "reviews" }

// Approval is the final sign-off that locks a submission. Exactly one per
// project, carrying a frozen snapshot of the data as approved.
type Approval struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"project_id"`

	Confirmed bool           `gorm:"not null" json:"confirmed"`
	Comments  string         `gorm:"type:text;not null" json:"comments"`
	Snapshot  datatypes.JSON `gorm:"not null" json:"snapshot"`

	ApproverID uuid.UUID `gorm:"type:uuid;not null" json:"approver_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Approval) TableName() string { return "approvals" }
