package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ghg-portal/reporting-portal-backend/pkg/workflows"
)

// Entry is one immutable audit log row. Rows are append-only; nothing
// updates or deletes them.
type Entry struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"project_id"`
	Action     string           `gorm:"size:100;not null;index" json:"action"`
	FromStatus workflows.Status `gorm:"size:50" json:"from_status"`
	ToStatus   workflows.Status `gorm:"size:50;index" json:"to_status"`
	UserID     uuid.UUID        `gorm:"type:uuid;not null" json:"user_id"`
	UserRole   workflows.Role   `gorm:"size:10;not null" json:"user_role"`
	Comments   string           `gorm:"type:text" json:"comments"`
	ReasonCode string           `gorm:"size:50" json:"reason_code"`
	Context    datatypes.JSON   `json:"context_data"`
	CreatedAt  time.Time        `gorm:"index" json:"created_at"`
}

func (Entry) TableName() string { return "audit_logs" }

// Recorder persists audit entries. Recording is best-effort from the
// workflow's point of view: a failed write is logged, never propagated into
// the transition outcome.
type Recorder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewRecorder(db *gorm.DB, logger *zap.Logger) *Recorder {
	return &Recorder{db: db, logger: logger}
}

// Record writes one audit entry inside the given transaction handle when one
// is supplied, or the recorder's own connection otherwise.
func (r *Recorder) Record(ctx context.Context, tx *gorm.DB, entry Entry) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		r.logger.Error("Failed to record audit entry",
			zap.String("project_id", entry.ProjectID.String()),
			zap.String("action", entry.Action),
			zap.Error(err))
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// List returns the audit trail for a project, oldest first.
func (r *Recorder) List(ctx context.Context, projectID uuid.UUID) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
