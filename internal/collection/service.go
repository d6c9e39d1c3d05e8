package collection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ghg-portal/reporting-portal-backend/pkg/workflows"
)

// ProjectStatusGateway exposes the submission status so edits can be gated
// to the states where data entry is allowed.
type ProjectStatusGateway interface {
	GetStatus(ctx context.Context, projectID uuid.UUID) (workflows.Status, error)
}

// ErrNotEditable is returned when activity data is changed outside the
// DRAFT or REJECTED states.
var ErrNotEditable = errors.New("activity data is read-only in the current submission status")

// UpsertLineRequest creates or replaces the activity line for a category.
type UpsertLineRequest struct {
	ProjectID  uuid.UUID       `json:"project_id" binding:"required"`
	CriteriaID uint            `json:"criteria_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	Notes      string          `json:"notes"`
}

// Service manages activity data entry and evidence files.
type Service struct {
	repo     Repository
	projects ProjectStatusGateway
	store    ObjectStore
	bucket   string
	logger   *zap.Logger
}

func NewService(repo Repository, projects ProjectStatusGateway, store ObjectStore, bucket string, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		projects: projects,
		store:    store,
		bucket:   bucket,
		logger:   logger,
	}
}

func (s *Service) ensureEditable(ctx context.Context, projectID uuid.UUID) error {
	status, err := s.projects.GetStatus(ctx, projectID)
	if err != nil {
		return err
	}
	if status != workflows.StatusDraft && status != workflows.StatusRejected {
		return fmt.Errorf("%w: status is %s", ErrNotEditable, status)
	}
	return nil
}

// UpsertLine creates the activity line for a category, or replaces its
// values if one exists. A zero quantity is valid and persisted.
func (s *Service) UpsertLine(ctx context.Context, req UpsertLineRequest, actorID uuid.UUID) (*ActivityData, error) {
	if req.Quantity.IsNegative() {
		return nil, fmt.Errorf("quantity must be non-negative, got %s", req.Quantity)
	}
	if err := s.ensureEditable(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetLineByCriteria(ctx, req.ProjectID, req.CriteriaID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Quantity = req.Quantity
		existing.Unit = req.Unit
		existing.Notes = req.Notes
		existing.UpdatedAt = time.Now()
		if err := s.repo.UpdateLine(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update activity line: %w", err)
		}
		return existing, nil
	}

	line := &ActivityData{
		ProjectID:  req.ProjectID,
		CriteriaID: req.CriteriaID,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		Notes:      req.Notes,
		EnteredBy:  actorID,
		EnteredAt:  time.Now(),
	}
	if err := s.repo.CreateLine(ctx, line); err != nil {
		return nil, fmt.Errorf("failed to create activity line: %w", err)
	}

	s.logger.Info("Activity line created",
		zap.String("project_id", req.ProjectID.String()),
		zap.Uint("criteria_id", req.CriteriaID))
	return line, nil
}

// DeleteLine removes an activity line and its evidence.
func (s *Service) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	line, err := s.repo.GetLine(ctx, lineID)
	if err != nil {
		return err
	}
	if err := s.ensureEditable(ctx, line.ProjectID); err != nil {
		return err
	}

	// Remove stored files first; orphaned objects are worse than orphaned rows.
	for _, ev := range line.Evidence {
		if err := s.store.Delete(ctx, ev.S3Bucket, ev.S3Key); err != nil {
			s.logger.Warn("Failed to delete evidence object",
				zap.String("key", ev.S3Key), zap.Error(err))
		}
	}
	return s.repo.DeleteLine(ctx, lineID)
}

// ListLines returns all activity lines of a submission with evidence.
func (s *Service) ListLines(ctx context.Context, projectID uuid.UUID) ([]ActivityData, error) {
	return s.repo.ListLines(ctx, projectID)
}

// AttachEvidence uploads a file to S3 and records the reference on the line.
func (s *Service) AttachEvidence(ctx context.Context, lineID uuid.UUID, filename, contentType string, size int64, content io.Reader, actorID uuid.UUID) (*Evidence, error) {
	line, err := s.repo.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEditable(ctx, line.ProjectID); err != nil {
		return nil, err
	}

	key := evidenceKey(line.ProjectID.String(), line.ID.String(), filename)
	if err := s.store.Upload(ctx, s.bucket, key, content, contentType); err != nil {
		return nil, err
	}

	ev := &Evidence{
		ProjectID:      line.ProjectID,
		ActivityDataID: line.ID,
		CriteriaID:     line.CriteriaID,
		Filename:       filename,
		S3Bucket:       s.bucket,
		S3Key:          key,
		FileSize:       size,
		ContentType:    contentType,
		UploadedBy:     actorID,
		UploadedAt:     time.Now(),
	}
	if err := s.repo.CreateEvidence(ctx, ev); err != nil {
		// Roll back the upload so storage and records stay consistent.
		if delErr := s.store.Delete(ctx, s.bucket, key); delErr != nil {
			s.logger.Warn("Failed to clean up evidence object after record failure",
				zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to record evidence: %w", err)
	}
	return ev, nil
}

// RemoveEvidence deletes an evidence file and its record.
func (s *Service) RemoveEvidence(ctx context.Context, evidenceID uuid.UUID) error {
	ev, err := s.repo.GetEvidence(ctx, evidenceID)
	if err != nil {
		return err
	}
	if err := s.ensureEditable(ctx, ev.ProjectID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, ev.S3Bucket, ev.S3Key); err != nil {
		s.logger.Warn("Failed to delete evidence object", zap.String("key", ev.S3Key), zap.Error(err))
	}
	return s.repo.DeleteEvidence(ctx, evidenceID)
}

// EvidenceURL returns a presigned download URL for an evidence file.
func (s *Service) EvidenceURL(ctx context.Context, evidenceID uuid.UUID) (string, error) {
	ev, err := s.repo.GetEvidence(ctx, evidenceID)
	if err != nil {
		return "", err
	}
	return s.store.PresignedURL(ctx, ev.S3Bucket, ev.S3Key, 15*time.Minute)
}
