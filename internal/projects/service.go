package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ghg-portal/reporting-portal-backend/internal/audit"
	"ghg-portal/reporting-portal-backend/internal/auth"
	"ghg-portal/reporting-portal-backend/internal/calculation"
	"ghg-portal/reporting-portal-backend/internal/collection"
	"ghg-portal/reporting-portal-backend/internal/review"
	"ghg-portal/reporting-portal-backend/pkg/workflows"
)

// Notifier is told about completed transitions after commit. Delivery
// failures never affect the transition outcome.
type Notifier interface {
	NotifyTransition(ctx context.Context, project *Project, from, to workflows.Status, actor auth.Actor)
}

// AuditRecorder is satisfied by audit.Recorder.
type AuditRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, entry audit.Entry) error
	List(ctx context.Context, projectID uuid.UUID) ([]audit.Entry, error)
}

// TxManager runs a function inside one database transaction.
type TxManager interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}

// Service owns submission lifecycle: creation, listing, and the status
// transition engine.
type Service struct {
	tx       TxManager
	repo     Repository
	calcs    calculation.Repository
	lines    collection.Repository
	reviews  review.Repository
	machine  *workflows.StateMachine
	auditor  AuditRecorder
	notifier Notifier
	logger   *zap.Logger
}

func NewService(
	tx TxManager,
	repo Repository,
	calcs calculation.Repository,
	lines collection.Repository,
	reviews review.Repository,
	auditor AuditRecorder,
	notifier Notifier,
	logger *zap.Logger,
) *Service {
	return &Service{
		tx:       tx,
		repo:     repo,
		calcs:    calcs,
		lines:    lines,
		reviews:  reviews,
		machine:  workflows.NewStateMachine(),
		auditor:  auditor,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *Service) Create(ctx context.Context, req CreateProjectRequest, actor auth.Actor) (*Project, error) {
	project := &Project{
		Name:            req.Name,
		Description:     req.Description,
		Organization:    req.Organization,
		ReportingYear:   req.ReportingYear,
		ReportingPeriod: req.ReportingPeriod,
		Status:          workflows.StatusDraft,
		CreatedBy:       actor.UserID,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	if err := s.auditor.Record(ctx, nil, audit.Entry{
		ProjectID: project.ID,
		Action:    "project_created",
		ToStatus:  workflows.StatusDraft,
		UserID:    actor.UserID,
		UserRole:  actor.Role,
	}); err != nil {
		s.logger.Warn("Audit write failed for project creation", zap.Error(err))
	}

	s.logger.Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.Int("reporting_year", project.ReportingYear))
	return project, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ProjectFilter) ([]Project, int64, error) {
	return s.repo.List(ctx, filter)
}

// Delete removes a submission. Locked submissions are permanent records
// and cannot be deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if project.Status == workflows.StatusLocked {
		return fmt.Errorf("locked submissions cannot be deleted")
	}
	return s.repo.Delete(ctx, id)
}

// AllowedTransitions returns the targets the actor may move the project to.
func (s *Service) AllowedTransitions(ctx context.Context, id uuid.UUID, role workflows.Role) ([]workflows.Status, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.machine.AllowedTransitions(project.Status, role), nil
}

// AttemptTransition moves a submission to the target status. The whole
// transition runs in one transaction with the project row locked, so
// concurrent attempts serialize and at most one wins. On any guard failure
// the submission is left untouched.
func (s *Service) AttemptTransition(ctx context.Context, projectID uuid.UUID, req TransitionRequest, actor auth.Actor) (*Project, error) {
	var (
		project *Project
		from    workflows.Status
	)

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		project, err = s.repo.GetForUpdate(tx, projectID)
		if err != nil {
			return err
		}
		from = project.Status

		if err := s.machine.CanTransition(from, req.ToStatus, actor.Role); err != nil {
			return err
		}
		if err := s.applyGuards(ctx, tx, project, req, actor); err != nil {
			return err
		}

		now := time.Now()
		project.Status = req.ToStatus
		s.stampTransition(project, req.ToStatus, now)
		project.UpdatedAt = now

		if err := s.repo.Save(tx, project); err != nil {
			return fmt.Errorf("failed to update project status: %w", err)
		}

		if err := s.auditor.Record(ctx, tx, audit.Entry{
			ProjectID:  project.ID,
			Action:     "status_transition",
			FromStatus: from,
			ToStatus:   req.ToStatus,
			UserID:     actor.UserID,
			UserRole:   actor.Role,
			Comments:   req.Comments,
			ReasonCode: req.ReasonCode,
		}); err != nil {
			// Audit is best-effort; the transition still commits.
			s.logger.Warn("Audit write failed for transition",
				zap.String("project_id", project.ID.String()), zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Status transition",
		zap.String("project_id", project.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(req.ToStatus)),
		zap.String("role", string(actor.Role)))

	if s.notifier != nil {
		s.notifier.NotifyTransition(ctx, project, from, req.ToStatus, actor)
	}
	return project, nil
}

// applyGuards enforces the transition-specific preconditions and writes the
// records that accompany a transition, inside the caller's transaction.
func (s *Service) applyGuards(ctx context.Context, tx *gorm.DB, project *Project, req TransitionRequest, actor auth.Actor) error {
	switch req.ToStatus {
	case workflows.StatusPendingReview:
		uncovered, err := s.calcs.CountUncoveredLines(ctx, project.ID)
		if err != nil {
			return fmt.Errorf("failed to check calculation coverage: %w", err)
		}
		if uncovered > 0 {
			return &workflows.IncompleteCalculationsError{MissingCategories: uncovered}
		}

	case workflows.StatusRejected:
		if req.ReasonCode == "" || req.Comments == "" {
			return &workflows.MissingReviewDataError{Detail: "rejection requires a reason code and comments"}
		}
		rev := &review.Review{
			ProjectID:  project.ID,
			Approved:   false,
			ReasonCode: req.ReasonCode,
			Comments:   req.Comments,
			ReviewerID: actor.UserID,
			CreatedAt:  time.Now(),
		}
		if err := s.reviews.CreateReview(ctx, tx, rev); err != nil {
			return err
		}

	case workflows.StatusApproved:
		if req.Comments == "" {
			return &workflows.MissingReviewDataError{Detail: "approval requires comments"}
		}
		rev := &review.Review{
			ProjectID:  project.ID,
			Approved:   true,
			Comments:   req.Comments,
			ReviewerID: actor.UserID,
			CreatedAt:  time.Now(),
		}
		if err := s.reviews.CreateReview(ctx, tx, rev); err != nil {
			return err
		}

	case workflows.StatusLocked:
		if !req.Confirm || req.Comments == "" {
			return workflows.ErrConfirmationRequired
		}
		snapshot, err := s.buildSnapshot(ctx, project)
		if err != nil {
			return err
		}
		appr := &review.Approval{
			ProjectID:  project.ID,
			Confirmed:  true,
			Comments:   req.Comments,
			Snapshot:   snapshot,
			ApproverID: actor.UserID,
			CreatedAt:  time.Now(),
		}
		if err := s.reviews.CreateApproval(ctx, tx, appr); err != nil {
			return err
		}

	case workflows.StatusSubmitted:
		if project.Status == workflows.StatusRejected {
			// Resubmission invalidates earlier calculation work; the
			// calculator redoes it against the corrected data.
			if err := s.calcs.MarkSuperseded(ctx, project.ID); err != nil {
				return fmt.Errorf("failed to supersede calculations: %w", err)
			}
		}
	}
	return nil
}

// stampTransition sets the per-state timestamp, first arrival only.
func (s *Service) stampTransition(project *Project, to workflows.Status, now time.Time) {
	switch to {
	case workflows.StatusSubmitted:
		if project.SubmittedAt == nil {
			project.SubmittedAt = &now
		}
	case workflows.StatusPendingReview:
		if project.CalculatedAt == nil {
			project.CalculatedAt = &now
		}
	case workflows.StatusApproved:
		if project.ReviewedAt == nil {
			project.ReviewedAt = &now
		}
		if project.ApprovedAt == nil {
			project.ApprovedAt = &now
		}
	case workflows.StatusLocked:
		if project.LockedAt == nil {
			project.LockedAt = &now
		}
	}
}

// projectSnapshot is the frozen record attached to an approval.
type projectSnapshot struct {
	Project      *Project                  `json:"project"`
	ActivityData []collection.ActivityData `json:"activity_data"`
	Calculations []calculation.Calculation `json:"calculations"`
	CapturedAt   time.Time                 `json:"captured_at"`
}

func (s *Service) buildSnapshot(ctx context.Context, project *Project) (datatypes.JSON, error) {
	lines, err := s.lines.ListLines(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity data for snapshot: %w", err)
	}
	calcs, err := s.calcs.ListByProject(ctx, project.ID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load calculations for snapshot: %w", err)
	}
	snapshot := projectSnapshot{
		Project:      project,
		ActivityData: lines,
		Calculations: calcs,
		CapturedAt:   time.Now(),
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return datatypes.JSON(data), nil
}

// AuditTrail returns the full history of a submission.
func (s *Service) AuditTrail(ctx context.Context, projectID uuid.UUID) ([]audit.Entry, error) {
	return s.auditor.List(ctx, projectID)
}
