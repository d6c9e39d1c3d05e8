package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ghg-portal/reporting-portal-backend/internal/auth"
	"ghg-portal/reporting-portal-backend/internal/projects"
	"ghg-portal/reporting-portal-backend/pkg/workflows"
)

// UserDirectory resolves user contact details. Satisfied by auth.Service.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

// Service fans out workflow events to email, SMS and websocket channels.
// Every delivery is best-effort: failures are logged and swallowed so a
// broken channel can never break a transition.
type Service struct {
	email     EmailSender
	sms       SMSSender
	hub       *Hub
	directory UserDirectory
	logger    *zap.Logger
}

func NewService(email EmailSender, sms SMSSender, hub *Hub, directory UserDirectory, logger *zap.Logger) *Service {
	return &Service{
		email:     email,
		sms:       sms,
		hub:       hub,
		directory: directory,
		logger:    logger,
	}
}

// NotifyTransition implements projects.Notifier.
func (s *Service) NotifyTransition(ctx context.Context, project *projects.Project, from, to workflows.Status, actor auth.Actor) {
	if s.hub != nil {
		s.hub.Broadcast(Event{
			Type:      "status_transition",
			ProjectID: project.ID.String(),
			From:      string(from),
			To:        string(to),
			Actor:     actor.Email,
			Timestamp: time.Now(),
		})
	}

	if s.directory == nil || (s.email == nil && s.sms == nil) {
		return
	}
	owner, err := s.directory.GetUser(ctx, project.CreatedBy)
	if err != nil {
		s.logger.Warn("Failed to resolve submission owner for notification",
			zap.String("project_id", project.ID.String()), zap.Error(err))
		return
	}

	if s.email != nil {
		subject := fmt.Sprintf("[%s] %s: %s", to, project.Name, transitionHeadline(to))
		body := fmt.Sprintf(
			"Submission %q (%d) moved from %s to %s by %s.\n\n%s\n",
			project.Name, project.ReportingYear, from, to, actor.Email, transitionHeadline(to))

		if err := s.email.Send(ctx, owner.Email, subject, body); err != nil {
			s.logger.Warn("Failed to send transition email",
				zap.String("project_id", project.ID.String()),
				zap.String("to", owner.Email),
				zap.Error(err))
		}
	}

	// Review decisions additionally go out by SMS, they need the owner's
	// prompt attention.
	if s.sms != nil && owner.Phone != "" && (to == workflows.StatusApproved || to == workflows.StatusRejected) {
		message := fmt.Sprintf("%s (%d): %s", project.Name, project.ReportingYear, transitionHeadline(to))
		if err := s.sms.Send(ctx, owner.Phone, message); err != nil {
			s.logger.Warn("Failed to send transition SMS",
				zap.String("project_id", project.ID.String()),
				zap.Error(err))
		}
	}
}

func transitionHeadline(to workflows.Status) string {
	switch to {
	case workflows.StatusSubmitted:
		return "The submission has been handed to the calculation team."
	case workflows.StatusUnderCalculation:
		return "Emission calculations are in progress."
	case workflows.StatusPendingReview:
		return "Calculations are complete and awaiting review."
	case workflows.StatusApproved:
		return "The submission has been approved."
	case workflows.StatusRejected:
		return "The submission was rejected. Please correct the data and resubmit."
	case workflows.StatusLocked:
		return "The submission is finalized and locked."
	default:
		return "The submission status changed."
	}
}
