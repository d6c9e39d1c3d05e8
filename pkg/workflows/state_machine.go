package workflows

import "fmt"

// Status is a submission lifecycle state.
type Status string

const (
	StatusDraft            Status = "DRAFT"
	StatusSubmitted        Status = "SUBMITTED"
	StatusUnderCalculation Status = "UNDER_CALCULATION"
	StatusPendingReview    Status = "PENDING_REVIEW"
	StatusApproved         Status = "APPROVED"
	StatusRejected         Status = "REJECTED"
	StatusLocked           Status = "LOCKED"
)

// Role is a workflow actor level.
type Role string

const (
	RoleDataEntry  Role = "L1"
	RoleCalculator Role = "L2"
	RoleReviewer   Role = "L3"
	RoleApprover   Role = "L4"
)

type transition struct {
	From Status
	To   Status
}

// StateMachine enforces project status transitions gated by actor role.
type StateMachine struct {
	allowedRoles map[transition][]Role
}

// NewStateMachine creates a state machine with the fixed transition table.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		allowedRoles: map[transition][]Role{
			{StatusDraft, StatusSubmitted}:                {RoleDataEntry},
			{StatusSubmitted, StatusUnderCalculation}:     {RoleCalculator},
			{StatusSubmitted, StatusDraft}:                {RoleDataEntry, RoleCalculator},
			{StatusUnderCalculation, StatusPendingReview}: {RoleCalculator},
			{StatusUnderCalculation, StatusSubmitted}:     {RoleCalculator},
			{StatusPendingReview, StatusApproved}:         {RoleReviewer},
			{StatusPendingReview, StatusRejected}:         {RoleReviewer},
			{StatusRejected, StatusSubmitted}:             {RoleDataEntry},
			{StatusApproved, StatusLocked}:                {RoleApprover},
		},
	}
}

// CanTransition checks whether the status pair is permitted for the role.
// Self-transitions are never in the table, so they always fail.
func (sm *StateMachine) CanTransition(from, to Status, role Role) error {
	roles, exists := sm.allowedRoles[transition{from, to}]
	if !exists {
		return &InvalidTransitionError{From: from, To: to}
	}
	for _, r := range roles {
		if r == role {
			return nil
		}
	}
	return &InvalidTransitionError{From: from, To: to, Role: role}
}

// AllowedTransitions returns the target statuses reachable from the given
// status by the given role.
func (sm *StateMachine) AllowedTransitions(from Status, role Role) []Status {
	var targets []Status
	for t, roles := range sm.allowedRoles {
		if t.From != from {
			continue
		}
		for _, r := range roles {
			if r == role {
				targets = append(targets, t.To)
				break
			}
		}
	}
	return targets
}

// IsTerminal reports whether no transition leaves the status.
func (sm *StateMachine) IsTerminal(s Status) bool {
	for t := range sm.allowedRoles {
		if t.From == s {
			return false
		}
	}
	return true
}

// ValidStatus reports whether s is one of the defined lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderCalculation,
		StatusPendingReview, StatusApproved, StatusRejected, StatusLocked:
		return true
	}
	return false
}

// ValidRole reports whether r is one of the defined workflow roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleDataEntry, RoleCalculator, RoleReviewer, RoleApprover:
		return true
	}
	return false
}

// InvalidTransitionError is returned when a status pair is not in the
// transition table or the actor role is not permitted for it.
type InvalidTransitionError struct {
	From Status
	To   Status
	Role Role
}

func (e *InvalidTransitionError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("role %s does not have permission to transition from %s to %s", e.Role, e.From, e.To)
	}
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// IncompleteCalculationsError is returned when a submission is moved past the
// calculation phase while activity lines without calculations remain.
type IncompleteCalculationsError struct {
	MissingCategories int
}

func (e *IncompleteCalculationsError) Error() string {
	return fmt.Sprintf("%d activity categories have no calculation", e.MissingCategories)
}

// MissingReviewDataError is returned when a review decision lacks required
// comments or, for rejections, a reason code.
type MissingReviewDataError struct {
	Detail string
}

func (e *MissingReviewDataError) Error() string {
	return "missing review data: " + e.Detail
}

// ErrConfirmationRequired is returned when a lock is attempted without the
// explicit confirmation flag.
var ErrConfirmationRequired = fmt.Errorf("lock requires explicit confirmation")
