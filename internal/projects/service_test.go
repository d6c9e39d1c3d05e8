package projects

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ghg-portal/reporting-portal-backend/internal/audit"
	"ghg-portal/reporting-portal-backend/internal/auth"
	"ghg-portal/reporting-portal-backend/internal/calculation"
	"ghg-portal/reporting-portal-backend/internal/collection"
	"ghg-portal/reporting-portal-backend/internal/review"
	"ghg-portal/reporting-portal-backend/pkg/workflows"
)

// stubTxManager runs the function directly; repository mocks accept the
// nil transaction handle.
type stubTxManager struct{}

func (stubTxManager) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type mockProjectRepo struct {
	mock.Mock
}

func (m *mockProjectRepo) Create(ctx context.Context, p *Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Project), args.Error(1)
}

func (m *mockProjectRepo) GetForUpdate(tx *gorm.DB, id uuid.UUID) (*Project, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Project), args.Error(1)
}

func (m *mockProjectRepo) Save(tx *gorm.DB, p *Project) error {
	return m.Called(tx, p).Error(0)
}

func (m *mockProjectRepo) Update(ctx context.Context, p *Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProjectRepo) List(ctx context.Context, filter ProjectFilter) ([]Project, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Project), args.Get(1).(int64), args.Error(2)
}

func (m *mockProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockCalcRepo struct {
	mock.Mock
}

func (m *mockCalcRepo) Create(ctx context.Context, c *calculation.Calculation) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCalcRepo) Update(ctx context.Context, c *calculation.Calculation) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCalcRepo) GetByID(ctx context.Context, id uuid.UUID) (*calculation.Calculation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*calculation.Calculation), args.Error(1)
}

func (m *mockCalcRepo) ListByProject(ctx context.Context, projectID uuid.UUID, includeSuperseded bool) ([]calculation.Calculation, error) {
	args := m.Called(ctx, projectID, includeSuperseded)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]calculation.Calculation), args.Error(1)
}

func (m *mockCalcRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCalcRepo) Replace(ctx context.Context, oldID uuid.UUID, replacement *calculation.Calculation) error {
	return m.Called(ctx, oldID, replacement).Error(0)
}

func (m *mockCalcRepo) CountUncoveredLines(ctx context.Context, projectID uuid.UUID) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}

func (m *mockCalcRepo) MarkSuperseded(ctx context.Context, projectID uuid.UUID) error {
	return m.Called(ctx, projectID).Error(0)
}

type mockLineRepo struct {
	mock.Mock
}

func (m *mockLineRepo) CreateLine(ctx context.Context, line *collection.ActivityData) error {
	return m.Called(ctx, line).Error(0)
}

func (m *mockLineRepo) UpdateLine(ctx context.Context, line *collection.ActivityData) error {
	return m.Called(ctx, line).Error(0)
}

func (m *mockLineRepo) GetLine(ctx context.Context, id uuid.UUID) (*collection.ActivityData, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collection.ActivityData), args.Error(1)
}

func (m *mockLineRepo) GetLineByCriteria(ctx context.Context, projectID uuid.UUID, criteriaID uint) (*collection.ActivityData, error) {
	args := m.Called(ctx, projectID, criteriaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collection.ActivityData), args.Error(1)
}

func (m *mockLineRepo) ListLines(ctx context.Context, projectID uuid.UUID) ([]collection.ActivityData, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]collection.ActivityData), args.Error(1)
}

func (m *mockLineRepo) DeleteLine(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockLineRepo) CreateEvidence(ctx context.Context, ev *collection.Evidence) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *mockLineRepo) GetEvidence(ctx context.Context, id uuid.UUID) (*collection.Evidence, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*collection.Evidence), args.Error(1)
}

func (m *mockLineRepo) DeleteEvidence(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) CreateReview(ctx context.Context, tx *gorm.DB, rev *review.Review) error {
	return m.Called(ctx, tx, rev).Error(0)
}

func (m *mockReviewRepo) CreateApproval(ctx context.Context, tx *gorm.DB, appr *review.Approval) error {
	return m.Called(ctx, tx, appr).Error(0)
}

func (m *mockReviewRepo) ListReviews(ctx context.Context, projectID uuid.UUID) ([]review.Review, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *mockReviewRepo) GetApproval(ctx context.Context, projectID uuid.UUID) (*review.Approval, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Approval), args.Error(1)
}

type mockAuditRecorder struct {
	mock.Mock
}

func (m *mockAuditRecorder) Record(ctx context.Context, tx *gorm.DB, entry audit.Entry) error {
	return m.Called(ctx, tx, entry).Error(0)
}

func (m *mockAuditRecorder) List(ctx context.Context, projectID uuid.UUID) ([]audit.Entry, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.Entry), args.Error(1)
}

type transitionFixture struct {
	repo    *mockProjectRepo
	calcs   *mockCalcRepo
	lines   *mockLineRepo
	reviews *mockReviewRepo
	auditor *mockAuditRecorder
	service *Service
}

func newFixture() *transitionFixture {
	f := &transitionFixture{
		repo:    new(mockProjectRepo),
		calcs:   new(mockCalcRepo),
		lines:   new(mockLineRepo),
		reviews: new(mockReviewRepo),
		auditor: new(mockAuditRecorder),
	}
	f.service = NewService(stubTxManager{}, f.repo, f.calcs, f.lines, f.reviews, f.auditor, nil, zap.NewNop())
	return f
}

func actorWith(role workflows.Role) auth.Actor {
	return auth.Actor{UserID: uuid.New(), Email: "user@example.com", Role: role}
}

func projectIn(status workflows.Status) *Project {
	return &Project{
		ID:            uuid.New(),
		Name:          "FY2026 GHG Inventory",
		ReportingYear: 2026,
		Status:        status,
	}
}

func TestSubmitFromDraft(t *testing.T) {
	f := newFixture()
	project := projectIn(workflows.StatusDraft)

	f.repo.On("GetForUpdate", (*gorm.DB)(nil), project.ID).Return(project, nil)
	f.repo.On("Save", (*gorm.DB)(nil), project).Return(nil)
	f.auditor.On("Record", mock.Anything, (*gorm.DB)(nil), mock.AnythingOfType("audit.Entry")).Return(nil)

	got, err := f.service.AttemptTransition(context.Background(), project.ID,
		TransitionRequest{ToStatus: workflows.StatusSubmitted}, actorWith(workflows.RoleDataEntry))

	require.NoError(t, err)
	assert.Equal(t, workflows.StatusSubmitted, got.Status)
	require.NotNil(t, got.SubmittedAt)
	f.repo.AssertExpectations(t)
}

func TestTransitionRejectsWrongRole(t *testing.T) {
	f := newFixture()
	project := projectIn(workflows.StatusDraft)
	f.repo.On("GetForUpdate", (*gorm.DB)(nil), project.ID).Return(project, nil)

	_, err := f.service.AttemptTransition(context.Background(), project.ID,
		TransitionRequest{ToStatus: workflows.StatusSubmitted}, actorWith(workflows.RoleReviewer))

	var invalid *workflows.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, workflows.StatusDraft, project.Status)
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestApproveDirectlyFromSubmittedFails(t *testing.T) {
	f := newFixture()
	project := projectIn(workflows.StatusSubmitted)
	f.repo.On("GetForUpdate", (*gorm.DB)(nil), project.ID).Return(project, nil)

	_, err := f.service.AttemptTransition(context.Background(), project.ID,
		TransitionRequest{ToStatus: workflows.StatusApproved, Comments: "looks fine"},
		actorWith(workflows.RoleReviewer))

	var invalid *workflows.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	f.reviews.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestPendingReviewBlockedByIncompleteCoverage(t *testing.T) {
	f := newFixture()
	project := projectIn(workflows.StatusUnderCalculation)
	f.repo.On("GetForUpdate", (*gorm.DB)(nil), project.ID).Return(project, nil)
	f.calcs.On("CountUncoveredLines", mock.Anything, project.ID).Return(3, nil)

	_, err := f.service.AttemptTransition(context.Background(), project.ID,
		TransitionRequest{ToStatus: workflows.StatusPendingReview},
		actorWith(workflows.RoleCalculator))

	var incomplete *workflows.IncompleteCalculationsError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 3, incomplete.MissingCategories)
	assert.Equal(t, workflows.StatusUnderCalculation, project.Status)
}

func TestPendingReviewSetsCalculatedAt(t *testing.T) {
	f := newFixture()
	project := projectIn(workflows.StatusUnderCalculation)
	f.repo.On("GetForUpdate", (*gorm.DB)(nil), project.ID).Return(project, nil)
	f.repo.On("Save", (*gorm.DB)(nil), project).Return(nil)
	f.calcs.On("CountUncoveredLines", mock.Anything, project.ID).Return(0, nil)
	f.auditor.On("Record", mock.Anything, (*gorm.DB)(nil), mock.Anything).Return(nil)

	got, err := f.service.AttemptTransition(context.Background(), project.ID,
		TransitionRequest{ToStatus: workflows.StatusPendingReview},
		actorWith(workflows.RoleCalculator))

	require.NoError(t, err)
	require.NotNil(t, got.CalculatedAt)
}

func TestRejectionRequiresReasonCodeAndComments(t *testing.T) {
	cases := []struct {
		name string
		req  TransitionRequest
	}{
		{"missing both", TransitionRequest{ToStatus: workflows.StatusRejected}},
		{"missing reason code", TransitionRequest{ToStatus: workflows.StatusRejected, Comments: "bad data"}},
		{"missing comments", TransitionRequest{ToStatus: workflows.StatusRejected, ReasonCode: "DQ001"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			project := projectIn(workflows.StatusPendingReview)
			f.repo.On("GetForUpdate", (*gorm.DB)(nil), project.ID).Return(project, nil)

			_, err := f.service.AttemptTransition(context.Background(), project.ID, tc.req,
				actorWith(workflows.RoleReviewer))

			var missing *workflows.MissingReviewDataError
			require.ErrorAs(t, err, &missing)
			f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestRejectionRecordsReview(t *testing.T) {
	f := newFixture()
	project := projectIn(workflows.StatusPendingReview)
	actor := actorWith(workflows.RoleReviewer)

	f.repo.On("GetForUpdate", (*gorm.DB)(nil), project.ID).Return(project, nil)
	f.repo.On("Save", (*gorm.DB)(nil), project).Return(nil)
	f.reviews.On("CreateReview", mock.Anything, (*gorm.DB)(nil), mock.MatchedBy(func(rev *review.Review) bool {
		return !rev.Approved && rev.ReasonCode == "DQ001" && rev.Comments == "activity data does not match evidence"
	})).Return(nil)
	f.auditor.On("Record", mock.Anything, (*gorm.DB)(nil), mock.Anything).Return(nil)

	got, err := f.service.AttemptTransition(context.Background(), project.ID,
		TransitionRequest{
			ToStatus:   workflows.StatusRejected,
			ReasonCode: "DQ001",
			Comments:   "activity data does not match evidence",
		}, actor)

	require.NoError(t, err)
	assert.Equal(t, workflows.StatusRejected, got.Status)
	f.reviews.AssertExpectations(t)
}

func TestApprovalSetsBothTimestampsAndRecordsReview(t *testing.T) {
	f := newFixture()
	project := projectIn(workflows.StatusPendingReview)

	f.repo.On("GetForUpdate", (*gorm.DB)(nil), project.ID).Return(project, nil)
	f.repo.On("Save", (*gorm.DB)(nil), project).Return(nil)
	f.reviews.On("CreateReview", mock.Anything, (*gorm.DB)(nil), mock.MatchedBy(func(rev *review.Review) bool {
		return rev.Approved && rev.Comments == "verified against evidence"
	})).Return(nil)
	f.auditor.On("Record", mock.Anything, (*gorm.DB)(nil), mock.Anything).Return(nil)

	got, err := f.service.AttemptTransition(context.Background(), project.ID,
		TransitionRequest{ToStatus: workflows.StatusApproved, Comments: "verified against evidence"},
		actorWith(workflows.RoleReviewer))

	require.NoError(t, err)
	require.NotNil(t, got.ReviewedAt)
	require.NotNil(t, got.ApprovedAt)
	assert.Equal(t, *got.ReviewedAt, *got.ApprovedAt)
}

func TestLockRequiresConfirmation(t *testing.T) {
	f := newFixture()
	project := projectIn(workflows.StatusApproved)
	f.repo.On("GetForUpdate", (*gorm.DB)(nil), project.ID).Return(project, nil)

	_, err := f.service.AttemptTransition(context.Background(), project.ID,
		TransitionRequest{ToStatus: workflows.StatusLocked, Comments: "final"},
		actorWith(workflows.RoleApprover))

	require.ErrorIs(t, err, workflows.ErrConfirmationRequired)
	f.reviews.AssertNotCalled(t, "CreateApproval", mock.Anything, mock.Anything, mock.Anything)
}

func TestLockCapturesSnapshot(t *testing.T) {
	f := newFixture()
	project := projectIn(workflows.StatusApproved)
	project.TotalCO2e = decimal.RequireFromString("0.268")

	f.repo.On("GetForUpdate", (*gorm.DB)(nil), project.ID).Return(project, nil)
	f.repo.On("Save", (*gorm.DB)(nil), project).Return(nil)
	f.lines.On("ListLines", mock.Anything, project.ID).Return([]collection.ActivityData{
		{ID: uuid.New(), ProjectID: project.ID, CriteriaID: 1, Quantity: decimal.NewFromInt(100)},
	}, nil)
	f.calcs.On("ListByProject", mock.Anything, project.ID, false).Return([]calculation.Calculation{
		{ID: uuid.New(), ProjectID: project.ID, CriteriaID: 1},
	}, nil)
	f.reviews.On("CreateApproval", mock.Anything, (*gorm.DB)(nil), mock.MatchedBy(func(appr *review.Approval) bool {
		return appr.Confirmed && len(appr.Snapshot) > 0
	})).Return(nil)
	f.auditor.On("Record", mock.Anything, (*gorm.DB)(nil), mock.Anything).Return(nil)

	got, err := f.service.AttemptTransition(context.Background(), project.ID,
		TransitionRequest{ToStatus: workflows.StatusLocked, Comments: "final sign-off", Confirm: true},
		actorWith(workflows.RoleApprover))

	require.NoError(t, err)
	assert.Equal(t, workflows.StatusLocked, got.Status)
	require.NotNil(t, got.LockedAt)
	f.reviews.AssertExpectations(t)
}

func TestLockedIsTerminal(t *testing.T) {
	f := newFixture()
	project := projectIn(workflows.StatusLocked)
	f.repo.On("GetForUpdate", (*gorm.DB)(nil), project.ID).Return(project, nil)

	for _, target := range []workflows.Status{
		workflows.StatusDraft, workflows.StatusSubmitted, workflows.StatusApproved,
	} {
		_, err := f.service.AttemptTransition(context.Background(), project.ID,
			TransitionRequest{ToStatus: target, Comments: "x", Confirm: true},
			actorWith(workflows.RoleApprover))
		var invalid *workflows.InvalidTransitionError
		assert.ErrorAs(t, err, &invalid, "LOCKED -> %s must be invalid", target)
	}
}

func TestResubmissionSupersedesCalculations(t *testing.T) {
	f := newFixture()
	project := projectIn(workflows.StatusRejected)

	f.repo.On("GetForUpdate", (*gorm.DB)(nil), project.ID).Return(project, nil)
	f.repo.On("Save", (*gorm.DB)(nil), project).Return(nil)
	f.calcs.On("MarkSuperseded", mock.Anything, project.ID).Return(nil)
	f.auditor.On("Record", mock.Anything, (*gorm.DB)(nil), mock.Anything).Return(nil)

	got, err := f.service.AttemptTransition(context.Background(), project.ID,
		TransitionRequest{ToStatus: workflows.StatusSubmitted},
		actorWith(workflows.RoleDataEntry))

	require.NoError(t, err)
	assert.Equal(t, workflows.StatusSubmitted, got.Status)
	f.calcs.AssertCalled(t, "MarkSuperseded", mock.Anything, project.ID)
}

func TestAuditFailureDoesNotBlockTransition(t *testing.T) {
	f := newFixture()
	project := projectIn(workflows.StatusDraft)

	f.repo.On("GetForUpdate", (*gorm.DB)(nil), project.ID).Return(project, nil)
	f.repo.On("Save", (*gorm.DB)(nil), project).Return(nil)
	f.auditor.On("Record", mock.Anything, (*gorm.DB)(nil), mock.Anything).Return(assert.AnError)

	got, err := f.service.AttemptTransition(context.Background(), project.ID,
		TransitionRequest{ToStatus: workflows.StatusSubmitted},
		actorWith(workflows.RoleDataEntry))

	require.NoError(t, err)
	assert.Equal(t, workflows.StatusSubmitted, got.Status)
}

// Full path a submission takes through the workflow, including one
// rejection and resubmission cycle.
func TestFullWorkflowScenario(t *testing.T) {
	f := newFixture()
	project := projectIn(workflows.StatusDraft)

	f.repo.On("GetForUpdate", (*gorm.DB)(nil), project.ID).Return(project, nil)
	f.repo.On("Save", (*gorm.DB)(nil), project).Return(nil)
	f.auditor.On("Record", mock.Anything, (*gorm.DB)(nil), mock.Anything).Return(nil)
	f.calcs.On("CountUncoveredLines", mock.Anything, project.ID).Return(0, nil)
	f.calcs.On("MarkSuperseded", mock.Anything, project.ID).Return(nil)
	f.calcs.On("ListByProject", mock.Anything, project.ID, false).Return([]calculation.Calculation{}, nil)
	f.lines.On("ListLines", mock.Anything, project.ID).Return([]collection.ActivityData{}, nil)
	f.reviews.On("CreateReview", mock.Anything, (*gorm.DB)(nil), mock.Anything).Return(nil)
	f.reviews.On("CreateApproval", mock.Anything, (*gorm.DB)(nil), mock.Anything).Return(nil)

	ctx := context.Background()
	step := func(to workflows.Status, role workflows.Role, req TransitionRequest) {
		t.Helper()
		req.ToStatus = to
		_, err := f.service.AttemptTransition(ctx, project.ID, req, actorWith(role))
		require.NoError(t, err, "transition to %s as %s", to, role)
	}

	step(workflows.StatusSubmitted, workflows.RoleDataEntry, TransitionRequest{})
	step(workflows.StatusUnderCalculation, workflows.RoleCalculator, TransitionRequest{})
	step(workflows.StatusPendingReview, workflows.RoleCalculator, TransitionRequest{})
	step(workflows.StatusRejected, workflows.RoleReviewer,
		TransitionRequest{ReasonCode: "DQ001", Comments: "quantity does not match the invoice"})
	step(workflows.StatusSubmitted, workflows.RoleDataEntry, TransitionRequest{})
	step(workflows.StatusUnderCalculation, workflows.RoleCalculator, TransitionRequest{})
	step(workflows.StatusPendingReview, workflows.RoleCalculator, TransitionRequest{})
	step(workflows.StatusApproved, workflows.RoleReviewer, TransitionRequest{Comments: "corrected, verified"})
	step(workflows.StatusLocked, workflows.RoleApprover, TransitionRequest{Comments: "final", Confirm: true})

	assert.Equal(t, workflows.StatusLocked, project.Status)
	require.NotNil(t, project.SubmittedAt)
	require.NotNil(t, project.CalculatedAt)
	require.NotNil(t, project.ReviewedAt)
	require.NotNil(t, project.ApprovedAt)
	require.NotNil(t, project.LockedAt)
	assert.True(t, project.Status == workflows.StatusLocked)

	// Two review verdicts were written: the rejection and the approval.
	f.reviews.AssertNumberOfCalls(t, "CreateReview", 2)
	f.calcs.AssertNumberOfCalls(t, "MarkSuperseded", 1)
}
