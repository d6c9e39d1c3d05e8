package collection

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ghg-portal/reporting-portal-backend/pkg/workflows"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateLine(ctx context.Context, line *ActivityData) error {
	return m.Called(ctx, line).Error(0)
}

func (m *mockRepository) UpdateLine(ctx context.Context, line *ActivityData) error {
	return m.Called(ctx, line).Error(0)
}

func (m *mockRepository) GetLine(ctx context.Context, id uuid.UUID) (*ActivityData, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ActivityData), args.Error(1)
}

func (m *mockRepository) GetLineByCriteria(ctx context.Context, projectID uuid.UUID, criteriaID uint) (*ActivityData, error) {
	args := m.Called(ctx, projectID, criteriaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ActivityData), args.Error(1)
}

func (m *mockRepository) ListLines(ctx context.Context, projectID uuid.UUID) ([]ActivityData, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ActivityData), args.Error(1)
}

func (m *mockRepository) DeleteLine(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) CreateEvidence(ctx context.Context, ev *Evidence) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *mockRepository) GetEvidence(ctx context.Context, id uuid.UUID) (*Evidence, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Evidence), args.Error(1)
}

func (m *mockRepository) DeleteEvidence(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockStatusGateway struct {
	mock.Mock
}

func (m *mockStatusGateway) GetStatus(ctx context.Context, projectID uuid.UUID) (workflows.Status, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(workflows.Status), args.Error(1)
}

type mockObjectStore struct {
	mock.Mock
}

func (m *mockObjectStore) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	return m.Called(ctx, bucket, key, body, contentType).Error(0)
}

func (m *mockObjectStore) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *mockObjectStore) Delete(ctx context.Context, bucket, key string) error {
	return m.Called(ctx, bucket, key).Error(0)
}

func (m *mockObjectStore) PresignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, expiry)
	return args.String(0), args.Error(1)
}

func newTestService(repo Repository, projects ProjectStatusGateway, store ObjectStore) *Service {
	return NewService(repo, projects, store, "test-evidence", zap.NewNop())
}

func TestUpsertLineCreatesWhenMissing(t *testing.T) {
	repo := new(mockRepository)
	gw := new(mockStatusGateway)
	svc := newTestService(repo, gw, new(mockObjectStore))

	projectID := uuid.New()
	gw.On("GetStatus", mock.Anything, projectID).Return(workflows.StatusDraft, nil)
	repo.On("GetLineByCriteria", mock.Anything, projectID, uint(1)).Return(nil, gorm.ErrRecordNotFound)
	repo.On("CreateLine", mock.Anything, mock.AnythingOfType("*collection.ActivityData")).Return(nil)

	line, err := svc.UpsertLine(context.Background(), UpsertLineRequest{
		ProjectID:  projectID,
		CriteriaID: 1,
		Quantity:   decimal.NewFromInt(100),
		Unit:       "litres",
	}, uuid.New())

	require.NoError(t, err)
	assert.True(t, line.Quantity.Equal(decimal.NewFromInt(100)))
	repo.AssertExpectations(t)
}

func TestUpsertLineReplacesExisting(t *testing.T) {
	repo := new(mockRepository)
	gw := new(mockStatusGateway)
	svc := newTestService(repo, gw, new(mockObjectStore))

	projectID := uuid.New()
	existing := &ActivityData{
		ID:         uuid.New(),
		ProjectID:  projectID,
		CriteriaID: 3,
		Quantity:   decimal.NewFromInt(50),
	}
	gw.On("GetStatus", mock.Anything, projectID).Return(workflows.StatusRejected, nil)
	repo.On("GetLineByCriteria", mock.Anything, projectID, uint(3)).Return(existing, nil)
	repo.On("UpdateLine", mock.Anything, existing).Return(nil)

	line, err := svc.UpsertLine(context.Background(), UpsertLineRequest{
		ProjectID:  projectID,
		CriteriaID: 3,
		Quantity:   decimal.NewFromInt(75),
		Unit:       "kWh",
	}, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, existing.ID, line.ID)
	assert.True(t, line.Quantity.Equal(decimal.NewFromInt(75)))
}

func TestUpsertLineZeroQuantityIsValid(t *testing.T) {
	repo := new(mockRepository)
	gw := new(mockStatusGateway)
	svc := newTestService(repo, gw, new(mockObjectStore))

	projectID := uuid.New()
	gw.On("GetStatus", mock.Anything, projectID).Return(workflows.StatusDraft, nil)
	repo.On("GetLineByCriteria", mock.Anything, projectID, uint(7)).Return(nil, gorm.ErrRecordNotFound)
	repo.On("CreateLine", mock.Anything, mock.Anything).Return(nil)

	line, err := svc.UpsertLine(context.Background(), UpsertLineRequest{
		ProjectID:  projectID,
		CriteriaID: 7,
		Quantity:   decimal.Zero,
	}, uuid.New())

	require.NoError(t, err)
	assert.True(t, line.Quantity.IsZero())
}

func TestUpsertLineRejectsNegativeQuantity(t *testing.T) {
	svc := newTestService(new(mockRepository), new(mockStatusGateway), new(mockObjectStore))

	_, err := svc.UpsertLine(context.Background(), UpsertLineRequest{
		ProjectID:  uuid.New(),
		CriteriaID: 1,
		Quantity:   decimal.NewFromInt(-5),
	}, uuid.New())

	assert.Error(t, err)
}

func TestUpsertLineBlockedOutsideEditableStates(t *testing.T) {
	blocked := []workflows.Status{
		workflows.StatusSubmitted,
		workflows.StatusUnderCalculation,
		workflows.StatusPendingReview,
		workflows.StatusApproved,
		workflows.StatusLocked,
	}
	for _, status := range blocked {
		t.Run(string(status), func(t *testing.T) {
			repo := new(mockRepository)
			gw := new(mockStatusGateway)
			svc := newTestService(repo, gw, new(mockObjectStore))

			projectID := uuid.New()
			gw.On("GetStatus", mock.Anything, projectID).Return(status, nil)

			_, err := svc.UpsertLine(context.Background(), UpsertLineRequest{
				ProjectID:  projectID,
				CriteriaID: 1,
				Quantity:   decimal.NewFromInt(10),
			}, uuid.New())

			assert.ErrorIs(t, err, ErrNotEditable)
			repo.AssertNotCalled(t, "CreateLine", mock.Anything, mock.Anything)
		})
	}
}

func TestDeleteLineRemovesStoredObjects(t *testing.T) {
	repo := new(mockRepository)
	gw := new(mockStatusGateway)
	store := new(mockObjectStore)
	svc := newTestService(repo, gw, store)

	projectID := uuid.New()
	lineID := uuid.New()
	line := &ActivityData{
		ID:        lineID,
		ProjectID: projectID,
		Evidence: []Evidence{
			{ID: uuid.New(), S3Bucket: "test-evidence", S3Key: "evidence/a/b/1_fuel.pdf"},
			{ID: uuid.New(), S3Bucket: "test-evidence", S3Key: "evidence/a/b/2_meter.jpg"},
		},
	}
	repo.On("GetLine", mock.Anything, lineID).Return(line, nil)
	gw.On("GetStatus", mock.Anything, projectID).Return(workflows.StatusDraft, nil)
	store.On("Delete", mock.Anything, "test-evidence", "evidence/a/b/1_fuel.pdf").Return(nil)
	store.On("Delete", mock.Anything, "test-evidence", "evidence/a/b/2_meter.jpg").Return(nil)
	repo.On("DeleteLine", mock.Anything, lineID).Return(nil)

	err := svc.DeleteLine(context.Background(), lineID)

	require.NoError(t, err)
	store.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestAttachEvidenceUploadsAndRecords(t *testing.T) {
	repo := new(mockRepository)
	gw := new(mockStatusGateway)
	store := new(mockObjectStore)
	svc := newTestService(repo, gw, store)

	projectID := uuid.New()
	lineID := uuid.New()
	line := &ActivityData{ID: lineID, ProjectID: projectID, CriteriaID: 2}

	repo.On("GetLine", mock.Anything, lineID).Return(line, nil)
	gw.On("GetStatus", mock.Anything, projectID).Return(workflows.StatusDraft, nil)
	store.On("Upload", mock.Anything, "test-evidence", mock.AnythingOfType("string"),
		mock.Anything, "application/pdf").Return(nil)
	repo.On("CreateEvidence", mock.Anything, mock.AnythingOfType("*collection.Evidence")).Return(nil)

	ev, err := svc.AttachEvidence(context.Background(), lineID,
		"invoice.pdf", "application/pdf", 2048, nil, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, "invoice.pdf", ev.Filename)
	assert.Equal(t, "test-evidence", ev.S3Bucket)
	assert.Contains(t, ev.S3Key, projectID.String())
	assert.Equal(t, uint(2), ev.CriteriaID)
}

func TestAttachEvidenceCleansUpOnRecordFailure(t *testing.T) {
	repo := new(mockRepository)
	gw := new(mockStatusGateway)
	store := new(mockObjectStore)
	svc := newTestService(repo, gw, store)

	projectID := uuid.New()
	lineID := uuid.New()
	line := &ActivityData{ID: lineID, ProjectID: projectID}

	repo.On("GetLine", mock.Anything, lineID).Return(line, nil)
	gw.On("GetStatus", mock.Anything, projectID).Return(workflows.StatusDraft, nil)
	store.On("Upload", mock.Anything, "test-evidence", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("CreateEvidence", mock.Anything, mock.Anything).Return(assert.AnError)
	store.On("Delete", mock.Anything, "test-evidence", mock.AnythingOfType("string")).Return(nil)

	_, err := svc.AttachEvidence(context.Background(), lineID,
		"invoice.pdf", "application/pdf", 2048, nil, uuid.New())

	assert.Error(t, err)
	store.AssertCalled(t, "Delete", mock.Anything, "test-evidence", mock.AnythingOfType("string"))
}

func TestRemoveEvidenceBlockedAfterSubmission(t *testing.T) {
	repo := new(mockRepository)
	gw := new(mockStatusGateway)
	svc := newTestService(repo, gw, new(mockObjectStore))

	evID := uuid.New()
	projectID := uuid.New()
	repo.On("GetEvidence", mock.Anything, evID).Return(&Evidence{ID: evID, ProjectID: projectID}, nil)
	gw.On("GetStatus", mock.Anything, projectID).Return(workflows.StatusSubmitted, nil)

	err := svc.RemoveEvidence(context.Background(), evID)

	assert.ErrorIs(t, err, ErrNotEditable)
	repo.AssertNotCalled(t, "DeleteEvidence", mock.Anything, mock.Anything)
}
