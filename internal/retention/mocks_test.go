package retention

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lumilearn/lumilearn-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepository mocks domain.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]domain.Session, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Session), args.Error(1)
}

func (m *MockSessionRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]domain.Session, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Session), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionRepository) ListCompletedBefore(ctx context.Context, cutoff time.Time) ([]domain.Session, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.Session), args.Error(1)
}

func (m *MockSessionRepository) DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) DeleteEmptyIncompleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) ListAll(ctx context.Context) ([]domain.Session, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Session), args.Error(1)
}

// MockSettingsRepository mocks domain.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetRetention(ctx context.Context) (*domain.RetentionSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RetentionSettings), args.Error(1)
}

// MockBlobStore mocks blob.Store
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) DeleteByURL(ctx context.Context, rawURL string) (bool, error) {
	args := m.Called(ctx, rawURL)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlobStore) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}
