package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lumilearn/lumilearn-api/internal/classifier"
	"github.com/lumilearn/lumilearn-api/internal/domain"
	"github.com/lumilearn/lumilearn-api/internal/metrics"
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

// MockProgressRepository mocks domain.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Create(ctx context.Context, progress *domain.Progress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Progress, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Progress), args.Error(1)
}

func (m *MockProgressRepository) DeleteBySession(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// MockActivityRepository mocks domain.UserActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.UserActivity, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserActivity), args.Error(1)
}

func (m *MockActivityRepository) Update(ctx context.Context, activity *domain.UserActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.UserActivity, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]domain.UserActivity), args.Error(1)
}

// MockClassifier mocks SubjectClassifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) ClassifySingle(ctx context.Context, t *domain.Transcript) classifier.Result {
	args := m.Called(ctx, t)
	return args.Get(0).(classifier.Result)
}

func (m *MockClassifier) ClassifySubjects(ctx context.Context, t *domain.Transcript) []classifier.SubjectBucket {
	args := m.Called(ctx, t)
	return args.Get(0).([]classifier.SubjectBucket)
}

func (m *MockClassifier) CountPositiveUtterances(ctx context.Context, t *domain.Transcript) int {
	args := m.Called(ctx, t)
	return args.Int(0)
}

// MockStatsCache mocks StatsCache
type MockStatsCache struct {
	mock.Mock
}

func (m *MockStatsCache) GetStats(ctx context.Context, userID uuid.UUID) (*metrics.PersonalStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*metrics.PersonalStats), args.Error(1)
}

func (m *MockStatsCache) SetStats(ctx context.Context, userID uuid.UUID, stats *metrics.PersonalStats) error {
	args := m.Called(ctx, userID, stats)
	return args.Error(0)
}

func (m *MockStatsCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
