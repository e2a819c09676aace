package retention

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lumilearn/lumilearn-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestEngine(sessions *MockSessionRepository, settings *MockSettingsRepository, blobs *MockBlobStore) *Engine {
	resolver := newTestResolver(settings)
	e := NewEngine(sessions, resolver, blobs)
	e.now = fixedNow
	return e
}

func completedSession(age time.Duration, attachments ...string) domain.Session {
	var msgs []domain.Message
	if len(attachments) > 0 {
		msgs = append(msgs, domain.Message{Sender: domain.SenderUser, Text: "look", Attachments: attachments})
	}
	return domain.Session{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Completed:  true,
		Transcript: &domain.Transcript{Messages: msgs},
		UpdatedAt:  fixedNow().Add(-age),
	}
}

func TestCleanupExpiredSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("never policy deletes everything regardless of age", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		settings := new(MockSettingsRepository)
		settings.On("GetRetention", ctx).
			Return(&domain.RetentionSettings{Enabled: true, Duration: domain.RetentionNever}, nil)
		sessions.On("DeleteAll", ctx).Return(int64(7), nil)

		report := newTestEngine(sessions, settings, nil).CleanupExpiredSessions(ctx)

		assert.Equal(t, int64(7), report.Deleted)
		assert.Equal(t, 0, report.Errors)
		sessions.AssertNotCalled(t, "ListCompletedBefore", mock.Anything, mock.Anything)
	})

	t.Run("disabled policy also deletes everything", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		settings := new(MockSettingsRepository)
		settings.On("GetRetention", ctx).
			Return(&domain.RetentionSettings{Enabled: false, Duration: domain.RetentionDays30}, nil)
		sessions.On("DeleteAll", ctx).Return(int64(3), nil)

		report := newTestEngine(sessions, settings, nil).CleanupExpiredSessions(ctx)

		assert.Equal(t, int64(3), report.Deleted)
	})

	t.Run("deletes completed stale sessions and their files", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		settings := new(MockSettingsRepository)
		blobs := new(MockBlobStore)

		expired := completedSession(40*24*time.Hour, "https://b.s3.us-east-1.amazonaws.com/a.png")
		settings.On("GetRetention", ctx).
			Return(&domain.RetentionSettings{Enabled: true, Duration: domain.RetentionDays30}, nil)
		sessions.On("ListCompletedBefore", ctx, mock.AnythingOfType("time.Time")).
			Return([]domain.Session{expired}, nil)
		blobs.On("IsAvailable").Return(true)
		blobs.On("DeleteByURL", ctx, "https://b.s3.us-east-1.amazonaws.com/a.png").Return(true, nil)
		sessions.On("Delete", ctx, expired.ID).Return(true, nil)

		report := newTestEngine(sessions, settings, blobs).CleanupExpiredSessions(ctx)

		assert.Equal(t, int64(1), report.Deleted)
		assert.Equal(t, 0, report.Errors)
		blobs.AssertExpectations(t)
		sessions.AssertExpectations(t)
	})

	t.Run("file deletion failure does not block session deletion", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		settings := new(MockSettingsRepository)
		blobs := new(MockBlobStore)

		expired := completedSession(40*24*time.Hour, "https://b.s3.us-east-1.amazonaws.com/a.png")
		settings.On("GetRetention", ctx).
			Return(&domain.RetentionSettings{Enabled: true, Duration: domain.RetentionDays30}, nil)
		sessions.On("ListCompletedBefore", ctx, mock.AnythingOfType("time.Time")).
			Return([]domain.Session{expired}, nil)
		blobs.On("IsAvailable").Return(true)
		blobs.On("DeleteByURL", ctx, mock.Anything).Return(false, assert.AnError)
		sessions.On("Delete", ctx, expired.ID).Return(true, nil)

		report := newTestEngine(sessions, settings, blobs).CleanupExpiredSessions(ctx)

		assert.Equal(t, int64(1), report.Deleted)
		assert.Equal(t, 1, report.Errors)
	})

	t.Run("unavailable blob store skips file cleanup silently", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		settings := new(MockSettingsRepository)
		blobs := new(MockBlobStore)

		expired := completedSession(40*24*time.Hour, "https://b.s3.us-east-1.amazonaws.com/a.png")
		settings.On("GetRetention", ctx).
			Return(&domain.RetentionSettings{Enabled: true, Duration: domain.RetentionDays30}, nil)
		sessions.On("ListCompletedBefore", ctx, mock.AnythingOfType("time.Time")).
			Return([]domain.Session{expired}, nil)
		blobs.On("IsAvailable").Return(false)
		sessions.On("Delete", ctx, expired.ID).Return(true, nil)

		report := newTestEngine(sessions, settings, blobs).CleanupExpiredSessions(ctx)

		assert.Equal(t, int64(1), report.Deleted)
		assert.Equal(t, 0, report.Errors)
		blobs.AssertNotCalled(t, "DeleteByURL", mock.Anything, mock.Anything)
	})
}

func TestCleanupStaleSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("bulk deletes past cutoff with no file cleanup", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		settings := new(MockSettingsRepository)
		blobs := new(MockBlobStore)

		settings.On("GetRetention", ctx).
			Return(&domain.RetentionSettings{Enabled: true, Duration: domain.RetentionDays7}, nil)
		sessions.On("DeleteUpdatedBefore", ctx, fixedNow().AddDate(0, 0, -7)).Return(int64(4), nil)

		report := newTestEngine(sessions, settings, blobs).CleanupStaleSessions(ctx)

		assert.Equal(t, int64(4), report.Deleted)
		blobs.AssertNotCalled(t, "DeleteByURL", mock.Anything, mock.Anything)
	})
}

func TestCleanupIncompleteSessions(t *testing.T) {
	ctx := context.Background()

	sessions := new(MockSessionRepository)
	settings := new(MockSettingsRepository)
	sessions.On("DeleteEmptyIncompleteBefore", ctx, fixedNow().AddDate(0, 0, -7)).Return(int64(2), nil)

	n, err := newTestEngine(sessions, settings, nil).CleanupIncompleteSessions(ctx, 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCleanupOrphanedFiles(t *testing.T) {
	ctx := context.Background()

	sessions := new(MockSessionRepository)
	settings := new(MockSettingsRepository)
	sessions.On("ListAll", ctx).Return([]domain.Session{
		completedSession(time.Hour, "https://b.s3.us-east-1.amazonaws.com/a.png"),
	}, nil)

	report := newTestEngine(sessions, settings, nil).CleanupOrphanedFiles(ctx)

	assert.Equal(t, OrphanReport{FilesChecked: 0, FilesDeleted: 0, Errors: 0}, report)
}

func TestRunFullCleanup(t *testing.T) {
	ctx := context.Background()

	t.Run("a failing subtask does not stop the others", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		settings := new(MockSettingsRepository)

		settings.On("GetRetention", ctx).
			Return(&domain.RetentionSettings{Enabled: true, Duration: domain.RetentionDays30}, nil)
		sessions.On("DeleteUpdatedBefore", ctx, mock.AnythingOfType("time.Time")).
			Return(int64(0), assert.AnError)
		sessions.On("DeleteEmptyIncompleteBefore", ctx, mock.AnythingOfType("time.Time")).
			Return(int64(1), nil)
		sessions.On("ListAll", ctx).Return([]domain.Session{}, nil)

		newTestEngine(sessions, settings, nil).RunFullCleanup(ctx, 7)

		sessions.AssertExpectations(t)
	})
}
