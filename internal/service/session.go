package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lumilearn/lumilearn-api/internal/classifier"
	"github.com/lumilearn/lumilearn-api/internal/domain"
	"github.com/lumilearn/lumilearn-api/internal/metrics"
	"github.com/rs/zerolog/log"
)

// SubjectClassifier is the slice of the classifier the session service uses
type SubjectClassifier interface {
	ClassifySingle(ctx context.Context, t *domain.Transcript) classifier.Result
	ClassifySubjects(ctx context.Context, t *domain.Transcript) []classifier.SubjectBucket
	CountPositiveUtterances(ctx context.Context, t *domain.Transcript) int
}

// SessionService owns the session lifecycle: the single-active-session
// invariant, transcript merges, background recomputation dispatch and
// progress creation on completion.
type SessionService struct {
	sessions   domain.SessionRepository
	progress   domain.ProgressRepository
	activity   domain.UserActivityRepository
	classifier SubjectClassifier
	queue      *Queue
	cache      StatsCache
	now        func() time.Time
}

func NewSessionService(
	sessions domain.SessionRepository,
	progress domain.ProgressRepository,
	activity domain.UserActivityRepository,
	subjects SubjectClassifier,
	queue *Queue,
	cache StatsCache,
) *SessionService {
	return &SessionService{
		sessions:   sessions,
		progress:   progress,
		activity:   activity,
		classifier: subjects,
		queue:      queue,
		cache:      cache,
		now:        time.Now,
	}
}

// CreateSession returns the user's existing true-active session unchanged
// when one exists; repeated calls never produce two active sessions.
// Otherwise a new row is inserted with the optional initial data applied.
func (s *SessionService) CreateSession(ctx context.Context, userID uuid.UUID, initial *domain.SessionPatch) (*domain.Session, error) {
	existing, err := s.GetActiveSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := s.now()
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if initial != nil {
		applyPatch(session, initial)
		session.Completed = false
		session.LastPoint = nil
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetActiveSession returns the user's true-active session, or nil when none
// exists. Duplicate actives (a data anomaly from a past race) are repaired
// inline via ReconcileActiveSessions.
func (s *SessionService) GetActiveSession(ctx context.Context, userID uuid.UUID) (*domain.Session, error) {
	return s.ReconcileActiveSessions(ctx, userID)
}

// ReconcileActiveSessions restores the at-most-one-active invariant for a
// user and returns the surviving session (nil when the user has none).
// Keeper choice is deterministic: the most-recently-updated row holding a
// transcript, falling back to the most-recently-updated row overall. The
// repair is best-effort: a failed duplicate deletion is logged and the
// remaining duplicates are still processed. Callable inline on read and as
// a standalone consistency job.
func (s *SessionService) ReconcileActiveSessions(ctx context.Context, userID uuid.UUID) (*domain.Session, error) {
	actives, err := s.sessions.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}

	switch len(actives) {
	case 0:
		return nil, nil
	case 1:
		return &actives[0], nil
	}

	// Rows arrive most-recently-updated first
	keeper := 0
	for i, a := range actives {
		if !a.Transcript.IsEmpty() {
			keeper = i
			break
		}
	}

	log.Warn().
		Str("user_id", userID.String()).
		Int("duplicates", len(actives)-1).
		Msg("repairing duplicate active sessions")

	for i, a := range actives {
		if i == keeper {
			continue
		}
		if _, err := s.sessions.Delete(ctx, a.ID); err != nil {
			log.Error().Err(err).Str("session_id", a.ID.String()).Msg("failed to delete duplicate active session")
		}
	}

	return &actives[keeper], nil
}

// GetSession returns a session owned by the user
func (s *SessionService) GetSession(ctx context.Context, id, userID uuid.UUID) (*domain.Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

// ListSessions returns the user's session history, most recent first
func (s *SessionService) ListSessions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Session, error) {
	return s.sessions.ListByUser(ctx, userID, limit, offset)
}

// UpdateSession applies a patch and bumps UpdatedAt. A non-empty transcript
// triggers two independent background computations (counter recalculation
// and subject reclassification); the caller gets the updated session back
// before either runs, and their failures never surface. Setting
// completed=true with at least one real message additionally schedules
// per-subject Progress creation and subject back-fill; a welcome-only
// transcript creates no Progress at all.
func (s *SessionService) UpdateSession(ctx context.Context, id, userID uuid.UUID, patch *domain.SessionPatch) (*domain.Session, error) {
	session, err := s.GetSession(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	wasCompleted := session.Completed
	applyPatch(session, patch)
	session.UpdatedAt = s.now()

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	if patch.Transcript != nil && !patch.Transcript.IsEmpty() && !session.Completed {
		sessionID := session.ID
		s.queue.Enqueue("metrics-recalc", func(ctx context.Context) error {
			return s.recalculateMetrics(ctx, sessionID)
		})
		s.queue.Enqueue("subject-classify", func(ctx context.Context) error {
			return s.reclassifySubject(ctx, sessionID)
		})
	}

	if !wasCompleted && session.Completed {
		s.invalidateStats(ctx, userID)
		if session.Transcript.HasRealMessages() {
			sessionID := session.ID
			s.queue.Enqueue("session-complete", func(ctx context.Context) error {
				return s.finalizeCompletedSession(ctx, sessionID)
			})
		}
	}

	return session, nil
}

// DeleteSession removes a session. Deleting an already-absent id is a
// success, not an error: cleanup jobs race with user deletions by design.
// Returns true when the session was already gone.
func (s *SessionService) DeleteSession(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	if session.UserID != userID {
		return false, domain.ErrNotFound
	}

	existed, err := s.sessions.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}

	s.invalidateStats(ctx, userID)
	return !existed, nil
}

// ResumeSession clears the resume marker, making the session active again.
// Completed sessions are terminal and cannot be resumed.
func (s *SessionService) ResumeSession(ctx context.Context, id, userID uuid.UUID) (*domain.Session, error) {
	session, err := s.GetSession(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if session.Completed {
		return nil, domain.ErrInvalidState
	}

	session.LastPoint = nil
	session.UpdatedAt = s.now()
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to resume session: %w", err)
	}
	return session, nil
}

// recalculateMetrics re-derives transcript-dependent counters. The session
// may have been deleted since the task was queued; that is not an error.
func (s *SessionService) recalculateMetrics(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if !metrics.RecalculateCounters(ctx, session, s.classifier) {
		return nil
	}

	session.UpdatedAt = s.now()
	if err := s.sessions.Update(ctx, session); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// reclassifySubject refines subject/topic from the accumulated transcript.
// Subjects stay mutable until completion; completed sessions are skipped.
func (s *SessionService) reclassifySubject(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if session.Completed {
		return nil
	}

	result := s.classifier.ClassifySingle(ctx, session.Transcript)
	if result.Subject == classifier.SubjectGeneral && session.Subject != nil {
		return nil
	}
	if session.Subject != nil && *session.Subject == result.Subject && equalTopic(session.Topic, result.Topic) {
		return nil
	}

	session.Subject = &result.Subject
	session.Topic = result.Topic
	session.UpdatedAt = s.now()
	if err := s.sessions.Update(ctx, session); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// finalizeCompletedSession creates one Progress record per detected subject
// with counters split by each subject's share of the detected questions,
// back-fills subject/topic on the session when unset, and rolls the session
// into today's activity row.
func (s *SessionService) finalizeCompletedSession(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if !session.Transcript.HasRealMessages() {
		return nil
	}

	// Counters feed the activity rollup below; recompute them from the final
	// transcript rather than trusting whatever the last recalc task saw.
	countersChanged := metrics.RecalculateCounters(ctx, session, s.classifier)

	buckets := s.classifier.ClassifySubjects(ctx, session.Transcript)

	now := s.now()
	for _, attr := range classifier.Attribute(buckets, session.CorrectAnswers, session.DurationSeconds) {
		p := &domain.Progress{
			ID:                 uuid.New(),
			SessionID:          session.ID,
			UserID:             session.UserID,
			Subject:            attr.Subject,
			Topic:              attr.Topic,
			QuestionsAttempted: attr.QuestionsAttempted,
			QuestionsCorrect:   attr.QuestionsCorrect,
			DurationSeconds:    attr.DurationSeconds,
			CreatedAt:          now,
		}
		if err := s.progress.Create(ctx, p); err != nil {
			log.Error().Err(err).Str("subject", attr.Subject).Msg("failed to create progress record")
		}
	}

	dirty := countersChanged
	if session.Subject == nil {
		collapsed := classifier.Collapse(buckets)
		if len(collapsed) > 0 {
			session.Subject = &collapsed[0].Subject
			session.Topic = collapsed[0].Topic
			dirty = true
		}
	}
	if dirty {
		session.UpdatedAt = now
		if err := s.sessions.Update(ctx, session); err != nil && !errors.Is(err, domain.ErrNotFound) {
			log.Error().Err(err).Msg("failed to persist completed session counters")
		}
	}

	if err := s.recordDailyActivity(ctx, session); err != nil {
		log.Error().Err(err).Msg("failed to update daily activity")
	}

	s.invalidateStats(ctx, session.UserID)
	return nil
}

// recordDailyActivity folds a completed session into today's rollup and
// refreshes the persisted star progress.
func (s *SessionService) recordDailyActivity(ctx context.Context, session *domain.Session) error {
	today, err := s.activity.GetOrCreate(ctx, session.UserID, midnight(s.now()))
	if err != nil {
		return err
	}

	today.StudyMinutes += session.DurationSeconds / 60
	today.QuestionsAnswered += session.QuestionsAnswered
	today.PhotoQuestions += session.PhotoUploads
	today.PositiveActions += session.SpreadingJoyActions
	today.StarProgress = metrics.ComputeStarProgress(today)
	today.UpdatedAt = s.now()

	return s.activity.Update(ctx, today)
}

func (s *SessionService) invalidateStats(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate stats cache")
	}
}

// applyPatch copies non-nil patch fields onto the session. Completion is
// monotonic: once true it never reverts.
func applyPatch(session *domain.Session, patch *domain.SessionPatch) {
	if patch.Transcript != nil {
		session.Transcript = patch.Transcript
	}
	if patch.Completed != nil && *patch.Completed {
		session.Completed = true
	}
	if patch.LastPoint != nil {
		session.LastPoint = patch.LastPoint
	}
	if patch.Subject != nil {
		session.Subject = patch.Subject
	}
	if patch.Topic != nil {
		session.Topic = patch.Topic
	}
	if patch.DurationSeconds != nil && *patch.DurationSeconds >= 0 {
		session.DurationSeconds = *patch.DurationSeconds
	}
	if patch.QuestionsAnswered != nil && *patch.QuestionsAnswered >= 0 {
		session.QuestionsAnswered = *patch.QuestionsAnswered
	}
	if patch.CorrectAnswers != nil && *patch.CorrectAnswers >= 0 {
		session.CorrectAnswers = *patch.CorrectAnswers
	}
	if patch.PhotoUploads != nil && *patch.PhotoUploads >= 0 {
		session.PhotoUploads = *patch.PhotoUploads
	}
	if patch.WhiteboardSubmissions != nil && *patch.WhiteboardSubmissions >= 0 {
		session.WhiteboardSubmissions = *patch.WhiteboardSubmissions
	}
	if patch.AIInteractions != nil && *patch.AIInteractions >= 0 {
		session.AIInteractions = *patch.AIInteractions
	}
	if patch.SpreadingJoyActions != nil && *patch.SpreadingJoyActions >= 0 {
		session.SpreadingJoyActions = *patch.SpreadingJoyActions
	}
	if patch.AudioModeEnabled != nil {
		session.AudioModeEnabled = *patch.AudioModeEnabled
	}
	if patch.TextModeEnabled != nil {
		session.TextModeEnabled = *patch.TextModeEnabled
	}
}

func equalTopic(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
