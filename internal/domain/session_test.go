package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, totalCards int) *StudySession {
	t.Helper()

	session, err := NewStudySession(
		uuid.New(), uuid.New(), totalCards, SessionOptions{}, time.Now().UTC(),
	)
	require.NoError(t, err)
	return session
}

func TestNewStudySession(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, 3)

	assert.Equal(t, SessionActive, session.Status)
	assert.Equal(t, 3, session.TotalCards)
	assert.Zero(t, session.CompletedCards)
	assert.Zero(t, session.CorrectAnswers)
	assert.Zero(t, session.TotalResponseTimeMs)
	assert.Empty(t, session.QualityScores)
	assert.Nil(t, session.EndedAt)
}

func TestNewStudySessionRejectsBadInput(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	_, err := NewStudySession(uuid.New(), uuid.Nil, 3, SessionOptions{}, now)
	assert.ErrorIs(t, err, ErrSessionDeckIDEmpty)

	_, err = NewStudySession(uuid.New(), uuid.New(), 0, SessionOptions{}, now)
	assert.ErrorIs(t, err, ErrInvalidTotalCards)
}

func TestRecordAnswerAdvancesAndCompletes(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, 3)
	now := time.Now().UTC()

	require.NoError(t, session.RecordAnswer(QualityGood, 1200, now))
	assert.Equal(t, 1, session.CompletedCards)
	assert.Equal(t, SessionActive, session.Status)

	require.NoError(t, session.RecordAnswer(QualityAgain, 3000, now))
	assert.Equal(t, 2, session.CompletedCards)
	assert.Equal(t, SessionActive, session.Status)

	require.NoError(t, session.RecordAnswer(QualityEasy, 800, now))
	assert.Equal(t, 3, session.CompletedCards)
	assert.Equal(t, SessionCompleted, session.Status)
	require.NotNil(t, session.EndedAt)

	// The session is terminal now; a fourth answer must be rejected.
	err := session.RecordAnswer(QualityGood, 500, now)
	assert.ErrorIs(t, err, ErrInvalidSessionState)
	assert.Equal(t, 3, session.CompletedCards)
}

func TestRecordAnswerCounters(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, 4)
	now := time.Now().UTC()

	require.NoError(t, session.RecordAnswer(QualityGood, 1000, now))
	require.NoError(t, session.RecordAnswer(QualityHard, 2000, now))
	require.NoError(t, session.RecordAnswer(QualityEasy, 500, now))

	assert.Equal(t, 2, session.CorrectAnswers, "good and easy count as correct, hard does not")
	assert.Equal(t, int64(3500), session.TotalResponseTimeMs)
	assert.Equal(t, []ReviewQuality{QualityGood, QualityHard, QualityEasy}, session.QualityScores)
	assert.Equal(t, 3, session.CurrentCardIndex)
}

func TestRecordAnswerRejectsBadInput(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, 2)
	now := time.Now().UTC()

	assert.ErrorIs(t, session.RecordAnswer(ReviewQuality(0), 1000, now), ErrInvalidQuality)
	assert.ErrorIs(t, session.RecordAnswer(ReviewQuality(5), 1000, now), ErrInvalidQuality)
	assert.ErrorIs(t, session.RecordAnswer(QualityGood, 0, now), ErrInvalidResponseTime)
	assert.ErrorIs(t, session.RecordAnswer(QualityGood, -10, now), ErrInvalidResponseTime)

	assert.Zero(t, session.CompletedCards, "rejected answers must not advance the session")
}

func TestPauseResumeAccumulatesPausedTime(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, 2)
	start := time.Now().UTC()

	require.NoError(t, session.Pause(start))
	assert.Equal(t, SessionPaused, session.Status)
	require.NotNil(t, session.PausedAt)

	// Answers are not accepted while paused.
	assert.ErrorIs(t, session.RecordAnswer(QualityGood, 1000, start), ErrInvalidSessionState)

	resume := start.Add(90 * time.Second)
	require.NoError(t, session.Resume(resume))
	assert.Equal(t, SessionActive, session.Status)
	assert.Nil(t, session.PausedAt)
	assert.Equal(t, int64(90_000), session.PausedTimeMs)

	// Second pause adds to the accumulated total.
	require.NoError(t, session.Pause(resume))
	require.NoError(t, session.Resume(resume.Add(10*time.Second)))
	assert.Equal(t, int64(100_000), session.PausedTimeMs)
}

func TestAbandon(t *testing.T) {
	t.Parallel()

	t.Run("from active", func(t *testing.T) {
		t.Parallel()

		session := newTestSession(t, 2)
		now := time.Now().UTC()

		require.NoError(t, session.Abandon(now))
		assert.Equal(t, SessionAbandoned, session.Status)
		require.NotNil(t, session.EndedAt)
	})

	t.Run("from paused closes the open pause", func(t *testing.T) {
		t.Parallel()

		session := newTestSession(t, 2)
		start := time.Now().UTC()

		require.NoError(t, session.Pause(start))
		require.NoError(t, session.Abandon(start.Add(30*time.Second)))

		assert.Equal(t, SessionAbandoned, session.Status)
		assert.Equal(t, int64(30_000), session.PausedTimeMs)
		assert.Nil(t, session.PausedAt)
	})

	t.Run("terminal sessions reject further transitions", func(t *testing.T) {
		t.Parallel()

		session := newTestSession(t, 2)
		now := time.Now().UTC()

		require.NoError(t, session.Abandon(now))
		assert.ErrorIs(t, session.Abandon(now), ErrInvalidSessionState)
		assert.ErrorIs(t, session.Pause(now), ErrInvalidSessionState)
		assert.ErrorIs(t, session.Resume(now), ErrInvalidSessionState)
	})
}

func TestNextStatusTransitionTable(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		status  SessionStatus
		event   SessionEvent
		want    SessionStatus
		wantErr bool
	}{
		{SessionActive, SessionEventAnswer, SessionActive, false},
		{SessionActive, SessionEventPause, SessionPaused, false},
		{SessionActive, SessionEventAbandon, SessionAbandoned, false},
		{SessionActive, SessionEventResume, "", true},
		{SessionPaused, SessionEventResume, SessionActive, false},
		{SessionPaused, SessionEventAbandon, SessionAbandoned, false},
		{SessionPaused, SessionEventAnswer, "", true},
		{SessionPaused, SessionEventPause, "", true},
		{SessionCompleted, SessionEventAnswer, "", true},
		{SessionCompleted, SessionEventAbandon, "", true},
		{SessionAbandoned, SessionEventResume, "", true},
	}

	for _, tc := range testCases {
		got, err := NextStatus(tc.status, tc.event)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidSessionState, "(%s, %s)", tc.status, tc.event)
			continue
		}
		require.NoError(t, err, "(%s, %s)", tc.status, tc.event)
		assert.Equal(t, tc.want, got)
	}
}
