package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewQuality(t *testing.T) {
	t.Parallel()

	assert.True(t, QualityAgain.IsValid())
	assert.True(t, QualityEasy.IsValid())
	assert.False(t, ReviewQuality(0).IsValid())
	assert.False(t, ReviewQuality(5).IsValid())

	assert.False(t, QualityAgain.IsCorrect())
	assert.False(t, QualityHard.IsCorrect())
	assert.True(t, QualityGood.IsCorrect())
	assert.True(t, QualityEasy.IsCorrect())

	assert.Equal(t, "again", QualityAgain.String())
	assert.Equal(t, "easy", QualityEasy.String())
	assert.Equal(t, "unknown", ReviewQuality(9).String())
}

func TestNewReviewEvent(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	sessionID := uuid.NullUUID{UUID: uuid.New(), Valid: true}

	event, err := NewReviewEvent(
		uuid.New(), uuid.New(), uuid.New(), sessionID,
		QualityGood, 1500, 2.36, 6, now,
	)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, QualityGood, event.Quality)
	assert.Equal(t, int64(1500), event.ResponseTimeMs)
	assert.Equal(t, now, event.ReviewedAt)
}

func TestNewReviewEventRejectsBadInput(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	none := uuid.NullUUID{}

	testCases := []struct {
		name    string
		build   func() (*ReviewEvent, error)
		wantErr error
	}{
		{
			name: "empty card ID",
			build: func() (*ReviewEvent, error) {
				return NewReviewEvent(uuid.New(), uuid.Nil, uuid.New(), none, QualityGood, 1000, 2.5, 1, now)
			},
			wantErr: ErrEventCardIDEmpty,
		},
		{
			name: "empty deck ID",
			build: func() (*ReviewEvent, error) {
				return NewReviewEvent(uuid.New(), uuid.New(), uuid.Nil, none, QualityGood, 1000, 2.5, 1, now)
			},
			wantErr: ErrEventDeckIDEmpty,
		},
		{
			name: "out of range quality",
			build: func() (*ReviewEvent, error) {
				return NewReviewEvent(uuid.New(), uuid.New(), uuid.New(), none, ReviewQuality(7), 1000, 2.5, 1, now)
			},
			wantErr: ErrInvalidQuality,
		},
		{
			name: "non-positive response time",
			build: func() (*ReviewEvent, error) {
				return NewReviewEvent(uuid.New(), uuid.New(), uuid.New(), none, QualityGood, 0, 2.5, 1, now)
			},
			wantErr: ErrInvalidResponseTime,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := tc.build()
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestNewSchedulingState(t *testing.T) {
	t.Parallel()

	cardID := uuid.New()
	state, err := NewSchedulingState(cardID)
	require.NoError(t, err)

	assert.Equal(t, cardID, state.CardID)
	assert.Equal(t, 2.5, state.EaseFactor)
	assert.Zero(t, state.Interval)
	assert.Zero(t, state.Repetitions)
	assert.True(t, state.IsNew())
	assert.True(t, state.IsDue(time.Now().UTC().Add(time.Second)))

	_, err = NewSchedulingState(uuid.Nil)
	assert.ErrorIs(t, err, ErrSchedulingCardIDEmpty)
}

func TestSchedulingStateValidate(t *testing.T) {
	t.Parallel()

	state, err := NewSchedulingState(uuid.New())
	require.NoError(t, err)

	state.EaseFactor = 1.2
	assert.ErrorIs(t, state.Validate(), ErrInvalidEaseFactor)

	state.EaseFactor = 2.5
	state.Interval = -1
	assert.ErrorIs(t, state.Validate(), ErrInvalidInterval)

	state.Interval = 0
	state.Repetitions = -1
	assert.ErrorIs(t, state.Validate(), ErrInvalidRepetitions)
}

func TestDailyGoalsSetGoal(t *testing.T) {
	t.Parallel()

	goals := DefaultDailyGoals(uuid.New())

	require.NoError(t, goals.SetGoal(GoalCards, 30))
	assert.Equal(t, 30, goals.CardsGoal)

	require.NoError(t, goals.SetGoal(GoalTime, 45))
	assert.Equal(t, 45, goals.TimeGoalMinutes)

	require.NoError(t, goals.SetGoal(GoalStreak, 14))
	assert.Equal(t, 14, goals.StreakGoal)

	assert.ErrorIs(t, goals.SetGoal(GoalCards, 0), ErrGoalValueInvalid)
	assert.ErrorIs(t, goals.SetGoal(GoalTime, -5), ErrGoalValueInvalid)
	assert.ErrorIs(t, goals.SetGoal(GoalKind("unknown"), 10), ErrValidation)
}
