package sm2

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemolabs/mnemo-api/internal/domain"
)

func newState(t *testing.T, ef, interval float64, repetitions int) *domain.SchedulingState {
	t.Helper()

	state, err := domain.NewSchedulingState(uuid.New())
	require.NoError(t, err)

	state.EaseFactor = ef
	state.Interval = interval
	state.Repetitions = repetitions
	return state
}

func TestCalculateNextReviewAgain(t *testing.T) {
	t.Parallel()

	svc := NewService()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	state := newState(t, 2.5, 15, 3)

	next, err := svc.CalculateNextReview(state, domain.QualityAgain, now)
	require.NoError(t, err)

	assert.InDelta(t, 1.0/1440, next.Interval, 0.0001, "lapse resets to the one-minute relearning interval")
	assert.Equal(t, 0, next.Repetitions, "lapse resets repetitions")
	assert.Less(t, next.EaseFactor, 2.5, "ease factor still drops on a lapse")
	assert.Equal(t, now, next.LastReviewedAt)
	assert.WithinDuration(t, now.Add(time.Minute), next.NextReviewAt, time.Second)

	// Input state must not be mutated.
	assert.Equal(t, 15.0, state.Interval)
	assert.Equal(t, 3, state.Repetitions)
}

func TestCalculateNextReviewHard(t *testing.T) {
	t.Parallel()

	svc := NewService()
	now := time.Now().UTC()
	state := newState(t, 2.5, 10, 2)

	next, err := svc.CalculateNextReview(state, domain.QualityHard, now)
	require.NoError(t, err)

	assert.InDelta(t, 12, next.Interval, 0.1, "hard grows the interval by 1.2")
	assert.Equal(t, 2, next.Repetitions, "hard leaves repetitions unchanged")
	assert.Less(t, next.EaseFactor, 2.5)
}

func TestCalculateNextReviewGoodFirstSuccess(t *testing.T) {
	t.Parallel()

	svc := NewService()
	now := time.Now().UTC()
	fresh := newState(t, 2.5, 0, 0)

	next, err := svc.CalculateNextReview(fresh, domain.QualityGood, now)
	require.NoError(t, err)

	assert.Equal(t, 1, next.Repetitions)
	assert.Equal(t, 1.0, next.Interval, "first success is always one day out")
	assert.Equal(t, now.Add(24*time.Hour), next.NextReviewAt)
}

func TestCalculateNextReviewGood(t *testing.T) {
	t.Parallel()

	svc := NewService()
	now := time.Now().UTC()
	state := newState(t, 2.5, 6, 1)

	next, err := svc.CalculateNextReview(state, domain.QualityGood, now)
	require.NoError(t, err)

	assert.Equal(t, 2, next.Repetitions)
	assert.Equal(t, 15.0, next.Interval, "later successes scale the prior interval by the ease factor it was reviewed under")
	assert.InDelta(t, 2.36, next.EaseFactor, 0.01)
}

func TestCalculateNextReviewGoodFloorsSubDayInterval(t *testing.T) {
	t.Parallel()

	svc := NewService()
	now := time.Now().UTC()
	state := newState(t, 1.3, 0.5, 2)

	next, err := svc.CalculateNextReview(state, domain.QualityGood, now)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, next.Interval, 1.0)
}

func TestCalculateNextReviewEasy(t *testing.T) {
	t.Parallel()

	svc := NewService()
	now := time.Now().UTC()
	state := newState(t, 2.5, 10, 2)

	next, err := svc.CalculateNextReview(state, domain.QualityEasy, now)
	require.NoError(t, err)

	assert.InDelta(t, 13, next.Interval, 0.1, "easy grows the interval by 1.3")
	assert.Greater(t, next.EaseFactor, 2.5, "easy earns a bonus beyond the base formula")
	assert.Equal(t, 3, next.Repetitions)
}

func TestCalculateNextReviewRejectsBadInput(t *testing.T) {
	t.Parallel()

	svc := NewService()
	now := time.Now().UTC()

	_, err := svc.CalculateNextReview(nil, domain.QualityGood, now)
	assert.ErrorIs(t, err, ErrNilState)

	state := newState(t, 2.5, 10, 2)
	_, err = svc.CalculateNextReview(state, domain.ReviewQuality(0), now)
	assert.ErrorIs(t, err, domain.ErrInvalidQuality)

	_, err = svc.CalculateNextReview(state, domain.ReviewQuality(5), now)
	assert.ErrorIs(t, err, domain.ErrInvalidQuality)
}

func TestCalculateNextReviewIsDeterministic(t *testing.T) {
	t.Parallel()

	svc := NewService()
	now := time.Now().UTC()
	state := newState(t, 2.2, 8, 4)

	first, err := svc.CalculateNextReview(state, domain.QualityGood, now)
	require.NoError(t, err)

	second, err := svc.CalculateNextReview(state, domain.QualityGood, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
