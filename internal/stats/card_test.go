package stats

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

func TestGetCardStatistics_UnknownCard(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	agg := testAggregator(t, &fakeEventSource{}, &fakeSchedulingSource{}, nil, now)

	_, err := agg.GetCardStatistics(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetCardStatistics_NewCardScoresZero(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	cardID := uuid.New()
	scheduling := &fakeSchedulingSource{states: []*domain.SchedulingState{newCardState(cardID)}}

	agg := testAggregator(t, &fakeEventSource{}, scheduling, nil, now)

	report, err := agg.GetCardStatistics(context.Background(), cardID)
	require.NoError(t, err)

	assert.Zero(t, report.TotalReviews)
	assert.Zero(t, report.MasteryScore)
	assert.Equal(t, TrendStable, report.ImprovementTrend)
}

func TestGetCardStatistics_Summary(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	cardID := uuid.New()

	events := &fakeEventSource{events: []*domain.ReviewEvent{
		makeEvent(t, eventSpec{cardID: cardID, quality: domain.QualityAgain, responseTimeMs: 8000, at: now.AddDate(0, 0, -3)}),
		makeEvent(t, eventSpec{cardID: cardID, quality: domain.QualityGood, responseTimeMs: 5000, at: now.AddDate(0, 0, -2)}),
		makeEvent(t, eventSpec{cardID: cardID, quality: domain.QualityEasy, responseTimeMs: 2000, at: now.AddDate(0, 0, -1)}),
	}}
	scheduling := &fakeSchedulingSource{states: []*domain.SchedulingState{
		reviewedState(cardID, 2.42, 6, 2, now.AddDate(0, 0, -1)),
	}}

	agg := testAggregator(t, events, scheduling, nil, now)

	report, err := agg.GetCardStatistics(context.Background(), cardID)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalReviews)
	assert.Equal(t, 2, report.CorrectAnswers)
	assert.InDelta(t, 8.0/3, report.AverageQuality, 0.0001)
	assert.InDelta(t, 5000.0, report.AverageResponseTimeMs, 0.0001)
	assert.InDelta(t, 2.42, report.EaseFactor, 0.0001)
	assert.Equal(t, 2, report.Repetitions)
}

func TestGetCardStatistics_MasterySaturates(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	cardID := uuid.New()

	// Reviewed moments ago at the target ease factor with perfect recall:
	// every score component is at its maximum.
	events := &fakeEventSource{events: []*domain.ReviewEvent{
		makeEvent(t, eventSpec{cardID: cardID, quality: domain.QualityEasy, at: now.Add(-time.Minute)}),
		makeEvent(t, eventSpec{cardID: cardID, quality: domain.QualityGood, at: now.Add(-time.Minute)}),
	}}
	scheduling := &fakeSchedulingSource{states: []*domain.SchedulingState{
		reviewedState(cardID, 2.5, 15, 3, now.Add(-time.Minute)),
	}}

	agg := testAggregator(t, events, scheduling, nil, now)

	report, err := agg.GetCardStatistics(context.Background(), cardID)
	require.NoError(t, err)

	assert.InDelta(t, 100.0, report.MasteryScore, 0.0001)
}

func TestGetCardStatistics_MasteryDecaysWithStaleness(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	cardID := uuid.New()
	longAgo := now.AddDate(0, 0, -60)

	events := &fakeEventSource{events: []*domain.ReviewEvent{
		makeEvent(t, eventSpec{cardID: cardID, quality: domain.QualityEasy, at: longAgo}),
	}}
	scheduling := &fakeSchedulingSource{states: []*domain.SchedulingState{
		reviewedState(cardID, 2.5, 15, 3, longAgo),
	}}

	agg := testAggregator(t, events, scheduling, nil, now)

	report, err := agg.GetCardStatistics(context.Background(), cardID)
	require.NoError(t, err)

	// Recency contributes nothing past the horizon; retention and ease
	// still carry their weights.
	assert.InDelta(t, 80.0, report.MasteryScore, 0.0001)
}

func TestClassifyTrend(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	agg := testAggregator(t, &fakeEventSource{}, &fakeSchedulingSource{}, nil, now)

	tests := []struct {
		name      string
		qualities []int
		want      Trend
	}{
		{name: "too few reviews", qualities: []int{1, 4, 4}, want: TrendStable},
		{name: "improving", qualities: []int{1, 2, 4, 4}, want: TrendImproving},
		{name: "declining", qualities: []int{4, 4, 2, 1}, want: TrendDeclining},
		{name: "flat", qualities: []int{3, 3, 3, 3}, want: TrendStable},
		{name: "within tolerance", qualities: []int{3, 3, 3, 3, 4, 3, 3, 3}, want: TrendStable},
		{name: "empty", qualities: nil, want: TrendStable},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, agg.classifyTrend(tc.qualities))
		})
	}
}

func TestGetCardLearningCurve(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	cardID := uuid.New()

	events := &fakeEventSource{events: []*domain.ReviewEvent{
		makeEvent(t, eventSpec{cardID: cardID, quality: domain.QualityAgain, responseTimeMs: 9000, at: now.AddDate(0, 0, -2)}),
		makeEvent(t, eventSpec{cardID: cardID, quality: domain.QualityGood, responseTimeMs: 4000, at: now.AddDate(0, 0, -1)}),
		makeEvent(t, eventSpec{cardID: cardID, quality: domain.QualityEasy, responseTimeMs: 1500, at: now}),
	}}

	agg := testAggregator(t, events, &fakeSchedulingSource{}, nil, now)

	curve, err := agg.GetCardLearningCurve(context.Background(), cardID)
	require.NoError(t, err)

	assert.Equal(t, cardID, curve.CardID)
	assert.Equal(t, []int{1, 3, 4}, curve.QualityProgression)
	assert.Equal(t, []int64{9000, 4000, 1500}, curve.ResponseTimeProgressionMs)
	require.Len(t, curve.ReviewedAt, 3)
	assert.True(t, curve.ReviewedAt[0].Before(curve.ReviewedAt[2]))
}
