package stats

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

// GetCardStatistics computes the derived report for a single card from its
// review history and current scheduling state.
func (a *Aggregator) GetCardStatistics(ctx context.Context, cardID uuid.UUID) (*CardStatistics, error) {
	state, err := a.scheduling.Get(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return nil, newStatsError("card_statistics", err)
	}

	events, err := a.events.List(ctx, eventFilterForCard(cardID))
	if err != nil {
		return nil, newStatsError("card_statistics", err)
	}

	summary := newReviewSummary()
	qualities := make([]int, 0, len(events))
	for _, event := range events {
		summary.Add(event)
		qualities = append(qualities, int(event.Quality))
	}

	report := &CardStatistics{
		CardID:           cardID,
		TotalReviews:     summary.Count(),
		CorrectAnswers:   summary.Correct(),
		AverageQuality:   summary.AverageQuality(),
		EaseFactor:       state.EaseFactor,
		Interval:         state.Interval,
		Repetitions:      state.Repetitions,
		ImprovementTrend: a.classifyTrend(qualities),
	}

	if summary.Count() > 0 {
		report.AverageResponseTimeMs = float64(summary.StudyTimeMs()) / float64(summary.Count())
	}

	report.MasteryScore = a.masteryScore(state, summary)

	return report, nil
}

// GetCardLearningCurve returns a card's full review history in
// chronological order.
func (a *Aggregator) GetCardLearningCurve(ctx context.Context, cardID uuid.UUID) (*LearningCurve, error) {
	events, err := a.events.List(ctx, eventFilterForCard(cardID))
	if err != nil {
		return nil, newStatsError("card_learning_curve", err)
	}

	curve := &LearningCurve{
		CardID:                    cardID,
		ReviewedAt:                make([]time.Time, 0, len(events)),
		QualityProgression:        make([]int, 0, len(events)),
		ResponseTimeProgressionMs: make([]int64, 0, len(events)),
	}

	for _, event := range events {
		curve.ReviewedAt = append(curve.ReviewedAt, event.ReviewedAt)
		curve.QualityProgression = append(curve.QualityProgression, int(event.Quality))
		curve.ResponseTimeProgressionMs = append(curve.ResponseTimeProgressionMs, event.ResponseTimeMs)
	}

	return curve, nil
}

// classifyTrend compares the mean quality of the second half of the
// progression against the first half. A difference within the tolerance is
// stable, as is any progression too short to split.
func (a *Aggregator) classifyTrend(qualities []int) Trend {
	if len(qualities) < 4 {
		return TrendStable
	}

	mid := len(qualities) / 2
	firstMean := mean(qualities[:mid])
	secondMean := mean(qualities[mid:])

	diff := secondMean - firstMean
	switch {
	case diff > a.thresholds.TrendTolerance:
		return TrendImproving
	case diff < -a.thresholds.TrendTolerance:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// masteryScore combines retention, ease-factor proximity to the target
// ceiling, and recency into a bounded [0,100] score. A card that was never
// reviewed scores zero.
func (a *Aggregator) masteryScore(state *domain.SchedulingState, summary *reviewSummary) float64 {
	if state.IsNew() || summary.Count() == 0 {
		return 0
	}

	recency := 0.0
	if a.thresholds.RecencyHorizonDays > 0 {
		daysSince := a.now().Sub(state.LastReviewedAt).Hours() / 24
		recency = clamp01(1 - daysSince/a.thresholds.RecencyHorizonDays)
	}

	score := a.thresholds.ScoreRetentionWeight*summary.RetentionRate() +
		a.thresholds.ScoreEaseWeight*a.easeScore(state.EaseFactor) +
		a.thresholds.ScoreRecencyWeight*recency

	return clamp01(score) * 100
}
