package stats

import (
	"context"

	"github.com/google/uuid"
)

// GetDeckStatistics computes the derived report for one deck from its
// cards' scheduling state and the deck's review history.
func (a *Aggregator) GetDeckStatistics(ctx context.Context, deckID uuid.UUID) (*DeckStatistics, error) {
	states, err := a.scheduling.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, newStatsError("deck_statistics", err)
	}

	events, err := a.events.List(ctx, eventFilterForDeck(deckID))
	if err != nil {
		return nil, newStatsError("deck_statistics", err)
	}

	report := &DeckStatistics{DeckID: deckID, TotalCards: len(states)}

	var easeSum float64
	reviewed := 0
	for _, state := range states {
		switch a.classify(state) {
		case CardStatusNew:
			report.NewCards++
		case CardStatusLearning:
			report.LearningCards++
		case CardStatusReview:
			report.ReviewCards++
		case CardStatusCompleted:
			report.CompletedCards++
		}

		if !state.IsNew() {
			easeSum += state.EaseFactor
			reviewed++
		}
	}

	summary := newReviewSummary()
	for _, event := range events {
		summary.Add(event)
	}

	report.TotalSessions = summary.Sessions()
	report.TotalStudyTimeMs = summary.StudyTimeMs()
	report.AverageSessionTimeMs = summary.AverageSessionTimeMs()
	report.AverageQuality = summary.AverageQuality()
	report.RetentionRate = summary.RetentionRate()

	if reviewed > 0 {
		meanEase := easeSum / float64(reviewed)
		// Difficulty is the inverse of the mean ease factor on the
		// floor-to-target scale: a deck full of floor-ease cards rates 1.
		report.DifficultyRating = 1 - a.easeScore(meanEase)
		report.MasteryLevel = clamp01(
			a.thresholds.RetentionWeight*report.RetentionRate +
				a.thresholds.EaseWeight*a.easeScore(meanEase),
		)
	}

	return report, nil
}
