package stats

import (
	"context"

	"github.com/google/uuid"
)

// GetGlobalStatistics aggregates the deck-report shape across all of a
// user's cards and adds streaks and trailing-window studying rates.
func (a *Aggregator) GetGlobalStatistics(ctx context.Context, userID uuid.UUID) (*GlobalStatistics, error) {
	states, err := a.scheduling.ListByUser(ctx, userID)
	if err != nil {
		return nil, newStatsError("global_statistics", err)
	}

	events, err := a.events.List(ctx, eventFilterForUser(userID))
	if err != nil {
		return nil, newStatsError("global_statistics", err)
	}

	report := &GlobalStatistics{TotalCards: len(states)}

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

	now := a.now()
	summary := newReviewSummary()
	days := newDayBuckets(a.loc)
	dailyWindow := newWindowCounter(now, a.thresholds.DailyWindowDays)
	weeklyWindow := newWindowCounter(now, a.thresholds.WeeklyWindowDays)
	monthlyWindow := newWindowCounter(now, a.thresholds.MonthlyWindowDays)

	// One pass; every accumulator folds the stream independently.
	for _, event := range events {
		summary.Add(event)
		days.Add(event)
		dailyWindow.Add(event)
		weeklyWindow.Add(event)
		monthlyWindow.Add(event)
	}

	report.TotalSessions = summary.Sessions()
	report.TotalStudyTimeMs = summary.StudyTimeMs()
	report.AverageSessionTimeMs = summary.AverageSessionTimeMs()
	report.AverageQuality = summary.AverageQuality()
	report.RetentionRate = summary.RetentionRate()

	if reviewed > 0 {
		meanEase := easeSum / float64(reviewed)
		report.DifficultyRating = 1 - a.easeScore(meanEase)
		report.MasteryLevel = clamp01(
			a.thresholds.RetentionWeight*report.RetentionRate +
				a.thresholds.EaseWeight*a.easeScore(meanEase),
		)
	}

	today := toCivilDate(now, a.loc)
	report.StudyStreak = days.CurrentStreak(today)
	report.LongestStreak = days.LongestStreak()

	report.DailyAverage = dailyWindow.RatePer(float64(a.thresholds.DailyWindowDays))
	report.WeeklyAverage = weeklyWindow.RatePer(float64(a.thresholds.WeeklyWindowDays) / 7)
	report.MonthlyAverage = monthlyWindow.RatePer(float64(a.thresholds.MonthlyWindowDays) / 30)

	return report, nil
}
