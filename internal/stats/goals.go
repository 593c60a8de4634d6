package stats

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

// SetDailyGoal updates one of the user's daily goals. Users without stored
// goals start from the defaults. Non-positive values are rejected with
// domain.ErrGoalValueInvalid.
func (a *Aggregator) SetDailyGoal(
	ctx context.Context,
	userID uuid.UUID,
	kind domain.GoalKind,
	value int,
) (*domain.DailyGoals, error) {
	goals, err := a.goals.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrGoalsNotFound) {
			return nil, newStatsError("set_daily_goal", err)
		}
		goals = domain.DefaultDailyGoals(userID)
	}

	if err := goals.SetGoal(kind, value); err != nil {
		return nil, err
	}

	if err := a.goals.Upsert(ctx, goals); err != nil {
		return nil, newStatsError("set_daily_goal", err)
	}

	return goals, nil
}

// CheckGoalAchievement recomputes goal completion from today's events
// (today being the calendar day of the aggregator's clock in its
// configured location).
func (a *Aggregator) CheckGoalAchievement(ctx context.Context, userID uuid.UUID) (*GoalAchievement, error) {
	goals, err := a.goals.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrGoalsNotFound) {
			return nil, newStatsError("goal_achievement", err)
		}
		goals = domain.DefaultDailyGoals(userID)
	}

	events, err := a.events.List(ctx, eventFilterForUser(userID))
	if err != nil {
		return nil, newStatsError("goal_achievement", err)
	}

	now := a.now()
	today := toCivilDate(now, a.loc)

	days := newDayBuckets(a.loc)
	for _, event := range events {
		days.Add(event)
	}

	achievement := &GoalAchievement{
		Date:                 today.time(a.loc),
		Goals:                *goals,
		CardsCompleted:       days.Count(today),
		TimeCompletedMinutes: float64(days.StudyTimeMs(today)) / 60_000,
		CurrentStreak:        days.CurrentStreak(today),
	}

	achievement.CardsGoalAchieved = achievement.CardsCompleted >= goals.CardsGoal
	achievement.TimeGoalAchieved = achievement.TimeCompletedMinutes >= float64(goals.TimeGoalMinutes)

	// Overall progress is the mean of the two daily sub-goal ratios, each
	// capped at 1, expressed as a percentage. The streak goal tracks
	// long-term consistency and stays out of the daily percentage.
	cardsRatio := clamp01(float64(achievement.CardsCompleted) / float64(goals.CardsGoal))
	timeRatio := clamp01(achievement.TimeCompletedMinutes / float64(goals.TimeGoalMinutes))
	achievement.OverallProgress = (cardsRatio + timeRatio) / 2 * 100

	return achievement, nil
}

// GetDailyProgress returns today's activity together with goal progress.
func (a *Aggregator) GetDailyProgress(ctx context.Context, userID uuid.UUID) (*GoalAchievement, error) {
	return a.CheckGoalAchievement(ctx, userID)
}

// GetWeeklyTrend returns the last seven calendar days of activity, oldest
// first, with an overall direction classified the same way as a card's
// improvement trend.
func (a *Aggregator) GetWeeklyTrend(ctx context.Context, userID uuid.UUID) (*WeeklyTrend, error) {
	now := a.now()
	// Six days back through today is seven calendar days. Start at
	// midnight so the oldest day is complete.
	since := toCivilDate(now.AddDate(0, 0, -6), a.loc).time(a.loc)

	days, err := a.activityByDay(ctx, userID, since, now)
	if err != nil {
		return nil, newStatsError("weekly_trend", err)
	}

	trend := &WeeklyTrend{Days: days}
	counts := make([]int, 0, len(days))
	for _, day := range days {
		trend.TotalCards += day.CardsReviewed
		counts = append(counts, day.CardsReviewed)
	}
	trend.Trend = a.classifyTrend(counts)

	return trend, nil
}

// GetMonthlyReport summarizes the last thirty calendar days.
func (a *Aggregator) GetMonthlyReport(ctx context.Context, userID uuid.UUID) (*MonthlyReport, error) {
	now := a.now()
	since := now.AddDate(0, 0, -30)

	if err := validateRange(since, now); err != nil {
		return nil, err
	}

	events, err := a.events.List(ctx, store.EventFilter{UserID: userID, Since: since, Until: now})
	if err != nil {
		return nil, newStatsError("monthly_report", err)
	}

	summary := newReviewSummary()
	days := newDayBuckets(a.loc)
	for _, event := range events {
		summary.Add(event)
		days.Add(event)
	}

	report := &MonthlyReport{
		From:             since,
		To:               now,
		TotalCards:       summary.Count(),
		TotalStudyTimeMs: summary.StudyTimeMs(),
		ActiveDays:       days.ActiveDays(),
		AverageQuality:   summary.AverageQuality(),
		RetentionRate:    summary.RetentionRate(),
	}

	for day, count := range days.counts {
		if count > report.BestDay.CardsReviewed {
			report.BestDay = DayActivity{
				Date:          day.time(a.loc),
				CardsReviewed: count,
				StudyTimeMs:   days.StudyTimeMs(day),
			}
		}
	}

	return report, nil
}

// activityByDay buckets a user's events into calendar days across
// [since, until), returning one entry per day including empty ones.
func (a *Aggregator) activityByDay(
	ctx context.Context,
	userID uuid.UUID,
	since, until time.Time,
) ([]DayActivity, error) {
	if err := validateRange(since, until); err != nil {
		return nil, err
	}

	events, err := a.events.List(ctx, store.EventFilter{UserID: userID, Since: since, Until: until})
	if err != nil {
		return nil, err
	}

	type dayAgg struct {
		count      int
		timeMs     int64
		qualitySum int
	}
	byDay := make(map[civilDate]*dayAgg)
	for _, event := range events {
		day := toCivilDate(event.ReviewedAt, a.loc)
		agg := byDay[day]
		if agg == nil {
			agg = &dayAgg{}
			byDay[day] = agg
		}
		agg.count++
		agg.timeMs += event.ResponseTimeMs
		agg.qualitySum += int(event.Quality)
	}

	var days []DayActivity
	for cursor := toCivilDate(since, a.loc); !cursor.time(a.loc).After(until); cursor = next(cursor, a.loc) {
		activity := DayActivity{Date: cursor.time(a.loc)}
		if agg := byDay[cursor]; agg != nil {
			activity.CardsReviewed = agg.count
			activity.StudyTimeMs = agg.timeMs
			activity.AverageQuality = float64(agg.qualitySum) / float64(agg.count)
		}
		days = append(days, activity)
	}

	return days, nil
}
