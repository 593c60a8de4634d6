package stats

import (
	"time"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
)

// The aggregator consumes review history one event at a time through the
// accumulator types below. Whether the caller materializes the whole
// history or pages it out of storage, the fold is the same: construct,
// Add every event in chronological order, read the derived values.

// reviewSummary accumulates the flat counters shared by deck-level and
// global reports.
type reviewSummary struct {
	count          int
	correct        int
	qualitySum     int
	responseTimeMs int64
	sessionTimeMs  int64
	sessions       map[uuid.UUID]struct{}
}

func newReviewSummary() *reviewSummary {
	return &reviewSummary{sessions: make(map[uuid.UUID]struct{})}
}

// Add folds one review event into the summary.
func (s *reviewSummary) Add(event *domain.ReviewEvent) {
	s.count++
	s.qualitySum += int(event.Quality)
	s.responseTimeMs += event.ResponseTimeMs
	if event.Quality.IsCorrect() {
		s.correct++
	}
	if event.SessionID.Valid {
		s.sessions[event.SessionID.UUID] = struct{}{}
		s.sessionTimeMs += event.ResponseTimeMs
	}
}

// Count returns the number of events folded so far.
func (s *reviewSummary) Count() int { return s.count }

// Correct returns the number of correct (Good or Easy) answers.
func (s *reviewSummary) Correct() int { return s.correct }

// Sessions returns the number of distinct sessions seen.
func (s *reviewSummary) Sessions() int { return len(s.sessions) }

// StudyTimeMs returns the total response time folded so far.
func (s *reviewSummary) StudyTimeMs() int64 { return s.responseTimeMs }

// AverageQuality returns the mean quality, or 0 with no events.
func (s *reviewSummary) AverageQuality() float64 {
	if s.count == 0 {
		return 0
	}
	return float64(s.qualitySum) / float64(s.count)
}

// RetentionRate returns the fraction of reviews answered at Good or Easy,
// or 0 with no events.
func (s *reviewSummary) RetentionRate() float64 {
	if s.count == 0 {
		return 0
	}
	return float64(s.correct) / float64(s.count)
}

// AverageSessionTimeMs returns mean study time per distinct session, or 0
// when no session-tagged events were seen. Events recorded without a
// session contribute to StudyTimeMs but not to the per-session average.
func (s *reviewSummary) AverageSessionTimeMs() float64 {
	if len(s.sessions) == 0 {
		return 0
	}
	return float64(s.sessionTimeMs) / float64(len(s.sessions))
}

// dayBuckets accumulates per-calendar-day review counts and study time in
// a fixed location. Day keys are the civil date of the event timestamp.
type dayBuckets struct {
	loc    *time.Location
	counts map[civilDate]int
	timeMs map[civilDate]int64
}

// civilDate is a calendar day, comparable and ordered.
type civilDate struct {
	year  int
	month time.Month
	day   int
}

func toCivilDate(t time.Time, loc *time.Location) civilDate {
	y, m, d := t.In(loc).Date()
	return civilDate{year: y, month: m, day: d}
}

func (d civilDate) time(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

func (d civilDate) prev(loc *time.Location) civilDate {
	return toCivilDate(d.time(loc).AddDate(0, 0, -1), loc)
}

func newDayBuckets(loc *time.Location) *dayBuckets {
	return &dayBuckets{
		loc:    loc,
		counts: make(map[civilDate]int),
		timeMs: make(map[civilDate]int64),
	}
}

// Add folds one review event into its calendar-day bucket.
func (b *dayBuckets) Add(event *domain.ReviewEvent) {
	day := toCivilDate(event.ReviewedAt, b.loc)
	b.counts[day]++
	b.timeMs[day] += event.ResponseTimeMs
}

// Count returns the number of reviews on the given day.
func (b *dayBuckets) Count(day civilDate) int { return b.counts[day] }

// StudyTimeMs returns the accumulated study time on the given day.
func (b *dayBuckets) StudyTimeMs(day civilDate) int64 { return b.timeMs[day] }

// ActiveDays returns the number of distinct days with at least one review.
func (b *dayBuckets) ActiveDays() int { return len(b.counts) }

// CurrentStreak returns the length of the run of consecutive study days
// ending today. A streak that is still alive because the user studied
// through yesterday (but not yet today) counts from yesterday.
func (b *dayBuckets) CurrentStreak(today civilDate) int {
	day := today
	if b.counts[day] == 0 {
		day = day.prev(b.loc)
	}

	streak := 0
	for b.counts[day] > 0 {
		streak++
		day = day.prev(b.loc)
	}
	return streak
}

// LongestStreak returns the longest run of consecutive study days seen.
func (b *dayBuckets) LongestStreak() int {
	longest := 0
	for day := range b.counts {
		// Only count from the start of each run.
		if b.counts[day.prev(b.loc)] > 0 {
			continue
		}

		length := 0
		cursor := day
		for b.counts[cursor] > 0 {
			length++
			cursor = next(cursor, b.loc)
		}
		if length > longest {
			longest = length
		}
	}
	return longest
}

func next(d civilDate, loc *time.Location) civilDate {
	return toCivilDate(d.time(loc).AddDate(0, 0, 1), loc)
}

// windowCounter counts events whose timestamp falls inside a trailing
// window ending at "now".
type windowCounter struct {
	since time.Time
	count int
}

func newWindowCounter(now time.Time, days int) *windowCounter {
	return &windowCounter{since: now.AddDate(0, 0, -days)}
}

// Add folds one review event into the window.
func (w *windowCounter) Add(event *domain.ReviewEvent) {
	if !event.ReviewedAt.Before(w.since) {
		w.count++
	}
}

// RatePer returns events per unit, dividing the window's count by the
// number of units it spans (7 for a daily rate over a week, 4 for a weekly
// rate over 28 days, and so on).
func (w *windowCounter) RatePer(units float64) float64 {
	if units <= 0 {
		return 0
	}
	return float64(w.count) / units
}
