package stats

// Thresholds collects every tunable constant the aggregator uses to
// classify cards and weigh composite metrics. They are configuration, not
// algorithm: changing them changes how progress is reported, never how
// cards are scheduled.
type Thresholds struct {
	// LearningMaxRepetitions is the highest repetition count at which a
	// reviewed card still counts as "learning".
	LearningMaxRepetitions int

	// MasteredMinRepetitions and MasteredMinIntervalDays together decide
	// when a card counts as "completed": both must be met.
	MasteredMinRepetitions  int
	MasteredMinIntervalDays float64

	// MinEaseFactor and TargetEaseFactor bound the ease-factor scale used
	// to normalize difficulty and mastery metrics. They mirror the
	// scheduling engine's floor and default.
	MinEaseFactor    float64
	TargetEaseFactor float64

	// RetentionWeight and EaseWeight combine retention rate and the
	// ease-factor distribution into a deck's mastery level. They must sum
	// to 1.
	RetentionWeight float64
	EaseWeight      float64

	// Card mastery score weights (retention, ease proximity, recency).
	// They must sum to 1.
	ScoreRetentionWeight float64
	ScoreEaseWeight      float64
	ScoreRecencyWeight   float64

	// RecencyHorizonDays is the window over which the recency component of
	// a card's mastery score decays from 1 to 0.
	RecencyHorizonDays float64

	// TrendTolerance is the minimum difference between the second-half and
	// first-half mean quality before a card's trend counts as improving or
	// declining rather than stable.
	TrendTolerance float64

	// Trailing windows, in days, for the cards-studied rates.
	DailyWindowDays   int
	WeeklyWindowDays  int
	MonthlyWindowDays int
}

// DefaultThresholds returns the standard reporting thresholds.
func DefaultThresholds() *Thresholds {
	return &Thresholds{
		LearningMaxRepetitions:  2,
		MasteredMinRepetitions:  5,
		MasteredMinIntervalDays: 21,

		MinEaseFactor:    1.3,
		TargetEaseFactor: 2.5,

		RetentionWeight: 0.6,
		EaseWeight:      0.4,

		ScoreRetentionWeight: 0.5,
		ScoreEaseWeight:      0.3,
		ScoreRecencyWeight:   0.2,
		RecencyHorizonDays:   30,

		TrendTolerance: 0.25,

		DailyWindowDays:   7,
		WeeklyWindowDays:  28,
		MonthlyWindowDays: 90,
	}
}

// clamp01 bounds v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
