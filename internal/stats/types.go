package stats

import (
	"time"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
)

// CardStatus classifies a card's progress from its scheduling state.
type CardStatus string

// Card status classes. Every card is in exactly one.
const (
	CardStatusNew       CardStatus = "new"       // never reviewed
	CardStatusLearning  CardStatus = "learning"  // few successful repetitions
	CardStatusReview    CardStatus = "review"    // established but not yet mastered
	CardStatusCompleted CardStatus = "completed" // high repetitions and a long interval
)

// DeckStatistics is the derived report for a single deck.
type DeckStatistics struct {
	DeckID               uuid.UUID `json:"deck_id"`
	TotalCards           int       `json:"total_cards"`
	NewCards             int       `json:"new_cards"`
	LearningCards        int       `json:"learning_cards"`
	ReviewCards          int       `json:"review_cards"`
	CompletedCards       int       `json:"completed_cards"`
	TotalSessions        int       `json:"total_sessions"`
	TotalStudyTimeMs     int64     `json:"total_study_time_ms"`
	AverageSessionTimeMs float64   `json:"average_session_time_ms"`
	AverageQuality       float64   `json:"average_quality"`
	RetentionRate        float64   `json:"retention_rate"`
	DifficultyRating     float64   `json:"difficulty_rating"` // [0,1], higher is harder
	MasteryLevel         float64   `json:"mastery_level"`     // [0,1]
}

// GlobalStatistics aggregates the same shape across all of a user's decks
// and adds streaks and studying-rate windows.
type GlobalStatistics struct {
	TotalCards           int     `json:"total_cards"`
	NewCards             int     `json:"new_cards"`
	LearningCards        int     `json:"learning_cards"`
	ReviewCards          int     `json:"review_cards"`
	CompletedCards       int     `json:"completed_cards"`
	TotalSessions        int     `json:"total_sessions"`
	TotalStudyTimeMs     int64   `json:"total_study_time_ms"`
	AverageSessionTimeMs float64 `json:"average_session_time_ms"`
	AverageQuality       float64 `json:"average_quality"`
	RetentionRate        float64 `json:"retention_rate"`
	DifficultyRating     float64 `json:"difficulty_rating"`
	MasteryLevel         float64 `json:"mastery_level"`
	StudyStreak          int     `json:"study_streak"`   // consecutive study days ending now
	LongestStreak        int     `json:"longest_streak"` // longest run of consecutive study days
	DailyAverage         float64 `json:"daily_average"`  // cards per day, trailing window
	WeeklyAverage        float64 `json:"weekly_average"` // cards per week, trailing window
	MonthlyAverage       float64 `json:"monthly_average"`
}

// Trend classifies the direction of a card's quality progression.
type Trend string

// Trend values.
const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// CardStatistics is the derived report for a single card.
type CardStatistics struct {
	CardID                uuid.UUID `json:"card_id"`
	TotalReviews          int       `json:"total_reviews"`
	CorrectAnswers        int       `json:"correct_answers"`
	AverageQuality        float64   `json:"average_quality"`
	AverageResponseTimeMs float64   `json:"average_response_time_ms"`
	EaseFactor            float64   `json:"ease_factor"` // current
	Interval              float64   `json:"interval"`    // current, in days
	Repetitions           int       `json:"repetitions"` // current
	ImprovementTrend      Trend     `json:"improvement_trend"`
	MasteryScore          float64   `json:"mastery_score"` // [0,100]
}

// LearningCurve is a card's full review history in chronological order.
type LearningCurve struct {
	CardID                    uuid.UUID   `json:"card_id"`
	ReviewedAt                []time.Time `json:"reviewed_at"`
	QualityProgression        []int       `json:"quality_progression"`
	ResponseTimeProgressionMs []int64     `json:"response_time_progression_ms"`
}

// GoalAchievement reports progress against the configured daily goals for
// one calendar day.
type GoalAchievement struct {
	Date                 time.Time         `json:"date"`
	Goals                domain.DailyGoals `json:"goals"`
	CardsCompleted       int               `json:"cards_completed"`
	TimeCompletedMinutes float64           `json:"time_completed_minutes"`
	CurrentStreak        int               `json:"current_streak"`
	CardsGoalAchieved    bool              `json:"cards_goal_achieved"`
	TimeGoalAchieved     bool              `json:"time_goal_achieved"`
	OverallProgress      float64           `json:"overall_progress"` // percent, capped at 100
}

// DayActivity is one calendar day's study activity.
type DayActivity struct {
	Date           time.Time `json:"date"`
	CardsReviewed  int       `json:"cards_reviewed"`
	StudyTimeMs    int64     `json:"study_time_ms"`
	AverageQuality float64   `json:"average_quality"`
}

// WeeklyTrend is the last seven calendar days of activity, oldest first.
type WeeklyTrend struct {
	Days       []DayActivity `json:"days"`
	TotalCards int           `json:"total_cards"`
	Trend      Trend         `json:"trend"`
}

// MonthlyReport summarizes the last thirty calendar days.
type MonthlyReport struct {
	From             time.Time   `json:"from"`
	To               time.Time   `json:"to"`
	TotalCards       int         `json:"total_cards"`
	TotalStudyTimeMs int64       `json:"total_study_time_ms"`
	ActiveDays       int         `json:"active_days"`
	AverageQuality   float64     `json:"average_quality"`
	RetentionRate    float64     `json:"retention_rate"`
	BestDay          DayActivity `json:"best_day"` // the day with the most reviews
}
