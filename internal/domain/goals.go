package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GoalKind identifies which daily goal a value applies to.
type GoalKind string

// Supported goal kinds.
const (
	GoalCards  GoalKind = "cards"  // cards reviewed per day
	GoalTime   GoalKind = "time"   // study minutes per day
	GoalStreak GoalKind = "streak" // target consecutive study days
)

// IsValid reports whether k names a supported goal kind.
func (k GoalKind) IsValid() bool {
	switch k {
	case GoalCards, GoalTime, GoalStreak:
		return true
	default:
		return false
	}
}

// DailyGoals holds a user's configured daily study targets. Progress
// against the goals is derived from review events by the statistics
// aggregator, not stored here.
type DailyGoals struct {
	UserID          uuid.UUID `json:"user_id"`
	CardsGoal       int       `json:"cards_goal"`        // cards per day
	TimeGoalMinutes int       `json:"time_goal_minutes"` // study minutes per day
	StreakGoal      int       `json:"streak_goal"`       // consecutive days
	UpdatedAt       time.Time `json:"updated_at"`
}

// DefaultDailyGoals returns the goals applied before a user configures
// their own.
func DefaultDailyGoals(userID uuid.UUID) *DailyGoals {
	return &DailyGoals{
		UserID:          userID,
		CardsGoal:       20,
		TimeGoalMinutes: 15,
		StreakGoal:      7,
		UpdatedAt:       time.Now().UTC(),
	}
}

// SetGoal updates a single goal value. Non-positive values are rejected
// with ErrGoalValueInvalid.
func (g *DailyGoals) SetGoal(kind GoalKind, value int) error {
	if value <= 0 {
		return fmt.Errorf("%w: %s goal %d", ErrGoalValueInvalid, kind, value)
	}

	switch kind {
	case GoalCards:
		g.CardsGoal = value
	case GoalTime:
		g.TimeGoalMinutes = value
	case GoalStreak:
		g.StreakGoal = value
	default:
		return fmt.Errorf("%w: unknown goal kind %q", ErrValidation, kind)
	}

	g.UpdatedAt = time.Now().UTC()
	return nil
}
