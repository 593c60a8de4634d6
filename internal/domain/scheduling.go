package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Default values for newly scheduled cards.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// SchedulingState validation errors.
var (
	ErrSchedulingCardIDEmpty = errors.New("scheduling state card ID cannot be empty")
	ErrInvalidInterval       = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEaseFactor     = errors.New("ease factor must be at least 1.3")
	ErrInvalidRepetitions    = errors.New("repetitions must be greater than or equal to 0")
)

// SchedulingState tracks the spaced repetition schedule for a single card.
// It is created with defaults when the card is first scheduled, mutated only
// through the sm2 engine's output after every review, and deleted together
// with its card.
type SchedulingState struct {
	CardID         uuid.UUID `json:"card_id"`
	EaseFactor     float64   `json:"ease_factor"` // multiplier controlling interval growth, >= 1.3
	Interval       float64   `json:"interval"`    // days until next review; may be sub-day during relearning
	Repetitions    int       `json:"repetitions"` // consecutive successful reviews since the last lapse
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	NextReviewAt   time.Time `json:"next_review_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewSchedulingState creates scheduling state for a card with default
// values. New cards are available for review immediately.
func NewSchedulingState(cardID uuid.UUID) (*SchedulingState, error) {
	now := time.Now().UTC()
	state := &SchedulingState{
		CardID:         cardID,
		EaseFactor:     DefaultEaseFactor,
		Interval:       0,
		Repetitions:    0,
		LastReviewedAt: time.Time{}, // zero time: never reviewed
		NextReviewAt:   now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the SchedulingState has valid data.
func (s *SchedulingState) Validate() error {
	if s.CardID == uuid.Nil {
		return ErrSchedulingCardIDEmpty
	}

	if s.Interval < 0 {
		return ErrInvalidInterval
	}

	if s.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}

	if s.Repetitions < 0 {
		return ErrInvalidRepetitions
	}

	return nil
}

// IsNew reports whether the card has never been reviewed.
func (s *SchedulingState) IsNew() bool {
	return s.LastReviewedAt.IsZero()
}

// IsDue reports whether the card is due for review at the given time.
func (s *SchedulingState) IsDue(now time.Time) bool {
	return !s.NextReviewAt.After(now)
}
