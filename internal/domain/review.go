package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewQuality is the user's self-assessment of how well a card was
// recalled, on the ordinal scale 1-4.
type ReviewQuality int

// Possible review quality values.
const (
	QualityAgain ReviewQuality = 1 // failed to recall
	QualityHard  ReviewQuality = 2 // recalled with serious difficulty
	QualityGood  ReviewQuality = 3 // recalled correctly
	QualityEasy  ReviewQuality = 4 // recalled effortlessly
)

// IsValid reports whether q is within the 1-4 scale.
func (q ReviewQuality) IsValid() bool {
	return q >= QualityAgain && q <= QualityEasy
}

// IsCorrect reports whether the answer counts as correct for accuracy and
// retention purposes. Good and Easy are correct; Again and Hard are not.
func (q ReviewQuality) IsCorrect() bool {
	return q >= QualityGood
}

// String returns the human-readable name of the quality.
func (q ReviewQuality) String() string {
	switch q {
	case QualityAgain:
		return "again"
	case QualityHard:
		return "hard"
	case QualityGood:
		return "good"
	case QualityEasy:
		return "easy"
	default:
		return "unknown"
	}
}

// ReviewEvent validation errors.
var (
	ErrEventCardIDEmpty = errors.New("review event card ID cannot be empty")
	ErrEventDeckIDEmpty = errors.New("review event deck ID cannot be empty")
)

// ReviewEvent records a single answered card. Events are append-only and
// immutable once written; together with the current SchedulingState
// snapshots they are the sole input to the statistics aggregator.
//
// DeckID is denormalized from the card so that deck-level aggregation can
// fold over events without a join.
type ReviewEvent struct {
	ID             uuid.UUID     `json:"id"`
	UserID         uuid.UUID     `json:"user_id"`
	CardID         uuid.UUID     `json:"card_id"`
	DeckID         uuid.UUID     `json:"deck_id"`
	SessionID      uuid.NullUUID `json:"session_id,omitempty"`
	ReviewedAt     time.Time     `json:"reviewed_at"`
	Quality        ReviewQuality `json:"quality"`
	ResponseTimeMs int64         `json:"response_time_ms"`
	EaseFactor     float64       `json:"ease_factor"` // snapshot produced by this review
	Interval       float64       `json:"interval"`    // snapshot produced by this review, in days
}

// NewReviewEvent creates an immutable review record from the outcome of a
// single answer. The ease factor and interval are the values produced by
// the scheduling engine for this review.
func NewReviewEvent(
	userID, cardID, deckID uuid.UUID,
	sessionID uuid.NullUUID,
	quality ReviewQuality,
	responseTimeMs int64,
	easeFactor, interval float64,
	reviewedAt time.Time,
) (*ReviewEvent, error) {
	event := &ReviewEvent{
		ID:             uuid.New(),
		UserID:         userID,
		CardID:         cardID,
		DeckID:         deckID,
		SessionID:      sessionID,
		ReviewedAt:     reviewedAt,
		Quality:        quality,
		ResponseTimeMs: responseTimeMs,
		EaseFactor:     easeFactor,
		Interval:       interval,
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return event, nil
}

// Validate checks if the ReviewEvent has valid data.
func (e *ReviewEvent) Validate() error {
	if e.CardID == uuid.Nil {
		return ErrEventCardIDEmpty
	}

	if e.DeckID == uuid.Nil {
		return ErrEventDeckIDEmpty
	}

	if !e.Quality.IsValid() {
		return ErrInvalidQuality
	}

	if e.ResponseTimeMs <= 0 {
		return ErrInvalidResponseTime
	}

	return nil
}
