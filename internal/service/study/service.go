// Package study orchestrates study sessions: starting a run over a deck's
// due cards, feeding answers through the scheduling engine, and driving
// the session lifecycle. All mutation happens inside database transactions
// with the session and scheduling rows locked, so concurrent submissions
// against the same session serialize instead of interleaving.
package study

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
)

// Common service errors.
var (
	// ErrSessionNotFound indicates that the session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionNotOwned indicates that the session belongs to another user.
	ErrSessionNotOwned = errors.New("unauthorized access: session not owned by user")

	// ErrDeckNotFound indicates that the deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrDeckNotOwned indicates that the deck belongs to another user.
	ErrDeckNotOwned = errors.New("unauthorized access: deck not owned by user")

	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotInDeck indicates that the answered card does not belong to
	// the session's deck.
	ErrCardNotInDeck = errors.New("card does not belong to the session's deck")

	// ErrNoCardsDue indicates that the deck has no cards due for review.
	ErrNoCardsDue = errors.New("no cards due for review")
)

// Answer is one card's answer submitted during a session.
type Answer struct {
	CardID         uuid.UUID            `json:"card_id"`
	Quality        domain.ReviewQuality `json:"quality"`
	ResponseTimeMs int64                `json:"response_time_ms"`
}

// AnswerResult is the outcome of submitting an answer: the session after
// the answer was applied, the card's new scheduling state, and the review
// event appended to the history.
type AnswerResult struct {
	Session *domain.StudySession    `json:"session"`
	State   *domain.SchedulingState `json:"state"`
	Event   *domain.ReviewEvent     `json:"event"`
}

// Service provides study session orchestration.
type Service interface {
	// StartSession begins a session over a deck's currently due and new
	// cards. Returns ErrNoCardsDue when nothing is ready to study.
	StartSession(
		ctx context.Context,
		userID, deckID uuid.UUID,
		opts domain.SessionOptions,
	) (*domain.StudySession, error)

	// GetSession retrieves a session owned by the user.
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error)

	// ListSessions returns the user's sessions, newest first.
	ListSessions(ctx context.Context, userID uuid.UUID) ([]*domain.StudySession, error)

	// NextCard returns the next card to show in an active session: the new
	// or most overdue card in the session's deck. Returns ErrNoCardsDue
	// when the deck has nothing left to review.
	NextCard(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Card, error)

	// SubmitAnswer applies one answered card: the session counters advance,
	// the scheduling engine computes the card's next review, and a review
	// event is appended, all in a single transaction. The session
	// transitions to completed when its final card is answered.
	SubmitAnswer(ctx context.Context, userID, sessionID uuid.UUID, answer Answer) (*AnswerResult, error)

	// PauseSession suspends an active session.
	PauseSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error)

	// ResumeSession reactivates a paused session.
	ResumeSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error)

	// AbandonSession terminates a session early from active or paused.
	AbandonSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error)
}

// ServiceError wraps errors from the study service with the failed
// operation, so consumers can differentiate with errors.As instead of
// string matching.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
