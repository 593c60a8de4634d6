package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a study session.
type SessionStatus string

// Possible session status values. Completed and abandoned are terminal.
const (
	SessionActive    SessionStatus = "active"
	SessionPaused    SessionStatus = "paused"
	SessionCompleted SessionStatus = "completed"
	SessionAbandoned SessionStatus = "abandoned"
)

// IsTerminal reports whether no further transitions leave this status.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionAbandoned
}

// SessionEvent is an input to the session state machine.
type SessionEvent string

// Session state machine events.
const (
	SessionEventAnswer  SessionEvent = "answer"
	SessionEventPause   SessionEvent = "pause"
	SessionEventResume  SessionEvent = "resume"
	SessionEventAbandon SessionEvent = "abandon"
)

// sessionTransitions is the explicit transition table of the session state
// machine. A (status, event) pair absent from the table is an illegal
// transition. Completion is not an event of its own: it is the result of
// the final answer, applied by RecordAnswer.
var sessionTransitions = map[SessionStatus]map[SessionEvent]SessionStatus{
	SessionActive: {
		SessionEventAnswer:  SessionActive,
		SessionEventPause:   SessionPaused,
		SessionEventAbandon: SessionAbandoned,
	},
	SessionPaused: {
		SessionEventResume:  SessionActive,
		SessionEventAbandon: SessionAbandoned,
	},
}

// NextStatus resolves the transition table for the given status and event.
// Returns ErrInvalidSessionState for illegal transitions, including any
// event applied to a terminal status.
func NextStatus(status SessionStatus, event SessionEvent) (SessionStatus, error) {
	next, ok := sessionTransitions[status][event]
	if !ok {
		return "", fmt.Errorf(
			"%w: cannot apply %q to session in state %q",
			ErrInvalidSessionState, event, status,
		)
	}
	return next, nil
}

// StudySession validation errors.
var (
	ErrSessionIDEmpty     = errors.New("session ID cannot be empty")
	ErrSessionDeckIDEmpty = errors.New("session deck ID cannot be empty")
	ErrInvalidTotalCards  = errors.New("session must have at least one card")
)

// StudySession tracks one study run through a batch of cards. All counters
// are mutated through the state-machine methods below; once the session
// reaches a terminal status it is never mutated again.
type StudySession struct {
	ID                  uuid.UUID       `json:"id"`
	UserID              uuid.UUID       `json:"user_id"`
	DeckID              uuid.UUID       `json:"deck_id"`
	Status              SessionStatus   `json:"status"`
	StartedAt           time.Time       `json:"started_at"`
	EndedAt             *time.Time      `json:"ended_at,omitempty"`
	TotalCards          int             `json:"total_cards"`
	CompletedCards      int             `json:"completed_cards"`
	CurrentCardIndex    int             `json:"current_card_index"`
	CorrectAnswers      int             `json:"correct_answers"`
	TotalResponseTimeMs int64           `json:"total_response_time_ms"`
	QualityScores       []ReviewQuality `json:"quality_scores"`
	PausedAt            *time.Time      `json:"paused_at,omitempty"` // set while status is paused
	PausedTimeMs        int64           `json:"paused_time_ms"`      // accumulated across pauses
	KeyboardShortcuts   bool            `json:"keyboard_shortcuts"`  // UI option, no effect on scheduling
	AutoAdvance         bool            `json:"auto_advance"`        // UI option, no effect on scheduling
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// SessionOptions carries the UI option flags chosen when a session starts.
type SessionOptions struct {
	KeyboardShortcuts bool
	AutoAdvance       bool
}

// NewStudySession creates an active session over totalCards cards with all
// counters zeroed.
func NewStudySession(
	userID, deckID uuid.UUID,
	totalCards int,
	opts SessionOptions,
	now time.Time,
) (*StudySession, error) {
	if deckID == uuid.Nil {
		return nil, ErrSessionDeckIDEmpty
	}

	if totalCards < 1 {
		return nil, ErrInvalidTotalCards
	}

	return &StudySession{
		ID:                uuid.New(),
		UserID:            userID,
		DeckID:            deckID,
		Status:            SessionActive,
		StartedAt:         now,
		TotalCards:        totalCards,
		QualityScores:     make([]ReviewQuality, 0, totalCards),
		KeyboardShortcuts: opts.KeyboardShortcuts,
		AutoAdvance:       opts.AutoAdvance,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// RecordAnswer applies one answered card to the session. It is valid only
// while the session is active. The session transitions to completed when
// the final card is answered.
func (s *StudySession) RecordAnswer(quality ReviewQuality, responseTimeMs int64, now time.Time) error {
	if !quality.IsValid() {
		return ErrInvalidQuality
	}

	if responseTimeMs <= 0 {
		return ErrInvalidResponseTime
	}

	next, err := NextStatus(s.Status, SessionEventAnswer)
	if err != nil {
		return err
	}

	s.Status = next
	s.CompletedCards++
	s.CurrentCardIndex++
	s.QualityScores = append(s.QualityScores, quality)
	s.TotalResponseTimeMs += responseTimeMs
	if quality.IsCorrect() {
		s.CorrectAnswers++
	}

	if s.CompletedCards >= s.TotalCards {
		s.Status = SessionCompleted
		ended := now
		s.EndedAt = &ended
	}

	s.UpdatedAt = now
	return nil
}

// Pause suspends an active session.
func (s *StudySession) Pause(now time.Time) error {
	next, err := NextStatus(s.Status, SessionEventPause)
	if err != nil {
		return err
	}

	s.Status = next
	paused := now
	s.PausedAt = &paused
	s.UpdatedAt = now
	return nil
}

// Resume reactivates a paused session, accumulating the paused interval.
func (s *StudySession) Resume(now time.Time) error {
	next, err := NextStatus(s.Status, SessionEventResume)
	if err != nil {
		return err
	}

	s.Status = next
	if s.PausedAt != nil {
		s.PausedTimeMs += now.Sub(*s.PausedAt).Milliseconds()
		s.PausedAt = nil
	}
	s.UpdatedAt = now
	return nil
}

// Abandon terminates the session from active or paused.
func (s *StudySession) Abandon(now time.Time) error {
	next, err := NextStatus(s.Status, SessionEventAbandon)
	if err != nil {
		return err
	}

	// Close out a pause that was in progress.
	if s.PausedAt != nil {
		s.PausedTimeMs += now.Sub(*s.PausedAt).Milliseconds()
		s.PausedAt = nil
	}

	s.Status = next
	ended := now
	s.EndedAt = &ended
	s.UpdatedAt = now
	return nil
}

// Validate checks if the StudySession has valid data.
func (s *StudySession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}

	if s.DeckID == uuid.Nil {
		return ErrSessionDeckIDEmpty
	}

	if s.TotalCards < 1 {
		return ErrInvalidTotalCards
	}

	switch s.Status {
	case SessionActive, SessionPaused, SessionCompleted, SessionAbandoned:
	default:
		return fmt.Errorf("%w: unknown session status %q", ErrValidation, s.Status)
	}

	return nil
}
