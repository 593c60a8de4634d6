package api

import (
	"github.com/google/uuid"
)

// Request and response payloads shared across handlers. Domain entities
// that already carry JSON tags (decks, cards, sessions, statistics) are
// returned directly.

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// CreateDeckRequest defines the payload for creating a deck.
type CreateDeckRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// CreateCardRequest defines the payload for adding a card to a deck.
type CreateCardRequest struct {
	Front string `json:"front" validate:"required,max=5000"`
	Back  string `json:"back"  validate:"required,max=5000"`
	Hint  string `json:"hint"  validate:"max=1000"`
}

// StartSessionRequest defines the payload for starting a study session.
type StartSessionRequest struct {
	DeckID            uuid.UUID `json:"deck_id" validate:"required"`
	KeyboardShortcuts bool      `json:"keyboard_shortcuts"`
	AutoAdvance       bool      `json:"auto_advance"`
}

// SubmitAnswerRequest defines the payload for answering a card within a
// session. Quality uses the 1-4 scale: again, hard, good, easy.
type SubmitAnswerRequest struct {
	CardID         uuid.UUID `json:"card_id" validate:"required"`
	Quality        int       `json:"quality" validate:"required,min=1,max=4"`
	ResponseTimeMs int64     `json:"response_time_ms" validate:"required,gt=0"`
}

// SetGoalRequest defines the payload for updating a daily goal.
type SetGoalRequest struct {
	Kind  string `json:"kind"  validate:"required,oneof=cards time streak"`
	Value int    `json:"value" validate:"required,gt=0"`
}
