package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card validation errors.
var (
	ErrCardIDEmpty     = errors.New("card ID cannot be empty")
	ErrCardDeckIDEmpty = errors.New("card deck ID cannot be empty")
	ErrCardFrontEmpty  = errors.New("card front cannot be empty")
	ErrCardBackEmpty   = errors.New("card back cannot be empty")
)

// Card is a single flashcard within a deck. Its review schedule lives in
// the associated SchedulingState, which is created alongside the card and
// deleted with it.
type Card struct {
	ID        uuid.UUID `json:"id"`
	DeckID    uuid.UUID `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	Hint      string    `json:"hint,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a new Card in the given deck.
func NewCard(deckID uuid.UUID, front, back, hint string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:        uuid.New(),
		DeckID:    deckID,
		Front:     front,
		Back:      back,
		Hint:      hint,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if c.Front == "" {
		return ErrCardFrontEmpty
	}

	if c.Back == "" {
		return ErrCardBackEmpty
	}

	return nil
}
