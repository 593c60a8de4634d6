package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
)

// CardStore defines the interface for card persistence.
type CardStore interface {
	// Create saves a new card.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByDeck returns all cards in a deck in creation order.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)

	// CountByDeck returns the number of cards in a deck.
	CountByDeck(ctx context.Context, deckID uuid.UUID) (int, error)

	// Delete removes a card and its scheduling state.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CardStore bound to the provided transaction.
	WithTx(tx *sql.Tx) CardStore
}
