package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
)

// DeckStore defines the interface for deck persistence.
type DeckStore interface {
	// Create saves a new deck.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// ListByUser returns all decks owned by a user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error)

	// Delete removes a deck and, through foreign keys, its cards,
	// scheduling state, and sessions. Review events are kept: they are the
	// append-only history.
	// Returns ErrDeckNotFound if the deck does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a DeckStore bound to the provided transaction.
	WithTx(tx *sql.Tx) DeckStore
}
