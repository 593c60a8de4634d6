package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
)

// SchedulingStore defines the interface for per-card scheduling state
// persistence.
type SchedulingStore interface {
	// Create saves scheduling state for a newly scheduled card.
	Create(ctx context.Context, state *domain.SchedulingState) error

	// Get retrieves the scheduling state for a card without locking.
	// Returns ErrSchedulingStateNotFound if the card has no state yet.
	Get(ctx context.Context, cardID uuid.UUID) (*domain.SchedulingState, error)

	// GetForUpdate retrieves the scheduling state with a row-level lock
	// (SELECT ... FOR UPDATE). Use within a transaction when the state will
	// be updated, to enforce the at-most-one-writer discipline per card.
	GetForUpdate(ctx context.Context, cardID uuid.UUID) (*domain.SchedulingState, error)

	// Update replaces the stored state with the engine's output.
	// Returns ErrSchedulingStateNotFound if the card has no state yet.
	Update(ctx context.Context, state *domain.SchedulingState) error

	// ListByDeck returns the scheduling state of every card in a deck.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.SchedulingState, error)

	// ListByUser returns the scheduling state of every card owned by a user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.SchedulingState, error)

	// WithTx returns a SchedulingStore bound to the provided transaction.
	WithTx(tx *sql.Tx) SchedulingStore
}
