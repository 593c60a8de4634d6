package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
)

// EventFilter narrows a review-event history read. Zero-valued fields are
// ignored. Events are always returned in chronological order.
type EventFilter struct {
	UserID uuid.UUID
	DeckID uuid.UUID
	CardID uuid.UUID
	Since  time.Time // inclusive
	Until  time.Time // exclusive
}

// ReviewEventStore defines the interface for the append-only review
// history. Events are immutable once written; there is no update or delete.
type ReviewEventStore interface {
	// Append writes one review event.
	Append(ctx context.Context, event *domain.ReviewEvent) error

	// List returns events matching the filter in chronological order.
	List(ctx context.Context, filter EventFilter) ([]*domain.ReviewEvent, error)

	// WithTx returns a ReviewEventStore bound to the provided transaction.
	WithTx(tx *sql.Tx) ReviewEventStore
}
