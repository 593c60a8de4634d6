package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
)

// GoalStore defines the interface for daily goal configuration persistence.
type GoalStore interface {
	// Get retrieves a user's configured daily goals.
	// Returns ErrGoalsNotFound if the user has not configured any.
	Get(ctx context.Context, userID uuid.UUID) (*domain.DailyGoals, error)

	// Upsert creates or replaces a user's daily goals.
	Upsert(ctx context.Context, goals *domain.DailyGoals) error

	// WithTx returns a GoalStore bound to the provided transaction.
	WithTx(tx *sql.Tx) GoalStore
}
