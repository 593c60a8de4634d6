package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
)

// SessionStore defines the interface for study session persistence.
type SessionStore interface {
	// Create saves a new study session.
	Create(ctx context.Context, session *domain.StudySession) error

	// GetByID retrieves a session by ID without locking.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error)

	// GetForUpdate retrieves a session with a row-level lock. Use within a
	// transaction when recording answers or changing state, so concurrent
	// writers on the same session serialize.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.StudySession, error)

	// Update replaces the stored session.
	// Returns ErrSessionNotFound if the session does not exist.
	Update(ctx context.Context, session *domain.StudySession) error

	// ListByUser returns a user's sessions, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StudySession, error)

	// WithTx returns a SessionStore bound to the provided transaction.
	WithTx(tx *sql.Tx) SessionStore
}
