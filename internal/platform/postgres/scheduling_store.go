package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

// SchedulingStore implements store.SchedulingStore using PostgreSQL.
//
// A never-reviewed card is stored with a NULL last_reviewed_at, which maps
// to the zero time on the domain side.
type SchedulingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.SchedulingStore = (*SchedulingStore)(nil)

// NewSchedulingStore creates a PostgreSQL-backed SchedulingStore.
func NewSchedulingStore(db store.DBTX, logger *slog.Logger) *SchedulingStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SchedulingStore{
		db:     db,
		logger: logger.With(slog.String("component", "scheduling_store")),
	}
}

const schedulingColumns = `
	card_id, ease_factor, interval_days, repetitions,
	last_reviewed_at, next_review_at, created_at, updated_at`

// Create implements store.SchedulingStore.Create.
func (s *SchedulingStore) Create(ctx context.Context, state *domain.SchedulingState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO scheduling_states (` + schedulingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		state.CardID, state.EaseFactor, state.Interval, state.Repetitions,
		nullableTime(state.LastReviewedAt), state.NextReviewAt,
		state.CreatedAt, state.UpdatedAt)
	return mapError(err)
}

// Get implements store.SchedulingStore.Get.
func (s *SchedulingStore) Get(ctx context.Context, cardID uuid.UUID) (*domain.SchedulingState, error) {
	const query = `
		SELECT ` + schedulingColumns + `
		FROM scheduling_states
		WHERE card_id = $1`

	return s.scanState(s.db.QueryRowContext(ctx, query, cardID))
}

// GetForUpdate implements store.SchedulingStore.GetForUpdate.
func (s *SchedulingStore) GetForUpdate(ctx context.Context, cardID uuid.UUID) (*domain.SchedulingState, error) {
	const query = `
		SELECT ` + schedulingColumns + `
		FROM scheduling_states
		WHERE card_id = $1
		FOR UPDATE`

	return s.scanState(s.db.QueryRowContext(ctx, query, cardID))
}

// Update implements store.SchedulingStore.Update.
func (s *SchedulingStore) Update(ctx context.Context, state *domain.SchedulingState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		UPDATE scheduling_states
		SET ease_factor = $2, interval_days = $3, repetitions = $4,
		    last_reviewed_at = $5, next_review_at = $6, updated_at = $7
		WHERE card_id = $1`

	result, err := s.db.ExecContext(ctx, query,
		state.CardID, state.EaseFactor, state.Interval, state.Repetitions,
		nullableTime(state.LastReviewedAt), state.NextReviewAt, state.UpdatedAt)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return store.ErrSchedulingStateNotFound
	}

	return nil
}

// ListByDeck implements store.SchedulingStore.ListByDeck.
func (s *SchedulingStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.SchedulingState, error) {
	const query = `
		SELECT s.card_id, s.ease_factor, s.interval_days, s.repetitions,
		       s.last_reviewed_at, s.next_review_at, s.created_at, s.updated_at
		FROM scheduling_states s
		JOIN cards c ON c.id = s.card_id
		WHERE c.deck_id = $1
		ORDER BY s.next_review_at`

	return s.queryStates(ctx, query, deckID)
}

// ListByUser implements store.SchedulingStore.ListByUser.
func (s *SchedulingStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.SchedulingState, error) {
	const query = `
		SELECT s.card_id, s.ease_factor, s.interval_days, s.repetitions,
		       s.last_reviewed_at, s.next_review_at, s.created_at, s.updated_at
		FROM scheduling_states s
		JOIN cards c ON c.id = s.card_id
		JOIN decks d ON d.id = c.deck_id
		WHERE d.user_id = $1
		ORDER BY s.next_review_at`

	return s.queryStates(ctx, query, userID)
}

// WithTx implements store.SchedulingStore.WithTx.
func (s *SchedulingStore) WithTx(tx *sql.Tx) store.SchedulingStore {
	return &SchedulingStore{db: tx, logger: s.logger}
}

func (s *SchedulingStore) queryStates(ctx context.Context, query string, arg any) ([]*domain.SchedulingState, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	var states []*domain.SchedulingState
	for rows.Next() {
		var (
			state        domain.SchedulingState
			lastReviewed sql.NullTime
		)
		if err := rows.Scan(
			&state.CardID, &state.EaseFactor, &state.Interval, &state.Repetitions,
			&lastReviewed, &state.NextReviewAt, &state.CreatedAt, &state.UpdatedAt,
		); err != nil {
			return nil, mapError(err)
		}
		if lastReviewed.Valid {
			state.LastReviewedAt = lastReviewed.Time
		}
		states = append(states, &state)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return states, nil
}

func (s *SchedulingStore) scanState(row *sql.Row) (*domain.SchedulingState, error) {
	var (
		state        domain.SchedulingState
		lastReviewed sql.NullTime
	)
	err := row.Scan(
		&state.CardID, &state.EaseFactor, &state.Interval, &state.Repetitions,
		&lastReviewed, &state.NextReviewAt, &state.CreatedAt, &state.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSchedulingStateNotFound
		}
		return nil, mapError(err)
	}
	if lastReviewed.Valid {
		state.LastReviewedAt = lastReviewed.Time
	}
	return &state, nil
}

// nullableTime maps the domain's zero time to a SQL NULL.
func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
