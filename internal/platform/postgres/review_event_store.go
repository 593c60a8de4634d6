package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

// ReviewEventStore implements store.ReviewEventStore using PostgreSQL.
// The review_events table is append-only; nothing in this store updates or
// deletes rows.
type ReviewEventStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.ReviewEventStore = (*ReviewEventStore)(nil)

// NewReviewEventStore creates a PostgreSQL-backed ReviewEventStore.
func NewReviewEventStore(db store.DBTX, logger *slog.Logger) *ReviewEventStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ReviewEventStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_event_store")),
	}
}

// Append implements store.ReviewEventStore.Append.
func (s *ReviewEventStore) Append(ctx context.Context, event *domain.ReviewEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO review_events (
			id, user_id, card_id, deck_id, session_id,
			reviewed_at, quality, response_time_ms, ease_factor, interval_days
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.db.ExecContext(ctx, query,
		event.ID, event.UserID, event.CardID, event.DeckID, event.SessionID,
		event.ReviewedAt, int(event.Quality), event.ResponseTimeMs,
		event.EaseFactor, event.Interval)
	return mapError(err)
}

// List implements store.ReviewEventStore.List. The filter's zero-valued
// fields are ignored; the WHERE clause is assembled from the rest.
func (s *ReviewEventStore) List(ctx context.Context, filter store.EventFilter) ([]*domain.ReviewEvent, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.UserID != uuid.Nil {
		conditions = append(conditions, "user_id = "+arg(filter.UserID))
	}
	if filter.DeckID != uuid.Nil {
		conditions = append(conditions, "deck_id = "+arg(filter.DeckID))
	}
	if filter.CardID != uuid.Nil {
		conditions = append(conditions, "card_id = "+arg(filter.CardID))
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "reviewed_at >= "+arg(filter.Since))
	}
	if !filter.Until.IsZero() {
		conditions = append(conditions, "reviewed_at < "+arg(filter.Until))
	}

	query := `
		SELECT id, user_id, card_id, deck_id, session_id,
		       reviewed_at, quality, response_time_ms, ease_factor, interval_days
		FROM review_events`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY reviewed_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	var events []*domain.ReviewEvent
	for rows.Next() {
		var (
			event   domain.ReviewEvent
			quality int
		)
		if err := rows.Scan(
			&event.ID, &event.UserID, &event.CardID, &event.DeckID, &event.SessionID,
			&event.ReviewedAt, &quality, &event.ResponseTimeMs,
			&event.EaseFactor, &event.Interval,
		); err != nil {
			return nil, mapError(err)
		}
		event.Quality = domain.ReviewQuality(quality)
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return events, nil
}

// WithTx implements store.ReviewEventStore.WithTx.
func (s *ReviewEventStore) WithTx(tx *sql.Tx) store.ReviewEventStore {
	return &ReviewEventStore{db: tx, logger: s.logger}
}
