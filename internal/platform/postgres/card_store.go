package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

// CardStore implements store.CardStore using PostgreSQL.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.CardStore = (*CardStore)(nil)

// NewCardStore creates a PostgreSQL-backed CardStore.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Create implements store.CardStore.Create.
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO cards (id, deck_id, front, back, hint, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		card.ID, card.DeckID, card.Front, card.Back, card.Hint,
		card.CreatedAt, card.UpdatedAt)
	return mapError(err)
}

// GetByID implements store.CardStore.GetByID.
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	const query = `
		SELECT id, deck_id, front, back, hint, created_at, updated_at
		FROM cards
		WHERE id = $1`

	var card domain.Card
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID, &card.DeckID, &card.Front, &card.Back, &card.Hint,
		&card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		return nil, mapError(err)
	}
	return &card, nil
}

// ListByDeck implements store.CardStore.ListByDeck.
func (s *CardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	const query = `
		SELECT id, deck_id, front, back, hint, created_at, updated_at
		FROM cards
		WHERE deck_id = $1
		ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*domain.Card
	for rows.Next() {
		var card domain.Card
		if err := rows.Scan(
			&card.ID, &card.DeckID, &card.Front, &card.Back, &card.Hint,
			&card.CreatedAt, &card.UpdatedAt,
		); err != nil {
			return nil, mapError(err)
		}
		cards = append(cards, &card)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return cards, nil
}

// CountByDeck implements store.CardStore.CountByDeck.
func (s *CardStore) CountByDeck(ctx context.Context, deckID uuid.UUID) (int, error) {
	const query = `SELECT count(*) FROM cards WHERE deck_id = $1`

	var count int
	if err := s.db.QueryRowContext(ctx, query, deckID).Scan(&count); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// Delete implements store.CardStore.Delete. The card's scheduling state is
// removed by a cascading foreign key.
func (s *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM cards WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return store.ErrCardNotFound
	}

	return nil
}

// WithTx implements store.CardStore.WithTx.
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{db: tx, logger: s.logger}
}
