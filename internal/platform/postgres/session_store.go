package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

// SessionStore implements store.SessionStore using PostgreSQL. The
// per-answer quality scores are stored as a JSONB array alongside the flat
// counter columns.
type SessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a PostgreSQL-backed SessionStore.
func NewSessionStore(db store.DBTX, logger *slog.Logger) *SessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

const sessionColumns = `
	id, user_id, deck_id, status, started_at, ended_at,
	total_cards, completed_cards, current_card_index, correct_answers,
	total_response_time_ms, quality_scores, paused_at, paused_time_ms,
	keyboard_shortcuts, auto_advance, created_at, updated_at`

// Create implements store.SessionStore.Create.
func (s *SessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	scores, err := json.Marshal(session.QualityScores)
	if err != nil {
		return fmt.Errorf("failed to encode quality scores: %w", err)
	}

	const query = `
		INSERT INTO study_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err = s.db.ExecContext(ctx, query,
		session.ID, session.UserID, session.DeckID, string(session.Status),
		session.StartedAt, session.EndedAt,
		session.TotalCards, session.CompletedCards, session.CurrentCardIndex,
		session.CorrectAnswers, session.TotalResponseTimeMs, scores,
		session.PausedAt, session.PausedTimeMs,
		session.KeyboardShortcuts, session.AutoAdvance,
		session.CreatedAt, session.UpdatedAt)
	return mapError(err)
}

// GetByID implements store.SessionStore.GetByID.
func (s *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySession, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM study_sessions
		WHERE id = $1`

	return s.scanSession(s.db.QueryRowContext(ctx, query, id))
}

// GetForUpdate implements store.SessionStore.GetForUpdate.
func (s *SessionStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.StudySession, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM study_sessions
		WHERE id = $1
		FOR UPDATE`

	return s.scanSession(s.db.QueryRowContext(ctx, query, id))
}

// Update implements store.SessionStore.Update.
func (s *SessionStore) Update(ctx context.Context, session *domain.StudySession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	scores, err := json.Marshal(session.QualityScores)
	if err != nil {
		return fmt.Errorf("failed to encode quality scores: %w", err)
	}

	const query = `
		UPDATE study_sessions
		SET status = $2, ended_at = $3, completed_cards = $4,
		    current_card_index = $5, correct_answers = $6,
		    total_response_time_ms = $7, quality_scores = $8,
		    paused_at = $9, paused_time_ms = $10, updated_at = $11
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		session.ID, string(session.Status), session.EndedAt,
		session.CompletedCards, session.CurrentCardIndex, session.CorrectAnswers,
		session.TotalResponseTimeMs, scores,
		session.PausedAt, session.PausedTimeMs, session.UpdatedAt)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return store.ErrSessionNotFound
	}

	return nil
}

// ListByUser implements store.SessionStore.ListByUser.
func (s *SessionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StudySession, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM study_sessions
		WHERE user_id = $1
		ORDER BY started_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []*domain.StudySession
	for rows.Next() {
		session, err := scanSessionRow(rows.Scan)
		if err != nil {
			return nil, mapError(err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return sessions, nil
}

// WithTx implements store.SessionStore.WithTx.
func (s *SessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &SessionStore{db: tx, logger: s.logger}
}

func (s *SessionStore) scanSession(row *sql.Row) (*domain.StudySession, error) {
	session, err := scanSessionRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		return nil, mapError(err)
	}
	return session, nil
}

func scanSessionRow(scan func(dest ...any) error) (*domain.StudySession, error) {
	var (
		session domain.StudySession
		status  string
		scores  []byte
	)
	err := scan(
		&session.ID, &session.UserID, &session.DeckID, &status,
		&session.StartedAt, &session.EndedAt,
		&session.TotalCards, &session.CompletedCards, &session.CurrentCardIndex,
		&session.CorrectAnswers, &session.TotalResponseTimeMs, &scores,
		&session.PausedAt, &session.PausedTimeMs,
		&session.KeyboardShortcuts, &session.AutoAdvance,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.Status = domain.SessionStatus(status)
	if len(scores) > 0 {
		if err := json.Unmarshal(scores, &session.QualityScores); err != nil {
			return nil, fmt.Errorf("failed to decode quality scores: %w", err)
		}
	}

	return &session, nil
}
