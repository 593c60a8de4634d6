package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

// GoalStore implements store.GoalStore using PostgreSQL. Each user has at
// most one row; Upsert overwrites it in place.
type GoalStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.GoalStore = (*GoalStore)(nil)

// NewGoalStore creates a PostgreSQL-backed GoalStore.
func NewGoalStore(db store.DBTX, logger *slog.Logger) *GoalStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &GoalStore{
		db:     db,
		logger: logger.With(slog.String("component", "goal_store")),
	}
}

// Get implements store.GoalStore.Get.
func (s *GoalStore) Get(ctx context.Context, userID uuid.UUID) (*domain.DailyGoals, error) {
	const query = `
		SELECT user_id, cards_goal, time_goal_minutes, streak_goal, updated_at
		FROM daily_goals
		WHERE user_id = $1`

	var goals domain.DailyGoals
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&goals.UserID, &goals.CardsGoal, &goals.TimeGoalMinutes,
		&goals.StreakGoal, &goals.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrGoalsNotFound
		}
		return nil, mapError(err)
	}
	return &goals, nil
}

// Upsert implements store.GoalStore.Upsert.
func (s *GoalStore) Upsert(ctx context.Context, goals *domain.DailyGoals) error {
	const query = `
		INSERT INTO daily_goals (user_id, cards_goal, time_goal_minutes, streak_goal, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET cards_goal = EXCLUDED.cards_goal,
		    time_goal_minutes = EXCLUDED.time_goal_minutes,
		    streak_goal = EXCLUDED.streak_goal,
		    updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		goals.UserID, goals.CardsGoal, goals.TimeGoalMinutes,
		goals.StreakGoal, goals.UpdatedAt)
	return mapError(err)
}

// WithTx implements store.GoalStore.WithTx.
func (s *GoalStore) WithTx(tx *sql.Tx) store.GoalStore {
	return &GoalStore{db: tx, logger: s.logger}
}
