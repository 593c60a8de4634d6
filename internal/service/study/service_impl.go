package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/domain/sm2"
	"github.com/mnemolabs/mnemo-api/internal/platform/logger"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

// Verify interface compliance at compile time.
var _ Service = (*studyService)(nil)

type studyService struct {
	sessions   store.SessionStore
	scheduling store.SchedulingStore
	events     store.ReviewEventStore
	cards      store.CardStore
	decks      store.DeckStore
	scheduler  sm2.Service
	logger     *slog.Logger
	now        func() time.Time
	runTx      func(ctx context.Context, fn store.TxFn) error
}

// NewService creates a study Service over the given stores. Transactions
// run against db; the stores are rebound to each transaction via WithTx.
func NewService(
	db *sql.DB,
	sessions store.SessionStore,
	scheduling store.SchedulingStore,
	events store.ReviewEventStore,
	cards store.CardStore,
	decks store.DeckStore,
	scheduler sm2.Service,
	log *slog.Logger,
) Service {
	if db == nil {
		panic("db cannot be nil")
	}

	s := newService(sessions, scheduling, events, cards, decks, scheduler, log)
	s.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, db, fn)
	}
	return s
}

func newService(
	sessions store.SessionStore,
	scheduling store.SchedulingStore,
	events store.ReviewEventStore,
	cards store.CardStore,
	decks store.DeckStore,
	scheduler sm2.Service,
	log *slog.Logger,
) *studyService {
	if sessions == nil {
		panic("sessions store cannot be nil")
	}
	if scheduling == nil {
		panic("scheduling store cannot be nil")
	}
	if events == nil {
		panic("events store cannot be nil")
	}
	if cards == nil {
		panic("cards store cannot be nil")
	}
	if decks == nil {
		panic("decks store cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &studyService{
		sessions:   sessions,
		scheduling: scheduling,
		events:     events,
		cards:      cards,
		decks:      decks,
		scheduler:  scheduler,
		logger:     log.With(slog.String("component", "study_service")),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// StartSession implements Service.StartSession.
func (s *studyService) StartSession(
	ctx context.Context,
	userID, deckID uuid.UUID,
	opts domain.SessionOptions,
) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, newServiceError("start_session", "failed to get deck", err)
	}
	if deck.UserID != userID {
		log.Warn("user does not own deck",
			slog.String("user_id", userID.String()),
			slog.String("deck_id", deckID.String()))
		return nil, ErrDeckNotOwned
	}

	states, err := s.scheduling.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, newServiceError("start_session", "failed to list scheduling state", err)
	}

	now := s.now()
	total := 0
	for _, state := range states {
		if state.IsNew() || state.IsDue(now) {
			total++
		}
	}
	if total == 0 {
		return nil, ErrNoCardsDue
	}

	session, err := domain.NewStudySession(userID, deckID, total, opts, now)
	if err != nil {
		return nil, newServiceError("start_session", "failed to create session", err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, newServiceError("start_session", "failed to save session", err)
	}

	log.Debug("study session started",
		slog.String("session_id", session.ID.String()),
		slog.String("deck_id", deckID.String()),
		slog.Int("total_cards", total))

	return session, nil
}

// GetSession implements Service.GetSession.
func (s *studyService) GetSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*domain.StudySession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, newServiceError("get_session", "failed to get session", err)
	}
	if session.UserID != userID {
		return nil, ErrSessionNotOwned
	}
	return session, nil
}

// ListSessions implements Service.ListSessions.
func (s *studyService) ListSessions(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.StudySession, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, newServiceError("list_sessions", "failed to list sessions", err)
	}
	return sessions, nil
}

// NextCard implements Service.NextCard. New cards come first; after that,
// the most overdue card wins.
func (s *studyService) NextCard(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*domain.Card, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionActive {
		return nil, fmt.Errorf(
			"%w: cannot draw a card from a session in state %q",
			domain.ErrInvalidSessionState, session.Status,
		)
	}

	states, err := s.scheduling.ListByDeck(ctx, session.DeckID)
	if err != nil {
		return nil, newServiceError("next_card", "failed to list scheduling state", err)
	}

	now := s.now()
	var pick *domain.SchedulingState
	for _, state := range states {
		if state.IsNew() {
			pick = state
			break
		}
		if !state.IsDue(now) {
			continue
		}
		if pick == nil || state.NextReviewAt.Before(pick.NextReviewAt) {
			pick = state
		}
	}
	if pick == nil {
		return nil, ErrNoCardsDue
	}

	card, err := s.cards.GetByID(ctx, pick.CardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, newServiceError("next_card", "failed to get card", err)
	}
	return card, nil
}

// SubmitAnswer implements Service.SubmitAnswer.
func (s *studyService) SubmitAnswer(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	answer Answer,
) (*AnswerResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result *AnswerResult
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		sessions := s.sessions.WithTx(tx)
		scheduling := s.scheduling.WithTx(tx)
		events := s.events.WithTx(tx)
		cards := s.cards.WithTx(tx)

		// Lock the session row first, always in the same order as every
		// other writer, so concurrent submissions serialize cleanly.
		session, err := sessions.GetForUpdate(ctx, sessionID)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to lock session: %w", err)
		}
		if session.UserID != userID {
			return ErrSessionNotOwned
		}

		card, err := cards.GetByID(ctx, answer.CardID)
		if err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to get card: %w", err)
		}
		if card.DeckID != session.DeckID {
			return ErrCardNotInDeck
		}

		state, err := scheduling.GetForUpdate(ctx, answer.CardID)
		if err != nil {
			if !errors.Is(err, store.ErrSchedulingStateNotFound) {
				return fmt.Errorf("failed to lock scheduling state: %w", err)
			}
			state, err = domain.NewSchedulingState(answer.CardID)
			if err != nil {
				return fmt.Errorf("failed to build scheduling state: %w", err)
			}
			if err := scheduling.Create(ctx, state); err != nil {
				return fmt.Errorf("failed to create scheduling state: %w", err)
			}
		}

		now := s.now()

		// The session enforces quality and response-time validity and the
		// legal state transitions.
		if err := session.RecordAnswer(answer.Quality, answer.ResponseTimeMs, now); err != nil {
			return err
		}

		newState, err := s.scheduler.CalculateNextReview(state, answer.Quality, now)
		if err != nil {
			return fmt.Errorf("failed to calculate next review: %w", err)
		}

		event, err := domain.NewReviewEvent(
			userID, card.ID, card.DeckID,
			uuid.NullUUID{UUID: session.ID, Valid: true},
			answer.Quality, answer.ResponseTimeMs,
			newState.EaseFactor, newState.Interval, now,
		)
		if err != nil {
			return fmt.Errorf("failed to build review event: %w", err)
		}

		if err := scheduling.Update(ctx, newState); err != nil {
			return fmt.Errorf("failed to update scheduling state: %w", err)
		}
		if err := events.Append(ctx, event); err != nil {
			return fmt.Errorf("failed to append review event: %w", err)
		}
		if err := sessions.Update(ctx, session); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}

		result = &AnswerResult{Session: session, State: newState, Event: event}
		return nil
	})

	if err != nil {
		if isPassthrough(err) {
			return nil, err
		}
		log.Error("failed to submit answer",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()),
			slog.String("card_id", answer.CardID.String()))
		return nil, newServiceError("submit_answer", "failed to submit answer", err)
	}

	log.Debug("answer recorded",
		slog.String("session_id", sessionID.String()),
		slog.String("card_id", answer.CardID.String()),
		slog.String("quality", answer.Quality.String()),
		slog.Float64("ease_factor", result.State.EaseFactor),
		slog.Float64("interval_days", result.State.Interval),
		slog.String("session_status", string(result.Session.Status)))

	return result, nil
}

// PauseSession implements Service.PauseSession.
func (s *studyService) PauseSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*domain.StudySession, error) {
	return s.transition(ctx, "pause_session", userID, sessionID,
		func(session *domain.StudySession, now time.Time) error {
			return session.Pause(now)
		})
}

// ResumeSession implements Service.ResumeSession.
func (s *studyService) ResumeSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*domain.StudySession, error) {
	return s.transition(ctx, "resume_session", userID, sessionID,
		func(session *domain.StudySession, now time.Time) error {
			return session.Resume(now)
		})
}

// AbandonSession implements Service.AbandonSession.
func (s *studyService) AbandonSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*domain.StudySession, error) {
	return s.transition(ctx, "abandon_session", userID, sessionID,
		func(session *domain.StudySession, now time.Time) error {
			return session.Abandon(now)
		})
}

// transition applies one lifecycle change to a session under lock.
func (s *studyService) transition(
	ctx context.Context,
	operation string,
	userID, sessionID uuid.UUID,
	apply func(session *domain.StudySession, now time.Time) error,
) (*domain.StudySession, error) {
	var session *domain.StudySession
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		sessions := s.sessions.WithTx(tx)

		locked, err := sessions.GetForUpdate(ctx, sessionID)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to lock session: %w", err)
		}
		if locked.UserID != userID {
			return ErrSessionNotOwned
		}

		if err := apply(locked, s.now()); err != nil {
			return err
		}

		if err := sessions.Update(ctx, locked); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}

		session = locked
		return nil
	})

	if err != nil {
		if isPassthrough(err) {
			return nil, err
		}
		return nil, newServiceError(operation, "failed to change session state", err)
	}

	return session, nil
}

// isPassthrough reports whether an error already carries meaning for the
// caller and must not be rewrapped.
func isPassthrough(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrSessionNotOwned) ||
		errors.Is(err, ErrCardNotFound) ||
		errors.Is(err, ErrCardNotInDeck) ||
		errors.Is(err, domain.ErrInvalidQuality) ||
		errors.Is(err, domain.ErrInvalidResponseTime) ||
		errors.Is(err, domain.ErrInvalidSessionState)
}
