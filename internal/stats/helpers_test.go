package stats

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

// In-memory sources for aggregator tests.

type fakeEventSource struct {
	events []*domain.ReviewEvent
	err    error
}

func (f *fakeEventSource) List(_ context.Context, filter store.EventFilter) ([]*domain.ReviewEvent, error) {
	if f.err != nil {
		return nil, f.err
	}

	var out []*domain.ReviewEvent
	for _, e := range f.events {
		if filter.UserID != uuid.Nil && e.UserID != filter.UserID {
			continue
		}
		if filter.DeckID != uuid.Nil && e.DeckID != filter.DeckID {
			continue
		}
		if filter.CardID != uuid.Nil && e.CardID != filter.CardID {
			continue
		}
		if !filter.Since.IsZero() && e.ReviewedAt.Before(filter.Since) {
			continue
		}
		if !filter.Until.IsZero() && !e.ReviewedAt.Before(filter.Until) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeSchedulingSource struct {
	states []*domain.SchedulingState
}

func (f *fakeSchedulingSource) Get(_ context.Context, cardID uuid.UUID) (*domain.SchedulingState, error) {
	for _, s := range f.states {
		if s.CardID == cardID {
			return s, nil
		}
	}
	return nil, store.ErrSchedulingStateNotFound
}

func (f *fakeSchedulingSource) ListByDeck(context.Context, uuid.UUID) ([]*domain.SchedulingState, error) {
	return f.states, nil
}

func (f *fakeSchedulingSource) ListByUser(context.Context, uuid.UUID) ([]*domain.SchedulingState, error) {
	return f.states, nil
}

type fakeGoalSource struct {
	goals map[uuid.UUID]*domain.DailyGoals
}

func newFakeGoalSource() *fakeGoalSource {
	return &fakeGoalSource{goals: make(map[uuid.UUID]*domain.DailyGoals)}
}

func (f *fakeGoalSource) Get(_ context.Context, userID uuid.UUID) (*domain.DailyGoals, error) {
	goals, ok := f.goals[userID]
	if !ok {
		return nil, store.ErrGoalsNotFound
	}
	return goals, nil
}

func (f *fakeGoalSource) Upsert(_ context.Context, goals *domain.DailyGoals) error {
	f.goals[goals.UserID] = goals
	return nil
}

// testAggregator wires an aggregator over fakes with a fixed clock.
func testAggregator(
	t *testing.T,
	events *fakeEventSource,
	scheduling *fakeSchedulingSource,
	goals *fakeGoalSource,
	now time.Time,
) *Aggregator {
	t.Helper()

	if goals == nil {
		goals = newFakeGoalSource()
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAggregator(
		events, scheduling, goals, log,
		WithClock(func() time.Time { return now }),
	)
}

type eventSpec struct {
	userID         uuid.UUID
	cardID         uuid.UUID
	deckID         uuid.UUID
	sessionID      uuid.NullUUID
	quality        domain.ReviewQuality
	responseTimeMs int64
	at             time.Time
}

func makeEvent(t *testing.T, spec eventSpec) *domain.ReviewEvent {
	t.Helper()

	if spec.userID == uuid.Nil {
		spec.userID = uuid.New()
	}
	if spec.cardID == uuid.Nil {
		spec.cardID = uuid.New()
	}
	if spec.deckID == uuid.Nil {
		spec.deckID = uuid.New()
	}
	if spec.responseTimeMs == 0 {
		spec.responseTimeMs = 1000
	}
	if spec.at.IsZero() {
		spec.at = time.Now().UTC()
	}

	event, err := domain.NewReviewEvent(
		spec.userID, spec.cardID, spec.deckID, spec.sessionID,
		spec.quality, spec.responseTimeMs, 2.5, 1, spec.at,
	)
	if err != nil {
		t.Fatalf("makeEvent: %v", err)
	}
	return event
}

func reviewedState(cardID uuid.UUID, ef, interval float64, repetitions int, lastReviewed time.Time) *domain.SchedulingState {
	return &domain.SchedulingState{
		CardID:         cardID,
		EaseFactor:     ef,
		Interval:       interval,
		Repetitions:    repetitions,
		LastReviewedAt: lastReviewed,
		NextReviewAt:   lastReviewed.Add(time.Duration(interval * float64(24*time.Hour))),
	}
}

func newCardState(cardID uuid.UUID) *domain.SchedulingState {
	return &domain.SchedulingState{
		CardID:     cardID,
		EaseFactor: domain.DefaultEaseFactor,
	}
}
