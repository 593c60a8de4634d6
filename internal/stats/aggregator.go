// Package stats derives progress reports from the append-only review
// history and current per-card scheduling state. Every report is a pure
// function of those inputs plus goal configuration and a clock; nothing
// here mutates source data. Reads are snapshot reads: a report may lag an
// answer recorded a moment earlier.
package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

// EventSource supplies review-event history. store.ReviewEventStore
// satisfies it; tests supply in-memory fakes.
type EventSource interface {
	List(ctx context.Context, filter store.EventFilter) ([]*domain.ReviewEvent, error)
}

// SchedulingSource supplies current per-card scheduling state.
// store.SchedulingStore satisfies it.
type SchedulingSource interface {
	Get(ctx context.Context, cardID uuid.UUID) (*domain.SchedulingState, error)
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.SchedulingState, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.SchedulingState, error)
}

// GoalSource supplies and stores daily goal configuration.
// store.GoalStore satisfies it.
type GoalSource interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.DailyGoals, error)
	Upsert(ctx context.Context, goals *domain.DailyGoals) error
}

// Aggregator computes deck, global, and per-card statistics. All data
// sources and the clock are injected; the aggregator holds no mutable
// state of its own and is safe for concurrent use.
type Aggregator struct {
	events     EventSource
	scheduling SchedulingSource
	goals      GoalSource
	thresholds *Thresholds
	loc        *time.Location
	now        func() time.Time
	logger     *slog.Logger
}

// Option customizes an Aggregator.
type Option func(*Aggregator)

// WithThresholds overrides the default reporting thresholds.
func WithThresholds(t *Thresholds) Option {
	return func(a *Aggregator) { a.thresholds = t }
}

// WithLocation sets the location used to bucket events into calendar days
// for streaks, daily goals, and trend reports. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) { a.loc = loc }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// NewAggregator creates an Aggregator over the given sources.
func NewAggregator(
	events EventSource,
	scheduling SchedulingSource,
	goals GoalSource,
	logger *slog.Logger,
	opts ...Option,
) *Aggregator {
	if events == nil {
		panic("events source cannot be nil")
	}
	if scheduling == nil {
		panic("scheduling source cannot be nil")
	}
	if goals == nil {
		panic("goals source cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &Aggregator{
		events:     events,
		scheduling: scheduling,
		goals:      goals,
		thresholds: DefaultThresholds(),
		loc:        time.UTC,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger.With(slog.String("component", "stats_aggregator")),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// classify assigns a card to exactly one status class from its scheduling
// state, using the configured thresholds. Order matters: a card is new
// before anything else, and completed before learning or review.
func (a *Aggregator) classify(state *domain.SchedulingState) CardStatus {
	switch {
	case state.IsNew():
		return CardStatusNew
	case state.Repetitions >= a.thresholds.MasteredMinRepetitions &&
		state.Interval >= a.thresholds.MasteredMinIntervalDays:
		return CardStatusCompleted
	case state.Repetitions <= a.thresholds.LearningMaxRepetitions:
		return CardStatusLearning
	default:
		return CardStatusReview
	}
}

// easeScore normalizes an ease factor onto [0,1] between the floor and the
// target ceiling.
func (a *Aggregator) easeScore(easeFactor float64) float64 {
	span := a.thresholds.TargetEaseFactor - a.thresholds.MinEaseFactor
	if span <= 0 {
		return 0
	}
	return clamp01((easeFactor - a.thresholds.MinEaseFactor) / span)
}

func eventFilterForDeck(deckID uuid.UUID) store.EventFilter {
	return store.EventFilter{DeckID: deckID}
}

func eventFilterForUser(userID uuid.UUID) store.EventFilter {
	return store.EventFilter{UserID: userID}
}

func eventFilterForCard(cardID uuid.UUID) store.EventFilter {
	return store.EventFilter{CardID: cardID}
}

// validateRange rejects windows that end before they start.
func validateRange(since, until time.Time) error {
	if since.IsZero() || until.IsZero() {
		return nil
	}
	if since.After(until) {
		return ErrInvalidTimeRange
	}
	return nil
}
