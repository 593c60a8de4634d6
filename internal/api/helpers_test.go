package api

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/api/shared"
	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// withUser injects an authenticated user ID the way the auth middleware
// would.
func withUser(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

type fakeDeckStore struct {
	decks map[uuid.UUID]*domain.Deck
}

func newFakeDeckStore() *fakeDeckStore {
	return &fakeDeckStore{decks: make(map[uuid.UUID]*domain.Deck)}
}

func (s *fakeDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	s.decks[deck.ID] = deck
	return nil
}

func (s *fakeDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	deck, ok := s.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	copied := *deck
	return &copied, nil
}

func (s *fakeDeckStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	var decks []*domain.Deck
	for _, deck := range s.decks {
		if deck.UserID == userID {
			copied := *deck
			decks = append(decks, &copied)
		}
	}
	return decks, nil
}

func (s *fakeDeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.decks[id]; !ok {
		return store.ErrDeckNotFound
	}
	delete(s.decks, id)
	return nil
}

func (s *fakeDeckStore) WithTx(tx *sql.Tx) store.DeckStore { return s }

type fakeCardStore struct {
	cards map[uuid.UUID]*domain.Card
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

func (s *fakeCardStore) Create(ctx context.Context, card *domain.Card) error {
	s.cards[card.ID] = card
	return nil
}

func (s *fakeCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	card, ok := s.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	copied := *card
	return &copied, nil
}

func (s *fakeCardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	var cards []*domain.Card
	for _, card := range s.cards {
		if card.DeckID == deckID {
			copied := *card
			cards = append(cards, &copied)
		}
	}
	return cards, nil
}

func (s *fakeCardStore) CountByDeck(ctx context.Context, deckID uuid.UUID) (int, error) {
	count := 0
	for _, card := range s.cards {
		if card.DeckID == deckID {
			count++
		}
	}
	return count, nil
}

func (s *fakeCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(s.cards, id)
	return nil
}

func (s *fakeCardStore) WithTx(tx *sql.Tx) store.CardStore { return s }

type fakeSchedulingStore struct {
	states map[uuid.UUID]*domain.SchedulingState
}

func newFakeSchedulingStore() *fakeSchedulingStore {
	return &fakeSchedulingStore{states: make(map[uuid.UUID]*domain.SchedulingState)}
}

func (s *fakeSchedulingStore) Create(ctx context.Context, state *domain.SchedulingState) error {
	s.states[state.CardID] = state
	return nil
}

func (s *fakeSchedulingStore) Get(ctx context.Context, cardID uuid.UUID) (*domain.SchedulingState, error) {
	state, ok := s.states[cardID]
	if !ok {
		return nil, store.ErrSchedulingStateNotFound
	}
	copied := *state
	return &copied, nil
}

func (s *fakeSchedulingStore) GetForUpdate(ctx context.Context, cardID uuid.UUID) (*domain.SchedulingState, error) {
	return s.Get(ctx, cardID)
}

func (s *fakeSchedulingStore) Update(ctx context.Context, state *domain.SchedulingState) error {
	if _, ok := s.states[state.CardID]; !ok {
		return store.ErrSchedulingStateNotFound
	}
	s.states[state.CardID] = state
	return nil
}

func (s *fakeSchedulingStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.SchedulingState, error) {
	var states []*domain.SchedulingState
	for _, state := range s.states {
		copied := *state
		states = append(states, &copied)
	}
	return states, nil
}

func (s *fakeSchedulingStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.SchedulingState, error) {
	return s.ListByDeck(ctx, uuid.Nil)
}

func (s *fakeSchedulingStore) WithTx(tx *sql.Tx) store.SchedulingStore { return s }
