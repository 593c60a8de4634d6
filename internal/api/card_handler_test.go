package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

type cardHandlerFixture struct {
	handler *CardHandler
	router  chi.Router
	decks   *fakeDeckStore
	cards   *fakeCardStore
	states  *fakeSchedulingStore
	owner   uuid.UUID
	deck    *domain.Deck
}

func newCardHandlerFixture(t *testing.T) *cardHandlerFixture {
	t.Helper()

	f := &cardHandlerFixture{
		decks:  newFakeDeckStore(),
		cards:  newFakeCardStore(),
		states: newFakeSchedulingStore(),
		owner:  uuid.New(),
	}

	deck, err := domain.NewDeck(f.owner, "Test deck", "")
	require.NoError(t, err)
	require.NoError(t, f.decks.Create(context.Background(), deck))
	f.deck = deck

	f.handler = newCardHandler(f.cards, f.states, f.decks, testLogger())
	f.handler.runTx = func(ctx context.Context, fn store.TxFn) error {
		return fn(ctx, (*sql.Tx)(nil))
	}

	r := chi.NewRouter()
	r.Post("/api/decks/{deckID}/cards", f.handler.CreateCard)
	r.Get("/api/decks/{deckID}/cards", f.handler.ListCards)
	r.Delete("/api/cards/{cardID}", f.handler.DeleteCard)
	f.router = r

	return f
}

func TestCreateCard_SeedsSchedulingState(t *testing.T) {
	t.Parallel()

	f := newCardHandlerFixture(t)

	body, err := json.Marshal(map[string]string{
		"front": "la casa",
		"back":  "the house",
		"hint":  "building",
	})
	require.NoError(t, err)

	req := withUser(httptest.NewRequest(
		http.MethodPost, "/api/decks/"+f.deck.ID.String()+"/cards", bytes.NewBuffer(body)), f.owner)
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp CardResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "la casa", resp.Front)
	assert.Equal(t, f.deck.ID, resp.DeckID)

	require.NotNil(t, resp.Scheduling)
	assert.InDelta(t, 2.5, resp.Scheduling.EaseFactor, 1e-9)
	assert.Zero(t, resp.Scheduling.Repetitions)

	state, err := f.states.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, state.IsNew())
}

func TestCreateCard_Validation(t *testing.T) {
	t.Parallel()

	f := newCardHandlerFixture(t)

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{name: "missing front", payload: map[string]string{"back": "the house"}},
		{name: "missing back", payload: map[string]string{"front": "la casa"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			req := withUser(httptest.NewRequest(
				http.MethodPost, "/api/decks/"+f.deck.ID.String()+"/cards", bytes.NewBuffer(body)), f.owner)
			recorder := httptest.NewRecorder()
			f.router.ServeHTTP(recorder, req)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestCreateCard_ForeignDeckForbidden(t *testing.T) {
	t.Parallel()

	f := newCardHandlerFixture(t)

	body := bytes.NewBufferString(`{"front": "a", "back": "b"}`)
	req := withUser(httptest.NewRequest(
		http.MethodPost, "/api/decks/"+f.deck.ID.String()+"/cards", body), uuid.New())
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestListCards_IncludesScheduling(t *testing.T) {
	t.Parallel()

	f := newCardHandlerFixture(t)

	card, err := domain.NewCard(f.deck.ID, "front", "back", "")
	require.NoError(t, err)
	require.NoError(t, f.cards.Create(context.Background(), card))
	state, err := domain.NewSchedulingState(card.ID)
	require.NoError(t, err)
	require.NoError(t, f.states.Create(context.Background(), state))

	req := withUser(httptest.NewRequest(
		http.MethodGet, "/api/decks/"+f.deck.ID.String()+"/cards", nil), f.owner)
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp []CardResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, card.ID, resp[0].ID)
	require.NotNil(t, resp[0].Scheduling)
	assert.Equal(t, card.ID, resp[0].Scheduling.CardID)
}

func TestDeleteCard(t *testing.T) {
	t.Parallel()

	f := newCardHandlerFixture(t)

	card, err := domain.NewCard(f.deck.ID, "front", "back", "")
	require.NoError(t, err)
	require.NoError(t, f.cards.Create(context.Background(), card))

	t.Run("other user is forbidden", func(t *testing.T) {
		req := withUser(httptest.NewRequest(
			http.MethodDelete, "/api/cards/"+card.ID.String(), nil), uuid.New())
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("owner deletes the card", func(t *testing.T) {
		req := withUser(httptest.NewRequest(
			http.MethodDelete, "/api/cards/"+card.ID.String(), nil), f.owner)
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNoContent, recorder.Code)

		_, err := f.cards.GetByID(context.Background(), card.ID)
		assert.Error(t, err)
	})

	t.Run("unknown card is not found", func(t *testing.T) {
		req := withUser(httptest.NewRequest(
			http.MethodDelete, "/api/cards/"+uuid.NewString(), nil), f.owner)
		recorder := httptest.NewRecorder()
		f.router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
