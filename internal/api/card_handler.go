package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/api/shared"
	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/platform/logger"
	"github.com/mnemolabs/mnemo-api/internal/service/study"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

// CardResponse is a card together with its current scheduling state.
type CardResponse struct {
	*domain.Card
	Scheduling *domain.SchedulingState `json:"scheduling,omitempty"`
}

// CardHandler handles card management requests. Creating a card also
// seeds its scheduling state, in one transaction, so every card is
// immediately schedulable.
type CardHandler struct {
	cards      store.CardStore
	scheduling store.SchedulingStore
	decks      store.DeckStore
	logger     *slog.Logger
	runTx      func(ctx context.Context, fn store.TxFn) error
}

// NewCardHandler creates a CardHandler whose card creation runs inside
// database transactions on db.
func NewCardHandler(
	db *sql.DB,
	cards store.CardStore,
	scheduling store.SchedulingStore,
	decks store.DeckStore,
	log *slog.Logger,
) *CardHandler {
	if db == nil {
		panic("db cannot be nil")
	}

	h := newCardHandler(cards, scheduling, decks, log)
	h.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, db, fn)
	}
	return h
}

func newCardHandler(
	cards store.CardStore,
	scheduling store.SchedulingStore,
	decks store.DeckStore,
	log *slog.Logger,
) *CardHandler {
	if cards == nil {
		panic("cards store cannot be nil")
	}
	if scheduling == nil {
		panic("scheduling store cannot be nil")
	}
	if decks == nil {
		panic("decks store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &CardHandler{
		cards:      cards,
		scheduling: scheduling,
		decks:      decks,
		logger:     log.With(slog.String("component", "card_handler")),
	}
}

// CreateCard handles POST /api/decks/{deckID}/cards.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if !h.verifyDeckOwnership(w, r, userID, deckID) {
		return
	}

	card, err := domain.NewCard(deckID, req.Front, req.Back, req.Hint)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card data: "+err.Error())
		return
	}

	state, err := domain.NewSchedulingState(card.ID)
	if err != nil {
		log.Error("failed to build scheduling state", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create card", err)
		return
	}

	err = h.runTx(r.Context(), func(ctx context.Context, tx *sql.Tx) error {
		if err := h.cards.WithTx(tx).Create(ctx, card); err != nil {
			return err
		}
		return h.scheduling.WithTx(tx).Create(ctx, state)
	})
	if err != nil {
		log.Error("failed to create card", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create card", err)
		return
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", deckID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, CardResponse{Card: card, Scheduling: state})
}

// ListCards handles GET /api/decks/{deckID}/cards.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	if !h.verifyDeckOwnership(w, r, userID, deckID) {
		return
	}

	cards, err := h.cards.ListByDeck(r.Context(), deckID)
	if err != nil {
		log.Error("failed to list cards", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list cards", err)
		return
	}

	states, err := h.scheduling.ListByDeck(r.Context(), deckID)
	if err != nil {
		log.Error("failed to list scheduling states", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list cards", err)
		return
	}
	byCard := make(map[uuid.UUID]*domain.SchedulingState, len(states))
	for _, state := range states {
		byCard[state.CardID] = state
	}

	responses := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		responses = append(responses, CardResponse{Card: card, Scheduling: byCard[card.ID]})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// DeleteCard handles DELETE /api/cards/{cardID}. The card's scheduling
// state goes with it; its review events stay as history.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := requireUserAndPathUUID(w, r, "cardID")
	if !ok {
		return
	}

	card, err := h.cards.GetByID(r.Context(), cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Card not found")
			return
		}
		log.Error("failed to get card", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to delete card", err)
		return
	}

	if !h.verifyDeckOwnership(w, r, userID, card.DeckID) {
		return
	}

	if err := h.cards.Delete(r.Context(), cardID); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Card not found")
			return
		}
		log.Error("failed to delete card", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to delete card", err)
		return
	}

	log.Debug("card deleted",
		slog.String("card_id", cardID.String()),
		slog.String("user_id", userID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// verifyDeckOwnership loads the deck and checks that it belongs to the
// user, writing the error response itself on failure.
func (h *CardHandler) verifyDeckOwnership(
	w http.ResponseWriter,
	r *http.Request,
	userID, deckID uuid.UUID,
) bool {
	deck, err := h.decks.GetByID(r.Context(), deckID)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Deck not found")
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to verify deck", err)
		return false
	}

	if deck.UserID != userID {
		shared.RespondWithError(w, r, http.StatusForbidden, GetSafeErrorMessage(study.ErrDeckNotOwned))
		return false
	}

	return true
}
