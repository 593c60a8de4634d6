// Package api provides the HTTP handlers for the study service: auth,
// deck and card management, study sessions, and statistics.
package api

import (
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

// DeckResponse is a deck together with its card count.
type DeckResponse struct {
	*domain.Deck
	CardCount int `json:"card_count"`
}

// DeckHandler handles deck management requests.
type DeckHandler struct {
	decks  store.DeckStore
	cards  store.CardStore
	logger *slog.Logger
}

// NewDeckHandler creates a DeckHandler over the given stores.
func NewDeckHandler(decks store.DeckStore, cards store.CardStore, log *slog.Logger) *DeckHandler {
	if decks == nil {
		panic("decks store cannot be nil")
	}
	if cards == nil {
		panic("cards store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &DeckHandler{
		decks:  decks,
		cards:  cards,
		logger: log.With(slog.String("component", "deck_handler")),
	}
}

// CreateDeck handles POST /api/decks.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	deck, err := domain.NewDeck(userID, req.Name, req.Description)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck data: "+err.Error())
		return
	}

	if err := h.decks.Create(r.Context(), deck); err != nil {
		log.Error("failed to create deck", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create deck", err)
		return
	}

	log.Debug("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("user_id", userID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, DeckResponse{Deck: deck})
}

// ListDecks handles GET /api/decks.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	decks, err := h.decks.ListByUser(r.Context(), userID)
	if err != nil {
		log.Error("failed to list decks", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list decks", err)
		return
	}

	responses := make([]DeckResponse, 0, len(decks))
	for _, deck := range decks {
		count, err := h.cards.CountByDeck(r.Context(), deck.ID)
		if err != nil {
			log.Error("failed to count cards",
				slog.String("deck_id", deck.ID.String()),
				slog.String("error", err.Error()))
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list decks", err)
			return
		}
		responses = append(responses, DeckResponse{Deck: deck, CardCount: count})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetDeck handles GET /api/decks/{deckID}.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	deck, err := h.getOwnedDeck(w, r, userID, deckID)
	if err != nil {
		return
	}

	count, err := h.cards.CountByDeck(r.Context(), deckID)
	if err != nil {
		log.Error("failed to count cards", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to get deck", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DeckResponse{Deck: deck, CardCount: count})
}

// DeleteDeck handles DELETE /api/decks/{deckID}. Cards, scheduling state,
// and sessions go with the deck; review events stay as history.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	if _, err := h.getOwnedDeck(w, r, userID, deckID); err != nil {
		return
	}

	if err := h.decks.Delete(r.Context(), deckID); err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Deck not found")
			return
		}
		log.Error("failed to delete deck", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to delete deck", err)
		return
	}

	log.Debug("deck deleted",
		slog.String("deck_id", deckID.String()),
		slog.String("user_id", userID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// getOwnedDeck loads a deck and verifies ownership, writing the error
// response itself on failure. The returned error only signals that the
// handler should stop.
func (h *DeckHandler) getOwnedDeck(
	w http.ResponseWriter,
	r *http.Request,
	userID, deckID uuid.UUID,
) (*domain.Deck, error) {
	deck, err := h.decks.GetByID(r.Context(), deckID)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Deck not found")
			return nil, err
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to get deck", err)
		return nil, err
	}

	if deck.UserID != userID {
		shared.RespondWithError(w, r, http.StatusForbidden, GetSafeErrorMessage(study.ErrDeckNotOwned))
		return nil, study.ErrDeckNotOwned
	}

	return deck, nil
}
