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
	"github.com/mnemolabs/mnemo-api/internal/stats"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

// StatsHandler serves derived statistics and goal tracking. Reads go
// straight to the aggregator; the handler only adds ownership checks on
// deck- and card-scoped reports.
type StatsHandler struct {
	aggregator *stats.Aggregator
	decks      store.DeckStore
	cards      store.CardStore
	logger     *slog.Logger
}

// NewStatsHandler creates a StatsHandler over the given aggregator and
// the stores used for ownership checks.
func NewStatsHandler(
	aggregator *stats.Aggregator,
	decks store.DeckStore,
	cards store.CardStore,
	log *slog.Logger,
) *StatsHandler {
	if aggregator == nil {
		panic("aggregator cannot be nil")
	}
	if decks == nil {
		panic("decks store cannot be nil")
	}
	if cards == nil {
		panic("cards store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &StatsHandler{
		aggregator: aggregator,
		decks:      decks,
		cards:      cards,
		logger:     log.With(slog.String("component", "stats_handler")),
	}
}

// GetDeckStatistics handles GET /api/decks/{deckID}/stats.
func (h *StatsHandler) GetDeckStatistics(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireUserAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	if !h.verifyDeckOwnership(w, r, userID, deckID) {
		return
	}

	report, err := h.aggregator.GetDeckStatistics(r.Context(), deckID)
	if err != nil {
		h.respondStatsError(w, r, err, "Failed to compute deck statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// GetGlobalStatistics handles GET /api/stats.
func (h *StatsHandler) GetGlobalStatistics(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	report, err := h.aggregator.GetGlobalStatistics(r.Context(), userID)
	if err != nil {
		h.respondStatsError(w, r, err, "Failed to compute statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// GetCardStatistics handles GET /api/cards/{cardID}/stats.
func (h *StatsHandler) GetCardStatistics(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := requireUserAndPathUUID(w, r, "cardID")
	if !ok {
		return
	}

	if !h.verifyCardOwnership(w, r, userID, cardID) {
		return
	}

	report, err := h.aggregator.GetCardStatistics(r.Context(), cardID)
	if err != nil {
		h.respondStatsError(w, r, err, "Failed to compute card statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// GetCardLearningCurve handles GET /api/cards/{cardID}/curve.
func (h *StatsHandler) GetCardLearningCurve(w http.ResponseWriter, r *http.Request) {
	userID, cardID, ok := requireUserAndPathUUID(w, r, "cardID")
	if !ok {
		return
	}

	if !h.verifyCardOwnership(w, r, userID, cardID) {
		return
	}

	curve, err := h.aggregator.GetCardLearningCurve(r.Context(), cardID)
	if err != nil {
		h.respondStatsError(w, r, err, "Failed to compute learning curve")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, curve)
}

// GetDailyProgress handles GET /api/progress/daily.
func (h *StatsHandler) GetDailyProgress(w http.ResponseWriter, r *http.Request) {
	h.userReport(w, r, "Failed to compute daily progress", func(userID uuid.UUID) (any, error) {
		return h.aggregator.GetDailyProgress(r.Context(), userID)
	})
}

// GetWeeklyTrend handles GET /api/progress/weekly.
func (h *StatsHandler) GetWeeklyTrend(w http.ResponseWriter, r *http.Request) {
	h.userReport(w, r, "Failed to compute weekly trend", func(userID uuid.UUID) (any, error) {
		return h.aggregator.GetWeeklyTrend(r.Context(), userID)
	})
}

// GetMonthlyReport handles GET /api/progress/monthly.
func (h *StatsHandler) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	h.userReport(w, r, "Failed to compute monthly report", func(userID uuid.UUID) (any, error) {
		return h.aggregator.GetMonthlyReport(r.Context(), userID)
	})
}

// GetGoalAchievement handles GET /api/goals/achievement.
func (h *StatsHandler) GetGoalAchievement(w http.ResponseWriter, r *http.Request) {
	h.userReport(w, r, "Failed to check goal achievement", func(userID uuid.UUID) (any, error) {
		return h.aggregator.CheckGoalAchievement(r.Context(), userID)
	})
}

// SetGoal handles PUT /api/goals.
func (h *StatsHandler) SetGoal(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req SetGoalRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	goals, err := h.aggregator.SetDailyGoal(r.Context(), userID, domain.GoalKind(req.Kind), req.Value)
	if err != nil {
		if errors.Is(err, domain.ErrGoalValueInvalid) {
			shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
			return
		}
		h.respondStatsError(w, r, err, "Failed to set goal")
		return
	}

	log.Debug("goal updated",
		slog.String("user_id", userID.String()),
		slog.String("kind", req.Kind),
		slog.Int("value", req.Value))
	shared.RespondWithJSON(w, r, http.StatusOK, goals)
}

func (h *StatsHandler) userReport(
	w http.ResponseWriter,
	r *http.Request,
	failMessage string,
	compute func(userID uuid.UUID) (any, error),
) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	report, err := compute(userID)
	if err != nil {
		h.respondStatsError(w, r, err, failMessage)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

func (h *StatsHandler) respondStatsError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
	failMessage string,
) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError {
		message = failMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

func (h *StatsHandler) verifyDeckOwnership(
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

func (h *StatsHandler) verifyCardOwnership(
	w http.ResponseWriter,
	r *http.Request,
	userID, cardID uuid.UUID,
) bool {
	card, err := h.cards.GetByID(r.Context(), cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Card not found")
			return false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to verify card", err)
		return false
	}

	return h.verifyDeckOwnership(w, r, userID, card.DeckID)
}
