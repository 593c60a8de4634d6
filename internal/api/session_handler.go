package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mnemolabs/mnemo-api/internal/api/shared"
	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/platform/logger"
	"github.com/mnemolabs/mnemo-api/internal/service/study"
)

// SessionHandler handles study session requests. All orchestration lives
// in the study service; the handler translates HTTP to service calls.
type SessionHandler struct {
	studyService study.Service
	logger       *slog.Logger
}

// NewSessionHandler creates a SessionHandler over the given study service.
func NewSessionHandler(studyService study.Service, log *slog.Logger) *SessionHandler {
	if studyService == nil {
		panic("studyService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &SessionHandler{
		studyService: studyService,
		logger:       log.With(slog.String("component", "session_handler")),
	}
}

// StartSession handles POST /api/sessions.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	session, err := h.studyService.StartSession(r.Context(), userID, req.DeckID, domain.SessionOptions{
		KeyboardShortcuts: req.KeyboardShortcuts,
		AutoAdvance:       req.AutoAdvance,
	})
	if err != nil {
		if errors.Is(err, study.ErrNoCardsDue) {
			log.Debug("no cards due", slog.String("deck_id", req.DeckID.String()))
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.respondServiceError(w, r, err, "Failed to start session")
		return
	}

	log.Debug("session started",
		slog.String("session_id", session.ID.String()),
		slog.String("deck_id", req.DeckID.String()),
		slog.Int("total_cards", session.TotalCards))
	shared.RespondWithJSON(w, r, http.StatusCreated, session)
}

// GetSession handles GET /api/sessions/{sessionID}.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := requireUserAndPathUUID(w, r, "sessionID")
	if !ok {
		return
	}

	session, err := h.studyService.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to get session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, session)
}

// ListSessions handles GET /api/sessions.
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	sessions, err := h.studyService.ListSessions(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to list sessions")
		return
	}

	if sessions == nil {
		sessions = []*domain.StudySession{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessions)
}

// NextCard handles GET /api/sessions/{sessionID}/next. Responds 204 when
// the session's deck has nothing left to review.
func (h *SessionHandler) NextCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := requireUserAndPathUUID(w, r, "sessionID")
	if !ok {
		return
	}

	card, err := h.studyService.NextCard(r.Context(), userID, sessionID)
	if err != nil {
		if errors.Is(err, study.ErrNoCardsDue) {
			log.Debug("no cards left in session", slog.String("session_id", sessionID.String()))
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.respondServiceError(w, r, err, "Failed to get next card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// SubmitAnswer handles POST /api/sessions/{sessionID}/answers.
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := requireUserAndPathUUID(w, r, "sessionID")
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.studyService.SubmitAnswer(r.Context(), userID, sessionID, study.Answer{
		CardID:         req.CardID,
		Quality:        domain.ReviewQuality(req.Quality),
		ResponseTimeMs: req.ResponseTimeMs,
	})
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to submit answer")
		return
	}

	log.Debug("answer submitted",
		slog.String("session_id", sessionID.String()),
		slog.String("card_id", req.CardID.String()),
		slog.Int("quality", req.Quality),
		slog.String("status", string(result.Session.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// PauseSession handles POST /api/sessions/{sessionID}/pause.
func (h *SessionHandler) PauseSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.studyService.PauseSession, "Failed to pause session")
}

// ResumeSession handles POST /api/sessions/{sessionID}/resume.
func (h *SessionHandler) ResumeSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.studyService.ResumeSession, "Failed to resume session")
}

// AbandonSession handles POST /api/sessions/{sessionID}/abandon.
func (h *SessionHandler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.studyService.AbandonSession, "Failed to abandon session")
}

func (h *SessionHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error),
	failMessage string,
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := requireUserAndPathUUID(w, r, "sessionID")
	if !ok {
		return
	}

	session, err := op(r.Context(), userID, sessionID)
	if err != nil {
		h.respondServiceError(w, r, err, failMessage)
		return
	}

	log.Debug("session transitioned",
		slog.String("session_id", sessionID.String()),
		slog.String("status", string(session.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, session)
}

// respondServiceError maps a study service error onto a status code and a
// sanitized message, falling back to failMessage for server errors.
func (h *SessionHandler) respondServiceError(
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
