package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mnemolabs/mnemo-api/internal/api"
	apiMiddleware "github.com/mnemolabs/mnemo-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.authService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	deckHandler := api.NewDeckHandler(app.deckStore, app.cardStore, app.logger)
	cardHandler := api.NewCardHandler(app.db, app.cardStore, app.schedulingStore, app.deckStore, app.logger)
	sessionHandler := api.NewSessionHandler(app.studyService, app.logger)
	statsHandler := api.NewStatsHandler(app.aggregator, app.deckStore, app.cardStore, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Deck management
			r.Post("/decks", deckHandler.CreateDeck)
			r.Get("/decks", deckHandler.ListDecks)
			r.Get("/decks/{deckID}", deckHandler.GetDeck)
			r.Delete("/decks/{deckID}", deckHandler.DeleteDeck)

			// Card management
			r.Post("/decks/{deckID}/cards", cardHandler.CreateCard)
			r.Get("/decks/{deckID}/cards", cardHandler.ListCards)
			r.Delete("/cards/{cardID}", cardHandler.DeleteCard)

			// Study sessions
			r.Post("/sessions", sessionHandler.StartSession)
			r.Get("/sessions", sessionHandler.ListSessions)
			r.Get("/sessions/{sessionID}", sessionHandler.GetSession)
			r.Get("/sessions/{sessionID}/next", sessionHandler.NextCard)
			r.Post("/sessions/{sessionID}/answers", sessionHandler.SubmitAnswer)
			r.Post("/sessions/{sessionID}/pause", sessionHandler.PauseSession)
			r.Post("/sessions/{sessionID}/resume", sessionHandler.ResumeSession)
			r.Post("/sessions/{sessionID}/abandon", sessionHandler.AbandonSession)

			// Statistics and progress
			r.Get("/stats", statsHandler.GetGlobalStatistics)
			r.Get("/decks/{deckID}/stats", statsHandler.GetDeckStatistics)
			r.Get("/cards/{cardID}/stats", statsHandler.GetCardStatistics)
			r.Get("/cards/{cardID}/curve", statsHandler.GetCardLearningCurve)
			r.Get("/progress/daily", statsHandler.GetDailyProgress)
			r.Get("/progress/weekly", statsHandler.GetWeeklyTrend)
			r.Get("/progress/monthly", statsHandler.GetMonthlyReport)
			r.Put("/goals", statsHandler.SetGoal)
			r.Get("/goals/achievement", statsHandler.GetGoalAchievement)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
