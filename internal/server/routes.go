package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

// Deps are the collaborators the HTTP API serves.
type Deps struct {
	Hunt      Hunt
	Broker    *Broker
	Metrics   *Metrics
	PublicURL string
	// StaticDir holds the built player app. Empty means API only.
	StaticDir string
}

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	h, broker, metrics := deps.Hunt, deps.Broker, deps.Metrics

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Treasure Hunt API", "/openapi.json", "/docs"))
	r.Method("GET", "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", handleRegister(logger, h, metrics))
		r.Get("/leaderboard", handleLeaderboard(logger, h))
		r.Get("/leaderboard/events", handleLeaderboardEvents(broker))

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(sessionMiddleware)
			r.Get("/", handleSession(logger, h))
			r.Get("/qr.png", handleQR(logger, h, deps.PublicURL))
			r.Post("/answer", handleAnswer(logger, h, metrics))
			r.Post("/hint", handleClueAction(logger, "hint", h.Hint, metrics))
			r.Post("/reveal", handleClueAction(logger, "reveal", h.Reveal, metrics))
			r.Post("/skip", handleClueAction(logger, "skip", h.Skip, metrics))
		})
	})
}
