package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/crocodile/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Crocodile API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Route("/api", func(r chi.Router) {
		r.Get("/languages", handleLanguages(deps.Engine))
		r.Get("/stats", handleStats(deps.Engine))
		r.Get("/guilds/{guildID}/leaderboard", handleLeaderboard(deps.Engine))
		r.Get("/users/{userID}", handleUser(deps.Engine))
		r.Get("/channels/{channelID}/session", handleSession(deps.Engine))
		r.Get("/events", handleEvents(deps.Broker))

		if deps.AdminTokenHash == "" {
			logger.Info("admin token not configured, admin routes disabled")
			return
		}
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminAuthMiddleware(deps.AdminTokenHash))
			r.Post("/reload", handleReload(logger, deps.Engine))
		})
	})
}
