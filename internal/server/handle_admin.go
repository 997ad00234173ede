package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/crocodile/internal/game"
)

type ReloadResponse struct {
	Status string     `json:"status"`
	Stats  game.Stats `json:"stats"`
}

func handleReload(logger *slog.Logger, engine Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := engine.Reload(r.Context()); err != nil {
			logger.Error("reload failed", "error", err)
			writeError(w, http.StatusInternalServerError, "reload failed")
			return
		}
		writeJSON(w, http.StatusOK, ReloadResponse{Status: "reloaded", Stats: engine.Stats()})
	}
}
