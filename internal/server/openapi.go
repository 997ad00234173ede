package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/crocodile/internal/game"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps each checked dependency to its status.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

type guildPath struct {
	GuildID int64 `path:"guildID"`
	Places  int   `query:"places" description:"Number of places, 0 for all." default:"10"`
}

type userPath struct {
	UserID int64 `path:"userID"`
}

type channelPath struct {
	ChannelID int64 `path:"channelID"`
}

type eventsQuery struct {
	Kind string `query:"kind" description:"Only stream events of this kind."`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Crocodile API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Operations API for the crocodile word-guessing game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of the store and the word catalog.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/languages
	getLanguages, _ := r.NewOperationContext(http.MethodGet, "/api/languages")
	getLanguages.SetSummary("List languages")
	getLanguages.SetDescription("Returns the loaded word lists with their sizes.")
	getLanguages.AddRespStructure([]game.LanguageInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLanguages)

	// GET /api/stats
	getStats, _ := r.NewOperationContext(http.MethodGet, "/api/stats")
	getStats.SetSummary("Engine stats")
	getStats.SetDescription("Counts users, guilds, rounds, cooldowns and vote tallies held in memory.")
	getStats.AddRespStructure(game.Stats{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getStats)

	// GET /api/guilds/{guildID}/leaderboard
	getLeaderboard, _ := r.NewOperationContext(http.MethodGet, "/api/guilds/{guildID}/leaderboard")
	getLeaderboard.SetSummary("Guild leaderboard")
	getLeaderboard.SetDescription("Returns the guild's top guessers, most words first.")
	getLeaderboard.AddReqStructure(guildPath{})
	getLeaderboard.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getLeaderboard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	getLeaderboard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getLeaderboard)

	// GET /api/users/{userID}
	getUser, _ := r.NewOperationContext(http.MethodGet, "/api/users/{userID}")
	getUser.SetSummary("User profile")
	getUser.SetDescription("Returns a player's experience, moonrocks and counters.")
	getUser.AddReqStructure(userPath{})
	getUser.AddRespStructure(UserResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	getUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getUser)

	// GET /api/channels/{channelID}/session
	getSession, _ := r.NewOperationContext(http.MethodGet, "/api/channels/{channelID}/session")
	getSession.SetSummary("Channel round")
	getSession.SetDescription("Returns the channel's active round and cooldown. The secret word is never included.")
	getSession.AddReqStructure(channelPath{})
	getSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getSession)

	// GET /api/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of game events. Each event is named after its kind.")
	getEvents.AddReqStructure(eventsQuery{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/admin/reload
	postReload, _ := r.NewOperationContext(http.MethodPost, "/api/admin/reload")
	postReload.SetSummary("Reload")
	postReload.SetDescription("Re-reads the word lists and the persisted users and guilds. Requires a Bearer admin token.")
	postReload.AddRespStructure(ReloadResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postReload.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postReload.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(postReload)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
