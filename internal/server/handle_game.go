package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/playperu/crocodile/internal/crocodile"
)

const defaultPlaces = 10

type LeaderboardPlace struct {
	Place  int   `json:"place"`
	UserID int64 `json:"userId"`
	Count  int64 `json:"count"`
}

type LeaderboardResponse struct {
	GuildID int64              `json:"guildId"`
	Places  []LeaderboardPlace `json:"places"`
}

type UserResponse struct {
	ID             int64     `json:"id"`
	XP             int64     `json:"xp"`
	XPGuessed      int64     `json:"xpGuessed"`
	XPExplained    int64     `json:"xpExplained"`
	Moonrocks      int64     `json:"moonrocks"`
	WordsGuessed   int64     `json:"wordsGuessed"`
	WordsExplained int64     `json:"wordsExplained"`
	WordsChosen    int64     `json:"wordsChosen"`
	Likes          int64     `json:"likes"`
	Dislikes       int64     `json:"dislikes"`
	StartedPlaying time.Time `json:"startedPlaying"`
}

// SessionResponse describes a channel's round without its secret word.
type SessionResponse struct {
	ChannelID   int64      `json:"channelId"`
	Active      bool       `json:"active"`
	GuildID     int64      `json:"guildId,omitempty"`
	StarterID   int64      `json:"starterId,omitempty"`
	StarterName string     `json:"starterName,omitempty"`
	Reward      int64      `json:"reward"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`

	Restricted      bool       `json:"restricted"`
	RestrictedUntil *time.Time `json:"restrictedUntil,omitempty"`
	RestrictedFor   int64      `json:"restrictedFor,omitempty"`
}

func handleLeaderboard(engine Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID, ok := idParam(r, "guildID")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid guild id")
			return
		}

		places := defaultPlaces
		if v := r.URL.Query().Get("places"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "places must be a non-negative integer")
				return
			}
			places = n
		}

		top, err := engine.Leaderboard(guildID, places)
		if err != nil {
			writeEngineError(w, err)
			return
		}

		resp := LeaderboardResponse{GuildID: guildID, Places: make([]LeaderboardPlace, 0, len(top))}
		for i, e := range top {
			resp.Places = append(resp.Places, LeaderboardPlace{Place: i + 1, UserID: e.UserID, Count: e.Count})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleUser(engine Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := idParam(r, "userID")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid user id")
			return
		}

		u, err := engine.Profile(userID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func toUserResponse(u crocodile.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		XP:             u.XP,
		XPGuessed:      u.XPGuessed,
		XPExplained:    u.XPExplained,
		Moonrocks:      u.Moonrocks,
		WordsGuessed:   u.WordsGuessed,
		WordsExplained: u.WordsExplained,
		WordsChosen:    u.WordsChosen,
		Likes:          u.Likes,
		Dislikes:       u.Dislikes,
		StartedPlaying: u.StartedPlaying,
	}
}

func handleSession(engine Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channelID, ok := idParam(r, "channelID")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid channel id")
			return
		}

		resp := SessionResponse{ChannelID: channelID}
		if s, ok := engine.Session(channelID); ok {
			resp.Active = true
			resp.GuildID = s.GuildID
			resp.StarterID = s.StarterID
			resp.StarterName = s.StarterName
			resp.Reward = s.Reward
			resp.StartedAt = &s.StartedAt
			resp.ExpiresAt = &s.ExpiresAt
		}
		if res, ok := engine.Restriction(channelID); ok {
			resp.Restricted = true
			resp.RestrictedUntil = &res.ExpiresAt
			resp.RestrictedFor = res.GuesserID
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleLanguages(engine Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, engine.Languages())
	}
}

func handleStats(engine Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, engine.Stats())
	}
}
