package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/playperu/crocodile/internal/crocodile"
	"github.com/playperu/crocodile/internal/game"
	"github.com/playperu/crocodile/internal/handler/health"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeEngine struct {
	leaderboard  []crocodile.LeaderboardEntry
	users        map[int64]crocodile.User
	sessions     map[int64]crocodile.Session
	restrictions map[int64]crocodile.Restriction
	reloadErr    error
	reloads      int
}

func (f *fakeEngine) Leaderboard(guildID int64, n int) ([]crocodile.LeaderboardEntry, error) {
	if guildID != 100 {
		return nil, fmt.Errorf("guild %d: %w", guildID, crocodile.ErrNotFound)
	}
	if n > 0 && n < len(f.leaderboard) {
		return f.leaderboard[:n], nil
	}
	return f.leaderboard, nil
}

func (f *fakeEngine) Profile(userID int64) (crocodile.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return crocodile.User{}, crocodile.ErrNotFound
	}
	return u, nil
}

func (f *fakeEngine) Session(channelID int64) (crocodile.Session, bool) {
	s, ok := f.sessions[channelID]
	return s, ok
}

func (f *fakeEngine) Restriction(channelID int64) (crocodile.Restriction, bool) {
	r, ok := f.restrictions[channelID]
	return r, ok
}

func (f *fakeEngine) Languages() []game.LanguageInfo {
	return []game.LanguageInfo{{Key: "ru", Name: "Русский", Words: 3, FilteredWords: 2, Default: true}}
}

func (f *fakeEngine) Stats() game.Stats {
	return game.Stats{Users: len(f.users), Sessions: len(f.sessions)}
}

func (f *fakeEngine) Reload(context.Context) error {
	f.reloads++
	return f.reloadErr
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		leaderboard: []crocodile.LeaderboardEntry{
			{UserID: 2, Count: 5},
			{UserID: 1, Count: 3},
			{UserID: 3, Count: 3},
		},
		users: map[int64]crocodile.User{
			1: {ID: 1, XP: 16, Moonrocks: 2, WordsGuessed: 1, StartedPlaying: testNow},
		},
		sessions: map[int64]crocodile.Session{
			200: {
				ChannelID:   200,
				GuildID:     100,
				StarterID:   1,
				StarterName: "alice",
				Word:        "крокодил",
				StartedAt:   testNow,
				ExpiresAt:   testNow.Add(5 * time.Minute),
			},
		},
		restrictions: map[int64]crocodile.Restriction{
			300: {ChannelID: 300, GuesserID: 2, ExpiresAt: testNow.Add(10 * time.Second)},
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouterWith(t *testing.T, engine *fakeEngine, broker *Broker, tokenHash string) chi.Router {
	t.Helper()
	return newRouter(testLogger(), Deps{
		Engine: engine,
		Broker: broker,
		Checks: map[string]health.Checker{
			"store": health.CheckFunc(func(context.Context) error { return nil }),
		},
		AdminTokenHash: tokenHash,
	})
}

func newTestRouter(t *testing.T, tokenHash string) chi.Router {
	t.Helper()
	return newTestRouterWith(t, newFakeEngine(), NewBroker(testLogger()), tokenHash)
}

func TestLeaderboard(t *testing.T) {
	r := newTestRouter(t, "")

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantPlaces []LeaderboardPlace
	}{
		{
			name:       "default places",
			path:       "/api/guilds/100/leaderboard",
			wantStatus: http.StatusOK,
			wantPlaces: []LeaderboardPlace{
				{Place: 1, UserID: 2, Count: 5},
				{Place: 2, UserID: 1, Count: 3},
				{Place: 3, UserID: 3, Count: 3},
			},
		},
		{
			name:       "limited",
			path:       "/api/guilds/100/leaderboard?places=1",
			wantStatus: http.StatusOK,
			wantPlaces: []LeaderboardPlace{{Place: 1, UserID: 2, Count: 5}},
		},
		{name: "unknown guild", path: "/api/guilds/7/leaderboard", wantStatus: http.StatusNotFound},
		{name: "bad guild id", path: "/api/guilds/abc/leaderboard", wantStatus: http.StatusBadRequest},
		{name: "bad places", path: "/api/guilds/100/leaderboard?places=-2", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp LeaderboardResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if len(resp.Places) != len(tt.wantPlaces) {
				t.Fatalf("places = %v, want %v", resp.Places, tt.wantPlaces)
			}
			for i := range tt.wantPlaces {
				if resp.Places[i] != tt.wantPlaces[i] {
					t.Errorf("place %d = %+v, want %+v", i, resp.Places[i], tt.wantPlaces[i])
				}
			}
		})
	}
}

func TestUser(t *testing.T) {
	r := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/users/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp UserResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.XP != 16 || resp.Moonrocks != 2 || resp.WordsGuessed != 1 {
		t.Errorf("unexpected profile: %+v", resp)
	}
	if !resp.StartedPlaying.Equal(testNow) {
		t.Errorf("startedPlaying = %v, want %v", resp.StartedPlaying, testNow)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users/9", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestSession(t *testing.T) {
	r := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/channels/200/session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "крокодил") {
		t.Fatalf("session response leaks the word: %s", w.Body.String())
	}
	var resp SessionResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if !resp.Active || resp.StarterName != "alice" || resp.Restricted {
		t.Errorf("unexpected session: %+v", resp)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/channels/300/session", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	resp = SessionResponse{}
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Active || !resp.Restricted || resp.RestrictedFor != 2 {
		t.Errorf("unexpected restricted channel: %+v", resp)
	}
}

func TestLanguagesAndStats(t *testing.T) {
	r := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/languages", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var langs []game.LanguageInfo
	json.NewDecoder(w.Body).Decode(&langs)
	if len(langs) != 1 || langs[0].Key != "ru" || !langs[0].Default {
		t.Errorf("unexpected languages: %+v", langs)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var stats game.Stats
	json.NewDecoder(w.Body).Decode(&stats)
	if stats.Users != 1 || stats.Sessions != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminReload(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing token: %v", err)
	}
	engine := newFakeEngine()
	r := newTestRouterWith(t, engine, NewBroker(testLogger()), string(hash))

	tests := []struct {
		name       string
		auth       string
		reloadErr  error
		wantStatus int
	}{
		{name: "no token", wantStatus: http.StatusUnauthorized},
		{name: "wrong token", auth: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", auth: "s3cret", wantStatus: http.StatusUnauthorized},
		{name: "ok", auth: "Bearer s3cret", wantStatus: http.StatusOK},
		{name: "reload fails", auth: "Bearer s3cret", reloadErr: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine.reloadErr = tt.reloadErr
			req := httptest.NewRequest(http.MethodPost, "/api/admin/reload", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}

	if engine.reloads != 2 {
		t.Errorf("reloads = %d, want 2", engine.reloads)
	}
}

func TestAdminRoutesDisabledWithoutToken(t *testing.T) {
	r := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/admin/reload", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
