package game

import (
	"github.com/playperu/crocodile/internal/crocodile"
)

// Session returns a copy of the channel's active round.
func (e *Engine) Session(channelID int64) (crocodile.Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions.get(channelID, e.now())
	if !ok {
		return crocodile.Session{}, false
	}
	return *s, true
}

func (e *Engine) Restriction(channelID int64) (crocodile.Restriction, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.restrictions.get(channelID, e.now())
}

func (e *Engine) Reactions(messageID int64) (crocodile.ReactionEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, err := e.reactions.get(messageID)
	if err != nil {
		return crocodile.ReactionEntry{}, err
	}
	return entry.Clone(), nil
}

// Leaderboard returns the guild's top n guessers, all of them when n <= 0.
func (e *Engine) Leaderboard(guildID int64, n int) ([]crocodile.LeaderboardEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.guilds.get(guildID)
	if err != nil {
		return nil, err
	}
	return g.Leaderboard.Top(n), nil
}

func (e *Engine) Profile(userID int64) (crocodile.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u, err := e.users.get(userID)
	if err != nil {
		return crocodile.User{}, err
	}
	return *u, nil
}

func (e *Engine) Guild(guildID int64) (crocodile.Guild, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.guilds.get(guildID)
	if err != nil {
		return crocodile.Guild{}, err
	}
	return g.Clone(), nil
}

// LanguageInfo describes a catalog entry for menus.
type LanguageInfo struct {
	Key           string `json:"key"`
	Name          string `json:"name"`
	Emoji         string `json:"emoji"`
	Words         int    `json:"words"`
	FilteredWords int    `json:"filteredWords"`
	Default       bool   `json:"default"`
}

// Languages lists the catalog sorted by key.
func (e *Engine) Languages() []LanguageInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := e.catalog.Keys()
	out := make([]LanguageInfo, 0, len(keys))
	for _, k := range keys {
		l, _ := e.catalog.Get(k)
		out = append(out, LanguageInfo{
			Key:           l.Key,
			Name:          l.Name,
			Emoji:         l.Emoji,
			Words:         len(l.Words),
			FilteredWords: len(l.FilteredWords),
			Default:       k == e.catalog.Default(),
		})
	}
	return out
}

// Stats is a snapshot of the engine's sizes.
type Stats struct {
	Users        int `json:"users"`
	Guilds       int `json:"guilds"`
	Sessions     int `json:"sessions"`
	Restrictions int `json:"restrictions"`
	Reactions    int `json:"reactions"`
}

// Stats counts entries as stored, including not yet evicted expired ones.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Stats{
		Users:        len(e.users.byID),
		Guilds:       len(e.guilds.byID),
		Sessions:     e.sessions.len(),
		Restrictions: e.restrictions.len(),
		Reactions:    len(e.reactions.byMessage),
	}
}
