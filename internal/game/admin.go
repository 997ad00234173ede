package game

import (
	"context"
	"fmt"
	"time"

	"github.com/playperu/crocodile/internal/crocodile"
)

func (e *Engine) SetGuildLanguage(ctx context.Context, guildID int64, key string) ([]crocodile.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.catalog.Get(key); !ok {
		return nil, fmt.Errorf("language %q: %w", key, crocodile.ErrUnknownLanguage)
	}
	var b batch
	e.ensureGuild(&b, guildID).Language = key
	b.dirty = true
	return e.finish(ctx, &b, nil)
}

// SetGuildFilter switches the guild between the full and the purely
// alphabetic word list.
func (e *Engine) SetGuildFilter(ctx context.Context, guildID int64, filter bool) ([]crocodile.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var b batch
	e.ensureGuild(&b, guildID).Filter = filter
	b.dirty = true
	return e.finish(ctx, &b, nil)
}

// Reload re-reads the catalog and the persisted users and guilds. Rounds,
// cooldowns and vote tallies in progress are kept. On failure the engine
// keeps what it had.
func (e *Engine) Reload(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cat := e.catalog
	if e.loadCatalog != nil {
		c, err := e.loadCatalog()
		if err != nil {
			return fmt.Errorf("reloading catalog: %w", err)
		}
		cat = c
	}
	st, err := e.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("reloading state: %w", err)
	}

	e.catalog = cat
	e.adopt(st)
	e.logger.Info("game reloaded",
		"users", len(e.users.byID),
		"guilds", len(e.guilds.byID),
		"languages", cat.Len(),
	)
	return nil
}

// SweepStats counts what a sweep dropped.
type SweepStats struct {
	Sessions     int `json:"sessions"`
	Restrictions int `json:"restrictions"`
	Reactions    int `json:"reactions"`
}

// Sweep evicts expired rounds and cooldowns and forgets vote tallies older
// than the retention period. Nothing persisted changes, so it does not
// commit.
func (e *Engine) Sweep(now time.Time) SweepStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := SweepStats{
		Sessions:     e.sessions.sweep(now),
		Restrictions: e.restrictions.sweep(now),
	}
	if e.settings.ReactionRetention > 0 {
		stats.Reactions = e.reactions.prune(now.Add(-e.settings.ReactionRetention))
	}
	if stats != (SweepStats{}) {
		e.logger.Debug("swept",
			"sessions", stats.Sessions,
			"restrictions", stats.Restrictions,
			"reactions", stats.Reactions,
		)
	}
	return stats
}
