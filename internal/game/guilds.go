package game

import (
	"fmt"

	"github.com/playperu/crocodile/internal/crocodile"
)

type guildBook struct {
	byID map[int64]*crocodile.Guild
}

func newGuildBook(guilds map[int64]*crocodile.Guild) *guildBook {
	if guilds == nil {
		guilds = make(map[int64]*crocodile.Guild)
	}
	return &guildBook{byID: guilds}
}

func (b *guildBook) ensure(id int64, language string, filter bool) (g *crocodile.Guild, created bool) {
	if g, ok := b.byID[id]; ok {
		return g, false
	}
	g = &crocodile.Guild{ID: id, Language: language, Filter: filter}
	b.byID[id] = g
	return g, true
}

func (b *guildBook) get(id int64) (*crocodile.Guild, error) {
	g, ok := b.byID[id]
	if !ok {
		return nil, fmt.Errorf("guild %d: %w", id, crocodile.ErrNotFound)
	}
	return g, nil
}
