// Package game runs the crocodile rounds: sessions, cooldowns, the user
// economy, guild leaderboards and explanation votes.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/playperu/crocodile/internal/catalog"
	"github.com/playperu/crocodile/internal/crocodile"
	"github.com/playperu/crocodile/internal/store"
)

// Notifier receives the events of every call that completed.
type Notifier interface {
	Notify(events ...crocodile.Event)
}

// Settings are the tunable game rules.
type Settings struct {
	GameLength        time.Duration
	RestrictionTime   time.Duration
	ReactionRetention time.Duration
	FilterByDefault   bool
	AdminIDs          []int64
}

func DefaultSettings() Settings {
	return Settings{
		GameLength:        5 * time.Minute,
		RestrictionTime:   10 * time.Second,
		ReactionRetention: 24 * time.Hour,
	}
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

func WithSettings(s Settings) Option {
	return func(e *Engine) { e.settings = s }
}

// WithCatalogLoader lets Reload re-read the language configuration and
// word lists.
func WithCatalogLoader(load func() (*catalog.Catalog, error)) Option {
	return func(e *Engine) { e.loadCatalog = load }
}

// Engine is the single entry point for the chat front-end. Every method
// runs to completion under one lock, and each call that changes persisted
// state commits it before returning.
type Engine struct {
	mu sync.Mutex

	store       store.Store
	catalog     *catalog.Catalog
	loadCatalog func() (*catalog.Catalog, error)
	notifier    Notifier
	logger      *slog.Logger
	now         func() time.Time
	rng         *rand.Rand
	settings    Settings

	users        *userLedger
	guilds       *guildBook
	sessions     *sessionRegistry
	restrictions *restrictionRegistry
	reactions    *reactionLedger
}

// New loads the persisted state from st and returns a ready engine.
func New(ctx context.Context, st store.Store, cat *catalog.Catalog, opts ...Option) (*Engine, error) {
	if cat == nil {
		return nil, errors.New("game: nil catalog")
	}
	e := &Engine{
		store:        st,
		catalog:      cat,
		logger:       slog.Default(),
		now:          time.Now,
		rng:          rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		settings:     DefaultSettings(),
		sessions:     newSessionRegistry(),
		restrictions: newRestrictionRegistry(),
		reactions:    newReactionLedger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	state, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	e.adopt(state)
	e.logger.Info("game state loaded",
		"users", len(e.users.byID),
		"guilds", len(e.guilds.byID),
		"languages", cat.Len(),
	)
	return e, nil
}

// adopt installs a freshly loaded state, filling in what older documents
// may lack.
func (e *Engine) adopt(st crocodile.State) {
	now := e.now()
	for id, u := range st.Users {
		u.ID = id
		if u.StartedPlaying.IsZero() {
			u.StartedPlaying = now
		}
	}
	for id, g := range st.Guilds {
		g.ID = id
		if g.Language == "" {
			g.Language = e.catalog.Default()
		}
	}
	e.users = newUserLedger(st.Users)
	e.guilds = newGuildBook(st.Guilds)
}

func (e *Engine) state() crocodile.State {
	return crocodile.State{Users: e.users.byID, Guilds: e.guilds.byID}
}

// batch collects what a single call produced.
type batch struct {
	events []crocodile.Event
	dirty  bool
}

func (b *batch) add(ev crocodile.Event) {
	b.events = append(b.events, ev)
	b.dirty = true
}

// finish commits the batch when it changed anything and forwards its events.
// opErr is the outcome of the operation itself; mutations made before it
// failed are still committed.
func (e *Engine) finish(ctx context.Context, b *batch, opErr error) ([]crocodile.Event, error) {
	if b.dirty {
		if err := e.store.Commit(ctx, e.state()); err != nil {
			e.logger.Error("committing state", "error", err)
			return b.events, errors.Join(opErr, fmt.Errorf("committing state: %w", err))
		}
	}
	if e.notifier != nil && len(b.events) > 0 {
		e.notifier.Notify(b.events...)
	}
	return b.events, opErr
}

func (e *Engine) ensureUser(b *batch, id int64) *crocodile.User {
	u, created := e.users.ensure(id, e.now())
	if created {
		e.logger.Info("account created", "user_id", id)
		b.add(crocodile.AccountCreated{UserID: id})
	}
	return u
}

func (e *Engine) ensureGuild(b *batch, id int64) *crocodile.Guild {
	g, created := e.guilds.ensure(id, e.catalog.Default(), e.settings.FilterByDefault)
	if created {
		e.logger.Info("guild created", "guild_id", id)
		b.add(crocodile.GuildCreated{GuildID: id})
	}
	return g
}

// pick draws a word in the guild's language. A guild whose language was
// dropped from the catalog falls back to the default one.
func (e *Engine) pick(g *crocodile.Guild) (string, error) {
	lang, ok := e.catalog.Get(g.Language)
	if !ok {
		e.logger.Warn("guild language missing from catalog, using default",
			"guild_id", g.ID,
			"language", g.Language,
		)
		lang, _ = e.catalog.Get(e.catalog.Default())
	}
	return lang.Pick(e.rng, g.Filter)
}

func (e *Engine) EnsureUser(ctx context.Context, userID int64) ([]crocodile.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var b batch
	e.ensureUser(&b, userID)
	return e.finish(ctx, &b, nil)
}

func (e *Engine) EnsureGuild(ctx context.Context, guildID int64) ([]crocodile.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var b batch
	e.ensureGuild(&b, guildID)
	return e.finish(ctx, &b, nil)
}

// PickWord draws a word for guildID without starting a round.
func (e *Engine) PickWord(ctx context.Context, guildID int64) (string, []crocodile.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var b batch
	word, err := e.pick(e.ensureGuild(&b, guildID))
	events, err := e.finish(ctx, &b, err)
	return word, events, err
}

// IsAdmin reports whether userID may use the administrative commands.
func (e *Engine) IsAdmin(userID int64) bool {
	return slices.Contains(e.settings.AdminIDs, userID)
}
