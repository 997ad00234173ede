// Package store persists the game's users and guilds as a single document.
package store

import (
	"context"
	"log/slog"

	"github.com/playperu/crocodile/internal/crocodile"
)

// Store loads and overwrites the whole persisted state. Load recovers from a
// corrupted document by archiving it and starting from an empty state.
type Store interface {
	Load(ctx context.Context) (crocodile.State, error)
	Commit(ctx context.Context, st crocodile.State) error
	Ping(ctx context.Context) error
	Close() error
}

type options struct {
	logger        *slog.Logger
	defaultFilter bool
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDefaultFilter sets the filter flag of guilds whose document lacks one.
func WithDefaultFilter(filter bool) Option {
	return func(o *options) { o.defaultFilter = filter }
}

func newOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
