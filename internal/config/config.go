package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"file"`
	UsersFile   string `env:"USERS_FILE" envDefault:"users.json"`
	DBPath      string `env:"DB_PATH" envDefault:"data/crocodile.db"`

	// DataFile lists the languages; LangDir holds their word lists.
	DataFile string `env:"DATA_FILE" envDefault:"data.json"`
	LangDir  string `env:"LANG_DIR" envDefault:"lang"`

	GameLength             time.Duration `env:"GAME_LENGTH" envDefault:"5m"`
	RestrictionTime        time.Duration `env:"RESTRICTION_TIME" envDefault:"10s"`
	FilterSymbolsByDefault bool          `env:"FILTER_SYMBOLS_BY_DEFAULT" envDefault:"false"`
	ReactionRetention      time.Duration `env:"REACTION_RETENTION" envDefault:"24h"`
	SweepInterval          time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`

	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`
	// AdminTokenHash is a bcrypt hash of the ops API token. Empty disables
	// the admin endpoints.
	AdminTokenHash string `env:"ADMIN_TOKEN_HASH"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case DriverFile, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER: unknown driver %q", c.StoreDriver))
	}
	for name, d := range map[string]time.Duration{
		"GAME_LENGTH":        c.GameLength,
		"RESTRICTION_TIME":   c.RestrictionTime,
		"REACTION_RETENTION": c.ReactionRetention,
		"SWEEP_INTERVAL":     c.SweepInterval,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s: must be positive, got %s", name, d))
		}
	}
	return errors.Join(errs...)
}
