package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, DriverFile, cfg.StoreDriver)
	assert.Equal(t, "users.json", cfg.UsersFile)
	assert.Equal(t, "data.json", cfg.DataFile)
	assert.Equal(t, 5*time.Minute, cfg.GameLength)
	assert.Equal(t, 10*time.Second, cfg.RestrictionTime)
	assert.False(t, cfg.FilterSymbolsByDefault)
	assert.Equal(t, 24*time.Hour, cfg.ReactionRetention)
	assert.Empty(t, cfg.AdminIDs)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("GAME_LENGTH", "90s")
	t.Setenv("FILTER_SYMBOLS_BY_DEFAULT", "true")
	t.Setenv("ADMIN_IDS", "42,7")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 90*time.Second, cfg.GameLength)
	assert.True(t, cfg.FilterSymbolsByDefault)
	assert.Equal(t, []int64{42, 7}, cfg.AdminIDs)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{name: "unknown driver", key: "STORE_DRIVER", value: "redis"},
		{name: "zero game length", key: "GAME_LENGTH", value: "0s"},
		{name: "negative restriction", key: "RESTRICTION_TIME", value: "-1s"},
		{name: "malformed duration", key: "SWEEP_INTERVAL", value: "soon"},
		{name: "malformed admin id", key: "ADMIN_IDS", value: "1,abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
