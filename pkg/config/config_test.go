package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "store.db", cfg.DB.Path)
	assert.Equal(t, "3000", cfg.App.Port)
	assert.True(t, cfg.App.IsDev())
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	t.Setenv("STORE_DB_DRIVER", "postgres")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DB_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
}
