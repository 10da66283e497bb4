package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("COOKIE_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("DATABASE_URL", "postgres://gh:gh@localhost:5432/gh")
	t.Setenv("SESSION_MAX_IDLE", "45m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 45*time.Minute, cfg.SessionMaxIdle)
	assert.True(t, cfg.SingleSession)
	assert.Equal(t, "postgres://gh:gh@localhost:5432/gh", cfg.Database.ConnectionString)
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("COOKIE_SECRET", "short")
	t.Setenv("DATABASE_URL", "postgres://gh:gh@localhost:5432/gh")

	_, err := Load()
	assert.Error(t, err)
}
