package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "advisor.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "advisor.db", cfg.DatabaseURL)
	assert.Equal(t, "sqlite3", cfg.DatabaseDriver)
	assert.Equal(t, "gl_sessions", cfg.SessionsKey)
	assert.Equal(t, "GlobalLaunch", cfg.ProductName)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes())
	assert.InDelta(t, 1.2, cfg.PersonaTemperature, 0.0001)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("PERSONA_TEMPERATURE", "0.7")
	t.Setenv("PRODUCT_NAME", "Acme")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, int64(2*1024*1024), cfg.MaxUploadBytes())
	assert.InDelta(t, 0.7, cfg.PersonaTemperature, 0.0001)
	assert.Equal(t, "Acme", cfg.ProductName)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown driver", key: "DATABASE_DRIVER", value: "postgres"},
		{name: "empty database url", key: "DATABASE_URL", value: ""},
		{name: "empty sessions key", key: "SESSIONS_KEY", value: ""},
		{name: "non-positive upload ceiling", key: "MAX_UPLOAD_MB", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
