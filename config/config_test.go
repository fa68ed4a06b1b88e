package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"TOKEN", "FILTER_MAX_PRICE", "SESSION_TTL_MINUTES", "JOURNAL_ENABLED", "GO_ENV"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(50), cfg.Filter.MinPrice)
	assert.Equal(t, int64(500), cfg.Filter.MaxPrice)
	assert.Equal(t, int64(10), cfg.Filter.PriceStep)
	assert.Equal(t, time.Hour, cfg.App.SessionTTL)
	assert.False(t, cfg.DB.JournalEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TOKEN", "abc")
	t.Setenv("FILTER_MAX_PRICE", "800")
	t.Setenv("SESSION_TTL_MINUTES", "5")
	t.Setenv("JOURNAL_ENABLED", "true")
	t.Setenv("GO_ENV", "Production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.Telegram.Token)
	assert.Equal(t, int64(800), cfg.Filter.MaxPrice)
	assert.Equal(t, 5*time.Minute, cfg.App.SessionTTL)
	assert.True(t, cfg.DB.JournalEnabled)
	assert.True(t, cfg.IsProduction())
}

func TestGetEnvAsBool(t *testing.T) {
	tests := []struct {
		val  string
		def  bool
		want bool
	}{
		{"", true, true},
		{"", false, false},
		{"1", false, true},
		{"yes", false, true},
		{"0", true, false},
		{"nope", true, false},
	}
	for _, tt := range tests {
		t.Setenv("KM_BOOL", tt.val)
		assert.Equal(t, tt.want, getEnvAsBool("KM_BOOL", tt.def), "value %q", tt.val)
	}
}
