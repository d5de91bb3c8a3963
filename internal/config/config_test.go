package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "in", cfg.HomeCountry)
	assert.Equal(t, "en", cfg.DefaultLanguage)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 0.8, cfg.DedupThreshold)
	assert.Equal(t, 5, cfg.TopCategories)
	assert.Equal(t, 20, cfg.TopKeywords)
	assert.Equal(t, 200, cfg.HistoryLimit)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "9000")
	t.Setenv("HOME_COUNTRY", "us")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("DEDUP_THRESHOLD", "0.9")
	t.Setenv("ADAPTER_TIMEOUT_SECONDS", "5")
	t.Setenv("CACHE_TTL_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "us", cfg.HomeCountry)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, 0.9, cfg.DedupThreshold)
	assert.Equal(t, 5*time.Second, cfg.AdapterTimeout)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidatePageSizeBounds(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PAGE_SIZE", "100")
	t.Setenv("MAX_PAGE_SIZE", "50")

	_, err := Load()
	assert.Error(t, err)
}
