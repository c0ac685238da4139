package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigWithoutFileUsesDefaults(t *testing.T) {
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, want.Profile.NavigateAttempts, cfg.Profile.NavigateAttempts)
	assert.Equal(t, 1, cfg.Valuation.NavigateAttempts)
	assert.Equal(t, 50, cfg.Browser.MaxScrollIters)
	assert.Equal(t, "SCRIPT_1", cfg.Profile.Prefix)
	assert.Equal(t, "SCRIPT_2", cfg.Valuation.Prefix)
	assert.Equal(t, 30*time.Second, cfg.Profile.ListingTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Profile.BetweenMin)
	assert.Equal(t, want.Browser.UserAgents, cfg.Browser.UserAgents)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	yaml := `
browser:
  headless: false
  user_agents:
    - "test-agent/1.0"
  navigate_retry_delay: 5s
profile:
  prefix: TEAM
  max_retries: 4
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("ROSTER_VALUATION_MAX_RETRIES", "7")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, []string{"test-agent/1.0"}, cfg.Browser.UserAgents)
	assert.Equal(t, 5*time.Second, cfg.Browser.NavigateRetryDelay)
	assert.Equal(t, "TEAM", cfg.Profile.Prefix)
	assert.Equal(t, 4, cfg.Profile.MaxRetries)
	assert.Equal(t, 7, cfg.Valuation.MaxRetries)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep their defaults
	assert.Equal(t, 20*time.Second, cfg.Valuation.ListingTimeout)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
