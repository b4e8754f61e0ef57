package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)

	maxAge, err := cfg.HistoryMaxAge()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, maxAge)

	key, err := cfg.CookieKeyBytes()
	require.NoError(t, err)
	assert.Nil(t, key)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "8080"
octopus:
  rest_url: "http://file.example"
history:
  max_age: "30m"
`), 0o600))

	t.Setenv("OCTOPUS_API_URL", "http://env.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	// Environment wins over the file.
	assert.Equal(t, "http://env.example", cfg.Octopus.RESTURL)

	maxAge, err := cfg.HistoryMaxAge()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, maxAge)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
}

func TestLoadRejectsInvalidMaxAge(t *testing.T) {
	t.Setenv("HISTORY_MAX_AGE", "not-a-duration")
	_, err := Load("")
	assert.Error(t, err)
}

func TestCookieKeyBytes(t *testing.T) {
	t.Setenv("COOKIE_KEY", "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff")
	cfg, err := Load("")
	require.NoError(t, err)

	key, err := cfg.CookieKeyBytes()
	require.NoError(t, err)
	assert.Len(t, key, 32)
}

func TestCookieKeyRejectsNonHex(t *testing.T) {
	t.Setenv("COOKIE_KEY", "zzzz")
	_, err := Load("")
	assert.Error(t, err)
}
