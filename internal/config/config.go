package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML). Every field has a
// working default, so a missing file is fine; environment variables
// override both.
type Config struct {
	Port      string        `yaml:"port"`
	StaticDir string        `yaml:"static_dir"`
	// CookieKey is the hex-encoded 32-byte cookie encryption key. When
	// empty a random key is generated at startup, which makes existing
	// cookies undecryptable across restarts.
	CookieKey string        `yaml:"cookie_key"`
	Octopus   OctopusConfig `yaml:"octopus"`
	History   HistoryConfig `yaml:"history"`
}

type OctopusConfig struct {
	RESTURL    string `yaml:"rest_url"`
	GraphQLURL string `yaml:"graphql_url"`
}

type HistoryConfig struct {
	// MaxAge is a Go duration string, e.g. "1h".
	MaxAge string `yaml:"max_age"`
}

// Load reads the YAML file at path (if it exists), applies environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	c := &Config{
		Port:    "3000",
		History: HistoryConfig{MaxAge: "1h"},
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(raw, c); err != nil {
				return nil, fmt.Errorf("invalid config file %s: %w", path, err)
			}
		}
	}
	c.applyEnv()

	if _, err := c.HistoryMaxAge(); err != nil {
		return nil, err
	}
	if _, err := c.CookieKeyBytes(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Port, "PORT")
	setFromEnv(&c.StaticDir, "STATIC_DIR")
	setFromEnv(&c.CookieKey, "COOKIE_KEY")
	setFromEnv(&c.Octopus.RESTURL, "OCTOPUS_API_URL")
	setFromEnv(&c.Octopus.GraphQLURL, "OCTOPUS_GRAPHQL_URL")
	setFromEnv(&c.History.MaxAge, "HISTORY_MAX_AGE")
}

func setFromEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// HistoryMaxAge parses the history retention window.
func (c *Config) HistoryMaxAge() (time.Duration, error) {
	d, err := time.ParseDuration(c.History.MaxAge)
	if err != nil {
		return 0, fmt.Errorf("invalid history.max_age %q: %w", c.History.MaxAge, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("history.max_age must be positive, got %q", c.History.MaxAge)
	}
	return d, nil
}

// CookieKeyBytes decodes the configured cookie key. Returns nil (no error)
// when no key is configured.
func (c *Config) CookieKeyBytes() ([]byte, error) {
	if c.CookieKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.CookieKey)
	if err != nil {
		return nil, fmt.Errorf("cookie_key must be hex: %w", err)
	}
	return key, nil
}
