// Package config loads the on-disk foxtail configuration.
package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// SuggestConfig enables AI draft summaries during interactive annotation.
type SuggestConfig struct {
	Provider string `yaml:"provider"` // "anthropic" or "openai"
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
}

type Config struct {
	// FirefoxDir is the root searched recursively for places.sqlite.
	FirefoxDir string `yaml:"firefox_dir"`
	// Format is the default output format (markdown|table|json|csv).
	Format string `yaml:"format"`
	// CacheDir overrides the per-user cache directory; empty means
	// $XDG_CACHE_HOME/foxtail.
	CacheDir string `yaml:"cache_dir,omitempty"`

	Suggest *SuggestConfig `yaml:"suggest,omitempty"`
}

// SuggestEnabled reports whether a provider and key are configured.
func (c *Config) SuggestEnabled() bool {
	return c.Suggest != nil && c.Suggest.Provider != "" && c.SuggestKey() != ""
}

// SuggestKey returns the configured API key, falling back to FOXTAIL_AI_KEY.
func (c *Config) SuggestKey() string {
	if c.Suggest != nil && c.Suggest.APIKey != "" {
		return c.Suggest.APIKey
	}
	return os.Getenv("FOXTAIL_AI_KEY")
}

// ResolvedCacheDir returns the cache directory, defaulting to the per-user
// cache home. The input cache, history snapshot and lockfile all live here.
func (c *Config) ResolvedCacheDir() string {
	if c.CacheDir != "" {
		return ExpandHome(c.CacheDir)
	}
	return filepath.Join(xdg.CacheHome, "foxtail")
}

// InputCachePath is the annotation cache's backing store.
func (c *Config) InputCachePath() string {
	return filepath.Join(c.ResolvedCacheDir(), "input.sqlite3")
}

// LockPath guards the cache dir against concurrent foxtail runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.ResolvedCacheDir(), "foxtail.lock")
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "foxtail", "config.yaml")
}

// ExpandHome resolves a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil && home != "" {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path, writing the embedded defaults there on
// first run. An empty path means the default location.
func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal if the defaults can't be written; just use them.
			_ = Save(path, defaults)
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes cfg to path atomically.
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (c *Config) Validate() error {
	switch c.Format {
	case "", "markdown", "table", "json", "csv":
	default:
		return fmt.Errorf("unknown format %q (valid: markdown, table, json, csv)", c.Format)
	}
	if c.Suggest != nil && c.Suggest.Provider != "" {
		switch c.Suggest.Provider {
		case "anthropic", "openai":
		default:
			return fmt.Errorf("unknown suggestion provider %q (valid: anthropic, openai)", c.Suggest.Provider)
		}
	}
	return nil
}
