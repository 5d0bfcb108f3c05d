package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foxtail", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FirefoxDir != "~/.mozilla/firefox" {
		t.Errorf("expected default firefox_dir, got %q", cfg.FirefoxDir)
	}
	if cfg.Format != "markdown" {
		t.Errorf("expected default format markdown, got %q", cfg.Format)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected defaults written to %s: %v", path, err)
	}
}

func TestLoadCustomConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
firefox_dir: /srv/firefox
format: csv
cache_dir: /tmp/fox-cache
suggest:
  provider: openai
  model: gpt-4o-mini
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.FirefoxDir != "/srv/firefox" || cfg.Format != "csv" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if got := cfg.ResolvedCacheDir(); got != "/tmp/fox-cache" {
		t.Errorf("expected cache_dir override, got %q", got)
	}
	if cfg.Suggest == nil || cfg.Suggest.Provider != "openai" {
		t.Errorf("expected suggest block parsed, got %+v", cfg.Suggest)
	}
}

func TestLoadRejectsBadFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("format: xml\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestLoadRejectsBadProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("suggest:\n  provider: gemini\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{FirefoxDir: "/x", Format: "json", CacheDir: "/y"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.FirefoxDir != "/x" || got.Format != "json" || got.CacheDir != "/y" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestSuggestKeyEnvFallback(t *testing.T) {
	t.Setenv("FOXTAIL_AI_KEY", "env-key")

	cfg := &Config{Suggest: &SuggestConfig{Provider: "anthropic"}}
	if got := cfg.SuggestKey(); got != "env-key" {
		t.Errorf("expected env fallback, got %q", got)
	}
	if !cfg.SuggestEnabled() {
		t.Error("expected suggestions enabled with env key")
	}

	cfg.Suggest.APIKey = "config-key"
	if got := cfg.SuggestKey(); got != "config-key" {
		t.Errorf("expected config key to win, got %q", got)
	}
}

func TestSuggestDisabledWithoutProvider(t *testing.T) {
	cfg := &Config{}
	if cfg.SuggestEnabled() {
		t.Error("expected suggestions disabled with no config")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	if got := ExpandHome("~/x"); got != filepath.Join(home, "x") {
		t.Errorf("ExpandHome(~/x) = %q", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path changed: %q", got)
	}
	if got := ExpandHome("~"); got != home {
		t.Errorf("ExpandHome(~) = %q", got)
	}
}

func TestPathsShareCacheDir(t *testing.T) {
	cfg := &Config{CacheDir: "/var/cache/fox"}
	for _, p := range []string{cfg.InputCachePath(), cfg.LockPath()} {
		if !strings.HasPrefix(p, "/var/cache/fox"+string(filepath.Separator)) {
			t.Errorf("expected %q under cache dir", p)
		}
	}
}
