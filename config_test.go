package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/3rg0n/termfolio/internal/terminal"
)

// isolateHome points the settings file and data dir at a temp directory
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestDefaultConfig(t *testing.T) {
	home := isolateHome(t)
	cfg := DefaultConfig()

	if cfg.Store != StoreSQLite {
		t.Errorf("Store = %q, want sqlite", cfg.Store)
	}
	if want := filepath.Join(home, ".termfolio", "vfs.db"); cfg.DBPath != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, want)
	}
	if cfg.Scrollback != terminal.DefaultScrollback {
		t.Errorf("Scrollback = %d, want %d", cfg.Scrollback, terminal.DefaultScrollback)
	}
	if cfg.ResumeURL == "" {
		t.Error("ResumeURL should have a default")
	}
	if cfg.Theme != "default" {
		t.Errorf("Theme = %q, want default", cfg.Theme)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	isolateHome(t)
	t.Setenv("TERMFOLIO_STORE", "S3")
	t.Setenv("TERMFOLIO_S3_BUCKET", "portfolio")
	t.Setenv("TERMFOLIO_S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("TERMFOLIO_SKIP_BOOT", "true")
	t.Setenv("TERMFOLIO_SCROLLBACK", "250")
	t.Setenv("TERMFOLIO_THEME", "matrix")
	t.Setenv("TERMFOLIO_CHALLENGE_URL", "https://example.com/puzzles.json")
	t.Setenv("TERMFOLIO_RESUME_URL", "")
	t.Setenv("TERMFOLIO_LOG_LEVEL", "debug")

	cfg := LoadConfig()

	if cfg.Store != StoreS3 {
		t.Errorf("Store = %q, want s3", cfg.Store)
	}
	if cfg.S3.Bucket != "portfolio" {
		t.Errorf("S3.Bucket = %q, want portfolio", cfg.S3.Bucket)
	}
	if cfg.S3.Endpoint != "http://localhost:9000" {
		t.Errorf("S3.Endpoint = %q", cfg.S3.Endpoint)
	}
	if !cfg.SkipBoot {
		t.Error("SkipBoot should be true")
	}
	if cfg.Scrollback != 250 {
		t.Errorf("Scrollback = %d, want 250", cfg.Scrollback)
	}
	if cfg.Theme != "matrix" {
		t.Errorf("Theme = %q, want matrix", cfg.Theme)
	}
	if cfg.ChallengeURL != "https://example.com/puzzles.json" {
		t.Errorf("ChallengeURL = %q", cfg.ChallengeURL)
	}
	if cfg.ResumeURL != "" {
		t.Errorf("ResumeURL = %q, want empty when explicitly cleared", cfg.ResumeURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadConfigIgnoresInvalidNumbers(t *testing.T) {
	isolateHome(t)
	t.Setenv("TERMFOLIO_SCROLLBACK", "-5")
	t.Setenv("TERMFOLIO_SKIP_BOOT", "sometimes")

	cfg := LoadConfig()

	if cfg.Scrollback != terminal.DefaultScrollback {
		t.Errorf("Scrollback = %d, want default", cfg.Scrollback)
	}
	if cfg.SkipBoot {
		t.Error("SkipBoot should stay false on an unparsable value")
	}
}

func TestLoadConfigReadsSettings(t *testing.T) {
	home := isolateHome(t)

	settings := DefaultSettings()
	settings.Theme.Name = "nord"
	settings.Store.Type = "memory"
	settings.Boot.Skip = true
	if err := SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".termfolio", "settings.json")); err != nil {
		t.Fatalf("settings file not written: %v", err)
	}

	cfg := LoadConfig()
	if cfg.Theme != "nord" {
		t.Errorf("Theme = %q, want nord", cfg.Theme)
	}
	if cfg.Store != StoreMemory {
		t.Errorf("Store = %q, want memory", cfg.Store)
	}
	if !cfg.SkipBoot {
		t.Error("SkipBoot should come from settings")
	}

	// Environment wins over the settings file
	t.Setenv("TERMFOLIO_THEME", "dracula")
	if cfg := LoadConfig(); cfg.Theme != "dracula" {
		t.Errorf("Theme = %q, want dracula", cfg.Theme)
	}
}

func TestConfigValidate(t *testing.T) {
	isolateHome(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"unknown store", func(c *Config) { c.Store = "redis" }, `Unknown store: "redis"`},
		{"s3 without bucket", func(c *Config) { c.Store = StoreS3 }, "Invalid s3 store configuration"},
		{"sqlite without path", func(c *Config) { c.DBPath = "" }, "Invalid sqlite store configuration"},
		{"unknown theme", func(c *Config) { c.Theme = "neon" }, `Unknown theme: "neon"`},
		{"memory", func(c *Config) { c.Store = StoreMemory }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantMsg == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var userErr *UserError
			if !errors.As(err, &userErr) {
				t.Fatalf("Validate() = %v, want *UserError", err)
			}
			if userErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", userErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestConfigOpener(t *testing.T) {
	isolateHome(t)
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Store = StoreMemory
		b, err := cfg.Opener()(ctx)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer b.Close()
		if b.Kind() != "memory" {
			t.Errorf("Kind() = %q, want memory", b.Kind())
		}
	})

	t.Run("sqlite creates its directory", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DBPath = filepath.Join(t.TempDir(), "nested", "vfs.db")
		b, err := cfg.Opener()(ctx)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer b.Close()
		if b.Kind() != "sqlite" {
			t.Errorf("Kind() = %q, want sqlite", b.Kind())
		}
		if _, err := os.Stat(cfg.DBPath); err != nil {
			t.Errorf("database file missing: %v", err)
		}
	})
}
