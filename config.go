package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/3rg0n/termfolio/internal/store"
	s3store "github.com/3rg0n/termfolio/internal/store/s3"
	"github.com/3rg0n/termfolio/internal/store/sqlite"
	"github.com/3rg0n/termfolio/internal/terminal"
	"github.com/3rg0n/termfolio/internal/vfs"
)

// Store backends
const (
	StoreSQLite = "sqlite"
	StoreS3     = "s3"
	StoreMemory = "memory"
)

// Config holds runtime configuration
type Config struct {
	// Backing store for the virtual filesystem
	Store  string         // sqlite, s3 or memory (default: sqlite)
	DBPath string         // SQLite database file (default: ~/.termfolio/vfs.db)
	S3     s3store.Config // used when Store is s3

	// Shell behavior
	ResumeURL    string // target of the resume command, empty disables it
	ChallengeURL string // JSON puzzle endpoint, empty uses the built-in set
	SkipBoot     bool   // skip the scripted boot sequence
	Scrollback   int    // lines kept by the screen buffer

	// Appearance
	Theme string

	// Logging
	LogLevel string
	LogPath  string // empty disables logging
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dataDir := dataDir()
	return &Config{
		Store:      StoreSQLite,
		DBPath:     filepath.Join(dataDir, "vfs.db"),
		S3:         s3store.Config{Prefix: "termfolio/", Region: "us-east-1"},
		ResumeURL:  "https://henryallen.dev/resume.pdf",
		Scrollback: terminal.DefaultScrollback,
		Theme:      "default",
		LogLevel:   "info",
		LogPath:    filepath.Join(dataDir, "termfolio.log"),
	}
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".termfolio"
	}
	return filepath.Join(home, ".termfolio")
}

// LoadConfig layers the settings file and then environment variables over
// the defaults
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if settings, err := LoadSettings(); err == nil {
		cfg.applySettings(settings)
	}

	// Store
	if val := os.Getenv("TERMFOLIO_STORE"); val != "" {
		cfg.Store = strings.ToLower(val)
	}
	if val := os.Getenv("TERMFOLIO_DB"); val != "" {
		cfg.DBPath = val
	}
	if val := os.Getenv("TERMFOLIO_S3_ENDPOINT"); val != "" {
		cfg.S3.Endpoint = val
	}
	if val := os.Getenv("TERMFOLIO_S3_BUCKET"); val != "" {
		cfg.S3.Bucket = val
	}
	if val := os.Getenv("TERMFOLIO_S3_PREFIX"); val != "" {
		cfg.S3.Prefix = val
	}
	if val := os.Getenv("AWS_REGION"); val != "" {
		cfg.S3.Region = val
	}
	if val := os.Getenv("TERMFOLIO_S3_ACCESS_KEY"); val != "" {
		cfg.S3.AccessKey = val
	}
	if val := os.Getenv("TERMFOLIO_S3_SECRET_KEY"); val != "" {
		cfg.S3.SecretKey = val
	}

	// Shell behavior
	if val, ok := os.LookupEnv("TERMFOLIO_RESUME_URL"); ok {
		cfg.ResumeURL = val // empty disables the command
	}
	if val := os.Getenv("TERMFOLIO_CHALLENGE_URL"); val != "" {
		cfg.ChallengeURL = val
	}
	if val := os.Getenv("TERMFOLIO_SKIP_BOOT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.SkipBoot = b
		}
	}
	if val := os.Getenv("TERMFOLIO_SCROLLBACK"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			cfg.Scrollback = n
		}
	}

	if val := os.Getenv("TERMFOLIO_THEME"); val != "" {
		cfg.Theme = val
	}

	// Logging
	if val := os.Getenv("TERMFOLIO_LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}
	if val, ok := os.LookupEnv("TERMFOLIO_LOG_PATH"); ok {
		cfg.LogPath = val
	}

	return cfg
}

func (c *Config) applySettings(s *Settings) {
	if s.Theme.Name != "" {
		c.Theme = s.Theme.Name
	}
	if s.Store.Type != "" {
		c.Store = strings.ToLower(s.Store.Type)
	}
	if s.Store.Path != "" {
		c.DBPath = s.Store.Path
	}
	if s.Store.Bucket != "" {
		c.S3.Bucket = s.Store.Bucket
	}
	if s.Store.Endpoint != "" {
		c.S3.Endpoint = s.Store.Endpoint
	}
	c.SkipBoot = c.SkipBoot || s.Boot.Skip
}

// Validate reports configuration the shell cannot start with
func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			return ErrStoreConfig(c.Store, errors.New("database path is empty"))
		}
	case StoreS3:
		if c.S3.Bucket == "" {
			return ErrStoreConfig(c.Store, errors.New("bucket is not set"))
		}
	case StoreMemory:
	default:
		return ErrUnknownStore(c.Store)
	}
	if _, ok := ThemePresets[c.Theme]; !ok {
		return ErrUnknownTheme(c.Theme)
	}
	return nil
}

// Opener returns the function the filesystem uses to open its backing
// store. A failing opener is not fatal: the filesystem logs it and falls
// back to memory.
func (c *Config) Opener() vfs.Opener {
	switch c.Store {
	case StoreSQLite:
		path := c.DBPath
		return func(context.Context) (store.Backend, error) {
			return sqlite.Open(path)
		}
	case StoreS3:
		s3cfg := c.S3
		return func(ctx context.Context) (store.Backend, error) {
			return s3store.New(ctx, s3cfg)
		}
	default:
		return vfs.MemoryOpener
	}
}
