// Package vfs is the virtual filesystem the shell runs against.
//
// It wraps a store.Backend with one-time seeding, case-insensitive path
// lookup and the readable/previewable permission policy. Every read
// normalizes its path first and reports missing nodes as ErrNotFound,
// whatever the backend.
package vfs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/3rg0n/termfolio/internal/logging"
	"github.com/3rg0n/termfolio/internal/pathutil"
	"github.com/3rg0n/termfolio/internal/store"
)

var (
	ErrNotFound     = errors.New("no such file or directory")
	ErrIsDirectory  = errors.New("is a directory")
	ErrNotDirectory = errors.New("not a directory")
)

// Opener opens the preferred backing store
type Opener func(ctx context.Context) (store.Backend, error)

// MemoryOpener always succeeds with a fresh transient store
func MemoryOpener(context.Context) (store.Backend, error) {
	return store.NewMemory(), nil
}

// Options configures a filesystem. Zero values pick the in-memory store,
// the built-in seed and the global logger.
type Options struct {
	Open   Opener
	Seed   *Seed
	Logger *zap.Logger
}

// FS is the seeded, case-insensitive virtual filesystem
type FS struct {
	open   Opener
	seed   *Seed
	logger *zap.Logger

	readable    map[string]bool
	previewable map[string]bool

	once    sync.Once
	initErr error
	backend store.Backend
}

// New builds a filesystem. No I/O happens until Init.
func New(opts Options) *FS {
	if opts.Open == nil {
		opts.Open = MemoryOpener
	}
	if opts.Seed == nil {
		opts.Seed = DefaultSeed()
	}
	if opts.Logger == nil {
		opts.Logger = logging.L()
	}

	fs := &FS{
		open:        opts.Open,
		seed:        opts.Seed,
		logger:      opts.Logger,
		readable:    make(map[string]bool, len(opts.Seed.Readable)),
		previewable: make(map[string]bool, len(opts.Seed.Previewable)),
	}
	for _, p := range opts.Seed.Readable {
		fs.readable[p] = true
	}
	for _, p := range opts.Seed.Previewable {
		fs.previewable[p] = true
	}
	return fs
}

// Init selects the backing store and seeds it. Concurrent and repeated
// calls share the first call's work and result.
func (fs *FS) Init(ctx context.Context) error {
	fs.once.Do(func() {
		fs.backend, fs.initErr = fs.configure(ctx)
	})
	return fs.initErr
}

func (fs *FS) configure(ctx context.Context) (store.Backend, error) {
	backend, err := fs.open(ctx)
	if err == nil {
		if err = fs.seedIfNeeded(ctx, backend); err == nil {
			fs.logger.Info("filesystem ready", zap.String("store", backend.Kind()))
			return backend, nil
		}
		_ = backend.Close()
	}

	fs.logger.Warn("falling back to in-memory filesystem", zap.Error(err))
	mem := store.NewMemory()
	if err := fs.seedIfNeeded(ctx, mem); err != nil {
		return nil, fmt.Errorf("seed memory store: %w", err)
	}
	return mem, nil
}

// seedIfNeeded writes every seed file on first run. Once the sentinel
// exists only missing directories and files are added.
func (fs *FS) seedIfNeeded(ctx context.Context, b store.Backend) error {
	_, err := b.Stat(ctx, fs.seed.Sentinel)
	switch {
	case err == nil:
		return fs.applySeed(ctx, b, false)
	case !errors.Is(err, store.ErrNotExist):
		return err
	}

	if err := fs.applySeed(ctx, b, true); err != nil {
		return err
	}
	if err := ensureDir(ctx, b, pathutil.Parent(fs.seed.Sentinel)); err != nil {
		return err
	}
	return b.WriteFile(ctx, fs.seed.Sentinel, "initialized")
}

func (fs *FS) applySeed(ctx context.Context, b store.Backend, overwrite bool) error {
	for _, dir := range fs.seed.Directories {
		if err := ensureDir(ctx, b, dir); err != nil {
			return err
		}
	}

	for _, f := range fs.seed.Files {
		if !overwrite {
			if _, err := b.Stat(ctx, f.Path); err == nil {
				continue
			} else if !errors.Is(err, store.ErrNotExist) {
				return err
			}
		}
		if err := ensureDir(ctx, b, pathutil.Parent(f.Path)); err != nil {
			return err
		}
		if err := b.WriteFile(ctx, f.Path, f.Content); err != nil {
			return err
		}
	}
	return nil
}

// ensureDir creates path and any missing ancestors
func ensureDir(ctx context.Context, b store.Backend, path string) error {
	if path == pathutil.Root {
		return nil
	}
	if info, err := b.Stat(ctx, path); err == nil {
		if !info.IsDir {
			return fmt.Errorf("ensure dir %s: %w", path, store.ErrNotDir)
		}
		return nil
	}
	if err := ensureDir(ctx, b, pathutil.Parent(path)); err != nil {
		return err
	}
	if err := b.Mkdir(ctx, path); err != nil && !errors.Is(err, store.ErrExist) {
		return err
	}
	return nil
}

func (fs *FS) ready(ctx context.Context) (store.Backend, error) {
	if err := fs.Init(ctx); err != nil {
		return nil, err
	}
	return fs.backend, nil
}

// NormalizePath maps path onto its on-disk casing. Each segment prefers an
// exact match, then a case-insensitive one; otherwise ErrNotFound.
func (fs *FS) NormalizePath(ctx context.Context, path string) (string, error) {
	b, err := fs.ready(ctx)
	if err != nil {
		return "", err
	}
	return fs.normalize(ctx, b, path)
}

func (fs *FS) normalize(ctx context.Context, b store.Backend, path string) (string, error) {
	current := pathutil.Root
	for _, segment := range pathutil.Segments(path) {
		entries, err := b.ReadDir(ctx, current)
		if err != nil {
			if errors.Is(err, store.ErrNotExist) || errors.Is(err, store.ErrNotDir) {
				return "", ErrNotFound
			}
			return "", err
		}

		match := ""
		for _, entry := range entries {
			if entry == segment {
				match = entry
				break
			}
		}
		if match == "" {
			for _, entry := range entries {
				if strings.EqualFold(entry, segment) {
					match = entry
					break
				}
			}
		}
		if match == "" {
			return "", ErrNotFound
		}
		current = pathutil.Join(current, match)
	}
	return current, nil
}

func (fs *FS) stat(ctx context.Context, path string) (store.Info, error) {
	b, err := fs.ready(ctx)
	if err != nil {
		return store.Info{}, err
	}
	normalized, err := fs.normalize(ctx, b, path)
	if err != nil {
		return store.Info{}, err
	}
	info, err := b.Stat(ctx, normalized)
	if errors.Is(err, store.ErrNotExist) {
		return store.Info{}, ErrNotFound
	}
	return info, err
}

// Exists reports whether path names any node
func (fs *FS) Exists(ctx context.Context, path string) bool {
	_, err := fs.stat(ctx, path)
	return err == nil
}

// IsDir reports whether path names a directory
func (fs *FS) IsDir(ctx context.Context, path string) bool {
	info, err := fs.stat(ctx, path)
	return err == nil && info.IsDir
}

// IsFile reports whether path names a file
func (fs *FS) IsFile(ctx context.Context, path string) bool {
	info, err := fs.stat(ctx, path)
	return err == nil && !info.IsDir
}

// ReadFile returns the content of the file at path
func (fs *FS) ReadFile(ctx context.Context, path string) (string, error) {
	info, err := fs.stat(ctx, path)
	if err != nil {
		return "", err
	}
	if info.IsDir {
		return "", ErrIsDirectory
	}
	content, err := fs.backend.ReadFile(ctx, info.Path)
	if errors.Is(err, store.ErrNotExist) {
		return "", ErrNotFound
	}
	return content, err
}

// ReadDir lists the raw child names of the directory at path,
// sentinel included. Order is backend-defined.
func (fs *FS) ReadDir(ctx context.Context, path string) ([]string, error) {
	info, err := fs.stat(ctx, path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir {
		return nil, ErrNotDirectory
	}
	names, err := fs.backend.ReadDir(ctx, info.Path)
	if errors.Is(err, store.ErrNotExist) {
		return nil, ErrNotFound
	}
	return names, err
}

// IsReadable reports whether cat may print the file. path should be normalized.
func (fs *FS) IsReadable(path string) bool { return fs.readable[path] }

// IsPreviewable reports whether open may preview the file. path should be normalized.
func (fs *FS) IsPreviewable(path string) bool { return fs.previewable[path] }

func (fs *FS) Home() string { return fs.seed.Home }

func (fs *FS) Sentinel() string { return fs.seed.Sentinel }

// Close releases the backing store, if one was opened
func (fs *FS) Close() error {
	if fs.backend == nil {
		return nil
	}
	return fs.backend.Close()
}
