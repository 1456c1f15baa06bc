// Package store defines the node-level storage contract behind the virtual
// filesystem and provides the transient in-memory backend.
package store

import (
	"context"
	"errors"
)

// Backend errors. Implementations wrap these so callers can match with errors.Is.
var (
	ErrNotExist = errors.New("no such file or directory")
	ErrExist    = errors.New("file exists")
	ErrNotDir   = errors.New("not a directory")
	ErrIsDir    = errors.New("is a directory")
)

// Info describes a single node
type Info struct {
	Path  string
	IsDir bool
	Size  int64
}

// Backend stores directories and UTF-8 files keyed by absolute path.
// Paths handed to a Backend are already resolved; lookups are case-sensitive.
type Backend interface {
	// Stat returns node information or ErrNotExist.
	Stat(ctx context.Context, path string) (Info, error)

	// ReadDir lists child names of a directory in no guaranteed order.
	ReadDir(ctx context.Context, path string) ([]string, error)

	// ReadFile returns the file payload.
	ReadFile(ctx context.Context, path string) (string, error)

	// WriteFile creates or replaces a file. The parent directory must exist.
	WriteFile(ctx context.Context, path, content string) error

	// Mkdir creates a single directory. The parent must exist; an existing
	// node at path yields ErrExist.
	Mkdir(ctx context.Context, path string) error

	// Kind names the backend ("memory", "sqlite", "s3").
	Kind() string

	// Close releases any resources held by the backend.
	Close() error
}
