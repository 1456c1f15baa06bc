// Package sqlite persists the virtual filesystem in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver with CGO

	"github.com/3rg0n/termfolio/internal/pathutil"
	"github.com/3rg0n/termfolio/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// Store is a store.Backend backed by a single SQLite table
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and applies the schema.
// Safe to call on an existing database.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func (s *Store) Kind() string { return "sqlite" }

// Close closes the database connection
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Stat(ctx context.Context, path string) (store.Info, error) {
	var isDir bool
	var size int64
	err := s.db.QueryRowContext(ctx,
		`SELECT is_dir, length(content) FROM nodes WHERE path = ?`, path,
	).Scan(&isDir, &size)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Info{}, fmt.Errorf("stat %s: %w", path, store.ErrNotExist)
	}
	if err != nil {
		return store.Info{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return store.Info{Path: path, IsDir: isDir, Size: size}, nil
}

func (s *Store) ReadDir(ctx context.Context, path string) ([]string, error) {
	info, err := s.Stat(ctx, path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir {
		return nil, fmt.Errorf("readdir %s: %w", path, store.ErrNotDir)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM nodes WHERE parent = ? ORDER BY name`, path)
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %w", path, err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("readdir %s: %w", path, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) ReadFile(ctx context.Context, path string) (string, error) {
	var isDir bool
	var content string
	err := s.db.QueryRowContext(ctx,
		`SELECT is_dir, content FROM nodes WHERE path = ?`, path,
	).Scan(&isDir, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("open %s: %w", path, store.ErrNotExist)
	}
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	if isDir {
		return "", fmt.Errorf("open %s: %w", path, store.ErrIsDir)
	}
	return content, nil
}

func (s *Store) WriteFile(ctx context.Context, path, content string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		existing, found, err := lookup(ctx, tx, path)
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		if found && existing {
			return fmt.Errorf("write %s: %w", path, store.ErrIsDir)
		}
		if !found {
			if err := checkParent(ctx, tx, path); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO nodes (path, parent, name, is_dir, content, updated_at)
			VALUES (?, ?, ?, 0, ?, ?)
			ON CONFLICT(path) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
			path, pathutil.Parent(path), pathutil.Base(path), content, time.Now().Unix(),
		)
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	})
}

func (s *Store) Mkdir(ctx context.Context, path string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, found, err := lookup(ctx, tx, path)
		if err != nil {
			return fmt.Errorf("mkdir %s: %w", path, err)
		}
		if found {
			return fmt.Errorf("mkdir %s: %w", path, store.ErrExist)
		}
		if err := checkParent(ctx, tx, path); err != nil {
			return fmt.Errorf("mkdir %s: %w", path, err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO nodes (path, parent, name, is_dir, content, updated_at) VALUES (?, ?, ?, 1, '', ?)`,
			path, pathutil.Parent(path), pathutil.Base(path), time.Now().Unix(),
		)
		if err != nil {
			return fmt.Errorf("mkdir %s: %w", path, err)
		}
		return nil
	})
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// lookup reports whether path exists and whether it is a directory
func lookup(ctx context.Context, tx *sql.Tx, path string) (isDir bool, found bool, err error) {
	err = tx.QueryRowContext(ctx, `SELECT is_dir FROM nodes WHERE path = ?`, path).Scan(&isDir)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return isDir, true, nil
}

func checkParent(ctx context.Context, tx *sql.Tx, path string) error {
	if path == pathutil.Root {
		return store.ErrExist
	}
	isDir, found, err := lookup(ctx, tx, pathutil.Parent(path))
	if err != nil {
		return err
	}
	if !found {
		return store.ErrNotExist
	}
	if !isDir {
		return store.ErrNotDir
	}
	return nil
}
