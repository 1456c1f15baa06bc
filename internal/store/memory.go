package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/3rg0n/termfolio/internal/pathutil"
)

type memNode struct {
	dir      bool
	content  string
	children map[string]struct{}
}

// Memory is a transient Backend. Its contents are gone once the process exits.
type Memory struct {
	mu    sync.RWMutex
	nodes map[string]*memNode
}

// NewMemory returns an empty store containing only the root directory
func NewMemory() *Memory {
	return &Memory{
		nodes: map[string]*memNode{
			pathutil.Root: {dir: true, children: map[string]struct{}{}},
		},
	}
}

func (m *Memory) Kind() string { return "memory" }

func (m *Memory) Close() error { return nil }

func (m *Memory) Stat(_ context.Context, path string) (Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.nodes[path]
	if !ok {
		return Info{}, fmt.Errorf("stat %s: %w", path, ErrNotExist)
	}
	return Info{Path: path, IsDir: n.dir, Size: int64(len(n.content))}, nil
}

func (m *Memory) ReadDir(_ context.Context, path string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.nodes[path]
	if !ok {
		return nil, fmt.Errorf("readdir %s: %w", path, ErrNotExist)
	}
	if !n.dir {
		return nil, fmt.Errorf("readdir %s: %w", path, ErrNotDir)
	}

	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	return names, nil
}

func (m *Memory) ReadFile(_ context.Context, path string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.nodes[path]
	if !ok {
		return "", fmt.Errorf("open %s: %w", path, ErrNotExist)
	}
	if n.dir {
		return "", fmt.Errorf("open %s: %w", path, ErrIsDir)
	}
	return n.content, nil
}

func (m *Memory) WriteFile(_ context.Context, path, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.nodes[path]; ok {
		if existing.dir {
			return fmt.Errorf("write %s: %w", path, ErrIsDir)
		}
		existing.content = content
		return nil
	}
	parent, err := m.parentLocked(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	m.nodes[path] = &memNode{content: content}
	parent.children[pathutil.Base(path)] = struct{}{}
	return nil
}

func (m *Memory) Mkdir(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.nodes[path]; ok {
		return fmt.Errorf("mkdir %s: %w", path, ErrExist)
	}
	parent, err := m.parentLocked(path)
	if err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}

	m.nodes[path] = &memNode{dir: true, children: map[string]struct{}{}}
	parent.children[pathutil.Base(path)] = struct{}{}
	return nil
}

// parentLocked returns the directory node that would contain path
func (m *Memory) parentLocked(path string) (*memNode, error) {
	if path == pathutil.Root {
		return nil, ErrExist
	}
	parent, ok := m.nodes[pathutil.Parent(path)]
	if !ok {
		return nil, ErrNotExist
	}
	if !parent.dir {
		return nil, ErrNotDir
	}
	return parent, nil
}
