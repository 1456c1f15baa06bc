package store

import (
	"context"
	"errors"
	"sort"
	"testing"
)

func TestMemoryMkdirAndWrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Mkdir(ctx, "/a"); err != nil {
		t.Fatalf("Mkdir(/a) failed: %v", err)
	}
	if err := m.Mkdir(ctx, "/a"); !errors.Is(err, ErrExist) {
		t.Errorf("Mkdir(/a) again = %v, want ErrExist", err)
	}
	if err := m.Mkdir(ctx, "/missing/child"); !errors.Is(err, ErrNotExist) {
		t.Errorf("Mkdir without parent = %v, want ErrNotExist", err)
	}
	if err := m.WriteFile(ctx, "/a/f.txt", "hello"); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := m.WriteFile(ctx, "/a/f.txt/x", "nope"); !errors.Is(err, ErrNotDir) {
		t.Errorf("WriteFile under file = %v, want ErrNotDir", err)
	}
	if err := m.WriteFile(ctx, "/a", "nope"); !errors.Is(err, ErrIsDir) {
		t.Errorf("WriteFile over dir = %v, want ErrIsDir", err)
	}

	got, err := m.ReadFile(ctx, "/a/f.txt")
	if err != nil || got != "hello" {
		t.Errorf("ReadFile = %q, %v; want hello", got, err)
	}

	info, err := m.Stat(ctx, "/a")
	if err != nil || !info.IsDir {
		t.Errorf("Stat(/a) = %+v, %v; want directory", info, err)
	}
}

func TestMemoryReadDir(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Mkdir(ctx, "/d")
	_ = m.WriteFile(ctx, "/d/b", "")
	_ = m.WriteFile(ctx, "/d/a", "")

	names, err := m.ReadDir(ctx, "/d")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("ReadDir = %v, want [a b]", names)
	}

	if _, err := m.ReadDir(ctx, "/d/a"); !errors.Is(err, ErrNotDir) {
		t.Errorf("ReadDir(file) = %v, want ErrNotDir", err)
	}
	if _, err := m.ReadDir(ctx, "/nope"); !errors.Is(err, ErrNotExist) {
		t.Errorf("ReadDir(missing) = %v, want ErrNotExist", err)
	}
	if _, err := m.ReadFile(ctx, "/d"); !errors.Is(err, ErrIsDir) {
		t.Errorf("ReadFile(dir) = %v, want ErrIsDir", err)
	}
}
