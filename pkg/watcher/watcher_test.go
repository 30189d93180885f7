package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func isSTL(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".stl")
}

func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestDirWatcherFiresForMatchingFile(t *testing.T) {
	root := t.TempDir()

	dw, err := NewDirWatcher(root, 20*time.Millisecond, isSTL)
	if err != nil {
		t.Fatalf("NewDirWatcher failed: %v", err)
	}
	defer dw.Close()

	var calls atomic.Int32
	dw.Start(func() { calls.Add(1) })

	if err := os.WriteFile(filepath.Join(root, "part.stl"), []byte("solid x\nendsolid x\n"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if !waitFor(t, func() bool { return calls.Load() > 0 }) {
		t.Fatal("callback not fired for .stl change")
	}
}

func TestDirWatcherIgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()

	dw, err := NewDirWatcher(root, 20*time.Millisecond, isSTL)
	if err != nil {
		t.Fatalf("NewDirWatcher failed: %v", err)
	}
	defer dw.Close()

	var calls atomic.Int32
	dw.Start(func() { calls.Add(1) })

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	time.Sleep(200 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("expected no callback, got %d", calls.Load())
	}
}

func TestDirWatcherDebounces(t *testing.T) {
	root := t.TempDir()

	dw, err := NewDirWatcher(root, 150*time.Millisecond, isSTL)
	if err != nil {
		t.Fatalf("NewDirWatcher failed: %v", err)
	}
	defer dw.Close()

	var calls atomic.Int32
	dw.Start(func() { calls.Add(1) })

	for i := 0; i < 5; i++ {
		name := filepath.Join(root, "part.stl")
		if err := os.WriteFile(name, []byte(strings.Repeat("x", i+1)), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if !waitFor(t, func() bool { return calls.Load() > 0 }) {
		t.Fatal("callback not fired")
	}
	time.Sleep(300 * time.Millisecond)
	if calls.Load() != 1 {
		t.Errorf("expected a single debounced callback, got %d", calls.Load())
	}
}

func TestDirWatcherMissingRoot(t *testing.T) {
	_, err := NewDirWatcher(filepath.Join(t.TempDir(), "missing"), time.Millisecond, isSTL)
	if err == nil {
		t.Error("expected error for missing root")
	}
}

func TestDirWatcherCallbacksNeverOverlap(t *testing.T) {
	root := t.TempDir()

	dw, err := NewDirWatcher(root, 10*time.Millisecond, isSTL)
	if err != nil {
		t.Fatalf("NewDirWatcher failed: %v", err)
	}
	defer dw.Close()

	var active, calls atomic.Int32
	var overlap atomic.Bool
	dw.Start(func() {
		if active.Add(1) > 1 {
			overlap.Store(true)
		}
		calls.Add(1)
		time.Sleep(150 * time.Millisecond)
		active.Add(-1)
	})

	name := filepath.Join(root, "part.stl")
	for i := 0; i < 6; i++ {
		if err := os.WriteFile(name, []byte(strings.Repeat("x", i+1)), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		time.Sleep(60 * time.Millisecond)
	}

	if !waitFor(t, func() bool { return calls.Load() >= 2 }) {
		t.Fatalf("expected repeated callbacks, got %d", calls.Load())
	}
	time.Sleep(400 * time.Millisecond)
	if overlap.Load() {
		t.Error("callback ran concurrently with itself")
	}
}

func TestDirWatcherFiresWhenSubdirectoryMoves(t *testing.T) {
	root := t.TempDir()
	parts := filepath.Join(root, "parts")
	if err := os.MkdirAll(parts, 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(parts, "bracket.stl"), []byte("solid x\nendsolid x\n"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	dw, err := NewDirWatcher(root, 20*time.Millisecond, isSTL)
	if err != nil {
		t.Fatalf("NewDirWatcher failed: %v", err)
	}
	defer dw.Close()

	var calls atomic.Int32
	dw.Start(func() { calls.Add(1) })

	outside := filepath.Join(t.TempDir(), "moved")
	if err := os.Rename(parts, outside); err != nil {
		t.Skipf("cannot move directory across temp dirs: %v", err)
	}

	if !waitFor(t, func() bool { return calls.Load() > 0 }) {
		t.Fatal("callback not fired after moving a watched directory away")
	}
}

func TestDirWatcherFiresWhenSubdirectoryRemoved(t *testing.T) {
	root := t.TempDir()
	parts := filepath.Join(root, "parts")
	if err := os.MkdirAll(parts, 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	dw, err := NewDirWatcher(root, 20*time.Millisecond, isSTL)
	if err != nil {
		t.Fatalf("NewDirWatcher failed: %v", err)
	}
	defer dw.Close()

	var calls atomic.Int32
	dw.Start(func() { calls.Add(1) })

	if err := os.Remove(parts); err != nil {
		t.Fatalf("failed to remove dir: %v", err)
	}

	if !waitFor(t, func() bool { return calls.Load() > 0 }) {
		t.Fatal("callback not fired after removing a watched directory")
	}
}
