package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DirWatcher watches a directory tree and fires a debounced callback when a
// matching file is written, created, removed or renamed.
type DirWatcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	runMu    sync.Mutex // held while callback runs
	root     string
	dirs     map[string]struct{}
	match    func(name string) bool
	callback func()
	debounce time.Duration
	timer    *time.Timer
	errors   func(error)
	done     chan struct{}
}

// NewDirWatcher creates a watcher for root and every directory below it
func NewDirWatcher(root string, debounce time.Duration, match func(name string) bool) (*DirWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	dw := &DirWatcher{
		watcher:  watcher,
		root:     root,
		dirs:     make(map[string]struct{}),
		match:    match,
		debounce: debounce,
		errors:   func(error) {},
		done:     make(chan struct{}),
	}

	if err := dw.addTree(root); err != nil {
		watcher.Close()
		return nil, err
	}
	return dw, nil
}

// OnError sets the handler for watcher errors
func (dw *DirWatcher) OnError(handler func(error)) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.errors = handler
}

// addTree registers dir and all of its subdirectories
func (dw *DirWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := dw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		dw.mu.Lock()
		dw.dirs[path] = struct{}{}
		dw.mu.Unlock()
		return nil
	})
}

// Start begins delivering change notifications to callback
func (dw *DirWatcher) Start(callback func()) {
	dw.mu.Lock()
	dw.callback = callback
	dw.mu.Unlock()

	go func() {
		for {
			select {
			case event, ok := <-dw.watcher.Events:
				if !ok {
					return
				}
				dw.handleEvent(event)

			case err, ok := <-dw.watcher.Errors:
				if !ok {
					return
				}
				dw.mu.Lock()
				handler := dw.errors
				dw.mu.Unlock()
				handler(err)

			case <-dw.done:
				return
			}
		}
	}()
}

func (dw *DirWatcher) handleEvent(event fsnotify.Event) {
	// New directories need their own watch, and may already hold files
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := dw.addTree(event.Name); err != nil {
				dw.mu.Lock()
				handler := dw.errors
				dw.mu.Unlock()
				handler(err)
			}
			dw.schedule()
			return
		}
	}

	// A removed or moved directory takes its files with it
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && dw.forgetTree(event.Name) {
		dw.schedule()
		return
	}

	relevant := fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	if event.Op&relevant == 0 {
		return
	}
	if dw.match != nil && !dw.match(filepath.Base(event.Name)) {
		return
	}
	dw.schedule()
}

// forgetTree drops dir and everything below it from the watched set and
// reports whether dir was watched
func (dw *DirWatcher) forgetTree(dir string) bool {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if _, ok := dw.dirs[dir]; !ok {
		return false
	}
	prefix := dir + string(filepath.Separator)
	for path := range dw.dirs {
		if path == dir || strings.HasPrefix(path, prefix) {
			delete(dw.dirs, path)
		}
	}
	return true
}

// schedule (re)arms the debounce timer
func (dw *DirWatcher) schedule() {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.callback == nil {
		return
	}
	if dw.timer != nil {
		dw.timer.Stop()
	}
	dw.timer = time.AfterFunc(dw.debounce, dw.fire)
}

// fire runs the callback. A fire that lands while the previous one is still
// running waits for it, so callbacks never overlap.
func (dw *DirWatcher) fire() {
	dw.runMu.Lock()
	defer dw.runMu.Unlock()

	dw.mu.Lock()
	callback := dw.callback
	dw.mu.Unlock()

	select {
	case <-dw.done:
		return
	default:
	}
	callback()
}

// Close stops the watcher and any pending callback
func (dw *DirWatcher) Close() error {
	dw.mu.Lock()
	if dw.timer != nil {
		dw.timer.Stop()
	}
	dw.mu.Unlock()

	close(dw.done)
	return dw.watcher.Close()
}
