package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"edfinfo/internal/eyefile"
	"edfinfo/internal/logging"
)

// Event reports a recording that settled or disappeared.
type Event struct {
	Path    string
	Removed bool
}

// Watcher monitors a directory tree for recordings.
type Watcher struct {
	fsw    *fsnotify.Watcher
	root   string
	settle time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	dirs    []string
}

// New watches root and every directory below it.
func New(root string, settle time.Duration, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve watch root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s is not a directory", abs)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fsw:     fsw,
		root:    abs,
		settle:  settle,
		logger:  logging.NewComponentLogger(logger, "watch"),
		pending: make(map[string]*time.Timer),
	}
	if err := w.addTree(abs); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Root returns the absolute watch root.
func (w *Watcher) Root() string { return w.root }

// Dirs returns the directories currently watched.
func (w *Watcher) Dirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.dirs...)
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			w.logger.Warn("skipping unreadable directory", logging.String("dir", path), logging.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		w.mu.Lock()
		w.dirs = append(w.dirs, path)
		w.mu.Unlock()
		return nil
	})
}

// Run delivers events to handle until ctx is cancelled. handle is called from
// a single goroutine.
func (w *Watcher) Run(ctx context.Context, handle func(context.Context, Event)) error {
	defer w.fsw.Close()
	ready := make(chan string, 64)
	defer w.stopPending()

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-ready:
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				continue
			}
			handle(ctx, Event{Path: path})
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if removed := w.dispatch(ctx, ev, ready); removed != "" {
				handle(ctx, Event{Path: removed, Removed: true})
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logging.Error(err))
		}
	}
}

// dispatch schedules settled delivery for writes and returns the path of a
// removed recording.
func (w *Watcher) dispatch(ctx context.Context, ev fsnotify.Event, ready chan<- string) string {
	switch {
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if !eyefile.IsRecording(ev.Name) {
			return ""
		}
		w.cancel(ev.Name)
		return ev.Name
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		if ev.Op&fsnotify.Create != 0 {
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				if err := w.addTree(ev.Name); err != nil {
					w.logger.Warn("cannot watch new directory", logging.String("dir", ev.Name), logging.Error(err))
				}
				return ""
			}
		}
		if eyefile.IsRecording(ev.Name) {
			w.schedule(ctx, ev.Name, ready)
		}
	}
	return ""
}

func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok && timer.Stop() {
		timer.Reset(w.settle)
		return
	}
	// A fired timer leaves pending before it delivers, so a later write
	// arms a new timer instead of resetting a spent one.
	var timer *time.Timer
	timer = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		if w.pending[path] == timer {
			delete(w.pending, path)
		}
		w.mu.Unlock()
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
	w.pending[path] = timer
}

// pendingCount reports how many recordings are waiting to settle.
func (w *Watcher) pendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
