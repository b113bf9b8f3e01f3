package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"edfinfo/internal/watch"
)

func runWatcher(t *testing.T, root string) <-chan watch.Event {
	t.Helper()
	w, err := watch.New(root, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan watch.Event, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(_ context.Context, ev watch.Event) { events <- ev })
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return events
}

func waitEvent(t *testing.T, events <-chan watch.Event) watch.Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return watch.Event{}
	}
}

func TestWatcherReportsSettledRecording(t *testing.T) {
	root := t.TempDir()
	events := runWatcher(t, root)

	if err := os.WriteFile(filepath.Join(root, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, "s01.asc")
	for i := 0; i < 3; i++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = f.WriteString("** DATE: x\n")
		f.Close()
		time.Sleep(10 * time.Millisecond)
	}

	ev := waitEvent(t, events)
	if ev.Path != path || ev.Removed {
		t.Fatalf("unexpected event %+v", ev)
	}
	select {
	case extra := <-events:
		t.Fatalf("expected writes to coalesce, got extra event %+v", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherFollowsNewDirectoriesAndRemovals(t *testing.T) {
	root := t.TempDir()
	events := runWatcher(t, root)

	sub := filepath.Join(root, "pp02")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	path := filepath.Join(sub, "s02.edf")
	if err := os.WriteFile(path, []byte("** DATE: y\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if ev := waitEvent(t, events); ev.Path != path || ev.Removed {
		t.Fatalf("unexpected event %+v", ev)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if ev := waitEvent(t, events); ev.Path != path || !ev.Removed {
		t.Fatalf("expected removal event, got %+v", ev)
	}
}

func TestNewRejectsFileRoot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.edf")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := watch.New(file, time.Second, nil); err == nil {
		t.Fatal("expected error for non-directory root")
	}
}
