package index_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"edfinfo/internal/index"
	"edfinfo/internal/testsupport"
)

func TestUpsertInsertsAndReplaces(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenIndex(t, cfg)
	ctx := context.Background()

	first, err := store.Upsert(ctx, &index.Entry{
		Path:    "/data/s01.edf",
		Kind:    "edf",
		Status:  index.StatusPartial,
		Fields:  map[string]string{"experiment": "reading", "session": "1"},
		Missing: []string{"recording", "list"},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if first.ID == "" || first.ParsedAt.IsZero() {
		t.Fatalf("expected id and parse time, got %+v", first)
	}
	if first.Field("experiment") != "reading" || len(first.Missing) != 2 {
		t.Fatalf("unexpected entry %+v", first)
	}

	second, err := store.Upsert(ctx, &index.Entry{
		Path:   "/data/s01.edf",
		Kind:   "edf",
		Status: index.StatusComplete,
		Fields: map[string]string{"experiment": "reading", "recording": "rec01"},
	})
	if err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected stable id %s, got %s", first.ID, second.ID)
	}
	if second.Status != index.StatusComplete || second.Missing != nil || second.Field("session") != "" {
		t.Fatalf("expected replaced entry, got %+v", second)
	}
}

func TestUpsertValidates(t *testing.T) {
	store := testsupport.MustOpenIndex(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if _, err := store.Upsert(ctx, nil); err == nil {
		t.Fatal("expected error for nil entry")
	}
	if _, err := store.Upsert(ctx, &index.Entry{Status: index.StatusComplete}); err == nil {
		t.Fatal("expected error for blank path")
	}
	if _, err := store.Upsert(ctx, &index.Entry{Path: "a.edf", Status: "bogus"}); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	store := testsupport.MustOpenIndex(t, testsupport.NewConfig(t))
	entry, err := store.Get(context.Background(), "/nope.edf")
	if err != nil || entry != nil {
		t.Fatalf("expected nil entry, got %+v, %v", entry, err)
	}
}

func TestListFilterRemoveClearStats(t *testing.T) {
	store := testsupport.MustOpenIndex(t, testsupport.NewConfig(t))
	ctx := context.Background()

	seed := []*index.Entry{
		{Path: "/b.edf", Kind: "edf", Status: index.StatusComplete},
		{Path: "/a.asc", Kind: "asc", Status: index.StatusPartial},
		{Path: "/c.edf", Kind: "edf", Status: index.StatusFailed, Error: "decode error"},
	}
	for _, e := range seed {
		if _, err := store.Upsert(ctx, e); err != nil {
			t.Fatalf("Upsert %s: %v", e.Path, err)
		}
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].Path != "/a.asc" || all[2].Error != "decode error" {
		t.Fatalf("unexpected list %+v", all)
	}

	filtered, err := store.List(ctx, index.StatusComplete, index.StatusFailed)
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(filtered))
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[index.StatusComplete] != 1 || stats[index.StatusPartial] != 1 || stats[index.StatusFailed] != 1 {
		t.Fatalf("unexpected stats %v", stats)
	}

	removed, err := store.Remove(ctx, "/b.edf")
	if err != nil || !removed {
		t.Fatalf("Remove: %v %v", removed, err)
	}
	removed, err = store.Remove(ctx, "/b.edf")
	if err != nil || removed {
		t.Fatalf("expected second Remove to report false, got %v %v", removed, err)
	}

	cleared, err := store.Clear(ctx)
	if err != nil || cleared != 2 {
		t.Fatalf("Clear: %d %v", cleared, err)
	}
}

func TestParsedAtIsPreserved(t *testing.T) {
	store := testsupport.MustOpenIndex(t, testsupport.NewConfig(t))
	parsed := time.Date(2024, 1, 15, 9, 58, 12, 0, time.UTC)
	entry, err := store.Upsert(context.Background(), &index.Entry{
		Path:     "/s.edf",
		Kind:     "edf",
		Status:   index.StatusSkipped,
		ParsedAt: parsed,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !entry.ParsedAt.Equal(parsed) {
		t.Fatalf("expected parsed_at %v, got %v", parsed, entry.ParsedAt)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := index.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.Upsert(context.Background(), &index.Entry{Path: "/x.edf", Kind: "edf", Status: index.StatusComplete}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenIndex(t, cfg)
	entry, err := reopened.Get(context.Background(), "/x.edf")
	if err != nil || entry == nil {
		t.Fatalf("expected persisted entry, got %+v %v", entry, err)
	}
	if reopened.Path() != cfg.Paths.IndexPath {
		t.Fatalf("unexpected path %s", reopened.Path())
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := index.Open(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := index.OpenPath("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestWriterLockIsExclusive(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")
	lock, err := index.AcquireWriterLock(dbPath)
	if err != nil {
		t.Fatalf("AcquireWriterLock: %v", err)
	}
	if lock.Path() != dbPath+".lock" {
		t.Fatalf("unexpected lock path %s", lock.Path())
	}

	if _, err := index.AcquireWriterLock(dbPath); !errors.Is(err, index.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	again, err := index.AcquireWriterLock(dbPath)
	if err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
	_ = again.Release()
}

func TestParseStatus(t *testing.T) {
	if status, ok := index.ParseStatus(" Partial "); !ok || status != index.StatusPartial {
		t.Fatalf("unexpected parse %q %v", status, ok)
	}
	if _, ok := index.ParseStatus("pending"); ok {
		t.Fatal("expected unknown status")
	}
	if len(index.AllStatuses()) != 4 {
		t.Fatal("expected four statuses")
	}
}
