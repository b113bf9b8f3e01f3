package deps

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	present := writeStub(t, t.TempDir(), "present")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected blank command status %#v", results[2])
	}
}

func TestConverterRequirementIsOptional(t *testing.T) {
	req := ConverterRequirement("edf2asc")
	if !req.Optional || req.Command != "edf2asc" {
		t.Fatalf("unexpected requirement %#v", req)
	}
}

func TestPathLocatorFindsBinaryOnPath(t *testing.T) {
	binDir := t.TempDir()
	want := writeStub(t, binDir, "edf2asc")
	t.Setenv("PATH", binDir)

	got, err := PathLocator{}.Locate("edf2asc")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPathLocatorFallsBackToExtraDirs(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	extra := t.TempDir()
	want := writeStub(t, extra, "edf2asc")

	got, err := PathLocator{ExtraDirs: []string{"/nonexistent", extra}}.Locate("edf2asc")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPathLocatorExplicitPath(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, dir, "converter")
	if got, err := (PathLocator{}).Locate(stub); err != nil || got != stub {
		t.Fatalf("expected explicit path to resolve, got %q err=%v", got, err)
	}

	plain := filepath.Join(dir, "not-exec")
	if err := os.WriteFile(plain, []byte("data"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := (PathLocator{}).Locate(plain); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-executable, got %v", err)
	}
}

func TestPathLocatorMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	_, err := PathLocator{}.Locate("edf2asc")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocatorFunc(t *testing.T) {
	var calls int
	loc := LocatorFunc(func(command string) (string, error) {
		calls++
		return "/stub/" + command, nil
	})
	got, err := loc.Locate("edf2asc")
	if err != nil || got != "/stub/edf2asc" || calls != 1 {
		t.Fatalf("unexpected result %q err=%v calls=%d", got, err, calls)
	}
}
