package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"edfinfo/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.IndexPath = filepath.Join(base, "index", "index.db")
	cfg.Paths.TempDir = filepath.Join(base, "tmp")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return &cfg
}

func TestRunAll_MissingConverterIsNotBlocking(t *testing.T) {
	cfg := testConfig(t)
	cfg.Converter.Binary = filepath.Join(t.TempDir(), "edf2asc")

	results := RunAll(cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	converter := results[3]
	if converter.Passed || !converter.Optional {
		t.Fatalf("unexpected converter result %+v", converter)
	}
	if blocking := Blocking(results); len(blocking) != 0 {
		t.Fatalf("expected no blocking failures, got %+v", blocking)
	}
}

func TestRunAll_ConverterDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Converter.Enabled = false

	results := RunAll(cfg)
	if got := results[len(results)-1]; !got.Passed || got.Detail != "Disabled" {
		t.Fatalf("unexpected converter result %+v", got)
	}
	if statuses := CheckSystemDeps(cfg); statuses != nil {
		t.Fatalf("expected no dependency checks, got %+v", statuses)
	}
}

func TestRunAll_ConverterFound(t *testing.T) {
	cfg := testConfig(t)
	bin := filepath.Join(t.TempDir(), "edf2asc")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg.Converter.Binary = bin

	got := CheckConverter(cfg)
	if !got.Passed || got.Detail != bin {
		t.Fatalf("unexpected converter result %+v", got)
	}
}

func TestBlockingReportsRequiredFailures(t *testing.T) {
	cfg := testConfig(t)
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "missing")

	blocking := Blocking(RunAll(cfg))
	if len(blocking) != 1 || blocking[0].Name != "Log directory" {
		t.Fatalf("unexpected blocking results %+v", blocking)
	}
}
