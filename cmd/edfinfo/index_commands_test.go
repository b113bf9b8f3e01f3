package main

import (
	"encoding/json"
	"testing"

	"edfinfo/internal/testsupport"
)

func TestIndexLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)
	complete := testsupport.WriteRecording(t, env.dataDir, "s01.edf", testsupport.Preamble...)
	partial := testsupport.WriteRecording(t, env.dataDir, "s02.asc", testsupport.PreambleWithout("LIST", "SESSION")...)

	_, stderr, err := runCLI(t, []string{"--index", complete, partial}, env.configPath)
	if err != nil {
		t.Fatalf("parse --index: %v", err)
	}
	requireContains(t, stderr, "Indexed 2 recordings")

	out, _, err := runCLI(t, []string{"index", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("index list: %v", err)
	}
	requireContains(t, out, complete)
	requireContains(t, out, partial)

	out, _, err = runCLI(t, []string{"index", "list", "--status", "partial"}, env.configPath)
	if err != nil {
		t.Fatalf("index list --status: %v", err)
	}
	requireContains(t, out, partial)
	requireNotContains(t, out, complete)

	if _, _, err := runCLI(t, []string{"index", "list", "--status", "pending"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown status")
	}

	out, _, err = runCLI(t, []string{"index", "show", partial}, env.configPath)
	if err != nil {
		t.Fatalf("index show: %v", err)
	}
	requireContains(t, out, "  experiment:\t\treading\n")
	requireContains(t, out, "Status: partial")

	out, _, err = runCLI(t, []string{"index", "show", "--json", complete}, env.configPath)
	if err != nil {
		t.Fatalf("index show --json: %v", err)
	}
	var view map[string]any
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view["status"] != "complete" || view["kind"] != "edf" {
		t.Fatalf("unexpected view %v", view)
	}

	out, _, err = runCLI(t, []string{"index", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("index stats: %v", err)
	}
	requireContains(t, out, "complete")
	requireContains(t, out, "partial")

	out, _, err = runCLI(t, []string{"index", "remove", complete}, env.configPath)
	if err != nil {
		t.Fatalf("index remove: %v", err)
	}
	requireContains(t, out, "Removed "+complete)
	if _, _, err := runCLI(t, []string{"index", "remove", complete}, env.configPath); err == nil {
		t.Fatal("expected error removing an unindexed recording")
	}
	if _, _, err := runCLI(t, []string{"index", "show", complete}, env.configPath); err == nil {
		t.Fatal("expected error showing a removed recording")
	}

	if _, _, err := runCLI(t, []string{"index", "clear"}, env.configPath); err == nil {
		t.Fatal("expected clear without --force to fail")
	}
	out, _, err = runCLI(t, []string{"index", "clear", "--force"}, env.configPath)
	if err != nil {
		t.Fatalf("index clear: %v", err)
	}
	requireContains(t, out, "Cleared 1 entries")

	out, _, err = runCLI(t, []string{"index", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("index list: %v", err)
	}
	requireContains(t, out, "Index is empty")
}

func TestIndexScanRecordsFailuresAndSkips(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteRecording(t, env.dataDir, "x/s01.edf", testsupport.Preamble...)
	testsupport.WriteRecording(t, env.dataDir, "x/y/s02.asc", "** DATE: \xff")
	testsupport.WriteRecording(t, env.dataDir, "x/readme.txt", "not a recording")

	_, stderr, err := runCLI(t, []string{"index", "scan", env.dataDir}, env.configPath)
	if err != nil {
		t.Fatalf("index scan: %v", err)
	}
	requireContains(t, stderr, "Indexed 2 recordings")

	out, _, err := runCLI(t, []string{"index", "list", "-s", "failed"}, env.configPath)
	if err != nil {
		t.Fatalf("index list: %v", err)
	}
	requireContains(t, out, "s02.asc")
	requireNotContains(t, out, "s01.edf")
}

func TestIndexScanEmptyDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"index", "scan", env.dataDir}, env.configPath)
	if err != nil {
		t.Fatalf("index scan: %v", err)
	}
	requireContains(t, out, "No recordings found")
}
