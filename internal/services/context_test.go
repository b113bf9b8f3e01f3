package services_test

import (
	"context"
	"testing"

	"edfinfo/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRecording(ctx, "/data/1_2_3.edf")
	ctx = services.WithPhase(ctx, "preamble")
	ctx = services.WithRequestID(ctx, "req-123")

	if path, ok := services.RecordingFromContext(ctx); !ok || path != "/data/1_2_3.edf" {
		t.Fatalf("unexpected recording: %v %v", path, ok)
	}
	if phase, ok := services.PhaseFromContext(ctx); !ok || phase != "preamble" {
		t.Fatalf("unexpected phase: %v %v", phase, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestPhaseBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithPhase(ctx, "")
	if _, ok := services.PhaseFromContext(ctx); ok {
		t.Fatal("expected no phase value")
	}
}
