package sim

import (
	"context"
	"testing"

	"github.com/san-kum/impulse/internal/scene"
)

func TestEnsembleRun(t *testing.T) {
	registry := scene.NewRegistry()
	ens := NewEnsemble(registry, 3, 100)

	cfg := DefaultConfig()
	cfg.Scene = "sandbox"
	cfg.Duration = 1.0

	results, err := ens.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, r := range results {
		if r.StepsTaken != 100 {
			t.Errorf("run %d: expected 100 steps, got %d", i, r.StepsTaken)
		}
	}

	// The sandbox has no randomness, so every run lands in the same
	// place regardless of seed.
	first := results[0].FinalFrame().Bodies[0]
	for i, r := range results[1:] {
		got := r.FinalFrame().Bodies[0]
		if got.Position != first.Position || got.Velocity != first.Velocity {
			t.Errorf("run %d diverged: pos %v vel %v", i+1, got.Position, got.Velocity)
		}
	}
}

func TestEnsembleUnknownScene(t *testing.T) {
	ens := NewEnsemble(scene.NewRegistry(), 2, 0)

	cfg := DefaultConfig()
	cfg.Scene = "does-not-exist"

	if _, err := ens.Run(context.Background(), cfg); err == nil {
		t.Error("expected error for unknown scene, got nil")
	}
}

func TestEnsembleMetricFactory(t *testing.T) {
	ens := NewEnsemble(scene.NewRegistry(), 2, 0)
	ens.MetricFactory = func() []Metric {
		return []Metric{&countMetric{}}
	}

	cfg := DefaultConfig()
	cfg.Scene = "sandbox"
	cfg.Duration = 0.5

	results, err := ens.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	for i, r := range results {
		if got := r.Metrics["steps"]; got != 50 {
			t.Errorf("run %d: expected 50 observed steps, got %v", i, got)
		}
	}
}
