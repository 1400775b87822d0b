package automation

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/impulse/internal/metrics"
	"github.com/san-kum/impulse/internal/scene"
	"github.com/san-kum/impulse/internal/sim"
	"github.com/san-kum/impulse/internal/storage"
)

// Script is a scripted sequence of headless runs loaded from YAML.
type Script struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Steps       []ScriptStep `yaml:"steps"`
}

// ScriptStep is a single run within a script. Zero Duration and Dt fall
// back to the defaults.
type ScriptStep struct {
	Scene    string             `yaml:"scene"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Seed     int64              `yaml:"seed"`
	Params   map[string]float64 `yaml:"params"`
	Save     bool               `yaml:"save"`
}

// LoadScript loads a script from a YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}

	return &script, nil
}

// StepResult pairs a completed step with the run ID it was saved under,
// when the step asked to be saved.
type StepResult struct {
	Scene  string
	RunID  string
	Result *sim.Result
}

// RunScript executes all steps of a script in order. Steps marked save
// are written to the store; a nil store skips saving.
func RunScript(ctx context.Context, script *Script, registry *scene.Registry, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(script.Steps))

	for i, step := range script.Steps {
		fmt.Printf("Running step %d/%d: %s\n", i+1, len(script.Steps), step.Scene)

		sc, err := registry.Get(step.Scene)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		cfg := sim.DefaultConfig()
		cfg.Scene = step.Scene
		if step.Duration > 0 {
			cfg.Duration = step.Duration
		}
		if step.Dt > 0 {
			cfg.Dt = step.Dt
		}
		cfg.Seed = step.Seed
		cfg.Params = step.Params

		s := sim.New(sc)
		s.AddMetric(metrics.NewKineticEnergy())
		s.AddMetric(metrics.NewMomentum())

		result, err := s.Run(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Scene: step.Scene, Result: result}
		if step.Save && store != nil {
			runID, err := store.Save(cfg, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = runID
		}

		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs one scene across a range of values for a single
// scene parameter.
type ParameterSweep struct {
	Scene string
	Param string
	Min   float64
	Max   float64
	Steps int

	// Base supplies dt, duration, seed and any fixed parameters; the
	// swept parameter overrides it.
	Base sim.Config
}

// SweepPoint holds one sweep step's outcome.
type SweepPoint struct {
	Value      float64
	MeanEnergy float64
	PeakEnergy float64
	FinalFrame sim.Frame
}

// RunSweep executes a parameter sweep. Each step runs on a fresh scene
// instance so steps cannot contaminate each other.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *scene.Registry) ([]SweepPoint, error) {
	if sweep.Steps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.Steps)
	}

	points := make([]SweepPoint, 0, sweep.Steps)
	paramStep := (sweep.Max - sweep.Min) / float64(sweep.Steps-1)

	for i := 0; i < sweep.Steps; i++ {
		value := sweep.Min + float64(i)*paramStep

		sc, err := registry.Get(sweep.Scene)
		if err != nil {
			return nil, err
		}

		cfg := sweep.Base
		cfg.Scene = sweep.Scene
		params := make(map[string]float64, len(sweep.Base.Params)+1)
		for k, v := range sweep.Base.Params {
			params[k] = v
		}
		params[sweep.Param] = value
		cfg.Params = params

		energy := metrics.NewKineticEnergy()
		s := sim.New(sc)
		s.AddMetric(energy)

		result, err := s.Run(ctx, cfg)
		if err != nil {
			return points, fmt.Errorf("%s=%.4f: %w", sweep.Param, value, err)
		}

		points = append(points, SweepPoint{
			Value:      value,
			MeanEnergy: energy.Value(),
			PeakEnergy: energy.Peak(),
			FinalFrame: result.FinalFrame(),
		})

		fmt.Printf("Sweep %d/%d: %s=%.4f\n", i+1, sweep.Steps, sweep.Param, value)
	}

	return points, nil
}

// MonteCarlo runs many trials of one scene under consecutive seeds, so
// scenes with randomness sample their spread.
type MonteCarlo struct {
	Scene  string
	Trials int

	// Seed starts the trial seed sequence; zero draws from the clock.
	Seed int64

	// Threshold is the bounds half-extent a stable trial must stay
	// inside. Zero means 1e6.
	Threshold float64

	Base sim.Config
}

// RunMonteCarlo executes the trials concurrently and returns every
// trial's result in seed order.
func RunMonteCarlo(ctx context.Context, mc *MonteCarlo, registry *scene.Registry) ([]*sim.Result, error) {
	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	threshold := mc.Threshold
	if threshold <= 0 {
		threshold = 1e6
	}

	ensemble := sim.NewEnsemble(registry, mc.Trials, seed)
	ensemble.MetricFactory = func() []sim.Metric {
		return []sim.Metric{
			metrics.NewKineticEnergy(),
			metrics.NewBounds(threshold),
		}
	}

	cfg := mc.Base
	cfg.Scene = mc.Scene
	return ensemble.Run(ctx, cfg)
}

// TrialStats summarizes a Monte Carlo batch.
type TrialStats struct {
	Trials     int
	Stable     int
	Unstable   int
	MeanEnergy float64
}

// Stats counts trials whose bodies never left the bounds cube and
// averages the per-trial mean kinetic energy.
func Stats(results []*sim.Result) TrialStats {
	st := TrialStats{Trials: len(results)}
	for _, r := range results {
		if r.Metrics["bounds"] >= 1.0 {
			st.Stable++
		} else {
			st.Unstable++
		}
		st.MeanEnergy += r.Metrics["kinetic_energy"]
	}
	if st.Trials > 0 {
		st.MeanEnergy /= float64(st.Trials)
	}
	return st
}
