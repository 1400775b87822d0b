package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/impulse/internal/particle"
	"github.com/san-kum/impulse/internal/scene"
)

// Simulator steps one scene through the frame sequence: scene update,
// force application and integration, contact generation, contact
// resolution, then metrics and observers. A Simulator owns its scene
// instance; Run builds a fresh world each call and the scene's Setup
// re-seeds any per-run state.
type Simulator struct {
	scene     scene.Scene
	metrics   []Metric
	observers []Observer
	pool      *FramePool
}

// New returns a simulator for the given scene.
func New(sc scene.Scene) *Simulator {
	return &Simulator{
		scene:     sc,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		pool:      NewFramePool(64),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Scene returns the scene this simulator drives.
func (s *Simulator) Scene() scene.Scene { return s.scene }

// Run executes the configured number of steps and records every frame.
// Cancelling the context returns the partial result with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	w, err := s.setup(cfg)
	if err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Times:      make([]float64, 0, steps+1),
		Frames:     make([]Frame, 0, steps+1),
		Iterations: make([]int, 0, steps),
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	resolver := particle.NewResolver(1)
	contacts := make([]particle.Contact, 0, 64)
	t := 0.0

	result.Times = append(result.Times, t)
	result.Frames = append(result.Frames, captureFrame(w, t, nil))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		contacts, err = s.step(w, resolver, contacts, t, cfg)
		if err != nil {
			return result, &StepError{Step: i, Time: t, Err: err}
		}
		used := 0
		if len(contacts) > 0 {
			used = resolver.IterationsUsed()
		}

		t += cfg.Dt
		result.StepsTaken++

		for _, m := range s.metrics {
			m.Observe(w, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(w, t)
		}

		result.Times = append(result.Times, t)
		result.Frames = append(result.Frames, captureFrame(w, t, nil))
		result.Iterations = append(result.Iterations, used)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback streams frames instead of recording them. The frame
// handed to the callback is recycled after it returns; callbacks that
// keep a frame must copy it. Returning false stops the run cleanly.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	w, err := s.setup(cfg)
	if err != nil {
		return err
	}

	steps := int(cfg.Duration / cfg.Dt)
	resolver := particle.NewResolver(1)
	contacts := make([]particle.Contact, 0, 64)
	t := 0.0

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		contacts, err = s.step(w, resolver, contacts, t, cfg)
		if err != nil {
			return &StepError{Step: i, Time: t, Err: err}
		}

		t += cfg.Dt

		for _, m := range s.metrics {
			m.Observe(w, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(w, t)
		}

		frame := s.pool.Capture(w, t)
		keep := callback(frame)
		s.pool.Release(frame)
		if !keep {
			return nil
		}
	}

	return nil
}

// setup builds the world for one run: scene parameters first, then the
// scene's own setup.
func (s *Simulator) setup(cfg Config) (*particle.World, error) {
	if err := applyParams(s.scene, cfg); err != nil {
		return nil, err
	}

	w := particle.NewWorld()
	if err := s.scene.Setup(w); err != nil {
		return nil, fmt.Errorf("scene setup: %w", err)
	}
	return w, nil
}

// step advances one frame and returns the (reused) contact slice.
func (s *Simulator) step(w *particle.World, resolver *particle.Resolver, contacts []particle.Contact, t float64, cfg Config) ([]particle.Contact, error) {
	s.scene.Update(w, t, cfg.Dt)

	if err := w.Tick(cfg.Dt); err != nil {
		return contacts, err
	}

	contacts = s.scene.Contacts(w, contacts[:0])
	if cfg.MaxContacts > 0 && len(contacts) > cfg.MaxContacts {
		contacts = contacts[:cfg.MaxContacts]
	}

	if len(contacts) > 0 {
		iterations := cfg.Iterations
		if iterations <= 0 {
			iterations = 2 * len(contacts)
		}
		resolver.SetIterations(iterations)
		resolver.ResolveContacts(contacts, cfg.Dt, w.Bodies())
	}

	return contacts, nil
}

func applyParams(sc scene.Scene, cfg Config) error {
	configurable, ok := sc.(scene.Configurable)

	if len(cfg.Params) > 0 {
		if !ok {
			return fmt.Errorf("scene %s accepts no parameters", sc.Name())
		}
		for name, value := range cfg.Params {
			if err := configurable.SetParam(name, value); err != nil {
				return err
			}
		}
	}

	// Scenes without randomness reject or lack the seed parameter;
	// both are fine.
	if cfg.Seed != 0 && ok {
		_ = configurable.SetParam("seed", float64(cfg.Seed))
	}

	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Iterations < 0 {
		return fmt.Errorf("iterations must not be negative, got %d", cfg.Iterations)
	}
	return nil
}

func captureFrame(w *particle.World, t float64, buf []BodyState) Frame {
	states := buf[:0]
	w.Bodies().Each(func(h particle.Handle, b *particle.Body) bool {
		states = append(states, BodyState{
			Handle:   h,
			Position: b.Position,
			Velocity: b.Velocity,
		})
		return true
	})
	return Frame{Time: t, Bodies: states}
}
