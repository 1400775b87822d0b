package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/san-kum/impulse/internal/particle"
)

type fallScene struct {
	ball particle.Handle
}

func (f *fallScene) Name() string        { return "fall" }
func (f *fallScene) Description() string { return "one ball in free fall" }

func (f *fallScene) Setup(w *particle.World) error {
	f.ball = w.InsertBody(particle.Body{
		Damping:     1,
		InverseMass: 1,
	})
	g := w.InsertForceGenerator(particle.NewGravity(particle.Vec3{0, -10, 0}))
	w.Register(g, f.ball)
	return nil
}

func (f *fallScene) Update(*particle.World, float64, float64) {}

func (f *fallScene) Contacts(_ *particle.World, dst []particle.Contact) []particle.Contact {
	return dst
}

func TestSimulatorRun(t *testing.T) {
	sc := &fallScene{}
	sim := New(sc)

	cfg := Config{Dt: 0.1, Duration: 1.0}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if len(result.Frames) != 11 {
		t.Errorf("expected 11 frames, got %d", len(result.Frames))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}

	final := result.FinalFrame()
	if len(final.Bodies) != 1 {
		t.Fatalf("expected 1 body in final frame, got %d", len(final.Bodies))
	}

	// Position advances under the previous velocity, so after n steps
	// y = -g*dt^2 * (0+1+...+(n-1)).
	state := final.Bodies[0]
	if math.Abs(state.Velocity.Y()-(-10.0)) > 1e-9 {
		t.Errorf("expected final vy -10, got %v", state.Velocity.Y())
	}
	if math.Abs(state.Position.Y()-(-4.5)) > 1e-9 {
		t.Errorf("expected final y -4.5, got %v", state.Position.Y())
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim := New(&fallScene{})

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
		{"negative iterations", Config{Dt: 0.1, Duration: 1.0, Iterations: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

type countMetric struct {
	count int
}

func (m *countMetric) Name() string                     { return "steps" }
func (m *countMetric) Observe(*particle.World, float64) { m.count++ }
func (m *countMetric) Value() float64                   { return float64(m.count) }
func (m *countMetric) Reset()                           { m.count = 0 }

func TestSimulatorMetrics(t *testing.T) {
	sim := New(&fallScene{})

	metric := &countMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if got, ok := result.Metrics["steps"]; !ok || got != 10 {
		t.Errorf("expected metric steps=10 in result, got %v (present %v)", got, ok)
	}
}

type timeObserver struct {
	times []float64
}

func (o *timeObserver) OnStep(_ *particle.World, t float64) {
	o.times = append(o.times, t)
}

func TestSimulatorObservers(t *testing.T) {
	sim := New(&fallScene{})

	obs := &timeObserver{}
	sim.AddObserver(obs)

	if _, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(obs.times) != 10 {
		t.Fatalf("expected 10 observations, got %d", len(obs.times))
	}
	for i := 1; i < len(obs.times); i++ {
		if obs.times[i] <= obs.times[i-1] {
			t.Errorf("times not increasing at %d: %v", i, obs.times)
		}
	}
	if math.Abs(obs.times[len(obs.times)-1]-1.0) > 1e-9 {
		t.Errorf("expected last observation at t=1, got %v", obs.times[len(obs.times)-1])
	}
}

// floorScene drops a ball onto a plane at y=0 with a contact radius of
// 0.05 and no bounce.
type floorScene struct {
	ball particle.Handle
}

func (f *floorScene) Name() string        { return "floor" }
func (f *floorScene) Description() string { return "ball resting on a plane" }

func (f *floorScene) Setup(w *particle.World) error {
	f.ball = w.InsertBody(particle.Body{
		Position:     particle.Vec3{0, 0.5, 0},
		Acceleration: particle.Vec3{0, -10, 0},
		Damping:      1,
		InverseMass:  1,
	})
	return nil
}

func (f *floorScene) Update(*particle.World, float64, float64) {}

func (f *floorScene) Contacts(w *particle.World, dst []particle.Contact) []particle.Contact {
	b, ok := w.Body(f.ball)
	if !ok {
		return dst
	}
	depth := 0.05 - b.Position.Y()
	if depth <= 0 {
		return dst
	}
	return append(dst, particle.Contact{
		Body:        f.ball,
		Normal:      particle.Vec3{0, 1, 0},
		Penetration: depth,
	})
}

func TestSimulatorResolvesContacts(t *testing.T) {
	sc := &floorScene{}
	sim := New(sc)

	result, err := sim.Run(context.Background(), Config{Dt: 0.01, Duration: 2.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	state := result.FinalFrame().Bodies[0]
	if math.Abs(state.Position.Y()-0.05) > 1e-3 {
		t.Errorf("expected ball resting at y=0.05, got %v", state.Position.Y())
	}
	if math.Abs(state.Velocity.Y()) > 0.15 {
		t.Errorf("expected ball at rest, got vy %v", state.Velocity.Y())
	}

	resolved := 0
	for _, used := range result.Iterations {
		resolved += used
	}
	if resolved == 0 {
		t.Error("expected resolver iterations to be spent on floor contacts")
	}
}

type tunableScene struct {
	ball     particle.Handle
	strength float64
}

func (s *tunableScene) Name() string        { return "tunable" }
func (s *tunableScene) Description() string { return "fall with configurable gravity" }

func (s *tunableScene) Setup(w *particle.World) error {
	s.ball = w.InsertBody(particle.Body{
		Acceleration: particle.Vec3{0, -s.strength, 0},
		Damping:      1,
		InverseMass:  1,
	})
	return nil
}

func (s *tunableScene) Update(*particle.World, float64, float64) {}

func (s *tunableScene) Contacts(_ *particle.World, dst []particle.Contact) []particle.Contact {
	return dst
}

func (s *tunableScene) GetParams() map[string]float64 {
	return map[string]float64{"gravity": s.strength}
}

func (s *tunableScene) SetParam(name string, value float64) error {
	switch name {
	case "gravity":
		s.strength = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

func TestSimulatorParams(t *testing.T) {
	sc := &tunableScene{strength: 10}
	sim := New(sc)

	cfg := Config{
		Dt:       0.1,
		Duration: 1.0,
		Params:   map[string]float64{"gravity": 0},
	}
	result, err := sim.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	state := result.FinalFrame().Bodies[0]
	if state.Velocity != (particle.Vec3{}) || state.Position != (particle.Vec3{}) {
		t.Errorf("expected motionless ball with gravity 0, got pos %v vel %v",
			state.Position, state.Velocity)
	}
}

func TestSimulatorUnknownParam(t *testing.T) {
	sim := New(&tunableScene{strength: 10})

	cfg := Config{
		Dt:       0.1,
		Duration: 1.0,
		Params:   map[string]float64{"bogus": 1},
	}
	if _, err := sim.Run(context.Background(), cfg); err == nil {
		t.Error("expected error for unknown param, got nil")
	}
}

func TestSimulatorParamsOnPlainScene(t *testing.T) {
	sim := New(&fallScene{})

	cfg := Config{
		Dt:       0.1,
		Duration: 1.0,
		Params:   map[string]float64{"gravity": 0},
	}
	if _, err := sim.Run(context.Background(), cfg); err == nil {
		t.Error("expected error for params on a scene without any, got nil")
	}
}

func TestSimulatorSeedWithoutSeedParam(t *testing.T) {
	sim := New(&tunableScene{strength: 10})

	cfg := Config{Dt: 0.1, Duration: 1.0, Seed: 42}
	if _, err := sim.Run(context.Background(), cfg); err != nil {
		t.Errorf("expected seed to be ignored by seedless scene, got %v", err)
	}
}

func TestSimulatorCancellation(t *testing.T) {
	sim := New(&fallScene{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, Config{Dt: 0.01, Duration: 10.0})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil {
		t.Fatal("expected partial result on cancellation")
	}
	if len(result.Times) == 0 {
		t.Error("expected at least the initial frame in partial result")
	}
}

func TestRunWithCallbackStopsEarly(t *testing.T) {
	sim := New(&fallScene{})

	frames := 0
	err := sim.RunWithCallback(context.Background(), Config{Dt: 0.1, Duration: 1.0}, func(f Frame) bool {
		frames++
		if len(f.Bodies) != 1 {
			t.Fatalf("expected 1 body per frame, got %d", len(f.Bodies))
		}
		return frames < 3
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if frames != 3 {
		t.Errorf("expected callback to run 3 times, got %d", frames)
	}
}

func TestRunWithCallbackCompletes(t *testing.T) {
	sim := New(&fallScene{})

	frames := 0
	var last float64
	err := sim.RunWithCallback(context.Background(), Config{Dt: 0.1, Duration: 1.0}, func(f Frame) bool {
		frames++
		last = f.Time
		return true
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if frames != 10 {
		t.Errorf("expected 10 frames, got %d", frames)
	}
	if math.Abs(last-1.0) > 1e-9 {
		t.Errorf("expected final frame at t=1, got %v", last)
	}
}
