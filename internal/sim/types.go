package sim

import "github.com/san-kum/impulse/internal/particle"

// BodyState is one body's kinematic snapshot within a frame.
type BodyState struct {
	Handle   particle.Handle
	Position particle.Vec3
	Velocity particle.Vec3
}

// Frame records the world after one resolved step.
type Frame struct {
	Time   float64
	Bodies []BodyState
}

// Copy returns a frame backed by its own storage, safe to keep after a
// pooled original is released.
func (f Frame) Copy() Frame {
	return Frame{
		Time:   f.Time,
		Bodies: append([]BodyState(nil), f.Bodies...),
	}
}

// Metric accumulates a scalar over a run. The simulator calls Observe
// after every resolved step and reads Value once the run ends.
type Metric interface {
	Name() string
	Observe(w *particle.World, t float64)
	Value() float64
	Reset()
}

// Observer receives the world after every resolved step.
type Observer interface {
	OnStep(w *particle.World, t float64)
}

// Config drives one run.
type Config struct {
	// Scene names the scene to build. The simulator itself is handed a
	// scene instance; ensembles and stored runs use the name.
	Scene string

	Dt       float64
	Duration float64

	// Iterations caps the resolver per step. Zero means twice the
	// step's contact count.
	Iterations int

	// MaxContacts truncates a step's contact batch when positive.
	MaxContacts int

	// Seed is handed to scenes that expose a seed parameter; scenes
	// without randomness ignore it.
	Seed int64

	// Params overrides scene parameters before setup.
	Params map[string]float64
}

// DefaultConfig returns the standard run settings.
func DefaultConfig() Config {
	return Config{
		Dt:       0.01,
		Duration: 10.0,
	}
}

// Result collects everything a run produced.
type Result struct {
	Times  []float64
	Frames []Frame

	// Iterations holds the resolver iterations spent on each step.
	Iterations []int

	Metrics    map[string]float64
	StepsTaken int
}

// FinalFrame returns the last recorded frame, or a zero Frame when the
// run recorded nothing.
func (r *Result) FinalFrame() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}
