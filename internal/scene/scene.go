package scene

import "github.com/san-kum/impulse/internal/particle"

// Scene builds and drives one simulation setup end to end.
type Scene interface {
	Name() string
	Description() string

	// Setup populates a fresh world and records the handles the scene
	// needs later. Called exactly once before stepping begins.
	Setup(w *particle.World) error

	// Update runs per-frame scene logic ahead of the world tick: spawning
	// and culling bodies, moving targets, advancing fuses. t is the
	// simulated time at the start of the frame.
	Update(w *particle.World, t, dt float64)

	// Contacts appends the frame's contacts to dst and returns it. Called
	// after the world has ticked, ahead of contact resolution.
	Contacts(w *particle.World, dst []particle.Contact) []particle.Contact
}

// Configurable is implemented by scenes with tunable numeric parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
