package metrics

import (
	"github.com/san-kum/impulse/internal/particle"
)

// Apex tracks the highest point any body reaches during the run.
type Apex struct {
	name   string
	max    float64
	seeded bool
}

func NewApex() *Apex {
	return &Apex{
		name: "apex",
	}
}

func (a *Apex) Name() string { return a.name }

func (a *Apex) Observe(w *particle.World, t float64) {
	w.Bodies().Each(func(_ particle.Handle, b *particle.Body) bool {
		if !a.seeded || b.Position.Y() > a.max {
			a.max = b.Position.Y()
			a.seeded = true
		}
		return true
	})
}

func (a *Apex) Value() float64 {
	return a.max
}

func (a *Apex) Reset() {
	a.max = 0
	a.seeded = false
}
