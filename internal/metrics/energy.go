package metrics

import (
	"github.com/san-kum/impulse/internal/particle"
)

// KineticEnergy averages the world's total kinetic energy over the run.
type KineticEnergy struct {
	name    string
	total   float64
	peak    float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{
		name: "kinetic_energy",
	}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(w *particle.World, t float64) {
	sum := 0.0
	w.Bodies().Each(func(_ particle.Handle, b *particle.Body) bool {
		sum += b.KineticEnergy()
		return true
	})
	e.total += sum
	if sum > e.peak {
		e.peak = sum
	}
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Peak returns the largest total kinetic energy seen in one step.
func (e *KineticEnergy) Peak() float64 { return e.peak }

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.peak = 0
	e.samples = 0
}
