package metrics

import (
	"github.com/san-kum/impulse/internal/particle"
)

// Momentum averages the magnitude of the world's total linear momentum.
// Immovable bodies carry no momentum and are skipped.
type Momentum struct {
	name    string
	sum     float64
	samples int
}

func NewMomentum() *Momentum {
	return &Momentum{
		name: "momentum",
	}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(w *particle.World, t float64) {
	var total particle.Vec3
	w.Bodies().Each(func(_ particle.Handle, b *particle.Body) bool {
		if !b.HasFiniteMass() {
			return true
		}
		total = total.Add(b.Velocity.Mul(b.Mass()))
		return true
	})
	m.sum += total.Len()
	m.samples++
}

func (m *Momentum) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Momentum) Reset() {
	m.sum = 0
	m.samples = 0
}
