package metrics

import (
	"math"

	"github.com/san-kum/impulse/internal/particle"
)

// Bounds reports the fraction of steps on which every body stayed
// inside a cube of the given half-extent around the origin.
type Bounds struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewBounds(threshold float64) *Bounds {
	return &Bounds{
		name:      "bounds",
		threshold: threshold,
	}
}

func (b *Bounds) Name() string {
	return b.name
}

func (b *Bounds) Observe(w *particle.World, t float64) {
	b.samples++
	escaped := false
	w.Bodies().Each(func(_ particle.Handle, body *particle.Body) bool {
		p := body.Position
		if math.Abs(p.X()) > b.threshold || math.Abs(p.Y()) > b.threshold || math.Abs(p.Z()) > b.threshold {
			escaped = true
			return false
		}
		return true
	})
	if escaped {
		b.violations++
	}
}

func (b *Bounds) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Bounds) Reset() {
	b.violations = 0
	b.samples = 0
}
