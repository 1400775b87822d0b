package particle

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDuration indicates a non-positive time step.
var ErrInvalidDuration = errors.New("particle: duration must be positive")

// Body is a point mass: it has position, velocity and mass but no shape or
// orientation. The zero value is an immovable body at the origin; set
// InverseMass and Damping before integrating anything that should move.
type Body struct {
	Position Vec3
	Velocity Vec3

	// Acceleration is applied every step on top of accumulated forces.
	// Constant gravity can live here instead of in a generator.
	Acceleration Vec3

	// Damping scales velocity once per step to bleed off energy the
	// integrator adds through truncation error. 1 keeps all velocity,
	// 0.999 is a barely-visible drag, and values near 0.99 read as
	// motion through a thick medium.
	Damping float64

	// InverseMass is stored instead of mass so that immovable bodies
	// (inverse mass 0) are representable and zero-mass bodies are not.
	InverseMass float64

	// forceAccum collects forces between steps and is consumed by
	// Integrate.
	forceAccum Vec3
}

// HasFiniteMass reports whether the body responds to forces at all.
func (b *Body) HasFiniteMass() bool { return b.InverseMass > 0 }

// Mass returns the body's mass, +Inf for an immovable body.
func (b *Body) Mass() float64 {
	if b.InverseMass <= 0 {
		return math.Inf(1)
	}
	return 1 / b.InverseMass
}

// SetMass sets the body's mass. Immovable bodies are expressed by
// writing InverseMass = 0 directly; non-positive masses are rejected.
func (b *Body) SetMass(mass float64) error {
	if mass <= 0 {
		return fmt.Errorf("particle: mass must be positive, got %v", mass)
	}
	b.InverseMass = 1 / mass
	return nil
}

// AddForce accumulates a force to apply at the next integration step.
func (b *Body) AddForce(force Vec3) {
	b.forceAccum = b.forceAccum.Add(force)
}

// ForceAccum returns the force accumulated since the last integration step.
func (b *Body) ForceAccum() Vec3 { return b.forceAccum }

// ClearAccumulator discards any force accumulated since the last step.
func (b *Body) ClearAccumulator() { b.forceAccum = Vec3{} }

// Integrate advances the body by duration seconds of simulated time and
// clears the force accumulator. Position moves under the current velocity,
// then velocity picks up the effective acceleration (the constant term plus
// accumulated force times inverse mass) and is scaled by damping.
//
// An immovable body never moves, but its accumulator is still cleared so
// forces cannot pile up across steps. A non-positive duration leaves the
// body untouched and returns ErrInvalidDuration.
func (b *Body) Integrate(duration float64) error {
	if duration <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidDuration, duration)
	}
	if b.InverseMass <= 0 {
		b.forceAccum = Vec3{}
		return nil
	}

	b.Position = b.Position.Add(b.Velocity.Mul(duration))

	acceleration := b.Acceleration.Add(b.forceAccum.Mul(b.InverseMass))
	b.Velocity = b.Velocity.Add(acceleration.Mul(duration))
	b.Velocity = b.Velocity.Mul(b.Damping)

	b.forceAccum = Vec3{}
	return nil
}

// KineticEnergy returns mv²/2, or 0 for an immovable body.
func (b *Body) KineticEnergy() float64 {
	if b.InverseMass <= 0 {
		return 0
	}
	speed2 := b.Velocity.Dot(b.Velocity)
	return 0.5 * speed2 / b.InverseMass
}
