package particle

import (
	"fmt"

	"github.com/san-kum/impulse/internal/arena"
)

// Handle addresses a body or force generator in a World. The zero Handle
// never resolves; in a Contact it stands for immovable scenery.
type Handle = arena.Handle

// BodySet is the arena holding a world's bodies.
type BodySet = arena.Arena[Body]

// GeneratorSet is the arena holding a world's force generators.
type GeneratorSet = arena.Arena[ForceGenerator]

// World owns the bodies, force generators and registrations of one
// simulation and sequences them through each tick. The zero value is not
// usable; construct with NewWorld.
type World struct {
	bodies        *BodySet
	generators    *GeneratorSet
	registrations *arena.Arena[Registration]
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{
		bodies:        arena.New[Body](),
		generators:    arena.New[ForceGenerator](),
		registrations: arena.New[Registration](),
	}
}

// InsertBody adds a body and returns its handle.
func (w *World) InsertBody(b Body) Handle { return w.bodies.Insert(b) }

// Body resolves a handle to the live body it addresses.
func (w *World) Body(h Handle) (*Body, bool) { return w.bodies.Get(h) }

// RemoveBody removes a body, reporting whether the handle was live.
// Registrations and contacts still naming the handle become silent no-ops.
func (w *World) RemoveBody(h Handle) bool {
	_, ok := w.bodies.Remove(h)
	return ok
}

// Bodies exposes the body arena for iteration and contact resolution.
func (w *World) Bodies() *BodySet { return w.bodies }

// BodyCount returns the number of live bodies.
func (w *World) BodyCount() int { return w.bodies.Len() }

// InsertForceGenerator adds a generator and returns its handle. The
// generator contributes nothing until registered against bodies.
func (w *World) InsertForceGenerator(g ForceGenerator) Handle {
	return w.generators.Insert(g)
}

// RemoveForceGenerator removes a generator, reporting whether the handle
// was live. Registrations still naming it become silent no-ops.
func (w *World) RemoveForceGenerator(h Handle) bool {
	_, ok := w.generators.Remove(h)
	return ok
}

// Generators exposes the generator arena.
func (w *World) Generators() *GeneratorSet { return w.generators }

// Register binds a generator to the given bodies for subsequent ticks and
// returns the registration's handle. The body list is copied.
func (w *World) Register(generator Handle, bodies ...Handle) Handle {
	reg := Registration{
		Generator: generator,
		Bodies:    append([]Handle(nil), bodies...),
	}
	return w.registrations.Insert(reg)
}

// Unregister drops a registration, reporting whether the handle was live.
func (w *World) Unregister(h Handle) bool {
	_, ok := w.registrations.Remove(h)
	return ok
}

// StartFrame clears every body's force accumulator. Hosts that push forces
// into bodies directly between ticks call this at the top of the frame;
// registration-driven forces do not need it because Integrate clears as it
// goes.
func (w *World) StartFrame() {
	w.bodies.Each(func(_ Handle, b *Body) bool {
		b.ClearAccumulator()
		return true
	})
}

// Tick advances the simulation by duration seconds: every live
// registration applies its generator to each of its surviving bodies, then
// every body integrates exactly once. Stale generator or body handles
// inside a registration are skipped. A non-positive duration fails with
// ErrInvalidDuration before any state changes.
func (w *World) Tick(duration float64) error {
	if duration <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidDuration, duration)
	}

	w.registrations.Each(func(_ Handle, reg *Registration) bool {
		gen, ok := w.generators.Get(reg.Generator)
		if !ok {
			return true
		}
		for _, bh := range reg.Bodies {
			if !w.bodies.Contains(bh) {
				continue
			}
			(*gen).Apply(duration, bh, w.bodies)
		}
		return true
	})

	w.bodies.Each(func(_ Handle, b *Body) bool {
		_ = b.Integrate(duration)
		return true
	})
	return nil
}
