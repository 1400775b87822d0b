package particle

import (
	"math"
	"testing"

	"github.com/san-kum/impulse/internal/arena"
)

func TestResolveVelocityElasticSwap(t *testing.T) {
	bodies := arena.New[Body]()
	a := bodies.Insert(Body{Velocity: Vec3{1, 0, 0}, InverseMass: 1, Damping: 1})
	b := bodies.Insert(Body{Position: Vec3{2, 0, 0}, Velocity: Vec3{-1, 0, 0}, InverseMass: 1, Damping: 1})

	c := Contact{
		Body:        a,
		OtherBody:   b,
		Restitution: 1,
		Normal:      Vec3{-1, 0, 0},
	}
	c.resolveVelocity(0.01, bodies)

	// Equal masses, fully elastic, head on: velocities swap exactly.
	ba, _ := bodies.Get(a)
	bb, _ := bodies.Get(b)
	if math.Abs(ba.Velocity.X()+1) > 1e-9 {
		t.Errorf("expected first body velocity x -1, got %v", ba.Velocity.X())
	}
	if math.Abs(bb.Velocity.X()-1) > 1e-9 {
		t.Errorf("expected second body velocity x 1, got %v", bb.Velocity.X())
	}
}

func TestResolveVelocitySeparatingNoop(t *testing.T) {
	bodies := arena.New[Body]()
	a := bodies.Insert(Body{Velocity: Vec3{0, 3, 0}, InverseMass: 1, Damping: 1})

	c := Contact{
		Body:        a,
		Restitution: 1,
		Normal:      Vec3{0, 1, 0},
	}

	sep, ok := c.SeparatingVelocity(bodies)
	if !ok || sep <= 0 {
		t.Fatalf("expected positive separating velocity, got %v ok=%v", sep, ok)
	}

	c.resolveVelocity(0.01, bodies)

	b, _ := bodies.Get(a)
	if b.Velocity != (Vec3{0, 3, 0}) {
		t.Errorf("separating pair changed velocity to %v", b.Velocity)
	}
}

func TestResolveVelocityInelastic(t *testing.T) {
	bodies := arena.New[Body]()
	a := bodies.Insert(Body{Velocity: Vec3{0, -4, 0}, InverseMass: 1, Damping: 1})

	c := Contact{
		Body:        a,
		Restitution: 0,
		Normal:      Vec3{0, 1, 0},
	}
	c.resolveVelocity(0.01, bodies)

	// Restitution 0 kills the closing velocity without a rebound.
	b, _ := bodies.Get(a)
	if math.Abs(b.Velocity.Y()) > 1e-9 {
		t.Errorf("expected velocity y 0, got %v", b.Velocity.Y())
	}
}

func TestResolveVelocitySceneryBounce(t *testing.T) {
	bodies := arena.New[Body]()
	a := bodies.Insert(Body{Velocity: Vec3{0, -5, 0}, InverseMass: 1, Damping: 1})

	c := Contact{
		Body:        a,
		Restitution: 0.5,
		Normal:      Vec3{0, 1, 0},
	}
	c.resolveVelocity(0.01, bodies)

	b, _ := bodies.Get(a)
	if math.Abs(b.Velocity.Y()-2.5) > 1e-9 {
		t.Errorf("expected rebound velocity y 2.5, got %v", b.Velocity.Y())
	}
}

func TestResolveVelocityRestingContact(t *testing.T) {
	// A body that picked up exactly one frame of gravity must come to
	// rest on the floor instead of bouncing forever.
	const dt = 0.02
	bodies := arena.New[Body]()
	a := bodies.Insert(Body{
		Velocity:     Vec3{0, -9.8 * dt, 0},
		Acceleration: Vec3{0, -9.8, 0},
		InverseMass:  1,
		Damping:      1,
	})

	c := Contact{
		Body:        a,
		Restitution: 1,
		Normal:      Vec3{0, 1, 0},
	}
	c.resolveVelocity(dt, bodies)

	b, _ := bodies.Get(a)
	if math.Abs(b.Velocity.Y()) > 1e-9 {
		t.Errorf("resting contact kept velocity y %v", b.Velocity.Y())
	}
}

func TestResolveVelocityBothImmovable(t *testing.T) {
	bodies := arena.New[Body]()
	a := bodies.Insert(Body{Velocity: Vec3{0, -1, 0}})
	b := bodies.Insert(Body{Velocity: Vec3{0, 1, 0}})

	c := Contact{
		Body:        a,
		OtherBody:   b,
		Restitution: 1,
		Normal:      Vec3{0, 1, 0},
	}
	c.resolveVelocity(0.01, bodies)

	ba, _ := bodies.Get(a)
	bb, _ := bodies.Get(b)
	if ba.Velocity != (Vec3{0, -1, 0}) || bb.Velocity != (Vec3{0, 1, 0}) {
		t.Error("immovable pair had velocity changed")
	}
}

func TestResolveInterpenetrationSplitsByInverseMass(t *testing.T) {
	bodies := arena.New[Body]()
	a := bodies.Insert(Body{InverseMass: 1, Damping: 1})
	b := bodies.Insert(Body{InverseMass: 3, Damping: 1})

	c := Contact{
		Body:        a,
		OtherBody:   b,
		Normal:      Vec3{0, 1, 0},
		Penetration: 4,
	}
	moveA, moveB := c.resolveInterpenetration(bodies)

	ba, _ := bodies.Get(a)
	bb, _ := bodies.Get(b)
	if math.Abs(ba.Position.Y()-1) > 1e-9 {
		t.Errorf("expected light mover at y 1, got %v", ba.Position.Y())
	}
	if math.Abs(bb.Position.Y()+3) > 1e-9 {
		t.Errorf("expected heavy side at y -3, got %v", bb.Position.Y())
	}
	if math.Abs(moveA.Y()-1) > 1e-9 || math.Abs(moveB.Y()+3) > 1e-9 {
		t.Errorf("reported moves %v and %v do not match displacements", moveA, moveB)
	}
}

func TestResolveInterpenetrationImmovableOther(t *testing.T) {
	bodies := arena.New[Body]()
	a := bodies.Insert(Body{InverseMass: 0.5, Damping: 1})
	wall := bodies.Insert(Body{InverseMass: 0})

	c := Contact{
		Body:        a,
		OtherBody:   wall,
		Normal:      Vec3{1, 0, 0},
		Penetration: 2,
	}
	c.resolveInterpenetration(bodies)

	// The finite body takes the whole correction.
	ba, _ := bodies.Get(a)
	bw, _ := bodies.Get(wall)
	if math.Abs(ba.Position.X()-2) > 1e-9 {
		t.Errorf("expected body at x 2, got %v", ba.Position.X())
	}
	if bw.Position != (Vec3{}) {
		t.Errorf("immovable body moved to %v", bw.Position)
	}
}

func TestResolveInterpenetrationScenery(t *testing.T) {
	bodies := arena.New[Body]()
	a := bodies.Insert(Body{Position: Vec3{0, -0.25, 0}, InverseMass: 2, Damping: 1})

	c := Contact{
		Body:        a,
		Normal:      Vec3{0, 1, 0},
		Penetration: 0.25,
	}
	c.resolveInterpenetration(bodies)

	ba, _ := bodies.Get(a)
	if math.Abs(ba.Position.Y()) > 1e-9 {
		t.Errorf("expected body lifted to y 0, got %v", ba.Position.Y())
	}
}

func TestResolveInterpenetrationNoOverlap(t *testing.T) {
	bodies := arena.New[Body]()
	a := bodies.Insert(Body{Position: Vec3{5, 5, 5}, InverseMass: 1, Damping: 1})

	c := Contact{
		Body:        a,
		Normal:      Vec3{0, 1, 0},
		Penetration: -0.1,
	}
	moveA, moveB := c.resolveInterpenetration(bodies)

	ba, _ := bodies.Get(a)
	if ba.Position != (Vec3{5, 5, 5}) {
		t.Errorf("separated contact moved body to %v", ba.Position)
	}
	if moveA != (Vec3{}) || moveB != (Vec3{}) {
		t.Error("separated contact reported nonzero moves")
	}
}

func TestSeparatingVelocityStaleHandle(t *testing.T) {
	bodies := arena.New[Body]()
	a := bodies.Insert(Body{Velocity: Vec3{0, -1, 0}, InverseMass: 1})
	bodies.Remove(a)

	c := Contact{Body: a, Normal: Vec3{0, 1, 0}}
	if _, ok := c.SeparatingVelocity(bodies); ok {
		t.Error("stale contact reported a separating velocity")
	}

	// Resolution against the stale handle must be a quiet no-op.
	c.resolveVelocity(0.01, bodies)
	c.resolveInterpenetration(bodies)
}
