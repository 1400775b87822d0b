package particle

import (
	"math"
	"testing"

	"github.com/san-kum/impulse/internal/arena"
)

func TestResolverMostUrgentFirst(t *testing.T) {
	bodies := arena.New[Body]()
	fast := bodies.Insert(Body{Velocity: Vec3{0, -5, 0}, InverseMass: 1, Damping: 1})
	slow := bodies.Insert(Body{Velocity: Vec3{0, -1, 0}, InverseMass: 1, Damping: 1})

	contacts := []Contact{
		{Body: slow, Restitution: 1, Normal: Vec3{0, 1, 0}},
		{Body: fast, Restitution: 1, Normal: Vec3{0, 1, 0}},
	}

	r := NewResolver(1)
	r.ResolveContacts(contacts, 0.01, bodies)

	// Only the fastest-closing contact fits in one iteration.
	bf, _ := bodies.Get(fast)
	bs, _ := bodies.Get(slow)
	if math.Abs(bf.Velocity.Y()-5) > 1e-9 {
		t.Errorf("expected the urgent contact resolved, velocity y %v", bf.Velocity.Y())
	}
	if bs.Velocity != (Vec3{0, -1, 0}) {
		t.Errorf("less urgent contact was resolved first, velocity %v", bs.Velocity)
	}
	if r.IterationsUsed() != 1 {
		t.Errorf("expected 1 iteration used, got %d", r.IterationsUsed())
	}
}

func TestResolverTerminatesWhenNothingToDo(t *testing.T) {
	bodies := arena.New[Body]()
	a := bodies.Insert(Body{Velocity: Vec3{0, 2, 0}, InverseMass: 1, Damping: 1})

	contacts := []Contact{
		{Body: a, Restitution: 1, Normal: Vec3{0, 1, 0}},
	}

	r := NewResolver(100)
	r.ResolveContacts(contacts, 0.01, bodies)

	if r.IterationsUsed() != 0 {
		t.Errorf("expected 0 iterations for a separating batch, got %d", r.IterationsUsed())
	}
	b, _ := bodies.Get(a)
	if b.Velocity != (Vec3{0, 2, 0}) {
		t.Errorf("separating body was touched, velocity %v", b.Velocity)
	}
}

func TestResolverEmptyBatch(t *testing.T) {
	bodies := arena.New[Body]()
	r := NewResolver(8)
	r.ResolveContacts(nil, 0.01, bodies)
	if r.IterationsUsed() != 0 {
		t.Errorf("expected 0 iterations, got %d", r.IterationsUsed())
	}
}

func TestResolverPenetrationOnlyContact(t *testing.T) {
	bodies := arena.New[Body]()
	a := bodies.Insert(Body{Position: Vec3{0, -0.5, 0}, InverseMass: 1, Damping: 1})

	contacts := []Contact{
		{Body: a, Restitution: 0, Normal: Vec3{0, 1, 0}, Penetration: 0.5},
	}

	r := NewResolver(10)
	r.ResolveContacts(contacts, 0.01, bodies)

	// A motionless overlapping body still gets pushed out, once.
	b, _ := bodies.Get(a)
	if math.Abs(b.Position.Y()) > 1e-9 {
		t.Errorf("expected body pushed to y 0, got %v", b.Position.Y())
	}
	if r.IterationsUsed() != 1 {
		t.Errorf("expected exactly 1 iteration, got %d", r.IterationsUsed())
	}
	if math.Abs(contacts[0].Penetration) > 1e-9 {
		t.Errorf("resolved contact still records penetration %v", contacts[0].Penetration)
	}
}

func TestResolverSkipsStaleContacts(t *testing.T) {
	bodies := arena.New[Body]()
	gone := bodies.Insert(Body{Velocity: Vec3{0, -100, 0}, InverseMass: 1, Damping: 1})
	bodies.Remove(gone)
	live := bodies.Insert(Body{Velocity: Vec3{0, -2, 0}, InverseMass: 1, Damping: 1})

	contacts := []Contact{
		{Body: gone, Restitution: 1, Normal: Vec3{0, 1, 0}, Penetration: 5},
		{Body: live, Restitution: 1, Normal: Vec3{0, 1, 0}},
	}

	r := NewResolver(10)
	r.ResolveContacts(contacts, 0.01, bodies)

	b, _ := bodies.Get(live)
	if math.Abs(b.Velocity.Y()-2) > 1e-9 {
		t.Errorf("live contact not resolved, velocity y %v", b.Velocity.Y())
	}
	if r.IterationsUsed() != 1 {
		t.Errorf("expected 1 iteration, got %d", r.IterationsUsed())
	}
}

func TestResolverIterationCapOnPathologicalBatch(t *testing.T) {
	// A body squeezed between two opposing walls can never satisfy both
	// contacts; the cap has to cut the loop.
	bodies := arena.New[Body]()
	a := bodies.Insert(Body{InverseMass: 1, Damping: 1})

	contacts := []Contact{
		{Body: a, Restitution: 0, Normal: Vec3{1, 0, 0}, Penetration: 1},
		{Body: a, Restitution: 0, Normal: Vec3{-1, 0, 0}, Penetration: 1},
	}

	r := NewResolver(16)
	r.ResolveContacts(contacts, 0.01, bodies)

	if r.IterationsUsed() > 16 {
		t.Errorf("iterations used %d exceeds cap", r.IterationsUsed())
	}
	if r.IterationsUsed() == 0 {
		t.Error("expected the resolver to attempt the overconstrained batch")
	}
}

func TestResolverChainConverges(t *testing.T) {
	// A body overlapping the floor with a second body stacked on it: the
	// shared-participant bookkeeping has to reopen and re-resolve contacts
	// until both overlaps are gone.
	bodies := arena.New[Body]()
	lower := bodies.Insert(Body{InverseMass: 1, Damping: 1})
	upper := bodies.Insert(Body{Position: Vec3{0, 0.5, 0}, InverseMass: 1, Damping: 1})

	contacts := []Contact{
		{Body: lower, Restitution: 0, Normal: Vec3{0, 1, 0}, Penetration: 1},
		{Body: upper, OtherBody: lower, Restitution: 0, Normal: Vec3{0, 1, 0}, Penetration: 0.5},
	}

	r := NewResolver(64)
	r.ResolveContacts(contacts, 0.01, bodies)

	// Shared-participant chains trade residual overlap back and forth in
	// ever smaller amounts, so the budget may be spent; what matters is
	// that the stack lands at its rest configuration.
	if r.IterationsUsed() > 64 {
		t.Fatalf("iterations used %d exceeds cap", r.IterationsUsed())
	}
	for i, c := range contacts {
		if c.Penetration > 1e-6 {
			t.Errorf("contact %d still penetrating by %v", i, c.Penetration)
		}
	}

	bl, _ := bodies.Get(lower)
	bu, _ := bodies.Get(upper)
	if bl.Position.Y() < -1e-6 {
		t.Errorf("lower body still under the floor at y %v", bl.Position.Y())
	}
	if gap := bu.Position.Y() - bl.Position.Y(); gap < 1-1e-6 {
		t.Errorf("stack gap %v still short of separation", gap)
	}
}
