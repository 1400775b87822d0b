package particle

import (
	"errors"
	"math"
	"testing"
)

func TestWorldBodyLifecycle(t *testing.T) {
	w := NewWorld()

	a := w.InsertBody(Body{Position: Vec3{1, 0, 0}, InverseMass: 1, Damping: 1})
	b := w.InsertBody(Body{Position: Vec3{2, 0, 0}, InverseMass: 1, Damping: 1})

	if w.BodyCount() != 2 {
		t.Fatalf("expected 2 bodies, got %d", w.BodyCount())
	}

	if !w.RemoveBody(a) {
		t.Error("expected removal of a live handle to succeed")
	}
	if w.RemoveBody(a) {
		t.Error("expected second removal to fail")
	}
	if _, ok := w.Body(a); ok {
		t.Error("removed body still resolves")
	}

	// Other handles keep working across removals.
	bb, ok := w.Body(b)
	if !ok || bb.Position != (Vec3{2, 0, 0}) {
		t.Errorf("surviving handle broken: ok=%v body=%+v", ok, bb)
	}
}

func TestWorldTickAppliesForcesThenIntegrates(t *testing.T) {
	w := NewWorld()
	h := w.InsertBody(Body{InverseMass: 1, Damping: 1})
	g := w.InsertForceGenerator(NewGravity(Vec3{0, -10, 0}))
	w.Register(g, h)

	if err := w.Tick(1.0); err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	b, _ := w.Body(h)
	if math.Abs(b.Velocity.Y()+10) > 1e-9 {
		t.Errorf("expected velocity y -10 after one tick, got %v", b.Velocity.Y())
	}
	if b.Position != (Vec3{}) {
		t.Errorf("position moved before velocity was integrated, got %v", b.Position)
	}

	if err := w.Tick(1.0); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if math.Abs(b.Position.Y()+10) > 1e-9 {
		t.Errorf("expected position y -10 after two ticks, got %v", b.Position.Y())
	}
}

func TestWorldTickInvalidDuration(t *testing.T) {
	w := NewWorld()
	h := w.InsertBody(Body{Velocity: Vec3{1, 0, 0}, InverseMass: 1, Damping: 1})

	for _, dt := range []float64{0, -1} {
		err := w.Tick(dt)
		if !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("dt=%v: expected ErrInvalidDuration, got %v", dt, err)
		}
	}

	b, _ := w.Body(h)
	if b.Position != (Vec3{}) {
		t.Errorf("invalid tick moved the body to %v", b.Position)
	}
}

func TestWorldTickSkipsStaleHandles(t *testing.T) {
	w := NewWorld()

	gone := w.InsertBody(Body{InverseMass: 1, Damping: 1})
	alive := w.InsertBody(Body{InverseMass: 1, Damping: 1})
	g := w.InsertForceGenerator(NewGravity(Vec3{0, -1, 0}))
	w.Register(g, gone, alive)
	w.RemoveBody(gone)

	staleGen := w.InsertForceGenerator(NewGravity(Vec3{100, 0, 0}))
	w.Register(staleGen, alive)
	w.RemoveForceGenerator(staleGen)

	if err := w.Tick(1.0); err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	b, _ := w.Body(alive)
	if math.Abs(b.Velocity.Y()+1) > 1e-9 {
		t.Errorf("surviving body missed its force, velocity %v", b.Velocity)
	}
	if b.Velocity.X() != 0 {
		t.Errorf("removed generator still applied force, velocity x %v", b.Velocity.X())
	}
}

func TestWorldForcesCompose(t *testing.T) {
	w := NewWorld()
	h := w.InsertBody(Body{InverseMass: 1, Damping: 1})

	g := w.InsertForceGenerator(NewGravity(Vec3{0, -10, 0}))
	lift := w.InsertForceGenerator(NewGravity(Vec3{0, 4, 0}))
	w.Register(g, h)
	w.Register(lift, h)

	if err := w.Tick(0.5); err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	// Both generators accumulate before the single integration.
	b, _ := w.Body(h)
	if math.Abs(b.Velocity.Y()+3) > 1e-9 {
		t.Errorf("expected combined velocity y -3, got %v", b.Velocity.Y())
	}
}

func TestWorldUnregisterStopsForces(t *testing.T) {
	w := NewWorld()
	h := w.InsertBody(Body{InverseMass: 1, Damping: 1})
	g := w.InsertForceGenerator(NewGravity(Vec3{0, -10, 0}))
	reg := w.Register(g, h)

	if err := w.Tick(1.0); err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if !w.Unregister(reg) {
		t.Fatal("expected unregister to succeed")
	}
	if err := w.Tick(1.0); err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	b, _ := w.Body(h)
	if math.Abs(b.Velocity.Y()+10) > 1e-9 {
		t.Errorf("velocity kept changing after unregister: %v", b.Velocity.Y())
	}
}

func TestWorldStartFrame(t *testing.T) {
	w := NewWorld()
	h := w.InsertBody(Body{InverseMass: 1, Damping: 1})

	b, _ := w.Body(h)
	b.AddForce(Vec3{7, 7, 7})
	w.StartFrame()

	if b.ForceAccum() != (Vec3{}) {
		t.Errorf("expected cleared accumulator, got %v", b.ForceAccum())
	}
}

func TestWorldDeterministicTicks(t *testing.T) {
	build := func() (*World, Handle) {
		w := NewWorld()
		h := w.InsertBody(Body{Position: Vec3{0, 10, 0}, Velocity: Vec3{1, 0, 0}, InverseMass: 0.5, Damping: 0.99})
		g := w.InsertForceGenerator(NewEarthGravity())
		d := w.InsertForceGenerator(NewDrag(0.1, 0.01))
		w.Register(g, h)
		w.Register(d, h)
		return w, h
	}

	w1, h1 := build()
	w2, h2 := build()

	for i := 0; i < 100; i++ {
		if err := w1.Tick(0.01); err != nil {
			t.Fatalf("tick failed: %v", err)
		}
		if err := w2.Tick(0.01); err != nil {
			t.Fatalf("tick failed: %v", err)
		}
	}

	b1, _ := w1.Body(h1)
	b2, _ := w2.Body(h2)
	if b1.Position != b2.Position || b1.Velocity != b2.Velocity {
		t.Errorf("identical worlds diverged: %v vs %v", b1.Position, b2.Position)
	}
}
