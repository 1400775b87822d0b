package scene

import (
	"fmt"

	"github.com/san-kum/impulse/internal/particle"
)

// Sandbox is a single ball dropped onto a floor, the smallest useful scene.
type Sandbox struct {
	Mass        float64
	Damping     float64
	Gravity     float64
	FloorHeight float64

	ball  particle.Handle
	floor *Floor
}

func NewSandbox() *Sandbox {
	return &Sandbox{
		Mass:        2.0,
		Damping:     0.99,
		Gravity:     9.8,
		FloorHeight: -2.0,
	}
}

func (s *Sandbox) Name() string        { return "sandbox" }
func (s *Sandbox) Description() string { return "single ball under gravity" }

func (s *Sandbox) Setup(w *particle.World) error {
	if s.Mass <= 0 {
		return fmt.Errorf("mass must be positive, got %v", s.Mass)
	}
	s.ball = w.InsertBody(particle.Body{
		InverseMass: 1 / s.Mass,
		Damping:     s.Damping,
	})
	g := w.InsertForceGenerator(particle.NewGravity(particle.Vec3{0, -s.Gravity, 0}))
	w.Register(g, s.ball)

	s.floor = &Floor{Height: s.FloorHeight, Radius: 0.2, Restitution: 0.6}
	return nil
}

func (s *Sandbox) Update(*particle.World, float64, float64) {}

func (s *Sandbox) Contacts(w *particle.World, dst []particle.Contact) []particle.Contact {
	return s.floor.AddContacts(w.Bodies(), dst)
}

// Ball returns the handle of the falling body.
func (s *Sandbox) Ball() particle.Handle { return s.ball }

func (s *Sandbox) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":         s.Mass,
		"damping":      s.Damping,
		"gravity":      s.Gravity,
		"floor_height": s.FloorHeight,
	}
}

func (s *Sandbox) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		s.Mass = value
	case "damping":
		s.Damping = value
	case "gravity":
		s.Gravity = value
	case "floor_height":
		s.FloorHeight = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
