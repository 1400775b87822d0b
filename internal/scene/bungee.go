package scene

import (
	"fmt"

	"github.com/san-kum/impulse/internal/particle"
)

// Bungee hangs a ball from a fixed anchor on an elastic cord above a
// bouncy floor.
type Bungee struct {
	SpringConstant float64
	RestLength     float64
	Mass           float64
	FloorHeight    float64

	anchor particle.Handle
	ball   particle.Handle
	floor  *Floor
}

func NewBungee() *Bungee {
	return &Bungee{
		SpringConstant: 4.0,
		RestLength:     2.0,
		Mass:           2.0,
		FloorHeight:    -2.0,
	}
}

func (s *Bungee) Name() string        { return "bungee" }
func (s *Bungee) Description() string { return "ball on an elastic cord over a floor" }

func (s *Bungee) Setup(w *particle.World) error {
	if s.Mass <= 0 {
		return fmt.Errorf("mass must be positive, got %v", s.Mass)
	}

	s.anchor = w.InsertBody(particle.Body{
		Position: particle.Vec3{0, 10, 0},
	})
	s.ball = w.InsertBody(particle.Body{
		Position:    particle.Vec3{-2, 8, 3},
		Damping:     0.99,
		InverseMass: 1 / s.Mass,
	})

	cord := w.InsertForceGenerator(particle.NewBungee(s.anchor, s.SpringConstant, s.RestLength))
	g := w.InsertForceGenerator(particle.NewEarthGravity())
	w.Register(cord, s.ball)
	w.Register(g, s.ball)

	s.floor = &Floor{Height: s.FloorHeight, Radius: 0.2, Restitution: 0.3}
	return nil
}

func (s *Bungee) Update(*particle.World, float64, float64) {}

func (s *Bungee) Contacts(w *particle.World, dst []particle.Contact) []particle.Contact {
	return s.floor.AddContacts(w.Bodies(), dst)
}

// Ball returns the handle of the bouncing body.
func (s *Bungee) Ball() particle.Handle { return s.ball }

// Anchor returns the handle of the immovable anchor body.
func (s *Bungee) Anchor() particle.Handle { return s.anchor }

func (s *Bungee) GetParams() map[string]float64 {
	return map[string]float64{
		"spring_constant": s.SpringConstant,
		"rest_length":     s.RestLength,
		"mass":            s.Mass,
		"floor_height":    s.FloorHeight,
	}
}

func (s *Bungee) SetParam(name string, value float64) error {
	switch name {
	case "spring_constant":
		s.SpringConstant = value
	case "rest_length":
		s.RestLength = value
	case "mass":
		s.Mass = value
	case "floor_height":
		s.FloorHeight = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
