package scene

import (
	"fmt"

	"github.com/san-kum/impulse/internal/particle"
)

// Bridge suspends a plank walkway between two towers and hangs a heavy
// load from its middle, exercising cables, rods and anchors together.
type Bridge struct {
	Pairs    float64
	BaseMass float64
	LoadMass float64

	planks  []particle.Handle
	load    particle.Handle
	sources []ContactSource
}

func NewBridge() *Bridge {
	return &Bridge{
		Pairs:    6,
		BaseMass: 1.0,
		LoadMass: 10.0,
	}
}

func (s *Bridge) Name() string        { return "bridge" }
func (s *Bridge) Description() string { return "suspended walkway with a hanging load" }

func (s *Bridge) Setup(w *particle.World) error {
	pairs := int(s.Pairs)
	if pairs < 2 {
		return fmt.Errorf("need at least 2 plank pairs, got %v", s.Pairs)
	}
	if s.BaseMass <= 0 || s.LoadMass <= 0 {
		return fmt.Errorf("masses must be positive, got base %v load %v", s.BaseMass, s.LoadMass)
	}

	s.planks = s.planks[:0]
	s.sources = s.sources[:0]

	// Plank pairs along X at z = -1 and z = +1.
	for i := 0; i < pairs; i++ {
		x := float64(2*i) - float64(pairs-1)
		for _, z := range []float64{-1, 1} {
			h := w.InsertBody(particle.Body{
				Position:    particle.Vec3{x, 4, z},
				Damping:     0.9,
				InverseMass: 1 / s.BaseMass,
			})
			s.planks = append(s.planks, h)
		}
	}
	left := func(i int) particle.Handle { return s.planks[2*i] }
	right := func(i int) particle.Handle { return s.planks[2*i+1] }

	for i := 0; i < pairs; i++ {
		// Deck cross-member.
		s.sources = append(s.sources, &Rod{A: left(i), B: right(i), Length: 2})
		if i == 0 {
			continue
		}
		// Walkway cables with a little slack over the 2-unit spacing.
		s.sources = append(s.sources,
			&Cable{A: left(i - 1), B: left(i), MaxLength: 2.05, Restitution: 0.3},
			&Cable{A: right(i - 1), B: right(i), MaxLength: 2.05, Restitution: 0.3},
		)
	}

	// Tower anchors hold the four corners.
	endX := float64(pairs - 1)
	for _, corner := range []struct {
		h      particle.Handle
		anchor particle.Vec3
	}{
		{left(0), particle.Vec3{-endX - 1, 7, -2}},
		{right(0), particle.Vec3{-endX - 1, 7, 2}},
		{left(pairs - 1), particle.Vec3{endX + 1, 7, -2}},
		{right(pairs - 1), particle.Vec3{endX + 1, 7, 2}},
	} {
		s.sources = append(s.sources, &CableAnchor{
			Body:        corner.h,
			Anchor:      corner.anchor,
			MaxLength:   3.4,
			Restitution: 0.2,
		})
	}

	// The load hangs under the middle pair.
	mid := pairs / 2
	s.load = w.InsertBody(particle.Body{
		Position:    particle.Vec3{float64(2*mid) - float64(pairs-1), 3, 0},
		Damping:     0.9,
		InverseMass: 1 / s.LoadMass,
	})
	s.sources = append(s.sources,
		&Cable{A: left(mid), B: s.load, MaxLength: 1.5, Restitution: 0.1},
		&Cable{A: right(mid), B: s.load, MaxLength: 1.5, Restitution: 0.1},
	)

	s.sources = append(s.sources, &Floor{Height: 0, Radius: 0.1, Restitution: 0.2})

	g := w.InsertForceGenerator(particle.NewEarthGravity())
	w.Register(g, append(append([]particle.Handle(nil), s.planks...), s.load)...)
	return nil
}

func (s *Bridge) Update(*particle.World, float64, float64) {}

func (s *Bridge) Contacts(w *particle.World, dst []particle.Contact) []particle.Contact {
	for _, src := range s.sources {
		dst = src.AddContacts(w.Bodies(), dst)
	}
	return dst
}

// Load returns the handle of the hanging weight.
func (s *Bridge) Load() particle.Handle { return s.load }

// Sources exposes the link constraints so front ends can draw them.
func (s *Bridge) Sources() []ContactSource { return s.sources }

func (s *Bridge) GetParams() map[string]float64 {
	return map[string]float64{
		"pairs":     s.Pairs,
		"base_mass": s.BaseMass,
		"load_mass": s.LoadMass,
	}
}

func (s *Bridge) SetParam(name string, value float64) error {
	switch name {
	case "pairs":
		s.Pairs = value
	case "base_mass":
		s.BaseMass = value
	case "load_mass":
		s.LoadMass = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
