package scene

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/impulse/internal/particle"
)

// Flotsam drops a fleet of crates into water and lets buoyancy, gravity
// and drag fight over them until they bob at the surface.
type Flotsam struct {
	Count       float64
	WaterHeight float64
	Seed        float64

	crates []particle.Handle
	floor  *Floor
}

func NewFlotsam() *Flotsam {
	return &Flotsam{
		Count:       8,
		WaterHeight: 0,
	}
}

func (s *Flotsam) Name() string        { return "flotsam" }
func (s *Flotsam) Description() string { return "crates bobbing in water" }

func (s *Flotsam) Setup(w *particle.World) error {
	count := int(s.Count)
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %v", s.Count)
	}

	rng := rand.New(rand.NewSource(int64(s.Seed)))

	g := w.InsertForceGenerator(particle.NewEarthGravity())
	drag := w.InsertForceGenerator(particle.NewDrag(0.8, 0.1))

	s.crates = s.crates[:0]
	for i := 0; i < count; i++ {
		mass := 0.8 + 0.4*rng.Float64()
		h := w.InsertBody(particle.Body{
			Position: particle.Vec3{
				-3 + 6*rng.Float64(),
				1 + 2*rng.Float64(),
				-3 + 6*rng.Float64(),
			},
			Damping:     0.95,
			InverseMass: 1 / mass,
		})
		s.crates = append(s.crates, h)

		// Displaced volume sized so full submersion lifts about twice the
		// crate's weight.
		volume := mass / 50
		water := w.InsertForceGenerator(particle.NewBuoyancy(0.3, volume, s.WaterHeight))
		w.Register(water, h)
		w.Register(g, h)
		w.Register(drag, h)
	}

	s.floor = &Floor{Height: s.WaterHeight - 3, Radius: 0.1, Restitution: 0.1}
	return nil
}

func (s *Flotsam) Update(*particle.World, float64, float64) {}

func (s *Flotsam) Contacts(w *particle.World, dst []particle.Contact) []particle.Contact {
	return s.floor.AddContacts(w.Bodies(), dst)
}

// Crates returns the handles of the floating bodies.
func (s *Flotsam) Crates() []particle.Handle { return s.crates }

func (s *Flotsam) GetParams() map[string]float64 {
	return map[string]float64{
		"count":        s.Count,
		"water_height": s.WaterHeight,
		"seed":         s.Seed,
	}
}

func (s *Flotsam) SetParam(name string, value float64) error {
	switch name {
	case "count":
		s.Count = value
	case "water_height":
		s.WaterHeight = value
	case "seed":
		s.Seed = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
