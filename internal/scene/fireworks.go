package scene

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/impulse/internal/particle"
)

// burstRule describes one firework generation: how long its shells burn
// and what they break into.
type burstRule struct {
	minFuse float64
	maxFuse float64
	payload int
	spread  float64
	damping float64
}

var burstRules = []burstRule{
	{minFuse: 1.2, maxFuse: 1.8, payload: 6, spread: 6, damping: 0.995},
	{minFuse: 0.6, maxFuse: 1.0, payload: 4, spread: 4, damping: 0.99},
	{minFuse: 0.4, maxFuse: 0.8, payload: 0, spread: 0, damping: 0.98},
}

type shell struct {
	handle     particle.Handle
	generation int
	fuse       float64
}

// Fireworks launches rockets that burst into successive generations of
// sparks until the payload chain burns out.
type Fireworks struct {
	LaunchInterval float64
	Seed           float64

	rng        *rand.Rand
	shells     []shell
	lastLaunch float64
}

func NewFireworks() *Fireworks {
	return &Fireworks{
		LaunchInterval: 1.0,
	}
}

func (s *Fireworks) Name() string        { return "fireworks" }
func (s *Fireworks) Description() string { return "rockets bursting into spark showers" }

func (s *Fireworks) Setup(*particle.World) error {
	if s.LaunchInterval <= 0 {
		return fmt.Errorf("launch interval must be positive, got %v", s.LaunchInterval)
	}
	s.rng = rand.New(rand.NewSource(int64(s.Seed)))
	s.shells = s.shells[:0]
	s.lastLaunch = math.Inf(-1)
	return nil
}

type burstEvent struct {
	generation int
	pos, vel   particle.Vec3
}

func (s *Fireworks) Update(w *particle.World, t, dt float64) {
	if t-s.lastLaunch >= s.LaunchInterval {
		s.launch(w, t)
	}

	// Cull first, collect bursts, then spawn the next generation so the
	// shell list is stable while it is being compacted.
	var events []burstEvent
	live := s.shells[:0]
	for _, sh := range s.shells {
		b, ok := w.Body(sh.handle)
		if !ok {
			continue
		}
		if t >= sh.fuse {
			events = append(events, burstEvent{sh.generation, b.Position, b.Velocity})
			w.RemoveBody(sh.handle)
			continue
		}
		if b.Position.Y() < 0 {
			w.RemoveBody(sh.handle)
			continue
		}
		live = append(live, sh)
	}
	s.shells = live

	for _, ev := range events {
		s.burst(w, t, ev)
	}
}

func (s *Fireworks) Contacts(_ *particle.World, dst []particle.Contact) []particle.Contact {
	return dst
}

func (s *Fireworks) launch(w *particle.World, t float64) {
	rule := burstRules[0]
	h := w.InsertBody(particle.Body{
		Position: particle.Vec3{0, 0.5, 0},
		Velocity: particle.Vec3{
			s.rng.Float64()*4 - 2,
			18 + s.rng.Float64()*4,
			s.rng.Float64()*4 - 2,
		},
		Acceleration: particle.Vec3{0, -9.8, 0},
		Damping:      rule.damping,
		InverseMass:  1 / 0.2,
	})
	s.shells = append(s.shells, shell{
		handle:     h,
		generation: 0,
		fuse:       t + rule.minFuse + s.rng.Float64()*(rule.maxFuse-rule.minFuse),
	})
	s.lastLaunch = t
}

func (s *Fireworks) burst(w *particle.World, t float64, ev burstEvent) {
	rule := burstRules[ev.generation]
	if rule.payload == 0 || ev.generation+1 >= len(burstRules) {
		return
	}
	next := burstRules[ev.generation+1]

	for i := 0; i < rule.payload; i++ {
		kick := particle.Vec3{
			(s.rng.Float64()*2 - 1) * rule.spread,
			(s.rng.Float64()*2 - 1) * rule.spread,
			(s.rng.Float64()*2 - 1) * rule.spread,
		}
		h := w.InsertBody(particle.Body{
			Position:     ev.pos,
			Velocity:     ev.vel.Add(kick),
			Acceleration: particle.Vec3{0, -9.8, 0},
			Damping:      next.damping,
			InverseMass:  1 / 0.05,
		})
		s.shells = append(s.shells, shell{
			handle:     h,
			generation: ev.generation + 1,
			fuse:       t + next.minFuse + s.rng.Float64()*(next.maxFuse-next.minFuse),
		})
	}
}

// ShellCount reports how many shells and sparks are currently alive.
func (s *Fireworks) ShellCount() int { return len(s.shells) }

func (s *Fireworks) GetParams() map[string]float64 {
	return map[string]float64{
		"launch_interval": s.LaunchInterval,
		"seed":            s.Seed,
	}
}

func (s *Fireworks) SetParam(name string, value float64) error {
	switch name {
	case "launch_interval":
		s.LaunchInterval = value
	case "seed":
		s.Seed = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
