package scene

import (
	"fmt"
	"math"

	"github.com/san-kum/impulse/internal/particle"
)

// AmmoType selects the projectile the ballistic scene fires.
type AmmoType int

const (
	Pistol AmmoType = iota
	Artillery
	Fireball
	Laser
)

func (a AmmoType) String() string {
	switch a {
	case Pistol:
		return "pistol"
	case Artillery:
		return "artillery"
	case Fireball:
		return "fireball"
	case Laser:
		return "laser"
	}
	return "unknown"
}

type ammoSpec struct {
	inverseMass  float64
	velocity     particle.Vec3
	acceleration particle.Vec3
	damping      float64
}

var ammoSpecs = map[AmmoType]ammoSpec{
	Pistol:    {1.0 / 2.0, particle.Vec3{0, 0, 35}, particle.Vec3{0, -1, 0}, 0.99},
	Artillery: {1.0 / 200.0, particle.Vec3{0, 30, 40}, particle.Vec3{0, -20, 0}, 0.99},
	Fireball:  {1.0, particle.Vec3{0, 0, 10}, particle.Vec3{0, 0.6, 0}, 0.9},
	Laser:     {1.0 / 0.1, particle.Vec3{0, 0, 100}, particle.Vec3{}, 0.99},
}

type round struct {
	handle particle.Handle
	born   float64
}

// Ballistic fires rounds from a fixed muzzle down the +Z range and culls
// them once they hit the ground, leave the range or time out.
type Ballistic struct {
	Ammo         AmmoType
	FireInterval float64
	MaxRange     float64
	Timeout      float64

	muzzle   particle.Vec3
	lastShot float64
	rounds   []round
}

func NewBallistic() *Ballistic {
	return &Ballistic{
		Ammo:         Pistol,
		FireInterval: 0.5,
		MaxRange:     200,
		Timeout:      5,
		muzzle:       particle.Vec3{0, 1.5, 0},
		lastShot:     math.Inf(-1),
	}
}

func (s *Ballistic) Name() string        { return "ballistic" }
func (s *Ballistic) Description() string { return "projectiles fired down a range" }

func (s *Ballistic) Setup(*particle.World) error {
	s.rounds = s.rounds[:0]
	s.lastShot = math.Inf(-1)
	if _, ok := ammoSpecs[s.Ammo]; !ok {
		return fmt.Errorf("unknown ammo type: %d", s.Ammo)
	}
	return nil
}

func (s *Ballistic) Update(w *particle.World, t, dt float64) {
	// FireInterval <= 0 disables autofire; rounds then come from Fire only.
	if s.FireInterval > 0 && t-s.lastShot >= s.FireInterval {
		s.fire(w, t)
	}

	live := s.rounds[:0]
	for _, round := range s.rounds {
		b, ok := w.Body(round.handle)
		if !ok {
			continue
		}
		expired := t-round.born > s.Timeout
		if expired || b.Position.Y() < 0 || b.Position.Z() > s.MaxRange {
			w.RemoveBody(round.handle)
			continue
		}
		live = append(live, round)
	}
	s.rounds = live
}

func (s *Ballistic) Contacts(_ *particle.World, dst []particle.Contact) []particle.Contact {
	return dst
}

func (s *Ballistic) fire(w *particle.World, t float64) {
	spec := ammoSpecs[s.Ammo]
	h := w.InsertBody(particle.Body{
		Position:     s.muzzle,
		Velocity:     spec.velocity,
		Acceleration: spec.acceleration,
		Damping:      spec.damping,
		InverseMass:  spec.inverseMass,
	})
	s.rounds = append(s.rounds, round{handle: h, born: t})
	s.lastShot = t
}

// Fire launches one round immediately, bypassing the autofire interval.
// Interactive front ends bind this to a key.
func (s *Ballistic) Fire(w *particle.World, t float64) {
	s.fire(w, t)
}

// Rounds reports how many projectiles are currently in flight.
func (s *Ballistic) Rounds() int { return len(s.rounds) }

// Muzzle is the fixed launch point at the near end of the range.
func (s *Ballistic) Muzzle() particle.Vec3 { return s.muzzle }

func (s *Ballistic) GetParams() map[string]float64 {
	return map[string]float64{
		"ammo":          float64(s.Ammo),
		"fire_interval": s.FireInterval,
		"max_range":     s.MaxRange,
		"timeout":       s.Timeout,
	}
}

func (s *Ballistic) SetParam(name string, value float64) error {
	switch name {
	case "ammo":
		ammo := AmmoType(int(value))
		if _, ok := ammoSpecs[ammo]; !ok {
			return fmt.Errorf("unknown ammo type: %v", value)
		}
		s.Ammo = ammo
	case "fire_interval":
		s.FireInterval = value
	case "max_range":
		s.MaxRange = value
	case "timeout":
		s.Timeout = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
