package particle

import "math"

// ForceGenerator computes a force from current state and accumulates it on
// one registered body.
//
// Apply must only ever mutate the target body through [Body.AddForce]; a
// stale body handle (its own target or a second body the variant reads) is
// a silent no-op for that call.
type ForceGenerator interface {
	Apply(duration float64, body Handle, bodies *BodySet)
}

// Registration binds one force generator to the bodies it acts on. The same
// generator may appear in many registrations and a body may be listed under
// many generators; every surviving pairing fires once per tick.
type Registration struct {
	Generator Handle
	Bodies    []Handle
}

// Gravity accumulates a constant acceleration scaled by each body's mass.
// Immovable bodies are skipped outright.
type Gravity struct {
	// Force is the acceleration to apply, in distance per second squared.
	Force Vec3
}

// NewGravity returns a gravity generator with the given acceleration.
func NewGravity(force Vec3) *Gravity { return &Gravity{Force: force} }

// NewEarthGravity returns a gravity generator pulling along -Y at 9.8.
func NewEarthGravity() *Gravity { return &Gravity{Force: EarthGravity()} }

func (g *Gravity) Apply(_ float64, body Handle, bodies *BodySet) {
	b, ok := bodies.Get(body)
	if !ok || !b.HasFiniteMass() {
		return
	}
	b.AddForce(g.Force.Mul(b.Mass()))
}

// Drag models air resistance with a linear and a quadratic speed term:
// the force opposes velocity with magnitude k1*|v| + k2*|v|^2. A body at
// rest feels nothing.
type Drag struct {
	K1 float64
	K2 float64
}

// NewDrag returns a drag generator with the given coefficients.
func NewDrag(k1, k2 float64) *Drag { return &Drag{K1: k1, K2: k2} }

func (d *Drag) Apply(_ float64, body Handle, bodies *BodySet) {
	b, ok := bodies.Get(body)
	if !ok {
		return
	}
	dir, ok := Direction(b.Velocity)
	if !ok {
		return
	}
	speed := b.Velocity.Len()
	coeff := d.K1*speed + d.K2*speed*speed
	b.AddForce(dir.Mul(-coeff))
}

// Spring ties the registered body to a second body with a Hookean spring of
// stiffness SpringConstant and natural length RestLength. The force always
// points from the registered body toward the other one, growing with how
// far the current length is from rest.
type Spring struct {
	Other          Handle
	SpringConstant float64
	RestLength     float64
}

// NewSpring returns a spring generator against the given far body.
func NewSpring(other Handle, springConstant, restLength float64) *Spring {
	return &Spring{Other: other, SpringConstant: springConstant, RestLength: restLength}
}

func (s *Spring) Apply(_ float64, body Handle, bodies *BodySet) {
	b, ok := bodies.Get(body)
	if !ok {
		return
	}
	other, ok := bodies.Get(s.Other)
	if !ok {
		return
	}
	accumSpringForce(b, b.Position.Sub(other.Position), s.SpringConstant, s.RestLength)
}

// AnchoredSpring is a Spring whose far end is a fixed point in space rather
// than another body.
type AnchoredSpring struct {
	Anchor         Vec3
	SpringConstant float64
	RestLength     float64
}

// NewAnchoredSpring returns a spring generator against a fixed world point.
func NewAnchoredSpring(anchor Vec3, springConstant, restLength float64) *AnchoredSpring {
	return &AnchoredSpring{Anchor: anchor, SpringConstant: springConstant, RestLength: restLength}
}

func (s *AnchoredSpring) Apply(_ float64, body Handle, bodies *BodySet) {
	b, ok := bodies.Get(body)
	if !ok {
		return
	}
	accumSpringForce(b, b.Position.Sub(s.Anchor), s.SpringConstant, s.RestLength)
}

// accumSpringForce adds the spring force for a displacement measured from
// the far end. The magnitude uses the absolute distance from rest length,
// so the pull is toward the far end whether stretched or compressed;
// coincident ends produce no force.
func accumSpringForce(b *Body, displacement Vec3, springConstant, restLength float64) {
	dir, ok := Direction(displacement)
	if !ok {
		return
	}
	magnitude := math.Abs(displacement.Len()-restLength) * springConstant
	b.AddForce(dir.Mul(-magnitude))
}

// Bungee is an elastic cord to a second body: it pulls like a spring when
// stretched past RestLength and goes slack (zero force) when shorter. It
// never pushes.
type Bungee struct {
	Other          Handle
	SpringConstant float64
	RestLength     float64
}

// NewBungee returns a bungee generator against the given far body.
func NewBungee(other Handle, springConstant, restLength float64) *Bungee {
	return &Bungee{Other: other, SpringConstant: springConstant, RestLength: restLength}
}

func (s *Bungee) Apply(_ float64, body Handle, bodies *BodySet) {
	b, ok := bodies.Get(body)
	if !ok {
		return
	}
	other, ok := bodies.Get(s.Other)
	if !ok {
		return
	}
	accumBungeeForce(b, b.Position.Sub(other.Position), s.SpringConstant, s.RestLength)
}

// AnchoredBungee is a Bungee whose far end is a fixed point in space.
type AnchoredBungee struct {
	Anchor         Vec3
	SpringConstant float64
	RestLength     float64
}

// NewAnchoredBungee returns a bungee generator against a fixed world point.
func NewAnchoredBungee(anchor Vec3, springConstant, restLength float64) *AnchoredBungee {
	return &AnchoredBungee{Anchor: anchor, SpringConstant: springConstant, RestLength: restLength}
}

func (s *AnchoredBungee) Apply(_ float64, body Handle, bodies *BodySet) {
	b, ok := bodies.Get(body)
	if !ok {
		return
	}
	accumBungeeForce(b, b.Position.Sub(s.Anchor), s.SpringConstant, s.RestLength)
}

// accumBungeeForce adds the cord force for a displacement measured from the
// far end. Slack or exactly-at-rest cords contribute nothing.
func accumBungeeForce(b *Body, displacement Vec3, springConstant, restLength float64) {
	length := displacement.Len()
	if length <= restLength {
		return
	}
	dir, ok := Direction(displacement)
	if !ok {
		return
	}
	magnitude := (length - restLength) * springConstant
	b.AddForce(dir.Mul(-magnitude))
}

// Buoyancy pushes a body up along Y while it sits in a liquid. The force is
// zero once the body rises MaxDepth above WaterHeight, saturates at
// LiquidDensity*Volume once it sinks MaxDepth below, and interpolates
// linearly with the submerged fraction in between.
type Buoyancy struct {
	MaxDepth      float64
	Volume        float64
	WaterHeight   float64
	LiquidDensity float64
}

// NewBuoyancy returns a buoyancy generator with water density (1000).
func NewBuoyancy(maxDepth, volume, waterHeight float64) *Buoyancy {
	return &Buoyancy{
		MaxDepth:      maxDepth,
		Volume:        volume,
		WaterHeight:   waterHeight,
		LiquidDensity: 1000,
	}
}

func (bu *Buoyancy) Apply(_ float64, body Handle, bodies *BodySet) {
	b, ok := bodies.Get(body)
	if !ok {
		return
	}
	depth := b.Position.Y()
	if depth >= bu.WaterHeight+bu.MaxDepth {
		return
	}

	var force Vec3
	if depth <= bu.WaterHeight-bu.MaxDepth {
		force[1] = bu.LiquidDensity * bu.Volume
	} else {
		submerged := (bu.WaterHeight + bu.MaxDepth - depth) / (2 * bu.MaxDepth)
		force[1] = bu.LiquidDensity * bu.Volume * submerged
	}
	b.AddForce(force)
}
