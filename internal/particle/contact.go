package particle

// Contact describes one touching or penetrating condition between a body
// and either a second body or immovable scenery. Contacts are transient,
// one-tick values produced by whatever collision detection the host runs;
// the core only resolves them.
type Contact struct {
	// Body is the first participant. Normal points toward it.
	Body Handle

	// OtherBody is the second participant. The zero handle means the
	// contact is against scenery, which never moves and absorbs any
	// impulse.
	OtherBody Handle

	// Restitution in [0,1] controls bounce: 1 is perfectly elastic, 0
	// removes all closing velocity.
	Restitution float64

	// Normal is the unit contact direction in world coordinates, from
	// OtherBody toward Body.
	Normal Vec3

	// Penetration is the overlap depth along Normal; values <= 0 mean
	// touching or separated.
	Penetration float64
}

// participants resolves both handles. ok is false when either named
// participant has been removed; other is nil for a scenery contact.
func (c *Contact) participants(bodies *BodySet) (body, other *Body, ok bool) {
	body, ok = bodies.Get(c.Body)
	if !ok {
		return nil, nil, false
	}
	if c.OtherBody.IsZero() {
		return body, nil, true
	}
	other, ok = bodies.Get(c.OtherBody)
	if !ok {
		return nil, nil, false
	}
	return body, other, true
}

// SeparatingVelocity returns the participants' relative velocity along the
// contact normal. Negative values mean the pair is closing. The second
// result is false when a participant has been removed.
func (c *Contact) SeparatingVelocity(bodies *BodySet) (float64, bool) {
	body, other, ok := c.participants(bodies)
	if !ok {
		return 0, false
	}
	relative := body.Velocity
	if other != nil {
		relative = relative.Sub(other.Velocity)
	}
	return relative.Dot(c.Normal), true
}

// resolve applies the collision impulse and then separates the overlap,
// returning the displacement applied to each participant so the caller can
// fold it into other contacts' recorded penetrations.
func (c *Contact) resolve(duration float64, bodies *BodySet) (moveBody, moveOther Vec3) {
	c.resolveVelocity(duration, bodies)
	return c.resolveInterpenetration(bodies)
}

// resolveVelocity replaces the participants' closing velocity along the
// normal with a restitution-scaled separating one, split between them by
// inverse mass. Pairs already separating, pairs with two immovable
// participants and contacts with stale handles are left untouched.
func (c *Contact) resolveVelocity(duration float64, bodies *BodySet) {
	body, other, ok := c.participants(bodies)
	if !ok {
		return
	}

	relative := body.Velocity
	if other != nil {
		relative = relative.Sub(other.Velocity)
	}
	separating := relative.Dot(c.Normal)
	if separating > 0 {
		return
	}

	target := -separating * c.Restitution

	// Closing velocity that this frame's constant acceleration built up
	// carries no real bounce; take its restitution share back out so a
	// resting contact stays at rest.
	accCaused := body.Acceleration.Dot(c.Normal) * duration
	if accCaused < 0 {
		target += c.Restitution * accCaused
		if target < 0 {
			target = 0
		}
	}

	totalInverseMass := body.InverseMass
	if other != nil {
		totalInverseMass += other.InverseMass
	}
	if totalInverseMass <= 0 {
		return
	}

	impulse := (target - separating) / totalInverseMass
	impulsePerInvMass := c.Normal.Mul(impulse)

	body.Velocity = body.Velocity.Add(impulsePerInvMass.Mul(body.InverseMass))
	if other != nil {
		other.Velocity = other.Velocity.Sub(impulsePerInvMass.Mul(other.InverseMass))
	}
}

// resolveInterpenetration moves the participants apart along the normal in
// proportion to their inverse masses until the recorded overlap is gone.
// Velocities are untouched. The returned displacements are zero when there
// is no overlap, a participant is stale, or both participants are
// immovable.
func (c *Contact) resolveInterpenetration(bodies *BodySet) (moveBody, moveOther Vec3) {
	if c.Penetration <= 0 {
		return Vec3{}, Vec3{}
	}
	body, other, ok := c.participants(bodies)
	if !ok {
		return Vec3{}, Vec3{}
	}

	totalInverseMass := body.InverseMass
	if other != nil {
		totalInverseMass += other.InverseMass
	}
	if totalInverseMass <= 0 {
		return Vec3{}, Vec3{}
	}

	movePerInvMass := c.Normal.Mul(c.Penetration / totalInverseMass)
	moveBody = movePerInvMass.Mul(body.InverseMass)
	body.Position = body.Position.Add(moveBody)
	if other != nil {
		moveOther = movePerInvMass.Mul(-other.InverseMass)
		other.Position = other.Position.Add(moveOther)
	}
	return moveBody, moveOther
}
