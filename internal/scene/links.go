package scene

import "github.com/san-kum/impulse/internal/particle"

// ContactSource turns a geometric constraint into contact descriptors for
// the resolver. Sources referencing removed bodies produce nothing.
type ContactSource interface {
	AddContacts(bodies *particle.BodySet, dst []particle.Contact) []particle.Contact
}

// Cable keeps two bodies within MaxLength of each other. When overextended
// it emits a contact whose normal points from A toward B, so resolution
// draws the pair back together with the cable's restitution.
type Cable struct {
	A, B        particle.Handle
	MaxLength   float64
	Restitution float64
}

func (c *Cable) AddContacts(bodies *particle.BodySet, dst []particle.Contact) []particle.Contact {
	a, ok := bodies.Get(c.A)
	if !ok {
		return dst
	}
	b, ok := bodies.Get(c.B)
	if !ok {
		return dst
	}

	span := b.Position.Sub(a.Position)
	length := span.Len()
	if length <= c.MaxLength {
		return dst
	}
	normal, ok := particle.Direction(span)
	if !ok {
		return dst
	}

	return append(dst, particle.Contact{
		Body:        c.A,
		OtherBody:   c.B,
		Restitution: c.Restitution,
		Normal:      normal,
		Penetration: length - c.MaxLength,
	})
}

// Rod pins two bodies at exactly Length apart: it emits a zero-restitution
// contact pulling them together when overextended and pushing them apart
// when compressed.
type Rod struct {
	A, B   particle.Handle
	Length float64
}

func (r *Rod) AddContacts(bodies *particle.BodySet, dst []particle.Contact) []particle.Contact {
	a, ok := bodies.Get(r.A)
	if !ok {
		return dst
	}
	b, ok := bodies.Get(r.B)
	if !ok {
		return dst
	}

	span := b.Position.Sub(a.Position)
	length := span.Len()
	if length == r.Length {
		return dst
	}
	normal, ok := particle.Direction(span)
	if !ok {
		return dst
	}

	contact := particle.Contact{
		Body:      r.A,
		OtherBody: r.B,
		Normal:    normal,
	}
	if length > r.Length {
		contact.Penetration = length - r.Length
	} else {
		contact.Normal = normal.Mul(-1)
		contact.Penetration = r.Length - length
	}
	return append(dst, contact)
}

// CableAnchor tethers a body to a fixed point in space, emitting a scenery
// contact that pulls the body back once the tether is overextended.
type CableAnchor struct {
	Body        particle.Handle
	Anchor      particle.Vec3
	MaxLength   float64
	Restitution float64
}

func (c *CableAnchor) AddContacts(bodies *particle.BodySet, dst []particle.Contact) []particle.Contact {
	b, ok := bodies.Get(c.Body)
	if !ok {
		return dst
	}

	span := c.Anchor.Sub(b.Position)
	length := span.Len()
	if length <= c.MaxLength {
		return dst
	}
	normal, ok := particle.Direction(span)
	if !ok {
		return dst
	}

	return append(dst, particle.Contact{
		Body:        c.Body,
		Restitution: c.Restitution,
		Normal:      normal,
		Penetration: length - c.MaxLength,
	})
}

// Floor is a horizontal plane at Height that every body bounces on.
// Radius pads the collision for bodies drawn as spheres.
type Floor struct {
	Height      float64
	Radius      float64
	Restitution float64
}

func (f *Floor) AddContacts(bodies *particle.BodySet, dst []particle.Contact) []particle.Contact {
	bodies.Each(func(h particle.Handle, b *particle.Body) bool {
		depth := f.Height + f.Radius - b.Position.Y()
		if depth > 0 && b.InverseMass > 0 {
			dst = append(dst, particle.Contact{
				Body:        h,
				Restitution: f.Restitution,
				Normal:      particle.Vec3{0, 1, 0},
				Penetration: depth,
			})
		}
		return true
	})
	return dst
}
