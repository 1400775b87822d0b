package particle

import "math"

// Resolver resolves a batch of contacts one at a time, always taking the
// most urgent first, up to an iteration cap.
//
// Sequential resolution is not globally consistent: fixing one contact can
// disturb another that shares a participant. The per-iteration rescan and
// the cap keep simple chains converging and pathological batches bounded.
type Resolver struct {
	iterations     int
	iterationsUsed int
}

// NewResolver returns a resolver performing at most iterations
// single-contact resolutions per batch.
func NewResolver(iterations int) *Resolver {
	return &Resolver{iterations: iterations}
}

// Iterations returns the configured cap.
func (r *Resolver) Iterations() int { return r.iterations }

// SetIterations replaces the cap for subsequent batches.
func (r *Resolver) SetIterations(n int) { r.iterations = n }

// IterationsUsed reports how many single-contact resolutions the last
// ResolveContacts call performed. Always at most Iterations.
func (r *Resolver) IterationsUsed() int { return r.iterationsUsed }

// ResolveContacts resolves the batch in most-urgent-first order. A contact
// is a candidate while it is closing or still overlapping; each pass picks
// the candidate with the lowest separating velocity, resolves its velocity
// and interpenetration, and folds the applied displacement back into the
// recorded penetration of every contact sharing a participant. The loop
// ends when no candidate remains or the cap is reached.
//
// Contacts naming removed bodies are skipped. Penetration fields in the
// slice are rewritten in place as resolution progresses.
func (r *Resolver) ResolveContacts(contacts []Contact, duration float64, bodies *BodySet) {
	r.iterationsUsed = 0
	for r.iterationsUsed < r.iterations {
		worst := -1
		worstSep := math.Inf(1)
		for i := range contacts {
			sep, ok := contacts[i].SeparatingVelocity(bodies)
			if !ok {
				continue
			}
			if sep < worstSep && (sep < 0 || contacts[i].Penetration > 0) {
				worstSep = sep
				worst = i
			}
		}
		if worst < 0 {
			break
		}

		moveBody, moveOther := contacts[worst].resolve(duration, bodies)
		offsetPenetrations(contacts, worst, moveBody, moveOther)
		r.iterationsUsed++
	}
}

// offsetPenetrations folds the displacement applied while resolving
// contacts[resolved] into the recorded penetration of every contact that
// shares one of its participants. The resolved contact's own penetration
// lands at zero.
func offsetPenetrations(contacts []Contact, resolved int, moveBody, moveOther Vec3) {
	rc := &contacts[resolved]
	for i := range contacts {
		c := &contacts[i]
		switch {
		case c.Body == rc.Body:
			c.Penetration -= moveBody.Dot(c.Normal)
		case !rc.OtherBody.IsZero() && c.Body == rc.OtherBody:
			c.Penetration -= moveOther.Dot(c.Normal)
		}
		if c.OtherBody.IsZero() {
			continue
		}
		switch {
		case c.OtherBody == rc.Body:
			c.Penetration += moveBody.Dot(c.Normal)
		case !rc.OtherBody.IsZero() && c.OtherBody == rc.OtherBody:
			c.Penetration += moveOther.Dot(c.Normal)
		}
	}
}
