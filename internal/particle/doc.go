// Package particle implements a point-mass physics core: bodies advanced in
// time under accumulated forces, and discrete contacts resolved with
// impulse-based collision response.
//
// The package defines the primitives a host drives once per frame:
//
//   - [Body]: kinematic state that integrates itself one semi-implicit
//     Euler step and clears its force accumulator
//   - [ForceGenerator]: pure functions of current state ([Gravity], [Drag],
//     [Spring], [AnchoredSpring], [Bungee], [AnchoredBungee], [Buoyancy])
//     that accumulate force on registered bodies
//   - [World]: owns the body and generator arenas plus the registration
//     list, and sequences one tick
//   - [Contact] and [Resolver]: pairwise (or body-versus-scenery) touching
//     conditions and the iterative scheduler that resolves the most urgent
//     one each pass
//
// # Handles
//
// Bodies and generators are addressed through generation-checked handles
// ([arena.Handle]), never through pointers retained across ticks. Removing a
// body leaves every other handle valid, and a handle to the removed body
// resolves to nothing rather than aliasing a reused slot. Lookups against
// removed entries are silent no-ops throughout: a registration or contact
// whose target is gone simply contributes nothing that tick.
//
// # Thread safety
//
// A World is not safe for concurrent use. Tick and ResolveContacts run to
// completion on the caller's goroutine with no blocking and no yielding; the
// host owns the stepping cadence.
package particle
