// Package scene hosts the demo worlds that drive the physics core. A
// [Scene] seeds bodies and force generators into a [particle.World], runs
// its own per-frame logic (spawning, culling, steering) and reports the
// frame's contacts; [Registry] maps scene names to constructors for the
// CLI and GUI front ends.
//
// Collision detection lives here rather than in the core: [ContactSource]
// implementations ([Cable], [Rod], [CableAnchor], [Floor]) turn geometric
// constraints into the contact descriptors the resolver consumes.
package scene
