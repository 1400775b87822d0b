package particle

import "github.com/go-gl/mathgl/mgl64"

// Vec3 is the vector type for positions, velocities and forces.
type Vec3 = mgl64.Vec3

// EarthGravity is a conventional gravitational acceleration, negative along Y.
func EarthGravity() Vec3 { return Vec3{0, -9.8, 0} }

// directionEpsilon bounds how short a vector may be and still carry a
// usable direction.
const directionEpsilon = 1e-9

// Direction returns the unit vector along v. The second result is false
// when v is too short to normalize, in which case callers skip the force or
// contact that needed it.
func Direction(v Vec3) (Vec3, bool) {
	length := v.Len()
	if length < directionEpsilon {
		return Vec3{}, false
	}
	return v.Mul(1 / length), true
}
