package compute

import "github.com/go-gl/mathgl/mgl64"

// Backend steps a flat particle cloud: positions and velocities as
// x,y,z-interleaved slices, one unit-mass particle per triple. A step
// mirrors the core integrator: position moves under the old velocity,
// velocity picks up gravity plus k1/k2 drag, damping scales once.
type Backend interface {
	Name() string
	Available() bool
	StepParticles(pos, vel []float64, dt, damping float64, gravity mgl64.Vec3, k1, k2 float64)
	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

// SetBackend replaces the active backend, cleaning up the old one.
func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

// GetBackend returns the active backend.
func GetBackend() Backend {
	return activeBackend
}

// AutoSelectBackend picks CUDA when a device is present, otherwise CPU.
func AutoSelectBackend() Backend {
	cuda := NewCUDABackend()
	if cuda.Available() {
		return cuda
	}
	return NewCPUBackend()
}
