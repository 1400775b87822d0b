//go:build !cuda

package compute

import "github.com/go-gl/mathgl/mgl64"

type CUDABackend struct{}

func NewCUDABackend() *CUDABackend {
	return &CUDABackend{}
}

func (c *CUDABackend) Name() string    { return "cuda (not available)" }
func (c *CUDABackend) Available() bool { return false }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) StepParticles(pos, vel []float64, dt, damping float64, gravity mgl64.Vec3, k1, k2 float64) {
	cpu := NewCPUBackend()
	cpu.StepParticles(pos, vel, dt, damping, gravity, k1, k2)
}
