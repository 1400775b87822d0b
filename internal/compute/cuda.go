//go:build cuda

package compute

/*
#cgo CFLAGS: -I/opt/cuda/include
#cgo LDFLAGS: -L/opt/cuda/lib64 -L${SRCDIR} -lcudart -lkernels -lstdc++
#include <stdlib.h>

extern int cuda_device_count();
extern const char* cuda_device_name_get();
extern void step_particles_gpu(float* pos, float* vel, int n, float dt, float damping,
                               float gx, float gy, float gz, float k1, float k2);
*/
import "C"
import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl64"
)

type CUDABackend struct {
	available  bool
	deviceName string
}

func NewCUDABackend() *CUDABackend {
	count := int(C.cuda_device_count())
	name := ""
	if count > 0 {
		name = C.GoString(C.cuda_device_name_get())
	}
	return &CUDABackend{
		available:  count > 0,
		deviceName: name,
	}
}

func (c *CUDABackend) Name() string {
	if c.available {
		return "cuda (" + c.deviceName + ")"
	}
	return "cuda (not available)"
}

func (c *CUDABackend) Available() bool { return c.available }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) StepParticles(pos, vel []float64, dt, damping float64, gravity mgl64.Vec3, k1, k2 float64) {
	if !c.available {
		cpu := NewCPUBackend()
		cpu.StepParticles(pos, vel, dt, damping, gravity, k1, k2)
		return
	}

	n := len(pos) / 3
	if m := len(vel) / 3; m < n {
		n = m
	}
	if n == 0 {
		return
	}

	posF := make([]float32, n*3)
	velF := make([]float32, n*3)
	for i := 0; i < n*3; i++ {
		posF[i] = float32(pos[i])
		velF[i] = float32(vel[i])
	}

	C.step_particles_gpu(
		(*C.float)(unsafe.Pointer(&posF[0])),
		(*C.float)(unsafe.Pointer(&velF[0])),
		C.int(n),
		C.float(dt),
		C.float(damping),
		C.float(gravity[0]),
		C.float(gravity[1]),
		C.float(gravity[2]),
		C.float(k1),
		C.float(k2),
	)

	for i := 0; i < n*3; i++ {
		pos[i] = float64(posF[i])
		vel[i] = float64(velF[i])
	}
}
