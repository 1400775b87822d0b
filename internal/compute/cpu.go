package compute

import (
	"math"
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// parallelMin is the particle count below which goroutine fan-out costs
// more than it saves.
const parallelMin = 4096

// CPUBackend steps clouds on the host, chunked across Workers goroutines
// once the cloud is large enough to pay for the fan-out.
type CPUBackend struct {
	Workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{Workers: runtime.NumCPU()}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) StepParticles(pos, vel []float64, dt, damping float64, gravity mgl64.Vec3, k1, k2 float64) {
	n := len(pos) / 3
	if m := len(vel) / 3; m < n {
		n = m
	}

	if n < parallelMin || c.Workers <= 1 {
		stepRange(pos, vel, 0, n, dt, damping, gravity, k1, k2)
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + c.Workers - 1) / c.Workers

	for w := 0; w < c.Workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			start := worker * chunkSize
			end := start + chunkSize
			if end > n {
				end = n
			}
			stepRange(pos, vel, start, end, dt, damping, gravity, k1, k2)
		}(w)
	}

	wg.Wait()
}

// stepRange advances particles [start, end). Each particle is independent,
// so disjoint ranges never race.
func stepRange(pos, vel []float64, start, end int, dt, damping float64, gravity mgl64.Vec3, k1, k2 float64) {
	for i := start; i < end; i++ {
		vx, vy, vz := vel[i*3], vel[i*3+1], vel[i*3+2]

		pos[i*3] += vx * dt
		pos[i*3+1] += vy * dt
		pos[i*3+2] += vz * dt

		ax, ay, az := gravity[0], gravity[1], gravity[2]

		speed := math.Sqrt(vx*vx + vy*vy + vz*vz)
		if speed >= 1e-9 {
			inv := 1 / speed
			coeff := k1*speed + k2*speed*speed
			ax -= vx * inv * coeff
			ay -= vy * inv * coeff
			az -= vz * inv * coeff
		}

		vx += ax * dt
		vy += ay * dt
		vz += az * dt

		vel[i*3] = vx * damping
		vel[i*3+1] = vy * damping
		vel[i*3+2] = vz * damping
	}
}
