// Package compute steps flat particle clouds outside the handle-based
// core, for views that want raw particle counts instead of scenes.
//
// The package auto-selects the best batch backend:
//
//   - CUDA: device-side stepping behind the cuda build tag
//   - CPU: serial under a size threshold, chunked goroutines above it
//
//	backend := compute.GetBackend()
//	backend.StepParticles(pos, vel, dt, damping, gravity, k1, k2)
//
// Build with CUDA support by compiling kernels/particle_step.cu into
// libkernels next to this package and tagging the build:
//
//	nvcc -lib -o internal/compute/libkernels.a kernels/particle_step.cu
//	go build -tags cuda ./...
//
// OpenGLBackend is separate from the Backend selection: it keeps the
// cloud in an SSBO, steps it with a compute shader and draws it without
// a host round trip. It needs a live GL context.
package compute
