package sim

import (
	"sync"

	"github.com/san-kum/impulse/internal/particle"
)

// FramePool recycles body-state buffers so streaming runs do not
// allocate a fresh slice per frame.
type FramePool struct {
	pool sync.Pool
}

// NewFramePool returns a pool whose fresh buffers hold capacity body
// states before growing.
func NewFramePool(capacity int) *FramePool {
	return &FramePool{
		pool: sync.Pool{
			New: func() interface{} {
				return make([]BodyState, 0, capacity)
			},
		},
	}
}

// Get returns an empty buffer.
func (p *FramePool) Get() []BodyState {
	return p.pool.Get().([]BodyState)[:0]
}

// Put returns a buffer to the pool.
func (p *FramePool) Put(b []BodyState) {
	p.pool.Put(b[:0])
}

// Capture snapshots the world into a pooled buffer.
func (p *FramePool) Capture(w *particle.World, t float64) Frame {
	return captureFrame(w, t, p.Get())
}

// Release returns a captured frame's buffer to the pool. The frame must
// not be used afterwards.
func (p *FramePool) Release(f Frame) {
	p.Put(f.Bodies)
}
