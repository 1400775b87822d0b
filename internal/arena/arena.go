// Package arena provides a generation-checked slot arena.
//
// Values are addressed by [Handle], a stable index plus generation pair.
// Removing a value bumps its slot's generation, so a handle held across a
// removal can never silently alias whatever occupies the slot next. The zero
// Handle is never valid and is usable as a "none" marker.
package arena

import "fmt"

// Handle addresses one value in an Arena. Handles stay comparable and
// copyable; resolving a stale one simply fails.
type Handle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h.generation == 0
}

// String formats h as index.generation, a stable id for logs and run
// archives.
func (h Handle) String() string {
	return fmt.Sprintf("%d.%d", h.index, h.generation)
}

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Arena stores values of type T in reusable slots.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

// New creates an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.value = v
		s.occupied = true
		a.count++
		return Handle{index: idx, generation: s.generation}
	}

	// Generations start at 1 so the zero Handle never resolves.
	a.slots = append(a.slots, slot[T]{value: v, generation: 1, occupied: true})
	a.count++
	return Handle{index: uint32(len(a.slots) - 1), generation: 1}
}

// Get resolves h, returning false for stale or zero handles.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	if h.generation == 0 || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.index]
	if !s.occupied || s.generation != h.generation {
		return nil, false
	}
	return &s.value, true
}

// Contains reports whether h resolves to a live value.
func (a *Arena[T]) Contains(h Handle) bool {
	_, ok := a.Get(h)
	return ok
}

// Remove deletes the value addressed by h and returns it. The slot's
// generation advances so h and any copies of it go stale immediately.
func (a *Arena[T]) Remove(h Handle) (T, bool) {
	var zero T
	if h.generation == 0 || int(h.index) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[h.index]
	if !s.occupied || s.generation != h.generation {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.occupied = false
	s.generation++
	a.free = append(a.free, h.index)
	a.count--
	return v, true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	return a.count
}

// Each calls fn for every live value in slot order until fn returns false.
// Inserting or removing inside fn is not supported.
func (a *Arena[T]) Each(fn func(Handle, *T) bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.occupied {
			continue
		}
		if !fn(Handle{index: uint32(i), generation: s.generation}, &s.value) {
			return
		}
	}
}

// Handles returns the handles of all live values in slot order.
func (a *Arena[T]) Handles() []Handle {
	out := make([]Handle, 0, a.count)
	a.Each(func(h Handle, _ *T) bool {
		out = append(out, h)
		return true
	})
	return out
}

// Clear removes every value. Outstanding handles all go stale.
func (a *Arena[T]) Clear() {
	for i := range a.slots {
		if a.slots[i].occupied {
			var zero T
			a.slots[i].value = zero
			a.slots[i].occupied = false
			a.slots[i].generation++
			a.free = append(a.free, uint32(i))
		}
	}
	a.count = 0
}
