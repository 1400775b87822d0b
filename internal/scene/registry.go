package scene

import (
	"fmt"
	"sort"
)

// Registry maps scene names to constructors.
type Registry struct {
	scenes map[string]func() Scene
}

// NewRegistry returns a registry with every built-in scene registered.
func NewRegistry() *Registry {
	r := &Registry{
		scenes: make(map[string]func() Scene),
	}

	r.scenes["sandbox"] = func() Scene { return NewSandbox() }
	r.scenes["ballistic"] = func() Scene { return NewBallistic() }
	r.scenes["bungee"] = func() Scene { return NewBungee() }
	r.scenes["flotsam"] = func() Scene { return NewFlotsam() }
	r.scenes["bridge"] = func() Scene { return NewBridge() }
	r.scenes["fireworks"] = func() Scene { return NewFireworks() }

	return r
}

// Get builds a fresh instance of the named scene.
func (r *Registry) Get(name string) (Scene, error) {
	fn, ok := r.scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene: %s", name)
	}
	return fn(), nil
}

// List returns the registered scene names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
