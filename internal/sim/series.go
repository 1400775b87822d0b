package sim

import "github.com/san-kum/impulse/internal/particle"

// Series is one body's trajectory collated across a run's frames.
// Bodies that appear or vanish mid-run carry only the times they were
// alive for.
type Series struct {
	Body       string
	Times      []float64
	Positions  []particle.Vec3
	Velocities []particle.Vec3
}

// Collate regroups a result's frames into per-body series, ordered by
// first appearance.
func Collate(r *Result) []Series {
	index := make(map[string]int)
	series := make([]Series, 0)

	for _, f := range r.Frames {
		for _, b := range f.Bodies {
			id := b.Handle.String()
			i, ok := index[id]
			if !ok {
				i = len(series)
				index[id] = i
				series = append(series, Series{Body: id})
			}
			series[i].Times = append(series[i].Times, f.Time)
			series[i].Positions = append(series[i].Positions, b.Position)
			series[i].Velocities = append(series[i].Velocities, b.Velocity)
		}
	}

	return series
}
