package analysis

import (
	"math"

	"github.com/san-kum/impulse/internal/sim"
)

// Divergence returns the per-sample distance between two trajectories,
// e.g. the same body across two runs with perturbed parameters. The
// shorter series bounds the output.
func Divergence(a, b sim.Series) []float64 {
	n := len(a.Positions)
	if len(b.Positions) < n {
		n = len(b.Positions)
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a.Positions[i].Sub(b.Positions[i]).Len()
	}
	return out
}

// DivergenceRate estimates the exponential growth rate of the
// separation between two trajectories, in 1/seconds. Positive values
// mean the runs drift apart; 0 when the series are too short or start
// coincident.
func DivergenceRate(a, b sim.Series) float64 {
	sep := Divergence(a, b)
	if len(sep) < 2 {
		return 0
	}

	d0 := sep[0]
	dn := sep[len(sep)-1]
	elapsed := a.Times[len(sep)-1] - a.Times[0]
	if d0 <= 0 || dn <= 0 || elapsed <= 0 {
		return 0
	}

	return math.Log(dn/d0) / elapsed
}
