package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/impulse/internal/particle"
	"github.com/san-kum/impulse/internal/sim"
)

// arcSeries is a parabolic lob: y = 5t - 2.5t², z = 3t, sampled every
// half second until it returns to the ground.
func arcSeries() sim.Series {
	s := sim.Series{Body: "0.1"}
	for _, t := range []float64{0, 0.5, 1, 1.5, 2} {
		s.Times = append(s.Times, t)
		s.Positions = append(s.Positions, particle.Vec3{0, 5*t - 2.5*t*t, 3 * t})
		s.Velocities = append(s.Velocities, particle.Vec3{0, 5 - 5*t, 3})
	}
	return s
}

func TestSummarizeTrajectory(t *testing.T) {
	summary := SummarizeTrajectory(arcSeries(), 0)
	if summary == nil {
		t.Fatal("expected summary, got nil")
	}

	if math.Abs(summary.Apex-2.5) > 1e-9 {
		t.Errorf("expected apex 2.5, got %v", summary.Apex)
	}
	if math.Abs(summary.ApexTime-1.0) > 1e-9 {
		t.Errorf("expected apex at t=1, got %v", summary.ApexTime)
	}
	if !summary.Landed {
		t.Fatal("expected trajectory to land")
	}
	if math.Abs(summary.FlightTime-2.0) > 1e-9 {
		t.Errorf("expected flight time 2, got %v", summary.FlightTime)
	}
	if math.Abs(summary.Range-6.0) > 1e-9 {
		t.Errorf("expected range 6, got %v", summary.Range)
	}

	wantSpeed := math.Sqrt(34)
	if math.Abs(summary.ImpactSpeed-wantSpeed) > 1e-9 {
		t.Errorf("expected impact speed %v, got %v", wantSpeed, summary.ImpactSpeed)
	}
}

func TestSummarizeTrajectoryInterpolatesCrossing(t *testing.T) {
	summary := SummarizeTrajectory(arcSeries(), 1.0)
	if summary == nil || !summary.Landed {
		t.Fatal("expected landing above raised ground")
	}

	// Crossing of y=1 between t=1.5 (y=1.875) and t=2 (y=0).
	frac := 0.875 / 1.875
	wantTime := 1.5 + 0.5*frac
	if math.Abs(summary.FlightTime-wantTime) > 1e-9 {
		t.Errorf("expected flight time %v, got %v", wantTime, summary.FlightTime)
	}

	wantRange := 4.5 + 1.5*frac
	if math.Abs(summary.Range-wantRange) > 1e-9 {
		t.Errorf("expected range %v, got %v", wantRange, summary.Range)
	}
}

func TestSummarizeTrajectoryNeverLands(t *testing.T) {
	s := sim.Series{
		Body:  "0.1",
		Times: []float64{0, 1, 2},
		Positions: []particle.Vec3{
			{0, 1, 0}, {0, 3, 4}, {0, 6, 8},
		},
		Velocities: []particle.Vec3{
			{0, 2, 4}, {0, 2, 4}, {0, 3, 4},
		},
	}

	summary := SummarizeTrajectory(s, 0)
	if summary == nil {
		t.Fatal("expected summary, got nil")
	}
	if summary.Landed {
		t.Error("ascending body should not land")
	}
	if math.Abs(summary.Range-8.0) > 1e-9 {
		t.Errorf("expected range to last sample 8, got %v", summary.Range)
	}
	if math.Abs(summary.FlightTime-2.0) > 1e-9 {
		t.Errorf("expected flight time 2, got %v", summary.FlightTime)
	}
	if summary.Apex != 6 {
		t.Errorf("expected apex 6, got %v", summary.Apex)
	}
}

func TestSummarizeTrajectoryEmpty(t *testing.T) {
	if got := SummarizeTrajectory(sim.Series{}, 0); got != nil {
		t.Errorf("expected nil for empty series, got %+v", got)
	}
}

func TestHeightsAndSpeeds(t *testing.T) {
	s := arcSeries()

	heights := Heights(s)
	if len(heights) != 5 {
		t.Fatalf("expected 5 heights, got %d", len(heights))
	}
	if math.Abs(heights[2]-2.5) > 1e-9 {
		t.Errorf("expected height 2.5 at apex, got %v", heights[2])
	}

	speeds := Speeds(s)
	wantApexSpeed := 3.0
	if math.Abs(speeds[2]-wantApexSpeed) > 1e-9 {
		t.Errorf("expected apex speed 3, got %v", speeds[2])
	}
}

func TestDivergence(t *testing.T) {
	a := sim.Series{
		Times:     []float64{0, 1, 2, 3, 4},
		Positions: make([]particle.Vec3, 5),
	}
	b := sim.Series{
		Times:     []float64{0, 1, 2, 3, 4},
		Positions: make([]particle.Vec3, 5),
	}
	for i := 0; i < 5; i++ {
		b.Positions[i] = particle.Vec3{math.Exp(0.5 * float64(i)), 0, 0}
	}

	sep := Divergence(a, b)
	if len(sep) != 5 {
		t.Fatalf("expected 5 separations, got %d", len(sep))
	}
	if math.Abs(sep[0]-1.0) > 1e-9 {
		t.Errorf("expected initial separation 1, got %v", sep[0])
	}

	rate := DivergenceRate(a, b)
	if math.Abs(rate-0.5) > 1e-9 {
		t.Errorf("expected divergence rate 0.5, got %v", rate)
	}
}

func TestDivergenceRateDegenerate(t *testing.T) {
	a := sim.Series{Times: []float64{0, 1}, Positions: make([]particle.Vec3, 2)}
	b := sim.Series{Times: []float64{0, 1}, Positions: make([]particle.Vec3, 2)}

	if rate := DivergenceRate(a, b); rate != 0 {
		t.Errorf("expected 0 for coincident series, got %v", rate)
	}

	short := sim.Series{Times: []float64{0}, Positions: make([]particle.Vec3, 1)}
	if rate := DivergenceRate(short, short); rate != 0 {
		t.Errorf("expected 0 for single sample, got %v", rate)
	}
}
