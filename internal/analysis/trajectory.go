package analysis

import (
	"math"

	"github.com/san-kum/impulse/internal/particle"
	"github.com/san-kum/impulse/internal/sim"
)

// TrajectorySummary characterizes one body's flight.
type TrajectorySummary struct {
	Apex        float64
	ApexTime    float64
	Range       float64
	FlightTime  float64
	Landed      bool
	ImpactSpeed float64
}

// SummarizeTrajectory computes apex, horizontal range and flight time
// for one body. Landing is the first downward crossing of groundHeight;
// bodies that never land report the distance and time to their last
// sample instead.
func SummarizeTrajectory(s sim.Series, groundHeight float64) *TrajectorySummary {
	if len(s.Times) == 0 {
		return nil
	}

	summary := &TrajectorySummary{
		Apex:     s.Positions[0].Y(),
		ApexTime: s.Times[0],
	}

	start := s.Positions[0]
	t0 := s.Times[0]

	for i := 1; i < len(s.Times); i++ {
		y := s.Positions[i].Y()
		if y > summary.Apex {
			summary.Apex = y
			summary.ApexTime = s.Times[i]
		}

		prevY := s.Positions[i-1].Y()
		if !summary.Landed && prevY > groundHeight && y <= groundHeight {
			// Interpolate the crossing for better accuracy.
			frac := (prevY - groundHeight) / (prevY - y)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}

			p0, p1 := s.Positions[i-1], s.Positions[i]
			impact := p0.Add(p1.Sub(p0).Mul(frac))

			summary.Landed = true
			summary.Range = horizontalDistance(start, impact)
			summary.FlightTime = s.Times[i-1] + (s.Times[i]-s.Times[i-1])*frac - t0
			summary.ImpactSpeed = s.Velocities[i].Len()
		}
	}

	if !summary.Landed {
		last := len(s.Times) - 1
		summary.Range = horizontalDistance(start, s.Positions[last])
		summary.FlightTime = s.Times[last] - t0
	}

	return summary
}

func horizontalDistance(a, b particle.Vec3) float64 {
	dx := b.X() - a.X()
	dz := b.Z() - a.Z()
	return math.Sqrt(dx*dx + dz*dz)
}

// Heights extracts a body's height signal for spectral analysis.
func Heights(s sim.Series) []float64 {
	out := make([]float64, len(s.Positions))
	for i, p := range s.Positions {
		out[i] = p.Y()
	}
	return out
}

// Speeds extracts a body's speed signal.
func Speeds(s sim.Series) []float64 {
	out := make([]float64, len(s.Velocities))
	for i, v := range s.Velocities {
		out[i] = v.Len()
	}
	return out
}
