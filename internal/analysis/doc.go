// Package analysis post-processes recorded runs.
//
// The package characterizes body trajectories after the fact:
//
//   - [SummarizeTrajectory]: apex, range and flight time of one body
//   - [PowerSpectrum] / [DominantFrequency]: oscillation content of a signal
//   - [PhasePortrait]: 2D position/velocity trajectories
//   - [DivergenceRate]: how fast two runs of the same scene drift apart
//
// # Oscillation Detection
//
// A body hanging from a spring shows its bob frequency as a spectral peak:
//
//	ys := analysis.Heights(series)
//	f := analysis.DominantFrequency(ys, 1/cfg.Dt)
package analysis
