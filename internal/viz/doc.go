// Package viz renders live simulations in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea
// framework:
//
//   - [App]: scene menu plus a live physics view with parameter tuning
//   - [Canvas]: braille pixel canvas for high-fidelity line drawing
//   - [Camera]: orbiting 3D projection of world space onto the canvas
//   - Theme cycling over a small built-in palette table
//
// # Key Bindings
//
//	space - pause / resume
//	r     - restart the scene with current parameters
//	[ ]   - scrub recorded history (replay)
//	f     - fire a round (ballistic scene)
//	t     - cycle color themes
//	g     - toggle GIF recording
//	?     - help overlay
//
// # Recording
//
// Recording captures each frame of the braille canvas into a 1-bit GIF
// written to the working directory when recording stops.
package viz
