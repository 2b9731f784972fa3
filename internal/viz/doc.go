// Package viz renders a gas session in the terminal.
//
// [ChartCanvas] implements chart.Surface on a colored braille [Canvas], and
// [App] is the Bubble Tea program that drives a pipeline.Session one tick
// per frame while it is not paused.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset the current experiment
//	N     - Next experiment
//	E     - Experiment menu
//	T     - Cycle color themes
//	V     - Toggle the particle view
//	S     - Save a snapshot to the archive
//	?     - Show help overlay
package viz
