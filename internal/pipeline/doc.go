// Package pipeline turns per-bucket engine output into the four velocity
// histograms of a session. A Session is driven one Tick at a time by an
// external scheduler, either the live terminal view or a headless Run.
package pipeline
