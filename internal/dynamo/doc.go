// Package dynamo defines the numeric-exchange contract between the statistics
// pipeline and a particle simulation engine.
//
// The pipeline never touches engine memory directly. It talks to an engine
// through a handful of narrow interfaces:
//
//   - [Seeder]: places particles before the first step
//   - [Stepper]: advances the simulation by one timestep
//   - [Histogrammer]: recomputes and exposes per-bucket velocity counts
//   - [Engine]: all of the above
//
// Engines may additionally implement [Thermometer] (mean square speed) and
// [Positioner] (particle positions for a particle view).
//
// # Buckets
//
// Bucket accessors are bounds checked and return [ErrBucketRange] for an index
// outside [0, Buckets()). Values are only meaningful after ComputeHistogram.
//
// # Thread Safety
//
// Engines are NOT thread-safe. The pipeline owns its engine and calls it from
// a single goroutine.
package dynamo
