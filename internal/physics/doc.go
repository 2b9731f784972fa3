// Package physics provides an in-process hard-sphere gas that implements the
// [dynamo.Engine] contract.
//
// Particles of equal radius move inside the unit square, reflect off the
// walls and collide elastically with each other. Momentum and kinetic energy
// are conserved by every collision, so the mean square speed stays constant
// and the velocity components relax towards a normal distribution.
//
// # Histograms
//
// Velocity components are measured in units of the RMS total speed fixed by
// [Gas.FixParticles]. The domain [-HistogramWidth, HistogramWidth] is split
// into equal buckets; the first and last bucket also collect every sample
// beyond the domain.
//
//	gas, _ := physics.New(dynamo.Params{Particles: 2000, Radius: 0.002, Buckets: 42, HistogramWidth: 3})
//	gas.SetParticle(0, 0.5, 0.5, 1, 0)
//	gas.FixParticles()
//	gas.Step(0.001)
//	gas.ComputeHistogram()
package physics
