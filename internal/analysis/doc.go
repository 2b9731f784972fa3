// Package analysis compares velocity histograms against the ideal gas.
//
// In two dimensions each velocity component of an equilibrated gas is
// normally distributed. Measured in units of the RMS total speed, energy
// equipartition gives each component a standard deviation of sqrt(1/2):
//
//   - [Equilibrium]: expected bucket counts as a polyline, used as the
//     reference curve of every chart
//   - [Moments]: mean and spread of a bucket series
package analysis
