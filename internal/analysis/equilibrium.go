package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultCurvePoints is the sample count of the reference curve.
const DefaultCurvePoints = 200

// ComponentSigma is the equilibrium standard deviation of one velocity
// component in units of the RMS total speed.
var ComponentSigma = math.Sqrt(0.5)

var ErrInvalidCurve = errors.New("analysis: equilibrium curve needs at least two points, a positive width and buckets")

// Equilibrium samples the expected bucket count over [-halfWidth, halfWidth]
// for population particles spread over buckets equal buckets.
func Equilibrium(population, buckets int, halfWidth float64, points int) (xs, ys []float64, err error) {
	if points < 2 || buckets <= 0 || !(halfWidth > 0) {
		return nil, nil, ErrInvalidCurve
	}

	normal := distuv.Normal{Mu: 0, Sigma: ComponentSigma}
	bucketWidth := 2 * halfWidth / float64(buckets)
	step := 2 * halfWidth / float64(points-1)

	xs = make([]float64, points)
	ys = make([]float64, points)
	for i := range xs {
		x := -halfWidth + float64(i)*step
		xs[i] = x
		ys[i] = float64(population) * bucketWidth * normal.Prob(x)
	}
	return xs, ys, nil
}

// ExpectedCounts is the equilibrium count of every bucket, evaluated at the
// bucket centers.
func ExpectedCounts(population, buckets int, halfWidth float64) ([]float64, error) {
	if buckets <= 0 || !(halfWidth > 0) {
		return nil, ErrInvalidCurve
	}

	normal := distuv.Normal{Mu: 0, Sigma: ComponentSigma}
	bucketWidth := 2 * halfWidth / float64(buckets)
	counts := BucketCenters(buckets, -halfWidth, halfWidth)
	for i, x := range counts {
		counts[i] = float64(population) * bucketWidth * normal.Prob(x)
	}
	return counts, nil
}
