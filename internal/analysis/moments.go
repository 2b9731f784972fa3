package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution a bucket series represents.
type Summary struct {
	Total  float64 `json:"total"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// BucketCenters returns the midpoint of each of n equal buckets over
// [left, right].
func BucketCenters(n int, left, right float64) []float64 {
	centers := make([]float64, n)
	if n == 0 {
		return centers
	}
	width := (right - left) / float64(n)
	for i := range centers {
		centers[i] = left + (float64(i)+0.5)*width
	}
	return centers
}

// Moments weights the bucket centers by their counts. An empty or all-zero
// series gives a zero Summary.
func Moments(values []float64, left, right float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	total := floats.Sum(values)
	if total <= 0 {
		return Summary{}
	}

	centers := BucketCenters(len(values), left, right)
	s := Summary{
		Total: total,
		Mean:  stat.Mean(centers, values),
	}
	if total > 1 {
		s.StdDev = stat.StdDev(centers, values)
	}
	return s
}
