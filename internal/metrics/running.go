package metrics

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWeight  = errors.New("metrics: averaging weight must be positive")
	ErrInvalidBuckets = errors.New("metrics: bucket count must be positive")
	ErrBucketRange    = errors.New("metrics: bucket index out of range")
	ErrSeriesLength   = errors.New("metrics: series length does not match bucket count")
)

// RunningAverage keeps one smoothed mean per bucket. For the first weight
// samples of a bucket the mean is a plain arithmetic mean; after that each
// new sample enters with a fixed weight of 1/weight.
type RunningAverage struct {
	weight  int
	means   []float64
	samples []int
}

func NewRunningAverage(buckets, weight int) (*RunningAverage, error) {
	if buckets <= 0 {
		return nil, ErrInvalidBuckets
	}
	if weight <= 0 {
		return nil, ErrInvalidWeight
	}
	return &RunningAverage{
		weight:  weight,
		means:   make([]float64, buckets),
		samples: make([]int, buckets),
	}, nil
}

func (r *RunningAverage) Len() int    { return len(r.means) }
func (r *RunningAverage) Weight() int { return r.weight }

// Update folds sample into bucket i and returns the new mean.
func (r *RunningAverage) Update(i int, sample float64) (float64, error) {
	if i < 0 || i >= len(r.means) {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrBucketRange, i, len(r.means))
	}

	if r.samples[i] < r.weight {
		r.samples[i]++
	}
	w := float64(r.samples[i])

	r.means[i] = ((w-1)*r.means[i] + sample) / w
	return r.means[i], nil
}

// Observe updates every bucket from one full series.
func (r *RunningAverage) Observe(series []float64) error {
	if len(series) != len(r.means) {
		return fmt.Errorf("%w: got %d, want %d", ErrSeriesLength, len(series), len(r.means))
	}
	for i, v := range series {
		if _, err := r.Update(i, v); err != nil {
			return err
		}
	}
	return nil
}

func (r *RunningAverage) Value(i int) float64 {
	if i < 0 || i >= len(r.means) {
		return 0
	}
	return r.means[i]
}

// Samples returns how many samples bucket i has absorbed, saturated at the
// weight.
func (r *RunningAverage) Samples(i int) int {
	if i < 0 || i >= len(r.samples) {
		return 0
	}
	return r.samples[i]
}

func (r *RunningAverage) Values() []float64 {
	out := make([]float64, len(r.means))
	copy(out, r.means)
	return out
}

// ValuesInto copies the means into dst and returns it, growing dst when it is
// too short.
func (r *RunningAverage) ValuesInto(dst []float64) []float64 {
	if cap(dst) < len(r.means) {
		dst = make([]float64, len(r.means))
	}
	dst = dst[:len(r.means)]
	copy(dst, r.means)
	return dst
}

func (r *RunningAverage) Reset() {
	for i := range r.means {
		r.means[i] = 0
		r.samples[i] = 0
	}
}
