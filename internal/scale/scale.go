// Package scale picks display ranges for velocity histograms.
package scale

import (
	"errors"
	"math"
)

const (
	// visualBalance is tuned by eye so the equilibrium histogram fills about
	// half of the chart.
	visualBalance = 2.0

	desiredGridLines = 20
)

// peakCorrection is the one-sigma coverage of a normal distribution times
// the square root of e.
var peakCorrection = 0.68 * math.Sqrt(math.E)

var gridLadder = []int{
	1, 2, 5,
	10, 20, 50,
	100, 200, 500,
	1000, 2000, 5000,
}

var (
	ErrInvalidBuckets    = errors.New("scale: bucket count must be positive")
	ErrInvalidPopulation = errors.New("scale: population must not be negative")
	ErrInvalidWidth      = errors.New("scale: histogram half-width must not be negative")
)

// DisplayHeight returns the y-axis ceiling for a histogram of population
// particles spread over buckets of a domain [-halfWidth, halfWidth]. The
// result never exceeds the population.
func DisplayHeight(population, buckets int, halfWidth float64) (int, error) {
	if buckets <= 0 {
		return 0, ErrInvalidBuckets
	}
	if population < 0 {
		return 0, ErrInvalidPopulation
	}
	if halfWidth < 0 || math.IsNaN(halfWidth) {
		return 0, ErrInvalidWidth
	}

	barWidth := halfWidth / float64(buckets)
	raw := math.Round(visualBalance * peakCorrection * barWidth * float64(population))

	if raw > float64(population) {
		return population, nil
	}
	return int(raw), nil
}

// GridStep returns the smallest ladder value strictly above maxDisplayed/20,
// or the largest ladder value when none is.
func GridStep(maxDisplayed float64) int {
	raw := maxDisplayed / desiredGridLines

	index := 0
	for _, step := range gridLadder {
		if float64(step) > raw {
			break
		}
		index++
	}

	if index >= len(gridLadder) {
		index = len(gridLadder) - 1
	}
	return gridLadder[index]
}

// Ladder returns a copy of the grid step ladder in ascending order.
func Ladder() []int {
	out := make([]int, len(gridLadder))
	copy(out, gridLadder)
	return out
}
