package metrics

import "math"

// EnergyDrift follows the mean square particle speed and records the largest
// relative deviation from the first observation. An elastic gas should keep
// it near zero.
type EnergyDrift struct {
	name     string
	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(meanSquareSpeed float64) {
	if math.IsNaN(meanSquareSpeed) || math.IsInf(meanSquareSpeed, 0) {
		return
	}

	if e.samples == 0 {
		e.initial = meanSquareSpeed
	}

	e.current = meanSquareSpeed
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(meanSquareSpeed-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

// Value is the maximum relative drift seen so far.
func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Current() float64 { return e.current }
func (e *EnergyDrift) Initial() float64 { return e.initial }
func (e *EnergyDrift) Samples() int     { return e.samples }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.current = 0
	e.maxDrift = 0
	e.samples = 0
}
