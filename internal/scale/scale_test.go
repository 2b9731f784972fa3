package scale

import (
	"errors"
	"testing"
)

func TestDisplayHeightRange(t *testing.T) {
	tests := []struct {
		population int
		buckets    int
		halfWidth  float64
	}{
		{2000, 42, 3.0},
		{300, 21, 3.0},
		{30, 21, 3.0},
		{1, 1, 10.0},
		{5000, 1000, 0.1},
		{0, 10, 3.0},
		{5000, 1, 10.0},
	}

	for _, tt := range tests {
		h, err := DisplayHeight(tt.population, tt.buckets, tt.halfWidth)
		if err != nil {
			t.Fatalf("DisplayHeight(%d, %d, %.1f): %v", tt.population, tt.buckets, tt.halfWidth, err)
		}
		if h < 0 || h > tt.population {
			t.Errorf("DisplayHeight(%d, %d, %.1f) = %d, want within [0, %d]",
				tt.population, tt.buckets, tt.halfWidth, h, tt.population)
		}
	}
}

func TestDisplayHeightDefaultExperiment(t *testing.T) {
	// 2 * 0.68 * sqrt(e) * (3/42) * 2000 = 320.3...
	h, err := DisplayHeight(2000, 42, 3.0)
	if err != nil {
		t.Fatal(err)
	}
	if h != 320 {
		t.Errorf("expected 320, got %d", h)
	}
}

func TestDisplayHeightClampsToPopulation(t *testing.T) {
	h, err := DisplayHeight(100, 1, 10.0)
	if err != nil {
		t.Fatal(err)
	}
	if h != 100 {
		t.Errorf("expected clamp to 100, got %d", h)
	}
}

func TestDisplayHeightRejectsBadInput(t *testing.T) {
	if _, err := DisplayHeight(100, 0, 3.0); !errors.Is(err, ErrInvalidBuckets) {
		t.Errorf("zero buckets: expected ErrInvalidBuckets, got %v", err)
	}
	if _, err := DisplayHeight(100, -4, 3.0); !errors.Is(err, ErrInvalidBuckets) {
		t.Errorf("negative buckets: expected ErrInvalidBuckets, got %v", err)
	}
	if _, err := DisplayHeight(-1, 10, 3.0); !errors.Is(err, ErrInvalidPopulation) {
		t.Errorf("negative population: expected ErrInvalidPopulation, got %v", err)
	}
	if _, err := DisplayHeight(10, 10, -3.0); !errors.Is(err, ErrInvalidWidth) {
		t.Errorf("negative width: expected ErrInvalidWidth, got %v", err)
	}
}

func TestGridStep(t *testing.T) {
	tests := []struct {
		max  float64
		want int
	}{
		{0, 1},
		{10, 1},
		{19.9, 1},
		{20, 2},
		{320, 20},
		{400, 50},
		{1000, 100},
		{99999, 5000},
		{5000 * 20, 5000},
		{1e9, 5000},
	}

	for _, tt := range tests {
		if got := GridStep(tt.max); got != tt.want {
			t.Errorf("GridStep(%v) = %d, want %d", tt.max, got, tt.want)
		}
	}
}

func TestGridStepAlwaysOnLadder(t *testing.T) {
	ladder := make(map[int]bool)
	for _, v := range Ladder() {
		ladder[v] = true
	}
	for max := 0.0; max < 200000; max += 137.5 {
		if step := GridStep(max); !ladder[step] {
			t.Fatalf("GridStep(%v) = %d is not on the ladder", max, step)
		}
	}
}

func TestLadderIsCopy(t *testing.T) {
	l := Ladder()
	l[0] = 999
	if GridStep(0) != 1 {
		t.Error("mutating Ladder() result changed the package ladder")
	}
}
