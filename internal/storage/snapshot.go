package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/gasviz/internal/analysis"
	"github.com/san-kum/gasviz/internal/config"
	"github.com/san-kum/gasviz/internal/pipeline"
)

// Snapshot is everything a session shows at one frame.
type Snapshot struct {
	Experiment string             `json:"experiment"`
	Params     config.Params      `json:"params"`
	Frame      int                `json:"frame"`
	Scale      pipeline.ScaleInfo `json:"scale"`
	Drift      float64            `json:"energy_drift"`

	RawVx []float64 `json:"raw_vx"`
	RawVy []float64 `json:"raw_vy"`
	AvgVx []float64 `json:"avg_vx"`
	AvgVy []float64 `json:"avg_vy"`

	CurveX []float64 `json:"curve_x"`
	CurveY []float64 `json:"curve_y"`

	ParticleX []float64 `json:"-"`
	ParticleY []float64 `json:"-"`
	Radius    float64   `json:"-"`
}

// Capture copies the current state of s.
func Capture(s *pipeline.Session) Snapshot {
	snap := Snapshot{
		Experiment: s.Experiment().Name,
		Params:     s.Params(),
		Frame:      s.Frame(),
		Scale:      s.Scale(),
		Drift:      s.EnergyDrift(),
	}
	snap.RawVx, snap.RawVy = s.Raw()
	snap.AvgVx, snap.AvgVy = s.Averaged()
	snap.CurveX, snap.CurveY = s.Curve()

	if ps, r, ok := s.Particles(); ok {
		snap.ParticleX = make([]float64, len(ps))
		snap.ParticleY = make([]float64, len(ps))
		for i, p := range ps {
			snap.ParticleX[i], snap.ParticleY[i] = p.X, p.Y
		}
		snap.Radius = r
	}
	return snap
}

// Moments summarizes the averaged series.
func (s Snapshot) Moments() (vx, vy analysis.Summary) {
	return analysis.Moments(s.AvgVx, s.Scale.Left, s.Scale.Right),
		analysis.Moments(s.AvgVy, s.Scale.Left, s.Scale.Right)
}

// ExportJSON writes s as indented JSON.
func ExportJSON(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
