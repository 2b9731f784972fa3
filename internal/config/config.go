package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gasviz/internal/dynamo"
)

const (
	DefaultParticles       = 2000
	DefaultDeltaTime       = 0.001
	DefaultParticleRadius  = 0.002
	DefaultBuckets         = 42
	DefaultHistogramWidth  = 3.0
	DefaultHistogramDelay  = 1
	DefaultAveragingWeight = 300

	DefaultExperiment  = "move_right"
	DefaultChartWidth  = 300
	DefaultChartHeight = 600
	DefaultFPS         = 60
	DefaultTheme       = "paper"
)

var ErrOutOfRange = errors.New("config: parameter out of range")

// RangeError reports the parameter that failed validation.
type RangeError struct {
	Field    string
	Value    float64
	Min, Max float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s=%g not in [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

type Config struct {
	Experiment string        `yaml:"experiment"`
	Params     Params        `yaml:"params"`
	Display    DisplayConfig `yaml:"display"`
}

// Params drive one experiment run.
type Params struct {
	Particles       int     `yaml:"particles" json:"particles"`
	DeltaTime       float64 `yaml:"delta_time" json:"delta_time"`
	ParticleRadius  float64 `yaml:"particle_radius" json:"particle_radius"`
	Buckets         int     `yaml:"buckets" json:"buckets"`
	HistogramWidth  float64 `yaml:"histogram_width" json:"histogram_width"`
	HistogramDelay  int     `yaml:"histogram_delay" json:"histogram_delay"`
	AveragingWeight int     `yaml:"averaging_weight" json:"averaging_weight"`
	Seed            int64   `yaml:"seed" json:"seed"`
}

// DisplayConfig sizes the exported charts and the live view.
type DisplayConfig struct {
	ChartWidth  int    `yaml:"chart_width"`
	ChartHeight int    `yaml:"chart_height"`
	FPS         int    `yaml:"fps"`
	Theme       string `yaml:"theme"`
}

func DefaultParams() Params {
	return Params{
		Particles:       DefaultParticles,
		DeltaTime:       DefaultDeltaTime,
		ParticleRadius:  DefaultParticleRadius,
		Buckets:         DefaultBuckets,
		HistogramWidth:  DefaultHistogramWidth,
		HistogramDelay:  DefaultHistogramDelay,
		AveragingWeight: DefaultAveragingWeight,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Experiment: DefaultExperiment,
		Params:     DefaultParams(),
		Display: DisplayConfig{
			ChartWidth:  DefaultChartWidth,
			ChartHeight: DefaultChartHeight,
			FPS:         DefaultFPS,
			Theme:       DefaultTheme,
		},
	}
}

// Validate enforces the ranges accepted by the front-end.
func (p Params) Validate() error {
	checks := []struct {
		field    string
		value    float64
		min, max float64
	}{
		{"particles", float64(p.Particles), 1, 5000},
		{"delta_time", p.DeltaTime, 1e-6, 1e+1},
		{"particle_radius", p.ParticleRadius, 1e-4, 0.5},
		{"buckets", float64(p.Buckets), 1, 1000},
		{"histogram_width", p.HistogramWidth, 1e-1, 10.0},
		{"histogram_delay", float64(p.HistogramDelay), 1, 120},
		{"averaging_weight", float64(p.AveragingWeight), 1, 1e4},
	}

	for _, c := range checks {
		if !(c.value >= c.min && c.value <= c.max) {
			return &RangeError{Field: c.field, Value: c.value, Min: c.min, Max: c.max}
		}
	}
	return nil
}

// EngineParams returns the subset of p an engine is built from.
func (p Params) EngineParams() dynamo.Params {
	return dynamo.Params{
		Particles:      p.Particles,
		Radius:         p.ParticleRadius,
		Buckets:        p.Buckets,
		HistogramWidth: p.HistogramWidth,
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes path on top of cfg; keys missing from the file keep the
// values already in cfg.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
