package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gasviz/internal/analysis"
	"github.com/san-kum/gasviz/internal/config"
	"github.com/san-kum/gasviz/internal/experiment"
	"github.com/san-kum/gasviz/internal/pipeline"
	"github.com/san-kum/gasviz/internal/storage"
)

// Scenario is a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs one experiment for Frames frames. Params only lists the
// keys that differ from the experiment preset.
type ScenarioStep struct {
	Experiment string    `yaml:"experiment"`
	Frames     int       `yaml:"frames"`
	Params     yaml.Node `yaml:"params"`
	SaveAs     string    `yaml:"save_as"`
}

// StepResult summarizes one finished step.
type StepResult struct {
	Experiment string
	Params     config.Params
	Frames     int
	RunID      string
	Drift      float64
	MomentsVx  analysis.Summary
	MomentsVy  analysis.Summary
}

// Runner executes scenarios and sweeps. Store may be nil, in which case
// nothing is archived.
type Runner struct {
	Registry *experiment.Registry
	Factory  pipeline.EngineFactory
	Store    *storage.Store
	Logger   log.Logger
}

func (r *Runner) logger() log.Logger {
	if r.Logger == nil {
		return log.NewNopLogger()
	}
	return r.Logger
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// ResolveParams resolves the parameters of a step against its experiment preset.
func (s ScenarioStep) ResolveParams(exp experiment.Experiment) (config.Params, error) {
	p := exp.Params
	if s.Params.Kind != 0 {
		if err := s.Params.Decode(&p); err != nil {
			return p, err
		}
	}
	return p, p.Validate()
}

// RunScenario executes every step in order and stops at the first failure.
// Results of the steps that finished are returned along with the error.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	logger := log.With(r.logger(), "scenario", scenario.Name)
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		level.Info(logger).Log("msg", "running step", "step", i+1, "of", len(scenario.Steps), "experiment", step.Experiment)

		exp, err := r.Registry.Get(step.Experiment)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		p, err := step.ResolveParams(exp)
		if err != nil {
			return results, fmt.Errorf("step %d params: %w", i+1, err)
		}
		if step.Frames <= 0 {
			return results, fmt.Errorf("step %d: frames must be positive, got %d", i+1, step.Frames)
		}

		session := pipeline.New(r.Factory, pipeline.DiscardSurfaces(), pipeline.WithLogger(logger))
		if err := session.Reset(exp, p); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		if err := session.Run(ctx, step.Frames); err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		snap := storage.Capture(session)
		vx, vy := snap.Moments()
		res := StepResult{
			Experiment: exp.Name,
			Params:     p,
			Frames:     step.Frames,
			Drift:      snap.Drift,
			MomentsVx:  vx,
			MomentsVy:  vy,
		}

		if r.Store != nil {
			id, err := r.Store.SaveAs(step.SaveAs, snap)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			res.RunID = id
		}

		results = append(results, res)
	}

	return results, nil
}

// ParameterSweep runs an experiment once per value of one parameter.
type ParameterSweep struct {
	Experiment string
	ParamName  string
	ParamMin   float64
	ParamMax   float64
	NumSteps   int
	Frames     int
	Base       *config.Params
}

// SweepResult holds the averaged distribution width at one parameter value.
type SweepResult struct {
	ParamValue float64
	StdDevVx   float64
	StdDevVy   float64
	Drift      float64
}

func (r *Runner) RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	exp, err := r.Registry.Get(sweep.Experiment)
	if err != nil {
		return nil, err
	}
	base := exp.Params
	if sweep.Base != nil {
		base = *sweep.Base
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		p := base
		if err := SetParam(&p, sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		session := pipeline.New(r.Factory, pipeline.DiscardSurfaces())
		if err := session.Reset(exp, p); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}
		if err := session.Run(ctx, sweep.Frames); err != nil {
			return nil, err
		}

		avx, avy := session.Averaged()
		sc := session.Scale()
		results = append(results, SweepResult{
			ParamValue: paramVal,
			StdDevVx:   analysis.Moments(avx, sc.Left, sc.Right).StdDev,
			StdDevVy:   analysis.Moments(avy, sc.Left, sc.Right).StdDev,
			Drift:      session.EnergyDrift(),
		})

		level.Info(r.logger()).Log("msg", "sweep step", "step", i+1, "of", sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// SetParam sets the parameter with the given YAML name. Integer parameters
// are rounded.
func SetParam(p *config.Params, name string, v float64) error {
	round := func(v float64) int { return int(v + 0.5) }
	switch name {
	case "particles":
		p.Particles = round(v)
	case "delta_time":
		p.DeltaTime = v
	case "particle_radius":
		p.ParticleRadius = v
	case "buckets":
		p.Buckets = round(v)
	case "histogram_width":
		p.HistogramWidth = v
	case "histogram_delay":
		p.HistogramDelay = round(v)
	case "averaging_weight":
		p.AveragingWeight = round(v)
	case "seed":
		p.Seed = int64(round(v))
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
