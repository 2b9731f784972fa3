package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/san-kum/gasviz/internal/config"
	"github.com/san-kum/gasviz/internal/experiment"
)

var (
	particles int
	dt        float64
	radius    float64
	buckets   int
	width     float64
	delay     int
	weight    int
	seed      int64
)

func addParamFlags(cmd *cobra.Command) {
	d := config.DefaultParams()
	cmd.Flags().IntVar(&particles, "particles", d.Particles, "number of particles")
	cmd.Flags().Float64Var(&dt, "dt", d.DeltaTime, "timestep")
	cmd.Flags().Float64Var(&radius, "radius", d.ParticleRadius, "particle radius")
	cmd.Flags().IntVar(&buckets, "buckets", d.Buckets, "histogram buckets")
	cmd.Flags().Float64Var(&width, "width", d.HistogramWidth, "histogram half-width in std-devs")
	cmd.Flags().IntVar(&delay, "delay", d.HistogramDelay, "frames between redraws")
	cmd.Flags().IntVar(&weight, "weight", d.AveragingWeight, "running average weight")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 for time based")
}

// resolveConfig layers the experiment preset, the config file and the
// flags that were set explicitly, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	if configFile != "" && name == "" {
		var fromFile config.Config
		if err := config.LoadInto(configFile, &fromFile); err != nil {
			return nil, fmt.Errorf("config %s: %w", configFile, err)
		}
		name = fromFile.Experiment
	}
	if name == "" {
		name = config.DefaultExperiment
	}

	exp, err := experiment.NewRegistry().Get(name)
	if err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	cfg.Params = exp.Params
	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", configFile, err)
		}
	}
	cfg.Experiment = name

	flags := cmd.Flags()
	if flags.Changed("particles") {
		cfg.Params.Particles = particles
	}
	if flags.Changed("dt") {
		cfg.Params.DeltaTime = dt
	}
	if flags.Changed("radius") {
		cfg.Params.ParticleRadius = radius
	}
	if flags.Changed("buckets") {
		cfg.Params.Buckets = buckets
	}
	if flags.Changed("width") {
		cfg.Params.HistogramWidth = width
	}
	if flags.Changed("delay") {
		cfg.Params.HistogramDelay = delay
	}
	if flags.Changed("weight") {
		cfg.Params.AveragingWeight = weight
	}
	if flags.Changed("seed") {
		cfg.Params.Seed = seed
	}

	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer) (log.Logger, error) {
	var allow level.Option
	switch strings.ToLower(logLevel) {
	case "debug":
		allow = level.AllowDebug()
	case "info", "":
		allow = level.AllowInfo()
	case "warn":
		allow = level.AllowWarn()
	case "error":
		allow = level.AllowError()
	default:
		return nil, fmt.Errorf("unknown log level %q", logLevel)
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, allow)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return logger, nil
}
