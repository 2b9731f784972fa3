package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/gasviz/internal/analysis"
	"github.com/san-kum/gasviz/internal/chart"
	"github.com/san-kum/gasviz/internal/config"
	"github.com/san-kum/gasviz/internal/dynamo"
	"github.com/san-kum/gasviz/internal/experiment"
	"github.com/san-kum/gasviz/internal/metrics"
	"github.com/san-kum/gasviz/internal/scale"
)

const (
	TitleVx    = "Distribution of v_x"
	TitleVy    = "Distribution of v_y"
	TitleAvgVx = "Averaged distr. of v_x"
	TitleAvgVy = "Averaged distr. of v_y"
	XLabel     = "(units of std-dev of v_tot)"

	driftLogEvery = 600
)

var ErrNotReady = errors.New("pipeline: session has no valid configuration, reset it first")

// EngineFactory builds a fresh engine for every reset.
type EngineFactory func(p dynamo.Params) (dynamo.Engine, error)

// Surfaces receive the four charts of a session.
type Surfaces struct {
	Vx, Vy       chart.Surface
	AvgVx, AvgVy chart.Surface
}

// Palette colors every chart of a session. Empty colors take the chart
// defaults.
type Palette struct {
	Grid, Text, Bar, Critical chart.Color
}

// ScaleInfo is the display range chosen at the last reset.
type ScaleInfo struct {
	Height   int
	GridStep int
	Left     float64
	Right    float64
}

type Particle struct {
	X, Y float64
}

type Option func(*Session)

func WithLogger(logger log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

func WithInstruments(in Instruments) Option {
	return func(s *Session) { s.inst = in.withDefaults() }
}

func WithPalette(p Palette) Option {
	return func(s *Session) { s.palette = p }
}

// Session owns the engine, the running averages and the charts of one
// experiment. It is not safe for concurrent use.
type Session struct {
	factory  EngineFactory
	surfaces Surfaces
	logger   log.Logger
	inst     Instruments
	palette  Palette

	engine dynamo.Engine
	exp    experiment.Experiment
	params config.Params
	scale  ScaleInfo
	curve  *chart.Curve

	rawVx, rawVy []float64
	avgVx, avgVy *metrics.RunningAverage
	charts       [4]*chart.Chart
	drift        *metrics.EnergyDrift

	frame  int
	paused bool
	ready  bool
}

func New(factory EngineFactory, surfaces Surfaces, opts ...Option) *Session {
	s := &Session{
		factory:  factory,
		surfaces: surfaces,
		logger:   log.NewNopLogger(),
		inst:     DiscardInstruments(),
		paused:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reset rebuilds the session for exp with p and draws the initial frame.
// The session is left paused at frame 0. On error the session refuses to
// tick until a later Reset succeeds.
func (s *Session) Reset(exp experiment.Experiment, p config.Params) error {
	s.ready = false
	s.paused = true
	s.frame = 0

	if err := s.reset(exp, p); err != nil {
		level.Error(s.logger).Log("msg", "reset failed", "experiment", exp.Name, "err", err)
		return err
	}

	s.ready = true
	level.Info(s.logger).Log(
		"msg", "session reset",
		"experiment", exp.Name,
		"particles", p.Particles,
		"buckets", p.Buckets,
		"height", s.scale.Height,
		"grid_step", s.scale.GridStep,
	)
	return nil
}

func (s *Session) reset(exp experiment.Experiment, p config.Params) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("reset %s: %w", exp.Name, err)
	}

	engine, err := s.factory(p.EngineParams())
	if err != nil {
		return fmt.Errorf("reset %s: build engine: %w", exp.Name, err)
	}
	if engine.Buckets() != p.Buckets {
		return fmt.Errorf("reset %s: engine has %d buckets, want %d: %w",
			exp.Name, engine.Buckets(), p.Buckets, chart.ErrBucketMismatch)
	}
	if err := exp.Seed(engine, p); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := engine.FixParticles(); err != nil {
		return fmt.Errorf("reset %s: fix particles: %w", exp.Name, err)
	}

	height, err := scale.DisplayHeight(p.Particles, p.Buckets, p.HistogramWidth)
	if err != nil {
		return fmt.Errorf("reset %s: %w", exp.Name, err)
	}
	height = max(1, height)

	xs, ys, err := analysis.Equilibrium(p.Particles, p.Buckets, p.HistogramWidth, analysis.DefaultCurvePoints)
	if err != nil {
		return fmt.Errorf("reset %s: %w", exp.Name, err)
	}

	avgVx, err := metrics.NewRunningAverage(p.Buckets, p.AveragingWeight)
	if err != nil {
		return fmt.Errorf("reset %s: %w", exp.Name, err)
	}
	avgVy, err := metrics.NewRunningAverage(p.Buckets, p.AveragingWeight)
	if err != nil {
		return fmt.Errorf("reset %s: %w", exp.Name, err)
	}

	s.engine = engine
	s.exp = exp
	s.params = p
	s.scale = ScaleInfo{
		Height:   height,
		GridStep: scale.GridStep(float64(height)),
		Left:     -p.HistogramWidth,
		Right:    p.HistogramWidth,
	}
	s.curve = &chart.Curve{X: xs, Y: ys}
	s.rawVx = make([]float64, p.Buckets)
	s.rawVy = make([]float64, p.Buckets)
	s.avgVx, s.avgVy = avgVx, avgVy

	s.drift = metrics.NewEnergyDrift()
	if th, ok := engine.(dynamo.Thermometer); ok {
		s.drift.Observe(th.MeanSquareSpeed())
	}

	if err := s.buildCharts(); err != nil {
		return fmt.Errorf("reset %s: %w", exp.Name, err)
	}

	engine.ComputeHistogram()
	if err := s.readSeries(); err != nil {
		return fmt.Errorf("reset %s: %w", exp.Name, err)
	}
	if _, err := s.draw(); err != nil {
		return fmt.Errorf("reset %s: %w", exp.Name, err)
	}
	return nil
}

func (s *Session) buildCharts() error {
	surfaces := [4]chart.Surface{s.surfaces.Vx, s.surfaces.Vy, s.surfaces.AvgVx, s.surfaces.AvgVy}
	titles := [4]string{TitleVx, TitleVy, TitleAvgVx, TitleAvgVy}

	for i, surface := range surfaces {
		if surface == nil {
			return fmt.Errorf("%w: no surface for %q", chart.ErrInvalidLayout, titles[i])
		}
		c, err := chart.New(surface, chart.Layout{
			Buckets:       s.params.Buckets,
			Title:         titles[i],
			XLabel:        XLabel,
			GridColor:     s.palette.Grid,
			TextColor:     s.palette.Text,
			BarColor:      s.palette.Bar,
			CriticalColor: s.palette.Critical,
		})
		if err != nil {
			return err
		}
		s.charts[i] = c
	}
	return nil
}

// SetPalette recolors the charts and redraws the current frame.
func (s *Session) SetPalette(p Palette) error {
	s.palette = p
	if !s.ready {
		return nil
	}
	if err := s.buildCharts(); err != nil {
		s.ready = false
		return err
	}
	_, err := s.draw()
	return err
}

// Tick advances the engine one timestep, feeds both running averages and
// draws the charts every HistogramDelay frames.
func (s *Session) Tick() (drawn bool, err error) {
	if !s.ready {
		return false, ErrNotReady
	}
	start := time.Now()

	s.engine.Step(s.params.DeltaTime)
	s.engine.ComputeHistogram()
	if err := s.readSeries(); err != nil {
		return false, err
	}
	if err := s.avgVx.Observe(s.rawVx); err != nil {
		return false, err
	}
	if err := s.avgVy.Observe(s.rawVy); err != nil {
		return false, err
	}

	if th, ok := s.engine.(dynamo.Thermometer); ok {
		s.drift.Observe(th.MeanSquareSpeed())
	}

	if s.frame%s.params.HistogramDelay == 0 {
		clamped, err := s.draw()
		if err != nil {
			return false, err
		}
		s.inst.OffScale.Set(float64(clamped))
		s.inst.Draws.Add(1)
		drawn = true
	}

	if s.frame > 0 && s.frame%driftLogEvery == 0 {
		level.Debug(s.logger).Log("msg", "energy drift", "frame", s.frame, "drift", s.drift.Value())
	}

	s.frame++
	s.inst.Ticks.Add(1)
	s.inst.TickDuration.Observe(time.Since(start).Seconds())
	return drawn, nil
}

func (s *Session) readSeries() error {
	for i := range s.rawVx {
		vx, err := s.engine.BucketVx(i)
		if err != nil {
			return err
		}
		vy, err := s.engine.BucketVy(i)
		if err != nil {
			return err
		}
		s.rawVx[i] = vx
		s.rawVy[i] = vy
	}
	return nil
}

func (s *Session) draw() (clamped int, err error) {
	series := [4][]float64{
		s.rawVx,
		s.rawVy,
		s.avgVx.Values(),
		s.avgVy.Values(),
	}

	for i, c := range s.charts {
		n, err := c.Draw(chart.Frame{
			Values:   series[i],
			MaxValue: float64(s.scale.Height),
			GridStep: float64(s.scale.GridStep),
			Left:     s.scale.Left,
			Right:    s.scale.Right,
			Curve:    s.curve,
		})
		if err != nil {
			return clamped, err
		}
		clamped += n
	}
	return clamped, nil
}

// Run ticks frames times regardless of the pause flag. Cancellation is
// checked between ticks.
func (s *Session) Run(ctx context.Context, frames int) error {
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.Tick(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) Pause()       { s.paused = true }
func (s *Session) Resume()      { s.paused = false }
func (s *Session) TogglePause() { s.paused = !s.paused }
func (s *Session) Paused() bool { return s.paused }
func (s *Session) Ready() bool  { return s.ready }
func (s *Session) Frame() int   { return s.frame }

func (s *Session) Params() config.Params             { return s.params }
func (s *Session) Experiment() experiment.Experiment { return s.exp }
func (s *Session) Scale() ScaleInfo                  { return s.scale }

// Raw returns copies of the last v_x and v_y bucket series.
func (s *Session) Raw() (vx, vy []float64) {
	return append([]float64(nil), s.rawVx...), append([]float64(nil), s.rawVy...)
}

// Averaged returns copies of the running averages.
func (s *Session) Averaged() (vx, vy []float64) {
	if s.avgVx == nil {
		return nil, nil
	}
	return s.avgVx.Values(), s.avgVy.Values()
}

// Curve returns the equilibrium reference curve drawn over every chart.
func (s *Session) Curve() (xs, ys []float64) {
	if s.curve == nil {
		return nil, nil
	}
	return append([]float64(nil), s.curve.X...), append([]float64(nil), s.curve.Y...)
}

// EnergyDrift is the largest relative kinetic energy change seen since the
// last reset. It stays 0 for engines without a Thermometer.
func (s *Session) EnergyDrift() float64 {
	if s.drift == nil {
		return 0
	}
	return s.drift.Value()
}

// Particles returns every particle position and the particle radius. ok is
// false when the engine cannot report positions.
func (s *Session) Particles() (ps []Particle, radius float64, ok bool) {
	pos, isPos := s.engine.(dynamo.Positioner)
	if !isPos || s.engine == nil {
		return nil, 0, false
	}
	n := s.engine.Particles()
	ps = make([]Particle, n)
	for i := range ps {
		ps[i].X, ps[i].Y = pos.Position(i)
	}
	return ps, pos.Radius(), true
}
