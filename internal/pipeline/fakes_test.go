package pipeline_test

import (
	"sync"

	"github.com/san-kum/gasviz/internal/chart"
	"github.com/san-kum/gasviz/internal/config"
	"github.com/san-kum/gasviz/internal/dynamo"
	"github.com/san-kum/gasviz/internal/experiment"
	"github.com/san-kum/gasviz/internal/pipeline"
)

// fakeEngine reports a fixed value in every bucket, bumped by one per step.
type fakeEngine struct {
	particles int
	buckets   int
	level     float64
	steps     int
	histos    int
	fixed     bool
	mss       float64
}

func (f *fakeEngine) SetParticle(i int, x, y, vx, vy float64) error {
	if i < 0 || i >= f.particles {
		return dynamo.ErrParticleRange
	}
	return nil
}

func (f *fakeEngine) FixParticles() error { f.fixed = true; return nil }
func (f *fakeEngine) Particles() int      { return f.particles }
func (f *fakeEngine) Step(dt float64)     { f.steps++; f.level++ }
func (f *fakeEngine) ComputeHistogram()   { f.histos++ }
func (f *fakeEngine) Buckets() int        { return f.buckets }

func (f *fakeEngine) BucketVx(i int) (float64, error) {
	if i < 0 || i >= f.buckets {
		return 0, dynamo.ErrBucketRange
	}
	return f.level, nil
}

func (f *fakeEngine) BucketVy(i int) (float64, error) {
	if i < 0 || i >= f.buckets {
		return 0, dynamo.ErrBucketRange
	}
	return 2 * f.level, nil
}

func (f *fakeEngine) MeanSquareSpeed() float64 { return f.mss }

func (f *fakeEngine) Position(i int) (float64, float64) { return 0.5, 0.25 }
func (f *fakeEngine) Radius() float64                   { return 0.01 }

type fakeFactory struct {
	mu    sync.Mutex
	built []*fakeEngine
	// bucketSkew makes built engines disagree with the requested bucket count.
	bucketSkew int
}

func (ff *fakeFactory) build(p dynamo.Params) (dynamo.Engine, error) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	e := &fakeEngine{particles: p.Particles, buckets: p.Buckets + ff.bucketSkew, mss: 1}
	ff.built = append(ff.built, e)
	return e, nil
}

func (ff *fakeFactory) last() *fakeEngine { return ff.built[len(ff.built)-1] }

// countingSurface counts chart repaints, one ClearRect per Draw.
type countingSurface struct {
	w, h   int
	clears int
	fills  int
	colors []chart.Color
}

func (c *countingSurface) Size() (int, int)             { return c.w, c.h }
func (c *countingSurface) ClearRect(x, y, w, h float64) { c.clears++ }
func (c *countingSurface) FillRect(x, y, w, h float64, col chart.Color) {
	c.fills++
	c.colors = append(c.colors, col)
}
func (c *countingSurface) StrokeLine(x1, y1, x2, y2 float64, col chart.Color)         {}
func (c *countingSurface) Text(x, y float64, s string, col chart.Color, size float64) {}

func newSurfaces() (pipeline.Surfaces, []*countingSurface) {
	all := make([]*countingSurface, 4)
	for i := range all {
		all[i] = &countingSurface{w: 300, h: 600}
	}
	return pipeline.Surfaces{Vx: all[0], Vy: all[1], AvgVx: all[2], AvgVy: all[3]}, all
}

func smallParams() config.Params {
	p := config.DefaultParams()
	p.Particles = 100
	p.Buckets = 5
	p.Seed = 1
	return p
}

func uniformExperiment() experiment.Experiment {
	e, err := experiment.NewRegistry().Get("uniform")
	if err != nil {
		panic(err)
	}
	return e
}
