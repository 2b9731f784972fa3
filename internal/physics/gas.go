package physics

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/gasviz/internal/dynamo"
)

// collisionEps2 avoids dividing by a vanishing center distance.
const collisionEps2 = 1e-12

const minParallelChunk = 512

type Gas struct {
	n         int
	radius    float64
	buckets   int
	halfWidth float64

	x, y, vx, vy []float64
	order        []int

	histVx, histVy []float64
	speedUnit      float64
	fixed          bool
}

var _ dynamo.Engine = (*Gas)(nil)
var _ dynamo.Thermometer = (*Gas)(nil)
var _ dynamo.Positioner = (*Gas)(nil)

func New(p dynamo.Params) (*Gas, error) {
	if p.Particles <= 0 || p.Buckets <= 0 || !(p.Radius > 0) || !(p.HistogramWidth > 0) {
		return nil, fmt.Errorf("%w: %+v", dynamo.ErrInvalidParams, p)
	}

	g := &Gas{
		n:         p.Particles,
		radius:    p.Radius,
		buckets:   p.Buckets,
		halfWidth: p.HistogramWidth,
		x:         make([]float64, p.Particles),
		y:         make([]float64, p.Particles),
		vx:        make([]float64, p.Particles),
		vy:        make([]float64, p.Particles),
		order:     make([]int, p.Particles),
		histVx:    make([]float64, p.Buckets),
		histVy:    make([]float64, p.Buckets),
	}
	for i := range g.order {
		g.order[i] = i
	}
	return g, nil
}

func (g *Gas) Particles() int  { return g.n }
func (g *Gas) Buckets() int    { return g.buckets }
func (g *Gas) Radius() float64 { return g.radius }

func (g *Gas) SetParticle(i int, x, y, vx, vy float64) error {
	if i < 0 || i >= g.n {
		return &dynamo.EngineError{Op: "set_particle", Index: i, Limit: g.n, Wrapped: dynamo.ErrParticleRange}
	}
	g.x[i], g.y[i] = x, y
	g.vx[i], g.vy[i] = vx, vy
	return nil
}

// FixParticles pulls every particle inside the walls and fixes the speed
// unit of the histograms to the current RMS speed.
func (g *Gas) FixParticles() error {
	lo, hi := g.radius, 1-g.radius
	for i := 0; i < g.n; i++ {
		g.x[i] = math.Min(hi, math.Max(lo, g.x[i]))
		g.y[i] = math.Min(hi, math.Max(lo, g.y[i]))
	}

	g.speedUnit = math.Sqrt(g.MeanSquareSpeed())
	if g.speedUnit == 0 || math.IsNaN(g.speedUnit) {
		g.speedUnit = 1
	}
	g.fixed = true
	return nil
}

func (g *Gas) Position(i int) (x, y float64) {
	if i < 0 || i >= g.n {
		return 0, 0
	}
	return g.x[i], g.y[i]
}

func (g *Gas) Velocity(i int) (vx, vy float64) {
	if i < 0 || i >= g.n {
		return 0, 0
	}
	return g.vx[i], g.vy[i]
}

func (g *Gas) MeanSquareSpeed() float64 {
	sum := 0.0
	for i := 0; i < g.n; i++ {
		sum += g.vx[i]*g.vx[i] + g.vy[i]*g.vy[i]
	}
	return sum / float64(g.n)
}

func (g *Gas) Step(dt float64) {
	g.updatePositions(dt)
	g.reflectWalls()
	g.collide()
}

func (g *Gas) updatePositions(dt float64) {
	dynamo.ParallelFor(g.n, minParallelChunk, func(start, end int) {
		for i := start; i < end; i++ {
			g.x[i] += g.vx[i] * dt
			g.y[i] += g.vy[i] * dt
		}
	})
}

func (g *Gas) reflectWalls() {
	lo, hi := g.radius, 1-g.radius
	dynamo.ParallelFor(g.n, minParallelChunk, func(start, end int) {
		for i := start; i < end; i++ {
			if (g.x[i] < lo && g.vx[i] < 0) || (g.x[i] > hi && g.vx[i] > 0) {
				g.vx[i] = -g.vx[i]
			}
			if (g.y[i] < lo && g.vy[i] < 0) || (g.y[i] > hi && g.vy[i] > 0) {
				g.vy[i] = -g.vy[i]
			}
		}
	})
}

// collide sweeps particles sorted by x so only pairs closer than one
// diameter along x are tested.
func (g *Gas) collide() {
	slices.SortFunc(g.order, func(a, b int) int {
		return cmp.Compare(g.x[a], g.x[b])
	})

	d := 2 * g.radius
	d2 := d * d

	for a := 0; a < g.n; a++ {
		i := g.order[a]
		for b := a + 1; b < g.n; b++ {
			j := g.order[b]
			if g.x[j]-g.x[i] > d {
				break
			}

			dx, dy := g.x[j]-g.x[i], g.y[j]-g.y[i]
			dist2 := dx*dx + dy*dy
			if dist2 > d2 || dist2 <= collisionEps2 {
				continue
			}
			g.reflect(i, j, dx, dy, math.Sqrt(dist2))
		}
	}
}

// reflect exchanges the velocity components along the line of centers of
// i and j, but only while they approach each other.
func (g *Gas) reflect(i, j int, dx, dy, dist float64) {
	ex, ey := dx/dist, dy/dist

	vi := g.vx[i]*ex + g.vy[i]*ey
	vj := g.vx[j]*ex + g.vy[j]*ey
	if vi-vj <= 0 {
		return
	}

	g.vx[i] += (vj - vi) * ex
	g.vy[i] += (vj - vi) * ey
	g.vx[j] += (vi - vj) * ex
	g.vy[j] += (vi - vj) * ey
}

func (g *Gas) ComputeHistogram() {
	for b := range g.histVx {
		g.histVx[b] = 0
		g.histVy[b] = 0
	}

	unit := g.speedUnit
	if !g.fixed {
		unit = math.Sqrt(g.MeanSquareSpeed())
	}
	if unit == 0 || math.IsNaN(unit) {
		unit = 1
	}

	for i := 0; i < g.n; i++ {
		g.histVx[g.bucketOf(g.vx[i]/unit)]++
		g.histVy[g.bucketOf(g.vy[i]/unit)]++
	}
}

func (g *Gas) bucketOf(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	rel := (v + g.halfWidth) / (2 * g.halfWidth)
	b := int(math.Floor(rel * float64(g.buckets)))
	if b < 0 {
		return 0
	}
	if b >= g.buckets {
		return g.buckets - 1
	}
	return b
}

func (g *Gas) BucketVx(i int) (float64, error) {
	if i < 0 || i >= g.buckets {
		return 0, &dynamo.EngineError{Op: "bucket_vx", Index: i, Limit: g.buckets, Wrapped: dynamo.ErrBucketRange}
	}
	return g.histVx[i], nil
}

func (g *Gas) BucketVy(i int) (float64, error) {
	if i < 0 || i >= g.buckets {
		return 0, &dynamo.EngineError{Op: "bucket_vy", Index: i, Limit: g.buckets, Wrapped: dynamo.ErrBucketRange}
	}
	return g.histVy[i], nil
}
