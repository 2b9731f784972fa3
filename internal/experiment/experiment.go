package experiment

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/gasviz/internal/config"
	"github.com/san-kum/gasviz/internal/dynamo"
)

// DistFunc places params.Particles particles through set.
type DistFunc func(p config.Params, rng *rand.Rand, set dynamo.SetFunc) error

type Experiment struct {
	Name        string
	Description string
	Params      config.Params
	Setup       DistFunc
}

// Seed places the particles of e into s using p. A zero seed picks a time
// based one.
func (e Experiment) Seed(s dynamo.Seeder, p config.Params) error {
	if e.Setup == nil {
		return fmt.Errorf("experiment %s: no distribution", e.Name)
	}
	if s.Particles() != p.Particles {
		return fmt.Errorf("experiment %s: engine holds %d particles, params want %d: %w",
			e.Name, s.Particles(), p.Particles, dynamo.ErrInvalidParams)
	}

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	if err := e.Setup(p, rng, s.SetParticle); err != nil {
		return fmt.Errorf("experiment %s: %w", e.Name, err)
	}
	return nil
}

func moveRight(p config.Params, rng *rand.Rand, set dynamo.SetFunc) error {
	for i := 0; i < p.Particles; i++ {
		x := rng.Float64()*0.4 + 0.3
		y := rng.Float64()*0.4 + 0.3
		vx := math.Sqrt2 * (rng.Float64()*0.01 + 1.0)
		if err := set(i, x, y, vx, 0); err != nil {
			return err
		}
	}
	return nil
}

func uniform(p config.Params, rng *rand.Rand, set dynamo.SetFunc) error {
	for i := 0; i < p.Particles; i++ {
		x := rng.Float64()
		y := rng.Float64()
		vx := rng.Float64() - 0.5
		vy := rng.Float64() - 0.5
		if err := set(i, x, y, vx, vy); err != nil {
			return err
		}
	}
	return nil
}

func uniformCentral(p config.Params, rng *rand.Rand, set dynamo.SetFunc) error {
	for i := 0; i < p.Particles; i++ {
		x := rng.Float64()*0.4 + 0.3
		y := rng.Float64()*0.4 + 0.3
		vx := rng.Float64() - 0.5
		vy := rng.Float64() - 0.5
		if err := set(i, x, y, vx, vy); err != nil {
			return err
		}
	}
	return nil
}

// bullet fires one fast particle into a slow cluster. The last particle is
// the bullet.
func bullet(p config.Params, rng *rand.Rand, set dynamo.SetFunc) error {
	for i := 0; i < p.Particles; i++ {
		x := rng.Float64()*0.5 + 0.4
		y := rng.Float64()*0.6 + 0.2
		vx := 0.1 * (rng.Float64() - 0.5)
		vy := 0.1 * (rng.Float64() - 0.5)
		if err := set(i, x, y, vx, vy); err != nil {
			return err
		}
	}
	return set(p.Particles-1, 0.1, 0.5, 30.0, 0.0)
}

func twoClusters(p config.Params, rng *rand.Rand, set dynamo.SetFunc) error {
	mid := (p.Particles + 1) / 2
	for i := 0; i < p.Particles; i++ {
		x := rng.Float64() * 0.4
		vx := 2.0 * (rng.Float64()*0.1 + 1.0)
		if i >= mid {
			x += 0.6
			vx = 2.0 * (rng.Float64()*0.1 - 1.0)
		}
		y := rng.Float64()*0.4 + 0.3
		vy := 0.1 * (rng.Float64() - 0.5)
		if err := set(i, x, y, vx, vy); err != nil {
			return err
		}
	}
	return nil
}

// oneD lines particles up on horizontal rows far enough apart that rows
// never interact, giving several one dimensional gases.
func oneD(p config.Params, rng *rand.Rand, set dynamo.SetFunc) error {
	rows := math.Max(1, 0.25/p.ParticleRadius)
	for i := 0; i < p.Particles; i++ {
		x := rng.Float64()
		y := (1 + math.Floor(rows*rng.Float64())) / (rows + 1)
		vx := rng.Float64() - 0.5
		if err := set(i, x, y, vx, 0); err != nil {
			return err
		}
	}
	return nil
}

func implosion(p config.Params, rng *rand.Rand, set dynamo.SetFunc) error {
	const rMin, rMax = 0.2, 0.25
	for i := 0; i < p.Particles; i++ {
		phi := 2 * math.Pi * rng.Float64()
		r := rMin + (rMax-rMin)*rng.Float64()
		cos, sin := math.Cos(phi), math.Sin(phi)
		if err := set(i, 0.5+r*cos, 0.5+r*sin, -cos, -sin); err != nil {
			return err
		}
	}
	return nil
}
