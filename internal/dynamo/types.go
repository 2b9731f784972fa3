package dynamo

// Seeder places particles. SetParticle is called once per particle index,
// followed by a single FixParticles once every particle is placed.
type Seeder interface {
	SetParticle(i int, x, y, vx, vy float64) error
	FixParticles() error
	Particles() int
}

type Stepper interface {
	Step(dt float64)
}

// Histogrammer exposes per-bucket statistics of the velocity components.
type Histogrammer interface {
	ComputeHistogram()
	Buckets() int
	BucketVx(i int) (float64, error)
	BucketVy(i int) (float64, error)
}

type Engine interface {
	Seeder
	Stepper
	Histogrammer
}

type Thermometer interface {
	MeanSquareSpeed() float64
}

type Positioner interface {
	Position(i int) (x, y float64)
	Radius() float64
}

// Params are the engine construction parameters.
type Params struct {
	Particles      int
	Radius         float64
	Buckets        int
	HistogramWidth float64
}

// SetFunc matches Seeder.SetParticle so presets can seed any engine.
type SetFunc func(i int, x, y, vx, vy float64) error
