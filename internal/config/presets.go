package config

import "sort"

func with(mod func(p *Params)) Params {
	p := DefaultParams()
	mod(&p)
	return p
}

// Presets holds the parameter set of every named experiment.
var Presets = map[string]Params{
	"move_right":      DefaultParams(),
	"uniform":         DefaultParams(),
	"uniform_central": DefaultParams(),
	"bullet": with(func(p *Params) {
		p.Particles = 1000
		p.ParticleRadius = 0.008
	}),
	"two_clusters_colliding": with(func(p *Params) {
		p.ParticleRadius = 0.004
	}),
	"oneD_big": with(func(p *Params) {
		p.Particles = 300
		p.DeltaTime = 0.01
		p.ParticleRadius = 0.01
		p.Buckets = 21
		p.AveragingWeight = 2000
	}),
	"oneD_many": with(func(p *Params) {
		p.DeltaTime = 0.005
		p.ParticleRadius = 0.004
		p.Buckets = 21
		p.AveragingWeight = 600
	}),
	"big_particles": with(func(p *Params) {
		p.Particles = 30
		p.DeltaTime = 0.01
		p.ParticleRadius = 0.05
		p.Buckets = 21
		p.AveragingWeight = 1000
	}),
	"implosion": DefaultParams(),
}

// GetPreset returns a copy of the named parameter set.
func GetPreset(name string) (Params, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
