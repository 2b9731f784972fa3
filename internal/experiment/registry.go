package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gasviz/internal/config"
)

type Registry struct {
	experiments map[string]Experiment
}

func NewRegistry() *Registry {
	r := &Registry{experiments: make(map[string]Experiment)}

	r.add("move_right", "square block moving uniformly to the right", moveRight)
	r.add("uniform", "uniform positions and velocities", uniform)
	r.add("uniform_central", "uniform velocities, block at the center", uniformCentral)
	r.add("bullet", "one fast particle hitting a slow cluster", bullet)
	r.add("two_clusters_colliding", "two blocks flying into each other", twoClusters)
	r.add("oneD_big", "rows of large particles moving along x", oneD)
	r.add("oneD_many", "many rows of particles moving along x", oneD)
	r.add("big_particles", "a few big particles", uniform)
	r.add("implosion", "ring of particles moving toward the center", implosion)

	return r
}

func (r *Registry) add(name, desc string, fn DistFunc) {
	p, ok := config.GetPreset(name)
	if !ok {
		p = config.DefaultParams()
	}
	r.experiments[name] = Experiment{Name: name, Description: desc, Params: p, Setup: fn}
}

// Register adds or replaces an experiment.
func (r *Registry) Register(e Experiment) {
	r.experiments[e.Name] = e
}

func (r *Registry) Get(name string) (Experiment, error) {
	e, ok := r.experiments[name]
	if !ok {
		return Experiment{}, fmt.Errorf("unknown experiment: %s", name)
	}
	return e, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.experiments))
	for name := range r.experiments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next returns the experiment after name in List order, wrapping around.
func (r *Registry) Next(name string) Experiment {
	names := r.List()
	for i, n := range names {
		if n == name {
			return r.experiments[names[(i+1)%len(names)]]
		}
	}
	return r.experiments[names[0]]
}
