// Package registry exposes the potentials of this extension module under
// fixed export names for discovery by the host.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/resobee/potentials/internal/compute"
	"github.com/resobee/potentials/internal/pair"
	"github.com/resobee/potentials/internal/potential"
)

const (
	ModuleName = "resobee_hoomd_potentials"
	Version    = "0.1.0"
)

const gpuSuffix = "GPU"

var ErrUnknownExport = errors.New("registry: unknown export")

// Export is one registered potential variant.
type Export struct {
	Name      string
	Potential string
	GPU       bool

	ctor    pair.Constructor
	backend string
}

// NewPotential builds a fresh potential for this export.
func (e Export) NewPotential(defaultRCut float64, mode potential.Mode) (*potential.Pair, error) {
	return potential.New(e.Potential, e.ctor, defaultRCut, mode)
}

func (e Export) Constructor() pair.Constructor { return e.ctor }

// Backend builds the compute backend this variant runs on. The GPU variant
// fails with compute.ErrNoDevice when no device is present.
func (e Export) Backend() (compute.Backend, error) { return compute.ByName(e.backend) }

type Registry struct {
	exports map[string]Export
}

// New registers the CPU variant of every potential and, when compiled with
// the cuda tag, the GPU variant as well.
func New() *Registry {
	r := &Registry{exports: make(map[string]Export)}

	r.register(Export{
		Name:      "LymburnRepulsion",
		Potential: pair.LymburnName,
		ctor:      pair.NewLymburnEvaluator,
		backend:   "cpu",
	})

	if compute.GPUEnabled {
		r.register(Export{
			Name:      "LymburnRepulsion" + gpuSuffix,
			Potential: pair.LymburnName,
			GPU:       true,
			ctor:      pair.NewLymburnEvaluator,
			backend:   "gpu",
		})
	}

	return r
}

func (r *Registry) register(e Export) {
	r.exports[e.Name] = e
}

func (r *Registry) Lookup(name string) (Export, error) {
	e, ok := r.exports[name]
	if !ok {
		return Export{}, fmt.Errorf("%w: %s (module %s)", ErrUnknownExport, name, ModuleName)
	}
	return e, nil
}

// List returns the export names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.exports))
	for name := range r.exports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve picks the export variant and backend for a backend choice:
// "gpu" demands the GPU variant and a device, "cpu" the CPU variant, and
// "auto" takes the GPU variant only when a device is present.
func (r *Registry) Resolve(name, backend string) (Export, compute.Backend, error) {
	base := strings.TrimSuffix(name, gpuSuffix)
	if base != name && backend == "" {
		backend = "gpu"
	}

	switch backend {
	case "gpu", "cuda":
		e, err := r.Lookup(base + gpuSuffix)
		if err != nil {
			return Export{}, nil, fmt.Errorf("%w (build with -tags cuda)", err)
		}
		b, err := e.Backend()
		if err != nil {
			return Export{}, nil, err
		}
		return e, b, nil

	case "", "auto":
		if e, err := r.Lookup(base + gpuSuffix); err == nil {
			if b, err := e.Backend(); err == nil {
				return e, b, nil
			}
		}
		return r.resolveCPU(base)

	case "cpu":
		return r.resolveCPU(base)
	}

	return Export{}, nil, fmt.Errorf("%w: %s", compute.ErrUnknownBackend, backend)
}

func (r *Registry) resolveCPU(name string) (Export, compute.Backend, error) {
	e, err := r.Lookup(name)
	if err != nil {
		return Export{}, nil, err
	}
	b, err := e.Backend()
	if err != nil {
		return Export{}, nil, err
	}
	return e, b, nil
}
