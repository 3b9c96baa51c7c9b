package compute

import (
	"context"
	"errors"
	"fmt"

	"github.com/resobee/potentials/internal/pair"
	"github.com/resobee/potentials/internal/potential"
	"github.com/resobee/potentials/internal/system"
)

var (
	ErrUnknownBackend = errors.New("compute: unknown backend")
	ErrNoDevice       = errors.New("compute: gpu backend not available")
	ErrOverlap        = errors.New("compute: coincident particles")
)

type Backend interface {
	Name() string
	Available() bool
	PairForces(ctx context.Context, sys *system.System, tbl *potential.Table, ctor pair.Constructor) (*Result, error)
	Cleanup()
}

// Result holds per-particle forces and energies plus pair statistics.
type Result struct {
	Forces         []system.Vec3
	Energies       []float64
	Virial         float64
	PairsEvaluated int
	PairsInRange   int
}

func newResult(n int) *Result {
	return results.get(n)
}

// TotalEnergy sums the per-particle energies.
func (r *Result) TotalEnergy() float64 {
	sum := 0.0
	for _, e := range r.Energies {
		sum += e
	}
	return sum
}

// ByName builds the backend for "cpu" or "gpu". "auto" and the empty name
// take the GPU when a device is present and the CPU otherwise.
func ByName(name string) (Backend, error) {
	switch name {
	case "", "auto":
		if cuda := NewCUDABackend(); cuda.Available() {
			return cuda, nil
		}
		return NewCPUBackend(), nil
	case "cpu":
		return NewCPUBackend(), nil
	case "gpu", "cuda":
		cuda := NewCUDABackend()
		if !cuda.Available() {
			return nil, ErrNoDevice
		}
		return cuda, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}
}

func overlapError(i, j int) error {
	return fmt.Errorf("%w: particles %d and %d", ErrOverlap, i, j)
}

func checkInputs(sys *system.System, tbl *potential.Table) error {
	if err := sys.Validate(); err != nil {
		return err
	}
	if tbl.NumTypes < len(sys.TypeNames) {
		return fmt.Errorf("compute: table covers %d types, system has %d", tbl.NumTypes, len(sys.TypeNames))
	}
	return nil
}
