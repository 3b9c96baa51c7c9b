//go:build !cuda

package compute

import (
	"context"

	"github.com/resobee/potentials/internal/pair"
	"github.com/resobee/potentials/internal/potential"
	"github.com/resobee/potentials/internal/system"
)

// GPUEnabled reports whether the GPU variant was compiled in.
const GPUEnabled = false

type CUDABackend struct{}

func NewCUDABackend() *CUDABackend {
	return &CUDABackend{}
}

func (c *CUDABackend) Name() string    { return "cuda (not available)" }
func (c *CUDABackend) Available() bool { return false }
func (c *CUDABackend) Cleanup()        {}

func (c *CUDABackend) PairForces(ctx context.Context, sys *system.System, tbl *potential.Table, ctor pair.Constructor) (*Result, error) {
	return NewCPUBackend().PairForces(ctx, sys, tbl, ctor)
}
