//go:build cuda

package compute

/*
#cgo CFLAGS: -I/opt/cuda/include
#cgo LDFLAGS: -L/opt/cuda/lib64 -L${SRCDIR} -lcudart -lkernels -lstdc++
#include <stdlib.h>

extern int cuda_device_count();
extern const char* cuda_device_name_get();
extern int lymburn_forces_gpu(const float* pos, const int* types, const float* strength,
                              const float* rcutsq, float* force, int n, int ntypes,
                              float lx, float ly, float lz);
*/
import "C"

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/resobee/potentials/internal/pair"
	"github.com/resobee/potentials/internal/potential"
	"github.com/resobee/potentials/internal/system"
)

// GPUEnabled reports whether the GPU variant was compiled in.
const GPUEnabled = true

type CUDABackend struct {
	available  bool
	deviceName string
}

func NewCUDABackend() *CUDABackend {
	count := int(C.cuda_device_count())
	name := ""
	if count > 0 {
		name = C.GoString(C.cuda_device_name_get())
	}
	return &CUDABackend{
		available:  count > 0,
		deviceName: name,
	}
}

func (c *CUDABackend) Name() string {
	if c.available {
		return "cuda (" + c.deviceName + ")"
	}
	return "cuda (not available)"
}

func (c *CUDABackend) Available() bool { return c.available }
func (c *CUDABackend) Cleanup()        {}

// PairForces runs the Lymburn repulsion kernel in single precision. Pair
// energies are not produced on the device; they are zero for this law.
func (c *CUDABackend) PairForces(ctx context.Context, sys *system.System, tbl *potential.Table, ctor pair.Constructor) (*Result, error) {
	if !c.available {
		return NewCPUBackend().PairForces(ctx, sys, tbl, ctor)
	}
	if err := checkInputs(sys, tbl); err != nil {
		return nil, err
	}

	n := sys.N()
	res := newResult(n)
	if n < 2 {
		return res, nil
	}

	posF := make([]float32, n*3)
	typesI := make([]C.int, n)
	for i, p := range sys.Positions {
		posF[i*3] = float32(p[0])
		posF[i*3+1] = float32(p[1])
		posF[i*3+2] = float32(p[2])
		typesI[i] = C.int(sys.Types[i])
	}
	strengthF := make([]float32, len(tbl.Params))
	rcutsqF := make([]float32, len(tbl.RCutSq))
	for i := range tbl.Params {
		strengthF[i] = float32(tbl.Params[i].Strength)
		rcutsqF[i] = float32(tbl.RCutSq[i])
	}
	forceF := make([]float32, n*3)

	rc := C.lymburn_forces_gpu(
		(*C.float)(unsafe.Pointer(&posF[0])),
		(*C.int)(unsafe.Pointer(&typesI[0])),
		(*C.float)(unsafe.Pointer(&strengthF[0])),
		(*C.float)(unsafe.Pointer(&rcutsqF[0])),
		(*C.float)(unsafe.Pointer(&forceF[0])),
		C.int(n),
		C.int(tbl.NumTypes),
		C.float(sys.Box.L[0]),
		C.float(sys.Box.L[1]),
		C.float(sys.Box.L[2]),
	)
	if rc != 0 {
		return nil, fmt.Errorf("compute: cuda kernel failed with code %d", int(rc))
	}

	for i := 0; i < n; i++ {
		res.Forces[i] = system.Vec3{float64(forceF[i*3]), float64(forceF[i*3+1]), float64(forceF[i*3+2])}
	}

	// pair statistics are cheap enough to take on the host
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := sys.Box.MinImage(sys.Positions[i].Sub(sys.Positions[j]))
			rsq := dx.Dot(dx)
			if rsq == 0 {
				results.put(res)
				return nil, overlapError(i, j)
			}
			idx := tbl.Index(sys.Types[i], sys.Types[j])
			res.PairsEvaluated++
			if rsq < tbl.RCutSq[idx] {
				res.PairsInRange++
				res.Virial += tbl.Params[idx].Strength
			}
		}
	}

	return res, ctx.Err()
}
