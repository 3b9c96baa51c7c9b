package compute

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sys/cpu"

	"github.com/resobee/potentials/internal/pair"
	"github.com/resobee/potentials/internal/potential"
	"github.com/resobee/potentials/internal/system"
)

const parallelThreshold = 64

// workerAcc is one worker's running sums, padded so neighbouring workers
// never write to the same cache line.
type workerAcc struct {
	virial    float64
	evaluated int
	inRange   int
	err       error
	_         cpu.CacheLinePad
}

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

// NewCPUBackendWorkers pins the worker count; n < 1 means serial.
func NewCPUBackendWorkers(n int) *CPUBackend {
	if n < 1 {
		n = 1
	}
	return &CPUBackend{workers: n}
}

func (c *CPUBackend) Name() string {
	var feats []string
	switch {
	case cpu.X86.HasAVX512F:
		feats = append(feats, "avx512")
	case cpu.X86.HasAVX2:
		feats = append(feats, "avx2")
	case cpu.ARM64.HasASIMD:
		feats = append(feats, "neon")
	}
	feats = append(feats, fmt.Sprintf("%d workers", c.workers))
	return "cpu (" + strings.Join(feats, ", ") + ")"
}

func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) PairForces(ctx context.Context, sys *system.System, tbl *potential.Table, ctor pair.Constructor) (*Result, error) {
	if err := checkInputs(sys, tbl); err != nil {
		return nil, err
	}

	if sys.N() < parallelThreshold || c.workers <= 1 {
		return c.pairSerial(ctx, sys, tbl, ctor)
	}
	return c.pairParallel(ctx, sys, tbl, ctor)
}

// pairSerial visits each pair once and applies the force to both ends.
func (c *CPUBackend) pairSerial(ctx context.Context, sys *system.System, tbl *potential.Table, ctor pair.Constructor) (*Result, error) {
	n := sys.N()
	res := newResult(n)
	pos := sys.Positions

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			results.put(res)
			return nil, err
		}
		for j := i + 1; j < n; j++ {
			dx := sys.Box.MinImage(pos[i].Sub(pos[j]))
			rsq := dx.Dot(dx)
			if rsq == 0 {
				results.put(res)
				return nil, overlapError(i, j)
			}
			idx := tbl.Index(sys.Types[i], sys.Types[j])

			ev := ctor(rsq, tbl.RCutSq[idx], tbl.Params[idx])
			if tbl.NeedsCharge {
				ev.SetCharge(sys.Charge(i), sys.Charge(j))
			}
			res.PairsEvaluated++

			fdivr, eng, ok := ev.EvalForceAndEnergy(tbl.EnergyShift)
			if !ok {
				continue
			}
			res.PairsInRange++

			f := dx.Scale(fdivr)
			res.Forces[i] = res.Forces[i].Add(f)
			res.Forces[j] = res.Forces[j].Sub(f)
			res.Energies[i] += 0.5 * eng
			res.Energies[j] += 0.5 * eng
			res.Virial += fdivr * rsq
		}
	}
	return res, nil
}

// pairParallel gives each worker a contiguous block of i and loops j over
// every other particle, so each worker only writes its own rows.
func (c *CPUBackend) pairParallel(ctx context.Context, sys *system.System, tbl *potential.Table, ctor pair.Constructor) (*Result, error) {
	n := sys.N()
	res := newResult(n)
	pos := sys.Positions

	workers := c.workers
	if workers > n {
		workers = n
	}
	chunkSize := (n + workers - 1) / workers

	partials := make([]workerAcc, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(worker, start, end int) {
			defer wg.Done()
			acc := &partials[worker]

			for i := start; i < end; i++ {
				if ctx.Err() != nil {
					return
				}
				var fi system.Vec3
				for j := 0; j < n; j++ {
					if i == j {
						continue
					}
					dx := sys.Box.MinImage(pos[i].Sub(pos[j]))
					rsq := dx.Dot(dx)
					if rsq == 0 {
						acc.err = overlapError(min(i, j), max(i, j))
						return
					}
					idx := tbl.Index(sys.Types[i], sys.Types[j])

					ev := ctor(rsq, tbl.RCutSq[idx], tbl.Params[idx])
					if tbl.NeedsCharge {
						ev.SetCharge(sys.Charge(i), sys.Charge(j))
					}
					if j > i {
						acc.evaluated++
					}

					fdivr, eng, ok := ev.EvalForceAndEnergy(tbl.EnergyShift)
					if !ok {
						continue
					}
					if j > i {
						acc.inRange++
					}

					fi = fi.Add(dx.Scale(fdivr))
					res.Energies[i] += 0.5 * eng
					acc.virial += 0.5 * fdivr * rsq
				}
				res.Forces[i] = fi
			}
		}(w, start, end)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		results.put(res)
		return nil, err
	}
	for _, p := range partials {
		if p.err != nil {
			results.put(res)
			return nil, p.err
		}
	}

	for _, p := range partials {
		res.Virial += p.virial
		res.PairsEvaluated += p.evaluated
		res.PairsInRange += p.inRange
	}
	return res, nil
}
