package compute

import (
	"sync"

	"github.com/resobee/potentials/internal/system"
)

// resultPool recycles force buffers between calls, one sync.Pool per
// particle count. Released buffers are zeroed before they are pooled.
type resultPool struct {
	mu    sync.Mutex
	pools map[int]*sync.Pool
}

var results resultPool

func (p *resultPool) sized(n int) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pools == nil {
		p.pools = make(map[int]*sync.Pool)
	}
	sp, ok := p.pools[n]
	if !ok {
		sp = &sync.Pool{
			New: func() interface{} {
				return &Result{
					Forces:   make([]system.Vec3, n),
					Energies: make([]float64, n),
				}
			},
		}
		p.pools[n] = sp
	}
	return sp
}

func (p *resultPool) get(n int) *Result {
	return p.sized(n).Get().(*Result)
}

func (p *resultPool) put(r *Result) {
	if r == nil || len(r.Forces) != len(r.Energies) {
		return
	}
	for i := range r.Forces {
		r.Forces[i] = system.Vec3{}
		r.Energies[i] = 0
	}
	r.Virial = 0
	r.PairsEvaluated = 0
	r.PairsInRange = 0
	p.sized(len(r.Forces)).Put(r)
}

// Release hands r back for reuse by a later PairForces call. r must not be
// used afterwards.
func Release(r *Result) {
	results.put(r)
}
