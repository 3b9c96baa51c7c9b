package potential

import (
	"fmt"

	"github.com/resobee/potentials/internal/pair"
)

// Table is the flattened per type-pair data a backend needs, indexed by
// i*NumTypes+j and symmetric in i and j.
type Table struct {
	NumTypes    int
	Params      []pair.Params
	RCutSq      []float64
	EnergyShift bool
	NeedsCharge bool
}

func (t *Table) Index(i, j int) int { return i*t.NumTypes + j }

// MaxRCutSq returns the largest squared cutoff in the table.
func (t *Table) MaxRCutSq() float64 {
	m := 0.0
	for _, v := range t.RCutSq {
		if v > m {
			m = v
		}
	}
	return m
}

// Table resolves parameters for every combination of the given type names.
func (p *Pair) Table(types []string) (*Table, error) {
	n := len(types)
	t := &Table{
		NumTypes:    n,
		Params:      make([]pair.Params, n*n),
		RCutSq:      make([]float64, n*n),
		EnergyShift: p.mode.EnergyShift(),
		NeedsCharge: p.NeedsCharge(),
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			params, ok := p.Params(types[i], types[j])
			if !ok {
				return nil, fmt.Errorf("%w: (%s, %s)", ErrMissingParams, types[i], types[j])
			}
			rc := p.RCut(types[i], types[j])

			t.Params[t.Index(i, j)] = params
			t.Params[t.Index(j, i)] = params
			t.RCutSq[t.Index(i, j)] = rc * rc
			t.RCutSq[t.Index(j, i)] = rc * rc
		}
	}
	return t, nil
}
