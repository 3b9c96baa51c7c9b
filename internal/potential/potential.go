// Package potential adapts a pair evaluator to a particle system: it owns
// the per type-pair parameters and cutoffs and hands backends a flat table.
package potential

import (
	"errors"
	"fmt"
	"sort"

	"github.com/resobee/potentials/internal/pair"
)

var (
	ErrUnsupportedMode = errors.New("potential: unsupported energy mode")
	ErrMissingParams   = errors.New("potential: missing parameters for type pair")
	ErrBadCutoff       = errors.New("potential: cutoff must be non-negative")
)

// Mode selects how the pair energy is treated at the cutoff.
type Mode string

const (
	ModeNone  Mode = "none"
	ModeShift Mode = "shift"
	ModeXPLOR Mode = "xplor"
)

var acceptedModes = []Mode{ModeNone, ModeShift, ModeXPLOR}

func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeNone, nil
	}
	for _, m := range acceptedModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q (accepted: %v)", ErrUnsupportedMode, s, acceptedModes)
}

// EnergyShift reports whether evaluators are asked to shift V(r) to zero at
// the cutoff.
func (m Mode) EnergyShift() bool { return m == ModeShift || m == ModeXPLOR }

type typePair [2]string

func key(a, b string) typePair {
	if b < a {
		a, b = b, a
	}
	return typePair{a, b}
}

// Pair is a pair potential: an evaluator constructor plus its per type-pair
// parameters and cutoffs.
type Pair struct {
	name        string
	ctor        pair.Constructor
	mode        Mode
	DefaultRCut float64

	params map[typePair]pair.Params
	rcut   map[typePair]float64
}

func New(name string, ctor pair.Constructor, defaultRCut float64, mode Mode) (*Pair, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if defaultRCut < 0 {
		return nil, fmt.Errorf("%w: %v", ErrBadCutoff, defaultRCut)
	}
	if mode == "" {
		mode = ModeNone
	}
	return &Pair{
		name:        name,
		ctor:        ctor,
		mode:        mode,
		DefaultRCut: defaultRCut,
		params:      make(map[typePair]pair.Params),
		rcut:        make(map[typePair]float64),
	}, nil
}

// NewLymburn builds the Lymburn repulsion potential.
func NewLymburn(defaultRCut float64, mode Mode) (*Pair, error) {
	return New(pair.LymburnName, pair.NewLymburnEvaluator, defaultRCut, mode)
}

func (p *Pair) Name() string                  { return p.name }
func (p *Pair) Mode() Mode                    { return p.mode }
func (p *Pair) Constructor() pair.Constructor { return p.ctor }

// SetParams sets the parameters of the (a, b) type pair; order is irrelevant.
func (p *Pair) SetParams(a, b string, params pair.Params) {
	p.params[key(a, b)] = params
}

// SetParamsMap sets parameters from their key-value form.
func (p *Pair) SetParamsMap(a, b string, v map[string]any) error {
	params, err := pair.ParamsFromMap(v)
	if err != nil {
		return fmt.Errorf("params (%s, %s): %w", a, b, err)
	}
	p.SetParams(a, b, params)
	return nil
}

func (p *Pair) Params(a, b string) (pair.Params, bool) {
	v, ok := p.params[key(a, b)]
	return v, ok
}

func (p *Pair) SetRCut(a, b string, rcut float64) error {
	if rcut < 0 {
		return fmt.Errorf("%w: %v", ErrBadCutoff, rcut)
	}
	p.rcut[key(a, b)] = rcut
	return nil
}

func (p *Pair) RCut(a, b string) float64 {
	if v, ok := p.rcut[key(a, b)]; ok {
		return v
	}
	return p.DefaultRCut
}

// TypePairs lists configured type pairs in sorted order.
func (p *Pair) TypePairs() [][2]string {
	out := make([][2]string, 0, len(p.params))
	for k := range p.params {
		out = append(out, [2]string(k))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// ShapeSpec asks the evaluator for its shape definition.
func (p *Pair) ShapeSpec() (string, error) {
	return p.ctor(0, 0, pair.Params{}).ShapeSpec()
}

// NeedsCharge reports whether evaluators consume per-particle charges.
func (p *Pair) NeedsCharge() bool {
	return p.ctor(0, 0, pair.Params{}).NeedsCharge()
}

// LRC sums the evaluator's long-range correction integrals over the
// configured type pairs.
func (p *Pair) LRC() (pressure, energy float64) {
	for _, tp := range p.TypePairs() {
		rc := p.RCut(tp[0], tp[1])
		ev := p.ctor(rc*rc, rc*rc, p.params[key(tp[0], tp[1])])
		pressure += ev.EvalPressureLRCIntegral()
		energy += ev.EvalEnergyLRCIntegral()
	}
	return pressure, energy
}
