package pair

// LymburnName is the potential name reported to the host.
const LymburnName = "lymburn_repulsion"

// LymburnRepulsion is a long-ranged repulsion with F ~ 1/r (potential
// ~ ln r), truncated at the cutoff.
//
//	F_i = strength * (x_i - x_j) / |x_i - x_j|^2
type LymburnRepulsion struct {
	rsq      float64
	rcutsq   float64
	strength float64
}

var _ Evaluator = LymburnRepulsion{}

func NewLymburnRepulsion(rsq, rcutsq float64, p Params) LymburnRepulsion {
	return LymburnRepulsion{rsq: rsq, rcutsq: rcutsq, strength: p.Strength}
}

// NewLymburnEvaluator adapts NewLymburnRepulsion to Constructor.
func NewLymburnEvaluator(rsq, rcutsq float64, p Params) Evaluator {
	return NewLymburnRepulsion(rsq, rcutsq, p)
}

func (LymburnRepulsion) Name() string { return LymburnName }

func (LymburnRepulsion) NeedsCharge() bool        { return false }
func (LymburnRepulsion) SetCharge(qi, qj float64) {}

// EvalForceAndEnergy ignores energyShift: the pair energy is not
// implemented and is always reported as zero.
func (l LymburnRepulsion) EvalForceAndEnergy(energyShift bool) (float64, float64, bool) {
	if !(l.rsq < l.rcutsq) {
		return 0, 0, false
	}
	rinvsq := 1.0 / l.rsq
	return l.strength * rinvsq, 0, true
}

// LRC integrals are not evaluated for this potential.
func (LymburnRepulsion) EvalPressureLRCIntegral() float64 { return 0 }
func (LymburnRepulsion) EvalEnergyLRCIntegral() float64   { return 0 }

func (LymburnRepulsion) ShapeSpec() (string, error) {
	return "", ErrShapeUnsupported
}

// Evaluate is the pure-function form of the Lymburn force law.
func Evaluate(rsq, rcutsq float64, p Params) (ok bool, forceDivR, energy float64) {
	forceDivR, energy, ok = NewLymburnRepulsion(rsq, rcutsq, p).EvalForceAndEnergy(false)
	return ok, forceDivR, energy
}
