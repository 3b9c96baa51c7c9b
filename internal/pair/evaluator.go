package pair

// Evaluator computes the interaction of one particle pair. Implementations
// are built per pair by a Constructor and evaluated once.
type Evaluator interface {
	// EvalForceAndEnergy returns the force magnitude divided by r and the
	// pair energy. ok is false when the pair lies beyond the cutoff, in
	// which case the other results must not be used.
	EvalForceAndEnergy(energyShift bool) (forceDivR, pairEng float64, ok bool)

	NeedsCharge() bool
	SetCharge(qi, qj float64)

	EvalPressureLRCIntegral() float64
	EvalEnergyLRCIntegral() float64

	ShapeSpec() (string, error)
}

// Constructor builds an evaluator from the squared separation, the squared
// cutoff and the type-pair parameters.
type Constructor func(rsq, rcutsq float64, p Params) Evaluator
