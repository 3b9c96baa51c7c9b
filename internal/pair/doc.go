// Package pair defines the pair potential evaluator contract and the
// Lymburn repulsion force law.
//
// An evaluator is constructed once per candidate particle pair from the
// squared separation, the squared cutoff and the per type-pair parameters:
//
//   - [Evaluator]: force/energy evaluation, charge and LRC hooks
//   - [Constructor]: builds an evaluator from (rsq, rcutsq, params)
//   - [LymburnRepulsion]: long-ranged 1/r repulsion with a cutoff
//   - [Params]: the single-field parameter record
//
// # Example
//
//	p, _ := pair.ParamsFromMap(map[string]any{"strength": 2.0})
//	ev := pair.NewLymburnRepulsion(rsq, rcutsq, p)
//	if fdivr, _, ok := ev.EvalForceAndEnergy(false); ok {
//	    fx += fdivr * dx
//	}
//
// # Thread Safety
//
// Evaluators are plain values with no shared state. Any number of them may be
// built and evaluated concurrently.
package pair
