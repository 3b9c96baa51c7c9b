// Package analysis samples a pair potential along the separation axis.
//
//   - [ForceCurve]: force and energy at evenly spaced separations
//   - [Curve.Forces]: the force column, ready for plotting
//
// # Example
//
//	c := analysis.ForceCurve(pair.NewLymburnEvaluator, pair.Params{Strength: 2}, 2.5, 0.1, 3, 200)
//	graph := asciigraph.Plot(c.Forces())
package analysis
