package analysis

import (
	"github.com/resobee/potentials/internal/pair"
)

type Point struct {
	R         float64 `json:"r"`
	ForceDivR float64 `json:"force_divr"`
	Force     float64 `json:"force"`
	Energy    float64 `json:"energy"`
	InRange   bool    `json:"in_range"`
}

type Curve []Point

// ForceCurve evaluates the potential at n separations in [rmin, rmax].
// Points beyond the cutoff report zero force.
func ForceCurve(ctor pair.Constructor, p pair.Params, rcut, rmin, rmax float64, n int) Curve {
	if n < 2 {
		n = 2
	}
	rcutsq := rcut * rcut
	step := (rmax - rmin) / float64(n-1)

	out := make(Curve, n)
	for i := 0; i < n; i++ {
		r := rmin + float64(i)*step
		pt := Point{R: r}
		fdivr, eng, ok := ctor(r*r, rcutsq, p).EvalForceAndEnergy(false)
		if ok {
			pt.ForceDivR = fdivr
			pt.Force = fdivr * r
			pt.Energy = eng
			pt.InRange = true
		}
		out[i] = pt
	}
	return out
}

func (c Curve) Forces() []float64 {
	out := make([]float64, len(c))
	for i, pt := range c {
		out[i] = pt.Force
	}
	return out
}

// LastInRange returns the largest sampled separation inside the cutoff, or
// -1 when no point is in range.
func (c Curve) LastInRange() float64 {
	last := -1.0
	for _, pt := range c {
		if pt.InRange {
			last = pt.R
		}
	}
	return last
}
