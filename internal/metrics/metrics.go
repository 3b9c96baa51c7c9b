// Package metrics reduces a force evaluation to scalar observables.
package metrics

import (
	"math"

	"github.com/resobee/potentials/internal/compute"
	"github.com/resobee/potentials/internal/system"
)

type Metric interface {
	Name() string
	Observe(r *compute.Result)
	Value() float64
	Reset()
}

// NetForce is |sum F_i|; pairwise forces should cancel to round-off.
type NetForce struct {
	sum system.Vec3
}

func NewNetForce() *NetForce { return &NetForce{} }

func (m *NetForce) Name() string { return "net_force" }

func (m *NetForce) Observe(r *compute.Result) {
	for _, f := range r.Forces {
		m.sum = m.sum.Add(f)
	}
}

func (m *NetForce) Value() float64 { return m.sum.Norm() }
func (m *NetForce) Reset()         { m.sum = system.Vec3{} }

type MaxForce struct {
	max float64
}

func NewMaxForce() *MaxForce { return &MaxForce{} }

func (m *MaxForce) Name() string { return "max_force" }

func (m *MaxForce) Observe(r *compute.Result) {
	for _, f := range r.Forces {
		m.max = math.Max(m.max, f.Norm())
	}
}

func (m *MaxForce) Value() float64 { return m.max }
func (m *MaxForce) Reset()         { m.max = 0 }

type PairsInRange struct {
	count int
}

func NewPairsInRange() *PairsInRange { return &PairsInRange{} }

func (m *PairsInRange) Name() string              { return "pairs_in_range" }
func (m *PairsInRange) Observe(r *compute.Result) { m.count += r.PairsInRange }
func (m *PairsInRange) Value() float64            { return float64(m.count) }
func (m *PairsInRange) Reset()                    { m.count = 0 }

// Virial accumulates sum over pairs of r . F.
type Virial struct {
	w float64
}

func NewVirial() *Virial { return &Virial{} }

func (m *Virial) Name() string              { return "virial" }
func (m *Virial) Observe(r *compute.Result) { m.w += r.Virial }
func (m *Virial) Value() float64            { return m.w }
func (m *Virial) Reset()                    { m.w = 0 }

// Defaults returns the metrics recorded for every run.
func Defaults() []Metric {
	return []Metric{NewNetForce(), NewMaxForce(), NewPairsInRange(), NewVirial()}
}

// Collect observes r with every metric and returns the values by name.
func Collect(ms []Metric, r *compute.Result) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		m.Observe(r)
		out[m.Name()] = m.Value()
	}
	return out
}
