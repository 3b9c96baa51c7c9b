// Package system holds the particle snapshot a pair potential is evaluated on.
package system

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrEmptyBox       = errors.New("system: box lengths must be positive")
	ErrLengthMismatch = errors.New("system: per-particle arrays differ in length")
	ErrBadType        = errors.New("system: particle type index out of range")
	ErrInvalidState   = errors.New("system: invalid position (NaN or Inf detected)")
	ErrOutsideBox     = errors.New("system: position outside the periodic box")
)

type Vec3 [3]float64

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v[0] * f, v[1] * f, v[2] * f}
}
func (v Vec3) Dot(o Vec3) float64 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }
func (v Vec3) Norm() float64      { return math.Sqrt(v.Dot(v)) }

// Box is an orthorhombic periodic box centred on the origin.
type Box struct {
	L Vec3 `yaml:"l" json:"l"`
}

func Cube(l float64) Box { return Box{L: Vec3{l, l, l}} }

// MinImage wraps a separation vector back into [-L/2, L/2] per axis.
func (b Box) MinImage(d Vec3) Vec3 {
	for k := 0; k < 3; k++ {
		l := b.L[k]
		if d[k] > 0.5*l {
			d[k] -= l
		} else if d[k] < -0.5*l {
			d[k] += l
		}
	}
	return d
}

func (b Box) Volume() float64 { return b.L[0] * b.L[1] * b.L[2] }

// System is a snapshot of N particles. Types index into TypeNames.
type System struct {
	Box       Box
	Positions []Vec3
	Types     []int
	TypeNames []string
	Charges   []float64
}

func (s *System) N() int { return len(s.Positions) }

func (s *System) Validate() error {
	for k := 0; k < 3; k++ {
		if !(s.Box.L[k] > 0) {
			return fmt.Errorf("%w: %v", ErrEmptyBox, s.Box.L)
		}
	}
	n := len(s.Positions)
	if len(s.Types) != n {
		return fmt.Errorf("%w: %d positions, %d types", ErrLengthMismatch, n, len(s.Types))
	}
	if s.Charges != nil && len(s.Charges) != n {
		return fmt.Errorf("%w: %d positions, %d charges", ErrLengthMismatch, n, len(s.Charges))
	}
	for i, t := range s.Types {
		if t < 0 || t >= len(s.TypeNames) {
			return fmt.Errorf("%w: particle %d has type %d", ErrBadType, i, t)
		}
	}
	for i, p := range s.Positions {
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: particle %d", ErrInvalidState, i)
			}
		}
		// MinImage wraps once, so positions must lie in [-L/2, L/2].
		for k, v := range p {
			if h := 0.5 * s.Box.L[k]; v < -h || v > h {
				return fmt.Errorf("%w: particle %d at %v, box %v", ErrOutsideBox, i, p, s.Box.L)
			}
		}
	}
	return nil
}

// Charge returns the charge of particle i, zero when charges are absent.
func (s *System) Charge(i int) float64 {
	if s.Charges == nil {
		return 0
	}
	return s.Charges[i]
}
