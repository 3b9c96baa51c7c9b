package system

import "math"

// TwoParticle places two particles of type A a distance d apart along x,
// symmetric about the origin.
func TwoParticle(d float64, box Box) *System {
	return &System{
		Box:       box,
		Positions: []Vec3{{-d / 2, 0, 0}, {d / 2, 0, 0}},
		Types:     []int{0, 0},
		TypeNames: []string{"A"},
	}
}

// Lattice builds a simple cubic arrangement of n^3 type A particles. The box
// is sized to the lattice when box has zero volume.
func Lattice(n int, spacing float64, box Box) *System {
	if n < 1 {
		n = 1
	}
	if box.Volume() == 0 {
		box = Cube(float64(n) * spacing)
	}

	total := n * n * n
	s := &System{
		Box:       box,
		Positions: make([]Vec3, 0, total),
		Types:     make([]int, 0, total),
		TypeNames: []string{"A"},
	}

	offset := -0.5 * float64(n-1) * spacing
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				s.Positions = append(s.Positions, Vec3{
					offset + float64(i)*spacing,
					offset + float64(j)*spacing,
					offset + float64(k)*spacing,
				})
				s.Types = append(s.Types, 0)
			}
		}
	}
	return s
}

// Wrap maps every position back into the box.
func (s *System) Wrap() {
	for i, p := range s.Positions {
		for k := 0; k < 3; k++ {
			l := s.Box.L[k]
			p[k] -= l * math.Floor(p[k]/l+0.5)
		}
		s.Positions[i] = p
	}
}
