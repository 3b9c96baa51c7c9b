package system

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrTrajFormat = errors.New("system: malformed lammps trajectory")

// ReadLammpstrj reads the first configuration of a LAMMPS text trajectory.
// The ATOMS section must carry type and x y z (or xu yu zu) columns. LAMMPS
// numeric types are mapped to type names in order of first appearance.
func ReadLammpstrj(r io.Reader) (*System, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		n      = -1
		box    Box
		lo     Vec3
		gotBox bool
	)

	next := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("%w: unexpected end of file", ErrTrajFormat)
		}
		return strings.TrimSpace(sc.Text()), nil
	}

	for {
		line, err := next()
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(line, "ITEM:") {
			continue
		}
		item := strings.TrimSpace(strings.TrimPrefix(line, "ITEM:"))

		switch {
		case strings.HasPrefix(item, "NUMBER OF ATOMS"):
			l, err := next()
			if err != nil {
				return nil, err
			}
			n, err = strconv.Atoi(l)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: number of atoms %q", ErrTrajFormat, l)
			}

		case strings.HasPrefix(item, "BOX BOUNDS"):
			for k := 0; k < 3; k++ {
				l, err := next()
				if err != nil {
					return nil, err
				}
				f := strings.Fields(l)
				if len(f) < 2 {
					return nil, fmt.Errorf("%w: box bounds %q", ErrTrajFormat, l)
				}
				a, err1 := strconv.ParseFloat(f[0], 64)
				b, err2 := strconv.ParseFloat(f[1], 64)
				if err1 != nil || err2 != nil {
					return nil, fmt.Errorf("%w: box bounds %q", ErrTrajFormat, l)
				}
				lo[k] = a
				box.L[k] = b - a
			}
			gotBox = true

		case strings.HasPrefix(item, "ATOMS"):
			if n < 0 || !gotBox {
				return nil, fmt.Errorf("%w: ATOMS before NUMBER OF ATOMS or BOX BOUNDS", ErrTrajFormat)
			}
			return readAtoms(next, strings.Fields(strings.TrimPrefix(item, "ATOMS")), n, box, lo)
		}
	}
}

func readAtoms(next func() (string, error), cols []string, n int, box Box, lo Vec3) (*System, error) {
	colType, xyz := -1, [3]int{-1, -1, -1}
	for i, c := range cols {
		switch c {
		case "type":
			colType = i
		case "x", "xu":
			xyz[0] = i
		case "y", "yu":
			xyz[1] = i
		case "z", "zu":
			xyz[2] = i
		}
	}
	if colType < 0 || xyz[0] < 0 || xyz[1] < 0 || xyz[2] < 0 {
		return nil, fmt.Errorf("%w: missing type/x/y/z columns in %v", ErrTrajFormat, cols)
	}

	s := &System{
		Box:       box,
		Positions: make([]Vec3, n),
		Types:     make([]int, n),
	}
	typeIdx := make(map[string]int)

	for a := 0; a < n; a++ {
		l, err := next()
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(l)
		if len(fields) != len(cols) {
			return nil, fmt.Errorf("%w: atom %d: number of columns don't match", ErrTrajFormat, a)
		}

		name := fields[colType]
		idx, ok := typeIdx[name]
		if !ok {
			idx = len(s.TypeNames)
			typeIdx[name] = idx
			s.TypeNames = append(s.TypeNames, name)
		}
		s.Types[a] = idx

		for k := 0; k < 3; k++ {
			v, err := strconv.ParseFloat(fields[xyz[k]], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: atom %d: %v", ErrTrajFormat, a, err)
			}
			// shift to a box centred on the origin
			s.Positions[a][k] = v - lo[k] - 0.5*box.L[k]
		}
	}

	s.Wrap()
	return s, nil
}
