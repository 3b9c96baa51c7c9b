package compute

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
	"unsafe"

	"golang.org/x/sys/cpu"

	"github.com/resobee/potentials/internal/pair"
	"github.com/resobee/potentials/internal/potential"
	"github.com/resobee/potentials/internal/system"
)

// referenceForce is the analytic 1/r repulsion on a due to b. The cutoff is
// exclusive (rabs >= rcut gives zero), the same boundary the evaluator uses.
func referenceForce(a, b system.Vec3, rcut, strength float64, box system.Box) system.Vec3 {
	r := box.MinImage(b.Sub(a))
	rabs := r.Norm()
	if rabs >= rcut {
		return system.Vec3{}
	}
	return r.Scale(-strength / (rabs * rabs))
}

func referenceForces(sys *system.System, rcut, strength float64) []system.Vec3 {
	f := make([]system.Vec3, sys.N())
	for i := 0; i < sys.N(); i++ {
		for j := 0; j < i; j++ {
			fij := referenceForce(sys.Positions[i], sys.Positions[j], rcut, strength, sys.Box)
			f[i] = f[i].Add(fij)
			f[j] = f[j].Sub(fij)
		}
	}
	return f
}

func lymburnTable(t testing.TB, rcut, strength float64, types []string) *potential.Table {
	t.Helper()
	p, err := potential.NewLymburn(rcut, potential.ModeNone)
	if err != nil {
		t.Fatal(err)
	}
	for i := range types {
		for j := i; j < len(types); j++ {
			p.SetParams(types[i], types[j], pair.Params{Strength: strength})
		}
	}
	tbl, err := p.Table(types)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func assertForces(t *testing.T, got, want []system.Vec3, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d forces, want %d", len(got), len(want))
	}
	for i := range got {
		for k := 0; k < 3; k++ {
			if math.Abs(got[i][k]-want[i][k]) > tol {
				t.Fatalf("particle %d: force %v, want %v", i, got[i], want[i])
			}
		}
	}
}

func TestCPU_TwoParticleGrid(t *testing.T) {
	backend := NewCPUBackend()
	ctx := context.Background()

	for _, d := range []float64{0.1, 0.5, 1.0, 2.0, 5.0} {
		for _, rcut := range []float64{1.0, 2.0} {
			for _, strength := range []float64{2.0, 0.01} {
				for _, boxSize := range []float64{10.0, 20.0} {
					sys := system.TwoParticle(d, system.Cube(boxSize))
					tbl := lymburnTable(t, rcut, strength, sys.TypeNames)

					res, err := backend.PairForces(ctx, sys, tbl, pair.NewLymburnEvaluator)
					if err != nil {
						t.Fatalf("d=%v rcut=%v: %v", d, rcut, err)
					}
					assertForces(t, res.Forces, referenceForces(sys, rcut, strength), 1e-6)

					if res.TotalEnergy() != 0 {
						t.Errorf("d=%v: energy = %v, want 0", d, res.TotalEnergy())
					}
				}
			}
		}
	}
}

func TestCPU_ForceIsRepulsive(t *testing.T) {
	sys := system.TwoParticle(0.5, system.Cube(10))
	tbl := lymburnTable(t, 1, 2, sys.TypeNames)

	res, err := NewCPUBackend().PairForces(context.Background(), sys, tbl, pair.NewLymburnEvaluator)
	if err != nil {
		t.Fatal(err)
	}
	// particle 0 sits at -x, so it must be pushed towards -x
	if res.Forces[0][0] >= 0 || res.Forces[1][0] <= 0 {
		t.Errorf("forces not repulsive: %v", res.Forces)
	}
	if math.Abs(res.Forces[1][0]-4) > 1e-12 {
		t.Errorf("|F| = %v, want strength/r = 4", res.Forces[1][0])
	}
	if res.PairsEvaluated != 1 || res.PairsInRange != 1 {
		t.Errorf("pairs = %d/%d", res.PairsInRange, res.PairsEvaluated)
	}
}

func TestCPU_PeriodicImage(t *testing.T) {
	// 9 apart in a box of 10 is 1 apart through the boundary
	sys := &system.System{
		Box:       system.Cube(10),
		Positions: []system.Vec3{{-4.5, 0, 0}, {4.5, 0, 0}},
		Types:     []int{0, 0},
		TypeNames: []string{"A"},
	}
	tbl := lymburnTable(t, 2, 1, sys.TypeNames)

	res, err := NewCPUBackend().PairForces(context.Background(), sys, tbl, pair.NewLymburnEvaluator)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Forces[0][0]-1) > 1e-12 {
		t.Errorf("force across boundary = %v, want +1", res.Forces[0])
	}
}

func randomSystem(n int, box float64, seed int64) *system.System {
	rng := rand.New(rand.NewSource(seed))
	s := &system.System{
		Box:       system.Cube(box),
		Positions: make([]system.Vec3, n),
		Types:     make([]int, n),
		TypeNames: []string{"A", "B"},
	}
	for i := range s.Positions {
		for k := 0; k < 3; k++ {
			s.Positions[i][k] = (rng.Float64() - 0.5) * box
		}
		s.Types[i] = i % 2
	}
	return s
}

func TestCPU_SerialParallelAgree(t *testing.T) {
	sys := randomSystem(200, 8, 42)
	tbl := lymburnTable(t, 2.5, 0.3, sys.TypeNames)
	ctx := context.Background()

	serial, err := NewCPUBackendWorkers(1).PairForces(ctx, sys, tbl, pair.NewLymburnEvaluator)
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := NewCPUBackendWorkers(4).PairForces(ctx, sys, tbl, pair.NewLymburnEvaluator)
	if err != nil {
		t.Fatal(err)
	}

	assertForces(t, parallel.Forces, serial.Forces, 1e-8)
	if serial.PairsEvaluated != 200*199/2 || parallel.PairsEvaluated != serial.PairsEvaluated {
		t.Errorf("pairs evaluated: serial %d, parallel %d", serial.PairsEvaluated, parallel.PairsEvaluated)
	}
	if serial.PairsInRange != parallel.PairsInRange {
		t.Errorf("pairs in range: serial %d, parallel %d", serial.PairsInRange, parallel.PairsInRange)
	}
	if math.Abs(serial.Virial-parallel.Virial) > 1e-8*math.Abs(serial.Virial) {
		t.Errorf("virial: serial %v, parallel %v", serial.Virial, parallel.Virial)
	}

	var net system.Vec3
	for _, f := range parallel.Forces {
		net = net.Add(f)
	}
	if net.Norm() > 1e-8 {
		t.Errorf("net force = %v, want ~0", net)
	}
}

func TestCPU_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sys := randomSystem(100, 8, 1)
	tbl := lymburnTable(t, 2, 1, sys.TypeNames)

	for _, workers := range []int{1, 4} {
		_, err := NewCPUBackendWorkers(workers).PairForces(ctx, sys, tbl, pair.NewLymburnEvaluator)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
	}
}

func TestCPU_InvalidSystem(t *testing.T) {
	sys := system.TwoParticle(1, system.Box{})
	tbl := lymburnTable(t, 2, 1, []string{"A"})
	if _, err := NewCPUBackend().PairForces(context.Background(), sys, tbl, pair.NewLymburnEvaluator); !errors.Is(err, system.ErrEmptyBox) {
		t.Errorf("expected ErrEmptyBox, got %v", err)
	}
}

type chargedEval struct {
	rsq, rcutsq float64
	q           float64
}

func (c *chargedEval) EvalForceAndEnergy(bool) (float64, float64, bool) {
	if c.rsq >= c.rcutsq {
		return 0, 0, false
	}
	return c.q / c.rsq, c.q, true
}
func (c *chargedEval) NeedsCharge() bool                { return true }
func (c *chargedEval) SetCharge(qi, qj float64)         { c.q = qi * qj }
func (c *chargedEval) EvalPressureLRCIntegral() float64 { return 0 }
func (c *chargedEval) EvalEnergyLRCIntegral() float64   { return 0 }
func (c *chargedEval) ShapeSpec() (string, error)       { return "", pair.ErrShapeUnsupported }

func TestCPU_PassesCharges(t *testing.T) {
	ctor := func(rsq, rcutsq float64, _ pair.Params) pair.Evaluator {
		return &chargedEval{rsq: rsq, rcutsq: rcutsq}
	}
	p, _ := potential.New("charged", ctor, 3, potential.ModeNone)
	p.SetParams("A", "A", pair.Params{})

	sys := system.TwoParticle(1, system.Cube(10))
	sys.Charges = []float64{2, 3}
	tbl, err := p.Table(sys.TypeNames)
	if err != nil {
		t.Fatal(err)
	}

	res, err := NewCPUBackend().PairForces(context.Background(), sys, tbl, ctor)
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalEnergy() != 6 {
		t.Errorf("energy = %v, want qi*qj = 6", res.TotalEnergy())
	}
}

func TestCPU_CoincidentParticles(t *testing.T) {
	overlapping := &system.System{
		Box:       system.Cube(10),
		Positions: []system.Vec3{{0, 0, 0}, {0, 0, 0}, {1, 0, 0}},
		Types:     []int{0, 0, 0},
		TypeNames: []string{"A"},
	}
	large := randomSystem(2*parallelThreshold, 8, 3)
	large.Positions[70] = large.Positions[5]

	tests := []struct {
		name    string
		sys     *system.System
		backend *CPUBackend
	}{
		{"serial", overlapping, NewCPUBackendWorkers(1)},
		{"parallel", large, NewCPUBackendWorkers(4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := lymburnTable(t, 2, 1, tt.sys.TypeNames)
			res, err := tt.backend.PairForces(context.Background(), tt.sys, tbl, pair.NewLymburnEvaluator)
			if !errors.Is(err, ErrOverlap) {
				t.Fatalf("expected ErrOverlap, got %v", err)
			}
			if res != nil {
				t.Errorf("expected no result, got %d forces", len(res.Forces))
			}
		})
	}
}

func TestWorkerAccPadding(t *testing.T) {
	accs := make([]workerAcc, 2)
	stride := uintptr(unsafe.Pointer(&accs[1])) - uintptr(unsafe.Pointer(&accs[0]))
	if pad := unsafe.Sizeof(cpu.CacheLinePad{}); stride <= pad {
		t.Errorf("accumulator stride %d does not exceed cache line pad %d", stride, pad)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", "auto", "cpu"} {
		b, err := ByName(name)
		if err != nil || b == nil {
			t.Errorf("ByName(%q) = %v, %v", name, b, err)
		}
	}
	if _, err := ByName("tpu"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("expected ErrUnknownBackend, got %v", err)
	}
	if !GPUEnabled {
		if _, err := ByName("gpu"); !errors.Is(err, ErrNoDevice) {
			t.Errorf("expected ErrNoDevice, got %v", err)
		}
	}
}

func BenchmarkCPUPairForces(b *testing.B) {
	sys := randomSystem(512, 12, 7)
	tbl := lymburnTable(b, 3, 1, sys.TypeNames)
	backend := NewCPUBackend()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := backend.PairForces(ctx, sys, tbl, pair.NewLymburnEvaluator); err != nil {
			b.Fatal(err)
		}
	}
}
