package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/resobee/potentials/internal/pair"
	"github.com/resobee/potentials/internal/potential"
	"github.com/resobee/potentials/internal/system"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Export != "LymburnRepulsion" {
		t.Errorf("expected export LymburnRepulsion, got %s", cfg.Export)
	}
	if cfg.RCut <= 0 {
		t.Error("r_cut should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

const sampleYAML = `
export: LymburnRepulsion
backend: cpu
mode: shift
r_cut: 2.5
params:
  - types: [A, A]
    strength: 2
  - types: [A, B]
    strength: 0.01
    r_cut: 1.0
  - types: [B, B]
    strength: 0.5
system:
  kind: lattice
  n: 3
  spacing: 1.2
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cfg.Mode != "shift" || cfg.RCut != 2.5 || len(cfg.Params) != 3 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Params[1].RCut == nil || *cfg.Params[1].RCut != 1.0 {
		t.Errorf("params[1].r_cut = %v", cfg.Params[1].RCut)
	}
	if _, ok := cfg.Params[0].Values["types"]; ok {
		t.Error("types leaked into parameter values")
	}

	p, err := potential.NewLymburn(cfg.RCut, potential.Mode(cfg.Mode))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Apply(p); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	got, ok := p.Params("B", "A")
	if !ok || got != (pair.Params{Strength: 0.01}) {
		t.Errorf("params(B, A) = %+v, %v", got, ok)
	}
	if p.RCut("A", "B") != 1.0 || p.RCut("A", "A") != 2.5 {
		t.Errorf("cutoffs = %v, %v", p.RCut("A", "B"), p.RCut("A", "A"))
	}

	sys, err := cfg.BuildSystem()
	if err != nil {
		t.Fatal(err)
	}
	if sys.N() != 27 {
		t.Errorf("expected 27 particles, got %d", sys.N())
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"mode", "mode: smooth\n", potential.ErrUnsupportedMode},
		{"rcut", "r_cut: -1\n", ErrInvalidConfig},
		{"types", "params:\n  - types: [A]\n    strength: 1\n", ErrInvalidConfig},
		{"system", "system:\n  kind: fcc\n", ErrInvalidConfig},
		{"path", "system:\n  kind: lammpstrj\n", ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestApply_UnknownParam(t *testing.T) {
	cfg, err := Parse([]byte("params:\n  - types: [A, A]\n    epsilon: 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	p, _ := potential.NewLymburn(1, potential.ModeNone)
	if err := cfg.Apply(p); !errors.Is(err, pair.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := DefaultConfig()
	cfg.System.Distance = 0.5

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.System.Distance != 0.5 {
		t.Errorf("distance = %v", back.System.Distance)
	}
	p, err := pair.ParamsFromMap(back.Params[0].Values)
	if err != nil {
		t.Fatal(err)
	}
	if p.Strength != DefaultStrength {
		t.Errorf("strength = %v", p.Strength)
	}
}

func TestBuildSystem_Lammpstrj(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.lammpstrj")
	traj := "ITEM: TIMESTEP\n0\nITEM: NUMBER OF ATOMS\n2\nITEM: BOX BOUNDS pp pp pp\n0 10\n0 10\n0 10\nITEM: ATOMS id type x y z\n1 1 4 5 5\n2 1 6 5 5\n"
	if err := os.WriteFile(path, []byte(traj), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.System = SystemConfig{Kind: SystemLammpstrj, Path: path}
	sys, err := cfg.BuildSystem()
	if err != nil {
		t.Fatal(err)
	}
	if sys.N() != 2 {
		t.Errorf("expected 2 particles, got %d", sys.N())
	}
}

func TestBuildSystem_OutsideBox(t *testing.T) {
	tests := []struct {
		name string
		sys  SystemConfig
	}{
		{"lattice larger than box", SystemConfig{Kind: SystemLattice, N: 10, Spacing: 1, Box: 2}},
		{"separation larger than box", SystemConfig{Kind: SystemTwoParticle, Distance: 12, Box: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.System = tt.sys
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			_, err := cfg.BuildSystem()
			if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, system.ErrOutsideBox) {
				t.Errorf("expected ErrInvalidConfig wrapping ErrOutsideBox, got %v", err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("two_particle", "near")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.System.Distance != 0.5 {
		t.Errorf("expected distance 0.5, got %f", cfg.System.Distance)
	}
	for kind, presets := range Presets {
		for name, p := range presets {
			if err := p.Validate(); err != nil {
				t.Errorf("preset %s/%s invalid: %v", kind, name, err)
			}
		}
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("two_particle", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "near") != nil {
		t.Error("expected nil for nonexistent kind")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("two_particle")
	sort.Strings(presets)
	if len(presets) != 3 || presets[0] != "far" {
		t.Errorf("presets = %v", presets)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent kind")
	}
}
