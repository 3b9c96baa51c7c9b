package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/resobee/potentials/internal/potential"
	"github.com/resobee/potentials/internal/system"
)

const (
	DefaultExport   = "LymburnRepulsion"
	DefaultBackend  = "auto"
	DefaultMode     = "none"
	DefaultRCut     = 2.0
	DefaultStrength = 1.0
	DefaultDistance = 1.0
	DefaultBox      = 10.0
	DefaultSpacing  = 1.0
	DefaultN        = 4
)

const (
	SystemTwoParticle = "two_particle"
	SystemLattice     = "lattice"
	SystemLammpstrj   = "lammpstrj"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Export  string       `yaml:"export"`
	Backend string       `yaml:"backend"`
	Mode    string       `yaml:"mode"`
	RCut    float64      `yaml:"r_cut"`
	Params  []PairConfig `yaml:"params"`
	System  SystemConfig `yaml:"system"`
}

// PairConfig holds one type pair. Every key other than types and r_cut is
// passed to the potential as a parameter.
type PairConfig struct {
	Types  []string       `yaml:"types"`
	RCut   *float64       `yaml:"r_cut,omitempty"`
	Values map[string]any `yaml:",inline"`
}

type SystemConfig struct {
	Kind     string  `yaml:"kind"`
	Distance float64 `yaml:"distance,omitempty"`
	Box      float64 `yaml:"box,omitempty"`
	N        int     `yaml:"n,omitempty"`
	Spacing  float64 `yaml:"spacing,omitempty"`
	Path     string  `yaml:"path,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Export:  DefaultExport,
		Backend: DefaultBackend,
		Mode:    DefaultMode,
		RCut:    DefaultRCut,
		Params: []PairConfig{
			{Types: []string{"A", "A"}, Values: map[string]any{"strength": DefaultStrength}},
		},
		System: SystemConfig{
			Kind:     SystemTwoParticle,
			Distance: DefaultDistance,
			Box:      DefaultBox,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := potential.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.RCut < 0 {
		return fmt.Errorf("%w: r_cut %v", ErrInvalidConfig, c.RCut)
	}
	for i, p := range c.Params {
		if len(p.Types) != 2 {
			return fmt.Errorf("%w: params[%d]: types must name two particle types", ErrInvalidConfig, i)
		}
		if p.RCut != nil && *p.RCut < 0 {
			return fmt.Errorf("%w: params[%d]: r_cut %v", ErrInvalidConfig, i, *p.RCut)
		}
	}
	switch c.System.Kind {
	case SystemTwoParticle, SystemLattice:
	case SystemLammpstrj:
		if c.System.Path == "" {
			return fmt.Errorf("%w: system.path is required for %s", ErrInvalidConfig, SystemLammpstrj)
		}
	default:
		return fmt.Errorf("%w: unknown system kind %q", ErrInvalidConfig, c.System.Kind)
	}
	return nil
}

// Apply copies parameters and per-pair cutoffs onto p.
func (c *Config) Apply(p *potential.Pair) error {
	for _, pc := range c.Params {
		if err := p.SetParamsMap(pc.Types[0], pc.Types[1], pc.Values); err != nil {
			return err
		}
		if pc.RCut != nil {
			if err := p.SetRCut(pc.Types[0], pc.Types[1], *pc.RCut); err != nil {
				return err
			}
		}
	}
	return nil
}

// BuildSystem creates the configured particle snapshot and validates it.
func (c *Config) BuildSystem() (*system.System, error) {
	sys, err := c.buildSystem()
	if err != nil {
		return nil, err
	}
	if err := sys.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return sys, nil
}

func (c *Config) buildSystem() (*system.System, error) {
	box := c.System.Box
	if box == 0 {
		box = DefaultBox
	}

	switch c.System.Kind {
	case SystemTwoParticle:
		d := c.System.Distance
		if d == 0 {
			d = DefaultDistance
		}
		return system.TwoParticle(d, system.Cube(box)), nil

	case SystemLattice:
		n, spacing := c.System.N, c.System.Spacing
		if n == 0 {
			n = DefaultN
		}
		if spacing == 0 {
			spacing = DefaultSpacing
		}
		var b system.Box
		if c.System.Box != 0 {
			b = system.Cube(c.System.Box)
		}
		return system.Lattice(n, spacing, b), nil

	case SystemLammpstrj:
		f, err := os.Open(c.System.Path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return system.ReadLammpstrj(f)
	}

	return nil, fmt.Errorf("%w: unknown system kind %q", ErrInvalidConfig, c.System.Kind)
}
