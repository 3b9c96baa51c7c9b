package config

func strength(s float64) []PairConfig {
	return []PairConfig{{Types: []string{"A", "A"}, Values: map[string]any{"strength": s}}}
}

var Presets = map[string]map[string]*Config{
	"two_particle": {
		"near": {
			Export: DefaultExport, Backend: "cpu", Mode: "none", RCut: 2.0,
			Params: strength(2.0),
			System: SystemConfig{Kind: SystemTwoParticle, Distance: 0.5, Box: 10},
		},
		"far": {
			Export: DefaultExport, Backend: "cpu", Mode: "none", RCut: 1.0,
			Params: strength(2.0),
			System: SystemConfig{Kind: SystemTwoParticle, Distance: 5.0, Box: 20},
		},
		"weak": {
			Export: DefaultExport, Backend: "cpu", Mode: "none", RCut: 2.0,
			Params: strength(0.01),
			System: SystemConfig{Kind: SystemTwoParticle, Distance: 0.1, Box: 10},
		},
	},
	"lattice": {
		"small": {
			Export: DefaultExport, Backend: "auto", Mode: "none", RCut: 1.5,
			Params: strength(1.0),
			System: SystemConfig{Kind: SystemLattice, N: 4, Spacing: 1.0},
		},
		"dense": {
			Export: DefaultExport, Backend: "auto", Mode: "shift", RCut: 2.5,
			Params: strength(0.5),
			System: SystemConfig{Kind: SystemLattice, N: 10, Spacing: 0.8},
		},
	},
}

func GetPreset(kind, preset string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	return names
}
