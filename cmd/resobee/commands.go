package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/resobee/potentials/internal/analysis"
	"github.com/resobee/potentials/internal/compute"
	"github.com/resobee/potentials/internal/config"
	"github.com/resobee/potentials/internal/logging"
	"github.com/resobee/potentials/internal/metrics"
	"github.com/resobee/potentials/internal/pair"
	"github.com/resobee/potentials/internal/potential"
	"github.com/resobee/potentials/internal/registry"
	"github.com/resobee/potentials/internal/storage"
	"github.com/resobee/potentials/internal/system"
	"github.com/resobee/potentials/internal/tui"
)

func evalPair(cmd *cobra.Command, args []string) error {
	ev := pair.NewLymburnRepulsion(rsq, rcutsq, pair.Params{Strength: strength})
	fdivr, eng, ok := ev.EvalForceAndEnergy(false)

	logger.Debug("evaluated pair", "rsq", rsq, "rcutsq", rcutsq, "strength", strength, "in_range", ok)

	fmt.Printf("potential:  %s\n", ev.Name())
	if !ok {
		fmt.Println("in range:   false (beyond cutoff)")
		return nil
	}
	fmt.Println("in range:   true")
	fmt.Printf("force/r:    %.10g\n", fdivr)
	fmt.Printf("force:      %.10g\n", fdivr*math.Sqrt(rsq))
	fmt.Printf("energy:     %g (not implemented)\n", eng)
	fmt.Printf("lrc (p, e): %g, %g\n", ev.EvalPressureLRCIntegral(), ev.EvalEnergyLRCIntegral())
	return nil
}

func showParams(cmd *cobra.Command, args []string) error {
	p, err := pair.ParamsFromMap(map[string]any{pair.KeyStrength: strength})
	if err != nil {
		return err
	}

	switch paramsFormat {
	case "yaml":
		out, err := yaml.Marshal(p.AsMap())
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	case "json":
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(p.AsMap())
	default:
		return fmt.Errorf("unknown format: %s", paramsFormat)
	}
	return nil
}

// loadForcesConfig layers preset, config file and explicitly set flags, in
// that order.
func loadForcesConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		kind, name, ok := strings.Cut(preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset must be kind/name, got %q", preset)
		}
		p := config.GetPreset(kind, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(kind))
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("export") {
		cfg.Export = exportName
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("rcut") {
		cfg.RCut = rcut
	}
	if flags.Changed("strength") {
		cfg.Params = overrideStrength(cfg.Params, strength)
	}
	if flags.Changed("distance") {
		cfg.System.Distance = distance
	}
	if flags.Changed("box") {
		cfg.System.Box = boxSize
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideStrength(params []config.PairConfig, s float64) []config.PairConfig {
	out := make([]config.PairConfig, 0, len(params)+1)
	found := false
	for _, p := range params {
		if len(p.Types) == 2 && p.Types[0] == "A" && p.Types[1] == "A" {
			vals := make(map[string]any, len(p.Values))
			for k, v := range p.Values {
				vals[k] = v
			}
			vals[pair.KeyStrength] = s
			p.Values = vals
			found = true
		}
		out = append(out, p)
	}
	if !found {
		out = append(out, config.PairConfig{Types: []string{"A", "A"}, Values: map[string]any{pair.KeyStrength: s}})
	}
	return out
}

func runForces(cmd *cobra.Command, args []string) error {
	cfg, err := loadForcesConfig(cmd)
	if err != nil {
		return err
	}

	reg := registry.New()
	exp, be, err := reg.Resolve(cfg.Export, cfg.Backend)
	if err != nil {
		return err
	}
	defer be.Cleanup()

	m, err := potential.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	pot, err := exp.NewPotential(cfg.RCut, m)
	if err != nil {
		return err
	}
	if err := cfg.Apply(pot); err != nil {
		return err
	}

	sys, err := cfg.BuildSystem()
	if err != nil {
		return err
	}

	tbl, err := pot.Table(sys.TypeNames)
	if err != nil {
		return err
	}

	logger.Debug("computing forces", "export", exp.Name, "backend", be.Name(), "particles", sys.N(), "mode", pot.Mode(), "max_rcut", math.Sqrt(tbl.MaxRCutSq()))

	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		logger.Info("saved effective config", "path", saveConfig)
	}

	start := time.Now()
	res, err := be.PairForces(context.Background(), sys, tbl, pot.Constructor())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if logger.Enabled(context.Background(), logging.LevelTrace) {
		for i, f := range res.Forces {
			logger.Log(context.Background(), logging.LevelTrace, "force", "particle", i, "fx", f[0], "fy", f[1], "fz", f[2])
		}
	}

	pressureLRC, energyLRC := pot.LRC()
	vals := metrics.Collect(metrics.Defaults(), res)
	vals["pressure_lrc"] = pressureLRC
	vals["energy_lrc"] = energyLRC

	meta := storage.RunMetadata{
		Export:    exp.Name,
		Potential: pot.Name(),
		Backend:   be.Name(),
		Mode:      string(pot.Mode()),
		Energy:    res.TotalEnergy(),
		Elapsed:   elapsed,
		Metrics:   vals,
	}
	for _, tp := range pot.TypePairs() {
		p, _ := pot.Params(tp[0], tp[1])
		meta.Params = append(meta.Params, storage.PairParams{Types: tp, Strength: p.Strength, RCut: pot.RCut(tp[0], tp[1])})
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(meta, sys, res)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v on %s\n", elapsed, be.Name())
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("particles: %d, pairs in range: %d/%d\n", sys.N(), res.PairsInRange, res.PairsEvaluated)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(vals))
	for name := range vals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, vals[name])
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEXPORT\tTIME\tN\tMODE\tBACKEND")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			run.ID,
			run.Export,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Mode,
			run.Backend,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	rows, err := st.LoadForces(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("potential: %s (%s)\n", meta.Potential, meta.Export)
	fmt.Printf("particles: %d\n\n", len(rows))

	data := make([]float64, len(rows))
	for i, r := range rows {
		data[i] = r.Force.Norm()
	}
	if len(data) == 1 {
		data = append(data, data[0])
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("|F| per particle"),
	)
	fmt.Println(graph)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func scanCurve(cmd *cobra.Command, args []string) error {
	if rmax <= rmin || rmin <= 0 {
		return fmt.Errorf("need 0 < rmin < rmax, got %g, %g", rmin, rmax)
	}
	c := analysis.ForceCurve(pair.NewLymburnEvaluator, pair.Params{Strength: strength}, rcut, rmin, rmax, points)

	switch scanFormat {
	case "csv":
		fmt.Println("r,force_divr,force,energy,in_range")
		for _, pt := range c {
			fmt.Printf("%g,%g,%g,%g,%t\n", pt.R, pt.ForceDivR, pt.Force, pt.Energy, pt.InRange)
		}
	case "plot":
		graph := asciigraph.Plot(c.Forces(),
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("|F|(r), strength %g, cutoff %g", strength, rcut)),
		)
		fmt.Println(graph)
		if last := c.LastInRange(); last > 0 {
			fmt.Printf("\nlast sample inside cutoff: r = %.4g\n", last)
		}
	default:
		return fmt.Errorf("unknown format: %s", scanFormat)
	}
	return nil
}

func listExports(cmd *cobra.Command, args []string) error {
	reg := registry.New()

	fmt.Printf("module %s v%s\n\n", registry.ModuleName, registry.Version)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EXPORT\tPOTENTIAL\tVARIANT\tBACKEND")
	for _, name := range reg.List() {
		e, err := reg.Lookup(name)
		if err != nil {
			return err
		}
		variant := "cpu"
		if e.GPU {
			variant = "gpu"
		}
		backendName := "unavailable"
		if b, err := e.Backend(); err == nil {
			backendName = b.Name()
			b.Cleanup()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Potential, variant, backendName)
	}
	return w.Flush()
}

func shapeSpec(cmd *cobra.Command, args []string) error {
	name := config.DefaultExport
	if len(args) > 0 {
		name = args[0]
	}
	e, err := registry.New().Lookup(name)
	if err != nil {
		return err
	}
	pot, err := e.NewPotential(0, potential.ModeNone)
	if err != nil {
		return err
	}
	spec, err := pot.ShapeSpec()
	if err != nil {
		return fmt.Errorf("%s: %w", e.Name, err)
	}
	fmt.Println(spec)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	kinds := make([]string, 0, len(config.Presets))
	if len(args) > 0 {
		kinds = append(kinds, args[0])
	} else {
		for k := range config.Presets {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
	}

	for _, kind := range kinds {
		presets := config.ListPresets(kind)
		if len(presets) == 0 {
			fmt.Printf("no presets for: %s\n", kind)
			continue
		}
		sort.Strings(presets)
		fmt.Printf("presets for %s:\n", kind)
		for _, p := range presets {
			fmt.Printf("  %s/%s\n", kind, p)
		}
	}
	return nil
}

func benchForces(cmd *cobra.Command, args []string) error {
	switch profileOut {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(dataDir), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(dataDir), profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile: %s", profileOut)
	}

	exp, be, err := registry.New().Resolve(config.DefaultExport, backend)
	if err != nil {
		return err
	}
	defer be.Cleanup()

	pot, err := exp.NewPotential(2.5, potential.ModeNone)
	if err != nil {
		return err
	}
	pot.SetParams("A", "A", pair.Params{Strength: 1})

	sys := system.Lattice(particles, 1.0, system.Box{})
	tbl, err := pot.Table(sys.TypeNames)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s on %s with %d particles...\n", exp.Name, be.Name(), sys.N())

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < iterations; i++ {
		res, err := be.PairForces(ctx, sys, tbl, pot.Constructor())
		if err != nil {
			return err
		}
		compute.Release(res)
	}
	elapsed := time.Since(start)

	n := float64(sys.N())
	perCall := elapsed / time.Duration(max(iterations, 1))
	pairsPerSec := n * (n - 1) / 2 / perCall.Seconds()
	fmt.Printf("iterations: %d\n", iterations)
	fmt.Printf("per call:   %v\n", perCall)
	fmt.Printf("pairs/s:    %.3g\n", pairsPerSec)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run(registry.New(), strength, rcut)
}
