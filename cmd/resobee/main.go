package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/resobee/potentials/internal/logging"
)

var (
	dataDir  string
	logLevel string
	logger   = logging.Discard()

	configFile string
	saveConfig string
	preset     string
	exportName string
	backend    string
	mode       string
	rcut       float64
	strength   float64
	distance   float64
	boxSize    float64

	rsq    float64
	rcutsq float64

	paramsFormat string
	scanFormat   string

	rmin   float64
	rmax   float64
	points int

	particles  int
	iterations int
	profileOut string
)

// main registers the commands and runs the root command, exiting with
// status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "resobee",
		Short:         "pair potential plugin: lymburn repulsion",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLogger(logLevel, os.Stderr)
			slog.SetDefault(logger)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".resobee", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (info, debug, trace)")

	evalCmd := &cobra.Command{
		Use:   "eval",
		Short: "evaluate the force law for one pair",
		RunE:  evalPair,
	}
	evalCmd.Flags().Float64Var(&rsq, "rsq", 1.0, "squared separation")
	evalCmd.Flags().Float64Var(&rcutsq, "rcutsq", 4.0, "squared cutoff")
	evalCmd.Flags().Float64Var(&strength, "strength", 1.0, "repulsion strength")

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "round-trip a parameter record",
		RunE:  showParams,
	}
	paramsCmd.Flags().Float64Var(&strength, "strength", 1.0, "repulsion strength")
	paramsCmd.Flags().StringVar(&paramsFormat, "format", "yaml", "output format (yaml, json)")

	forcesCmd := &cobra.Command{
		Use:   "forces",
		Short: "compute pair forces on a configured system and store the run",
		RunE:  runForces,
	}
	forcesCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	forcesCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the effective config to this path")
	forcesCmd.Flags().StringVar(&preset, "preset", "", "preset as kind/name")
	forcesCmd.Flags().StringVar(&exportName, "export", "LymburnRepulsion", "registered export")
	forcesCmd.Flags().StringVar(&backend, "backend", "auto", "backend (auto, cpu, gpu)")
	forcesCmd.Flags().StringVar(&mode, "mode", "none", "energy mode (none, shift, xplor)")
	forcesCmd.Flags().Float64Var(&rcut, "rcut", 2.0, "default cutoff")
	forcesCmd.Flags().Float64Var(&strength, "strength", 1.0, "strength for the A-A pair")
	forcesCmd.Flags().Float64Var(&distance, "distance", 1.0, "two-particle separation")
	forcesCmd.Flags().Float64Var(&boxSize, "box", 10.0, "cubic box length")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot per-particle force magnitudes of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "plot force against separation",
		RunE:  scanCurve,
	}
	scanCmd.Flags().Float64Var(&strength, "strength", 1.0, "repulsion strength")
	scanCmd.Flags().Float64Var(&rcut, "rcut", 2.0, "cutoff")
	scanCmd.Flags().Float64Var(&rmin, "rmin", 0.1, "smallest separation")
	scanCmd.Flags().Float64Var(&rmax, "rmax", 3.0, "largest separation")
	scanCmd.Flags().IntVar(&points, "points", 80, "number of samples")
	scanCmd.Flags().StringVar(&scanFormat, "format", "plot", "output format (plot, csv)")

	exportsCmd := &cobra.Command{
		Use:   "exports",
		Short: "list registered potentials",
		RunE:  listExports,
	}

	shapeCmd := &cobra.Command{
		Use:   "shape [export]",
		Short: "print the shape specification of a potential",
		Args:  cobra.MaximumNArgs(1),
		RunE:  shapeSpec,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [kind]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark force evaluation on a lattice",
		RunE:  benchForces,
	}
	benchCmd.Flags().IntVar(&particles, "n", 10, "lattice edge (n^3 particles)")
	benchCmd.Flags().IntVar(&iterations, "iterations", 20, "number of evaluations")
	benchCmd.Flags().StringVar(&backend, "backend", "auto", "backend (auto, cpu, gpu)")
	benchCmd.Flags().StringVar(&profileOut, "profile", "", "write a profile (cpu, mem)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive force curve explorer",
		RunE:  runTUI,
	}
	tuiCmd.Flags().Float64Var(&strength, "strength", 1.0, "repulsion strength")
	tuiCmd.Flags().Float64Var(&rcut, "rcut", 2.0, "cutoff")

	rootCmd.AddCommand(evalCmd, paramsCmd, forcesCmd, listCmd, plotCmd, exportJSONCmd, scanCmd, exportsCmd, shapeCmd, presetsCmd, benchCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
