package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	// Run configuration
	configFile string
	preset     string
	particle   string
	energy     float64
	candidates int
	workers    int
	seed       int64
	step       float64
	maxLength  float64
	minEnergy  float64
	maxSteps   int
	isotropic  bool
	redshift   float64
	fieldKind  string
	strength   float64
	// Output
	jsonPath  string
	jsonOut   bool
	bins      int
	planeName string
	svgPath   string
	runName   string
	// Field sampling
	axis    string
	length  float64
	samples int
)

// main registers the partprop commands and executes the root command. It
// exits with status 1 when the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "partprop",
		Short:        "cosmic-ray propagation in the terminal",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".partprop", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (error, warn, info, debug, trace)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "propagate a batch of candidates and save the run",
		Args:  cobra.NoArgs,
		RunE:  runPropagation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&jsonPath, "json", "", "also export the run to this JSON file")
	runCmd.Flags().IntVar(&bins, "bins", 20, "energy histogram bins")
	runCmd.Flags().StringVar(&planeName, "plane", "xy", "projection plane of the position map (xy, xz, yz)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "propagate with a live progress view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&runName, "name", "", "only list runs with this name")

	reindexCmd := &cobra.Command{
		Use:   "reindex",
		Short: "rebuild the run index from the run directories",
		Args:  cobra.NoArgs,
		RunE:  reindexRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show the summary and energy distribution of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&jsonOut, "json", false, "print the run as JSON")
	showCmd.Flags().IntVar(&bins, "bins", 20, "energy histogram bins")
	showCmd.Flags().StringVar(&planeName, "plane", "xy", "projection plane of the position map (xy, xz, yz)")
	showCmd.Flags().StringVar(&svgPath, "svg", "", "write the position map to this SVG file")

	fieldCmd := &cobra.Command{
		Use:   "field",
		Short: "plot the configured magnetic field along an axis",
		Args:  cobra.NoArgs,
		RunE:  plotField,
	}
	addRunFlags(fieldCmd)
	fieldCmd.Flags().StringVar(&axis, "axis", "x", "sampling axis (x, y, z)")
	fieldCmd.Flags().Float64Var(&length, "length", 10, "sampled length in Mpc")
	fieldCmd.Flags().IntVar(&samples, "samples", 200, "number of samples")

	presetsCmd := &cobra.Command{
		Use:   "presets [group]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, reindexCmd, showCmd, fieldCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "preset as group/name, see 'partprop presets'")
	f.StringVar(&particle, "particle", "proton", "source particle")
	f.Float64Var(&energy, "energy", 100, "source energy in EeV")
	f.IntVar(&candidates, "candidates", 100, "number of candidates")
	f.IntVar(&workers, "workers", 0, "worker goroutines (0 uses every CPU)")
	f.Int64Var(&seed, "seed", 1, "random seed")
	f.Float64Var(&step, "step", 1, "maximum step in Mpc")
	f.Float64Var(&maxLength, "max-length", 100, "maximum trajectory length in Mpc")
	f.Float64Var(&minEnergy, "min-energy", 1, "minimum energy in EeV")
	f.IntVar(&maxSteps, "max-steps", 0, "step limit per candidate (0 disables)")
	f.BoolVar(&isotropic, "isotropic", false, "emit in random directions")
	f.Float64Var(&redshift, "redshift", 0, "source redshift (enables cosmological losses)")
	f.StringVar(&fieldKind, "field", "none", "magnetic field (none, uniform, random)")
	f.Float64Var(&strength, "strength", 1, "field strength in nG")
}
