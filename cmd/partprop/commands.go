package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/partprop/internal/candidate"
	"github.com/san-kum/partprop/internal/config"
	"github.com/san-kum/partprop/internal/experiment"
	"github.com/san-kum/partprop/internal/export"
	"github.com/san-kum/partprop/internal/field"
	"github.com/san-kum/partprop/internal/logging"
	"github.com/san-kum/partprop/internal/storage"
	"github.com/san-kum/partprop/internal/units"
	"github.com/san-kum/partprop/internal/vec"
	"github.com/san-kum/partprop/internal/viz"
)

// buildConfig layers defaults, preset, config file and changed flags, in
// that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		group, name, _ := strings.Cut(preset, "/")
		p := config.GetPreset(group, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (groups: %v)", preset, config.ListGroups())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("particle") {
		cfg.Source.Particle = particle
		cfg.Source.ID = 0
	}
	if flags.Changed("energy") {
		cfg.Source.EnergyEeV = energy
	}
	if flags.Changed("candidates") {
		cfg.Candidates = candidates
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("step") {
		cfg.Propagation.StepMpc = step
	}
	if flags.Changed("max-length") {
		cfg.Conditions.MaxTrajectoryMpc = maxLength
	}
	if flags.Changed("min-energy") {
		cfg.Conditions.MinEnergyEeV = minEnergy
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if flags.Changed("isotropic") {
		cfg.Source.Isotropic = isotropic
	}
	if flags.Changed("redshift") {
		cfg.Source.Redshift = redshift
		cfg.Propagation.Redshift = redshift > 0
	}
	if flags.Changed("field") {
		cfg.Field.Kind = fieldKind
	}
	if flags.Changed("strength") {
		cfg.Field.StrengthNG = strength
	}

	return cfg, cfg.Validate()
}

func setupExperiment(cmd *cobra.Command, logger *slog.Logger) (*experiment.Experiment, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	ecfg, err := cfg.ToExperiment()
	if err != nil {
		return nil, err
	}

	exp := experiment.New(ecfg, logger)
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	return exp, nil
}

func checkBins() error {
	if bins <= 0 {
		return fmt.Errorf("--bins must be positive, got %d", bins)
	}
	return nil
}

func runPropagation(cmd *cobra.Command, args []string) error {
	if err := checkBins(); err != nil {
		return err
	}
	logger := logging.NewLogger(logLevel, os.Stderr)

	exp, err := setupExperiment(cmd, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, runErr := exp.Run(ctx)
	if res == nil {
		return runErr
	}

	meta, err := saveRun(exp.Config(), res)
	if err != nil {
		return err
	}
	printRun(*meta, res.Records)

	if jsonPath != "" {
		if err := storage.ExportJSON(jsonPath, *meta, res.Records); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", jsonPath)
	}
	return runErr
}

func saveRun(cfg experiment.Config, res *experiment.Result) (*storage.RunMetadata, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}

	runID, err := st.Save(storage.NewMetadata(cfg, res), res.Records)
	if err != nil {
		return nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, err
	}

	idx, err := storage.OpenIndex(st.IndexPath())
	if err != nil {
		return nil, err
	}
	defer idx.Close()
	if err := idx.Put(context.Background(), *meta); err != nil {
		return nil, err
	}
	return meta, nil
}

func printRun(meta storage.RunMetadata, records []experiment.Record) {
	fmt.Println(viz.Title.Render("run " + meta.ID))
	fmt.Println(viz.KeyValue("name", meta.Name))
	fmt.Println(viz.KeyValue("time", meta.Timestamp.Format("2006-01-02 15:04:05")))
	fmt.Println(viz.KeyValue("candidates", fmt.Sprint(meta.Candidates)))
	fmt.Println(viz.KeyValue("seed", fmt.Sprint(meta.Seed)))
	fmt.Println(viz.KeyValue("field", meta.Field))
	fmt.Println(viz.KeyValue("elapsed", meta.Elapsed.String()))
	fmt.Println()

	for _, m := range meta.Modules {
		fmt.Println(viz.Subtle.Render("  " + m))
	}
	fmt.Println()

	fmt.Println(viz.SummaryTable(experiment.SummarizeRecords(records), 30))

	energies := make([]float64, len(records))
	var total float64
	for i, r := range records {
		energies[i] = r.FinalEnergy
		total += r.TrajectoryLength
	}
	if len(records) > 0 {
		fmt.Println(viz.KeyValue("mean length", units.FormatLength(total/float64(len(records)))))
		fmt.Println()
	}
	fmt.Println(viz.EnergyHistogram(energies, units.EeV, "EeV", bins, 80, 10))
	fmt.Println()

	if plane, ok := viz.ParsePlane(planeName); ok && len(records) > 0 {
		points := make([]vec.Vector3, len(records))
		for i, r := range records {
			points[i] = r.Position
		}
		fmt.Println(viz.Subtle.Render("final positions, " + plane.Name + " plane"))
		fmt.Print(viz.ScatterMap(points, plane, 60, 20))
		fmt.Println()
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	// The progress view replaces the run log.
	exp, err := setupExperiment(cmd, nil)
	if err != nil {
		return err
	}

	count := exp.Config().Count
	updates := make(chan candidate.Status, count)
	exp.Modules().AddObserver(viz.ProgressObserver(updates))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type outcome struct {
		res *experiment.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := exp.Run(ctx)
		close(updates)
		done <- outcome{res, err}
	}()

	final, err := viz.RunProgress(viz.NewProgress(exp.Config().Name, count, updates))
	if err != nil || final.Aborted() {
		cancel()
		<-done
		if err == nil {
			fmt.Println("aborted")
		}
		return err
	}

	out := <-done
	if out.res == nil {
		return out.err
	}
	meta, err := saveRun(exp.Config(), out.res)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", meta.ID)
	fmt.Println(viz.SummaryTable(out.res.Summary, 30))
	return out.err
}

func listRuns(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	idx, err := storage.OpenIndex(st.IndexPath())
	if err != nil {
		return err
	}
	defer idx.Close()

	// Runs saved before the index existed are picked up on first use.
	if n, err := idx.Count(ctx); err != nil {
		return err
	} else if n == 0 {
		if _, err := idx.Rebuild(ctx, st); err != nil {
			return err
		}
	}

	runs, err := idx.Find(ctx, runName)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tCANDIDATES\tFIELD\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Candidates,
			run.Field,
			run.Elapsed,
		)
	}

	return w.Flush()
}

func reindexRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	idx, err := storage.OpenIndex(st.IndexPath())
	if err != nil {
		return err
	}
	defer idx.Close()

	n, err := idx.Rebuild(cmd.Context(), st)
	if err != nil {
		return err
	}
	fmt.Printf("indexed %d runs\n", n)
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	if err := checkBins(); err != nil {
		return err
	}
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	records, err := st.LoadCandidates(runID)
	if err != nil {
		return err
	}

	if jsonOut {
		return storage.WriteJSON(os.Stdout, *meta, records)
	}
	printRun(*meta, records)

	if svgPath != "" {
		plane, ok := viz.ParsePlane(planeName)
		if !ok {
			return fmt.Errorf("unknown plane: %s", planeName)
		}
		if err := export.WritePositionsSVG(svgPath, records, plane, 600, units.Mpc); err != nil {
			return err
		}
		fmt.Printf("position map written to %s\n", svgPath)
	}
	return nil
}

var axes = map[string]vec.Vector3{
	"x": vec.New(1, 0, 0),
	"y": vec.New(0, 1, 0),
	"z": vec.New(0, 0, 1),
}

func plotField(cmd *cobra.Command, args []string) error {
	dir, ok := axes[axis]
	if !ok {
		return fmt.Errorf("unknown axis: %s", axis)
	}

	exp, err := setupExperiment(cmd, logging.NewLogger(logLevel, os.Stderr))
	if err != nil {
		return err
	}
	f := exp.Field()
	if f == nil {
		fmt.Println("no field configured, use --field uniform or --field random")
		return nil
	}

	a := exp.Config().Source.Position
	b := a.Add(dir.Scale(length * units.Mpc))
	values := field.Profile(f, a, b, samples)
	for i := range values {
		values[i] /= units.NanoGauss
	}

	caption := fmt.Sprintf("|B| in nG along %s from %s over %s", axis, a.Div(units.Mpc), units.FormatLength(length*units.Mpc))
	fmt.Println(viz.FieldProfile(values, caption, 80, 15))
	if g, ok := f.(*field.Grid); ok {
		fmt.Println(viz.KeyValue("grid rms", units.FormatField(g.RMS())))
		fmt.Println(viz.KeyValue("grid extent", units.FormatLength(g.Extent())))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	groups := config.ListGroups()
	if len(args) == 1 {
		groups = []string{args[0]}
	}

	for _, g := range groups {
		presets := config.ListPresets(g)
		if len(presets) == 0 {
			fmt.Printf("no presets for group: %s\n", g)
			continue
		}
		fmt.Printf("presets for %s:\n", g)
		for _, p := range presets {
			fmt.Printf("  %s/%s\n", g, p)
		}
	}
	return nil
}
