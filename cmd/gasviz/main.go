package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gasviz/internal/analysis"
	"github.com/san-kum/gasviz/internal/automation"
	"github.com/san-kum/gasviz/internal/config"
	"github.com/san-kum/gasviz/internal/dynamo"
	"github.com/san-kum/gasviz/internal/experiment"
	"github.com/san-kum/gasviz/internal/physics"
	"github.com/san-kum/gasviz/internal/pipeline"
	"github.com/san-kum/gasviz/internal/storage"
	"github.com/san-kum/gasviz/internal/viz"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	logFile    string

	frames   int
	save     bool
	saveAs   string
	asJSON   bool
	ensemble int

	theme string
	fps   int

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	outFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gasviz [experiment]",
		Short: "live velocity histograms of a hard-sphere gas",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gasviz", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	addLiveFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live [experiment]",
		Short: "open the live view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addLiveFlags(liveCmd)

	runCmd := &cobra.Command{
		Use:   "run [experiment]",
		Short: "run an experiment headless and plot the averaged histograms",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	addParamFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", 1000, "frames to simulate")
	runCmd.Flags().BoolVar(&save, "save", false, "archive the final frame")
	runCmd.Flags().StringVar(&saveAs, "save-as", "", "archive under this run id")
	runCmd.Flags().BoolVar(&asJSON, "json", false, "print the final frame as JSON")
	runCmd.Flags().IntVar(&ensemble, "ensemble", 0, "average over this many seeded runs")

	experimentsCmd := &cobra.Command{
		Use:   "experiments",
		Short: "list experiments",
		RunE:  listExperiments,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	configCmd := &cobra.Command{
		Use:   "config [experiment]",
		Short: "print the configuration of an experiment",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showConfig,
	}
	addParamFlags(configCmd)
	configCmd.Flags().StringVarP(&outFile, "out", "o", "", "write to file instead of stdout")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [experiment]",
		Short: "sweep one parameter and report histogram widths",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addParamFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "particle_radius", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.001, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.004, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 4, "number of values")
	sweepCmd.Flags().IntVar(&frames, "frames", 1000, "frames per value")

	rootCmd.AddCommand(liveCmd, runCmd, experimentsCmd, listCmd, showCmd, configCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLiveFlags(cmd *cobra.Command) {
	addParamFlags(cmd)
	cmd.Flags().StringVar(&theme, "theme", "", "color theme")
	cmd.Flags().IntVar(&fps, "fps", 0, "frames per second")
	cmd.Flags().StringVar(&logFile, "log-file", "", "log to this file, the terminal belongs to the view")
}

func factory(p dynamo.Params) (dynamo.Engine, error) {
	g, err := physics.New(p)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("theme") {
		cfg.Display.Theme = theme
	}
	if cmd.Flags().Changed("fps") {
		cfg.Display.FPS = fps
	}

	logger := log.NewNopLogger()
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger, err = newLogger(f)
		if err != nil {
			return err
		}
	}

	store := storage.New(dataDir).WithChartSize(cfg.Display.ChartWidth, cfg.Display.ChartHeight)
	app := viz.NewApp(experiment.NewRegistry(), factory, viz.Options{
		Experiment: cfg.Experiment,
		Params:     &cfg.Params,
		Theme:      cfg.Display.Theme,
		FPS:        cfg.Display.FPS,
		Store:      store,
		Logger:     logger,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	exp, err := experiment.NewRegistry().Get(cfg.Experiment)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if ensemble > 0 {
		return runEnsemble(ctx, exp, cfg.Params)
	}

	readout := pipeline.NewReadout()
	session := pipeline.New(factory, pipeline.DiscardSurfaces(),
		pipeline.WithLogger(logger),
		pipeline.WithInstruments(readout.Instruments()),
	)
	if err := session.Reset(exp, cfg.Params); err != nil {
		return err
	}
	level.Info(logger).Log("msg", "running", "experiment", exp.Name, "frames", frames, "particles", cfg.Params.Particles)
	if err := session.Run(ctx, frames); err != nil {
		return err
	}

	snap := storage.Capture(session)
	if asJSON {
		return storage.ExportJSON(os.Stdout, snap)
	}

	expected, err := analysis.ExpectedCounts(cfg.Params.Particles, cfg.Params.Buckets, cfg.Params.HistogramWidth)
	if err != nil {
		return err
	}
	plotHistogram(snap.AvgVx, expected, pipeline.TitleAvgVx)
	plotHistogram(snap.AvgVy, expected, pipeline.TitleAvgVy)

	mvx, mvy := snap.Moments()
	fmt.Printf("frames        %d\n", session.Frame())
	fmt.Printf("display       height %d, grid every %d\n", snap.Scale.Height, snap.Scale.GridStep)
	fmt.Printf("std-dev vx    %.4f\n", mvx.StdDev)
	fmt.Printf("std-dev vy    %.4f\n", mvy.StdDev)
	fmt.Printf("energy drift  %.3e\n", snap.Drift)
	fmt.Printf("ticks %.0f, draws %.0f, tick p50 %.2fms p99 %.2fms\n",
		readout.Ticks.Value(), readout.Draws.Value(),
		readout.TickDuration.Quantile(0.50)*1000, readout.TickDuration.Quantile(0.99)*1000)

	if save || saveAs != "" {
		store := storage.New(dataDir).WithChartSize(cfg.Display.ChartWidth, cfg.Display.ChartHeight)
		if err := store.Init(); err != nil {
			return err
		}
		var id string
		if saveAs != "" {
			id, err = store.SaveAs(saveAs, snap)
		} else {
			id, err = store.Save(snap)
		}
		if err != nil {
			return err
		}
		fmt.Printf("saved run %s\n", id)
	}
	return nil
}

func runEnsemble(ctx context.Context, exp experiment.Experiment, p config.Params) error {
	seedStart := p.Seed
	if seedStart == 0 {
		seedStart = 1
	}
	res, err := pipeline.NewEnsemble(factory, ensemble, seedStart).Run(ctx, exp, p, frames)
	if err != nil {
		return err
	}

	expected, err := analysis.ExpectedCounts(p.Particles, p.Buckets, p.HistogramWidth)
	if err != nil {
		return err
	}
	plotHistogram(res.AvgVx, expected, fmt.Sprintf("%s, %d runs", pipeline.TitleAvgVx, res.Runs))
	plotHistogram(res.AvgVy, expected, fmt.Sprintf("%s, %d runs", pipeline.TitleAvgVy, res.Runs))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tDRIFT")
	for i, d := range res.Drift {
		fmt.Fprintf(w, "%d\t%.3e\n", seedStart+int64(i), d)
	}
	return w.Flush()
}

// plotHistogram draws the measured series next to the equilibrium counts.
func plotHistogram(data, expected []float64, caption string) {
	if len(data) == 0 {
		return
	}
	fmt.Println(asciigraph.PlotMany([][]float64{data, expected},
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption(caption+" "+pipeline.XLabel),
	))
	fmt.Println()
}

func listExperiments(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tDT\tRADIUS\tBUCKETS\tWEIGHT\tDESCRIPTION")
	for _, name := range reg.List() {
		e, _ := reg.Get(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%d\t%d\t%s\n",
			e.Name, e.Params.Particles, e.Params.DeltaTime, e.Params.ParticleRadius,
			e.Params.Buckets, e.Params.AveragingWeight, e.Description)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEXPERIMENT\tFRAMES\tSTD-DEV VX\tSTD-DEV VY\tDRIFT\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4f\t%.4f\t%.2e\t%s\n",
			r.ID, r.Experiment, r.Frames, r.MomentsVx.StdDev, r.MomentsVy.StdDev, r.Drift,
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	buckets, err := store.LoadBuckets(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s, %d frames, %d particles\n", meta.ID, meta.Experiment, meta.Frames, meta.Params.Particles)
	expected, err := analysis.ExpectedCounts(meta.Params.Particles, len(buckets.Centers), meta.Params.HistogramWidth)
	if err != nil {
		return err
	}
	plotHistogram(buckets.AvgVx, expected, pipeline.TitleAvgVx)
	plotHistogram(buckets.AvgVy, expected, pipeline.TitleAvgVy)
	if len(meta.Files) > 0 {
		fmt.Printf("files: %s\n", strings.Join(meta.Files, ", "))
	}
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if outFile != "" {
		return config.Save(outFile, cfg)
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &automation.Runner{
		Registry: experiment.NewRegistry(),
		Factory:  factory,
		Store:    store,
		Logger:   logger,
	}
	results, err := runner.RunScenario(ctx, sc)
	if err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(results))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tEXPERIMENT\tFRAMES\tSTD-DEV VX\tSTD-DEV VY\tDRIFT\tRUN")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.4f\t%.4f\t%.2e\t%s\n",
			i+1, r.Experiment, r.Frames, r.MomentsVx.StdDev, r.MomentsVy.StdDev, r.Drift, r.RunID)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &automation.Runner{
		Registry: experiment.NewRegistry(),
		Factory:  factory,
		Logger:   logger,
	}
	results, err := runner.RunSweep(ctx, &automation.ParameterSweep{
		Experiment: cfg.Experiment,
		ParamName:  sweepParam,
		ParamMin:   sweepMin,
		ParamMax:   sweepMax,
		NumSteps:   sweepSteps,
		Frames:     frames,
		Base:       &cfg.Params,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTD-DEV VX\tSTD-DEV VY\tDRIFT\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%.4f\t%.4f\t%.2e\n", r.ParamValue, r.StdDevVx, r.StdDevVy, r.Drift)
	}
	return w.Flush()
}
