package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/rodsim/internal/automation"
	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/export"
	"github.com/san-kum/rodsim/internal/gui"
	"github.com/san-kum/rodsim/internal/metrics"
	"github.com/san-kum/rodsim/internal/optim"
	"github.com/san-kum/rodsim/internal/physics"
	"github.com/san-kum/rodsim/internal/scene"
	"github.com/san-kum/rodsim/internal/storage"
	"github.com/san-kum/rodsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	logLevel   string

	initialAngle float64
	motorTorque  float64
	releaseAngle float64
	preset       string
	save         bool

	format  string
	outPath string

	sweepInitial []float64
	sweepTorque  []float64
	sweepRelease []float64
	objective    string
	workers      int

	trials       int
	seed         int64
	angleSpread  float64
	torqueSpread float64

	cfg *config.Config
	log *logrus.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "rodsim",
		Short:             "rotating rod ball throw calculator",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rodsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "compute one throw",
		Args:  cobra.NoArgs,
		RunE:  runThrow,
	}
	addInputFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", false, "archive the result")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a throw's path",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotThrow,
	}
	addInputFlags(plotCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "export a throw as svg, json or csv",
		Args:  cobra.NoArgs,
		RunE:  exportThrow,
	}
	addInputFlags(exportCmd)
	exportCmd.Flags().StringVar(&format, "format", "svg", "output format (svg|json|csv)")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show an archived run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "search an input grid for the best throw",
		Args:  cobra.NoArgs,
		RunE:  sweepThrows,
	}
	sweepCmd.Flags().Float64SliceVar(&sweepInitial, "initial", optim.Span(-90, 90, 7), "initial angles (deg)")
	sweepCmd.Flags().Float64SliceVar(&sweepTorque, "torque", []float64{0.5, 1, 2, 4, 8}, "motor torques")
	sweepCmd.Flags().Float64SliceVar(&sweepRelease, "release", optim.Span(0, 180, 13), "release angles (deg)")
	sweepCmd.Flags().StringVar(&objective, "objective", "farthest", "objective (farthest|leftmost|rightmost)")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent workers (0 = one per cpu)")
	sweepCmd.Flags().BoolVar(&save, "save", false, "archive the best throw")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted list of throws",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "spread of landing distances under perturbed inputs",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addInputFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 100, "number of trials")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = clock)")
	monteCarloCmd.Flags().Float64Var(&angleSpread, "angle-spread", 2, "angle perturbation (deg)")
	monteCarloCmd.Flags().Float64Var(&torqueSpread, "torque-spread", 0.2, "torque perturbation")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list input presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tINITIAL\tTORQUE\tRELEASE")
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%g\t%g\t%g\n", name, p.InitialAngle, p.MotorTorque, p.ReleaseAngle)
			}
			return w.Flush()
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal mode",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := physics.NewLauncher(cfg)
			if err != nil {
				return err
			}
			gui.NewWindow(l, cfg.Inputs, log).Run()
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, plotCmd, exportCmd, listCmd, showCmd, sweepCmd, scenarioCmd, monteCarloCmd, presetsCmd, tuiCmd, guiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the constants and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	log, err = newLogger(level, os.Stderr)
	return err
}

func newLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	lg := logrus.New()
	lg.Formatter = &logrus.TextFormatter{ForceColors: true}
	lg.SetOutput(out)
	lg.SetLevel(lvl)
	return lg, nil
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&initialAngle, "initial", config.DefaultInitialAngle, "initial angle (deg)")
	cmd.Flags().Float64Var(&motorTorque, "torque", config.DefaultMotorTorque, "motor torque")
	cmd.Flags().Float64Var(&releaseAngle, "release", config.DefaultReleaseAngle, "release angle (deg)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset inputs")
}

// resolveInputs layers config defaults, then the preset, then explicit flags.
func resolveInputs(cmd *cobra.Command) (physics.Inputs, error) {
	in := physics.InputsFrom(cfg.Inputs)
	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return in, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
		in = physics.InputsFrom(p)
	}
	if cmd.Flags().Changed("initial") {
		in.InitialAngle = initialAngle
	}
	if cmd.Flags().Changed("torque") {
		in.MotorTorque = motorTorque
	}
	if cmd.Flags().Changed("release") {
		in.ReleaseAngle = releaseAngle
	}
	return in, nil
}

func computeThrow(cmd *cobra.Command) (*physics.Launcher, physics.Inputs, physics.Result, error) {
	in, err := resolveInputs(cmd)
	if err != nil {
		return nil, in, physics.Result{}, err
	}
	l, err := physics.NewLauncher(cfg)
	if err != nil {
		return nil, in, physics.Result{}, err
	}
	res, err := l.Compute(in)
	if err != nil {
		return nil, in, physics.Result{}, err
	}
	log.WithFields(logrus.Fields{
		"initial": in.InitialAngle,
		"torque":  in.MotorTorque,
		"release": in.ReleaseAngle,
		"steps":   res.SpinUpSteps,
		"points":  len(res.Path),
	}).Debug("throw computed")
	if res.Stalled {
		log.Warn("motor torque cannot reach the release angle; ball dropped at rest")
	}
	return l, in, res, nil
}

func runThrow(cmd *cobra.Command, args []string) error {
	l, in, res, err := computeThrow(cmd)
	if err != nil {
		return err
	}

	printSummary(os.Stdout, l, in, res)

	if save {
		st := storage.New(dataDir, log)
		runID, err := st.Save(l, in, res)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func printSummary(w io.Writer, l *physics.Launcher, in physics.Inputs, res physics.Result) {
	fmt.Fprintf(w, "inputs: initial=%g° torque=%g release=%g°\n", in.InitialAngle, in.MotorTorque, in.ReleaseAngle)
	fmt.Fprintf(w, "expected distance: %.2f cm\n", res.Distance)
	fmt.Fprintf(w, "rod weight: %.2f grams\n", l.RodWeight())
	fmt.Fprintf(w, "ball weight: %.2f grams\n", l.BallWeight())
	fmt.Fprintf(w, "spin-up frames: %d\n", res.SpinUpSteps)
	fmt.Fprintf(w, "release speed: %.4f\n", res.ReleaseSpeed)
	fmt.Fprintf(w, "path points: %d\n", len(res.Path))
	if len(res.Path) > 0 {
		last := res.Path[len(res.Path)-1]
		fmt.Fprintf(w, "landing: (%d, %d)\n", last.X, last.Y)
	}
	_, h := l.Screen()
	printMetrics(w, metrics.Evaluate(res.Path, metrics.Defaults(int(h))...))
}

func printMetrics(w io.Writer, m map[string]float64) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %g\n", name, m[name])
	}
}

func plotThrow(cmd *cobra.Command, args []string) error {
	var path []physics.Point
	caption := ""

	if len(args) == 1 {
		st := storage.New(dataDir, log)
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		path, err = st.LoadPath(args[0])
		if err != nil {
			return err
		}
		caption = fmt.Sprintf("run %s, distance %.2f cm", meta.ID, meta.Distance)
	} else {
		_, _, res, err := computeThrow(cmd)
		if err != nil {
			return err
		}
		path = res.Path
		caption = fmt.Sprintf("distance %.2f cm", res.Distance)
	}

	if len(path) < 2 {
		return fmt.Errorf("no data to plot")
	}

	height := make([]float64, len(path))
	drift := make([]float64, len(path))
	for i, p := range path {
		height[i] = float64(cfg.Screen.Height - p.Y)
		drift[i] = float64(p.X - path[0].X)
	}

	fmt.Println(asciigraph.Plot(height,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("height above floor per frame, "+caption),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(drift,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("horizontal drift per frame"),
	))
	return nil
}

func exportThrow(cmd *cobra.Command, args []string) error {
	l, in, res, err := computeThrow(cmd)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "svg":
		_, err = io.WriteString(out, export.SceneSVG(scene.Build(l, in, res)))
	case "json":
		err = export.WriteJSON(out, export.NewResultData(l, in, res))
	case "csv":
		err = export.WriteCSV(out, res.Path)
	default:
		return fmt.Errorf("unknown format: %s (available: svg, json, csv)", format)
	}
	if err != nil {
		return err
	}

	if outPath != "" {
		log.WithField("path", outPath).Info("exported")
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, log)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tINITIAL\tTORQUE\tRELEASE\tDISTANCE\tPOINTS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%.2f\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Inputs.InitialAngle,
			run.Inputs.MotorTorque,
			run.Inputs.ReleaseAngle,
			run.Distance,
			run.PathLength,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, log)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	path, err := st.LoadPath(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("time: %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("inputs: initial=%g° torque=%g release=%g°\n", meta.Inputs.InitialAngle, meta.Inputs.MotorTorque, meta.Inputs.ReleaseAngle)
	fmt.Printf("expected distance: %.2f cm\n", meta.Distance)
	fmt.Printf("rod weight: %.2f grams\n", meta.RodWeight)
	fmt.Printf("ball weight: %.2f grams\n", meta.BallWeight)
	fmt.Printf("spin-up frames: %d\n", meta.SpinUpSteps)
	if meta.Stalled {
		fmt.Println("stalled: motor could not reach the release angle")
	}
	printMetrics(os.Stdout, meta.Metrics)
	fmt.Printf("\npath (%d points):\n", len(path))
	for i, p := range path {
		fmt.Printf("  %3d  (%d, %d)\n", i+1, p.X, p.Y)
	}
	return nil
}

func sweepThrows(cmd *cobra.Command, args []string) error {
	obj, ok := optim.Objectives[objective]
	if !ok {
		return fmt.Errorf("unknown objective: %s (available: farthest, leftmost, rightmost)", objective)
	}

	l, err := physics.NewLauncher(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	grid := optim.Grid{InitialAngles: sweepInitial, Torques: sweepTorque, ReleaseAngles: sweepRelease}
	log.WithField("combinations", grid.Size()).Info("sweeping")

	sweeper := optim.NewSweeper(l, log)
	if workers > 0 {
		sweeper.Workers = workers
	}
	best, err := sweeper.Sweep(ctx, grid, obj)
	if err != nil {
		return err
	}

	fmt.Printf("evaluated: %d\n", best.Evaluated)
	fmt.Printf("best (%s): %.4f\n\n", objective, best.Score)
	printSummary(os.Stdout, l, best.Inputs, best.Result)

	if save {
		runID, err := storage.New(dataDir, log).Save(l, best.Inputs, best.Result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	l, err := physics.NewLauncher(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.WithFields(logrus.Fields{"scenario": sc.Name, "steps": len(sc.Steps)}).Info("running scenario")
	results, err := automation.RunScenario(ctx, sc, l, cfg.Inputs, log)

	st := storage.New(dataDir, log)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tINITIAL\tTORQUE\tRELEASE\tDISTANCE\tPOINTS\tRUN")
	for _, r := range results {
		runID := "-"
		if r.Save {
			id, serr := st.Save(l, r.Inputs, r.Result)
			if serr != nil {
				return serr
			}
			runID = id
		}
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%.2f\t%d\t%s\n",
			r.Name, r.Inputs.InitialAngle, r.Inputs.MotorTorque, r.Inputs.ReleaseAngle,
			r.Result.Distance, len(r.Result.Path), runID)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	in, err := resolveInputs(cmd)
	if err != nil {
		return err
	}
	l, err := physics.NewLauncher(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunMonteCarlo(ctx, automation.MonteCarloConfig{
		Base:         in,
		AngleSpread:  angleSpread,
		TorqueSpread: torqueSpread,
		NumTrials:    trials,
		Seed:         seed,
	}, l)
	if err != nil {
		return err
	}

	st := automation.Stats(results)
	fmt.Printf("trials: %d (stalled: %d)\n", st.Trials, st.Stalled)
	fmt.Printf("distance mean: %.2f cm\n", st.Mean)
	fmt.Printf("distance stddev: %.2f cm\n", st.StdDev)
	fmt.Printf("distance range: [%.2f, %.2f] cm\n", st.Min, st.Max)

	if len(results) > 1 {
		dist := make([]float64, len(results))
		for i, r := range results {
			dist[i] = r.Distance
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(dist,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("distance per trial"),
		))
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	l, err := physics.NewLauncher(cfg)
	if err != nil {
		return err
	}
	return viz.Run(l, cfg.Inputs)
}
