package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/impulse/internal/analysis"
	"github.com/san-kum/impulse/internal/automation"
	"github.com/san-kum/impulse/internal/compute"
	"github.com/san-kum/impulse/internal/config"
	"github.com/san-kum/impulse/internal/gui"
	"github.com/san-kum/impulse/internal/metrics"
	"github.com/san-kum/impulse/internal/particle"
	"github.com/san-kum/impulse/internal/scene"
	"github.com/san-kum/impulse/internal/sim"
	"github.com/san-kum/impulse/internal/storage"
	"github.com/san-kum/impulse/internal/viz"
)

var (
	dataDir     string
	dt          float64
	duration    float64
	seed        int64
	iterations  int
	maxContacts int
	paramFlags  []string
	configFile  string
	preset      string
	save        bool
	bodyIdx     int
	ground      float64
	format      string
	outPath     string
	benchSteps  int
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	trials      int
	threshold   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "impulse",
		Short: "particle physics workbench",
		Run: func(cmd *cobra.Command, args []string) {
			// Default to the interactive GUI when no command given
			gui.RunInteractive(scene.NewRegistry())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "runs", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless",
		Args:  cobra.ExactArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", 10.0, "duration")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	runCmd.Flags().IntVar(&iterations, "iterations", 0, "resolver iteration cap (0 = 2x contacts)")
	runCmd.Flags().IntVar(&maxContacts, "max-contacts", 0, "contact batch cap (0 = unlimited)")
	runCmd.Flags().StringArrayVar(&paramFlags, "param", nil, "scene parameter override (name=value, repeatable)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list scenes",
		RunE:  listScenes,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list presets for a scene",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&bodyIdx, "body", 0, "body index to plot")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "trajectory and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bodyIdx, "body", 0, "body index to analyze")
	analyzeCmd.Flags().Float64Var(&ground, "ground", 0.0, "ground height for landing detection")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.New(dataDir).Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "output format: json, csv or svg")
	exportCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout; svg defaults to <run_id>.svg)")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "terminal front end",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := scene.NewRegistry()
			if len(args) > 0 {
				return viz.RunScene(registry, args[0])
			}
			return viz.Run(registry)
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui [scene]",
		Short: "raylib front end",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			registry := scene.NewRegistry()
			if len(args) > 0 {
				gui.Run(registry, args[0])
				return
			}
			gui.RunInteractive(registry)
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark compute backends",
		RunE:  benchBackends,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 200, "steps per measurement")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "sweep one scene parameter across a range",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepScene,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter to sweep (required)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "sweep start value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "sweep end value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of sweep steps")
	sweepCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	sweepCmd.Flags().Float64Var(&duration, "time", 10.0, "duration per step")
	sweepCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a scripted sequence from YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	trialsCmd := &cobra.Command{
		Use:   "trials [scene]",
		Short: "run repeated trials under consecutive seeds",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrials,
	}
	trialsCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	trialsCmd.Flags().Int64Var(&seed, "seed", 0, "first trial seed (0 = from clock)")
	trialsCmd.Flags().Float64Var(&threshold, "threshold", 0, "stability bounds half-extent (0 = 1e6)")
	trialsCmd.Flags().Float64Var(&dt, "dt", 0.01, "timestep")
	trialsCmd.Flags().Float64Var(&duration, "time", 10.0, "duration per trial")

	rootCmd.AddCommand(runCmd, scenesCmd, presetsCmd, listCmd, plotCmd, analyzeCmd, deleteCmd, exportCmd, liveCmd, guiCmd, benchCmd, sweepCmd, scriptCmd, trialsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScene(cmd *cobra.Command, args []string) error {
	sceneName := args[0]
	params := make(map[string]float64)

	if preset != "" {
		pc := config.GetPreset(sceneName, preset)
		if pc == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(sceneName))
		}
		if !cmd.Flags().Changed("dt") {
			dt = pc.Dt
		}
		if !cmd.Flags().Changed("time") {
			duration = pc.Duration
		}
		if pc.Seed != 0 && !cmd.Flags().Changed("seed") {
			seed = pc.Seed
		}
		for k, v := range pc.Params {
			params[k] = v
		}
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cmd.Flags().Changed("dt") {
			dt = fileCfg.Dt
		}
		if !cmd.Flags().Changed("time") {
			duration = fileCfg.Duration
		}
		if !cmd.Flags().Changed("iterations") {
			iterations = fileCfg.Iterations
		}
		if !cmd.Flags().Changed("max-contacts") {
			maxContacts = fileCfg.MaxContacts
		}
		if fileCfg.Seed != 0 && !cmd.Flags().Changed("seed") {
			seed = fileCfg.Seed
		}
		for k, v := range fileCfg.Params {
			params[k] = v
		}
		if fileCfg.Output.Dir != "" && !cmd.Flags().Changed("data") {
			dataDir = fileCfg.Output.Dir
		}
		if fileCfg.Output.SaveRun && !cmd.Flags().Changed("save") {
			save = true
		}
	}

	cliParams, err := parseParams(paramFlags)
	if err != nil {
		return err
	}
	for k, v := range cliParams {
		params[k] = v
	}
	if len(params) == 0 {
		params = nil
	}

	registry := scene.NewRegistry()
	sc, err := registry.Get(sceneName)
	if err != nil {
		return err
	}

	cfg := sim.Config{
		Scene:       sceneName,
		Dt:          dt,
		Duration:    duration,
		Iterations:  iterations,
		MaxContacts: maxContacts,
		Seed:        seed,
		Params:      params,
	}

	s := sim.New(sc)
	s.AddMetric(metrics.NewKineticEnergy())
	s.AddMetric(metrics.NewMomentum())
	s.AddMetric(metrics.NewApex())
	s.AddMetric(metrics.NewBounds(1e6))

	fmt.Printf("running %s...\n", sceneName)
	start := time.Now()

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("bodies at end: %d\n", len(result.FinalFrame().Bodies))

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func parseParams(pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed param %q, want name=value", pair)
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", key, err)
		}
		params[key] = f
	}
	return params, nil
}

func listScenes(cmd *cobra.Command, args []string) error {
	registry := scene.NewRegistry()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION\tPARAMS")

	for _, name := range registry.List() {
		sc, err := registry.Get(name)
		if err != nil {
			continue
		}
		params := "-"
		if cfg, ok := sc.(scene.Configurable); ok {
			keys := make([]string, 0)
			for k := range cfg.GetParams() {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			params = strings.Join(keys, ",")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, sc.Description(), params)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	sceneName := args[0]
	names := config.ListPresets(sceneName)
	if len(names) == 0 {
		fmt.Printf("no presets for scene: %s\n", sceneName)
		return nil
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDURATION\tDT\tPARAMS")

	for _, name := range names {
		pc := config.GetPreset(sceneName, name)
		fmt.Fprintf(w, "%s\t%.1fs\t%.4fs\t%s\n", name, pc.Duration, pc.Dt, formatParams(pc.Params))
	}

	return w.Flush()
}

func formatParams(params map[string]float64) string {
	if len(params) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, params[k]))
	}
	return strings.Join(parts, " ")
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Steps,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sim.Series, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}
	if bodyIdx < 0 || bodyIdx >= len(series) {
		return fmt.Errorf("body index %d out of range, run has %d bodies", bodyIdx, len(series))
	}
	s := series[bodyIdx]

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("bodies: %d (plotting %s, --body selects)\n", len(series), s.Body)
	fmt.Printf("samples: %d\n\n", len(s.Times))

	graph := asciigraph.Plot(analysis.Heights(s),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("height (y) vs time"),
	)
	fmt.Println(graph)
	fmt.Println()

	graph = asciigraph.Plot(analysis.Speeds(s),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("speed vs time"),
	)
	fmt.Println(graph)

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data")
	}
	if bodyIdx < 0 || bodyIdx >= len(series) {
		return fmt.Errorf("body index %d out of range, run has %d bodies", bodyIdx, len(series))
	}
	s := series[bodyIdx]

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s, body: %s\n\n", meta.Scene, s.Body)

	if summary := analysis.SummarizeTrajectory(s, ground); summary != nil {
		fmt.Printf("apex:         %.3f at t=%.2fs\n", summary.Apex, summary.ApexTime)
		fmt.Printf("range:        %.3f\n", summary.Range)
		fmt.Printf("flight time:  %.3fs\n", summary.FlightTime)
		if summary.Landed {
			fmt.Printf("impact speed: %.3f\n", summary.ImpactSpeed)
		} else {
			fmt.Printf("never crossed ground height %.2f\n", ground)
		}
	}

	heights := analysis.Heights(s)
	if ps := analysis.PowerSpectrum(heights); len(ps) >= 8 {
		graph := asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (height)"),
		)
		fmt.Println()
		fmt.Println(graph)
		fmt.Println()

		sampleRate := 0.0
		if meta.Dt > 0 {
			sampleRate = 1 / meta.Dt
		}
		freq := analysis.DominantFrequency(heights, sampleRate)
		fmt.Printf("dominant frequency: %.3f hz\n", freq)
		if freq > 0 {
			fmt.Printf("period: %.3f s\n", 1/freq)
		}
	}

	fmt.Println("\nphase portrait (y vs vy):")
	fmt.Println(analysis.PortraitASCII(analysis.PhasePortrait(s, 1), 70, 20))

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	meta, series, err := loadRun(runID)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return exportRunJSON(meta, series)
	case "csv":
		return exportRunCSV(series)
	case "svg":
		out := outPath
		if out == "" {
			out = runID + ".svg"
		}
		if err := storage.ExportSVG(out, series, 800, 500); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", out)
		return nil
	default:
		return fmt.Errorf("unknown format: %s (want json, csv or svg)", format)
	}
}

func outputWriter() (io.Writer, func() error, error) {
	if outPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportRunJSON(meta *storage.RunMetadata, series []sim.Series) error {
	bodies := make([]storage.BodyExport, 0, len(series))
	for _, s := range series {
		body := storage.BodyExport{ID: s.Body, Times: s.Times}
		for i := range s.Positions {
			body.Positions = append(body.Positions, [3]float64(s.Positions[i]))
			body.Velocities = append(body.Velocities, [3]float64(s.Velocities[i]))
		}
		bodies = append(bodies, body)
	}

	out := struct {
		Meta   *storage.RunMetadata `json:"meta"`
		Bodies []storage.BodyExport `json:"bodies"`
	}{meta, bodies}

	w, closer, err := outputWriter()
	if err != nil {
		return err
	}
	defer closer()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func exportRunCSV(series []sim.Series) error {
	out, closer, err := outputWriter()
	if err != nil {
		return err
	}
	defer closer()

	return storage.ExportCSV(out, series)
}

func benchBackends(cmd *cobra.Command, args []string) error {
	fmt.Printf("active backend: %s\n\n", compute.GetBackend().Name())

	sizes := []int{1024, 4096, 16384, 65536}
	serial := &compute.CPUBackend{Workers: 1}
	parallel := compute.NewCPUBackend()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tWORKERS\tSTEPS\tTIME\tPARTICLE-STEPS/SEC")

	for _, n := range sizes {
		for _, backend := range []*compute.CPUBackend{serial, parallel} {
			pos, vel := benchCloud(n)

			start := time.Now()
			for i := 0; i < benchSteps; i++ {
				backend.StepParticles(pos, vel, 0.016, 0.999, particle.EarthGravity(), 0.1, 0.01)
			}
			elapsed := time.Since(start)

			rate := float64(n*benchSteps) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n", n, backend.Workers, benchSteps, elapsed, rate)
		}
	}

	return w.Flush()
}

func benchCloud(n int) (pos, vel []float64) {
	rng := rand.New(rand.NewSource(42))
	pos = make([]float64, n*3)
	vel = make([]float64, n*3)
	for i := range pos {
		pos[i] = rng.Float64()*100 - 50
		vel[i] = rng.Float64()*20 - 10
	}
	return pos, vel
}

func sweepScene(cmd *cobra.Command, args []string) error {
	if sweepParam == "" {
		return fmt.Errorf("--param is required")
	}

	base := sim.DefaultConfig()
	base.Dt = dt
	base.Duration = duration
	base.Seed = seed

	sweep := &automation.ParameterSweep{
		Scene: args[0],
		Param: sweepParam,
		Min:   sweepMin,
		Max:   sweepMax,
		Steps: sweepSteps,
		Base:  base,
	}

	points, err := automation.RunSweep(context.Background(), sweep, scene.NewRegistry())
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tMEAN ENERGY\tPEAK ENERGY")

	means := make([]float64, len(points))
	for i, p := range points {
		means[i] = p.MeanEnergy
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\n", p.Value, p.MeanEnergy, p.PeakEnergy)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	graph := asciigraph.Plot(means,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("mean kinetic energy vs %s", sweepParam)),
	)
	fmt.Println(graph)

	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("script: %s\n", script.Name)
	if script.Description != "" {
		fmt.Println(script.Description)
	}
	fmt.Println()

	var store *storage.Store
	for _, step := range script.Steps {
		if step.Save {
			store = storage.New(dataDir)
			if err := store.Init(); err != nil {
				return err
			}
			break
		}
	}

	results, err := automation.RunScript(context.Background(), script, scene.NewRegistry(), store)
	if err != nil {
		return err
	}

	fmt.Println()
	for i, r := range results {
		line := fmt.Sprintf("step %d: %s, %d steps", i+1, r.Scene, r.Result.StepsTaken)
		if r.RunID != "" {
			line += ", saved as " + r.RunID
		}
		fmt.Println(line)
	}

	return nil
}

func runTrials(cmd *cobra.Command, args []string) error {
	base := sim.DefaultConfig()
	base.Dt = dt
	base.Duration = duration

	mc := &automation.MonteCarlo{
		Scene:     args[0],
		Trials:    trials,
		Seed:      seed,
		Threshold: threshold,
		Base:      base,
	}

	fmt.Printf("running %d trials of %s...\n", trials, args[0])
	start := time.Now()

	results, err := automation.RunMonteCarlo(context.Background(), mc, scene.NewRegistry())
	if err != nil {
		return err
	}

	st := automation.Stats(results)
	fmt.Printf("completed in %v\n\n", time.Since(start))
	fmt.Printf("trials:      %d\n", st.Trials)
	fmt.Printf("stable:      %d\n", st.Stable)
	fmt.Printf("unstable:    %d\n", st.Unstable)
	fmt.Printf("mean energy: %.4f\n", st.MeanEnergy)

	return nil
}
