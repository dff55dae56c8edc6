package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/predsim/internal/analysis"
	"github.com/san-kum/predsim/internal/automation"
	"github.com/san-kum/predsim/internal/config"
	"github.com/san-kum/predsim/internal/experiment"
	"github.com/san-kum/predsim/internal/export"
	"github.com/san-kum/predsim/internal/viz"
	"github.com/spf13/cobra"
)

func newRunner() (*experiment.Runner, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	return experiment.NewRunner(logger), nil
}

// simulate resolves the configuration for mode and runs it once.
func simulate(cmd *cobra.Command, mode string) (*config.Config, *experiment.Result, error) {
	cfg, err := resolveConfig(cmd, mode)
	if err != nil {
		return nil, nil, err
	}
	runner, err := newRunner()
	if err != nil {
		return nil, nil, err
	}
	res, err := runner.Run(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, res, nil
}

func runDeterministic(cmd *cobra.Command, args []string) error {
	cfg, res, err := simulate(cmd, config.ModeDeterministic)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printDeterministic(out, cfg, res)

	if noChart {
		return nil
	}
	path := cfg.Output.Chart
	if outFile != "" {
		path = outFile
	}
	opts := export.ChartOptions{Title: "Lotka-Volterra", Width: cfg.Output.Width, Height: cfg.Output.Height}
	if err := export.WriteFile(path, func(w io.Writer) error {
		return export.TimeSeriesPNG(w, res.Trajectory, opts)
	}); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	fmt.Fprintf(out, "chart: %s\n", path)
	return nil
}

func printDeterministic(out io.Writer, cfg *config.Config, res *experiment.Result) {
	p := cfg.ModelParams()
	s := analysis.Summarize(res.Trajectory, p)

	fmt.Fprintf(out, "run id: %s\n", res.RunID)
	fmt.Fprintf(out, "integrator: %s\n", res.Integrator)
	fmt.Fprintf(out, "completed in %v\n", res.Elapsed)
	fmt.Fprintf(out, "points: %d (accepted %d, rejected %d, evaluations %d)\n\n",
		s.Points, res.Accepted, res.Rejected, res.Evaluations)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tMIN\tMAX\tMEAN\tPEAKS\tFINAL")
	for _, row := range []struct {
		name string
		st   analysis.SpeciesStats
	}{{"prey", s.Prey}, {"predators", s.Predators}} {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%d\t%.4f\n",
			row.name, row.st.Min, row.st.Max, row.st.Mean, row.st.Peaks, row.st.Final)
	}
	w.Flush()

	fmt.Fprintln(out)
	if eq, ok := analysis.Equilibrium(p); ok {
		fmt.Fprintf(out, "equilibrium: prey %.4f, predators %.4f\n", eq.Prey, eq.Predators)
		if period := analysis.Period(res.Trajectory, eq.Prey); period > 0 {
			fmt.Fprintf(out, "period: %.4f\n", period)
		}
	}
	fmt.Fprintf(out, "invariant drift: %.3e\n", s.InvariantDrift)
}

func runStochastic(cmd *cobra.Command, args []string) error {
	cfg, res, err := simulate(cmd, config.ModeStochastic)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	s := analysis.SummarizePoints(res.Points)
	final := res.Points[len(res.Points)-1]

	fmt.Fprintf(out, "run id: %s\n", res.RunID)
	if res.Seed != 0 {
		fmt.Fprintf(out, "seed: %d\n", res.Seed)
	}
	fmt.Fprintf(out, "completed in %v\n", res.Elapsed)
	fmt.Fprintf(out, "steps: %d\n", cfg.Stochastic.N)
	fmt.Fprintf(out, "final: prey %.0f, predators %.0f\n", final.Prey, final.Predators)
	fmt.Fprintf(out, "prey range: %.0f..%.0f, predator range: %.0f..%.0f\n",
		s.Prey.Min, s.Prey.Max, s.Predators.Min, s.Predators.Max)
	if s.Extinction >= 0 {
		fmt.Fprintf(out, "extinction at step %d\n", s.Extinction)
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, analysis.PhaseToASCII(res.Points, 60, 20))

	if outFile == "" {
		return nil
	}
	opts := export.ChartOptions{Title: "Stochastic phase portrait", Width: cfg.Output.Width, Height: cfg.Output.Height}
	if err := export.WriteFile(outFile, func(w io.Writer) error {
		return export.PhasePNG(w, res.Points, opts)
	}); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	fmt.Fprintf(out, "chart: %s\n", outFile)
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg, res, err := simulate(cmd, config.ModeDeterministic)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	w, h := chartSize(cmd)
	traj := analysis.ResampleN(res.Trajectory, w)

	fmt.Fprintf(out, "run: %s\n", res.RunID)
	fmt.Fprintf(out, "t: %.2f..%.2f, points: %d\n\n", cfg.Deterministic.TStart, cfg.Deterministic.TEnd, res.Trajectory.Len())

	graph := asciigraph.PlotMany([][]float64{traj.Prey, traj.Predators},
		asciigraph.Height(h),
		asciigraph.Width(w),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.SeriesLegends("prey", "predators"),
		asciigraph.Caption("population vs time"),
	)
	fmt.Fprintln(out, graph)
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	mode := resolveMode()
	_, res, err := simulate(cmd, mode)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	points := res.Points
	if mode == config.ModeDeterministic {
		points = res.Trajectory.Phase()
	}
	fmt.Fprintf(out, "phase portrait: %s (%s)\n", res.RunID, mode)
	fmt.Fprintln(out, "x-axis: prey, y-axis: predators")
	fmt.Fprintln(out)
	w, h := chartSize(cmd)
	fmt.Fprint(out, analysis.PhaseToASCII(points, w, h))

	if svgFile != "" {
		svg := export.PhaseToSVG(points, 800, 600, "#2a9d8f")
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return fmt.Errorf("failed to write svg: %w", err)
		}
		fmt.Fprintf(out, "\nsvg: %s\n", svgFile)
	}
	return nil
}

// chartSize reads --width and --height from the running command, whose
// defaults differ between plot and phase.
func chartSize(cmd *cobra.Command) (int, int) {
	w, _ := cmd.Flags().GetInt("width")
	h, _ := cmd.Flags().GetInt("height")
	return w, h
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	cfg, res, err := simulate(cmd, config.ModeDeterministic)
	if err != nil {
		return err
	}
	sample, _ := cmd.Flags().GetFloat64("sample")
	grid, err := analysis.Resample(res.Trajectory, sample)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frequency analysis: %s\n", res.RunID)
	fmt.Fprintf(out, "samples: %d (dt=%g)\n\n", grid.Len(), sample)

	crossing := map[string]float64{}
	if eq, ok := analysis.Equilibrium(cfg.ModelParams()); ok {
		for name, c := range map[string][]float64{
			"prey":      analysis.Crossings(res.Trajectory.Times, res.Trajectory.Prey, eq.Prey),
			"predators": analysis.Crossings(res.Trajectory.Times, res.Trajectory.Predators, eq.Predators),
		} {
			if len(c) >= 2 {
				crossing[name] = (c[len(c)-1] - c[0]) / float64(len(c)-1)
			}
		}
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tSPECTRAL PERIOD\tCROSSING PERIOD")
	for _, row := range []struct {
		name   string
		series []float64
	}{{"prey", grid.Prey}, {"predators", grid.Predators}} {
		fmt.Fprintf(w, "%s\t%s\t%s\n", row.name,
			formatPeriod(analysis.DominantPeriod(row.series, sample)),
			formatPeriod(crossing[row.name]))
	}
	return w.Flush()
}

func formatPeriod(p float64) string {
	if p <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.3f", p)
}

// exportTarget returns stdout unless --file is set.
func exportTarget(cmd *cobra.Command, write func(io.Writer) error) error {
	if outFile == "" {
		return write(cmd.OutOrStdout())
	}
	if err := export.WriteFile(outFile, write); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", outFile)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	mode := resolveMode()
	_, res, err := simulate(cmd, mode)
	if err != nil {
		return err
	}
	return exportTarget(cmd, func(w io.Writer) error {
		if mode == config.ModeStochastic {
			return export.WritePointsCSV(w, res.Points)
		}
		return export.WriteTrajectoryCSV(w, res.Trajectory)
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	mode := resolveMode()
	cfg, res, err := simulate(cmd, mode)
	if err != nil {
		return err
	}
	var data export.ExportData
	if mode == config.ModeStochastic {
		data = export.NewPointsData(res.RunID, cfg.Stochastic.Params, res.Seed, res.Points)
	} else {
		data = export.NewTrajectoryData(res.RunID, res.Integrator, cfg.ModelParams(), res.Trajectory)
	}
	return exportTarget(cmd, func(w io.Writer) error {
		return export.WriteJSON(w, data)
	})
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	modes := []string{config.ModeDeterministic, config.ModeStochastic}
	if len(args) > 0 {
		modes = args[:1]
	}
	for _, mode := range modes {
		presets := config.ListPresets(mode)
		if len(presets) == 0 {
			return fmt.Errorf("no presets for mode: %s", mode)
		}
		fmt.Fprintf(out, "presets for %s:\n", mode)
		for _, p := range presets {
			fmt.Fprintf(out, "  %s\n", p)
		}
	}
	return nil
}

func runPanel(cmd *cobra.Command, args []string) error {
	mode := config.ModeDeterministic
	if len(args) > 0 {
		mode = args[0]
	}
	switch mode {
	case config.ModeDeterministic:
		cfg, err := resolveConfig(cmd, mode)
		if err != nil {
			return err
		}
		return viz.RunPanel(viz.NewDeterministicPanel(cfg.ModelParams(), cfg.Deterministic.Step))
	case config.ModeStochastic:
		cfg, err := resolveConfig(cmd, mode)
		if err != nil {
			return err
		}
		return viz.RunPanel(viz.NewStochasticPanel(cfg.Stochastic.Params, cfg.Stochastic.Seed))
	default:
		return fmt.Errorf("unknown mode: %s (use deterministic or stochastic)", mode)
	}
}

func runInteractive(cmd *cobra.Command, args []string) error {
	det, sto, err := menuConfigs(cmd)
	if err != nil {
		return err
	}

	sel, err := viz.RunInteractive(viz.NewMenu(det.ModelParams(), det.Deterministic.Step, sto.Stochastic.Params, sto.Stochastic.Seed))
	if err != nil {
		return err
	}
	if !sel.Run {
		return nil
	}

	det.SetModelParams(sel.Params)
	runner, err := newRunner()
	if err != nil {
		return err
	}
	res, err := runner.Run(cmd.Context(), det)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printDeterministic(out, det, res)

	opts := export.ChartOptions{Title: "Lotka-Volterra", Width: det.Output.Width, Height: det.Output.Height}
	if err := export.WriteFile(det.Output.Chart, func(w io.Writer) error {
		return export.TimeSeriesPNG(w, res.Trajectory, opts)
	}); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	fmt.Fprintf(out, "chart: %s\n", det.Output.Chart)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Fprintf(out, "%s\n", scenario.Description)
	}
	fmt.Fprintln(out)

	results, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRunner(logger), logger)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMODE\tRUN ID\tPOINTS\tFILES")
	for _, r := range results {
		n := r.Result.Trajectory.Len()
		if r.Result.Mode == config.ModeStochastic {
			n = len(r.Result.Points)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%v\n", r.Name, r.Result.Mode, r.Result.RunID, n, r.Files)
	}
	w.Flush()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, config.ModeDeterministic)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	points, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:       cfg.ModelParams(),
		ParamName:  sweepParam,
		ParamMin:   sweepFrom,
		ParamMax:   sweepTo,
		NumSteps:   sweepSteps,
		Step:       cfg.Deterministic.Step,
		Integrator: cfg.Integrator,
	}, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "sweep %s from %g to %g (%d runs)\n\n", sweepParam, sweepFrom, sweepTo, sweepSteps)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPREY MIN\tPREY MAX\tPRED MIN\tPRED MAX\tPERIOD\n", sweepParam)
	for _, pt := range points {
		if pt.Err != nil {
			fmt.Fprintf(w, "%.4f\terror: %v\n", pt.Param, pt.Err)
			continue
		}
		fmt.Fprintf(w, "%.4f\t%.3f\t%.3f\t%.3f\t%.3f\t%s\n", pt.Param,
			pt.Summary.Prey.Min, pt.Summary.Prey.Max,
			pt.Summary.Predators.Min, pt.Summary.Predators.Max, formatPeriod(pt.Period))
	}
	w.Flush()
	fmt.Fprintln(out)
	fmt.Fprint(out, analysis.SweepToASCII(points, 60, 15))
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, config.ModeDeterministic)
	if err != nil {
		return err
	}
	runner, err := newRunner()
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = runner.Registry().ListIntegrators()
	}

	p := cfg.ModelParams()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "comparing integrators (step=%g, t=%g..%g)\n\n", cfg.Deterministic.Step, p.TStart, p.TEnd)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tPOINTS\tFINAL PREY\tFINAL PRED\tDRIFT\tTIME")
	for _, name := range names {
		res, err := runner.Deterministic(cmd.Context(), p, name, cfg.Deterministic.Step)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}
		s := analysis.Summarize(res.Trajectory, p)
		fmt.Fprintf(w, "%s\t%d\t%.6f\t%.6f\t%.2e\t%v\n", name, s.Points,
			s.Prey.Final, s.Predators.Final, s.InvariantDrift, res.Elapsed.Round(time.Microsecond))
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, config.ModeStochastic)
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Params:    cfg.Stochastic.Params,
		NumTrials: trials,
		Seed:      cfg.Stochastic.Seed,
	}, logger)
	if err != nil {
		return err
	}
	survived, extinct := automation.MonteCarloStats(results)

	var meanPrey, meanPred float64
	for _, r := range results {
		meanPrey += r.Final.Prey
		meanPred += r.Final.Predators
	}
	if n := float64(len(results)); n > 0 {
		meanPrey /= n
		meanPred /= n
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "trials: %d (%v)\n", len(results), time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(out, "survived: %d\n", survived)
	fmt.Fprintf(out, "extinct: %d\n", extinct)
	fmt.Fprintf(out, "mean final: prey %.1f, predators %.1f\n", meanPrey, meanPred)
	return nil
}

