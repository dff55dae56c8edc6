package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/predsim/internal/config"
	"github.com/san-kum/predsim/internal/dynamo"
	"github.com/spf13/cobra"
)

var (
	// Deterministic model
	alpha      float64
	beta       float64
	delta      float64
	gamma      float64
	prey       float64
	predators  float64
	t0         float64
	tEnd       float64
	step       float64
	integrator string
	// Stochastic model
	dt    float64
	steps int
	seed  uint64
	clamp bool
	// Output
	outFile   string
	noChart   bool
	stochMode bool
	svgFile   string
	// Config file and preset name
	configFile string
	preset     string
	logLevel   string
	// Sweep
	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	// Monte Carlo
	trials int
)

// main is the entry point for the predsim CLI. Without a subcommand it opens
// the interactive menu. It exits with status 1 when a command fails.
func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "predsim",
		Short:         "Lotka-Volterra predator-prey simulator",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runInteractive,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "deterministic run with summary and chart",
		Args:  cobra.NoArgs,
		RunE:  runDeterministic,
	}
	addModelFlags(runCmd)
	runCmd.Flags().StringVar(&outFile, "out", "", "chart path (default from config)")
	runCmd.Flags().BoolVar(&noChart, "no-chart", false, "skip writing the chart")

	stochasticCmd := &cobra.Command{
		Use:   "stochastic",
		Short: "stochastic event simulation",
		Args:  cobra.NoArgs,
		RunE:  runStochastic,
	}
	addStochasticFlags(stochasticCmd)
	stochasticCmd.Flags().StringVar(&outFile, "out", "", "phase chart path (png)")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "terminal chart of a deterministic run",
		Args:  cobra.NoArgs,
		RunE:  plotRun,
	}
	addModelFlags(plotCmd)
	plotCmd.Flags().Int("width", 80, "chart width")
	plotCmd.Flags().Int("height", 15, "chart height")

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "terminal phase portrait",
		Args:  cobra.NoArgs,
		RunE:  phasePlot,
	}
	addModelFlags(phaseCmd)
	addStochasticFlags(phaseCmd)
	phaseCmd.Flags().BoolVar(&stochMode, "stochastic", false, "use the stochastic model")
	phaseCmd.Flags().Int("width", 70, "portrait width")
	phaseCmd.Flags().Int("height", 25, "portrait height")
	phaseCmd.Flags().StringVar(&svgFile, "svg", "", "also write the portrait as svg")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "oscillation period of a deterministic run",
		Args:  cobra.NoArgs,
		RunE:  analyzeRun,
	}
	addModelFlags(analyzeCmd)
	analyzeCmd.Flags().Float64("sample", 0.1, "resampling interval")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv",
		Short: "export a run to CSV",
		Args:  cobra.NoArgs,
		RunE:  exportCSV,
	}
	exportJSONCmd := &cobra.Command{
		Use:   "export-json",
		Short: "export a run to JSON",
		Args:  cobra.NoArgs,
		RunE:  exportJSON,
	}
	for _, c := range []*cobra.Command{exportCSVCmd, exportJSONCmd} {
		addModelFlags(c)
		addStochasticFlags(c)
		c.Flags().BoolVar(&stochMode, "stochastic", false, "use the stochastic model")
		c.Flags().StringVar(&outFile, "file", "", "output file (default stdout)")
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [mode]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	tuiCmd := &cobra.Command{
		Use:       "tui [deterministic|stochastic]",
		Short:     "interactive parameter panel",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{config.ModeDeterministic, config.ModeStochastic},
		RunE:      runPanel,
	}
	addModelFlags(tuiCmd)
	addStochasticFlags(tuiCmd)

	interactiveCmd := &cobra.Command{
		Use:   "interactive",
		Short: "menu: default or custom parameters, or an interactive panel",
		Args:  cobra.NoArgs,
		RunE:  runInteractive,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and tabulate the runs",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "alpha", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0.05, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0.2, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of runs")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same parameters",
		RunE:  compareIntegrators,
	}
	addModelFlags(compareCmd)

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "ensemble of stochastic runs with extinction counts",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addStochasticFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")

	rootCmd.AddCommand(runCmd, stochasticCmd, plotCmd, phaseCmd, analyzeCmd, exportCSVCmd, exportJSONCmd,
		presetsCmd, tuiCmd, interactiveCmd, scenarioCmd, sweepCmd, compareCmd, monteCarloCmd)
	return rootCmd
}

func addModelFlags(cmd *cobra.Command) {
	p := config.DefaultConfig().Deterministic
	cmd.Flags().Float64Var(&alpha, "alpha", p.Alpha, "prey birth rate")
	cmd.Flags().Float64Var(&beta, "beta", p.Beta, "predation rate")
	cmd.Flags().Float64Var(&delta, "delta", p.Delta, "predator reproduction rate (predator death rate with --stochastic)")
	cmd.Flags().Float64Var(&gamma, "gamma", p.Gamma, "predator death rate (predator birth rate with --stochastic)")
	cmd.Flags().Float64Var(&prey, "prey", p.InitialPrey, "initial prey population")
	cmd.Flags().Float64Var(&predators, "predators", p.InitialPredator, "initial predator population")
	cmd.Flags().Float64Var(&t0, "t0", p.TStart, "start time")
	cmd.Flags().Float64Var(&tEnd, "tend", p.TEnd, "end time")
	cmd.Flags().Float64Var(&step, "step", p.Step, "initial step size")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (dopri5, rk4, euler)")
}

// addStochasticFlags shares the rate and population flags with
// addModelFlags when both are registered on one command.
func addStochasticFlags(cmd *cobra.Command) {
	p := config.DefaultConfig().Stochastic
	if cmd.Flags().Lookup("alpha") == nil {
		cmd.Flags().Float64Var(&alpha, "alpha", p.Alpha, "prey birth rate")
		cmd.Flags().Float64Var(&beta, "beta", p.Beta, "predation rate")
		cmd.Flags().Float64Var(&gamma, "gamma", p.Gamma, "predator birth rate")
		cmd.Flags().Float64Var(&delta, "delta", p.Delta, "predator death rate")
		cmd.Flags().Float64Var(&prey, "prey", p.InitialPrey, "initial prey population")
		cmd.Flags().Float64Var(&predators, "predators", p.InitialPredator, "initial predator population")
	}
	cmd.Flags().Float64Var(&dt, "dt", p.Dt, "stochastic time step")
	cmd.Flags().IntVar(&steps, "n", p.N, "number of stochastic iterations")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = random)")
	cmd.Flags().BoolVar(&clamp, "clamp", false, "keep populations from going below zero")
}

func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// describeError separates bad input from failed runs.
func describeError(err error) string {
	var ie *dynamo.IntegrationError
	switch {
	case errors.Is(err, dynamo.ErrInvalidParameter):
		return "invalid parameters: " + err.Error()
	case errors.As(err, &ie), errors.Is(err, dynamo.ErrStepTooSmall), errors.Is(err, dynamo.ErrMaxSteps), errors.Is(err, dynamo.ErrUnstable):
		return "simulation failed: " + err.Error()
	default:
		return "error: " + err.Error()
	}
}
