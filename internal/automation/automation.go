package automation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/san-kum/predsim/internal/analysis"
	"github.com/san-kum/predsim/internal/config"
	"github.com/san-kum/predsim/internal/dynamo"
	"github.com/san-kum/predsim/internal/experiment"
	"github.com/san-kum/predsim/internal/export"
	"github.com/san-kum/predsim/internal/models"
	"github.com/san-kum/predsim/internal/stochastic"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	OutputDir   string         `yaml:"output_dir"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Params override the preset
// (or the defaults) by name, see models.ParamNames and
// stochastic.ParamNames.
type ScenarioStep struct {
	Name       string             `yaml:"name"`
	Mode       string             `yaml:"mode"`
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Step       float64            `yaml:"step"`
	Seed       uint64             `yaml:"seed"`
	Params     map[string]float64 `yaml:"params"`
	Chart      string             `yaml:"chart"`
	CSV        string             `yaml:"csv"`
}

// StepResult pairs a run with the files written for it.
type StepResult struct {
	Name   string
	Result *experiment.Result
	Files  []string
}

func discardLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}

	return &scenario, nil
}

// StepConfig resolves a step into a validated run configuration.
func StepConfig(step ScenarioStep) (*config.Config, error) {
	mode := step.Mode
	if mode == "" {
		mode = config.ModeDeterministic
	}

	cfg := config.DefaultConfig()
	cfg.Mode = mode
	if step.Preset != "" {
		cfg = config.GetPreset(mode, step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown %s preset: %s", mode, step.Preset)
		}
	}
	if step.Integrator != "" {
		cfg.Integrator = step.Integrator
	}
	if step.Step != 0 {
		cfg.Deterministic.Step = step.Step
	}
	if step.Seed != 0 {
		cfg.Stochastic.Seed = step.Seed
	}

	for name, v := range step.Params {
		switch mode {
		case config.ModeDeterministic:
			p, err := cfg.ModelParams().With(name, v)
			if err != nil {
				return nil, err
			}
			cfg.SetModelParams(p)
		case config.ModeStochastic:
			p, err := cfg.Stochastic.Params.With(name, v)
			if err != nil {
				return nil, err
			}
			cfg.Stochastic.Params = p
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes all steps in order, stopping at the first failure.
// Results of the steps that completed are returned alongside the error.
func RunScenario(ctx context.Context, scenario *Scenario, runner *experiment.Runner, logger *slog.Logger) ([]StepResult, error) {
	logger = discardLogger(logger)
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		logger.Info("running scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "name", name)

		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}

		res, err := runner.Run(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d (%s) run: %w", i+1, name, err)
		}

		sr := StepResult{Name: name, Result: res}
		if step.Chart != "" {
			path := filepath.Join(scenario.OutputDir, step.Chart)
			if err := writeChart(path, res, cfg); err != nil {
				return results, fmt.Errorf("step %d (%s) chart: %w", i+1, name, err)
			}
			sr.Files = append(sr.Files, path)
		}
		if step.CSV != "" {
			path := filepath.Join(scenario.OutputDir, step.CSV)
			if err := writeCSV(path, res); err != nil {
				return results, fmt.Errorf("step %d (%s) csv: %w", i+1, name, err)
			}
			sr.Files = append(sr.Files, path)
		}
		for _, f := range sr.Files {
			logger.Info("wrote file", "run_id", res.RunID, "path", f)
		}

		results = append(results, sr)
	}

	return results, nil
}

func writeChart(path string, res *experiment.Result, cfg *config.Config) error {
	opts := export.ChartOptions{Width: cfg.Output.Width, Height: cfg.Output.Height}
	return export.WriteFile(path, func(w io.Writer) error {
		if res.Mode == config.ModeStochastic {
			opts.Title = "Stochastic Lotka-Volterra"
			return export.PhasePNG(w, res.Points, opts)
		}
		opts.Title = "Lotka-Volterra"
		return export.TimeSeriesPNG(w, res.Trajectory, opts)
	})
}

func writeCSV(path string, res *experiment.Result) error {
	return export.WriteFile(path, func(w io.Writer) error {
		if res.Mode == config.ModeStochastic {
			return export.WritePointsCSV(w, res.Points)
		}
		return export.WriteTrajectoryCSV(w, res.Trajectory)
	})
}

// ParameterSweep runs deterministic simulations across a range of values of
// one parameter.
type ParameterSweep struct {
	Base      models.Params
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Step      float64

	// Integrator is a registry name; empty means the adaptive default.
	Integrator string
}

// RunSweep executes a parameter sweep. Runs that fail are reported in their
// SweepPoint and logged; they do not stop the sweep.
func RunSweep(ctx context.Context, sweep *ParameterSweep, logger *slog.Logger) ([]analysis.SweepPoint, error) {
	logger = discardLogger(logger)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	step := sweep.Step
	if step == 0 {
		step = models.DefaultStep
	}

	var integ dynamo.Integrator
	if sweep.Integrator != "" {
		var err error
		if integ, err = experiment.NewRegistry().GetIntegrator(sweep.Integrator); err != nil {
			return nil, err
		}
	}

	points, err := analysis.SweepWith(integ, sweep.Base, sweep.ParamName, sweep.ParamMin, sweep.ParamMax, sweep.NumSteps, step)
	if err != nil {
		return nil, err
	}

	for i, pt := range points {
		if pt.Err != nil {
			logger.Warn("sweep point failed", "param", sweep.ParamName, "value", pt.Param, "error", pt.Err)
			continue
		}
		logger.Debug("sweep point", "index", i+1, "of", len(points), "param", sweep.ParamName, "value", pt.Param)
	}
	return points, nil
}

// MonteCarloConfig defines an ensemble of stochastic runs
type MonteCarloConfig struct {
	Params    stochastic.Params
	NumTrials int
	// Seed of the first trial; trial i uses Seed+i. Zero draws a fresh random
	// source per trial.
	Seed uint64
}

// MonteCarloResult summarizes one stochastic trial
type MonteCarloResult struct {
	TrialID    int
	Seed       uint64
	Final      dynamo.PhasePoint
	Extinction int // index of the first point with an empty population, or -1
}

// RunMonteCarlo executes the trials sequentially.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, logger *slog.Logger) ([]MonteCarloResult, error) {
	logger = discardLogger(logger)
	if cfg.NumTrials < 0 {
		return nil, &dynamo.InvalidParameterError{Field: "trials", Value: float64(cfg.NumTrials), Reason: "must be non-negative"}
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		var src stochastic.Source
		seed := uint64(0)
		if cfg.Seed != 0 {
			seed = cfg.Seed + uint64(trial)
			src = stochastic.NewSource(seed)
		} else {
			src = stochastic.NewRandomSource()
		}

		points := stochastic.Simulate(cfg.Params, src)
		summary := analysis.SummarizePoints(points)

		results = append(results, MonteCarloResult{
			TrialID:    trial,
			Seed:       seed,
			Final:      points[len(points)-1],
			Extinction: summary.Extinction,
		})

		if (trial+1)%10 == 0 {
			logger.Info("monte carlo progress", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats counts trials in which both species survived.
func MonteCarloStats(results []MonteCarloResult) (survived int, extinct int) {
	for _, r := range results {
		if r.Extinction < 0 {
			survived++
		} else {
			extinct++
		}
	}
	return
}
