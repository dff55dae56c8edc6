package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/predsim/internal/config"
	"github.com/san-kum/predsim/internal/dynamo"
	"github.com/san-kum/predsim/internal/models"
	"github.com/san-kum/predsim/internal/stochastic"
)

// Result is the outcome of a single run. Exactly one of Trajectory or Points
// is populated, depending on Mode.
type Result struct {
	RunID      string
	Mode       string
	Integrator string
	Seed       uint64

	Trajectory dynamo.Trajectory
	Points     []dynamo.PhasePoint

	Accepted    int
	Rejected    int
	Evaluations int
	Elapsed     time.Duration
}

// Runner turns parameters into results. It holds no per-run state, so the
// same inputs always produce the same trajectory.
type Runner struct {
	registry *Registry
	logger   *slog.Logger
}

func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{registry: NewRegistry(), logger: logger}
}

func (r *Runner) Registry() *Registry { return r.registry }

// Run dispatches on cfg.Mode.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	switch cfg.Mode {
	case config.ModeDeterministic:
		return r.Deterministic(ctx, cfg.ModelParams(), cfg.Integrator, cfg.Deterministic.Step)
	case config.ModeStochastic:
		return r.Stochastic(ctx, cfg.Stochastic.Params, cfg.Stochastic.Seed)
	default:
		return nil, fmt.Errorf("unknown mode: %q", cfg.Mode)
	}
}

func (r *Runner) Deterministic(ctx context.Context, p models.Params, integrator string, step float64) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if integrator == "" {
		integrator = config.DefaultIntegrator
	}
	integ, err := r.registry.GetIntegrator(integrator)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:      uuid.NewString(),
		Mode:       config.ModeDeterministic,
		Integrator: integ.Name(),
	}
	log := r.logger.With("run_id", res.RunID, "mode", res.Mode, "integrator", res.Integrator)
	log.Debug("starting run", "t0", p.TStart, "tend", p.TEnd, "step", step)

	start := time.Now()
	x0 := dynamo.State{p.InitialPrey, p.InitialPredator}
	sol, err := integ.Integrate(models.NewLotkaVolterra(p), p.TStart, p.TEnd, x0, step)
	if err != nil {
		log.Error("integration failed", "error", err)
		return nil, err
	}
	traj, err := dynamo.TrajectoryFromSolution(sol)
	if err != nil {
		return nil, err
	}
	res.Elapsed = time.Since(start)
	res.Trajectory = traj
	res.Accepted = sol.Accepted
	res.Rejected = sol.Rejected
	res.Evaluations = sol.Evaluations

	log.Info("run complete",
		"points", traj.Len(),
		"accepted", res.Accepted,
		"rejected", res.Rejected,
		"elapsed", res.Elapsed)
	return res, nil
}

// Stochastic runs the event simulator. A zero seed draws from a fresh random
// source, so repeated calls differ.
func (r *Runner) Stochastic(ctx context.Context, p stochastic.Params, seed uint64) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID: uuid.NewString(),
		Mode:  config.ModeStochastic,
		Seed:  seed,
	}
	log := r.logger.With("run_id", res.RunID, "mode", res.Mode)
	log.Debug("starting run", "n", p.N, "dt", p.Dt, "seed", seed, "clamp", p.ClampAtZero)

	var src stochastic.Source
	if seed != 0 {
		src = stochastic.NewSource(seed)
	} else {
		src = stochastic.NewRandomSource()
	}

	start := time.Now()
	res.Points = stochastic.Simulate(p, src)
	res.Elapsed = time.Since(start)

	if t4 := stochastic.MaxThreshold(p, res.Points); t4 > 1 {
		log.Warn("event probabilities exceed one, dt is too large", "max_threshold", t4)
	}
	log.Info("run complete", "points", len(res.Points), "elapsed", res.Elapsed)
	return res, nil
}
