package models

import (
	"math"

	"github.com/san-kum/predsim/internal/dynamo"
	"github.com/san-kum/predsim/internal/integrators"
)

// DefaultStep seeds the initial step size of the adaptive integrator.
const DefaultStep = 0.1

// LotkaVolterra is the two-species predator-prey ODE system with state
// (prey, predators).
type LotkaVolterra struct {
	p Params
}

func NewLotkaVolterra(p Params) *LotkaVolterra {
	return &LotkaVolterra{p: p}
}

func (lv *LotkaVolterra) StateDim() int { return 2 }

func (lv *LotkaVolterra) Params() Params { return lv.p }

func (lv *LotkaVolterra) Derive(x dynamo.State, t float64) dynamo.State {
	prey, predators := x[0], x[1]
	encounters := prey * predators

	return dynamo.State{
		lv.p.Alpha*prey - lv.p.Beta*encounters,
		lv.p.Delta*encounters - lv.p.Gamma*predators,
	}
}

// Invariant evaluates V = delta*x - gamma*ln(x) + beta*y - alpha*ln(y), which
// is constant along exact solutions. It returns NaN when a population is not
// strictly positive.
func (lv *LotkaVolterra) Invariant(x dynamo.State) float64 {
	prey, predators := x[0], x[1]
	if prey <= 0 || predators <= 0 {
		return math.NaN()
	}
	return lv.p.Delta*prey - lv.p.Gamma*math.Log(prey) + lv.p.Beta*predators - lv.p.Alpha*math.Log(predators)
}

// Integrate solves the system from y0 over [t0, tEnd] with the adaptive
// Dormand-Prince integrator (rtol = atol = 1e-6), using step as the initial
// step size. The returned grid is the sequence of accepted steps and is
// generally not uniform; use analysis.Resample for a fixed grid.
func Integrate(p Params, y0 [2]float64, t0, tEnd, step float64) (dynamo.Trajectory, error) {
	return IntegrateWith(integrators.NewDopri5(integrators.DefaultOptions()), p, y0, t0, tEnd, step)
}

// IntegrateWith is Integrate with a caller-chosen integrator.
func IntegrateWith(integ dynamo.Integrator, p Params, y0 [2]float64, t0, tEnd, step float64) (dynamo.Trajectory, error) {
	sol, err := integ.Integrate(NewLotkaVolterra(p), t0, tEnd, dynamo.State{y0[0], y0[1]}, step)
	if err != nil {
		return dynamo.Trajectory{}, err
	}
	return dynamo.TrajectoryFromSolution(sol)
}

// Run integrates p over its own initial populations and time window.
func (p Params) Run(step float64) (dynamo.Trajectory, error) {
	return Integrate(p, [2]float64{p.InitialPrey, p.InitialPredator}, p.TStart, p.TEnd, step)
}
