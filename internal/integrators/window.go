package integrators

import (
	"math"

	"github.com/san-kum/predsim/internal/dynamo"
)

const epsilon = 2.220446049250313e-16

func checkWindow(dyn dynamo.System, t0, tEnd float64, x0 dynamo.State, h float64) error {
	if !(h > 0) || tEnd < t0 {
		return &dynamo.IntegrationError{Time: t0, State: x0, Wrapped: dynamo.ErrInvalidStep}
	}
	if len(x0) != dyn.StateDim() {
		return &dynamo.IntegrationError{Time: t0, State: x0, Wrapped: dynamo.ErrDimensionMismatch}
	}
	if !x0.IsValid() {
		return &dynamo.IntegrationError{Time: t0, State: x0, Wrapped: dynamo.ErrUnstable}
	}
	return nil
}

// integrateFixed drives a single-step method over a uniform grid at h. The
// last step is shortened to land on tEnd. evals is the number of derivative
// evaluations per step.
func integrateFixed(dyn dynamo.System, t0, tEnd float64, x0 dynamo.State, h float64,
	step func(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State, evals int) (*dynamo.Solution, error) {
	if err := checkWindow(dyn, t0, tEnd, x0, h); err != nil {
		return nil, err
	}

	steps := int(math.Ceil((tEnd-t0)/h - 1e-9))
	sol := &dynamo.Solution{
		Times:  make([]float64, 0, steps+1),
		States: make([]dynamo.State, 0, steps+1),
	}
	sol.Times = append(sol.Times, t0)
	sol.States = append(sol.States, x0.Clone())

	x := x0.Clone()
	for i := 0; i < steps; i++ {
		t := t0 + float64(i)*h
		dt := h
		next := t0 + float64(i+1)*h
		if i == steps-1 || next > tEnd {
			next = tEnd
			dt = tEnd - t
		}

		x = step(dyn, x, t, dt)
		sol.Evaluations += evals
		if !x.IsValid() {
			return nil, &dynamo.IntegrationError{Step: i, Time: t, State: x, Wrapped: dynamo.ErrUnstable}
		}

		sol.Accepted++
		sol.Times = append(sol.Times, next)
		sol.States = append(sol.States, x.Clone())
	}

	return sol, nil
}
