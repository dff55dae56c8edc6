package integrators

import "github.com/san-kum/predsim/internal/dynamo"

// Euler is the explicit first-order method. It drifts outward on closed
// orbits and is kept for comparison against rk4 and dopri5.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	dx := dyn.Derive(x, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

func (e *Euler) Integrate(dyn dynamo.System, t0, tEnd float64, x0 dynamo.State, h float64) (*dynamo.Solution, error) {
	return integrateFixed(dyn, t0, tEnd, x0, h, e.Step, 1)
}
