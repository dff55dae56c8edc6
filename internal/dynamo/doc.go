// Package dynamo provides the core primitives shared by the predator-prey
// simulators.
//
// The package defines the fundamental interfaces and types:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical integrator interface
//   - [Trajectory]: time series produced by a deterministic run
//   - [PhasePoint]: (prey, predators) pair produced by a stochastic run
//
// # Example
//
//	lv := models.NewLotkaVolterra(models.DefaultParams())
//	integ := integrators.NewDopri5(integrators.DefaultOptions())
//	sol, err := integ.Integrate(lv, 0, 200, dynamo.State{40, 9}, 0.1)
//
// # Errors
//
// Numerical failures are reported as [*IntegrationError] wrapping one of the
// sentinel errors; parameter problems detected by callers are reported as
// [*InvalidParameterError]. Use errors.Is to tell them apart.
//
// # Thread Safety
//
// Every run owns its inputs and outputs. Integrators keep no state between
// calls, so a single instance may be reused, but not from several goroutines
// at once.
package dynamo
