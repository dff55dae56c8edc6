// Package viz provides the terminal front end for predator-prey runs.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Menu]: default parameters, custom parameters, or one of the panels
//   - [Panel]: live parameter tuning for the deterministic or stochastic model
//   - [Canvas]: Braille-based pixel canvas used for the phase portrait
//
// Every parameter change goes through [RecomputeDeterministic] or
// [RecomputeStochastic], which call the core and return fresh sequences.
// The panel never edits a trajectory in place.
//
// # Key Bindings
//
//	Tab/J/K - Select parameter
//	Up/Down - Increase/decrease by 5%
//	R       - Reset parameters
//	N       - New seed (stochastic)
//	T       - Cycle color themes
//	?       - Show help overlay
package viz
