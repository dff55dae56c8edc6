// Package analysis post-processes predator-prey runs.
//
//   - [Resample]: linear interpolation of an adaptive trajectory onto a fixed grid
//   - [Summarize]: extrema, means, peaks and drift of the conserved quantity
//   - [Period] and [DominantPeriod]: oscillation period from crossings or spectrum
//   - [Sweep]: run one parameter over a range and summarize each run
//   - [PhaseToASCII]: terminal phase portrait
//
// The deterministic solver returns the accepted steps of an adaptive
// integrator, so the time grid is not uniform:
//
//	traj, _ := models.DefaultParams().Run(models.DefaultStep)
//	grid, _ := analysis.Resample(traj, 1.0)
package analysis
