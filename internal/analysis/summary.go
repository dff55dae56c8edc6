package analysis

import (
	"math"

	"github.com/san-kum/predsim/internal/dynamo"
	"github.com/san-kum/predsim/internal/models"
)

type SpeciesStats struct {
	Min   float64
	Max   float64
	Mean  float64
	Peaks int
	Final float64
}

type Summary struct {
	Points    int
	TStart    float64
	TEnd      float64
	Prey      SpeciesStats
	Predators SpeciesStats

	// InvariantDrift is the largest deviation of the conserved quantity from
	// its initial value. NaN once either population leaves (0, inf).
	InvariantDrift float64
}

// Summarize computes statistics of a deterministic run. Means are time
// weighted because the adaptive grid is not uniform.
func Summarize(traj dynamo.Trajectory, p models.Params) Summary {
	n := traj.Len()
	s := Summary{Points: n}
	if n == 0 {
		return s
	}

	s.TStart = traj.Times[0]
	s.TEnd = traj.Times[n-1]
	s.Prey = speciesStats(traj.Times, traj.Prey)
	s.Predators = speciesStats(traj.Times, traj.Predators)

	lv := models.NewLotkaVolterra(p)
	v0 := lv.Invariant(dynamo.State{traj.Prey[0], traj.Predators[0]})
	for i := 0; i < n; i++ {
		d := math.Abs(lv.Invariant(dynamo.State{traj.Prey[i], traj.Predators[i]}) - v0)
		if math.IsNaN(d) {
			s.InvariantDrift = math.NaN()
			break
		}
		s.InvariantDrift = math.Max(s.InvariantDrift, d)
	}
	return s
}

// PointSummary describes a stochastic run.
type PointSummary struct {
	Points    int
	Prey      SpeciesStats
	Predators SpeciesStats

	// Extinction is the index of the first point where either population is
	// at or below zero, or -1.
	Extinction int
}

func SummarizePoints(points []dynamo.PhasePoint) PointSummary {
	s := PointSummary{Points: len(points), Extinction: -1}
	if len(points) == 0 {
		return s
	}

	prey := make([]float64, len(points))
	pred := make([]float64, len(points))
	for i, pt := range points {
		prey[i] = pt.Prey
		pred[i] = pt.Predators
		if s.Extinction < 0 && (pt.Prey <= 0 || pt.Predators <= 0) {
			s.Extinction = i
		}
	}
	s.Prey = speciesStats(nil, prey)
	s.Predators = speciesStats(nil, pred)
	return s
}

// Equilibrium returns the coexistence point (gamma/delta, alpha/beta). ok is
// false when beta or delta is zero.
func Equilibrium(p models.Params) (dynamo.PhasePoint, bool) {
	prey, pred, ok := p.Equilibrium()
	return dynamo.PhasePoint{Prey: prey, Predators: pred}, ok
}

// speciesStats uses a trapezoid mean over times, or a plain mean when times
// is nil.
func speciesStats(times, v []float64) SpeciesStats {
	n := len(v)
	st := SpeciesStats{Min: v[0], Max: v[0], Final: v[n-1]}

	sum := 0.0
	for i, x := range v {
		st.Min = math.Min(st.Min, x)
		st.Max = math.Max(st.Max, x)
		if times == nil {
			sum += x
		}
		if i > 0 && i < n-1 && v[i-1] < x && x >= v[i+1] {
			st.Peaks++
		}
	}

	switch {
	case times == nil:
		st.Mean = sum / float64(n)
	case n == 1 || times[n-1] == times[0]:
		st.Mean = v[0]
	default:
		area := 0.0
		for i := 1; i < n; i++ {
			area += 0.5 * (v[i] + v[i-1]) * (times[i] - times[i-1])
		}
		st.Mean = area / (times[n-1] - times[0])
	}
	return st
}
