package analysis

import (
	"math"

	"github.com/san-kum/predsim/internal/dynamo"
)

// Resample interpolates traj linearly onto t0, t0+dt, ... up to the last
// recorded time. The input is not modified.
func Resample(traj dynamo.Trajectory, dt float64) (dynamo.Trajectory, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return dynamo.Trajectory{}, dynamo.ErrInvalidStep
	}
	if traj.Len() == 0 {
		return dynamo.Trajectory{}, nil
	}

	t0 := traj.Times[0]
	span := traj.Times[traj.Len()-1] - t0
	n := int(math.Floor(span/dt+1e-9)) + 1

	times := make([]float64, n)
	for i := range times {
		times[i] = t0 + float64(i)*dt
	}
	return interpolate(traj, times), nil
}

// ResampleN interpolates traj onto n evenly spaced times that include both
// endpoints. It is meant for fitting a run to a fixed plot width.
func ResampleN(traj dynamo.Trajectory, n int) dynamo.Trajectory {
	if traj.Len() == 0 || n < 1 {
		return dynamo.Trajectory{}
	}
	if n == 1 {
		t, prey, pred := traj.At(0)
		return dynamo.Trajectory{Times: []float64{t}, Prey: []float64{prey}, Predators: []float64{pred}}
	}

	t0 := traj.Times[0]
	t1 := traj.Times[traj.Len()-1]
	times := make([]float64, n)
	for i := range times {
		times[i] = t0 + (t1-t0)*float64(i)/float64(n-1)
	}
	times[n-1] = t1
	return interpolate(traj, times)
}

// interpolate assumes times is ascending.
func interpolate(traj dynamo.Trajectory, times []float64) dynamo.Trajectory {
	out := dynamo.Trajectory{
		Times:     times,
		Prey:      make([]float64, len(times)),
		Predators: make([]float64, len(times)),
	}

	last := traj.Len() - 1
	j := 0
	for i, t := range times {
		for j < last && traj.Times[j+1] < t {
			j++
		}
		if j == last {
			out.Prey[i] = traj.Prey[last]
			out.Predators[i] = traj.Predators[last]
			continue
		}

		ta, tb := traj.Times[j], traj.Times[j+1]
		frac := 0.0
		if tb > ta {
			frac = (t - ta) / (tb - ta)
		}
		frac = math.Max(0, math.Min(1, frac))
		out.Prey[i] = traj.Prey[j] + frac*(traj.Prey[j+1]-traj.Prey[j])
		out.Predators[i] = traj.Predators[j] + frac*(traj.Predators[j+1]-traj.Predators[j])
	}
	return out
}
