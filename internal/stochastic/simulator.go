package stochastic

import (
	"math"

	"github.com/san-kum/predsim/internal/dynamo"
)

// Params are per-capita event rates plus the discretization. Note that gamma
// is the predator birth rate and delta the predator death rate here, the
// reverse of the deterministic model's naming.
type Params struct {
	Alpha           float64 `yaml:"alpha" json:"alpha"` // prey birth
	Beta            float64 `yaml:"beta" json:"beta"`   // predation (prey death)
	Gamma           float64 `yaml:"gamma" json:"gamma"` // predator birth
	Delta           float64 `yaml:"delta" json:"delta"` // predator death
	Dt              float64 `yaml:"dt" json:"dt"`
	N               int     `yaml:"n" json:"n"`
	InitialPrey     float64 `yaml:"initial_prey" json:"initial_prey"`
	InitialPredator float64 `yaml:"initial_predator" json:"initial_predator"`
	ClampAtZero     bool    `yaml:"clamp_at_zero" json:"clamp_at_zero"`
}

func DefaultParams() Params {
	return Params{
		Alpha:           0.01,
		Beta:            0.00001,
		Gamma:           0.00001,
		Delta:           0.01,
		Dt:              0.001,
		N:               1000000,
		InitialPrey:     2000,
		InitialPredator: 2000,
	}
}

type Event int

const (
	NoEvent Event = iota
	PreyBirth
	PredatorDeath
	PreyDeath
	PredatorBirth
)

func (e Event) String() string {
	switch e {
	case PreyBirth:
		return "prey_birth"
	case PredatorDeath:
		return "predator_death"
	case PreyDeath:
		return "prey_death"
	case PredatorBirth:
		return "predator_birth"
	}
	return "none"
}

// Thresholds returns the cumulative event thresholds T1..T4 for the given
// populations.
func Thresholds(p Params, prey, predators float64) [4]float64 {
	var th [4]float64
	th[0] = p.Alpha * prey * p.Dt
	th[1] = th[0] + p.Delta*predators*p.Dt
	th[2] = th[1] + p.Beta*prey*predators*p.Dt
	th[3] = th[2] + p.Gamma*prey*predators*p.Dt
	return th
}

// Select picks the first event whose threshold is at least u.
func Select(u float64, th [4]float64) Event {
	switch {
	case u <= th[0]:
		return PreyBirth
	case u <= th[1]:
		return PredatorDeath
	case u <= th[2]:
		return PreyDeath
	case u <= th[3]:
		return PredatorBirth
	}
	return NoEvent
}

// Simulate runs p.N iterations and returns p.N+1 phase points, starting with
// the initial populations. It never fails; a nil src gets a fresh random
// source.
func Simulate(p Params, src Source) []dynamo.PhasePoint {
	if src == nil {
		src = NewRandomSource()
	}
	n := p.N
	if n < 0 {
		n = 0
	}

	prey, predators := p.InitialPrey, p.InitialPredator
	points := make([]dynamo.PhasePoint, 0, n+1)
	points = append(points, dynamo.PhasePoint{Prey: prey, Predators: predators})

	for i := 0; i < n; i++ {
		u := src.Float64()

		switch Select(u, Thresholds(p, prey, predators)) {
		case PreyBirth:
			prey++
		case PredatorDeath:
			predators = p.decrement(predators)
		case PreyDeath:
			prey = p.decrement(prey)
		case PredatorBirth:
			predators++
		}

		points = append(points, dynamo.PhasePoint{Prey: prey, Predators: predators})
	}

	return points
}

func (p Params) decrement(v float64) float64 {
	if p.ClampAtZero {
		return math.Max(0, v-1)
	}
	return v - 1
}

// MaxThreshold reports the largest T4 seen along points. Values approaching
// 1 mean dt is too coarse for the chosen rates.
func MaxThreshold(p Params, points []dynamo.PhasePoint) float64 {
	maxT := 0.0
	for _, pt := range points {
		if t4 := Thresholds(p, pt.Prey, pt.Predators)[3]; t4 > maxT {
			maxT = t4
		}
	}
	return maxT
}
