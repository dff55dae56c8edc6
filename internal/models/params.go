package models

import (
	"fmt"
	"math"

	"github.com/san-kum/predsim/internal/dynamo"
)

// Params are the deterministic model inputs. They are a value type: every
// run receives its own copy.
type Params struct {
	Alpha           float64 `json:"alpha"` // prey birth rate
	Beta            float64 `json:"beta"`  // predation rate
	Delta           float64 `json:"delta"` // predator reproduction rate
	Gamma           float64 `json:"gamma"` // predator death rate
	InitialPrey     float64 `json:"initial_prey"`
	InitialPredator float64 `json:"initial_predator"`
	TStart          float64 `json:"t_start"`
	TEnd            float64 `json:"t_end"`
}

func DefaultParams() Params {
	return Params{
		Alpha:           0.1,
		Beta:            0.02,
		Delta:           0.01,
		Gamma:           0.1,
		InitialPrey:     40,
		InitialPredator: 9,
		TStart:          0,
		TEnd:            200,
	}
}

// ParamNames lists the names accepted by Get and With, in display order.
var ParamNames = []string{"alpha", "beta", "delta", "gamma", "prey", "predators", "t0", "tend"}

func (p Params) Get(name string) (float64, error) {
	switch name {
	case "alpha":
		return p.Alpha, nil
	case "beta":
		return p.Beta, nil
	case "delta":
		return p.Delta, nil
	case "gamma":
		return p.Gamma, nil
	case "prey":
		return p.InitialPrey, nil
	case "predators":
		return p.InitialPredator, nil
	case "t0":
		return p.TStart, nil
	case "tend":
		return p.TEnd, nil
	}
	return 0, fmt.Errorf("unknown parameter: %s", name)
}

// With returns a copy of p with one parameter replaced.
func (p Params) With(name string, value float64) (Params, error) {
	switch name {
	case "alpha":
		p.Alpha = value
	case "beta":
		p.Beta = value
	case "delta":
		p.Delta = value
	case "gamma":
		p.Gamma = value
	case "prey":
		p.InitialPrey = value
	case "predators":
		p.InitialPredator = value
	case "t0":
		p.TStart = value
	case "tend":
		p.TEnd = value
	default:
		return p, fmt.Errorf("unknown parameter: %s", name)
	}
	return p, nil
}

// Validate rejects negative rates and populations and inverted time windows.
// The integrator itself never validates; callers run this before it.
func (p Params) Validate() error {
	checks := []struct {
		field string
		value float64
	}{
		{"alpha", p.Alpha},
		{"beta", p.Beta},
		{"delta", p.Delta},
		{"gamma", p.Gamma},
		{"prey", p.InitialPrey},
		{"predators", p.InitialPredator},
		{"t0", p.TStart},
		{"tend", p.TEnd},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &dynamo.InvalidParameterError{Field: c.field, Value: c.value, Reason: "must be finite"}
		}
		if c.value < 0 {
			return &dynamo.InvalidParameterError{Field: c.field, Value: c.value, Reason: "must be non-negative"}
		}
	}
	if p.TEnd < p.TStart {
		return &dynamo.InvalidParameterError{Field: "tend", Value: p.TEnd, Reason: fmt.Sprintf("must not precede t0=%g", p.TStart)}
	}
	return nil
}

// Equilibrium returns the coexistence fixed point (gamma/delta, alpha/beta).
// ok is false when either coupling rate is zero.
func (p Params) Equilibrium() (prey, predators float64, ok bool) {
	if p.Delta == 0 || p.Beta == 0 {
		return 0, 0, false
	}
	return p.Gamma / p.Delta, p.Alpha / p.Beta, true
}
