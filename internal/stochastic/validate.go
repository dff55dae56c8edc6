package stochastic

import (
	"math"

	"github.com/san-kum/predsim/internal/dynamo"
)

// Validate rejects negative rates and populations, a non-positive dt and a
// negative step count. Simulate itself accepts anything.
func (p Params) Validate() error {
	checks := []struct {
		field string
		value float64
	}{
		{"alpha", p.Alpha},
		{"beta", p.Beta},
		{"gamma", p.Gamma},
		{"delta", p.Delta},
		{"initial_prey", p.InitialPrey},
		{"initial_predator", p.InitialPredator},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return &dynamo.InvalidParameterError{Field: c.field, Value: c.value, Reason: "must be finite"}
		}
		if c.value < 0 {
			return &dynamo.InvalidParameterError{Field: c.field, Value: c.value, Reason: "must be non-negative"}
		}
	}
	if !(p.Dt > 0) || math.IsInf(p.Dt, 0) {
		return &dynamo.InvalidParameterError{Field: "dt", Value: p.Dt, Reason: "must be positive"}
	}
	if p.N < 0 {
		return &dynamo.InvalidParameterError{Field: "n", Value: float64(p.N), Reason: "must be non-negative"}
	}
	return nil
}
