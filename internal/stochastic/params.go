package stochastic

import "fmt"

// ParamNames lists the names accepted by Get and With, in display order.
var ParamNames = []string{"alpha", "beta", "gamma", "delta", "dt", "n", "prey", "predators"}

func (p Params) Get(name string) (float64, error) {
	switch name {
	case "alpha":
		return p.Alpha, nil
	case "beta":
		return p.Beta, nil
	case "gamma":
		return p.Gamma, nil
	case "delta":
		return p.Delta, nil
	case "dt":
		return p.Dt, nil
	case "n":
		return float64(p.N), nil
	case "prey":
		return p.InitialPrey, nil
	case "predators":
		return p.InitialPredator, nil
	}
	return 0, fmt.Errorf("unknown parameter: %s", name)
}

// With returns a copy of p with one parameter replaced. n is truncated to an
// integer.
func (p Params) With(name string, value float64) (Params, error) {
	switch name {
	case "alpha":
		p.Alpha = value
	case "beta":
		p.Beta = value
	case "gamma":
		p.Gamma = value
	case "delta":
		p.Delta = value
	case "dt":
		p.Dt = value
	case "n":
		p.N = int(value)
	case "prey":
		p.InitialPrey = value
	case "predators":
		p.InitialPredator = value
	default:
		return p, fmt.Errorf("unknown parameter: %s", name)
	}
	return p, nil
}
