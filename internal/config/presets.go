package config

import "sort"

var Presets = map[string]map[string]*Config{
	ModeDeterministic: {
		"classic":           deterministicPreset(0.1, 0.02, 0.01, 0.1, 40, 9, 200, 0.1),
		"equilibrium":       deterministicPreset(0.1, 0.02, 0.01, 0.1, 10, 5, 200, 0.1),
		"wide":              deterministicPreset(1.1, 0.4, 0.1, 0.4, 10, 10, 100, 0.01),
		"uncoupled":         deterministicPreset(0.1, 0, 0, 0.1, 40, 9, 20, 0.1),
		"predator-collapse": deterministicPreset(0.5, 0.02, 0.005, 0.9, 30, 4, 150, 0.1),
	},
	ModeStochastic: {
		"gui":        stochasticPreset(0.01, 0.00001, 0.00001, 0.01, 0.001, 1000000, 2000, 2000),
		"quick":      stochasticPreset(0.01, 0.00001, 0.00001, 0.01, 0.001, 100000, 2000, 2000),
		"small":      stochasticPreset(0.1, 0.02, 0.02, 0.1, 0.01, 10000, 100, 50),
		"extinction": stochasticPreset(0.01, 0.0001, 0.00001, 0.02, 0.001, 200000, 300, 300),
	},
}

func deterministicPreset(alpha, beta, delta, gamma, prey, predators, tEnd, step float64) *Config {
	cfg := DefaultConfig()
	cfg.Mode = ModeDeterministic
	cfg.Deterministic = DeterministicConfig{
		Alpha: alpha, Beta: beta, Delta: delta, Gamma: gamma,
		InitialPrey: prey, InitialPredator: predators,
		TEnd: tEnd, Step: step,
	}
	return cfg
}

func stochasticPreset(alpha, beta, gamma, delta, dt float64, n int, prey, predators float64) *Config {
	cfg := DefaultConfig()
	cfg.Mode = ModeStochastic
	cfg.Stochastic.Alpha = alpha
	cfg.Stochastic.Beta = beta
	cfg.Stochastic.Gamma = gamma
	cfg.Stochastic.Delta = delta
	cfg.Stochastic.Dt = dt
	cfg.Stochastic.N = n
	cfg.Stochastic.InitialPrey = prey
	cfg.Stochastic.InitialPredator = predators
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(mode, preset string) *Config {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	cfg, ok := modePresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(mode string) []string {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modePresets))
	for name := range modePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
