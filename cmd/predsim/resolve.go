package main

import (
	"fmt"

	"github.com/san-kum/predsim/internal/config"
	"github.com/spf13/cobra"
)

// resolveConfig builds the configuration for one command. A config file
// replaces the preset; flags override either, but only when set.
func resolveConfig(cmd *cobra.Command, mode string) (*config.Config, error) {
	return resolveWithPreset(cmd, mode, preset)
}

func resolveWithPreset(cmd *cobra.Command, mode, name string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if name != "" {
		p := config.GetPreset(mode, name)
		if p == nil {
			return nil, fmt.Errorf("unknown %s preset: %s (see 'predsim presets %s')", mode, name, mode)
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.Mode = mode

	flags := cmd.Flags()
	if mode == config.ModeDeterministic {
		d := &cfg.Deterministic
		overrideFloat(cmd, "alpha", &d.Alpha, alpha)
		overrideFloat(cmd, "beta", &d.Beta, beta)
		overrideFloat(cmd, "delta", &d.Delta, delta)
		overrideFloat(cmd, "gamma", &d.Gamma, gamma)
		overrideFloat(cmd, "prey", &d.InitialPrey, prey)
		overrideFloat(cmd, "predators", &d.InitialPredator, predators)
		overrideFloat(cmd, "t0", &d.TStart, t0)
		overrideFloat(cmd, "tend", &d.TEnd, tEnd)
		overrideFloat(cmd, "step", &d.Step, step)
		if flags.Changed("integrator") {
			cfg.Integrator = integrator
		}
	} else {
		s := &cfg.Stochastic
		overrideFloat(cmd, "alpha", &s.Alpha, alpha)
		overrideFloat(cmd, "beta", &s.Beta, beta)
		overrideFloat(cmd, "gamma", &s.Gamma, gamma)
		overrideFloat(cmd, "delta", &s.Delta, delta)
		overrideFloat(cmd, "prey", &s.InitialPrey, prey)
		overrideFloat(cmd, "predators", &s.InitialPredator, predators)
		overrideFloat(cmd, "dt", &s.Dt, dt)
		if flags.Changed("n") {
			s.N = steps
		}
		if flags.Changed("seed") {
			s.Seed = seed
		}
		if flags.Changed("clamp") {
			s.ClampAtZero = clamp
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideFloat(cmd *cobra.Command, name string, dst *float64, v float64) {
	if cmd.Flags().Changed(name) {
		*dst = v
	}
}

// menuConfigs resolves both modes for the interactive menu. The preset has
// to exist in at least one of them and is applied only there.
func menuConfigs(cmd *cobra.Command) (det, sto *config.Config, err error) {
	detPreset, stoPreset := preset, preset
	if preset != "" {
		detOK := config.GetPreset(config.ModeDeterministic, preset) != nil
		stoOK := config.GetPreset(config.ModeStochastic, preset) != nil
		if !detOK && !stoOK {
			return nil, nil, fmt.Errorf("unknown preset: %s (see 'predsim presets')", preset)
		}
		if !detOK {
			detPreset = ""
		}
		if !stoOK {
			stoPreset = ""
		}
	}
	if det, err = resolveWithPreset(cmd, config.ModeDeterministic, detPreset); err != nil {
		return nil, nil, err
	}
	if sto, err = resolveWithPreset(cmd, config.ModeStochastic, stoPreset); err != nil {
		return nil, nil, err
	}
	return det, sto, nil
}

func resolveMode() string {
	if stochMode {
		return config.ModeStochastic
	}
	return config.ModeDeterministic
}
