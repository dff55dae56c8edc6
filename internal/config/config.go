package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/predsim/internal/models"
	"github.com/san-kum/predsim/internal/stochastic"
	"gopkg.in/yaml.v3"
)

const (
	ModeDeterministic = "deterministic"
	ModeStochastic    = "stochastic"
)

const (
	DefaultIntegrator = "dopri5"
	DefaultStep       = models.DefaultStep
	DefaultChart      = "lotka_volterra.png"
	DefaultWidth      = 800
	DefaultHeight     = 600
)

type Config struct {
	Mode          string              `yaml:"mode"`
	Integrator    string              `yaml:"integrator"`
	Deterministic DeterministicConfig `yaml:"deterministic"`
	Stochastic    StochasticConfig    `yaml:"stochastic"`
	Output        OutputConfig        `yaml:"output"`
}

type DeterministicConfig struct {
	Alpha           float64 `yaml:"alpha"`
	Beta            float64 `yaml:"beta"`
	Delta           float64 `yaml:"delta"`
	Gamma           float64 `yaml:"gamma"`
	InitialPrey     float64 `yaml:"initial_prey"`
	InitialPredator float64 `yaml:"initial_predator"`
	TStart          float64 `yaml:"t_start"`
	TEnd            float64 `yaml:"t_end"`
	Step            float64 `yaml:"step"`
}

type StochasticConfig struct {
	stochastic.Params `yaml:",inline"`
	Seed              uint64 `yaml:"seed"`
}

type OutputConfig struct {
	Chart  string `yaml:"chart"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

func DefaultConfig() *Config {
	p := models.DefaultParams()
	return &Config{
		Mode:       ModeDeterministic,
		Integrator: DefaultIntegrator,
		Deterministic: DeterministicConfig{
			Alpha:           p.Alpha,
			Beta:            p.Beta,
			Delta:           p.Delta,
			Gamma:           p.Gamma,
			InitialPrey:     p.InitialPrey,
			InitialPredator: p.InitialPredator,
			TStart:          p.TStart,
			TEnd:            p.TEnd,
			Step:            DefaultStep,
		},
		Stochastic: StochasticConfig{Params: stochastic.DefaultParams()},
		Output: OutputConfig{
			Chart:  DefaultChart,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the section selected by Mode.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeDeterministic:
		if err := c.ModelParams().Validate(); err != nil {
			return err
		}
		if !(c.Deterministic.Step > 0) {
			return fmt.Errorf("deterministic.step must be positive, got %g", c.Deterministic.Step)
		}
	case ModeStochastic:
		if err := c.Stochastic.Params.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown mode: %q", c.Mode)
	}
	if c.Output.Width < 1 || c.Output.Height < 1 {
		return errors.New("output.width and output.height must be >= 1")
	}
	return nil
}

func (c *Config) ModelParams() models.Params {
	d := c.Deterministic
	return models.Params{
		Alpha:           d.Alpha,
		Beta:            d.Beta,
		Delta:           d.Delta,
		Gamma:           d.Gamma,
		InitialPrey:     d.InitialPrey,
		InitialPredator: d.InitialPredator,
		TStart:          d.TStart,
		TEnd:            d.TEnd,
	}
}

func (c *Config) SetModelParams(p models.Params) {
	c.Deterministic.Alpha = p.Alpha
	c.Deterministic.Beta = p.Beta
	c.Deterministic.Delta = p.Delta
	c.Deterministic.Gamma = p.Gamma
	c.Deterministic.InitialPrey = p.InitialPrey
	c.Deterministic.InitialPredator = p.InitialPredator
	c.Deterministic.TStart = p.TStart
	c.Deterministic.TEnd = p.TEnd
}
