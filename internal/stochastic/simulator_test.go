package stochastic

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/predsim/internal/dynamo"
)

func TestSimulateLength(t *testing.T) {
	p := Params{
		Alpha: 0.01, Beta: 0.00001, Gamma: 0.00001, Delta: 0.01,
		Dt: 0.001, N: 1000, InitialPrey: 2000, InitialPredator: 2000,
	}

	points := Simulate(p, NewSource(1))

	if len(points) != 1001 {
		t.Fatalf("expected 1001 points, got %d", len(points))
	}
	if points[0] != (dynamo.PhasePoint{Prey: 2000, Predators: 2000}) {
		t.Errorf("first point = %+v, expected (2000, 2000)", points[0])
	}
}

func TestSimulateZeroSteps(t *testing.T) {
	points := Simulate(Params{N: 0, InitialPrey: 3, InitialPredator: 4, Dt: 0.1}, NewSource(1))
	if len(points) != 1 || points[0].Prey != 3 || points[0].Predators != 4 {
		t.Errorf("expected only the initial point, got %+v", points)
	}
}

func TestSelectOrder(t *testing.T) {
	th := [4]float64{0.1, 0.2, 0.3, 0.4}

	tests := []struct {
		u    float64
		want Event
	}{
		{0.0, PreyBirth},
		{0.1, PreyBirth},
		{0.15, PredatorDeath},
		{0.2, PredatorDeath},
		{0.25, PreyDeath},
		{0.35, PredatorBirth},
		{0.4, PredatorBirth},
		{0.41, NoEvent},
		{0.99, NoEvent},
	}

	for _, tt := range tests {
		if got := Select(tt.u, th); got != tt.want {
			t.Errorf("Select(%v) = %s, expected %s", tt.u, got, tt.want)
		}
	}
}

func TestSelectTiesFavourEarlierEvents(t *testing.T) {
	// delta = 0 collapses T2 onto T1; the prey birth must still win.
	th := [4]float64{0.3, 0.3, 0.3, 0.3}
	if got := Select(0.3, th); got != PreyBirth {
		t.Errorf("expected prey_birth on tie, got %s", got)
	}
}

func TestThresholds(t *testing.T) {
	p := Params{Alpha: 1, Beta: 2, Gamma: 3, Delta: 4, Dt: 0.01}
	th := Thresholds(p, 10, 5)

	want := [4]float64{
		1 * 10 * 0.01,
		1*10*0.01 + 4*5*0.01,
		1*10*0.01 + 4*5*0.01 + 2*50*0.01,
		1*10*0.01 + 4*5*0.01 + 2*50*0.01 + 3*50*0.01,
	}
	for i := range want {
		if math.Abs(th[i]-want[i]) > 1e-12 {
			t.Errorf("T%d = %v, expected %v", i+1, th[i], want[i])
		}
	}
}

func TestSimulateScriptedDraws(t *testing.T) {
	// prey=10, predators=10, dt=0.01: T1=0.1, T2=0.2, T3=0.3, T4=0.4
	p := Params{Alpha: 1, Beta: 0.1, Gamma: 0.1, Delta: 1, Dt: 0.01, N: 5, InitialPrey: 10, InitialPredator: 10}
	src := NewSequence(0.05, 0.9, 0.15, 0.95, 0.95)

	points := Simulate(p, src)

	want := []dynamo.PhasePoint{
		{Prey: 10, Predators: 10},
		{Prey: 11, Predators: 10},
		{Prey: 11, Predators: 10},
		{Prey: 11, Predators: 9},
		{Prey: 11, Predators: 9},
		{Prey: 11, Predators: 9},
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("point %d = %+v, expected %+v", i, points[i], want[i])
		}
	}
}

func TestSimulateNegativePopulations(t *testing.T) {
	// Only predator deaths can fire: T1 = 0, T2 = delta*pred*dt >= 1 for pred >= 1.
	p := Params{Delta: 1, Dt: 1, N: 3, InitialPrey: 0, InitialPredator: 1}

	points := Simulate(p, NewSequence(0.5))
	if got := points[len(points)-1].Predators; got != 0 {
		t.Fatalf("expected predators to reach 0, got %v", got)
	}

	// From half a predator one death overshoots to -0.5; afterwards T2 is
	// negative and nothing else fires.
	p = Params{Delta: 1, Dt: 1, N: 2, InitialPredator: 0.5}
	points = Simulate(p, NewSequence(0.1))
	if got := points[len(points)-1].Predators; got != -0.5 {
		t.Errorf("expected unclamped -0.5, got %v", got)
	}

	p.ClampAtZero = true
	points = Simulate(p, NewSequence(0.1))
	if got := points[len(points)-1].Predators; got != 0 {
		t.Errorf("expected clamped 0, got %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{"defaults", func(p *Params) {}, ""},
		{"negative alpha", func(p *Params) { p.Alpha = -1 }, "alpha"},
		{"negative prey", func(p *Params) { p.InitialPrey = -1 }, "initial_prey"},
		{"zero dt", func(p *Params) { p.Dt = 0 }, "dt"},
		{"negative n", func(p *Params) { p.N = -1 }, "n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var perr *dynamo.InvalidParameterError
			if !errors.As(err, &perr) || perr.Field != tt.field {
				t.Errorf("expected invalid %s, got %v", tt.field, err)
			}
		})
	}
}
