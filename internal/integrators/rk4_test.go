package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/predsim/internal/dynamo"
)

type simpleDynamics struct{}

func (s *simpleDynamics) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (s *simpleDynamics) StateDim() int { return 2 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &simpleDynamics{}
	integ := NewRK4()

	x0 := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	x := x0
	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestRK4IntegrateUniformGrid(t *testing.T) {
	sol, err := NewRK4().Integrate(&simpleDynamics{}, 0, 1.05, dynamo.State{1, 0}, 0.1)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}

	if len(sol.Times) != 12 {
		t.Fatalf("expected 12 samples, got %d", len(sol.Times))
	}
	for i := 1; i < len(sol.Times)-1; i++ {
		if math.Abs(sol.Times[i]-float64(i)*0.1) > 1e-12 {
			t.Errorf("sample %d at t=%v, expected %v", i, sol.Times[i], float64(i)*0.1)
		}
	}
	if sol.Times[len(sol.Times)-1] != 1.05 {
		t.Errorf("last sample at %v, expected 1.05", sol.Times[len(sol.Times)-1])
	}
	if math.Abs(sol.States[len(sol.States)-1][0]-math.Cos(1.05)) > 1e-5 {
		t.Errorf("final position %v, expected %v", sol.States[len(sol.States)-1][0], math.Cos(1.05))
	}
}

func TestRK4InvalidWindow(t *testing.T) {
	_, err := NewRK4().Integrate(&simpleDynamics{}, 0, 1, dynamo.State{1, 0}, 0)
	if !errors.Is(err, dynamo.ErrInvalidStep) {
		t.Errorf("expected ErrInvalidStep, got %v", err)
	}
}
