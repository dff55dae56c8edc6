package models

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/san-kum/predsim/internal/dynamo"
	"github.com/san-kum/predsim/internal/integrators"
)

func TestLotkaVolterraDerive(t *testing.T) {
	lv := NewLotkaVolterra(Params{Alpha: 0.1, Beta: 0.02, Delta: 0.01, Gamma: 0.1})

	dx := lv.Derive(dynamo.State{40, 9}, 0)

	wantPrey := 0.1*40 - 0.02*40*9
	wantPred := 0.01*40*9 - 0.1*9
	if math.Abs(dx[0]-wantPrey) > 1e-12 {
		t.Errorf("dprey = %v, expected %v", dx[0], wantPrey)
	}
	if math.Abs(dx[1]-wantPred) > 1e-12 {
		t.Errorf("dpredators = %v, expected %v", dx[1], wantPred)
	}
}

func TestLotkaVolterraEquilibrium(t *testing.T) {
	p := DefaultParams()
	prey, pred, ok := p.Equilibrium()
	if !ok {
		t.Fatal("expected an equilibrium for coupled parameters")
	}

	dx := NewLotkaVolterra(p).Derive(dynamo.State{prey, pred}, 0)
	if math.Abs(dx[0]) > 1e-12 || math.Abs(dx[1]) > 1e-12 {
		t.Errorf("expected zero derivative at equilibrium, got %v", dx)
	}

	if _, _, ok := (Params{Alpha: 1, Gamma: 1}).Equilibrium(); ok {
		t.Error("expected no equilibrium without coupling")
	}
}

func TestIntegrateClassicScenario(t *testing.T) {
	p := Params{Alpha: 0.1, Beta: 0.02, Delta: 0.01, Gamma: 0.1}
	tr, err := Integrate(p, [2]float64{40, 9}, 0, 200, 0.1)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}

	if tr.Len() <= 1 {
		t.Fatalf("expected more than one sample, got %d", tr.Len())
	}
	if len(tr.Prey) != tr.Len() || len(tr.Predators) != tr.Len() {
		t.Fatalf("sequence lengths differ: %d %d %d", len(tr.Times), len(tr.Prey), len(tr.Predators))
	}

	t0, prey0, pred0 := tr.At(0)
	if t0 != 0 || prey0 != 40 || pred0 != 9 {
		t.Errorf("first point = (%v, %v, %v), expected (0, 40, 9)", t0, prey0, pred0)
	}
	if last := tr.Times[tr.Len()-1]; last < 200-0.1 {
		t.Errorf("last time %v, expected >= %v", last, 200-0.1)
	}

	lv := NewLotkaVolterra(p)
	v0 := lv.Invariant(dynamo.State{40, 9})
	vEnd := lv.Invariant(dynamo.State{tr.Prey[tr.Len()-1], tr.Predators[tr.Len()-1]})
	if drift := math.Abs(vEnd - v0); drift > 1e-4 {
		t.Errorf("conserved quantity drifted by %e", drift)
	}
}

func TestIntegrateUncoupledIsExponential(t *testing.T) {
	p := Params{Alpha: 0.1, Gamma: 0.1}
	tr, err := Integrate(p, [2]float64{40, 9}, 0, 5, 0.1)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}

	for _, i := range []int{tr.Len() / 2, tr.Len() - 1} {
		ts, prey, pred := tr.At(i)
		wantPrey := 40 * math.Exp(0.1*ts)
		wantPred := 9 * math.Exp(-0.1*ts)

		if rel := math.Abs(prey-wantPrey) / wantPrey; rel > 1e-3 {
			t.Errorf("prey(%v) = %v, expected %v", ts, prey, wantPrey)
		}
		if rel := math.Abs(pred-wantPred) / wantPred; rel > 1e-3 {
			t.Errorf("predators(%v) = %v, expected %v", ts, pred, wantPred)
		}
	}
}

func TestIntegrateIsPure(t *testing.T) {
	p := DefaultParams()

	a, err := p.Run(DefaultStep)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	b, err := p.Run(DefaultStep)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different trajectories")
	}
}

func TestIntegrateWithRK4(t *testing.T) {
	tr, err := IntegrateWith(integrators.NewRK4(), DefaultParams(), [2]float64{40, 9}, 0, 10, 0.5)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}
	if tr.Len() != 21 {
		t.Errorf("expected 21 uniform samples, got %d", tr.Len())
	}
}

func TestIntegrateInvalidStep(t *testing.T) {
	_, err := Integrate(DefaultParams(), [2]float64{40, 9}, 0, 10, 0)

	var ierr *dynamo.IntegrationError
	if !errors.As(err, &ierr) || !errors.Is(err, dynamo.ErrInvalidStep) {
		t.Errorf("expected IntegrationError(ErrInvalidStep), got %v", err)
	}
}
