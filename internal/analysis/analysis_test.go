package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/san-kum/predsim/internal/dynamo"
	"github.com/san-kum/predsim/internal/models"
)

func rampTrajectory() dynamo.Trajectory {
	return dynamo.Trajectory{
		Times:     []float64{0, 1, 3},
		Prey:      []float64{0, 1, 3},
		Predators: []float64{2, 2, 2},
	}
}

func TestResample(t *testing.T) {
	got, err := Resample(rampTrajectory(), 0.5)
	if err != nil {
		t.Fatalf("Resample failed: %v", err)
	}

	if got.Len() != 7 {
		t.Fatalf("expected 7 samples, got %d", got.Len())
	}
	for i := 0; i < got.Len(); i++ {
		tm, prey, pred := got.At(i)
		if math.Abs(tm-0.5*float64(i)) > 1e-12 {
			t.Errorf("time[%d] = %v", i, tm)
		}
		if math.Abs(prey-tm) > 1e-12 {
			t.Errorf("prey(%v) = %v, want %v", tm, prey, tm)
		}
		if pred != 2 {
			t.Errorf("predators(%v) = %v, want 2", tm, pred)
		}
	}

	if _, err := Resample(rampTrajectory(), 0); !errors.Is(err, dynamo.ErrInvalidStep) {
		t.Errorf("expected ErrInvalidStep, got %v", err)
	}
	if empty, err := Resample(dynamo.Trajectory{}, 1); err != nil || empty.Len() != 0 {
		t.Errorf("empty input: %d points, err %v", empty.Len(), err)
	}
}

func TestResampleN(t *testing.T) {
	got := ResampleN(rampTrajectory(), 4)
	want := []float64{0, 1, 2, 3}

	if got.Len() != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), got.Len())
	}
	for i, w := range want {
		if math.Abs(got.Prey[i]-w) > 1e-12 {
			t.Errorf("prey[%d] = %v, want %v", i, got.Prey[i], w)
		}
	}

	if ResampleN(rampTrajectory(), 0).Len() != 0 {
		t.Error("n = 0 should give an empty trajectory")
	}
}

func TestResampleDoesNotAlias(t *testing.T) {
	in := rampTrajectory()
	out := ResampleN(in, 3)
	out.Prey[0] = 99
	if in.Prey[0] != 0 {
		t.Error("resampled trajectory shares memory with its input")
	}
}

func TestSummarizeTimeWeightedMean(t *testing.T) {
	s := Summarize(rampTrajectory(), models.DefaultParams())

	if s.Points != 3 || s.TStart != 0 || s.TEnd != 3 {
		t.Errorf("unexpected header: %+v", s)
	}
	if s.Prey.Min != 0 || s.Prey.Max != 3 || s.Prey.Final != 3 {
		t.Errorf("prey stats = %+v", s.Prey)
	}
	if math.Abs(s.Prey.Mean-1.5) > 1e-12 {
		t.Errorf("time weighted mean = %v, want 1.5", s.Prey.Mean)
	}
	if !math.IsNaN(s.InvariantDrift) {
		t.Errorf("drift should be NaN once prey touches zero, got %v", s.InvariantDrift)
	}
}

func TestSummarizeClassicRun(t *testing.T) {
	p := models.DefaultParams()
	traj, err := p.Run(models.DefaultStep)
	if err != nil {
		t.Fatal(err)
	}

	s := Summarize(traj, p)
	if s.Prey.Min <= 0 || s.Predators.Min <= 0 {
		t.Errorf("populations should stay positive: %+v %+v", s.Prey, s.Predators)
	}
	if s.Prey.Max < 40 {
		t.Errorf("prey max %v below initial value", s.Prey.Max)
	}
	if s.Prey.Peaks < 1 || s.Predators.Peaks < 1 {
		t.Errorf("expected oscillation peaks, got prey %d predators %d", s.Prey.Peaks, s.Predators.Peaks)
	}
	if s.InvariantDrift > 1e-4 {
		t.Errorf("invariant drift %v too large", s.InvariantDrift)
	}
}

func TestSummarizePoints(t *testing.T) {
	pts := []dynamo.PhasePoint{{Prey: 3, Predators: 2}, {Prey: 2, Predators: 2}, {Prey: 1, Predators: 0}, {Prey: 2, Predators: 0}}
	s := SummarizePoints(pts)

	if s.Points != 4 || s.Extinction != 2 {
		t.Errorf("points %d extinction %d", s.Points, s.Extinction)
	}
	if s.Prey.Mean != 2 || s.Predators.Mean != 1 {
		t.Errorf("means = %v, %v", s.Prey.Mean, s.Predators.Mean)
	}

	if SummarizePoints(nil).Extinction != -1 {
		t.Error("empty input should report no extinction")
	}
}

func TestEquilibrium(t *testing.T) {
	eq, ok := Equilibrium(models.DefaultParams())
	if !ok || math.Abs(eq.Prey-10) > 1e-12 || math.Abs(eq.Predators-5) > 1e-12 {
		t.Errorf("Equilibrium() = %+v, %v", eq, ok)
	}

	p := models.DefaultParams()
	p.Beta = 0
	if _, ok := Equilibrium(p); ok {
		t.Error("uncoupled system has no coexistence point")
	}
}

func TestCrossings(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4}
	values := []float64{-1, 1, -1, 1, 3}

	got := Crossings(times, values, 0)
	if len(got) != 2 || got[0] != 0.5 || got[1] != 2.5 {
		t.Errorf("Crossings() = %v", got)
	}
}

func TestPeriodNearEquilibrium(t *testing.T) {
	p := models.DefaultParams()
	p.InitialPrey = 10.5
	p.InitialPredator = 5
	p.TEnd = 400

	traj, err := p.Run(models.DefaultStep)
	if err != nil {
		t.Fatal(err)
	}

	want := 2 * math.Pi / math.Sqrt(p.Alpha*p.Gamma)
	got := Period(traj, 10)
	if math.Abs(got-want)/want > 0.03 {
		t.Errorf("Period() = %v, want about %v", got, want)
	}
}

func TestDominantPeriod(t *testing.T) {
	samples := make([]float64, 64)
	for i := range samples {
		samples[i] = 5 + math.Sin(2*math.Pi*float64(i)/16)
	}

	if got := DominantPeriod(samples, 1); math.Abs(got-16) > 1e-9 {
		t.Errorf("DominantPeriod() = %v, want 16", got)
	}
	if got := DominantPeriod([]float64{1, 1, 1, 1}, 1); got != 0 {
		t.Errorf("constant signal should have no period, got %v", got)
	}
}

func TestFFTPadsToPowerOfTwo(t *testing.T) {
	if got := len(FFT([]float64{1, 2, 3, 4, 5})); got != 8 {
		t.Errorf("len(FFT) = %d, want 8", got)
	}
}

func TestPhaseToASCII(t *testing.T) {
	pts := []dynamo.PhasePoint{{Prey: 1, Predators: 1}, {Prey: 2, Predators: 2}, {Prey: 3, Predators: 3}}
	out := PhaseToASCII(pts, 20, 10)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(lines))
	}
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n != 20 {
			t.Errorf("row %d has %d columns", i, n)
		}
	}
	if strings.Count(out, "•") != 3 {
		t.Errorf("expected 3 plotted points:\n%s", out)
	}

	if PhaseToASCII(nil, 20, 10) != "" {
		t.Error("no points should render nothing")
	}
}

func TestSweep(t *testing.T) {
	p := models.DefaultParams()
	p.TEnd = 50

	pts, err := Sweep(p, "alpha", 0.05, 0.15, 3, models.DefaultStep)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 3 {
		t.Fatalf("expected 3 points, got %d", len(pts))
	}
	for i, want := range []float64{0.05, 0.1, 0.15} {
		if math.Abs(pts[i].Param-want) > 1e-12 {
			t.Errorf("param[%d] = %v, want %v", i, pts[i].Param, want)
		}
		if pts[i].Err != nil {
			t.Errorf("point %d failed: %v", i, pts[i].Err)
		}
		if pts[i].Summary.Points < 2 {
			t.Errorf("point %d has an empty summary", i)
		}
	}

	if SweepToASCII(pts, 30, 8) == "" {
		t.Error("expected a rendered sweep")
	}
}

func TestSweepErrors(t *testing.T) {
	p := models.DefaultParams()
	p.TEnd = 10

	if _, err := Sweep(p, "kappa", 0, 1, 3, 0.1); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if _, err := Sweep(p, "alpha", 0, 1, 0, 0.1); err == nil {
		t.Error("expected error for zero steps")
	}

	pts, err := Sweep(p, "alpha", -0.1, 0.1, 3, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(pts[0].Err, dynamo.ErrInvalidParameter) {
		t.Errorf("negative alpha should fail validation, got %v", pts[0].Err)
	}
	if pts[2].Err != nil {
		t.Errorf("alpha = 0.1 should succeed, got %v", pts[2].Err)
	}
}
