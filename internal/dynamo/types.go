package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Conserved is implemented by systems with a first integral of motion.
type Conserved interface {
	Invariant(x State) float64
}

type Integrator interface {
	Name() string
	Integrate(dyn System, t0, tEnd float64, x0 State, h float64) (*Solution, error)
}

// Solution is the raw output of an integrator: one state per recorded time.
type Solution struct {
	Times       []float64
	States      []State
	Accepted    int
	Rejected    int
	Evaluations int
}

// Trajectory holds the deterministic predator-prey time series. The three
// slices always have the same length.
type Trajectory struct {
	Times     []float64
	Prey      []float64
	Predators []float64
}

func (tr Trajectory) Len() int { return len(tr.Times) }

// At returns the i-th sample.
func (tr Trajectory) At(i int) (t, prey, predators float64) {
	return tr.Times[i], tr.Prey[i], tr.Predators[i]
}

// Phase returns the trajectory as (prey, predators) pairs, dropping time.
func (tr Trajectory) Phase() []PhasePoint {
	pts := make([]PhasePoint, len(tr.Times))
	for i := range tr.Times {
		pts[i] = PhasePoint{Prey: tr.Prey[i], Predators: tr.Predators[i]}
	}
	return pts
}

// TrajectoryFromSolution splits two-dimensional solver states into prey and
// predator series. The result shares no memory with sol.
func TrajectoryFromSolution(sol *Solution) (Trajectory, error) {
	n := len(sol.Times)
	tr := Trajectory{
		Times:     make([]float64, n),
		Prey:      make([]float64, n),
		Predators: make([]float64, n),
	}
	copy(tr.Times, sol.Times)
	for i, x := range sol.States {
		if len(x) != 2 {
			return Trajectory{}, ErrDimensionMismatch
		}
		tr.Prey[i] = x[0]
		tr.Predators[i] = x[1]
	}
	return tr, nil
}

type PhasePoint struct {
	Prey      float64
	Predators float64
}
