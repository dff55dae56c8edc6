package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/predsim/internal/dynamo"
	"github.com/san-kum/predsim/internal/models"
)

// SweepPoint is the outcome of one run in a parameter sweep. Err is set when
// the parameters were invalid or integration failed; the sweep continues.
type SweepPoint struct {
	Param   float64
	Summary Summary
	Period  float64
	Err     error
}

// Sweep varies one named parameter of p linearly from lo to hi over steps
// runs and summarizes each deterministic trajectory. The period is measured
// against the prey equilibrium level when it exists.
func Sweep(p models.Params, name string, lo, hi float64, steps int, step float64) ([]SweepPoint, error) {
	return SweepWith(nil, p, name, lo, hi, steps, step)
}

// SweepWith is Sweep driven by integ. A nil integ uses the adaptive default.
func SweepWith(integ dynamo.Integrator, p models.Params, name string, lo, hi float64, steps int, step float64) ([]SweepPoint, error) {
	if _, err := p.Get(name); err != nil {
		return nil, err
	}
	if steps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", steps)
	}

	paramStep := 0.0
	if steps > 1 {
		paramStep = (hi - lo) / float64(steps-1)
	}

	results := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		value := lo + float64(i)*paramStep
		pt := SweepPoint{Param: value}

		run, _ := p.With(name, value)
		if err := run.Validate(); err != nil {
			pt.Err = err
			results = append(results, pt)
			continue
		}

		var traj dynamo.Trajectory
		var err error
		if integ == nil {
			traj, err = run.Run(step)
		} else {
			y0 := [2]float64{run.InitialPrey, run.InitialPredator}
			traj, err = models.IntegrateWith(integ, run, y0, run.TStart, run.TEnd, step)
		}
		if err != nil {
			pt.Err = err
			results = append(results, pt)
			continue
		}

		pt.Summary = Summarize(traj, run)
		if eq, ok := Equilibrium(run); ok {
			pt.Period = Period(traj, eq.Prey)
		}
		results = append(results, pt)
	}

	return results, nil
}

// SweepToASCII plots the prey range of each sweep point as a vertical bar,
// one column per point, in the style of a bifurcation diagram.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	foundFirst := false
	for _, p := range data {
		if p.Err != nil {
			continue
		}
		if !foundFirst {
			minVal, maxVal = p.Summary.Prey.Min, p.Summary.Prey.Max
			foundFirst = true
			continue
		}
		if p.Summary.Prey.Min < minVal {
			minVal = p.Summary.Prey.Min
		}
		if p.Summary.Prey.Max > maxVal {
			maxVal = p.Summary.Prey.Max
		}
	}
	if !foundFirst {
		return ""
	}
	valRange := maxVal - minVal
	if valRange == 0 {
		valRange = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	row := func(v float64) int {
		r := height - 1 - int((v-minVal)/valRange*float64(height-1))
		if r < 0 {
			return 0
		}
		if r >= height {
			return height - 1
		}
		return r
	}

	for i, p := range data {
		if p.Err != nil {
			continue
		}
		col := 0
		if len(data) > 1 {
			col = i * (width - 1) / (len(data) - 1)
		}
		for r := row(p.Summary.Prey.Max); r <= row(p.Summary.Prey.Min); r++ {
			canvas[r][col] = '█'
		}
	}

	var sb strings.Builder
	for _, r := range canvas {
		sb.WriteString(string(r))
		sb.WriteRune('\n')
	}
	return sb.String()
}
