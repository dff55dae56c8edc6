package integrators

import (
	"math"

	"github.com/san-kum/predsim/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

const (
	DefaultTolerance = 1e-6
	DefaultMaxSteps  = 100000
)

// Options controls the adaptive driver. Zero MinStep and MaxStep disable
// the corresponding bound.
type Options struct {
	RTol     float64
	ATol     float64
	MinStep  float64
	MaxStep  float64
	MaxSteps int
}

func DefaultOptions() Options {
	return Options{
		RTol:     DefaultTolerance,
		ATol:     DefaultTolerance,
		MaxSteps: DefaultMaxSteps,
	}
}

// Dopri5 is an adaptive Dormand-Prince 5(4) integrator. It records the
// initial state and every accepted step, so the returned time grid follows
// the step size controller rather than the requested h.
type Dopri5 struct {
	opts     Options
	safety   float64
	minScale float64
	maxScale float64
}

func NewDopri5(opts Options) *Dopri5 {
	if opts.RTol <= 0 {
		opts.RTol = DefaultTolerance
	}
	if opts.ATol <= 0 {
		opts.ATol = DefaultTolerance
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	return &Dopri5{
		opts:     opts,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (d *Dopri5) Name() string { return "dopri5" }

// Integrate advances x0 from t0 to tEnd using h as the initial step size.
func (d *Dopri5) Integrate(dyn dynamo.System, t0, tEnd float64, x0 dynamo.State, h float64) (*dynamo.Solution, error) {
	if err := checkWindow(dyn, t0, tEnd, x0, h); err != nil {
		return nil, err
	}

	sol := &dynamo.Solution{
		Times:  []float64{t0},
		States: []dynamo.State{x0.Clone()},
	}
	if tEnd == t0 {
		return sol, nil
	}

	hMax := tEnd - t0
	if d.opts.MaxStep > 0 && d.opts.MaxStep < hMax {
		hMax = d.opts.MaxStep
	}
	h = math.Min(h, hMax)

	x := x0.Clone()
	t := t0
	k1 := dyn.Derive(x, t)
	sol.Evaluations++

	rejectedLast := false
	diverged := false
	attempts := 0

	for t < tEnd {
		if attempts >= d.opts.MaxSteps {
			return nil, &dynamo.IntegrationError{Step: sol.Accepted, Time: t, State: x, Wrapped: dynamo.ErrMaxSteps}
		}
		attempts++

		if h < d.opts.MinStep || t+h == t || math.Abs(h) <= 10*math.Abs(t)*epsilon {
			cause := dynamo.ErrStepTooSmall
			if diverged {
				cause = dynamo.ErrUnstable
			}
			return nil, &dynamo.IntegrationError{Step: sol.Accepted, Time: t, State: x, Wrapped: cause}
		}

		last := false
		if t+h >= tEnd {
			h = tEnd - t
			last = true
		}

		xNew, k7, errNorm := d.attempt(dyn, x, k1, t, h)
		sol.Evaluations += 6

		if !xNew.IsValid() || math.IsNaN(errNorm) || math.IsInf(errNorm, 0) {
			diverged = true
			rejectedLast = true
			sol.Rejected++
			h *= d.minScale
			continue
		}

		if errNorm > 1 {
			rejectedLast = true
			sol.Rejected++
			h *= math.Max(d.minScale, d.safety*math.Pow(errNorm, -0.2))
			continue
		}

		if last {
			t = tEnd
		} else {
			t += h
		}
		x = xNew
		k1 = k7
		diverged = false
		sol.Accepted++
		sol.Times = append(sol.Times, t)
		sol.States = append(sol.States, x.Clone())

		scale := d.maxScale
		if errNorm > 0 {
			scale = math.Min(d.maxScale, d.safety*math.Pow(errNorm, -0.2))
		}
		if rejectedLast {
			scale = math.Min(1, scale)
		}
		rejectedLast = false
		h = math.Min(h*scale, hMax)
	}

	return sol, nil
}

// attempt performs one Dormand-Prince step from (t, x) with derivative k1 and
// returns the 5th order solution, its derivative (reused as the next k1) and
// the scaled RMS error of the embedded 4th order estimate.
func (d *Dopri5) attempt(dyn dynamo.System, x, k1 dynamo.State, t, h float64) (dynamo.State, dynamo.State, float64) {
	n := len(x)

	x2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + h*b21*k1[i]
	}
	k2 := dyn.Derive(x2, t+a2*h)

	x3 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + h*(b31*k1[i]+b32*k2[i])
	}
	k3 := dyn.Derive(x3, t+a3*h)

	x4 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + h*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := dyn.Derive(x4, t+a4*h)

	x5 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + h*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := dyn.Derive(x5, t+a5*h)

	x6 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + h*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := dyn.Derive(x6, t+h)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + h*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := dyn.Derive(xNew, t+h)

	sum := 0.0
	for i := 0; i < n; i++ {
		errEst := h * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		sc := d.opts.ATol + d.opts.RTol*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		r := errEst / sc
		sum += r * r
	}
	if n == 0 {
		return xNew, k7, 0
	}

	return xNew, k7, math.Sqrt(sum / float64(n))
}
