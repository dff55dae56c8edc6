package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT transforms real samples, zero padded to a power of two so that bins
// line up with DominantPeriod.
func FFT(data []float64) []complex128 {
	if size := nextPow2(len(data)); size != len(data) {
		padded := make([]float64, size)
		copy(padded, data)
		data = padded
	}
	return fft.FFTReal(data)
}

func PowerSpectrum(data []float64) []float64 {
	spectrum := FFT(data)
	ps := make([]float64, len(spectrum)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantPeriod returns the period of the strongest non-constant frequency
// in samples taken every dt, or 0 when there is none.
func DominantPeriod(samples []float64, dt float64) float64 {
	if len(samples) < 2 || !(dt > 0) {
		return 0
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	centered := make([]float64, len(samples))
	for i, v := range samples {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[best] || best == 0 {
			best = k
		}
	}
	if best == 0 || ps[best] == 0 {
		return 0
	}
	return float64(nextPow2(len(samples))) * dt / float64(best)
}

func nextPow2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
