// Package convolve implements FFT-based Gaussian smoothing of
// spectra, either at fixed FWHM or at fixed resolving power R.
//
// The input wavelength grid must be sorted but need not be uniform:
// the signal is first oversampled onto a uniform power-of-two grid,
// convolved in the frequency domain, and interpolated back. The
// circular convolution wraps around at both ends of the array, so
// values within a few FWHM of either edge are contaminated; no
// padding is applied.
package convolve

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"

	"github.com/WarwickAstro/spectra/resample"
)

// fwhmFactor converts a Gaussian FWHM to sigma: 2*sqrt(2*ln 2).
var fwhmFactor = 2 * math.Sqrt(2*math.Ln2)

// NextPow2 returns the smallest power of two >= n.
func NextPow2(n int) int {
	out := 1
	for out < n {
		out *= 2
	}
	return out
}

// Gaussian convolves y, sampled at sorted wavelengths x, with a
// Gaussian of the given FWHM (in the units of x). The signal is
// oversampled by at least a factor 10 (up to 20 from the power-of-two
// rounding) before the transform.
func Gaussian(x, y []float64, fwhm float64) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("convolve: length mismatch %d vs %d", len(x), len(y))
	}
	if len(x) < 2 {
		return nil, fmt.Errorf("convolve: need at least 2 samples, got %d", len(x))
	}
	if fwhm <= 0 {
		return nil, fmt.Errorf("convolve: FWHM must be positive, got %g", fwhm)
	}
	sigma := fwhm / fwhmFactor

	// uniform oversampled grid across the full span
	n := NextPow2(10 * len(x))
	xi := floats.Span(make([]float64, n), x[0], x[len(x)-1])
	yi, err := resample.Resample(x, y, xi, resample.Linear)
	if err != nil {
		return nil, fmt.Errorf("convolve: oversampling: %w", err)
	}

	// symmetric kernel: half-Gaussian anchored at the grid start plus
	// its mirror, normalised to unit sum
	yg := make([]float64, n)
	for i := range yg {
		d := (xi[i] - x[0]) / sigma
		yg[i] = math.Exp(-0.5 * d * d)
	}
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		yg[i], yg[j] = yg[i]+yg[j], yg[j]+yg[i]
	}
	norm := floats.Sum(yg)
	for i := range yg {
		yg[i] /= norm
	}

	// circular convolution via the transform pair
	yiF := fft.FFTReal(yi)
	ygF := fft.FFTReal(yg)
	for i := range yiF {
		yiF[i] *= ygF[i]
	}
	conv := fft.IFFT(yiF)
	yic := make([]float64, n)
	for i, c := range conv {
		yic[i] = real(c)
	}

	return resample.Resample(xi, yic, x, resample.Linear)
}

// GaussianR convolves y to a fixed resolving power R rather than a
// fixed FWHM. Constant R means constant FWHM in log-wavelength space,
// so this is Gaussian applied to log(x) with FWHM 1/R.
func GaussianR(x, y []float64, r float64) ([]float64, error) {
	if r <= 0 {
		return nil, fmt.Errorf("convolve: resolving power must be positive, got %g", r)
	}
	lx := make([]float64, len(x))
	for i, v := range x {
		if v <= 0 {
			return nil, fmt.Errorf("convolve: non-positive wavelength %g at index %d", v, i)
		}
		lx[i] = math.Log(v)
	}
	return Gaussian(lx, y, 1/r)
}
