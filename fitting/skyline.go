package fitting

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// fwhmFactor converts a Gaussian sigma to FWHM: 2*sqrt(2*ln 2).
var fwhmFactor = 2 * math.Sqrt(2*math.Ln2)

// skyWindow is the half-width of the fit window around the guessed
// line centre, in wavelength units.
const skyWindow = 10.0

// LineFit holds the parameters of a fitted Gaussian-plus-offset
// profile A*exp(-0.5*((x-x0)/sigma)^2) + c.
type LineFit struct {
	Amplitude float64
	Center    float64
	Sigma     float64
	Offset    float64
}

// FWHM returns the full width at half maximum of the fitted line.
func (f LineFit) FWHM() float64 { return f.Sigma * fwhmFactor }

// SkyLineFWHM fits a Gaussian plus constant offset to the sky
// spectrum in a window of +-10 wavelength units around the guessed
// line centre w0 and returns the fitted FWHM. Per-point weights are
// sqrt(flux), treating the sky counts as Poisson-like; negative
// amplitude, width or offset are discouraged by inflating the
// residuals rather than by hard constraints.
func SkyLineFWHM(wave, sky []float64, w0 float64) (float64, error) {
	fit, err := FitSkyLine(wave, sky, w0)
	if err != nil {
		return 0, err
	}
	return fit.FWHM(), nil
}

// FitSkyLine performs the sky-line fit and returns all four model
// parameters.
func FitSkyLine(wave, sky []float64, w0 float64) (LineFit, error) {
	if len(wave) != len(sky) {
		return LineFit{}, fmt.Errorf("fitting: length mismatch %d vs %d", len(wave), len(sky))
	}

	var x, y, e []float64
	for i, w := range wave {
		if w > w0-skyWindow && w < w0+skyWindow && sky[i] > 0 {
			x = append(x, w)
			y = append(y, sky[i])
			e = append(e, math.Sqrt(sky[i]))
		}
	}
	if len(x) < 5 {
		return LineFit{}, fmt.Errorf("fitting: only %d usable pixels within %g of %g", len(x), skyWindow, w0)
	}

	lo, hi := y[0], y[0]
	for _, v := range y {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	sumSquares := func(p []float64) float64 {
		a, x0, s, c := p[0], p[1], p[2], p[3]
		var sum float64
		for i := range x {
			d := x[i] - x0
			fit := a*math.Exp(-0.5*d*d/(s*s)) + c
			r := (y[i] - fit) / e[i]
			if a < 0 || s < 0 || c < 0 {
				r *= 1000
			}
			sum += r * r
		}
		return sum
	}

	problem := optimize.Problem{Func: sumSquares}
	guess := []float64{hi - lo, w0, 1.0, lo}
	result, err := optimize.Minimize(problem, guess, nil, &optimize.NelderMead{})
	if err != nil {
		return LineFit{}, fmt.Errorf("fitting: sky-line fit did not converge: %w", err)
	}

	return LineFit{
		Amplitude: result.X[0],
		Center:    result.X[1],
		Sigma:     math.Abs(result.X[2]),
		Offset:    result.X[3],
	}, nil
}
