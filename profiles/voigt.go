// Package profiles provides the analytic profiles consumed by
// spectral modelling: the Voigt line profile, the Planck blackbody
// curve, and the CCM89 interstellar extinction law.
package profiles

import "math"

var (
	// sigma = fwhmToSigma * FWHM for a Gaussian
	fwhmToSigma = 1 / (2 * math.Sqrt(2*math.Ln2))

	sqrt2   = math.Sqrt2
	sqrt2pi = math.Sqrt(2 * math.Pi)
)

// VoigtAt evaluates the unit-area Voigt profile at x, for a line
// centred on x0 with Gaussian FWHM fwhmG and Lorentzian FWHM fwhmL.
// The profile is the real part of the Faddeeva function at
// ((x-x0) + i*fwhmL/2) / (sigma*sqrt2), normalised by
// sigma*sqrt(2*pi).
func VoigtAt(x, x0, fwhmG, fwhmL float64) float64 {
	sigma := fwhmToSigma * fwhmG
	z := complex(x-x0, 0.5*fwhmL) / complex(sigma*sqrt2, 0)
	return real(faddeeva(z)) / (sigma * sqrt2pi)
}

// Voigt evaluates the Voigt profile over an array of abscissae.
func Voigt(x []float64, x0, fwhmG, fwhmL float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = VoigtAt(v, x0, fwhmG, fwhmL)
	}
	return out
}
