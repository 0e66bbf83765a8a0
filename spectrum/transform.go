package spectrum

import (
	"fmt"

	"github.com/WarwickAstro/spectra/convolve"
	"github.com/WarwickAstro/spectra/resample"
)

// InterpWave maps the spectrum onto a new wavelength grid, in the
// same unit and medium as the receiver. Flux and error are
// interpolated independently; grid points outside the original
// support are filled with zero rather than extrapolated.
func (s *Spectrum) InterpWave(x []float64, kind resample.Kind) (*Spectrum, error) {
	y2, err := resample.Resample(s.X, s.Y, x, kind)
	if err != nil {
		return nil, err
	}
	e2, err := resample.Resample(s.X, s.E, x, kind)
	if err != nil {
		return nil, err
	}
	// interpolation can push errors slightly negative between
	// samples; clamp to keep the non-negativity invariant
	for i, e := range e2 {
		if e < 0 {
			e2[i] = 0
		}
	}
	return s.derived(append([]float64(nil), x...), y2, e2), nil
}

// InterpOnto resamples the spectrum onto another spectrum's
// wavelength grid. The two must share a wavelength unit and medium.
func (s *Spectrum) InterpOnto(o *Spectrum, kind resample.Kind) (*Spectrum, error) {
	if !s.XUnit.Equal(o.XUnit) {
		return nil, fmt.Errorf("%w: x units %v vs %v", ErrUnitMismatch, s.XUnit, o.XUnit)
	}
	if s.Wave != MediumUnknown && o.Wave != MediumUnknown && s.Wave != o.Wave {
		return nil, fmt.Errorf("%w: %v vs %v", ErrMediumMismatch, s.Wave, o.Wave)
	}
	return s.InterpWave(o.X, kind)
}

// ConvolveGaussian returns the spectrum smoothed by a Gaussian of
// the given FWHM (in wavelength units). The error array is carried
// over unconvolved. Wrap-around contaminates the values near both
// ends of the array.
func (s *Spectrum) ConvolveGaussian(fwhm float64) (*Spectrum, error) {
	y2, err := convolve.Gaussian(s.X, s.Y, fwhm)
	if err != nil {
		return nil, err
	}
	return s.derived(
		append([]float64(nil), s.X...),
		y2,
		append([]float64(nil), s.E...),
	), nil
}

// ConvolveGaussianR smooths the spectrum to a fixed resolving power
// R = lambda/dlambda instead of a fixed FWHM.
func (s *Spectrum) ConvolveGaussianR(r float64) (*Spectrum, error) {
	y2, err := convolve.GaussianR(s.X, s.Y, r)
	if err != nil {
		return nil, err
	}
	return s.derived(
		append([]float64(nil), s.X...),
		y2,
		append([]float64(nil), s.E...),
	), nil
}
