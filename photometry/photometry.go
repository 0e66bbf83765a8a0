package photometry

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/WarwickAstro/spectra/resample"
	"github.com/WarwickAstro/spectra/spectrum"
	"github.com/WarwickAstro/spectra/unit"
)

// Integrator selects the quadrature rule for the filter integrals.
type Integrator int

const (
	// Trapezoid is the composite trapezoidal rule.
	Trapezoid Integrator = iota

	// Simpson is the composite Simpson rule.
	Simpson
)

func (in Integrator) integrate(x, f []float64) float64 {
	if in == Simpson {
		return integrate.Simpsons(x, f)
	}
	return integrate.Trapezoidal(x, f)
}

// Options tunes MagCalcAB.
type Options struct {
	// NMonte is the number of Monte-Carlo flux realisations used to
	// propagate the flux errors into the magnitude. Zero disables
	// the propagation.
	NMonte int

	// Integrator is the quadrature rule (default Trapezoid).
	Integrator Integrator

	// Seed seeds the Monte-Carlo generator; zero means a fixed
	// default seed.
	Seed uint64
}

const defaultNMonte = 1000

// Result is a synthetic magnitude with its Monte-Carlo uncertainty.
// MagErr is zero when no propagation was performed.
type Result struct {
	Mag    float64
	MagErr float64
}

// MagCalcAB computes the synthetic AB magnitude of a spectrum
// through the identified filter:
//
//	m = -2.5*log10( Int(y*R/nu dnu) / Int(R/nu dnu) ) + 8.90
//
// with y in Jansky over the frequency axis. The filter curve is
// aligned to the spectrum's wavelength medium, both are converted to
// frequency, the spectrum is clipped to the filter support, and the
// filter is resampled onto the spectrum's grid.
//
// If the spectrum carries no uncertainty (or NMonte is zero) the
// magnitude alone is returned. Otherwise NMonte Gaussian realisations
// of the flux array are drawn and the sample mean and standard
// deviation of their magnitudes reported.
func MagCalcAB(s *spectrum.Spectrum, filterID string, cat Catalogue, opts *Options) (Result, error) {
	var o Options
	if opts != nil {
		o = *opts
	} else {
		o.NMonte = defaultNMonte
	}

	curve, err := cat.FilterCurve(filterID)
	if err != nil {
		return Result{}, err
	}
	if len(curve.Wave) < 2 || len(curve.Wave) != len(curve.Trans) {
		return Result{}, fmt.Errorf("photometry: malformed filter curve %q", filterID)
	}

	// align the filter to the spectrum's medium
	fwave := append([]float64(nil), curve.Wave...)
	if curve.Medium != spectrum.MediumUnknown && s.Wave != spectrum.MediumUnknown &&
		curve.Medium != s.Wave {
		if s.Wave == spectrum.MediumVac {
			fwave = unit.AirToVac(fwave)
		} else {
			fwave = unit.VacToAir(fwave)
		}
	}

	// spectrum onto a Jansky flux over an ascending frequency axis
	work := s.Copy()
	if err := work.XUnitTo("Hz"); err != nil {
		return Result{}, fmt.Errorf("photometry: %w", err)
	}
	if err := work.YUnitTo("Jy"); err != nil {
		return Result{}, fmt.Errorf("photometry: %w", err)
	}

	// filter onto the same axis: nu = c/lambda reverses the ordering
	fnu := make([]float64, len(fwave))
	ftr := make([]float64, len(fwave))
	for i := range fwave {
		j := len(fwave) - 1 - i
		fnu[i] = unit.SpeedOfLight / (fwave[j] * 1e-10)
		ftr[i] = curve.Trans[j]
	}

	// clip to the filter support and resample the transmission onto
	// the clipped spectrum's frequency grid
	clipped := work.Clip(fnu[0], fnu[len(fnu)-1])
	if clipped.Len() < 3 {
		return Result{}, fmt.Errorf("photometry: spectrum does not cover filter %q", filterID)
	}
	trans, err := resample.Resample(fnu, ftr, clipped.X, resample.Linear)
	if err != nil {
		return Result{}, fmt.Errorf("photometry: %w", err)
	}

	nu, y, e := clipped.X, clipped.Y, clipped.E

	// weight R/nu of the AB mean-flux integral
	wt := make([]float64, len(nu))
	for i := range nu {
		wt[i] = trans[i] / nu[i]
	}
	den := o.Integrator.integrate(nu, wt)

	magOf := func(flux []float64) float64 {
		num := make([]float64, len(flux))
		for i := range flux {
			num[i] = flux[i] * wt[i]
		}
		fnuMean := o.Integrator.integrate(nu, num) / den
		return -2.5*math.Log10(fnuMean) + 8.90
	}

	noErrors := true
	for _, v := range e {
		if v != 0 {
			noErrors = false
			break
		}
	}
	if o.NMonte <= 0 || noErrors {
		return Result{Mag: magOf(y)}, nil
	}

	seed := o.Seed
	if seed == 0 {
		seed = 0x5eed
	}
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(seed, seed)}

	mags := make([]float64, o.NMonte)
	draw := make([]float64, len(y))
	for k := range mags {
		for i := range y {
			draw[i] = y[i] + e[i]*norm.Rand()
		}
		mags[k] = magOf(draw)
	}
	mean, std := stat.MeanStdDev(mags, nil)
	return Result{Mag: mean, MagErr: std}, nil
}

// PivotWavelength returns the pivot wavelength of a filter curve,
// sqrt( Int(R*lambda dlambda) / Int(R/lambda dlambda) ), in the
// units of the curve's wavelength array.
func PivotWavelength(curve FilterCurve, in Integrator) float64 {
	num := make([]float64, len(curve.Wave))
	den := make([]float64, len(curve.Wave))
	for i, w := range curve.Wave {
		num[i] = curve.Trans[i] * w
		den[i] = curve.Trans[i] / w
	}
	return math.Sqrt(in.integrate(curve.Wave, num) / in.integrate(curve.Wave, den))
}

// SDSSMagToFlux converts an SDSS magnitude at effective wavelength
// effWave (Angstroms) to a flux density in erg/(s cm2 AA) with its
// error. The offset shifts SDSS magnitudes onto the AB system
// (0.04 for u, zero otherwise). A non-positive magErr yields a zero
// flux error.
func SDSSMagToFlux(effWave, mag, magErr, offset float64) (flux, fluxErr float64) {
	m := mag - offset
	fnu := math.Pow(10, -0.4*m-19.44)
	flux = 2.998e18 / (effWave * effWave) * fnu
	if magErr > 0 {
		fluxErr = 0.4 * math.Ln10 * flux * magErr
	}
	return flux, fluxErr
}
