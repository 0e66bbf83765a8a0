package spectrum

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/WarwickAstro/spectra/logging"
	"github.com/WarwickAstro/spectra/profiles"
	"github.com/WarwickAstro/spectra/unit"
)

// The in-place mutators. Each either fully succeeds or returns a
// precondition error before any field has been written.

// Mask keeps only the pixels where keep is true, in place.
func (s *Spectrum) Mask(keep []bool) error {
	if len(keep) != s.Len() {
		return fmt.Errorf("%w: mask=%d pixels=%d", ErrShape, len(keep), s.Len())
	}
	masked, err := s.Where(keep)
	if err != nil {
		return err
	}
	s.X, s.Y, s.E = masked.X, masked.Y, masked.E
	return nil
}

// NormPercentile normalises the fluxes (and errors) in place so that
// the pc-th percentile of the flux becomes 1.
func (s *Spectrum) NormPercentile(pc float64) error {
	if s.Len() == 0 {
		return fmt.Errorf("spectrum: cannot normalise an empty spectrum")
	}
	if pc < 0 || pc > 100 {
		return fmt.Errorf("spectrum: percentile %g outside [0, 100]", pc)
	}
	sorted := append([]float64(nil), s.Y...)
	sort.Float64s(sorted)
	norm := stat.Quantile(pc/100, stat.LinInterp, sorted, nil)
	if norm == 0 {
		return fmt.Errorf("spectrum: percentile %g of flux is zero", pc)
	}
	for i := range s.Y {
		s.Y[i] /= norm
		s.E[i] /= math.Abs(norm)
	}
	return nil
}

// requireAngstroms guards the medium conversions: the refraction
// polynomials are written for an Angstrom axis.
func (s *Spectrum) requireAngstroms(op string) error {
	if !s.XUnit.Equal(defaultXUnit) {
		return fmt.Errorf("%w: %s requires wavelengths in Angstroms, have %v (convert x units first)",
			ErrUnitMismatch, op, s.XUnit)
	}
	return nil
}

// AirToVac converts air wavelengths to vacuum in place. Converting a
// spectrum already in vacuum is a no-op (logged); converting from an
// undefined medium is an error.
func (s *Spectrum) AirToVac() error {
	switch s.Wave {
	case MediumVac:
		logging.GetGlobalLogger().Info("wavelengths already in vacuum, skipping conversion",
			logging.Fields{"name": s.Name})
		return nil
	case MediumUnknown:
		return fmt.Errorf("%w: cannot convert to vacuum", ErrMediumUnknown)
	}
	if err := s.requireAngstroms("air to vacuum conversion"); err != nil {
		return err
	}
	s.X = unit.AirToVac(s.X)
	s.Wave = MediumVac
	return nil
}

// VacToAir converts vacuum wavelengths to air in place, with the
// same guards as AirToVac.
func (s *Spectrum) VacToAir() error {
	switch s.Wave {
	case MediumAir:
		logging.GetGlobalLogger().Info("wavelengths already in air, skipping conversion",
			logging.Fields{"name": s.Name})
		return nil
	case MediumUnknown:
		return fmt.Errorf("%w: cannot convert to air", ErrMediumUnknown)
	}
	if err := s.requireAngstroms("vacuum to air conversion"); err != nil {
		return err
	}
	s.X = unit.VacToAir(s.X)
	s.Wave = MediumAir
	return nil
}

// VelocityUnit selects how ApplyRedshift interprets its velocity.
type VelocityUnit int

const (
	// VelocityKms is a radial velocity in km/s.
	VelocityKms VelocityUnit = iota

	// VelocityC is a velocity as a fraction of the speed of light.
	VelocityC
)

// ApplyRedshift shifts the wavelengths in place by the relativistic
// Doppler factor sqrt((1+beta)/(1-beta)) for radial velocity v. Air
// wavelengths are converted through vacuum and back, since the
// Doppler shift is only multiplicative there. |beta| must be < 1.
func (s *Spectrum) ApplyRedshift(v float64, vu VelocityUnit) error {
	var beta float64
	switch vu {
	case VelocityKms:
		beta = v / unit.SpeedOfLightKms
	case VelocityC:
		beta = v
	default:
		return fmt.Errorf("spectrum: unknown velocity unit %d", vu)
	}
	if math.Abs(beta) >= 1 {
		return fmt.Errorf("spectrum: |v/c| = %g is not below 1", math.Abs(beta))
	}
	if s.Wave == MediumUnknown {
		return fmt.Errorf("%w: cannot apply redshift", ErrMediumUnknown)
	}
	wasAir := s.Wave == MediumAir
	if wasAir {
		if err := s.AirToVac(); err != nil {
			return err
		}
	}
	factor := math.Sqrt((1 + beta) / (1 - beta))
	for i := range s.X {
		s.X[i] *= factor
	}
	if wasAir {
		return s.VacToAir()
	}
	return nil
}

// XUnitTo converts the wavelength axis to the named unit in place,
// using the spectral equivalence between wavelength, frequency and
// energy. If the conversion inverts the axis ordering (e.g.
// wavelength to frequency) all three arrays are reversed so the axis
// stays ascending.
func (s *Spectrum) XUnitTo(name string) error {
	u, err := unit.Parse(name)
	if err != nil {
		return err
	}
	x2, err := unit.ConvertX(s.X, s.XUnit, u)
	if err != nil {
		return err
	}
	s.X = x2
	s.XUnit = u
	if s.Len() > 1 && s.X[0] > s.X[s.Len()-1] {
		reverse(s.X)
		reverse(s.Y)
		reverse(s.E)
	}
	return nil
}

// YUnitTo converts the flux density to the named unit in place. The
// error array is scaled by the same per-point factors as the flux:
// the conversion is a deterministic scaling, not a statistical
// transform. Converting to "mag" divides the Jansky-equivalent flux
// by the AB reference flux of 3631 Jy.
func (s *Spectrum) YUnitTo(name string) error {
	u, err := unit.Parse(name)
	if err != nil {
		return err
	}
	factors, err := unit.FluxFactors(s.X, s.XUnit, s.YUnit, u)
	if err != nil {
		return err
	}
	for i, f := range factors {
		s.Y[i] *= f
		s.E[i] *= math.Abs(f)
	}
	s.YUnit = u
	return nil
}

// Redden applies CCM89 interstellar reddening in place: the
// extinction curve scaled by Rv*E(B-V) is evaluated on the vacuum
// inverse-micron axis and the flux and error are multiplied by
// 10^(-0.4*A). Use a negative ebv to deredden.
func (s *Spectrum) Redden(ebv, rv float64) error {
	if s.Wave == MediumUnknown {
		return fmt.Errorf("%w: cannot redden", ErrMediumUnknown)
	}
	xAA, err := unit.ConvertX(s.X, s.XUnit, defaultXUnit)
	if err != nil {
		return err
	}
	if s.Wave == MediumAir {
		xAA = unit.AirToVac(xAA)
	}
	av := rv * ebv
	for i, w := range xAA {
		invMicron := 1e4 / w
		a := av * profiles.CCM89At(invMicron, rv)
		f := math.Pow(10, -0.4*a)
		s.Y[i] *= f
		s.E[i] *= f
	}
	return nil
}

func reverse(a []float64) {
	for i, j := 0, len(a)-1; i < j; i, j = i+1, j-1 {
		a[i], a[j] = a[j], a[i]
	}
}
