package photometry

import (
	"errors"
	"math"
	"testing"

	"github.com/WarwickAstro/spectra/spectrum"
	"github.com/WarwickAstro/spectra/unit"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// flatJansky builds a constant flux-density spectrum in vacuum
// wavelengths covering 3000-8000 AA.
func flatJansky(t *testing.T, flux, err float64) *spectrum.Spectrum {
	t.Helper()
	n := 1001
	x := make([]float64, n)
	y := make([]float64, n)
	e := make([]float64, n)
	for i := range x {
		x[i] = 3000 + 5*float64(i)
		y[i] = flux
		e[i] = err
	}
	s, ferr := spectrum.New(x, y, e, "flat",
		spectrum.WithMedium(spectrum.MediumVac),
		spectrum.WithYUnit(unit.MustParse("Jy")))
	if ferr != nil {
		t.Fatal(ferr)
	}
	return s
}

// boxFilter is a flat transmission curve over [w1, w2] AA.
func boxFilter(w1, w2 float64) FilterCurve {
	n := 201
	wave := make([]float64, n)
	trans := make([]float64, n)
	for i := range wave {
		wave[i] = w1 + (w2-w1)*float64(i)/float64(n-1)
		trans[i] = 1
	}
	return FilterCurve{Wave: wave, Trans: trans, Medium: spectrum.MediumVac}
}

func TestMagCalcAB_FlatReferenceSource(t *testing.T) {
	// a source of constant 3631 Jy is the AB zero point in any band
	s := flatJansky(t, unit.ABReferenceJy, 0)
	cat := MapCatalogue{"box": boxFilter(4000, 6000)}

	res, err := MagCalcAB(s, "box", cat, nil)
	if err != nil {
		t.Fatalf("MagCalcAB: %v", err)
	}
	if !almostEqual(res.Mag, 0, 1e-9) {
		t.Errorf("AB magnitude of the reference source = %g, want 0", res.Mag)
	}
	if res.MagErr != 0 {
		t.Errorf("error-free spectrum gave MagErr = %g", res.MagErr)
	}
}

func TestMagCalcAB_BrightnessScale(t *testing.T) {
	// ten times fainter is 2.5 magnitudes
	s := flatJansky(t, unit.ABReferenceJy/10, 0)
	cat := MapCatalogue{"box": boxFilter(4000, 6000)}

	res, err := MagCalcAB(s, "box", cat, nil)
	if err != nil {
		t.Fatalf("MagCalcAB: %v", err)
	}
	if !almostEqual(res.Mag, 2.5, 1e-9) {
		t.Errorf("magnitude = %g, want 2.5", res.Mag)
	}
}

func TestMagCalcAB_MonteCarloErrors(t *testing.T) {
	// 1 percent flux errors propagate to a small but nonzero
	// magnitude error
	s := flatJansky(t, unit.ABReferenceJy, 0.01*unit.ABReferenceJy)
	cat := MapCatalogue{"box": boxFilter(4000, 6000)}

	res, err := MagCalcAB(s, "box", cat, &Options{NMonte: 400, Seed: 42})
	if err != nil {
		t.Fatalf("MagCalcAB: %v", err)
	}
	if res.MagErr <= 0 {
		t.Fatalf("expected a positive MagErr, got %g", res.MagErr)
	}
	if res.MagErr > 0.05 {
		t.Errorf("MagErr = %g, implausibly large for 1%% flux errors", res.MagErr)
	}
	if !almostEqual(res.Mag, 0, 0.02) {
		t.Errorf("Monte-Carlo mean magnitude = %g, want about 0", res.Mag)
	}

	// a fixed seed makes the run reproducible
	again, err := MagCalcAB(s, "box", cat, &Options{NMonte: 400, Seed: 42})
	if err != nil {
		t.Fatalf("MagCalcAB repeat: %v", err)
	}
	if again.Mag != res.Mag || again.MagErr != res.MagErr {
		t.Errorf("seeded runs differ: %+v vs %+v", res, again)
	}
}

func TestMagCalcAB_SimpsonAgreesWithTrapezoid(t *testing.T) {
	s := flatJansky(t, 1000, 0)
	cat := MapCatalogue{"box": boxFilter(4500, 5500)}

	tr, err := MagCalcAB(s, "box", cat, &Options{Integrator: Trapezoid})
	if err != nil {
		t.Fatalf("trapezoid: %v", err)
	}
	si, err := MagCalcAB(s, "box", cat, &Options{Integrator: Simpson})
	if err != nil {
		t.Fatalf("simpson: %v", err)
	}
	if !almostEqual(tr.Mag, si.Mag, 1e-6) {
		t.Errorf("quadrature rules disagree: %g vs %g", tr.Mag, si.Mag)
	}
}

func TestMagCalcAB_UnknownFilter(t *testing.T) {
	s := flatJansky(t, 1000, 0)
	if _, err := MagCalcAB(s, "nope", MapCatalogue{}, nil); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("got %v, want ErrUnknownFilter", err)
	}
}

func TestMagCalcAB_SpectrumMustCoverFilter(t *testing.T) {
	s := flatJansky(t, 1000, 0)
	cat := MapCatalogue{"ir": boxFilter(20000, 25000)}
	if _, err := MagCalcAB(s, "ir", cat, nil); err == nil {
		t.Error("expected an error for a filter outside the spectral range")
	}
}

func TestFilterFileLookup(t *testing.T) {
	file, err := FilterFile("g")
	if err != nil {
		t.Fatalf("FilterFile: %v", err)
	}
	if file != "SLOAN_SDSS.g.dat" {
		t.Errorf("FilterFile(g) = %q", file)
	}
	if _, err := FilterFile("Q"); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("got %v, want ErrUnknownFilter", err)
	}

	ids := FilterIDs()
	if len(ids) != len(filterFiles) {
		t.Fatalf("FilterIDs lists %d of %d filters", len(ids), len(filterFiles))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] < ids[i-1] {
			t.Fatalf("FilterIDs not sorted at %d: %v", i, ids)
		}
	}
}

func TestPivotWavelength_BoxFilter(t *testing.T) {
	// for flat transmission over [w1, w2] the pivot wavelength is
	// sqrt( (w2^2 - w1^2) / (2*ln(w2/w1)) )
	curve := boxFilter(4000, 6000)
	want := math.Sqrt((6000*6000 - 4000*4000) / (2 * math.Log(1.5)))
	got := PivotWavelength(curve, Trapezoid)
	if !almostEqual(got, want, 1.0) {
		t.Errorf("pivot wavelength = %g, want %g", got, want)
	}
}

func TestSDSSMagToFlux(t *testing.T) {
	// a zero magnitude is the AB reference: fnu = 10^-19.44 erg/s/cm2/Hz
	flux, fluxErr := SDSSMagToFlux(5000, 0, 0.1, 0)
	want := 2.998e18 / (5000 * 5000) * math.Pow(10, -19.44)
	if !almostEqual(flux, want, 1e-6*want) {
		t.Errorf("flux = %g, want %g", flux, want)
	}
	if !almostEqual(fluxErr, 0.4*math.Ln10*flux*0.1, 1e-12) {
		t.Errorf("flux error = %g", fluxErr)
	}

	// the u-band AB offset makes the source fainter by 0.04 mag
	uflux, _ := SDSSMagToFlux(5000, 0.04, 0, 0.04)
	if !almostEqual(uflux, want, 1e-6*want) {
		t.Errorf("offset not applied: %g vs %g", uflux, want)
	}

	if _, e := SDSSMagToFlux(5000, 15, 0, 0); e != 0 {
		t.Errorf("zero magErr should give zero flux error, got %g", e)
	}
}
