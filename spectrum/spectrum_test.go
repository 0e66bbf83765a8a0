package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/WarwickAstro/spectra/unit"
)

const tolerance = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// constant builds a flat spectrum on a unit-spaced grid.
func constant(n int, x0, flux, err float64, opts ...Option) *Spectrum {
	x := make([]float64, n)
	y := make([]float64, n)
	e := make([]float64, n)
	for i := range x {
		x[i] = x0 + float64(i)
		y[i] = flux
		e[i] = err
	}
	s, ferr := New(x, y, e, "flat", opts...)
	if ferr != nil {
		panic(ferr)
	}
	return s
}

func TestNew_Invariants(t *testing.T) {
	if _, err := New([]float64{1, 2}, []float64{1}, []float64{0, 0}, ""); !errors.Is(err, ErrShape) {
		t.Errorf("length mismatch: got %v, want ErrShape", err)
	}
	if _, err := New([]float64{1}, []float64{1}, []float64{-0.1}, ""); !errors.Is(err, ErrNegativeError) {
		t.Errorf("negative error: got %v, want ErrNegativeError", err)
	}
	s, err := New(nil, nil, nil, "empty")
	if err != nil {
		t.Fatalf("empty spectrum: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("empty spectrum has %d pixels", s.Len())
	}
}

func TestIndexingAndIteration(t *testing.T) {
	s := constant(5, 5000, 2, 0.5)

	px := s.At(3)
	if px.X != 5003 || px.Y != 2 || px.E != 0.5 {
		t.Errorf("At(3) = %+v", px)
	}

	sl, err := s.Slice(1, 4)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if sl.Len() != 3 || sl.X[0] != 5001 {
		t.Errorf("Slice(1,4) wrong: len=%d x0=%g", sl.Len(), sl.X[0])
	}
	if sl.Name != s.Name || sl.Wave != s.Wave || !sl.XUnit.Equal(s.XUnit) {
		t.Errorf("Slice did not carry tags")
	}

	// the pixel sequence is restartable
	for range 2 {
		count := 0
		for px := range s.Pixels() {
			if px.X != 5000+float64(count) {
				t.Errorf("pixel %d out of order: %+v", count, px)
			}
			count++
		}
		if count != 5 {
			t.Errorf("iterated %d pixels, want 5", count)
		}
	}
}

func TestWhereAndMask(t *testing.T) {
	s := constant(6, 100, 1, 0.1)
	mask := []bool{true, false, true, false, true, false}

	picked, err := s.Where(mask)
	if err != nil {
		t.Fatalf("Where: %v", err)
	}
	if picked.Len() != 3 || picked.X[1] != 102 {
		t.Errorf("Where picked wrong pixels: %v", picked.X)
	}

	if err := s.Mask(mask); err != nil {
		t.Fatalf("Mask: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("Mask left %d pixels, want 3", s.Len())
	}

	if err := s.Mask([]bool{true}); !errors.Is(err, ErrShape) {
		t.Errorf("short mask: got %v, want ErrShape", err)
	}
}

func TestJoinSplitRoundTrip(t *testing.T) {
	s1 := constant(5, 4000, 1, 0.1)
	s2 := constant(5, 6000, 2, 0.2)

	joined, err := s1.Join(s2, false)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if joined.Len() != 10 {
		t.Fatalf("joined length %d, want 10", joined.Len())
	}

	parts := joined.Split(5000)
	if len(parts) != 2 {
		t.Fatalf("Split gave %d parts, want 2", len(parts))
	}
	for i, want := range []*Spectrum{s1, s2} {
		got := parts[i]
		if got.Len() != want.Len() {
			t.Fatalf("part %d has %d pixels, want %d", i, got.Len(), want.Len())
		}
		for j := range got.X {
			if got.X[j] != want.X[j] || got.Y[j] != want.Y[j] || got.E[j] != want.E[j] {
				t.Errorf("part %d pixel %d differs", i, j)
			}
		}
	}
}

func TestJoinSorted(t *testing.T) {
	s1 := constant(3, 6000, 2, 0.1)
	s2 := constant(3, 4000, 1, 0.1)
	joined, err := s1.Join(s2, true)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	for i := 1; i < joined.Len(); i++ {
		if joined.X[i] < joined.X[i-1] {
			t.Fatalf("join not sorted at %d: %v", i, joined.X)
		}
	}
}

func TestClosestWave(t *testing.T) {
	s := constant(11, 5000, 1, 0)
	if got := s.ClosestWave(5003.4); got != 3 {
		t.Errorf("ClosestWave(5003.4) = %d, want 3", got)
	}
	if got := s.ClosestWave(4000); got != 0 {
		t.Errorf("ClosestWave(4000) = %d, want 0", got)
	}
}

func TestMeanSpectra(t *testing.T) {
	a := constant(4, 100, 1, 1)
	b := constant(4, 100, 3, 1)

	mean, err := MeanSpectra(a, b)
	if err != nil {
		t.Fatalf("MeanSpectra: %v", err)
	}
	for i := range mean.Y {
		if !almostEqual(mean.Y[i], 2, tolerance) {
			t.Errorf("mean flux %g, want 2", mean.Y[i])
		}
		if !almostEqual(mean.E[i], 1/math.Sqrt2, tolerance) {
			t.Errorf("mean error %g, want %g", mean.E[i], 1/math.Sqrt2)
		}
	}

	c := constant(4, 100, 1, 0)
	if _, err := MeanSpectra(a, c); err == nil {
		t.Error("expected an error for zero flux errors")
	}
}

func TestNormPercentile(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{1, 2, 3, 4, 10}
	e := []float64{0.1, 0.1, 0.1, 0.1, 0.1}
	s, err := New(x, y, e, "norm")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.NormPercentile(100); err != nil {
		t.Fatalf("NormPercentile: %v", err)
	}
	if !almostEqual(s.Y[4], 1, tolerance) {
		t.Errorf("peak after normalisation = %g, want 1", s.Y[4])
	}
	if !almostEqual(s.E[0], 0.01, tolerance) {
		t.Errorf("error after normalisation = %g, want 0.01", s.E[0])
	}
}

func TestGridsClose(t *testing.T) {
	a := constant(3, 5000, 1, 0)
	b := constant(3, 5000, 2, 0)
	// a tiny floating wobble stays within tolerance
	b.X[1] += 1e-6
	if !a.GridsClose(b) {
		t.Error("grids should compare close under tolerance")
	}
	b.X[1] += 1
	if a.GridsClose(b) {
		t.Error("grids a wavelength step apart must not compare close")
	}
}

func TestMediumConversionGuards(t *testing.T) {
	s := constant(3, 5000, 1, 0)

	if err := s.AirToVac(); err != nil {
		t.Fatalf("AirToVac: %v", err)
	}
	if s.Wave != MediumVac {
		t.Errorf("medium after conversion: %v", s.Wave)
	}
	before := append([]float64(nil), s.X...)
	// converting again is a no-op
	if err := s.AirToVac(); err != nil {
		t.Fatalf("repeated AirToVac: %v", err)
	}
	for i := range s.X {
		if s.X[i] != before[i] {
			t.Errorf("repeated conversion moved the grid")
		}
	}

	u := constant(3, 5000, 1, 0, WithMedium(MediumUnknown))
	if err := u.AirToVac(); !errors.Is(err, ErrMediumUnknown) {
		t.Errorf("unknown medium: got %v, want ErrMediumUnknown", err)
	}

	nm := constant(3, 500, 1, 0, WithXUnit(unit.MustParse("nm")))
	if err := nm.AirToVac(); !errors.Is(err, ErrUnitMismatch) {
		t.Errorf("non-Angstrom axis: got %v, want ErrUnitMismatch", err)
	}
}

func TestApplyRedshift(t *testing.T) {
	s := constant(3, 5000, 1, 0, WithMedium(MediumVac))
	orig := append([]float64(nil), s.X...)

	if err := s.ApplyRedshift(300, VelocityKms); err != nil {
		t.Fatalf("ApplyRedshift: %v", err)
	}
	if s.X[0] <= orig[0] {
		t.Error("positive velocity should redshift the grid")
	}
	if err := s.ApplyRedshift(-300, VelocityKms); err != nil {
		t.Fatalf("ApplyRedshift back: %v", err)
	}
	for i := range s.X {
		if !almostEqual(s.X[i], orig[i], 1e-9*orig[i]) {
			t.Errorf("redshift round trip at %g gave %g", orig[i], s.X[i])
		}
	}

	if err := s.ApplyRedshift(1.5, VelocityC); err == nil {
		t.Error("expected an error for |v/c| >= 1")
	}
}

func TestXUnitTo(t *testing.T) {
	s := constant(3, 5000, 1, 0.1)
	if err := s.XUnitTo("nm"); err != nil {
		t.Fatalf("XUnitTo: %v", err)
	}
	if !almostEqual(s.X[0], 500, 1e-9) {
		t.Errorf("5000 AA -> %g nm", s.X[0])
	}

	// converting to frequency reverses the axis to keep it ascending
	if err := s.XUnitTo("Hz"); err != nil {
		t.Fatalf("XUnitTo Hz: %v", err)
	}
	for i := 1; i < s.Len(); i++ {
		if s.X[i] < s.X[i-1] {
			t.Fatalf("frequency axis not ascending: %v", s.X)
		}
	}
}

func TestYUnitTo_SameFactorForErrors(t *testing.T) {
	s := constant(3, 5000, 1, 0.25)
	if err := s.YUnitTo("Jy"); err != nil {
		t.Fatalf("YUnitTo: %v", err)
	}
	for i := range s.Y {
		if !almostEqual(s.E[i]/s.Y[i], 0.25, 1e-12) {
			t.Errorf("relative error changed by unit conversion: %g", s.E[i]/s.Y[i])
		}
	}
	if !s.YUnit.IsFluxPerFrequency() {
		t.Errorf("flux unit after conversion: %v", s.YUnit)
	}
}

func TestYUnitTo_Magnitude(t *testing.T) {
	s := constant(3, 5000, 3631, 0, WithYUnit(unit.MustParse("Jy")))
	if err := s.YUnitTo("mag"); err != nil {
		t.Fatalf("YUnitTo mag: %v", err)
	}
	for _, y := range s.Y {
		if !almostEqual(y, 1, 1e-12) {
			t.Errorf("3631 Jy in AB ratio units = %g, want 1", y)
		}
	}
}

func TestRedden(t *testing.T) {
	s := constant(3, 5000, 1, 0.1, WithMedium(MediumVac))
	if err := s.Redden(0.1, 3.1); err != nil {
		t.Fatalf("Redden: %v", err)
	}
	for i, y := range s.Y {
		if y >= 1 {
			t.Errorf("reddening did not dim pixel %d: %g", i, y)
		}
		if !almostEqual(s.E[i]/y, 0.1, 1e-12) {
			t.Errorf("relative error changed by reddening: %g", s.E[i]/y)
		}
	}
}
