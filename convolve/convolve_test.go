package convolve

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func uniformGrid(x0, dx float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = x0 + dx*float64(i)
	}
	return out
}

func TestNextPow2(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 100: 128, 1024: 1024, 1025: 2048}
	for in, want := range cases {
		if got := NextPow2(in); got != want {
			t.Errorf("NextPow2(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestGaussian_FlatSpectrumUnchanged(t *testing.T) {
	x := uniformGrid(5000, 1, 200)
	y := make([]float64, len(x))
	for i := range y {
		y[i] = 2.5
	}
	out, err := Gaussian(x, y, 3)
	if err != nil {
		t.Fatalf("Gaussian: %v", err)
	}
	// wrap-around contaminates the ends; check away from the edges
	for i := 20; i < len(x)-20; i++ {
		if !almostEqual(out[i], 2.5, 1e-6) {
			t.Errorf("flat flux at pixel %d became %g", i, out[i])
		}
	}
}

func TestGaussian_SmoothsAFeature(t *testing.T) {
	x := uniformGrid(6000, 0.5, 256)
	y := make([]float64, len(x))
	// narrow emission line in the middle
	for i := range y {
		d := x[i] - 6064
		y[i] = 1 + 10*math.Exp(-0.5*d*d/(0.5*0.5))
	}
	out, err := Gaussian(x, y, 5)
	if err != nil {
		t.Fatalf("Gaussian: %v", err)
	}
	peakIn, peakOut := 0.0, 0.0
	for i := range y {
		peakIn = math.Max(peakIn, y[i]-1)
		peakOut = math.Max(peakOut, out[i]-1)
	}
	if peakOut >= peakIn/2 {
		t.Errorf("convolution barely lowered the peak: %g -> %g", peakIn, peakOut)
	}

	// flux is approximately conserved away from the edges
	var sumIn, sumOut float64
	for i := 30; i < len(x)-30; i++ {
		sumIn += y[i]
		sumOut += out[i]
	}
	if !almostEqual(sumOut/sumIn, 1, 0.01) {
		t.Errorf("flux not conserved: ratio %g", sumOut/sumIn)
	}
}

func TestGaussianR_FlatSpectrumUnchanged(t *testing.T) {
	x := uniformGrid(4000, 2, 128)
	y := make([]float64, len(x))
	for i := range y {
		y[i] = 1.0
	}
	out, err := GaussianR(x, y, 500)
	if err != nil {
		t.Fatalf("GaussianR: %v", err)
	}
	for i := 15; i < len(x)-15; i++ {
		if !almostEqual(out[i], 1, 1e-6) {
			t.Errorf("flat flux at pixel %d became %g", i, out[i])
		}
	}
}

func TestGaussian_Preconditions(t *testing.T) {
	x := uniformGrid(0, 1, 16)
	y := make([]float64, 16)

	if _, err := Gaussian(x, y[:8], 1); err == nil {
		t.Error("expected an error for mismatched lengths")
	}
	if _, err := Gaussian(x, y, 0); err == nil {
		t.Error("expected an error for a non-positive FWHM")
	}
	if _, err := Gaussian(x[:1], y[:1], 1); err == nil {
		t.Error("expected an error for a single sample")
	}
}

func TestGaussianR_RequiresPositiveWavelengths(t *testing.T) {
	x := []float64{-1, 0, 1, 2}
	y := []float64{1, 1, 1, 1}
	if _, err := GaussianR(x, y, 100); err == nil {
		t.Error("expected an error for non-positive wavelengths")
	}
	if _, err := GaussianR(x[2:], y[2:], 0); err == nil {
		t.Error("expected an error for a non-positive resolving power")
	}
}
