package profiles

import "math"

// CCM89 evaluates the Cardelli, Clayton & Mathis (1989) extinction
// law A(lambda)/A(V) at inverse wavelengths invMicron (1/um), for
// total-to-selective extinction ratio rv. The law is piecewise:
// infrared, optical/near-IR, ultraviolet and far-UV regimes each
// carry their own fixed-coefficient polynomial. Abscissae beyond the
// defined range clamp to the nearest regime edge rather than
// extrapolating.
func CCM89(invMicron []float64, rv float64) []float64 {
	out := make([]float64, len(invMicron))
	for i, x := range invMicron {
		a, b := ccm89Coeffs(x)
		out[i] = a + b/rv
	}
	return out
}

// CCM89At evaluates the law at a single inverse wavelength.
func CCM89At(invMicron, rv float64) float64 {
	a, b := ccm89Coeffs(invMicron)
	return a + b/rv
}

func ccm89Coeffs(x float64) (a, b float64) {
	// clamp to the defined range
	if x < 0.3 {
		x = 0.3
	}
	if x > 10 {
		x = 10
	}

	switch {
	case x < 1.1: // infrared
		p := math.Pow(x, 1.61)
		return 0.574 * p, -0.527 * p

	case x < 3.3: // optical / near-IR
		y := x - 1.82
		a = 1 + y*(0.17699+y*(-0.50447+y*(-0.02427+y*(0.72085+y*(0.01979+y*(-0.77530+y*0.32999))))))
		b = y * (1.41338 + y*(2.28305+y*(1.07233+y*(-5.38434+y*(-0.62251+y*(5.30260+y*-2.09002))))))
		return a, b

	case x < 8: // ultraviolet
		var fa, fb float64
		if x >= 5.9 {
			d := x - 5.9
			fa = -0.04473*d*d - 0.009779*d*d*d
			fb = 0.2130*d*d + 0.1207*d*d*d
		}
		a = 1.752 - 0.316*x - 0.104/((x-4.67)*(x-4.67)+0.341) + fa
		b = -3.090 + 1.825*x + 1.206/((x-4.62)*(x-4.62)+0.263) + fb
		return a, b

	default: // far-UV
		y := x - 8
		a = -1.073 + y*(-0.628+y*(0.137+y*-0.070))
		b = 13.670 + y*(4.257+y*(-0.420+y*0.374))
		return a, b
	}
}
