package profiles

import "math"

// bbQ is (h*c)/(1e-10 * kB): the Planck exponent argument is
// Q = bbQ/(lambda[AA] * T[K]).
const bbQ = 143877516.

// BlackBody evaluates the Planck curve at wavelengths x in Angstroms
// for temperature T in Kelvin. The curve is computed in log space so
// the x^-5 prefactor cannot overflow; for Q > 10, exp(Q)-1 is
// replaced by exp(Q), which is accurate to better than 0.1% there.
// With normalize set, the curve is scaled to peak at exactly 1,
// otherwise the values are unnormalised (shape only).
func BlackBody(x []float64, T float64, normalize bool) []float64 {
	logf := make([]float64, len(x))
	maxv := math.Inf(-1)
	for i, w := range x {
		q := bbQ / (w * T)
		if q < 10 {
			logf[i] = -5*math.Log(w) - math.Log(math.Expm1(q))
		} else {
			logf[i] = -5*math.Log(w) - q
		}
		if logf[i] > maxv {
			maxv = logf[i]
		}
	}
	out := make([]float64, len(x))
	for i, lf := range logf {
		if normalize {
			lf -= maxv
		}
		out[i] = math.Exp(lf)
	}
	return out
}
