package profiles

import (
	"math"
	"math/cmplx"
)

// faddeeva evaluates the scaled complex error function
// w(z) = exp(-z^2) erfc(-iz) for Im(z) >= 0, using Humlicek's
// four-region rational approximation (relative accuracy ~1e-4,
// adequate for line-profile synthesis).
func faddeeva(z complex128) complex128 {
	x, y := real(z), imag(z)
	t := complex(y, -x)
	s := math.Abs(x) + y

	switch {
	case s >= 15:
		// region I: single-pole approximation
		return t * 0.5641896 / (0.5 + t*t)
	case s >= 5.5:
		// region II
		u := t * t
		return t * (1.410474 + u*0.5641896) / (0.75 + u*(3.0+u))
	case y >= 0.195*math.Abs(x)-0.176:
		// region III
		return (16.4955 + t*(20.20933+t*(11.96482+t*(3.778987+t*0.5642236)))) /
			(16.4955 + t*(38.82363+t*(39.27121+t*(21.69274+t*(6.699398+t)))))
	default:
		// region IV: rational approximation subtracted from exp(t^2)
		u := t * t
		num := t * (36183.31 - u*(3321.9905-u*(1540.787-u*(219.0313-u*(35.76683-u*(1.320522-u*0.56419))))))
		den := 32066.6 - u*(24322.84-u*(9022.228-u*(2186.181-u*(364.2191-u*(61.57037-u*(1.841439-u))))))
		return cmplx.Exp(u) - num/den
	}
}
