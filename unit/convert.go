package unit

import "fmt"

// ConvertX converts a spectral axis between wavelength, frequency and
// energy units. Same-dimension conversions are a constant scaling;
// the wavelength/frequency/energy equivalences invert through
// nu = c/lambda and E = h*nu. Note that an inverting conversion
// reverses the ordering of a sorted axis; callers own re-sorting.
func ConvertX(x []float64, from, to Unit) ([]float64, error) {
	out := make([]float64, len(x))
	if from.SameDims(to) {
		f, err := from.FactorTo(to)
		if err != nil {
			return nil, err
		}
		for i, v := range x {
			out[i] = v * f
		}
		return out, nil
	}
	// route through wavelength in metres
	toMetres, err := xToMetres(from)
	if err != nil {
		return nil, err
	}
	fromMetres, err := xFromMetres(to)
	if err != nil {
		return nil, err
	}
	for i, v := range x {
		out[i] = fromMetres(toMetres(v))
	}
	return out, nil
}

func xToMetres(u Unit) (func(float64) float64, error) {
	switch {
	case u.IsLength():
		return func(v float64) float64 { return v * u.scale }, nil
	case u.IsFrequency():
		return func(v float64) float64 { return SpeedOfLight / (v * u.scale) }, nil
	case u.IsEnergy():
		return func(v float64) float64 { return Planck * SpeedOfLight / (v * u.scale) }, nil
	}
	return nil, fmt.Errorf("unit: %v is not a spectral axis unit", u)
}

func xFromMetres(u Unit) (func(float64) float64, error) {
	switch {
	case u.IsLength():
		return func(m float64) float64 { return m / u.scale }, nil
	case u.IsFrequency():
		return func(m float64) float64 { return SpeedOfLight / m / u.scale }, nil
	case u.IsEnergy():
		return func(m float64) float64 { return Planck * SpeedOfLight / m / u.scale }, nil
	}
	return nil, fmt.Errorf("unit: %v is not a spectral axis unit", u)
}

// FluxFactors returns the per-point multiplicative factors that
// convert a flux-density array from one unit to another, given the
// spectral axis x in unit xu. Per-wavelength and per-frequency
// densities are related through the Jacobian lambda^2/c of the
// nu = c/lambda substitution, which is why the axis is required.
// Flux errors must be scaled by the same factors.
func FluxFactors(x []float64, xu Unit, from, to Unit) ([]float64, error) {
	out := make([]float64, len(x))

	// magnitude targets and sources route through Jansky and the AB
	// zero-point flux
	if from.IsMag() || to.IsMag() {
		jy := named["Jy"]
		switch {
		case from.IsMag() && to.IsMag():
			for i := range out {
				out[i] = 1
			}
			return out, nil
		case to.IsMag():
			f, err := FluxFactors(x, xu, from, jy)
			if err != nil {
				return nil, err
			}
			for i := range f {
				f[i] /= ABReferenceJy
			}
			return f, nil
		default:
			f, err := FluxFactors(x, xu, jy, to)
			if err != nil {
				return nil, err
			}
			for i := range f {
				f[i] *= ABReferenceJy
			}
			return f, nil
		}
	}

	if from.SameDims(to) {
		f, err := from.FactorTo(to)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = f
		}
		return out, nil
	}

	toMetres, err := xToMetres(xu)
	if err != nil {
		return nil, err
	}
	switch {
	case from.IsFluxPerWavelength() && to.IsFluxPerFrequency():
		// F_nu = F_lambda * lambda^2 / c
		for i, v := range x {
			lam := toMetres(v)
			out[i] = from.scale * lam * lam / SpeedOfLight / to.scale
		}
		return out, nil
	case from.IsFluxPerFrequency() && to.IsFluxPerWavelength():
		for i, v := range x {
			lam := toMetres(v)
			out[i] = from.scale * SpeedOfLight / (lam * lam) / to.scale
		}
		return out, nil
	}
	return nil, fmt.Errorf("unit: no spectral-density equivalence from %v to %v", from, to)
}
