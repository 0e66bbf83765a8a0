package unit

// Air/vacuum wavelength conversion using the VALD3 dispersion
// formulae. Both expect and return wavelengths in Angstroms; the
// refractive-index polynomials are written in s^2 = (1e4/lambda_vac)^2
// so they are only meaningful on an Angstrom axis.

// VacToAir converts vacuum wavelengths in Angstroms to air.
func VacToAir(wvac []float64) []float64 {
	out := make([]float64, len(wvac))
	for i, w := range wvac {
		s := 1e4 / w
		n := 1.0000834254 +
			0.02406147/(130.-s*s) +
			0.00015998/(38.9-s*s)
		out[i] = w / n
	}
	return out
}

// AirToVac converts air wavelengths in Angstroms to vacuum. The
// inverse polynomial differs slightly from VacToAir; the round trip
// closes to better than 1e-6 relative over the optical range.
func AirToVac(wair []float64) []float64 {
	out := make([]float64, len(wair))
	for i, w := range wair {
		s := 1e4 / w
		n := 1.00008336624212083 +
			0.02408926869968/(130.1065924522-s*s) +
			0.0001599740894897/(38.92568793293-s*s)
		out[i] = w * n
	}
	return out
}
