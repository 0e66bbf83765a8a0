// Package fitting provides the least-squares routines: closed-form
// scaling of a model spectrum onto data, and the nonlinear Gaussian
// fit used to measure sky-line widths.
package fitting

import (
	"fmt"

	"github.com/WarwickAstro/spectra/resample"
	"github.com/WarwickAstro/spectra/spectrum"
)

// ScaleModel scales a noiseless model spectrum onto a data spectrum.
// The model is resampled onto the data grid (restricted to pixels
// with positive errors) and the inverse-variance weighted
// least-squares scale factor
//
//	A = sum(data*model/sigma^2) / sum(model^2/sigma^2)
//
// is applied. The returned spectrum keeps the model's own wavelength
// grid; resample it separately if the data grid is wanted.
func ScaleModel(model, data *spectrum.Spectrum) (*spectrum.Spectrum, float64, error) {
	mask := make([]bool, data.Len())
	any := false
	for i, e := range data.E {
		mask[i] = e > 0
		any = any || mask[i]
	}
	if !any {
		return nil, 0, fmt.Errorf("fitting: data spectrum has no positive errors; use ScaleToModel")
	}
	d, err := data.Where(mask)
	if err != nil {
		return nil, 0, err
	}
	m, err := model.InterpOnto(d, resample.Linear)
	if err != nil {
		return nil, 0, err
	}

	var sm, mm float64
	for i := range d.Y {
		w := 1 / (d.E[i] * d.E[i])
		sm += d.Y[i] * m.Y[i] * w
		mm += m.Y[i] * m.Y[i] * w
	}
	if mm == 0 {
		return nil, 0, fmt.Errorf("fitting: model is zero everywhere on the data grid")
	}
	a := sm / mm

	scaled, err := model.Mul(spectrum.Scalar(a))
	if err != nil {
		return nil, 0, err
	}
	return scaled, a, nil
}

// ScaleToModel scales one noiseless model onto another when no error
// information exists, using the unweighted factor
//
//	A = sum(data*model) / sum(model)
//
// (first-power denominator, matching the long-standing behavior of
// this routine).
func ScaleToModel(model, data *spectrum.Spectrum) (*spectrum.Spectrum, float64, error) {
	m, err := model.InterpOnto(data, resample.Linear)
	if err != nil {
		return nil, 0, err
	}
	var dm, ms float64
	for i := range data.Y {
		dm += data.Y[i] * m.Y[i]
		ms += m.Y[i]
	}
	if ms == 0 {
		return nil, 0, fmt.Errorf("fitting: model sums to zero on the data grid")
	}
	a := dm / ms

	scaled, err := model.Mul(spectrum.Scalar(a))
	if err != nil {
		return nil, 0, err
	}
	return scaled, a, nil
}
