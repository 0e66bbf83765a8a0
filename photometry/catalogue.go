// Package photometry computes synthetic AB magnitudes of spectra
// through filter transmission curves, with Monte-Carlo propagation
// of the flux uncertainties.
package photometry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/WarwickAstro/spectra/spectrum"
)

// ErrUnknownFilter reports a filter identifier outside the supported
// catalogue.
var ErrUnknownFilter = errors.New("photometry: unsupported filter")

// FilterCurve is a filter transmission curve: dimensionless
// transmission fractions over wavelengths in Angstroms, tagged with
// the medium the wavelengths are measured in.
type FilterCurve struct {
	Wave   []float64
	Trans  []float64
	Medium spectrum.Medium
}

// Catalogue maps filter identifiers to transmission curves. It is
// injected into MagCalcAB so the core carries no file-path logic.
type Catalogue interface {
	FilterCurve(id string) (FilterCurve, error)
}

// MapCatalogue is an in-memory Catalogue.
type MapCatalogue map[string]FilterCurve

// FilterCurve returns the curve for id, or ErrUnknownFilter.
func (m MapCatalogue) FilterCurve(id string) (FilterCurve, error) {
	c, ok := m[id]
	if !ok {
		return FilterCurve{}, fmt.Errorf("%w: %q", ErrUnknownFilter, id)
	}
	return c, nil
}

// filterFiles is the fixed catalogue of supported photometric
// systems, mapping each filter identifier to its profile file name.
var filterFiles = map[string]string{
	// SDSS
	"u": "SLOAN_SDSS.u.dat",
	"g": "SLOAN_SDSS.g.dat",
	"r": "SLOAN_SDSS.r.dat",
	"i": "SLOAN_SDSS.i.dat",
	"z": "SLOAN_SDSS.z.dat",
	// Johnson
	"U": "Generic_Johnson.U.dat",
	"B": "Generic_Johnson.B.dat",
	"V": "Generic_Johnson.V.dat",
	"R": "Generic_Johnson.R.dat",
	"I": "Generic_Johnson.I.dat",
	// Gaia DR2
	"GaiaG":  "GAIA_GAIA2r.G.dat",
	"GaiaBp": "GAIA_GAIA2r.Gbp.dat",
	"GaiaRp": "GAIA_GAIA2r.Grp.dat",
	// Galex
	"GalexFUV": "GALEX_GALEX.FUV.dat",
	"GalexNUV": "GALEX_GALEX.NUV.dat",
	// Denis
	"DenisI": "DENIS_DENIS.I.dat",
	// 2MASS
	"2mJ": "2MASS_2MASS.J.dat",
	"2mH": "2MASS_2MASS.H.dat",
	"2mK": "2MASS_2MASS.K.dat",
	// UKIDSS
	"UKY": "UKIRT_UKIDSS.Y.dat",
	"UKJ": "UKIRT_UKIDSS.J.dat",
	"UKH": "UKIRT_UKIDSS.H.dat",
	"UKK": "UKIRT_UKIDSS.K.dat",
	// WISE
	"W1": "WISE_WISE.W1.dat",
	"W2": "WISE_WISE.W2.dat",
	// Spitzer IRAC
	"S1": "Spitzer_IRAC.I1.dat",
	"S2": "Spitzer_IRAC.I2.dat",
}

// FilterFile returns the profile file name for a supported filter
// identifier.
func FilterFile(id string) (string, error) {
	f, ok := filterFiles[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFilter, id)
	}
	return f, nil
}

// FilterIDs lists every supported filter identifier, sorted.
func FilterIDs() []string {
	ids := make([]string, 0, len(filterFiles))
	for id := range filterFiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
