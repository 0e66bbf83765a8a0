// Package unit provides the unit descriptors attached to spectra:
// a small dimensional algebra over mass, length and time, a parser
// for composite unit strings such as "erg/(s cm2 AA)", and the
// spectral equivalences between wavelength, frequency and energy
// axes and between per-wavelength and per-frequency flux densities.
package unit

import (
	"fmt"
	"math"
	"strings"
)

// Dimension exponent indices.
const (
	dimMass = iota
	dimLength
	dimTime
	numDims
)

// Unit is a physical unit: a scale factor to the SI combination of
// its base-dimension exponents. The mag flag marks the dimensionless
// AB-magnitude ratio unit, which converts specially.
type Unit struct {
	scale float64
	dims  [numDims]int8
	mag   bool
}

// Dimensionless is the scale-1 unit with no dimensions.
var Dimensionless = Unit{scale: 1}

// Mag is the dimensionless AB magnitude ratio unit (flux relative to
// the 3631 Jy zero point).
var Mag = Unit{scale: 1, mag: true}

// named base and derived units, keyed by the spellings accepted by
// Parse. Scales are to SI (kg, m, s).
var named = map[string]Unit{
	"g":        {scale: 1e-3, dims: [numDims]int8{1, 0, 0}},
	"kg":       {scale: 1, dims: [numDims]int8{1, 0, 0}},
	"m":        {scale: 1, dims: [numDims]int8{0, 1, 0}},
	"cm":       {scale: 1e-2, dims: [numDims]int8{0, 1, 0}},
	"mm":       {scale: 1e-3, dims: [numDims]int8{0, 1, 0}},
	"um":       {scale: 1e-6, dims: [numDims]int8{0, 1, 0}},
	"nm":       {scale: 1e-9, dims: [numDims]int8{0, 1, 0}},
	"AA":       {scale: 1e-10, dims: [numDims]int8{0, 1, 0}},
	"Angstrom": {scale: 1e-10, dims: [numDims]int8{0, 1, 0}},
	"km":       {scale: 1e3, dims: [numDims]int8{0, 1, 0}},
	"s":        {scale: 1, dims: [numDims]int8{0, 0, 1}},
	"Hz":       {scale: 1, dims: [numDims]int8{0, 0, -1}},
	"kHz":      {scale: 1e3, dims: [numDims]int8{0, 0, -1}},
	"MHz":      {scale: 1e6, dims: [numDims]int8{0, 0, -1}},
	"GHz":      {scale: 1e9, dims: [numDims]int8{0, 0, -1}},
	"THz":      {scale: 1e12, dims: [numDims]int8{0, 0, -1}},
	"J":        {scale: 1, dims: [numDims]int8{1, 2, -2}},
	"erg":      {scale: 1e-7, dims: [numDims]int8{1, 2, -2}},
	"eV":       {scale: ElectronVolt, dims: [numDims]int8{1, 2, -2}},
	"keV":      {scale: 1e3 * ElectronVolt, dims: [numDims]int8{1, 2, -2}},
	"W":        {scale: 1, dims: [numDims]int8{1, 2, -3}},
	"Jy":       {scale: 1e-26, dims: [numDims]int8{1, 0, -2}},
	"mJy":      {scale: 1e-29, dims: [numDims]int8{1, 0, -2}},
	"uJy":      {scale: 1e-32, dims: [numDims]int8{1, 0, -2}},
	"mag":      {scale: 1, mag: true},
	"":         {scale: 1},
}

// Parse interprets a composite unit string. Factors are separated by
// spaces or '*' and multiplied; each '/' divides by the factor or
// parenthesised group that follows; a trailing signed integer on a
// factor is its exponent, e.g. "erg/(s cm2 AA)" or "cm-2".
func Parse(text string) (Unit, error) {
	u := Dimensionless
	for i, part := range splitTopLevel(text) {
		pu, err := parseGroup(part)
		if err != nil {
			return Unit{}, fmt.Errorf("unit: parsing %q: %w", text, err)
		}
		if i == 0 {
			u = pu
		} else {
			u = u.Div(pu)
		}
	}
	return u, nil
}

// MustParse is Parse for known-good literals; it panics on error.
func MustParse(text string) Unit {
	u, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return u
}

// splitTopLevel splits on '/' outside parentheses. The first element
// is the numerator, the rest are successive denominators.
func splitTopLevel(text string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case '/':
			if depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, text[start:])
}

func parseGroup(text string) (Unit, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		text = text[1 : len(text)-1]
	}
	u := Dimensionless
	for _, f := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '*'
	}) {
		fu, err := parseFactor(f)
		if err != nil {
			return Unit{}, err
		}
		u = u.Mul(fu)
	}
	return u, nil
}

func parseFactor(text string) (Unit, error) {
	name := text
	exp := 1
	// split a trailing signed integer exponent off the name
	i := len(text)
	for i > 0 && (text[i-1] >= '0' && text[i-1] <= '9') {
		i--
	}
	if i > 0 && i < len(text) && (text[i-1] == '-' || text[i-1] == '+') {
		i--
	}
	if i < len(text) {
		name = text[:i]
		n := 0
		neg := false
		for _, r := range text[i:] {
			switch {
			case r == '-':
				neg = true
			case r == '+':
			default:
				n = 10*n + int(r-'0')
			}
		}
		if neg {
			n = -n
		}
		exp = n
	}
	base, ok := named[name]
	if !ok {
		return Unit{}, fmt.Errorf("unknown unit %q", name)
	}
	u := Dimensionless
	for k := 0; k < abs(exp); k++ {
		u = u.Mul(base)
	}
	if exp < 0 {
		u = Dimensionless.Div(u)
	}
	return u, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Mul returns the product unit.
func (u Unit) Mul(v Unit) Unit {
	w := Unit{scale: u.scale * v.scale, mag: u.mag || v.mag}
	for i := range w.dims {
		w.dims[i] = u.dims[i] + v.dims[i]
	}
	return w
}

// Div returns the quotient unit.
func (u Unit) Div(v Unit) Unit {
	w := Unit{scale: u.scale / v.scale, mag: u.mag || v.mag}
	for i := range w.dims {
		w.dims[i] = u.dims[i] - v.dims[i]
	}
	return w
}

// Pow raises the unit to a scalar power. For dimensioned units the
// resulting exponents must stay integral.
func (u Unit) Pow(p float64) (Unit, error) {
	w := Unit{scale: math.Pow(u.scale, p), mag: u.mag}
	for i, d := range u.dims {
		e := float64(d) * p
		r := math.Round(e)
		if math.Abs(e-r) > 1e-9 {
			return Unit{}, fmt.Errorf("unit: non-integral dimension from power %g", p)
		}
		w.dims[i] = int8(r)
	}
	return w, nil
}

// Invert returns the reciprocal unit.
func (u Unit) Invert() Unit {
	return Dimensionless.Div(u)
}

// SameDims reports whether u and v share base dimensions.
func (u Unit) SameDims(v Unit) bool {
	return u.dims == v.dims && u.mag == v.mag
}

// Equal reports whether u and v are the same unit (dimensions and
// scale), to within floating tolerance on the scale.
func (u Unit) Equal(v Unit) bool {
	if !u.SameDims(v) {
		return false
	}
	return math.Abs(u.scale-v.scale) <= 1e-12*math.Max(math.Abs(u.scale), math.Abs(v.scale))
}

// FactorTo returns the multiplicative factor converting a value in u
// to the same quantity expressed in v. The units must share
// dimensions.
func (u Unit) FactorTo(v Unit) (float64, error) {
	if !u.SameDims(v) {
		return 0, fmt.Errorf("unit: %v not convertible to %v", u, v)
	}
	return u.scale / v.scale, nil
}

// IsDimensionless reports a pure number (transmission fractions,
// normalised curves).
func (u Unit) IsDimensionless() bool {
	return u.dims == [numDims]int8{} && !u.mag
}

// IsMag reports the AB magnitude ratio unit.
func (u Unit) IsMag() bool { return u.mag }

// IsLength reports a wavelength-like unit.
func (u Unit) IsLength() bool {
	return u.dims == [numDims]int8{0, 1, 0} && !u.mag
}

// IsFrequency reports a frequency-like unit.
func (u Unit) IsFrequency() bool {
	return u.dims == [numDims]int8{0, 0, -1} && !u.mag
}

// IsEnergy reports a photon-energy-like unit.
func (u Unit) IsEnergy() bool {
	return u.dims == [numDims]int8{1, 2, -2} && !u.mag
}

// IsFluxPerWavelength reports a flux density per unit wavelength
// (e.g. erg/(s cm2 AA)).
func (u Unit) IsFluxPerWavelength() bool {
	return u.dims == [numDims]int8{1, -1, -3} && !u.mag
}

// IsFluxPerFrequency reports a flux density per unit frequency
// (e.g. Jy).
func (u Unit) IsFluxPerFrequency() bool {
	return u.dims == [numDims]int8{1, 0, -2} && !u.mag
}

func (u Unit) String() string {
	if u.mag {
		return "mag(AB)"
	}
	if u.IsDimensionless() {
		if u.scale == 1 {
			return ""
		}
		return fmt.Sprintf("%g", u.scale)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%g", u.scale)
	syms := [numDims]string{"kg", "m", "s"}
	for i, d := range u.dims {
		if d != 0 {
			fmt.Fprintf(&b, " %s%d", syms[i], d)
		}
	}
	return b.String()
}
