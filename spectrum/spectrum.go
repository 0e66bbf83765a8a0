// Package spectrum provides the Spectrum value type: a triple of
// equal-length wavelength, flux and flux-error arrays tagged with a
// name, a wavelength medium (air or vacuum) and x/y units, together
// with unit-aware arithmetic under standard independent-error
// propagation, slicing and iteration, and the in-place mutators for
// masking, normalisation, medium conversion, redshifting, unit
// conversion and reddening.
//
// Transformations return new Spectrum values; the small set of
// documented in-place mutators either fully succeed or leave the
// receiver untouched when they report a precondition error.
package spectrum

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"sort"
	"strings"

	"github.com/WarwickAstro/spectra/unit"
)

// Precondition and domain error sentinels.
var (
	ErrShape          = errors.New("spectrum: length mismatch")
	ErrNegativeError  = errors.New("spectrum: negative flux errors")
	ErrGridMismatch   = errors.New("spectrum: wavelength grids differ")
	ErrUnitMismatch   = errors.New("spectrum: unit mismatch")
	ErrMediumMismatch = errors.New("spectrum: wavelength medium mismatch")
	ErrMediumUnknown  = errors.New("spectrum: wavelength medium undefined")
)

// Medium says whether wavelengths are measured in air or vacuum.
type Medium int

const (
	MediumUnknown Medium = iota
	MediumAir
	MediumVac
)

func (m Medium) String() string {
	switch m {
	case MediumAir:
		return "air"
	case MediumVac:
		return "vac"
	default:
		return "unknown"
	}
}

// ParseMedium maps "air" or "vac" to its Medium.
func ParseMedium(name string) (Medium, error) {
	switch strings.ToLower(name) {
	case "air":
		return MediumAir, nil
	case "vac", "vacuum":
		return MediumVac, nil
	}
	return MediumUnknown, fmt.Errorf("spectrum: unknown wavelength medium %q", name)
}

// Spectrum holds a one-dimensional spectrum. The three arrays always
// have equal length and E is non-negative everywhere. Head is an
// opaque pass-through header, carried by reference into derived
// spectra; clone it if independent mutation is needed.
type Spectrum struct {
	X, Y, E []float64

	Name  string
	Wave  Medium
	XUnit unit.Unit
	YUnit unit.Unit
	Head  map[string]any
}

// Option configures a Spectrum under construction.
type Option func(*Spectrum)

// WithMedium sets the wavelength medium.
func WithMedium(m Medium) Option { return func(s *Spectrum) { s.Wave = m } }

// WithXUnit sets the wavelength unit.
func WithXUnit(u unit.Unit) Option { return func(s *Spectrum) { s.XUnit = u } }

// WithYUnit sets the flux unit.
func WithYUnit(u unit.Unit) Option { return func(s *Spectrum) { s.YUnit = u } }

// WithHead attaches a header mapping.
func WithHead(head map[string]any) Option { return func(s *Spectrum) { s.Head = head } }

// Default units match the most common data products: air wavelengths
// in Angstroms, fluxes in erg/(s cm2 AA).
var (
	defaultXUnit = unit.MustParse("AA")
	defaultYUnit = unit.MustParse("erg/(s cm2 AA)")
)

// New constructs a Spectrum from wavelength, flux and error arrays.
// The arrays are copied. All three must share a length and every
// error must be >= 0.
func New(x, y, e []float64, name string, opts ...Option) (*Spectrum, error) {
	if len(x) != len(y) || len(x) != len(e) {
		return nil, fmt.Errorf("%w: x=%d y=%d e=%d", ErrShape, len(x), len(y), len(e))
	}
	for i, v := range e {
		if v < 0 || math.IsNaN(v) {
			return nil, fmt.Errorf("%w: e[%d]=%g", ErrNegativeError, i, v)
		}
	}
	s := &Spectrum{
		X:     append([]float64(nil), x...),
		Y:     append([]float64(nil), y...),
		E:     append([]float64(nil), e...),
		Name:  name,
		Wave:  MediumAir,
		XUnit: defaultXUnit,
		YUnit: defaultYUnit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewModel constructs a noiseless spectrum (all-zero error array),
// by convention in vacuum wavelengths.
func NewModel(x, y []float64, name string, opts ...Option) (*Spectrum, error) {
	s, err := New(x, y, make([]float64, len(x)), name, WithMedium(MediumVac))
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// derived builds a result spectrum sharing the receiver's tags
// without re-validating; internal callers own the invariants.
func (s *Spectrum) derived(x, y, e []float64) *Spectrum {
	return &Spectrum{
		X: x, Y: y, E: e,
		Name: s.Name, Wave: s.Wave,
		XUnit: s.XUnit, YUnit: s.YUnit,
		Head: s.Head,
	}
}

// Len returns the number of pixels.
func (s *Spectrum) Len() int { return len(s.X) }

func (s *Spectrum) String() string {
	return fmt.Sprintf("Spectrum with %d pixels\nName: %s", s.Len(), s.Name)
}

// Pixel is a single (wavelength, flux, error) sample.
type Pixel struct {
	X, Y, E float64
}

// At returns the pixel at index i.
func (s *Spectrum) At(i int) Pixel {
	return Pixel{s.X[i], s.Y[i], s.E[i]}
}

// Pixels iterates the spectrum in wavelength-array order. The
// sequence is lazy and restartable.
func (s *Spectrum) Pixels() iter.Seq[Pixel] {
	return func(yield func(Pixel) bool) {
		for i := range s.X {
			if !yield(Pixel{s.X[i], s.Y[i], s.E[i]}) {
				return
			}
		}
	}
}

// Slice returns the half-open pixel range [lo, hi) as a new Spectrum
// sharing the receiver's name, units and medium.
func (s *Spectrum) Slice(lo, hi int) (*Spectrum, error) {
	if lo < 0 || hi > s.Len() || lo > hi {
		return nil, fmt.Errorf("spectrum: slice [%d:%d) out of range for %d pixels", lo, hi, s.Len())
	}
	return s.derived(
		append([]float64(nil), s.X[lo:hi]...),
		append([]float64(nil), s.Y[lo:hi]...),
		append([]float64(nil), s.E[lo:hi]...),
	), nil
}

// Where returns the pixels selected by the boolean mask as a new
// Spectrum.
func (s *Spectrum) Where(mask []bool) (*Spectrum, error) {
	if len(mask) != s.Len() {
		return nil, fmt.Errorf("%w: mask=%d pixels=%d", ErrShape, len(mask), s.Len())
	}
	var x, y, e []float64
	for i, keep := range mask {
		if keep {
			x = append(x, s.X[i])
			y = append(y, s.Y[i])
			e = append(e, s.E[i])
		}
	}
	return s.derived(x, y, e), nil
}

// Copy returns a deep copy of the spectrum (the header map is still
// shared by reference).
func (s *Spectrum) Copy() *Spectrum {
	return s.derived(
		append([]float64(nil), s.X...),
		append([]float64(nil), s.Y...),
		append([]float64(nil), s.E...),
	)
}

// Tolerances of the numpy-style isclose comparison used for grid
// equality.
const (
	gridRtol = 1e-5
	gridAtol = 1e-8
)

func isClose(a, b float64) bool {
	return math.Abs(a-b) <= gridAtol+gridRtol*math.Abs(b)
}

// GridsClose reports whether the two wavelength arrays agree
// elementwise within tolerance. Combination of two spectra uses this
// rather than bit-exact equality.
func (s *Spectrum) GridsClose(o *Spectrum) bool {
	if s.Len() != o.Len() {
		return false
	}
	for i := range s.X {
		if !isClose(s.X[i], o.X[i]) {
			return false
		}
	}
	return true
}

// Sect returns the boolean mask of wavelengths strictly between x0
// and x1.
func (s *Spectrum) Sect(x0, x1 float64) []bool {
	mask := make([]bool, s.Len())
	for i, x := range s.X {
		mask[i] = x > x0 && x < x1
	}
	return mask
}

// Clip returns the part of the spectrum with wavelengths strictly
// between x0 and x1.
func (s *Spectrum) Clip(x0, x1 float64) *Spectrum {
	out, _ := s.Where(s.Sect(x0, x1))
	return out
}

// Split cuts the spectrum at the given boundary wavelengths,
// returning len(bounds)+1 chunks in wavelength order.
func (s *Spectrum) Split(bounds ...float64) []*Spectrum {
	edges := make([]float64, 0, len(bounds)+2)
	edges = append(edges, math.Inf(-1))
	edges = append(edges, bounds...)
	sort.Float64s(edges[1:])
	edges = append(edges, math.Inf(1))

	out := make([]*Spectrum, 0, len(edges)-1)
	for i := 0; i+1 < len(edges); i++ {
		out = append(out, s.Clip(edges[i], edges[i+1]))
	}
	return out
}

// ClosestWave returns the index of the pixel closest in wavelength
// to x0.
func (s *Spectrum) ClosestWave(x0 float64) int {
	best, bestd := 0, math.Inf(1)
	for i, x := range s.X {
		if d := math.Abs(x - x0); d < bestd {
			best, bestd = i, d
		}
	}
	return best
}

// Join concatenates another spectrum onto this one. Units and medium
// must match. With sortWave set the result is re-ordered by
// wavelength.
func (s *Spectrum) Join(o *Spectrum, sortWave bool) (*Spectrum, error) {
	return JoinSpectra(sortWave, s, o)
}

// JoinSpectra concatenates a collection of spectra into one. The
// name of the first spectrum is kept.
func JoinSpectra(sortWave bool, ss ...*Spectrum) (*Spectrum, error) {
	if len(ss) == 0 {
		return nil, fmt.Errorf("spectrum: nothing to join")
	}
	first := ss[0]
	var x, y, e []float64
	for _, s := range ss {
		if !s.XUnit.Equal(first.XUnit) || !s.YUnit.Equal(first.YUnit) {
			return nil, fmt.Errorf("%w: joining %q to %q", ErrUnitMismatch, s.Name, first.Name)
		}
		if s.Wave != first.Wave {
			return nil, fmt.Errorf("%w: joining %q to %q", ErrMediumMismatch, s.Name, first.Name)
		}
		x = append(x, s.X...)
		y = append(y, s.Y...)
		e = append(e, s.E...)
	}
	out := first.derived(x, y, e)
	if sortWave {
		idx := make([]int, len(x))
		for i := range idx {
			idx[i] = i
		}
		sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })
		sx := make([]float64, len(x))
		sy := make([]float64, len(x))
		se := make([]float64, len(x))
		for i, j := range idx {
			sx[i], sy[i], se[i] = x[j], y[j], e[j]
		}
		out.X, out.Y, out.E = sx, sy, se
	}
	return out, nil
}

// MeanSpectra returns the inverse-variance weighted mean of spectra
// sharing a wavelength grid. Every error must be positive.
func MeanSpectra(ss ...*Spectrum) (*Spectrum, error) {
	if len(ss) == 0 {
		return nil, fmt.Errorf("spectrum: nothing to average")
	}
	first := ss[0]
	n := first.Len()
	for _, s := range ss {
		if s.Len() != n {
			return nil, fmt.Errorf("%w: %d vs %d pixels", ErrShape, s.Len(), n)
		}
		if !s.GridsClose(first) {
			return nil, fmt.Errorf("%w: averaging %q", ErrGridMismatch, s.Name)
		}
		for i, e := range s.E {
			if e <= 0 {
				return nil, fmt.Errorf("spectrum: non-positive error at pixel %d of %q", i, s.Name)
			}
		}
	}

	x := make([]float64, n)
	y := make([]float64, n)
	e := make([]float64, n)
	for i := 0; i < n; i++ {
		var sx, sw, swy float64
		for _, s := range ss {
			w := 1 / (s.E[i] * s.E[i])
			sx += s.X[i]
			sw += w
			swy += w * s.Y[i]
		}
		x[i] = sx / float64(len(ss))
		y[i] = swy / sw
		e[i] = 1 / math.Sqrt(sw)
	}
	return first.derived(x, y, e), nil
}
