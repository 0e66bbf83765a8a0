package spectrum

import (
	"fmt"
	"math"

	"github.com/WarwickAstro/spectra/unit"
)

// The arithmetic engine. Every operator funnels through one rule
// table so the error-propagation formulae live in a single place.
// Scalar and array operands carry no uncertainty; combining two
// spectra assumes their errors are statistically independent.

type opKind int

const (
	opAdd opKind = iota
	opSub
	opMul
	opDiv
)

type operandKind int

const (
	operandScalar operandKind = iota
	operandArray
	operandSpectrum
)

type operand struct {
	kind operandKind
	k    float64
	arr  []float64
	sp   *Spectrum
}

// Operand is the union of the types a spectrum can be combined with:
// Scalar, Array, or another *Spectrum.
type Operand interface {
	toOperand() operand
}

// Scalar is a plain numeric operand.
type Scalar float64

func (v Scalar) toOperand() operand { return operand{kind: operandScalar, k: float64(v)} }

// Array is a per-pixel numeric operand; it must match the spectrum
// length.
type Array []float64

func (a Array) toOperand() operand { return operand{kind: operandArray, arr: a} }

func (s *Spectrum) toOperand() operand { return operand{kind: operandSpectrum, sp: s} }

type opRule struct {
	name string

	// operand without uncertainty (scalar or array element k)
	scalarY func(y, k float64) float64
	scalarE func(y, e, k float64) float64

	// spectrum operand
	pairY func(y1, y2 float64) float64
	pairE func(y1, e1, y2, e2 float64) float64

	// flux-unit bookkeeping for the spectrum-spectrum case
	pairUnit func(a, b unit.Unit) (unit.Unit, error)
}

func sameUnit(a, b unit.Unit) (unit.Unit, error) {
	if !a.Equal(b) {
		return unit.Unit{}, fmt.Errorf("%w: %v vs %v", ErrUnitMismatch, a, b)
	}
	return a, nil
}

func mulUnit(a, b unit.Unit) (unit.Unit, error) { return a.Mul(b), nil }
func divUnit(a, b unit.Unit) (unit.Unit, error) { return a.Div(b), nil }

var opRules = map[opKind]opRule{
	opAdd: {
		name:    "add",
		scalarY: func(y, k float64) float64 { return y + k },
		scalarE: func(y, e, k float64) float64 { return e },
		pairY:   func(y1, y2 float64) float64 { return y1 + y2 },
		pairE: func(y1, e1, y2, e2 float64) float64 {
			return math.Hypot(e1, e2)
		},
		pairUnit: sameUnit,
	},
	opSub: {
		name:    "sub",
		scalarY: func(y, k float64) float64 { return y - k },
		scalarE: func(y, e, k float64) float64 { return e },
		pairY:   func(y1, y2 float64) float64 { return y1 - y2 },
		pairE: func(y1, e1, y2, e2 float64) float64 {
			return math.Hypot(e1, e2)
		},
		pairUnit: sameUnit,
	},
	opMul: {
		name:    "mul",
		scalarY: func(y, k float64) float64 { return y * k },
		scalarE: func(y, e, k float64) float64 { return math.Abs(e * k) },
		pairY:   func(y1, y2 float64) float64 { return y1 * y2 },
		pairE: func(y1, e1, y2, e2 float64) float64 {
			return math.Abs(y1*y2) * math.Hypot(e1/y1, e2/y2)
		},
		pairUnit: mulUnit,
	},
	opDiv: {
		name:    "div",
		scalarY: func(y, k float64) float64 { return y / k },
		scalarE: func(y, e, k float64) float64 { return math.Abs(e / k) },
		pairY:   func(y1, y2 float64) float64 { return y1 / y2 },
		pairE: func(y1, e1, y2, e2 float64) float64 {
			return math.Abs(y1/y2) * math.Hypot(e1/y1, e2/y2)
		},
		pairUnit: divUnit,
	},
}

// binary applies one table rule to the receiver and an operand.
func (s *Spectrum) binary(op opKind, v Operand) (*Spectrum, error) {
	rule := opRules[op]
	o := v.toOperand()

	n := s.Len()
	y2 := make([]float64, n)
	e2 := make([]float64, n)

	switch o.kind {
	case operandScalar:
		for i := 0; i < n; i++ {
			y2[i] = rule.scalarY(s.Y[i], o.k)
			e2[i] = rule.scalarE(s.Y[i], s.E[i], o.k)
		}
		return s.derived(append([]float64(nil), s.X...), y2, e2), nil

	case operandArray:
		if len(o.arr) != n {
			return nil, fmt.Errorf("%w: %s operand has %d elements, spectrum has %d pixels",
				ErrShape, rule.name, len(o.arr), n)
		}
		for i := 0; i < n; i++ {
			y2[i] = rule.scalarY(s.Y[i], o.arr[i])
			e2[i] = rule.scalarE(s.Y[i], s.E[i], o.arr[i])
		}
		return s.derived(append([]float64(nil), s.X...), y2, e2), nil

	case operandSpectrum:
		t := o.sp
		if t.Len() != n {
			return nil, fmt.Errorf("%w: %s of %d and %d pixels", ErrShape, rule.name, n, t.Len())
		}
		if !s.GridsClose(t) {
			return nil, fmt.Errorf("%w: %s of %q and %q", ErrGridMismatch, rule.name, s.Name, t.Name)
		}
		if !s.XUnit.Equal(t.XUnit) {
			return nil, fmt.Errorf("%w: x units %v vs %v", ErrUnitMismatch, s.XUnit, t.XUnit)
		}
		if s.Wave != MediumUnknown && t.Wave != MediumUnknown && s.Wave != t.Wave {
			return nil, fmt.Errorf("%w: %v vs %v", ErrMediumMismatch, s.Wave, t.Wave)
		}
		yu, err := rule.pairUnit(s.YUnit, t.YUnit)
		if err != nil {
			return nil, err
		}
		// averaging the two grids reconciles floating round-trip
		// differences without discarding either axis
		x2 := make([]float64, n)
		for i := 0; i < n; i++ {
			x2[i] = 0.5 * (s.X[i] + t.X[i])
			y2[i] = rule.pairY(s.Y[i], t.Y[i])
			e2[i] = rule.pairE(s.Y[i], s.E[i], t.Y[i], t.E[i])
		}
		out := s.derived(x2, y2, e2)
		out.YUnit = yu
		return out, nil
	}
	return nil, fmt.Errorf("spectrum: invalid %s operand", rule.name)
}

// Add returns self + other.
func (s *Spectrum) Add(v Operand) (*Spectrum, error) { return s.binary(opAdd, v) }

// Sub returns self - other.
func (s *Spectrum) Sub(v Operand) (*Spectrum, error) { return s.binary(opSub, v) }

// Mul returns self * other. Multiplying two spectra multiplies their
// flux units; scalar and array operands preserve the unit.
func (s *Spectrum) Mul(v Operand) (*Spectrum, error) { return s.binary(opMul, v) }

// Div returns self / other.
func (s *Spectrum) Div(v Operand) (*Spectrum, error) { return s.binary(opDiv, v) }

// RSub returns other - self, the reflected subtraction -(self - other).
func (s *Spectrum) RSub(v Operand) (*Spectrum, error) {
	out, err := s.Sub(v)
	if err != nil {
		return nil, err
	}
	return out.Neg(), nil
}

// RDiv returns other / self. For a spectrum operand this is simply
// the mirrored division; for a scalar or array operand k the flux is
// k/y with error |k|*e/y^2 and the flux unit inverts.
func (s *Spectrum) RDiv(v Operand) (*Spectrum, error) {
	o := v.toOperand()
	if o.kind == operandSpectrum {
		return o.sp.Div(s)
	}
	n := s.Len()
	if o.kind == operandArray && len(o.arr) != n {
		return nil, fmt.Errorf("%w: rdiv operand has %d elements, spectrum has %d pixels",
			ErrShape, len(o.arr), n)
	}
	at := func(i int) float64 {
		if o.kind == operandArray {
			return o.arr[i]
		}
		return o.k
	}
	y2 := make([]float64, n)
	e2 := make([]float64, n)
	for i := 0; i < n; i++ {
		k := at(i)
		y2[i] = k / s.Y[i]
		e2[i] = math.Abs(k) * s.E[i] / (s.Y[i] * s.Y[i])
	}
	out := s.derived(append([]float64(nil), s.X...), y2, e2)
	out.YUnit = s.YUnit.Invert()
	return out, nil
}

// Pow returns self raised to the scalar power p, with error
// |p * y^p * e/y| and the flux unit raised to p.
func (s *Spectrum) Pow(p float64) (*Spectrum, error) {
	yu, err := s.YUnit.Pow(p)
	if err != nil {
		return nil, err
	}
	n := s.Len()
	y2 := make([]float64, n)
	e2 := make([]float64, n)
	for i := 0; i < n; i++ {
		y2[i] = math.Pow(s.Y[i], p)
		e2[i] = math.Abs(p * y2[i] * s.E[i] / s.Y[i])
	}
	out := s.derived(append([]float64(nil), s.X...), y2, e2)
	out.YUnit = yu
	return out, nil
}

// Neg returns -self; errors are unchanged.
func (s *Spectrum) Neg() *Spectrum {
	y2 := make([]float64, s.Len())
	for i, y := range s.Y {
		y2[i] = -y
	}
	return s.derived(
		append([]float64(nil), s.X...),
		y2,
		append([]float64(nil), s.E...),
	)
}

// Abs returns |self|; errors are unchanged.
func (s *Spectrum) Abs() *Spectrum {
	y2 := make([]float64, s.Len())
	for i, y := range s.Y {
		y2[i] = math.Abs(y)
	}
	return s.derived(
		append([]float64(nil), s.X...),
		y2,
		append([]float64(nil), s.E...),
	)
}
