// Package specio holds the file collaborators around the spectrum
// core: text and raw-binary readers and writers, and the loader that
// builds a filter-curve catalogue from profile files. Any reader
// must supply equal-length wavelength, flux and error arrays plus
// medium and unit tags; readers of formats without an error column
// supply an all-zero error array.
package specio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/WarwickAstro/spectra/spectrum"
	"github.com/WarwickAstro/spectra/unit"
)

// ReadOptions tags the spectrum produced by the text readers.
type ReadOptions struct {
	Wave     spectrum.Medium
	XUnit    string
	YUnit    string
	SkipRows int
}

func (o *ReadOptions) withDefaults(wave spectrum.Medium) ReadOptions {
	out := ReadOptions{Wave: wave, XUnit: "AA", YUnit: "erg/(s cm2 AA)"}
	if o != nil {
		if o.Wave != spectrum.MediumUnknown {
			out.Wave = o.Wave
		}
		if o.XUnit != "" {
			out.XUnit = o.XUnit
		}
		if o.YUnit != "" {
			out.YUnit = o.YUnit
		}
		out.SkipRows = o.SkipRows
	}
	return out
}

// ReadText loads a whitespace-delimited text file whose first three
// columns are wavelength, flux and error. The spectrum name is the
// file base name without extension; default tags are air wavelengths
// in Angstroms.
func ReadText(path string, opts *ReadOptions) (*spectrum.Spectrum, error) {
	return readColumns(path, 3, opts.withDefaults(spectrum.MediumAir))
}

// ReadModelText loads a two-column (wavelength, flux) text file as a
// noiseless model spectrum with an all-zero error array, by default
// in vacuum wavelengths.
func ReadModelText(path string, opts *ReadOptions) (*spectrum.Spectrum, error) {
	return readColumns(path, 2, opts.withDefaults(spectrum.MediumVac))
}

func readColumns(path string, ncols int, o ReadOptions) (*spectrum.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("specio: %w", err)
	}
	defer f.Close()

	var x, y, e []float64
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		if line <= o.SkipRows {
			continue
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < ncols {
			return nil, fmt.Errorf("specio: %s:%d: expected %d columns, got %d",
				path, line, ncols, len(fields))
		}
		vals := make([]float64, ncols)
		for i := 0; i < ncols; i++ {
			vals[i], err = strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("specio: %s:%d: %w", path, line, err)
			}
		}
		x = append(x, vals[0])
		y = append(y, vals[1])
		if ncols >= 3 {
			e = append(e, vals[2])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("specio: reading %s: %w", path, err)
	}
	if ncols < 3 {
		e = make([]float64, len(x))
	}

	return newTagged(x, y, e, baseName(path), o)
}

func newTagged(x, y, e []float64, name string, o ReadOptions) (*spectrum.Spectrum, error) {
	xu, err := parseUnit(o.XUnit)
	if err != nil {
		return nil, err
	}
	yu, err := parseUnit(o.YUnit)
	if err != nil {
		return nil, err
	}
	return spectrum.New(x, y, e, name,
		spectrum.WithMedium(o.Wave),
		spectrum.WithXUnit(xu),
		spectrum.WithYUnit(yu),
	)
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func parseUnit(name string) (unit.Unit, error) {
	u, err := unit.Parse(name)
	if err != nil {
		return unit.Unit{}, fmt.Errorf("specio: %w", err)
	}
	return u, nil
}
