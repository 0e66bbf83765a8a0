package specio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/WarwickAstro/spectra/logging"
	"github.com/WarwickAstro/spectra/photometry"
	"github.com/WarwickAstro/spectra/spectrum"
)

// ReadFilterCurve loads a two-column (wavelength, transmission)
// profile file as a filter curve with the given medium tag.
func ReadFilterCurve(path string, medium spectrum.Medium) (photometry.FilterCurve, error) {
	f, err := os.Open(path)
	if err != nil {
		return photometry.FilterCurve{}, fmt.Errorf("specio: %w", err)
	}
	defer f.Close()

	var wave, trans []float64
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return photometry.FilterCurve{}, fmt.Errorf("specio: %s:%d: expected 2 columns, got %d",
				path, line, len(fields))
		}
		w, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return photometry.FilterCurve{}, fmt.Errorf("specio: %s:%d: %w", path, line, err)
		}
		t, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return photometry.FilterCurve{}, fmt.Errorf("specio: %s:%d: %w", path, line, err)
		}
		wave = append(wave, w)
		trans = append(trans, t)
	}
	if err := sc.Err(); err != nil {
		return photometry.FilterCurve{}, fmt.Errorf("specio: reading %s: %w", path, err)
	}
	return photometry.FilterCurve{Wave: wave, Trans: trans, Medium: medium}, nil
}

// LoadCatalogue builds an in-memory filter catalogue from the
// profile files found under dir, covering every supported filter
// identifier whose file is present. Filter profile files are
// conventionally tabulated in air wavelengths.
func LoadCatalogue(dir string, medium spectrum.Medium) (photometry.MapCatalogue, error) {
	cat := make(photometry.MapCatalogue)
	for _, id := range photometry.FilterIDs() {
		file, err := photometry.FilterFile(id)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, file)
		if _, err := os.Stat(path); err != nil {
			logging.GetGlobalLogger().Debug("filter profile not present, skipping",
				logging.Fields{"filter": id, "path": path})
			continue
		}
		curve, err := ReadFilterCurve(path, medium)
		if err != nil {
			return nil, err
		}
		cat[id] = curve
	}
	return cat, nil
}
