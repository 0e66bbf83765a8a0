package specio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/WarwickAstro/spectra/spectrum"
)

// Format selects an output serialisation.
type Format int

const (
	// FormatText writes fixed-width whitespace-delimited rows.
	FormatText Format = iota

	// FormatBinary writes a raw little-endian float64 array dump.
	FormatBinary
)

// ErrUnsupportedFormat reports a Format outside the supported set.
// It is returned to the caller rather than acted on; whether to
// continue after a failed write is the caller's decision.
var ErrUnsupportedFormat = errors.New("specio: unsupported output format")

// Write serialises the spectrum to path in the given format. On any
// failure the target file is removed, never left partially written.
func Write(s *spectrum.Spectrum, path string, format Format, includeErrors bool) error {
	if format != FormatText && format != FormatBinary {
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("specio: %w", err)
	}
	if format == FormatText {
		err = WriteText(s, f, includeErrors)
	} else {
		err = WriteBinary(s, f, includeErrors)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("specio: writing %s: %w", path, err)
	}
	return nil
}

// WriteText writes one "%9.3f %12.5E %11.5E" row per pixel, dropping
// the error column when includeErrors is false.
func WriteText(s *spectrum.Spectrum, w io.Writer, includeErrors bool) error {
	bw := bufio.NewWriter(w)
	for px := range s.Pixels() {
		var err error
		if includeErrors {
			_, err = fmt.Fprintf(bw, "%9.3f %12.5E %11.5E\n", px.X, px.Y, px.E)
		} else {
			_, err = fmt.Fprintf(bw, "%9.3f %12.5E\n", px.X, px.Y)
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// binaryMagic marks the raw dump layout: magic, pixel count, column
// count, then the x, y (and e) arrays as little-endian float64.
var binaryMagic = [8]byte{'S', 'P', 'E', 'C', 'B', 'I', 'N', '1'}

// WriteBinary writes the raw binary array dump.
func WriteBinary(s *spectrum.Spectrum, w io.Writer, includeErrors bool) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(binaryMagic[:]); err != nil {
		return err
	}
	cols := uint64(2)
	if includeErrors {
		cols = 3
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(s.Len())); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, cols); err != nil {
		return err
	}
	arrays := [][]float64{s.X, s.Y}
	if includeErrors {
		arrays = append(arrays, s.E)
	}
	for _, a := range arrays {
		if err := binary.Write(bw, binary.LittleEndian, a); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadBinary reads a raw binary dump produced by WriteBinary. A
// two-column dump yields an all-zero error array.
func ReadBinary(r io.Reader, name string, opts *ReadOptions) (*spectrum.Spectrum, error) {
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("specio: %w", err)
	}
	if magic != binaryMagic {
		return nil, fmt.Errorf("specio: not a spectrum binary dump")
	}
	var n, cols uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("specio: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &cols); err != nil {
		return nil, fmt.Errorf("specio: %w", err)
	}
	if cols != 2 && cols != 3 {
		return nil, fmt.Errorf("specio: binary dump has %d columns, expected 2 or 3", cols)
	}
	arrays := make([][]float64, cols)
	for i := range arrays {
		arrays[i] = make([]float64, n)
		if err := binary.Read(r, binary.LittleEndian, arrays[i]); err != nil {
			return nil, fmt.Errorf("specio: %w", err)
		}
	}
	e := make([]float64, n)
	if cols == 3 {
		e = arrays[2]
	}
	return newTagged(arrays[0], arrays[1], e, name, opts.withDefaults(spectrum.MediumAir))
}

// ReadBinaryFile reads a raw binary dump from a file, naming the
// spectrum after the file.
func ReadBinaryFile(path string, opts *ReadOptions) (*spectrum.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("specio: %w", err)
	}
	defer f.Close()
	return ReadBinary(f, baseName(path), opts)
}
