// Package ingest decodes tabulated spectral power distributions.
//
// A table is delimited text with a header row: one wavelength column (nm)
// and one or more intensity columns, e.g.
//
//	wavelength,LED A,LED B
//	380,0.012,0.010
//	381,0.013,0.011
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/RyanBlaney/sonido-ssi/colorimetry/spectrum"
	"github.com/RyanBlaney/sonido-ssi/logging"
)

// DefaultIntensityColumn is chosen when a table has several intensity
// columns and the caller names none
const DefaultIntensityColumn = "intensity"

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	Delimiter        rune   `json:"delimiter"`
	Comment          rune   `json:"comment"`           // lines starting with it are skipped, 0 disables
	WavelengthColumn string `json:"wavelength_column"` // matched case-insensitively
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		Delimiter:        ',',
		Comment:          '#',
		WavelengthColumn: "wavelength",
	}
}

// Table is a decoded spectral table. Rows keep file order.
type Table struct {
	wavelengths []float64
	columns     []string
	values      [][]float64 // values[column][row]
}

// Decoder reads spectral tables
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a new table decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "table_decoder",
		}),
	}
}

// ReadTable decodes a comma separated table with the default configuration
func ReadTable(r io.Reader) (*Table, error) {
	return NewDecoder(nil).DecodeReader(r)
}

// DecodeFile decodes the table stored in filename
func (d *Decoder) DecodeFile(filename string) (*Table, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open spectral table: %w", err)
	}
	defer f.Close()

	table, err := d.DecodeReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	d.logger.Debug("Spectral table decoded", logging.Fields{
		"filename": filename,
		"rows":     table.Len(),
		"columns":  table.columns,
	})
	return table, nil
}

// DecodeBytes decodes a table held in memory
func (d *Decoder) DecodeBytes(data []byte) (*Table, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty spectral table", spectrum.ErrMalformedInput)
	}
	return d.DecodeReader(bytes.NewReader(data))
}

// DecodeReader decodes a table from r
func (d *Decoder) DecodeReader(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = d.config.Delimiter
	cr.Comment = d.config.Comment
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: spectral table has no header row", spectrum.ErrMalformedInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", spectrum.ErrMalformedInput, err)
	}

	wlIndex := -1
	var columns []string
	var columnIndex []int
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if strings.EqualFold(name, d.config.WavelengthColumn) && wlIndex < 0 {
			wlIndex = i
			continue
		}
		columns = append(columns, name)
		columnIndex = append(columnIndex, i)
	}
	if wlIndex < 0 {
		return nil, fmt.Errorf("%w: no %q column in header %v", spectrum.ErrMalformedInput, d.config.WavelengthColumn, header)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no intensity columns in header", spectrum.ErrMalformedInput)
	}

	table := &Table{
		columns: columns,
		values:  make([][]float64, len(columns)),
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", spectrum.ErrMalformedInput, err)
		}
		line, _ := cr.FieldPos(0)

		wl, err := parseCell(record[wlIndex])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d, column %q: %v",
				spectrum.ErrMalformedInput, line, d.config.WavelengthColumn, err)
		}
		table.wavelengths = append(table.wavelengths, wl)

		for c, idx := range columnIndex {
			v, err := parseCell(record[idx])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d, column %q: %v",
					spectrum.ErrMalformedInput, line, columns[c], err)
			}
			table.values[c] = append(table.values[c], v)
		}
	}

	if len(table.wavelengths) == 0 {
		return nil, fmt.Errorf("%w: spectral table has no data rows", spectrum.ErrMalformedInput)
	}
	return table, nil
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, errors.New("empty cell")
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", cell)
	}
	return v, nil
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.wavelengths)
}

// Columns returns the intensity column names in file order
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Spectrum builds a validated spectrum from the named intensity column
// (case-insensitive). Rows must already be in increasing wavelength order.
func (t *Table) Spectrum(column string) (*spectrum.Spectrum, error) {
	for i, name := range t.columns {
		if strings.EqualFold(name, column) {
			s, err := spectrum.New(t.wavelengths, t.values[i])
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", name, err)
			}
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: no column %q (have %s)",
		spectrum.ErrMalformedInput, column, strings.Join(t.columns, ", "))
}

// DefaultColumn returns the sole intensity column, or the one named
// "intensity" when there are several
func (t *Table) DefaultColumn() (string, error) {
	if len(t.columns) == 1 {
		return t.columns[0], nil
	}
	for _, name := range t.columns {
		if strings.EqualFold(name, DefaultIntensityColumn) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: table has %d intensity columns, choose one of %s",
		spectrum.ErrMalformedInput, len(t.columns), strings.Join(t.columns, ", "))
}
