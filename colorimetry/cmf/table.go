// Package cmf provides the CIE 1931 2° standard observer colour matching
// functions as an immutable lookup table.
package cmf

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/RyanBlaney/sonido-ssi/algorithms/common"
	"github.com/RyanBlaney/sonido-ssi/colorimetry/spectrum"
)

//go:embed data/ciexyz31_5.txt
var cie1931Dataset []byte

// Entry holds the colour matching function values at one wavelength
type Entry struct {
	Wavelength float64 `json:"wavelength"`
	XBar       float64 `json:"x_bar"`
	YBar       float64 `json:"y_bar"`
	ZBar       float64 `json:"z_bar"`
}

// Table is an immutable wavelength -> (x̄, ȳ, z̄) mapping sorted by
// wavelength. It is safe for concurrent use.
type Table struct {
	wavelengths []float64
	entries     []Entry
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return Load(bytes.NewReader(cie1931Dataset))
})

// Default returns the table parsed from the embedded CIE 1931 dataset. The
// dataset is parsed once per process.
func Default() (*Table, error) {
	return defaultTable()
}

// LoadFile parses a colour matching function dataset from path
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: colour matching functions not found at %s", spectrum.ErrMissingReferenceData, path)
		}
		return nil, fmt.Errorf("failed to open colour matching functions: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load parses whitespace separated "wavelength x̄ ȳ z̄" rows. Lines that do
// not split into exactly four numeric fields (headers, notes, blank lines)
// are skipped.
func Load(r io.Reader) (*Table, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		entry, ok := parseLine(scanner.Text())
		if ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read colour matching functions: %w", err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no colour matching function rows found", spectrum.ErrMissingReferenceData)
	}

	return newTable(entries)
}

// New builds a table from explicit entries
func New(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty colour matching function table", spectrum.ErrMissingReferenceData)
	}
	return newTable(slices.Clone(entries))
}

func newTable(entries []Entry) (*Table, error) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		switch {
		case a.Wavelength < b.Wavelength:
			return -1
		case a.Wavelength > b.Wavelength:
			return 1
		default:
			return 0
		}
	})

	wavelengths := make([]float64, len(entries))
	for i, e := range entries {
		wavelengths[i] = e.Wavelength
	}
	if !common.IsStrictlyIncreasing(wavelengths) {
		return nil, fmt.Errorf("%w: duplicate wavelengths in colour matching functions", spectrum.ErrMalformedInput)
	}

	return &Table{
		wavelengths: wavelengths,
		entries:     entries,
	}, nil
}

func parseLine(line string) (Entry, bool) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return Entry{}, false
	}

	var values [4]float64
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Entry{}, false
		}
		values[i] = v
	}

	return Entry{
		Wavelength: values[0],
		XBar:       values[1],
		YBar:       values[2],
		ZBar:       values[3],
	}, true
}

// Len returns the number of tabulated wavelengths
func (t *Table) Len() int {
	return len(t.entries)
}

// Wavelengths returns a copy of the tabulated wavelengths in ascending order
func (t *Table) Wavelengths() []float64 {
	return slices.Clone(t.wavelengths)
}

// Entries returns a copy of all rows in ascending wavelength order
func (t *Table) Entries() []Entry {
	return slices.Clone(t.entries)
}

// At returns the entry tabulated exactly at wl
func (t *Table) At(wl float64) (Entry, bool) {
	i := common.IndexOf(t.wavelengths, wl)
	if i < 0 {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Columns returns x̄, ȳ and z̄ as separate slices aligned with Wavelengths
func (t *Table) Columns() (xBar, yBar, zBar []float64) {
	xBar = make([]float64, len(t.entries))
	yBar = make([]float64, len(t.entries))
	zBar = make([]float64, len(t.entries))
	for i, e := range t.entries {
		xBar[i], yBar[i], zBar[i] = e.XBar, e.YBar, e.ZBar
	}
	return xBar, yBar, zBar
}
