package echemplot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	TabSeparated       rune = '\t'
	SemicolonSeparated rune = ';'
)

var ErrMissingColumn = errors.New("echemplot: missing column")

// Table is a column-oriented view of one instrument export. Every column has
// Len() values; cells that could not be parsed hold NaN.
type Table struct {
	header []string
	cols   map[string][]float64
	rows   int
}

func newTable(header []string) *Table {
	var t = &Table{
		header: make([]string, 0, len(header)),
		cols:   make(map[string][]float64, len(header)),
	}
	for _, h := range header {
		if _, dup := t.cols[h]; dup {
			continue
		}
		t.header = append(t.header, h)
		t.cols[h] = nil
	}
	return t
}

// ReadTable parses a delimited export whose first row names the columns.
func ReadTable(r io.Reader, comma rune) (*Table, error) {
	var reader = csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("echemplot: empty table")
	}
	if err != nil {
		return nil, fmt.Errorf("echemplot: read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var t = newTable(header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("echemplot: read row %d: %w", t.rows+2, err)
		}
		if blank(record) {
			continue
		}
		for i, name := range header {
			var v = math.NaN()
			if i < len(record) {
				v = parseCell(record[i])
			}
			// duplicate headers keep the first occurrence only
			if len(t.cols[name]) == t.rows {
				t.cols[name] = append(t.cols[name], v)
			}
		}
		t.rows++
	}
	return t, nil
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseCell(cell string) float64 {
	var v, err = strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Len returns the number of data rows.
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in file order.
func (t *Table) Columns() []string {
	var out = make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// Has reports whether every named column is present.
func (t *Table) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := t.cols[n]; !ok {
			return false
		}
	}
	return true
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	var col, ok = t.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrMissingColumn, name)
	}
	var out = make([]float64, len(col))
	copy(out, col)
	return out, nil
}

// Set adds or replaces a column. values must have Len() entries.
func (t *Table) Set(name string, values []float64) error {
	if len(values) != t.rows {
		return fmt.Errorf("echemplot: column %q has %d values, table has %d rows", name, len(values), t.rows)
	}
	if _, ok := t.cols[name]; !ok {
		t.header = append(t.header, name)
	}
	t.cols[name] = values
	return nil
}

// MergeOn outer-joins secondary onto primary by the key column. Columns that
// exist in both tables keep the primary values.
func MergeOn(primary, secondary *Table, key string) (*Table, error) {
	pk, err := primary.Column(key)
	if err != nil {
		return nil, fmt.Errorf("primary: %w", err)
	}
	sk, err := secondary.Column(key)
	if err != nil {
		return nil, fmt.Errorf("secondary: %w", err)
	}

	var header = primary.Columns()
	var extra []string
	for _, name := range secondary.header {
		if !primary.Has(name) {
			header = append(header, name)
			extra = append(extra, name)
		}
	}
	var out = newTable(header)

	var secondaryRows = make(map[float64][]int, len(sk))
	for i, k := range sk {
		secondaryRows[k] = append(secondaryRows[k], i)
	}
	var matched = make([]bool, len(sk))

	var appendRow = func(p, s int, k float64) {
		for _, name := range primary.header {
			var v = math.NaN()
			switch {
			case name == key:
				v = k
			case p >= 0:
				v = primary.cols[name][p]
			}
			out.cols[name] = append(out.cols[name], v)
		}
		for _, name := range extra {
			var v = math.NaN()
			if s >= 0 {
				v = secondary.cols[name][s]
			}
			out.cols[name] = append(out.cols[name], v)
		}
		out.rows++
	}

	for p, k := range pk {
		var idx = secondaryRows[k]
		if len(idx) == 0 {
			appendRow(p, -1, k)
			continue
		}
		for _, s := range idx {
			matched[s] = true
			appendRow(p, s, k)
		}
	}
	for s, k := range sk {
		if !matched[s] {
			appendRow(-1, s, k)
		}
	}
	return out, nil
}
