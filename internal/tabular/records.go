package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/alexiusacademia/golc/internal/combo"
	"github.com/alexiusacademia/golc/internal/schema"
)

// header maps trimmed column names to their index.
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}
	return h
}

func (h header) require(names ...string) error {
	for _, name := range names {
		if _, ok := h[name]; !ok {
			return &combo.SchemaError{Field: name}
		}
	}
	return nil
}

func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

// ReadRecords parses a load table for the given schema. The header must
// contain every key column, the Output Case column and all metric columns;
// other columns are ignored. Blank metric cells read as zero.
func ReadRecords(r io.Reader, sc schema.Schema) ([]combo.Record, error) {
	cr := newReader(r)
	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &combo.SchemaError{Field: schema.CaseColumn}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	h := newHeader(first)
	for _, kc := range sc.KeyColumns {
		if err := h.require(kc.Name); err != nil {
			return nil, err
		}
	}
	if err := h.require(schema.CaseColumn); err != nil {
		return nil, err
	}
	if err := h.require(sc.Metrics[:]...); err != nil {
		return nil, err
	}

	var records []combo.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read load table: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if isBlank(row) {
			continue
		}

		rec := combo.Record{Case: h.get(row, schema.CaseColumn)}
		for _, kc := range sc.KeyColumns {
			rec.Key = rec.Key.WithSlot(kc.Slot, h.get(row, kc.Name))
		}
		for i, m := range sc.Metrics {
			cell := h.get(row, m)
			if cell == "" {
				rec.Blank[i] = true
				continue
			}
			v, err := parseNumber(cell)
			if err != nil {
				return nil, combo.Invalidf("line %d: column %s: %v", line, m, err)
			}
			rec.Values[i] = v
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadRecords reads a load table from a CSV file.
func LoadRecords(path string, sc schema.Schema) ([]combo.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRecords(f, sc)
}

// ReadCoordinates parses a joint coordinate table keyed by Unique Name with
// X, Y and Z columns.
func ReadCoordinates(r io.Reader) (map[string]combo.Coordinate, error) {
	cr := newReader(r)
	first, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read coordinate header: %w", err)
	}

	idColumn := "Unique Name"
	h := newHeader(first)
	if err := h.require(idColumn, "X", "Y", "Z"); err != nil {
		return nil, err
	}

	coords := make(map[string]combo.Coordinate)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read coordinate table: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if isBlank(row) {
			continue
		}

		id := h.get(row, idColumn)
		if id == "" {
			return nil, &combo.SchemaError{Field: idColumn}
		}
		var xyz [3]float64
		for i, axis := range []string{"X", "Y", "Z"} {
			v, err := parseNumber(h.get(row, axis))
			if err != nil {
				return nil, combo.Invalidf("coordinates line %d: column %s: %v", line, axis, err)
			}
			xyz[i] = v
		}
		c := combo.Coordinate{X: xyz[0], Y: xyz[1], Z: xyz[2]}
		if prev, ok := coords[id]; ok && prev != c {
			return nil, combo.Invalidf("coordinates line %d: conflicting coordinates for %q", line, id)
		}
		coords[id] = c
	}
	return coords, nil
}

// LoadCoordinates reads a coordinate table from a CSV file.
func LoadCoordinates(path string) (map[string]combo.Coordinate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCoordinates(f)
}

// decimalPattern accepts plain decimals with an optional exponent. NaN, Inf
// and hex floats are not readings.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// parseNumber reads a finite decimal. A blank cell reads as 0.
func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	if !decimalPattern.MatchString(s) {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, fmt.Errorf("out of range: %q", s)
	}
	return v, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
