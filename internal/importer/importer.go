// Package importer reads CSV exports from other tools into canonical
// records. All field mapping is declarative: one Mapping lists the canonical
// fields, their accepted header spellings, and the normalizer each value
// runs through. There are no per-file parsers and no header guessing beyond
// the alias table.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Field is one canonical column of a mapping.
type Field struct {
	Name      string            // canonical record key
	Aliases   []string          // accepted header spellings, matched loosely
	Required  bool              // a row missing this value is rejected
	Normalize func(string) (string, error) // optional value normalizer
}

// Mapping declares how a CSV file maps onto canonical records.
type Mapping struct {
	Name   string
	Fields []Field
}

// Record is one imported row, keyed by canonical field name. Values are
// already normalized.
type Record map[string]string

// RowError describes a rejected row; the remaining rows still import.
type RowError struct {
	Line int // 1-based CSV line number, header included
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Result carries the accepted records and the per-row rejections.
type Result struct {
	Records []Record
	Skipped []RowError
}

// Read parses CSV data according to the mapping. The first row must be a
// header; unknown columns are ignored. A missing required column in the
// header fails the whole import, a bad value only skips its row.
func (m Mapping) Read(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// column index per canonical field
	cols := make(map[string]int, len(m.Fields))
	for i, h := range header {
		key := canonicalHeader(h)
		for _, f := range m.Fields {
			if _, taken := cols[f.Name]; taken {
				continue
			}
			if matchesField(f, key) {
				cols[f.Name] = i
			}
		}
	}

	for _, f := range m.Fields {
		if _, ok := cols[f.Name]; !ok && f.Required {
			return nil, fmt.Errorf("%s import: no column matches required field %q", m.Name, f.Name)
		}
	}

	result := &Result{}
	line := 1
	for {
		row, err := cr.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Err: err})
			continue
		}

		record, err := m.mapRow(row, cols)
		if err != nil {
			result.Skipped = append(result.Skipped, RowError{Line: line, Err: err})
			continue
		}
		result.Records = append(result.Records, record)
	}
	return result, nil
}

func (m Mapping) mapRow(row []string, cols map[string]int) (Record, error) {
	record := make(Record, len(m.Fields))
	for _, f := range m.Fields {
		idx, ok := cols[f.Name]
		var value string
		if ok && idx < len(row) {
			value = strings.TrimSpace(row[idx])
		}
		if value == "" {
			if f.Required {
				return nil, fmt.Errorf("missing required field %q", f.Name)
			}
			continue
		}
		if f.Normalize != nil {
			normalized, err := f.Normalize(value)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			value = normalized
		}
		record[f.Name] = value
	}
	return record, nil
}

func matchesField(f Field, canonicalKey string) bool {
	if canonicalHeader(f.Name) == canonicalKey {
		return true
	}
	for _, alias := range f.Aliases {
		if canonicalHeader(alias) == canonicalKey {
			return true
		}
	}
	return false
}

// canonicalHeader lowercases and strips everything but letters and digits,
// so "Unit Price", "unit_price", and "UnitPrice" all match.
func canonicalHeader(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
