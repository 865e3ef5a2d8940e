package objdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var numericCell = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// ReadCSV reads a CSV export with a header row. Numeric cells become
// float64 except in the identifier column, which always stays a string.
func ReadCSV(r io.Reader, idKey string) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	var out []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		rec := make(Record, len(header))
		for i, col := range header {
			if i >= len(row) {
				break
			}
			rec[col] = parseCell(row[i], col == idKey)
		}
		out = append(out, rec)
	}
}

func parseCell(s string, keepString bool) any {
	if keepString || !numericCell.MatchString(s) {
		return s
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
