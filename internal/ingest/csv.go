// Package ingest decodes the four source CSV tables into model values.
//
// Headers are matched case-insensitively against the attribute names
// (Provider_ID, Food_Name, ...), so column order in the file does not matter
// and extra columns are ignored. Every error names the 1-based line it came from.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// DateLayouts are the accepted Expiry_Date representations, tried in order.
var DateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"2006-01-02 15:04:05",
}

// TimestampLayouts are the accepted Timestamp representations, tried in order.
var TimestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// record is one data row with its header index.
type record struct {
	line   int
	fields []string
	index  map[string]int
}

// table reads a CSV with a header row and checks that required columns exist.
type table struct {
	r     *csv.Reader
	index map[string]int
}

func newTable(r io.Reader, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		// Strip a UTF-8 BOM left by spreadsheet exports.
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		index[key] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing column(s): %s", strings.Join(missing, ", "))
	}

	return &table{r: cr, index: index}, nil
}

// next returns the next record, or io.EOF when the file is exhausted.
// Field-count mismatches are reported by encoding/csv.
func (t *table) next() (*record, error) {
	fields, err := t.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	line, _ := t.r.FieldPos(0)
	return &record{line: line, fields: fields, index: t.index}, nil
}

func (r *record) str(col string) string {
	return strings.TrimSpace(r.fields[r.index[strings.ToLower(col)]])
}

func (r *record) requiredStr(col string) (string, error) {
	v := r.str(col)
	if v == "" {
		return "", r.errorf(col, "value is empty")
	}
	return v, nil
}

func (r *record) integer(col string) (int64, error) {
	v := r.str(col)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// pandas writes integer columns holding NaN as floats, e.g. "12.0".
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, r.errorf(col, "%q is not an integer", v)
		}
		n = int64(f)
	}
	return n, nil
}

func (r *record) datetime(col string, layouts []string) (time.Time, error) {
	v := r.str(col)
	t, err := ParseTime(v, layouts)
	if err != nil {
		return time.Time{}, r.errorf(col, "%v", err)
	}
	return t, nil
}

func (r *record) errorf(col, format string, args ...any) error {
	return fmt.Errorf("line %d, column %s: %s", r.line, col, fmt.Sprintf(format, args...))
}

// ParseTime parses v with the first matching layout. Results are in UTC.
func ParseTime(v string, layouts []string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("value is empty")
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q does not match any of %s", v, strings.Join(layouts, ", "))
}
