// Package dataset reads and writes the two-column CSV time series accepted
// by the service: a label (time) column followed by a numeric value column.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/soltixdb/rdplines/internal/simplify"
	"github.com/soltixdb/rdplines/internal/stats"
)

var (
	// ErrEmptyCSV is returned when the input has no header or no data rows.
	ErrEmptyCSV = errors.New("CSV file is empty")

	// ErrMalformedCSV is returned when the input is not a usable time series.
	ErrMalformedCSV = errors.New("CSV file is not a valid time series")
)

// missingMarkers are cell contents treated as an absent value.
var missingMarkers = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

// Dataset is a parsed time series. Labels and Values are index-aligned with
// the CSV data rows.
type Dataset struct {
	Columns []string     // header row as read
	Labels  []string     // first column
	Values  stats.Series // second column, nil where missing
	raw     []string     // second column as written in the file
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.Labels)
}

// Parse reads a CSV document with a header row.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: expected at least 2 columns, got %d", ErrMalformedCSV, len(header))
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	ds := &Dataset{Columns: header}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: line %d has %d column(s)", ErrMalformedCSV, line, len(record))
		}

		value, err := parseValue(record[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedCSV, line, err)
		}

		ds.Labels = append(ds.Labels, record[0])
		ds.Values = append(ds.Values, value)
		ds.raw = append(ds.raw, record[1])
	}

	if ds.Len() == 0 {
		return nil, ErrEmptyCSV
	}
	return ds, nil
}

func parseValue(cell string) (*float64, error) {
	cell = strings.TrimSpace(cell)
	if missingMarkers[strings.ToLower(cell)] {
		return nil, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, fmt.Errorf("value %q is not numeric", cell)
	}
	return &v, nil
}

// Points returns the simplification input: X is the row index and Y the
// value. Rows with a missing value are skipped; rows[i] is the data row of
// points[i].
func (d *Dataset) Points() (points []simplify.Point, rows []int) {
	points = make([]simplify.Point, 0, d.Len())
	rows = make([]int, 0, d.Len())
	for i, v := range d.Values {
		if v == nil {
			continue
		}
		points = append(points, simplify.Point{X: float64(i), Y: *v})
		rows = append(rows, i)
	}
	return points, rows
}

// Subset returns the given data rows, in the order given.
func (d *Dataset) Subset(rows []int) *Dataset {
	sub := &Dataset{
		Columns: d.Columns,
		Labels:  make([]string, len(rows)),
		Values:  make(stats.Series, len(rows)),
		raw:     make([]string, len(rows)),
	}
	for i, row := range rows {
		sub.Labels[i] = d.Labels[row]
		sub.Values[i] = d.Values[row]
		sub.raw[i] = d.raw[row]
	}
	return sub
}

// Aligned returns labels and values as long as the dataset, with nil at every
// row not listed in rows. This is the chart-friendly form of a subset.
func (d *Dataset) Aligned(rows []int) ([]*string, stats.Series) {
	labels := make([]*string, d.Len())
	values := make(stats.Series, d.Len())
	for _, row := range rows {
		labels[row] = &d.Labels[row]
		values[row] = d.Values[row]
	}
	return labels, values
}

// Write encodes the label and value columns of d as CSV.
func Write(w io.Writer, d *Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(d.Columns[:2]); err != nil {
		return err
	}
	for i := range d.Labels {
		if err := writer.Write([]string{d.Labels[i], d.raw[i]}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// SimplifiedFilename derives the download name of a simplified file.
func SimplifiedFilename(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "series"
	}
	return base + "(simplified).csv"
}
