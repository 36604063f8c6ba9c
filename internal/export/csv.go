package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/exitmap/internal/field"
)

var csvHeader = []string{"i", "j", "x", "y", "state", "value"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes one row per cell. Masked cells have an empty value column.
func WriteCSV(w io.Writer, f *field.Field) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for i := range f.States {
		for j, s := range f.States[i] {
			value := ""
			if s == field.Inside {
				value = formatFloat(f.Values[i][j])
			}
			row := []string{
				strconv.Itoa(i),
				strconv.Itoa(j),
				formatFloat(f.Xs[j]),
				formatFloat(f.Ys[i]),
				s.String(),
				value,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reassembles a field written by WriteCSV. The shape is not part of
// the CSV and is left nil.
func ReadCSV(r io.Reader) (*field.Field, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("export: csv has no cells")
	}
	records = records[1:]

	size := int(math.Round(math.Sqrt(float64(len(records)))))
	if size*size != len(records) {
		return nil, fmt.Errorf("export: %d cells do not form a square grid", len(records))
	}

	type cell struct {
		i, j  int
		x, y  float64
		state field.CellState
		value float64
	}
	cells := make([]cell, 0, len(records))
	xs := make([]float64, size)
	ys := make([]float64, size)
	seen := make([]bool, size*size)

	for n, rec := range records {
		var c cell
		if c.i, err = strconv.Atoi(rec[0]); err != nil {
			return nil, fmt.Errorf("export: line %d: %w", n+2, err)
		}
		if c.j, err = strconv.Atoi(rec[1]); err != nil {
			return nil, fmt.Errorf("export: line %d: %w", n+2, err)
		}
		if c.i < 0 || c.i >= size || c.j < 0 || c.j >= size {
			return nil, fmt.Errorf("export: line %d: cell (%d,%d) out of range", n+2, c.i, c.j)
		}
		if seen[c.i*size+c.j] {
			return nil, fmt.Errorf("export: line %d: duplicate cell (%d,%d)", n+2, c.i, c.j)
		}
		seen[c.i*size+c.j] = true
		if c.x, err = strconv.ParseFloat(rec[2], 64); err != nil {
			return nil, fmt.Errorf("export: line %d: %w", n+2, err)
		}
		if c.y, err = strconv.ParseFloat(rec[3], 64); err != nil {
			return nil, fmt.Errorf("export: line %d: %w", n+2, err)
		}
		var ok bool
		if c.state, ok = field.ParseCellState(rec[4]); !ok {
			return nil, fmt.Errorf("export: line %d: unknown state %q", n+2, rec[4])
		}
		if c.state == field.Inside {
			if c.value, err = strconv.ParseFloat(rec[5], 64); err != nil {
				return nil, fmt.Errorf("export: line %d: %w", n+2, err)
			}
		}
		xs[c.j] = c.x
		ys[c.i] = c.y
		cells = append(cells, c)
	}

	f := field.New(xs, ys)
	for _, c := range cells {
		f.States[c.i][c.j] = c.state
		if c.state == field.Inside {
			f.Values[c.i][c.j] = c.value
		}
	}
	return f, nil
}
