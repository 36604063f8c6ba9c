package field

import (
	"math"

	"github.com/san-kum/exitmap/internal/geom"
)

type CellState uint8

const (
	Outside CellState = iota
	Inside
	Unknown
)

func (s CellState) String() string {
	switch s {
	case Inside:
		return "inside"
	case Unknown:
		return "unknown"
	default:
		return "outside"
	}
}

// ParseCellState is the inverse of CellState.String.
func ParseCellState(s string) (CellState, bool) {
	switch s {
	case "inside":
		return Inside, true
	case "unknown":
		return Unknown, true
	case "outside":
		return Outside, true
	}
	return Outside, false
}

// Field is a Size x Size lattice of exit times. Row i lies at Ys[i] and
// column j at Xs[j].
type Field struct {
	Size       int
	Xs, Ys     []float64
	Values     [][]float64
	States     [][]CellState
	Shape      geom.Shape
	Directions int
	// Failures counts directions that hit the step bound, across all cells.
	Failures int
	// Errors keeps the first few non-termination errors for diagnosis.
	Errors []error
}

func newField(size int, xs, ys []float64) *Field {
	f := &Field{
		Size:   size,
		Xs:     xs,
		Ys:     ys,
		Values: make([][]float64, size),
		States: make([][]CellState, size),
	}
	for i := range f.Values {
		f.Values[i] = make([]float64, size)
		f.States[i] = make([]CellState, size)
		for j := range f.Values[i] {
			f.Values[i][j] = math.NaN()
		}
	}
	return f
}

// New returns an all-outside field over the given axes, for callers that
// reassemble a field from storage.
func New(xs, ys []float64) *Field {
	return newField(len(xs), xs, ys)
}

// At returns the value and state of cell (i, j). ok is false for Outside and
// Unknown cells.
func (f *Field) At(i, j int) (v float64, ok bool) {
	return f.Values[i][j], f.States[i][j] == Inside
}

// Origin returns the lattice point of cell (i, j).
func (f *Field) Origin(i, j int) geom.Point {
	return geom.Point{X: f.Xs[j], Y: f.Ys[i]}
}

type Stats struct {
	Inside   int     `json:"inside"`
	Outside  int     `json:"outside"`
	Unknown  int     `json:"unknown"`
	Failures int     `json:"failures"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
}

// Stats summarises the Inside cells. Min, Max and Mean are zero when there
// are none.
func (f *Field) Stats() Stats {
	st := Stats{Min: math.Inf(1), Max: math.Inf(-1), Failures: f.Failures}
	sum := 0.0
	for i := range f.States {
		for j, s := range f.States[i] {
			switch s {
			case Inside:
				v := f.Values[i][j]
				st.Inside++
				sum += v
				st.Min = math.Min(st.Min, v)
				st.Max = math.Max(st.Max, v)
			case Unknown:
				st.Unknown++
			default:
				st.Outside++
			}
		}
	}
	if st.Inside == 0 {
		st.Min, st.Max = 0, 0
		return st
	}
	st.Mean = sum / float64(st.Inside)
	return st
}

// Row returns a copy of row i with masked cells left as NaN.
func (f *Field) Row(i int) []float64 {
	row := make([]float64, f.Size)
	copy(row, f.Values[i])
	return row
}

// Linspace returns n evenly spaced values from lo to hi inclusive. The last
// value is exactly hi so that lattice edges land on the shape boundary.
func Linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	vals := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range vals {
		vals[i] = lo + float64(i)*step
	}
	vals[n-1] = hi
	return vals
}
