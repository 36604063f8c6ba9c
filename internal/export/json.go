package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/exitmap/internal/field"
	"github.com/san-kum/exitmap/internal/geom"
)

type Header struct {
	ID         string `json:"id,omitempty"`
	Title      string `json:"title"`
	Trajectory string `json:"trajectory"`
}

// ExportData is the JSON form of a field. Masked cells are null so that
// consumers cannot mistake them for a zero exit time.
type ExportData struct {
	Header
	Kind       string       `json:"kind,omitempty"`
	Shape      string       `json:"shape,omitempty"`
	Directions int          `json:"directions"`
	GridSize   int          `json:"grid_size"`
	Xs         []float64    `json:"xs"`
	Ys         []float64    `json:"ys"`
	Values     [][]*float64 `json:"values"`
	States     [][]string   `json:"states"`
	Outline    [][2]float64 `json:"outline,omitempty"`
	Stats      field.Stats  `json:"stats"`
}

func NewExportData(h Header, f *field.Field) ExportData {
	data := ExportData{
		Header:     h,
		Directions: f.Directions,
		GridSize:   f.Size,
		Xs:         f.Xs,
		Ys:         f.Ys,
		Values:     make([][]*float64, f.Size),
		States:     make([][]string, f.Size),
		Stats:      f.Stats(),
	}

	for i := range f.Values {
		data.Values[i] = make([]*float64, f.Size)
		data.States[i] = make([]string, f.Size)
		for j := range f.Values[i] {
			data.States[i][j] = f.States[i][j].String()
			if v, ok := f.At(i, j); ok {
				data.Values[i][j] = &v
			}
		}
	}

	if f.Shape != nil {
		data.Kind = string(f.Shape.Kind())
		data.Shape = f.Shape.String()
		for _, p := range geom.Outline(f.Shape, 128) {
			data.Outline = append(data.Outline, [2]float64{p.X, p.Y})
		}
	}
	return data
}

func ExportJSON(w io.Writer, h Header, f *field.Field) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(h, f))
}
