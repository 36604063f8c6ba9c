package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/exitmap/internal/exittime"
	"github.com/san-kum/exitmap/internal/field"
)

// finite drops NaN samples, which asciigraph cannot scale.
func finite(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func plot(data []float64, width, height int, caption string) string {
	data = finite(data)
	if len(data) == 0 {
		return ""
	}
	if len(data) == 1 {
		data = append(data, data[0])
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// DirectionProfile plots exit time against launch direction for one origin.
func DirectionProfile(fan *exittime.Fan, width, height int) string {
	caption := fmt.Sprintf("exit time vs direction at (%.3f, %.3f), %d directions",
		fan.Origin.X, fan.Origin.Y, len(fan.Angles))
	return plot(fan.Times, width, height, caption)
}

// RowProfile plots row i of f, skipping masked cells.
func RowProfile(f *field.Field, i, width, height int) string {
	if i < 0 || i >= f.Size {
		return ""
	}
	caption := fmt.Sprintf("exit time along y = %.3f", f.Ys[i])
	return plot(f.Row(i), width, height, caption)
}
