package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/exitmap/internal/field"
	"github.com/san-kum/exitmap/internal/geom"
	"github.com/san-kum/exitmap/internal/viz"
)

// FieldToSVG draws f as one square per lattice point, centred on the point,
// with the shape boundary on top. Outside cells are not drawn.
func FieldToSVG(f *field.Field, theme viz.Theme, cell float64, title string) string {
	if f == nil || f.Size < 2 {
		return ""
	}
	if cell <= 0 {
		cell = 16
	}

	size := float64(f.Size) * cell
	header := 0.0
	if title != "" {
		header = 2 * cell
	}
	st := f.Stats()
	span := st.Max - st.Min

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, size, size+header, size, size+header))

	if title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.1f" text-anchor="middle">%s</text>
`, size/2, header*0.6, cell*0.8, html.EscapeString(title)))
	}

	sb.WriteString(fmt.Sprintf("<g transform=\"translate(0 %.1f)\" shape-rendering=\"crispEdges\">\n", header))
	for i := 0; i < f.Size; i++ {
		y := float64(f.Size-1-i) * cell
		for j := 0; j < f.Size; j++ {
			x := float64(j) * cell
			switch f.States[i][j] {
			case field.Inside:
				t := 0.5
				if span > 0 {
					t = (f.Values[i][j] - st.Min) / span
				}
				sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"><title>%g</title></rect>
`, x, y, cell, cell, theme.Hex(t), f.Values[i][j]))
			case field.Unknown:
				sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="%s"/>
`, x, y, cell, cell, string(theme.Unknown)))
			}
		}
	}
	sb.WriteString("</g>\n")

	if f.Shape != nil {
		sb.WriteString(outlinePath(f, cell, header))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// outlinePath maps the shape boundary into the same pixel frame as the
// cells, where lattice point j sits at the centre of column j.
func outlinePath(f *field.Field, cell, header float64) string {
	x0, x1 := f.Xs[0], f.Xs[f.Size-1]
	y0, y1 := f.Ys[0], f.Ys[f.Size-1]
	span := float64(f.Size-1) * cell

	var sb strings.Builder
	sb.WriteString(`<path fill="none" stroke="#000000" stroke-width="2" d="M`)
	for k, p := range geom.Outline(f.Shape, 256) {
		x := (p.X-x0)/(x1-x0)*span + cell/2
		y := header + span - (p.Y-y0)/(y1-y0)*span + cell/2
		if k == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
	return sb.String()
}
