package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/exitmap/internal/field"
)

type HeatmapOptions struct {
	Theme Theme
	// CellWidth is the number of terminal columns per cell.
	CellWidth int
	Title     string
	Legend    bool
}

func DefaultHeatmapOptions() HeatmapOptions {
	return HeatmapOptions{Theme: ThemeRdYlGn, CellWidth: 2, Legend: true}
}

// Heatmap draws f with the highest y row on top. Outside cells are blank and
// unknown cells are drawn as '?'.
func Heatmap(f *field.Field, opts HeatmapOptions) string {
	if opts.CellWidth < 1 {
		opts.CellWidth = 1
	}
	st := f.Stats()
	span := st.Max - st.Min

	block := strings.Repeat("█", opts.CellWidth)
	blank := strings.Repeat(" ", opts.CellWidth)
	unknown := lipgloss.NewStyle().Foreground(opts.Theme.Unknown).Render(strings.Repeat("?", opts.CellWidth))

	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(HeaderStyle.Render(opts.Title))
		b.WriteString("\n")
	}

	for i := f.Size - 1; i >= 0; i-- {
		for j := 0; j < f.Size; j++ {
			switch f.States[i][j] {
			case field.Inside:
				t := 0.5
				if span > 0 {
					t = (f.Values[i][j] - st.Min) / span
				}
				style := lipgloss.NewStyle().Foreground(lipgloss.Color(opts.Theme.Hex(t)))
				b.WriteString(style.Render(block))
			case field.Unknown:
				b.WriteString(unknown)
			default:
				b.WriteString(blank)
			}
		}
		b.WriteString("\n")
	}

	if opts.Legend {
		b.WriteString(legend(opts.Theme, st.Min, st.Max, f.Size*opts.CellWidth))
		b.WriteString("\n")
	}
	return b.String()
}

func legend(th Theme, lo, hi float64, width int) string {
	if width < 10 {
		width = 10
	}
	var bar strings.Builder
	for k := 0; k < width; k++ {
		t := float64(k) / float64(width-1)
		bar.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(th.Hex(t))).Render("▀"))
	}

	lbl := fmt.Sprintf("%.3f", lo)
	hbl := fmt.Sprintf("%.3f", hi)
	gap := width - len(lbl) - len(hbl)
	if gap < 1 {
		gap = 1
	}
	labels := Subtle.Render(lbl + strings.Repeat(" ", gap) + hbl)
	return bar.String() + "\n" + labels + "\n" + Subtle.Render("average exit time")
}
