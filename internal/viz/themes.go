package viz

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme defines the colour ramp and text colours for rendering.
type Theme struct {
	Name string
	// Ramp lists hex colour stops from the lowest to the highest value.
	Ramp    []string
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Unknown lipgloss.Color
}

// Available themes
var (
	ThemeRdYlGn = Theme{
		Name:    "rdylgn",
		Ramp:    []string{"#1a9850", "#91cf60", "#d9ef8b", "#fee08b", "#fc8d59", "#d73027"},
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Accent:  lipgloss.Color("#00ccff"),
		Unknown: lipgloss.Color("#ff00ff"),
	}

	ThemeViridis = Theme{
		Name:    "viridis",
		Ramp:    []string{"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"},
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Accent:  lipgloss.Color("#fde725"),
		Unknown: lipgloss.Color("#ff4444"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Ramp:    []string{"#e0f0ff", "#00a8cc", "#0077be", "#001a33"},
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Accent:  lipgloss.Color("#ffd700"),
		Unknown: lipgloss.Color("#ff4444"),
	}

	ThemeGray = Theme{
		Name:    "gray",
		Ramp:    []string{"#202020", "#f0f0f0"},
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Accent:  lipgloss.Color("#0088ff"),
		Unknown: lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{
		ThemeRdYlGn,
		ThemeViridis,
		ThemeOcean,
		ThemeGray,
	}
)

// GetTheme returns a theme by name, falling back to ThemeRdYlGn.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeRdYlGn
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// At returns the ramp colour for t in [0, 1], blending in Lab space between
// neighbouring stops. t is clamped.
func (th Theme) At(t float64) colorful.Color {
	stops := make([]colorful.Color, 0, len(th.Ramp))
	for _, h := range th.Ramp {
		c, err := colorful.Hex(h)
		if err != nil {
			continue
		}
		stops = append(stops, c)
	}
	switch len(stops) {
	case 0:
		return colorful.Color{R: 1, G: 1, B: 1}
	case 1:
		return stops[0]
	}

	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	pos := t * float64(len(stops)-1)
	i := int(pos)
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	return stops[i].BlendLab(stops[i+1], pos-float64(i)).Clamped()
}

// Hex is At formatted as #rrggbb.
func (th Theme) Hex(t float64) string {
	return th.At(t).Hex()
}
