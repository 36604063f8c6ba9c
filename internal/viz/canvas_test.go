package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/exitmap/internal/geom"
)

func TestCanvas_Set(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(3, 7)
	c.Set(-1, 2)
	c.Set(100, 100)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("Grid[0][0] = %U, want U+2801", c.Grid[0][0])
	}
	if c.Grid[1][1] != 0x2880 {
		t.Errorf("Grid[1][1] = %U, want U+2880", c.Grid[1][1])
	}

	lines := strings.Split(strings.TrimRight(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for _, l := range lines {
		if n := len([]rune(l)); n != 4 {
			t.Errorf("line has %d runes, want 4", n)
		}
	}
}

func TestCanvas_DrawPolylineDegenerateBounds(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawPolyline([]geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, geom.Rect{})
	if c.String() != NewCanvas(4, 2).String() {
		t.Error("zero-area bounds should draw nothing")
	}
}

func TestOutline(t *testing.T) {
	empty := NewCanvas(20, 10).String()
	out := Outline(geom.Square(geom.Point{}, 2), nil, 20, 10)
	if out == empty {
		t.Fatal("outline drew nothing")
	}

	// A path leaving the shape widens the view, so the square shrinks.
	path := []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 0}}
	withPath := Outline(geom.Square(geom.Point{}, 2), [][]geom.Point{path}, 20, 10)
	if withPath == out {
		t.Error("path should change the drawing")
	}
}
