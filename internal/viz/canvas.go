package viz

import (
	"math"
	"strings"

	"github.com/san-kum/exitmap/internal/geom"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// DrawPolyline maps world points inside bounds onto the canvas, with y
// pointing up, and joins consecutive points.
func (c *Canvas) DrawPolyline(pts []geom.Point, bounds geom.Rect) {
	w := float64(c.Width*2 - 1)
	h := float64(c.Height*4 - 1)
	bw, bh := bounds.Width(), bounds.Height()
	if bw <= 0 || bh <= 0 {
		return
	}

	px := func(p geom.Point) (int, int) {
		x := (p.X - bounds.Min.X) / bw * w
		y := h - (p.Y-bounds.Min.Y)/bh*h
		return int(math.Round(x)), int(math.Round(y))
	}

	if len(pts) == 1 {
		c.Set(px(pts[0]))
		return
	}
	for k := 1; k < len(pts); k++ {
		x0, y0 := px(pts[k-1])
		x1, y1 := px(pts[k])
		c.DrawLine(x0, y0, x1, y1)
	}
}

// Outline draws the boundary of shape and any sampled paths on a w x h
// character canvas. The view is the shape's bounding box grown to include
// every path point.
func Outline(shape geom.Shape, paths [][]geom.Point, w, h int) string {
	bounds := geom.Bounds(shape)
	for _, path := range paths {
		for _, p := range path {
			bounds.Min.X = math.Min(bounds.Min.X, p.X)
			bounds.Min.Y = math.Min(bounds.Min.Y, p.Y)
			bounds.Max.X = math.Max(bounds.Max.X, p.X)
			bounds.Max.Y = math.Max(bounds.Max.Y, p.Y)
		}
	}

	c := NewCanvas(w, h)
	c.DrawPolyline(geom.Outline(shape, 4*w), bounds)
	for _, path := range paths {
		c.DrawPolyline(path, bounds)
	}
	return c.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
