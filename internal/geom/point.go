package geom

import "math"

// Point is an immutable position in the plane.
type Point struct {
	X, Y float64
}

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Polar returns p displaced by r along angle.
func (p Point) Polar(r, angle float64) Point {
	sin, cos := math.Sincos(angle)
	return Point{p.X + r*cos, p.Y + r*sin}
}

// Dist2 returns the squared Euclidean distance between p and q.
func (p Point) Dist2(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Rotate rotates p by angle radians about c.
func (p Point) Rotate(c Point, angle float64) Point {
	sin, cos := math.Sincos(angle)
	d := p.Sub(c)
	return Point{c.X + d.X*cos - d.Y*sin, c.Y + d.X*sin + d.Y*cos}
}

// Rect is an axis-aligned rectangle given by its min and max corners.
type Rect struct {
	Min, Max Point
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
