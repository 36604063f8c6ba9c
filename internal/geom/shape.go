package geom

import (
	"fmt"
	"math"
)

// Kind names a shape variant.
type Kind string

const (
	KindCircle   Kind = "circle"
	KindBox      Kind = "box"
	KindTriangle Kind = "triangle"
)

// Shape is a closed bounded region. It is implemented only by Circle, Box
// and Triangle.
type Shape interface {
	Kind() Kind
	String() string
	shape()
}

// Circle is the closed disc of Radius around Center.
type Circle struct {
	Center Point
	Radius float64
}

// Box is an axis-aligned rectangle. Squares are boxes with equal extents.
type Box struct {
	XMin, YMin, XMax, YMax float64
}

// Triangle is the closed triangle with the given vertices in either winding.
type Triangle struct {
	V0, V1, V2 Point
}

func (Circle) Kind() Kind   { return KindCircle }
func (Box) Kind() Kind      { return KindBox }
func (Triangle) Kind() Kind { return KindTriangle }

func (Circle) shape()   {}
func (Box) shape()      {}
func (Triangle) shape() {}

func (c Circle) String() string {
	return fmt.Sprintf("circle(center=(%g,%g), r=%g)", c.Center.X, c.Center.Y, c.Radius)
}

func (b Box) String() string {
	return fmt.Sprintf("box[%g,%g .. %g,%g]", b.XMin, b.YMin, b.XMax, b.YMax)
}

func (t Triangle) String() string {
	return fmt.Sprintf("triangle((%g,%g), (%g,%g), (%g,%g))",
		t.V0.X, t.V0.Y, t.V1.X, t.V1.Y, t.V2.X, t.V2.Y)
}

// Square returns a box of the given side length centred on c.
func Square(c Point, side float64) Box {
	return Rectangle(c, side, side)
}

// Rectangle returns a box of the given extents centred on c.
func Rectangle(c Point, width, height float64) Box {
	return Box{
		XMin: c.X - width/2,
		YMin: c.Y - height/2,
		XMax: c.X + width/2,
		YMax: c.Y + height/2,
	}
}

// Equilateral returns an upward-pointing equilateral triangle of the given
// height whose bounding box is centred on c.
func Equilateral(c Point, height float64) Triangle {
	base := height / math.Sqrt(3) * 2
	return Triangle{
		V0: Point{c.X, c.Y + height/2},
		V1: Point{c.X - base/2, c.Y - height/2},
		V2: Point{c.X + base/2, c.Y - height/2},
	}
}

// Contains reports whether p lies inside s. Boundary points are inside for
// every variant.
func Contains(s Shape, p Point) bool {
	switch s := s.(type) {
	case Circle:
		return p.Dist2(s.Center) <= s.Radius*s.Radius
	case Box:
		return s.XMin <= p.X && p.X <= s.XMax && s.YMin <= p.Y && p.Y <= s.YMax
	case Triangle:
		d1 := edgeSign(p, s.V0, s.V1)
		d2 := edgeSign(p, s.V1, s.V2)
		d3 := edgeSign(p, s.V2, s.V0)
		neg := d1 < 0 || d2 < 0 || d3 < 0
		pos := d1 > 0 || d2 > 0 || d3 > 0
		return !(neg && pos)
	default:
		panic(fmt.Sprintf("geom: unknown shape %T", s))
	}
}

// edgeSign is the z component of (p - b) x (a - b); its sign tells which
// side of the directed edge a->b the point p lies on.
func edgeSign(p, a, b Point) float64 {
	return (p.X-b.X)*(a.Y-b.Y) - (a.X-b.X)*(p.Y-b.Y)
}

// Bounds returns the tight axis-aligned bounding box of s.
func Bounds(s Shape) Rect {
	switch s := s.(type) {
	case Circle:
		return Rect{
			Min: Point{s.Center.X - s.Radius, s.Center.Y - s.Radius},
			Max: Point{s.Center.X + s.Radius, s.Center.Y + s.Radius},
		}
	case Box:
		return Rect{Min: Point{s.XMin, s.YMin}, Max: Point{s.XMax, s.YMax}}
	case Triangle:
		return Rect{
			Min: Point{
				math.Min(s.V0.X, math.Min(s.V1.X, s.V2.X)),
				math.Min(s.V0.Y, math.Min(s.V1.Y, s.V2.Y)),
			},
			Max: Point{
				math.Max(s.V0.X, math.Max(s.V1.X, s.V2.X)),
				math.Max(s.V0.Y, math.Max(s.V1.Y, s.V2.Y)),
			},
		}
	default:
		panic(fmt.Sprintf("geom: unknown shape %T", s))
	}
}

// Centroid returns the centre of a circle or box, or the vertex average of
// a triangle.
func Centroid(s Shape) Point {
	switch s := s.(type) {
	case Circle:
		return s.Center
	case Box:
		return Point{(s.XMin + s.XMax) / 2, (s.YMin + s.YMax) / 2}
	case Triangle:
		return Point{(s.V0.X + s.V1.X + s.V2.X) / 3, (s.V0.Y + s.V1.Y + s.V2.Y) / 3}
	default:
		panic(fmt.Sprintf("geom: unknown shape %T", s))
	}
}

// Outline returns the closed boundary polygon of s, first vertex repeated at
// the end. Circles are approximated with segments vertices.
func Outline(s Shape, segments int) []Point {
	switch s := s.(type) {
	case Circle:
		if segments < 3 {
			segments = 64
		}
		pts := make([]Point, 0, segments+1)
		for i := 0; i < segments; i++ {
			pts = append(pts, s.Center.Polar(s.Radius, 2*math.Pi*float64(i)/float64(segments)))
		}
		return append(pts, pts[0])
	case Box:
		return []Point{
			{s.XMin, s.YMin}, {s.XMax, s.YMin}, {s.XMax, s.YMax}, {s.XMin, s.YMax}, {s.XMin, s.YMin},
		}
	case Triangle:
		return []Point{s.V0, s.V1, s.V2, s.V0}
	default:
		panic(fmt.Sprintf("geom: unknown shape %T", s))
	}
}
