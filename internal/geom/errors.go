package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateShape indicates shape parameters that do not describe a
// closed bounded region with non-empty interior.
var ErrDegenerateShape = errors.New("geom: degenerate shape")

// ShapeError wraps ErrDegenerateShape with the offending shape.
type ShapeError struct {
	Shape  Shape
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%v: %v: %s", ErrDegenerateShape, e.Shape, e.Reason)
}

func (e *ShapeError) Unwrap() error {
	return ErrDegenerateShape
}

// collinearTol is the relative area below which triangle vertices count as
// collinear.
const collinearTol = 1e-12

// Validate returns a *ShapeError when s violates its invariants.
func Validate(s Shape) error {
	if s == nil {
		return &ShapeError{Reason: "nil shape"}
	}
	fail := func(reason string, args ...any) error {
		return &ShapeError{Shape: s, Reason: fmt.Sprintf(reason, args...)}
	}

	switch s := s.(type) {
	case Circle:
		if !finite(s.Center.X, s.Center.Y, s.Radius) {
			return fail("non-finite parameter")
		}
		if s.Radius <= 0 {
			return fail("radius must be positive, got %g", s.Radius)
		}
	case Box:
		if !finite(s.XMin, s.YMin, s.XMax, s.YMax) {
			return fail("non-finite parameter")
		}
		if s.XMin >= s.XMax {
			return fail("xmin %g must be less than xmax %g", s.XMin, s.XMax)
		}
		if s.YMin >= s.YMax {
			return fail("ymin %g must be less than ymax %g", s.YMin, s.YMax)
		}
	case Triangle:
		if !finite(s.V0.X, s.V0.Y, s.V1.X, s.V1.Y, s.V2.X, s.V2.Y) {
			return fail("non-finite vertex")
		}
		area2 := math.Abs(edgeSign(s.V0, s.V1, s.V2))
		b := Bounds(s)
		scale := math.Max(b.Width(), b.Height())
		if scale == 0 || area2 <= collinearTol*scale*scale {
			return fail("vertices are collinear")
		}
	default:
		return fail("unsupported shape type %T", s)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
