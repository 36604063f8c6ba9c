package exittime

import (
	"errors"
	"fmt"

	"github.com/san-kum/exitmap/internal/geom"
	"github.com/san-kum/exitmap/internal/trajectory"
)

// ErrNonTerminating indicates a trajectory that did not leave the region
// within the step bound.
var ErrNonTerminating = errors.New("exittime: trajectory did not exit")

// NonTerminatingError carries what is needed to reproduce a failed direction.
type NonTerminatingError struct {
	Origin   geom.Point
	Angle    float64
	Kind     trajectory.Kind
	Step     float64
	MaxSteps int
}

func (e *NonTerminatingError) Error() string {
	return fmt.Sprintf("%v: origin=(%g,%g) angle=%.6f kind=%s step=%g max_steps=%d",
		ErrNonTerminating, e.Origin.X, e.Origin.Y, e.Angle, e.Kind, e.Step, e.MaxSteps)
}

func (e *NonTerminatingError) Unwrap() error {
	return ErrNonTerminating
}
