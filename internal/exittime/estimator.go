package exittime

import (
	"fmt"
	"math"

	"github.com/san-kum/exitmap/internal/geom"
	"github.com/san-kum/exitmap/internal/trajectory"
)

const (
	DefaultStep     = 0.01
	DefaultMaxSteps = 100000
)

// Options tunes the time stepping of an Estimator.
type Options struct {
	Step     float64
	MaxSteps int
	Params   trajectory.Params
}

func DefaultOptions() Options {
	return Options{
		Step:     DefaultStep,
		MaxSteps: DefaultMaxSteps,
		Params:   trajectory.DefaultParams(),
	}
}

// Estimator measures exit times for one shape and trajectory law.
type Estimator struct {
	shape    geom.Shape
	kind     trajectory.Kind
	fn       trajectory.Func
	params   trajectory.Params
	step     float64
	maxSteps int
}

// New validates its arguments and returns an Estimator.
func New(shape geom.Shape, kind trajectory.Kind, opts Options) (*Estimator, error) {
	if err := geom.Validate(shape); err != nil {
		return nil, err
	}
	fn, err := trajectory.Lookup(kind)
	if err != nil {
		return nil, err
	}
	if err := opts.Params.Validate(); err != nil {
		return nil, err
	}
	if !(opts.Step > 0) || math.IsInf(opts.Step, 0) {
		return nil, fmt.Errorf("exittime: step must be positive, got %g", opts.Step)
	}
	if opts.MaxSteps < 1 {
		return nil, fmt.Errorf("exittime: max steps must be at least 1, got %d", opts.MaxSteps)
	}

	return &Estimator{
		shape:    shape,
		kind:     kind,
		fn:       fn,
		params:   opts.Params,
		step:     opts.Step,
		maxSteps: opts.MaxSteps,
	}, nil
}

func (e *Estimator) Shape() geom.Shape     { return e.shape }
func (e *Estimator) Kind() trajectory.Kind { return e.kind }
func (e *Estimator) Step() float64         { return e.step }
func (e *Estimator) MaxSteps() int         { return e.maxSteps }

// ExitTime returns the first sampled time at which the trajectory from origin
// along angle is outside the shape. Time is computed as i*step rather than
// accumulated so that results do not drift with the step count.
//
// If the particle is still inside after MaxSteps increments the result is NaN
// and the error is a *NonTerminatingError.
func (e *Estimator) ExitTime(origin geom.Point, angle float64) (float64, error) {
	for i := 0; i <= e.maxSteps; i++ {
		t := float64(i) * e.step
		if !geom.Contains(e.shape, e.fn(t, origin, angle, e.params)) {
			return t, nil
		}
	}
	return math.NaN(), &NonTerminatingError{
		Origin:   origin,
		Angle:    angle,
		Kind:     e.kind,
		Step:     e.step,
		MaxSteps: e.maxSteps,
	}
}

// Path returns the sampled positions from origin up to and including the
// first position outside the shape, or up to the step bound.
func (e *Estimator) Path(origin geom.Point, angle float64) []geom.Point {
	pts := make([]geom.Point, 0, 64)
	for i := 0; i <= e.maxSteps; i++ {
		p := e.fn(float64(i)*e.step, origin, angle, e.params)
		pts = append(pts, p)
		if !geom.Contains(e.shape, p) {
			break
		}
	}
	return pts
}
