package exittime

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/exitmap/internal/geom"
)

// MaxAccuracy bounds the direction fan at 2^16 rays per origin.
const MaxAccuracy = 16

// DirectionCount returns 2^accuracy.
func DirectionCount(accuracy int) int {
	return 1 << accuracy
}

// Directions returns n angles evenly spaced over [0, 2π), starting at 0.
func Directions(n int) []float64 {
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = 2 * math.Pi * float64(i) / float64(n)
	}
	return angles
}

// Fan is the outcome of launching particles from one origin in every
// direction.
type Fan struct {
	Origin geom.Point
	Angles []float64
	// Times holds one exit time per angle; NaN marks a direction that did
	// not exit.
	Times []float64
	// Mean averages the directions that exited, NaN if none did.
	Mean     float64
	Exited   int
	Failures []error
}

// Unknown reports whether no direction produced an exit time.
func (f *Fan) Unknown() bool { return f.Exited == 0 }

// StdDev is the population standard deviation of the exited directions.
func (f *Fan) StdDev() float64 {
	if f.Exited == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, t := range f.Times {
		if math.IsNaN(t) {
			continue
		}
		d := t - f.Mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(f.Exited))
}

// Average evaluates ExitTime for n evenly spaced directions from origin.
// The context is checked between directions.
func (e *Estimator) Average(ctx context.Context, origin geom.Point, n int) (*Fan, error) {
	if n < 1 {
		return nil, fmt.Errorf("exittime: direction count must be positive, got %d", n)
	}

	fan := &Fan{
		Origin: origin,
		Angles: Directions(n),
		Times:  make([]float64, n),
	}

	sum := 0.0
	for i, angle := range fan.Angles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t, err := e.ExitTime(origin, angle)
		fan.Times[i] = t
		if err != nil {
			fan.Failures = append(fan.Failures, err)
			continue
		}
		sum += t
		fan.Exited++
	}

	fan.Mean = math.NaN()
	if fan.Exited > 0 {
		fan.Mean = sum / float64(fan.Exited)
	}
	return fan, nil
}
