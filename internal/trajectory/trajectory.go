// Package trajectory defines the particle growth laws: pure functions from
// elapsed time, origin and launch direction to a position in the plane.
package trajectory

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/exitmap/internal/geom"
)

// ErrUnsupportedTrajectory is returned when a trajectory name is not known.
var ErrUnsupportedTrajectory = errors.New("trajectory: unsupported trajectory")

type Kind string

const (
	StraightLine Kind = "straight_line"
	Exponential  Kind = "exponential"
	Logarithmic  Kind = "logarithmic"
	Inverse      Kind = "inverse"
	Spiral       Kind = "spiral"
)

const (
	DefaultGrowthRate   = 0.1
	DefaultLogBase      = 2.0
	DefaultInverseScale = 1.0
)

// Params holds the shape-independent constants of the growth laws.
type Params struct {
	GrowthRate   float64 `yaml:"growth_rate" json:"growth_rate"`
	LogBase      float64 `yaml:"log_base" json:"log_base"`
	InverseScale float64 `yaml:"inverse_scale" json:"inverse_scale"`
}

func DefaultParams() Params {
	return Params{
		GrowthRate:   DefaultGrowthRate,
		LogBase:      DefaultLogBase,
		InverseScale: DefaultInverseScale,
	}
}

// Validate rejects parameters for which a growth law is undefined.
func (p Params) Validate() error {
	if p.LogBase <= 0 || p.LogBase == 1 || math.IsNaN(p.LogBase) {
		return fmt.Errorf("trajectory: log base must be positive and not 1, got %g", p.LogBase)
	}
	if math.IsNaN(p.GrowthRate) || math.IsInf(p.GrowthRate, 0) {
		return fmt.Errorf("trajectory: growth rate must be finite, got %g", p.GrowthRate)
	}
	if math.IsNaN(p.InverseScale) || math.IsInf(p.InverseScale, 0) {
		return fmt.Errorf("trajectory: inverse scale must be finite, got %g", p.InverseScale)
	}
	return nil
}

// Func maps elapsed time t >= 0 to a position for a particle launched from
// origin along angle.
type Func func(t float64, origin geom.Point, angle float64, p Params) geom.Point

func straightLine(t float64, origin geom.Point, angle float64, _ Params) geom.Point {
	return origin.Polar(t, angle)
}

func exponential(t float64, origin geom.Point, angle float64, p Params) geom.Point {
	return origin.Polar(math.Exp(p.GrowthRate*t), angle)
}

func logarithmic(t float64, origin geom.Point, angle float64, p Params) geom.Point {
	if t == 0 {
		return origin
	}
	return origin.Polar(math.Log(t+1)/math.Log(p.LogBase), angle)
}

// inverse jumps from the origin at t=0 to scale/dt at the first step and
// then falls back toward the origin.
func inverse(t float64, origin geom.Point, angle float64, p Params) geom.Point {
	if t == 0 {
		return origin
	}
	return origin.Polar(p.InverseScale/t, angle)
}

// spiral follows a logarithmic spiral whose heading turns one radian per
// unit time.
func spiral(t float64, origin geom.Point, angle float64, p Params) geom.Point {
	return origin.Polar(math.Exp(p.GrowthRate*t), angle+t)
}

var registry = map[Kind]Func{
	StraightLine: straightLine,
	Exponential:  exponential,
	Logarithmic:  logarithmic,
	Inverse:      inverse,
	Spiral:       spiral,
}

// Lookup returns the growth law for k.
func Lookup(k Kind) (Func, error) {
	fn, ok := registry[k]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnsupportedTrajectory, string(k), strings.Join(Names(), ", "))
	}
	return fn, nil
}

// Parse converts a user supplied name into a Kind.
func Parse(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	if _, err := Lookup(k); err != nil {
		return "", err
	}
	return k, nil
}

// Names lists the registered trajectory kinds in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}

// At evaluates kind k directly. It panics on an unregistered kind; use
// Lookup when the kind comes from user input.
func (k Kind) At(t float64, origin geom.Point, angle float64, p Params) geom.Point {
	fn, err := Lookup(k)
	if err != nil {
		panic(err)
	}
	return fn(t, origin, angle, p)
}
