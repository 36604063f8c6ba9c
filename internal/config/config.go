package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/san-kum/exitmap/internal/exittime"
	"github.com/san-kum/exitmap/internal/geom"
	"github.com/san-kum/exitmap/internal/trajectory"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedShape = errors.New("config: unsupported shape")
	ErrInvalidConfig    = errors.New("config: invalid run configuration")
)

const (
	ShapeCircle    = "circle"
	ShapeSquare    = "square"
	ShapeRectangle = "rectangle"
	ShapeTriangle  = "triangle"
)

const (
	DefaultAccuracy       = 3
	DefaultGridSize       = 25
	DefaultRadius         = 5.0
	DefaultSide           = 10.0
	DefaultWidth          = 12.0
	DefaultHeight         = 8.0
	DefaultTriangleHeight = 10.0
)

// Config describes one field build.
type Config struct {
	Shape      ShapeConfig       `yaml:"shape"`
	Trajectory string            `yaml:"trajectory"`
	Accuracy   int               `yaml:"accuracy"`
	GridSize   int               `yaml:"grid_size"`
	Step       float64           `yaml:"step"`
	MaxSteps   int               `yaml:"max_steps"`
	Workers    int               `yaml:"workers"`
	Params     trajectory.Params `yaml:"params"`
}

type ShapeConfig struct {
	Kind           string        `yaml:"kind"`
	Center         PointConfig   `yaml:"center"`
	Radius         float64       `yaml:"radius"`
	Side           float64       `yaml:"side"`
	Width          float64       `yaml:"width"`
	Height         float64       `yaml:"height"`
	TriangleHeight float64       `yaml:"triangle_height"`
	Vertices       []PointConfig `yaml:"vertices,omitempty"`
}

type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p PointConfig) Point() geom.Point { return geom.Point{X: p.X, Y: p.Y} }

func DefaultShape(kind string) ShapeConfig {
	return ShapeConfig{
		Kind:           kind,
		Radius:         DefaultRadius,
		Side:           DefaultSide,
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		TriangleHeight: DefaultTriangleHeight,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Shape:      DefaultShape(ShapeCircle),
		Trajectory: string(trajectory.StraightLine),
		Accuracy:   DefaultAccuracy,
		GridSize:   DefaultGridSize,
		Step:       exittime.DefaultStep,
		MaxSteps:   exittime.DefaultMaxSteps,
		Params:     trajectory.DefaultParams(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildShape resolves the shape section into a validated geom.Shape.
func (c *Config) BuildShape() (geom.Shape, error) {
	sc := c.Shape
	center := sc.Center.Point()

	var s geom.Shape
	switch strings.ToLower(sc.Kind) {
	case ShapeCircle:
		s = geom.Circle{Center: center, Radius: sc.Radius}
	case ShapeSquare:
		s = geom.Square(center, sc.Side)
	case ShapeRectangle:
		s = geom.Rectangle(center, sc.Width, sc.Height)
	case ShapeTriangle:
		switch len(sc.Vertices) {
		case 0:
			s = geom.Equilateral(center, sc.TriangleHeight)
		case 3:
			s = geom.Triangle{V0: sc.Vertices[0].Point(), V1: sc.Vertices[1].Point(), V2: sc.Vertices[2].Point()}
		default:
			return nil, fmt.Errorf("%w: triangle needs 3 vertices, got %d", geom.ErrDegenerateShape, len(sc.Vertices))
		}
	default:
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnsupportedShape, sc.Kind, strings.Join(ShapeKinds(), ", "))
	}

	if err := geom.Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

func ShapeKinds() []string {
	return []string{ShapeCircle, ShapeSquare, ShapeRectangle, ShapeTriangle}
}

// Validate checks the whole configuration. It is meant to run before any
// grid work starts.
func (c *Config) Validate() error {
	if _, err := c.BuildShape(); err != nil {
		return err
	}
	if _, err := trajectory.Parse(c.Trajectory); err != nil {
		return err
	}
	if c.Accuracy < 1 || c.Accuracy > exittime.MaxAccuracy {
		return fmt.Errorf("%w: accuracy must be in [1, %d], got %d", ErrInvalidConfig, exittime.MaxAccuracy, c.Accuracy)
	}
	if c.GridSize < 2 {
		return fmt.Errorf("%w: grid size must be at least 2, got %d", ErrInvalidConfig, c.GridSize)
	}
	if !(c.Step > 0) {
		return fmt.Errorf("%w: step must be positive, got %g", ErrInvalidConfig, c.Step)
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("%w: max steps must be at least 1, got %d", ErrInvalidConfig, c.MaxSteps)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if err := c.Params.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Estimator validates c and returns the exit-time estimator it describes.
func (c *Config) Estimator() (*exittime.Estimator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	shape, err := c.BuildShape()
	if err != nil {
		return nil, err
	}
	kind, err := trajectory.Parse(c.Trajectory)
	if err != nil {
		return nil, err
	}
	return exittime.New(shape, kind, exittime.Options{
		Step:     c.Step,
		MaxSteps: c.MaxSteps,
		Params:   c.Params,
	})
}

func (c *Config) Directions() int {
	return exittime.DirectionCount(c.Accuracy)
}

// WorkerCount resolves Workers, where 0 means one per CPU.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Title summarises the run the way the heatmap is captioned.
func (c *Config) Title() string {
	kind := c.Shape.Kind
	if kind != "" {
		kind = strings.ToUpper(kind[:1]) + kind[1:]
	}
	return fmt.Sprintf("Function: %s, Shape: %s, Accuracy: (%d directions, %d points)",
		c.Trajectory, kind, c.Directions(), c.GridSize*c.GridSize)
}
