package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/exitmap/internal/geom"
	"github.com/san-kum/exitmap/internal/trajectory"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Shape.Kind != ShapeCircle {
		t.Errorf("expected circle, got %s", cfg.Shape.Kind)
	}
	if cfg.Step <= 0 {
		t.Error("step should be positive")
	}
	if cfg.Directions() != 8 {
		t.Errorf("expected 8 directions, got %d", cfg.Directions())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestBuildShape(t *testing.T) {
	tests := []struct {
		kind string
		want geom.Shape
	}{
		{ShapeCircle, geom.Circle{Radius: 5}},
		{ShapeSquare, geom.Box{XMin: -5, YMin: -5, XMax: 5, YMax: 5}},
		{ShapeRectangle, geom.Box{XMin: -6, YMin: -4, XMax: 6, YMax: 4}},
		{ShapeTriangle, geom.Equilateral(geom.Point{}, 10)},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Shape = DefaultShape(tt.kind)
		s, err := cfg.BuildShape()
		if err != nil {
			t.Fatalf("%s: %v", tt.kind, err)
		}
		if s != tt.want {
			t.Errorf("%s: got %v, want %v", tt.kind, s, tt.want)
		}
	}
}

func TestBuildShape_Vertices(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shape.Kind = ShapeTriangle
	cfg.Shape.Vertices = []PointConfig{{0, 0}, {4, 0}, {0, 3}}
	s, err := cfg.BuildShape()
	if err != nil {
		t.Fatal(err)
	}
	if s != (geom.Triangle{V0: geom.Point{}, V1: geom.Point{X: 4}, V2: geom.Point{Y: 3}}) {
		t.Errorf("got %v", s)
	}

	cfg.Shape.Vertices = cfg.Shape.Vertices[:2]
	if _, err := cfg.BuildShape(); !errors.Is(err, geom.ErrDegenerateShape) {
		t.Errorf("expected ErrDegenerateShape, got %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"unknown shape", func(c *Config) { c.Shape.Kind = "hexagon" }, ErrUnsupportedShape},
		{"unknown trajectory", func(c *Config) { c.Trajectory = "parabolic" }, trajectory.ErrUnsupportedTrajectory},
		{"zero radius", func(c *Config) { c.Shape.Radius = 0 }, geom.ErrDegenerateShape},
		{"negative side", func(c *Config) { c.Shape.Kind = ShapeSquare; c.Shape.Side = -1 }, geom.ErrDegenerateShape},
		{"collinear", func(c *Config) {
			c.Shape.Kind = ShapeTriangle
			c.Shape.Vertices = []PointConfig{{0, 0}, {1, 1}, {2, 2}}
		}, geom.ErrDegenerateShape},
		{"accuracy zero", func(c *Config) { c.Accuracy = 0 }, ErrInvalidConfig},
		{"accuracy huge", func(c *Config) { c.Accuracy = 40 }, ErrInvalidConfig},
		{"grid one", func(c *Config) { c.GridSize = 1 }, ErrInvalidConfig},
		{"step zero", func(c *Config) { c.Step = 0 }, ErrInvalidConfig},
		{"no steps", func(c *Config) { c.MaxSteps = 0 }, ErrInvalidConfig},
		{"negative workers", func(c *Config) { c.Workers = -2 }, ErrInvalidConfig},
		{"bad base", func(c *Config) { c.Params.LogBase = 1 }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if _, err := cfg.Estimator(); err == nil {
				t.Error("Estimator() should fail on invalid config")
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.Shape = DefaultShape(ShapeTriangle)
	cfg.Shape.Vertices = []PointConfig{{0, 0}, {4, 0}, {0, 3}}
	cfg.Trajectory = string(trajectory.Spiral)
	cfg.Params.GrowthRate = 0.25
	cfg.Workers = 3

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Trajectory != cfg.Trajectory || got.Params.GrowthRate != 0.25 || got.Workers != 3 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Shape.Vertices) != 3 || got.Shape.Vertices[1].X != 4 {
		t.Errorf("vertices lost: %+v", got.Shape.Vertices)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	doc := "shape:\n  kind: square\ntrajectory: spiral\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Shape.Kind != ShapeSquare || cfg.Shape.Side != DefaultSide {
		t.Errorf("shape = %+v", cfg.Shape)
	}
	if cfg.Accuracy != DefaultAccuracy || cfg.GridSize != DefaultGridSize {
		t.Errorf("defaults lost: accuracy=%d grid=%d", cfg.Accuracy, cfg.GridSize)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset(ShapeCircle, "spiral")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Trajectory != string(trajectory.Spiral) {
		t.Errorf("expected spiral, got %s", cfg.Trajectory)
	}

	cfg.GridSize = 999
	if GetPreset(ShapeCircle, "spiral").GridSize == 999 {
		t.Error("GetPreset should return a copy")
	}

	for shape := range Presets {
		for _, name := range ListPresets(shape) {
			if err := GetPreset(shape, name).Validate(); err != nil {
				t.Errorf("preset %s/%s invalid: %v", shape, name, err)
			}
		}
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset(ShapeCircle, "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "default") != nil {
		t.Error("expected nil for nonexistent shape")
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent shape")
	}
}

func TestTitle(t *testing.T) {
	cfg := DefaultConfig()
	want := "Function: straight_line, Shape: Circle, Accuracy: (8 directions, 625 points)"
	if got := cfg.Title(); got != want {
		t.Errorf("Title() = %q, want %q", got, want)
	}
}
