package config

import (
	"sort"

	"github.com/san-kum/exitmap/internal/trajectory"
)

func preset(kind string, traj trajectory.Kind, accuracy, grid int) *Config {
	cfg := DefaultConfig()
	cfg.Shape = DefaultShape(kind)
	cfg.Trajectory = string(traj)
	cfg.Accuracy = accuracy
	cfg.GridSize = grid
	return cfg
}

var Presets = map[string]map[string]*Config{
	ShapeCircle: {
		"default":     preset(ShapeCircle, trajectory.StraightLine, 3, 25),
		"fine":        preset(ShapeCircle, trajectory.StraightLine, 5, 61),
		"spiral":      preset(ShapeCircle, trajectory.Spiral, 3, 25),
		"exponential": preset(ShapeCircle, trajectory.Exponential, 4, 25),
	},
	ShapeSquare: {
		"default":     preset(ShapeSquare, trajectory.StraightLine, 3, 25),
		"logarithmic": preset(ShapeSquare, trajectory.Logarithmic, 3, 25),
	},
	ShapeTriangle: {
		"default": preset(ShapeTriangle, trajectory.StraightLine, 3, 25),
		"inverse": preset(ShapeTriangle, trajectory.Inverse, 2, 25),
	},
	ShapeRectangle: {
		"default": preset(ShapeRectangle, trajectory.StraightLine, 3, 25),
		"spiral":  preset(ShapeRectangle, trajectory.Spiral, 4, 31),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(shape, name string) *Config {
	shapePresets, ok := Presets[shape]
	if !ok {
		return nil
	}
	cfg, ok := shapePresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(shape string) []string {
	shapePresets, ok := Presets[shape]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(shapePresets))
	for name := range shapePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
