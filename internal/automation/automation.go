package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/exitmap/internal/config"
	"github.com/san-kum/exitmap/internal/field"
	"github.com/san-kum/exitmap/internal/geom"
	"github.com/san-kum/exitmap/internal/logging"
	"github.com/san-kum/exitmap/internal/storage"
	"gopkg.in/yaml.v3"
)

var ErrUnknownParam = errors.New("automation: unknown sweep parameter")

// Scenario is a scripted batch of field builds.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one field build. Fields left out of the YAML keep the
// values of config.DefaultConfig.
type ScenarioStep struct {
	Name   string         `yaml:"name"`
	Config *config.Config `yaml:"config"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Steps       []struct {
			Name   string    `yaml:"name"`
			Config yaml.Node `yaml:"config"`
		} `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	scenario := &Scenario{Name: raw.Name, Description: raw.Description}
	for i, s := range raw.Steps {
		cfg := config.DefaultConfig()
		if !s.Config.IsZero() {
			if err := s.Config.Decode(cfg); err != nil {
				return nil, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		scenario.Steps = append(scenario.Steps, ScenarioStep{Name: s.Name, Config: cfg})
	}
	return scenario, nil
}

// StepResult pairs a scenario step with its stored run.
type StepResult struct {
	Step    string
	RunID   string
	Stats   field.Stats
	Elapsed time.Duration
}

// RunScenario builds and stores every step in order. Configurations are all
// validated before the first build. On error the results of the completed
// steps are returned with it.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	for i, step := range scenario.Steps {
		if err := step.Config.Validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	results := make([]StepResult, 0, len(scenario.Steps))
	for i, step := range scenario.Steps {
		logger.Info("running step", "step", i+1, "of", len(scenario.Steps), "name", step.Name)

		start := time.Now()
		f, err := field.Build(ctx, step.Config, field.WithLogger(logger))
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		elapsed := time.Since(start)

		runID, err := st.Save(step.Config, f, elapsed)
		if err != nil {
			return results, fmt.Errorf("step %d save: %w", i+1, err)
		}

		results = append(results, StepResult{
			Step:    step.Name,
			RunID:   runID,
			Stats:   f.Stats(),
			Elapsed: elapsed,
		})
	}

	return results, nil
}

// Sweepable parameter names.
const (
	ParamGrowth   = "growth"
	ParamBase     = "base"
	ParamScale    = "scale"
	ParamRadius   = "radius"
	ParamSide     = "side"
	ParamAccuracy = "accuracy"
)

func SweepParams() []string {
	return []string{ParamGrowth, ParamBase, ParamScale, ParamRadius, ParamSide, ParamAccuracy}
}

func setParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case ParamGrowth:
		cfg.Params.GrowthRate = v
	case ParamBase:
		cfg.Params.LogBase = v
	case ParamScale:
		cfg.Params.InverseScale = v
	case ParamRadius:
		cfg.Shape.Radius = v
	case ParamSide:
		cfg.Shape.Side = v
	case ParamAccuracy:
		cfg.Accuracy = int(math.Round(v))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}

// ParameterSweep varies one parameter of Base and measures the mean exit
// time from the shape's centroid at each value.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds one point of a sweep.
type SweepResult struct {
	ParamValue float64
	Origin     geom.Point
	Mean       float64
	StdDev     float64
	Exited     int
	Directions int
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, logger *slog.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("automation: sweep needs at least one step, got %d", sweep.NumSteps)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := *sweep.Base
		if err := setParam(&cfg, sweep.ParamName, paramVal); err != nil {
			return nil, err
		}
		est, err := cfg.Estimator()
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		origin := geom.Centroid(est.Shape())
		fan, err := est.Average(ctx, origin, cfg.Directions())
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Origin:     origin,
			Mean:       fan.Mean,
			StdDev:     fan.StdDev(),
			Exited:     fan.Exited,
			Directions: len(fan.Angles),
		})

		logger.Debug("sweep point", "step", i+1, "of", sweep.NumSteps, sweep.ParamName, paramVal, "mean", fan.Mean)
	}

	return results, nil
}

// MonteCarloConfig samples origins uniformly inside the shape of Base.
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	Seed      int64
}

// MonteCarloResult is the averaged exit time from one random origin.
type MonteCarloResult struct {
	TrialID int
	Origin  geom.Point
	Mean    float64
	Unknown bool
}

// maxRejections bounds rejection sampling per trial.
const maxRejections = 1000

// RunMonteCarlo draws NumTrials origins by rejection sampling the shape's
// bounding box and averages each over the configured directions. A zero
// seed uses the current time.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, logger *slog.Logger) ([]MonteCarloResult, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	est, err := cfg.Base.Estimator()
	if err != nil {
		return nil, err
	}
	shape := est.Shape()
	bounds := geom.Bounds(shape)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		origin, ok := sampleInside(rng, shape, bounds)
		if !ok {
			return results, fmt.Errorf("automation: no interior point found in %d draws", maxRejections)
		}

		fan, err := est.Average(ctx, origin, cfg.Base.Directions())
		if err != nil {
			return results, err
		}

		results = append(results, MonteCarloResult{
			TrialID: trial,
			Origin:  origin,
			Mean:    fan.Mean,
			Unknown: fan.Unknown(),
		})

		if (trial+1)%100 == 0 {
			logger.Info("monte carlo progress", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

func sampleInside(rng *rand.Rand, shape geom.Shape, bounds geom.Rect) (geom.Point, bool) {
	for k := 0; k < maxRejections; k++ {
		p := geom.Point{
			X: bounds.Min.X + rng.Float64()*bounds.Width(),
			Y: bounds.Min.Y + rng.Float64()*bounds.Height(),
		}
		if geom.Contains(shape, p) {
			return p, true
		}
	}
	return geom.Point{}, false
}

// MonteCarloStats averages the known trial means. mean is NaN when every
// trial is unknown.
func MonteCarloStats(results []MonteCarloResult) (mean float64, known, unknown int) {
	sum := 0.0
	for _, r := range results {
		if r.Unknown {
			unknown++
			continue
		}
		known++
		sum += r.Mean
	}
	if known == 0 {
		return math.NaN(), 0, unknown
	}
	return sum / float64(known), known, unknown
}
