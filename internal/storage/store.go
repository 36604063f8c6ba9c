package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/exitmap/internal/config"
	"github.com/san-kum/exitmap/internal/export"
	"github.com/san-kum/exitmap/internal/field"
)

const (
	metadataFile = "metadata.json"
	configFile   = "config.yaml"
	fieldFile    = "field.csv"
)

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Shape      string        `json:"shape"`
	Trajectory string        `json:"trajectory"`
	Timestamp  time.Time     `json:"timestamp"`
	Accuracy   int           `json:"accuracy"`
	Directions int           `json:"directions"`
	GridSize   int           `json:"grid_size"`
	Step       float64       `json:"step"`
	MaxSteps   int           `json:"max_steps"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Stats      field.Stats   `json:"stats"`
}

// Save writes metadata.json, config.yaml and field.csv into a new run
// directory and returns the run id.
func (s *Store) Save(cfg *config.Config, f *field.Field, elapsed time.Duration) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%s_%d", cfg.Shape.Kind, cfg.Trajectory, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Title:      cfg.Title(),
		Shape:      cfg.Shape.Kind,
		Trajectory: cfg.Trajectory,
		Timestamp:  now,
		Accuracy:   cfg.Accuracy,
		Directions: cfg.Directions(),
		GridSize:   cfg.GridSize,
		Step:       cfg.Step,
		MaxSteps:   cfg.MaxSteps,
		Elapsed:    elapsed,
		Stats:      f.Stats(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, fieldFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := export.WriteCSV(csvFile, f); err != nil {
		return "", err
	}
	return runID, csvFile.Sync()
}

// List returns stored runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

// LoadField reads the stored field and reattaches the run's shape and
// direction count.
func (s *Store) LoadField(runID string) (*field.Field, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, fieldFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := export.ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	cfg, err := s.LoadConfig(runID)
	if err != nil {
		return nil, err
	}
	if f.Shape, err = cfg.BuildShape(); err != nil {
		return nil, err
	}
	f.Directions = cfg.Directions()

	if meta, err := s.Load(runID); err == nil {
		f.Failures = meta.Stats.Failures
	}
	return f, nil
}
