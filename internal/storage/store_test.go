package storage

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/exitmap/internal/config"
	"github.com/san-kum/exitmap/internal/field"
	"github.com/san-kum/exitmap/internal/trajectory"
)

func smallRun(t *testing.T) (*config.Config, *field.Field) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Shape = config.DefaultShape(config.ShapeTriangle)
	cfg.Trajectory = string(trajectory.Exponential)
	cfg.Accuracy = 2
	cfg.GridSize = 7

	f, err := field.Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return cfg, f
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, f := smallRun(t)
	runID, err := st.Save(cfg, f, 3*time.Millisecond)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Shape != config.ShapeTriangle || meta.Trajectory != string(trajectory.Exponential) {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Directions != 4 || meta.GridSize != 7 {
		t.Errorf("expected 4 directions on 7x7, got %d on %d", meta.Directions, meta.GridSize)
	}
	if meta.Stats != f.Stats() {
		t.Errorf("stats mismatch: %+v vs %+v", meta.Stats, f.Stats())
	}

	loaded, err := st.LoadField(runID)
	if err != nil {
		t.Fatalf("load field failed: %v", err)
	}
	if loaded.Size != f.Size || loaded.Directions != f.Directions || loaded.Shape != f.Shape {
		t.Fatalf("field header mismatch: size %d dirs %d shape %v", loaded.Size, loaded.Directions, loaded.Shape)
	}
	for i := range f.Values {
		if loaded.Ys[i] != f.Ys[i] || loaded.Xs[i] != f.Xs[i] {
			t.Fatalf("axis %d mismatch", i)
		}
		for j := range f.Values[i] {
			if loaded.States[i][j] != f.States[i][j] {
				t.Errorf("state (%d,%d): %v vs %v", i, j, loaded.States[i][j], f.States[i][j])
			}
			a, b := loaded.Values[i][j], f.Values[i][j]
			if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
				t.Errorf("value (%d,%d): %v vs %v", i, j, a, b)
			}
		}
	}

	loadedCfg, err := st.LoadConfig(runID)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if loadedCfg.Title() != cfg.Title() {
		t.Errorf("config title %q, want %q", loadedCfg.Title(), cfg.Title())
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	cfg, f := smallRun(t)
	for k := 0; k < 2; k++ {
		if _, err := st.Save(cfg, f, time.Millisecond); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(st.baseDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, f := smallRun(t)
	runID, err := st.Save(cfg, f, time.Millisecond)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{metadataFile, configFile, fieldFile} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}
