package field

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/san-kum/exitmap/internal/config"
	"github.com/san-kum/exitmap/internal/exittime"
	"github.com/san-kum/exitmap/internal/geom"
	"github.com/san-kum/exitmap/internal/logging"
	"golang.org/x/sync/errgroup"
)

// maxRecordedFailures caps how many non-termination errors a build keeps.
const maxRecordedFailures = 32

// Builder samples an Estimator over a size x size lattice covering the
// shape's bounding box.
type Builder struct {
	est        *exittime.Estimator
	size       int
	directions int
	workers    int
	logger     *slog.Logger
}

type Option func(*Builder)

// WithWorkers bounds the number of rows processed concurrently. Values below
// one mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(b *Builder) { b.workers = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder returns a Builder averaging directions rays per inside cell.
func NewBuilder(est *exittime.Estimator, size, directions int, opts ...Option) (*Builder, error) {
	if est == nil {
		return nil, fmt.Errorf("field: nil estimator")
	}
	if size < 2 {
		return nil, fmt.Errorf("field: grid size must be at least 2, got %d", size)
	}
	if directions < 1 {
		return nil, fmt.Errorf("field: direction count must be positive, got %d", directions)
	}

	b := &Builder{
		est:        est,
		size:       size,
		directions: directions,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.workers < 1 {
		b.workers = runtime.GOMAXPROCS(0)
	}
	return b, nil
}

// Build validates cfg and samples the field it describes.
func Build(ctx context.Context, cfg *config.Config, opts ...Option) (*Field, error) {
	est, err := cfg.Estimator()
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithWorkers(cfg.WorkerCount())}, opts...)
	b, err := NewBuilder(est, cfg.GridSize, cfg.Directions(), opts...)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx)
}

// Build samples every lattice point of the shape's bounding box. It returns
// ctx.Err() if the context is canceled before all rows finish.
func (b *Builder) Build(ctx context.Context) (*Field, error) {
	shape := b.est.Shape()
	bounds := geom.Bounds(shape)
	f := newField(b.size,
		Linspace(bounds.Min.X, bounds.Max.X, b.size),
		Linspace(bounds.Min.Y, bounds.Max.Y, b.size),
	)
	f.Shape = shape
	f.Directions = b.directions

	b.logger.Info("building field",
		"kind", string(shape.Kind()),
		"shape", shape.String(),
		"trajectory", string(b.est.Kind()),
		"grid", b.size,
		"directions", b.directions,
		"workers", b.workers,
	)
	start := time.Now()

	rowFailures := make([][]error, b.size)
	rowCounts := make([]int, b.size)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i := 0; i < b.size; i++ {
		g.Go(func() error {
			n, errs, err := b.fillRow(gctx, f, i)
			if err != nil {
				return err
			}
			rowCounts[i] = n
			rowFailures[i] = errs
			b.logger.Log(gctx, logging.LevelTrace, "row done", "row", i, "y", f.Ys[i], "failures", n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		b.logger.Warn("field build aborted", "err", err)
		return nil, err
	}

	for i := range rowCounts {
		f.Failures += rowCounts[i]
		for _, err := range rowFailures[i] {
			if len(f.Errors) < maxRecordedFailures {
				f.Errors = append(f.Errors, err)
			}
		}
	}

	st := f.Stats()
	attrs := []any{
		"inside", st.Inside,
		"outside", st.Outside,
		"unknown", st.Unknown,
		"elapsed", time.Since(start),
	}
	if f.Failures > 0 {
		b.logger.Warn("directions did not exit", append(attrs, "failures", f.Failures)...)
	} else {
		b.logger.Info("field built", attrs...)
	}
	return f, nil
}

// fillRow computes row i. Only f.Values[i] and f.States[i] are written.
func (b *Builder) fillRow(ctx context.Context, f *Field, i int) (int, []error, error) {
	shape := b.est.Shape()
	failures := 0
	var errs []error

	for j := range f.Xs {
		origin := f.Origin(i, j)
		if !geom.Contains(shape, origin) {
			continue
		}

		fan, err := b.est.Average(ctx, origin, b.directions)
		if err != nil {
			return 0, nil, err
		}
		failures += len(fan.Failures)
		if len(errs) < maxRecordedFailures {
			errs = append(errs, fan.Failures...)
		}

		if fan.Unknown() {
			f.States[i][j] = Unknown
			continue
		}
		f.States[i][j] = Inside
		f.Values[i][j] = fan.Mean
	}
	return failures, errs, nil
}
