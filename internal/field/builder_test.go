package field_test

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/exitmap/internal/config"
	"github.com/san-kum/exitmap/internal/exittime"
	"github.com/san-kum/exitmap/internal/field"
	"github.com/san-kum/exitmap/internal/geom"
	"github.com/san-kum/exitmap/internal/trajectory"
)

func runConfig(kind string, traj trajectory.Kind, accuracy, grid int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Shape = config.DefaultShape(kind)
	cfg.Trajectory = string(traj)
	cfg.Accuracy = accuracy
	cfg.GridSize = grid
	return cfg
}

func build(cfg *config.Config) *field.Field {
	logger := slog.New(slog.NewTextHandler(GinkgoWriter, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f, err := field.Build(context.Background(), cfg, field.WithLogger(logger))
	Expect(err).NotTo(HaveOccurred())
	return f
}

var _ = Describe("Linspace", func() {
	It("includes both ends exactly", func() {
		Expect(field.Linspace(-5, 5, 3)).To(Equal([]float64{-5, 0, 5}))
		xs := field.Linspace(-10/math.Sqrt(3), 10/math.Sqrt(3), 7)
		Expect(xs[0]).To(Equal(-10 / math.Sqrt(3)))
		Expect(xs[6]).To(Equal(10 / math.Sqrt(3)))
	})
})

var _ = Describe("Build", func() {
	Context("circle of radius 5 with straight lines", func() {
		It("reports the radius as exit time at the centre", func() {
			cfg := runConfig(config.ShapeCircle, trajectory.StraightLine, 1, 3)
			f := build(cfg)

			Expect(f.Xs).To(Equal([]float64{-5, 0, 5}))
			v, ok := f.At(1, 1)
			Expect(ok).To(BeTrue())
			Expect(v).To(BeNumerically("~", 5.0, 2*cfg.Step))
			Expect(f.Directions).To(Equal(2))
		})

		It("masks every lattice point outside the disc", func() {
			cfg := runConfig(config.ShapeCircle, trajectory.StraightLine, 2, 25)
			f := build(cfg)
			shape, err := cfg.BuildShape()
			Expect(err).NotTo(HaveOccurred())

			outside := 0
			for i := range f.States {
				for j := range f.States[i] {
					v, ok := f.At(i, j)
					if geom.Contains(shape, f.Origin(i, j)) {
						Expect(ok).To(BeTrue())
						Expect(v).To(BeNumerically(">=", 0))
						continue
					}
					outside++
					Expect(f.States[i][j]).To(Equal(field.Outside))
					Expect(math.IsNaN(v)).To(BeTrue())
				}
			}
			Expect(outside).To(BeNumerically(">", 0))
			Expect(f.Stats().Outside).To(Equal(outside))
		})
	})

	Context("square [-5,5]^2 with four axis directions", func() {
		It("reports 5 at the centre", func() {
			cfg := runConfig(config.ShapeSquare, trajectory.StraightLine, 2, 3)
			f := build(cfg)

			v, ok := f.At(1, 1)
			Expect(ok).To(BeTrue())
			Expect(v).To(BeNumerically("~", 5.0, 2*cfg.Step))
		})

		It("has no ring of outside cells on the boundary", func() {
			f := build(runConfig(config.ShapeSquare, trajectory.StraightLine, 1, 11))
			st := f.Stats()
			Expect(st.Outside).To(BeZero())
			Expect(st.Inside).To(Equal(121))
		})
	})

	Context("triangle", func() {
		It("classifies cells with the same predicate the estimator uses", func() {
			cfg := runConfig(config.ShapeTriangle, trajectory.StraightLine, 2, 25)
			f := build(cfg)
			shape, err := cfg.BuildShape()
			Expect(err).NotTo(HaveOccurred())

			for i := range f.States {
				for j := range f.States[i] {
					p := f.Origin(i, j)
					Expect(f.States[i][j] == field.Inside).To(Equal(geom.Contains(shape, p)))
				}
			}
			// base corners sit exactly on the lattice corners
			Expect(f.States[0][0]).To(Equal(field.Inside))
			Expect(f.States[0][24]).To(Equal(field.Inside))
		})
	})

	Context("origin special cases", func() {
		DescribeTable("never report zero for interior lattice points",
			func(traj trajectory.Kind) {
				f := build(runConfig(config.ShapeCircle, traj, 2, 9))
				for i := range f.States {
					for j := range f.States[i] {
						if v, ok := f.At(i, j); ok {
							Expect(v).To(BeNumerically(">", 0))
						}
					}
				}
			},
			Entry("inverse", trajectory.Inverse),
			Entry("logarithmic", trajectory.Logarithmic),
		)
	})

	It("is bit-identical across runs and worker counts", func() {
		cfg := runConfig(config.ShapeTriangle, trajectory.Spiral, 3, 15)
		cfg.Workers = 1
		a := build(cfg)
		cfg.Workers = 8
		b := build(cfg)

		Expect(cmp.Diff(a.Values, b.Values, cmpopts.EquateNaNs())).To(BeEmpty())
		Expect(cmp.Diff(a.States, b.States)).To(BeEmpty())
		Expect(cmp.Diff(a.Xs, b.Xs)).To(BeEmpty())
	})

	It("marks cells unknown when every direction hits the step bound", func() {
		// a 4x4 lattice over the disc has only interior points, none of
		// which can reach the boundary in five steps
		cfg := runConfig(config.ShapeCircle, trajectory.StraightLine, 2, 4)
		cfg.MaxSteps = 5
		f := build(cfg)

		st := f.Stats()
		Expect(st.Inside).To(BeZero())
		Expect(st.Unknown).To(Equal(4))
		Expect(f.Failures).To(Equal(16))
		Expect(f.Errors).NotTo(BeEmpty())
		Expect(errors.Is(f.Errors[0], exittime.ErrNonTerminating)).To(BeTrue())

		for i := range f.States {
			for j := range f.States[i] {
				if f.States[i][j] == field.Unknown {
					Expect(math.IsNaN(f.Values[i][j])).To(BeTrue())
				}
			}
		}
	})

	It("fails fast on invalid configuration", func() {
		cfg := runConfig("hexagon", trajectory.StraightLine, 2, 5)
		_, err := field.Build(context.Background(), cfg)
		Expect(err).To(MatchError(config.ErrUnsupportedShape))

		cfg = runConfig(config.ShapeCircle, "zigzag", 2, 5)
		_, err = field.Build(context.Background(), cfg)
		Expect(err).To(MatchError(trajectory.ErrUnsupportedTrajectory))

		cfg = runConfig(config.ShapeCircle, trajectory.StraightLine, 2, 5)
		cfg.Shape.Radius = -1
		_, err = field.Build(context.Background(), cfg)
		Expect(err).To(MatchError(geom.ErrDegenerateShape))
	})

	It("stops when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := field.Build(ctx, runConfig(config.ShapeCircle, trajectory.StraightLine, 3, 9))
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("NewBuilder", func() {
	It("rejects bad arguments", func() {
		est, err := exittime.New(geom.Circle{Radius: 1}, trajectory.StraightLine, exittime.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())

		_, err = field.NewBuilder(nil, 5, 4)
		Expect(err).To(HaveOccurred())
		_, err = field.NewBuilder(est, 1, 4)
		Expect(err).To(HaveOccurred())
		_, err = field.NewBuilder(est, 5, 0)
		Expect(err).To(HaveOccurred())

		b, err := field.NewBuilder(est, 5, 4, field.WithWorkers(2))
		Expect(err).NotTo(HaveOccurred())
		f, err := b.Build(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Size).To(Equal(5))
	})
})

var _ = Describe("Stats", func() {
	It("summarises inside cells only", func() {
		f := field.New([]float64{0, 1}, []float64{0, 1})
		f.States[0][0], f.Values[0][0] = field.Inside, 2
		f.States[0][1], f.Values[0][1] = field.Inside, 4
		f.States[1][0] = field.Unknown

		st := f.Stats()
		Expect(st.Inside).To(Equal(2))
		Expect(st.Unknown).To(Equal(1))
		Expect(st.Outside).To(Equal(1))
		Expect(st.Min).To(Equal(2.0))
		Expect(st.Max).To(Equal(4.0))
		Expect(st.Mean).To(Equal(3.0))
	})

	It("round-trips cell state names", func() {
		for _, s := range []field.CellState{field.Inside, field.Outside, field.Unknown} {
			got, ok := field.ParseCellState(s.String())
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(s))
		}
		_, ok := field.ParseCellState("maybe")
		Expect(ok).To(BeFalse())
	})
})
