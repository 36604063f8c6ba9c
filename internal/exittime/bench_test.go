package exittime

import (
	"context"
	"testing"

	"github.com/san-kum/exitmap/internal/geom"
	"github.com/san-kum/exitmap/internal/trajectory"
)

func benchmarkKind(b *testing.B, k trajectory.Kind) {
	est := mustNew(b, circle5, k, DefaultOptions())
	origin := geom.Point{X: 1, Y: -0.5}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = est.ExitTime(origin, 0.3)
	}
}

func BenchmarkStraightLine(b *testing.B) { benchmarkKind(b, trajectory.StraightLine) }
func BenchmarkExponential(b *testing.B)  { benchmarkKind(b, trajectory.Exponential) }
func BenchmarkLogarithmic(b *testing.B)  { benchmarkKind(b, trajectory.Logarithmic) }
func BenchmarkSpiral(b *testing.B)       { benchmarkKind(b, trajectory.Spiral) }

func BenchmarkAverage(b *testing.B) {
	est := mustNew(b, geom.Equilateral(geom.Point{}, 10), trajectory.StraightLine, DefaultOptions())
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = est.Average(ctx, geom.Point{}, DirectionCount(3))
	}
}
