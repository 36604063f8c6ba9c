// Package exittime estimates how long a particle launched from a point
// stays inside a region.
//
// An [Estimator] binds a shape, a trajectory kind and a time step. It
// advances simulated time in fixed increments until the trajectory leaves
// the shape, and gives up after a maximum number of steps:
//
//	est, _ := exittime.New(shape, trajectory.StraightLine, exittime.DefaultOptions())
//	t, err := est.ExitTime(origin, angle)
//	fan, _ := est.Average(ctx, origin, exittime.DirectionCount(3))
//
// # Non-termination
//
// A direction that is still inside after MaxSteps yields NaN and a
// [*NonTerminatingError]. [Estimator.Average] records the failure in the
// [Fan] and leaves the sample out of the mean.
//
// Estimators are immutable and safe for concurrent use.
package exittime
