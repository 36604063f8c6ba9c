// Package field samples a shape on a regular lattice and records the average
// exit time at every interior lattice point.
//
// A [Field] is built once by a [Builder] and not modified afterwards. Cells
// carry a [CellState]: Inside cells hold a non-negative mean exit time,
// Outside cells and Unknown cells (every direction hit the step bound) hold
// NaN and must be masked by renderers.
//
// # Concurrency
//
// [Builder.Build] fans rows out to a bounded pool of goroutines. Each worker
// writes only its own row, so no locking is needed, and the output does not
// depend on the worker count.
package field
