// Package geom provides the planar geometry used by the exit-time sampler.
//
// A [Shape] is a closed, bounded region of the plane. The set of shapes is
// closed: [Circle], [Box] and [Triangle] are the only implementations, and
// each carries its own typed parameters.
//
//   - [Contains] decides whether a point lies in a shape (boundary included)
//   - [Bounds] returns the tight axis-aligned bounding box
//   - [Validate] rejects degenerate parameters
//   - [Outline] returns boundary vertices for overlay drawing
//
// All functions are pure and safe for concurrent use.
package geom
