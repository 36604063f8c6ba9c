// Package viz renders exit-time fields in the terminal.
//
//   - [Heatmap]: coloured block heatmap with legend, masked cells left blank
//   - [DirectionProfile], [RowProfile]: asciigraph line plots
//   - [Canvas]: Braille pixel canvas used by [Outline] to draw the shape
//     boundary and sampled trajectories
//
// Colours come from a [Theme], whose ramp runs from short exit times to
// long ones. The default theme is red-yellow-green reversed, so points near
// the boundary are green and points deep inside are red.
package viz
