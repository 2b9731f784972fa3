// Package chart draws velocity histograms onto a rectangular drawing surface.
//
// A [Chart] is bound to one [Surface] and one immutable [Layout] at
// construction. Every call to [Chart.Draw] repaints the whole surface from a
// [Frame]: title, horizontal grid with labels, optional zero line, x-axis
// label, integer ticks, bars and an optional reference curve.
//
// # Coordinates
//
// The plot interior is the surface minus the layout padding on all four
// sides. Values map linearly onto it: 0 sits on the bottom edge and
// Frame.MaxValue on the top edge; Frame.Left and Frame.Right map to the left
// and right edges.
//
// # Critical color
//
// The first and last buckets collect out-of-range samples and are always
// drawn in the critical color. A bar taller than the plot is clamped to the
// plot height and drawn in the critical color too.
//
// # Errors
//
// Draw validates the frame before issuing any primitive, so a rejected frame
// leaves the surface untouched.
package chart
