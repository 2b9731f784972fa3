package chart

import "math"

// Padding separates the plot interior from the surface edges.
type Padding struct {
	Top, Bottom, Left, Right int
}

func DefaultPadding() Padding {
	return Padding{Top: 30, Bottom: 35, Left: 10, Right: 10}
}

// Geometry maps data coordinates onto surface pixels.
type Geometry struct {
	Width, Height int
	Padding       Padding
}

func (g Geometry) PlotWidth() int {
	return g.Width - g.Padding.Left - g.Padding.Right
}

func (g Geometry) PlotHeight() int {
	return g.Height - g.Padding.Top - g.Padding.Bottom
}

// Bottom is the pixel row of value 0.
func (g Geometry) Bottom() float64 {
	return float64(g.Height - g.Padding.Bottom)
}

// GridY is the pixel row of value on a scale topping out at max.
func (g Geometry) GridY(value, max float64) float64 {
	ah := float64(g.PlotHeight())
	return math.Round(ah*(1-value/max)) + float64(g.Padding.Top)
}

// XPixel is the pixel column of x in the domain [left, right].
func (g Geometry) XPixel(x, left, right float64) float64 {
	aw := float64(g.PlotWidth())
	return float64(g.Padding.Left) + math.Round(aw*(x-left)/(right-left))
}

// BarWidth is the width of one of n equal bars spanning the plot.
func (g Geometry) BarWidth(n int) float64 {
	return float64(g.PlotWidth()) / float64(n)
}

// BarHeight returns the pixel height of value on a scale topping out at max.
// Heights above the plot are clamped and reported as clamped. Negative and
// NaN values give zero height.
func (g Geometry) BarHeight(value, max float64) (height float64, clamped bool) {
	ah := float64(g.PlotHeight())
	h := math.Round(ah * value / max)
	if math.IsNaN(h) || h < 0 {
		return 0, false
	}
	if h > ah {
		return ah, true
	}
	return h, false
}

// CurvePoint maps a reference curve sample into pixels, pinning samples
// outside the plot to its nearest edge.
func (g Geometry) CurvePoint(x, y, left, right, max float64) (px, py float64) {
	xRel := clamp01((x - left) / (right - left))
	yRel := clamp01(y / max)

	px = float64(g.Padding.Left) + math.Round(xRel*float64(g.PlotWidth()))
	py = float64(g.Padding.Top) + math.Round((1-yRel)*float64(g.PlotHeight()))
	return px, py
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
