package chart

import (
	"fmt"
	"math"
	"strconv"
)

const (
	TitleSize = 15
	LabelSize = 10

	titleBaseline = 15
	xLabelInset   = 5
	tickLength    = 5
	tickLabelDrop = 12
	gridLabelGap  = 2

	// Labels assume a fixed-width font: 6px per glyph for axis labels, with
	// tick labels centered on half of that.
	xLabelGlyphWidth = 6
	tickGlyphOffset  = 3
)

// Layout is the immutable per-chart configuration.
type Layout struct {
	Buckets int
	Title   string
	XLabel  string

	GridColor     Color
	TextColor     Color
	BarColor      Color
	CriticalColor Color

	Padding Padding
}

// Curve is an overlay polyline in data coordinates.
type Curve struct {
	X []float64
	Y []float64
}

// Frame is the data for one draw.
type Frame struct {
	Values   []float64
	MaxValue float64
	GridStep float64
	Left     float64
	Right    float64
	Curve    *Curve
}

// Chart renders frames onto its surface.
type Chart struct {
	layout  Layout
	surface Surface
}

// New binds layout to surface. Zero colors and a zero padding take the
// package defaults.
func New(surface Surface, layout Layout) (*Chart, error) {
	if layout.Buckets <= 0 {
		return nil, fmt.Errorf("chart %q: %w: got %d", layout.Title, ErrInvalidLayout, layout.Buckets)
	}

	if layout.GridColor == "" {
		layout.GridColor = DefaultGridColor
	}
	if layout.TextColor == "" {
		layout.TextColor = DefaultTextColor
	}
	if layout.BarColor == "" {
		layout.BarColor = DefaultBarColor
	}
	if layout.CriticalColor == "" {
		layout.CriticalColor = DefaultCriticalColor
	}
	if layout.Padding == (Padding{}) {
		layout.Padding = DefaultPadding()
	}

	c := &Chart{layout: layout, surface: surface}
	g := c.geometry()
	if g.PlotWidth() <= 0 || g.PlotHeight() <= 0 {
		return nil, fmt.Errorf("chart %q: %w: surface %dx%d", layout.Title, ErrSurfaceTooSmall, g.Width, g.Height)
	}
	return c, nil
}

func (c *Chart) Layout() Layout { return c.layout }

func (c *Chart) Geometry() Geometry { return c.geometry() }

func (c *Chart) geometry() Geometry {
	w, h := c.surface.Size()
	return Geometry{Width: w, Height: h, Padding: c.layout.Padding}
}

// Validate checks every precondition of Draw without drawing.
func (c *Chart) Validate(f Frame) error {
	if len(f.Values) != c.layout.Buckets {
		return fmt.Errorf("chart %q: %w: data-size=%d != %d=buckets",
			c.layout.Title, ErrBucketMismatch, len(f.Values), c.layout.Buckets)
	}
	if !(f.Right > f.Left) {
		return fmt.Errorf("chart %q: %w: [%g, %g]", c.layout.Title, ErrInvalidRange, f.Left, f.Right)
	}
	if !(f.MaxValue > 0) || !(f.GridStep > 0) {
		return fmt.Errorf("chart %q: %w: max=%g step=%g", c.layout.Title, ErrInvalidScale, f.MaxValue, f.GridStep)
	}
	if f.Curve != nil {
		if len(f.Curve.X) != len(f.Curve.Y) || len(f.Curve.X) == 0 {
			return fmt.Errorf("chart %q: %w: x.length=%d, y.length=%d",
				c.layout.Title, ErrCurveShape, len(f.Curve.X), len(f.Curve.Y))
		}
	}
	return nil
}

// Draw repaints the surface from f. It returns the number of bars that were
// clamped to the plot height.
func (c *Chart) Draw(f Frame) (clamped int, err error) {
	if err := c.Validate(f); err != nil {
		return 0, err
	}

	g := c.geometry()
	c.surface.ClearRect(0, 0, float64(g.Width), float64(g.Height))

	c.drawTitle()
	c.drawGridLines(g, f)
	c.drawZeroLine(g, f)
	c.drawXLabel(g)
	c.drawTicks(g, f)
	clamped = c.drawBars(g, f)

	if f.Curve != nil {
		c.drawCurve(g, f)
	}
	return clamped, nil
}

func (c *Chart) drawTitle() {
	c.surface.Text(float64(c.layout.Padding.Left), titleBaseline, c.layout.Title, c.layout.TextColor, TitleSize)
}

func (c *Chart) drawGridLines(g Geometry, f Frame) {
	left := float64(g.Padding.Left)
	right := float64(g.Width - g.Padding.Right)

	// Multiples instead of accumulation keep float error out of the last line.
	for k := 0; ; k++ {
		value := float64(k) * f.GridStep
		if value > f.MaxValue {
			break
		}
		y := g.GridY(value, f.MaxValue)

		c.surface.StrokeLine(left, y, right, y, c.layout.GridColor)
		c.surface.Text(left+gridLabelGap, y-gridLabelGap, formatValue(value), c.layout.GridColor, LabelSize)
	}
}

func (c *Chart) drawZeroLine(g Geometry, f Frame) {
	if !(f.Left < 0 && f.Right > 0) {
		return
	}

	x := g.XPixel(0, f.Left, f.Right)
	c.surface.StrokeLine(x, float64(g.Padding.Top), x, g.Bottom(), c.layout.GridColor)
}

func (c *Chart) drawXLabel(g Geometry) {
	text := c.layout.XLabel
	x := float64(g.Padding.Left) + math.Round(float64(g.PlotWidth()-xLabelGlyphWidth*len(text))/2)
	c.surface.Text(x, float64(g.Height-xLabelInset), text, c.layout.TextColor, LabelSize)
}

func (c *Chart) drawTicks(g Geometry, f Frame) {
	y := g.Bottom()

	for x := math.Ceil(f.Left); x <= math.Floor(f.Right); x++ {
		px := g.XPixel(x, f.Left, f.Right)
		c.surface.StrokeLine(px, y, px, y+tickLength, c.layout.GridColor)

		label := formatValue(x)
		c.surface.Text(px-float64(tickGlyphOffset*len(label)), y+tickLength+tickLabelDrop, label, c.layout.GridColor, LabelSize)
	}
}

func (c *Chart) drawBars(g Geometry, f Frame) int {
	n := c.layout.Buckets
	barWidth := g.BarWidth(n)
	clamped := 0

	for i, v := range f.Values {
		h, over := g.BarHeight(v, f.MaxValue)

		color := c.layout.BarColor
		if i == 0 || i == n-1 {
			color = c.layout.CriticalColor
		}
		if over {
			color = c.layout.CriticalColor
			clamped++
		}

		c.surface.FillRect(
			float64(g.Padding.Left)+float64(i)*barWidth,
			g.Bottom()-h,
			barWidth,
			h,
			color,
		)
	}
	return clamped
}

func (c *Chart) drawCurve(g Geometry, f Frame) {
	xs, ys := f.Curve.X, f.Curve.Y

	px0, py0 := g.CurvePoint(xs[0], ys[0], f.Left, f.Right, f.MaxValue)
	for i := 1; i < len(xs); i++ {
		px1, py1 := g.CurvePoint(xs[i], ys[i], f.Left, f.Right, f.MaxValue)
		c.surface.StrokeLine(px0, py0, px1, py1, c.layout.GridColor)
		px0, py0 = px1, py1
	}
}

func formatValue(v float64) string {
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
