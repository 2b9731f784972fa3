package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gasviz/internal/chart"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBase = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells, each carrying one foreground color and
// optionally a text rune that hides the dots underneath.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]chart.Color
	Text          [][]rune
	Background    chart.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid and clears it.
func (c *Canvas) Resize(w, h int) {
	c.Width, c.Height = w, h
	c.Grid = make([][]rune, h)
	c.Colors = make([][]chart.Color, h)
	c.Text = make([][]rune, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]chart.Color, w)
		c.Text[i] = make([]rune, w)
	}
	c.Clear()
}

// SubWidth and SubHeight are the canvas size in dots.
func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set lights the dot at (x, y) and recolors its cell.
func (c *Canvas) Set(x, y int, col chart.Color) {
	if x < 0 || y < 0 {
		return
	}
	row, cell := y/4, x/2
	if cell >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][cell] |= pixelMap[y%4][x%2]
	if col != "" {
		c.Colors[row][cell] = col
	}
}

func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	row, cell := y/4, x/2
	if cell >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][cell] &^= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
			c.Colors[i][j] = ""
			c.Text[i][j] = 0
		}
	}
}

// PutText writes s into the cells starting at (col, row). Text outside the
// grid is dropped.
func (c *Canvas) PutText(col, row int, s string, color chart.Color) {
	if row < 0 || row >= c.Height {
		return
	}
	for _, r := range s {
		if col >= 0 && col < c.Width {
			c.Text[row][col] = r
			c.Colors[row][col] = color
		}
		col++
	}
}

// DrawLine draws a line in dot coordinates using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col chart.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// String renders the grid without colors.
func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			if t := c.Text[i][j]; t != 0 {
				r = t
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render renders the grid with lipgloss, grouping runs of equal color.
func (c *Canvas) Render() string {
	base := lipgloss.NewStyle()
	if c.Background != "" {
		base = base.Background(lipgloss.Color(c.Background))
	}

	var b strings.Builder
	for i, row := range c.Grid {
		var run strings.Builder
		runColor := chart.Color("")
		flush := func() {
			if run.Len() == 0 {
				return
			}
			st := base
			if runColor != "" {
				st = st.Foreground(lipgloss.Color(runColor))
			}
			b.WriteString(st.Render(run.String()))
			run.Reset()
		}

		for j, r := range row {
			if t := c.Text[i][j]; t != 0 {
				r = t
			}
			if col := c.Colors[i][j]; col != runColor {
				flush()
				runColor = col
			}
			run.WriteRune(r)
		}
		flush()
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

const (
	// Logical pixels per terminal cell, roughly the aspect of a terminal
	// glyph. Chart text assumes 6px wide glyphs so labels fit.
	cellPixelsX = 8
	cellPixelsY = 16
)

// ChartCanvas adapts a Canvas to chart.Surface. Charts draw in logical
// pixels, cellPixelsX by cellPixelsY per cell.
type ChartCanvas struct {
	*Canvas
}

func NewChartCanvas(cols, rows int) *ChartCanvas {
	return &ChartCanvas{Canvas: NewCanvas(cols, rows)}
}

func (cc *ChartCanvas) Size() (int, int) {
	return cc.Width * cellPixelsX, cc.Height * cellPixelsY
}

func (cc *ChartCanvas) toDots(x, y float64) (int, int) {
	sx := x * 2 / cellPixelsX
	sy := y * 4 / cellPixelsY
	return int(math.Floor(sx)), int(math.Floor(sy))
}

func (cc *ChartCanvas) ClearRect(x, y, w, h float64) {
	x0, y0 := cc.toDots(x, y)
	x1, y1 := cc.toDots(x+w, y+h)
	for sy := max(0, y0); sy < min(y1, cc.SubHeight()); sy++ {
		for sx := max(0, x0); sx < min(x1, cc.SubWidth()); sx++ {
			cc.Unset(sx, sy)
		}
	}
	// Whole cells inside the rectangle also lose text and color.
	for row := max(0, (y0+3)/4); row < min(y1/4, cc.Height); row++ {
		for col := max(0, (x0+1)/2); col < min(x1/2, cc.Width); col++ {
			cc.Canvas.Text[row][col] = 0
			cc.Colors[row][col] = ""
		}
	}
}

// FillRect lights every dot whose top-left corner lies inside the
// rectangle. Rectangles thinner than a dot still light one column or row.
func (cc *ChartCanvas) FillRect(x, y, w, h float64, col chart.Color) {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	if h == 0 {
		return
	}
	x0, y0 := cc.toDots(x, y)
	x1, y1 := cc.toDots(x+w, y+h)
	x1, y1 = max(x1, x0+1), max(y1, y0+1)
	for sy := y0; sy < y1; sy++ {
		for sx := x0; sx < x1; sx++ {
			cc.Set(sx, sy, col)
		}
	}
}

func (cc *ChartCanvas) StrokeLine(x1, y1, x2, y2 float64, col chart.Color) {
	ax, ay := cc.toDots(x1, y1)
	bx, by := cc.toDots(x2, y2)
	cc.DrawLine(ax, ay, bx, by, col)
}

// Text places s with its baseline at y, one rune per cell.
func (cc *ChartCanvas) Text(x, y float64, s string, col chart.Color, size float64) {
	row := int(math.Floor((y - 1) / cellPixelsY))
	cell := int(math.Floor(x / cellPixelsX))
	cc.PutText(cell, row, s, col)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
