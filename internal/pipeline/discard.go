package pipeline

import "github.com/san-kum/gasviz/internal/chart"

type discardSurface struct{ w, h int }

func (d discardSurface) Size() (int, int)                                       { return d.w, d.h }
func (discardSurface) ClearRect(x, y, w, h float64)                             {}
func (discardSurface) FillRect(x, y, w, h float64, c chart.Color)               {}
func (discardSurface) StrokeLine(x1, y1, x2, y2 float64, c chart.Color)         {}
func (discardSurface) Text(x, y float64, s string, c chart.Color, size float64) {}

// DiscardSurfaces returns surfaces that accept and drop every primitive, for
// sessions whose charts are never looked at.
func DiscardSurfaces() Surfaces {
	s := discardSurface{w: 300, h: 600}
	return Surfaces{Vx: s, Vy: s, AvgVx: s, AvgVy: s}
}
