package export

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/san-kum/gasviz/internal/chart"
)

// SVG is a chart surface that records primitives as SVG elements.
type SVG struct {
	width, height int
	elems         []string
}

func NewSVG(width, height int) *SVG {
	return &SVG{width: width, height: height}
}

func (s *SVG) Size() (int, int) { return s.width, s.height }

// ClearRect paints the rectangle white. Clearing the whole surface drops
// everything recorded so far.
func (s *SVG) ClearRect(x, y, w, h float64) {
	if x <= 0 && y <= 0 && x+w >= float64(s.width) && y+h >= float64(s.height) {
		s.elems = s.elems[:0]
	}
	s.elems = append(s.elems, fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#ffffff"/>`, x, y, w, h))
}

func (s *SVG) FillRect(x, y, w, h float64, c chart.Color) {
	s.elems = append(s.elems, fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`, x, y, w, h, c))
}

func (s *SVG) StrokeLine(x1, y1, x2, y2 float64, c chart.Color) {
	s.elems = append(s.elems, fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`, x1, y1, x2, y2, c))
}

func (s *SVG) Text(x, y float64, text string, c chart.Color, size float64) {
	s.elems = append(s.elems, fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="monospace" font-size="%.0f" fill="%s">%s</text>`,
		x, y, size, c, html.EscapeString(text)))
}

// Len is the number of recorded elements.
func (s *SVG) Len() int { return len(s.elems) }

func (s *SVG) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, s.width, s.height, s.width, s.height))
	for _, e := range s.elems {
		sb.WriteString(e)
		sb.WriteByte('\n')
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// ParticlesToSVG draws particles of the unit square onto a size x size
// image, y pointing up.
func ParticlesToSVG(xs, ys []float64, radius float64, size int, fill chart.Color) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, size, size, size, size, fill))

	scale := float64(size)
	r := max(radius*scale, 0.5)
	for i := range xs {
		if i >= len(ys) {
			break
		}
		cx := xs[i] * scale
		cy := scale - ys[i]*scale
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, r))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
