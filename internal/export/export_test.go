package export

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/san-kum/gasviz/internal/chart"
)

var (
	_ chart.Surface = (*SVG)(nil)
	_ chart.Surface = (*Raster)(nil)
)

func drawSample(t *testing.T, s chart.Surface) {
	t.Helper()
	c, err := chart.New(s, chart.Layout{Buckets: 5, Title: "Distribution of v_x", XLabel: "x"})
	if err != nil {
		t.Fatalf("chart.New: %v", err)
	}
	_, err = c.Draw(chart.Frame{
		Values:   []float64{1, 4, 9, 4, 1},
		MaxValue: 10,
		GridStep: 1,
		Left:     -3,
		Right:    3,
		Curve:    &chart.Curve{X: []float64{-3, 0, 3}, Y: []float64{0, 8, 0}},
	})
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
}

func TestSVGSurface(t *testing.T) {
	s := NewSVG(300, 600)
	drawSample(t, s)

	out := s.String()
	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>\n") {
		t.Error("SVG document not well framed")
	}
	if !strings.Contains(out, "Distribution of v_x") {
		t.Error("title missing from SVG")
	}
	if !strings.Contains(out, `fill="#000088"`) {
		t.Error("expected bar color in SVG")
	}
	if !strings.Contains(out, `<line`) {
		t.Error("expected grid lines in SVG")
	}
}

func TestSVGFullClearDropsHistory(t *testing.T) {
	s := NewSVG(100, 100)
	s.FillRect(0, 0, 10, 10, "#ff0000")
	s.FillRect(0, 0, 10, 10, "#ff0000")
	s.ClearRect(0, 0, 100, 100)
	if s.Len() != 1 {
		t.Errorf("expected only the clear rect, got %d elements", s.Len())
	}

	s.ClearRect(10, 10, 5, 5)
	if s.Len() != 2 {
		t.Errorf("partial clear should append, got %d elements", s.Len())
	}
}

func TestSVGEscapesText(t *testing.T) {
	s := NewSVG(100, 100)
	s.Text(0, 10, "a<b & c", "#000000", 10)
	if !strings.Contains(s.String(), "a&lt;b &amp; c") {
		t.Errorf("text not escaped: %s", s.String())
	}
}

func TestRasterFillAndClear(t *testing.T) {
	r := NewRaster(50, 40)
	w, h := r.Size()
	if w != 50 || h != 40 {
		t.Fatalf("expected 50x40, got %dx%d", w, h)
	}

	white := color.RGBA{255, 255, 255, 255}
	if got := r.Image().RGBAAt(10, 10); got != white {
		t.Errorf("new raster should be white, got %v", got)
	}

	r.FillRect(5, 5, 10, 10, "#880000")
	if got := r.Image().RGBAAt(10, 10); got != (color.RGBA{0x88, 0, 0, 255}) {
		t.Errorf("expected critical color, got %v", got)
	}
	if got := r.Image().RGBAAt(20, 20); got != white {
		t.Errorf("pixel outside rect changed: %v", got)
	}

	r.ClearRect(0, 0, 50, 40)
	if got := r.Image().RGBAAt(10, 10); got != white {
		t.Errorf("clear failed: %v", got)
	}
}

func TestRasterStrokeLine(t *testing.T) {
	r := NewRaster(20, 20)
	r.StrokeLine(0, 0, 19, 19, "#000000")

	black := color.RGBA{0, 0, 0, 255}
	for i := 0; i < 20; i++ {
		if got := r.Image().RGBAAt(i, i); got != black {
			t.Fatalf("diagonal pixel %d not set: %v", i, got)
		}
	}

	// Off-image endpoints are clipped, not a panic.
	r.StrokeLine(-10, 5, 30, 5, "#000000")
	if got := r.Image().RGBAAt(0, 5); got != black {
		t.Errorf("clipped line missing at left edge: %v", got)
	}
}

func TestRasterText(t *testing.T) {
	r := NewRaster(60, 20)
	r.Text(2, 15, "42", "#000000", 10)

	dark := 0
	b := r.Image().Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r.Image().RGBAAt(x, y).R < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("expected text pixels")
	}
}

func TestRasterEncodePNG(t *testing.T) {
	r := NewRaster(300, 600)
	drawSample(t, r)

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 600 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}
}

func TestCombine(t *testing.T) {
	a, b, c := NewRaster(10, 10), NewRaster(10, 10), NewRaster(10, 10)
	b.FillRect(0, 0, 10, 10, "#000088")

	out := Combine(2, a, b, c)
	if out.Bounds().Dx() != 20 || out.Bounds().Dy() != 20 {
		t.Fatalf("expected 20x20, got %v", out.Bounds())
	}
	if got := out.RGBAAt(15, 5); got != (color.RGBA{0, 0, 0x88, 255}) {
		t.Errorf("second cell not copied: %v", got)
	}

	if Combine(0, a).Bounds().Dx() != 0 {
		t.Error("expected empty image for zero columns")
	}
}

func TestParticlesToSVG(t *testing.T) {
	svg := ParticlesToSVG([]float64{0.5, 0.1}, []float64{0.5, 0.9}, 0.01, 200, "#00ff00")
	if strings.Count(svg, "<circle") != 2 {
		t.Errorf("expected 2 circles, got %s", svg)
	}
	if !strings.Contains(svg, `cx="100.0" cy="100.0"`) {
		t.Error("center particle misplaced")
	}
	if !strings.Contains(svg, `cx="20.0" cy="20.0"`) {
		t.Error("y axis should point up")
	}
}
