package export

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/gasviz/internal/chart"
)

// Raster is a chart surface backed by an RGBA image. Text uses the fixed
// 7x13 face whatever size is asked for.
type Raster struct {
	img  *image.RGBA
	face font.Face
}

func NewRaster(width, height int) *Raster {
	r := &Raster{
		img:  image.NewRGBA(image.Rect(0, 0, width, height)),
		face: basicfont.Face7x13,
	}
	r.ClearRect(0, 0, float64(width), float64(height))
	return r
}

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) ClearRect(x, y, w, h float64) {
	r.fill(x, y, w, h, color.RGBA{R: 255, G: 255, B: 255, A: 255})
}

func (r *Raster) FillRect(x, y, w, h float64, c chart.Color) {
	r.fill(x, y, w, h, c.RGBA())
}

func (r *Raster) fill(x, y, w, h float64, c color.RGBA) {
	rect := image.Rect(
		int(math.Round(x)), int(math.Round(y)),
		int(math.Round(x+w)), int(math.Round(y+h)),
	).Canon()
	draw.Draw(r.img, rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// StrokeLine draws a one pixel line with Bresenham's algorithm.
func (r *Raster) StrokeLine(x1, y1, x2, y2 float64, c chart.Color) {
	col := c.RGBA()
	ax, ay := int(math.Round(x1)), int(math.Round(y1))
	bx, by := int(math.Round(x2)), int(math.Round(y2))

	dx := abs(bx - ax)
	dy := -abs(by - ay)
	sx, sy := 1, 1
	if ax > bx {
		sx = -1
	}
	if ay > by {
		sy = -1
	}
	err := dx + dy

	bounds := r.img.Bounds()
	for {
		if image.Pt(ax, ay).In(bounds) {
			r.img.SetRGBA(ax, ay, col)
		}
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			ax += sx
		}
		if e2 <= dx {
			err += dx
			ay += sy
		}
	}
}

// Text draws s with its baseline at y.
func (r *Raster) Text(x, y float64, s string, c chart.Color, size float64) {
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c.RGBA()),
		Face: r.face,
		Dot:  fixed.Point26_6{X: fixed.I(int(math.Round(x))), Y: fixed.I(int(math.Round(y)))},
	}
	d.DrawString(s)
}

func (r *Raster) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

// Combine lays out rasters left to right, top to bottom in a grid of cols
// columns. Cells take the size of the largest raster.
func Combine(cols int, rasters ...*Raster) *image.RGBA {
	if cols <= 0 || len(rasters) == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	cw, ch := 0, 0
	for _, r := range rasters {
		w, h := r.Size()
		cw, ch = max(cw, w), max(ch, h)
	}
	rows := (len(rasters) + cols - 1) / cols
	out := image.NewRGBA(image.Rect(0, 0, cw*min(cols, len(rasters)), ch*rows))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)

	for i, r := range rasters {
		at := image.Pt((i%cols)*cw, (i/cols)*ch)
		draw.Draw(out, r.img.Bounds().Add(at), r.img, image.Point{}, draw.Src)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
