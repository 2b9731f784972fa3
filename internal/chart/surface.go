package chart

import "image/color"

// Surface is the set of primitives the renderer needs. Coordinates are in
// pixels with the origin at the top-left corner.
type Surface interface {
	Size() (width, height int)
	ClearRect(x, y, w, h float64)
	FillRect(x, y, w, h float64, c Color)
	StrokeLine(x1, y1, x2, y2 float64, c Color)
	Text(x, y float64, s string, c Color, size float64)
}

// Color is a "#rrggbb" hex string.
type Color string

const (
	DefaultGridColor     Color = "#cccccc"
	DefaultTextColor     Color = "#000000"
	DefaultBarColor      Color = "#000088"
	DefaultCriticalColor Color = "#880000"
)

// RGBA parses c. Malformed colors come back as opaque white.
func (c Color) RGBA() color.RGBA {
	r, g, b := parseHex(string(c))
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	var ok1, ok2, ok3 bool
	r, ok1 = parseHexByte(hex[1:3])
	g, ok2 = parseHexByte(hex[3:5])
	b, ok3 = parseHexByte(hex[5:7])
	if !ok1 || !ok2 || !ok3 {
		return 255, 255, 255
	}
	return r, g, b
}

func parseHexByte(s string) (int, bool) {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		default:
			return 0, false
		}
	}
	return val, true
}
