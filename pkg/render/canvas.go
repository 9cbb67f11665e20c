package render

import (
	"image"
	"image/color"
	"math"

	"blockrender/pkg/css"
)

// Color is one canvas pixel.
type Color struct {
	R, G, B uint8
}

var White = Color{255, 255, 255}

// Canvas is a fixed-size RGB pixel grid in row-major order. Writes outside
// the grid are dropped.
type Canvas struct {
	Width  int
	Height int
	pixels []Color
}

// MaxCanvasDimension bounds each side of a canvas in pixels.
const MaxCanvasDimension = 16384

// NewCanvas returns a white canvas. Non-positive dimensions give an empty
// canvas and each side is clamped to MaxCanvasDimension.
func NewCanvas(width, height int) *Canvas {
	width = clampDimension(width)
	height = clampDimension(height)
	c := &Canvas{Width: width, Height: height, pixels: make([]Color, width*height)}
	c.Clear(White)
	return c
}

func clampDimension(n int) int {
	return max(0, min(n, MaxCanvasDimension))
}

func (c *Canvas) Clear(col Color) {
	for i := range c.pixels {
		c.pixels[i] = col
	}
}

// Pixel returns the pixel at (x, y), or white outside the canvas.
func (c *Canvas) Pixel(x, y int) Color {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return White
	}
	return c.pixels[y*c.Width+x]
}

func (c *Canvas) SetPixel(x, y int, col Color) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.pixels[y*c.Width+x] = col
}

// FillRect paints a rectangle given in layout coordinates. Edges round to
// the nearest pixel, the result is clipped to the canvas, and partially
// transparent colors blend over what is already there.
func (c *Canvas) FillRect(x, y, width, height float64, col css.Color) {
	if col.A == 0 {
		return
	}
	x0, ok0 := clampCoord(x, c.Width)
	x1, ok1 := clampCoord(x+width, c.Width)
	y0, ok2 := clampCoord(y, c.Height)
	y1, ok3 := clampCoord(y+height, c.Height)
	if !ok0 || !ok1 || !ok2 || !ok3 {
		return
	}
	for py := y0; py < y1; py++ {
		row := c.pixels[py*c.Width : (py+1)*c.Width]
		for px := x0; px < x1; px++ {
			row[px] = blend(row[px], col)
		}
	}
}

// clampCoord rounds a layout coordinate to a pixel edge within [0, limit].
// NaN reports false.
func clampCoord(v float64, limit int) (int, bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	v = math.Round(v)
	switch {
	case v <= 0:
		return 0, true
	case v >= float64(limit):
		return limit, true
	}
	return int(v), true
}

func blend(dst Color, src css.Color) Color {
	if src.Opaque() {
		return Color{src.R, src.G, src.B}
	}
	a := uint32(src.A)
	mix := func(d, s uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*(255-a) + 127) / 255)
	}
	return Color{mix(dst.R, src.R), mix(dst.G, src.G), mix(dst.B, src.B)}
}

// ColorModel, Bounds and At make the canvas an image.Image for the PNG and
// BMP encoders.
func (c *Canvas) ColorModel() color.Model { return color.RGBAModel }

func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.Width, c.Height) }

func (c *Canvas) At(x, y int) color.Color {
	p := c.Pixel(x, y)
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: 255}
}
