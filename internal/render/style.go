package render

import (
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Colors used by the meteogram.
var (
	Magenta   = drawing.Color{R: 191, G: 0, B: 191, A: 255}
	Red       = drawing.Color{R: 255, G: 0, B: 0, A: 255}
	Green     = drawing.Color{R: 0, G: 128, B: 0, A: 255}
	Blue      = drawing.Color{R: 0, G: 0, B: 255, A: 255}
	Black     = drawing.Color{R: 0, G: 0, B: 0, A: 255}
	White     = drawing.Color{R: 255, G: 255, B: 255, A: 255}
	Goldenrod = drawing.Color{R: 218, G: 165, B: 32, A: 255}
	DarkGray  = drawing.Color{R: 26, G: 26, B: 26, A: 255}
	GridGray  = drawing.Color{R: 176, G: 176, B: 176, A: 255}
)

// WithOpacity returns c with its alpha channel set to opacity in [0, 1].
func WithOpacity(c drawing.Color, opacity float64) drawing.Color {
	switch {
	case opacity <= 0:
		c.A = 0
	case opacity >= 1:
		c.A = 255
	default:
		c.A = uint8(opacity*255 + 0.5)
	}
	return c
}
