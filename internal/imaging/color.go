package imaging

import (
	"fmt"

	"github.com/ironsheep/image-filter-mcp/internal/colormath"
)

// RGBAColor represents an RGBA color with 8-bit components including alpha.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"` // 0 = fully transparent, 255 = fully opaque
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string          `json:"hex"`
	RGB  colormath.Color `json:"rgb"`
	RGBA RGBAColor       `json:"rgba"`
	HSL  HSLColor        `json:"hsl"`
}

// SampleColor returns the color of the first frame at (x, y).
//
// Unlike PixelColor, coordinates must lie inside the frame; anything outside
// is an error. Components are the frame's un-premultiplied 8-bit values.
func SampleColor(img *Image, x, y int) (*ColorResult, error) {
	if err := img.check(); err != nil {
		return nil, err
	}
	w, h := img.Dimensions()
	if x < 0 || x >= w || y < 0 || y >= h {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	px := img.frames[0].img.NRGBAAt(x, y)
	c := colormath.Color{R: px.R, G: px.G, B: px.B}
	hue, sat, light := c.HSL()

	return &ColorResult{
		Hex:  c.Hex(),
		RGB:  c,
		RGBA: RGBAColor{R: px.R, G: px.G, B: px.B, A: px.A},
		HSL:  HSLColor{H: int(hue), S: int(sat * 100), L: int(light * 100)},
	}, nil
}
