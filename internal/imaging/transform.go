package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-filter-mcp/internal/colormath"
)

// Modulate adjusts brightness, saturation and hue of every frame in HSL
// space. All three are percentages where 100 leaves the channel unchanged:
// lightness and saturation are scaled by brightness/100 and saturation/100,
// and hue is rotated by (hue-100)*1.8 degrees, so 0 and 200 both turn it
// half way round. Modulate(100, 0, 100) desaturates.
func (img *Image) Modulate(brightness, saturation, hue float64) error {
	if err := img.check(); err != nil {
		return err
	}
	if brightness < 0 || saturation < 0 {
		return fmt.Errorf("invalid modulation %.1f,%.1f,%.1f", brightness, saturation, hue)
	}
	if brightness == 100 && saturation == 100 && hue == 100 {
		return nil
	}
	shift := (hue - 100) * 1.8
	for _, f := range img.frames {
		modulateNRGBA(f.img, brightness/100, saturation/100, shift)
	}
	return nil
}

func modulateNRGBA(img *image.NRGBA, lScale, sScale, hShift float64) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			px := row[x*4 : x*4+4 : x*4+4]
			c := colorful.Color{
				R: float64(px[0]) / 255.0,
				G: float64(px[1]) / 255.0,
				B: float64(px[2]) / 255.0,
			}
			h, s, l := c.Hsl()
			h = math.Mod(h+hShift, 360)
			if h < 0 {
				h += 360
			}
			s = clampUnit(s * sScale)
			l = clampUnit(l * lScale)
			px[0], px[1], px[2] = colorful.Hsl(h, s, l).Clamped().RGB255()
		}
	}
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// PixelColor returns the color of the first frame at (x, y). Coordinates
// outside the frame are clamped to the nearest edge pixel, so x == width
// reads the rightmost column.
func (img *Image) PixelColor(x, y int) (colormath.Color, error) {
	if err := img.check(); err != nil {
		return colormath.Color{}, err
	}
	w, h := img.Dimensions()
	if w == 0 || h == 0 {
		return colormath.Color{}, fmt.Errorf("cannot sample empty image")
	}
	x = clampInt(x, 0, w-1)
	y = clampInt(y, 0, h-1)
	px := img.frames[0].img.NRGBAAt(x, y)
	return colormath.Color{R: px.R, G: px.G, B: px.B}, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FrameCanvas grows every frame by the given margins, filling the new area
// with fill. Negative margins count as zero.
func (img *Image) FrameCanvas(fill colormath.Color, left, top, right, bottom int) error {
	if err := img.check(); err != nil {
		return err
	}
	left, top = max(left, 0), max(top, 0)
	right, bottom = max(right, 0), max(bottom, 0)
	if left == 0 && top == 0 && right == 0 && bottom == 0 {
		return nil
	}
	for _, f := range img.frames {
		w, h := f.Dimensions()
		dst := imaging.New(w+left+right, h+top+bottom, fill.NRGBA())
		f.img = imaging.Paste(dst, f.img, image.Pt(left, top))
		f.page = f.img.Bounds()
	}
	return nil
}

// Rotate turns every frame clockwise by degrees. Multiples of 90 are exact
// pixel moves; other angles are resampled by bild onto an enlarged,
// transparent canvas.
func (img *Image) Rotate(degrees float64) error {
	if err := img.check(); err != nil {
		return err
	}
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	for _, f := range img.frames {
		switch d {
		case 0:
			continue
		case 90:
			f.img = imaging.Rotate270(f.img)
		case 180:
			f.img = imaging.Rotate180(f.img)
		case 270:
			f.img = imaging.Rotate90(f.img)
		default:
			rotated := transform.Rotate(f.img, d, &transform.RotationOptions{ResizeBounds: true})
			f.img = imaging.Clone(rotated)
		}
		f.page = f.img.Bounds()
	}
	return nil
}

// Mirror flips every frame top to bottom.
func (img *Image) Mirror() error {
	if err := img.check(); err != nil {
		return err
	}
	for _, f := range img.frames {
		f.img = imaging.FlipV(f.img)
	}
	return nil
}
