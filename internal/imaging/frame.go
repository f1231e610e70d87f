package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-filter-mcp/internal/geometry"
)

// Frame is one still image of an Image. Its pixel buffer always starts at
// (0,0); the page rectangle records the declared canvas size and offset.
type Frame struct {
	img   *image.NRGBA
	page  image.Rectangle
	delay int
}

func newFrame(src image.Image, delay int) *Frame {
	img := imaging.Clone(src)
	return &Frame{
		img:   img,
		page:  img.Bounds(),
		delay: delay,
	}
}

// Image returns the frame's pixels.
func (f *Frame) Image() *image.NRGBA {
	return f.img
}

// Dimensions returns the pixel size of the frame.
func (f *Frame) Dimensions() (w, h int) {
	b := f.img.Bounds()
	return b.Dx(), b.Dy()
}

// Delay returns the frame delay in hundredths of a second.
func (f *Frame) Delay() int {
	return f.delay
}

// Page returns the declared canvas rectangle: Min is the offset and the size
// is the canvas width and height.
func (f *Frame) Page() image.Rectangle {
	return f.page
}

// SetPage declares the frame's canvas as w x h placed at (x, y).
func (f *Frame) SetPage(w, h, x, y int) {
	f.page = image.Rect(x, y, x+w, y+h)
}

// Thumbnail resamples the frame so it fits within w x h, preserving the
// aspect ratio. The frame is scaled up when it is smaller than the box.
func (f *Frame) Thumbnail(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid thumbnail size %dx%d", w, h)
	}
	fw, fh := f.Dimensions()
	size := geometry.FitSize(geometry.Dim(fw, fh), geometry.Dim(w, h))
	if !size.Valid() {
		return fmt.Errorf("cannot thumbnail %dx%d frame", fw, fh)
	}
	f.img = imaging.Resize(f.img, size.Width, size.Height, imaging.Lanczos)
	return nil
}

// CropThumbnail scales the frame to cover w x h and crops the overflow
// around the center, leaving exactly w x h pixels.
func (f *Frame) CropThumbnail(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid crop thumbnail size %dx%d", w, h)
	}
	if fw, fh := f.Dimensions(); fw == 0 || fh == 0 {
		return fmt.Errorf("cannot crop thumbnail %dx%d frame", fw, fh)
	}
	f.img = imaging.Fill(f.img, w, h, imaging.Center, imaging.Lanczos)
	f.page = f.img.Bounds()
	return nil
}
