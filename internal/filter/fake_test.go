package filter

import (
	"fmt"
	"image"

	"github.com/ironsheep/image-filter-mcp/internal/colormath"
	"github.com/ironsheep/image-filter-mcp/internal/geometry"
	"github.com/ironsheep/image-filter-mcp/internal/imaging"
	"github.com/ironsheep/image-filter-mcp/internal/orientation"
)

// fakeFrame tracks sizes only.
type fakeFrame struct {
	w, h int
	page image.Rectangle
	fail error
}

func (f *fakeFrame) Dimensions() (int, int) { return f.w, f.h }

func (f *fakeFrame) Thumbnail(w, h int) error {
	if f.fail != nil {
		return f.fail
	}
	d := geometry.FitSize(geometry.Dim(f.w, f.h), geometry.Dim(w, h))
	f.w, f.h = d.Width, d.Height
	return nil
}

func (f *fakeFrame) CropThumbnail(w, h int) error {
	if f.fail != nil {
		return f.fail
	}
	f.w, f.h = w, h
	return nil
}

func (f *fakeFrame) SetPage(w, h, x, y int) { f.page = image.Rect(x, y, x+w, y+h) }

func (f *fakeFrame) Page() image.Rectangle { return f.page }

// fakeRaster records every backend call in order.
type fakeRaster struct {
	frames   []*fakeFrame
	quality  int
	orient   orientation.Orientation
	format   imaging.Format
	colors   func(x, y int) colormath.Color
	calls    []string
	released bool
	failOn   map[string]error
}

func newFakeRaster(w, h, frames int) *fakeRaster {
	r := &fakeRaster{quality: -1, failOn: map[string]error{}}
	for i := 0; i < frames; i++ {
		r.frames = append(r.frames, &fakeFrame{w: w, h: h, page: image.Rect(0, 0, w, h)})
	}
	r.colors = func(x, y int) colormath.Color {
		return colormath.Color{R: uint8(x), G: uint8(y)}
	}
	return r
}

func (r *fakeRaster) record(format string, args ...interface{}) error {
	call := fmt.Sprintf(format, args...)
	r.calls = append(r.calls, call)
	for prefix, err := range r.failOn {
		if len(call) >= len(prefix) && call[:len(prefix)] == prefix {
			return err
		}
	}
	return nil
}

func (r *fakeRaster) Frames() []Frame {
	out := make([]Frame, len(r.frames))
	for i, f := range r.frames {
		out[i] = f
	}
	return out
}

func (r *fakeRaster) Dimensions() (int, int) { return r.frames[0].w, r.frames[0].h }

func (r *fakeRaster) SetCompressionQuality(q int) { r.quality = q }

func (r *fakeRaster) Modulate(b, s, h float64) error {
	return r.record("modulate(%g,%g,%g)", b, s, h)
}

func (r *fakeRaster) PixelColor(x, y int) (colormath.Color, error) {
	if err := r.record("pixel(%d,%d)", x, y); err != nil {
		return colormath.Color{}, err
	}
	return r.colors(x, y), nil
}

func (r *fakeRaster) FrameCanvas(fill colormath.Color, left, top, right, bottom int) error {
	if err := r.record("canvas(%s,%d,%d,%d,%d)", fill.Hex(), left, top, right, bottom); err != nil {
		return err
	}
	for _, f := range r.frames {
		f.w += max(left, 0) + max(right, 0)
		f.h += max(top, 0) + max(bottom, 0)
	}
	return nil
}

func (r *fakeRaster) SetEncodeFormat(f imaging.Format) { r.format = f }

func (r *fakeRaster) WriteSingle(path string) error { return r.record("write_single(%s)", path) }

func (r *fakeRaster) WriteMulti(path string) error { return r.record("write_multi(%s)", path) }

func (r *fakeRaster) Orientation() orientation.Orientation { return r.orient }

func (r *fakeRaster) SetOrientation(o orientation.Orientation) { r.orient = o }

func (r *fakeRaster) Rotate(degrees float64) error {
	if err := r.record("rotate(%g)", degrees); err != nil {
		return err
	}
	if int(degrees)%180 != 0 {
		for _, f := range r.frames {
			f.w, f.h = f.h, f.w
		}
	}
	return nil
}

func (r *fakeRaster) Mirror() error { return r.record("mirror") }

func (r *fakeRaster) Release() error {
	r.released = true
	return r.record("release")
}
