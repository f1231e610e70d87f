package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"

	"github.com/ironsheep/image-filter-mcp/internal/orientation"
)

// DefaultQuality is the compression quality an Image starts with.
const DefaultQuality = 90

// ErrReleased is returned by every Image operation after Release.
var ErrReleased = errors.New("imaging: image has been released")

// Image is a decoded raster made of one or more frames.
//
// The orientation tag and compression quality are carried alongside the
// pixels; neither is applied to the pixel data by the backend itself.
type Image struct {
	frames      []*Frame
	loopCount   int
	quality     int
	format      Format
	orientation orientation.Orientation
	released    bool
}

// Load opens and decodes the image file at path. The encode format defaults
// to the one implied by the file extension, falling back to the format
// detected from the file contents.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}
	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if f, err := FormatFromPath(path); err == nil {
		img.format = f
	}
	return img, nil
}

// Decode reads an image from r. GIF input keeps every frame; other formats
// decode to a single frame. The EXIF orientation tag is read but not applied.
func Decode(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read image")
	}

	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}

	img := &Image{quality: DefaultQuality}
	if f, err := ParseFormat(name); err == nil {
		img.format = f
	}

	if name == "gif" {
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, "failed to decode gif")
		}
		img.frames = coalesce(g)
		img.loopCount = g.LoopCount
	} else {
		src, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(err, "failed to decode image")
		}
		img.frames = []*Frame{newFrame(src, 0)}
		img.orientation = readOrientation(bytes.NewReader(data))
	}

	if len(img.frames) == 0 {
		return nil, errors.New("failed to decode image: no frames")
	}
	return img, nil
}

// FromImage wraps an in-memory image as a single-frame Image with PNG as the
// encode format.
func FromImage(src image.Image) *Image {
	return &Image{
		frames:  []*Frame{newFrame(src, 0)},
		quality: DefaultQuality,
		format:  PNG,
	}
}

// FromFrames builds an animated Image from in-memory frames. delays are in
// hundredths of a second and may be shorter than frames.
func FromFrames(srcs []image.Image, delays []int) *Image {
	img := &Image{quality: DefaultQuality, format: GIF}
	for i, src := range srcs {
		var delay int
		if i < len(delays) {
			delay = delays[i]
		}
		img.frames = append(img.frames, newFrame(src, delay))
	}
	return img
}

// coalesce composes each GIF image block onto the logical screen, honoring
// the disposal method of the previous block, so that every frame is a full
// canvas.
func coalesce(g *gif.GIF) []*Frame {
	screen := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if screen.Empty() {
		for _, p := range g.Image {
			screen = screen.Union(p.Bounds())
		}
		screen.Min = image.Point{}
	}

	canvas := image.NewNRGBA(screen)
	frames := make([]*Frame, 0, len(g.Image))
	for i, p := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		var previous *image.NRGBA
		if disposal == gif.DisposalPrevious {
			previous = imaging.Clone(canvas)
		}

		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)

		var delay int
		if i < len(g.Delay) {
			delay = g.Delay[i]
		}
		frames = append(frames, newFrame(canvas, delay))

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, p.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}
	return frames
}

func readOrientation(r io.Reader) orientation.Orientation {
	x, err := exif.Decode(r)
	if err != nil {
		// PNG, BMP and JPEG files without an EXIF block land here.
		return orientation.Undefined
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return orientation.Undefined
	}
	v, err := tag.Int(0)
	if err != nil {
		return orientation.Undefined
	}
	if o := orientation.Orientation(v); o.Valid() {
		return o
	}
	return orientation.Undefined
}

// Frames returns the frames in display order. The slice is shared with the
// image; callers must not retain it past Release.
func (img *Image) Frames() []*Frame {
	return img.frames
}

// Dimensions returns the pixel size of the first frame.
func (img *Image) Dimensions() (w, h int) {
	if img.released || len(img.frames) == 0 {
		return 0, 0
	}
	return img.frames[0].Dimensions()
}

// Format returns the current encode format.
func (img *Image) Format() Format {
	return img.format
}

// SetEncodeFormat changes the format used by WriteSingle and WriteMulti.
func (img *Image) SetEncodeFormat(f Format) {
	img.format = f
}

// Quality returns the current compression quality hint.
func (img *Image) Quality() int {
	return img.quality
}

// SetCompressionQuality sets the quality hint used when encoding lossy
// formats. Values are clamped to [0,100].
func (img *Image) SetCompressionQuality(q int) {
	if q < 0 {
		q = 0
	}
	if q > 100 {
		q = 100
	}
	img.quality = q
}

// Orientation returns the EXIF orientation tag carried by the image.
func (img *Image) Orientation() orientation.Orientation {
	return img.orientation
}

// SetOrientation replaces the orientation tag. The pixels are not touched.
func (img *Image) SetOrientation(o orientation.Orientation) {
	img.orientation = o
}

// Released reports whether Release has been called.
func (img *Image) Released() bool {
	return img.released
}

// Release drops the pixel buffers. Every later operation fails with
// ErrReleased, including a second Release.
func (img *Image) Release() error {
	if img.released {
		return ErrReleased
	}
	img.released = true
	img.frames = nil
	return nil
}

func (img *Image) check() error {
	if img.released {
		return ErrReleased
	}
	return nil
}

// Info is a summary of an image's state.
type Info struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Frames      int    `json:"frames"`
	Format      string `json:"format"`
	Quality     int    `json:"quality"`
	Orientation string `json:"orientation"`
}

// Info returns a summary of the image.
func (img *Image) Info() (*Info, error) {
	if err := img.check(); err != nil {
		return nil, err
	}
	w, h := img.Dimensions()
	return &Info{
		Width:       w,
		Height:      h,
		Frames:      len(img.frames),
		Format:      img.format.String(),
		Quality:     img.quality,
		Orientation: img.orientation.String(),
	}, nil
}

func (img *Image) String() string {
	w, h := img.Dimensions()
	return fmt.Sprintf("%s %dx%d (%d frames)", img.format, w, h, len(img.frames))
}
