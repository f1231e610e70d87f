package filter

import (
	"image"

	"github.com/ironsheep/image-filter-mcp/internal/colormath"
	"github.com/ironsheep/image-filter-mcp/internal/imaging"
	"github.com/ironsheep/image-filter-mcp/internal/orientation"
)

// Frame is one still image of a Raster.
type Frame interface {
	Dimensions() (w, h int)
	// Thumbnail resamples to fit within w x h, preserving aspect ratio.
	Thumbnail(w, h int) error
	// CropThumbnail resamples and center-crops to exactly w x h.
	CropThumbnail(w, h int) error
	// SetPage declares the frame canvas as w x h at offset (x, y).
	SetPage(w, h, x, y int)
	Page() image.Rectangle
}

// Raster is the capability set the pipeline needs from a pixel backend.
type Raster interface {
	Frames() []Frame
	Dimensions() (w, h int)
	SetCompressionQuality(quality int)
	Modulate(brightness, saturation, hue float64) error
	// PixelColor samples the first frame; out-of-range coordinates read the
	// nearest edge pixel.
	PixelColor(x, y int) (colormath.Color, error)
	FrameCanvas(fill colormath.Color, left, top, right, bottom int) error
	SetEncodeFormat(f imaging.Format)
	WriteSingle(path string) error
	WriteMulti(path string) error
	Orientation() orientation.Orientation
	SetOrientation(o orientation.Orientation)
	// Rotate turns clockwise by degrees.
	Rotate(degrees float64) error
	Mirror() error
	Release() error
}

// Loader acquires a Raster from a file.
type Loader func(path string) (Raster, error)

// LoadImage is the default Loader, backed by internal/imaging.
func LoadImage(path string) (Raster, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return nil, err
	}
	return Wrap(img), nil
}

// Wrap adapts an imaging.Image to the Raster interface.
func Wrap(img *imaging.Image) Raster {
	return imagingRaster{img}
}

type imagingRaster struct {
	*imaging.Image
}

func (r imagingRaster) Frames() []Frame {
	frames := r.Image.Frames()
	out := make([]Frame, len(frames))
	for i, f := range frames {
		out[i] = f
	}
	return out
}
