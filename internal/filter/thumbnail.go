package filter

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ironsheep/image-filter-mcp/internal/geometry"
)

// DefaultQuality is the compression quality used when a caller has no
// preference.
const DefaultQuality = 90

// Thumbnailer resizes every frame of a raster.
type Thumbnailer struct {
	raster Raster
	log    *zap.Logger
}

// NewThumbnailer returns a Thumbnailer over r. A nil logger discards output.
func NewThumbnailer(r Raster, log *zap.Logger) *Thumbnailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Thumbnailer{raster: r, log: log}
}

// Resize scales every frame to fit within w x h, preserving aspect ratio.
// It reports false when behavior b made the call a no-op.
func (t *Thumbnailer) Resize(w, h int, b geometry.Behavior, quality int) (bool, error) {
	return t.apply("resize", w, h, b, quality, func(f Frame) error {
		return f.Thumbnail(w, h)
	})
}

// ResizeCrop scales every frame to cover w x h and crops the centered
// overflow, so each frame ends up exactly w x h.
func (t *Thumbnailer) ResizeCrop(w, h int, b geometry.Behavior, quality int) (bool, error) {
	return t.apply("resize_crop", w, h, b, quality, func(f Frame) error {
		return f.CropThumbnail(w, h)
	})
}

// ResizeQuad is ResizeCrop with a square size x size target.
func (t *Thumbnailer) ResizeQuad(size int, b geometry.Behavior, quality int) (bool, error) {
	return t.apply("resize_quad", size, size, b, quality, func(f Frame) error {
		return f.CropThumbnail(size, size)
	})
}

// apply checks the resize behavior against the raster's current size, sets
// the quality hint and resamples frame by frame. A frame failure stops the
// loop; frames already processed stay resampled.
func (t *Thumbnailer) apply(op string, w, h int, b geometry.Behavior, quality int, resample func(Frame) error) (bool, error) {
	target := geometry.Dim(w, h)
	if !target.Valid() {
		return false, invalidArgument(op, "target size %s must be positive", target)
	}
	if quality < 0 || quality > 100 {
		return false, invalidArgument(op, "quality %d outside [0,100]", quality)
	}

	cw, ch := t.raster.Dimensions()
	current := geometry.Dim(cw, ch)
	if !geometry.ShouldResize(current, target, b) {
		t.log.Debug("resize skipped",
			zap.String("op", op),
			zap.Stringer("current", current),
			zap.Stringer("target", target),
			zap.Stringer("behavior", b))
		return false, nil
	}

	t.raster.SetCompressionQuality(quality)
	frames := t.raster.Frames()
	for i, f := range frames {
		if err := resample(f); err != nil {
			return false, newError(op, ErrBackend, errors.Wrapf(err, "frame %d of %d", i+1, len(frames)))
		}
		fw, fh := f.Dimensions()
		f.SetPage(fw, fh, 0, 0)
	}

	t.log.Debug("resized",
		zap.String("op", op),
		zap.Stringer("from", current),
		zap.Stringer("target", target),
		zap.Int("frames", len(frames)),
		zap.Int("quality", quality))
	return true, nil
}
