package filter

import (
	"go.uber.org/zap"

	"github.com/ironsheep/image-filter-mcp/internal/colormath"
	"github.com/ironsheep/image-filter-mcp/internal/geometry"
)

type padDirection int

const (
	padBoth padDirection = iota
	padWidth
	padHeight
)

// BorderPadder grows a raster's canvas to a target size with a border color
// taken from its edge pixels.
type BorderPadder struct {
	raster Raster
	log    *zap.Logger
}

// NewBorderPadder returns a BorderPadder over r. A nil logger discards output.
func NewBorderPadder(r Raster, log *zap.Logger) *BorderPadder {
	if log == nil {
		log = zap.NewNop()
	}
	return &BorderPadder{raster: r, log: log}
}

// AddBorder pads the canvas symmetrically until it is at least w x h. It
// reports false, touching nothing, when the image already covers w x h.
// The fill is the color of the left-edge midpoint.
func (b *BorderPadder) AddBorder(w, h int) (bool, error) {
	target := geometry.Dim(w, h)
	if !target.Valid() {
		return false, invalidArgument("add_border", "target size %s must be positive", target)
	}
	cw, ch := b.raster.Dimensions()
	if cw >= w && ch >= h {
		return false, nil
	}
	if err := b.pad(padBoth, target); err != nil {
		return false, err
	}
	return true, nil
}

// pad frames the canvas along dir. Only padWidth averages two samples (the
// left and right edge midpoints); padHeight samples (0, width/2) and padBoth
// samples (0, height/2).
func (b *BorderPadder) pad(dir padDirection, target geometry.Dimension) error {
	cw, ch := b.raster.Dimensions()
	current := geometry.Dim(cw, ch)
	x, y := geometry.Padding(current, target)

	var (
		fill colormath.Color
		err  error
	)
	switch dir {
	case padWidth:
		var left, right colormath.Color
		if left, err = b.raster.PixelColor(0, ch/2); err != nil {
			return newError("add_border", ErrBackend, err)
		}
		if right, err = b.raster.PixelColor(cw, ch/2); err != nil {
			return newError("add_border", ErrBackend, err)
		}
		fill = colormath.Average(left, right)
		y = 0
	case padHeight:
		if fill, err = b.raster.PixelColor(0, cw/2); err != nil {
			return newError("add_border", ErrBackend, err)
		}
		x = 0
	default:
		if fill, err = b.raster.PixelColor(0, ch/2); err != nil {
			return newError("add_border", ErrBackend, err)
		}
	}

	if err := b.raster.FrameCanvas(fill, x, y, x, y); err != nil {
		return newError("add_border", ErrBackend, err)
	}
	b.log.Debug("border added",
		zap.Stringer("from", current),
		zap.Stringer("target", target),
		zap.Int("pad_x", x),
		zap.Int("pad_y", y),
		zap.String("fill", fill.Hex()))
	return nil
}
