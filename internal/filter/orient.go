package filter

import (
	"go.uber.org/zap"

	"github.com/ironsheep/image-filter-mcp/internal/orientation"
)

// OrientationNormalizer rotates and mirrors a raster so that its pixels match
// the EXIF orientation tag, then clears the tag.
type OrientationNormalizer struct {
	raster Raster
	log    *zap.Logger
}

// NewOrientationNormalizer returns a normalizer over r. A nil logger
// discards output.
func NewOrientationNormalizer(r Raster, log *zap.Logger) *OrientationNormalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrientationNormalizer{raster: r, log: log}
}

// Normalize applies the correction for the current tag and resets the tag
// to Undefined. With the tag already Undefined it does nothing, so a second
// call is a no-op. It returns the action that was applied.
func (n *OrientationNormalizer) Normalize() (orientation.Action, error) {
	o := n.raster.Orientation()
	if o == orientation.Undefined {
		return orientation.Action{}, nil
	}

	a := orientation.Lookup(o)
	if a.Rotation != 0 {
		if err := n.raster.Rotate(float64(a.Rotation)); err != nil {
			return a, newError("process_orientation", ErrBackend, err)
		}
	}
	if a.Mirror {
		if err := n.raster.Mirror(); err != nil {
			return a, newError("process_orientation", ErrBackend, err)
		}
	}
	n.raster.SetOrientation(orientation.Undefined)

	n.log.Debug("orientation normalized",
		zap.Stringer("orientation", o),
		zap.Int("rotation", a.Rotation),
		zap.Bool("mirror", a.Mirror))
	return a, nil
}
