package filter

import (
	"go.uber.org/zap"

	"github.com/ironsheep/image-filter-mcp/internal/geometry"
	"github.com/ironsheep/image-filter-mcp/internal/imaging"
	"github.com/ironsheep/image-filter-mcp/internal/orientation"
)

// Pipeline is a fluent sequence of transforms over one exclusively owned
// raster. It is not safe for concurrent use.
type Pipeline struct {
	raster   Raster
	format   imaging.Format
	log      *zap.Logger
	err      error
	released bool

	thumbnailer *Thumbnailer
	padder      *BorderPadder
	normalizer  *OrientationNormalizer
}

type options struct {
	format  *imaging.Format
	loader  Loader
	log     *zap.Logger
	quality int
}

// Option configures Open and New.
type Option func(*options)

// WithFormat overrides the format derived from the input file extension.
func WithFormat(f imaging.Format) Option {
	return func(o *options) {
		o.format = &f
	}
}

// WithLoader replaces the raster backend used by Open.
func WithLoader(l Loader) Option {
	return func(o *options) {
		o.loader = l
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithDefaultQuality sets the compression quality Save uses when no resize
// has set one. Values outside [0,100] are ignored.
func WithDefaultQuality(q int) Option {
	return func(o *options) {
		if q >= 0 && q <= 100 {
			o.quality = q
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{loader: LoadImage, log: zap.NewNop(), quality: DefaultQuality}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open loads the image at path and returns a pipeline owning it. The format
// comes from WithFormat or, failing that, the path's extension. The caller
// must call Release on every exit path.
func Open(path string, opts ...Option) (*Pipeline, error) {
	o := buildOptions(opts)

	var format imaging.Format
	if o.format != nil {
		format = *o.format
	} else {
		f, err := imaging.FormatFromPath(path)
		if err != nil {
			return nil, newError("open", ErrLoad, err)
		}
		format = f
	}

	r, err := o.loader(path)
	if err != nil {
		return nil, newError("open", ErrLoad, err)
	}
	o.log.Debug("image opened", zap.String("path", path), zap.Stringer("format", format))
	return newPipeline(r, format, o), nil
}

// New returns a pipeline owning an already acquired raster.
func New(r Raster, format imaging.Format, opts ...Option) *Pipeline {
	return newPipeline(r, format, buildOptions(opts))
}

func newPipeline(r Raster, format imaging.Format, o options) *Pipeline {
	r.SetEncodeFormat(format)
	r.SetCompressionQuality(o.quality)
	return &Pipeline{
		raster:      r,
		format:      format,
		log:         o.log,
		thumbnailer: NewThumbnailer(r, o.log),
		padder:      NewBorderPadder(r, o.log),
		normalizer:  NewOrientationNormalizer(r, o.log),
	}
}

// do runs fn unless the pipeline is released or an earlier operation failed,
// recording the first error. After Release every call records ErrReleased,
// replacing any earlier failure.
func (p *Pipeline) do(op string, fn func() error) *Pipeline {
	if p.released {
		p.err = newError(op, ErrReleased, nil)
		return p
	}
	if p.err != nil {
		return p
	}
	if err := fn(); err != nil {
		p.log.Warn("operation failed", zap.String("op", op), zap.Error(err))
		p.err = err
	}
	return p
}

// Resize scales every frame to fit within w x h, preserving aspect ratio,
// unless behavior b says the current size needs no change.
func (p *Pipeline) Resize(w, h int, b geometry.Behavior, quality int) *Pipeline {
	return p.do("resize", func() error {
		_, err := p.thumbnailer.Resize(w, h, b, quality)
		return err
	})
}

// ResizeCrop scales and center-crops every frame to exactly w x h, unless
// behavior b says the current size needs no change.
func (p *Pipeline) ResizeCrop(w, h int, b geometry.Behavior, quality int) *Pipeline {
	return p.do("resize_crop", func() error {
		_, err := p.thumbnailer.ResizeCrop(w, h, b, quality)
		return err
	})
}

// ResizeQuad scales and center-crops every frame to size x size.
func (p *Pipeline) ResizeQuad(size int, b geometry.Behavior, quality int) *Pipeline {
	return p.do("resize_quad", func() error {
		_, err := p.thumbnailer.ResizeQuad(size, b, quality)
		return err
	})
}

// Desaturate removes all color, keeping lightness.
func (p *Pipeline) Desaturate() *Pipeline {
	return p.do("desaturate", func() error {
		if err := p.raster.Modulate(100, 0, 100); err != nil {
			return newError("desaturate", ErrBackend, err)
		}
		return nil
	})
}

// AddBorder pads the canvas to at least w x h with a color sampled from the
// left edge. Images already covering w x h are left alone.
func (p *Pipeline) AddBorder(w, h int) *Pipeline {
	return p.do("add_border", func() error {
		_, err := p.padder.AddBorder(w, h)
		return err
	})
}

// ProcessOrientation rotates and mirrors the pixels to match the EXIF
// orientation tag and clears the tag.
func (p *Pipeline) ProcessOrientation() *Pipeline {
	return p.do("process_orientation", func() error {
		_, err := p.normalizer.Normalize()
		return err
	})
}

// SetOrientation replaces the orientation tag without touching the pixels,
// for images whose tag is missing or wrong. ProcessOrientation then applies
// it.
func (p *Pipeline) SetOrientation(o orientation.Orientation) *Pipeline {
	return p.do("set_orientation", func() error {
		if !o.Valid() {
			return invalidArgument("set_orientation", "orientation %d outside [0,8]", int(o))
		}
		p.raster.SetOrientation(o)
		return nil
	})
}

// Rotate turns every frame clockwise by degrees.
func (p *Pipeline) Rotate(degrees float64) *Pipeline {
	return p.do("rotate", func() error {
		if err := p.raster.Rotate(degrees); err != nil {
			return newError("rotate", ErrBackend, err)
		}
		return nil
	})
}

// SetFormat changes the format used by Save. Pixels are not touched.
func (p *Pipeline) SetFormat(f imaging.Format) *Pipeline {
	return p.do("set_format", func() error {
		p.format = f
		p.raster.SetEncodeFormat(f)
		return nil
	})
}

// Save writes the image to path: every frame as an animation when the
// format is multi-frame, the first frame otherwise. It returns the first
// error recorded by an earlier operation without writing anything.
func (p *Pipeline) Save(path string) error {
	p.do("save", func() error {
		var err error
		if p.format.Multiframe() {
			err = p.raster.WriteMulti(path)
		} else {
			err = p.raster.WriteSingle(path)
		}
		if err != nil {
			return newError("save", ErrWrite, err)
		}
		p.log.Debug("image saved", zap.String("path", path), zap.Stringer("format", p.format))
		return nil
	})
	return p.err
}

// Err returns the first error recorded by the pipeline.
func (p *Pipeline) Err() error {
	return p.err
}

// Release frees the raster. It is terminal: every later call, including a
// second Release, fails with ErrReleased.
func (p *Pipeline) Release() error {
	if p.released {
		return newError("release", ErrReleased, nil)
	}
	p.released = true
	if err := p.raster.Release(); err != nil {
		return newError("release", ErrBackend, err)
	}
	return nil
}

// Released reports whether Release has been called.
func (p *Pipeline) Released() bool {
	return p.released
}

// Format returns the format Save will use.
func (p *Pipeline) Format() imaging.Format {
	return p.format
}

// Info is a snapshot of the pipeline's raster.
type Info struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Frames      int    `json:"frames"`
	Format      string `json:"format"`
	Orientation string `json:"orientation"`
}

// Info reports the raster's current size, frame count, format and
// orientation tag.
func (p *Pipeline) Info() (*Info, error) {
	if p.released {
		return nil, newError("info", ErrReleased, nil)
	}
	w, h := p.raster.Dimensions()
	return &Info{
		Width:       w,
		Height:      h,
		Frames:      len(p.raster.Frames()),
		Format:      p.format.String(),
		Orientation: p.raster.Orientation().String(),
	}, nil
}

// Orientation returns the raster's current orientation tag.
func (p *Pipeline) Orientation() (orientation.Orientation, error) {
	if p.released {
		return orientation.Undefined, newError("orientation", ErrReleased, nil)
	}
	return p.raster.Orientation(), nil
}

// Frames returns the raster's frames in order.
func (p *Pipeline) Frames() ([]Frame, error) {
	if p.released {
		return nil, newError("frames", ErrReleased, nil)
	}
	return p.raster.Frames(), nil
}
