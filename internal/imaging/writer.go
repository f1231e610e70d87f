package imaging

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// WriteSingle encodes the first frame to path in the current encode format.
// JPEG output uses the compression quality hint.
func (img *Image) WriteSingle(path string) error {
	if err := img.check(); err != nil {
		return err
	}
	return writeFile(path, img.EncodeSingle)
}

// EncodeSingle writes the first frame to w in the current encode format.
func (img *Image) EncodeSingle(w io.Writer) error {
	if err := img.check(); err != nil {
		return err
	}
	codec, err := img.format.codec()
	if err != nil {
		return err
	}

	var opts []imaging.EncodeOption
	switch img.format {
	case JPEG:
		quality := img.quality
		if quality < 1 {
			quality = 1
		}
		opts = append(opts, imaging.JPEGQuality(quality))
	case GIF:
		opts = append(opts, imaging.GIFNumColors(256))
	}
	return imaging.Encode(w, img.frames[0].img, codec, opts...)
}

// WriteMulti encodes every frame to path as an animated GIF. Each frame is
// placed on the logical screen at its page offset.
func (img *Image) WriteMulti(path string) error {
	if err := img.check(); err != nil {
		return err
	}
	return writeFile(path, img.EncodeMulti)
}

// EncodeMulti writes every frame to w as an animated GIF.
func (img *Image) EncodeMulti(w io.Writer) error {
	if err := img.check(); err != nil {
		return err
	}
	if !img.format.Multiframe() {
		return errors.Errorf("format %s does not support multiple frames", img.format)
	}

	g := &gif.GIF{LoopCount: img.loopCount}
	for _, f := range img.frames {
		fw, fh := f.Dimensions()
		offset := f.page.Min
		bounds := image.Rect(offset.X, offset.Y, offset.X+fw, offset.Y+fh)

		p, transparent := quantize(f.img, bounds)
		disposal := byte(gif.DisposalNone)
		if transparent {
			// Frames are full canvases, so clear before the next one or the
			// previous frame shows through the transparent pixels.
			disposal = gif.DisposalBackground
		}

		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, f.delay)
		g.Disposal = append(g.Disposal, disposal)

		screen := f.page.Union(bounds)
		g.Config.Width = max(g.Config.Width, screen.Max.X)
		g.Config.Height = max(g.Config.Height, screen.Max.Y)
	}
	return gif.EncodeAll(w, g)
}

// transparentIndex is the palette slot reserved for fully transparent pixels.
const transparentIndex = 1

// alphaThreshold is the alpha below which a pixel is written as transparent.
const alphaThreshold = 0x80

// gifPalette is Plan9 with one dark entry given up for transparency. Black
// and white keep their slots.
var gifPalette = func() color.Palette {
	p := append(color.Palette(nil), palette.Plan9...)
	p[transparentIndex] = color.Transparent
	return p
}()

// quantize dithers src onto gifPalette at bounds. Pixels with alpha below
// alphaThreshold map to transparentIndex; they are dithered as exact black
// first so they spread no error into their neighbours. It reports whether
// any pixel was transparent.
func quantize(src *image.NRGBA, bounds image.Rectangle) (*image.Paletted, bool) {
	flat := imaging.Clone(src)
	w, h := flat.Rect.Dx(), flat.Rect.Dy()

	transparent := false
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*flat.Stride + x*4
			if flat.Pix[i+3] < alphaThreshold {
				flat.Pix[i], flat.Pix[i+1], flat.Pix[i+2] = 0, 0, 0
				transparent = true
			}
			flat.Pix[i+3] = 0xff
		}
	}

	p := image.NewPaletted(bounds, gifPalette)
	draw.FloydSteinberg.Draw(p, bounds, flat, image.Point{})
	if !transparent {
		return p, false
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if src.NRGBAAt(src.Rect.Min.X+x, src.Rect.Min.Y+y).A < alphaThreshold {
				p.Pix[y*p.Stride+x] = transparentIndex
			}
		}
	}
	return p, true
}

func writeFile(path string, encode func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close output file")
		}
	}()
	return encode(f)
}
