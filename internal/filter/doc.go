// Package filter implements the image post-processing pipeline: resize to
// fit, resize to fill, square crop, desaturation, average-color border
// padding and EXIF orientation normalization over one raster.
//
// A Pipeline owns its raster from Open until Release. Transform methods run
// synchronously in call order and return the same Pipeline so calls chain:
//
//	p, err := filter.Open("in.jpg")
//	if err != nil {
//	    return err
//	}
//	defer p.Release()
//	err = p.ProcessOrientation().
//	    Resize(800, 600, geometry.Decrease, filter.DefaultQuality).
//	    AddBorder(800, 600).
//	    Save("out.jpg")
//
// The first failing operation is remembered; later transforms are skipped and
// Err and Save report it. Every operation after Release fails with
// ErrReleased.
//
// The raster is reached only through the Raster and Frame interfaces, so the
// decision logic here is independent of the pixel backend. The default
// backend is internal/imaging.
package filter
