// Package imaging is the raster backend of the filter pipeline.
//
// It decodes an image file into an Image holding one or more frames, applies
// resampling, color and canvas operations to those frames, and encodes the
// result back to disk. Pixel work is delegated to github.com/disintegration/imaging,
// arbitrary-angle rotation to bild, and HSL modulation to go-colorful.
//
// # Frames
//
// Still images decode to a single frame. Animated GIFs decode to one frame per
// image block, each coalesced onto the logical screen, so every frame starts
// with the full canvas as its page geometry at offset (0,0).
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner. Frame
// pixel buffers always start at (0,0); a frame's placement on the canvas is
// carried separately by its page rectangle.
//
// # Image-level Operations
//
// Modulate, FrameCanvas, Rotate and Mirror apply to every frame. Dimensions
// and PixelColor read the first frame.
//
// # Thread Safety
//
// An Image is a single mutable resource. It is not safe for concurrent use;
// independent images may be processed on independent goroutines.
package imaging
