package imaging

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Format is an encode format supported by the backend.
type Format int

// Supported formats.
const (
	JPEG Format = iota
	PNG
	GIF
	BMP
)

var formatNames = map[Format]string{
	JPEG: "jpeg",
	PNG:  "png",
	GIF:  "gif",
	BMP:  "bmp",
}

var formatExts = map[string]Format{
	"jpg":  JPEG,
	"jpeg": JPEG,
	"png":  PNG,
	"gif":  GIF,
	"bmp":  BMP,
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Multiframe reports whether the format stores an animated frame sequence.
func (f Format) Multiframe() bool {
	return f == GIF
}

// ParseFormat converts a format name or file extension ("jpg", ".PNG") to a
// Format.
func ParseFormat(name string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".")
	if f, ok := formatExts[ext]; ok {
		return f, nil
	}
	return JPEG, fmt.Errorf("unsupported image format: %q", name)
}

// FormatFromPath derives the format from a file name's extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

func (f Format) codec() (imaging.Format, error) {
	switch f {
	case JPEG:
		return imaging.JPEG, nil
	case PNG:
		return imaging.PNG, nil
	case GIF:
		return imaging.GIF, nil
	case BMP:
		return imaging.BMP, nil
	}
	return 0, fmt.Errorf("unsupported image format: %v", f)
}
