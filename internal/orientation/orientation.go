// Package orientation maps the EXIF orientation tag onto the rotation and
// mirror needed to bring pixel data upright.
package orientation

import (
	"fmt"
	"strings"
)

// Orientation is an EXIF orientation value. The numbering follows the EXIF
// Orientation tag (0x0112), with 0 meaning the tag is absent.
type Orientation int

const (
	Undefined Orientation = iota
	TopLeft
	TopRight
	BottomRight
	BottomLeft
	LeftTop
	RightTop
	RightBottom
	LeftBottom
)

var names = [...]string{
	Undefined:   "undefined",
	TopLeft:     "top-left",
	TopRight:    "top-right",
	BottomRight: "bottom-right",
	BottomLeft:  "bottom-left",
	LeftTop:     "left-top",
	RightTop:    "right-top",
	RightBottom: "right-bottom",
	LeftBottom:  "left-bottom",
}

func (o Orientation) String() string {
	if o.Valid() {
		return names[o]
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// Valid reports whether o is Undefined or one of the eight EXIF states.
func (o Orientation) Valid() bool {
	return o >= Undefined && o <= LeftBottom
}

// Parse accepts either a state name ("right-top") or its EXIF number ("6").
func Parse(s string) (Orientation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if s == name || s == fmt.Sprint(i) {
			return Orientation(i), nil
		}
	}
	return Undefined, fmt.Errorf("unknown orientation: %q", s)
}

// Action is the correction for one orientation: a clockwise rotation in
// degrees (0, 90, -90 or 180) followed, when Mirror is set, by a flip.
type Action struct {
	Rotation int  `json:"rotation"`
	Mirror   bool `json:"mirror"`
}

// IsNoop reports whether the action leaves the pixels untouched.
func (a Action) IsNoop() bool {
	return a.Rotation == 0 && !a.Mirror
}

// Lookup returns the correction for o. Rotation is picked by the first
// matching group (bottom, left, right); the mirror set is checked on its own
// and combines with any rotation. Undefined and unknown values map to the
// zero Action.
func Lookup(o Orientation) Action {
	var a Action
	switch o {
	case BottomLeft, BottomRight:
		a.Rotation = 180
	case LeftBottom, LeftTop:
		a.Rotation = -90
	case RightBottom, RightTop:
		a.Rotation = 90
	}
	switch o {
	case TopRight, BottomLeft, LeftTop, RightBottom:
		a.Mirror = true
	}
	return a
}
