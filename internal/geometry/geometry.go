// Package geometry holds the pure dimension math used by the filter pipeline:
// resize-skip decisions, best-fit thumbnail sizes and border padding.
//
// Nothing in this package touches pixels or performs I/O.
package geometry

import (
	"fmt"
	"math"
	"strings"
)

// Dimension is a width/height pair in pixels.
type Dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Dim is shorthand for Dimension{Width: w, Height: h}.
func Dim(w, h int) Dimension {
	return Dimension{Width: w, Height: h}
}

// Valid reports whether both sides are positive.
func (d Dimension) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

func (d Dimension) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Behavior governs whether a resize request is honored relative to the
// current image size.
type Behavior int

const (
	// Both always resizes.
	Both Behavior = iota
	// Decrease only resizes when the image has something to shrink.
	Decrease
	// Increase only resizes when the image has something to grow.
	Increase
)

var behaviorNames = map[Behavior]string{
	Both:     "both",
	Decrease: "decrease",
	Increase: "increase",
}

func (b Behavior) String() string {
	if name, ok := behaviorNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Behavior(%d)", int(b))
}

// ParseBehavior converts "both", "decrease" or "increase" (case insensitive)
// to a Behavior. An empty string yields Both.
func ParseBehavior(s string) (Behavior, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both":
		return Both, nil
	case "decrease":
		return Decrease, nil
	case "increase":
		return Increase, nil
	}
	return Both, fmt.Errorf("unknown resize behavior: %q", s)
}

// ShouldResize reports whether a resize from current to target is required
// under behavior b.
//
// The skip rule is conjunctive: Decrease skips only when the target is larger
// on both axes, Increase skips only when it is smaller on both axes. A request
// that grows one axis and shrinks the other always proceeds.
func ShouldResize(current, target Dimension, b Behavior) bool {
	switch b {
	case Decrease:
		if target.Width > current.Width && target.Height > current.Height {
			return false
		}
	case Increase:
		if target.Width < current.Width && target.Height < current.Height {
			return false
		}
	}
	return true
}

// FitSize returns the largest size with src's aspect ratio that fits inside
// box. The axis with the smaller scale ratio takes the box size exactly and
// the other is rounded to the nearest pixel, never below 1. Unlike
// imaging.Fit the result may be larger than src.
func FitSize(src, box Dimension) Dimension {
	if !src.Valid() || !box.Valid() {
		return Dimension{}
	}
	rx := float64(box.Width) / float64(src.Width)
	ry := float64(box.Height) / float64(src.Height)
	if rx < ry {
		h := int(math.Max(1, math.Floor(rx*float64(src.Height)+0.5)))
		return Dimension{Width: box.Width, Height: h}
	}
	w := int(math.Max(1, math.Floor(ry*float64(src.Width)+0.5)))
	return Dimension{Width: w, Height: box.Height}
}

// Padding returns the per-side border needed to grow current to target:
// (target-current)/2 on each axis, truncated, with negative values clamped
// to zero.
func Padding(current, target Dimension) (x, y int) {
	x = (target.Width - current.Width) / 2
	y = (target.Height - current.Height) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}
