package capture

import (
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"
)

// Region is a rectangle on the display given by its top-left and
// bottom-right corners. It is not canonicalized: a region whose right
// edge is left of its left edge stays degenerate.
type Region struct {
	Left, Top, Right, Bottom int
}

func (r Region) Width() int  { return r.Right - r.Left }
func (r Region) Height() int { return r.Bottom - r.Top }

// Empty reports whether the region has zero or negative width or height.
func (r Region) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Rect returns the region in display coordinates. Unlike image.Rect the
// corners are never swapped.
func (r Region) Rect() image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(r.Left, r.Top),
		Max: image.Pt(r.Right, r.Bottom),
	}
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d) %dx%d", r.Left, r.Top, r.Right, r.Bottom, r.Width(), r.Height())
}

// ParseRegion parses "left,top,right,bottom".
func ParseRegion(s string) (Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("region %q: want left,top,right,bottom", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Region{}, fmt.Errorf("region %q: %w", s, err)
		}
		v[i] = n
	}
	return Region{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}, nil
}

// Frame represents a captured screen frame.
type Frame struct {
	Image     *image.RGBA
	Timestamp time.Time
}

// Capturer grabs the current contents of a fixed region.
type Capturer interface {
	Capture() (*Frame, error)
}
