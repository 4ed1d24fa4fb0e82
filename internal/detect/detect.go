// Package detect decides whether a captured region has changed.
//
// Comparison is exact: two frames are equal only when they have the same
// dimensions and every pixel holds the same color. There is no tolerance.
package detect

import (
	"bytes"
	"image"
)

// Equal reports whether a and b have identical dimensions and pixels.
// Frames of differing size, or a nil frame, are never equal.
func Equal(a, b image.Image) bool {
	if a == nil || b == nil {
		return false
	}
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return false
	}

	if ra, ok := a.(*image.RGBA); ok {
		if rb, ok := b.(*image.RGBA); ok {
			return equalRGBA(ra, rb)
		}
	}

	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			r1, g1, b1, a1 := a.At(ab.Min.X+x, ab.Min.Y+y).RGBA()
			r2, g2, b2, a2 := b.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				return false
			}
		}
	}
	return true
}

// equalRGBA compares row by row so that differing strides and origins
// do not matter.
func equalRGBA(a, b *image.RGBA) bool {
	w := a.Rect.Dx() * 4
	for y := 0; y < a.Rect.Dy(); y++ {
		ra := a.Pix[a.PixOffset(a.Rect.Min.X, a.Rect.Min.Y+y):][:w]
		rb := b.Pix[b.PixOffset(b.Rect.Min.X, b.Rect.Min.Y+y):][:w]
		if !bytes.Equal(ra, rb) {
			return false
		}
	}
	return true
}

// Tracker holds the baseline frame and the last frame that was reported
// as a change.
type Tracker struct {
	baseline image.Image
	previous image.Image
}

// NewTracker starts tracking with baseline as both the baseline and the
// previous frame.
func NewTracker(baseline image.Image) *Tracker {
	return &Tracker{baseline: baseline, previous: baseline}
}

// Observe reports whether current is a confirmed change: it must differ
// from the previous frame and from the baseline. On a confirmed change
// current becomes the previous frame; otherwise nothing is updated.
func (t *Tracker) Observe(current image.Image) bool {
	if Equal(current, t.previous) || Equal(current, t.baseline) {
		return false
	}
	t.previous = current
	return true
}

// Baseline returns the first captured frame.
func (t *Tracker) Baseline() image.Image { return t.baseline }

// Previous returns the last confirmed change, or the baseline if none.
func (t *Tracker) Previous() image.Image { return t.previous }
