package capture

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/kbinani/screenshot"
)

// ErrNoDisplay is returned when no active display can be found.
var ErrNoDisplay = errors.New("no active display found")

// ScreenCapturer implements Capturer using the host display.
type ScreenCapturer struct {
	region Region
	grab   func(image.Rectangle) (*image.RGBA, error)
}

// NewScreenCapturer creates a capturer bound to region for its whole lifetime.
func NewScreenCapturer(region Region) (*ScreenCapturer, error) {
	if screenshot.NumActiveDisplays() <= 0 {
		return nil, ErrNoDisplay
	}
	return &ScreenCapturer{
		region: region,
		grab:   screenshot.CaptureRect,
	}, nil
}

// Region returns the rectangle this capturer grabs.
func (c *ScreenCapturer) Region() Region {
	return c.region
}

// Capture grabs the region synchronously. An empty region yields a
// zero-size frame without touching the display.
func (c *ScreenCapturer) Capture() (*Frame, error) {
	if c.region.Empty() {
		return &Frame{
			Image:     image.NewRGBA(image.Rectangle{}),
			Timestamp: time.Now(),
		}, nil
	}

	img, err := c.grab(c.region.Rect())
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", c.region, err)
	}
	return &Frame{
		Image:     img,
		Timestamp: time.Now(),
	}, nil
}
