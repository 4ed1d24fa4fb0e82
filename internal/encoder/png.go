package encoder

import (
	"bytes"
	"image"
	"image/png"
)

// PNGEncoder encodes frames as PNG.
type PNGEncoder struct {
	enc png.Encoder
}

// NewPNGEncoder creates a PNG encoder. Speed trades file size for less
// time spent inside a poll tick.
func NewPNGEncoder(speed bool) *PNGEncoder {
	level := png.DefaultCompression
	if speed {
		level = png.BestSpeed
	}
	return &PNGEncoder{enc: png.Encoder{CompressionLevel: level}}
}

func (e *PNGEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	b := img.Bounds()
	buf.Grow(b.Dx() * b.Dy())
	if err := e.enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
