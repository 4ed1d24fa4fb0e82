package encoder

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
)

// Encoder encodes an image into bytes.
type Encoder interface {
	Encode(img image.Image) ([]byte, error)
}

// Save encodes img with enc and writes it to dir/name, replacing any
// existing file. It returns the path written.
func Save(enc Encoder, dir, name string, img image.Image) (string, error) {
	data, err := enc.Encode(img)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
