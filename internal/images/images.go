// Package images prepares pictures referenced from the text for the
// package. DAISY readers handle JPEG and PNG only, so anything else that
// decodes is re-encoded as PNG.
package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	"image/png"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"anemone/internal/services"
)

// File is one image stored in the package.
type File struct {
	Name      string
	Data      []byte
	MediaType string
}

// Convert returns data ready to store and the file extension to use.
func Convert(data []byte) ([]byte, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	switch format {
	case "jpeg":
		return data, "jpg", nil
	case "png":
		return data, "png", nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s image: %w", format, err)
	}
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, "", fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), "png", nil
}

// MediaType returns the MIME type for a stored extension.
func MediaType(ext string) string {
	if ext == "png" {
		return "image/png"
	}
	return "image/jpeg"
}

// Loader reads the bytes behind an image reference.
type Loader func(ctx context.Context, ref string) ([]byte, error)

// Collector numbers images in the order they are first referenced. The same
// reference always maps to the same file.
type Collector struct {
	load  Loader
	files []File
	names map[string]string
}

// NewCollector returns a collector reading references through load.
func NewCollector(load Loader) *Collector {
	return &Collector{load: load, names: make(map[string]string)}
}

// Add stores ref and returns its package file name.
func (c *Collector) Add(ctx context.Context, ref string) (string, error) {
	if name, ok := c.names[ref]; ok {
		return name, nil
	}
	data, err := c.load(ctx, ref)
	if err != nil {
		return "", services.Wrap(services.ErrInput, "images", "load", ref, err)
	}
	converted, ext, err := Convert(data)
	if err != nil {
		return "", services.Wrap(services.ErrInput, "images", "convert", ref, err)
	}
	name := fmt.Sprintf("%d.%s", len(c.files)+1, ext)
	c.files = append(c.files, File{Name: name, Data: converted, MediaType: MediaType(ext)})
	c.names[ref] = name
	return name, nil
}

// Files returns the stored images in numbering order.
func (c *Collector) Files() []File {
	return c.files
}
