package diagram

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// Downscale shrinks a PNG to at most maxWidth pixels wide, keeping its
// aspect ratio, and returns the re-encoded image with its final width.
// Images already narrow enough are returned unchanged.
func Downscale(data []byte, maxWidth int) ([]byte, int, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("decoding png: %w", err)
	}

	b := src.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return data, b.Dx(), nil
	}

	height := max(1, b.Dy()*maxWidth/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, dst); err != nil {
		return nil, 0, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), maxWidth, nil
}
