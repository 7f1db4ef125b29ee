package testutils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// MinimalPNG returns a valid 1x1 PNG.
func MinimalPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
