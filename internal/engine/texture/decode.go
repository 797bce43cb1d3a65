// Package texture decodes image files and caches the GPU textures made from
// them.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/cortex/internal/engine/gpu"
)

// ErrUnsupportedChannels is returned for channel counts other than 1, 3 or 4.
var ErrUnsupportedChannels = errors.New("unsupported channel count")

// Format is the pixel layout of uploaded texture data.
type Format int

const (
	FormatRed Format = iota
	FormatRGB
	FormatRGBA
)

// FormatFor maps a channel count to a pixel format.
func FormatFor(channels int) (Format, error) {
	switch channels {
	case 1:
		return FormatRed, nil
	case 3:
		return FormatRGB, nil
	case 4:
		return FormatRGBA, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
}

// DecodeFile reads and decodes an image file. PNG, JPEG, BMP, TIFF, WebP
// and TGA are supported.
func DecodeFile(path string) (gpu.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gpu.Image{}, fmt.Errorf("read texture: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return gpu.Image{}, fmt.Errorf("decode texture %s: %w", filepath.Base(path), err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return gpu.Image{}, fmt.Errorf("decode texture %s: %w", filepath.Base(path), err)
	}
	return FromImage(img), nil
}

// FromImage converts a decoded image to tightly packed rows. Gray images keep
// one channel, opaque YCbCr images become RGB and everything else RGBA.
func FromImage(img image.Image) gpu.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.Gray:
		pix := make([]byte, 0, w*h)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := src.PixOffset(b.Min.X, y)
			pix = append(pix, src.Pix[off:off+w]...)
		}
		return gpu.Image{Width: w, Height: h, Channels: 1, Pix: pix}
	case *image.YCbCr:
		pix := make([]byte, 0, w*h*3)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, _ := src.At(x, y).RGBA()
				pix = append(pix, uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			}
		}
		return gpu.Image{Width: w, Height: h, Channels: 3, Pix: pix}
	}

	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != w*4 || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return gpu.Image{Width: w, Height: h, Channels: 4, Pix: rgba.Pix}
}
