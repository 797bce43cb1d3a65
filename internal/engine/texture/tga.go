package texture

import (
	"errors"
	"fmt"

	"github.com/Faultbox/cortex/internal/engine/gpu"
)

// ErrMalformedTGA is returned for TGA files that are truncated or use a
// layout the decoder does not handle.
var ErrMalformedTGA = errors.New("malformed TGA")

// TGA image types handled by DecodeTGA.
const (
	TGATypeTrueColor    = 2
	TGATypeGray         = 3
	TGATypeTrueColorRLE = 10
	TGATypeGrayRLE      = 11
)

const tgaHeaderSize = 18

type tgaHeader struct {
	imageType   byte
	width       int
	height      int
	channels    int
	topToBottom bool
	rightToLeft bool
}

func (h tgaHeader) rle() bool {
	return h.imageType == TGATypeTrueColorRLE || h.imageType == TGATypeGrayRLE
}

// DecodeTGA decodes a true-color or grayscale TGA, raw or run-length
// encoded, into tightly packed top-down rows. The channel count follows the
// pixel depth: 8-bit gray gives 1, 24-bit BGR gives 3 and 32-bit BGRA gives 4.
func DecodeTGA(data []byte) (gpu.Image, error) {
	h, body, err := parseTGA(data)
	if err != nil {
		return gpu.Image{}, err
	}

	img := gpu.Image{
		Width:    h.width,
		Height:   h.height,
		Channels: h.channels,
		Pix:      make([]byte, h.width*h.height*h.channels),
	}
	if h.rle() {
		err = readTGARLE(&img, h, body)
	} else {
		err = readTGARaw(&img, h, body)
	}
	if err != nil {
		return gpu.Image{}, err
	}
	return img, nil
}

func parseTGA(data []byte) (tgaHeader, []byte, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, nil, fmt.Errorf("%w: %d byte header", ErrMalformedTGA, len(data))
	}
	if data[1] != 0 {
		return tgaHeader{}, nil, fmt.Errorf("%w: color-mapped images not supported", ErrMalformedTGA)
	}

	h := tgaHeader{
		imageType:   data[2],
		width:       int(data[12]) | int(data[13])<<8,
		height:      int(data[14]) | int(data[15])<<8,
		rightToLeft: data[17]&0x10 != 0,
		topToBottom: data[17]&0x20 != 0,
	}
	bpp := int(data[16])

	switch h.imageType {
	case TGATypeTrueColor, TGATypeTrueColorRLE:
		if bpp != 24 && bpp != 32 {
			return h, nil, fmt.Errorf("%w: %d-bit true-color", ErrMalformedTGA, bpp)
		}
	case TGATypeGray, TGATypeGrayRLE:
		if bpp != 8 {
			return h, nil, fmt.Errorf("%w: %d-bit grayscale", ErrMalformedTGA, bpp)
		}
	default:
		return h, nil, fmt.Errorf("%w: image type %d", ErrMalformedTGA, h.imageType)
	}
	h.channels = bpp / 8

	if h.width == 0 || h.height == 0 {
		return h, nil, fmt.Errorf("%w: empty %dx%d image", ErrMalformedTGA, h.width, h.height)
	}

	offset := tgaHeaderSize + int(data[0])
	if offset > len(data) {
		return h, nil, fmt.Errorf("%w: image id truncated", ErrMalformedTGA)
	}
	return h, data[offset:], nil
}

// put stores the i-th pixel in file order, swapping BGR(A) to RGB(A) and
// honoring the origin bits of the descriptor.
func put(img *gpu.Image, h tgaHeader, i int, src []byte) {
	x, y := i%h.width, i/h.width
	if h.rightToLeft {
		x = h.width - 1 - x
	}
	if !h.topToBottom {
		y = h.height - 1 - y
	}
	dst := img.Pix[(y*h.width+x)*h.channels:]

	switch h.channels {
	case 1:
		dst[0] = src[0]
	case 3:
		dst[0], dst[1], dst[2] = src[2], src[1], src[0]
	case 4:
		dst[0], dst[1], dst[2], dst[3] = src[2], src[1], src[0], src[3]
	}
}

func readTGARaw(img *gpu.Image, h tgaHeader, body []byte) error {
	n := h.width * h.height
	if len(body) < n*h.channels {
		return fmt.Errorf("%w: %d of %d pixel bytes", ErrMalformedTGA, len(body), n*h.channels)
	}
	for i := 0; i < n; i++ {
		put(img, h, i, body[i*h.channels:])
	}
	return nil
}

func readTGARLE(img *gpu.Image, h tgaHeader, body []byte) error {
	n := h.width * h.height
	px, pos := 0, 0

	for px < n {
		if pos >= len(body) {
			return fmt.Errorf("%w: run data ends at pixel %d of %d", ErrMalformedTGA, px, n)
		}
		packet := body[pos]
		pos++
		count := min(int(packet&0x7F)+1, n-px)

		if packet&0x80 != 0 {
			if pos+h.channels > len(body) {
				return fmt.Errorf("%w: run packet truncated", ErrMalformedTGA)
			}
			for k := 0; k < count; k++ {
				put(img, h, px, body[pos:])
				px++
			}
			pos += h.channels
			continue
		}

		if pos+count*h.channels > len(body) {
			return fmt.Errorf("%w: raw packet truncated", ErrMalformedTGA)
		}
		for k := 0; k < count; k++ {
			put(img, h, px, body[pos:])
			px++
			pos += h.channels
		}
	}
	return nil
}
