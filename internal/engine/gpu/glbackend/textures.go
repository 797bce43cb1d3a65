package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/cortex/internal/engine/gpu"
	"github.com/Faultbox/cortex/internal/engine/texture"
)

// glFormat maps a texture format to GL internal and pixel formats.
func glFormat(f texture.Format) (internal int32, format uint32) {
	switch f {
	case texture.FormatRed:
		return gl.R8, gl.RED
	case texture.FormatRGB:
		return gl.RGB8, gl.RGB
	default:
		return gl.RGBA8, gl.RGBA
	}
}

func (d *Device) CreateTexture(img gpu.Image) (gpu.Texture, error) {
	f, err := texture.FormatFor(img.Channels)
	if err != nil {
		return 0, err
	}
	if img.Width <= 0 || img.Height <= 0 || len(img.Pix) < img.Width*img.Height*img.Channels {
		return 0, fmt.Errorf("create texture: invalid image %dx%dx%d", img.Width, img.Height, img.Channels)
	}
	internal, format := glFormat(f)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(img.Width), int32(img.Height), 0,
		format, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return 0, fmt.Errorf("create texture: GL error 0x%x", code)
	}
	return gpu.Texture(tex), nil
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	if t == 0 {
		return
	}
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}
