package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// FrameCapture writes framebuffer contents to PNG files.
type FrameCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewFrameCapture creates a capture handler writing to outputDir.
func NewFrameCapture(outputDir, prefix string) *FrameCapture {
	return &FrameCapture{outputDir: outputDir, prefix: prefix, now: time.Now}
}

// SaveRGB writes tightly packed RGB rows, bottom row first as OpenGL reads
// them, to a timestamped PNG and returns its path.
func (fc *FrameCapture) SaveRGB(pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*3 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*3, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := pixels[(height-1-y)*width*3:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			dst[x*4] = src[x*3]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xFF
		}
	}
	return fc.save(img)
}

func (fc *FrameCapture) save(img image.Image) (string, error) {
	if fc.outputDir != "" {
		if err := os.MkdirAll(fc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := fc.Filename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// Filename returns the path the next capture would be written to.
func (fc *FrameCapture) Filename() string {
	name := fmt.Sprintf("%s_%s.png", fc.prefix, fc.now().Format("2006-01-02_15-04-05.000"))
	if fc.outputDir != "" {
		name = filepath.Join(fc.outputDir, name)
	}
	return name
}
