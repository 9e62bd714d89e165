package visualization

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"asimetric/internal/models"
	"asimetric/pkg/region"
)

// Viewer renders frames of an image stack and region overlays for visual
// checks of a region before trusting its metric.
type Viewer struct {
	// stack is the canonical image stack being previewed
	stack models.ImageStack
}

// NewViewer creates a preview renderer over s
func NewViewer(s models.ImageStack) *Viewer {
	return &Viewer{stack: s}
}

// ExtractFrame renders frame n, stretched linearly so the brightest value in
// the frame is white. Monochrome stacks render as 16-bit gray, colour stacks
// as 16-bit RGB.
func (v *Viewer) ExtractFrame(n int) (image.Image, error) {
	s := v.stack
	if n < 0 || n >= s.Frames {
		return nil, fmt.Errorf("frame %d outside stack of %d frames", n, s.Frames)
	}

	peak := 0.0
	for c := 0; c < s.Channels; c++ {
		for p := 0; p < s.PlaneSize(); p++ {
			if val := s.Data[s.Offset(c, p)+n]; val > peak {
				peak = val
			}
		}
	}
	scale := func(val float64) uint16 {
		if peak <= 0 || val <= 0 {
			return 0
		}
		return uint16(min(65535, val/peak*65535))
	}

	bounds := image.Rect(0, 0, s.Width, s.Height)
	if s.Channels == 1 {
		img := image.NewGray16(bounds)
		for y := 0; y < s.Height; y++ {
			for x := 0; x < s.Width; x++ {
				img.SetGray16(x, y, color.Gray16{Y: scale(s.At(0, x, y, n))})
			}
		}
		return img, nil
	}

	img := image.NewRGBA64(bounds)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			img.SetRGBA64(x, y, color.RGBA64{
				R: scale(s.At(0, x, y, n)),
				G: scale(s.At(1, x, y, n)),
				B: scale(s.At(2, x, y, n)),
				A: 0xffff,
			})
		}
	}
	return img, nil
}

// Overlay tints the pixels of m red on top of frame. Mask indices are
// placed on the frame the same way the reducer reads them: as flat indices
// into the image plane.
func (v *Viewer) Overlay(frame image.Image, m region.Mask) *image.NRGBA {
	out := imaging.Clone(frame)
	width := out.Bounds().Dx()
	plane := width * out.Bounds().Dy()
	for _, p := range m.Indices {
		if p >= plane {
			continue
		}
		x, y := p%width, p/width
		c := out.NRGBAAt(x, y)
		out.SetNRGBA(x, y, color.NRGBA{R: uint8(min(255, int(c.R)/2+128)), G: c.G / 2, B: c.B / 2, A: 255})
	}
	return out
}

// SavePreview writes img to filename, resized to width pixels when width > 0.
// The format follows the file extension.
func (v *Viewer) SavePreview(img image.Image, filename string, width int) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create preview directory: %w", err)
	}
	if width > 0 && width != img.Bounds().Dx() {
		img = imaging.Resize(img, width, 0, imaging.NearestNeighbor)
	}
	if err := imaging.Save(img, filename); err != nil {
		return fmt.Errorf("failed to save preview %s: %w", filename, err)
	}
	return nil
}

// Preview renders frame n with m overlaid and saves it.
func (v *Viewer) Preview(m region.Mask, n int, filename string, width int) error {
	frame, err := v.ExtractFrame(n)
	if err != nil {
		return err
	}
	return v.SavePreview(v.Overlay(frame, m), filename, width)
}
