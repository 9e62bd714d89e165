// Package stack infers the channel count of a raw imager stack and exposes it
// in the canonical [channels, height, width, frames] layout.
//
// Every layout accepted here is a row-major prefix reshape of the canonical
// layout, so Normalize never copies pixel data: the returned ImageStack is a
// view sharing the caller's backing slice.
package stack

import (
	"fmt"

	"asimetric/internal/models"
)

// Normalize returns the channel count of raw and its canonical view.
//
// Accepted shapes:
//   - [C, H, W, N] with C of 1 or 3
//   - [3, H, W], a single colour frame
//   - [H, W, N], a monochrome time series
//   - [H, W], a single monochrome frame
func Normalize(raw models.RawStack) (int, models.ImageStack, error) {
	shape := raw.Shape
	for i, n := range shape {
		if n <= 0 {
			return 0, models.ImageStack{}, fmt.Errorf("%w: axis %d of shape %v is empty",
				models.ErrUnrecognizedShape, i, shape)
		}
	}

	var s models.ImageStack
	switch len(shape) {
	case 4:
		if shape[0] != 1 && shape[0] != 3 {
			return 0, models.ImageStack{}, fmt.Errorf("%w: 4-D stack %v must have 1 or 3 channels on its first axis",
				models.ErrUnrecognizedShape, shape)
		}
		s = models.ImageStack{Channels: shape[0], Height: shape[1], Width: shape[2], Frames: shape[3]}
	case 3:
		if shape[0] == 3 {
			s = models.ImageStack{Channels: 3, Height: shape[1], Width: shape[2], Frames: 1}
		} else {
			s = models.ImageStack{Channels: 1, Height: shape[0], Width: shape[1], Frames: shape[2]}
		}
	case 2:
		s = models.ImageStack{Channels: 1, Height: shape[0], Width: shape[1], Frames: 1}
	default:
		return 0, models.ImageStack{}, fmt.Errorf("%w: %d-D stack %v, expected 2, 3 or 4 dimensions",
			models.ErrUnrecognizedShape, len(shape), shape)
	}

	if want := s.Channels * s.Height * s.Width * s.Frames; len(raw.Data) != want {
		return 0, models.ImageStack{}, fmt.Errorf("%w: shape %v needs %d values, got %d",
			models.ErrUnrecognizedShape, shape, want, len(raw.Data))
	}

	s.Data = raw.Data
	return s.Channels, s, nil
}
