package models

import "errors"

// Error kinds. Every failure returned by the extraction packages wraps exactly
// one of these, so callers can classify it with errors.Is.
var (
	// ErrValidation reports a bad mode name, bound arity, bound value,
	// zero-area region or statistic selector.
	ErrValidation = errors.New("validation error")

	// ErrConfiguration reports a missing collaborator input such as the skymap
	// or the mapping altitude.
	ErrConfiguration = errors.New("configuration error")

	// ErrRange reports an altitude, geodetic bound or ccd bound outside what
	// the skymap or image can cover.
	ErrRange = errors.New("range error")

	// ErrEmptyRegion reports a region containing no valid pixels.
	ErrEmptyRegion = errors.New("empty region")

	// ErrUnrecognizedShape reports an image stack whose dimensionality does
	// not match any supported layout.
	ErrUnrecognizedShape = errors.New("unrecognized image shape")

	// ErrUnsupportedMode reports a recognised but unimplemented region mode.
	ErrUnsupportedMode = errors.New("unsupported mode")
)
