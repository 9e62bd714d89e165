package region

import (
	"fmt"
	"math"

	"asimetric/internal/models"
)

// Region is a validated region specification. Bounds are stored per axis in
// ascending order: axis 0 is azimuth, elevation, ccd x or longitude; axis 1 is
// ccd y or latitude and is unused by the one-dimensional modes.
type Region struct {
	Mode Mode
	Low  [2]float64
	High [2]float64
}

// Axes returns the number of bounded axes.
func (r Region) Axes() int { return r.Mode.Arity() / 2 }

func (r Region) String() string {
	if r.Axes() == 1 {
		return fmt.Sprintf("%s[%g, %g]", r.Mode, r.Low[0], r.High[0])
	}
	return fmt.Sprintf("%s[%g, %g, %g, %g]", r.Mode, r.Low[0], r.High[0], r.Low[1], r.High[1])
}

// Validate parses mode and checks bounds against it. height and width are the
// spatial extents of the image stack and are only consulted for ccd regions.
//
// Each (low, high) pair is swapped when given in descending order; a pair
// with low == high is rejected as a zero-area region. bounds is not modified.
func Validate(mode string, bounds []float64, height, width int) (Region, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return Region{}, err
	}
	v := variants[m]

	if len(bounds) != v.arity {
		return Region{}, fmt.Errorf("%w: %s mode takes %d bounds, got %d", models.ErrValidation, m, v.arity, len(bounds))
	}
	for i, b := range bounds {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return Region{}, fmt.Errorf("%w: %s bound %d is not finite", models.ErrValidation, m, i)
		}
	}

	r := Region{Mode: m}
	for axis := 0; axis < v.arity/2; axis++ {
		lo, hi := bounds[2*axis], bounds[2*axis+1]
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo == hi {
			return Region{}, fmt.Errorf("%w: %s %s bounds are equal (%g), region has zero area",
				models.ErrValidation, m, axisName(m, axis), lo)
		}
		r.Low[axis], r.High[axis] = lo, hi
	}

	if err := v.checkRange(r, height, width); err != nil {
		return Region{}, err
	}
	return r, nil
}

func axisName(m Mode, axis int) string {
	switch m {
	case CCD:
		return []string{"x", "y"}[axis]
	case Geodetic, Geomagnetic:
		return []string{"longitude", "latitude"}[axis]
	default:
		return m.String()
	}
}

func checkAxis(r Region, axis int, min, max float64) error {
	if r.Low[axis] < min || r.High[axis] > max {
		return fmt.Errorf("%w: %s bounds [%g, %g] outside valid range [%g, %g]",
			models.ErrValidation, axisName(r.Mode, axis), r.Low[axis], r.High[axis], min, max)
	}
	return nil
}

func checkAzimuth(r Region, _, _ int) error {
	return checkAxis(r, 0, 0, 360)
}

// maxElevationBound caps the upper elevation bound. It may pass 90 degrees:
// membership is an open interval, so an upper bound of exactly 90 could never
// include the zenith.
const maxElevationBound = 180

func checkElevation(r Region, _, _ int) error {
	if r.Low[0] < 0 || r.Low[0] > 90 || r.High[0] < 0 || r.High[0] > maxElevationBound {
		return fmt.Errorf("%w: elevation bounds [%g, %g] outside valid range [0, 90] (upper bound up to %d)",
			models.ErrValidation, r.Low[0], r.High[0], maxElevationBound)
	}
	return nil
}

func checkGeodetic(r Region, _, _ int) error {
	if err := checkAxis(r, 0, -180, 180); err != nil {
		return err
	}
	return checkAxis(r, 1, -90, 90)
}

func checkCCD(r Region, height, width int) error {
	for axis := 0; axis < 2; axis++ {
		if r.Low[axis] != math.Trunc(r.Low[axis]) || r.High[axis] != math.Trunc(r.High[axis]) {
			return fmt.Errorf("%w: ccd %s bounds [%g, %g] must be whole pixels",
				models.ErrValidation, axisName(CCD, axis), r.Low[axis], r.High[axis])
		}
	}
	maxX, maxY := float64(width-1), float64(height-1)
	if r.Low[0] < 0 || r.High[0] > maxX {
		return fmt.Errorf("%w: ccd x bounds [%g, %g] outside image range [0, %g]",
			models.ErrRange, r.Low[0], r.High[0], maxX)
	}
	if r.Low[1] < 0 || r.High[1] > maxY {
		return fmt.Errorf("%w: ccd y bounds [%g, %g] outside image range [0, %g]",
			models.ErrRange, r.Low[1], r.High[1], maxY)
	}
	return nil
}

func checkNothing(Region, int, int) error { return nil }
