// Package interpolation resolves per-pixel geodetic coordinates at an arbitrary
// mapping altitude from a skymap's table of reference altitudes.
package interpolation

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"asimetric/internal/models"
)

// Bracket locates target in the ascending altitude table.
//
// When target equals an entry, lo == hi is that entry's index and exact is true.
// Otherwise lo and hi are the indices of the nearest altitudes below and above
// target. Targets outside [altitudes[0], altitudes[len-1]] are a range error;
// non-finite targets are a validation error.
func Bracket(altitudes []float64, target float64) (lo, hi int, exact bool, err error) {
	n := len(altitudes)
	if n == 0 {
		return 0, 0, false, fmt.Errorf("%w: no reference altitudes to interpolate between", models.ErrConfiguration)
	}
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return 0, 0, false, fmt.Errorf("%w: altitude %g km is not finite", models.ErrValidation, target)
	}
	if target < altitudes[0] || target > altitudes[n-1] {
		return 0, 0, false, fmt.Errorf("%w: altitude %g km outside skymap range [%g, %g] km",
			models.ErrRange, target, altitudes[0], altitudes[n-1])
	}

	i := sort.SearchFloat64s(altitudes, target)
	if i < n && altitudes[i] == target {
		return i, i, true, nil
	}
	return i - 1, i, false, nil
}

// Blend linearly interpolates two layers pixel by pixel:
//
//	out = lo + (target-altLo)/(altHi-altLo) * (hi - lo)
//
// When altLo == altHi (or target == altLo) the result is an exact copy of lo.
func Blend(lo, hi models.Grid, altLo, altHi, target float64) models.Grid {
	out := models.NewGrid(lo.Width, lo.Height)
	if altHi == altLo || target == altLo {
		copy(out.Values, lo.Values)
		return out
	}

	w := (target - altLo) / (altHi - altLo)
	diff := make([]float64, len(lo.Values))
	floats.SubTo(diff, hi.Values, lo.Values)
	floats.AddScaledTo(out.Values, lo.Values, w, diff)
	return out
}

// NormalizeLongitude maps longitudes above 180 degrees into (-180, 180] by
// subtracting 360. The grid is modified in place.
func NormalizeLongitude(g models.Grid) {
	for i, v := range g.Values {
		if v > 180 {
			g.Values[i] = v - 360
		}
	}
}

// AtAltitude returns the latitude and longitude grids of every skymap pixel
// mapped at target km.
//
// Latitude and longitude are interpolated independently. Longitudes are
// normalized into (-180, 180] before interpolation, including when target
// matches a reference altitude exactly.
func AtAltitude(skymap *models.Skymap, target float64) (lat, lon models.Grid, err error) {
	lo, hi, exact, err := Bracket(skymap.Altitudes, target)
	if err != nil {
		return models.Grid{}, models.Grid{}, err
	}

	latLo := skymap.Latitude.Layer(lo)
	lonLo := skymap.Longitude.Layer(lo)
	NormalizeLongitude(lonLo)
	if exact {
		return latLo, lonLo, nil
	}

	latHi := skymap.Latitude.Layer(hi)
	lonHi := skymap.Longitude.Layer(hi)
	NormalizeLongitude(lonHi)

	altLo, altHi := skymap.Altitudes[lo], skymap.Altitudes[hi]
	return Blend(latLo, latHi, altLo, altHi, target), Blend(lonLo, lonHi, altLo, altHi, target), nil
}
