// Package region turns a region specification in one of several coordinate
// systems into the set of image pixels it covers.
//
// # Modes
//
// A region is given in one of five coordinate systems:
//   - azimuth:     [az0, az1] degrees, open interval, full image grid
//   - elevation:   [el0, el1] degrees, open interval, full image grid
//   - ccd:         [x0, x1, y0, y1] pixels, inclusive rectangle
//   - geodetic:    [lon0, lon1, lat0, lat1] degrees at a mapping altitude,
//     inclusive, evaluated on the skymap's interior grid
//   - geomagnetic: recognised but not implemented
//
// Each mode supplies a bound validator, a coordinate resolver and a
// membership predicate; Validate, Resolve and BuildMask dispatch on the mode
// and are otherwise mode-agnostic.
//
// # Geodetic grid
//
// Geodetic membership is tested on the latitude/longitude arrays with their
// first row and first column dropped, and the resulting flat indices are
// applied to the image plane. For skymaps that store pixel corners (one
// element larger than the image in each direction) the interior grid lines
// up with the image exactly. The asymmetry with the open-interval, full-grid
// azimuth/elevation modes is kept as-is.
package region

import (
	"fmt"
	"strings"

	"asimetric/internal/models"
)

// Mode identifies the coordinate system a region is expressed in.
type Mode int

const (
	Azimuth Mode = iota
	Elevation
	CCD
	Geodetic
	Geomagnetic
)

var modeNames = map[Mode]string{
	Azimuth:     "azimuth",
	Elevation:   "elevation",
	CCD:         "ccd",
	Geodetic:    "geodetic",
	Geomagnetic: "geomagnetic",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode resolves a case-insensitive mode name.
func ParseMode(name string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for m, n := range modeNames {
		if n == key {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown mode %q (must be azimuth, elevation, ccd, geodetic or geomagnetic)",
		models.ErrValidation, name)
}

// variant bundles the mode-specific pieces of the pipeline.
type variant struct {
	// arity is the number of bound values the mode takes
	arity int

	// checkRange validates the ordered bounds against the mode's domain
	checkRange func(r Region, height, width int) error

	// resolve produces the coordinate arrays membership is tested on
	resolve func(skymap *models.Skymap, r Region, altitude *float64) (Coordinates, error)

	// mask evaluates the membership predicate
	mask func(c Coordinates, r Region) Mask
}

var variants map[Mode]variant

func init() {
	variants = map[Mode]variant{
		Azimuth:     {arity: 2, checkRange: checkAzimuth, resolve: resolveAzimuth, mask: maskOpenInterval},
		Elevation:   {arity: 2, checkRange: checkElevation, resolve: resolveElevation, mask: maskOpenInterval},
		CCD:         {arity: 4, checkRange: checkCCD, resolve: resolveCCD, mask: maskRectangle},
		Geodetic:    {arity: 4, checkRange: checkGeodetic, resolve: resolveGeodetic, mask: maskInteriorInclusive},
		Geomagnetic: {arity: 4, checkRange: checkNothing, resolve: resolveGeomagnetic, mask: nil},
	}
}

// Arity returns the number of bound values the mode expects.
func (m Mode) Arity() int { return variants[m].arity }
