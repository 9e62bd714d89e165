package region

import (
	"fmt"

	"asimetric/internal/models"
	"asimetric/pkg/interpolation"
)

// Coordinates holds the per-pixel arrays a region's membership is tested on.
// Azimuth and elevation regions use Primary only; geodetic regions put
// longitude in Primary and latitude in Secondary; ccd regions use neither.
type Coordinates struct {
	Primary   models.Grid
	Secondary models.Grid
}

// Resolve produces the coordinate arrays for r from the skymap. altitude is
// the mapping altitude in km and is required for geodetic regions only.
func Resolve(skymap *models.Skymap, r Region, altitude *float64) (Coordinates, error) {
	return variants[r.Mode].resolve(skymap, r, altitude)
}

func requireSkymap(skymap *models.Skymap, m Mode) error {
	if skymap == nil {
		return fmt.Errorf("%w: %s mode requires a skymap", models.ErrConfiguration, m)
	}
	return nil
}

func resolveAzimuth(skymap *models.Skymap, r Region, _ *float64) (Coordinates, error) {
	if err := requireSkymap(skymap, r.Mode); err != nil {
		return Coordinates{}, err
	}
	if err := skymap.Check(); err != nil {
		return Coordinates{}, err
	}
	return Coordinates{Primary: skymap.Azimuth}, nil
}

func resolveElevation(skymap *models.Skymap, r Region, _ *float64) (Coordinates, error) {
	if err := requireSkymap(skymap, r.Mode); err != nil {
		return Coordinates{}, err
	}
	if err := skymap.Check(); err != nil {
		return Coordinates{}, err
	}
	return Coordinates{Primary: skymap.Elevation}, nil
}

// resolveCCD needs no arrays: pixel indices are the coordinates.
func resolveCCD(*models.Skymap, Region, *float64) (Coordinates, error) {
	return Coordinates{}, nil
}

func resolveGeodetic(skymap *models.Skymap, r Region, altitude *float64) (Coordinates, error) {
	if err := requireSkymap(skymap, r.Mode); err != nil {
		return Coordinates{}, err
	}
	if altitude == nil {
		return Coordinates{}, fmt.Errorf("%w: geodetic mode requires a mapping altitude in km", models.ErrConfiguration)
	}
	if err := skymap.CheckGeodetic(); err != nil {
		return Coordinates{}, err
	}

	lat, lon, err := interpolation.AtAltitude(skymap, *altitude)
	if err != nil {
		return Coordinates{}, err
	}
	if err := checkCoverage(r, lon, lat, *altitude); err != nil {
		return Coordinates{}, err
	}
	return Coordinates{Primary: lon, Secondary: lat}, nil
}

// checkCoverage requires the geodetic bounds to lie strictly inside the
// finite extent of the resolved coordinates, so a region the skymap cannot
// see fails here instead of producing an empty or degenerate mask.
func checkCoverage(r Region, lon, lat models.Grid, altitude float64) error {
	for axis, g := range []models.Grid{lon, lat} {
		min, max, ok := g.FiniteExtent()
		if !ok {
			return fmt.Errorf("%w: skymap has no valid %s at %g km",
				models.ErrRange, axisName(Geodetic, axis), altitude)
		}
		if r.Low[axis] <= min || r.High[axis] >= max {
			return fmt.Errorf("%w: no coverage, %s bounds [%g, %g] not inside skymap extent (%g, %g) at %g km",
				models.ErrRange, axisName(Geodetic, axis), r.Low[axis], r.High[axis], min, max, altitude)
		}
	}
	return nil
}

func resolveGeomagnetic(*models.Skymap, Region, *float64) (Coordinates, error) {
	return Coordinates{}, fmt.Errorf("%w: geomagnetic regions are not implemented", models.ErrUnsupportedMode)
}
