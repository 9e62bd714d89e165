package models

import (
	"fmt"
	"sort"
)

// Skymap is the geometric calibration table of a single all-sky imager.
// It maps detector pixels to look directions and, at several reference
// altitudes, to geodetic coordinates. A Skymap is never modified after loading.
type Skymap struct {
	// Azimuth is the per-pixel look azimuth in degrees.
	// Pixels without a valid mapping hold NaN.
	Azimuth Grid `yaml:"azimuth"`

	// Elevation is the per-pixel look elevation in degrees.
	// Pixels without a valid mapping hold NaN.
	Elevation Grid `yaml:"elevation"`

	// Altitudes lists the reference altitudes in km, ascending
	Altitudes []float64 `yaml:"altitudes"`

	// Latitude and Longitude hold the geodetic coordinates of every pixel at
	// every reference altitude. They may be one pixel larger than the
	// azimuth/elevation grids in each direction when the skymap stores pixel
	// corners rather than centres.
	Latitude  Cube `yaml:"latitude"`
	Longitude Cube `yaml:"longitude"`
}

// Check verifies the skymap is internally consistent. It does not compare
// the skymap against any image stack.
func (m *Skymap) Check() error {
	if !m.Azimuth.Valid() {
		return fmt.Errorf("%w: skymap azimuth grid is %dx%d with %d values",
			ErrConfiguration, m.Azimuth.Width, m.Azimuth.Height, len(m.Azimuth.Values))
	}
	if !m.Elevation.Valid() {
		return fmt.Errorf("%w: skymap elevation grid is %dx%d with %d values",
			ErrConfiguration, m.Elevation.Width, m.Elevation.Height, len(m.Elevation.Values))
	}
	if m.Azimuth.Width != m.Elevation.Width || m.Azimuth.Height != m.Elevation.Height {
		return fmt.Errorf("%w: skymap azimuth (%dx%d) and elevation (%dx%d) grids differ",
			ErrConfiguration, m.Azimuth.Width, m.Azimuth.Height, m.Elevation.Width, m.Elevation.Height)
	}
	return nil
}

// CheckGeodetic verifies the altitude table and the latitude/longitude cubes.
func (m *Skymap) CheckGeodetic() error {
	if len(m.Altitudes) == 0 {
		return fmt.Errorf("%w: skymap has no reference altitudes", ErrConfiguration)
	}
	if !sort.Float64sAreSorted(m.Altitudes) {
		return fmt.Errorf("%w: skymap reference altitudes are not ascending", ErrConfiguration)
	}
	for _, c := range []struct {
		name string
		cube Cube
	}{{"latitude", m.Latitude}, {"longitude", m.Longitude}} {
		if !c.cube.Valid() {
			return fmt.Errorf("%w: skymap %s cube is %dx%dx%d with %d values",
				ErrConfiguration, c.name, c.cube.Width, c.cube.Height, c.cube.Depth, len(c.cube.Values))
		}
		if c.cube.Depth != len(m.Altitudes) {
			return fmt.Errorf("%w: skymap %s cube has %d altitude layers, expected %d",
				ErrConfiguration, c.name, c.cube.Depth, len(m.Altitudes))
		}
	}
	if m.Latitude.Width != m.Longitude.Width || m.Latitude.Height != m.Longitude.Height {
		return fmt.Errorf("%w: skymap latitude and longitude cubes differ in size", ErrConfiguration)
	}
	return nil
}
