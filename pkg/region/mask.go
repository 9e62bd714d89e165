package region

import (
	"fmt"
	"image"
	"math"

	"asimetric/internal/models"
)

// Mask is the set of pixels inside a region.
//
// Indices are flat indices into the GridWidth x GridHeight grid the
// membership predicate was evaluated on, in row-major order. They are
// applied to the image plane as flat indices (y*Width+x).
type Mask struct {
	Mode Mode

	Indices []int

	GridHeight int
	GridWidth  int

	// Rect is the pixel rectangle of a ccd region, Max exclusive.
	// It is empty for every other mode.
	Rect image.Rectangle
}

// Len returns the number of pixels in the mask.
func (m Mask) Len() int { return len(m.Indices) }

// Overlay rasterizes the mask on its grid: true for member pixels.
func (m Mask) Overlay() []bool {
	out := make([]bool, m.GridHeight*m.GridWidth)
	for _, p := range m.Indices {
		out[p] = true
	}
	return out
}

// Build resolves r's coordinates and evaluates its membership predicate over
// an image of the given height and width. An empty region is an error.
func Build(skymap *models.Skymap, r Region, altitude *float64, height, width int) (Mask, error) {
	coords, err := Resolve(skymap, r, altitude)
	if err != nil {
		return Mask{}, err
	}
	return BuildMask(coords, r, height, width)
}

// BuildMask evaluates r's membership predicate on resolved coordinates.
func BuildMask(c Coordinates, r Region, height, width int) (Mask, error) {
	v := variants[r.Mode]
	if v.mask == nil {
		return Mask{}, fmt.Errorf("%w: %s regions cannot be masked", models.ErrUnsupportedMode, r.Mode)
	}
	if r.Mode == CCD {
		c.Primary = models.Grid{Height: height, Width: width}
	}

	m := v.mask(c, r)
	if m.Len() == 0 {
		return Mask{}, fmt.Errorf("%w: no valid pixels in %s", models.ErrEmptyRegion, r)
	}
	if plane := height * width; m.Indices[len(m.Indices)-1] >= plane {
		return Mask{}, fmt.Errorf("%w: %s mask reaches pixel %d but the image has %dx%d pixels",
			models.ErrRange, r.Mode, m.Indices[len(m.Indices)-1], width, height)
	}
	return m, nil
}

// maskOpenInterval selects finite values strictly between the bounds.
// Non-finite values mark pixels without a calibrated look direction.
func maskOpenInterval(c Coordinates, r Region) Mask {
	g := c.Primary
	m := Mask{Mode: r.Mode, GridHeight: g.Height, GridWidth: g.Width}
	lo, hi := r.Low[0], r.High[0]
	for p, v := range g.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v > lo && v < hi {
			m.Indices = append(m.Indices, p)
		}
	}
	return m
}

// maskRectangle selects the inclusive pixel rectangle [x0:x1, y0:y1].
func maskRectangle(c Coordinates, r Region) Mask {
	x0, x1 := int(r.Low[0]), int(r.High[0])
	y0, y1 := int(r.Low[1]), int(r.High[1])
	m := Mask{
		Mode:       r.Mode,
		GridHeight: c.Primary.Height,
		GridWidth:  c.Primary.Width,
		Rect:       image.Rect(x0, y0, x1+1, y1+1),
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			m.Indices = append(m.Indices, y*m.GridWidth+x)
		}
	}
	return m
}

// maskInteriorInclusive selects pixels whose longitude and latitude both lie
// within the inclusive bounds, evaluated on the grid with the first row and
// first column dropped.
func maskInteriorInclusive(c Coordinates, r Region) Mask {
	lon, lat := c.Primary, c.Secondary
	m := Mask{Mode: r.Mode, GridHeight: lon.Height - 1, GridWidth: lon.Width - 1}
	for y := 1; y < lon.Height; y++ {
		for x := 1; x < lon.Width; x++ {
			lo, la := lon.Get(x, y), lat.Get(x, y)
			if lo >= r.Low[0] && lo <= r.High[0] && la >= r.Low[1] && la <= r.High[1] {
				m.Indices = append(m.Indices, (y-1)*m.GridWidth+(x-1))
			}
		}
	}
	return m
}
