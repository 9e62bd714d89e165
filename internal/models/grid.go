package models

import "math"

// Grid is a row-major 2-D array of float64 values.
type Grid struct {
	Height int
	Width  int
	Values []float64
}

// NewGrid allocates a zeroed grid.
func NewGrid(width, height int) Grid {
	return Grid{Height: height, Width: width, Values: make([]float64, width*height)}
}

func (g Grid) Get(x, y int) float64    { return g.Values[y*g.Width+x] }
func (g Grid) Set(x, y int, v float64) { g.Values[y*g.Width+x] = v }
func (g Grid) Len() int                { return len(g.Values) }

// Valid reports whether the dimensions agree with the backing slice.
func (g Grid) Valid() bool {
	return g.Height > 0 && g.Width > 0 && len(g.Values) == g.Height*g.Width
}

// FiniteExtent returns the minimum and maximum finite values of the grid.
// ok is false when no value is finite.
func (g Grid) FiniteExtent() (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range g.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		ok = true
	}
	return min, max, ok
}

// Cube is a row-major 3-D array where the innermost axis is Depth.
// Element (x, y, d) lives at Values[(y*Width+x)*Depth+d].
type Cube struct {
	Height int
	Width  int
	Depth  int
	Values []float64
}

// NewCube allocates a zeroed cube.
func NewCube(width, height, depth int) Cube {
	return Cube{Height: height, Width: width, Depth: depth, Values: make([]float64, width*height*depth)}
}

func (c Cube) Get(x, y, d int) float64    { return c.Values[(y*c.Width+x)*c.Depth+d] }
func (c Cube) Set(x, y, d int, v float64) { c.Values[(y*c.Width+x)*c.Depth+d] = v }

// Valid reports whether the dimensions agree with the backing slice.
func (c Cube) Valid() bool {
	return c.Height > 0 && c.Width > 0 && c.Depth > 0 && len(c.Values) == c.Height*c.Width*c.Depth
}

// Layer copies depth index d into a new Grid.
func (c Cube) Layer(d int) Grid {
	g := NewGrid(c.Width, c.Height)
	for p := range g.Values {
		g.Values[p] = c.Values[p*c.Depth+d]
	}
	return g
}
