package models

// RawStack is an image stack exactly as the caller holds it.
// The data is row-major over Shape, which may have rank 2, 3 or 4.
type RawStack struct {
	// Shape lists the axis lengths, outermost first
	Shape []int

	// Data holds the pixel values in row-major order
	Data []float64
}

// ImageStack is a stack of frames in canonical [channels, height, width, frames] order.
//
// The frame axis is innermost, so the value of channel c at pixel (x, y) in
// frame n lives at Data[((c*Height+y)*Width+x)*Frames+n]. An ImageStack built by
// the channel normalizer shares Data with the caller's RawStack and must be
// treated as read-only.
type ImageStack struct {
	// Channels is 1 for monochrome imagers and 3 for colour imagers
	Channels int

	// Height and Width are the spatial dimensions of a single frame
	Height int
	Width  int

	// Frames is the number of frames in the time series
	Frames int

	// Data is the backing array
	Data []float64
}

// PlaneSize returns the number of pixels in a single frame of one channel.
func (s ImageStack) PlaneSize() int {
	return s.Height * s.Width
}

// Offset returns the index in Data of channel c at flat pixel index p, frame 0.
// Successive frames follow at stride 1.
func (s ImageStack) Offset(c, p int) int {
	return (c*s.PlaneSize() + p) * s.Frames
}

// At returns the value of channel c at pixel (x, y) in frame n.
func (s ImageStack) At(c, x, y, n int) float64 {
	return s.Data[s.Offset(c, y*s.Width+x)+n]
}

// Frame copies frame n of channel c into a new Grid.
func (s ImageStack) Frame(c, n int) Grid {
	g := NewGrid(s.Width, s.Height)
	for p := range g.Values {
		g.Values[p] = s.Data[s.Offset(c, p)+n]
	}
	return g
}
