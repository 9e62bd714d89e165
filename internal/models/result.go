package models

// MetricResult holds one scalar per frame, per channel.
//
// A monochrome result has rank 1 ([frames]); a multi-channel result has
// rank 2 ([channels, frames]). Values are stored channel-major.
type MetricResult struct {
	// Channels is the number of channels reduced
	Channels int

	// Frames is the number of frames reduced
	Frames int

	// Values holds Channels*Frames metrics, Values[c*Frames+n]
	Values []float64
}

// NewMetricResult allocates a zeroed result.
func NewMetricResult(channels, frames int) MetricResult {
	return MetricResult{Channels: channels, Frames: frames, Values: make([]float64, channels*frames)}
}

// Shape returns [frames] for monochrome results and [channels, frames] otherwise.
func (r MetricResult) Shape() []int {
	if r.Channels == 1 {
		return []int{r.Frames}
	}
	return []int{r.Channels, r.Frames}
}

// Rank returns the number of axes reported by Shape.
func (r MetricResult) Rank() int { return len(r.Shape()) }

func (r MetricResult) At(c, n int) float64     { return r.Values[c*r.Frames+n] }
func (r MetricResult) Set(c, n int, v float64) { r.Values[c*r.Frames+n] = v }

// Channel returns the per-frame series of channel c. The slice aliases Values.
func (r MetricResult) Channel(c int) []float64 {
	return r.Values[c*r.Frames : (c+1)*r.Frames]
}
