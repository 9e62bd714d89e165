package statistic

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"asimetric/internal/models"
)

// Reduce computes spec over the pixels of s selected by indices, one value
// per frame per channel, in the original frame order.
//
// indices are flat pixel indices (y*Width+x) into a single frame. Frames are
// reduced one at a time through a scratch buffer sized to the region, so the
// stack itself is never flattened or copied.
func Reduce(s models.ImageStack, indices []int, spec Spec) (models.MetricResult, error) {
	if len(indices) == 0 {
		return models.MetricResult{}, fmt.Errorf("%w: no pixels to reduce", models.ErrEmptyRegion)
	}
	plane := s.PlaneSize()
	for _, p := range indices {
		if p < 0 || p >= plane {
			return models.MetricResult{}, fmt.Errorf("%w: region pixel %d outside %dx%d image",
				models.ErrRange, p, s.Width, s.Height)
		}
	}

	// offsets[c][k] is the frame-0 position of region pixel k in channel c
	offsets := make([][]int, s.Channels)
	for c := range offsets {
		offsets[c] = make([]int, len(indices))
		for k, p := range indices {
			offsets[c][k] = s.Offset(c, p)
		}
	}

	result := models.NewMetricResult(s.Channels, s.Frames)
	if spec.Kind == Percentile && s.Channels > 1 {
		reduceJointPercentile(s, offsets, spec.Percentile, result)
		return result, nil
	}

	buf := make([]float64, len(indices))
	for c := 0; c < s.Channels; c++ {
		for n := 0; n < s.Frames; n++ {
			for k, off := range offsets[c] {
				buf[k] = s.Data[off+n]
			}
			result.Set(c, n, reduceValues(buf, spec))
		}
	}
	return result, nil
}

// reduceValues applies a single-channel statistic. values may be reordered.
func reduceValues(values []float64, spec Spec) float64 {
	switch spec.Kind {
	case Mean:
		return stat.Mean(values, nil)
	case Sum:
		return floats.Sum(values)
	case Percentile:
		sort.Float64s(values)
		return values[NearestRank(spec.Percentile, len(values))]
	default:
		return median(values)
	}
}

// median sorts values in place and returns the conventional median; even
// counts average the two middle values.
func median(values []float64) float64 {
	sort.Float64s(values)
	n := len(values)
	if n%2 == 0 {
		return (values[n/2-1] + values[n/2]) / 2
	}
	return values[n/2]
}

// NearestRank returns the index floor(p/100 * (count-1)) selected by a
// nearest-rank percentile over count sorted samples.
func NearestRank(p float64, count int) int {
	return int(math.Floor(p / 100 * float64(count-1)))
}

// reduceJointPercentile ranks the region's pixels once per frame by the sum
// of their channel values and reports every channel of the selected pixel,
// so the returned triplet is a colour that actually occurred.
func reduceJointPercentile(s models.ImageStack, offsets [][]int, p float64, result models.MetricResult) {
	count := len(offsets[0])
	sums := make([]float64, count)
	order := make([]int, count)
	rank := NearestRank(p, count)

	for n := 0; n < s.Frames; n++ {
		for k := 0; k < count; k++ {
			sums[k] = 0
			for c := range offsets {
				sums[k] += s.Data[offsets[c][k]+n]
			}
			order[k] = k
		}
		sort.SliceStable(order, func(i, j int) bool { return sums[order[i]] < sums[order[j]] })

		picked := order[rank]
		for c := range offsets {
			result.Set(c, n, s.Data[offsets[c][picked]+n])
		}
	}
}
