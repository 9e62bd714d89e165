package extraction

import (
	"errors"
	"fmt"
	"testing"

	"asimetric/internal/models"
	"asimetric/pkg/region"
)

// createBlockStack builds a [channels, size, size, frames] stack (or
// [size, size, frames] when channels is 1) filled with background, with the
// block [0,block) x [0,block) set to peak. Channel c adds c to every value.
func createBlockStack(channels, size, frames, block int, background, peak float64) models.RawStack {
	data := make([]float64, channels*size*size*frames)
	for c := 0; c < channels; c++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				v := background
				if x < block && y < block {
					v = peak
				}
				for n := 0; n < frames; n++ {
					data[((c*size+y)*size+x)*frames+n] = v + float64(c)
				}
			}
		}
	}
	shape := []int{size, size, frames}
	if channels > 1 {
		shape = []int{channels, size, size, frames}
	}
	return models.RawStack{Shape: shape, Data: data}
}

// createZenithSkymap builds a size x size skymap looking straight up inside
// the block [0,block) x [0,block) and at the horizon elsewhere
func createZenithSkymap(size, block int) *models.Skymap {
	az := models.NewGrid(size, size)
	el := models.NewGrid(size, size)
	for y := 0; y < block; y++ {
		for x := 0; x < block; x++ {
			el.Set(x, y, 90)
		}
	}
	return &models.Skymap{Azimuth: az, Elevation: el}
}

func percentile(v float64) *float64 { return &v }

func expectValues(t *testing.T, got models.MetricResult, want float64, count int) {
	t.Helper()
	if len(got.Values) != count {
		t.Fatalf("Expected %d values, got %d", count, len(got.Values))
	}
	for i, v := range got.Values {
		if v != want {
			t.Errorf("Expected value %d to be %g, got %g", i, want, v)
		}
	}
}

// TestExtractMetricScenarios verifies the per-frame metric for typical requests
func TestExtractMetricScenarios(t *testing.T) {
	raw := createBlockStack(1, 100, 5, 10, 10, 100)
	skymap := createZenithSkymap(100, 10)

	tests := []struct {
		name string
		req  Request
		want float64
	}{
		{"elevation mean", Request{Mode: "elevation", Bounds: []float64{45, 95}, Metric: "mean"}, 100},
		{"elevation median", Request{Mode: "elevation", Bounds: []float64{45, 95}}, 100},
		{"elevation percentile", Request{Mode: "elevation", Bounds: []float64{45, 95}, Percentile: percentile(50)}, 100},
		{"ccd sum", Request{Mode: "ccd", Bounds: []float64{0, 9, 0, 9}, Metric: "sum"}, 10000},
		{"ccd reversed bounds", Request{Mode: "CCD", Bounds: []float64{9, 0, 9, 0}, Metric: "sum"}, 10000},
		{"ccd background", Request{Mode: "ccd", Bounds: []float64{50, 59, 50, 59}, Metric: "mean"}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractMetric(raw, Params{Request: tt.req, Skymap: skymap})
			if err != nil {
				t.Fatalf("ExtractMetric failed: %v", err)
			}
			if rank := got.Rank(); rank != 1 {
				t.Errorf("Expected rank 1 for a mono stack, got %d", rank)
			}
			expectValues(t, got, tt.want, 5)
		})
	}
}

// TestExtractMetricColour verifies colour stacks yield one series per channel
func TestExtractMetricColour(t *testing.T) {
	raw := createBlockStack(3, 20, 4, 5, 1, 50)

	got, err := ExtractMetric(raw, Params{Request: Request{
		Mode: "ccd", Bounds: []float64{0, 4, 0, 4}, Metric: "mean",
	}})
	if err != nil {
		t.Fatalf("ExtractMetric failed: %v", err)
	}

	shape := got.Shape()
	if len(shape) != 2 || shape[0] != 3 || shape[1] != 4 {
		t.Fatalf("Expected shape [3 4], got %v", shape)
	}
	for c := 0; c < 3; c++ {
		for n := 0; n < 4; n++ {
			if v := got.At(c, n); v != 50+float64(c) {
				t.Errorf("Expected channel %d frame %d to be %g, got %g", c, n, 50+float64(c), v)
			}
		}
	}
}

// TestExtractMetricSingleImage verifies a 2-D image is treated as one frame
func TestExtractMetricSingleImage(t *testing.T) {
	raw := models.RawStack{Shape: []int{2, 3}, Data: []float64{1, 2, 3, 4, 5, 6}}

	got, err := ExtractMetric(raw, Params{Request: Request{
		Mode: "ccd", Bounds: []float64{0, 2, 0, 1}, Metric: "sum",
	}})
	if err != nil {
		t.Fatalf("ExtractMetric failed: %v", err)
	}
	expectValues(t, got, 21, 1)
}

// TestExtractMetricErrors verifies failures carry their error kind
func TestExtractMetricErrors(t *testing.T) {
	raw := createBlockStack(1, 10, 2, 3, 0, 1)
	skymap := createZenithSkymap(10, 3)

	tests := []struct {
		name    string
		raw     models.RawStack
		params  Params
		wantErr error
	}{
		{"unknown metric", raw, Params{Request: Request{Mode: "ccd", Bounds: []float64{0, 1, 0, 1}, Metric: "mode"}}, models.ErrValidation},
		{"bad percentile", raw, Params{Request: Request{Mode: "ccd", Bounds: []float64{0, 1, 0, 1}, Percentile: percentile(100)}}, models.ErrValidation},
		{"bad shape", models.RawStack{Shape: []int{2, 2, 2, 2, 2}, Data: make([]float64, 32)}, Params{Request: Request{Mode: "ccd", Bounds: []float64{0, 1, 0, 1}}}, models.ErrUnrecognizedShape},
		{"unknown mode", raw, Params{Request: Request{Mode: "galactic", Bounds: []float64{0, 1}}}, models.ErrValidation},
		{"wrong arity", raw, Params{Request: Request{Mode: "ccd", Bounds: []float64{0, 1}}}, models.ErrValidation},
		{"zero area", raw, Params{Request: Request{Mode: "elevation", Bounds: []float64{30, 30}}, Skymap: skymap}, models.ErrValidation},
		{"ccd outside image", raw, Params{Request: Request{Mode: "ccd", Bounds: []float64{0, 10, 0, 1}}}, models.ErrRange},
		{"missing skymap", raw, Params{Request: Request{Mode: "azimuth", Bounds: []float64{0, 90}}}, models.ErrConfiguration},
		{"missing altitude", raw, Params{Request: Request{Mode: "geodetic", Bounds: []float64{-110, -100, 50, 55}}, Skymap: skymap}, models.ErrConfiguration},
		{"geomagnetic", raw, Params{Request: Request{Mode: "geomagnetic", Bounds: []float64{0, 1, 0, 1}}, Skymap: skymap}, models.ErrUnsupportedMode},
		{"empty region", raw, Params{Request: Request{Mode: "elevation", Bounds: []float64{10, 20}}, Skymap: skymap}, models.ErrEmptyRegion},
		{"skymap larger than image", raw, Params{Request: Request{Mode: "elevation", Bounds: []float64{45, 95}}, Skymap: createZenithSkymap(20, 15)}, models.ErrRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractMetric(tt.raw, tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if len(got.Values) != 0 {
				t.Errorf("Expected no partial result, got %v", got.Values)
			}
		})
	}
}

// TestExtractorPreview verifies the preview receives the mask and cannot
// change the result
func TestExtractorPreview(t *testing.T) {
	raw := createBlockStack(1, 10, 3, 2, 0, 8)
	var calls int
	var seen region.Mask
	params := &Params{
		Request:     Request{Mode: "ccd", Bounds: []float64{0, 1, 0, 1}, Metric: "sum"},
		ShowPreview: true,
		Preview: func(s models.ImageStack, m region.Mask) error {
			calls++
			seen = m
			if s.Frames != 3 {
				t.Errorf("Expected 3 frames in preview stack, got %d", s.Frames)
			}
			return fmt.Errorf("display unavailable")
		},
	}

	e := NewExtractor(params)
	got, err := e.Extract(raw)
	if err != nil {
		t.Fatalf("Extract failed despite preview failure: %v", err)
	}
	expectValues(t, got, 32, 3)

	if calls != 1 {
		t.Errorf("Expected one preview call, got %d", calls)
	}
	if seen.Len() != 4 || seen.Mode != region.CCD {
		t.Errorf("Expected a 4 pixel ccd mask, got %d pixels in %s mode", seen.Len(), seen.Mode)
	}
	if e.Mask().Len() != 4 {
		t.Errorf("Expected extractor to keep the 4 pixel mask, got %d", e.Mask().Len())
	}

	// no preview without the flag
	params.ShowPreview = false
	if _, err := e.Extract(raw); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected preview to be skipped, got %d calls", calls)
	}
}

// TestExtractorKeepsMaskOnError verifies a failed extraction leaves the
// previous mask in place
func TestExtractorKeepsMaskOnError(t *testing.T) {
	raw := createBlockStack(1, 10, 1, 2, 0, 8)
	params := &Params{Request: Request{Mode: "ccd", Bounds: []float64{0, 2, 0, 2}}}
	e := NewExtractor(params)
	if _, err := e.Extract(raw); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	params.Bounds = []float64{0, 20, 0, 2}
	if _, err := e.Extract(raw); !errors.Is(err, models.ErrRange) {
		t.Fatalf("Expected ErrRange, got %v", err)
	}
	if e.Mask().Len() != 9 {
		t.Errorf("Expected previous 9 pixel mask, got %d", e.Mask().Len())
	}
}

// TestExtractMetricDoesNotMutateInput verifies the stack data is untouched
func TestExtractMetricDoesNotMutateInput(t *testing.T) {
	raw := createBlockStack(1, 10, 3, 4, 5, 1)
	before := append([]float64(nil), raw.Data...)

	if _, err := ExtractMetric(raw, Params{Request: Request{
		Mode: "ccd", Bounds: []float64{0, 9, 0, 9}, Percentile: percentile(90),
	}}); err != nil {
		t.Fatalf("ExtractMetric failed: %v", err)
	}
	for i := range before {
		if raw.Data[i] != before[i] {
			t.Fatalf("Expected input unchanged at %d: %g became %g", i, before[i], raw.Data[i])
		}
	}
}
