// Package extraction computes a per-frame summary metric over a region of an
// all-sky-imager stack. It ties together channel normalization, region
// validation, coordinate resolution, masking and statistical reduction.
package extraction

import (
	"fmt"
	"log"

	"asimetric/internal/models"
	"asimetric/pkg/region"
	"asimetric/pkg/stack"
	"asimetric/pkg/statistic"
)

// Request describes one region and the statistic to reduce over it.
type Request struct {
	// Mode is the region coordinate system: azimuth, elevation, ccd,
	// geodetic or geomagnetic (case-insensitive).
	Mode string

	// Bounds holds [low, high] for azimuth and elevation, [x0, x1, y0, y1]
	// for ccd and [lon0, lon1, lat0, lat1] for geodetic regions.
	// Pairs may be given in either order. ccd bounds are inclusive pixel
	// indices and must be whole numbers; fractional ccd bounds are rejected
	// rather than truncated.
	Bounds []float64

	// Metric is median, mean or sum. Empty means median.
	Metric string

	// Percentile selects a nearest-rank percentile in (0, 100) instead of Metric
	Percentile *float64

	// AltitudeKm is the mapping altitude, required for geodetic regions
	AltitudeKm *float64
}

// PreviewFunc receives the canonical stack and the region mask when a
// preview is requested. Its outcome never affects the extracted metric.
type PreviewFunc func(s models.ImageStack, m region.Mask) error

// Params holds everything an extraction needs besides the image stack.
type Params struct {
	Request

	// Skymap is the imager's calibration table. Required for azimuth,
	// elevation and geodetic regions; ignored for ccd regions.
	Skymap *models.Skymap

	// ShowPreview hands the region mask to Preview after a successful extraction
	ShowPreview bool

	// Preview renders the region; nil disables previews
	Preview PreviewFunc

	// Verbose logs each pipeline stage
	Verbose bool
}

// Extractor runs extractions with fixed parameters.
type Extractor struct {
	params *Params

	// mask is the region mask of the most recent successful extraction
	mask region.Mask
}

// NewExtractor creates an extractor for the given parameters.
func NewExtractor(params *Params) *Extractor {
	return &Extractor{params: params}
}

// Mask returns the region mask of the most recent successful extraction.
func (e *Extractor) Mask() region.Mask {
	return e.mask
}

// Extract computes the metric over raw. On error no result is returned.
//
// The result has shape [frames] for monochrome stacks and
// [channels, frames] for colour stacks.
func (e *Extractor) Extract(raw models.RawStack) (models.MetricResult, error) {
	p := e.params

	spec, err := statistic.Parse(p.Metric, p.Percentile)
	if err != nil {
		return models.MetricResult{}, err
	}

	channels, s, err := stack.Normalize(raw)
	if err != nil {
		return models.MetricResult{}, err
	}
	e.logf("Normalized stack: %d channel(s), %dx%d pixels, %d frame(s)", channels, s.Width, s.Height, s.Frames)

	mask, err := buildMask(s, p.Request, p.Skymap)
	if err != nil {
		return models.MetricResult{}, err
	}
	e.logf("Region %s %v covers %d pixel(s)", mask.Mode, p.Bounds, mask.Len())

	result, err := statistic.Reduce(s, mask.Indices, spec)
	if err != nil {
		return models.MetricResult{}, err
	}
	e.logf("Reduced %s over %d frame(s)", spec, s.Frames)

	e.mask = mask
	if p.ShowPreview && p.Preview != nil {
		if err := p.Preview(s, mask); err != nil {
			log.Printf("Warning: Failed to render region preview: %v", err)
		}
	}

	return result, nil
}

// ExtractMetric is the one-shot form of NewExtractor(params).Extract(raw).
func ExtractMetric(raw models.RawStack, params Params) (models.MetricResult, error) {
	return NewExtractor(&params).Extract(raw)
}

// buildMask validates req against the stack and resolves its region mask.
func buildMask(s models.ImageStack, req Request, skymap *models.Skymap) (region.Mask, error) {
	r, err := region.Validate(req.Mode, req.Bounds, s.Height, s.Width)
	if err != nil {
		return region.Mask{}, err
	}
	mask, err := region.Build(skymap, r, req.AltitudeKm, s.Height, s.Width)
	if err != nil {
		return region.Mask{}, fmt.Errorf("%s region: %w", r.Mode, err)
	}
	return mask, nil
}

func (e *Extractor) logf(format string, args ...interface{}) {
	if e.params.Verbose {
		log.Printf(format, args...)
	}
}
