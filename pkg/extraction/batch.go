package extraction

import (
	"fmt"
	"sync"

	"asimetric/internal/models"
	"asimetric/pkg/stack"
	"asimetric/pkg/statistic"
)

// ExtractMany evaluates several requests over the same stack, running up to
// numCores of them at once. The stack and skymap are shared read-only; each
// request builds its own mask. Results are returned in request order. If any
// request fails, the error of the lowest-numbered failing request is returned
// with no results.
func ExtractMany(raw models.RawStack, skymap *models.Skymap, requests []Request, numCores int) ([]models.MetricResult, error) {
	_, s, err := stack.Normalize(raw)
	if err != nil {
		return nil, err
	}
	if numCores < 1 {
		numCores = 1
	}

	results := make([]models.MetricResult, len(requests))
	errs := make([]error, len(requests))

	var wg sync.WaitGroup
	sem := make(chan struct{}, numCores)
	for i := range requests {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], errs[i] = extractOne(s, skymap, requests[i])
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
	}
	return results, nil
}

func extractOne(s models.ImageStack, skymap *models.Skymap, req Request) (models.MetricResult, error) {
	spec, err := statistic.Parse(req.Metric, req.Percentile)
	if err != nil {
		return models.MetricResult{}, err
	}
	mask, err := buildMask(s, req, skymap)
	if err != nil {
		return models.MetricResult{}, err
	}
	return statistic.Reduce(s, mask.Indices, spec)
}
