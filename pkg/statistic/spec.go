// Package statistic selects and computes the per-frame summary metric of a
// masked region of an image stack.
package statistic

import (
	"fmt"
	"math"
	"strings"

	"asimetric/internal/models"
)

// Kind is the statistic reduced over a region.
type Kind int

const (
	Median Kind = iota
	Mean
	Sum
	Percentile
)

var kindNames = map[Kind]string{
	Median:     "median",
	Mean:       "mean",
	Sum:        "sum",
	Percentile: "percentile",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Spec is a validated statistic selection.
type Spec struct {
	Kind Kind

	// Percentile is the requested percentile in (0, 100); only used by Kind Percentile
	Percentile float64
}

func (s Spec) String() string {
	if s.Kind == Percentile {
		return fmt.Sprintf("percentile(%g)", s.Percentile)
	}
	return s.Kind.String()
}

// Parse builds a Spec from the metric-name selector and the optional
// percentile selector.
//
// The selectors combine as follows:
//
//	metric                      percentile   result
//	"", "median"                unset        median
//	"mean", "sum"               unset        that metric
//	"", "median", "percentile"  set          nearest-rank percentile
//	"mean", "sum", other        set          validation error (conflicting selectors)
//	"percentile"                unset        validation error
//
// Metric names are case-insensitive and surrounding space is ignored.
func Parse(metric string, percentile *float64) (Spec, error) {
	name := strings.ToLower(strings.TrimSpace(metric))

	if percentile != nil {
		if name != "" && name != "median" && name != "percentile" {
			return Spec{}, fmt.Errorf("%w: metric %q and percentile %g are mutually exclusive",
				models.ErrValidation, metric, *percentile)
		}
		return NewPercentile(*percentile)
	}

	switch name {
	case "", "median":
		return Spec{Kind: Median}, nil
	case "mean":
		return Spec{Kind: Mean}, nil
	case "sum":
		return Spec{Kind: Sum}, nil
	case "percentile":
		return Spec{}, fmt.Errorf("%w: metric percentile requires a percentile value", models.ErrValidation)
	default:
		return Spec{}, fmt.Errorf("%w: unknown metric %q (must be median, mean or sum)", models.ErrValidation, metric)
	}
}

// NewPercentile returns a percentile Spec, checking p lies strictly inside (0, 100).
func NewPercentile(p float64) (Spec, error) {
	if math.IsNaN(p) || p <= 0 || p >= 100 {
		return Spec{}, fmt.Errorf("%w: percentile %g must be strictly between 0 and 100", models.ErrValidation, p)
	}
	return Spec{Kind: Percentile, Percentile: p}, nil
}
