package statistic

import (
	"errors"
	"testing"

	"asimetric/internal/models"
)

func ptr(v float64) *float64 { return &v }

// TestParse verifies metric/percentile selector resolution
func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		metric     string
		percentile *float64
		want       Spec
		wantErr    bool
	}{
		{"default median", "", nil, Spec{Kind: Median}, false},
		{"median", "median", nil, Spec{Kind: Median}, false},
		{"mean upper case", "MEAN", nil, Spec{Kind: Mean}, false},
		{"sum", " sum ", nil, Spec{Kind: Sum}, false},
		{"percentile only", "", ptr(90), Spec{Kind: Percentile, Percentile: 90}, false},
		{"percentile overrides default median", "median", ptr(25), Spec{Kind: Percentile, Percentile: 25}, false},
		{"percentile conflicts with mean", "mean", ptr(25), Spec{}, true},
		{"percentile conflicts with sum", "Sum", ptr(25), Spec{}, true},
		{"percentile named with value", "percentile", ptr(75), Spec{Kind: Percentile, Percentile: 75}, false},
		{"percentile zero", "", ptr(0), Spec{}, true},
		{"percentile hundred", "", ptr(100), Spec{}, true},
		{"percentile negative", "", ptr(-5), Spec{}, true},
		{"percentile name without value", "percentile", nil, Spec{}, true},
		{"unknown metric", "mode", nil, Spec{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.metric, tt.percentile)
			if tt.wantErr {
				if !errors.Is(err, models.ErrValidation) {
					t.Errorf("Expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSpecString(t *testing.T) {
	if got := (Spec{Kind: Percentile, Percentile: 97.5}).String(); got != "percentile(97.5)" {
		t.Errorf("Expected percentile(97.5), got %s", got)
	}
	if got := (Spec{Kind: Sum}).String(); got != "sum" {
		t.Errorf("Expected sum, got %s", got)
	}
}
