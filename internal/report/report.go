// Package report builds the comparison between an original series and its
// simplified version.
package report

import (
	"fmt"

	"github.com/soltixdb/rdplines/internal/stats"
)

// DefaultConfidenceLevel is used when a caller does not provide one.
const DefaultConfidenceLevel = 0.95

// ComparisonReport is an immutable snapshot computed per request.
type ComparisonReport struct {
	ConfidenceLevel  float64            `json:"confidence_level"`
	OriginalPoints   int                `json:"original_points"`
	SimplifiedPoints int                `json:"simplified_points"`
	RetainedPercent  float64            `json:"retained_percent"`
	ReductionPercent float64            `json:"reduction_percent"`
	Original         stats.Summary      `json:"original"`
	Simplified       *stats.Summary     `json:"simplified,omitempty"`
	SimplifiedError  string             `json:"simplified_error,omitempty"`
	TTest            *stats.TTestResult `json:"t_test,omitempty"`
	TTestError       string             `json:"t_test_error,omitempty"`
}

// Compare summarizes both series and runs a Welch t-test between them.
// Only an original series that cannot be summarized is an error; statistics
// that are undefined for the simplified series are reported as messages.
func Compare(original, simplified stats.Series, confidenceLevel float64) (*ComparisonReport, error) {
	origSummary, err := stats.Summarize(original, confidenceLevel)
	if err != nil {
		return nil, fmt.Errorf("original series: %w", err)
	}

	r := &ComparisonReport{
		ConfidenceLevel:  confidenceLevel,
		OriginalPoints:   origSummary.Count,
		SimplifiedPoints: simplified.Count(),
		Original:         *origSummary,
	}

	// Percentages truncate toward zero, as the original results table did.
	if r.OriginalPoints > 0 {
		r.RetainedPercent = float64(r.SimplifiedPoints * 100 / r.OriginalPoints)
		r.ReductionPercent = float64((r.OriginalPoints - r.SimplifiedPoints) * 100 / r.OriginalPoints)
	}

	if s, err := stats.Summarize(simplified, confidenceLevel); err != nil {
		r.SimplifiedError = err.Error()
	} else {
		r.Simplified = s
	}

	if tt, err := stats.TTest(original, simplified); err != nil {
		r.TTestError = err.Error()
	} else {
		r.TTest = tt
	}

	return r, nil
}

// Significant reports whether the t-test rejects equal means at alpha.
func (r *ComparisonReport) Significant(alpha float64) bool {
	return r.TTest != nil && r.TTest.PValue < alpha
}
