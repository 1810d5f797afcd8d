// Package stats provides the descriptive statistics used to compare an
// original series against its simplified counterpart.
//
// Missing samples are represented by nil entries of a Series. Zero is a
// regular value and is never filtered.
package stats

import (
	"errors"
	"fmt"
	"math"

	mstats "github.com/aclements/go-moremath/stats"
)

var (
	// ErrEmptySeries is returned when a series has no valid entries.
	ErrEmptySeries = errors.New("series has no valid entries")

	// ErrInsufficientData is returned when a statistic needs more valid entries.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidConfidenceLevel is returned for a level outside (0, 1).
	ErrInvalidConfidenceLevel = errors.New("confidence level must be in the open interval (0, 1)")

	// ErrZeroVariance is returned by TTest when both series are constant.
	ErrZeroVariance = errors.New("both series have zero variance")
)

// Series is an ordered sequence of samples where nil marks a missing value.
type Series []*float64

// Of builds a Series without missing entries.
func Of(values ...float64) Series {
	s := make(Series, len(values))
	for i := range values {
		v := values[i]
		s[i] = &v
	}
	return s
}

// Valid returns the non-missing values in order.
func (s Series) Valid() []float64 {
	values := make([]float64, 0, len(s))
	for _, v := range s {
		if v != nil {
			values = append(values, *v)
		}
	}
	return values
}

// Count returns the number of non-missing entries.
func (s Series) Count() int {
	n := 0
	for _, v := range s {
		if v != nil {
			n++
		}
	}
	return n
}

// Missing returns the number of nil entries.
func (s Series) Missing() int {
	return len(s) - s.Count()
}

// Mean returns the arithmetic mean of the valid entries.
func Mean(series Series) (float64, error) {
	values := series.Valid()
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}
	return mstats.Mean(values), nil
}

// StandardDeviation returns the sample standard deviation (denominator n-1).
func StandardDeviation(series Series) (float64, error) {
	values := series.Valid()
	if len(values) < 2 {
		return 0, fmt.Errorf("%w: standard deviation needs at least 2 values, got %d", ErrInsufficientData, len(values))
	}
	return mstats.StdDev(values), nil
}

// MarginOfError returns z*stdev/sqrt(n) for the given confidence level,
// rounded to the nearest integer.
func MarginOfError(series Series, confidenceLevel float64) (float64, error) {
	margin, err := MarginOfErrorExact(series, confidenceLevel)
	if err != nil {
		return 0, err
	}
	return math.Round(margin), nil
}

// MarginOfErrorExact is MarginOfError without the final rounding.
func MarginOfErrorExact(series Series, confidenceLevel float64) (float64, error) {
	z, err := ZScore(confidenceLevel)
	if err != nil {
		return 0, err
	}

	values := series.Valid()
	if len(values) < 2 {
		return 0, fmt.Errorf("%w: margin of error needs at least 2 values, got %d", ErrInsufficientData, len(values))
	}

	stdev := mstats.StdDev(values)
	return z * stdev / math.Sqrt(float64(len(values))), nil
}

// ZScore returns |InverseNormalCDF((1-level)/2)|, the two-sided critical
// value of the standard normal distribution.
func ZScore(confidenceLevel float64) (float64, error) {
	if !(confidenceLevel > 0 && confidenceLevel < 1) {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidConfidenceLevel, confidenceLevel)
	}
	return math.Abs(mstats.StdNormal.InvCDF((1 - confidenceLevel) / 2)), nil
}

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(x*scale) / scale
}
