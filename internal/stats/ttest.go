package stats

import (
	"errors"
	"fmt"

	mstats "github.com/aclements/go-moremath/stats"
)

// TTestResult holds a two-sample t-test outcome.
type TTestResult struct {
	T                float64 `json:"t"`
	DegreesOfFreedom float64 `json:"degrees_of_freedom"`
	PValue           float64 `json:"p_value"`
	N1               int     `json:"n1"`
	N2               int     `json:"n2"`
}

// TTest runs Welch's unequal-variance two-sample t-test of a against b and
// returns the t statistic with its two-tailed p-value.
func TTest(a, b Series) (*TTestResult, error) {
	x1, x2 := a.Valid(), b.Valid()
	if len(x1) < 2 || len(x2) < 2 {
		return nil, fmt.Errorf("%w: t-test needs at least 2 values per series, got %d and %d",
			ErrInsufficientData, len(x1), len(x2))
	}

	res, err := mstats.TwoSampleWelchTTest(
		mstats.Sample{Xs: x1},
		mstats.Sample{Xs: x2},
		mstats.LocationDiffers,
	)
	if err != nil {
		switch {
		case errors.Is(err, mstats.ErrZeroVariance):
			return nil, ErrZeroVariance
		case errors.Is(err, mstats.ErrSampleSize):
			return nil, fmt.Errorf("%w: %v", ErrInsufficientData, err)
		default:
			return nil, err
		}
	}

	return &TTestResult{
		T:                res.T,
		DegreesOfFreedom: res.DoF,
		PValue:           res.P,
		N1:               res.N1,
		N2:               res.N2,
	}, nil
}
