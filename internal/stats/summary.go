package stats

// Summary describes one series.
type Summary struct {
	Count         int     `json:"count"`
	Missing       int     `json:"missing"`
	Mean          float64 `json:"mean"`
	StdDev        float64 `json:"std_dev"`
	MarginOfError float64 `json:"margin_of_error"`
}

// Summarize computes the count, mean, standard deviation and margin of error
// of series. It fails when any of them is undefined.
func Summarize(series Series, confidenceLevel float64) (*Summary, error) {
	mean, err := Mean(series)
	if err != nil {
		return nil, err
	}

	stdev, err := StandardDeviation(series)
	if err != nil {
		return nil, err
	}

	moe, err := MarginOfError(series, confidenceLevel)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Count:         series.Count(),
		Missing:       series.Missing(),
		Mean:          mean,
		StdDev:        stdev,
		MarginOfError: moe,
	}, nil
}
