package main

import (
	"fmt"
	"os"

	"github.com/soltixdb/rdplines/internal/dataset"
	"github.com/soltixdb/rdplines/internal/report"
	"github.com/soltixdb/rdplines/internal/stats"
	"github.com/spf13/cobra"
)

func newStatsCommand() *cobra.Command {
	var confidence float64

	cmd := &cobra.Command{
		Use:   "stats <file.csv>",
		Short: "Print the summary statistics of a CSV time series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			ds, err := dataset.Parse(f)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			summary, err := stats.Summarize(ds.Values, confidence)
			if err != nil {
				return err
			}
			return printJSON(cmd, summary)
		},
	}

	cmd.Flags().Float64VarP(&confidence, "confidence", "c", report.DefaultConfidenceLevel, "Confidence level of the margin of error")

	return cmd
}
