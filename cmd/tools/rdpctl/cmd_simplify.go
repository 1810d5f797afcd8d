package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/soltixdb/rdplines/internal/dataset"
	"github.com/soltixdb/rdplines/internal/logging"
	"github.com/soltixdb/rdplines/internal/report"
	"github.com/soltixdb/rdplines/internal/simplify"
	"github.com/spf13/cobra"
)

type simplifyOptions struct {
	epsilon    float64
	factor     float64
	output     string
	workers    int
	confidence float64
}

// simplifyOutput is printed as JSON after a successful run
type simplifyOutput struct {
	Input            string                   `json:"input"`
	Output           string                   `json:"output"`
	Epsilon          float64                  `json:"epsilon"`
	AutoEpsilon      bool                     `json:"auto_epsilon"`
	OriginalPoints   int                      `json:"original_points"`
	SimplifiedPoints int                      `json:"simplified_points"`
	InputSize        string                   `json:"input_size"`
	OutputSize       string                   `json:"output_size"`
	DurationMs       float64                  `json:"duration_ms"`
	Report           *report.ComparisonReport `json:"report"`
	Significant      bool                     `json:"significant"` // t-test rejects equal means at 1 - confidence
}

func newSimplifyCommand() *cobra.Command {
	opts := &simplifyOptions{}

	cmd := &cobra.Command{
		Use:   "simplify <file.csv>",
		Short: "Simplify a CSV time series and write the result next to it",
		Long: `Simplify reads a two-column CSV (label, value), keeps the points the
Ramer-Douglas-Peucker algorithm retains for the given epsilon and writes
them as "<name>(simplified).csv". The comparison report is printed as JSON.

Without --epsilon the tolerance is derived from the data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimplify(cmd, args[0], opts)
		},
	}

	cmd.Flags().Float64VarP(&opts.epsilon, "epsilon", "e", 0, "Distance tolerance; 0 derives it from the data")
	cmd.Flags().Float64Var(&opts.factor, "factor", simplify.DefaultEpsilonFactor, "Scale of the derived epsilon")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output path (default: <name>(simplified).csv next to the input)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Parallel workers (0 = GOMAXPROCS)")
	cmd.Flags().Float64Var(&opts.confidence, "confidence", report.DefaultConfidenceLevel, "Confidence level of the report")

	return cmd
}

func runSimplify(cmd *cobra.Command, input string, opts *simplifyOptions) error {
	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}

	ds, err := dataset.Parse(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", input, err)
	}

	points, rows := ds.Points()

	epsilon := opts.epsilon
	auto := epsilon == 0
	if auto {
		epsilon, err = simplify.AutoEpsilon(points, opts.factor)
		if err != nil {
			return err
		}
	}

	start := time.Now()
	indices, err := simplify.SimplifyParallel(cmd.Context(), points, epsilon, opts.workers)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	retained := make([]int, len(indices))
	for i, idx := range indices {
		retained[i] = rows[idx]
	}

	var buf bytes.Buffer
	if err := dataset.Write(&buf, ds.Subset(retained)); err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = filepath.Join(filepath.Dir(input), dataset.SimplifiedFilename(input))
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	_, aligned := ds.Aligned(retained)
	rep, err := report.Compare(ds.Values, aligned, opts.confidence)
	if err != nil {
		return err
	}

	logging.Debug("Simplified file written",
		"input", input,
		"output", output,
		"epsilon", epsilon,
		"duration", elapsed)

	out := simplifyOutput{
		Input:            input,
		Output:           output,
		Epsilon:          epsilon,
		AutoEpsilon:      auto,
		OriginalPoints:   len(points),
		SimplifiedPoints: len(retained),
		InputSize:        humanize.IBytes(uint64(len(raw))),
		OutputSize:       humanize.IBytes(uint64(buf.Len())),
		DurationMs:       float64(elapsed.Microseconds()) / 1000,
		Report:           rep,
		Significant:      rep.Significant(1 - opts.confidence),
	}
	return printJSON(cmd, out)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
