package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Ghost---Shadow/vamos-hose/estimate"
)

func newEstimateCmd(chunkDir *string) *cobra.Command {
	var (
		nucleus    string
		tolerance  float64
		minMatches int
		resultCap  int
	)

	cmd := &cobra.Command{
		Use:   "estimate <peak1,peak2,...>",
		Short: "Rank candidate structures against a list of observed peaks (C6)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			peaks, err := parsePeaks(args[0])
			if err != nil {
				return err
			}
			store := newStore(*chunkDir)
			opts := estimate.NewOptions()
			opts.Nucleus = nucleus
			opts.Tolerance = tolerance
			opts.MinMatches = minMatches
			opts.Cap = resultCap

			candidates, err := estimate.Estimate(context.Background(), store, peaks, opts)
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no candidates")
				return nil
			}
			for _, c := range candidates {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tscore=%.3f\tmatched=%d\t%s\n", c.SMILES, c.Score, c.MatchedPeaks, c.HOSE)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&nucleus, "nucleus", "13C", "target nucleus (e.g. 13C, 1H)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", estimate.DefaultTolerance, "per-peak ppm tolerance")
	cmd.Flags().IntVar(&minMatches, "min-matches", estimate.DefaultMinMatches, "minimum matched peaks per candidate")
	cmd.Flags().IntVar(&resultCap, "cap", estimate.DefaultCap, "maximum number of candidates returned")
	return cmd
}

func parsePeaks(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	peaks := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid peak %q: %w", p, err)
		}
		peaks = append(peaks, v)
	}
	return peaks, nil
}
