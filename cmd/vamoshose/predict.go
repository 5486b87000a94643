package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ghost---Shadow/vamos-hose/lookup"
)

func newPredictCmd(chunkDir *string) *cobra.Command {
	var nucleus string

	cmd := &cobra.Command{
		Use:   "predict <smiles>",
		Short: "Predict per-atom NMR shifts for a SMILES structure (C5)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := newStore(*chunkDir)
			results, err := lookup.Lookup(context.Background(), store, args[0], nucleus)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matches")
				return nil
			}
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%6.2f ppm\t%s\t(%s)\n", r.Atom, r.Shift, r.HOSE, r.SMILES)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&nucleus, "nucleus", "13C", "target nucleus (e.g. 13C, 1H)")
	return cmd
}
