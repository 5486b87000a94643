// Package main provides the vamoshose binary entry point: a cobra
// command tree over the forward-lookup (C5) and reverse-estimator (C6)
// operations, plus a debug-only HOSE inspector.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ghost---Shadow/vamos-hose/shiftstore"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var chunkDir string

	cmd := &cobra.Command{
		Use:   "vamoshose",
		Short: "HOSE-code NMR shift lookup and estimation",
		Long: `vamoshose predicts NMR chemical shifts from a SMILES structure by
generating HOSE codes and resolving them against a sharded chunk store,
and runs the inverse operation: given a peak list, rank candidate
structures.`,
	}
	cmd.PersistentFlags().StringVar(&chunkDir, "chunks", "chunks", "directory containing chunk_NNN artifacts")

	cmd.AddCommand(newPredictCmd(&chunkDir))
	cmd.AddCommand(newEstimateCmd(&chunkDir))
	cmd.AddCommand(newInspectCmd())
	return cmd
}

func newStore(chunkDir string) *shiftstore.Store {
	logger := log.New(os.Stderr, "vamoshose: ", log.LstdFlags)
	return shiftstore.New(shiftstore.DirLoader{Dir: chunkDir}, logger)
}
