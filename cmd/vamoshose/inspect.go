package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Ghost---Shadow/vamos-hose/hose"
	"github.com/Ghost---Shadow/vamos-hose/smiles"
)

func newInspectCmd() *cobra.Command {
	var maxSpheres int

	cmd := &cobra.Command{
		Use:   "inspect <smiles> <atom-index>",
		Short: "Print one atom's HOSE code and a best-effort decode, for debugging",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mol, err := smiles.Parse(args[0])
			if err != nil {
				return err
			}
			var atom int
			if _, err := fmt.Sscanf(args[1], "%d", &atom); err != nil {
				return fmt.Errorf("invalid atom index %q: %w", args[1], err)
			}
			code, err := hose.Hose(mol, atom, maxSpheres)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)

			sum := hose.Decode(code)
			fmt.Fprintf(cmd.OutOrStdout(), "spheres: %d, ring closures: %d, aromatic bonds: %d\n",
				len(sum.Spheres), sum.RingClosures, sum.AromaticBond)
			elements := make([]string, 0, len(sum.AtomCounts))
			for el := range sum.AtomCounts {
				elements = append(elements, el)
			}
			sort.Strings(elements)
			for _, el := range elements {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d\n", el, sum.AtomCounts[el])
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxSpheres, "spheres", hose.DefaultMaxSpheres, "sphere depth")
	return cmd
}
