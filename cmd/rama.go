package cmd

import (
	"github.com/spf13/cobra"
	"github.com/viennaptm/viennaptm/internal/ptm"
)

// RamaCmd is for plotting a structure's backbone torsion angles. Useful
// for eyeballing whether a modification (or its minimization) distorted
// the backbone.
var RamaCmd = &cobra.Command{
	Use:   "rama",
	Short: "Write a Ramachandran plot of a structure",
	Long: `Computes the phi/psi backbone dihedral angles of every residue with complete
backbone neighbors and writes them to a PNG scatter plot with fixed
-180..180 axes`,
	Run: ptm.ExecuteRama,
}

// set flags
func init() {
	rootCmd.AddCommand(RamaCmd)

	RamaCmd.Flags().StringP("plot", "p", "", "PNG file name for the plot (default <input>.rama.png)")
}
