package cmd

import (
	"github.com/spf13/cobra"
	"github.com/viennaptm/viennaptm/internal/ptm"
)

// MinimizeCmd is for running only the GROMACS energy minimization
// pipeline, without modifying any residues first.
var MinimizeCmd = &cobra.Command{
	Use:   "minimize",
	Short: "Energy minimize a structure with GROMACS",
	Long: `Runs the GROMACS minimization pipeline (pdb2gmx, editconf, grompp, mdrun,
trjconv) on the input structure and writes the minimized result to the
output path.

GROMACS is found via the GMX_BIN environment variable or as gmx on the PATH`,
	Run: ptm.ExecuteMinimize,
}

// set flags
func init() {
	rootCmd.AddCommand(MinimizeCmd)
}
