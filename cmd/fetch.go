package cmd

import (
	"github.com/spf13/cobra"
	"github.com/viennaptm/viennaptm/internal/ptm"
)

// FetchCmd is for downloading a structure entry from RCSB without
// modifying it. Useful for inspecting a structure before choosing the
// residues to modify.
var FetchCmd = &cobra.Command{
	Use:   "fetch [PDB ID]",
	Short: "Download a structure entry from RCSB",
	Long: `Downloads the named entry from RCSB (https://files.rcsb.org) and writes it,
decompressed, into the output directory. The PDB rendition is preferred;
entries too large for one fall back to mmCIF`,
	Run: ptm.ExecuteFetch,
}

// set flags
func init() {
	rootCmd.AddCommand(FetchCmd)

	FetchCmd.Flags().StringP("dir", "d", ".", "Directory the fetched structure is written into")
}
