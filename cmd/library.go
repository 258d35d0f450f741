package cmd

import (
	"github.com/spf13/cobra"
	"github.com/viennaptm/viennaptm/internal/ptm"
)

// LibraryCmd is for listing out all the available modifications. Useful
// for if the user doesn't know which target abbreviations are available.
var LibraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List the modifications available in the library",
	Long: `Lists the modifications in the active library, one per line, along with the
library version.

	<Original> -> <Target>`,
	Run: ptm.ExecuteLibrary,
}

// set flags
func init() {
	rootCmd.AddCommand(LibraryCmd)

	// No flags of its own: --library on the root command switches the
	// active library to a custom directory
}
