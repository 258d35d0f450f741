package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// DocsCmd generates Markdown documentation for the command tree. Hidden:
// it only exists for regenerating the docs site.
var DocsCmd = &cobra.Command{
	Use:    "docs",
	Short:  "Generate Markdown docs for the viennaptm commands",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		dir, err := cmd.Flags().GetString("dir")
		if err != nil || dir == "" {
			dir = "docs"
		}

		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("failed to create docs directory: %v", err)
		}
		if err := doc.GenMarkdownTree(rootCmd, dir); err != nil {
			log.Fatalf("failed to generate docs: %v", err)
		}
	},
}

// set flags
func init() {
	rootCmd.AddCommand(DocsCmd)

	DocsCmd.Flags().StringP("dir", "d", "docs", "Directory the Markdown files are written into")
}
