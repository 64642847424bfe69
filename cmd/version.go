package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papajo/schemaGenius/internal/version"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display the version number of schemagenius",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "schemagenius v%s@%s %s %s\n",
			version.Version(), version.GitCommit, version.Platform(), version.BuildDate)
	},
}
