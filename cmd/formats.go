package cmd

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/papajo/schemaGenius/internal/engine"
)

var FormatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List registered input formats and target databases",
	Run:   runFormats,
}

func runFormats(cmd *cobra.Command, _ []string) {
	eng := engine.New()

	fmt.Fprintln(cmd.OutOrStdout(), colors.Bold("Supported formats"))
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Kind", "Names"})
	table.SetBorder(false)
	table.SetColumnSeparator(" ")
	table.Append([]string{"input type", strings.Join(eng.InputFormats(), ", ")})
	table.Append([]string{"target database", strings.Join(eng.TargetDialects(), ", ")})
	table.Render()
}
