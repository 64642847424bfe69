package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papajo/schemaGenius/internal/color"
	"github.com/papajo/schemaGenius/internal/logger"
	"github.com/papajo/schemaGenius/internal/version"
)

var (
	debugFlag   bool
	noColorFlag bool

	colors = color.New(false)
)

var RootCmd = &cobra.Command{
	Use:   "schemagenius",
	Short: "Convert schema descriptions into MySQL or PostgreSQL DDL",
	Long: fmt.Sprintf(`schemagenius converts heterogeneous schema descriptions (JSON documents,
SQL DDL scripts, CSV sample data, Python ORM models) into a canonical
intermediate representation and generates MySQL or PostgreSQL DDL from it.

Version: %s %s

Commands:
  generate  Parse input and emit DDL or the intermediate schema
  convert   Render an intermediate schema document as DDL
  formats   List supported input formats and target dialects
  serve     Run the HTTP API
  version   Show version information

Use "schemagenius [command] --help" for more information about a command.`,
		version.Version(), version.Platform()),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetGlobal(logger.New(debugFlag), debugFlag)
		colors = color.New(!noColorFlag)
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	RootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	RootCmd.AddCommand(GenerateCmd)
	RootCmd.AddCommand(ConvertCmd)
	RootCmd.AddCommand(FormatsCmd)
	RootCmd.AddCommand(ServeCmd)
	RootCmd.AddCommand(VersionCmd)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
