package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/papajo/schemaGenius/internal/engine"
	"github.com/papajo/schemaGenius/internal/isr"
	"github.com/papajo/schemaGenius/internal/validate"
)

var (
	convertTarget   string
	convertValidate bool
)

var ConvertCmd = &cobra.Command{
	Use:   "convert [FILE]",
	Short: "Convert an intermediate schema document into DDL",
	Long: "Read an intermediate schema representation document (JSON, from a file or stdin) " +
		"and emit CREATE TABLE DDL for the target database.",
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	ConvertCmd.Flags().StringVar(&convertTarget, "target", "", "Target database: mysql, postgresql (required)")
	ConvertCmd.Flags().BoolVar(&convertValidate, "validate", false, "Syntax-check generated PostgreSQL DDL with pg_query")
	ConvertCmd.MarkFlagRequired("target")
}

func runConvert(cmd *cobra.Command, args []string) error {
	eng := engine.New()
	if err := checkValidateFlag(eng, convertValidate, convertTarget); err != nil {
		return err
	}

	var data []byte
	var err error
	if len(args) == 0 {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
	}

	schema, err := isr.Decode(data)
	if err != nil {
		return err
	}

	ddl, err := eng.Convert(schema, convertTarget)
	if err != nil {
		return err
	}
	if convertValidate {
		if err := validate.Postgres(ddl); err != nil {
			return err
		}
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), ddl)
	return err
}
