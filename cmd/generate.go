package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/papajo/schemaGenius/internal/engine"
	"github.com/papajo/schemaGenius/internal/isr"
	"github.com/papajo/schemaGenius/internal/validate"
)

var (
	generateType       string
	generateTarget     string
	generateSourceName string
	generateOut        string
	generateValidate   bool
)

var GenerateCmd = &cobra.Command{
	Use:   "generate [FILE...]",
	Short: "Parse schema input and emit DDL or the intermediate representation",
	Long: "Parse schema input (JSON, SQL DDL, CSV sample data, or Python ORM source) and emit " +
		"CREATE TABLE DDL for the target database. Without --target the intermediate schema " +
		"representation is printed as indented JSON. Reads stdin when no files are given; " +
		"multiple files are processed concurrently and concatenated in argument order.",
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringVar(&generateType, "type", "", "Input format: json, sql, csv, python (required)")
	GenerateCmd.Flags().StringVar(&generateTarget, "target", "", "Target database: mysql, postgresql")
	GenerateCmd.Flags().StringVar(&generateSourceName, "source-name", "", "Name hint for the source, e.g. a file or table name for CSV input")
	GenerateCmd.Flags().StringVar(&generateOut, "out", "", "Write output to this file instead of stdout")
	GenerateCmd.Flags().BoolVar(&generateValidate, "validate", false, "Syntax-check generated PostgreSQL DDL with pg_query")
	GenerateCmd.MarkFlagRequired("type")
}

// schemaInput pairs raw input text with the name it was read from.
type schemaInput struct {
	name string
	data string
}

const stdinName = "stdin"

func runGenerate(cmd *cobra.Command, args []string) error {
	eng := engine.New()
	if err := checkValidateFlag(eng, generateValidate, generateTarget); err != nil {
		return err
	}

	inputs, err := readInputs(cmd, args)
	if err != nil {
		return err
	}

	// One goroutine per input; outputs land in argument order and nothing is
	// written until every input has succeeded.
	outputs := make([]string, len(inputs))
	var eg errgroup.Group
	for i, in := range inputs {
		eg.Go(func() error {
			out, err := generateOne(eng, in)
			if err != nil {
				return fmt.Errorf("%s: %w", in.name, err)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	return writeOutput(cmd, generateOut, strings.Join(outputs, ""))
}

func generateOne(eng *engine.Engine, in schemaInput) (string, error) {
	sourceName := generateSourceName
	if sourceName == "" && in.name != stdinName {
		sourceName = filepath.Base(in.name)
	}

	schema, err := eng.Generate(in.data, generateType, sourceName)
	if err != nil {
		return "", err
	}

	if generateTarget == "" {
		encoded, err := isr.Encode(schema)
		if err != nil {
			return "", fmt.Errorf("failed to encode intermediate schema: %w", err)
		}
		return string(encoded) + "\n", nil
	}

	ddl, err := eng.Convert(schema, generateTarget)
	if err != nil {
		return "", err
	}
	if generateValidate {
		if err := validate.Postgres(ddl); err != nil {
			return "", err
		}
	}
	return ddl, nil
}

// checkValidateFlag rejects --validate for targets that pg_query cannot
// check. Unknown targets pass; the engine reports those with the proper
// unsupported-format error.
func checkValidateFlag(eng *engine.Engine, validateFlag bool, target string) error {
	if !validateFlag {
		return nil
	}
	if target == "" {
		return fmt.Errorf("--validate requires --target")
	}
	if dialect, ok := eng.DialectName(target); ok && dialect != "PostgreSQL" {
		return fmt.Errorf("--validate only supports PostgreSQL targets, not %s", dialect)
	}
	return nil
}

func readInputs(cmd *cobra.Command, args []string) ([]schemaInput, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return []schemaInput{{name: stdinName, data: string(data)}}, nil
	}

	inputs := make([]schemaInput, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		inputs = append(inputs, schemaInput{name: path, data: string(data)})
	}
	return inputs, nil
}

func writeOutput(cmd *cobra.Command, outFile, content string) error {
	if outFile == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}
	if err := os.WriteFile(outFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), colors.Green("Wrote "+outFile))
	return nil
}
