package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/papajo/schemaGenius/internal/engine"
	"github.com/papajo/schemaGenius/internal/isr"
)

const sampleJSONInput = `{"tables": [{"name": "users", "columns": [{"name": "id", "generic_type": "INTEGER", "constraints": [{"type": "PRIMARY_KEY"}, {"type": "AUTO_INCREMENT"}]}, {"name": "email", "generic_type": "STRING", "constraints": [{"type": "NOT_NULL"}, {"type": "UNIQUE"}]}]}]}`

func resetGenerateFlags() {
	generateType = ""
	generateTarget = ""
	generateSourceName = ""
	generateOut = ""
	generateValidate = false
}

func runGenerateCommand(t *testing.T, stdin string, args []string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := runGenerate(cmd, args)
	return out.String(), errOut.String(), err
}

func TestGenerateCommandJSONToMySQL(t *testing.T) {
	resetGenerateFlags()
	generateType = "json"
	generateTarget = "mysql"

	out, _, err := runGenerateCommand(t, sampleJSONInput, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for _, want := range []string{
		"CREATE TABLE `users` (",
		"`id` INT AUTO_INCREMENT",
		"`email` VARCHAR(255) NOT NULL UNIQUE",
		"PRIMARY KEY (`id`)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateCommandISROutput(t *testing.T) {
	resetGenerateFlags()
	generateType = "json"

	out, _, err := runGenerateCommand(t, sampleJSONInput, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("ISR output does not end with a newline")
	}

	schema, err := isr.Decode([]byte(out))
	if err != nil {
		t.Fatalf("output is not a valid interchange document: %v\n%s", err, out)
	}
	if schema.Table("users") == nil {
		t.Errorf("decoded schema missing table users")
	}
}

func TestGenerateCommandMultipleFiles(t *testing.T) {
	resetGenerateFlags()
	generateType = "csv"
	generateTarget = "postgres"

	dir := t.TempDir()
	users := filepath.Join(dir, "users.csv")
	orders := filepath.Join(dir, "orders.csv")
	if err := os.WriteFile(users, []byte("id,name\n1,alice\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(orders, []byte("order_id,total\n7,19.99\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runGenerateCommand(t, "", []string{users, orders})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	// Table names derive from the file base names; outputs keep argument order.
	usersIdx := strings.Index(out, `CREATE TABLE "users_csv"`)
	ordersIdx := strings.Index(out, `CREATE TABLE "orders_csv"`)
	if usersIdx < 0 || ordersIdx < 0 {
		t.Fatalf("output missing a table:\n%s", out)
	}
	if usersIdx > ordersIdx {
		t.Errorf("outputs not in argument order:\n%s", out)
	}
}

func TestGenerateCommandSourceNameFlag(t *testing.T) {
	resetGenerateFlags()
	generateType = "csv"
	generateTarget = "postgres"
	generateSourceName = "inventory"

	dir := t.TempDir()
	file := filepath.Join(dir, "dump.csv")
	if err := os.WriteFile(file, []byte("sku,qty\nA1,3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runGenerateCommand(t, "", []string{file})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(out, `CREATE TABLE "inventory"`) {
		t.Errorf("--source-name did not override the file name:\n%s", out)
	}
}

func TestGenerateCommandOutFile(t *testing.T) {
	resetGenerateFlags()
	generateType = "json"
	generateTarget = "mysql"
	generateOut = filepath.Join(t.TempDir(), "schema.sql")

	out, errOut, err := runGenerateCommand(t, sampleJSONInput, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if out != "" {
		t.Errorf("stdout not empty with --out: %q", out)
	}
	if !strings.Contains(errOut, "Wrote") {
		t.Errorf("stderr missing confirmation: %q", errOut)
	}

	written, err := os.ReadFile(generateOut)
	if err != nil {
		t.Fatalf("read output file: %v", err)
	}
	if !strings.Contains(string(written), "CREATE TABLE `users` (") {
		t.Errorf("output file missing DDL:\n%s", written)
	}
}

func TestGenerateCommandValidate(t *testing.T) {
	resetGenerateFlags()
	generateType = "json"
	generateTarget = "postgres"
	generateValidate = true

	if _, _, err := runGenerateCommand(t, sampleJSONInput, nil); err != nil {
		t.Fatalf("generate --validate failed on valid output: %v", err)
	}
}

func TestGenerateCommandValidateRequiresTarget(t *testing.T) {
	resetGenerateFlags()
	generateType = "json"
	generateValidate = true

	_, _, err := runGenerateCommand(t, sampleJSONInput, nil)
	if err == nil || !strings.Contains(err.Error(), "--validate requires --target") {
		t.Errorf("error = %v, want --validate requires --target", err)
	}
}

func TestGenerateCommandValidateRejectsMySQL(t *testing.T) {
	resetGenerateFlags()
	generateType = "json"
	generateTarget = "mysql"
	generateValidate = true

	_, _, err := runGenerateCommand(t, sampleJSONInput, nil)
	if err == nil || !strings.Contains(err.Error(), "PostgreSQL") {
		t.Errorf("error = %v, want rejection naming PostgreSQL", err)
	}
}

func TestGenerateCommandUnknownType(t *testing.T) {
	resetGenerateFlags()
	generateType = "yaml"

	_, _, err := runGenerateCommand(t, "key: value", nil)
	var ferr *engine.UnsupportedFormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("error = %v, want UnsupportedFormatError", err)
	}
	if !strings.Contains(err.Error(), "stdin") {
		t.Errorf("error = %v, want input name in message", err)
	}
}

func TestGenerateCommandMissingFile(t *testing.T) {
	resetGenerateFlags()
	generateType = "json"

	_, _, err := runGenerateCommand(t, "", []string{filepath.Join(t.TempDir(), "absent.json")})
	if err == nil || !strings.Contains(err.Error(), "failed to read input file") {
		t.Errorf("error = %v, want read failure", err)
	}
}
