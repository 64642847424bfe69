package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/papajo/schemaGenius/cmd"
)

// Drives the real command tree end to end, the way main does. Cases that
// parse flags run in order because flag values persist across Execute calls.
func TestCommandFlagValidation(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		stdin      string
		wantErr    string
		wantOutput string
	}{
		{
			name:    "generate requires type",
			args:    []string{"generate"},
			wantErr: `required flag(s) "type" not set`,
		},
		{
			name:    "convert requires target",
			args:    []string{"convert"},
			wantErr: `required flag(s) "target" not set`,
		},
		{
			name:       "generate json to mysql",
			args:       []string{"generate", "--type", "json", "--target", "mysql"},
			stdin:      `{"tables": [{"name": "t", "columns": [{"name": "id", "generic_type": "INTEGER"}]}]}`,
			wantOutput: "CREATE TABLE `t` (",
		},
		{
			name:    "generate unknown target",
			args:    []string{"generate", "--type", "json", "--target", "mongodb"},
			stdin:   `{"tables": []}`,
			wantErr: `adapter for target database "mongodb" is not implemented`,
		},
		{
			name:    "validate rejected for mysql",
			args:    []string{"generate", "--type", "json", "--target", "mysql", "--validate"},
			stdin:   `{"tables": []}`,
			wantErr: "PostgreSQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			cmd.RootCmd.SetIn(strings.NewReader(tt.stdin))
			cmd.RootCmd.SetOut(&out)
			cmd.RootCmd.SetErr(&errOut)
			cmd.RootCmd.SetArgs(tt.args)

			err := cmd.RootCmd.Execute()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Execute() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !strings.Contains(out.String(), tt.wantOutput) {
				t.Errorf("output missing %q:\n%s", tt.wantOutput, out.String())
			}
		})
	}
}
