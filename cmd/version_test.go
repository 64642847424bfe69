package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/papajo/schemaGenius/internal/version"
)

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	root := &cobra.Command{Use: "schemagenius"}
	root.AddCommand(VersionCmd)
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	output := buf.String()
	wantPrefix := "schemagenius v" + version.Version() + "@"
	if !strings.HasPrefix(output, wantPrefix) {
		t.Errorf("version output = %q, want prefix %q", output, wantPrefix)
	}
	if !strings.Contains(output, version.Platform()) {
		t.Errorf("version output missing platform %q: %s", version.Platform(), output)
	}
}
