package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestFormatsCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	runFormats(cmd, nil)

	output := out.String()
	if !strings.Contains(output, "Supported formats") {
		t.Errorf("output missing heading:\n%s", output)
	}
	for _, want := range []string{"input type", "target database", "json", "csv", "sql", "python", "mysql", "postgresql"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}
