package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papajo/schemaGenius/internal/isr"
)

func TestJSONParse(t *testing.T) {
	input := `{
  "schema_name": "shop",
  "tables": [
    {
      "name": "products",
      "columns": [
        {"name": "id", "generic_type": "INTEGER", "constraints": [{"type": "PRIMARY_KEY"}]},
        {"name": "title", "generic_type": "STRING"}
      ]
    }
  ]
}`
	got, err := NewJSON().Parse(input, "ignored")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := &isr.Schema{
		Name: "shop",
		Tables: []*isr.Table{
			{
				Name: "products",
				Columns: []*isr.Column{
					{
						Name:        "id",
						Type:        isr.GenericTypeInteger,
						Constraints: []*isr.Constraint{isr.PrimaryKey()},
					},
					{Name: "title", Type: isr.GenericTypeString},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONParseInvalid(t *testing.T) {
	for _, input := range []string{"", "not json", `{"tables": 7}`, `[]`} {
		_, err := NewJSON().Parse(input, "")
		if err == nil {
			t.Errorf("Parse(%q) error = nil, want validation error", input)
			continue
		}
		var verr *isr.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Parse(%q) error = %T, want *isr.ValidationError", input, err)
		}
	}
}
