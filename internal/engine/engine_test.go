package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papajo/schemaGenius/internal/isr"
)

type errParser struct{}

func (errParser) Parse(string, string) (*isr.Schema, error) { return nil, errors.New("broken pipe") }

type panicParser struct{}

func (panicParser) Parse(string, string) (*isr.Schema, error) { panic("boom") }

type panicAdapter struct{}

func (panicAdapter) Generate(*isr.Schema) (string, error) { panic("render failed") }

func (panicAdapter) Dialect() string { return "Broken" }

func TestEngineGenerate(t *testing.T) {
	e := New()
	schema, err := e.Generate(`{"tables": [{"name": "t", "columns": [{"name": "id", "generic_type": "INTEGER"}]}]}`, "JSON", "")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if schema.Table("t") == nil {
		t.Fatalf("Generate() schema missing table t: %+v", schema)
	}
}

func TestEngineTagNormalization(t *testing.T) {
	e := New()

	inputs := map[string]string{
		"  JSON ":    `{"tables": []}`,
		"csv":        "a\n1",
		"SQL":        "CREATE TABLE t (id INT);",
		"ddl":        "CREATE TABLE t (id INT);",
		"Python":     "",
		"sqlalchemy": "",
		"orm":        "",
		"py":         "",
	}
	for tag, input := range inputs {
		if _, err := e.Generate(input, tag, ""); err != nil {
			t.Errorf("Generate(%q) error = %v", tag, err)
		}
	}

	for _, tag := range []string{"mysql", "MariaDB", " postgresql ", "postgres", "PG"} {
		if _, err := e.Convert(&isr.Schema{}, tag); err != nil {
			t.Errorf("Convert(%q) error = %v", tag, err)
		}
	}
}

func TestEngineUnsupportedInputType(t *testing.T) {
	_, err := New().Generate("data", "yaml", "")
	var ferr *UnsupportedFormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("Generate() error = %v, want UnsupportedFormatError", err)
	}
	if ferr.Kind != KindInputType || ferr.Name != "yaml" {
		t.Errorf("error = %+v, want Kind=%q Name=%q", ferr, KindInputType, "yaml")
	}
	if got, want := err.Error(), `parser for input type "yaml" is not implemented`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	var verr *isr.ValidationError
	if errors.As(err, &verr) {
		t.Errorf("unsupported format classified as validation error")
	}
}

func TestEngineUnsupportedTargetDB(t *testing.T) {
	_, err := New().Convert(&isr.Schema{}, "oracle")
	var ferr *UnsupportedFormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("Convert() error = %v, want UnsupportedFormatError", err)
	}
	if ferr.Kind != KindTargetDB || ferr.Name != "oracle" {
		t.Errorf("error = %+v, want Kind=%q Name=%q", ferr, KindTargetDB, "oracle")
	}
	if got, want := err.Error(), `adapter for target database "oracle" is not implemented`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestEngineValidationErrorPassthrough(t *testing.T) {
	_, err := New().Generate("not json at all", "json", "")
	var verr *isr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Generate() error = %v, want ValidationError", err)
	}
	var terr *TransformError
	if errors.As(err, &terr) {
		t.Errorf("validation error was wrapped into TransformError: %v", err)
	}
}

func TestEngineWrapsUnexpectedErrors(t *testing.T) {
	e := NewWith(Config{Parsers: map[string]Parser{"flaky": errParser{}}})
	_, err := e.Generate("", "flaky", "")
	var terr *TransformError
	if !errors.As(err, &terr) {
		t.Fatalf("Generate() error = %v, want TransformError", err)
	}
	if terr.Stage != "parse" {
		t.Errorf("Stage = %q, want %q", terr.Stage, "parse")
	}
	if !strings.Contains(terr.Unwrap().Error(), "broken pipe") {
		t.Errorf("Unwrap() = %v, want cause preserved", terr.Unwrap())
	}
}

func TestEngineRecoversPanics(t *testing.T) {
	e := NewWith(Config{
		Parsers:  map[string]Parser{"bad": panicParser{}},
		Adapters: map[string]Adapter{"bad": panicAdapter{}},
	})

	_, err := e.Generate("", "bad", "")
	var terr *TransformError
	if !errors.As(err, &terr) {
		t.Fatalf("Generate() error = %v, want TransformError", err)
	}
	if terr.Stage != "parse" || !strings.Contains(err.Error(), "boom") {
		t.Errorf("error = %v, want recovered parse panic", err)
	}

	_, err = e.Convert(&isr.Schema{}, "bad")
	if !errors.As(err, &terr) {
		t.Fatalf("Convert() error = %v, want TransformError", err)
	}
	if terr.Stage != "convert" || !strings.Contains(err.Error(), "render failed") {
		t.Errorf("error = %v, want recovered convert panic", err)
	}
}

func TestEngineRegisteredNames(t *testing.T) {
	e := New()
	wantFormats := []string{"csv", "ddl", "json", "orm", "py", "python", "sql", "sqlalchemy"}
	if diff := cmp.Diff(wantFormats, e.InputFormats()); diff != "" {
		t.Errorf("InputFormats() mismatch (-want +got):\n%s", diff)
	}
	wantDialects := []string{"mariadb", "mysql", "pg", "postgres", "postgresql"}
	if diff := cmp.Diff(wantDialects, e.TargetDialects()); diff != "" {
		t.Errorf("TargetDialects() mismatch (-want +got):\n%s", diff)
	}
}

func TestEngineDialectName(t *testing.T) {
	e := New()
	for tag, want := range map[string]string{
		"mysql":      "MySQL",
		"MariaDB":    "MySQL",
		"postgresql": "PostgreSQL",
		" PG ":       "PostgreSQL",
	} {
		got, ok := e.DialectName(tag)
		if !ok || got != want {
			t.Errorf("DialectName(%q) = %q, %v, want %q, true", tag, got, ok, want)
		}
	}
	if _, ok := e.DialectName("oracle"); ok {
		t.Errorf("DialectName(%q) resolved unexpectedly", "oracle")
	}
}

func TestEngineGenerateDDL(t *testing.T) {
	e := New()

	ddl, err := e.GenerateDDL("id,name\n1,alice\n2,bob", "csv", "people", "postgres")
	if err != nil {
		t.Fatalf("GenerateDDL() error = %v", err)
	}
	for _, want := range []string{
		`CREATE TABLE "people" (`,
		`"id" INTEGER`,
		`"name" VARCHAR(255)`,
	} {
		if !strings.Contains(ddl, want) {
			t.Errorf("GenerateDDL() output missing %q:\n%s", want, ddl)
		}
	}
}

func TestEngineJSONToMySQL(t *testing.T) {
	input := `{"tables":[{"name":"t","columns":[{"name":"id","generic_type":"INTEGER","constraints":[{"type":"PRIMARY_KEY"}]}]}]}`
	ddl, err := New().GenerateDDL(input, "json", "", "mysql")
	if err != nil {
		t.Fatalf("GenerateDDL() error = %v", err)
	}
	if !strings.Contains(ddl, "`id` INT") || !strings.Contains(ddl, "PRIMARY KEY (`id`)") {
		t.Errorf("GenerateDDL() missing expected declarations:\n%s", ddl)
	}
}

// Parsing identical input twice must yield structurally identical schemas;
// inference and name disambiguation carry no hidden state between calls.
func TestEngineParseDeterminism(t *testing.T) {
	e := New()
	inputs := map[string]string{
		"json":   `{"tables": [{"name": "t", "columns": [{"name": "id", "generic_type": "INTEGER", "constraints": [{"type": "PRIMARY_KEY"}]}]}]}`,
		"csv":    "id,name,active\n1,alice,true\n2,bob,false",
		"sql":    "CREATE TABLE t (id SERIAL PRIMARY KEY, name VARCHAR(50) NOT NULL, price DECIMAL(10,2) DEFAULT 0.5);",
		"python": "class User(Base):\n    __tablename__ = 'users'\n    id = Column(Integer, primary_key=True)\n    status = Column(Enum('a', 'b'), default='a')\n",
	}
	for tag, input := range inputs {
		first, err := e.Generate(input, tag, "sample")
		if err != nil {
			t.Fatalf("Generate(%q) error = %v", tag, err)
		}
		second, err := e.Generate(input, tag, "sample")
		if err != nil {
			t.Fatalf("Generate(%q) second run error = %v", tag, err)
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Generate(%q) not deterministic (-first +second):\n%s", tag, diff)
		}
	}
}
