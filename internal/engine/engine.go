// Package engine binds input format and target dialect names to parser and
// adapter implementations and dispatches parse/convert calls through them.
// An Engine is built once and never mutated, so it is safe to share across
// concurrent callers.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/papajo/schemaGenius/internal/adapter"
	"github.com/papajo/schemaGenius/internal/isr"
	"github.com/papajo/schemaGenius/internal/parser"
)

// Parser turns raw input text into a schema. sourceName is an optional hint,
// used by parsers that derive a table name from it.
type Parser interface {
	Parse(input string, sourceName string) (*isr.Schema, error)
}

// Adapter renders a schema as dialect-specific DDL. Dialect reports the
// canonical dialect name shared by all tags routed to the same adapter.
type Adapter interface {
	Generate(s *isr.Schema) (string, error)
	Dialect() string
}

// Config supplies custom registries. Nil maps fall back to the defaults.
type Config struct {
	Parsers  map[string]Parser
	Adapters map[string]Adapter
}

// Engine dispatches parse and convert calls through two immutable
// name-to-implementation maps.
type Engine struct {
	parsers  map[string]Parser
	adapters map[string]Adapter
}

// New returns an Engine with the default parser and adapter registries.
func New() *Engine { return NewWith(Config{}) }

// NewWith returns an Engine using the registries from cfg, falling back to
// the defaults for any nil map.
func NewWith(cfg Config) *Engine {
	e := &Engine{parsers: cfg.Parsers, adapters: cfg.Adapters}
	if e.parsers == nil {
		e.parsers = defaultParsers()
	}
	if e.adapters == nil {
		e.adapters = defaultAdapters()
	}
	return e
}

func defaultParsers() map[string]Parser {
	jsonParser := parser.NewJSON()
	csvParser := parser.NewCSV()
	sqlParser := parser.NewSQL()
	ormParser := parser.NewPythonORM()
	return map[string]Parser{
		"json":       jsonParser,
		"csv":        csvParser,
		"sql":        sqlParser,
		"ddl":        sqlParser,
		"python":     ormParser,
		"sqlalchemy": ormParser,
		"orm":        ormParser,
		"py":         ormParser,
	}
}

func defaultAdapters() map[string]Adapter {
	mysql := adapter.NewMySQL()
	postgres := adapter.NewPostgres()
	return map[string]Adapter{
		"mysql":      mysql,
		"mariadb":    mysql,
		"postgresql": postgres,
		"postgres":   postgres,
		"pg":         postgres,
	}
}

// Generate parses inputData according to inputType and returns the schema.
// sourceName is passed through to the parser.
func (e *Engine) Generate(inputData, inputType, sourceName string) (*isr.Schema, error) {
	p, ok := e.parsers[normalizeTag(inputType)]
	if !ok {
		return nil, &UnsupportedFormatError{Kind: KindInputType, Name: inputType}
	}
	return runParse(p, inputData, sourceName)
}

// Convert renders the schema as DDL for the given target dialect.
func (e *Engine) Convert(schema *isr.Schema, targetDB string) (string, error) {
	a, ok := e.adapters[normalizeTag(targetDB)]
	if !ok {
		return "", &UnsupportedFormatError{Kind: KindTargetDB, Name: targetDB}
	}
	return runConvert(a, schema)
}

// GenerateDDL parses inputData and renders the result for targetDB in one
// call. A parse failure is reported before the target dialect is looked up.
func (e *Engine) GenerateDDL(inputData, inputType, sourceName, targetDB string) (string, error) {
	schema, err := e.Generate(inputData, inputType, sourceName)
	if err != nil {
		return "", err
	}
	return e.Convert(schema, targetDB)
}

// InputFormats returns the registered input format names, sorted.
func (e *Engine) InputFormats() []string { return sortedKeys(e.parsers) }

// TargetDialects returns the registered target dialect names, sorted.
func (e *Engine) TargetDialects() []string { return sortedKeys(e.adapters) }

// DialectName resolves a target tag to its adapter's canonical dialect name.
// The second return is false when no adapter is registered for the tag.
func (e *Engine) DialectName(tag string) (string, bool) {
	a, ok := e.adapters[normalizeTag(tag)]
	if !ok {
		return "", false
	}
	return a.Dialect(), true
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// runParse invokes the parser, turning panics and non-validation errors into
// TransformError.
func runParse(p Parser, input, sourceName string) (schema *isr.Schema, err error) {
	defer func() {
		if r := recover(); r != nil {
			schema = nil
			err = &TransformError{Stage: "parse", Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	schema, err = p.Parse(input, sourceName)
	if err != nil {
		return nil, classify("parse", err)
	}
	return schema, nil
}

// runConvert invokes the adapter, turning panics and non-validation errors
// into TransformError.
func runConvert(a Adapter, schema *isr.Schema) (ddl string, err error) {
	defer func() {
		if r := recover(); r != nil {
			ddl = ""
			err = &TransformError{Stage: "convert", Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	ddl, err = a.Generate(schema)
	if err != nil {
		return "", classify("convert", err)
	}
	return ddl, nil
}

// classify passes validation errors through unchanged and wraps everything
// else.
func classify(stage string, err error) error {
	var verr *isr.ValidationError
	if errors.As(err, &verr) {
		return err
	}
	return &TransformError{Stage: stage, Err: err}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
