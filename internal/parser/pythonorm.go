package parser

import (
	"github.com/papajo/schemaGenius/internal/isr"
	"github.com/papajo/schemaGenius/internal/parser/pyorm"
)

// PythonORM parses declarative ORM model source. The heavy lifting
// lives in the pyorm package; this type adapts it to the common parser
// shape.
type PythonORM struct{}

// NewPythonORM returns a parser for declarative ORM model source.
func NewPythonORM() *PythonORM {
	return &PythonORM{}
}

// Parse extracts model classes from source text. The source name hint
// is unused; table names come from the models themselves.
func (p *PythonORM) Parse(input, sourceName string) (*isr.Schema, error) {
	return pyorm.Parse(input)
}
