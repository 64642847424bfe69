// Package parser converts heterogeneous schema descriptions (JSON
// documents, SQL DDL scripts, CSV samples) into the intermediate
// schema representation defined by the isr package.
package parser

import (
	"github.com/papajo/schemaGenius/internal/isr"
)

// JSON parses schema documents written in the canonical JSON
// interchange format. The document carries its own schema name and
// version, so the source name hint is ignored.
type JSON struct{}

// NewJSON returns a parser for the JSON interchange format.
func NewJSON() *JSON {
	return &JSON{}
}

// Parse decodes a JSON schema document. Structural problems (missing
// 'tables' list, constraint without a 'type', malformed JSON) are
// reported as *isr.ValidationError.
func (p *JSON) Parse(input, sourceName string) (*isr.Schema, error) {
	return isr.Decode([]byte(input))
}
