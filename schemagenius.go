// Package schemagenius provides a programmatic API for database schema
// generation. It parses heterogeneous schema descriptions (JSON documents,
// SQL DDL scripts, CSV sample data, Python ORM models) into an intermediate
// schema representation and renders MySQL or PostgreSQL DDL from it.
package schemagenius

import (
	"github.com/papajo/schemaGenius/internal/engine"
	"github.com/papajo/schemaGenius/internal/isr"
)

// Client provides the main interface for schema generation operations. A
// Client is immutable and safe for concurrent use.
type Client struct {
	engine *engine.Engine
}

// NewClient creates a client with the default parser and adapter registries.
func NewClient() *Client {
	return &Client{engine: engine.New()}
}

// Generate parses inputData according to inputType and returns the
// intermediate schema. sourceName optionally names the source; CSV input
// derives its table name from it.
func (c *Client) Generate(inputData, inputType, sourceName string) (*Schema, error) {
	return c.engine.Generate(inputData, inputType, sourceName)
}

// Convert renders an intermediate schema as DDL for targetDB.
func (c *Client) Convert(schema *Schema, targetDB string) (string, error) {
	return c.engine.Convert(schema, targetDB)
}

// GenerateDDL parses inputData and renders DDL for targetDB in one call.
func (c *Client) GenerateDDL(inputData, inputType, sourceName, targetDB string) (string, error) {
	return c.engine.GenerateDDL(inputData, inputType, sourceName, targetDB)
}

// InputFormats returns the registered input format names, sorted.
func (c *Client) InputFormats() []string {
	return c.engine.InputFormats()
}

// TargetDialects returns the registered target dialect names, sorted.
func (c *Client) TargetDialects() []string {
	return c.engine.TargetDialects()
}

// Decode parses an intermediate schema interchange document.
func Decode(data []byte) (*Schema, error) {
	return isr.Decode(data)
}

// Encode renders a schema as an indented interchange document.
func Encode(s *Schema) ([]byte, error) {
	return isr.Encode(s)
}
