// Package adapter renders the intermediate schema representation as
// dialect-specific DDL scripts. Each adapter owns its type mapping and
// constraint-rendering rules; output ordering is deterministic so generated
// scripts can be compared verbatim.
package adapter

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/papajo/schemaGenius/internal/isr"
)

// cleanIdentifier strips surrounding quote runes and replaces interior
// whitespace with underscores, so the result is safe to re-quote in any
// dialect.
func cleanIdentifier(name string) string {
	name = strings.Trim(name, "`'\"")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, name)
}

// writeSchemaHeader writes the leading comment lines shared by all dialects.
func writeSchemaHeader(output *strings.Builder, s *isr.Schema, dialect string) {
	if s.Name != "" {
		fmt.Fprintf(output, "-- Schema: %s\n", s.Name)
	}
	if s.Version != "" {
		fmt.Fprintf(output, "-- Version: %s\n", s.Version)
	}
	fmt.Fprintf(output, "-- Dialect: %s\n", dialect)
	output.WriteString("\n")
}

// isFunctionDefault reports whether a string DEFAULT payload is a recognized
// SQL expression that must stay unquoted (CURRENT_TIMESTAMP, NOW() and
// variants thereof).
func isFunctionDefault(s string) bool {
	up := strings.ToUpper(strings.TrimSpace(s))
	return up == "CURRENT_TIMESTAMP" || strings.HasPrefix(up, "NOW()")
}

// renderDefault renders a DEFAULT payload using the dialect's string quoter.
// Recognized function names stay unquoted and are upper-cased; numbers keep
// their source text; booleans render as TRUE/FALSE.
func renderDefault(v *isr.DefaultValue, quote func(string) string) (string, bool) {
	switch {
	case v == nil:
		return "", false
	case v.String != nil:
		if isFunctionDefault(*v.String) {
			return strings.ToUpper(strings.TrimSpace(*v.String)), true
		}
		return quote(*v.String), true
	case v.Number != nil:
		return *v.Number, true
	case v.Bool != nil:
		if *v.Bool {
			return "TRUE", true
		}
		return "FALSE", true
	}
	return "", false
}

// foreignKeyName returns the constraint name to use for a foreign key,
// defaulting to fk_<table>_<column> when the reference carries none.
func foreignKeyName(ref *isr.ForeignKeyRef, table, column string) string {
	if ref.Name != "" {
		return cleanIdentifier(ref.Name)
	}
	return "fk_" + cleanIdentifier(table) + "_" + cleanIdentifier(column)
}

// fkAction normalizes an ON DELETE / ON UPDATE action. NO ACTION and empty
// collapse to "" so the clause is omitted entirely.
func fkAction(action string) string {
	up := strings.ToUpper(strings.TrimSpace(action))
	if up == "" || up == "NO ACTION" {
		return ""
	}
	return up
}

// quoteStringList renders values as a comma-separated list of quoted string
// literals, as used inside ENUM type definitions.
func quoteStringList(values []string, quote func(string) string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return strings.Join(quoted, ", ")
}
