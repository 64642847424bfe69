package adapter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"

	"github.com/papajo/schemaGenius/internal/isr"
)

// Postgres renders a schema as a PostgreSQL DDL script.
type Postgres struct{}

// NewPostgres returns the PostgreSQL DDL adapter.
func NewPostgres() *Postgres { return &Postgres{} }

// Dialect returns the canonical dialect name.
func (*Postgres) Dialect() string { return "PostgreSQL" }

// Generate renders the schema as a complete script: header comments, a
// deduplicated CREATE TYPE block for enum columns, one CREATE TABLE per
// table, foreign keys as ALTER TABLE statements and COMMENT ON statements
// last.
func (*Postgres) Generate(s *isr.Schema) (string, error) {
	g := &postgresGenerator{schema: s}
	return g.generate(), nil
}

type postgresGenerator struct {
	schema         *isr.Schema
	foreignKeys    []string
	tableComments  []string
	columnComments []string
}

func (g *postgresGenerator) generate() string {
	var output strings.Builder
	writeSchemaHeader(&output, g.schema, "PostgreSQL")
	g.writeEnumTypes(&output)
	for _, table := range g.schema.Tables {
		g.writeTable(&output, table)
	}
	g.writeForeignKeys(&output)
	g.writeComments(&output)
	return output.String()
}

// writeEnumTypes synthesizes one named type per enum column, keyed
// enum_<table>_<column>, and emits the CREATE TYPE statements name-sorted
// before any table. Enum columns without values get no type and fall back
// to TEXT in the column definition.
func (g *postgresGenerator) writeEnumTypes(output *strings.Builder) {
	types := make(map[string]string)
	var names []string
	for _, table := range g.schema.Tables {
		for _, col := range table.Columns {
			if col.Type != isr.GenericTypeEnum {
				continue
			}
			con := col.Constraint(isr.ConstraintTypeEnumValues)
			if con == nil || len(con.EnumValues) == 0 {
				continue
			}
			name := enumTypeName(table.Name, col.Name)
			if _, ok := types[name]; ok {
				continue
			}
			types[name] = fmt.Sprintf("CREATE TYPE %s AS ENUM (%s);",
				pq.QuoteIdentifier(name), quoteStringList(con.EnumValues, pq.QuoteLiteral))
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return
	}
	sort.Strings(names)
	output.WriteString("-- Custom ENUM types\n")
	for _, name := range names {
		output.WriteString(types[name])
		output.WriteString("\n")
	}
	output.WriteString("\n")
}

func (g *postgresGenerator) writeTable(output *strings.Builder, table *isr.Table) {
	if len(table.Columns) == 0 {
		return
	}
	tableName := pq.QuoteIdentifier(cleanIdentifier(table.Name))
	fmt.Fprintf(output, "CREATE TABLE %s (\n", tableName)

	defs := make([]string, 0, len(table.Columns)+1)
	var pkCols []string
	for _, col := range table.Columns {
		def, isSerial := g.columnDefinition(table, col)
		defs = append(defs, "    "+def)
		// SERIAL implies the primary key, so serial columns stay out of the
		// table-level PRIMARY KEY clause.
		if col.HasConstraint(isr.ConstraintTypePrimaryKey) && !isSerial {
			pkCols = append(pkCols, pq.QuoteIdentifier(cleanIdentifier(col.Name)))
		}
		g.collectForeignKeys(table, col)
		if col.Comment != "" {
			g.columnComments = append(g.columnComments, fmt.Sprintf("COMMENT ON COLUMN %s.%s IS %s;",
				tableName, pq.QuoteIdentifier(cleanIdentifier(col.Name)), pq.QuoteLiteral(col.Comment)))
		}
	}
	if len(pkCols) > 0 {
		defs = append(defs, fmt.Sprintf("    PRIMARY KEY (%s)", strings.Join(pkCols, ", ")))
	}
	output.WriteString(strings.Join(defs, ",\n"))
	output.WriteString("\n);\n\n")

	if table.Comment != "" {
		g.tableComments = append(g.tableComments, fmt.Sprintf("COMMENT ON TABLE %s IS %s;",
			tableName, pq.QuoteLiteral(table.Comment)))
	}
}

// columnDefinition renders one column line and reports whether the column
// became SERIAL/BIGSERIAL. Serial columns suppress NOT NULL; UNIQUE is
// suppressed on any primary key column; AUTO_INCREMENT has no inline form.
func (g *postgresGenerator) columnDefinition(table *isr.Table, col *isr.Column) (string, bool) {
	pgType, isSerial := g.columnType(table, col)
	parts := []string{pq.QuoteIdentifier(cleanIdentifier(col.Name)), pgType}
	isPK := col.HasConstraint(isr.ConstraintTypePrimaryKey)
	seenDefault := false
	for _, con := range col.Constraints {
		switch con.Type {
		case isr.ConstraintTypeNotNull:
			if !isSerial {
				parts = append(parts, "NOT NULL")
			}
		case isr.ConstraintTypeUnique:
			if !isPK {
				parts = append(parts, "UNIQUE")
			}
		case isr.ConstraintTypeDefault:
			if seenDefault {
				continue
			}
			seenDefault = true
			if rendered, ok := renderDefault(con.Default, pq.QuoteLiteral); ok {
				parts = append(parts, "DEFAULT "+rendered)
			}
		}
	}
	return strings.Join(parts, " "), isSerial
}

func (g *postgresGenerator) columnType(table *isr.Table, col *isr.Column) (string, bool) {
	if col.HasConstraint(isr.ConstraintTypePrimaryKey) && col.HasConstraint(isr.ConstraintTypeAutoIncrement) {
		switch col.Type {
		case isr.GenericTypeInteger:
			return "SERIAL", true
		case isr.GenericTypeBigInteger:
			return "BIGSERIAL", true
		}
	}
	if col.Type == isr.GenericTypeEnum {
		if con := col.Constraint(isr.ConstraintTypeEnumValues); con != nil && len(con.EnumValues) > 0 {
			return pq.QuoteIdentifier(enumTypeName(table.Name, col.Name)), false
		}
		return "TEXT", false
	}
	return mapPostgresType(col.Type), false
}

func (g *postgresGenerator) collectForeignKeys(table *isr.Table, col *isr.Column) {
	for _, con := range col.Constraints {
		if con.Type != isr.ConstraintTypeForeignKey || con.ForeignKey == nil {
			continue
		}
		ref := con.ForeignKey
		if ref.Table == "" || len(ref.Columns) == 0 {
			continue
		}
		refCols := make([]string, len(ref.Columns))
		for i, rc := range ref.Columns {
			refCols[i] = pq.QuoteIdentifier(cleanIdentifier(rc))
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
			pq.QuoteIdentifier(cleanIdentifier(table.Name)),
			pq.QuoteIdentifier(foreignKeyName(ref, table.Name, col.Name)),
			pq.QuoteIdentifier(cleanIdentifier(col.Name)),
			pq.QuoteIdentifier(cleanIdentifier(ref.Table)),
			strings.Join(refCols, ", "))
		if action := fkAction(ref.OnDelete); action != "" {
			stmt += " ON DELETE " + action
		}
		if action := fkAction(ref.OnUpdate); action != "" {
			stmt += " ON UPDATE " + action
		}
		g.foreignKeys = append(g.foreignKeys, stmt+";")
	}
}

func (g *postgresGenerator) writeForeignKeys(output *strings.Builder) {
	if len(g.foreignKeys) == 0 {
		return
	}
	output.WriteString("-- Foreign Key Constraints\n")
	for _, stmt := range g.foreignKeys {
		output.WriteString(stmt)
		output.WriteString("\n")
	}
	output.WriteString("\n")
}

func (g *postgresGenerator) writeComments(output *strings.Builder) {
	if len(g.tableComments) > 0 {
		output.WriteString("-- Table Comments\n")
		for _, stmt := range g.tableComments {
			output.WriteString(stmt)
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}
	if len(g.columnComments) > 0 {
		output.WriteString("-- Column Comments\n")
		for _, stmt := range g.columnComments {
			output.WriteString(stmt)
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}
}

// enumTypeName builds the synthesized type name for an enum column. Names are
// lower-cased so two casings of the same table/column pair share one type.
func enumTypeName(table, column string) string {
	return strings.ToLower("enum_" + cleanIdentifier(table) + "_" + cleanIdentifier(column))
}

func mapPostgresType(t isr.GenericType) string {
	switch t {
	case isr.GenericTypeString:
		return "VARCHAR(255)"
	case isr.GenericTypeText:
		return "TEXT"
	case isr.GenericTypeInteger:
		return "INTEGER"
	case isr.GenericTypeBigInteger:
		return "BIGINT"
	case isr.GenericTypeFloat:
		return "REAL"
	case isr.GenericTypeDecimal:
		return "DECIMAL(10, 2)"
	case isr.GenericTypeBoolean:
		return "BOOLEAN"
	case isr.GenericTypeDate:
		return "DATE"
	case isr.GenericTypeTime:
		return "TIME WITHOUT TIME ZONE"
	case isr.GenericTypeDateTime:
		return "TIMESTAMP WITHOUT TIME ZONE"
	case isr.GenericTypeTimestamp:
		return "TIMESTAMP WITH TIME ZONE"
	case isr.GenericTypeBlob:
		return "BYTEA"
	case isr.GenericTypeJSON:
		return "JSONB"
	case isr.GenericTypeUUID:
		return "UUID"
	}
	return "TEXT"
}
