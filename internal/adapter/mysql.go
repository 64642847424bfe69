package adapter

import (
	"fmt"
	"strings"

	"github.com/papajo/schemaGenius/internal/isr"
)

// MySQL renders a schema as a MySQL DDL script.
type MySQL struct{}

// NewMySQL returns the MySQL DDL adapter.
func NewMySQL() *MySQL { return &MySQL{} }

// Dialect returns the canonical dialect name.
func (*MySQL) Dialect() string { return "MySQL" }

// Generate renders the schema as a complete script: header comments, a
// FOREIGN_KEY_CHECKS prologue/epilogue, one DROP plus CREATE per table and
// one ALTER TABLE per foreign key after all tables.
func (*MySQL) Generate(s *isr.Schema) (string, error) {
	g := &mysqlGenerator{schema: s}
	return g.generate(), nil
}

type mysqlGenerator struct {
	schema      *isr.Schema
	foreignKeys []string
}

func (g *mysqlGenerator) generate() string {
	var output strings.Builder
	writeSchemaHeader(&output, g.schema, "MySQL")
	output.WriteString("SET FOREIGN_KEY_CHECKS=0;\n\n")
	for _, table := range g.schema.Tables {
		g.writeTable(&output, table)
	}
	if len(g.foreignKeys) > 0 {
		for _, stmt := range g.foreignKeys {
			output.WriteString(stmt)
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}
	output.WriteString("SET FOREIGN_KEY_CHECKS=1;\n")
	return output.String()
}

func (g *mysqlGenerator) writeTable(output *strings.Builder, table *isr.Table) {
	if len(table.Columns) == 0 {
		return
	}
	name := quoteMySQLIdent(table.Name)
	fmt.Fprintf(output, "DROP TABLE IF EXISTS %s;\n", name)
	fmt.Fprintf(output, "CREATE TABLE %s (\n", name)

	defs := make([]string, 0, len(table.Columns)+1)
	var pkCols []string
	for _, col := range table.Columns {
		defs = append(defs, "    "+g.columnDefinition(col))
		if col.HasConstraint(isr.ConstraintTypePrimaryKey) {
			pkCols = append(pkCols, quoteMySQLIdent(col.Name))
		}
		g.collectForeignKeys(table, col)
	}
	if len(pkCols) > 0 {
		defs = append(defs, fmt.Sprintf("    PRIMARY KEY (%s)", strings.Join(pkCols, ", ")))
	}
	output.WriteString(strings.Join(defs, ",\n"))

	output.WriteString("\n) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci")
	if table.Comment != "" {
		fmt.Fprintf(output, " COMMENT=%s", quoteMySQLString(table.Comment))
	}
	output.WriteString(";\n\n")
}

// columnDefinition renders one column line. PRIMARY KEY is always emitted at
// table level, so the inline clause is skipped here; UNIQUE is redundant on a
// primary key column and suppressed.
func (g *mysqlGenerator) columnDefinition(col *isr.Column) string {
	parts := []string{quoteMySQLIdent(col.Name), mapMySQLType(col)}
	isPK := col.HasConstraint(isr.ConstraintTypePrimaryKey)
	seenDefault := false
	for _, con := range col.Constraints {
		switch con.Type {
		case isr.ConstraintTypeNotNull:
			parts = append(parts, "NOT NULL")
		case isr.ConstraintTypeUnique:
			if !isPK {
				parts = append(parts, "UNIQUE")
			}
		case isr.ConstraintTypeAutoIncrement:
			parts = append(parts, "AUTO_INCREMENT")
		case isr.ConstraintTypeDefault:
			if seenDefault {
				continue
			}
			seenDefault = true
			if rendered, ok := renderDefault(con.Default, quoteMySQLString); ok {
				parts = append(parts, "DEFAULT "+rendered)
			}
		}
	}
	if col.Comment != "" {
		parts = append(parts, "COMMENT "+quoteMySQLString(col.Comment))
	}
	return strings.Join(parts, " ")
}

func (g *mysqlGenerator) collectForeignKeys(table *isr.Table, col *isr.Column) {
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
			refCols[i] = quoteMySQLIdent(rc)
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
			quoteMySQLIdent(table.Name),
			quoteMySQLIdent(foreignKeyName(ref, table.Name, col.Name)),
			quoteMySQLIdent(col.Name),
			quoteMySQLIdent(ref.Table),
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

// mapMySQLType maps a generic column type to its MySQL rendering. ENUM
// columns render their values inline; without values they fall back to
// VARCHAR(255), as does any unknown type.
func mapMySQLType(col *isr.Column) string {
	switch col.Type {
	case isr.GenericTypeString:
		return "VARCHAR(255)"
	case isr.GenericTypeText:
		return "TEXT"
	case isr.GenericTypeInteger:
		return "INT"
	case isr.GenericTypeBigInteger:
		return "BIGINT"
	case isr.GenericTypeFloat:
		return "FLOAT"
	case isr.GenericTypeDecimal:
		return "DECIMAL(10, 2)"
	case isr.GenericTypeBoolean:
		return "BOOLEAN"
	case isr.GenericTypeDate:
		return "DATE"
	case isr.GenericTypeTime:
		return "TIME"
	case isr.GenericTypeDateTime:
		return "DATETIME"
	case isr.GenericTypeTimestamp:
		return "TIMESTAMP"
	case isr.GenericTypeBlob:
		return "BLOB"
	case isr.GenericTypeJSON:
		return "JSON"
	case isr.GenericTypeUUID:
		return "CHAR(36)"
	case isr.GenericTypeEnum:
		if con := col.Constraint(isr.ConstraintTypeEnumValues); con != nil && len(con.EnumValues) > 0 {
			return "ENUM(" + quoteStringList(con.EnumValues, quoteMySQLString) + ")"
		}
		return "VARCHAR(255)"
	}
	return "VARCHAR(255)"
}

func quoteMySQLIdent(name string) string {
	return "`" + strings.ReplaceAll(cleanIdentifier(name), "`", "``") + "`"
}

func quoteMySQLString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
