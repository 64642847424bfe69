// Package isr defines the Intermediate Schema Representation: the canonical,
// format-agnostic model every parser produces and every adapter consumes.
// Values are built once by a single parser invocation and read-only afterwards.
package isr

// Schema is the root artifact of every parse and the sole input to every adapter.
type Schema struct {
	Name    string   `json:"schema_name,omitempty"`
	Version string   `json:"version,omitempty"`
	Tables  []*Table `json:"tables"`
}

// Table represents one relational table with its columns in declaration order.
type Table struct {
	Name    string    `json:"name"`
	Comment string    `json:"comment,omitempty"`
	Columns []*Column `json:"columns"`
}

// Column represents a table column with its generic type and constraints.
type Column struct {
	Name        string        `json:"name"`
	Type        GenericType   `json:"generic_type"`
	Comment     string        `json:"comment,omitempty"`
	Constraints []*Constraint `json:"constraints,omitempty"`
}

// GenericType is the dialect-neutral column type vocabulary.
type GenericType string

const (
	GenericTypeString     GenericType = "STRING"
	GenericTypeText       GenericType = "TEXT"
	GenericTypeInteger    GenericType = "INTEGER"
	GenericTypeBigInteger GenericType = "BIG_INTEGER"
	GenericTypeFloat      GenericType = "FLOAT"
	GenericTypeDecimal    GenericType = "DECIMAL"
	GenericTypeBoolean    GenericType = "BOOLEAN"
	GenericTypeDate       GenericType = "DATE"
	GenericTypeTime       GenericType = "TIME"
	GenericTypeDateTime   GenericType = "DATETIME"
	GenericTypeTimestamp  GenericType = "TIMESTAMP"
	GenericTypeBlob       GenericType = "BLOB"
	GenericTypeJSON       GenericType = "JSON_TYPE"
	GenericTypeUUID       GenericType = "UUID_TYPE"
	GenericTypeEnum       GenericType = "ENUM_TYPE"
)

// ConstraintType identifies one variant of the constraint union.
type ConstraintType string

const (
	ConstraintTypePrimaryKey    ConstraintType = "PRIMARY_KEY"
	ConstraintTypeNotNull       ConstraintType = "NOT_NULL"
	ConstraintTypeUnique        ConstraintType = "UNIQUE"
	ConstraintTypeAutoIncrement ConstraintType = "AUTO_INCREMENT"
	ConstraintTypeDefault       ConstraintType = "DEFAULT"
	ConstraintTypeForeignKey    ConstraintType = "FOREIGN_KEY"
	ConstraintTypeEnumValues    ConstraintType = "ENUM_VALUES"
)

// Constraint is a closed tagged union: Type selects the variant and at most one
// payload field is set. A column may carry several constraints, duplicates
// included; consumers read the first match per type.
type Constraint struct {
	Type       ConstraintType `json:"type"`
	Default    *DefaultValue  `json:"-"` // DEFAULT payload
	ForeignKey *ForeignKeyRef `json:"-"` // FOREIGN_KEY payload
	EnumValues []string       `json:"-"` // ENUM_VALUES payload
}

// DefaultValue is a literal DEFAULT payload. Exactly one field is non-nil.
// Numbers keep their decimal text so adapters can render them verbatim.
type DefaultValue struct {
	String *string
	Number *string
	Bool   *bool
}

// ForeignKeyRef describes the target of a FOREIGN_KEY constraint.
type ForeignKeyRef struct {
	Table    string   `json:"references_table"`
	Columns  []string `json:"references_columns"`
	Name     string   `json:"name,omitempty"`
	OnDelete string   `json:"on_delete,omitempty"`
	OnUpdate string   `json:"on_update,omitempty"`
}

// PrimaryKey returns a PRIMARY_KEY constraint.
func PrimaryKey() *Constraint { return &Constraint{Type: ConstraintTypePrimaryKey} }

// NotNull returns a NOT_NULL constraint.
func NotNull() *Constraint { return &Constraint{Type: ConstraintTypeNotNull} }

// Unique returns a UNIQUE constraint.
func Unique() *Constraint { return &Constraint{Type: ConstraintTypeUnique} }

// AutoIncrement returns an AUTO_INCREMENT constraint.
func AutoIncrement() *Constraint { return &Constraint{Type: ConstraintTypeAutoIncrement} }

// Default returns a DEFAULT constraint carrying the given literal.
func Default(v *DefaultValue) *Constraint {
	return &Constraint{Type: ConstraintTypeDefault, Default: v}
}

// ForeignKey returns a FOREIGN_KEY constraint referencing the given target.
func ForeignKey(ref *ForeignKeyRef) *Constraint {
	return &Constraint{Type: ConstraintTypeForeignKey, ForeignKey: ref}
}

// Enum returns an ENUM_VALUES constraint with the values in order.
func Enum(values ...string) *Constraint {
	return &Constraint{Type: ConstraintTypeEnumValues, EnumValues: values}
}

// StringDefault wraps a string literal as a DefaultValue.
func StringDefault(s string) *DefaultValue { return &DefaultValue{String: &s} }

// NumberDefault wraps a numeric literal, given as its decimal text.
func NumberDefault(text string) *DefaultValue { return &DefaultValue{Number: &text} }

// BoolDefault wraps a boolean literal as a DefaultValue.
func BoolDefault(b bool) *DefaultValue { return &DefaultValue{Bool: &b} }

// Constraint returns the first constraint of the given type, or nil.
func (c *Column) Constraint(t ConstraintType) *Constraint {
	for _, con := range c.Constraints {
		if con.Type == t {
			return con
		}
	}
	return nil
}

// HasConstraint reports whether the column carries a constraint of the given type.
func (c *Column) HasConstraint(t ConstraintType) bool {
	return c.Constraint(t) != nil
}

// Table returns the table with the given name, or nil.
func (s *Schema) Table(name string) *Table {
	for _, t := range s.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}
