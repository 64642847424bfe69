package schemagenius

import (
	"github.com/papajo/schemaGenius/internal/engine"
	"github.com/papajo/schemaGenius/internal/isr"
)

// Re-export the intermediate schema model for external consumption

// Schema is the root of the intermediate schema representation.
type Schema = isr.Schema

// Table represents one table with its columns.
type Table = isr.Table

// Column represents a table column with its generic type and constraints.
type Column = isr.Column

// Constraint represents one constraint attached to a column.
type Constraint = isr.Constraint

// GenericType is the dialect-neutral column type vocabulary.
type GenericType = isr.GenericType

// ConstraintType identifies one variant of the constraint union.
type ConstraintType = isr.ConstraintType

// DefaultValue carries the payload of a DEFAULT constraint.
type DefaultValue = isr.DefaultValue

// ForeignKeyRef carries the payload of a FOREIGN_KEY constraint.
type ForeignKeyRef = isr.ForeignKeyRef

const (
	GenericTypeString     = isr.GenericTypeString
	GenericTypeText       = isr.GenericTypeText
	GenericTypeInteger    = isr.GenericTypeInteger
	GenericTypeBigInteger = isr.GenericTypeBigInteger
	GenericTypeFloat      = isr.GenericTypeFloat
	GenericTypeDecimal    = isr.GenericTypeDecimal
	GenericTypeBoolean    = isr.GenericTypeBoolean
	GenericTypeDate       = isr.GenericTypeDate
	GenericTypeTime       = isr.GenericTypeTime
	GenericTypeDateTime   = isr.GenericTypeDateTime
	GenericTypeTimestamp  = isr.GenericTypeTimestamp
	GenericTypeBlob       = isr.GenericTypeBlob
	GenericTypeJSON       = isr.GenericTypeJSON
	GenericTypeUUID       = isr.GenericTypeUUID
	GenericTypeEnum       = isr.GenericTypeEnum
)

const (
	ConstraintTypePrimaryKey    = isr.ConstraintTypePrimaryKey
	ConstraintTypeNotNull       = isr.ConstraintTypeNotNull
	ConstraintTypeUnique        = isr.ConstraintTypeUnique
	ConstraintTypeAutoIncrement = isr.ConstraintTypeAutoIncrement
	ConstraintTypeDefault       = isr.ConstraintTypeDefault
	ConstraintTypeForeignKey    = isr.ConstraintTypeForeignKey
	ConstraintTypeEnumValues    = isr.ConstraintTypeEnumValues
)

// Error types, so callers can classify failures with errors.As

// ValidationError reports malformed or inconsistent input.
type ValidationError = isr.ValidationError

// UnsupportedFormatError reports an input type or target database with no
// registered implementation.
type UnsupportedFormatError = engine.UnsupportedFormatError

// TransformError wraps unexpected parser or adapter failures.
type TransformError = engine.TransformError
