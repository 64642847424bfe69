// Package pyorm recovers table definitions from declarative ORM model
// source. It implements a narrow grammar covering class definitions,
// simple and annotated assignments, and call expressions with literal
// arguments, which is all the extraction needs, and keeps the host
// language handling isolated behind a single entry point.
package pyorm

import (
	"strings"

	"github.com/papajo/schemaGenius/internal/isr"
)

// baseClassNames are the conventional declarative base classes a model
// inherits from.
var baseClassNames = map[string]struct{}{
	"Base":            {},
	"DeclarativeBase": {},
	"Model":           {},
	"BaseModel":       {},
}

// moduleAliases are accepted as the qualifier in alias.Model bases and
// alias.Column constructor calls.
var moduleAliases = map[string]struct{}{
	"sa":         {},
	"db":         {},
	"orm":        {},
	"sqlalchemy": {},
	"so":         {},
}

// Parse extracts every declarative model class from the source text
// and returns the resulting schema. Classes that do not inherit from a
// recognized base are skipped. Source that violates the structural
// rules (unterminated strings, unbalanced brackets, a class without an
// indented body) yields a *isr.ValidationError.
func Parse(source string) (*isr.Schema, error) {
	mod, err := parseModule(source)
	if err != nil {
		return nil, isr.Invalidf("invalid Python syntax: %v", err)
	}

	tables := []*isr.Table{}
	for _, st := range mod.body {
		cls, ok := st.(*classDef)
		if !ok || !isModelClass(cls) {
			continue
		}
		if t := extractTable(cls); t != nil {
			tables = append(tables, t)
		}
	}
	return &isr.Schema{Tables: tables}, nil
}

func isModelClass(cls *classDef) bool {
	for _, base := range cls.bases {
		switch base := base.(type) {
		case *nameExpr:
			if _, ok := baseClassNames[base.id]; ok {
				return true
			}
		case *attrExpr:
			if alias, ok := base.value.(*nameExpr); ok && base.attr == "Model" {
				if _, ok := moduleAliases[alias.id]; ok {
					return true
				}
			}
		}
	}
	return false
}

// extractTable builds a table from a model class: the __tablename__
// literal (else the class name) names it, the docstring becomes the
// comment, and column-constructor assignments become columns. Classes
// with no recognizable columns are dropped.
func extractTable(cls *classDef) *isr.Table {
	t := &isr.Table{Name: cls.name, Comment: cls.doc}
	for _, st := range cls.body {
		switch st := st.(type) {
		case *assign:
			if st.target == "__tablename__" {
				if lit, ok := st.value.(*strLit); ok {
					t.Name = lit.value
				}
				continue
			}
			if col := extractColumn(st.target, nil, st.value); col != nil {
				t.Columns = append(t.Columns, col)
			}
		case *annAssign:
			if col := extractColumn(st.target, st.annotation, st.value); col != nil {
				t.Columns = append(t.Columns, col)
			}
		}
	}
	if len(t.Columns) == 0 {
		return nil
	}
	return t
}

// extractColumn interprets one assignment whose value is a Column or
// mapped_column call. The generic type comes from the first
// non-ForeignKey positional argument when present, else from the
// annotation, else STRING. A ForeignKey argument contributes a
// FOREIGN_KEY constraint and, when nothing else resolved a type,
// forces INTEGER.
func extractColumn(name string, annotation, value expr) *isr.Column {
	call, ok := value.(*callExpr)
	if !ok || !isColumnConstructor(call.fn) {
		return nil
	}

	col := &isr.Column{Name: name, Type: isr.GenericTypeString}
	resolved := false

	var fkRef *isr.ForeignKeyRef
	var typeExpr expr
	for _, arg := range call.args {
		if fk, ok := foreignKeyCall(arg); ok {
			if ref := foreignKeyRef(fk); ref != nil && fkRef == nil {
				fkRef = ref
			}
			continue
		}
		if typeExpr == nil {
			typeExpr = arg
		}
	}

	if typeExpr != nil {
		if typeName, params, ok := typeArg(typeExpr); ok {
			col.Type = mapORMType(typeName)
			resolved = true
			if col.Type == isr.GenericTypeEnum {
				if values := stringLiterals(params); len(values) > 0 {
					col.Constraints = append(col.Constraints, isr.Enum(values...))
				}
			}
		}
	}
	if fkRef != nil {
		col.Constraints = append(col.Constraints, isr.ForeignKey(fkRef))
	}

	if !resolved && annotation != nil {
		if typ, ok := annotationType(annotation); ok {
			col.Type = typ
			resolved = true
		}
	}
	if fkRef != nil && !resolved {
		col.Type = isr.GenericTypeInteger
	}

	for _, kw := range call.keywords {
		applyColumnKeyword(col, kw)
	}
	return col
}

func isColumnConstructor(fn expr) bool {
	switch fn := fn.(type) {
	case *nameExpr:
		return fn.id == "Column" || fn.id == "mapped_column"
	case *attrExpr:
		if alias, ok := fn.value.(*nameExpr); ok {
			if _, ok := moduleAliases[alias.id]; ok {
				return fn.attr == "Column" || fn.attr == "mapped_column"
			}
		}
	}
	return false
}

func foreignKeyCall(e expr) (*callExpr, bool) {
	call, ok := e.(*callExpr)
	if !ok {
		return nil, false
	}
	switch fn := call.fn.(type) {
	case *nameExpr:
		return call, fn.id == "ForeignKey"
	case *attrExpr:
		return call, fn.attr == "ForeignKey"
	}
	return nil, false
}

// foreignKeyRef reads a ForeignKey("table.column") call. Targets
// without a dot are not resolvable and produce no constraint. The
// ondelete/onupdate/name keywords are carried through when present.
func foreignKeyRef(call *callExpr) *isr.ForeignKeyRef {
	if len(call.args) == 0 {
		return nil
	}
	lit, ok := call.args[0].(*strLit)
	if !ok || !strings.Contains(lit.value, ".") {
		return nil
	}
	parts := strings.SplitN(lit.value, ".", 2)
	ref := &isr.ForeignKeyRef{Table: parts[0], Columns: []string{parts[1]}}
	for _, kw := range call.keywords {
		lit, ok := kw.value.(*strLit)
		if !ok {
			continue
		}
		switch kw.name {
		case "ondelete":
			ref.OnDelete = lit.value
		case "onupdate":
			ref.OnUpdate = lit.value
		case "name":
			ref.Name = lit.value
		}
	}
	return ref
}

// typeArg resolves a type expression to its bare type name plus any
// constructor parameters: String, String(50), sa.String(50), and
// Enum("a", "b") all resolve.
func typeArg(e expr) (string, []expr, bool) {
	switch e := e.(type) {
	case *nameExpr:
		return e.id, nil, true
	case *attrExpr:
		return e.attr, nil, true
	case *callExpr:
		name, _, ok := typeArg(e.fn)
		return name, e.args, ok
	}
	return "", nil, false
}

// annotationType maps a type annotation to a generic type, unwrapping
// Mapped[...] and Optional[...] layers first. The second result is
// false when the annotation names nothing recognizable and the STRING
// fallback should not count as a resolved type.
func annotationType(e expr) (isr.GenericType, bool) {
	for {
		sub, ok := e.(*subscriptExpr)
		if !ok {
			break
		}
		head, ok := sub.value.(*nameExpr)
		if !ok || (head.id != "Mapped" && head.id != "Optional") {
			break
		}
		e = sub.index
	}

	var name string
	switch e := e.(type) {
	case *nameExpr:
		name = e.id
	case *attrExpr:
		name = e.attr
	default:
		return isr.GenericTypeString, false
	}

	switch name {
	case "int":
		return isr.GenericTypeInteger, true
	case "str":
		return isr.GenericTypeString, true
	case "float":
		return isr.GenericTypeFloat, true
	case "bool":
		return isr.GenericTypeBoolean, true
	case "datetime":
		return isr.GenericTypeDateTime, true
	}
	return lookupORMType(name)
}

func applyColumnKeyword(col *isr.Column, kw keywordArg) {
	switch kw.name {
	case "primary_key":
		if isTrueLit(kw.value) {
			col.Constraints = append(col.Constraints, isr.PrimaryKey())
		}
	case "nullable":
		if isFalseLit(kw.value) {
			col.Constraints = append(col.Constraints, isr.NotNull())
		}
	case "unique":
		if isTrueLit(kw.value) {
			col.Constraints = append(col.Constraints, isr.Unique())
		}
	case "autoincrement":
		if isTrueLit(kw.value) {
			col.Constraints = append(col.Constraints, isr.AutoIncrement())
		}
	case "default":
		if d := defaultValueOf(kw.value); d != nil {
			col.Constraints = append(col.Constraints, isr.Default(d))
		}
	case "comment":
		if lit, ok := kw.value.(*strLit); ok {
			col.Comment = lit.value
		}
	case "foreign_key":
		if lit, ok := kw.value.(*strLit); ok && strings.Contains(lit.value, ".") {
			parts := strings.SplitN(lit.value, ".", 2)
			col.Constraints = append(col.Constraints, isr.ForeignKey(&isr.ForeignKeyRef{
				Table:   parts[0],
				Columns: []string{parts[1]},
			}))
		}
	}
}

// defaultValueOf turns a default= argument into a default value.
// None yields nothing; non-literal expressions such as function
// references survive as opaque source text.
func defaultValueOf(e expr) *isr.DefaultValue {
	switch e := e.(type) {
	case *strLit:
		return isr.StringDefault(e.value)
	case *numLit:
		return isr.NumberDefault(e.text)
	case *boolLit:
		return isr.BoolDefault(e.value)
	case *noneLit:
		return nil
	}
	return isr.StringDefault(exprText(e))
}

func stringLiterals(exprs []expr) []string {
	var out []string
	for _, e := range exprs {
		if lit, ok := e.(*strLit); ok {
			out = append(out, lit.value)
		}
	}
	return out
}

func isTrueLit(e expr) bool {
	b, ok := e.(*boolLit)
	return ok && b.value
}

func isFalseLit(e expr) bool {
	b, ok := e.(*boolLit)
	return ok && !b.value
}

// lookupORMType maps an ORM type class name to a generic type. The
// bool result reports whether the name was recognized rather than
// falling back to STRING.
func lookupORMType(name string) (isr.GenericType, bool) {
	switch strings.ToUpper(name) {
	case "INTEGER", "SMALLINTEGER", "INT":
		return isr.GenericTypeInteger, true
	case "BIGINTEGER", "BIGINT":
		return isr.GenericTypeBigInteger, true
	case "STRING", "UNICODE", "NVARCHAR", "VARCHAR", "CHAR":
		return isr.GenericTypeString, true
	case "TEXT", "UNICODETEXT", "CLOB":
		return isr.GenericTypeText, true
	case "FLOAT", "REAL", "DOUBLE_PRECISION", "DOUBLE":
		return isr.GenericTypeFloat, true
	case "NUMERIC", "DECIMAL":
		return isr.GenericTypeDecimal, true
	case "BOOLEAN", "BOOL":
		return isr.GenericTypeBoolean, true
	case "DATE":
		return isr.GenericTypeDate, true
	case "DATETIME":
		return isr.GenericTypeDateTime, true
	case "TIMESTAMP":
		return isr.GenericTypeTimestamp, true
	case "BLOB", "BINARY", "LARGEBINARY", "VARBINARY", "BYTEA":
		return isr.GenericTypeBlob, true
	case "JSON":
		return isr.GenericTypeJSON, true
	case "UUID":
		return isr.GenericTypeUUID, true
	case "ENUM":
		return isr.GenericTypeEnum, true
	}
	return isr.GenericTypeString, false
}

func mapORMType(name string) isr.GenericType {
	typ, _ := lookupORMType(name)
	return typ
}
