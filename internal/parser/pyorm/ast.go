package pyorm

import "strings"

// The node set is intentionally small: class definitions, simple and
// annotated assignments, and call expressions with literal arguments
// are all the extractor needs. Anything outside that shape survives as
// an Opaque node carrying its source text.

type module struct {
	body []stmt
}

type stmt interface{ isStmt() }

type classDef struct {
	name  string
	bases []expr
	doc   string
	body  []stmt
}

type assign struct {
	target string
	value  expr
}

type annAssign struct {
	target     string
	annotation expr
	value      expr
}

type exprStmt struct {
	value expr
}

type unknownStmt struct{}

func (*classDef) isStmt()    {}
func (*assign) isStmt()      {}
func (*annAssign) isStmt()   {}
func (*exprStmt) isStmt()    {}
func (*unknownStmt) isStmt() {}

type expr interface{ isExpr() }

type nameExpr struct {
	id string
}

type attrExpr struct {
	value expr
	attr  string
}

type subscriptExpr struct {
	value expr
	index expr
}

type callExpr struct {
	fn       expr
	args     []expr
	keywords []keywordArg
}

type keywordArg struct {
	name  string
	value expr
}

type strLit struct {
	value string
}

type numLit struct {
	text string
}

type boolLit struct {
	value bool
}

type noneLit struct{}

type listLit struct {
	elts []expr
}

type tupleLit struct {
	elts []expr
}

type opaqueExpr struct {
	text string
}

func (*nameExpr) isExpr()      {}
func (*attrExpr) isExpr()      {}
func (*subscriptExpr) isExpr() {}
func (*callExpr) isExpr()      {}
func (*strLit) isExpr()        {}
func (*numLit) isExpr()        {}
func (*boolLit) isExpr()       {}
func (*noneLit) isExpr()       {}
func (*listLit) isExpr()       {}
func (*tupleLit) isExpr()      {}
func (*opaqueExpr) isExpr()    {}

// exprText reconstructs an approximate source form of an expression,
// used when a non-literal value must be carried through as an opaque
// placeholder.
func exprText(e expr) string {
	switch e := e.(type) {
	case *nameExpr:
		return e.id
	case *attrExpr:
		return exprText(e.value) + "." + e.attr
	case *subscriptExpr:
		return exprText(e.value) + "[" + exprText(e.index) + "]"
	case *callExpr:
		parts := make([]string, 0, len(e.args)+len(e.keywords))
		for _, a := range e.args {
			parts = append(parts, exprText(a))
		}
		for _, kw := range e.keywords {
			parts = append(parts, kw.name+"="+exprText(kw.value))
		}
		return exprText(e.fn) + "(" + strings.Join(parts, ", ") + ")"
	case *strLit:
		return "'" + e.value + "'"
	case *numLit:
		return e.text
	case *boolLit:
		if e.value {
			return "True"
		}
		return "False"
	case *noneLit:
		return "None"
	case *listLit:
		return "[" + joinExprTexts(e.elts) + "]"
	case *tupleLit:
		return "(" + joinExprTexts(e.elts) + ")"
	case *opaqueExpr:
		return e.text
	}
	return ""
}

func joinExprTexts(elts []expr) string {
	parts := make([]string, len(elts))
	for i, e := range elts {
		parts[i] = exprText(e)
	}
	return strings.Join(parts, ", ")
}

// cleanDocstring normalizes a docstring the way documentation tools
// do: the first line is stripped, the common indentation of the
// remaining lines is removed, and surrounding blank lines are dropped.
func cleanDocstring(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) == 1 {
		return strings.TrimSpace(s)
	}

	margin := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}

	out := []string{strings.TrimSpace(lines[0])}
	for _, line := range lines[1:] {
		if margin > 0 && len(line) >= margin {
			line = line[margin:]
		}
		out = append(out, strings.TrimRight(line, " \t"))
	}
	return strings.Trim(strings.Join(out, "\n"), "\n")
}
