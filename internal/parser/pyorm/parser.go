package pyorm

import (
	"fmt"
	"strings"
)

type sourceParser struct {
	lines []logicalLine
	pos   int
	src   string
}

func parseModule(src string) (*module, error) {
	lines, err := lexLines(src)
	if err != nil {
		return nil, err
	}
	p := &sourceParser{lines: lines, src: src}
	m := &module{}
	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if isClassHeader(ln) {
			cls, err := p.parseClass()
			if err != nil {
				return nil, err
			}
			m.body = append(m.body, cls)
			continue
		}
		p.skipStatement(ln.indent)
	}
	return m, nil
}

func isClassHeader(ln logicalLine) bool {
	return len(ln.toks) > 1 &&
		ln.toks[0].kind == tokName && ln.toks[0].text == "class" &&
		ln.toks[1].kind == tokName
}

// skipStatement advances past the current line and any block nested
// under it.
func (p *sourceParser) skipStatement(indent int) {
	p.pos++
	for p.pos < len(p.lines) && p.lines[p.pos].indent > indent {
		p.pos++
	}
}

func (p *sourceParser) parseClass() (*classDef, error) {
	header := p.lines[p.pos]
	cls := &classDef{name: header.toks[1].text}

	lp := newLineParser(header.toks, p.src)
	lp.i = 2
	if lp.peekOp("(") {
		lp.i++
		for !lp.done() && !lp.peekOp(")") {
			before := lp.i
			if lp.i+1 < len(lp.toks) && lp.toks[lp.i].kind == tokName && lp.opAt(lp.i+1, "=") {
				// keyword bases like metaclass=... carry no table info
				lp.i += 2
				lp.parseExpr()
			} else {
				cls.bases = append(cls.bases, lp.parseExpr())
			}
			if lp.peekOp(",") {
				lp.i++
			}
			if lp.i == before {
				lp.i++
			}
		}
		if !lp.peekOp(")") {
			return nil, fmt.Errorf("malformed class header (line %d)", header.line)
		}
		lp.i++
	}
	if !lp.peekOp(":") {
		return nil, fmt.Errorf("expected ':' after class header (line %d)", header.line)
	}
	lp.i++
	inlineSuite := !lp.done()

	p.pos++
	bodyStart := p.pos
	for p.pos < len(p.lines) && p.lines[p.pos].indent > header.indent {
		p.pos++
	}
	body := p.lines[bodyStart:p.pos]
	if len(body) == 0 {
		if inlineSuite {
			return cls, nil
		}
		return nil, fmt.Errorf("expected an indented block after class %s (line %d)", cls.name, header.line)
	}

	bodyIndent := body[0].indent
	first := true
	for _, ln := range body {
		if ln.indent != bodyIndent {
			// deeper lines belong to nested suites (methods, conditionals)
			// that the grammar does not model
			continue
		}
		st := p.parseClassStmt(ln)
		if first {
			first = false
			if es, ok := st.(*exprStmt); ok {
				if lit, ok := es.value.(*strLit); ok {
					cls.doc = cleanDocstring(lit.value)
				}
			}
		}
		cls.body = append(cls.body, st)
	}
	return cls, nil
}

func (p *sourceParser) parseClassStmt(ln logicalLine) stmt {
	toks := ln.toks
	if len(toks) == 1 && toks[0].kind == tokString {
		return &exprStmt{value: &strLit{value: toks[0].value}}
	}
	if toks[0].kind != tokName || len(toks) < 2 {
		return &unknownStmt{}
	}
	switch toks[0].text {
	case "class", "def", "async", "if", "elif", "else", "for", "while",
		"with", "try", "import", "from", "pass", "return", "del", "global":
		return &unknownStmt{}
	}

	lp := newLineParser(toks, p.src)
	lp.i = 1
	target := toks[0].text
	switch {
	case lp.peekOp("="):
		lp.i++
		return &assign{target: target, value: lp.parseExpr()}
	case lp.peekOp(":"):
		lp.i++
		ann := lp.parseExpr()
		st := &annAssign{target: target, annotation: ann}
		if lp.peekOp("=") {
			lp.i++
			st.value = lp.parseExpr()
		}
		return st
	}
	return &unknownStmt{}
}

type lineParser struct {
	toks []token
	i    int
	src  string
}

func newLineParser(toks []token, src string) *lineParser {
	return &lineParser{toks: toks, src: src}
}

func (p *lineParser) done() bool {
	return p.i >= len(p.toks)
}

func (p *lineParser) peekOp(text string) bool {
	return p.opAt(p.i, text)
}

func (p *lineParser) opAt(i int, text string) bool {
	return i < len(p.toks) && p.toks[i].kind == tokOp && p.toks[i].text == text
}

// isExprStop reports operators that end an expression at nesting depth
// zero instead of continuing it.
func isExprStop(text string) bool {
	switch text {
	case ",", ")", "]", "}", ":", "=":
		return true
	}
	return false
}

// parseExpr parses one expression. Shapes outside the modeled grammar
// (arithmetic, lambdas, comprehensions) collapse into an opaque node
// holding their source text.
func (p *lineParser) parseExpr() expr {
	start := p.i
	e, ok := p.parsePostfix()
	if !ok {
		return p.consumeOpaque(start)
	}
	if !p.done() && !(p.toks[p.i].kind == tokOp && isExprStop(p.toks[p.i].text)) {
		return p.consumeOpaque(start)
	}
	return e
}

func (p *lineParser) parsePostfix() (expr, bool) {
	e, ok := p.parseAtom()
	if !ok {
		return nil, false
	}
	for !p.done() {
		switch {
		case p.peekOp("."):
			if p.i+1 >= len(p.toks) || p.toks[p.i+1].kind != tokName {
				return nil, false
			}
			e = &attrExpr{value: e, attr: p.toks[p.i+1].text}
			p.i += 2
		case p.peekOp("("):
			call, ok := p.parseCall(e)
			if !ok {
				return nil, false
			}
			e = call
		case p.peekOp("["):
			p.i++
			idx := p.parseExpr()
			if !p.peekOp("]") {
				return nil, false
			}
			p.i++
			e = &subscriptExpr{value: e, index: idx}
		default:
			return e, true
		}
	}
	return e, true
}

func (p *lineParser) parseAtom() (expr, bool) {
	if p.done() {
		return nil, false
	}
	t := p.toks[p.i]
	switch t.kind {
	case tokName:
		p.i++
		switch t.text {
		case "True":
			return &boolLit{value: true}, true
		case "False":
			return &boolLit{value: false}, true
		case "None":
			return &noneLit{}, true
		}
		return &nameExpr{id: t.text}, true
	case tokString:
		p.i++
		value := t.value
		for !p.done() && p.toks[p.i].kind == tokString {
			value += p.toks[p.i].value
			p.i++
		}
		return &strLit{value: value}, true
	case tokNumber:
		p.i++
		return &numLit{text: t.text}, true
	}

	switch t.text {
	case "-", "+":
		if p.i+1 < len(p.toks) && p.toks[p.i+1].kind == tokNumber {
			text := p.toks[p.i+1].text
			if t.text == "-" {
				text = "-" + text
			}
			p.i += 2
			return &numLit{text: text}, true
		}
	case "[":
		return p.parseList()
	case "(":
		return p.parseParen()
	}
	return nil, false
}

func (p *lineParser) parseList() (expr, bool) {
	p.i++
	lst := &listLit{}
	for !p.done() && !p.peekOp("]") {
		before := p.i
		lst.elts = append(lst.elts, p.parseExpr())
		if p.peekOp(",") {
			p.i++
		}
		if p.i == before {
			return nil, false
		}
	}
	if !p.peekOp("]") {
		return nil, false
	}
	p.i++
	return lst, true
}

func (p *lineParser) parseParen() (expr, bool) {
	p.i++
	if p.peekOp(")") {
		p.i++
		return &tupleLit{}, true
	}
	var elts []expr
	isTuple := false
	for {
		before := p.i
		elts = append(elts, p.parseExpr())
		if p.i == before {
			return nil, false
		}
		if p.peekOp(",") {
			isTuple = true
			p.i++
			if p.peekOp(")") {
				break
			}
			continue
		}
		break
	}
	if !p.peekOp(")") {
		return nil, false
	}
	p.i++
	if !isTuple && len(elts) == 1 {
		return elts[0], true
	}
	return &tupleLit{elts: elts}, true
}

func (p *lineParser) parseCall(fn expr) (*callExpr, bool) {
	p.i++
	call := &callExpr{fn: fn}
	for !p.done() && !p.peekOp(")") {
		before := p.i
		if p.i+1 < len(p.toks) && p.toks[p.i].kind == tokName && p.opAt(p.i+1, "=") {
			kw := keywordArg{name: p.toks[p.i].text}
			p.i += 2
			kw.value = p.parseExpr()
			call.keywords = append(call.keywords, kw)
		} else {
			call.args = append(call.args, p.parseExpr())
		}
		if p.peekOp(",") {
			p.i++
		}
		if p.i == before {
			p.i++
		}
	}
	if !p.peekOp(")") {
		return nil, false
	}
	p.i++
	return call, true
}

// consumeOpaque swallows tokens from start up to the next expression
// boundary and returns them as an opaque node.
func (p *lineParser) consumeOpaque(start int) expr {
	p.i = start
	depth := 0
	for p.i < len(p.toks) {
		t := p.toks[p.i]
		if t.kind == tokOp {
			switch t.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 {
					return p.opaqueFrom(start)
				}
				depth--
			case ",", ":", "=":
				if depth == 0 {
					return p.opaqueFrom(start)
				}
			}
		}
		p.i++
	}
	return p.opaqueFrom(start)
}

func (p *lineParser) opaqueFrom(start int) expr {
	if p.i == start {
		return &opaqueExpr{}
	}
	text := p.src[p.toks[start].start:p.toks[p.i-1].end]
	return &opaqueExpr{text: strings.TrimSpace(text)}
}
