package pyorm

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokName tokenKind = iota
	tokNumber
	tokString
	tokOp
)

type token struct {
	kind  tokenKind
	text  string // raw source text, quotes included for strings
	value string // decoded text for string tokens
	line  int
	start int
	end   int
}

// logicalLine is one statement line after joining continuations:
// newlines inside brackets and after a trailing backslash do not end
// a line. Blank and comment-only lines are dropped.
type logicalLine struct {
	indent int
	line   int
	toks   []token
}

var doubleOps = []string{
	"**", "//", "<<", ">>", "<=", ">=", "==", "!=",
	"->", ":=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
}

var tripleOps = []string{"**=", "//=", "<<=", ">>=", "..."}

// lexLines scans source text into logical lines of tokens. It enforces
// only the structural rules the extractor depends on: strings must
// terminate and brackets must pair. Everything else is tokenized
// permissively.
func lexLines(src string) ([]logicalLine, error) {
	var (
		lines     []logicalLine
		cur       []token
		brackets  []byte
		i         int
		line      = 1
		indent    int
		curIndent int
		curLine   int
	)

	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, logicalLine{indent: curIndent, line: curLine, toks: cur})
			cur = nil
		}
	}
	emit := func(t token) {
		if len(cur) == 0 {
			curIndent = indent
			curLine = t.line
		}
		cur = append(cur, t)
	}
	measureIndent := func() int {
		n := 0
		for i < len(src) {
			switch src[i] {
			case ' ':
				n++
			case '\t':
				n += 8 - n%8
			default:
				return n
			}
			i++
		}
		return n
	}

	indent = measureIndent()
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			i++
			line++
			if len(brackets) == 0 {
				flush()
			}
			next := measureIndent()
			if len(brackets) == 0 {
				indent = next
			}

		case c == ' ' || c == '\t' || c == '\r':
			i++

		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}

		case c == '\\' && i+1 < len(src) && (src[i+1] == '\n' || src[i+1] == '\r'):
			i++
			if i < len(src) && src[i] == '\r' {
				i++
			}
			if i < len(src) && src[i] == '\n' {
				i++
				line++
			}
			measureIndent()

		case c == '\'' || c == '"':
			t, n, err := scanString(src, i, line, "")
			if err != nil {
				return nil, err
			}
			emit(t)
			i = t.end
			line += n

		case isNameStart(c):
			j := i
			for j < len(src) && isNameChar(src[j]) {
				j++
			}
			word := src[i:j]
			if isStringPrefix(word) && j < len(src) && (src[j] == '\'' || src[j] == '"') {
				t, n, err := scanString(src, j, line, word)
				if err != nil {
					return nil, err
				}
				t.start = i
				t.text = src[i:t.end]
				emit(t)
				i = t.end
				line += n
				continue
			}
			emit(token{kind: tokName, text: word, line: line, start: i, end: j})
			i = j

		case c >= '0' && c <= '9' || c == '.' && i+1 < len(src) && src[i+1] >= '0' && src[i+1] <= '9':
			j := i + 1
			for j < len(src) {
				b := src[j]
				switch {
				case isNameChar(b) || b == '.':
					j++
				case (b == '+' || b == '-') && (src[j-1] == 'e' || src[j-1] == 'E'):
					j++
				default:
					goto numDone
				}
			}
		numDone:
			emit(token{kind: tokNumber, text: src[i:j], line: line, start: i, end: j})
			i = j

		case c == '(' || c == '[' || c == '{':
			brackets = append(brackets, c)
			emit(token{kind: tokOp, text: string(c), line: line, start: i, end: i + 1})
			i++

		case c == ')' || c == ']' || c == '}':
			if len(brackets) == 0 {
				return nil, fmt.Errorf("unmatched '%c' (line %d)", c, line)
			}
			open := brackets[len(brackets)-1]
			if closerOf(open) != c {
				return nil, fmt.Errorf("closing '%c' does not match '%c' (line %d)", c, open, line)
			}
			brackets = brackets[:len(brackets)-1]
			emit(token{kind: tokOp, text: string(c), line: line, start: i, end: i + 1})
			i++

		default:
			op := scanOperator(src, i)
			emit(token{kind: tokOp, text: op, line: line, start: i, end: i + len(op)})
			i += len(op)
		}
	}

	if len(brackets) > 0 {
		return nil, fmt.Errorf("unexpected end of source: unclosed '%c'", brackets[len(brackets)-1])
	}
	flush()
	return lines, nil
}

func closerOf(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	}
	return '}'
}

func scanOperator(src string, i int) string {
	for _, op := range tripleOps {
		if strings.HasPrefix(src[i:], op) {
			return op
		}
	}
	for _, op := range doubleOps {
		if strings.HasPrefix(src[i:], op) {
			return op
		}
	}
	return src[i : i+1]
}

// scanString consumes a string literal starting at the quote src[i].
// Triple-quoted strings may span lines; single-quoted ones must close
// before the line ends. Returns the token and how many newlines were
// consumed.
func scanString(src string, i, line int, prefix string) (token, int, error) {
	quote := src[i]
	raw := strings.ContainsAny(prefix, "rR")
	triple := i+2 < len(src) && src[i+1] == quote && src[i+2] == quote

	var value strings.Builder
	newlines := 0
	start := i
	j := i + 1
	if triple {
		j = i + 3
	}
	for j < len(src) {
		b := src[j]
		switch {
		case b == '\\' && j+1 < len(src):
			if raw {
				value.WriteByte(b)
				value.WriteByte(src[j+1])
			} else {
				value.WriteByte(unescape(src[j+1]))
			}
			if src[j+1] == '\n' {
				newlines++
			}
			j += 2

		case b == quote:
			if triple {
				if j+2 < len(src) && src[j+1] == quote && src[j+2] == quote {
					return token{kind: tokString, text: src[start : j+3], value: value.String(), line: line, start: start, end: j + 3}, newlines, nil
				}
				value.WriteByte(b)
				j++
				continue
			}
			return token{kind: tokString, text: src[start : j+1], value: value.String(), line: line, start: start, end: j + 1}, newlines, nil

		case b == '\n':
			if !triple {
				return token{}, 0, fmt.Errorf("unterminated string literal (line %d)", line+newlines)
			}
			value.WriteByte(b)
			newlines++
			j++

		default:
			value.WriteByte(b)
			j++
		}
	}
	return token{}, 0, fmt.Errorf("unterminated string literal (line %d)", line+newlines)
}

func unescape(b byte) byte {
	switch b {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	}
	return b
}

func isStringPrefix(word string) bool {
	if len(word) > 2 {
		return false
	}
	for i := 0; i < len(word); i++ {
		switch word[i] {
		case 'r', 'b', 'f', 'u', 'R', 'B', 'F', 'U':
		default:
			return false
		}
	}
	return true
}

func isNameStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9'
}
