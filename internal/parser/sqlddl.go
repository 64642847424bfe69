package parser

import (
	"strconv"
	"strings"

	"github.com/papajo/schemaGenius/internal/isr"
)

// SQL extracts table definitions from CREATE TABLE statements in SQL
// DDL scripts. Parsing is deliberately lenient: statements that are
// not CREATE TABLE, table-level constraint entries, and column clauses
// it does not understand are skipped rather than rejected, so partial
// or vendor-flavored DDL still yields the tables it can recover.
type SQL struct{}

// NewSQL returns a parser for SQL DDL scripts.
func NewSQL() *SQL {
	return &SQL{}
}

// Parse scans the script statement by statement and collects every
// CREATE TABLE it can interpret. Input that contains no parseable
// tables produces a schema with an empty table list, never an error.
func (p *SQL) Parse(input, sourceName string) (*isr.Schema, error) {
	tables := []*isr.Table{}
	for _, stmt := range splitSQLStatements(input) {
		if t := parseCreateTable(tokenizeSQL(stmt)); t != nil {
			tables = append(tables, t)
		}
	}
	return &isr.Schema{Tables: tables}, nil
}

// tableConstraintWords begin table-level entries inside a CREATE TABLE
// body. Such entries are skipped; only column definitions contribute
// to the schema.
var tableConstraintWords = map[string]struct{}{
	"PRIMARY":    {},
	"UNIQUE":     {},
	"KEY":        {},
	"INDEX":      {},
	"CONSTRAINT": {},
	"FOREIGN":    {},
	"CHECK":      {},
	"EXCLUDE":    {},
}

// createTableModifiers may appear between CREATE and TABLE.
var createTableModifiers = map[string]struct{}{
	"OR":        {},
	"REPLACE":   {},
	"TEMP":      {},
	"TEMPORARY": {},
	"UNLOGGED":  {},
	"GLOBAL":    {},
	"LOCAL":     {},
}

func parseCreateTable(toks []string) *isr.Table {
	i := 0
	if i >= len(toks) || !strings.EqualFold(toks[i], "CREATE") {
		return nil
	}
	i++

	for i < len(toks) && !strings.EqualFold(toks[i], "TABLE") {
		if _, ok := createTableModifiers[strings.ToUpper(toks[i])]; !ok {
			return nil
		}
		i++
	}
	if i >= len(toks) {
		return nil
	}
	i++

	if i+2 < len(toks) &&
		strings.EqualFold(toks[i], "IF") &&
		strings.EqualFold(toks[i+1], "NOT") &&
		strings.EqualFold(toks[i+2], "EXISTS") {
		i += 3
	}

	nameStart := i
	for i < len(toks) && toks[i] != "(" {
		i++
	}
	if i == nameStart || i >= len(toks) {
		return nil
	}
	name := tableNameFromTokens(toks[nameStart:i])
	if name == "" {
		return nil
	}

	body, ok := parenGroup(toks, i)
	if !ok {
		return nil
	}

	table := &isr.Table{Name: name}
	for _, elem := range splitTopLevel(body) {
		if col := parseColumnDef(elem); col != nil {
			table.Columns = append(table.Columns, col)
		}
	}
	if len(table.Columns) == 0 {
		return nil
	}
	return table
}

// tableNameFromTokens resolves the table name tokens preceding the
// column list, stripping quotes and any schema qualifier.
func tableNameFromTokens(toks []string) string {
	name := cleanSQLIdentifier(toks[len(toks)-1])
	if j := strings.LastIndexByte(name, '.'); j >= 0 {
		name = name[j+1:]
	}
	return name
}

func cleanSQLIdentifier(s string) string {
	return strings.Trim(s, "`'\"")
}

// parenGroup returns the tokens enclosed by the group opening at
// toks[open], which must be "(". Reports false when the group never
// closes.
func parenGroup(toks []string, open int) ([]string, bool) {
	depth := 0
	for j := open; j < len(toks); j++ {
		switch toks[j] {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return toks[open+1 : j], true
			}
		}
	}
	return nil, false
}

// splitTopLevel splits a CREATE TABLE body into its comma-separated
// elements, leaving commas nested in parentheses alone.
func splitTopLevel(toks []string) [][]string {
	var elems [][]string
	var current []string
	depth := 0
	for _, tok := range toks {
		switch tok {
		case "(":
			depth++
		case ")":
			depth--
		case ",":
			if depth == 0 {
				if len(current) > 0 {
					elems = append(elems, current)
					current = nil
				}
				continue
			}
		}
		current = append(current, tok)
	}
	if len(current) > 0 {
		elems = append(elems, current)
	}
	return elems
}

func parseColumnDef(elem []string) *isr.Column {
	if len(elem) < 2 {
		return nil
	}
	if _, ok := tableConstraintWords[strings.ToUpper(elem[0])]; ok {
		return nil
	}

	name := cleanSQLIdentifier(elem[0])
	if name == "" {
		return nil
	}

	i := 1
	base := strings.ToUpper(cleanSQLIdentifier(elem[i]))
	i++
	if i < len(elem) && elem[i] == "(" {
		i = skipParenGroup(elem, i)
	}

	col := &isr.Column{Name: name}
	switch base {
	case "SERIAL", "SMALLSERIAL":
		col.Type = isr.GenericTypeInteger
		col.Constraints = append(col.Constraints, isr.AutoIncrement())
	case "BIGSERIAL":
		col.Type = isr.GenericTypeBigInteger
		col.Constraints = append(col.Constraints, isr.AutoIncrement())
	default:
		col.Type = mapSQLType(base)
	}

	for i < len(elem) {
		tok := strings.ToUpper(elem[i])
		switch {
		case tok == "NOT" && i+1 < len(elem) && strings.EqualFold(elem[i+1], "NULL"):
			col.Constraints = append(col.Constraints, isr.NotNull())
			i += 2
		case tok == "NULL":
			i++
		case tok == "PRIMARY" && i+1 < len(elem) && strings.EqualFold(elem[i+1], "KEY"):
			col.Constraints = append(col.Constraints, isr.PrimaryKey())
			i += 2
		case tok == "UNIQUE":
			col.Constraints = append(col.Constraints, isr.Unique())
			i++
		case tok == "AUTO_INCREMENT" || tok == "AUTOINCREMENT":
			col.Constraints = append(col.Constraints, isr.AutoIncrement())
			i++
		case tok == "DEFAULT" && i+1 < len(elem):
			c, n := parseSQLDefault(elem[i+1:])
			col.Constraints = append(col.Constraints, c)
			i += 1 + n
		case elem[i] == "(":
			i = skipParenGroup(elem, i)
		default:
			i++
		}
	}
	return col
}

func skipParenGroup(elem []string, open int) int {
	depth := 0
	for j := open; j < len(elem); j++ {
		switch elem[j] {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return j + 1
			}
		}
	}
	return len(elem)
}

// parseSQLDefault interprets the tokens following DEFAULT and reports
// how many it consumed. Numeric literals keep their source text, TRUE
// and FALSE become booleans, and anything else (quoted literals,
// keywords like CURRENT_TIMESTAMP) is kept as a string.
func parseSQLDefault(rest []string) (*isr.Constraint, int) {
	tok := rest[0]
	if tok == "-" && len(rest) > 1 && isNumericToken(rest[1]) {
		return isr.Default(isr.NumberDefault("-" + rest[1])), 2
	}
	if isNumericToken(tok) {
		return isr.Default(isr.NumberDefault(tok)), 1
	}
	if strings.EqualFold(tok, "TRUE") {
		return isr.Default(isr.BoolDefault(true)), 1
	}
	if strings.EqualFold(tok, "FALSE") {
		return isr.Default(isr.BoolDefault(false)), 1
	}
	if len(tok) >= 2 && tok[0] == '\'' {
		return isr.Default(isr.StringDefault(unquoteSQLString(tok))), 1
	}
	// Bare keyword or function call, e.g. CURRENT_TIMESTAMP or NOW().
	value := cleanSQLIdentifier(tok)
	if len(rest) > 2 && rest[1] == "(" && rest[2] == ")" {
		return isr.Default(isr.StringDefault(value + "()")), 3
	}
	return isr.Default(isr.StringDefault(value)), 1
}

func isNumericToken(s string) bool {
	if s == "" {
		return false
	}
	if c := s[0]; c != '.' && (c < '0' || c > '9') {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func unquoteSQLString(tok string) string {
	if len(tok) >= 2 && tok[0] == '\'' && tok[len(tok)-1] == '\'' {
		inner := tok[1 : len(tok)-1]
		inner = strings.ReplaceAll(inner, "''", "'")
		inner = strings.ReplaceAll(inner, `\'`, "'")
		return inner
	}
	return cleanSQLIdentifier(tok)
}

// mapSQLType maps a SQL base type name to its generic counterpart.
// Checks run from most to least specific so that, for example, BIGINT
// is not swallowed by the INT substring match. Unrecognized types fall
// back to STRING.
func mapSQLType(t string) isr.GenericType {
	switch {
	case strings.Contains(t, "BIGINT"):
		return isr.GenericTypeBigInteger
	case strings.Contains(t, "INT"):
		return isr.GenericTypeInteger
	case strings.Contains(t, "TEXT"), strings.Contains(t, "CLOB"):
		return isr.GenericTypeText
	case strings.HasPrefix(t, "VARCHAR"), strings.HasPrefix(t, "CHAR"),
		strings.HasPrefix(t, "STRING"), strings.HasPrefix(t, "NVARCHAR"):
		return isr.GenericTypeString
	case strings.Contains(t, "DECIMAL"), strings.Contains(t, "NUMERIC"):
		return isr.GenericTypeDecimal
	case strings.Contains(t, "FLOAT"), strings.Contains(t, "REAL"), strings.Contains(t, "DOUBLE"):
		return isr.GenericTypeFloat
	case t == "DATETIME":
		return isr.GenericTypeDateTime
	case strings.Contains(t, "TIMESTAMP"):
		return isr.GenericTypeTimestamp
	case t == "DATE":
		return isr.GenericTypeDate
	case t == "TIME":
		return isr.GenericTypeTime
	case strings.Contains(t, "BOOL"):
		return isr.GenericTypeBoolean
	case strings.Contains(t, "BLOB"), strings.Contains(t, "BINARY"), strings.Contains(t, "BYTEA"):
		return isr.GenericTypeBlob
	case strings.Contains(t, "JSON"):
		return isr.GenericTypeJSON
	case strings.Contains(t, "UUID"):
		return isr.GenericTypeUUID
	}
	return isr.GenericTypeString
}

// splitSQLStatements splits a script on semicolons, honoring quoted
// strings, quoted identifiers, and comments.
func splitSQLStatements(input string) []string {
	var stmts []string
	flush := func(start, end int) int {
		if s := strings.TrimSpace(input[start:end]); s != "" {
			stmts = append(stmts, s)
		}
		return end + 1
	}

	start := 0
	i := 0
	for i < len(input) {
		switch c := input[i]; {
		case c == '\'':
			i = skipSQLString(input, i)
		case c == '"' || c == '`':
			i = skipQuotedIdentifier(input, i)
		case c == '-' && i+1 < len(input) && input[i+1] == '-':
			i = skipLineComment(input, i)
		case c == '/' && i+1 < len(input) && input[i+1] == '*':
			i = skipBlockComment(input, i)
		case c == ';':
			start = flush(start, i)
			i = start
		default:
			i++
		}
	}
	flush(start, len(input))
	return stmts
}

// tokenizeSQL lexes one statement into word, quoted, and punctuation
// tokens. Quoted tokens keep their quote characters so later stages
// can tell literals from identifiers. Comments are dropped.
func tokenizeSQL(stmt string) []string {
	var toks []string
	i := 0
	for i < len(stmt) {
		switch c := stmt[i]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '-' && i+1 < len(stmt) && stmt[i+1] == '-':
			i = skipLineComment(stmt, i)
		case c == '/' && i+1 < len(stmt) && stmt[i+1] == '*':
			i = skipBlockComment(stmt, i)
		case c == '\'':
			j := skipSQLString(stmt, i)
			toks = append(toks, stmt[i:j])
			i = j
		case c == '"' || c == '`':
			j := skipQuotedIdentifier(stmt, i)
			toks = append(toks, stmt[i:j])
			i = j
		case isSQLWordChar(c):
			j := i
			for j < len(stmt) && isSQLWordChar(stmt[j]) {
				j++
			}
			toks = append(toks, stmt[i:j])
			i = j
		default:
			toks = append(toks, string(c))
			i++
		}
	}
	return toks
}

// isSQLWordChar treats dots as word characters so qualified names and
// decimal literals come out as single tokens. Bytes outside ASCII are
// accepted to keep multibyte identifiers intact.
func isSQLWordChar(c byte) bool {
	return c == '_' || c == '$' || c == '.' ||
		c >= '0' && c <= '9' ||
		c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= 0x80
}

// skipSQLString advances past a single-quoted literal starting at s[i],
// honoring backslash escapes and doubled quotes.
func skipSQLString(s string, i int) int {
	j := i + 1
	for j < len(s) {
		switch {
		case s[j] == '\\' && j+1 < len(s):
			j += 2
		case s[j] == '\'':
			if j+1 < len(s) && s[j+1] == '\'' {
				j += 2
				continue
			}
			return j + 1
		default:
			j++
		}
	}
	return j
}

func skipQuotedIdentifier(s string, i int) int {
	quote := s[i]
	j := i + 1
	for j < len(s) && s[j] != quote {
		j++
	}
	if j < len(s) {
		j++
	}
	return j
}

func skipLineComment(s string, i int) int {
	for i < len(s) && s[i] != '\n' {
		i++
	}
	return i
}

func skipBlockComment(s string, i int) int {
	i += 2
	for i+1 < len(s) {
		if s[i] == '*' && s[i+1] == '/' {
			return i + 2
		}
		i++
	}
	return len(s)
}
