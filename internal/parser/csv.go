package parser

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/papajo/schemaGenius/internal/isr"
)

const (
	// csvSniffWindow bounds how much of the input the delimiter sniffer
	// inspects.
	csvSniffWindow = 2048

	// csvSampleCap bounds how many non-empty values per column feed the
	// type inference.
	csvSampleCap = 100

	// csvFallbackTableName is used when no source name accompanies the
	// input.
	csvFallbackTableName = "csv_imported_table"
)

// csvDelimiters are the candidate delimiters the sniffer scores, in
// tie-breaking order.
var csvDelimiters = []rune{',', '\t', ';', '|'}

// csvBoolWords are the values recognized as booleans during type
// inference, compared case-insensitively.
var csvBoolWords = map[string]struct{}{
	"true": {}, "false": {},
	"yes": {}, "no": {},
	"t": {}, "f": {},
	"y": {}, "n": {},
	"1": {}, "0": {},
	"on": {}, "off": {},
}

// CSV infers a single-table schema from delimited sample data. The
// first row is treated as the header; column types are inferred from
// the data rows. No constraints are inferred.
type CSV struct{}

// NewCSV returns a parser for CSV sample data.
func NewCSV() *CSV {
	return &CSV{}
}

// Parse reads delimited text and produces a schema holding one table.
// Empty or whitespace-only input yields a schema with no tables. The
// source name, cleaned like a header cell, becomes the table name.
func (p *CSV) Parse(input, sourceName string) (*isr.Schema, error) {
	if strings.TrimSpace(input) == "" {
		return &isr.Schema{Tables: []*isr.Table{}}, nil
	}

	rows, err := readCSVRows(input, sniffDelimiter(input))
	if err != nil {
		// The sniffer can pick a delimiter that breaks quoting; retry
		// with the default comma dialect before giving up.
		rows, err = readCSVRows(input, ',')
		if err != nil {
			return nil, isr.Invalidf("error parsing CSV data: %v", err)
		}
	}
	if len(rows) == 0 {
		return &isr.Schema{Tables: []*isr.Table{}}, nil
	}

	header := rows[0]
	blank := true
	for _, cell := range header {
		if strings.TrimSpace(cell) != "" {
			blank = false
			break
		}
	}
	if blank {
		return nil, isr.Invalidf("CSV header row is missing, empty, or contains only whitespace")
	}

	names := columnNames(header)
	samples := make([][]string, len(names))
	for _, row := range rows[1:] {
		for i := 0; i < len(names) && i < len(row); i++ {
			samples[i] = append(samples[i], row[i])
		}
	}

	table := &isr.Table{Name: csvTableName(sourceName)}
	for i, name := range names {
		table.Columns = append(table.Columns, &isr.Column{
			Name: name,
			Type: inferCSVType(samples[i]),
		})
	}
	return &isr.Schema{Tables: []*isr.Table{table}}, nil
}

func readCSVRows(input string, delimiter rune) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(input))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// sniffDelimiter scores the candidate delimiters against the first
// line of the input and returns the most frequent one, falling back
// to a comma.
func sniffDelimiter(input string) rune {
	sample := input
	if len(sample) > csvSniffWindow {
		sample = sample[:csvSniffWindow]
	}
	if i := strings.IndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i]
	}

	counts := make(map[rune]int)
	inQuotes := false
	for _, r := range sample {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[r]++
		}
	}

	best := ','
	bestCount := 0
	for _, candidate := range csvDelimiters {
		if counts[candidate] > bestCount {
			best = candidate
			bestCount = counts[candidate]
		}
	}
	return best
}

// columnNames cleans the header cells and disambiguates duplicates by
// appending _1, _2, ... to repeated names.
func columnNames(header []string) []string {
	seen := make(map[string]int)
	names := make([]string, 0, len(header))
	for _, cell := range header {
		name := cleanCSVHeader(cell)
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 0
		}
		names = append(names, name)
	}
	return names
}

// cleanCSVHeader normalizes a header cell into an identifier: spaces,
// hyphens, dots and slashes become underscores, other punctuation is
// dropped, underscore runs collapse, and a leading digit gains an
// underscore prefix. An empty result becomes "unnamed_column".
func cleanCSVHeader(cell string) string {
	cell = strings.TrimSpace(cell)
	cell = strings.Trim(cell, `'"`)

	var b strings.Builder
	for _, r := range cell {
		switch {
		case r == ' ' || r == '-' || r == '.' || r == '/':
			b.WriteByte('_')
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}

	var parts []string
	for _, part := range strings.Split(b.String(), "_") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	name := strings.Join(parts, "_")
	if name == "" {
		return "unnamed_column"
	}
	if unicode.IsDigit([]rune(name)[0]) {
		name = "_" + name
	}
	return name
}

func csvTableName(sourceName string) string {
	if sourceName == "" {
		return csvFallbackTableName
	}
	return cleanCSVHeader(sourceName)
}

// inferCSVType picks a generic type from a sample of column values.
// Empty, whitespace-only, and literal "null" values are excluded from
// the sample; a column whose sample is empty stays a string. When every
// sampled value parses as more than one type, the more specific one
// wins: INTEGER over FLOAT over BOOLEAN.
func inferCSVType(values []string) isr.GenericType {
	sample := make([]string, 0, csvSampleCap)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || strings.EqualFold(v, "null") {
			continue
		}
		sample = append(sample, v)
		if len(sample) == csvSampleCap {
			break
		}
	}
	if len(sample) == 0 {
		return isr.GenericTypeString
	}

	isInt, isFloat, isBool := true, true, true
	for _, v := range sample {
		if isInt && !isIntegerString(v) {
			isInt = false
		}
		if isFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if _, ok := csvBoolWords[strings.ToLower(v)]; !ok {
				isBool = false
			}
		}
		if !isInt && !isFloat && !isBool {
			break
		}
	}

	switch {
	case isInt:
		return isr.GenericTypeInteger
	case isFloat:
		return isr.GenericTypeFloat
	case isBool:
		return isr.GenericTypeBoolean
	}
	return isr.GenericTypeString
}

// isIntegerString reports whether s is an optionally signed run of
// digits. Unlike strconv.ParseInt it has no range limit, so very large
// values still infer as integers.
func isIntegerString(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '+' || s[0] == '-' {
		i++
	}
	if i == len(s) {
		return false
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
