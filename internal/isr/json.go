package isr

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// constraintJSON is the wire form of a Constraint: the union payload flattened
// onto the keys of the interchange document.
type constraintJSON struct {
	Type              ConstraintType  `json:"type"`
	Value             json.RawMessage `json:"value,omitempty"`
	ReferencesTable   string          `json:"references_table,omitempty"`
	ReferencesColumns []string        `json:"references_columns,omitempty"`
	Name              string          `json:"name,omitempty"`
	OnDelete          string          `json:"on_delete,omitempty"`
	OnUpdate          string          `json:"on_update,omitempty"`
	Values            []string        `json:"values,omitempty"`
}

// MarshalJSON renders the constraint in interchange form.
func (c *Constraint) MarshalJSON() ([]byte, error) {
	wire := constraintJSON{Type: c.Type}
	switch c.Type {
	case ConstraintTypeDefault:
		if c.Default != nil {
			raw, err := c.Default.marshalValue()
			if err != nil {
				return nil, err
			}
			wire.Value = raw
		}
	case ConstraintTypeForeignKey:
		if c.ForeignKey != nil {
			wire.ReferencesTable = c.ForeignKey.Table
			wire.ReferencesColumns = c.ForeignKey.Columns
			wire.Name = c.ForeignKey.Name
			wire.OnDelete = c.ForeignKey.OnDelete
			wire.OnUpdate = c.ForeignKey.OnUpdate
		}
	case ConstraintTypeEnumValues:
		wire.Values = c.EnumValues
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes the interchange form. A missing 'type' key is a
// ValidationError so callers can classify it without string matching.
func (c *Constraint) UnmarshalJSON(data []byte) error {
	var wire constraintJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Type == "" {
		return &ValidationError{Reason: "constraint object is missing a 'type'"}
	}
	c.Type = wire.Type
	switch wire.Type {
	case ConstraintTypeDefault:
		v, err := parseDefaultValue(wire.Value)
		if err != nil {
			return err
		}
		c.Default = v
	case ConstraintTypeForeignKey:
		c.ForeignKey = &ForeignKeyRef{
			Table:    wire.ReferencesTable,
			Columns:  wire.ReferencesColumns,
			Name:     wire.Name,
			OnDelete: wire.OnDelete,
			OnUpdate: wire.OnUpdate,
		}
	case ConstraintTypeEnumValues:
		c.EnumValues = wire.Values
	}
	return nil
}

func (v *DefaultValue) marshalValue() (json.RawMessage, error) {
	switch {
	case v.String != nil:
		return json.Marshal(*v.String)
	case v.Number != nil:
		if _, err := strconv.ParseFloat(*v.Number, 64); err != nil {
			// Not numeric text after all; keep it as a string rather than
			// emitting invalid JSON.
			return json.Marshal(*v.Number)
		}
		return json.RawMessage(*v.Number), nil
	case v.Bool != nil:
		return json.Marshal(*v.Bool)
	}
	return nil, nil
}

func parseDefaultValue(raw json.RawMessage) (*DefaultValue, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}
	switch {
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		return StringDefault(s), nil
	case string(trimmed) == "true":
		return BoolDefault(true), nil
	case string(trimmed) == "false":
		return BoolDefault(false), nil
	default:
		var num json.Number
		if err := json.Unmarshal(trimmed, &num); err != nil {
			return nil, &ValidationError{Reason: "DEFAULT 'value' must be a string, number, or boolean"}
		}
		return NumberDefault(num.String()), nil
	}
}

// Decode parses and strictly validates an ISR interchange document. Every
// failure is a ValidationError: the document is the literal schema encoding,
// so any structural defect means the input itself is wrong.
func Decode(data []byte) (*Schema, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, Invalidf("input is not a JSON object")
		}
		return nil, Invalidf("invalid JSON format: %v", err)
	}

	s := &Schema{}
	if raw, ok := doc["schema_name"]; ok && !isJSONNull(raw) {
		if err := json.Unmarshal(raw, &s.Name); err != nil {
			return nil, Invalidf("'schema_name' must be a string")
		}
	}
	if raw, ok := doc["version"]; ok && !isJSONNull(raw) {
		if err := json.Unmarshal(raw, &s.Version); err != nil {
			var num json.Number
			if err := json.Unmarshal(raw, &num); err != nil {
				return nil, Invalidf("'version' must be a string or number")
			}
			s.Version = num.String()
		}
	}

	rawTables, ok := doc["tables"]
	if !ok || !isJSONArray(rawTables) {
		return nil, Invalidf("missing or invalid 'tables' list in JSON input")
	}
	var tables []json.RawMessage
	if err := json.Unmarshal(rawTables, &tables); err != nil {
		return nil, Invalidf("missing or invalid 'tables' list in JSON input")
	}
	s.Tables = make([]*Table, 0, len(tables))
	for i, rawTable := range tables {
		t, err := decodeTable(i, rawTable)
		if err != nil {
			return nil, err
		}
		s.Tables = append(s.Tables, t)
	}
	return s, nil
}

// Encode renders a schema as an indented interchange document.
func Encode(s *Schema) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func decodeTable(idx int, raw json.RawMessage) (*Table, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, Invalidf("table entry %d is not an object", idx)
	}
	t := &Table{}
	rawName, ok := doc["name"]
	if !ok {
		return nil, Invalidf("table entry %d is missing a 'name'", idx)
	}
	if err := json.Unmarshal(rawName, &t.Name); err != nil || t.Name == "" {
		return nil, Invalidf("table entry %d has an invalid 'name'", idx)
	}
	if rawComment, ok := doc["comment"]; ok && !isJSONNull(rawComment) {
		if err := json.Unmarshal(rawComment, &t.Comment); err != nil {
			return nil, Invalidf("table %q has a non-string 'comment'", t.Name)
		}
	}

	rawCols, ok := doc["columns"]
	if !ok || !isJSONArray(rawCols) {
		return nil, Invalidf("table %q is missing a 'columns' list", t.Name)
	}
	var cols []json.RawMessage
	if err := json.Unmarshal(rawCols, &cols); err != nil {
		return nil, Invalidf("table %q is missing a 'columns' list", t.Name)
	}
	t.Columns = make([]*Column, 0, len(cols))
	for i, rawCol := range cols {
		col, err := decodeColumn(t.Name, i, rawCol)
		if err != nil {
			return nil, err
		}
		t.Columns = append(t.Columns, col)
	}
	return t, nil
}

func decodeColumn(table string, idx int, raw json.RawMessage) (*Column, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, Invalidf("column entry %d in table %q is not an object", idx, table)
	}
	c := &Column{}
	if rawName, ok := doc["name"]; ok {
		if err := json.Unmarshal(rawName, &c.Name); err != nil {
			return nil, Invalidf("column entry %d in table %q has an invalid 'name'", idx, table)
		}
	}
	if rawType, ok := doc["generic_type"]; ok {
		var gt string
		if err := json.Unmarshal(rawType, &gt); err != nil {
			return nil, Invalidf("column entry %d in table %q has an invalid 'generic_type'", idx, table)
		}
		c.Type = GenericType(gt)
	}
	if c.Name == "" || c.Type == "" {
		return nil, Invalidf("column entry %d in table %q is missing 'name' or 'generic_type'", idx, table)
	}
	if rawComment, ok := doc["comment"]; ok && !isJSONNull(rawComment) {
		if err := json.Unmarshal(rawComment, &c.Comment); err != nil {
			return nil, Invalidf("column %q in table %q has a non-string 'comment'", c.Name, table)
		}
	}

	rawCons, ok := doc["constraints"]
	if !ok || isJSONNull(rawCons) {
		return c, nil
	}
	if !isJSONArray(rawCons) {
		return nil, Invalidf("column %q in table %q has a non-list 'constraints'", c.Name, table)
	}
	var cons []json.RawMessage
	if err := json.Unmarshal(rawCons, &cons); err != nil {
		return nil, Invalidf("column %q in table %q has a non-list 'constraints'", c.Name, table)
	}
	for i, rawCon := range cons {
		con, err := decodeConstraint(c.Name, i, rawCon)
		if err != nil {
			return nil, err
		}
		c.Constraints = append(c.Constraints, con)
	}
	return c, nil
}

func decodeConstraint(column string, idx int, raw json.RawMessage) (*Constraint, error) {
	con := &Constraint{}
	if err := json.Unmarshal(raw, con); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return nil, Invalidf("constraint entry %d on column %q: %s", idx, column, ve.Reason)
		}
		return nil, Invalidf("constraint entry %d on column %q is not a valid object", idx, column)
	}
	return con, nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
