package sqlbuild

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Assignment is one field of a partial update: the external field name and its new value.
type Assignment struct {
	Field string
	Value any
}

// UpdateRequest is an ordered, sparse set of field assignments.
//
// Only the fields to change are present. The order of the slice decides both
// the column order and the placeholder order of the generated SET list.
type UpdateRequest []Assignment

// Has reports whether field is part of the request.
func (u UpdateRequest) Has(field string) bool {
	for _, a := range u {
		if a.Field == field {
			return true
		}
	}
	return false
}

// Fields returns the field names in request order.
func (u UpdateRequest) Fields() []string {
	fields := make([]string, len(u))
	for i, a := range u {
		fields[i] = a.Field
	}
	return fields
}

// UnmarshalJSON decodes a JSON object into assignments, keeping the document's key order.
//
// Values must be scalars. Whole numbers that fit an int64 (including 5.0)
// become int64, other numbers become decimal.Decimal, and null stays nil.
func (u *UpdateRequest) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "reading update payload")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("update payload must be a JSON object")
	}

	seen := make(map[string]struct{})
	var out UpdateRequest
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "reading update field")
		}
		// Inside an object the decoder only yields string keys here.
		field, _ := tok.(string)
		if _, dup := seen[field]; dup {
			return errors.Errorf("duplicate field %q", field)
		}
		seen[field] = struct{}{}

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return errors.Wrapf(err, "decoding field %q", field)
		}
		value, err := scalarValue(raw)
		if err != nil {
			return errors.Wrapf(err, "field %q", field)
		}
		out = append(out, Assignment{Field: field, Value: value})
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return errors.Wrap(err, "reading update payload")
	}

	*u = out
	return nil
}

func scalarValue(raw any) (any, error) {
	switch v := raw.(type) {
	case nil, string, bool:
		return v, nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil, errors.Wrap(err, "invalid number")
		}
		// 5.0 and 5e2 are whole numbers too.
		if d.IsInteger() && d.BigInt().IsInt64() {
			return d.IntPart(), nil
		}
		return d, nil
	default:
		return nil, errors.New("value must be a string, number, boolean or null")
	}
}

// ColumnMap maps external field names to storage column names.
//
// Fields missing from the map are stored under their own name.
type ColumnMap map[string]string

// Column resolves the storage column for field.
func (m ColumnMap) Column(field string) string {
	if column, ok := m[field]; ok {
		return column
	}
	return field
}

// BuildUpdateFragment renders update as a SET list.
//
//	{firstName: "Aliya", age: 32} -> `"first_name"=$1, "age"=$2`, ["Aliya", 32]
//
// It fails with ErrEmptyUpdate when update has no assignments.
func BuildUpdateFragment(update UpdateRequest, columns ColumnMap) (Fragment, error) {
	if len(update) == 0 {
		return Fragment{}, ErrEmptyUpdate
	}

	terms := make([]string, len(update))
	values := make([]any, len(update))
	for i, a := range update {
		terms[i] = quoteIdent(columns.Column(a.Field)) + "=" + placeholder(i+1)
		values[i] = a.Value
	}

	return Fragment{
		Text:   strings.Join(terms, ", "),
		Values: values,
	}, nil
}
