package models

import (
	"fmt"

	"github.com/urbanops/dataqual/pkg/errors"
)

// ColumnKind identifies the semantic kind of a column
type ColumnKind string

const (
	KindInt    ColumnKind = "int"
	KindFloat  ColumnKind = "float"
	KindString ColumnKind = "string"
)

// Value is a single nullable cell. Numeric kinds use Num, string kinds use Str.
type Value struct {
	Num  float64
	Str  string
	Null bool
}

// NullValue returns an absent cell
func NullValue() Value {
	return Value{Null: true}
}

// NumValue returns a numeric cell
func NumValue(v float64) Value {
	return Value{Num: v}
}

// StrValue returns a string cell
func StrValue(s string) Value {
	return Value{Str: s}
}

// Column is a named, typed sequence of values, one per row
type Column struct {
	Name   string
	Kind   ColumnKind
	Values []Value
}

// NullCount returns the number of absent values in the column
func (c *Column) NullCount() int {
	count := 0
	for _, v := range c.Values {
		if v.Null {
			count++
		}
	}
	return count
}

// NumericValues returns the non-null numeric values in row order
func (c *Column) NumericValues() []float64 {
	values := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.Null {
			values = append(values, v.Num)
		}
	}
	return values
}

// IntColumn builds an int-kind column from raw values
func IntColumn(name string, values []int64) Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		cells[i] = NumValue(float64(v))
	}
	return Column{Name: name, Kind: KindInt, Values: cells}
}

// FloatColumn builds a float-kind column from raw values
func FloatColumn(name string, values []float64) Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		cells[i] = NumValue(v)
	}
	return Column{Name: name, Kind: KindFloat, Values: cells}
}

// NullableFloatColumn builds a float-kind column where nil entries become nulls
func NullableFloatColumn(name string, values []*float64) Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		if v == nil {
			cells[i] = NullValue()
		} else {
			cells[i] = NumValue(*v)
		}
	}
	return Column{Name: name, Kind: KindFloat, Values: cells}
}

// StringColumn builds a string-kind column from raw values
func StringColumn(name string, values []string) Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		cells[i] = StrValue(v)
	}
	return Column{Name: name, Kind: KindString, Values: cells}
}

// Snapshot is an immutable in-memory table used as the unit of evaluation.
// Rules read it; nothing mutates it after construction.
type Snapshot struct {
	columns  []Column
	index    map[string]int
	rowCount int
}

// NewSnapshot creates a snapshot from the given columns. All columns must
// have the same length and distinct names.
func NewSnapshot(columns ...Column) (*Snapshot, error) {
	s := &Snapshot{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}

	for i, col := range columns {
		if col.Name == "" {
			return nil, errors.NewValidationError(errors.CodeInvalidInput, "column name cannot be empty")
		}
		if _, exists := s.index[col.Name]; exists {
			return nil, errors.NewValidationError(errors.CodeInvalidInput,
				fmt.Sprintf("duplicate column name %q", col.Name))
		}
		if i == 0 {
			s.rowCount = len(col.Values)
		} else if len(col.Values) != s.rowCount {
			return nil, errors.NewValidationError(errors.CodeInvalidInput,
				fmt.Sprintf("column %q has %d rows, expected %d", col.Name, len(col.Values), s.rowCount))
		}
		s.index[col.Name] = i
	}

	return s, nil
}

// RowCount returns the number of rows fixed at construction
func (s *Snapshot) RowCount() int {
	return s.rowCount
}

// ColumnCount returns the number of columns
func (s *Snapshot) ColumnCount() int {
	return len(s.columns)
}

// ColumnNames returns the column names in declaration order
func (s *Snapshot) ColumnNames() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.Name
	}
	return names
}

// HasColumn reports whether a column with the given name exists
func (s *Snapshot) HasColumn(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Column returns the named column, or false when absent
func (s *Snapshot) Column(name string) (*Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return &s.columns[i], true
}
