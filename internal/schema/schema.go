// Package schema describes the shape of records.
//
// A Schema is parsed once from its JSON text and is immutable afterwards.
// Field order is significant: it defines the positions used by tuples and
// the order in which values are encoded.
package schema

import (
	"fmt"
	"math"
	"sync"

	errs "github.com/chaisql/avrotuple/errors"
	"github.com/cockroachdb/errors"
	"github.com/linkedin/goavro/v2"
)

// Schema is a parsed, immutable type description.
type Schema struct {
	typ       Type
	name      string
	namespace string
	logical   string

	fields  []*Field
	byName  map[string]int
	items   *Schema
	values  *Schema
	symbols []string
	size    int

	branches []*Schema

	textOnce sync.Once
	text     string

	canonicalOnce sync.Once
	canonical     string
	fingerprint   uint64
	canonicalErr  error
}

// Field is a field of a record schema.
type Field struct {
	Name   string
	Pos    int
	Schema *Schema
	Order  Order
	// Default is the raw JSON default value, nil if the field doesn't declare one.
	Default []byte
}

// Typed is implemented by values that carry their own schema, like records.
type Typed interface {
	Schema() *Schema
}

func (s *Schema) Type() Type {
	return s.typ
}

// Name returns the unqualified name of a named schema.
func (s *Schema) Name() string {
	return s.name
}

func (s *Schema) Namespace() string {
	return s.namespace
}

// FullName returns the namespace qualified name of a named schema,
// or the type name for other schemas.
func (s *Schema) FullName() string {
	if !s.typ.IsNamed() {
		return s.typ.String()
	}
	if s.namespace == "" {
		return s.name
	}
	return s.namespace + "." + s.name
}

// LogicalType returns the logicalType attribute, if any.
func (s *Schema) LogicalType() string {
	return s.logical
}

// Fields returns the fields of a record schema in declaration order.
// The returned slice must not be modified.
func (s *Schema) Fields() []*Field {
	return s.fields
}

// FieldCount returns the number of fields of a record schema.
func (s *Schema) FieldCount() int {
	return len(s.fields)
}

// Field returns the field at position i.
func (s *Schema) Field(i int) *Field {
	return s.fields[i]
}

// FieldIndex returns the position of the field with the given name.
func (s *Schema) FieldIndex(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// FieldNames returns the names of the fields of a record schema.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Items returns the element schema of an array.
func (s *Schema) Items() *Schema {
	return s.items
}

// Values returns the value schema of a map.
func (s *Schema) Values() *Schema {
	return s.values
}

// Symbols returns the symbols of an enum.
func (s *Schema) Symbols() []string {
	return s.symbols
}

// SymbolIndex returns the position of sym in the symbols of an enum, or -1.
func (s *Schema) SymbolIndex(sym string) int {
	for i, v := range s.symbols {
		if v == sym {
			return i
		}
	}
	return -1
}

// Size returns the size of a fixed.
func (s *Schema) Size() int {
	return s.size
}

// Branches returns the branches of a union.
func (s *Schema) Branches() []*Schema {
	return s.branches
}

// IsNullable returns true if the schema is null or a union with a null branch.
func (s *Schema) IsNullable() bool {
	switch s.typ {
	case TypeNull:
		return true
	case TypeUnion:
		for _, b := range s.branches {
			if b.typ == TypeNull {
				return true
			}
		}
	}
	return false
}

// String returns a self-contained JSON representation of the schema.
// It can be parsed back with Parse.
func (s *Schema) String() string {
	s.textOnce.Do(func() {
		s.text = string(s.appendJSON(nil, make(map[string]bool)))
	})
	return s.text
}

// Canonical returns the Parsing Canonical Form of the schema.
func (s *Schema) Canonical() (string, error) {
	s.computeCanonical()
	return s.canonical, s.canonicalErr
}

// Fingerprint returns the CRC-64-AVRO fingerprint of the canonical form.
func (s *Schema) Fingerprint() (uint64, error) {
	s.computeCanonical()
	return s.fingerprint, s.canonicalErr
}

func (s *Schema) computeCanonical() {
	s.canonicalOnce.Do(func() {
		codec, err := goavro.NewCodec(s.String())
		if err != nil {
			s.canonicalErr = errors.Wrap(err, "cannot compute canonical form")
			return
		}
		s.canonical = codec.CanonicalSchema()
		s.fingerprint = codec.Rabin
	})
}

// Equal returns true if both schemas describe the same type with the same attributes.
func (s *Schema) Equal(other *Schema) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return s.String() == other.String()
}

// Resolve returns the index of the union branch that accepts the native value v.
// Branches matching the Go type of v exactly are preferred over branches that
// can hold v after a lossless conversion.
func (s *Schema) Resolve(v any) (int, error) {
	if s.typ != TypeUnion {
		return -1, errors.Newf("cannot resolve branch of non union schema %s", s.typ)
	}

	for i, b := range s.branches {
		if b.accepts(v, true) {
			return i, nil
		}
	}
	for i, b := range s.branches {
		if b.accepts(v, false) {
			return i, nil
		}
	}

	return -1, errors.WithStack(&errs.UnknownCoercionError{From: fmt.Sprintf("%T", v), To: s.String()})
}

func (s *Schema) accepts(v any, exact bool) bool {
	switch x := v.(type) {
	case nil:
		return s.typ == TypeNull
	case bool:
		return s.typ == TypeBoolean
	case int32:
		if exact {
			return s.typ == TypeInt
		}
		return s.typ == TypeLong || s.typ == TypeFloat || s.typ == TypeDouble
	case int64:
		if exact {
			return s.typ == TypeLong
		}
		return s.typ == TypeInt && x >= math.MinInt32 && x <= math.MaxInt32
	case int:
		if exact {
			return s.typ == TypeLong
		}
		return s.typ == TypeInt && x >= math.MinInt32 && x <= math.MaxInt32
	case float32:
		if exact {
			return s.typ == TypeFloat
		}
		return s.typ == TypeDouble
	case float64:
		if exact {
			return s.typ == TypeDouble
		}
		return s.typ == TypeFloat
	case string:
		switch s.typ {
		case TypeString:
			return true
		case TypeEnum:
			return s.SymbolIndex(x) >= 0
		}
	case []byte:
		switch s.typ {
		case TypeBytes:
			return true
		case TypeFixed:
			return len(x) == s.size
		}
	case []any:
		return s.typ == TypeArray
	case map[string]any:
		return s.typ == TypeMap
	case Typed:
		return s.typ == TypeRecord && x.Schema().FullName() == s.FullName()
	}

	return false
}
