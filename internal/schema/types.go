package schema

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Type is the type tag of a schema.
type Type uint8

// List of supported types.
const (
	TypeNull Type = iota + 1
	TypeBoolean
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeBytes
	TypeString
	TypeRecord
	TypeEnum
	TypeArray
	TypeMap
	TypeUnion
	TypeFixed
)

var typeNames = map[Type]string{
	TypeNull:    "null",
	TypeBoolean: "boolean",
	TypeInt:     "int",
	TypeLong:    "long",
	TypeFloat:   "float",
	TypeDouble:  "double",
	TypeBytes:   "bytes",
	TypeString:  "string",
	TypeRecord:  "record",
	TypeEnum:    "enum",
	TypeArray:   "array",
	TypeMap:     "map",
	TypeUnion:   "union",
	TypeFixed:   "fixed",
}

var primitives = map[string]Type{
	"null":    TypeNull,
	"boolean": TypeBoolean,
	"int":     TypeInt,
	"long":    TypeLong,
	"float":   TypeFloat,
	"double":  TypeDouble,
	"bytes":   TypeBytes,
	"string":  TypeString,
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	panic(fmt.Sprintf("unsupported type %#v", t))
}

// IsPrimitive returns true if t is one of the types that can be referenced by name
// without a definition.
func (t Type) IsPrimitive() bool {
	return t >= TypeNull && t <= TypeString
}

// IsNamed returns true for records, enums and fixed.
func (t Type) IsNamed() bool {
	return t == TypeRecord || t == TypeEnum || t == TypeFixed
}

// Order is the sort order of a record field.
type Order uint8

// Field orders.
const (
	OrderAscending Order = iota
	OrderDescending
	OrderIgnore
)

func (o Order) String() string {
	switch o {
	case OrderDescending:
		return "descending"
	case OrderIgnore:
		return "ignore"
	}

	return "ascending"
}

func parseOrder(s string) (Order, error) {
	switch s {
	case "", "ascending":
		return OrderAscending, nil
	case "descending":
		return OrderDescending, nil
	case "ignore":
		return OrderIgnore, nil
	}

	return 0, errors.Newf("invalid field order %q", s)
}

// Logical types recognized by the coercion registry.
const (
	LogicalTimestampMillis = "timestamp-millis"
	LogicalTimestampMicros = "timestamp-micros"
)
