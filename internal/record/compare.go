package record

import (
	"bytes"
	"cmp"

	errs "github.com/chaisql/avrotuple/errors"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/chaisql/avrotuple/internal/types"
	"github.com/cockroachdb/errors"
)

// Compare orders r and other using the sort order of their schema:
// fields are compared in declaration order, honouring their order attribute.
// Unions are ordered by branch index then value, arrays element by element
// then by length, enums by symbol index, bytes and fixed lexicographically.
// Maps cannot be ordered and cause an error.
func (r *Record) Compare(other *Record) (int, error) {
	if len(r.values) != len(other.values) {
		return 0, errors.WithStack(&errs.SchemaMismatchError{Declared: len(r.values), Actual: len(other.values)})
	}

	return compare(r, other, r.schema, false)
}

// Compare compares two native values described by s.
func Compare(a, b any, s *schema.Schema) (int, error) {
	return compare(a, b, s, false)
}

func compare(a, b any, s *schema.Schema, equals bool) (int, error) {
	if s.Type() != schema.TypeUnion {
		switch {
		case a == nil && b == nil:
			return 0, nil
		case a == nil:
			return -1, nil
		case b == nil:
			return 1, nil
		}
	}

	switch s.Type() {
	case schema.TypeNull:
		return 0, nil
	case schema.TypeRecord:
		return compareRecords(a, b, s, equals)
	case schema.TypeEnum:
		x, y, err := both[string](a, b, s)
		if err != nil {
			return 0, err
		}
		return cmp.Compare(s.SymbolIndex(x), s.SymbolIndex(y)), nil
	case schema.TypeArray:
		return compareArrays(a, b, s, equals)
	case schema.TypeMap:
		if !equals {
			return 0, errors.Wrap(errs.ErrIllegalSourceState, "maps cannot be ordered")
		}
		if types.Equal(a, b) {
			return 0, nil
		}
		return 1, nil
	case schema.TypeUnion:
		return compareUnions(a, b, s, equals)
	case schema.TypeBoolean:
		x, y, err := both[bool](a, b, s)
		if err != nil {
			return 0, err
		}
		switch {
		case x == y:
			return 0, nil
		case x:
			return 1, nil
		}
		return -1, nil
	case schema.TypeInt:
		x, y, err := both[int32](a, b, s)
		if err != nil {
			return 0, err
		}
		return cmp.Compare(x, y), nil
	case schema.TypeLong:
		x, y, err := both[int64](a, b, s)
		if err != nil {
			return 0, err
		}
		return cmp.Compare(x, y), nil
	case schema.TypeFloat:
		x, y, err := both[float32](a, b, s)
		if err != nil {
			return 0, err
		}
		return types.CompareFloats(x, y), nil
	case schema.TypeDouble:
		x, y, err := both[float64](a, b, s)
		if err != nil {
			return 0, err
		}
		return types.CompareFloats(x, y), nil
	case schema.TypeString:
		x, y, err := both[string](a, b, s)
		if err != nil {
			return 0, err
		}
		return cmp.Compare(x, y), nil
	case schema.TypeBytes, schema.TypeFixed:
		x, y, err := both[[]byte](a, b, s)
		if err != nil {
			return 0, err
		}
		return bytes.Compare(x, y), nil
	}

	return 0, errors.Newf("unsupported type %s", s.Type())
}

func compareRecords(a, b any, s *schema.Schema, equals bool) (int, error) {
	x, y, err := both[*Record](a, b, s)
	if err != nil {
		return 0, err
	}

	for _, f := range s.Fields() {
		if f.Order == schema.OrderIgnore {
			continue
		}

		c, err := compare(x.values[f.Pos], y.values[f.Pos], f.Schema, equals)
		if err != nil {
			return 0, errors.Wrapf(err, "field %q", f.Name)
		}
		if c != 0 {
			if f.Order == schema.OrderDescending {
				return -c, nil
			}
			return c, nil
		}
	}

	return 0, nil
}

func compareArrays(a, b any, s *schema.Schema, equals bool) (int, error) {
	x, y, err := both[[]any](a, b, s)
	if err != nil {
		return 0, err
	}

	n := min(len(x), len(y))
	for i := 0; i < n; i++ {
		c, err := compare(x[i], y[i], s.Items(), equals)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}

	return cmp.Compare(len(x), len(y)), nil
}

func compareUnions(a, b any, s *schema.Schema, equals bool) (int, error) {
	i, err := s.Resolve(a)
	if err != nil {
		return 0, err
	}
	j, err := s.Resolve(b)
	if err != nil {
		return 0, err
	}
	if i != j {
		return cmp.Compare(i, j), nil
	}

	return compare(a, b, s.Branches()[i], equals)
}

func both[T any](a, b any, s *schema.Schema) (T, T, error) {
	x, ok := a.(T)
	if !ok {
		var zero T
		return zero, zero, errors.Wrapf(errs.ErrIllegalSourceState, "unexpected %T value for %s", a, s.Type())
	}
	y, ok := b.(T)
	if !ok {
		var zero T
		return zero, zero, errors.Wrapf(errs.ErrIllegalSourceState, "unexpected %T value for %s", b, s.Type())
	}
	return x, y, nil
}
