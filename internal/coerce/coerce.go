// Package coerce converts record values between their native and canonical
// representations.
//
// Each Coercer handles one kind of schema. The Registry selects the coercer
// of a schema and walks nested schemas (array items, map values, union
// branches and nested records) so that values of any depth are converted.
// Values that need no conversion are returned as is, without copy.
package coerce

import (
	"fmt"

	errs "github.com/chaisql/avrotuple/errors"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/chaisql/avrotuple/internal/tuple"
	"github.com/chaisql/avrotuple/internal/types"
	"github.com/cockroachdb/errors"
)

// A Coercer converts the values of one kind of schema.
// nil is passed through by both directions.
type Coercer interface {
	// Name of the coercer, for error messages.
	Name() string
	// Inputs returns the representations accepted by Canonical.
	Inputs() []Repr
	// Native returns the representation stored in records.
	Native() Repr
	// Canonical converts v to the canonical representation.
	Canonical(v any) (any, error)
	// Coerce converts the canonical value v to the requested representation.
	Coerce(v any, to Repr) (any, error)
}

func unknownInput(c Coercer, v any) error {
	return errors.WithStack(&errs.UnknownCoercionError{From: fmt.Sprintf("%T", v), To: c.Name()})
}

func unknownTarget(c Coercer, to Repr) error {
	return errors.WithStack(&errs.UnknownCoercionError{From: c.Name(), To: to.String()})
}

func notCanonical(c Coercer, v any) error {
	return errors.Wrapf(errs.ErrIllegalSourceState, "%s coercion expects a canonical value, got %T", c.Name(), v)
}

// BytesCoercer converts bytes and fixed values.
// The canonical representation is *types.Blob, wrapping the native slice without copy.
type BytesCoercer struct{}

func (BytesCoercer) Name() string { return "bytes" }

func (BytesCoercer) Inputs() []Repr { return []Repr{ReprBlob, ReprByteBuffer} }

func (BytesCoercer) Native() Repr { return ReprByteBuffer }

func (c BytesCoercer) Canonical(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *types.Blob:
		return x, nil
	case []byte:
		return types.NewBlob(x), nil
	}

	return nil, unknownInput(c, v)
}

func (c BytesCoercer) Coerce(v any, to Repr) (any, error) {
	if v == nil {
		return nil, nil
	}

	b, ok := v.(*types.Blob)
	if !ok {
		return nil, notCanonical(c, v)
	}

	switch to {
	case ReprBlob:
		return b, nil
	case ReprByteBuffer:
		return b.Bytes(), nil
	}

	return nil, unknownTarget(c, to)
}

// ListCoercer converts array values.
// The canonical representation is []any. Tuples are flattened into lists.
type ListCoercer struct {
	elem *schema.Schema
}

// NewListCoercer returns a coercer for arrays of elem.
func NewListCoercer(elem *schema.Schema) *ListCoercer {
	return &ListCoercer{elem: elem}
}

// Elem returns the schema of the elements.
func (c *ListCoercer) Elem() *schema.Schema {
	return c.elem
}

func (c *ListCoercer) Name() string { return "list" }

func (c *ListCoercer) Inputs() []Repr { return []Repr{ReprList, ReprTuple} }

func (c *ListCoercer) Native() Repr { return ReprList }

func (c *ListCoercer) Canonical(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return x, nil
	case tuple.Tuple:
		l := make([]any, x.Len())
		for i := range l {
			e, err := x.Get(i)
			if err != nil {
				return nil, err
			}
			l[i] = e
		}
		return l, nil
	}

	return nil, unknownInput(c, v)
}

func (c *ListCoercer) Coerce(v any, to Repr) (any, error) {
	if v == nil {
		return nil, nil
	}

	l, ok := v.([]any)
	if !ok {
		return nil, notCanonical(c, v)
	}

	switch to {
	case ReprList:
		return l, nil
	case ReprTuple:
		return tuple.NewValues(append([]any(nil), l...)...), nil
	}

	return nil, unknownTarget(c, to)
}

// MapCoercer converts map values.
// The canonical representation is *types.Map. Native maps are converted
// with their keys in lexicographic order. Tuples alternate keys and values.
type MapCoercer struct {
	values *schema.Schema
}

// NewMapCoercer returns a coercer for maps of values.
func NewMapCoercer(values *schema.Schema) *MapCoercer {
	return &MapCoercer{values: values}
}

// Values returns the schema of the values.
func (c *MapCoercer) Values() *schema.Schema {
	return c.values
}

func (c *MapCoercer) Name() string { return "map" }

func (c *MapCoercer) Inputs() []Repr { return []Repr{ReprMap, ReprNativeMap, ReprTuple} }

func (c *MapCoercer) Native() Repr { return ReprNativeMap }

func (c *MapCoercer) Canonical(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *types.Map:
		return x, nil
	case map[string]any:
		m := types.NewMap()
		for _, k := range types.SortedKeys(x) {
			m.Set(k, x[k])
		}
		return m, nil
	case tuple.Tuple:
		if x.Len()%2 != 0 {
			return nil, errors.Wrapf(errs.ErrIllegalSourceState, "map tuple must have an even number of values, got %d", x.Len())
		}

		m := types.NewMap()
		for i := 0; i < x.Len(); i += 2 {
			k, err := x.Get(i)
			if err != nil {
				return nil, err
			}
			key, ok := k.(string)
			if !ok {
				return nil, errors.Wrapf(errs.ErrIllegalSourceState, "map key at position %d must be a string, got %T", i, k)
			}
			val, err := x.Get(i + 1)
			if err != nil {
				return nil, err
			}
			m.Set(key, val)
		}
		return m, nil
	}

	return nil, unknownInput(c, v)
}

func (c *MapCoercer) Coerce(v any, to Repr) (any, error) {
	if v == nil {
		return nil, nil
	}

	m, ok := v.(*types.Map)
	if !ok {
		return nil, notCanonical(c, v)
	}

	switch to {
	case ReprMap:
		return m, nil
	case ReprNativeMap:
		native := make(map[string]any, m.Len())
		for _, k := range m.Keys() {
			native[k], _ = m.Get(k)
		}
		return native, nil
	case ReprTuple:
		vs := make([]any, 0, m.Len()*2)
		for _, k := range m.Keys() {
			e, _ := m.Get(k)
			vs = append(vs, k, e)
		}
		return tuple.NewValues(vs...), nil
	}

	return nil, unknownTarget(c, to)
}
