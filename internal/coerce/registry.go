package coerce

import (
	"fmt"
	"math"
	"sync"

	errs "github.com/chaisql/avrotuple/errors"
	"github.com/chaisql/avrotuple/internal/record"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/chaisql/avrotuple/internal/tuple"
	"github.com/cockroachdb/errors"
)

// A Factory creates the coercer of a schema.
type Factory func(s *schema.Schema) Coercer

// Default is the registry used when none is specified.
var Default = NewRegistry()

// Registry maps schemas to coercers.
// Factories are keyed by logical type, or by type name for schemas without a
// registered logical type. Coercers are created once per schema text, so
// schemas parsed again from the same text share their coercers.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory

	// schema text -> Coercer
	cache sync.Map
}

// NewRegistry returns a registry with coercers for bytes, fixed, arrays, maps and timestamps.
func NewRegistry() *Registry {
	r := Registry{
		factories: make(map[string]Factory),
	}

	bytesFactory := func(*schema.Schema) Coercer { return BytesCoercer{} }
	r.Register(schema.TypeBytes.String(), bytesFactory)
	r.Register(schema.TypeFixed.String(), bytesFactory)
	r.Register(schema.TypeArray.String(), func(s *schema.Schema) Coercer { return NewListCoercer(s.Items()) })
	r.Register(schema.TypeMap.String(), func(s *schema.Schema) Coercer { return NewMapCoercer(s.Values()) })
	r.Register(schema.LogicalTimestampMillis, newTimestampCoercer)
	r.Register(schema.LogicalTimestampMicros, newTimestampCoercer)

	return &r
}

// Register the factory for a logical type or a type name.
// It replaces any factory previously registered under the same key.
func (r *Registry) Register(key string, f Factory) {
	r.mu.Lock()
	r.factories[key] = f
	r.mu.Unlock()

	r.cache.Range(func(k, _ any) bool {
		r.cache.Delete(k)
		return true
	})
}

// Lookup returns the coercer of s, or nil if values of s need no coercion.
func (r *Registry) Lookup(s *schema.Schema) Coercer {
	key := s.String()
	if c, ok := r.cache.Load(key); ok {
		return c.(Coercer)
	}

	r.mu.RLock()
	f, ok := r.factories[s.LogicalType()]
	if !ok || s.LogicalType() == "" {
		f, ok = r.factories[s.Type().String()]
	}
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	c, _ := r.cache.LoadOrStore(key, f(s))
	return c.(Coercer)
}

// needsCoercion returns true if some values of s have a canonical
// representation different from their native one.
func (r *Registry) needsCoercion(s *schema.Schema) bool {
	switch s.Type() {
	case schema.TypeUnion:
		for _, b := range s.Branches() {
			if r.needsCoercion(b) {
				return true
			}
		}
		return false
	case schema.TypeRecord:
		return false
	}

	return r.Lookup(s) != nil
}

// ToCanonical converts the native value v described by s to its canonical representation.
// Nested records are returned as is.
func (r *Registry) ToCanonical(v any, s *schema.Schema) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch s.Type() {
	case schema.TypeUnion:
		i, err := s.Resolve(v)
		if err != nil {
			return nil, err
		}
		return r.ToCanonical(v, s.Branches()[i])
	case schema.TypeArray:
		l, ok := v.([]any)
		if !ok {
			return nil, errors.Wrapf(errs.ErrIllegalSourceState, "array value must be a list, got %T", v)
		}
		if r.needsCoercion(s.Items()) {
			cl := make([]any, len(l))
			for i := range l {
				e, err := r.ToCanonical(l[i], s.Items())
				if err != nil {
					return nil, err
				}
				cl[i] = e
			}
			l = cl
		}
		return r.canonical(l, s)
	case schema.TypeMap:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, errors.Wrapf(errs.ErrIllegalSourceState, "map value must be a native map, got %T", v)
		}
		if r.needsCoercion(s.Values()) {
			cm := make(map[string]any, len(m))
			for k, e := range m {
				ce, err := r.ToCanonical(e, s.Values())
				if err != nil {
					return nil, err
				}
				cm[k] = ce
			}
			m = cm
		}
		return r.canonical(m, s)
	}

	return r.canonical(v, s)
}

func (r *Registry) canonical(v any, s *schema.Schema) (any, error) {
	c := r.Lookup(s)
	if c == nil {
		return v, nil
	}
	return c.Canonical(v)
}

// ToNative converts v to the native representation described by s.
// v may be canonical, native, or any value a coercer of s accepts.
func (r *Registry) ToNative(v any, s *schema.Schema) (any, error) {
	switch s.Type() {
	case schema.TypeUnion:
		return r.unionToNative(v, s)
	case schema.TypeNull:
		if v != nil {
			return nil, unknownCoercion(v, s)
		}
		return nil, nil
	}

	if v == nil {
		return nil, errors.WithStack(&errs.UnknownCoercionError{From: "null", To: s.Type().String()})
	}

	if c := r.Lookup(s); c != nil {
		cv, err := c.Canonical(v)
		if err != nil {
			return nil, err
		}
		v, err = c.Coerce(cv, c.Native())
		if err != nil {
			return nil, err
		}
	}

	switch s.Type() {
	case schema.TypeArray:
		l := v.([]any)
		nl := make([]any, len(l))
		for i := range l {
			e, err := r.ToNative(l[i], s.Items())
			if err != nil {
				return nil, errors.Wrapf(err, "array element %d", i)
			}
			nl[i] = e
		}
		return nl, nil
	case schema.TypeMap:
		m := v.(map[string]any)
		for k, e := range m {
			ne, err := r.ToNative(e, s.Values())
			if err != nil {
				return nil, errors.Wrapf(err, "map value %q", k)
			}
			m[k] = ne
		}
		return m, nil
	case schema.TypeFixed:
		b := v.([]byte)
		if len(b) != s.Size() {
			return nil, errors.Wrapf(errs.ErrIllegalSourceState, "fixed %s requires %d bytes, got %d", s.FullName(), s.Size(), len(b))
		}
		return b, nil
	case schema.TypeRecord:
		return r.recordToNative(v, s)
	case schema.TypeEnum:
		sym, ok := v.(string)
		if !ok {
			return nil, unknownCoercion(v, s)
		}
		if s.SymbolIndex(sym) < 0 {
			return nil, errors.WithStack(&errs.UnknownCoercionError{From: fmt.Sprintf("symbol %q", sym), To: s.FullName()})
		}
		return sym, nil
	}

	if n, ok := scalarToNative(v, s.Type()); ok {
		return n, nil
	}

	return nil, unknownCoercion(v, s)
}

func (r *Registry) unionToNative(v any, s *schema.Schema) (any, error) {
	if v == nil {
		if !s.IsNullable() {
			return nil, errors.WithStack(&errs.UnknownCoercionError{From: "null", To: s.String()})
		}
		return nil, nil
	}

	if i, err := s.Resolve(v); err == nil {
		return r.ToNative(v, s.Branches()[i])
	}

	for _, b := range s.Branches() {
		if b.Type() == schema.TypeNull {
			continue
		}
		if n, err := r.ToNative(v, b); err == nil {
			return n, nil
		}
	}

	return nil, unknownCoercion(v, s)
}

func (r *Registry) recordToNative(v any, s *schema.Schema) (any, error) {
	switch x := v.(type) {
	case *record.Record:
		if x.Schema().FullName() != s.FullName() {
			return nil, unknownCoercion(v, s)
		}
		return x, nil
	case interface{ Record() *record.Record }:
		return r.recordToNative(x.Record(), s)
	case tuple.Tuple:
		if x.Len() != s.FieldCount() {
			return nil, errors.WithStack(&errs.SchemaMismatchError{Declared: s.FieldCount(), Actual: x.Len()})
		}

		rec, err := record.New(s)
		if err != nil {
			return nil, err
		}
		for i, f := range s.Fields() {
			e, err := x.Get(i)
			if err != nil {
				return nil, err
			}
			ne, err := r.ToNative(e, f.Schema)
			if err != nil {
				return nil, errors.Wrapf(err, "field %q", f.Name)
			}
			_ = rec.Put(i, ne)
		}
		return rec, nil
	}

	return nil, unknownCoercion(v, s)
}

func unknownCoercion(v any, s *schema.Schema) error {
	to := s.Type().String()
	if s.Type().IsNamed() {
		to = s.FullName()
	}
	return errors.WithStack(&errs.UnknownCoercionError{From: fmt.Sprintf("%T", v), To: to})
}

// scalarToNative converts numbers between kinds when no precision is lost,
// except for doubles stored as floats.
func scalarToNative(v any, t schema.Type) (any, bool) {
	switch t {
	case schema.TypeBoolean:
		b, ok := v.(bool)
		return b, ok
	case schema.TypeString:
		s, ok := v.(string)
		return s, ok
	case schema.TypeInt:
		i, ok := asInt64(v)
		if !ok || i < math.MinInt32 || i > math.MaxInt32 {
			return nil, false
		}
		return int32(i), true
	case schema.TypeLong:
		i, ok := asInt64(v)
		return i, ok
	case schema.TypeFloat:
		switch x := v.(type) {
		case float32:
			return x, true
		case float64:
			return float32(x), true
		}
		if i, ok := asInt64(v); ok {
			return float32(i), true
		}
	case schema.TypeDouble:
		switch x := v.(type) {
		case float64:
			return x, true
		case float32:
			return float64(x), true
		}
		if i, ok := asInt64(v); ok {
			return float64(i), true
		}
	}

	return nil, false
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	}
	return 0, false
}
