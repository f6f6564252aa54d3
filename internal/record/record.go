// Package record implements the backing record: a fixed arity container
// of native values described by a record schema.
//
// Native representations:
//
//	null               nil
//	boolean            bool
//	int, long          int32, int64
//	float, double      float32, float64
//	bytes, fixed       []byte
//	string, enum       string
//	array              []any
//	map                map[string]any
//	record             *Record
//	union              the native value of the selected branch
package record

import (
	"strconv"
	"strings"

	errs "github.com/chaisql/avrotuple/errors"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/chaisql/avrotuple/internal/types"
	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
)

var (
	_ schema.Typed  = (*Record)(nil)
	_ types.Cloner  = (*Record)(nil)
	_ types.Equaler = (*Record)(nil)
	_ types.Hasher  = (*Record)(nil)
)

// Record holds one native value per field of its schema.
type Record struct {
	schema *schema.Schema
	values []any
}

// New creates a record with every field set to nil.
func New(s *schema.Schema) (*Record, error) {
	if s == nil || s.Type() != schema.TypeRecord {
		return nil, errors.Wrap(errs.ErrSchemaRequired, "a record schema is required")
	}

	return &Record{
		schema: s,
		values: make([]any, s.FieldCount()),
	}, nil
}

// MustNew calls New and panics on error.
func MustNew(s *schema.Schema) *Record {
	r, err := New(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Record) Schema() *schema.Schema {
	return r.schema
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.values)
}

func (r *Record) Get(i int) (any, error) {
	if err := errs.CheckIndex(i, len(r.values)); err != nil {
		return nil, err
	}
	return r.values[i], nil
}

// Put stores the native value v in field i. v is not validated.
func (r *Record) Put(i int, v any) error {
	if err := errs.CheckIndex(i, len(r.values)); err != nil {
		return err
	}
	r.values[i] = v
	return nil
}

func (r *Record) GetByName(name string) (any, error) {
	i, ok := r.schema.FieldIndex(name)
	if !ok {
		return nil, errors.Wrapf(errs.ErrFieldNotFound, "no field %q in %s", name, r.schema.FullName())
	}
	return r.values[i], nil
}

func (r *Record) PutByName(name string, v any) error {
	i, ok := r.schema.FieldIndex(name)
	if !ok {
		return errors.Wrapf(errs.ErrFieldNotFound, "no field %q in %s", name, r.schema.FullName())
	}
	r.values[i] = v
	return nil
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := Record{
		schema: r.schema,
		values: make([]any, len(r.values)),
	}
	for i, v := range r.values {
		c.values[i] = types.Clone(v)
	}
	return &c
}

func (r *Record) CloneValue() any {
	return r.Clone()
}

// Equal returns true if both records have the same schema and equal values.
// Fields ordered with "ignore" are not considered.
func (r *Record) Equal(other *Record) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil {
		return false
	}
	if !r.schema.Equal(other.schema) {
		return false
	}

	c, err := compare(r, other, r.schema, true)
	return err == nil && c == 0
}

func (r *Record) EqualValue(other any) bool {
	o, ok := other.(*Record)
	return ok && r.Equal(o)
}

// Hash returns a hash of the values of the record, skipping ignored fields.
func (r *Record) Hash() uint64 {
	h := xxhash.New()
	for _, f := range r.schema.Fields() {
		if f.Order == schema.OrderIgnore {
			continue
		}
		types.WriteHash(h, r.values[f.Pos])
	}
	return h.Sum64()
}

func (r *Record) String() string {
	var sb strings.Builder

	sb.WriteByte('{')
	for i, f := range r.schema.Fields() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(f.Name))
		sb.WriteString(": ")
		sb.WriteString(types.Format(r.values[i]))
	}
	sb.WriteByte('}')

	return sb.String()
}
