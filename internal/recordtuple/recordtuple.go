// Package recordtuple exposes a backing record as a tuple.
//
// A Tuple reads and writes the fields of one record by position, converting
// values between their native and canonical representations with a coercion
// registry. The tuple has exactly one position per field of the record schema:
// values can be replaced but the shape of the tuple cannot change, so the
// structural mutations of package tuple always fail with ErrUnsupportedMutation.
//
// A Tuple never copies its record. Changes made through the tuple are visible
// through the record and the other way around.
package recordtuple

import (
	errs "github.com/chaisql/avrotuple/errors"
	"github.com/chaisql/avrotuple/internal/coerce"
	"github.com/chaisql/avrotuple/internal/record"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/chaisql/avrotuple/internal/tuple"
	"github.com/cockroachdb/errors"
)

var _ tuple.View = (*Tuple)(nil)

// Tuple is a positional view over a record.
type Tuple struct {
	rec      *record.Record
	registry *coerce.Registry
	readOnly bool
}

// An Option configures a Tuple.
type Option func(t *Tuple)

// Unmodifiable makes the tuple read-only.
func Unmodifiable() Option {
	return func(t *Tuple) {
		t.readOnly = true
	}
}

// WithRegistry sets the registry used to convert values.
// It defaults to coerce.Default.
func WithRegistry(r *coerce.Registry) Option {
	return func(t *Tuple) {
		t.registry = r
	}
}

// New returns a tuple over rec.
func New(rec *record.Record, opts ...Option) *Tuple {
	t := Tuple{
		rec:      rec,
		registry: coerce.Default,
	}
	for _, opt := range opts {
		opt(&t)
	}

	return &t
}

// Record returns the backing record.
func (t *Tuple) Record() *record.Record {
	return t.rec
}

func (t *Tuple) Schema() *schema.Schema {
	return t.rec.Schema()
}

// Unmodifiable returns a read-only tuple over the same record.
func (t *Tuple) Unmodifiable() *Tuple {
	if t.readOnly {
		return t
	}

	return &Tuple{
		rec:      t.rec,
		registry: t.registry,
		readOnly: true,
	}
}

func (t *Tuple) IsUnmodifiable() bool {
	return t.readOnly
}

// Len returns the number of fields of the record.
func (t *Tuple) Len() int {
	return t.rec.Len()
}

// Get returns the canonical value of the field at pos.
func (t *Tuple) Get(pos int) (any, error) {
	v, err := t.rec.Get(pos)
	if err != nil {
		return nil, err
	}

	return t.registry.ToCanonical(v, t.rec.Schema().Field(pos).Schema)
}

// Set converts v to its native representation and stores it in the field at pos.
func (t *Tuple) Set(pos int, v any) error {
	if t.readOnly {
		return errors.Wrapf(errs.ErrUnmodifiable, "cannot set position %d", pos)
	}
	if err := errs.CheckIndex(pos, t.rec.Len()); err != nil {
		return err
	}

	f := t.rec.Schema().Field(pos)
	n, err := t.registry.ToNative(v, f.Schema)
	if err != nil {
		return errors.Wrapf(err, "cannot set field %q", f.Name)
	}

	return t.rec.Put(pos, n)
}

// Fields returns the names of the fields of the record.
func (t *Tuple) Fields() tuple.Fields {
	return tuple.NewFields(t.rec.Schema().FieldNames()...)
}

func (t *Tuple) Positions(declarator, selector tuple.Fields) ([]int, error) {
	return tuple.Positions(t, declarator, selector)
}

// Narrow returns a read-only view of the given positions.
func (t *Tuple) Narrow(pos []int) tuple.View {
	if len(pos) == 0 {
		return t
	}
	return tuple.NewNarrow(t, pos)
}

// Compose returns a read-only view of this tuple followed by others.
func (t *Tuple) Compose(others ...tuple.Tuple) tuple.View {
	return tuple.NewComposite(append([]tuple.Tuple{t}, others...)...)
}

// SetAll sets the values of srcs one after the other, starting at position 0.
func (t *Tuple) SetAll(srcs ...tuple.Tuple) error {
	return tuple.SetAll(t, srcs...)
}

// Put sets the values of src to the positions designated by selector.
func (t *Tuple) Put(declarator, selector tuple.Fields, src tuple.Tuple) error {
	return tuple.Put(t, declarator, selector, src)
}

// Compare orders t relative to other.
//
// A nil or empty other sorts first, and tuples of different sizes are ordered
// by size. When other is also backed by a record of the same schema, the
// records are compared using the sort order of that schema, which honours field orders and
// orders nulls according to the position of the null branch in unions.
// Otherwise values are compared position by position with tuple.CompareFields,
// where nulls always sort first. Both orders can disagree for the same values.
func (t *Tuple) Compare(other tuple.Tuple) (int, error) {
	o, same := other.(*Tuple)
	if other == nil || (same && o == nil) || other.Len() == 0 {
		return 1, nil
	}
	if t.Len() != other.Len() {
		return t.Len() - other.Len(), nil
	}

	if same && t.rec.Schema().Equal(o.rec.Schema()) {
		return t.rec.Compare(o.rec)
	}

	return tuple.CompareFields(t, other)
}

// Equal returns true if other is a Tuple or a record, and the records are equal.
func (t *Tuple) Equal(other any) bool {
	switch o := other.(type) {
	case *Tuple:
		if o == nil {
			return false
		}
		return t.rec.Equal(o.rec)
	case *record.Record:
		return t.rec.Equal(o)
	}

	return false
}

// Hash returns the hash of the record.
func (t *Tuple) Hash() uint64 {
	return t.rec.Hash()
}

func (t *Tuple) String() string {
	return t.rec.String()
}
