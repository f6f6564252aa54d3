package avrotuple

import (
	errs "github.com/chaisql/avrotuple/errors"
	"github.com/chaisql/avrotuple/internal/codec"
	"github.com/chaisql/avrotuple/internal/coerce"
	"github.com/chaisql/avrotuple/internal/record"
	"github.com/chaisql/avrotuple/internal/recordtuple"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/chaisql/avrotuple/internal/serde"
	"github.com/chaisql/avrotuple/internal/tuple"
)

type (
	// Schema describes the shape of records.
	Schema = schema.Schema
	// Record holds one value per field of a record schema.
	Record = record.Record
	// Tuple is a positional view over a record.
	Tuple = recordtuple.Tuple
	// View is the positional contract implemented by every tuple of this module.
	View = tuple.View
	// Fields names or numbers the positions of a tuple.
	Fields = tuple.Fields
	// Values is a growable tuple.
	Values = tuple.Values
	// Registry holds the value converters used by tuples.
	Registry = coerce.Registry
	// Coercer converts values of one schema between their native and canonical forms.
	Coercer = coerce.Coercer
	// Option configures a Tuple.
	Option = recordtuple.Option
	// Writer writes tuples to a sink.
	Writer = codec.Writer
	// Reader reads tuples from a source.
	Reader = codec.Reader
	// Serialization builds serializers and deserializers of tuples.
	Serialization = codec.Serialization
)

// Errors returned by this package.
var (
	ErrSchemaMismatch      = errs.ErrSchemaMismatch
	ErrUnsupportedMutation = errs.ErrUnsupportedMutation
	ErrUnmodifiable        = errs.ErrUnmodifiable
	ErrUnknownCoercion     = errs.ErrUnknownCoercion
	ErrIllegalSourceState  = errs.ErrIllegalSourceState
	ErrIndexOutOfRange     = errs.ErrIndexOutOfRange
	ErrSchemaRequired      = errs.ErrSchemaRequired
)

// Options of NewTuple.
var (
	Unmodifiable = recordtuple.Unmodifiable
	WithRegistry = recordtuple.WithRegistry
)

// DefaultRegistry is used by tuples created without WithRegistry.
var DefaultRegistry = coerce.Default

// ParseSchema parses the JSON text of a schema.
func ParseSchema(text string) (*Schema, error) {
	return schema.Parse(text)
}

// NewRecord returns a record of schema s with all fields unset.
func NewRecord(s *Schema) (*Record, error) {
	return record.New(s)
}

// NewTuple returns a tuple over rec.
func NewTuple(rec *Record, opts ...Option) *Tuple {
	return recordtuple.New(rec, opts...)
}

// NewFields returns named fields.
func NewFields(names ...string) Fields {
	return tuple.NewFields(names...)
}

// NewValues returns a growable tuple holding vs.
func NewValues(vs ...any) *Values {
	return tuple.NewValues(vs...)
}

// NewRegistry returns a registry holding the builtin converters.
func NewRegistry() *Registry {
	return coerce.NewRegistry()
}

// NewWriter returns a writer of records of schema s.
func NewWriter(s *Schema) (*Writer, error) {
	return codec.NewWriter(s)
}

// NewReader returns a reader of records of schema s.
func NewReader(s *Schema, opts ...Option) (*Reader, error) {
	return codec.NewReader(s, opts...)
}

// NewSerialization returns a serialization of tuples of schema s.
func NewSerialization(s *Schema, opts ...Option) *Serialization {
	return codec.NewSerialization(serde.Config{InputSchema: s}, opts...)
}

// Copy returns an independent deep copy of the values of t.
func Copy(t tuple.Tuple) (*Values, error) {
	return tuple.Copy(t)
}
