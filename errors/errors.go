// Package errors defines the error kinds returned by avrotuple.
//
// Every kind is exposed as a sentinel that can be matched with errors.Is.
// Some kinds also have a typed error carrying the context of the failure,
// which can be extracted with errors.As and still matches its sentinel.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrSchemaMismatch is returned when a declared field shape does not match
	// the field count of the schema.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrUnsupportedMutation is returned when a structural mutation (append, remove,
	// leave, clear) is attempted on a tuple whose shape is fixed.
	ErrUnsupportedMutation = errors.New("unsupported mutation")

	// ErrUnmodifiable is returned when writing to a read-only tuple.
	ErrUnmodifiable = errors.New("tuple is unmodifiable")

	// ErrUnknownCoercion is returned when no coercion handles the requested
	// source or target representation.
	ErrUnknownCoercion = errors.New("unknown type coercion")

	// ErrIllegalSourceState is returned when a coercion receives a value that is not
	// in the form it expects.
	ErrIllegalSourceState = errors.New("illegal source state")

	// ErrIndexOutOfRange is returned when a positional access falls outside of a tuple.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrSchemaRequired is returned when a codec is created without a schema.
	ErrSchemaRequired = errors.New("schema required")

	// ErrFieldNotFound is returned when a selector names a field the declarator doesn't have.
	ErrFieldNotFound = errors.New("field not found")

	// ErrClosed is returned when reading or writing a stream that is not open.
	ErrClosed = errors.New("stream is not open")
)

// IndexOutOfRangeError is returned when accessing position Pos of a tuple of Size elements.
type IndexOutOfRangeError struct {
	Pos  int
	Size int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Pos, e.Size)
}

func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// CheckIndex returns an *IndexOutOfRangeError if pos is not in [0, size).
func CheckIndex(pos, size int) error {
	if pos < 0 || pos >= size {
		return errors.WithStack(&IndexOutOfRangeError{Pos: pos, Size: size})
	}

	return nil
}

// SchemaMismatchError is returned when a declarator of Declared fields is used
// against a tuple of Actual fields.
type SchemaMismatchError struct {
	Declared int
	Actual   int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("field declaration of size %d does not match tuple of size %d", e.Declared, e.Actual)
}

func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// UnsupportedMutationError is returned when the operation Op is called on a
// tuple that doesn't support structural mutations.
type UnsupportedMutationError struct {
	Op    string
	Tuple string
}

func (e *UnsupportedMutationError) Error() string {
	return fmt.Sprintf("%s is not supported on %s", e.Op, e.Tuple)
}

func (e *UnsupportedMutationError) Is(target error) bool {
	return target == ErrUnsupportedMutation
}

// NewUnsupportedMutationError returns an error for the operation op on the tuple t.
func NewUnsupportedMutationError(op string, t any) error {
	return errors.WithStack(&UnsupportedMutationError{Op: op, Tuple: fmt.Sprintf("%T", t)})
}

// UnknownCoercionError is returned when a coercion from From to To is requested
// and no coercer knows how to perform it.
type UnknownCoercionError struct {
	From string
	To   string
}

func (e *UnknownCoercionError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("unknown type coercion requested from: %s", e.From)
	}
	return fmt.Sprintf("unknown type coercion requested, from: %s to: %s", e.From, e.To)
}

func (e *UnknownCoercionError) Is(target error) bool {
	return target == ErrUnknownCoercion
}

// IsUnsupportedMutation returns true if err is or wraps ErrUnsupportedMutation.
func IsUnsupportedMutation(err error) bool {
	return errors.Is(err, ErrUnsupportedMutation)
}
