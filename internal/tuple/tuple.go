// Package tuple defines the positional tuple abstraction consumed by the pipeline.
//
// A Tuple is an ordered sequence of canonical values (see package types)
// accessed by position. View is the full contract the pipeline relies on:
// positional read and write, position resolution, derived views, comparison,
// equality and hashing.
//
// Structural mutations (append, remove, leave, clear) are a separate
// capability, Mutator. Only growable tuples like Values implement it; the
// helpers of this package return an ErrUnsupportedMutation error for any
// other tuple.
package tuple

import (
	errs "github.com/chaisql/avrotuple/errors"
	"github.com/chaisql/avrotuple/internal/types"
	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
)

// Tuple is an ordered sequence of values.
type Tuple interface {
	// Len returns the number of values.
	Len() int
	// Get returns the value at the given position.
	Get(pos int) (any, error)
}

// Writable is a tuple whose values can be replaced.
type Writable interface {
	Tuple
	// Set replaces the value at the given position.
	Set(pos int, v any) error
}

// View is the contract consumed by the pipeline.
type View interface {
	Writable

	// Positions returns the positions to read or write in the order of the selector.
	// declarator describes the fields of this view.
	Positions(declarator, selector Fields) ([]int, error)

	// Narrow returns a read-only view of the values at the given positions.
	// If pos is empty, the view itself is returned.
	Narrow(pos []int) View

	// Compose returns a read-only view of this view followed by others.
	Compose(others ...Tuple) View

	// Compare orders this view relative to other.
	Compare(other Tuple) (int, error)

	Equal(other any) bool
	Hash() uint64
}

// Mutator is implemented by tuples whose shape can change.
type Mutator interface {
	Append(v any) error
	AppendAll(vs ...any) error
	// Remove removes the values at the given positions and returns them.
	Remove(pos []int) (*Values, error)
	// Leave keeps only the values at the given positions and returns the others.
	Leave(pos []int) (*Values, error)
	Clear() error
}

// Positions validates declarator against t and resolves selector.
// An unknown declarator matches any tuple.
func Positions(t Tuple, declarator, selector Fields) ([]int, error) {
	if !declarator.IsUnknown() && declarator.Len() != t.Len() {
		return nil, errors.WithStack(&errs.SchemaMismatchError{Declared: declarator.Len(), Actual: t.Len()})
	}

	return declarator.Pos(selector)
}

// Compare compares a and b.
// A nil or empty b sorts before a, then tuples of different sizes are ordered by size,
// then values are compared with CompareFields.
func Compare(a, b Tuple) (int, error) {
	if isEmpty(b) {
		return 1, nil
	}

	if a.Len() != b.Len() {
		return a.Len() - b.Len(), nil
	}

	return CompareFields(a, b)
}

// CompareFields compares the values of a and b position by position.
// Two nulls are equal, a null sorts before any other value,
// values that aren't comparable with each other are skipped.
// The first non-zero comparison decides.
func CompareFields(a, b Tuple) (int, error) {
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}

	for i := 0; i < n; i++ {
		lhs, err := a.Get(i)
		if err != nil {
			return 0, err
		}
		rhs, err := b.Get(i)
		if err != nil {
			return 0, err
		}

		if lhs == nil && rhs == nil {
			continue
		}
		if lhs == nil {
			return -1, nil
		}
		if rhs == nil {
			return 1, nil
		}

		c, ok := types.Compare(lhs, rhs)
		if !ok {
			continue
		}
		if c != 0 {
			return c, nil
		}
	}

	return 0, nil
}

// Equal returns true if a and b have the same size and equal values.
func Equal(a, b Tuple) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Len() != b.Len() {
		return false
	}

	for i := 0; i < a.Len(); i++ {
		lhs, err := a.Get(i)
		if err != nil {
			return false
		}
		rhs, err := b.Get(i)
		if err != nil {
			return false
		}
		if !types.Equal(lhs, rhs) {
			return false
		}
	}

	return true
}

// Hash returns a hash of the values of t. Equal tuples have the same hash.
func Hash(t Tuple) uint64 {
	h := xxhash.New()
	for i := 0; i < t.Len(); i++ {
		v, err := t.Get(i)
		if err != nil {
			continue
		}
		types.WriteHash(h, v)
	}
	return h.Sum64()
}

// Copy returns an independent deep copy of the values of t.
func Copy(t Tuple) (*Values, error) {
	vs := make([]any, t.Len())
	for i := range vs {
		v, err := t.Get(i)
		if err != nil {
			return nil, err
		}
		vs[i] = types.Clone(v)
	}

	return NewValues(vs...), nil
}

func isEmpty(t Tuple) bool {
	if t == nil {
		return true
	}
	if v, ok := t.(*Values); ok && v == nil {
		return true
	}
	return t.Len() == 0
}
