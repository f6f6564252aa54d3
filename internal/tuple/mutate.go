package tuple

import (
	errs "github.com/chaisql/avrotuple/errors"
)

// Append adds v at the end of t.
func Append(t Tuple, v any) error {
	m, ok := t.(Mutator)
	if !ok {
		return errs.NewUnsupportedMutationError("append", t)
	}
	return m.Append(v)
}

// AppendAll adds vs at the end of t.
func AppendAll(t Tuple, vs ...any) error {
	m, ok := t.(Mutator)
	if !ok {
		return errs.NewUnsupportedMutationError("append all", t)
	}
	return m.AppendAll(vs...)
}

// Remove removes the values at the given positions of t and returns them.
func Remove(t Tuple, pos []int) (*Values, error) {
	m, ok := t.(Mutator)
	if !ok {
		return nil, errs.NewUnsupportedMutationError("remove", t)
	}
	return m.Remove(pos)
}

// Leave keeps the values at the given positions of t and returns the others.
func Leave(t Tuple, pos []int) (*Values, error) {
	m, ok := t.(Mutator)
	if !ok {
		return nil, errs.NewUnsupportedMutationError("leave", t)
	}
	return m.Leave(pos)
}

// Clear removes every value of t.
func Clear(t Tuple) error {
	m, ok := t.(Mutator)
	if !ok {
		return errs.NewUnsupportedMutationError("clear", t)
	}
	return m.Clear()
}

// SetAll writes the values of srcs into dst, position by position.
// Each source is offset by the size of the sources before it. Nil sources are skipped.
func SetAll(dst Writable, srcs ...Tuple) error {
	var pos int
	for _, src := range srcs {
		if src == nil {
			continue
		}

		for i := 0; i < src.Len(); i++ {
			v, err := src.Get(i)
			if err != nil {
				return err
			}
			if err := dst.Set(pos, v); err != nil {
				return err
			}
			pos++
		}
	}

	return nil
}

// Put writes the values of src into the positions of dst designated by selector.
// declarator describes the fields of dst.
func Put(dst Writable, declarator, selector Fields, src Tuple) error {
	pos, err := Positions(dst, declarator, selector)
	if err != nil {
		return err
	}

	for i, p := range pos {
		v, err := src.Get(i)
		if err != nil {
			return err
		}
		if err := dst.Set(p, v); err != nil {
			return err
		}
	}

	return nil
}
