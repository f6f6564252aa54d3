package tuple

import (
	"strconv"
	"strings"

	errs "github.com/chaisql/avrotuple/errors"
	"github.com/cockroachdb/errors"
)

// Fields describes the fields of a tuple, or selects some of them.
// Fields are either named, positional, or unknown.
// Unknown fields declare a tuple of any size.
type Fields struct {
	names   []string
	pos     []int
	unknown bool
}

// NewFields returns named fields.
func NewFields(names ...string) Fields {
	return Fields{names: names}
}

// Positional returns fields selecting the given positions.
// Negative positions are counted from the end of the declarator.
func Positional(pos ...int) Fields {
	return Fields{pos: pos}
}

// Unknown returns fields matching a tuple of any size.
func Unknown() Fields {
	return Fields{unknown: true}
}

func (f Fields) Len() int {
	if f.pos != nil {
		return len(f.pos)
	}
	return len(f.names)
}

func (f Fields) IsUnknown() bool {
	return f.unknown
}

func (f Fields) IsPositional() bool {
	return !f.unknown && f.pos != nil
}

func (f Fields) Names() []string {
	return f.names
}

// Index returns the position of the named field, or -1.
func (f Fields) Index(name string) int {
	for i, n := range f.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Pos resolves selector against f, returning positions in selector order.
// An unknown selector selects every field of f.
func (f Fields) Pos(selector Fields) ([]int, error) {
	switch {
	case selector.unknown:
		if f.unknown {
			return nil, errors.Wrap(errs.ErrFieldNotFound, "cannot select all fields of an unknown declaration")
		}
		pos := make([]int, f.Len())
		for i := range pos {
			pos[i] = i
		}
		return pos, nil
	case selector.pos != nil:
		pos := make([]int, len(selector.pos))
		for i, p := range selector.pos {
			if f.unknown {
				if p < 0 {
					return nil, errors.WithStack(&errs.IndexOutOfRangeError{Pos: p, Size: 0})
				}
				pos[i] = p
				continue
			}
			if p < 0 {
				p += f.Len()
			}
			if err := errs.CheckIndex(p, f.Len()); err != nil {
				return nil, err
			}
			pos[i] = p
		}
		return pos, nil
	}

	if f.unknown || f.pos != nil {
		return nil, errors.Wrapf(errs.ErrFieldNotFound, "cannot resolve names %v against %s", selector.names, f)
	}

	pos := make([]int, len(selector.names))
	for i, name := range selector.names {
		p := f.Index(name)
		if p < 0 {
			return nil, errors.Wrapf(errs.ErrFieldNotFound, "field %q not found in %s", name, f)
		}
		pos[i] = p
	}
	return pos, nil
}

func (f Fields) String() string {
	if f.unknown {
		return "UNKNOWN"
	}

	var sb strings.Builder
	sb.WriteByte('[')
	if f.pos != nil {
		for i, p := range f.pos {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Itoa(p))
		}
	} else {
		for i, n := range f.names {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(n))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}
