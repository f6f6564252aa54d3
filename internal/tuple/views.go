package tuple

import (
	errs "github.com/chaisql/avrotuple/errors"
	"github.com/cockroachdb/errors"
)

var (
	_ View = (*Narrowed)(nil)
	_ View = (*Composite)(nil)
)

// Narrowed is a read-only view of some positions of another tuple.
// It reads through to the underlying tuple.
type Narrowed struct {
	base Tuple
	pos  []int
}

// NewNarrow returns a view of the values of base at pos.
func NewNarrow(base Tuple, pos []int) *Narrowed {
	return &Narrowed{
		base: base,
		pos:  append([]int(nil), pos...),
	}
}

func (n *Narrowed) Len() int {
	return len(n.pos)
}

func (n *Narrowed) Get(pos int) (any, error) {
	if err := errs.CheckIndex(pos, len(n.pos)); err != nil {
		return nil, err
	}
	return n.base.Get(n.pos[pos])
}

func (n *Narrowed) Set(pos int, v any) error {
	return errors.Wrapf(errs.ErrUnmodifiable, "cannot set position %d of a narrowed view", pos)
}

func (n *Narrowed) Positions(declarator, selector Fields) ([]int, error) {
	return Positions(n, declarator, selector)
}

func (n *Narrowed) Narrow(pos []int) View {
	if len(pos) == 0 {
		return n
	}
	return NewNarrow(n, pos)
}

func (n *Narrowed) Compose(others ...Tuple) View {
	return NewComposite(append([]Tuple{n}, others...)...)
}

func (n *Narrowed) Compare(other Tuple) (int, error) {
	return Compare(n, other)
}

func (n *Narrowed) Equal(other any) bool {
	o, ok := other.(Tuple)
	if !ok {
		return false
	}
	return Equal(n, o)
}

func (n *Narrowed) Hash() uint64 {
	return Hash(n)
}

func (n *Narrowed) String() string {
	return Format(n)
}

// Composite is a read-only concatenation of tuples.
// Positions are resolved against the current sizes of the tuples.
type Composite struct {
	tuples []Tuple
}

// NewComposite returns a view of the values of tuples, one after the other.
// Nil tuples are ignored.
func NewComposite(tuples ...Tuple) *Composite {
	c := Composite{tuples: make([]Tuple, 0, len(tuples))}
	for _, t := range tuples {
		if t != nil {
			c.tuples = append(c.tuples, t)
		}
	}
	return &c
}

func (c *Composite) Len() int {
	var n int
	for _, t := range c.tuples {
		n += t.Len()
	}
	return n
}

func (c *Composite) Get(pos int) (any, error) {
	if pos >= 0 {
		offset := pos
		for _, t := range c.tuples {
			if offset < t.Len() {
				return t.Get(offset)
			}
			offset -= t.Len()
		}
	}

	return nil, errs.CheckIndex(pos, c.Len())
}

func (c *Composite) Set(pos int, v any) error {
	return errors.Wrapf(errs.ErrUnmodifiable, "cannot set position %d of a composite view", pos)
}

func (c *Composite) Positions(declarator, selector Fields) ([]int, error) {
	return Positions(c, declarator, selector)
}

func (c *Composite) Narrow(pos []int) View {
	if len(pos) == 0 {
		return c
	}
	return NewNarrow(c, pos)
}

func (c *Composite) Compose(others ...Tuple) View {
	return NewComposite(append([]Tuple{c}, others...)...)
}

func (c *Composite) Compare(other Tuple) (int, error) {
	return Compare(c, other)
}

func (c *Composite) Equal(other any) bool {
	o, ok := other.(Tuple)
	if !ok {
		return false
	}
	return Equal(c, o)
}

func (c *Composite) Hash() uint64 {
	return Hash(c)
}

func (c *Composite) String() string {
	return Format(c)
}
