package tuple

import (
	"strings"

	errs "github.com/chaisql/avrotuple/errors"
	"github.com/chaisql/avrotuple/internal/types"
)

var (
	_ View    = (*Values)(nil)
	_ Mutator = (*Values)(nil)
)

// Values is a growable tuple backed by a slice.
type Values struct {
	values []any
}

// NewValues returns a tuple holding vs. The slice is not copied.
func NewValues(vs ...any) *Values {
	return &Values{values: vs}
}

func (t *Values) Len() int {
	if t == nil {
		return 0
	}
	return len(t.values)
}

func (t *Values) Get(pos int) (any, error) {
	if err := errs.CheckIndex(pos, t.Len()); err != nil {
		return nil, err
	}
	return t.values[pos], nil
}

func (t *Values) Set(pos int, v any) error {
	if err := errs.CheckIndex(pos, t.Len()); err != nil {
		return err
	}
	t.values[pos] = v
	return nil
}

// Slice returns the underlying values.
func (t *Values) Slice() []any {
	return t.values
}

func (t *Values) Append(v any) error {
	t.values = append(t.values, v)
	return nil
}

func (t *Values) AppendAll(vs ...any) error {
	t.values = append(t.values, vs...)
	return nil
}

// Remove removes the values at pos and returns them in the order of pos.
func (t *Values) Remove(pos []int) (*Values, error) {
	removed := make([]any, len(pos))
	drop := make(map[int]bool, len(pos))
	for i, p := range pos {
		if err := errs.CheckIndex(p, t.Len()); err != nil {
			return nil, err
		}
		removed[i] = t.values[p]
		drop[p] = true
	}

	kept := make([]any, 0, t.Len()-len(drop))
	for i, v := range t.values {
		if !drop[i] {
			kept = append(kept, v)
		}
	}
	t.values = kept

	return NewValues(removed...), nil
}

// Leave keeps the values at pos, in the order of pos, and returns the others.
func (t *Values) Leave(pos []int) (*Values, error) {
	kept, err := t.Remove(pos)
	if err != nil {
		return nil, err
	}

	t.values, kept.values = kept.values, t.values
	return kept, nil
}

func (t *Values) Clear() error {
	t.values = t.values[:0]
	return nil
}

func (t *Values) Positions(declarator, selector Fields) ([]int, error) {
	return Positions(t, declarator, selector)
}

func (t *Values) Narrow(pos []int) View {
	if len(pos) == 0 {
		return t
	}
	return NewNarrow(t, pos)
}

func (t *Values) Compose(others ...Tuple) View {
	return NewComposite(append([]Tuple{t}, others...)...)
}

func (t *Values) Compare(other Tuple) (int, error) {
	return Compare(t, other)
}

// Equal returns true if other is a tuple with equal values.
func (t *Values) Equal(other any) bool {
	o, ok := other.(Tuple)
	if !ok {
		return false
	}
	return Equal(t, o)
}

func (t *Values) Hash() uint64 {
	return Hash(t)
}

func (t *Values) String() string {
	return Format(t)
}

// Format returns a human readable representation of t.
func Format(t Tuple) string {
	var sb strings.Builder

	sb.WriteByte('[')
	for i := 0; i < t.Len(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		v, err := t.Get(i)
		if err != nil {
			sb.WriteString("<" + err.Error() + ">")
			continue
		}
		sb.WriteString(types.Format(v))
	}
	sb.WriteByte(']')

	return sb.String()
}

