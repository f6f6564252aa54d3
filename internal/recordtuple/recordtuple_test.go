package recordtuple_test

import (
	"math"
	"testing"

	errs "github.com/chaisql/avrotuple/errors"
	"github.com/chaisql/avrotuple/internal/record"
	"github.com/chaisql/avrotuple/internal/recordtuple"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/chaisql/avrotuple/internal/tuple"
	"github.com/chaisql/avrotuple/internal/types"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

var userSchema = schema.MustParse(`{
	"type": "record",
	"name": "User",
	"fields": [
		{"name": "name", "type": "string"},
		{"name": "avatar", "type": "bytes"},
		{"name": "tags", "type": {"type": "array", "items": "string"}}
	]
}`)

var pairSchema = schema.MustParse(`{
	"type": "record",
	"name": "Pair",
	"fields": [
		{"name": "a", "type": ["int", "null"]},
		{"name": "b", "type": ["int", "null"]}
	]
}`)

func newTuple(t *testing.T, s *schema.Schema, values ...any) *recordtuple.Tuple {
	t.Helper()

	rec := record.MustNew(s)
	for i, v := range values {
		require.NoError(t, rec.Put(i, v))
	}
	return recordtuple.New(rec)
}

func TestGetSet(t *testing.T) {
	tp := newTuple(t, userSchema, "bob", []byte("img"), []any{"a"})
	require.Equal(t, userSchema.FieldCount(), tp.Len())

	v, err := tp.Get(1)
	require.NoError(t, err)
	require.Equal(t, []byte("img"), v.(*types.Blob).Bytes())

	_, err = tp.Get(3)
	require.True(t, errors.Is(err, errs.ErrIndexOutOfRange))
	_, err = tp.Get(-1)
	require.True(t, errors.Is(err, errs.ErrIndexOutOfRange))

	require.NoError(t, tp.Set(1, types.NewBlob([]byte("new"))))
	native, err := tp.Record().Get(1)
	require.NoError(t, err)
	require.Equal(t, []byte("new"), native)

	// writes through to the record
	require.NoError(t, tp.Record().Put(0, "alice"))
	v, err = tp.Get(0)
	require.NoError(t, err)
	require.Equal(t, "alice", v)

	require.True(t, errors.Is(tp.Set(3, "x"), errs.ErrIndexOutOfRange))
	require.True(t, errors.Is(tp.Set(0, 1.5), errs.ErrUnknownCoercion))
	require.Equal(t, 3, tp.Len())
}

func TestUnmodifiable(t *testing.T) {
	tp := newTuple(t, userSchema, "bob")
	ro := tp.Unmodifiable()

	require.True(t, ro.IsUnmodifiable())
	require.False(t, tp.IsUnmodifiable())
	require.Same(t, tp.Record(), ro.Record())
	require.Same(t, ro, ro.Unmodifiable())

	require.True(t, errors.Is(ro.Set(0, "x"), errs.ErrUnmodifiable))
	require.True(t, errors.Is(ro.SetAll(tuple.NewValues("x")), errs.ErrUnmodifiable))
	require.True(t, errors.Is(ro.Put(tuple.Unknown(), tuple.Positional(0), tuple.NewValues("x")), errs.ErrUnmodifiable))

	ro = recordtuple.New(record.MustNew(userSchema), recordtuple.Unmodifiable())
	require.True(t, errors.Is(ro.Set(0, "x"), errs.ErrUnmodifiable))
}

func TestMutations(t *testing.T) {
	tp := newTuple(t, userSchema)

	views := map[string]tuple.Tuple{
		"base":      tp,
		"narrow":    tp.Narrow([]int{0}),
		"composite": tp.Compose(tuple.NewValues(1)),
	}

	for name, v := range views {
		t.Run(name, func(t *testing.T) {
			require.True(t, errs.IsUnsupportedMutation(tuple.Append(v, "x")))
			require.True(t, errs.IsUnsupportedMutation(tuple.AppendAll(v, "x", "y")))
			_, err := tuple.Remove(v, []int{0})
			require.True(t, errs.IsUnsupportedMutation(err))
			_, err = tuple.Leave(v, []int{0})
			require.True(t, errs.IsUnsupportedMutation(err))
			require.True(t, errs.IsUnsupportedMutation(tuple.Clear(v)))

			var mutErr *errs.UnsupportedMutationError
			require.True(t, errors.As(tuple.Clear(v), &mutErr))
			require.Equal(t, "clear", mutErr.Op)
		})
	}

	require.Equal(t, 3, tp.Len())
}

func TestNarrowAndCompose(t *testing.T) {
	tp := newTuple(t, userSchema, "bob", []byte("img"), []any{"a"})

	require.Same(t, tp, tp.Narrow(nil))
	require.Same(t, tp, tp.Narrow([]int{}))

	n := tp.Narrow([]int{2, 0})
	require.Equal(t, 2, n.Len())
	v, err := n.Get(1)
	require.NoError(t, err)
	require.Equal(t, "bob", v)
	require.True(t, errors.Is(n.Set(0, "x"), errs.ErrUnmodifiable))

	c := tp.Compose(tuple.NewValues(int32(7)))
	require.Equal(t, 4, c.Len())
	v, err = c.Get(3)
	require.NoError(t, err)
	require.Equal(t, int32(7), v)
	require.True(t, errors.Is(c.Set(0, "x"), errs.ErrUnmodifiable))
}

func TestPositions(t *testing.T) {
	tp := newTuple(t, userSchema)

	pos, err := tp.Positions(tp.Fields(), tuple.NewFields("tags", "name"))
	require.NoError(t, err)
	require.Equal(t, []int{2, 0}, pos)

	_, err = tp.Positions(tuple.NewFields("a", "b"), tuple.NewFields("a"))
	require.True(t, errors.Is(err, errs.ErrSchemaMismatch))

	pos, err = tp.Positions(tuple.Unknown(), tuple.Positional(1))
	require.NoError(t, err)
	require.Equal(t, []int{1}, pos)
}

func TestSetAllAndPut(t *testing.T) {
	tp := newTuple(t, userSchema)

	require.NoError(t, tp.SetAll(tuple.NewValues("bob"), nil, tuple.NewValues([]byte("x"), []any{"t"})))
	require.Equal(t, `{"name": "bob", "avatar": 78, "tags": ["t"]}`, tp.String())

	require.NoError(t, tp.Put(tp.Fields(), tuple.NewFields("name"), tuple.NewValues("alice")))
	v, err := tp.Get(0)
	require.NoError(t, err)
	require.Equal(t, "alice", v)

	err = tp.Put(tuple.NewFields("name"), tuple.NewFields("name"), tuple.NewValues("x"))
	require.True(t, errors.Is(err, errs.ErrSchemaMismatch))
}

func TestCompare(t *testing.T) {
	three := newTuple(t, userSchema, "a", []byte{}, []any{})

	c, err := three.Compare(tuple.NewValues(1, 2, 3, 4, 5))
	require.NoError(t, err)
	require.Equal(t, -2, c)

	c, err = three.Compare(tuple.NewValues())
	require.NoError(t, err)
	require.Greater(t, c, 0)

	c, err = three.Compare(nil)
	require.NoError(t, err)
	require.Equal(t, 1, c)

	nullFirst := newTuple(t, pairSchema, nil, int32(1))
	c, err = nullFirst.Compare(tuple.NewValues(int32(1), nil))
	require.NoError(t, err)
	require.Equal(t, -1, c)

	nulls := newTuple(t, pairSchema, nil, nil)
	c, err = nulls.Compare(nulls)
	require.NoError(t, err)
	require.Zero(t, c)
	c, err = nulls.Compare(tuple.NewValues(nil, nil))
	require.NoError(t, err)
	require.Zero(t, c)
}

// Records are compared with their schema order when both sides are backed
// by records, and value by value otherwise. The two can disagree.
func TestCompareOrders(t *testing.T) {
	t.Run("union branch order", func(t *testing.T) {
		a := newTuple(t, pairSchema, nil, nil)
		b := newTuple(t, pairSchema, int32(1), nil)

		// null is the second branch of the union
		c, err := a.Compare(b)
		require.NoError(t, err)
		require.Equal(t, 1, c)

		c, err = tuple.CompareFields(a, b)
		require.NoError(t, err)
		require.Equal(t, -1, c)
	})

	t.Run("descending field", func(t *testing.T) {
		s := schema.MustParse(`{"type": "record", "name": "D", "fields": [{"name": "n", "type": "int", "order": "descending"}]}`)
		a := newTuple(t, s, int32(1))
		b := newTuple(t, s, int32(2))

		c, err := a.Compare(b)
		require.NoError(t, err)
		require.Equal(t, 1, c)

		c, err = a.Compare(tuple.NewValues(int32(2)))
		require.NoError(t, err)
		require.Equal(t, -1, c)
	})

	t.Run("ignored field", func(t *testing.T) {
		s := schema.MustParse(`{"type": "record", "name": "I", "fields": [{"name": "n", "type": "int", "order": "ignore"}]}`)
		a := newTuple(t, s, int32(1))
		b := newTuple(t, s, int32(2))

		c, err := a.Compare(b)
		require.NoError(t, err)
		require.Zero(t, c)

		c, err = tuple.CompareFields(a, b)
		require.NoError(t, err)
		require.Equal(t, -1, c)
	})

	t.Run("different schemas", func(t *testing.T) {
		sa := schema.MustParse(`{"type": "record", "name": "A", "fields": [{"name": "a", "type": "int"}]}`)
		sb := schema.MustParse(`{"type": "record", "name": "B", "fields": [{"name": "b", "type": "string"}]}`)
		sc := schema.MustParse(`{"type": "record", "name": "C", "fields": [{"name": "c", "type": "long", "order": "descending"}]}`)

		// values of different kinds are skipped
		c, err := newTuple(t, sa, int32(1)).Compare(newTuple(t, sb, "x"))
		require.NoError(t, err)
		require.Zero(t, c)

		// the order of the other schema doesn't apply
		c, err = newTuple(t, sa, int32(1)).Compare(newTuple(t, sc, int64(2)))
		require.NoError(t, err)
		require.Equal(t, -1, c)
	})
}

func TestEqualAndHash(t *testing.T) {
	a := newTuple(t, userSchema, "bob", []byte("img"), []any{"a"})
	b := newTuple(t, userSchema, "bob", []byte("img"), []any{"a"})

	require.True(t, a.Equal(b))
	require.True(t, a.Equal(b.Record()))
	require.True(t, a.Equal(b.Unmodifiable()))
	require.Equal(t, a.Hash(), b.Hash())
	require.Equal(t, a.Record().Hash(), a.Hash())

	require.False(t, a.Equal(tuple.NewValues("bob", types.NewBlob([]byte("img")), []any{"a"})))
	require.False(t, a.Equal("bob"))
	require.False(t, a.Equal((*recordtuple.Tuple)(nil)))

	require.NoError(t, b.Set(0, "alice"))
	require.False(t, a.Equal(b))

	t.Run("signed zero", func(t *testing.T) {
		s := schema.MustParse(`{"type": "record", "name": "F", "fields": [{"name": "x", "type": "double"}]}`)
		pos := newTuple(t, s, 0.0)
		neg := newTuple(t, s, math.Copysign(0, -1))

		require.True(t, pos.Equal(neg))
		require.Equal(t, pos.Hash(), neg.Hash())
	})
}

func TestCopy(t *testing.T) {
	tp := newTuple(t, userSchema, "bob", []byte("img"), []any{"a"})

	c, err := tuple.Copy(tp)
	require.NoError(t, err)

	require.NoError(t, tp.Set(0, "alice"))
	v, err := c.Get(0)
	require.NoError(t, err)
	require.Equal(t, "bob", v)
}
