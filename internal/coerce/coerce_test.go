package coerce_test

import (
	"bytes"
	"encoding/gob"
	"testing"
	"time"

	errs "github.com/chaisql/avrotuple/errors"
	"github.com/chaisql/avrotuple/internal/coerce"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/chaisql/avrotuple/internal/tuple"
	"github.com/chaisql/avrotuple/internal/types"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestReprOf(t *testing.T) {
	tests := []struct {
		v        any
		expected coerce.Repr
	}{
		{types.NewBlob(nil), coerce.ReprBlob},
		{[]byte{}, coerce.ReprByteBuffer},
		{[]any{}, coerce.ReprList},
		{tuple.NewValues(), coerce.ReprTuple},
		{types.NewMap(), coerce.ReprMap},
		{map[string]any{}, coerce.ReprNativeMap},
		{time.Now(), coerce.ReprTime},
		{int64(1), coerce.ReprEpoch},
		{"a", coerce.ReprText},
		{int32(1), coerce.ReprUnknown},
		{nil, coerce.ReprUnknown},
	}

	for _, test := range tests {
		t.Run(test.expected.String(), func(t *testing.T) {
			require.Equal(t, test.expected, coerce.ReprOf(test.v))
		})
	}
}

func TestBytesCoercer(t *testing.T) {
	var c coerce.BytesCoercer

	b := []byte("abc")
	v, err := c.Canonical(b)
	require.NoError(t, err)
	blob := v.(*types.Blob)

	// no copy
	blob.Bytes()[0] = 'z'
	require.Equal(t, byte('z'), b[0])

	n, err := c.Coerce(blob, coerce.ReprByteBuffer)
	require.NoError(t, err)
	require.Equal(t, []byte("zbc"), n)

	n, err = c.Coerce(blob, c.Native())
	require.NoError(t, err)
	v, err = c.Canonical(n)
	require.NoError(t, err)
	require.True(t, blob.Equal(v.(*types.Blob)))

	_, err = c.Canonical("abc")
	require.True(t, errors.Is(err, errs.ErrUnknownCoercion))

	_, err = c.Coerce(b, coerce.ReprBlob)
	require.True(t, errors.Is(err, errs.ErrIllegalSourceState))

	_, err = c.Coerce(blob, coerce.ReprList)
	require.True(t, errors.Is(err, errs.ErrUnknownCoercion))

	v, err = c.Canonical(nil)
	require.NoError(t, err)
	require.Nil(t, v)
	v, err = c.Coerce(nil, coerce.ReprByteBuffer)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestListCoercer(t *testing.T) {
	c := coerce.NewListCoercer(schema.MustParse(`"int"`))

	l := []any{int32(1), int32(2), int32(3)}
	v, err := c.Canonical(l)
	require.NoError(t, err)
	require.Equal(t, l, v)

	tp, err := c.Coerce(l, coerce.ReprTuple)
	require.NoError(t, err)
	require.Equal(t, 3, tp.(tuple.Tuple).Len())

	v, err = c.Canonical(tp)
	require.NoError(t, err)
	require.Equal(t, l, v)

	_, err = c.Coerce(tuple.NewValues(), coerce.ReprList)
	require.True(t, errors.Is(err, errs.ErrIllegalSourceState))

	_, err = c.Canonical(int32(1))
	require.True(t, errors.Is(err, errs.ErrUnknownCoercion))
}

func TestMapCoercer(t *testing.T) {
	c := coerce.NewMapCoercer(schema.MustParse(`"int"`))

	v, err := c.Canonical(map[string]any{"b": int32(2), "a": int32(1)})
	require.NoError(t, err)
	m := v.(*types.Map)
	require.Equal(t, []string{"a", "b"}, m.Keys())

	tp, err := c.Coerce(m, coerce.ReprTuple)
	require.NoError(t, err)
	require.True(t, tuple.Equal(tuple.NewValues("a", int32(1), "b", int32(2)), tp.(tuple.Tuple)))

	back, err := c.Canonical(tp)
	require.NoError(t, err)
	require.True(t, m.Equal(back.(*types.Map)))

	native, err := c.Coerce(m, coerce.ReprNativeMap)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": int32(1), "b": int32(2)}, native)

	_, err = c.Canonical(tuple.NewValues("a", int32(1), "b"))
	require.True(t, errors.Is(err, errs.ErrIllegalSourceState))

	_, err = c.Canonical(tuple.NewValues(int32(1), int32(1)))
	require.True(t, errors.Is(err, errs.ErrIllegalSourceState))

	_, err = c.Coerce(m, coerce.ReprText)
	require.True(t, errors.Is(err, errs.ErrUnknownCoercion))
}

func TestTimestampCoercer(t *testing.T) {
	c := coerce.NewTimestampCoercer(coerce.Millis)
	ts := time.Date(2024, 1, 2, 3, 4, 5, 6000000, time.UTC)

	v, err := c.Canonical(ts.UnixMilli())
	require.NoError(t, err)
	require.True(t, ts.Equal(v.(time.Time)))

	n, err := c.Coerce(v, c.Native())
	require.NoError(t, err)
	require.Equal(t, ts.UnixMilli(), n)

	txt, err := c.Coerce(v, coerce.ReprText)
	require.NoError(t, err)
	require.Equal(t, "2024-01-02T03:04:05.006Z", txt)

	v, err = c.Canonical("2024-01-02 03:04:05")
	require.NoError(t, err)
	require.True(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Equal(v.(time.Time)))

	_, err = c.Canonical("not a date")
	require.True(t, errors.Is(err, errs.ErrIllegalSourceState))

	micros := coerce.NewTimestampCoercer(coerce.Micros)
	n, err = micros.Coerce(ts, coerce.ReprEpoch)
	require.NoError(t, err)
	require.Equal(t, ts.UnixMicro(), n)
}

func TestPersistence(t *testing.T) {
	elem := schema.MustParse(`{"type": "record", "name": "E", "fields": [{"name": "x", "type": "long"}]}`)

	type persisted struct {
		List      *coerce.ListCoercer
		Map       *coerce.MapCoercer
		Timestamp *coerce.TimestampCoercer
	}

	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(persisted{
		List:      coerce.NewListCoercer(elem),
		Map:       coerce.NewMapCoercer(schema.MustParse(`"string"`)),
		Timestamp: coerce.NewTimestampCoercer(coerce.Micros),
	})
	require.NoError(t, err)

	var got persisted
	require.NoError(t, gob.NewDecoder(&buf).Decode(&got))
	require.True(t, elem.Equal(got.List.Elem()))
	require.Equal(t, schema.TypeString, got.Map.Values().Type())
	require.Equal(t, coerce.Micros, got.Timestamp.Unit())

	var lc coerce.ListCoercer
	require.Error(t, lc.UnmarshalBinary([]byte("{")))
}
