package encoding_test

import (
	"bytes"
	"io"
	"runtime"
	"testing"
	"testing/iotest"

	errs "github.com/chaisql/avrotuple/errors"
	"github.com/chaisql/avrotuple/internal/encoding"
	"github.com/chaisql/avrotuple/internal/record"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/cockroachdb/errors"
	"github.com/linkedin/goavro/v2"
	"github.com/stretchr/testify/require"
)

const allTypes = `{
	"type": "record",
	"name": "T",
	"fields": [
		{"name": "b", "type": "boolean"},
		{"name": "i", "type": "int"},
		{"name": "l", "type": "long"},
		{"name": "f", "type": "float"},
		{"name": "d", "type": "double"},
		{"name": "by", "type": "bytes"},
		{"name": "s", "type": "string"},
		{"name": "e", "type": {"type": "enum", "name": "E", "symbols": ["X", "Y"]}},
		{"name": "fx", "type": {"type": "fixed", "name": "F", "size": 2}},
		{"name": "a", "type": {"type": "array", "items": "long"}},
		{"name": "m", "type": {"type": "map", "values": "string"}},
		{"name": "u", "type": ["null", "string"]},
		{"name": "r", "type": {"type": "record", "name": "R", "fields": [{"name": "x", "type": "int"}]}}
	]
}`

func TestPrimitives(t *testing.T) {
	tests := []struct {
		n    int64
		want []byte
	}{
		{0, []byte{0x00}},
		{-1, []byte{0x01}},
		{1, []byte{0x02}},
		{-64, []byte{0x7f}},
		{64, []byte{0x80, 0x01}},
	}

	for _, test := range tests {
		got := encoding.EncodeLong(nil, test.n)
		require.Equal(t, test.want, got)

		n, read, err := encoding.DecodeLong(got)
		require.NoError(t, err)
		require.Equal(t, test.n, n)
		require.Equal(t, len(got), read)
	}

	require.Equal(t, []byte{0x06, 'f', 'o', 'o'}, encoding.EncodeString(nil, "foo"))
	require.Equal(t, []byte{0x00, 0x00, 0xc0, 0x3f}, encoding.EncodeFloat(nil, 1.5))

	_, _, err := encoding.DecodeLong([]byte{0x80})
	require.True(t, errors.Is(err, encoding.ErrCorrupt))
}

func newRecord(t *testing.T, s *schema.Schema) *record.Record {
	t.Helper()

	rec := record.MustNew(s)
	r := record.MustNew(s.Field(12).Schema)
	require.NoError(t, r.Put(0, int32(7)))

	values := []any{
		true, int32(-5), int64(1) << 40, float32(1.5), 2.25,
		[]byte("bytes"), "héllo", "Y", []byte{1, 2},
		[]any{int64(1), int64(-2)}, map[string]any{"k": "v"}, "x", r,
	}
	for i, v := range values {
		require.NoError(t, rec.Put(i, v))
	}
	return rec
}

func TestInterop(t *testing.T) {
	s := schema.MustParse(allTypes)
	codec, err := goavro.NewCodec(allTypes)
	require.NoError(t, err)

	native := map[string]any{
		"b": true, "i": int32(-5), "l": int64(1) << 40, "f": float32(1.5), "d": 2.25,
		"by": []byte("bytes"), "s": "héllo", "e": "Y", "fx": []byte{1, 2},
		"a": []any{int64(1), int64(-2)}, "m": map[string]any{"k": "v"},
		"u": goavro.Union("string", "x"), "r": map[string]any{"x": int32(7)},
	}
	want, err := codec.BinaryFromNative(nil, native)
	require.NoError(t, err)

	got, err := encoding.NewEncoder().Encode(newRecord(t, s))
	require.NoError(t, err)
	require.Equal(t, want, got)

	decoded, rest, err := codec.NativeFromBinary(got)
	require.NoError(t, err)
	require.Empty(t, rest)
	require.Equal(t, native, decoded)

	// decode one byte at a time
	rec := record.MustNew(s)
	d := encoding.NewDecoder(iotest.OneByteReader(bytes.NewReader(want)))
	require.NoError(t, d.Decode(rec))
	require.True(t, newRecord(t, s).Equal(rec))
	require.Equal(t, io.EOF, d.Decode(rec))
}

func TestDecoderStream(t *testing.T) {
	s := schema.MustParse(`{"type": "record", "name": "P", "fields": [
		{"name": "id", "type": "long"},
		{"name": "data", "type": "bytes"},
		{"name": "tags", "type": {"type": "array", "items": "string"}}
	]}`)

	var buf bytes.Buffer
	enc := encoding.NewEncoder()
	for i := 0; i < 3; i++ {
		rec := record.MustNew(s)
		require.NoError(t, rec.Put(0, int64(i)))
		require.NoError(t, rec.Put(1, []byte{byte(i), byte(i)}))
		require.NoError(t, rec.Put(2, []any{"t"}))
		b, err := enc.Encode(rec)
		require.NoError(t, err)
		buf.Write(b)
	}

	rec := record.MustNew(s)
	d := encoding.NewDecoder(&buf)

	require.NoError(t, d.Decode(rec))
	first, _ := rec.Get(1)

	for i := 1; i < 3; i++ {
		require.NoError(t, d.Decode(rec))
		id, _ := rec.Get(0)
		require.Equal(t, int64(i), id)

		// the byte slice of the previous record is reused
		data, _ := rec.Get(1)
		require.Equal(t, []byte{byte(i), byte(i)}, data)
		require.Same(t, &first.([]byte)[0], &data.([]byte)[0])
	}

	require.Equal(t, io.EOF, d.Decode(rec))
}

func TestDecoderErrors(t *testing.T) {
	s := schema.MustParse(`{"type": "record", "name": "P", "fields": [
		{"name": "flag", "type": "boolean"},
		{"name": "data", "type": "bytes"},
		{"name": "u", "type": ["null", "int"]}
	]}`)

	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{"empty", nil, io.EOF},
		{"truncated", []byte{0x01}, io.ErrUnexpectedEOF},
		{"truncated bytes", []byte{0x01, 0x06, 'a'}, io.ErrUnexpectedEOF},
		{"truncated varint", []byte{0x01, 0x80}, io.ErrUnexpectedEOF},
		{"invalid boolean", []byte{0x02}, encoding.ErrCorrupt},
		{"negative length", []byte{0x01, 0x01}, encoding.ErrCorrupt},
		{"union index", []byte{0x01, 0x00, 0x04}, encoding.ErrCorrupt},
		{"overflow", []byte{0x01, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}, encoding.ErrCorrupt},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := encoding.NewDecoder(bytes.NewReader(test.data)).Decode(record.MustNew(s))
			require.True(t, errors.Is(err, test.err), "got %v", err)
		})
	}

	err := encoding.DecodeRecord([]byte{0x01, 0x00, 0x00, 0xff}, record.MustNew(s))
	require.True(t, errors.Is(err, encoding.ErrCorrupt))
}

func TestDecodeHugeLength(t *testing.T) {
	s := schema.MustParse(`{"type": "record", "name": "H", "fields": [
		{"name": "by", "type": "bytes"},
		{"name": "s", "type": "string"}
	]}`)

	tests := []struct {
		name string
		data []byte
	}{
		{"bytes", append(encoding.EncodeLong(nil, encoding.MaxLength), 'x')},
		{"string", append(encoding.EncodeBytes(nil, []byte("ok")), append(encoding.EncodeLong(nil, encoding.MaxLength), 'x')...)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)

			err := encoding.NewDecoder(bytes.NewReader(test.data)).Decode(record.MustNew(s))
			require.True(t, errors.Is(err, io.ErrUnexpectedEOF), "got %v", err)

			runtime.ReadMemStats(&after)
			require.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(16<<20))
		})
	}

	// lengths above the chunk size are still decoded entirely
	big := bytes.Repeat([]byte{'a'}, 200<<10)
	data := encoding.EncodeBytes(nil, big)
	data = encoding.EncodeString(data, string(big))

	rec := record.MustNew(s)
	require.NoError(t, encoding.NewDecoder(bytes.NewReader(data)).Decode(rec))
	v, _ := rec.Get(0)
	require.Equal(t, big, v)
	v, _ = rec.Get(1)
	require.Equal(t, string(big), v)
}

func TestDecodeBlocks(t *testing.T) {
	s := schema.MustParse(`{"type": "record", "name": "A", "fields": [{"name": "a", "type": {"type": "array", "items": "int"}}]}`)

	// a block with a negative count is followed by its size in bytes
	data := []byte{0x03, 0x04, 0x02, 0x04, 0x02, 0x06, 0x00}
	rec := record.MustNew(s)
	require.NoError(t, encoding.DecodeRecord(data, rec))

	v, _ := rec.Get(0)
	require.Equal(t, []any{int32(1), int32(2), int32(3)}, v)
}

func TestEncodeErrors(t *testing.T) {
	s := schema.MustParse(`{"type": "record", "name": "P", "fields": [
		{"name": "n", "type": "int"},
		{"name": "e", "type": {"type": "enum", "name": "E", "symbols": ["A"]}},
		{"name": "f", "type": {"type": "fixed", "name": "F", "size": 1}}
	]}`)

	tests := []struct {
		name   string
		values []any
	}{
		{"null int", []any{nil, "A", []byte{1}}},
		{"wrong kind", []any{int64(1), "A", []byte{1}}},
		{"unknown symbol", []any{int32(1), "B", []byte{1}}},
		{"fixed size", []any{int32(1), "A", []byte{1, 2}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := record.MustNew(s)
			for i, v := range test.values {
				require.NoError(t, rec.Put(i, v))
			}
			_, err := encoding.AppendRecord(nil, rec)
			require.True(t, errors.Is(err, errs.ErrIllegalSourceState), "got %v", err)
		})
	}
}
