package recutil_test

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/buger/jsonparser"
	"github.com/chaisql/avrotuple/cmd/avrotuple/recutil"
	"github.com/chaisql/avrotuple/internal/codec"
	"github.com/chaisql/avrotuple/internal/record"
	"github.com/chaisql/avrotuple/internal/testutil"
	"github.com/stretchr/testify/require"
)

const users = `{"id": 1, "name": "alice", "avatar": {"bytes": "\u0001"}, "tags": ["a"], "attrs": {"k": 1}, "role": "ADMIN", "created": 1700000000001}

{"id": 2, "name": "bob", "avatar": null, "tags": [], "attrs": {}, "role": "GUEST", "created": 1700000000002}
{"id": 3, "name": "carol", "avatar": null, "tags": ["b", "c"], "attrs": {"x": 3, "y": 4}, "role": "GUEST", "created": 1700000000003}
`

func encodeUsers(t *testing.T) []byte {
	t.Helper()

	s := testutil.ParseSchema(t, testutil.UserSchema)

	var buf bytes.Buffer
	n, err := recutil.Encode(context.Background(), s, strings.NewReader(users), &buf)
	testutil.NoError(t, err)
	require.Equal(t, 3, n)

	return buf.Bytes()
}

func TestEncode(t *testing.T) {
	s := testutil.ParseSchema(t, testutil.UserSchema)
	data := encodeUsers(t)

	r, err := codec.NewReader(s)
	testutil.NoError(t, err)
	testutil.NoError(t, r.Open(bytes.NewReader(data)))

	want := []*record.Record{
		testutil.MakeRecord(t, s, int64(1), "alice", []byte{1}, []any{"a"}, map[string]any{"k": int32(1)}, "ADMIN", int64(1700000000001)),
		testutil.MakeRecord(t, s, int64(2), "bob", nil, []any{}, map[string]any{}, "GUEST", int64(1700000000002)),
		testutil.MakeRecord(t, s, int64(3), "carol", nil, []any{"b", "c"}, map[string]any{"x": int32(3), "y": int32(4)}, "GUEST", int64(1700000000003)),
	}

	for _, w := range want {
		got, err := r.ReadRecord(nil)
		testutil.NoError(t, err)
		testutil.RequireRecordEqual(t, w, got.Record())
	}

	_, err = r.ReadRecord(nil)
	require.ErrorIs(t, err, io.EOF)
}

func TestEncodeInvalidLine(t *testing.T) {
	s := testutil.ParseSchema(t, testutil.UserSchema)

	n, err := recutil.Encode(context.Background(), s, strings.NewReader(`{"id": "foo"}`), io.Discard)
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 1")
	require.Zero(t, n)
}

func TestCat(t *testing.T) {
	s := testutil.ParseSchema(t, testutil.UserSchema)
	data := encodeUsers(t)

	t.Run("fields", func(t *testing.T) {
		var out bytes.Buffer
		n, err := recutil.Cat(context.Background(), s, bytes.NewReader(data), &out, "name", "id")
		testutil.NoError(t, err)
		require.Equal(t, 3, n)
		require.Equal(t, "[\"alice\", 1]\n[\"bob\", 2]\n[\"carol\", 3]\n", out.String())
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := recutil.Cat(context.Background(), s, bytes.NewReader(data), io.Discard, "age")
		require.Error(t, err)
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		n, err := recutil.Cat(context.Background(), s, bytes.NewReader(data), &out)
		testutil.NoError(t, err)
		require.Equal(t, 3, n)

		var names []string
		sc := bufio.NewScanner(&out)
		for sc.Scan() {
			name, err := jsonparser.GetString(sc.Bytes(), "name")
			testutil.NoError(t, err)
			names = append(names, name)
		}
		require.Equal(t, []string{"alice", "bob", "carol"}, names)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := recutil.Cat(context.Background(), s, bytes.NewReader(data[:len(data)-1]), io.Discard)
		require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	})
}

func TestSpill(t *testing.T) {
	s := testutil.ParseSchema(t, testutil.UserSchema)
	data := encodeUsers(t)
	dir := testutil.TempDir(t)

	var spilled bytes.Buffer
	n, err := recutil.Spill(context.Background(), s, bytes.NewReader(data), &spilled, dir)
	testutil.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, data, spilled.Bytes())

	// the transient store is dropped
	entries, err := os.ReadDir(dir)
	testutil.NoError(t, err)
	require.Empty(t, entries)
}

func TestSpillCanceled(t *testing.T) {
	s := testutil.ParseSchema(t, testutil.UserSchema)
	data := encodeUsers(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := recutil.Spill(ctx, s, bytes.NewReader(data), io.Discard, ":memory:")
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadSchema(t *testing.T) {
	dir := testutil.TempDir(t)
	path := filepath.Join(dir, "user.avsc")
	testutil.NoError(t, os.WriteFile(path, []byte(testutil.UserSchema), 0o600))

	s, err := recutil.ReadSchema(path)
	testutil.NoError(t, err)
	require.Equal(t, "test.User", s.FullName())

	c, fp, err := recutil.Fingerprint(s)
	testutil.NoError(t, err)
	require.True(t, strings.HasPrefix(c, `{"name":"test.User","type":"record"`))
	require.NotZero(t, fp)

	_, err = recutil.ReadSchema(filepath.Join(dir, "missing.avsc"))
	require.Error(t, err)

	_, err = recutil.ReadSchema("")
	require.Error(t, err)
}
