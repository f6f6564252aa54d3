// Package testutil contains helpers shared by tests.
package testutil

import (
	"os"
	"testing"

	"github.com/chaisql/avrotuple/internal/record"
	"github.com/chaisql/avrotuple/internal/recordtuple"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/chaisql/avrotuple/internal/tuple"
	"github.com/chaisql/avrotuple/internal/types"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// UserSchema is a record schema exercising every kind of field.
const UserSchema = `{
	"type": "record",
	"name": "User",
	"namespace": "test",
	"fields": [
		{"name": "id", "type": "long"},
		{"name": "name", "type": "string"},
		{"name": "avatar", "type": ["null", "bytes"]},
		{"name": "tags", "type": {"type": "array", "items": "string"}},
		{"name": "attrs", "type": {"type": "map", "values": "int"}},
		{"name": "role", "type": {"type": "enum", "name": "Role", "symbols": ["ADMIN", "GUEST"]}},
		{"name": "created", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

func ParseSchema(t testing.TB, text string) *schema.Schema {
	t.Helper()

	s, err := schema.Parse(text)
	NoError(t, err)
	return s
}

// MakeRecord creates a record of s holding the given native values.
func MakeRecord(t testing.TB, s *schema.Schema, values ...any) *record.Record {
	t.Helper()

	rec, err := record.New(s)
	NoError(t, err)
	for i, v := range values {
		NoError(t, rec.Put(i, v))
	}
	return rec
}

// MakeTuple creates a tuple over a record of s holding the given native values.
func MakeTuple(t testing.TB, s *schema.Schema, values ...any) *recordtuple.Tuple {
	t.Helper()

	return recordtuple.New(MakeRecord(t, s, values...))
}

// MakeUser creates a User record identified by id.
func MakeUser(t testing.TB, s *schema.Schema, id int64) *record.Record {
	t.Helper()

	return MakeRecord(t, s,
		id,
		"user",
		[]byte{byte(id)},
		[]any{"a", "b"},
		map[string]any{"k": int32(id)},
		"GUEST",
		int64(1700000000000)+id,
	)
}

// RequireRecordEqual fails if both records don't hold the same values.
func RequireRecordEqual(t testing.TB, want, got *record.Record) {
	t.Helper()

	require.Equal(t, want.Schema().String(), got.Schema().String())

	// Working with plain values rather than providing an equality function to go-cmp
	// gives diffs that only show where the difference is.
	if diff := cmp.Diff(plain(want), plain(got)); diff != "" {
		require.Failf(t, "mismatched records, (-want, +got)", "%s", diff)
	}
}

// RequireTupleEqual fails if both tuples don't hold the same values.
func RequireTupleEqual(t testing.TB, want, got tuple.Tuple) {
	t.Helper()

	if diff := cmp.Diff(plainTuple(t, want), plainTuple(t, got)); diff != "" {
		require.Failf(t, "mismatched tuples, (-want, +got)", "%s", diff)
	}
}

func plainTuple(t testing.TB, tp tuple.Tuple) []any {
	vs := make([]any, tp.Len())
	for i := range vs {
		v, err := tp.Get(i)
		NoError(t, err)
		vs[i] = plain(v)
	}
	return vs
}

// plain converts values to types go-cmp can diff without options.
func plain(v any) any {
	switch x := v.(type) {
	case *record.Record:
		m := make(map[string]any, x.Len())
		for _, f := range x.Schema().Fields() {
			fv, _ := x.Get(f.Pos)
			m[f.Name] = plain(fv)
		}
		return m
	case *types.Blob:
		return x.Bytes()
	case *types.Map:
		m := make(map[string]any, x.Len())
		_ = x.Iterate(func(k string, e any) error {
			m[k] = plain(e)
			return nil
		})
		return m
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = plain(e)
		}
		return m
	case []any:
		l := make([]any, len(x))
		for i := range x {
			l[i] = plain(x[i])
		}
		return l
	}

	return v
}

func TempDir(t testing.TB) string {
	dir, err := os.MkdirTemp("", "avrotuple")
	NoError(t, err)

	t.Cleanup(func() {
		os.RemoveAll(dir)
	})
	return dir
}
