package encoding

import (
	errs "github.com/chaisql/avrotuple/errors"
	"github.com/chaisql/avrotuple/internal/record"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/chaisql/avrotuple/internal/types"
	"github.com/cockroachdb/errors"
)

// Encoder encodes records into a buffer reused from one record to the next.
type Encoder struct {
	buf []byte
}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode returns the encoding of rec.
// The returned slice is only valid until the next call to Encode.
func (e *Encoder) Encode(rec *record.Record) ([]byte, error) {
	b, err := AppendRecord(e.buf[:0], rec)
	if err != nil {
		return nil, err
	}

	e.buf = b
	return b, nil
}

// AppendRecord appends the encoding of rec to dst.
func AppendRecord(dst []byte, rec *record.Record) ([]byte, error) {
	var err error

	for _, f := range rec.Schema().Fields() {
		v, _ := rec.Get(f.Pos)
		dst, err = AppendValue(dst, v, f.Schema)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot encode field %q", f.Name)
		}
	}

	return dst, nil
}

// AppendValue appends the encoding of the native value v described by s to dst.
// Map entries are encoded in key order.
func AppendValue(dst []byte, v any, s *schema.Schema) ([]byte, error) {
	switch s.Type() {
	case schema.TypeNull:
		if v != nil {
			return nil, unexpected(v, s)
		}
		return dst, nil
	case schema.TypeUnion:
		i, err := s.Resolve(v)
		if err != nil {
			return nil, err
		}
		dst = EncodeLong(dst, int64(i))
		return AppendValue(dst, v, s.Branches()[i])
	}

	switch x := v.(type) {
	case bool:
		if s.Type() == schema.TypeBoolean {
			return EncodeBoolean(dst, x), nil
		}
	case int32:
		if s.Type() == schema.TypeInt {
			return EncodeInt(dst, x), nil
		}
	case int64:
		if s.Type() == schema.TypeLong {
			return EncodeLong(dst, x), nil
		}
	case float32:
		if s.Type() == schema.TypeFloat {
			return EncodeFloat(dst, x), nil
		}
	case float64:
		if s.Type() == schema.TypeDouble {
			return EncodeDouble(dst, x), nil
		}
	case string:
		switch s.Type() {
		case schema.TypeString:
			return EncodeString(dst, x), nil
		case schema.TypeEnum:
			i := s.SymbolIndex(x)
			if i < 0 {
				return nil, errors.Wrapf(errs.ErrIllegalSourceState, "unknown symbol %q for enum %s", x, s.FullName())
			}
			return EncodeInt(dst, int32(i)), nil
		}
	case []byte:
		switch s.Type() {
		case schema.TypeBytes:
			return EncodeBytes(dst, x), nil
		case schema.TypeFixed:
			if len(x) != s.Size() {
				return nil, errors.Wrapf(errs.ErrIllegalSourceState, "fixed %s requires %d bytes, got %d", s.FullName(), s.Size(), len(x))
			}
			return append(dst, x...), nil
		}
	case []any:
		if s.Type() == schema.TypeArray {
			return appendArray(dst, x, s.Items())
		}
	case map[string]any:
		if s.Type() == schema.TypeMap {
			return appendMap(dst, x, s.Values())
		}
	case *record.Record:
		if s.Type() == schema.TypeRecord && x.Schema().FullName() == s.FullName() {
			return AppendRecord(dst, x)
		}
	}

	return nil, unexpected(v, s)
}

func appendArray(dst []byte, l []any, items *schema.Schema) ([]byte, error) {
	var err error

	if len(l) > 0 {
		dst = EncodeLong(dst, int64(len(l)))
		for _, e := range l {
			dst, err = AppendValue(dst, e, items)
			if err != nil {
				return nil, err
			}
		}
	}

	return append(dst, 0), nil
}

func appendMap(dst []byte, m map[string]any, values *schema.Schema) ([]byte, error) {
	var err error

	if len(m) > 0 {
		dst = EncodeLong(dst, int64(len(m)))
		for _, k := range types.SortedKeys(m) {
			dst = EncodeString(dst, k)
			dst, err = AppendValue(dst, m[k], values)
			if err != nil {
				return nil, err
			}
		}
	}

	return append(dst, 0), nil
}

func unexpected(v any, s *schema.Schema) error {
	return errors.Wrapf(errs.ErrIllegalSourceState, "cannot encode %T as %s", v, s.Type())
}
