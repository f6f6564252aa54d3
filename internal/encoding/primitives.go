// Package encoding implements the Avro binary encoding of records.
//
// Values are encoded without any framing: a record is the concatenation of
// its fields in declaration order, and nothing marks where a record ends.
package encoding

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
)

// ErrCorrupt is returned when decoding data that isn't a valid encoding.
var ErrCorrupt = errors.New("corrupt data")

// MaxLength is the largest length accepted for bytes, strings and blocks.
const MaxLength = math.MaxInt32

func EncodeBoolean(dst []byte, x bool) []byte {
	if x {
		return append(dst, 1)
	}
	return append(dst, 0)
}

// EncodeInt appends the zig-zag varint encoding of x.
func EncodeInt(dst []byte, x int32) []byte {
	return EncodeLong(dst, int64(x))
}

// EncodeLong appends the zig-zag varint encoding of x.
func EncodeLong(dst []byte, x int64) []byte {
	return binary.AppendUvarint(dst, uint64(x<<1)^uint64(x>>63))
}

func EncodeFloat(dst []byte, x float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(x))
}

func EncodeDouble(dst []byte, x float64) []byte {
	return binary.LittleEndian.AppendUint64(dst, math.Float64bits(x))
}

// EncodeBytes appends the length of x followed by x.
func EncodeBytes(dst []byte, x []byte) []byte {
	dst = EncodeLong(dst, int64(len(x)))
	return append(dst, x...)
}

// EncodeString appends the length of x followed by x.
func EncodeString(dst []byte, x string) []byte {
	dst = EncodeLong(dst, int64(len(x)))
	return append(dst, x...)
}

// DecodeLong decodes a zig-zag varint from b and returns the number of bytes read.
func DecodeLong(b []byte) (int64, int, error) {
	u, n := binary.Uvarint(b)
	switch {
	case n == 0:
		return 0, 0, errors.Wrap(ErrCorrupt, "truncated varint")
	case n < 0:
		return 0, 0, errors.Wrap(ErrCorrupt, "varint overflows a 64-bit integer")
	}
	return unzigzag(u), n, nil
}

func unzigzag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}
