package types

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	hashNull byte = iota
	hashFalse
	hashTrue
	hashInt
	hashFloat
	hashString
	hashBytes
	hashList
	hashMap
	hashTime
	hashCustom
)

// WriteHash feeds a type tagged representation of v to h.
// Values that are Equal produce the same input.
func WriteHash(h *xxhash.Digest, v any) {
	var buf [9]byte

	writeUint := func(tag byte, n uint64) {
		buf[0] = tag
		binary.LittleEndian.PutUint64(buf[1:], n)
		_, _ = h.Write(buf[:])
	}

	switch x := v.(type) {
	case nil:
		_, _ = h.Write([]byte{hashNull})
	case bool:
		if x {
			_, _ = h.Write([]byte{hashTrue})
		} else {
			_, _ = h.Write([]byte{hashFalse})
		}
	case float32:
		writeUint(hashFloat, floatBits(float64(x)))
	case float64:
		writeUint(hashFloat, floatBits(x))
	case string:
		writeUint(hashString, uint64(len(x)))
		_, _ = h.WriteString(x)
	case []byte:
		writeUint(hashBytes, uint64(len(x)))
		_, _ = h.Write(x)
	case *Blob:
		writeUint(hashBytes, uint64(x.Len()))
		_, _ = h.Write(x.Bytes())
	case []any:
		writeUint(hashList, uint64(len(x)))
		for _, e := range x {
			WriteHash(h, e)
		}
	case map[string]any:
		var sum uint64
		for k, e := range x {
			sum += entryHash(k, e)
		}
		writeUint(hashMap, sum)
	case *Map:
		var sum uint64
		for k, e := range x.values {
			sum += entryHash(k, e)
		}
		writeUint(hashMap, sum)
	case time.Time:
		writeUint(hashTime, uint64(x.UnixNano()))
	case Hasher:
		writeUint(hashCustom, x.Hash())
	default:
		if i, ok := asInt64(v); ok {
			writeUint(hashInt, uint64(i))
			return
		}
		if f, ok := asFloat64(v); ok {
			writeUint(hashFloat, floatBits(f))
			return
		}
		_, _ = fmt.Fprintf(h, "%T:%v", v, v)
	}
}

// Hash returns the hash of v.
func Hash(v any) uint64 {
	h := xxhash.New()
	WriteHash(h, v)
	return h.Sum64()
}

// entries are hashed independently and summed so that the iteration
// order of the map doesn't matter.
func entryHash(k string, v any) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(k)
	WriteHash(h, v)
	return h.Sum64()
}

// floatBits returns the same bits for values that compare equal:
// all NaNs are hashed alike and -0 is hashed as +0.
func floatBits(f float64) uint64 {
	if math.IsNaN(f) {
		return math.Float64bits(math.NaN())
	}
	if f == 0 {
		f = 0
	}
	return math.Float64bits(f)
}
