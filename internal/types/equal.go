package types

import (
	"bytes"
	"reflect"
	"time"
)

// Equal reports whether a and b are deeply equal.
// Blobs and maps are compared by content, slices and native maps element by element.
// Values of different Go types are never equal.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case *Blob:
		y, ok := b.(*Blob)
		return ok && x.Equal(y)
	case *Map:
		y, ok := b.(*Map)
		return ok && x.Equal(y)
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			ov, ok := y[k]
			if !ok || !Equal(v, ov) {
				return false
			}
		}
		return true
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case float32:
		y, ok := b.(float32)
		return ok && CompareFloats(x, y) == 0
	case float64:
		y, ok := b.(float64)
		return ok && CompareFloats(x, y) == 0
	case Equaler:
		return x.EqualValue(b)
	}

	return reflect.DeepEqual(a, b)
}
