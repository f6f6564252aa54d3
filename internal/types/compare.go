package types

import (
	"math"
	"strings"
	"time"

	"golang.org/x/exp/constraints"
)

// Compare compares two canonical values.
// It returns false if the values are not comparable with each other:
// numbers are comparable with numbers of any kind, other values only with
// values of the same kind. Containers are never comparable.
func Compare(a, b any) (int, bool) {
	switch x := a.(type) {
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		return compareBools(x, y), true
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case *Blob:
		y, ok := b.(*Blob)
		if !ok || x == nil || y == nil {
			return 0, false
		}
		return x.Compare(y), true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	}

	if ia, ok := asInt64(a); ok {
		if ib, ok := asInt64(b); ok {
			return compareOrdered(ia, ib), true
		}
	}

	fa, ok := asFloat64(a)
	if !ok {
		return 0, false
	}
	fb, ok := asFloat64(b)
	if !ok {
		return 0, false
	}
	return CompareFloats(fa, fb), true
}

// IsComparable returns true if v can be compared by Compare.
func IsComparable(v any) bool {
	switch v.(type) {
	case bool, string, *Blob, time.Time:
		return true
	}

	_, ok := asFloat64(v)
	return ok
}

func compareOrdered[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

// CompareFloats orders NaN after every other value, and considers it equal to itself.
func CompareFloats[T constraints.Float](a, b T) int {
	an, bn := math.IsNaN(float64(a)), math.IsNaN(float64(b))
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	}
	return compareOrdered(a, b)
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint:
		if uint64(x) <= math.MaxInt64 {
			return int64(x), true
		}
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x), true
		}
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case uint:
		return float64(x), true
	case uint64:
		return float64(x), true
	}

	i, ok := asInt64(v)
	return float64(i), ok
}
