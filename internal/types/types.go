// Package types defines the canonical runtime representations of values
// exchanged with the pipeline, and the generic operations on them:
// comparison, equality, hashing and deep copies.
//
// Canonical representations:
//
//	null               nil
//	boolean            bool
//	int, long          int32, int64
//	float, double      float32, float64
//	string, enum       string
//	bytes, fixed       *Blob
//	array              []any
//	map                *Map
//	timestamp          time.Time
//	record             the backing record itself
package types

// Cloner is implemented by values that know how to make a deep copy of themselves.
type Cloner interface {
	CloneValue() any
}

// Equaler is implemented by values that define their own equality.
type Equaler interface {
	EqualValue(other any) bool
}

// Hasher is implemented by values that define their own hash.
type Hasher interface {
	Hash() uint64
}
