package types

import (
	"sort"
	"strconv"
	"strings"
)

// Map is a string keyed map that remembers the insertion order of its keys.
// It is the canonical representation of map values.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Set the value of a key. Replacing the value of an existing key
// doesn't change its position.
func (m *Map) Set(key string, v any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value of a key.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes a key. It returns false if the key didn't exist.
func (m *Map) Delete(key string) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}

	delete(m.values, key)
	for i := range m.keys {
		if m.keys[i] == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

func (m *Map) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Iterate calls fn for each entry in insertion order.
// If fn returns an error, the iteration stops.
func (m *Map) Iterate(fn func(key string, v any) error) error {
	for _, k := range m.keys {
		if err := fn(k, m.values[k]); err != nil {
			return err
		}
	}
	return nil
}

// Equal returns true if both maps hold the same entries, regardless of their order.
func (m *Map) Equal(other *Map) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Len() != other.Len() {
		return false
	}

	for k, v := range m.values {
		ov, ok := other.values[k]
		if !ok || !Equal(v, ov) {
			return false
		}
	}
	return true
}

func (m *Map) String() string {
	var sb strings.Builder

	sb.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(k))
		sb.WriteString(": ")
		sb.WriteString(Format(m.values[k]))
	}
	sb.WriteByte('}')

	return sb.String()
}

// SortedKeys returns the keys of m in lexicographic order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
