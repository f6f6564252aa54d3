package types

import "bytes"

// Clone returns a deep copy of v that shares no memory with it.
func Clone(v any) any {
	switch x := v.(type) {
	case *Blob:
		if x == nil {
			return x
		}
		return x.Clone()
	case *Map:
		if x == nil {
			return x
		}
		m := NewMap()
		for _, k := range x.keys {
			m.Set(k, Clone(x.values[k]))
		}
		return m
	case []byte:
		return bytes.Clone(x)
	case []any:
		if x == nil {
			return x
		}
		l := make([]any, len(x))
		for i := range x {
			l[i] = Clone(x[i])
		}
		return l
	case map[string]any:
		if x == nil {
			return x
		}
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[k] = Clone(v)
		}
		return m
	case Cloner:
		return x.CloneValue()
	}

	return v
}
