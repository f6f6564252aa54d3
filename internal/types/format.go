package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format returns a human readable representation of v.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case []byte:
		return NewBlob(x).String()
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case []any:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(Format(e))
		}
		sb.WriteByte(']')
		return sb.String()
	case map[string]any:
		m := NewMap()
		for _, k := range SortedKeys(x) {
			m.Set(k, x[k])
		}
		return m.String()
	}

	return fmt.Sprint(v)
}
