package coerce

import (
	"time"

	"github.com/chaisql/avrotuple/internal/tuple"
	"github.com/chaisql/avrotuple/internal/types"
)

// Repr identifies a runtime representation a coercer can consume or produce.
type Repr uint8

// List of representations.
const (
	ReprUnknown Repr = iota
	// ReprBlob is *types.Blob.
	ReprBlob
	// ReprByteBuffer is []byte.
	ReprByteBuffer
	// ReprList is []any.
	ReprList
	// ReprTuple is any tuple.Tuple.
	ReprTuple
	// ReprMap is *types.Map.
	ReprMap
	// ReprNativeMap is map[string]any.
	ReprNativeMap
	// ReprTime is time.Time.
	ReprTime
	// ReprEpoch is an int64 number of time units since the Unix epoch.
	ReprEpoch
	// ReprText is string.
	ReprText
)

var reprNames = [...]string{
	ReprUnknown:    "unknown",
	ReprBlob:       "blob",
	ReprByteBuffer: "byte buffer",
	ReprList:       "list",
	ReprTuple:      "tuple",
	ReprMap:        "map",
	ReprNativeMap:  "native map",
	ReprTime:       "time",
	ReprEpoch:      "epoch",
	ReprText:       "text",
}

func (r Repr) String() string {
	if int(r) < len(reprNames) {
		return reprNames[r]
	}
	return reprNames[ReprUnknown]
}

// ReprOf returns the representation of v.
func ReprOf(v any) Repr {
	switch v.(type) {
	case *types.Blob:
		return ReprBlob
	case []byte:
		return ReprByteBuffer
	case []any:
		return ReprList
	case *types.Map:
		return ReprMap
	case map[string]any:
		return ReprNativeMap
	case time.Time:
		return ReprTime
	case int64:
		return ReprEpoch
	case string:
		return ReprText
	case tuple.Tuple:
		return ReprTuple
	}

	return ReprUnknown
}
