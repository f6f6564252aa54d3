package coerce

import (
	"time"

	errs "github.com/chaisql/avrotuple/errors"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/cockroachdb/errors"
	"github.com/golang-module/carbon/v2"
)

// TimeUnit is the unit of an epoch timestamp.
type TimeUnit uint8

// Time units.
const (
	Millis TimeUnit = iota
	Micros
)

func (u TimeUnit) String() string {
	if u == Micros {
		return "micros"
	}
	return "millis"
}

func (u TimeUnit) toTime(n int64) time.Time {
	if u == Micros {
		return time.UnixMicro(n).UTC()
	}
	return time.UnixMilli(n).UTC()
}

func (u TimeUnit) fromTime(t time.Time) int64 {
	if u == Micros {
		return t.UnixMicro()
	}
	return t.UnixMilli()
}

func parseTimeUnit(s string) (TimeUnit, error) {
	switch s {
	case "millis":
		return Millis, nil
	case "micros":
		return Micros, nil
	}
	return 0, errors.Newf("unknown time unit %q", s)
}

// TimestampCoercer converts long values annotated with a timestamp logical type.
// The canonical representation is time.Time in UTC.
type TimestampCoercer struct {
	unit TimeUnit
}

// NewTimestampCoercer returns a coercer for timestamps stored in the given unit.
func NewTimestampCoercer(unit TimeUnit) *TimestampCoercer {
	return &TimestampCoercer{unit: unit}
}

func newTimestampCoercer(s *schema.Schema) Coercer {
	if s.LogicalType() == schema.LogicalTimestampMicros {
		return NewTimestampCoercer(Micros)
	}
	return NewTimestampCoercer(Millis)
}

func (c *TimestampCoercer) Unit() TimeUnit {
	return c.unit
}

func (c *TimestampCoercer) Name() string { return "timestamp-" + c.unit.String() }

func (c *TimestampCoercer) Inputs() []Repr { return []Repr{ReprTime, ReprEpoch, ReprText} }

func (c *TimestampCoercer) Native() Repr { return ReprEpoch }

func (c *TimestampCoercer) Canonical(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return x.UTC(), nil
	case int64:
		return c.unit.toTime(x), nil
	case int:
		return c.unit.toTime(int64(x)), nil
	case int32:
		return c.unit.toTime(int64(x)), nil
	case string:
		t := carbon.Parse(x, carbon.UTC)
		if t.Error != nil {
			return nil, errors.Wrapf(errs.ErrIllegalSourceState, "cannot parse timestamp %q: %v", x, t.Error)
		}
		return t.ToStdTime().UTC(), nil
	}

	return nil, unknownInput(c, v)
}

func (c *TimestampCoercer) Coerce(v any, to Repr) (any, error) {
	if v == nil {
		return nil, nil
	}

	t, ok := v.(time.Time)
	if !ok {
		return nil, notCanonical(c, v)
	}

	switch to {
	case ReprTime:
		return t, nil
	case ReprEpoch:
		return c.unit.fromTime(t), nil
	case ReprText:
		return t.UTC().Format(time.RFC3339Nano), nil
	}

	return nil, unknownTarget(c, to)
}
