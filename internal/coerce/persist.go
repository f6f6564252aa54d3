package coerce

import (
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/cockroachdb/errors"
)

// Coercers are persisted with the schema of their elements only.
// Restoring one parses the schema immediately.

func (c *ListCoercer) MarshalBinary() ([]byte, error) {
	if c.elem == nil {
		return nil, errors.New("cannot marshal list coercer without element schema")
	}
	return []byte(c.elem.String()), nil
}

func (c *ListCoercer) UnmarshalBinary(data []byte) error {
	s, err := schema.Parse(string(data))
	if err != nil {
		return errors.Wrap(err, "cannot restore list coercer")
	}
	c.elem = s
	return nil
}

func (c *MapCoercer) MarshalBinary() ([]byte, error) {
	if c.values == nil {
		return nil, errors.New("cannot marshal map coercer without value schema")
	}
	return []byte(c.values.String()), nil
}

func (c *MapCoercer) UnmarshalBinary(data []byte) error {
	s, err := schema.Parse(string(data))
	if err != nil {
		return errors.Wrap(err, "cannot restore map coercer")
	}
	c.values = s
	return nil
}

func (c *TimestampCoercer) MarshalBinary() ([]byte, error) {
	return []byte(c.unit.String()), nil
}

func (c *TimestampCoercer) UnmarshalBinary(data []byte) error {
	u, err := parseTimeUnit(string(data))
	if err != nil {
		return err
	}
	c.unit = u
	return nil
}
