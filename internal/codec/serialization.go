package codec

import (
	"io"

	"github.com/chaisql/avrotuple/internal/recordtuple"
	"github.com/chaisql/avrotuple/internal/serde"
	"github.com/cockroachdb/errors"
)

// Name of the serialization.
const Name = "avrotuple"

var _ serde.Serialization = (*Serialization)(nil)

// Serialization streams *recordtuple.Tuple values of the input schema of a job.
type Serialization struct {
	conf serde.Config
	opts []recordtuple.Option
}

// NewSerialization returns a serialization configured by conf.
// opts are applied to the deserialized tuples.
func NewSerialization(conf serde.Config, opts ...recordtuple.Option) *Serialization {
	return &Serialization{conf: conf, opts: opts}
}

func (s *Serialization) Name() string { return Name }

// Accept returns true for *recordtuple.Tuple values.
func (s *Serialization) Accept(v any) bool {
	_, ok := v.(*recordtuple.Tuple)
	return ok
}

func (s *Serialization) Serializer() (serde.Serializer, error) {
	w, err := NewWriter(s.conf.InputSchema)
	if err != nil {
		return nil, err
	}
	return &serializer{w: w}, nil
}

func (s *Serialization) Deserializer() (serde.Deserializer, error) {
	r, err := NewReader(s.conf.InputSchema, s.opts...)
	if err != nil {
		return nil, err
	}
	return &deserializer{r: r}, nil
}

type serializer struct {
	w *Writer
}

func (s *serializer) Open(w io.WriteCloser) error {
	return s.w.Open(w)
}

func (s *serializer) Serialize(v any) error {
	t, ok := v.(*recordtuple.Tuple)
	if !ok {
		return errors.Wrapf(serde.ErrNoSerialization, "%s cannot serialize %T", Name, v)
	}
	return s.w.WriteRecord(t)
}

func (s *serializer) Close() error {
	return s.w.Close()
}

type deserializer struct {
	r *Reader
}

func (d *deserializer) Open(r io.ReadCloser) error {
	return d.r.Open(r)
}

func (d *deserializer) Deserialize(reuse any) (any, error) {
	hint, _ := reuse.(*recordtuple.Tuple)
	t, err := d.r.ReadRecord(hint)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (d *deserializer) Close() error {
	return d.r.Close()
}
