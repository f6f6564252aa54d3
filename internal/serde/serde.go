// Package serde defines how a pipeline host streams values through
// pluggable serializations.
//
// A Serialization declares which values it accepts and creates the
// Serializer and Deserializer that move them across a byte stream.
// A Factory selects the serialization of a value among the registered ones.
package serde

import (
	"io"

	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/cockroachdb/errors"
)

// ErrNoSerialization is returned when no registered serialization accepts a value.
var ErrNoSerialization = errors.New("no serialization accepts value")

// Config carries the job settings needed by serializations.
type Config struct {
	// InputSchema describes the records read and written by the job.
	InputSchema *schema.Schema
}

// A Serializer writes values to a stream.
type Serializer interface {
	Open(w io.WriteCloser) error
	Serialize(v any) error
	Close() error
}

// A Deserializer reads values from a stream.
type Deserializer interface {
	Open(r io.ReadCloser) error
	// Deserialize reads the next value. reuse is a hint: implementations
	// may decode into it. It returns io.EOF at the end of the stream.
	Deserialize(reuse any) (any, error)
	Close() error
}

// A Serialization creates serializers for the values it accepts.
type Serialization interface {
	Name() string
	Accept(v any) bool
	Serializer() (Serializer, error)
	Deserializer() (Deserializer, error)
}

// Factory holds serializations in registration order.
type Factory struct {
	serializations []Serialization
	byName         map[string]int
}

// NewFactory returns a factory holding ss.
func NewFactory(ss ...Serialization) *Factory {
	f := Factory{
		byName: make(map[string]int),
	}
	for _, s := range ss {
		f.Add(s)
	}
	return &f
}

// Add registers s. A serialization with the same name is replaced.
func (f *Factory) Add(s Serialization) {
	if i, ok := f.byName[s.Name()]; ok {
		f.serializations[i] = s
		return
	}

	f.byName[s.Name()] = len(f.serializations)
	f.serializations = append(f.serializations, s)
}

// Get the named serialization.
func (f *Factory) Get(name string) Serialization {
	i, ok := f.byName[name]
	if !ok {
		return nil
	}
	return f.serializations[i]
}

// Names returns the names of the registered serializations, in registration order.
func (f *Factory) Names() []string {
	names := make([]string, 0, len(f.serializations))
	for _, s := range f.serializations {
		names = append(names, s.Name())
	}
	return names
}

// For returns the first serialization accepting v.
func (f *Factory) For(v any) (Serialization, error) {
	for _, s := range f.serializations {
		if s.Accept(v) {
			return s, nil
		}
	}

	return nil, errors.Wrapf(ErrNoSerialization, "%T", v)
}

// SerializerFor returns a serializer for v.
func (f *Factory) SerializerFor(v any) (Serializer, error) {
	s, err := f.For(v)
	if err != nil {
		return nil, err
	}
	return s.Serializer()
}

// DeserializerFor returns a deserializer for values like v.
func (f *Factory) DeserializerFor(v any) (Deserializer, error) {
	s, err := f.For(v)
	if err != nil {
		return nil, err
	}
	return s.Deserializer()
}
