// Package codec streams tuples backed by records as a sequence of binary
// encoded records, without any framing or header.
//
// Both the Writer and the Reader are bound to one record schema, which must
// be the same on both ends of the stream.
//
// Reuse: the Reader decodes every record into the same backing record.
// The tuple returned by ReadRecord is only valid until the next call: reading
// again overwrites its values, including the content of byte slices. Callers
// that need to retain a tuple must copy it, with tuple.Copy or Record().Clone().
package codec

import (
	"bufio"
	"io"

	errs "github.com/chaisql/avrotuple/errors"
	"github.com/chaisql/avrotuple/internal/encoding"
	"github.com/chaisql/avrotuple/internal/recordtuple"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/cockroachdb/errors"
)

// BlockSize is the size of the buffer between the encoder and the sink.
const BlockSize = 512

// Writer writes tuples to a sink.
// Every record is flushed to the sink once written.
type Writer struct {
	schema *schema.Schema
	enc    *encoding.Encoder

	out io.Writer
	bw  *bufio.Writer
}

// NewWriter returns a writer of records of schema s.
func NewWriter(s *schema.Schema) (*Writer, error) {
	if s == nil || s.Type() != schema.TypeRecord {
		return nil, errors.Wrap(errs.ErrSchemaRequired, "cannot create writer")
	}

	return &Writer{
		schema: s,
		enc:    encoding.NewEncoder(),
	}, nil
}

// Open binds the writer to out.
func (w *Writer) Open(out io.Writer) error {
	if w.out != nil {
		return errors.New("writer is already open")
	}

	w.out = out
	if w.bw == nil {
		w.bw = bufio.NewWriterSize(out, BlockSize)
	} else {
		w.bw.Reset(out)
	}
	return nil
}

// WriteRecord encodes the record backing t and flushes it to the sink.
func (w *Writer) WriteRecord(t *recordtuple.Tuple) error {
	if w.out == nil {
		return errors.Wrap(errs.ErrClosed, "cannot write record")
	}
	if t == nil || t.Record() == nil {
		return errors.Wrap(errs.ErrIllegalSourceState, "cannot write a nil record")
	}
	if !t.Schema().Equal(w.schema) {
		return errors.Wrapf(errs.ErrSchemaMismatch, "cannot write %s record with a %s writer", t.Schema().FullName(), w.schema.FullName())
	}

	b, err := w.enc.Encode(t.Record())
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(b); err != nil {
		return err
	}

	return w.bw.Flush()
}

// Close closes the sink if it implements io.Closer.
// Closing a writer that is not open does nothing.
func (w *Writer) Close() error {
	if w.out == nil {
		return nil
	}

	out := w.out
	w.out = nil

	if c, ok := out.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
