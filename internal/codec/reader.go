package codec

import (
	"io"

	errs "github.com/chaisql/avrotuple/errors"
	"github.com/chaisql/avrotuple/internal/encoding"
	"github.com/chaisql/avrotuple/internal/record"
	"github.com/chaisql/avrotuple/internal/recordtuple"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/cockroachdb/errors"
)

// Reader reads tuples from a source.
// It never reads past the end of the record being decoded.
type Reader struct {
	schema *schema.Schema
	opts   []recordtuple.Option

	in  io.Reader
	dec *encoding.Decoder
	rec *record.Record
}

// NewReader returns a reader of records of schema s.
// opts are applied to the returned tuples.
func NewReader(s *schema.Schema, opts ...recordtuple.Option) (*Reader, error) {
	if s == nil || s.Type() != schema.TypeRecord {
		return nil, errors.Wrap(errs.ErrSchemaRequired, "cannot create reader")
	}

	return &Reader{
		schema: s,
		opts:   opts,
	}, nil
}

// Open binds the reader to in.
func (r *Reader) Open(in io.Reader) error {
	if r.in != nil {
		return errors.New("reader is already open")
	}

	r.in = in
	if r.dec == nil {
		r.dec = encoding.NewDecoder(in)
	} else {
		r.dec.Reset(in)
	}
	return nil
}

// ReadRecord decodes the next record.
// If reuse is backed by a record of the same schema, that record is decoded
// into; otherwise the record retained by the reader is.
// The returned tuple is overwritten by the next call.
// It returns io.EOF when the source ends between two records.
func (r *Reader) ReadRecord(reuse *recordtuple.Tuple) (*recordtuple.Tuple, error) {
	if r.in == nil {
		return nil, errors.Wrap(errs.ErrClosed, "cannot read record")
	}

	rec := r.rec
	if reuse != nil && reuse.Schema().Equal(r.schema) {
		rec = reuse.Record()
	}
	if rec == nil {
		var err error
		rec, err = record.New(r.schema)
		if err != nil {
			return nil, err
		}
	}

	if err := r.dec.Decode(rec); err != nil {
		return nil, err
	}

	r.rec = rec
	return recordtuple.New(rec, r.opts...), nil
}

// Close closes the source if it implements io.Closer.
// Closing a reader that is not open does nothing.
func (r *Reader) Close() error {
	if r.in == nil {
		return nil
	}

	in := r.in
	r.in = nil

	if c, ok := in.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
