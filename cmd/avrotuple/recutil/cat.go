package recutil

import (
	"context"
	"fmt"
	"io"

	"github.com/chaisql/avrotuple/internal/codec"
	"github.com/chaisql/avrotuple/internal/encoding"
	"github.com/chaisql/avrotuple/internal/recordtuple"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/chaisql/avrotuple/internal/tuple"
	"github.com/cockroachdb/errors"
	"github.com/linkedin/goavro/v2"
)

// Cat reads binary encoded records from r and prints them to w, one per line.
// If fields is empty, records are printed as JSON. Otherwise only the selected
// fields are printed, as a tuple.
func Cat(ctx context.Context, s *schema.Schema, r io.Reader, w io.Writer, fields ...string) (int, error) {
	cr, err := codec.NewReader(s, recordtuple.Unmodifiable())
	if err != nil {
		return 0, err
	}
	if err := cr.Open(r); err != nil {
		return 0, err
	}
	defer cr.Close()

	printRecord := jsonPrinter(s, w)
	if len(fields) > 0 {
		printRecord = tuplePrinter(w, tuple.NewFields(fields...))
	}

	var n int
	var t *recordtuple.Tuple
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		t, err = cr.ReadRecord(t)
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, errors.Wrapf(err, "record %d", n)
		}

		if err := printRecord(t); err != nil {
			return n, err
		}
		n++
	}
}

func tuplePrinter(w io.Writer, selector tuple.Fields) func(t *recordtuple.Tuple) error {
	return func(t *recordtuple.Tuple) error {
		pos, err := t.Positions(t.Fields(), selector)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, tuple.Format(t.Narrow(pos)))
		return err
	}
}

func jsonPrinter(s *schema.Schema, w io.Writer) func(t *recordtuple.Tuple) error {
	var jc *goavro.Codec
	var bin, text []byte

	return func(t *recordtuple.Tuple) error {
		var err error
		if jc == nil {
			jc, err = goavro.NewCodec(s.String())
			if err != nil {
				return errors.Wrap(err, "cannot compile schema")
			}
		}

		bin, err = encoding.AppendRecord(bin[:0], t.Record())
		if err != nil {
			return err
		}

		native, _, err := jc.NativeFromBinary(bin)
		if err != nil {
			return err
		}

		text, err = jc.TextualFromNative(text[:0], native)
		if err != nil {
			return err
		}
		text = append(text, '\n')

		_, err = w.Write(text)
		return err
	}
}
