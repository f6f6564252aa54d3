package recutil

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/chaisql/avrotuple/internal/codec"
	"github.com/chaisql/avrotuple/internal/encoding"
	"github.com/chaisql/avrotuple/internal/record"
	"github.com/chaisql/avrotuple/internal/recordtuple"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/cockroachdb/errors"
	"github.com/linkedin/goavro/v2"
)

const maxLineSize = 1 << 24

// Encode reads one JSON record per line from r and writes them to w
// as binary encoded records. Empty lines are skipped.
// It returns the number of records written.
func Encode(ctx context.Context, s *schema.Schema, r io.Reader, w io.Writer) (int, error) {
	jc, err := goavro.NewCodec(s.String())
	if err != nil {
		return 0, errors.Wrap(err, "cannot compile schema")
	}

	rec, err := record.New(s)
	if err != nil {
		return 0, err
	}
	t := recordtuple.New(rec)

	cw, err := codec.NewWriter(s)
	if err != nil {
		return 0, err
	}
	if err := cw.Open(w); err != nil {
		return 0, err
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLineSize)

	var n int
	var buf []byte
	for line := 1; sc.Scan(); line++ {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}

		native, _, err := jc.NativeFromTextual(text)
		if err != nil {
			return n, errors.Wrapf(err, "line %d", line)
		}

		buf, err = jc.BinaryFromNative(buf[:0], native)
		if err != nil {
			return n, errors.Wrapf(err, "line %d", line)
		}

		if err := encoding.DecodeRecord(buf, rec); err != nil {
			return n, errors.Wrapf(err, "line %d", line)
		}

		if err := cw.WriteRecord(t); err != nil {
			return n, err
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, err
	}

	return n, cw.Close()
}
