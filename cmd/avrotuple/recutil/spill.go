package recutil

import (
	"context"
	"io"

	"github.com/chaisql/avrotuple/internal/codec"
	"github.com/chaisql/avrotuple/internal/kv"
	"github.com/chaisql/avrotuple/internal/record"
	"github.com/chaisql/avrotuple/internal/recordtuple"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"
	"golang.org/x/sync/errgroup"
)

// Spill copies the records read from r to a transient store created in dir,
// then writes them to w in the order they were read.
// It returns the number of records copied.
func Spill(ctx context.Context, s *schema.Schema, r io.Reader, w io.Writer, dir string) (int, error) {
	st, err := kv.OpenTransient(dir, s)
	if err != nil {
		return 0, err
	}
	defer st.Drop()

	n, err := fill(ctx, st, r)
	if err != nil {
		return n, err
	}

	cw, err := codec.NewWriter(s)
	if err != nil {
		return n, err
	}
	if err := cw.Open(w); err != nil {
		return n, err
	}

	err = st.Iterate(func(_ ksuid.KSUID, t *recordtuple.Tuple) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return cw.WriteRecord(t)
	})
	if err != nil {
		return n, err
	}

	return n, cw.Close()
}

// fill decodes records in one goroutine and stores them in another.
func fill(ctx context.Context, st *kv.Store, r io.Reader) (int, error) {
	cr, err := codec.NewReader(st.Schema())
	if err != nil {
		return 0, err
	}
	if err := cr.Open(r); err != nil {
		return 0, err
	}
	defer cr.Close()

	g, ctx := errgroup.WithContext(ctx)
	recs := make(chan *record.Record, 64)

	g.Go(func() error {
		defer close(recs)

		var t *recordtuple.Tuple
		for {
			var err error
			t, err = cr.ReadRecord(t)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}

			select {
			case recs <- t.Record().Clone():
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	var n int
	g.Go(func() error {
		for rec := range recs {
			if _, err := st.Put(recordtuple.New(rec)); err != nil {
				return err
			}
			n++
		}
		return nil
	})

	err = g.Wait()
	return n, err
}
