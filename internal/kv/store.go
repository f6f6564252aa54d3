// Package kv stores encoded records in Pebble.
//
// Records are kept under a generated KSUID. Keys generated by one store
// sort in the order records were put.
package kv

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	errs "github.com/chaisql/avrotuple/errors"
	"github.com/chaisql/avrotuple/internal/encoding"
	"github.com/chaisql/avrotuple/internal/record"
	"github.com/chaisql/avrotuple/internal/recordtuple"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/segmentio/ksuid"
)

const recordPrefix byte = 'r'

// ErrKeyNotFound is returned when the targeted key doesn't exist.
var ErrKeyNotFound = errors.New("key not found")

// Store is a Pebble database of records of one schema.
type Store struct {
	DB *pebble.DB

	schema    *schema.Schema
	path      string
	transient bool
	writeOpts *pebble.WriteOptions

	enc *encoding.Encoder
	seq ksuid.Sequence
}

// Open opens the store at path. It takes the same options as pebble.Open.
// If path is ":memory:", the store is kept in memory.
func Open(path string, opts *pebble.Options, s *schema.Schema) (*Store, error) {
	if s == nil || s.Type() != schema.TypeRecord {
		return nil, errors.Wrap(errs.ErrSchemaRequired, "cannot open store")
	}

	if opts == nil {
		opts = &pebble.Options{}
	}
	if path == ":memory:" {
		opts.FS = vfs.NewMem()
		path = ""
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, err
	}

	return newStore(db, path, s, pebble.Sync), nil
}

// OpenTransient opens a store whose content doesn't need to survive a crash,
// like records spilled by a pipeline. It must be released with Drop.
func OpenTransient(dir string, s *schema.Schema) (*Store, error) {
	if s == nil || s.Type() != schema.TypeRecord {
		return nil, errors.Wrap(errs.ErrSchemaRequired, "cannot open store")
	}

	opts := pebble.Options{
		DisableWAL: true,
	}

	var path string
	if dir == ":memory:" {
		opts.FS = vfs.NewMem()
	} else {
		if dir == "" {
			dir = os.TempDir()
		}
		path = filepath.Join(dir, fmt.Sprintf(".avrotuple-transient-%d", time.Now().Unix()+rand.Int63()))
	}

	db, err := pebble.Open(path, &opts)
	if err != nil {
		return nil, err
	}

	st := newStore(db, path, s, pebble.NoSync)
	st.transient = true
	return st, nil
}

func newStore(db *pebble.DB, path string, s *schema.Schema, wo *pebble.WriteOptions) *Store {
	return &Store{
		DB:        db,
		schema:    s,
		path:      path,
		writeOpts: wo,
		enc:       encoding.NewEncoder(),
		seq:       ksuid.Sequence{Seed: ksuid.New()},
	}
}

// Schema returns the schema of the stored records.
func (s *Store) Schema() *schema.Schema {
	return s.schema
}

func buildKey(id ksuid.KSUID) []byte {
	key := make([]byte, 0, 1+len(ksuid.KSUID{}))
	key = append(key, recordPrefix)
	return append(key, id.Bytes()...)
}

func (s *Store) nextID() (ksuid.KSUID, error) {
	id, err := s.seq.Next()
	if err == nil {
		return id, nil
	}

	// the sequence is exhausted, continue after its last id to keep keys ordered
	_, last := s.seq.Bounds()
	s.seq = ksuid.Sequence{Seed: last.Next()}
	return s.seq.Next()
}

// Put stores the record backing t and returns its key.
func (s *Store) Put(t *recordtuple.Tuple) (ksuid.KSUID, error) {
	if !t.Schema().Equal(s.schema) {
		return ksuid.Nil, errors.Wrapf(errs.ErrSchemaMismatch, "cannot store %s record", t.Schema().FullName())
	}

	v, err := s.enc.Encode(t.Record())
	if err != nil {
		return ksuid.Nil, err
	}

	id, err := s.nextID()
	if err != nil {
		return ksuid.Nil, err
	}

	return id, s.DB.Set(buildKey(id), v, s.writeOpts)
}

// Get returns the record stored under id. If not found, returns ErrKeyNotFound.
func (s *Store) Get(id ksuid.KSUID) (*recordtuple.Tuple, error) {
	value, closer, err := s.DB.Get(buildKey(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errors.WithStack(ErrKeyNotFound)
		}

		return nil, err
	}

	rec, err := record.New(s.schema)
	if err == nil {
		err = encoding.DecodeRecord(value, rec)
	}
	if cerr := closer.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}

	return recordtuple.New(rec), nil
}

// Delete a record by key. If not found, returns ErrKeyNotFound.
func (s *Store) Delete(id ksuid.KSUID) error {
	key := buildKey(id)

	_, closer, err := s.DB.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return errors.WithStack(ErrKeyNotFound)
		}

		return err
	}
	err = closer.Close()
	if err != nil {
		return err
	}

	return s.DB.Delete(key, s.writeOpts)
}

// Iterate calls fn for every record in key order.
// All the records are decoded into the same tuple, which is only valid until fn returns.
// If fn returns an error, the iteration stops.
func (s *Store) Iterate(fn func(id ksuid.KSUID, t *recordtuple.Tuple) error) error {
	it := s.DB.NewIter(&pebble.IterOptions{
		LowerBound: []byte{recordPrefix},
		UpperBound: []byte{recordPrefix + 1},
	})
	defer it.Close()

	rec, err := record.New(s.schema)
	if err != nil {
		return err
	}
	t := recordtuple.New(rec)

	for it.First(); it.Valid(); it.Next() {
		id, err := ksuid.FromBytes(it.Key()[1:])
		if err != nil {
			return errors.Wrap(err, "invalid key")
		}

		if err := encoding.DecodeRecord(it.Value(), rec); err != nil {
			return errors.Wrapf(err, "cannot decode record %s", id)
		}

		if err := fn(id, t); err != nil {
			return err
		}
	}

	return it.Error()
}

// Close the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Drop closes a transient store and removes its files.
func (s *Store) Drop() error {
	if !s.transient {
		return errors.New("only transient stores can be dropped")
	}

	_ = s.DB.Close()

	if s.path == "" {
		return nil
	}
	return os.RemoveAll(s.path)
}
