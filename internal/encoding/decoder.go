package encoding

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"slices"

	"github.com/chaisql/avrotuple/internal/record"
	"github.com/chaisql/avrotuple/internal/schema"
	"github.com/cockroachdb/errors"
)

// readChunk is the largest allocation made before the bytes to fill it are read.
const readChunk = 64 << 10

// Decoder decodes records from a stream.
// It never reads past the end of the record being decoded: if the underlying
// reader isn't an io.ByteReader, varints are read one byte at a time.
type Decoder struct {
	r  io.Reader
	br io.ByteReader

	// number of bytes read for the current record
	read int
	one  [1]byte
	buf  []byte
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	var d Decoder
	d.Reset(r)
	return &d
}

// Reset makes the decoder read from r.
func (d *Decoder) Reset(r io.Reader) {
	d.r = r
	d.br, _ = r.(io.ByteReader)
	d.read = 0
}

// Decode reads the next record into rec, reusing the values it already holds
// when possible. Byte slices of rec are overwritten in place.
// It returns io.EOF if the stream ends before the record starts and
// io.ErrUnexpectedEOF if it ends in the middle of it.
func (d *Decoder) Decode(rec *record.Record) error {
	d.read = 0

	for _, f := range rec.Schema().Fields() {
		prev, _ := rec.Get(f.Pos)
		v, err := d.decodeValue(prev, f.Schema)
		if err != nil {
			if err == io.EOF && d.read == 0 {
				return io.EOF
			}
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return errors.Wrapf(err, "cannot decode field %q", f.Name)
		}
		_ = rec.Put(f.Pos, v)
	}

	return nil
}

// DecodeRecord decodes b into rec. b must contain exactly one record.
func DecodeRecord(b []byte, rec *record.Record) error {
	r := bytes.NewReader(b)
	if err := NewDecoder(r).Decode(rec); err != nil {
		return err
	}
	if r.Len() != 0 {
		return errors.Wrapf(ErrCorrupt, "%d trailing bytes after record", r.Len())
	}
	return nil
}

func (d *Decoder) decodeValue(prev any, s *schema.Schema) (any, error) {
	switch s.Type() {
	case schema.TypeNull:
		return nil, nil
	case schema.TypeBoolean:
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}
		if b > 1 {
			return nil, errors.Wrapf(ErrCorrupt, "invalid boolean %d", b)
		}
		return b == 1, nil
	case schema.TypeInt:
		return d.readInt()
	case schema.TypeLong:
		return d.readLong()
	case schema.TypeFloat:
		b, err := d.readN(4)
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
	case schema.TypeDouble:
		b, err := d.readN(8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
	case schema.TypeBytes:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		p, _ := prev.([]byte)
		return d.readInto(p, n)
	case schema.TypeString:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		b, err := d.readN(n)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case schema.TypeFixed:
		p, _ := prev.([]byte)
		return d.readInto(p, s.Size())
	case schema.TypeEnum:
		i, err := d.readInt()
		if err != nil {
			return nil, err
		}
		if i < 0 || int(i) >= len(s.Symbols()) {
			return nil, errors.Wrapf(ErrCorrupt, "invalid symbol index %d for enum %s", i, s.FullName())
		}
		return s.Symbols()[i], nil
	case schema.TypeUnion:
		i, err := d.readLong()
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= int64(len(s.Branches())) {
			return nil, errors.Wrapf(ErrCorrupt, "invalid union index %d", i)
		}
		return d.decodeValue(prev, s.Branches()[i])
	case schema.TypeArray:
		return d.decodeArray(prev, s.Items())
	case schema.TypeMap:
		return d.decodeMap(prev, s.Values())
	case schema.TypeRecord:
		rec, ok := prev.(*record.Record)
		if !ok || rec.Schema() != s {
			var err error
			rec, err = record.New(s)
			if err != nil {
				return nil, err
			}
		}
		for _, f := range s.Fields() {
			p, _ := rec.Get(f.Pos)
			v, err := d.decodeValue(p, f.Schema)
			if err != nil {
				return nil, err
			}
			_ = rec.Put(f.Pos, v)
		}
		return rec, nil
	}

	return nil, errors.Newf("unsupported type %s", s.Type())
}

func (d *Decoder) decodeArray(prev any, items *schema.Schema) (any, error) {
	old, _ := prev.([]any)
	l := old[:0]

	for {
		n, err := d.readBlockCount()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return l, nil
		}

		for i := 0; i < n; i++ {
			var p any
			if len(l) < len(old) {
				p = old[len(l)]
			}
			v, err := d.decodeValue(p, items)
			if err != nil {
				return nil, err
			}
			l = append(l, v)
		}
	}
}

func (d *Decoder) decodeMap(prev any, values *schema.Schema) (any, error) {
	m, _ := prev.(map[string]any)
	if m == nil {
		m = make(map[string]any)
	} else {
		clear(m)
	}

	for {
		n, err := d.readBlockCount()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return m, nil
		}

		for i := 0; i < n; i++ {
			kl, err := d.readLength()
			if err != nil {
				return nil, err
			}
			k, err := d.readN(kl)
			if err != nil {
				return nil, err
			}
			key := string(k)

			v, err := d.decodeValue(nil, values)
			if err != nil {
				return nil, err
			}
			m[key] = v
		}
	}
}

// readBlockCount reads the item count of a block. A negative count is
// followed by the size of the block in bytes, which is ignored.
func (d *Decoder) readBlockCount() (int, error) {
	n, err := d.readLong()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		if n == math.MinInt64 {
			return 0, errors.Wrap(ErrCorrupt, "invalid block count")
		}
		n = -n
		if _, err := d.readLong(); err != nil {
			return 0, err
		}
	}
	if n > MaxLength {
		return 0, errors.Wrapf(ErrCorrupt, "block count %d too large", n)
	}
	return int(n), nil
}

func (d *Decoder) readLength() (int, error) {
	n, err := d.readLong()
	if err != nil {
		return 0, err
	}
	if n < 0 || n > MaxLength {
		return 0, errors.Wrapf(ErrCorrupt, "invalid length %d", n)
	}
	return int(n), nil
}

func (d *Decoder) readInt() (int32, error) {
	n, err := d.readLong()
	if err != nil {
		return 0, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, errors.Wrapf(ErrCorrupt, "int %d out of range", n)
	}
	return int32(n), nil
}

func (d *Decoder) readLong() (int64, error) {
	var u uint64
	for i := 0; i < binary.MaxVarintLen64; i++ {
		b, err := d.readByte()
		if err != nil {
			if i > 0 && err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		if i == binary.MaxVarintLen64-1 && b > 1 {
			break
		}
		u |= uint64(b&0x7f) << (7 * i)
		if b < 0x80 {
			return unzigzag(u), nil
		}
	}

	return 0, errors.Wrap(ErrCorrupt, "varint overflows a 64-bit integer")
}

func (d *Decoder) readByte() (byte, error) {
	if d.br != nil {
		b, err := d.br.ReadByte()
		if err != nil {
			return 0, err
		}
		d.read++
		return b, nil
	}

	n, err := d.r.Read(d.one[:])
	for n == 0 && err == nil {
		n, err = d.r.Read(d.one[:])
	}
	if n == 1 {
		d.read++
		return d.one[0], nil
	}
	return 0, err
}

// readN reads n bytes into the internal buffer of the decoder.
// The returned slice is only valid until the next read.
func (d *Decoder) readN(n int) ([]byte, error) {
	p, err := d.readInto(d.buf, n)
	if cap(p) > cap(d.buf) {
		d.buf = p[:0]
	}
	return p, err
}

// readInto reads n bytes into p, reusing its capacity.
// Lengths larger than readChunk are read chunk by chunk, so that memory
// grows with the data actually read rather than with the declared length.
func (d *Decoder) readInto(p []byte, n int) ([]byte, error) {
	if n == 0 {
		return p[:0], nil
	}
	if cap(p) < n && n > readChunk {
		return d.readChunks(p[:0], n)
	}

	if cap(p) >= n {
		p = p[:n]
	} else {
		p = make([]byte, n)
	}

	read, err := io.ReadFull(d.r, p)
	d.read += read
	if err != nil {
		return nil, unexpectedEOF(err)
	}
	return p, nil
}

func (d *Decoder) readChunks(p []byte, n int) ([]byte, error) {
	for len(p) < n {
		step := min(n-len(p), readChunk)
		p = slices.Grow(p, step)

		read, err := io.ReadFull(d.r, p[len(p):len(p)+step])
		d.read += read
		p = p[:len(p)+read]
		if err != nil {
			return nil, unexpectedEOF(err)
		}
	}

	return p, nil
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
