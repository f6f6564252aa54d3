package types

import (
	"bytes"
	"encoding/hex"
)

// Blob is a mutable wrapper around a byte slice.
// It is the canonical representation of bytes and fixed values.
type Blob struct {
	data []byte
}

// NewBlob returns a Blob wrapping b. The slice is not copied.
func NewBlob(b []byte) *Blob {
	return &Blob{data: b}
}

// Bytes returns the wrapped slice.
func (b *Blob) Bytes() []byte {
	return b.data
}

func (b *Blob) Len() int {
	return len(b.data)
}

// Set copies p into the blob, reusing its capacity when possible.
func (b *Blob) Set(p []byte) {
	b.data = append(b.data[:0], p...)
}

// Compare compares the content of both blobs lexicographically.
func (b *Blob) Compare(other *Blob) int {
	return bytes.Compare(b.data, other.data)
}

func (b *Blob) Equal(other *Blob) bool {
	if b == nil || other == nil {
		return b == other
	}
	return bytes.Equal(b.data, other.data)
}

// Clone returns a blob holding a copy of the data.
func (b *Blob) Clone() *Blob {
	return &Blob{data: bytes.Clone(b.data)}
}

func (b *Blob) String() string {
	return hex.EncodeToString(b.data)
}
