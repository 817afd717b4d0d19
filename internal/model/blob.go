package model

import (
	"bytes"

	"github.com/google/uuid"
)

// Blob is an immutable binary value (captured image, audio clip). Every
// blob carries an identity token assigned at creation; the blob store keys
// its write memoization on that token, so two blobs holding identical bytes
// are still distinct values.
type Blob struct {
	id   string
	data []byte
}

// NewBlob creates a blob holding a private copy of data.
func NewBlob(data []byte) *Blob {
	d := make([]byte, len(data))
	copy(d, data)
	return &Blob{
		id:   uuid.NewString(),
		data: d,
	}
}

// ID returns the identity token assigned at creation.
func (b *Blob) ID() string {
	return b.id
}

// Data returns the underlying bytes. Callers must not mutate the result.
func (b *Blob) Data() []byte {
	return b.data
}

// Len returns the size of the blob in bytes.
func (b *Blob) Len() int {
	return len(b.data)
}

// Equal reports whether two blobs hold the same bytes. Identity tokens are
// not compared.
func (b *Blob) Equal(other *Blob) bool {
	if b == nil || other == nil {
		return b == other
	}
	return bytes.Equal(b.data, other.data)
}
