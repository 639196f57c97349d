package oxml

import (
	"slices"
)

// Unknown is an xml part the engine has no model for. It is written back
// as it was read.
type Unknown struct {
	name string
	data []byte
}

func NewUnknown(name string, data []byte) *Unknown {
	return &Unknown{
		name: name,
		data: data,
	}
}

func (u *Unknown) Name() string {
	return u.name
}

func (u *Unknown) Encode() ([]byte, error) {
	return u.data, nil
}

// Blob holds the bytes of a binary part such as an image.
type Blob struct {
	name string
	data []byte
}

func NewBlob(name string, data []byte) *Blob {
	return &Blob{
		name: name,
		data: slices.Clone(data),
	}
}

func (b *Blob) Name() string {
	return b.name
}

func (b *Blob) Bytes() []byte {
	return slices.Clone(b.data)
}

func (b *Blob) Len() int {
	return len(b.data)
}

func (b *Blob) Encode() ([]byte, error) {
	return b.data, nil
}
