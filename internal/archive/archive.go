package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"slices"
)

var (
	ErrFile   = errors.New("invalid archive")
	ErrClosed = errors.New("archive closed")
)

const contentTypesFile = "[Content_Types].xml"

var magicZipBytes = [][]byte{
	{0x50, 0x4b, 0x03, 0x04},
	{0x50, 0x4b, 0x05, 0x06},
	{0x50, 0x4b, 0x07, 0x08},
}

func IsZip(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	return slices.ContainsFunc(magicZipBytes, func(magic []byte) bool {
		return bytes.Equal(data[:4], magic)
	})
}

// Archive gives access to the entries of a zip file. Entries are read on
// demand and never decompressed twice by the archive itself: callers are
// expected to cache what they decode.
type Archive struct {
	files  map[string]*zip.File
	order  []string
	closed bool
}

func New() *Archive {
	return &Archive{
		files: make(map[string]*zip.File),
	}
}

func Open(data []byte) (*Archive, error) {
	if !IsZip(data) {
		return nil, fmt.Errorf("%w: missing zip signature", ErrFile)
	}
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFile, err)
	}
	a := New()
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if _, ok := a.files[f.Name]; !ok {
			a.order = append(a.order, f.Name)
		}
		a.files[f.Name] = f
	}
	return a, nil
}

func (a *Archive) Has(name string) bool {
	if a.closed {
		return false
	}
	_, ok := a.files[name]
	return ok
}

func (a *Archive) Names() []string {
	return slices.Clone(a.order)
}

func (a *Archive) Read(name string) ([]byte, error) {
	if a.closed {
		return nil, ErrClosed
	}
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrFile, name, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Write produces a new zip file with the entries of the archive. Entries
// given in parts replace the original ones or are appended after them.
// Untouched entries are copied without being decompressed.
func (a *Archive) Write(ctx context.Context, w io.Writer, parts map[string][]byte, level int) error {
	if a.closed {
		return ErrClosed
	}
	z := createWriter(w, level)
	names := slices.Clone(a.order)
	for _, n := range slices.Sorted(maps.Keys(parts)) {
		if _, ok := a.files[n]; !ok {
			names = append(names, n)
		}
	}
	if ix := slices.Index(names, contentTypesFile); ix > 0 {
		names = slices.Delete(names, ix, ix+1)
		names = slices.Insert(names, 0, contentTypesFile)
	}
	for _, n := range names {
		if err := ctx.Err(); err != nil {
			z.Close()
			return err
		}
		if data, ok := parts[n]; ok {
			z.writeEntry(n, data)
		} else {
			z.copyEntry(a.files[n])
		}
		if z.invalid() {
			z.Close()
			return z.err
		}
	}
	return z.Close()
}

func (a *Archive) Close() error {
	a.closed = true
	a.files = nil
	a.order = nil
	return nil
}
