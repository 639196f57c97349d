package archive

import (
	"archive/zip"
	"compress/flate"
	"fmt"
	"io"
)

type writer struct {
	writer *zip.Writer
	err    error
}

func createWriter(w io.Writer, level int) *writer {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		level = flate.BestCompression
	}
	z := writer{
		writer: zip.NewWriter(w),
	}
	z.writer.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
	return &z
}

func (z *writer) writeEntry(name string, data []byte) {
	if z.invalid() {
		return
	}
	w, err := z.writer.Create(name)
	if err != nil {
		z.err = fmt.Errorf("%w: fail to create %s", err, name)
		return
	}
	if _, err := w.Write(data); err != nil {
		z.err = fmt.Errorf("%w: fail to write data to %s", err, name)
	}
}

func (z *writer) copyEntry(file *zip.File) {
	if z.invalid() {
		return
	}
	if err := z.writer.Copy(file); err != nil {
		z.err = fmt.Errorf("%w: fail to copy %s", err, file.Name)
	}
}

func (z *writer) Close() error {
	err := z.writer.Close()
	if z.err != nil {
		return z.err
	}
	return err
}

func (z *writer) invalid() bool {
	return z.err != nil
}
