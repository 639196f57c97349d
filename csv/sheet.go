package csv

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/midbel/sheetkit/value"
	"github.com/midbel/sheetkit/xlsx"
)

// Import writes every record of r in ws, one record per row starting at
// the first row. When infer is set, numbers, booleans and dates are
// written with their own kind instead of text.
func Import(r *Reader, ws *xlsx.Worksheet, infer bool) (int, error) {
	var row int
	for ; ; row++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return row, err
		}
		for col, str := range fields {
			if str == "" {
				continue
			}
			cell, err := ws.Cell(row, col)
			if err != nil {
				return row, err
			}
			var val value.Value = value.Text(str)
			if infer {
				val = Infer(str)
			}
			if err := cell.SetValue(val); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}

// Infer gives the value represented by str.
func Infer(str string) value.Value {
	if n, err := strconv.ParseFloat(str, 64); err == nil {
		if v, err := value.Of(n); err == nil {
			return v
		}
	}
	switch strings.ToLower(str) {
	case "true":
		return value.Boolean(true)
	case "false":
		return value.Boolean(false)
	}
	if t, err := time.Parse(time.DateOnly, str); err == nil {
		return value.DateOnly(t)
	}
	for _, layout := range []string{time.DateTime, time.RFC3339} {
		if t, err := time.Parse(layout, str); err == nil {
			return value.DateTime(t)
		}
	}
	return value.Text(str)
}

// Export writes the used range of ws to w. Error values are written with
// their code.
func Export(w *Writer, ws *xlsx.Worksheet) error {
	rows, err := ws.Cells()
	if err != nil {
		return err
	}
	for _, row := range rows {
		line := make([]string, 0, len(row))
		for _, cell := range row {
			str, err := text(cell)
			if err != nil {
				return err
			}
			line = append(line, str)
		}
		if err := w.Write(line); err != nil {
			return err
		}
	}
	return w.Flush()
}

func text(cell *xlsx.Cell) (string, error) {
	val, err := cell.Value()
	if err != nil {
		var cerr *xlsx.CellError
		if errors.As(err, &cerr) {
			return cerr.Code.String(), nil
		}
		return "", err
	}
	if value.IsEmpty(val) {
		return "", nil
	}
	return val.String(), nil
}
