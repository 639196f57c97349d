package xlsx

import (
	"errors"
	"fmt"

	"github.com/midbel/sheetkit/internal/archive"
	"github.com/midbel/sheetkit/oxml"
	"github.com/midbel/sheetkit/value"
)

var (
	ErrClosed    = errors.New("workbook closed")
	ErrCellValue = errors.New("cell contains an error value")
	ErrImage     = errors.New("unsupported image")

	ErrFile         = archive.ErrFile
	ErrNotFound     = oxml.ErrNotFound
	ErrMergeOverlap = oxml.ErrMergeOverlap
)

// CellError is returned when a cell holds one of the error values of a
// spreadsheet (#DIV/0!, #N/A, ...).
type CellError struct {
	Addr string
	Code value.ErrorCode
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Addr, ErrCellValue, e.Code)
}

func (e *CellError) Unwrap() error {
	return ErrCellValue
}
