package xlsx

import (
	"fmt"
	"maps"
	"slices"

	"github.com/midbel/sheetkit/layout"
	"github.com/midbel/sheetkit/value"
)

// Record is one row of a table keyed by the names of the header.
type Record map[string]value.Value

type TableOptions struct {
	// HeaderRow is the row holding the names of the columns. The first row
	// of the used range is used when nil.
	HeaderRow *int
	// EndColumn stops the table at the first row having an empty cell in
	// this column.
	EndColumn *int
	// Accept filters the names of the header.
	Accept func(string) bool
}

type header struct {
	Name string
	Col  int
}

// Table reads the sheet as a list of records. Only the text cells of the
// header row are used as names of the columns.
func (w *Worksheet) Table(opts TableOptions) ([]Record, error) {
	rg, err := w.Range()
	if err != nil {
		return nil, err
	}
	start := rg.Starts.Row
	if opts.HeaderRow != nil {
		start = *opts.HeaderRow
	}
	headers, err := w.headers(start, rg, opts.Accept)
	if err != nil {
		return nil, err
	}
	var list []Record
	for row := start + 1; row <= rg.Ends.Row; row++ {
		if opts.EndColumn != nil {
			v, err := w.cell(layout.NewPosition(row, *opts.EndColumn)).Value()
			if err != nil {
				return nil, err
			}
			if value.IsEmpty(v) {
				break
			}
		}
		rec := make(Record)
		for _, h := range headers {
			v, err := w.cell(layout.NewPosition(row, h.Col)).Value()
			if err != nil {
				return nil, err
			}
			rec[h.Name] = v
		}
		list = append(list, rec)
	}
	return list, nil
}

func (w *Worksheet) headers(row int, rg layout.Range, accept func(string) bool) ([]header, error) {
	var list []header
	for col := rg.Starts.Col; col <= rg.Ends.Col; col++ {
		v, err := w.cell(layout.NewPosition(row, col)).Value()
		if err != nil {
			return nil, err
		}
		str, ok := v.(value.Text)
		if !ok {
			continue
		}
		if accept != nil && !accept(string(str)) {
			continue
		}
		list = append(list, header{
			Name: string(str),
			Col:  col,
		})
	}
	return list, nil
}

// SetMatrix writes the values of matrix starting from A1.
func (w *Worksheet) SetMatrix(matrix [][]any) error {
	for r, row := range matrix {
		for c, v := range row {
			cell, err := w.Cell(r, c)
			if err != nil {
				return err
			}
			if err := cell.Set(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetRecords writes the names of the header in the first row and one
// record per row after it. When headers is empty, the keys of the records
// are used in order of appearance, sorted within a record.
func (w *Worksheet) SetRecords(records []map[string]any, headers ...string) error {
	if len(headers) == 0 {
		headers = recordKeys(records)
	}
	for c, h := range headers {
		cell, err := w.Cell(0, c)
		if err != nil {
			return err
		}
		if err := cell.Set(h); err != nil {
			return err
		}
	}
	for r, rec := range records {
		for c, h := range headers {
			cell, err := w.Cell(r+1, c)
			if err != nil {
				return err
			}
			if err := cell.Set(rec[h]); err != nil {
				return fmt.Errorf("record %d: %s: %w", r, h, err)
			}
		}
	}
	return nil
}

func recordKeys(records []map[string]any) []string {
	var (
		list []string
		seen = make(map[string]struct{})
	)
	for _, rec := range records {
		for _, k := range slices.Sorted(maps.Keys(rec)) {
			if _, ok := seen[k]; ok || k == "" {
				continue
			}
			seen[k] = struct{}{}
			list = append(list, k)
		}
	}
	return list
}
