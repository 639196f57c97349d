package xlsx

import (
	"github.com/midbel/sheetkit/layout"
	"github.com/midbel/sheetkit/value"
)

type Row struct {
	sheet *Worksheet
	index int
}

func (r *Row) Index() int {
	return r.index
}

// Cell gives the cell of the row at column col.
func (r *Row) Cell(col int) (*Cell, error) {
	return r.sheet.Cell(r.index, col)
}

// Cells gives the cells of the row over the columns of the used range of
// the sheet.
func (r *Row) Cells() ([]*Cell, error) {
	rg, err := r.sheet.Range()
	if err != nil {
		return nil, err
	}
	var list []*Cell
	for col := rg.Starts.Col; col <= rg.Ends.Col; col++ {
		list = append(list, r.sheet.cell(layout.NewPosition(r.index, col)))
	}
	return list, nil
}

func (r *Row) Values() ([]value.Value, error) {
	cells, err := r.Cells()
	if err != nil {
		return nil, err
	}
	var list []value.Value
	for _, c := range cells {
		v, err := c.Value()
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, nil
}

// Height gives the custom height of the row if any.
func (r *Row) Height() (float64, error) {
	doc, err := r.sheet.doc()
	if err != nil {
		return 0, err
	}
	row := doc.Row(r.index)
	if row == nil || !row.CustomHeight {
		return 0, nil
	}
	return row.Height, nil
}

func (r *Row) SetHeight(height float64) error {
	doc, err := r.sheet.doc()
	if err != nil {
		return err
	}
	row := doc.EnsureRow(r.index)
	row.Height = height
	row.CustomHeight = height > 0
	return nil
}
