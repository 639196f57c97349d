package xlsx

import (
	"fmt"

	"github.com/midbel/sheetkit/layout"
)

type Column struct {
	sheet *Worksheet
	index int
}

func (c *Column) Index() int {
	return c.index
}

// Name gives the letters of the column.
func (c *Column) Name() string {
	name, _ := layout.ColumnName(c.index)
	return name
}

// Cell gives the cell of the column at row.
func (c *Column) Cell(row int) (*Cell, error) {
	return c.sheet.Cell(row, c.index)
}

// Cells gives the cells of the column over the rows of the used range of
// the sheet.
func (c *Column) Cells() ([]*Cell, error) {
	rg, err := c.sheet.Range()
	if err != nil {
		return nil, err
	}
	var list []*Cell
	for row := rg.Starts.Row; row <= rg.Ends.Row; row++ {
		list = append(list, c.sheet.cell(layout.NewPosition(row, c.index)))
	}
	return list, nil
}

// Width gives the width of the column. It reports false when the sheet
// keeps the default width.
func (c *Column) Width() (float64, bool, error) {
	doc, err := c.sheet.doc()
	if err != nil {
		return 0, false, err
	}
	width, ok := doc.ColumnWidth(c.index)
	return width, ok, nil
}

func (c *Column) SetWidth(width float64) error {
	if width <= 0 || width > 255 {
		return fmt.Errorf("column %s: width %.2f should be between 0 and 255", c.Name(), width)
	}
	doc, err := c.sheet.doc()
	if err != nil {
		return err
	}
	doc.SetColumnWidth(c.index, width)
	return nil
}
