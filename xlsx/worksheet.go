package xlsx

import (
	"fmt"
	"slices"

	"github.com/midbel/sheetkit/layout"
	"github.com/midbel/sheetkit/oxml"
)

// Worksheet gives access to the cells of one sheet of a workbook. The
// underlying document is decoded the first time a cell is accessed.
type Worksheet struct {
	book *Workbook
	rid  string
	path string
}

func (w *Worksheet) doc() (*oxml.Worksheet, error) {
	if err := w.book.check(); err != nil {
		return nil, err
	}
	return w.book.cache.Worksheet(w.path)
}

func (w *Worksheet) entry() (oxml.Sheet, int, error) {
	if err := w.book.check(); err != nil {
		return oxml.Sheet{}, 0, err
	}
	wb, err := w.book.cache.Workbook()
	if err != nil {
		return oxml.Sheet{}, 0, err
	}
	ix := slices.IndexFunc(wb.Sheets, func(s oxml.Sheet) bool {
		return s.RID == w.rid
	})
	if ix < 0 {
		return oxml.Sheet{}, 0, fmt.Errorf("worksheet %s %w", w.rid, ErrNotFound)
	}
	return wb.Sheets[ix], ix, nil
}

func (w *Worksheet) Name() (string, error) {
	sh, _, err := w.entry()
	return sh.Name, err
}

// Index gives the 0-based position of the sheet in the workbook.
func (w *Worksheet) Index() (int, error) {
	_, ix, err := w.entry()
	return ix, err
}

func (w *Worksheet) SetName(name string) error {
	if err := w.book.check(); err != nil {
		return err
	}
	wb, err := w.book.cache.Workbook()
	if err != nil {
		return err
	}
	if old, _ := w.Name(); old == name {
		return nil
	}
	if err := checkSheetName(wb, name); err != nil {
		return err
	}
	return wb.Rename(w.rid, name)
}

func (w *Worksheet) Cell(row, col int) (*Cell, error) {
	pos := layout.NewPosition(row, col)
	if _, err := pos.Format(); err != nil {
		return nil, err
	}
	return w.cell(pos), nil
}

// CellAt gives the cell at addr, A1 notation.
func (w *Worksheet) CellAt(addr string) (*Cell, error) {
	pos, err := layout.ParsePosition(addr)
	if err != nil {
		return nil, err
	}
	return w.cell(pos), nil
}

func (w *Worksheet) cell(pos layout.Position) *Cell {
	return &Cell{
		sheet: w,
		pos:   pos,
	}
}

func (w *Worksheet) Row(ix int) (*Row, error) {
	if _, err := layout.NewPosition(ix, 0).Format(); err != nil {
		return nil, err
	}
	r := Row{
		sheet: w,
		index: ix,
	}
	return &r, nil
}

func (w *Worksheet) Column(ix int) (*Column, error) {
	if _, err := layout.NewPosition(0, ix).Format(); err != nil {
		return nil, err
	}
	c := Column{
		sheet: w,
		index: ix,
	}
	return &c, nil
}

// Range gives the bounding box of the cells of the sheet. An empty sheet
// reports A1.
func (w *Worksheet) Range() (layout.Range, error) {
	doc, err := w.doc()
	if err != nil {
		return layout.Range{}, err
	}
	rg, ok := doc.Range()
	if !ok {
		return layout.SingleRange(layout.NewPosition(0, 0)), nil
	}
	return rg, nil
}

// Len gives the number of cells stored in the sheet.
func (w *Worksheet) Len() (int, error) {
	doc, err := w.doc()
	if err != nil {
		return 0, err
	}
	return doc.Len(), nil
}

// Cells gives every cell of the used range, row by row.
func (w *Worksheet) Cells() ([][]*Cell, error) {
	rg, err := w.Range()
	if err != nil {
		return nil, err
	}
	var list [][]*Cell
	for r := rg.Starts.Row; r <= rg.Ends.Row; r++ {
		var row []*Cell
		for c := rg.Starts.Col; c <= rg.Ends.Col; c++ {
			row = append(row, w.cell(layout.NewPosition(r, c)))
		}
		list = append(list, row)
	}
	return list, nil
}

func (w *Worksheet) Merges() ([]layout.Range, error) {
	doc, err := w.doc()
	if err != nil {
		return nil, err
	}
	return doc.Merges(), nil
}

// Merge merges the cells of rg. Only the value of the top left cell is
// kept.
func (w *Worksheet) Merge(rg layout.Range) error {
	doc, err := w.doc()
	if err != nil {
		return err
	}
	return doc.Merge(rg)
}

// Unmerge removes the merged ranges lying inside rg. The cells are left
// untouched.
func (w *Worksheet) Unmerge(rg layout.Range) (int, error) {
	doc, err := w.doc()
	if err != nil {
		return 0, err
	}
	return doc.Unmerge(rg.Normalize()), nil
}

// CopyRow replaces the row dst by a copy of the row src. Merged ranges
// crossing dst are removed and the merged ranges contained in src are
// copied to dst.
func (w *Worksheet) CopyRow(src, dst int) error {
	if err := checkRows(src, dst); err != nil {
		return err
	}
	doc, err := w.doc()
	if err != nil {
		return err
	}
	if src == dst {
		return nil
	}
	var row *oxml.Row
	if r := doc.Row(src); r != nil {
		row = r.Clone()
		for _, c := range row.List() {
			detachFormula(c)
		}
	}
	doc.SetRow(dst, row)

	var merges []layout.Range
	for _, rg := range doc.Merges() {
		if rg.Starts.Row == src && rg.Ends.Row == src {
			rg.Starts.Row, rg.Ends.Row = dst, dst
			merges = append(merges, rg)
		}
	}
	doc.RemoveMerges(func(rg layout.Range) bool {
		return rg.Starts.Row <= dst && dst <= rg.Ends.Row
	})
	for _, rg := range merges {
		if err := doc.Merge(rg); err != nil {
			return err
		}
	}
	return nil
}

// InsertCopyRow inserts at dst a copy of the row src. Rows at or after
// dst are moved one row down first.
func (w *Worksheet) InsertCopyRow(src, dst int) error {
	if err := checkRows(src, dst); err != nil {
		return err
	}
	doc, err := w.doc()
	if err != nil {
		return err
	}
	if rg, ok := doc.Range(); ok && rg.Ends.Row >= layout.MaxRow {
		return fmt.Errorf("%w: no room left to insert a row", layout.ErrAddress)
	}
	doc.ShiftMerges(dst)
	doc.ShiftRows(dst)
	if src >= dst {
		src++
	}
	w.book.logger.Debug("row inserted", "sheet", w.path, "src", src, "dst", dst)
	return w.CopyRow(src, dst)
}

// CopyCell replaces the cell dst by a copy of the cell src. Copying a
// missing cell removes dst.
func (w *Worksheet) CopyCell(src, dst layout.Position) error {
	doc, err := w.doc()
	if err != nil {
		return err
	}
	if src.Equal(dst) {
		return nil
	}
	c := doc.Cell(src)
	if c != nil {
		c = c.Clone()
		detachFormula(c)
	}
	doc.Replace(dst, c)
	return nil
}

// CopyRowStyle copies the style of each cell of the row src to the row
// dst over the columns of the used range.
func (w *Worksheet) CopyRowStyle(src, dst int) error {
	rg, err := w.Range()
	if err != nil {
		return err
	}
	for col := rg.Starts.Col; col <= rg.Ends.Col; col++ {
		err := w.CopyCellStyle(layout.NewPosition(src, col), layout.NewPosition(dst, col))
		if err != nil {
			return err
		}
	}
	return nil
}

// CopyCellStyle gives to dst the style of src. Nothing is done when src
// does not exist.
func (w *Worksheet) CopyCellStyle(src, dst layout.Position) error {
	doc, err := w.doc()
	if err != nil {
		return err
	}
	c := doc.Cell(src)
	if c == nil {
		return nil
	}
	target := doc.Ensure(dst)
	if id, ok := c.StyleID(); ok {
		target.SetStyle(id)
	} else {
		target.Style = nil
	}
	return nil
}

func (w *Worksheet) SetZoom(percent int) error {
	if percent < 10 || percent > 400 {
		return fmt.Errorf("zoom %d: should be between 10 and 400", percent)
	}
	doc, err := w.views()
	if err != nil {
		return err
	}
	doc.SetZoom(percent)
	return nil
}

// SetFrozen keeps the first rows and cols visible while scrolling.
func (w *Worksheet) SetFrozen(rows, cols int) error {
	doc, err := w.views()
	if err != nil {
		return err
	}
	doc.Freeze(rows, cols)
	return nil
}

func (w *Worksheet) views() (*oxml.Worksheet, error) {
	if err := w.book.check(); err != nil {
		return nil, err
	}
	wb, err := w.book.cache.Workbook()
	if err != nil {
		return nil, err
	}
	doc, err := w.doc()
	if err != nil {
		return nil, err
	}
	wb.InitializeView()
	return doc, nil
}

func (w *Worksheet) Protection() (oxml.SheetProtection, error) {
	doc, err := w.doc()
	if err != nil {
		return 0, err
	}
	return doc.Protection(), nil
}

// detachFormula turns a copied cell of a shared formula into a standalone
// cell. Cells depending on the master keep only their cached value.
func detachFormula(c *oxml.Cell) {
	f := c.Formula
	if f == nil || f.Type != "shared" {
		return
	}
	if f.Text == "" {
		c.Formula = nil
		if c.Type == oxml.TypeFormula && c.Value == nil {
			c.Type = ""
		}
		return
	}
	f.Type, f.Ref, f.Si = "", "", ""
}

func checkRows(rows ...int) error {
	for _, r := range rows {
		if _, err := layout.NewPosition(r, 0).Format(); err != nil {
			return err
		}
	}
	return nil
}
