package oxml

import (
	"encoding/xml"
	"fmt"
	"maps"
	"slices"

	"github.com/midbel/sheetkit/layout"
)

type Formula struct {
	Text string `xml:",chardata"`
	Type string `xml:"t,attr,omitempty"`
	Ref  string `xml:"ref,attr,omitempty"`
	Si   string `xml:"si,attr,omitempty"`
}

type Cell struct {
	Ref     string    `xml:"r,attr,omitempty"`
	Style   *int      `xml:"s,attr,omitempty"`
	Type    string    `xml:"t,attr,omitempty"`
	Formula *Formula  `xml:"f"`
	Value   *string   `xml:"v"`
	Inline  *RichText `xml:"is"`

	pos layout.Position
}

func (c *Cell) Position() layout.Position {
	return c.pos
}

// Raw gives the text stored in the value of the cell.
func (c *Cell) Raw() string {
	if c.Inline != nil {
		return c.Inline.String()
	}
	if c.Value == nil {
		return ""
	}
	return *c.Value
}

// StyleID gives the index of the cell format and whether the cell carries
// an explicit s attribute.
func (c *Cell) StyleID() (int, bool) {
	if c.Style == nil {
		return 0, false
	}
	return *c.Style, true
}

func (c *Cell) SetStyle(id int) {
	c.Style = &id
}

func (c *Cell) SetRaw(str string) {
	c.Inline = nil
	c.Value = &str
}

// Reset removes the value, the type and the formula of the cell but
// keeps its style.
func (c *Cell) Reset() {
	c.Type = ""
	c.Formula = nil
	c.Value = nil
	c.Inline = nil
}

func (c *Cell) Clone() *Cell {
	x := *c
	if c.Formula != nil {
		f := *c.Formula
		x.Formula = &f
	}
	if c.Value != nil {
		v := *c.Value
		x.Value = &v
	}
	if c.Style != nil {
		x.SetStyle(*c.Style)
	}
	x.Inline = c.Inline.clone()
	return &x
}

type Row struct {
	Index        int     `xml:"r,attr,omitempty"`
	Spans        string  `xml:"spans,attr,omitempty"`
	Style        int     `xml:"s,attr,omitempty"`
	CustomFormat bool    `xml:"customFormat,attr,omitempty"`
	Height       float64 `xml:"ht,attr,omitempty"`
	CustomHeight bool    `xml:"customHeight,attr,omitempty"`
	Hidden       bool    `xml:"hidden,attr,omitempty"`
	OutlineLevel int     `xml:"outlineLevel,attr,omitempty"`
	Collapsed    bool    `xml:"collapsed,attr,omitempty"`
	Cells        []*Cell `xml:"c"`

	cells map[int]*Cell
}

func createRow() *Row {
	return &Row{
		cells: make(map[int]*Cell),
	}
}

func (r *Row) Cell(col int) *Cell {
	return r.cells[col]
}

// List gives the cells of the row ordered by column.
func (r *Row) List() []*Cell {
	var list []*Cell
	for _, col := range slices.Sorted(maps.Keys(r.cells)) {
		list = append(list, r.cells[col])
	}
	return list
}

func (r *Row) Len() int {
	return len(r.cells)
}

func (r *Row) Clone() *Row {
	x := *r
	x.Cells = nil
	x.cells = make(map[int]*Cell)
	for col, c := range r.cells {
		x.cells[col] = c.Clone()
	}
	return &x
}

// Worksheet is the model of a xl/worksheets/sheetN.xml part. Cells are
// kept in a sparse map indexed by row then by column.
type Worksheet struct {
	Views     []SheetView
	Cols      []Column
	DrawingID string

	rows   map[int]*Row
	merges []layout.Range

	count  int
	bounds layout.Range
	stale  bool

	name   string
	attrs  []xml.Attr
	extras []extra
}

func NewWorksheet(name string) *Worksheet {
	return &Worksheet{
		name: name,
		rows: make(map[int]*Row),
	}
}

func (w *Worksheet) Cell(pos layout.Position) *Cell {
	r, ok := w.rows[pos.Row]
	if !ok {
		return nil
	}
	return r.cells[pos.Col]
}

// Ensure returns the cell at pos, creating it and its row when missing.
func (w *Worksheet) Ensure(pos layout.Position) *Cell {
	r := w.EnsureRow(pos.Row)
	if c, ok := r.cells[pos.Col]; ok {
		return c
	}
	c := &Cell{
		pos: pos,
	}
	r.cells[pos.Col] = c
	w.added(pos)
	return c
}

func (w *Worksheet) Delete(pos layout.Position) {
	w.remove(pos)
	w.refresh()
}

func (w *Worksheet) remove(pos layout.Position) {
	r, ok := w.rows[pos.Row]
	if !ok {
		return
	}
	if _, ok := r.cells[pos.Col]; !ok {
		return
	}
	delete(r.cells, pos.Col)
	w.removed(pos)
}

// Replace puts c at pos in place of the current cell. A nil cell only
// removes the current one.
func (w *Worksheet) Replace(pos layout.Position, c *Cell) {
	w.Delete(pos)
	if c == nil {
		return
	}
	r := w.EnsureRow(pos.Row)
	c.pos = pos
	r.cells[pos.Col] = c
	w.added(pos)
}

func (w *Worksheet) Row(ix int) *Row {
	return w.rows[ix]
}

func (w *Worksheet) EnsureRow(ix int) *Row {
	r, ok := w.rows[ix]
	if !ok {
		r = createRow()
		w.rows[ix] = r
	}
	return r
}

func (w *Worksheet) RowIndices() []int {
	return slices.Sorted(maps.Keys(w.rows))
}

// SetRow replaces the row at ix. Cells of the given row are moved to ix.
// A nil row removes the row.
func (w *Worksheet) SetRow(ix int, row *Row) {
	if old, ok := w.rows[ix]; ok {
		for col := range old.cells {
			w.removed(layout.NewPosition(ix, col))
		}
		delete(w.rows, ix)
	}
	if row != nil {
		if row.cells == nil {
			row.cells = make(map[int]*Cell)
		}
		w.rows[ix] = row
		for col, c := range row.cells {
			c.pos = layout.NewPosition(ix, col)
			w.added(c.pos)
		}
	}
	w.refresh()
}

// ShiftRows moves every row at or after from one row down. Rows are
// moved starting from the last one.
func (w *Worksheet) ShiftRows(from int) {
	indices := w.RowIndices()
	slices.Reverse(indices)
	for _, ix := range indices {
		if ix < from {
			break
		}
		row := w.rows[ix]
		delete(w.rows, ix)
		w.rows[ix+1] = row
		for col, c := range row.cells {
			c.pos = layout.NewPosition(ix+1, col)
		}
	}
	w.recompute()
}

// Range gives the bounding box of the cells of the sheet. It reports
// false when the sheet has no cell. Mutators keep the box up to date so
// reading it never modifies the sheet.
func (w *Worksheet) Range() (layout.Range, bool) {
	return w.bounds, w.count > 0
}

func (w *Worksheet) Len() int {
	return w.count
}

func (w *Worksheet) added(pos layout.Position) {
	if w.count == 0 {
		w.bounds = layout.SingleRange(pos)
	} else if !w.stale {
		w.bounds = w.bounds.Extend(pos)
	}
	w.count++
}

func (w *Worksheet) removed(pos layout.Position) {
	w.count--
	if w.count <= 0 {
		w.count = 0
		w.bounds = layout.Range{}
		w.stale = false
		return
	}
	b := w.bounds
	if pos.Row == b.Starts.Row || pos.Row == b.Ends.Row || pos.Col == b.Starts.Col || pos.Col == b.Ends.Col {
		w.stale = true
	}
}

// refresh recomputes the bounding box when a removed cell was on one of
// its edges.
func (w *Worksheet) refresh() {
	if w.stale {
		w.recompute()
	}
}

func (w *Worksheet) recompute() {
	w.stale = false
	w.count = 0
	for ix, r := range w.rows {
		for col := range r.cells {
			pos := layout.NewPosition(ix, col)
			if w.count == 0 {
				w.bounds = layout.SingleRange(pos)
			} else {
				w.bounds = w.bounds.Extend(pos)
			}
			w.count++
		}
	}
	if w.count == 0 {
		w.bounds = layout.Range{}
	}
}

// Normalize orders rows and cells and refreshes the attributes derived
// from the position of the cells.
func (w *Worksheet) Normalize() {
	for _, ix := range w.RowIndices() {
		r := w.rows[ix]
		r.Index = ix + 1
		r.Cells = r.List()
		r.Spans = ""
		if n := len(r.Cells); n > 0 {
			r.Spans = fmt.Sprintf("%d:%d", r.Cells[0].pos.Col+1, r.Cells[n-1].pos.Col+1)
		}
		for _, c := range r.Cells {
			c.Ref = c.pos.Addr()
		}
	}
	slices.SortFunc(w.Cols, func(a, b Column) int {
		return a.Min - b.Min
	})
}

func (w *Worksheet) Encode() ([]byte, error) {
	w.Normalize()
	return encodeXML(w.name, w)
}

// index rebuilds the sparse map from the rows decoded from the document.
// Rows and cells without explicit reference follow the previous one.
func (w *Worksheet) index(rows []*Row) error {
	w.rows = make(map[int]*Row)
	w.count = 0
	prev := -1
	for _, r := range rows {
		ix := prev + 1
		if r.Index > 0 {
			ix = r.Index - 1
		}
		if ix > layout.MaxRow {
			return fmt.Errorf("%w: row %d out of range", ErrFile, ix+1)
		}
		prev = ix
		row, ok := w.rows[ix]
		if !ok {
			row = r
			row.cells = make(map[int]*Cell)
			w.rows[ix] = row
		}
		col := -1
		for _, c := range r.Cells {
			col++
			if c.Ref != "" {
				pos, err := layout.ParsePosition(c.Ref)
				if err != nil {
					return fmt.Errorf("%w: %s", ErrFile, err)
				}
				col = pos.Col
			}
			c.pos = layout.NewPosition(ix, col)
			if _, ok := row.cells[col]; !ok {
				w.added(c.pos)
			}
			row.cells[col] = c
		}
		r.Cells = nil
	}
	return nil
}

// Protection reads the flags of the sheetProtection element of the sheet.
func (w *Worksheet) Protection() SheetProtection {
	var prot SheetProtection
	for _, x := range w.extras {
		if x.elem.XMLName.Local != "sheetProtection" {
			continue
		}
		for _, a := range x.elem.Attrs {
			ix := slices.IndexFunc(protectionAttrs, func(p protectionAttr) bool {
				return p.Name == a.Name.Local
			})
			if ix >= 0 && (a.Value == "1" || a.Value == "true") {
				prot |= protectionAttrs[ix].Flag
			}
		}
	}
	return prot
}
