package oxml

import (
	"encoding/xml"
	"slices"

	"github.com/midbel/sheetkit/layout"
)

const (
	PaneTopRight    = "topRight"
	PaneBottomLeft  = "bottomLeft"
	PaneBottomRight = "bottomRight"
)

type Column struct {
	Min          int     `xml:"min,attr"`
	Max          int     `xml:"max,attr"`
	Width        float64 `xml:"width,attr,omitempty"`
	Style        int     `xml:"style,attr,omitempty"`
	Hidden       bool    `xml:"hidden,attr,omitempty"`
	BestFit      bool    `xml:"bestFit,attr,omitempty"`
	CustomWidth  bool    `xml:"customWidth,attr,omitempty"`
	OutlineLevel int     `xml:"outlineLevel,attr,omitempty"`
	Collapsed    bool    `xml:"collapsed,attr,omitempty"`
}

type Pane struct {
	XSplit      float64 `xml:"xSplit,attr,omitempty"`
	YSplit      float64 `xml:"ySplit,attr,omitempty"`
	TopLeftCell string  `xml:"topLeftCell,attr,omitempty"`
	ActivePane  string  `xml:"activePane,attr,omitempty"`
	State       string  `xml:"state,attr,omitempty"`
}

type Selection struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

type SheetView struct {
	TabSelected    bool        `xml:"tabSelected,attr,omitempty"`
	ZoomScale      int         `xml:"zoomScale,attr,omitempty"`
	WorkbookViewID int         `xml:"workbookViewId,attr"`
	Attrs          []xml.Attr  `xml:",any,attr"`
	Pane           *Pane       `xml:"pane"`
	Selections     []Selection `xml:"selection"`
}

// ColumnWidth gives the width of the 0-based column col if the sheet
// defines one.
func (w *Worksheet) ColumnWidth(col int) (float64, bool) {
	ix := w.columnRun(col + 1)
	if ix < 0 || w.Cols[ix].Width == 0 {
		return 0, false
	}
	return w.Cols[ix].Width, true
}

// SetColumnWidth sets the width of the 0-based column col. The run
// holding the column is split so that the other columns of the run keep
// their attributes.
func (w *Worksheet) SetColumnWidth(col int, width float64) {
	col++
	target := Column{
		Min:         col,
		Max:         col,
		Width:       width,
		BestFit:     true,
		CustomWidth: true,
	}
	ix := w.columnRun(col)
	if ix < 0 {
		w.Cols = append(w.Cols, target)
		return
	}
	run := w.Cols[ix]
	target.Style = run.Style
	target.Hidden = run.Hidden
	target.OutlineLevel = run.OutlineLevel

	var parts []Column
	if run.Min < col {
		prefix := run
		prefix.Max = col - 1
		parts = append(parts, prefix)
	}
	parts = append(parts, target)
	if run.Max > col {
		suffix := run
		suffix.Min = col + 1
		parts = append(parts, suffix)
	}
	w.Cols = slices.Replace(w.Cols, ix, ix+1, parts...)
}

func (w *Worksheet) columnRun(col int) int {
	return slices.IndexFunc(w.Cols, func(c Column) bool {
		return c.Min <= col && col <= c.Max
	})
}

func (w *Worksheet) view() *SheetView {
	if len(w.Views) == 0 {
		w.Views = append(w.Views, SheetView{})
	}
	return &w.Views[0]
}

func (w *Worksheet) SetZoom(scale int) {
	v := w.view()
	v.ZoomScale = scale
}

// Freeze keeps the given number of rows and columns visible while
// scrolling. Zero for both removes the frozen pane.
func (w *Worksheet) Freeze(rows, cols int) {
	v := w.view()
	v.Selections = nil
	if rows <= 0 && cols <= 0 {
		v.Pane = nil
		return
	}
	rows, cols = max(rows, 0), max(cols, 0)
	pane := Pane{
		XSplit:      float64(cols),
		YSplit:      float64(rows),
		TopLeftCell: layout.NewPosition(rows, cols).Addr(),
		State:       "frozen",
	}
	switch {
	case rows == 0:
		pane.ActivePane = PaneTopRight
	case cols == 0:
		pane.ActivePane = PaneBottomLeft
	default:
		pane.ActivePane = PaneBottomRight
	}
	v.Pane = &pane
}
