package xlsx

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/midbel/sheetkit/format"
	"github.com/midbel/sheetkit/layout"
	"github.com/midbel/sheetkit/value"
)

const (
	typedContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>
<Override PartName="/xl/worksheets/sheet1.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>
<Override PartName="/xl/sharedStrings.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"/>
<Override PartName="/xl/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"/>
</Types>`

	typedWorkbook = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="typed" sheetId="1" r:id="rId1"/></sheets>
</workbook>`

	typedWorkbookRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings" Target="sharedStrings.xml"/>
<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

	typedSharedStrings = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="2" uniqueCount="2">
<si><t>hello</t></si>
<si><r><t>ri</t></r><r><rPr><b/></rPr><t>ch</t></r></si>
</sst>`

	typedStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<styleSheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<numFmts count="1"><numFmt numFmtId="164" formatCode="yyyy-mm-dd hh:mm"/></numFmts>
<fonts count="1"><font/></fonts>
<fills count="2"><fill><patternFill patternType="none"/></fill><fill><patternFill patternType="gray125"/></fill></fills>
<borders count="1"><border/></borders>
<cellStyleXfs count="1"><xf numFmtId="0" fontId="0" fillId="0" borderId="0"/></cellStyleXfs>
<cellXfs count="6">
<xf numFmtId="0" fontId="0" fillId="0" borderId="0" xfId="0"/>
<xf numFmtId="14" fontId="0" fillId="0" borderId="0" xfId="0" applyNumberFormat="1"/>
<xf numFmtId="164" fontId="0" fillId="0" borderId="0" xfId="0" applyNumberFormat="1"/>
<xf numFmtId="18" fontId="0" fillId="0" borderId="0" xfId="0" applyNumberFormat="1"/>
<xf numFmtId="49" fontId="0" fillId="0" borderId="0" xfId="0" applyNumberFormat="1"/>
<xf numFmtId="200" fontId="0" fillId="0" borderId="0" xfId="0" applyNumberFormat="1"/>
</cellXfs>
</styleSheet>`

	typedSheet = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<dimension ref="A1:C6"/>
<sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c><c r="C1" t="s"><v>9</v></c></row>
<row r="2"><c r="A2" t="str"><v>plain</v></c><c r="B2" t="inlineStr"><is><t>inline</t></is></c><c r="C2" t="b"><v>1</v></c></row>
<row r="3"><c r="A3" t="n"><v>1.5</v></c><c r="B3" t="e"><v>#DIV/0!</v></c><c r="C3" t="d"><v>2024-01-02T03:04:05</v></c></row>
<row r="4"><c r="A4"><v>45000</v></c><c r="B4" s="1"><v>45000</v></c><c r="C4" s="2"><v>45000.5</v></c></row>
<row r="5"><c r="A5" s="3"><v>0.25</v></c><c r="B5" s="4"><v>123</v></c><c r="C5" s="5"><v>1</v></c></row>
<row r="6"><c r="A6" t="str"><f>SUM(A3:A4)</f></c><c r="B6" t="b"><v>0</v></c></row>
</sheetData>
</worksheet>`
)

func useUTC(t *testing.T) {
	t.Helper()
	loc := format.Location
	format.Location = time.UTC
	t.Cleanup(func() {
		format.Location = loc
	})
}

func TestCellValue(t *testing.T) {
	useUTC(t)
	wb := createWorkbook(t, map[string]string{
		"[Content_Types].xml":        typedContentTypes,
		"xl/workbook.xml":            typedWorkbook,
		"xl/_rels/workbook.xml.rels": typedWorkbookRels,
		"xl/sharedStrings.xml":       typedSharedStrings,
		"xl/styles.xml":              typedStyles,
		"xl/worksheets/sheet1.xml":   typedSheet,
	})
	defer wb.Close()

	ws, err := wb.Worksheet("typed")
	if err != nil {
		t.Fatalf("fail to get worksheet: %s", err)
	}
	tests := []struct {
		Addr string
		Kind value.Kind
		Want string
	}{
		{Addr: "A1", Kind: value.KindText, Want: "hello"},
		{Addr: "B1", Kind: value.KindText, Want: "rich"},
		{Addr: "A2", Kind: value.KindText, Want: "plain"},
		{Addr: "B2", Kind: value.KindText, Want: "inline"},
		{Addr: "C2", Kind: value.KindBool, Want: "true"},
		{Addr: "B6", Kind: value.KindBool, Want: "false"},
		{Addr: "A3", Kind: value.KindNumber, Want: "1.5"},
		{Addr: "C3", Kind: value.KindDateTime, Want: "2024-01-02 03:04:05"},
		{Addr: "A4", Kind: value.KindNumber, Want: "45000"},
		{Addr: "B4", Kind: value.KindDateOnly, Want: "2023-03-15"},
		{Addr: "C4", Kind: value.KindDateTime, Want: "2023-03-15 12:00:00"},
		{Addr: "A5", Kind: value.KindTime, Want: "06:00:00"},
		{Addr: "B5", Kind: value.KindText, Want: "123"},
		{Addr: "A6", Kind: value.KindEmpty, Want: ""},
		{Addr: "D9", Kind: value.KindEmpty, Want: ""},
	}
	for _, c := range tests {
		cell, err := ws.CellAt(c.Addr)
		if err != nil {
			t.Errorf("%s: invalid address: %s", c.Addr, err)
			continue
		}
		got, err := cell.Value()
		if err != nil {
			t.Errorf("%s: fail to read value: %s", c.Addr, err)
			continue
		}
		if got.Kind() != c.Kind {
			t.Errorf("%s: kind mismatched! want %s - got %s", c.Addr, c.Kind, got.Kind())
		}
		if got.String() != c.Want {
			t.Errorf("%s: results mismatched! want %s - got %s", c.Addr, c.Want, got.String())
		}
	}

	cell, _ := ws.CellAt("B3")
	_, err = cell.Value()
	var cerr *CellError
	if !errors.As(err, &cerr) || !errors.Is(err, ErrCellValue) {
		t.Errorf("B3: expected cell error, got %v", err)
	} else if cerr.Code != "#DIV/0!" {
		t.Errorf("B3: results mismatched! want %s - got %s", "#DIV/0!", cerr.Code)
	}

	cell, _ = ws.CellAt("C1")
	if _, err := cell.Value(); !errors.Is(err, ErrNotFound) {
		t.Errorf("C1: expected not found error, got %v", err)
	}

	cell, _ = ws.CellAt("C5")
	if _, err := cell.Value(); !errors.Is(err, format.ErrUnknownFormat) {
		t.Errorf("C5: expected unknown format error, got %v", err)
	}

	cell, _ = ws.CellAt("A6")
	if f, _ := cell.Formula(); f != "SUM(A3:A4)" {
		t.Errorf("A6: results mismatched! want %s - got %s", "SUM(A3:A4)", f)
	}
}

func TestCellExplicitDefaultStyle(t *testing.T) {
	useUTC(t)
	styles := strings.Replace(typedStyles, `<xf numFmtId="0" fontId="0" fillId="0" borderId="0" xfId="0"/>`, `<xf numFmtId="14" fontId="0" fillId="0" borderId="0" xfId="0" applyNumberFormat="1"/>`, 1)
	sheet := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<sheetData>
<row r="1"><c r="A1" s="0"><v>45000</v></c><c r="B1"><v>45000</v></c></row>
</sheetData>
</worksheet>`
	wb := createWorkbook(t, map[string]string{
		"[Content_Types].xml":        typedContentTypes,
		"xl/workbook.xml":            typedWorkbook,
		"xl/_rels/workbook.xml.rels": typedWorkbookRels,
		"xl/sharedStrings.xml":       typedSharedStrings,
		"xl/styles.xml":              styles,
		"xl/worksheets/sheet1.xml":   sheet,
	})
	defer wb.Close()

	ws, err := wb.Worksheet("typed")
	if err != nil {
		t.Fatalf("fail to get worksheet: %s", err)
	}
	tests := []struct {
		Addr string
		Kind value.Kind
		Want string
	}{
		{Addr: "A1", Kind: value.KindDateOnly, Want: "2023-03-15"},
		{Addr: "B1", Kind: value.KindNumber, Want: "45000"},
	}
	for _, c := range tests {
		cell, _ := ws.CellAt(c.Addr)
		got, err := cell.Value()
		if err != nil {
			t.Errorf("%s: fail to read value: %s", c.Addr, err)
			continue
		}
		if got.Kind() != c.Kind {
			t.Errorf("%s: kind mismatched! want %s - got %s", c.Addr, c.Kind, got.Kind())
		}
		if got.String() != c.Want {
			t.Errorf("%s: results mismatched! want %s - got %s", c.Addr, c.Want, got.String())
		}
	}
}

func TestCellRoundTrip(t *testing.T) {
	useUTC(t)
	var (
		when  = time.Date(2024, 3, 17, 14, 30, 15, 0, time.UTC)
		day   = time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)
		clock = time.Date(1899, 12, 30, 8, 45, 0, 0, time.UTC)
	)
	wb, ws := createSheet(t, "data")
	values := []struct {
		Addr  string
		Value value.Value
	}{
		{"A1", value.Text("hello")},
		{"B1", value.Text("  padded  ")},
		{"C1", value.Float(-12.625)},
		{"D1", value.Boolean(true)},
		{"E1", value.DateOnly(day)},
		{"F1", value.DateTime(when)},
		{"G1", value.Time(clock)},
		{"A2", value.Text("hello")},
		{"B2", value.Boolean(false)},
	}
	for _, v := range values {
		cell, _ := ws.CellAt(v.Addr)
		if err := cell.SetValue(v.Value); err != nil {
			t.Fatalf("%s: fail to set value: %s", v.Addr, err)
		}
	}
	cell, _ := ws.CellAt("H1")
	if err := cell.SetFormula("SUM(C1:C1)"); err != nil {
		t.Fatalf("fail to set formula: %s", err)
	}
	cell, _ = ws.CellAt("A3")
	cell.Set("merged")
	if err := cell.Merge(3, 2); err != nil {
		t.Fatalf("fail to merge: %s", err)
	}
	cell, _ = ws.CellAt("C1")
	if err := cell.SetStyle(Style{Background: "ff00ff00", Border: []string{BorderLeft, BorderBottom}}); err != nil {
		t.Fatalf("fail to set style: %s", err)
	}
	cell, _ = ws.CellAt("E1")
	if err := cell.SetStyle(Style{HorizontalAlign: "center"}); err != nil {
		t.Fatalf("fail to set style on date: %s", err)
	}
	col, _ := ws.Column(1)
	if err := col.SetWidth(24); err != nil {
		t.Fatalf("fail to set width: %s", err)
	}

	other := reopen(t, wb)
	defer other.Close()
	ws, err := other.Worksheet("data")
	if err != nil {
		t.Fatalf("fail to get worksheet: %s", err)
	}
	for _, v := range values {
		cell, _ := ws.CellAt(v.Addr)
		got, err := cell.Value()
		if err != nil {
			t.Errorf("%s: fail to read value: %s", v.Addr, err)
			continue
		}
		if got.Kind() != v.Value.Kind() || got.String() != v.Value.String() {
			t.Errorf("%s: results mismatched! want %s(%s) - got %s(%s)", v.Addr, v.Value, v.Value.Kind(), got, got.Kind())
		}
	}
	cell, _ = ws.CellAt("H1")
	if f, _ := cell.Formula(); f != "SUM(C1:C1)" {
		t.Errorf("formula: results mismatched! want %s - got %s", "SUM(C1:C1)", f)
	}
	merges, _ := ws.Merges()
	if len(merges) != 1 || merges[0].String() != "A3:C4" {
		t.Errorf("merges: results mismatched! want %s - got %s", "A3:C4", merges)
	}
	cell, _ = ws.CellAt("C1")
	style, err := cell.Style()
	if err != nil {
		t.Fatalf("fail to read style: %s", err)
	}
	if style.Background != "FF00FF00" {
		t.Errorf("background: results mismatched! want %s - got %s", "FF00FF00", style.Background)
	}
	if want := []string{BorderLeft, BorderBottom}; !slices.Equal(style.Border, want) {
		t.Errorf("border: results mismatched! want %s - got %s", want, style.Border)
	}
	cell, _ = ws.CellAt("E1")
	style, _ = cell.Style()
	if style.HorizontalAlign != "center" || style.NumFmtID == nil || *style.NumFmtID != format.IdDate {
		t.Errorf("date style lost: %+v", style)
	}
	col, _ = ws.Column(1)
	if width, ok, _ := col.Width(); !ok || width != 24 {
		t.Errorf("width: results mismatched! want %.2f - got %.2f", 24.0, width)
	}

	ss, err := other.sharedStrings(false)
	if err != nil {
		t.Fatalf("fail to get shared strings: %s", err)
	}
	if ss.Len() != 3 {
		t.Errorf("shared strings: results mismatched! want %d - got %d", 3, ss.Len())
	}
}

func TestCellSetStyleSharing(t *testing.T) {
	wb, ws := createSheet(t, "data")
	defer wb.Close()

	style := Style{Background: "FFFF0000"}
	var ids []int
	for _, addr := range []string{"A1", "B1"} {
		cell, _ := ws.CellAt(addr)
		cell.Set(1)
		if err := cell.SetStyle(style); err != nil {
			t.Fatalf("%s: fail to set style: %s", addr, err)
		}
		id, _ := cell.StyleID()
		ids = append(ids, id)
	}
	if ids[0] != ids[1] || ids[0] == 0 {
		t.Errorf("identical styles should share the same id: %v", ids)
	}
	cell, _ := ws.CellAt("C1")
	cell.SetStyle(Style{Background: "FF0000FF"})
	if id, _ := cell.StyleID(); id == ids[0] {
		t.Errorf("different background should give a different id")
	}
	if err := cell.SetStyle(Style{Background: "red"}); err == nil {
		t.Errorf("invalid background accepted")
	}
	if err := cell.SetStyleID(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown style id accepted")
	}
	if err := cell.SetStyleID(ids[0]); err != nil {
		t.Errorf("fail to set existing style id: %s", err)
	}
}

func TestCellSetUnsupported(t *testing.T) {
	wb, ws := createSheet(t, "data")
	defer wb.Close()

	cell, _ := ws.Cell(0, 0)
	if err := cell.Set(struct{}{}); !errors.Is(err, value.ErrUnsupported) {
		t.Errorf("expected unsupported error, got %v", err)
	}
	if _, err := ws.Cell(0, layout.MaxColumn+1); !errors.Is(err, layout.ErrAddress) {
		t.Errorf("cell outside the grid accepted")
	}
}

func TestCellFormulaVerbatim(t *testing.T) {
	wb, ws := createSheet(t, "data")
	defer wb.Close()

	for _, str := range []string{"A1*2", "=A1*2", "SUM(A1:A3)"} {
		cell, _ := ws.CellAt("B1")
		if err := cell.SetFormula(str); err != nil {
			t.Fatalf("%q: fail to set formula: %s", str, err)
		}
		other := reopen(t, wb)
		ws2, _ := other.Worksheet("data")
		cell, _ = ws2.CellAt("B1")
		if got, _ := cell.Formula(); got != str {
			t.Errorf("%q: results mismatched! want %q - got %q", str, str, got)
		}
		other.Close()
	}
}

func TestCellDelete(t *testing.T) {
	wb, ws := createSheet(t, "data")
	defer wb.Close()

	for _, addr := range []string{"A1", "C3"} {
		cell, _ := ws.CellAt(addr)
		cell.Set(addr)
	}
	cell, _ := ws.CellAt("C3")
	if err := cell.SetValue(value.Empty()); err != nil {
		t.Fatalf("fail to clear cell: %s", err)
	}
	rg, _ := ws.Range()
	if rg.String() != "A1" {
		t.Errorf("range: results mismatched! want %s - got %s", "A1", rg)
	}
	cell, _ = ws.CellAt("A1")
	cell.SetFormula("")
	if n, _ := ws.Len(); n != 0 {
		t.Errorf("len: results mismatched! want %d - got %d", 0, n)
	}
}

func TestCellMerge(t *testing.T) {
	wb, ws := createSheet(t, "data")
	defer wb.Close()

	for r := range 3 {
		for c := range 3 {
			cell, _ := ws.Cell(r, c)
			cell.Set(r*3 + c)
		}
	}
	if err := ws.Merge(layout.NewRange(layout.NewPosition(0, 0), layout.NewPosition(2, 2))); err != nil {
		t.Fatalf("fail to merge: %s", err)
	}
	if n, _ := ws.Len(); n != 1 {
		t.Errorf("len: results mismatched! want %d - got %d", 1, n)
	}
	cell, _ := ws.CellAt("A1")
	if v, _ := cell.Value(); v.String() != "0" {
		t.Errorf("anchor: results mismatched! want %s - got %s", "0", v)
	}
	if n, _ := ws.Unmerge(layout.NewRange(layout.NewPosition(0, 0), layout.NewPosition(5, 5))); n != 1 {
		t.Errorf("unmerge: results mismatched! want %d - got %d", 1, n)
	}

	cell, _ = ws.CellAt("A1")
	if err := cell.Merge(1, 1); err != nil {
		t.Fatalf("fail to merge A1:B2: %s", err)
	}
	cell, _ = ws.CellAt("B2")
	if err := cell.Merge(2, 2); !errors.Is(err, ErrMergeOverlap) {
		t.Errorf("expected overlap error, got %v", err)
	}
}
