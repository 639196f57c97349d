package xlsx

import (
	"bytes"
	"slices"
	"testing"
	"time"

	"github.com/midbel/sheetkit/value"
	"github.com/xuri/excelize/v2"
)

func TestInteropWrite(t *testing.T) {
	wb, ws := createSheet(t, "data")
	ws.SetMatrix([][]any{
		{"hello", 42.5, true},
		{"world", -1, false},
	})
	cell, _ := ws.CellAt("D1")
	cell.SetFormula("B1*2")
	cell, _ = ws.CellAt("A3")
	cell.Set("merged")
	cell.Merge(3, 1)
	col, _ := ws.Column(1)
	col.SetWidth(24)
	if _, err := wb.CreateWorksheet("second"); err != nil {
		t.Fatalf("fail to create worksheet: %s", err)
	}
	data, err := wb.Bytes()
	if err != nil {
		t.Fatalf("fail to write workbook: %s", err)
	}
	wb.Close()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("excelize fails to open workbook: %s", err)
	}
	defer f.Close()

	if got, want := f.GetSheetList(), []string{"data", "second"}; !slices.Equal(got, want) {
		t.Errorf("sheets: results mismatched! want %s - got %s", want, got)
	}
	for addr, want := range map[string]string{
		"A1": "hello",
		"B1": "42.5",
		"C1": "TRUE",
		"A2": "world",
		"B2": "-1",
		"C2": "FALSE",
		"A3": "merged",
	} {
		got, err := f.GetCellValue("data", addr)
		if err != nil {
			t.Errorf("%s: excelize fails to read value: %s", addr, err)
			continue
		}
		if got != want {
			t.Errorf("%s: results mismatched! want %s - got %s", addr, want, got)
		}
	}
	if got, _ := f.GetCellFormula("data", "D1"); got != "B1*2" {
		t.Errorf("formula: results mismatched! want %s - got %s", "B1*2", got)
	}
	merges, err := f.GetMergeCells("data")
	if err != nil {
		t.Fatalf("excelize fails to read merges: %s", err)
	}
	if len(merges) != 1 || merges[0].GetStartAxis() != "A3" || merges[0].GetEndAxis() != "B4" {
		t.Errorf("merges: unexpected value %v", merges)
	}
	if width, _ := f.GetColWidth("data", "B"); width != 24 {
		t.Errorf("width: results mismatched! want %.2f - got %.2f", 24.0, width)
	}
}

func TestInteropRead(t *testing.T) {
	useUTC(t)

	f := excelize.NewFile()
	defer f.Close()

	var (
		when  = time.Date(2023, 6, 2, 9, 30, 0, 0, time.UTC)
		month = time.Date(2023, 6, 1, 9, 30, 0, 0, time.UTC)
	)
	cells := map[string]any{
		"A1": "name",
		"B1": 12.25,
		"C1": true,
		"D1": when,
		"A2": "name",
		"D2": month,
	}
	for addr, v := range cells {
		if err := f.SetCellValue("Sheet1", addr, v); err != nil {
			t.Fatalf("%s: excelize fails to set value: %s", addr, err)
		}
	}
	if err := f.SetCellFormula("Sheet1", "E1", "B1*2"); err != nil {
		t.Fatalf("excelize fails to set formula: %s", err)
	}
	if err := f.MergeCell("Sheet1", "A4", "C5"); err != nil {
		t.Fatalf("excelize fails to merge cells: %s", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("excelize fails to write workbook: %s", err)
	}

	wb, err := Open(buf.Bytes())
	if err != nil {
		t.Fatalf("fail to open workbook: %s", err)
	}
	defer wb.Close()

	ws, err := wb.Worksheet("Sheet1")
	if err != nil {
		t.Fatalf("fail to get worksheet: %s", err)
	}
	want := map[string]value.Value{
		"A1": value.Text("name"),
		"B1": value.Float(12.25),
		"C1": value.Boolean(true),
		"D1": value.DateTime(when),
		"A2": value.Text("name"),
		"D2": value.DateOnly(month),
	}
	for addr, v := range want {
		cell, _ := ws.CellAt(addr)
		got, err := cell.Value()
		if err != nil {
			t.Errorf("%s: fail to read value: %s", addr, err)
			continue
		}
		if got.Kind() != v.Kind() || got.String() != v.String() {
			t.Errorf("%s: results mismatched! want %s(%s) - got %s(%s)", addr, v, v.Kind(), got, got.Kind())
		}
	}
	cell, _ := ws.CellAt("E1")
	if got, _ := cell.Formula(); got != "B1*2" {
		t.Errorf("formula: results mismatched! want %s - got %s", "B1*2", got)
	}
	merges, _ := ws.Merges()
	if len(merges) != 1 || merges[0].String() != "A4:C5" {
		t.Errorf("merges: results mismatched! want %s - got %v", "A4:C5", merges)
	}

	cell, _ = ws.CellAt("F1")
	cell.Set("added")
	data, err := wb.Bytes()
	if err != nil {
		t.Fatalf("fail to write workbook: %s", err)
	}
	g, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("excelize fails to open modified workbook: %s", err)
	}
	defer g.Close()
	for addr, want := range map[string]string{"A1": "name", "F1": "added", "C1": "TRUE"} {
		if got, _ := g.GetCellValue("Sheet1", addr); got != want {
			t.Errorf("%s: results mismatched! want %s - got %s", addr, want, got)
		}
	}
}
