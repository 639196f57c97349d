package oxml

import (
	"testing"
)

func TestProbeWorksheet(t *testing.T) {
	probe, err := ProbeWorksheet([]byte(sampleSheet))
	if err != nil {
		t.Fatalf("fail to probe worksheet: %s", err)
	}
	if got := probe.Declared.String(); got != "A1:Z99" {
		t.Errorf("declared: results mismatched! want %s - got %s", "A1:Z99", got)
	}
	if got := probe.Range.String(); got != "A1:B3" {
		t.Errorf("range: results mismatched! want %s - got %s", "A1:B3", got)
	}
	if probe.Cells != 3 {
		t.Errorf("cells: results mismatched! want %d - got %d", 3, probe.Cells)
	}
	if !probe.Protection.Locked() {
		t.Errorf("protection not detected")
	}
}

func TestProbeEmptyWorksheet(t *testing.T) {
	const doc = `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><dimension ref="A1"/><sheetData/></worksheet>`
	probe, err := ProbeWorksheet([]byte(doc))
	if err != nil {
		t.Fatalf("fail to probe worksheet: %s", err)
	}
	if !probe.Empty() {
		t.Errorf("sheet without cells should be empty")
	}
	if probe.Protection != 0 {
		t.Errorf("unprotected sheet reported as protected")
	}
}
