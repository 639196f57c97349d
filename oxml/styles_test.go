package oxml

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestStyleSheetAdd(t *testing.T) {
	ss := NewStyleSheet()
	style := Style{
		Background: "FFFF0000",
		Border:     []string{BorderLeft, BorderTop},
	}
	first, err := ss.Add(style)
	if err != nil {
		t.Fatalf("fail to add style: %s", err)
	}
	second, _ := ss.Add(Style{
		Background: "ffff0000",
		Border:     []string{BorderLeft, BorderTop},
	})
	if first != second {
		t.Errorf("identical styles: results mismatched! want %d - got %d", first, second)
	}
	other, _ := ss.Add(Style{
		Background: "FF00FF00",
		Border:     []string{BorderLeft, BorderTop},
	})
	if other == first {
		t.Errorf("styles with different background share index %d", other)
	}
	if len(ss.Borders) != 2 {
		t.Errorf("borders: results mismatched! want %d - got %d", 2, len(ss.Borders))
	}
	if len(ss.Fills) != 4 {
		t.Errorf("fills: results mismatched! want %d - got %d", 4, len(ss.Fills))
	}
	if _, err := ss.Add(Style{Background: "red"}); !errors.Is(err, ErrStyle) {
		t.Errorf("invalid background accepted")
	}
	if _, err := ss.Add(Style{Border: []string{"middle"}}); !errors.Is(err, ErrStyle) {
		t.Errorf("invalid border accepted")
	}
}

func TestStyleSheetAddWithClone(t *testing.T) {
	ss := NewStyleSheet()
	base, _ := ss.Add(Style{
		Background:      "FF112233",
		HorizontalAlign: "center",
	})
	id, err := ss.AddWithClone(base, Style{Border: []string{BorderBottom}})
	if err != nil {
		t.Fatalf("fail to clone style: %s", err)
	}
	if id == base {
		t.Fatalf("patched style shares index with its base")
	}
	got, err := ss.Get(id)
	if err != nil {
		t.Fatalf("fail to get style: %s", err)
	}
	if got.Background != "FF112233" {
		t.Errorf("background: results mismatched! want %s - got %s", "FF112233", got.Background)
	}
	if got.HorizontalAlign != "center" {
		t.Errorf("alignment: results mismatched! want %s - got %s", "center", got.HorizontalAlign)
	}
	if !slices.Equal(got.Border, []string{BorderBottom}) {
		t.Errorf("border: results mismatched! want %s - got %s", BorderBottom, got.Border)
	}
	again, _ := ss.AddWithClone(base, Style{Border: []string{BorderBottom}})
	if again != id {
		t.Errorf("same patch: results mismatched! want %d - got %d", id, again)
	}
	if _, err := ss.AddWithClone(100, Style{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown base style accepted")
	}
}

func TestStyleSheetNumFmt(t *testing.T) {
	ss := NewStyleSheet()
	first, _ := ss.Add(Style{NumFmtCode: "0.000"})
	second, _ := ss.Add(Style{NumFmtCode: "yyyy/mm/dd"})
	again, _ := ss.Add(Style{NumFmtCode: "0.000"})
	if first != again {
		t.Errorf("same code: results mismatched! want %d - got %d", first, again)
	}
	tests := []struct {
		Style int
		ID    int
		Code  string
	}{
		{first, 180, "0.000"},
		{second, 181, "yyyy/mm/dd"},
	}
	for _, c := range tests {
		id, _ := ss.NumFmtID(c.Style)
		if id != c.ID {
			t.Errorf("%s: results mismatched! want %d - got %d", c.Code, c.ID, id)
		}
		code, _ := ss.NumFmtCode(id)
		if code != c.Code {
			t.Errorf("%d: results mismatched! want %s - got %s", id, c.Code, code)
		}
	}
	if code, ok := ss.NumFmtCode(14); !ok || code == "" {
		t.Errorf("builtin format 14 not found")
	}
	if _, ok := ss.CustomNumFmt(14); ok {
		t.Errorf("builtin format reported as custom")
	}
}

func TestStyleSheetNumFmtAfterExisting(t *testing.T) {
	const doc = `<styleSheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<numFmts count="1"><numFmt numFmtId="200" formatCode="0.0%"/></numFmts>
<fonts count="1"><font><sz val="11"/></font></fonts>
<fills count="2"><fill><patternFill patternType="none"/></fill><fill><patternFill patternType="gray125"/></fill></fills>
<borders count="1"><border><left/><right/><top/><bottom/><diagonal/></border></borders>
<cellStyleXfs count="1"><xf numFmtId="0" fontId="0" fillId="0" borderId="0"/></cellStyleXfs>
<cellXfs count="1"><xf numFmtId="0" fontId="0" fillId="0" borderId="0" xfId="0"/></cellXfs>
<cellStyles count="1"><cellStyle name="Normal" xfId="0" builtinId="0"/></cellStyles>
<dxfs count="0"/>
</styleSheet>`
	ss, err := decodeStyleSheet(PathStyles, []byte(doc))
	if err != nil {
		t.Fatalf("fail to decode styles: %s", err)
	}
	id, _ := ss.Add(Style{NumFmtCode: "#,##0"})
	num, _ := ss.NumFmtID(id)
	if num != 201 {
		t.Errorf("numFmt: results mismatched! want %d - got %d", 201, num)
	}
	id, _ = ss.Add(Style{NumFmtCode: "0.0%"})
	if num, _ := ss.NumFmtID(id); num != 200 {
		t.Errorf("numFmt: results mismatched! want %d - got %d", 200, num)
	}
	data, err := ss.Encode()
	if err != nil {
		t.Fatalf("fail to encode styles: %s", err)
	}
	str := string(data)
	for _, want := range []string{`<numFmts count="2">`, `<sz val="11"/>`, `<cellStyle name="Normal"`, `<dxfs count="0">`} {
		if !strings.Contains(str, want) {
			t.Errorf("%s not found in %s", want, str)
		}
	}
	if strings.Index(str, "<numFmts") > strings.Index(str, "<fonts") {
		t.Errorf("numFmts should be written before fonts")
	}
	if strings.Index(str, "<cellStyles") > strings.Index(str, "<dxfs") {
		t.Errorf("cellStyles should be written before dxfs")
	}
}

func TestStyleSheetGet(t *testing.T) {
	ss := NewStyleSheet()
	style, err := ss.Get(0)
	if err != nil {
		t.Fatalf("fail to get default style: %s", err)
	}
	if style.Background != "" || len(style.Border) != 0 {
		t.Errorf("default style should be empty: %+v", style)
	}
	if _, err := ss.Get(10); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown style found")
	}
}
