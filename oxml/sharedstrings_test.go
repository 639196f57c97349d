package oxml

import (
	"strings"
	"testing"
)

func TestSharedStringsAdd(t *testing.T) {
	ss := NewSharedStrings()
	var (
		first  = ss.Add("hello")
		second = ss.Add("world")
		again  = ss.Add("hello")
	)
	if first != again {
		t.Errorf("same text: results mismatched! want %d - got %d", first, again)
	}
	if first == second {
		t.Errorf("distinct texts share the same index %d", first)
	}
	if id, ok := ss.ID("world"); !ok || id != second {
		t.Errorf("world: results mismatched! want %d - got %d", second, id)
	}
	if _, ok := ss.ID("missing"); ok {
		t.Errorf("missing text found in table")
	}
	if str, _ := ss.Text(second); str != "world" {
		t.Errorf("text: results mismatched! want %s - got %s", "world", str)
	}
	if _, ok := ss.Text(10); ok {
		t.Errorf("out of range index accepted")
	}
}

func TestSharedStringsDecode(t *testing.T) {
	const doc = `<?xml version="1.0" encoding="UTF-8"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" count="3" uniqueCount="3">
<si><t>plain</t></si>
<si><r><rPr><b/></rPr><t>bold</t></r><r><t> text</t></r></si>
<si><t xml:space="preserve"> padded </t></si>
</sst>`
	ss, err := decodeSharedStrings(PathSharedStrings, []byte(doc))
	if err != nil {
		t.Fatalf("fail to decode shared strings: %s", err)
	}
	tests := []struct {
		Index int
		Want  string
	}{
		{0, "plain"},
		{1, "bold text"},
		{2, " padded "},
	}
	for _, c := range tests {
		got, _ := ss.Text(c.Index)
		if got != c.Want {
			t.Errorf("%d: results mismatched! want %q - got %q", c.Index, c.Want, got)
		}
	}
	if _, ok := ss.ID("bold text"); ok {
		t.Errorf("rich text item should not be reused")
	}
	if ix := ss.Add("bold text"); ix != 3 {
		t.Errorf("rich text: results mismatched! want %d - got %d", 3, ix)
	}
	if ix := ss.Add("plain"); ix != 0 {
		t.Errorf("plain: results mismatched! want %d - got %d", 0, ix)
	}
	data, err := ss.Encode()
	if err != nil {
		t.Fatalf("fail to encode shared strings: %s", err)
	}
	str := string(data)
	if !strings.Contains(str, `uniqueCount="4"`) {
		t.Errorf("unique count not updated: %s", str)
	}
	if !strings.Contains(str, `xml:space="preserve"`) {
		t.Errorf("whitespace of text not preserved: %s", str)
	}
}
