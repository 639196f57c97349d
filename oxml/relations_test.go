package oxml

import (
	"strings"
	"testing"
)

func TestRelationshipsAdd(t *testing.T) {
	const doc = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
</Relationships>`
	rels, err := decodeRelationships(PathWorkbookRels, []byte(doc))
	if err != nil {
		t.Fatalf("fail to decode relationships: %s", err)
	}
	id := rels.Add(TypeSheetUrl, "worksheets/sheet2.xml")
	if id != "rId4" {
		t.Errorf("id: results mismatched! want %s - got %s", "rId4", id)
	}
	if list := rels.Find("/worksheet"); len(list) != 2 {
		t.Errorf("worksheets: results mismatched! want %d - got %d", 2, len(list))
	}
	rel, ok := rels.Get("rId3")
	if !ok {
		t.Fatalf("rId3 not found")
	}
	if got := rels.Resolve(rel); got != PathStyles {
		t.Errorf("resolve: results mismatched! want %s - got %s", PathStyles, got)
	}
	rels.Remove("rId3")
	if _, ok := rels.Get("rId3"); ok {
		t.Errorf("rId3 not removed")
	}
	data, err := rels.Encode()
	if err != nil {
		t.Fatalf("fail to encode relationships: %s", err)
	}
	if !strings.Contains(string(data), `Id="rId4"`) {
		t.Errorf("new relationship not written: %s", data)
	}
}

func TestRelationPaths(t *testing.T) {
	tests := []struct {
		Part string
		Rels string
	}{
		{"xl/workbook.xml", "xl/_rels/workbook.xml.rels"},
		{"xl/worksheets/sheet1.xml", "xl/worksheets/_rels/sheet1.xml.rels"},
		{"", "_rels/.rels"},
	}
	for _, c := range tests {
		if got := RelationsPath(c.Part); got != c.Rels {
			t.Errorf("%s: results mismatched! want %s - got %s", c.Part, c.Rels, got)
		}
		if got := SourcePath(c.Rels); got != c.Part {
			t.Errorf("%s: results mismatched! want %s - got %s", c.Rels, c.Part, got)
		}
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		Source string
		Target string
		Want   string
	}{
		{"xl/workbook.xml", "worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl/worksheets/sheet1.xml", "../drawings/drawing1.xml", "xl/drawings/drawing1.xml"},
		{"xl/drawings/drawing1.xml", "../media/image1.png", "xl/media/image1.png"},
		{"xl/workbook.xml", "/xl/styles.xml", "xl/styles.xml"},
		{"", "xl/workbook.xml", "xl/workbook.xml"},
	}
	for _, c := range tests {
		if got := ResolvePath(c.Source, c.Target); got != c.Want {
			t.Errorf("%s: results mismatched! want %s - got %s", c.Target, c.Want, got)
		}
		if c.Target[0] == '/' {
			continue
		}
		if got := RelativePath(c.Source, c.Want); got != c.Target {
			t.Errorf("%s: results mismatched! want %s - got %s", c.Want, c.Target, got)
		}
	}
}

func TestContentTypes(t *testing.T) {
	ct := NewContentTypes()
	ct.Add(PathWorkbook, MimeWorkbook)
	ct.Add("/xl/worksheets/sheet1.xml", MimeWorksheet)
	ct.Add(PathWorkbook, MimeWorkbook)
	ct.AddDefault("png", "image/png")
	ct.AddDefault(".PNG", "image/png")
	if len(ct.Overrides) != 2 {
		t.Errorf("overrides: results mismatched! want %d - got %d", 2, len(ct.Overrides))
	}
	if len(ct.Defaults) != 3 {
		t.Errorf("defaults: results mismatched! want %d - got %d", 3, len(ct.Defaults))
	}
	tests := []struct {
		Part string
		Want string
	}{
		{"xl/workbook.xml", MimeWorkbook},
		{"xl/worksheets/sheet1.xml", MimeWorksheet},
		{"xl/media/image1.png", "image/png"},
		{"_rels/.rels", MimeRels},
		{"docProps/core.xml", MimeXml},
	}
	for _, c := range tests {
		got, _ := ct.Get(c.Part)
		if got != c.Want {
			t.Errorf("%s: results mismatched! want %s - got %s", c.Part, c.Want, got)
		}
	}
	ct.Remove("xl/worksheets/sheet1.xml")
	if got, _ := ct.Get("xl/worksheets/sheet1.xml"); got != MimeXml {
		t.Errorf("removed override: results mismatched! want %s - got %s", MimeXml, got)
	}
}
