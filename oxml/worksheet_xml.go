package oxml

import (
	"encoding/xml"
	"fmt"

	"github.com/midbel/sheetkit/layout"
)

var worksheetOrder = schemaOrder{
	"sheetPr",
	"dimension",
	"sheetViews",
	"sheetFormatPr",
	"cols",
	"sheetData",
	"sheetCalcPr",
	"sheetProtection",
	"protectedRanges",
	"scenarios",
	"autoFilter",
	"sortState",
	"dataConsolidate",
	"customSheetViews",
	"mergeCells",
	"phoneticPr",
	"conditionalFormatting",
	"dataValidations",
	"hyperlinks",
	"printOptions",
	"pageMargins",
	"pageSetup",
	"headerFooter",
	"rowBreaks",
	"colBreaks",
	"customProperties",
	"cellWatches",
	"ignoredErrors",
	"smartTags",
	"drawing",
	"legacyDrawing",
	"legacyDrawingHF",
	"drawingHF",
	"picture",
	"oleObjects",
	"controls",
	"webPublishItems",
	"tableParts",
	"extLst",
}

type mergeCell struct {
	Ref string `xml:"ref,attr"`
}

func decodeWorksheet(name string, data []byte) (*Worksheet, error) {
	ws := NewWorksheet(name)
	if err := decodeXML(name, data, ws); err != nil {
		return nil, err
	}
	return ws, nil
}

func (w *Worksheet) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "worksheet"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: nsMain},
			{Name: xml.Name{Local: "xmlns:r"}, Value: nsRelations},
		},
	}
	start.Attr = append(start.Attr, w.attrs...)
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	err := encodeChildren(e, worksheetOrder, w.extras, func(name string) error {
		switch name {
		case "dimension":
			ref := "A1"
			if rg, ok := w.Range(); ok {
				ref = rg.String()
			}
			return encodeElement(e, name, struct {
				Ref string `xml:"ref,attr"`
			}{ref})
		case "sheetViews":
			if len(w.Views) == 0 {
				return nil
			}
			return encodeElement(e, name, struct {
				Views []SheetView `xml:"sheetView"`
			}{w.Views})
		case "cols":
			if len(w.Cols) == 0 {
				return nil
			}
			return encodeElement(e, name, struct {
				Cols []Column `xml:"col"`
			}{w.Cols})
		case "sheetData":
			var rows []*Row
			for _, ix := range w.RowIndices() {
				rows = append(rows, w.rows[ix])
			}
			return encodeElement(e, name, struct {
				Rows []*Row `xml:"row"`
			}{rows})
		case "mergeCells":
			if len(w.merges) == 0 {
				return nil
			}
			list := make([]mergeCell, 0, len(w.merges))
			for _, m := range w.merges {
				list = append(list, mergeCell{Ref: m.String()})
			}
			return encodeElement(e, name, struct {
				Count int         `xml:"count,attr"`
				Items []mergeCell `xml:"mergeCell"`
			}{len(list), list})
		case "drawing":
			if w.DrawingID == "" {
				return nil
			}
			el := xml.StartElement{
				Name: xml.Name{Local: name},
				Attr: []xml.Attr{
					{Name: xml.Name{Local: "r:id"}, Value: w.DrawingID},
				},
			}
			if err := e.EncodeToken(el); err != nil {
				return err
			}
			return e.EncodeToken(el.End())
		default:
			return nil
		}
	})
	if err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

func (w *Worksheet) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	ns := collectNamespaces(start.Attr)
	w.attrs = ns.rootAttrs(start.Attr, nsMain, "r")
	extras, err := decodeChildren(d, worksheetOrder, ns, nsMain, func(el xml.StartElement) (bool, error) {
		if el.Name.Space != nsMain && el.Name.Space != "" {
			return false, nil
		}
		switch el.Name.Local {
		case "dimension":
			return true, d.Skip()
		case "sheetViews":
			var views struct {
				Views []SheetView `xml:"sheetView"`
			}
			if err := d.DecodeElement(&views, &el); err != nil {
				return false, err
			}
			for i := range views.Views {
				views.Views[i].Attrs = ns.rootAttrs(views.Views[i].Attrs, nsMain)
			}
			w.Views = views.Views
		case "cols":
			var cols struct {
				Cols []Column `xml:"col"`
			}
			if err := d.DecodeElement(&cols, &el); err != nil {
				return false, err
			}
			w.Cols = cols.Cols
		case "sheetData":
			var data struct {
				Rows []*Row `xml:"row"`
			}
			if err := d.DecodeElement(&data, &el); err != nil {
				return false, err
			}
			if err := w.index(data.Rows); err != nil {
				return false, err
			}
		case "mergeCells":
			var list struct {
				Items []mergeCell `xml:"mergeCell"`
			}
			if err := d.DecodeElement(&list, &el); err != nil {
				return false, err
			}
			for _, m := range list.Items {
				rg, err := layout.ParseRange(m.Ref)
				if err != nil {
					return false, fmt.Errorf("%w: merge %s", ErrFile, err)
				}
				w.merges = append(w.merges, rg)
			}
		case "drawing":
			var ref struct {
				ID string `xml:"id,attr"`
			}
			if err := d.DecodeElement(&ref, &el); err != nil {
				return false, err
			}
			w.DrawingID = ref.ID
		default:
			return false, nil
		}
		return true, nil
	})
	w.extras = extras
	return err
}
