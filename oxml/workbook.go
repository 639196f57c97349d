package oxml

import (
	"encoding/xml"
	"fmt"
	"slices"
	"strconv"
)

var workbookOrder = schemaOrder{
	"fileVersion",
	"fileSharing",
	"workbookPr",
	"workbookProtection",
	"bookViews",
	"sheets",
	"functionGroups",
	"externalReferences",
	"definedNames",
	"calcPr",
	"oleSize",
	"customWorkbookViews",
	"pivotCaches",
	"smartTagPr",
	"smartTagTypes",
	"webPublishing",
	"fileRecoveryPr",
	"webPublishObjects",
	"extLst",
}

type BookView struct {
	ActiveTab int        `xml:"activeTab,attr,omitempty"`
	Attrs     []xml.Attr `xml:",any,attr"`
}

type Sheet struct {
	Name  string     `xml:"name,attr"`
	ID    int        `xml:"sheetId,attr"`
	State SheetState `xml:"state,attr,omitempty"`
	RID   string     `xml:"id,attr"`
}

func (s Sheet) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{
		Name: xml.Name{Local: "sheet"},
	}
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "name"}, Value: s.Name})
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "sheetId"}, Value: strconv.Itoa(s.ID)})
	if attr, _ := s.State.MarshalXMLAttr(xml.Name{Local: "state"}); attr.Name.Local != "" {
		start.Attr = append(start.Attr, attr)
	}
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "r:id"}, Value: s.RID})
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

// Workbook is the model of xl/workbook.xml.
type Workbook struct {
	Views  []BookView
	Sheets []Sheet

	attrs  []xml.Attr
	extras []extra
}

func NewWorkbook() *Workbook {
	return &Workbook{}
}

func decodeWorkbook(name string, data []byte) (*Workbook, error) {
	var wb Workbook
	if err := decodeXML(name, data, &wb); err != nil {
		return nil, err
	}
	return &wb, nil
}

func (w *Workbook) Sheet(name string) (Sheet, bool) {
	ix := slices.IndexFunc(w.Sheets, func(s Sheet) bool {
		return s.Name == name
	})
	if ix < 0 {
		return Sheet{}, false
	}
	return w.Sheets[ix], true
}

func (w *Workbook) Names() []string {
	var list []string
	for _, s := range w.Sheets {
		list = append(list, s.Name)
	}
	return list
}

// AddSheet registers a sheet linked to the relationship rid. Its sheetId
// is allocated after the highest one in use.
func (w *Workbook) AddSheet(name, rid string) Sheet {
	var last int
	for _, s := range w.Sheets {
		last = max(last, s.ID)
	}
	s := Sheet{
		Name:  name,
		ID:    last + 1,
		State: StateVisible,
		RID:   rid,
	}
	w.Sheets = append(w.Sheets, s)
	return s
}

func (w *Workbook) Rename(rid, name string) error {
	ix := slices.IndexFunc(w.Sheets, func(s Sheet) bool {
		return s.RID == rid
	})
	if ix < 0 {
		return fmt.Errorf("sheet %s %w", rid, ErrNotFound)
	}
	w.Sheets[ix].Name = name
	return nil
}

// InitializeView makes sure that the workbook has a view that sheet
// views can refer to.
func (w *Workbook) InitializeView() {
	if len(w.Views) == 0 {
		w.Views = append(w.Views, BookView{})
	}
}

func (w *Workbook) Encode() ([]byte, error) {
	return encodeXML(PathWorkbook, w)
}

func (w *Workbook) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "workbook"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: nsMain},
			{Name: xml.Name{Local: "xmlns:r"}, Value: nsRelations},
		},
	}
	start.Attr = append(start.Attr, w.attrs...)
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	err := encodeChildren(e, workbookOrder, w.extras, func(name string) error {
		switch name {
		case "bookViews":
			if len(w.Views) == 0 {
				return nil
			}
			views := struct {
				Views []BookView `xml:"workbookView"`
			}{
				Views: w.Views,
			}
			return encodeElement(e, name, views)
		case "sheets":
			sheets := struct {
				Sheets []Sheet `xml:"sheet"`
			}{
				Sheets: w.Sheets,
			}
			return encodeElement(e, name, sheets)
		default:
			return nil
		}
	})
	if err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

func (w *Workbook) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	ns := collectNamespaces(start.Attr)
	w.attrs = ns.rootAttrs(start.Attr, nsMain, "r")
	extras, err := decodeChildren(d, workbookOrder, ns, nsMain, func(el xml.StartElement) (bool, error) {
		switch el.Name.Local {
		case "bookViews":
			var views struct {
				Views []BookView `xml:"workbookView"`
			}
			if err := d.DecodeElement(&views, &el); err != nil {
				return false, err
			}
			for i := range views.Views {
				views.Views[i].Attrs = ns.rootAttrs(views.Views[i].Attrs, nsMain)
			}
			w.Views = views.Views
			return true, nil
		case "sheets":
			var sheets struct {
				Sheets []Sheet `xml:"sheet"`
			}
			if err := d.DecodeElement(&sheets, &el); err != nil {
				return false, err
			}
			for i := range sheets.Sheets {
				if sheets.Sheets[i].State == 0 {
					sheets.Sheets[i].State = StateVisible
				}
			}
			w.Sheets = sheets.Sheets
			return true, nil
		default:
			return false, nil
		}
	})
	w.extras = extras
	return err
}
