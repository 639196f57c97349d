package oxml

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
)

// EMU is the number of English Metric Units in one pixel at 96 dpi.
const EMU = 9525

var pictureID = regexp.MustCompile(`cNvPr[^>]*\sid="(\d+)"`)

// Marker locates a corner of a drawing: a 0-based cell and an offset in
// EMU from its top left corner.
type Marker struct {
	Col    int
	ColOff int64
	Row    int
	RowOff int64
}

type Picture struct {
	ID    int
	Name  string
	Descr string
	RID   string
	From  Marker
	To    Marker
}

// Drawing is the model of a xl/drawings/drawingN.xml part. Anchors read
// from an existing part are kept as they are, new pictures are appended
// after them.
type Drawing struct {
	Pictures []Picture

	anchors []rawElement
	attrs   []xml.Attr
	name    string
}

func NewDrawing(name string) *Drawing {
	return &Drawing{
		name: name,
	}
}

func decodeDrawing(name string, data []byte) (*Drawing, error) {
	dw := NewDrawing(name)
	if err := decodeXML(name, data, dw); err != nil {
		return nil, err
	}
	return dw, nil
}

// AddPicture anchors the image referenced by rid between from and to.
func (d *Drawing) AddPicture(rid string, from, to Marker, descr string) Picture {
	id := d.nextID()
	pic := Picture{
		ID:    id,
		Name:  fmt.Sprintf("Picture %d", id-1),
		Descr: descr,
		RID:   rid,
		From:  from,
		To:    to,
	}
	d.Pictures = append(d.Pictures, pic)
	return pic
}

func (d *Drawing) Name() string {
	return d.name
}

func (d *Drawing) Len() int {
	return len(d.anchors) + len(d.Pictures)
}

func (d *Drawing) Encode() ([]byte, error) {
	return encodeXML(d.name, d)
}

func (d *Drawing) nextID() int {
	last := 1
	for _, a := range d.anchors {
		for _, m := range pictureID.FindAllSubmatch(a.Inner, -1) {
			n, _ := strconv.Atoi(string(m[1]))
			last = max(last, n)
		}
	}
	for _, p := range d.Pictures {
		last = max(last, p.ID)
	}
	return last + 1
}

type xdrMarker struct {
	Col    int   `xml:"xdr:col"`
	ColOff int64 `xml:"xdr:colOff"`
	Row    int   `xml:"xdr:row"`
	RowOff int64 `xml:"xdr:rowOff"`
}

func makeMarker(m Marker) xdrMarker {
	return xdrMarker{
		Col:    m.Col,
		ColOff: m.ColOff,
		Row:    m.Row,
		RowOff: m.RowOff,
	}
}

type xdrPicture struct {
	NvPicPr struct {
		CNvPr struct {
			ID    int    `xml:"id,attr"`
			Name  string `xml:"name,attr"`
			Descr string `xml:"descr,attr,omitempty"`
		} `xml:"xdr:cNvPr"`
		CNvPicPr struct {
			Locks struct {
				NoChangeAspect int `xml:"noChangeAspect,attr"`
			} `xml:"a:picLocks"`
		} `xml:"xdr:cNvPicPr"`
	} `xml:"xdr:nvPicPr"`
	BlipFill struct {
		Blip struct {
			Embed string `xml:"r:embed,attr"`
		} `xml:"a:blip"`
		Stretch struct {
			FillRect struct{} `xml:"a:fillRect"`
		} `xml:"a:stretch"`
	} `xml:"xdr:blipFill"`
	SpPr struct {
		Geom struct {
			Preset string   `xml:"prst,attr"`
			AvLst  struct{} `xml:"a:avLst"`
		} `xml:"a:prstGeom"`
	} `xml:"xdr:spPr"`
}

type xdrAnchor struct {
	XMLName    xml.Name   `xml:"xdr:twoCellAnchor"`
	EditAs     string     `xml:"editAs,attr"`
	From       xdrMarker  `xml:"xdr:from"`
	To         xdrMarker  `xml:"xdr:to"`
	Picture    xdrPicture `xml:"xdr:pic"`
	ClientData struct{}   `xml:"xdr:clientData"`
}

func makeAnchor(p Picture) xdrAnchor {
	a := xdrAnchor{
		EditAs: "oneCell",
		From:   makeMarker(p.From),
		To:     makeMarker(p.To),
	}
	a.Picture.NvPicPr.CNvPr.ID = p.ID
	a.Picture.NvPicPr.CNvPr.Name = p.Name
	a.Picture.NvPicPr.CNvPr.Descr = p.Descr
	a.Picture.NvPicPr.CNvPicPr.Locks.NoChangeAspect = 1
	a.Picture.BlipFill.Blip.Embed = p.RID
	a.Picture.SpPr.Geom.Preset = "rect"
	return a
}

func (d *Drawing) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "xdr:wsDr"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns:xdr"}, Value: nsDrawing},
			{Name: xml.Name{Local: "xmlns:a"}, Value: nsDrawingMain},
			{Name: xml.Name{Local: "xmlns:r"}, Value: nsRelations},
		},
	}
	start.Attr = append(start.Attr, d.attrs...)
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, a := range d.anchors {
		if err := e.Encode(a); err != nil {
			return err
		}
	}
	for _, p := range d.Pictures {
		if err := e.Encode(makeAnchor(p)); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func (d *Drawing) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	ns := collectNamespaces(start.Attr)
	d.attrs = ns.rootAttrs(start.Attr, "", "xdr", "a", "r")
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			var raw rawElement
			if err := dec.DecodeElement(&raw, &el); err != nil {
				return err
			}
			d.anchors = append(d.anchors, raw.localize(ns, ""))
		case xml.EndElement:
			return nil
		}
	}
}
