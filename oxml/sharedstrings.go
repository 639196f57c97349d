package oxml

import (
	"encoding/xml"
	"strings"
)

type Text struct {
	Value string `xml:",chardata"`
	Space string `xml:"http://www.w3.org/XML/1998/namespace space,attr,omitempty"`
}

func makeText(str string) Text {
	t := Text{
		Value: str,
	}
	if strings.TrimSpace(str) != str {
		t.Space = "preserve"
	}
	return t
}

type Run struct {
	Props *rawElement `xml:"rPr"`
	Text  Text        `xml:"t"`
}

// RichText is the content of a shared string item or of an inline string.
type RichText struct {
	Text *Text `xml:"t"`
	Runs []Run `xml:"r"`
}

func (r *RichText) String() string {
	if r == nil {
		return ""
	}
	if r.Text != nil && len(r.Runs) == 0 {
		return r.Text.Value
	}
	var str strings.Builder
	if r.Text != nil {
		str.WriteString(r.Text.Value)
	}
	for _, x := range r.Runs {
		str.WriteString(x.Text.Value)
	}
	return str.String()
}

func (r *RichText) rich() bool {
	return len(r.Runs) > 0
}

func (r *RichText) clone() *RichText {
	if r == nil {
		return nil
	}
	x := RichText{}
	if r.Text != nil {
		t := *r.Text
		x.Text = &t
	}
	for _, n := range r.Runs {
		n.Props = n.Props.clone()
		x.Runs = append(x.Runs, n)
	}
	return &x
}

// SharedStrings is the model of xl/sharedStrings.xml.
type SharedStrings struct {
	XMLName     xml.Name    `xml:"sst"`
	Xmlns       string      `xml:"xmlns,attr"`
	Count       int         `xml:"count,attr"`
	UniqueCount int         `xml:"uniqueCount,attr"`
	Items       []*RichText `xml:"si"`

	index map[string]int
}

func NewSharedStrings() *SharedStrings {
	return &SharedStrings{
		Xmlns: nsMain,
		index: make(map[string]int),
	}
}

func decodeSharedStrings(name string, data []byte) (*SharedStrings, error) {
	ss := NewSharedStrings()
	if err := decodeXML(name, data, ss); err != nil {
		return nil, err
	}
	ss.Xmlns = nsMain
	for i, it := range ss.Items {
		if it.rich() {
			continue
		}
		str := it.String()
		if _, ok := ss.index[str]; !ok {
			ss.index[str] = i
		}
	}
	return ss, nil
}

// Add returns the index of str, appending a new item when the text is
// not yet in the table.
func (s *SharedStrings) Add(str string) int {
	if ix, ok := s.index[str]; ok {
		return ix
	}
	t := makeText(str)
	s.Items = append(s.Items, &RichText{Text: &t})
	ix := len(s.Items) - 1
	s.index[str] = ix
	return ix
}

func (s *SharedStrings) ID(str string) (int, bool) {
	ix, ok := s.index[str]
	return ix, ok
}

func (s *SharedStrings) Text(ix int) (string, bool) {
	if ix < 0 || ix >= len(s.Items) {
		return "", false
	}
	return s.Items[ix].String(), true
}

func (s *SharedStrings) Len() int {
	return len(s.Items)
}

func (s *SharedStrings) Normalize() {
	s.UniqueCount = len(s.Items)
	s.Count = max(s.Count, s.UniqueCount)
}

func (s *SharedStrings) Encode() ([]byte, error) {
	s.Normalize()
	return encodeXML(PathSharedStrings, s)
}
