package oxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/midbel/sheetkit/format"
)

var ErrStyle = errors.New("invalid style")

var styleOrder = schemaOrder{
	"numFmts",
	"fonts",
	"fills",
	"borders",
	"cellStyleXfs",
	"cellXfs",
	"cellStyles",
	"dxfs",
	"tableStyles",
	"colors",
	"extLst",
}

const (
	BorderLeft   = "left"
	BorderRight  = "right"
	BorderTop    = "top"
	BorderBottom = "bottom"
)

var argbPattern = regexp.MustCompile(`^[0-9A-Fa-f]{8}$`)

type NumFmt struct {
	ID   int    `xml:"numFmtId,attr"`
	Code string `xml:"formatCode,attr"`
}

type Font struct {
	Inner []byte `xml:",innerxml"`
}

type Color struct {
	RGB     string     `xml:"rgb,attr,omitempty"`
	Theme   *int       `xml:"theme,attr"`
	Indexed *int       `xml:"indexed,attr"`
	Tint    float64    `xml:"tint,attr,omitempty"`
	Auto    bool       `xml:"auto,attr,omitempty"`
	Attrs   []xml.Attr `xml:",any,attr"`
}

type PatternFill struct {
	Type string `xml:"patternType,attr,omitempty"`
	Fg   *Color `xml:"fgColor"`
	Bg   *Color `xml:"bgColor"`
}

type Fill struct {
	Pattern  *PatternFill `xml:"patternFill"`
	Gradient *rawElement  `xml:"gradientFill"`
}

type BorderEdge struct {
	Style string `xml:"style,attr,omitempty"`
	Color *Color `xml:"color"`
}

func thinEdge() *BorderEdge {
	return &BorderEdge{
		Style: "thin",
		Color: &Color{RGB: "00000000"},
	}
}

type Border struct {
	DiagonalUp   bool        `xml:"diagonalUp,attr,omitempty"`
	DiagonalDown bool        `xml:"diagonalDown,attr,omitempty"`
	Left         *BorderEdge `xml:"left"`
	Right        *BorderEdge `xml:"right"`
	Top          *BorderEdge `xml:"top"`
	Bottom       *BorderEdge `xml:"bottom"`
	Diagonal     *BorderEdge `xml:"diagonal"`
}

func (b *Border) edge(pos string) **BorderEdge {
	switch pos {
	case BorderLeft:
		return &b.Left
	case BorderRight:
		return &b.Right
	case BorderTop:
		return &b.Top
	case BorderBottom:
		return &b.Bottom
	default:
		return nil
	}
}

type Alignment struct {
	Horizontal string     `xml:"horizontal,attr,omitempty"`
	Vertical   string     `xml:"vertical,attr,omitempty"`
	Attrs      []xml.Attr `xml:",any,attr"`
}

type Xf struct {
	NumFmtID          int         `xml:"numFmtId,attr"`
	FontID            int         `xml:"fontId,attr"`
	FillID            int         `xml:"fillId,attr"`
	BorderID          int         `xml:"borderId,attr"`
	XfID              *int        `xml:"xfId,attr"`
	QuotePrefix       bool        `xml:"quotePrefix,attr,omitempty"`
	ApplyNumberFormat bool        `xml:"applyNumberFormat,attr,omitempty"`
	ApplyFont         bool        `xml:"applyFont,attr,omitempty"`
	ApplyFill         bool        `xml:"applyFill,attr,omitempty"`
	ApplyBorder       bool        `xml:"applyBorder,attr,omitempty"`
	ApplyAlignment    bool        `xml:"applyAlignment,attr,omitempty"`
	ApplyProtection   bool        `xml:"applyProtection,attr,omitempty"`
	Alignment         *Alignment  `xml:"alignment"`
	Protection        *rawElement `xml:"protection"`
}

func (x Xf) clone() Xf {
	if x.XfID != nil {
		id := *x.XfID
		x.XfID = &id
	}
	if x.Alignment != nil {
		a := *x.Alignment
		a.Attrs = slices.Clone(a.Attrs)
		x.Alignment = &a
	}
	x.Protection = x.Protection.clone()
	return x
}

// Style is the subset of a cell format that can be set or read back.
// Nil or empty fields are left untouched when a style is patched. A
// non nil empty Border removes all the borders.
type Style struct {
	NumFmtID        *int
	NumFmtCode      string
	Background      string
	Border          []string
	HorizontalAlign string
	VerticalAlign   string
}

func (s Style) validate() error {
	if s.Background != "" && !argbPattern.MatchString(s.Background) {
		return fmt.Errorf("%w: background %q is not an ARGB color", ErrStyle, s.Background)
	}
	for _, b := range s.Border {
		switch b {
		case BorderLeft, BorderRight, BorderTop, BorderBottom:
		default:
			return fmt.Errorf("%w: unknown border position %q", ErrStyle, b)
		}
	}
	return nil
}

// StyleSheet is the model of xl/styles.xml.
type StyleSheet struct {
	NumFmts      []NumFmt
	Fonts        []Font
	Fills        []Fill
	Borders      []Border
	CellStyleXfs []Xf
	CellXfs      []Xf

	attrs  []xml.Attr
	extras []extra

	fills   map[string]int
	borders map[string]int
	xfs     map[string]int
}

func NewStyleSheet() *StyleSheet {
	zero := 0
	ss := StyleSheet{
		Fonts: []Font{{}},
		Fills: []Fill{
			{Pattern: &PatternFill{Type: "none"}},
			{Pattern: &PatternFill{Type: "gray125"}},
		},
		Borders:      []Border{{}},
		CellStyleXfs: []Xf{{}},
		CellXfs:      []Xf{{XfID: &zero}},
	}
	ss.extras = append(ss.extras, extra{
		rank: slices.Index(styleOrder, "cellStyles"),
		elem: rawElement{
			XMLName: xml.Name{Local: "cellStyles"},
			Attrs:   []xml.Attr{{Name: xml.Name{Local: "count"}, Value: "1"}},
			Inner:   []byte(`<cellStyle name="Normal" xfId="0" builtinId="0"/>`),
		},
	})
	ss.reindex()
	return &ss
}

func decodeStyleSheet(name string, data []byte) (*StyleSheet, error) {
	var ss StyleSheet
	if err := decodeXML(name, data, &ss); err != nil {
		return nil, err
	}
	ss.reindex()
	return &ss, nil
}

// Add creates a cell format from the given fields only and returns its
// index. Identical formats are shared.
func (s *StyleSheet) Add(style Style) (int, error) {
	if err := style.validate(); err != nil {
		return 0, err
	}
	var xf Xf
	if style.NumFmtID != nil {
		xf.NumFmtID = *style.NumFmtID
		xf.ApplyNumberFormat = true
	}
	if style.NumFmtCode != "" {
		xf.NumFmtID = s.addNumFmt(style.NumFmtCode)
		xf.ApplyNumberFormat = true
	}
	if style.Background != "" {
		fill := Fill{
			Pattern: &PatternFill{
				Type: "solid",
				Fg:   &Color{RGB: strings.ToUpper(style.Background)},
			},
		}
		xf.FillID = s.internFill(fill)
		xf.ApplyFill = true
	}
	if style.Border != nil {
		var border Border
		for _, pos := range style.Border {
			*border.edge(pos) = thinEdge()
		}
		xf.BorderID = s.internBorder(border)
		xf.ApplyBorder = true
	}
	applyAlignment(&xf, style)
	return s.internXf(xf), nil
}

// AddWithClone copies the format at index base, applies the non empty
// fields of patch and returns the index of the resulting format.
func (s *StyleSheet) AddWithClone(base int, patch Style) (int, error) {
	if err := patch.validate(); err != nil {
		return 0, err
	}
	if base < 0 || base >= len(s.CellXfs) {
		return 0, fmt.Errorf("style %d %w (range: 0-%d)", base, ErrNotFound, len(s.CellXfs)-1)
	}
	xf := s.CellXfs[base].clone()
	if patch.NumFmtID != nil {
		xf.NumFmtID = *patch.NumFmtID
		xf.ApplyNumberFormat = true
	}
	if patch.NumFmtCode != "" {
		xf.NumFmtID = s.addNumFmt(patch.NumFmtCode)
		xf.ApplyNumberFormat = true
	}
	if patch.Background != "" {
		var fill Fill
		if xf.FillID >= 0 && xf.FillID < len(s.Fills) {
			fill = cloneFill(s.Fills[xf.FillID])
		}
		if fill.Pattern == nil {
			fill.Pattern = &PatternFill{}
		}
		fill.Pattern.Type = "solid"
		if fill.Pattern.Fg == nil {
			fill.Pattern.Fg = &Color{}
		}
		fill.Pattern.Fg.RGB = strings.ToUpper(patch.Background)
		fill.Pattern.Fg.Theme = nil
		fill.Pattern.Fg.Indexed = nil
		xf.FillID = s.internFill(fill)
		xf.ApplyFill = true
	}
	if patch.Border != nil {
		var border Border
		if xf.BorderID >= 0 && xf.BorderID < len(s.Borders) {
			border = cloneBorder(s.Borders[xf.BorderID])
		}
		for _, pos := range []string{BorderLeft, BorderRight, BorderTop, BorderBottom} {
			edge := border.edge(pos)
			if !slices.Contains(patch.Border, pos) {
				*edge = nil
				continue
			}
			if *edge == nil {
				*edge = thinEdge()
				continue
			}
			if (*edge).Style == "" {
				(*edge).Style = "thin"
			}
			(*edge).Color = &Color{RGB: "00000000"}
		}
		xf.BorderID = s.internBorder(border)
		xf.ApplyBorder = true
	}
	applyAlignment(&xf, patch)
	return s.internXf(xf), nil
}

// Get projects the format at index id back to a Style.
func (s *StyleSheet) Get(id int) (Style, error) {
	var style Style
	if id < 0 || id >= len(s.CellXfs) {
		return style, fmt.Errorf("style %d %w", id, ErrNotFound)
	}
	xf := s.CellXfs[id]
	num := xf.NumFmtID
	style.NumFmtID = &num
	style.NumFmtCode, _ = s.NumFmtCode(num)

	if xf.FillID < 0 || xf.FillID >= len(s.Fills) {
		return style, fmt.Errorf("fill %d %w", xf.FillID, ErrNotFound)
	}
	if p := s.Fills[xf.FillID].Pattern; p != nil && p.Fg != nil {
		style.Background = p.Fg.RGB
	}
	if xf.BorderID < 0 || xf.BorderID >= len(s.Borders) {
		return style, fmt.Errorf("border %d %w", xf.BorderID, ErrNotFound)
	}
	border := s.Borders[xf.BorderID]
	for _, pos := range []string{BorderLeft, BorderRight, BorderTop, BorderBottom} {
		if e := *border.edge(pos); e != nil && e.Style != "" {
			style.Border = append(style.Border, pos)
		}
	}
	if xf.Alignment != nil {
		style.HorizontalAlign = xf.Alignment.Horizontal
		style.VerticalAlign = xf.Alignment.Vertical
	}
	return style, nil
}

// NumFmtID gives the number format used by the cell format at index xf.
func (s *StyleSheet) NumFmtID(xf int) (int, bool) {
	if xf < 0 || xf >= len(s.CellXfs) {
		return 0, false
	}
	return s.CellXfs[xf].NumFmtID, true
}

// NumFmtCode gives the code of a number format defined by the workbook or
// of a builtin one.
func (s *StyleSheet) NumFmtCode(id int) (string, bool) {
	ix := slices.IndexFunc(s.NumFmts, func(n NumFmt) bool {
		return n.ID == id
	})
	if ix >= 0 {
		return s.NumFmts[ix].Code, true
	}
	return format.BuiltinCode(id)
}

// CustomNumFmt reports whether id is a number format defined by the
// workbook.
func (s *StyleSheet) CustomNumFmt(id int) (string, bool) {
	ix := slices.IndexFunc(s.NumFmts, func(n NumFmt) bool {
		return n.ID == id
	})
	if ix < 0 {
		return "", false
	}
	return s.NumFmts[ix].Code, true
}

func (s *StyleSheet) Normalize() {
	slices.SortStableFunc(s.NumFmts, func(a, b NumFmt) int {
		return a.ID - b.ID
	})
}

func (s *StyleSheet) Encode() ([]byte, error) {
	s.Normalize()
	return encodeXML(PathStyles, s)
}

func (s *StyleSheet) addNumFmt(code string) int {
	ix := slices.IndexFunc(s.NumFmts, func(n NumFmt) bool {
		return n.Code == code
	})
	if ix >= 0 {
		return s.NumFmts[ix].ID
	}
	next := format.FirstCustomID
	for _, n := range s.NumFmts {
		next = max(next, n.ID+1)
	}
	s.NumFmts = append(s.NumFmts, NumFmt{
		ID:   next,
		Code: code,
	})
	return next
}

func (s *StyleSheet) internFill(fill Fill) int {
	key := canonicalKey(fill)
	if ix, ok := s.fills[key]; ok {
		return ix
	}
	s.Fills = append(s.Fills, fill)
	s.fills[key] = len(s.Fills) - 1
	return len(s.Fills) - 1
}

func (s *StyleSheet) internBorder(border Border) int {
	key := canonicalKey(border)
	if ix, ok := s.borders[key]; ok {
		return ix
	}
	s.Borders = append(s.Borders, border)
	s.borders[key] = len(s.Borders) - 1
	return len(s.Borders) - 1
}

func (s *StyleSheet) internXf(xf Xf) int {
	key := canonicalKey(xf)
	if ix, ok := s.xfs[key]; ok {
		return ix
	}
	s.CellXfs = append(s.CellXfs, xf)
	s.xfs[key] = len(s.CellXfs) - 1
	return len(s.CellXfs) - 1
}

func (s *StyleSheet) reindex() {
	s.fills = make(map[string]int)
	s.borders = make(map[string]int)
	s.xfs = make(map[string]int)
	for i, f := range s.Fills {
		if _, ok := s.fills[canonicalKey(f)]; !ok {
			s.fills[canonicalKey(f)] = i
		}
	}
	for i, b := range s.Borders {
		if _, ok := s.borders[canonicalKey(b)]; !ok {
			s.borders[canonicalKey(b)] = i
		}
	}
	for i, x := range s.CellXfs {
		if _, ok := s.xfs[canonicalKey(x)]; !ok {
			s.xfs[canonicalKey(x)] = i
		}
	}
}

func (s *StyleSheet) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "styleSheet"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: nsMain},
		},
	}
	start.Attr = append(start.Attr, s.attrs...)
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	err := encodeChildren(e, styleOrder, s.extras, func(name string) error {
		switch name {
		case "numFmts":
			if len(s.NumFmts) == 0 {
				return nil
			}
			return encodeElement(e, name, struct {
				Count int      `xml:"count,attr"`
				Items []NumFmt `xml:"numFmt"`
			}{len(s.NumFmts), s.NumFmts})
		case "fonts":
			return encodeElement(e, name, struct {
				Count int    `xml:"count,attr"`
				Items []Font `xml:"font"`
			}{len(s.Fonts), s.Fonts})
		case "fills":
			return encodeElement(e, name, struct {
				Count int    `xml:"count,attr"`
				Items []Fill `xml:"fill"`
			}{len(s.Fills), s.Fills})
		case "borders":
			return encodeElement(e, name, struct {
				Count int      `xml:"count,attr"`
				Items []Border `xml:"border"`
			}{len(s.Borders), s.Borders})
		case "cellStyleXfs":
			if len(s.CellStyleXfs) == 0 {
				return nil
			}
			return encodeElement(e, name, struct {
				Count int  `xml:"count,attr"`
				Items []Xf `xml:"xf"`
			}{len(s.CellStyleXfs), s.CellStyleXfs})
		case "cellXfs":
			return encodeElement(e, name, struct {
				Count int  `xml:"count,attr"`
				Items []Xf `xml:"xf"`
			}{len(s.CellXfs), s.CellXfs})
		default:
			return nil
		}
	})
	if err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

func (s *StyleSheet) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	ns := collectNamespaces(start.Attr)
	s.attrs = ns.rootAttrs(start.Attr, nsMain)
	extras, err := decodeChildren(d, styleOrder, ns, nsMain, func(el xml.StartElement) (bool, error) {
		var err error
		switch el.Name.Local {
		case "numFmts":
			var list struct {
				Items []NumFmt `xml:"numFmt"`
			}
			err = d.DecodeElement(&list, &el)
			s.NumFmts = list.Items
		case "fonts":
			var list struct {
				Items []Font `xml:"font"`
			}
			err = d.DecodeElement(&list, &el)
			s.Fonts = list.Items
		case "fills":
			var list struct {
				Items []Fill `xml:"fill"`
			}
			err = d.DecodeElement(&list, &el)
			s.Fills = list.Items
		case "borders":
			var list struct {
				Items []Border `xml:"border"`
			}
			err = d.DecodeElement(&list, &el)
			s.Borders = list.Items
		case "cellStyleXfs":
			var list struct {
				Items []Xf `xml:"xf"`
			}
			err = d.DecodeElement(&list, &el)
			s.CellStyleXfs = list.Items
		case "cellXfs":
			var list struct {
				Items []Xf `xml:"xf"`
			}
			err = d.DecodeElement(&list, &el)
			s.CellXfs = list.Items
		default:
			return false, nil
		}
		return err == nil, err
	})
	s.extras = extras
	return err
}

func applyAlignment(xf *Xf, style Style) {
	if style.HorizontalAlign == "" && style.VerticalAlign == "" {
		return
	}
	xf.ApplyAlignment = true
	if xf.Alignment == nil {
		xf.Alignment = &Alignment{}
	}
	if style.HorizontalAlign != "" {
		xf.Alignment.Horizontal = style.HorizontalAlign
	}
	if style.VerticalAlign != "" {
		xf.Alignment.Vertical = style.VerticalAlign
	}
}

func cloneColor(c *Color) *Color {
	if c == nil {
		return nil
	}
	x := *c
	x.Attrs = slices.Clone(c.Attrs)
	return &x
}

func cloneFill(f Fill) Fill {
	var x Fill
	if f.Pattern != nil {
		p := *f.Pattern
		p.Fg = cloneColor(p.Fg)
		p.Bg = cloneColor(p.Bg)
		x.Pattern = &p
	}
	x.Gradient = f.Gradient.clone()
	return x
}

func cloneBorder(b Border) Border {
	x := b
	for _, edge := range []**BorderEdge{&x.Left, &x.Right, &x.Top, &x.Bottom, &x.Diagonal} {
		if *edge == nil {
			continue
		}
		e := **edge
		e.Color = cloneColor(e.Color)
		*edge = &e
	}
	return x
}

// canonicalKey gives the serialization of a style record used to find
// identical records.
func canonicalKey(v any) string {
	buf, err := xml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(buf)
}
