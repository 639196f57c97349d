package xlsx

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/midbel/sheetkit/format"
	"github.com/midbel/sheetkit/layout"
	"github.com/midbel/sheetkit/oxml"
	"github.com/midbel/sheetkit/value"
)

type Style = oxml.Style

const (
	BorderLeft   = oxml.BorderLeft
	BorderRight  = oxml.BorderRight
	BorderTop    = oxml.BorderTop
	BorderBottom = oxml.BorderBottom
)

var isoLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Cell is a view on one cell of a worksheet. The cell does not need to
// exist in the document: it is created by the first write.
type Cell struct {
	sheet *Worksheet
	pos   layout.Position
}

func (c *Cell) Position() layout.Position {
	return c.pos
}

func (c *Cell) Addr() string {
	return c.pos.Addr()
}

func (c *Cell) node() (*oxml.Cell, error) {
	doc, err := c.sheet.doc()
	if err != nil {
		return nil, err
	}
	return doc.Cell(c.pos), nil
}

func (c *Cell) ensure() (*oxml.Cell, error) {
	doc, err := c.sheet.doc()
	if err != nil {
		return nil, err
	}
	return doc.Ensure(c.pos), nil
}

// Value decodes the value stored in the cell. Untyped numbers are turned
// into dates or times according to the number format of the cell.
func (c *Cell) Value() (value.Value, error) {
	node, err := c.node()
	if err != nil || node == nil {
		return value.Empty(), err
	}
	raw := node.Raw()
	if raw == "" {
		return value.Empty(), nil
	}
	switch node.Type {
	case oxml.TypeSharedStr:
		return c.sharedString(raw)
	case oxml.TypeFormula, oxml.TypeInlineStr:
		return value.Text(raw), nil
	case oxml.TypeBool:
		return value.Boolean(raw == "1"), nil
	case oxml.TypeNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %q: %w", c.Addr(), raw, ErrFile)
		}
		return value.Float(n), nil
	case oxml.TypeError:
		return nil, &CellError{
			Addr: c.Addr(),
			Code: value.ErrorCode(raw),
		}
	case oxml.TypeDate:
		return c.isoDate(raw)
	default:
		return c.number(node, raw)
	}
}

func (c *Cell) sharedString(raw string) (value.Value, error) {
	ix, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid shared string index %q: %w", c.Addr(), raw, ErrFile)
	}
	ss, err := c.sheet.book.sharedStrings(false)
	if err != nil {
		return nil, err
	}
	str, ok := ss.Text(ix)
	if !ok {
		return nil, fmt.Errorf("%s: shared string %d %w", c.Addr(), ix, ErrNotFound)
	}
	return value.Text(str), nil
}

func (c *Cell) isoDate(raw string) (value.Value, error) {
	for _, pattern := range isoLayouts {
		t, err := time.ParseInLocation(pattern, raw, format.Location)
		if err == nil {
			return value.DateTime(t), nil
		}
	}
	return nil, fmt.Errorf("%s: invalid date %q: %w", c.Addr(), raw, ErrFile)
}

func (c *Cell) number(node *oxml.Cell, raw string) (value.Value, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return value.Text(raw), nil
	}
	id, ok := node.StyleID()
	if !ok {
		return value.Float(n), nil
	}
	class, err := c.numberClass(id)
	if errors.Is(err, ErrNotFound) && id == 0 {
		return value.Float(n), nil
	}
	if err != nil {
		return nil, err
	}
	switch class {
	case format.ClassDate:
		return value.DateOnly(format.FromSerial(n)), nil
	case format.ClassDateTime:
		return value.DateTime(format.FromSerial(n)), nil
	case format.ClassTime:
		return value.Time(format.FromSerial(n)), nil
	case format.ClassText:
		return value.Text(raw), nil
	default:
		return value.Float(n), nil
	}
}

func (c *Cell) numberClass(style int) (format.Class, error) {
	styles, err := c.sheet.book.styles(false)
	if err != nil {
		return 0, err
	}
	id, ok := styles.NumFmtID(style)
	if !ok {
		return 0, fmt.Errorf("%s: style %d %w", c.Addr(), style, ErrNotFound)
	}
	if code, ok := styles.CustomNumFmt(id); ok {
		return format.ClassifyCode(code)
	}
	return format.ClassifyID(id)
}

// Set converts v with value.Of before writing it into the cell.
func (c *Cell) Set(v any) error {
	val, err := value.Of(v)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Addr(), err)
	}
	return c.SetValue(val)
}

// SetValue writes v into the cell. Writing an empty value removes the
// cell.
func (c *Cell) SetValue(v value.Value) error {
	if value.IsEmpty(v) {
		return c.Delete()
	}
	switch v := v.(type) {
	case value.Text:
		return c.setText(string(v))
	case value.Boolean:
		raw := "0"
		if v {
			raw = "1"
		}
		return c.setRaw(oxml.TypeBool, raw)
	case value.Float:
		return c.setRaw("", strconv.FormatFloat(float64(v), 'f', -1, 64))
	case value.DateOnly:
		return c.setDate(format.ToSerial(time.Time(v)), format.IdDate)
	case value.DateTime:
		return c.setDate(format.ToSerial(time.Time(v)), format.IdDateTime)
	case value.Time:
		serial := format.ToSerial(time.Time(v))
		return c.setDate(serial-math.Floor(serial), format.IdTime)
	case value.Formula:
		return c.SetFormula(string(v))
	default:
		return fmt.Errorf("%s: %w: %s", c.Addr(), value.ErrUnsupported, v.Kind())
	}
}

func (c *Cell) setText(str string) error {
	ss, err := c.sheet.book.sharedStrings(true)
	if err != nil {
		return err
	}
	node, err := c.ensure()
	if err != nil {
		return err
	}
	node.Reset()
	node.Type = oxml.TypeSharedStr
	node.SetRaw(strconv.Itoa(ss.Add(str)))
	return nil
}

func (c *Cell) setRaw(kind, raw string) error {
	node, err := c.ensure()
	if err != nil {
		return err
	}
	node.Reset()
	node.Type = kind
	node.SetRaw(raw)
	return nil
}

func (c *Cell) setDate(serial float64, numFmt int) error {
	if err := c.setStyle(Style{NumFmtID: &numFmt}); err != nil {
		return err
	}
	return c.setRaw("", strconv.FormatFloat(serial, 'f', -1, 64))
}

// Formula gives the text of the formula of the cell without the leading
// equal sign.
func (c *Cell) Formula() (string, error) {
	node, err := c.node()
	if err != nil || node == nil || node.Formula == nil {
		return "", err
	}
	return node.Formula.Text, nil
}

// SetFormula stores the text of the formula verbatim, it is never
// evaluated nor rewritten. An empty formula removes the cell.
func (c *Cell) SetFormula(formula string) error {
	if formula == "" {
		return c.Delete()
	}
	node, err := c.ensure()
	if err != nil {
		return err
	}
	node.Reset()
	node.Type = oxml.TypeFormula
	node.Formula = &oxml.Formula{
		Text: formula,
	}
	return nil
}

func (c *Cell) StyleID() (int, error) {
	node, err := c.node()
	if err != nil || node == nil {
		return 0, err
	}
	id, _ := node.StyleID()
	return id, nil
}

func (c *Cell) SetStyleID(id int) error {
	styles, err := c.sheet.book.styles(false)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if id < 0 || (id != 0 && (styles == nil || id >= len(styles.CellXfs))) {
		return fmt.Errorf("%s: style %d %w", c.Addr(), id, ErrNotFound)
	}
	node, err := c.ensure()
	if err != nil {
		return err
	}
	node.SetStyle(id)
	return nil
}

// Style reads back the format of the cell.
func (c *Cell) Style() (Style, error) {
	id, err := c.StyleID()
	if err != nil {
		return Style{}, err
	}
	styles, err := c.sheet.book.styles(false)
	if errors.Is(err, ErrNotFound) && id == 0 {
		return Style{}, nil
	}
	if err != nil {
		return Style{}, err
	}
	return styles.Get(id)
}

// SetStyle applies the non empty fields of style on top of the current
// format of the cell.
func (c *Cell) SetStyle(style Style) error {
	return c.setStyle(style)
}

func (c *Cell) setStyle(style Style) error {
	styles, err := c.sheet.book.styles(true)
	if err != nil {
		return err
	}
	node, err := c.ensure()
	if err != nil {
		return err
	}
	var id int
	if base, ok := node.StyleID(); !ok {
		id, err = styles.Add(style)
	} else {
		id, err = styles.AddWithClone(base, style)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", c.Addr(), err)
	}
	node.SetStyle(id)
	return nil
}

// Merge merges the range going from the cell to the cell at row and col.
func (c *Cell) Merge(row, col int) error {
	end := layout.NewPosition(row, col)
	if _, err := end.Format(); err != nil {
		return err
	}
	return c.sheet.Merge(layout.NewRange(c.pos, end))
}

func (c *Cell) Delete() error {
	doc, err := c.sheet.doc()
	if err != nil {
		return err
	}
	doc.Delete(c.pos)
	return nil
}
