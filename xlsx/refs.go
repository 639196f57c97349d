package xlsx

import (
	"strconv"
	"strings"

	"github.com/midbel/sheetkit/layout"
	"github.com/xuri/efp"
)

// Reference is a range read by a formula. Sheet is empty when the range
// belongs to the sheet of the formula.
type Reference struct {
	Sheet string
	Range layout.Range
}

func (r Reference) String() string {
	if r.Sheet == "" {
		return r.Range.String()
	}
	sheet := r.Sheet
	if strings.ContainsAny(sheet, " -+()'!") {
		sheet = "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	return sheet + "!" + r.Range.String()
}

// References gives the ranges used by the formula of the cell. Defined
// names are ignored. The formula is never evaluated.
func (c *Cell) References() ([]Reference, error) {
	formula, err := c.Formula()
	if err != nil || formula == "" {
		return nil, err
	}
	return ParseReferences(formula), nil
}

// ParseReferences extracts the cell references of formula.
func ParseReferences(formula string) []Reference {
	var (
		ps   = efp.ExcelParser()
		list []Reference
	)
	for _, tok := range ps.Parse(strings.TrimPrefix(formula, "=")) {
		if tok.TType != efp.TokenTypeOperand || tok.TSubType != efp.TokenSubTypeRange {
			continue
		}
		ref, ok := parseReference(tok.TValue)
		if ok {
			list = append(list, ref)
		}
	}
	return list
}

func parseReference(str string) (Reference, bool) {
	var ref Reference
	if ix := strings.LastIndex(str, "!"); ix >= 0 {
		sheet := str[:ix]
		if strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") && len(sheet) >= 2 {
			sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
		}
		ref.Sheet = sheet
		str = str[ix+1:]
	}
	str = strings.ReplaceAll(str, "$", "")
	first, last, ok := strings.Cut(str, ":")
	if !ok {
		pos, err := layout.ParsePosition(first)
		if err != nil {
			return ref, false
		}
		ref.Range = layout.SingleRange(pos)
		return ref, true
	}
	starts, ok1 := parseBound(first, true)
	ends, ok2 := parseBound(last, false)
	if !ok1 || !ok2 {
		return ref, false
	}
	ref.Range = layout.NewRange(starts, ends)
	return ref, true
}

// parseBound reads one side of a range. Whole columns (A:A) and whole rows
// (1:1) are expanded to the limits of the sheet.
func parseBound(str string, start bool) (layout.Position, bool) {
	if pos, err := layout.ParsePosition(str); err == nil {
		return pos, true
	}
	if col, err := layout.ParseColumn(str); err == nil {
		row := layout.MaxRow
		if start {
			row = 0
		}
		return layout.NewPosition(row, col), true
	}
	if row, err := strconv.Atoi(str); err == nil && row > 0 && row <= layout.MaxRow+1 {
		col := layout.MaxColumn
		if start {
			col = 0
		}
		return layout.NewPosition(row-1, col), true
	}
	return layout.Position{}, false
}
