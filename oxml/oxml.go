package oxml

import (
	"encoding/xml"
	"errors"
)

const (
	TypeSharedStr = "s"
	TypeInlineStr = "inlineStr"
	TypeFormula   = "str"
	TypeDate      = "d"
	TypeError     = "e"
	TypeBool      = "b"
	TypeNumber    = "n"
)

var (
	ErrFile         = errors.New("invalid spreadsheet")
	ErrNotFound     = errors.New("not found")
	ErrMergeOverlap = errors.New("merge range overlaps an existing merge")
	ErrPart         = errors.New("unexpected document type")
)

type SheetState int8

const (
	StateVisible SheetState = 1 << iota
	StateHidden
	StateVeryHidden
)

func (s SheetState) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateVeryHidden:
		return "veryHidden"
	default:
		return "visible"
	}
}

func (s SheetState) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	var attr xml.Attr
	if s == StateHidden || s == StateVeryHidden {
		attr.Name = name
		attr.Value = s.String()
	}
	return attr, nil
}

func (s *SheetState) UnmarshalXMLAttr(attr xml.Attr) error {
	switch attr.Value {
	case "hidden":
		(*s) = StateHidden
	case "veryHidden":
		(*s) = StateVeryHidden
	default:
		(*s) = StateVisible
	}
	return nil
}

type SheetProtection int16

const (
	ProtectedSheet SheetProtection = 1 << iota
	ProtectedObjects
	ProtectedScenarios
	ProtectedFormatCells
	ProtectedFormatColumns
	ProtectedFormatRows
	ProtectedDeleteColumns
	ProtectedDeleteRows
	ProtectedInsertColumns
	ProtectedInsertRows
	ProtectedSort
)

type protectionAttr struct {
	Name string
	Flag SheetProtection
}

var protectionAttrs = []protectionAttr{
	{"sheet", ProtectedSheet},
	{"objects", ProtectedObjects},
	{"scenarios", ProtectedScenarios},
	{"formatCells", ProtectedFormatCells},
	{"formatColumns", ProtectedFormatColumns},
	{"formatRows", ProtectedFormatRows},
	{"deleteColumns", ProtectedDeleteColumns},
	{"deleteRows", ProtectedDeleteRows},
	{"insertColumns", ProtectedInsertColumns},
	{"insertRows", ProtectedInsertRows},
	{"sort", ProtectedSort},
}

func (p SheetProtection) Locked() bool {
	return p&ProtectedSheet > 0
}

func (p SheetProtection) RowsLocked() bool {
	if p.Locked() {
		return true
	}
	return p&ProtectedDeleteRows > 0 || p&ProtectedInsertRows > 0
}

func (p SheetProtection) ColumnsLocked() bool {
	if p.Locked() {
		return true
	}
	return p&ProtectedDeleteColumns > 0 || p&ProtectedInsertColumns > 0
}
