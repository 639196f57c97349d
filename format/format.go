package format

import (
	"github.com/midbel/sheetkit/value"
)

const (
	DefaultNumberPattern = "#######.00"
	DefaultDatePattern   = "YYYY-0MM-0DD"
)

type Formatter interface {
	Format(value.Value) (string, error)
}

// ValueFormatter renders values according to the formatter registered
// for their kind. Kinds without formatter use the String method of the
// value.
type ValueFormatter struct {
	formatters map[value.Kind]Formatter
}

func FormatValue() *ValueFormatter {
	vf := ValueFormatter{
		formatters: make(map[value.Kind]Formatter),
	}
	return &vf
}

func (vf *ValueFormatter) Set(kind value.Kind, formatter Formatter) {
	vf.formatters[kind] = formatter
}

func (vf *ValueFormatter) Number(pattern string) error {
	f, err := ParseNumberFormatter(pattern)
	if err == nil {
		vf.Set(value.KindNumber, f)
	}
	return err
}

// Date registers the same pattern for the three date kinds.
func (vf *ValueFormatter) Date(pattern string) error {
	f, err := ParseDateFormatter(pattern)
	if err == nil {
		vf.Set(value.KindDateOnly, f)
		vf.Set(value.KindDateTime, f)
		vf.Set(value.KindTime, f)
	}
	return err
}

func (vf *ValueFormatter) Format(v value.Value) (string, error) {
	if v == nil {
		return "", nil
	}
	f, ok := vf.formatters[v.Kind()]
	if ok {
		return f.Format(v)
	}
	return v.String(), nil
}

func FormatString() Formatter {
	return strFormatter{}
}

func FormatBool(yes, no string) Formatter {
	return boolFormatter{
		yes: yes,
		no:  no,
	}
}

type strFormatter struct{}

func (strFormatter) Format(v value.Value) (string, error) {
	return v.String(), nil
}

type boolFormatter struct {
	yes string
	no  string
}

func (f boolFormatter) Format(v value.Value) (string, error) {
	if value.True(v) {
		return f.yes, nil
	}
	return f.no, nil
}
