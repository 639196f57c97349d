package format

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/midbel/sheetkit/value"
)

func init() {
	slices.SortFunc(dateFields, func(a, b dateField) int {
		if n := len(b.Pattern) - len(a.Pattern); n != 0 {
			return n
		}
		return strings.Compare(a.Pattern, b.Pattern)
	})
}

type dateField struct {
	Pattern string
	Width   int
	Func    func(time.Time) string
}

var dateFields = []dateField{
	{Pattern: "YYYY", Func: func(t time.Time) string { return strconv.Itoa(t.Year()) }},
	{Pattern: "YY", Func: func(t time.Time) string { return strconv.Itoa(t.Year() % 100) }},
	{Pattern: "MMMM", Func: func(t time.Time) string { return t.Month().String() }},
	{Pattern: "MMM", Func: func(t time.Time) string { return t.Month().String()[:3] }},
	{Pattern: "MM", Func: month},
	{Pattern: "0MM", Width: 2, Func: month},
	{Pattern: "DDDD", Func: func(t time.Time) string { return t.Weekday().String() }},
	{Pattern: "DDD", Func: func(t time.Time) string { return t.Weekday().String()[:3] }},
	{Pattern: "DD", Func: day},
	{Pattern: "0DD", Width: 2, Func: day},
	{Pattern: "JJJ", Func: yearDay},
	{Pattern: "0JJJ", Width: 3, Func: yearDay},
	{Pattern: "hh", Func: hour},
	{Pattern: "0hh", Width: 2, Func: hour},
	{Pattern: "mm", Func: minute},
	{Pattern: "0mm", Width: 2, Func: minute},
	{Pattern: "ss", Func: second},
	{Pattern: "0ss", Width: 2, Func: second},
}

type dateFormatter struct {
	fields []dateField
}

// ParseDateFormatter compiles a pattern made of fields like YYYY, 0MM or
// 0hh. A leading 0 pads the field with zeros. Any other character is
// copied as is.
func ParseDateFormatter(pattern string) (Formatter, error) {
	var df dateFormatter
	for i := 0; i < len(pattern); {
		ix := slices.IndexFunc(dateFields, func(f dateField) bool {
			return strings.HasPrefix(pattern[i:], f.Pattern)
		})
		if ix < 0 {
			df.fields = append(df.fields, literal(pattern[i]))
			i++
			continue
		}
		df.fields = append(df.fields, dateFields[ix])
		i += len(dateFields[ix].Pattern)
	}
	return df, nil
}

func (f dateFormatter) Format(v value.Value) (string, error) {
	var when time.Time
	switch tv := v.(type) {
	case value.DateOnly:
		when = time.Time(tv)
	case value.DateTime:
		when = time.Time(tv)
	case value.Time:
		when = time.Time(tv)
	default:
		return "", fmt.Errorf("%s value is not a date", v.Kind())
	}
	if len(f.fields) == 0 {
		return v.String(), nil
	}
	var str strings.Builder
	for _, d := range f.fields {
		s := d.Func(when)
		for i := len(s); i < d.Width; i++ {
			str.WriteByte('0')
		}
		str.WriteString(s)
	}
	return str.String(), nil
}

func literal(char byte) dateField {
	return dateField{
		Func: func(_ time.Time) string { return string(char) },
	}
}

func month(t time.Time) string {
	return strconv.Itoa(int(t.Month()))
}

func day(t time.Time) string {
	return strconv.Itoa(t.Day())
}

func yearDay(t time.Time) string {
	return strconv.Itoa(t.YearDay())
}

func hour(t time.Time) string {
	return strconv.Itoa(t.Hour())
}

func minute(t time.Time) string {
	return strconv.Itoa(t.Minute())
}

func second(t time.Time) string {
	return strconv.Itoa(t.Second())
}
