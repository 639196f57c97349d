package format

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownFormat = errors.New("unknown number format")

type Class int8

const (
	ClassNumber Class = iota
	ClassDate
	ClassDateTime
	ClassTime
	ClassText
)

func (c Class) String() string {
	switch c {
	case ClassNumber:
		return "number"
	case ClassDate:
		return "date"
	case ClassDateTime:
		return "datetime"
	case ClassTime:
		return "time"
	case ClassText:
		return "text"
	default:
		return "unknown"
	}
}

const (
	IdGeneral  = 0
	IdDate     = 14
	IdTime     = 18
	IdDateTime = 22
	IdText     = 49

	// FirstCustomID is the first id available for format codes defined
	// by a workbook.
	FirstCustomID = 180
)

// Builtin format codes, only the ones with a stable code across locales
// are listed.
var builtinCodes = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

func BuiltinCode(id int) (string, bool) {
	code, ok := builtinCodes[id]
	return code, ok
}

func ClassifyID(id int) (Class, error) {
	switch {
	case id >= 0 && id <= 13:
		return ClassNumber, nil
	case id >= 37 && id <= 40:
		return ClassNumber, nil
	case id == 48:
		return ClassNumber, nil
	case id >= 14 && id <= 17:
		return ClassDate, nil
	case id >= 27 && id <= 31:
		return ClassDate, nil
	case id >= 34 && id <= 36:
		return ClassDate, nil
	case id >= 50 && id <= 58:
		return ClassDate, nil
	case id == 22:
		return ClassDateTime, nil
	case id >= 18 && id <= 21:
		return ClassTime, nil
	case id >= 32 && id <= 33:
		return ClassTime, nil
	case id >= 45 && id <= 47:
		return ClassTime, nil
	case id == 49:
		return ClassText, nil
	default:
		return 0, fmt.Errorf("%w: id %d", ErrUnknownFormat, id)
	}
}

// ClassifyCode guesses the class of a custom format code from the tokens
// it contains. mm is taken as a month, so a code like h:mm is a date.
func ClassifyCode(code string) (Class, error) {
	str := strings.ToLower(stripCode(code))
	var (
		date = strings.Contains(str, "yy") || strings.Contains(str, "dd") || strings.Contains(str, "mm")
		time = strings.Contains(str, "hh") || strings.Contains(str, "ss")
	)
	switch {
	case date && time:
		return ClassDateTime, nil
	case date:
		return ClassDate, nil
	case time:
		return ClassTime, nil
	case str == "general" || strings.ContainsAny(str, "0123456789#,."):
		return ClassNumber, nil
	case str == "@":
		return ClassText, nil
	default:
		return 0, fmt.Errorf("%w: code %q", ErrUnknownFormat, code)
	}
}

// stripCode removes quoted literals, escaped characters and bracketed
// sections (colors, locales, conditions) from a format code. Elapsed time
// sections like [h] or [mm] are kept.
func stripCode(code string) string {
	var (
		str   strings.Builder
		quote bool
	)
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case quote:
			quote = c != '"'
		case c == '"':
			quote = true
		case c == '\\':
			i++
		case c == '[':
			end := strings.IndexByte(code[i:], ']')
			if end < 0 {
				return str.String()
			}
			inner := code[i+1 : i+end]
			if inner != "" && strings.Trim(strings.ToLower(inner), "hms") == "" {
				str.WriteString(inner)
			}
			i += end
		default:
			str.WriteByte(c)
		}
	}
	return str.String()
}
