package value

import (
	"strconv"
	"time"
)

type Blank struct{}

func Empty() Value {
	return Blank{}
}

func (Blank) Kind() Kind {
	return KindEmpty
}

func (Blank) String() string {
	return ""
}

type Text string

func (Text) Kind() Kind {
	return KindText
}

func (t Text) String() string {
	return string(t)
}

type Float float64

func (Float) Kind() Kind {
	return KindNumber
}

func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'f', -1, 64)
}

type Boolean bool

func (Boolean) Kind() Kind {
	return KindBool
}

func (b Boolean) String() string {
	return strconv.FormatBool(bool(b))
}

type DateOnly time.Time

func (DateOnly) Kind() Kind {
	return KindDateOnly
}

func (d DateOnly) String() string {
	return time.Time(d).Format("2006-01-02")
}

type DateTime time.Time

func (DateTime) Kind() Kind {
	return KindDateTime
}

func (d DateTime) String() string {
	return time.Time(d).Format("2006-01-02 15:04:05")
}

type Time time.Time

func (Time) Kind() Kind {
	return KindTime
}

func (t Time) String() string {
	return time.Time(t).Format("15:04:05")
}

// Formula holds the text of a formula without the leading equal sign.
type Formula string

func (Formula) Kind() Kind {
	return KindFormula
}

func (f Formula) String() string {
	return "=" + string(f)
}
