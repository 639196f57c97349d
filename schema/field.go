package schema

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/midbel/sheetkit/format"
	"github.com/midbel/sheetkit/value"
)

var ErrField = errors.New("invalid field")

type Type string

const (
	TypeText     Type = "text"
	TypeNumber   Type = "number"
	TypeInt      Type = "int"
	TypeBool     Type = "bool"
	TypeDate     Type = "date"
	TypeDateTime Type = "datetime"
	TypeTime     Type = "time"
)

func (t Type) valid() bool {
	switch t {
	case TypeText, TypeNumber, TypeInt, TypeBool, TypeDate, TypeDateTime, TypeTime:
		return true
	default:
		return false
	}
}

// Field describes one column of a sheet. Key is the name of the field in
// a Record, Name the text of the header cell (Key when empty).
type Field struct {
	Key      string
	Name     string
	Type     Type
	Required bool
	Default  any
	// Rules are the tags given to the validator, eg "min=1,max=10".
	Rules string
}

func (f Field) Header() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Key
}

func (f Field) check() error {
	if strings.TrimSpace(f.Key) == "" {
		return fmt.Errorf("%w: empty key", ErrField)
	}
	if !f.Type.valid() {
		return fmt.Errorf("%w: %s: unknown type %q", ErrField, f.Key, f.Type)
	}
	return nil
}

// decode converts the value of a cell into the go value of the type of the
// field.
func (f Field) decode(v value.Value) (any, error) {
	switch f.Type {
	case TypeText:
		str, err := value.CastToText(v)
		return string(str), err
	case TypeNumber:
		n, err := value.CastToFloat(v)
		return float64(n), err
	case TypeInt:
		n, err := value.CastToFloat(v)
		if err != nil {
			return nil, err
		}
		if n != value.Float(math.Trunc(float64(n))) {
			return nil, fmt.Errorf("%w: %s is not an integer", value.ErrCast, n)
		}
		return int64(n), nil
	case TypeBool:
		b, err := value.CastToBool(v)
		return bool(b), err
	case TypeDate, TypeDateTime, TypeTime:
		if n, ok := v.(value.Float); ok {
			return format.FromSerial(float64(n)), nil
		}
		return value.CastToTime(v)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrField, f.Type)
	}
}

// encode converts a go value into the value written in a cell. Times are
// written with the date kind matching the type of the field.
func (f Field) encode(v any) (value.Value, error) {
	t, ok := v.(time.Time)
	if !ok {
		return value.Of(v)
	}
	switch f.Type {
	case TypeDate:
		return value.DateOnly(t), nil
	case TypeTime:
		return value.Time(t), nil
	default:
		return value.DateTime(t), nil
	}
}
