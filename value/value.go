package value

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrUnsupported = errors.New("unsupported value type")

type Kind int8

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindBool
	KindDateOnly
	KindDateTime
	KindTime
	KindFormula
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDateOnly:
		return "date"
	case KindDateTime:
		return "datetime"
	case KindTime:
		return "time"
	case KindFormula:
		return "formula"
	default:
		return "unknown"
	}
}

// Value is the closed set of values a cell can hold. The concrete types
// are Blank, Text, Float, Boolean, DateOnly, DateTime, Time and Formula.
type Value interface {
	Kind() Kind
	fmt.Stringer
}

// Of converts a native go value into a Value.
func Of(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Empty(), nil
	case Value:
		return v, nil
	case string:
		return Text(v), nil
	case bool:
		return Boolean(v), nil
	case float64:
		return checkFloat(v)
	case float32:
		return checkFloat(float64(v))
	case int:
		return Float(v), nil
	case int8:
		return Float(v), nil
	case int16:
		return Float(v), nil
	case int32:
		return Float(v), nil
	case int64:
		return Float(v), nil
	case uint:
		return Float(v), nil
	case uint8:
		return Float(v), nil
	case uint16:
		return Float(v), nil
	case uint32:
		return Float(v), nil
	case uint64:
		return Float(v), nil
	case time.Time:
		return DateTime(v), nil
	case fmt.Stringer:
		return Text(v.String()), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
	}
}

// Native returns the go value held by v.
func Native(v Value) any {
	switch v := v.(type) {
	case Text:
		return string(v)
	case Float:
		return float64(v)
	case Boolean:
		return bool(v)
	case DateOnly:
		return time.Time(v)
	case DateTime:
		return time.Time(v)
	case Time:
		return time.Time(v)
	case Formula:
		return string(v)
	default:
		return nil
	}
}

func IsEmpty(v Value) bool {
	return v == nil || v.Kind() == KindEmpty
}

func checkFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, f)
	}
	return Float(f), nil
}
