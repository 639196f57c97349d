package value

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrCast = errors.New("value can not be casted")

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
	"15:04:05",
	"15:04",
}

func True(val Value) bool {
	b, ok := val.(Boolean)
	if ok {
		return bool(b)
	}
	return false
}

func CastToFloat(val Value) (Float, error) {
	switch v := val.(type) {
	case Float:
		return v, nil
	case Boolean:
		if v {
			return 1, nil
		}
		return 0, nil
	case Text:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q to number", ErrCast, v)
		}
		return Float(f), nil
	default:
		return 0, fmt.Errorf("%w: %s to number", ErrCast, kindOf(val))
	}
}

func CastToText(val Value) (Text, error) {
	switch v := val.(type) {
	case Text:
		return v, nil
	case nil, Blank:
		return "", nil
	default:
		return Text(v.String()), nil
	}
}

func CastToBool(val Value) (Boolean, error) {
	switch v := val.(type) {
	case Boolean:
		return v, nil
	case Float:
		return v != 0, nil
	case Text:
		b, err := strconv.ParseBool(strings.TrimSpace(string(v)))
		if err != nil {
			return false, fmt.Errorf("%w: %q to bool", ErrCast, v)
		}
		return Boolean(b), nil
	default:
		return false, fmt.Errorf("%w: %s to bool", ErrCast, kindOf(val))
	}
}

// CastToTime extracts the instant held by any of the date kinds or parses
// a textual representation.
func CastToTime(val Value) (time.Time, error) {
	switch v := val.(type) {
	case DateOnly:
		return time.Time(v), nil
	case DateTime:
		return time.Time(v), nil
	case Time:
		return time.Time(v), nil
	case Text:
		str := strings.TrimSpace(string(v))
		for _, layout := range dateLayouts {
			t, err := time.ParseInLocation(layout, str, time.Local)
			if err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q to date", ErrCast, v)
	default:
		return time.Time{}, fmt.Errorf("%w: %s to date", ErrCast, kindOf(val))
	}
}

func kindOf(val Value) string {
	if val == nil {
		return KindEmpty.String()
	}
	return val.Kind().String()
}
