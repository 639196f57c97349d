package format

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/midbel/sheetkit/value"
)

var errPattern = errors.New("invalid number pattern")

type numberFormatter struct {
	minInt int
	minDec int
	maxDec int

	signAlways  bool
	hasGrouping bool
	percent     bool

	decimalSep  byte
	thousandSep byte
}

// ParseNumberFormatter compiles patterns like #,##0.00 or 0.0%. Only the
// first section of a code with several sections is used.
func ParseNumberFormatter(pattern string) (Formatter, error) {
	pattern, _, _ = strings.Cut(pattern, ";")
	var nf numberFormatter
	nf.decimalSep = '.'
	nf.thousandSep = ','

	if rest, ok := strings.CutSuffix(pattern, "%"); ok {
		nf.percent = true
		pattern = rest
	}
	if rest, ok := strings.CutPrefix(pattern, "+"); ok {
		nf.signAlways = true
		pattern = rest
	}
	left, right, _ := strings.Cut(pattern, ".")
	if left == "" {
		return nil, fmt.Errorf("%w: %q", errPattern, pattern)
	}

	zeroes := true
	for i := 0; i < len(right); i++ {
		switch {
		case zeroes && right[i] == '0':
			nf.minDec++
			nf.maxDec++
		case right[i] == '#':
			zeroes = false
			nf.maxDec++
		default:
			return nil, fmt.Errorf("%w: unexpected %c in fractional part", errPattern, right[i])
		}
	}
	zeroes = true
	for i := len(left) - 1; i >= 0; i-- {
		switch {
		case left[i] == ',':
			nf.hasGrouping = true
		case zeroes && left[i] == '0':
			nf.minInt++
		case left[i] == '#':
			zeroes = false
		default:
			return nil, fmt.Errorf("%w: unexpected %c in integral part", errPattern, left[i])
		}
	}
	return nf, nil
}

func (nf numberFormatter) Format(v value.Value) (string, error) {
	vf, ok := v.(value.Float)
	if !ok {
		return "", fmt.Errorf("%s value is not a number", v.Kind())
	}
	f := float64(vf)
	if nf.percent {
		f *= 100
	}
	var (
		scale   = math.Pow10(nf.maxDec)
		rounded = math.Round(math.Abs(f)*scale) / scale
		str     = strconv.FormatFloat(rounded, 'f', nf.maxDec, 64)
	)
	left, right, _ := strings.Cut(str, ".")
	right = strings.TrimRight(right, "0")
	for len(right) < nf.minDec {
		right += "0"
	}
	for len(left) < nf.minInt {
		left = "0" + left
	}
	if nf.minInt == 0 && left == "0" {
		left = ""
	}
	integral := []byte(left)
	if nf.hasGrouping {
		integral = groupDigits(integral, nf.thousandSep)
	}
	var out []byte
	if f < 0 && rounded != 0 {
		out = append(out, '-')
	} else if nf.signAlways {
		out = append(out, '+')
	}
	out = append(out, integral...)
	if right != "" {
		out = append(out, nf.decimalSep)
		out = append(out, right...)
	}
	if len(out) == 0 {
		out = append(out, '0')
	}
	if nf.percent {
		out = append(out, '%')
	}
	return string(out), nil
}

func groupDigits(digits []byte, sep byte) []byte {
	var (
		tmp []byte
		rev = slices.Clone(digits)
	)
	slices.Reverse(rev)
	for i := 0; i < len(rev); i += 3 {
		if i > 0 {
			tmp = append(tmp, sep)
		}
		tmp = append(tmp, rev[i:min(i+3, len(rev))]...)
	}
	slices.Reverse(tmp)
	return tmp
}
