package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MaxColumn = 16383
	MaxRow    = 1048575
)

var ErrAddress = errors.New("invalid address")

// Position is a 0-based cell coordinate.
type Position struct {
	Row int
	Col int
}

func NewPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

func ParsePosition(addr string) (Position, error) {
	var pos Position
	str := strings.ReplaceAll(addr, "$", "")
	col, offset := parseIndex(str)
	if offset == 0 || offset == len(str) {
		return pos, fmt.Errorf("%w: %q", ErrAddress, addr)
	}
	row, err := strconv.Atoi(str[offset:])
	if err != nil || row <= 0 || str[offset] == '+' {
		return pos, fmt.Errorf("%w: %q", ErrAddress, addr)
	}
	pos.Row = row - 1
	pos.Col = col - 1
	if err := pos.check(); err != nil {
		return pos, fmt.Errorf("%w: %q", ErrAddress, addr)
	}
	return pos, nil
}

func Addr(row, col int) (string, error) {
	return NewPosition(row, col).Format()
}

// Format returns the A1 notation of the position or an error when
// the position is out of the grid.
func (p Position) Format() (string, error) {
	if err := p.check(); err != nil {
		return "", err
	}
	return p.Addr(), nil
}

func (p Position) Addr() string {
	return indexToString(p.Col+1) + strconv.Itoa(p.Row+1)
}

func (p Position) String() string {
	return p.Addr()
}

func (p Position) Equal(other Position) bool {
	return p.Row == other.Row && p.Col == other.Col
}

func (p Position) Less(other Position) bool {
	if p.Row == other.Row {
		return p.Col < other.Col
	}
	return p.Row < other.Row
}

func (p Position) Offset(rows, cols int) Position {
	p.Row += rows
	p.Col += cols
	return p
}

func (p Position) check() error {
	if p.Col < 0 || p.Col > MaxColumn {
		return fmt.Errorf("%w: column %d out of range", ErrAddress, p.Col)
	}
	if p.Row < 0 || p.Row > MaxRow {
		return fmt.Errorf("%w: row %d out of range", ErrAddress, p.Row)
	}
	return nil
}

func ColumnName(col int) (string, error) {
	if col < 0 || col > MaxColumn {
		return "", fmt.Errorf("%w: column %d out of range", ErrAddress, col)
	}
	return indexToString(col + 1), nil
}

func ParseColumn(str string) (int, error) {
	str = strings.TrimPrefix(str, "$")
	ix, offset := parseIndex(str)
	if offset == 0 || offset != len(str) || ix-1 > MaxColumn {
		return 0, fmt.Errorf("%w: column %q", ErrAddress, str)
	}
	return ix - 1, nil
}

func IsAddress(addr string) bool {
	_, err := ParsePosition(addr)
	return err == nil
}

func parseIndex(str string) (int, int) {
	var (
		offset int
		index  int
	)
	for offset < len(str) && isLetter(rune(str[offset])) {
		delta := byte('A')
		if isLower(rune(str[offset])) {
			delta = 'a'
		}
		index = index*26 + int(str[offset]-delta+1)
		offset++
		if index > MaxColumn+1 {
			// keep consuming letters but the value is out of the grid
			index = MaxColumn + 2
		}
	}
	return index, offset
}

func indexToString(ix int) string {
	var buf []byte
	for ix > 0 {
		ix--
		buf = append(buf, byte('A'+ix%26))
		ix /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

func isLower(c rune) bool {
	return c >= 'a' && c <= 'z'
}

func isUpper(c rune) bool {
	return c >= 'A' && c <= 'Z'
}

func isLetter(c rune) bool {
	return isLower(c) || isUpper(c)
}
