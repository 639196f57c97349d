package layout

import (
	"fmt"
	"iter"
	"strings"
)

type Range struct {
	Starts Position
	Ends   Position
}

func NewRange(starts, ends Position) Range {
	rg := Range{
		Starts: starts,
		Ends:   ends,
	}
	return rg.Normalize()
}

func SingleRange(pos Position) Range {
	return Range{
		Starts: pos,
		Ends:   pos,
	}
}

func ParseRange(str string) (Range, error) {
	fst, lst, ok := strings.Cut(str, ":")
	starts, err := ParsePosition(fst)
	if err != nil {
		return Range{}, err
	}
	if !ok {
		return SingleRange(starts), nil
	}
	ends, err := ParsePosition(lst)
	if err != nil {
		return Range{}, err
	}
	return NewRange(starts, ends), nil
}

func (r Range) Contains(pos Position) bool {
	ok := pos.Row >= r.Starts.Row && pos.Row <= r.Ends.Row
	if !ok {
		return false
	}
	return pos.Col >= r.Starts.Col && pos.Col <= r.Ends.Col
}

// Inside reports whether other lies entirely within r.
func (r Range) Inside(other Range) bool {
	return r.Contains(other.Starts) && r.Contains(other.Ends)
}

func (r Range) Overlaps(other Range) bool {
	return r.Starts.Row <= other.Ends.Row && r.Ends.Row >= other.Starts.Row &&
		r.Starts.Col <= other.Ends.Col && r.Ends.Col >= other.Starts.Col
}

func (r Range) Width() int {
	return r.Ends.Col - r.Starts.Col + 1
}

func (r Range) Height() int {
	return r.Ends.Row - r.Starts.Row + 1
}

func (r Range) Single() bool {
	return r.Starts.Equal(r.Ends)
}

func (r Range) String() string {
	if r.Single() {
		return r.Starts.Addr()
	}
	return fmt.Sprintf("%s:%s", r.Starts.Addr(), r.Ends.Addr())
}

func (r Range) Normalize() Range {
	var x Range
	x.Starts.Row = min(r.Starts.Row, r.Ends.Row)
	x.Starts.Col = min(r.Starts.Col, r.Ends.Col)
	x.Ends.Row = max(r.Starts.Row, r.Ends.Row)
	x.Ends.Col = max(r.Starts.Col, r.Ends.Col)
	return x
}

// Extend grows the range so that it contains pos.
func (r Range) Extend(pos Position) Range {
	r.Starts.Row = min(r.Starts.Row, pos.Row)
	r.Starts.Col = min(r.Starts.Col, pos.Col)
	r.Ends.Row = max(r.Ends.Row, pos.Row)
	r.Ends.Col = max(r.Ends.Col, pos.Col)
	return r
}

func (r Range) Positions() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		for row := r.Starts.Row; row <= r.Ends.Row; row++ {
			for col := r.Starts.Col; col <= r.Ends.Col; col++ {
				if !yield(NewPosition(row, col)) {
					return
				}
			}
		}
	}
}
