package value

import (
	"slices"
)

type ErrorCode string

const (
	ErrNull  ErrorCode = "#NULL!"
	ErrDiv0  ErrorCode = "#DIV/0!"
	ErrValue ErrorCode = "#VALUE!"
	ErrRef   ErrorCode = "#REF!"
	ErrName  ErrorCode = "#NAME?"
	ErrNum   ErrorCode = "#NUM!"
	ErrNA    ErrorCode = "#N/A"
)

var errorCodes = []ErrorCode{
	ErrNull,
	ErrDiv0,
	ErrValue,
	ErrRef,
	ErrName,
	ErrNum,
	ErrNA,
}

// Known reports whether the code is one of the error codes a spreadsheet
// application can store in a cell.
func (e ErrorCode) Known() bool {
	return slices.Contains(errorCodes, e)
}

func (e ErrorCode) String() string {
	return string(e)
}
