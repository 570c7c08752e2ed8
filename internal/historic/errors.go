package historic

import (
	"errors"
	"fmt"
)

// Reason classifies why an expression could not be parsed.
type Reason int

const (
	ReasonNone             Reason = iota // Parsed successfully
	ReasonEmpty                          // Blank input
	ReasonUnsupportedShape               // Token count or pattern matches no shape
	ReasonInvalidMonthName               // Three tokens but the first is not an English month name
	ReasonInvalidNumeric                 // A digit token is out of range or not a number
	ReasonInvalidDate                    // Well formed, but the day does not exist
)

var reasonNames = [...]string{
	ReasonNone:             "none",
	ReasonEmpty:            "empty",
	ReasonUnsupportedShape: "unsupported_shape",
	ReasonInvalidMonthName: "invalid_month_name",
	ReasonInvalidNumeric:   "invalid_numeric",
	ReasonInvalidDate:      "invalid_date",
}

// String returns the snake_case name of the reason.
func (r Reason) String() string {
	if int(r) >= 0 && int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Sentinel errors wrapped by ParseError, for use with errors.Is.
var (
	ErrEmpty            = errors.New("historic: empty expression")
	ErrUnsupportedShape = errors.New("historic: unsupported shape")
	ErrInvalidMonthName = errors.New("historic: invalid month name")
	ErrInvalidNumeric   = errors.New("historic: invalid numeric value")
	ErrInvalidDate      = errors.New("historic: invalid date")
)

var reasonErrors = map[Reason]error{
	ReasonEmpty:            ErrEmpty,
	ReasonUnsupportedShape: ErrUnsupportedShape,
	ReasonInvalidMonthName: ErrInvalidMonthName,
	ReasonInvalidNumeric:   ErrInvalidNumeric,
	ReasonInvalidDate:      ErrInvalidDate,
}

// ParseError describes an expression that could not be parsed.
type ParseError struct {
	Input  string
	Reason Reason
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("historic: parse %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("historic: parse %q: %s: %s", e.Input, e.Reason, e.Detail)
}

// Unwrap returns the sentinel error for the reason.
func (e *ParseError) Unwrap() error {
	return reasonErrors[e.Reason]
}

func failure(input string, reason Reason, format string, args ...any) *ParseError {
	return &ParseError{Input: input, Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
