package money

import (
	"errors"
	"fmt"
)

var (
	// ErrParse matches every *ParseError.
	ErrParse = errors.New("money: invalid decimal")
	// ErrUnsupportedEncoding is returned when a JSON amount is neither a number
	// nor a {"$numberDecimal": "..."} object.
	ErrUnsupportedEncoding = errors.New("money: unsupported amount encoding")
)

// ParseError reports a decimal string that is not a valid base-10 numeral.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("money: invalid decimal %q", e.Input)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func encodingError(detail string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedEncoding, detail)
}
