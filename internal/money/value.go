// Package money normalizes the two wire encodings the payment backend uses for
// monetary scalars: a bare JSON number, or a MongoDB-style decimal object of the
// shape {"$numberDecimal": "<decimal string>"}.
//
// Absence is modelled as a nil *Value. A nil value counts as zero for arithmetic
// (ToNumber) but is reported as absent by IsPresent, so callers can tell a
// "not yet settled" net amount apart from a settled net amount of zero.
package money

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// DecimalKey is the only key accepted in the object encoding.
const DecimalKey = "$numberDecimal"

// Value is an immutable monetary scalar as received from the backend.
type Value struct {
	wrapped bool
	text    string
	num     float64
	// invalid marks a bare number literal that does not fit a float64.
	invalid bool
}

// Number returns a Value that encodes as a bare JSON number.
func Number(f float64) *Value {
	return &Value{num: f, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Wrapped returns a Value that encodes as {"$numberDecimal": s}. The string is
// not validated here; ToNumber reports a ParseError when it is not a numeral.
func Wrapped(s string) *Value {
	return &Value{wrapped: true, text: s}
}

// IsWrapped reports whether v uses the $numberDecimal encoding.
func (v *Value) IsWrapped() bool {
	return v != nil && v.wrapped
}

// String returns the raw textual form of the value, as it appeared on the wire.
func (v *Value) String() string {
	if v == nil {
		return ""
	}
	if v.text == "" && !v.wrapped {
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	}
	return v.text
}

// IsPresent reports whether v carries a value at all, independent of whether
// that value is zero.
func IsPresent(v *Value) bool {
	return v != nil
}

// ToNumber converts v to a float64. A nil value yields 0. A wrapped value whose
// string is not a valid base-10 numeral yields a *ParseError; it never yields 0.
func ToNumber(v *Value) (float64, error) {
	if v == nil {
		return 0, nil
	}
	if v.wrapped || v.invalid {
		return parseNumeral(v.text)
	}
	return v.num, nil
}

// Decimal converts v to an exact decimal. A nil value yields decimal.Zero.
func Decimal(v *Value) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, nil
	}
	if v.invalid {
		_, err := parseNumeral(v.text)
		return decimal.Zero, err
	}
	if !v.wrapped {
		if v.text != "" {
			if d, err := decimal.NewFromString(v.text); err == nil {
				return d, nil
			}
		}
		return decimal.NewFromFloat(v.num), nil
	}
	if _, err := parseNumeral(v.text); err != nil {
		return decimal.Zero, err
	}
	return decimal.RequireFromString(v.text), nil
}

func parseNumeral(s string) (float64, error) {
	// decimal.NewFromString rejects NaN, Inf, hex floats and stray characters
	// that strconv.ParseFloat would otherwise accept.
	if _, err := decimal.NewFromString(s); err != nil {
		return 0, &ParseError{Input: s, Err: err}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Input: s, Err: err}
	}
	return f, nil
}

// MarshalJSON re-emits the value in the encoding it was received in.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.wrapped {
		key, _ := json.Marshal(DecimalKey)
		val, err := json.Marshal(v.text)
		if err != nil {
			return nil, err
		}
		out := make([]byte, 0, len(key)+len(val)+3)
		out = append(out, '{')
		out = append(out, key...)
		out = append(out, ':')
		out = append(out, val...)
		return append(out, '}'), nil
	}
	if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
		return nil, fmt.Errorf("money: cannot encode non-finite amount %v", v.num)
	}
	if v.text != "" {
		return []byte(v.text), nil
	}
	return []byte(strconv.FormatFloat(v.num, 'g', -1, 64)), nil
}

// UnmarshalJSON accepts a bare JSON number or an object holding exactly the
// $numberDecimal key with a string value. Anything else is rejected with
// ErrUnsupportedEncoding.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return encodingError("empty input")
	}

	switch c := data[0]; {
	case c == 'n':
		if string(data) != "null" {
			return encodingError("invalid literal")
		}
		// Absence is carried by the nil pointer on the parent field.
		return nil
	case c == '{':
		return v.unmarshalWrapped(data)
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return encodingError(err.Error())
		}
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			// Out of float64 range: keep the literal, ToNumber reports it.
			*v = Value{text: n.String(), invalid: true}
			return nil
		}
		*v = Value{num: f, text: n.String()}
		return nil
	case c == '"':
		return encodingError("bare string without " + DecimalKey + " wrapper")
	default:
		return encodingError(fmt.Sprintf("unexpected JSON token %q", c))
	}
}

func (v *Value) unmarshalWrapped(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return encodingError(err.Error())
	}
	raw, ok := fields[DecimalKey]
	if !ok {
		return encodingError("object without " + DecimalKey + " key")
	}
	if len(fields) != 1 {
		return encodingError("object with keys besides " + DecimalKey)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return encodingError(DecimalKey + " must hold a string")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return encodingError(err.Error())
	}
	*v = Value{wrapped: true, text: s}
	return nil
}
