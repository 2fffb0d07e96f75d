// Package currency renders amounts as locale-aware currency strings.
package currency

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	iso "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is used when no locale is supplied or the supplied one does not parse.
const DefaultLocale = "es-CL"

// ErrUnsupported matches every *UnsupportedCurrencyError.
var ErrUnsupported = errors.New("currency: unsupported currency code")

// UnsupportedCurrencyError reports a code that is not a recognized ISO 4217 currency.
type UnsupportedCurrencyError struct {
	Code string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("currency: unsupported currency code %q", e.Code)
}

func (e *UnsupportedCurrencyError) Is(target error) bool {
	return target == ErrUnsupported
}

// Formatter formats amounts for a fixed locale.
type Formatter struct {
	tag language.Tag
}

// NewFormatter returns a Formatter for locale, falling back to DefaultLocale.
func NewFormatter(locale string) *Formatter {
	return &Formatter{tag: ParseLocale(locale)}
}

// Locale returns the BCP 47 tag the formatter renders for.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// ParseLocale parses a BCP 47 locale, returning DefaultLocale's tag when s is
// empty or malformed.
func ParseLocale(s string) language.Tag {
	if s = strings.TrimSpace(s); s != "" {
		if tag, err := language.Parse(s); err == nil {
			return tag
		}
	}
	return language.MustParse(DefaultLocale)
}

// Format renders amount in the currency identified by code, rounded to the
// currency's standard minor units and grouped per the formatter's locale.
func (f *Formatter) Format(amount float64, code string) (string, error) {
	unit, err := iso.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return "", &UnsupportedCurrencyError{Code: code}
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", fmt.Errorf("currency: cannot format non-finite amount %v", amount)
	}

	scale, _ := iso.Standard.Rounding(unit)
	rounded := decimal.NewFromFloat(amount).Round(int32(scale))

	p := message.NewPrinter(f.tag)
	symbol := p.Sprint(iso.Symbol(unit))
	digits := p.Sprint(number.Decimal(rounded.Abs().InexactFloat64(), number.Scale(scale)))

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	if r, _ := utf8.DecodeLastRuneInString(symbol); unicode.IsLetter(r) {
		b.WriteByte(' ')
	}
	b.WriteString(digits)
	return b.String(), nil
}

// FormatPercent renders a rate given in percent units (2.5 means 2.5%).
func (f *Formatter) FormatPercent(rate float64) string {
	p := message.NewPrinter(f.tag)
	return p.Sprint(number.Decimal(rate, number.MaxFractionDigits(4))) + "%"
}

// FormatOrRaw is Format with the unsupported-currency case recovered as
// "<amount> <code>".
func (f *Formatter) FormatOrRaw(amount float64, code string) string {
	s, err := f.Format(amount, code)
	if err != nil {
		return Raw(amount, code)
	}
	return s
}

// Raw is the unformatted fallback rendering.
func Raw(amount float64, code string) string {
	return strconv.FormatFloat(amount, 'f', -1, 64) + " " + strings.TrimSpace(code)
}

// Format renders amount with an optional locale; see Formatter.Format.
func Format(amount float64, code string, locale ...string) (string, error) {
	return NewFormatter(firstOf(locale)).Format(amount, code)
}

// FormatOrRaw renders amount with an optional locale; see Formatter.FormatOrRaw.
func FormatOrRaw(amount float64, code string, locale ...string) string {
	return NewFormatter(firstOf(locale)).FormatOrRaw(amount, code)
}

func firstOf(locale []string) string {
	if len(locale) == 0 {
		return ""
	}
	return locale[0]
}
