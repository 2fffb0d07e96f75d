package currency

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_CLPHasNoFraction(t *testing.T) {
	s, err := Format(10000, "CLP")
	require.NoError(t, err)

	assert.True(t, strings.Contains(s, "10.000") || strings.Contains(s, "10,000"), "got %q", s)
	assert.True(t, strings.Contains(s, "$") || strings.Contains(s, "CLP"), "got %q", s)
	assert.NotRegexp(t, regexp.MustCompile(`[.,]\d{2}$`), s)
}

func TestFormat_CLPRoundsToWholePesos(t *testing.T) {
	s, err := Format(10499.6, "CLP", "es-CL")
	require.NoError(t, err)
	assert.Contains(t, s, "10.500")
}

func TestFormat_USDInEnglish(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{3.5, "$3.50"},
		{1234.5, "$1,234.50"},
		{0, "$0.00"},
		{-1.5, "-$1.50"},
	}

	for _, tt := range tests {
		got, err := Format(tt.amount, "USD", "en-US")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestFormat_ZeroIsRendered(t *testing.T) {
	s, err := Format(0, "CLP")
	require.NoError(t, err)
	assert.Contains(t, s, "0")
}

func TestFormat_LowercaseCodeAccepted(t *testing.T) {
	upper, err := Format(100, "USD", "en-US")
	require.NoError(t, err)
	lower, err := Format(100, "usd", "en-US")
	require.NoError(t, err)
	assert.Equal(t, upper, lower)
}

func TestFormat_UnsupportedCurrency(t *testing.T) {
	for _, code := range []string{"", "QQQ", "DOLLARS", "12"} {
		_, err := Format(10, code)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupported))

		var uerr *UnsupportedCurrencyError
		require.True(t, errors.As(err, &uerr))
		assert.Equal(t, code, uerr.Code)
	}
}

func TestFormatOrRaw_FallsBackToRawString(t *testing.T) {
	assert.Equal(t, "1500.5 QQQ", FormatOrRaw(1500.5, "QQQ"))
	assert.Equal(t, "$3.50", FormatOrRaw(3.5, "USD", "en-US"))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "2.5%", NewFormatter("en-US").FormatPercent(2.5))
	assert.Equal(t, "19%", NewFormatter("en-US").FormatPercent(19))
	assert.Equal(t, "2,5%", NewFormatter("es-CL").FormatPercent(2.5))
}

func TestNewFormatter_InvalidLocaleUsesDefault(t *testing.T) {
	assert.Equal(t, DefaultLocale, NewFormatter("not a locale!").Locale())
	assert.Equal(t, DefaultLocale, NewFormatter("").Locale())
	assert.Equal(t, "en-US", NewFormatter("en-US").Locale())
}
