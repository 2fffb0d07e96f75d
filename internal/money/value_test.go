package money

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type amountHolder struct {
	Amount *Value `json:"amount"`
}

func decodeAmount(t *testing.T, payload string) (*Value, error) {
	t.Helper()
	var h amountHolder
	err := json.Unmarshal([]byte(`{"amount":`+payload+`}`), &h)
	return h.Amount, err
}

func TestToNumber_PlainNumbersPassThrough(t *testing.T) {
	for _, n := range []float64{0, 1, -1, 10000, 96.5, 0.1, 1e-9, 123456789.123} {
		got, err := ToNumber(Number(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestToNumber_WrappedMatchesParseFloat(t *testing.T) {
	for _, s := range []string{"100.00", "96.50", "0", "-2.5", "0.1", "1e3", "190.00", "123456789.987654321"} {
		t.Run(s, func(t *testing.T) {
			want, err := strconv.ParseFloat(s, 64)
			require.NoError(t, err)

			got, err := ToNumber(Wrapped(s))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestToNumber_AbsentIsZeroButNotPresent(t *testing.T) {
	got, err := ToNumber(nil)
	require.NoError(t, err)
	assert.Equal(t, float64(0), got)

	assert.False(t, IsPresent(nil))
	assert.True(t, IsPresent(Number(0)))
	assert.True(t, IsPresent(Wrapped("0")))
}

func TestToNumber_MalformedDecimalIsParseError(t *testing.T) {
	tests := []string{"abc", "", " 1", "1,5", "NaN", "Inf", "0x10", "12abc", "1_000"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			got, err := ToNumber(Wrapped(input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, input, perr.Input)
			assert.Zero(t, got)
		})
	}
}

func TestUnmarshalJSON_AcceptedShapes(t *testing.T) {
	v, err := decodeAmount(t, `10000`)
	require.NoError(t, err)
	assert.False(t, v.IsWrapped())
	n, err := ToNumber(v)
	require.NoError(t, err)
	assert.Equal(t, float64(10000), n)

	v, err = decodeAmount(t, `{"$numberDecimal":"96.50"}`)
	require.NoError(t, err)
	assert.True(t, v.IsWrapped())
	assert.Equal(t, "96.50", v.String())

	v, err = decodeAmount(t, `null`)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestUnmarshalJSON_MalformedStringDecodesButFailsOnUse(t *testing.T) {
	v, err := decodeAmount(t, `{"$numberDecimal":"abc"}`)
	require.NoError(t, err)

	_, err = ToNumber(v)
	assert.ErrorIs(t, err, ErrParse)
}

func TestUnmarshalJSON_OutOfRangeNumberDecodesButFailsOnUse(t *testing.T) {
	v, err := decodeAmount(t, `1e400`)
	require.NoError(t, err)
	assert.True(t, IsPresent(v))
	assert.Equal(t, "1e400", v.String())

	_, err = ToNumber(v)
	assert.ErrorIs(t, err, ErrParse)
	_, err = Decimal(v)
	assert.ErrorIs(t, err, ErrParse)

	out, err := json.Marshal(amountHolder{Amount: v})
	require.NoError(t, err)
	assert.Equal(t, `{"amount":1e400}`, string(out))
}

func TestUnmarshalJSON_RejectsUnexpectedShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"bare string", `"100.00"`},
		{"boolean", `true`},
		{"array", `[1]`},
		{"object without key", `{"value":"1"}`},
		{"extra keys", `{"$numberDecimal":"1","currency":"USD"}`},
		{"nested object", `{"$numberDecimal":{"$numberDecimal":"1"}}`},
		{"number under key", `{"$numberDecimal":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeAmount(t, tt.payload)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedEncoding)
		})
	}
}

func TestMarshalJSON_PreservesWireEncoding(t *testing.T) {
	for _, payload := range []string{
		`{"amount":{"$numberDecimal":"100.00"}}`,
		`{"amount":96.50}`,
		`{"amount":1e3}`,
		`{"amount":null}`,
	} {
		var h amountHolder
		require.NoError(t, json.Unmarshal([]byte(payload), &h))

		out, err := json.Marshal(h)
		require.NoError(t, err)
		assert.Equal(t, payload, string(out))
	}
}

func TestDecimal_ExactValues(t *testing.T) {
	d, err := Decimal(Wrapped("96.50"))
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("96.5")))

	d, err = Decimal(Number(0.1))
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("0.1")))

	d, err = Decimal(nil)
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = Decimal(Wrapped("abc"))
	assert.ErrorIs(t, err, ErrParse)
}
