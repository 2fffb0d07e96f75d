package breakdown

import (
	"feeview/internal/currency"
	"feeview/internal/fees"
)

// Placeholder is rendered for figures that cannot be determined.
const Placeholder = "—"

// Display statuses
const (
	StatusPending = "pending"
	StatusSettled = "settled"
)

// Display is a Breakdown rendered for the console. Every figure is a string;
// absent figures are Placeholder, never a formatted zero.
type Display struct {
	Currency              string `json:"currency"`
	Locale                string `json:"locale"`
	Status                string `json:"status"`
	AmountGross           string `json:"amount_gross"`
	AmountNet             string `json:"amount_net"`
	FixedFee              string `json:"fixed_fee"`
	PercentageFee         string `json:"percentage_fee"`
	TotalFee              string `json:"total_fee"`
	IVAPercentage         string `json:"iva_percentage"`
	IVAAmount             string `json:"iva_amount"`
	IVAEstimated          bool   `json:"iva_estimated"`
	ProviderFeeAmount     string `json:"provider_fee_amount"`
	ProviderFeePercentage string `json:"provider_fee_percentage"`
	PlatformMargin        string `json:"platform_margin"`
}

// Render formats b with f. Unsupported currency codes degrade to the raw
// "<amount> <code>" form.
func Render(b fees.Breakdown, f *currency.Formatter) Display {
	amount := func(v *float64) string {
		if v == nil {
			return Placeholder
		}
		return f.FormatOrRaw(*v, b.Currency)
	}
	percent := func(v *float64) string {
		if v == nil {
			return Placeholder
		}
		return f.FormatPercent(*v)
	}

	status := StatusPending
	if b.Settled() {
		status = StatusSettled
	}

	return Display{
		Currency:              b.Currency,
		Locale:                f.Locale(),
		Status:                status,
		AmountGross:           f.FormatOrRaw(b.AmountGross, b.Currency),
		AmountNet:             amount(b.AmountNet),
		FixedFee:              amount(b.FixedFee),
		PercentageFee:         percent(b.PercentageFee),
		TotalFee:              amount(b.TotalFee),
		IVAPercentage:         percent(b.IVAPercentage),
		IVAAmount:             amount(b.IVAAmount),
		IVAEstimated:          b.IVAEstimated(),
		ProviderFeeAmount:     amount(b.ProviderFeeAmount),
		ProviderFeePercentage: percent(b.ProviderFeePercentage),
		PlatformMargin:        amount(b.PlatformMargin),
	}
}
