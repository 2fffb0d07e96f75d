// Package fees derives the fee breakdown of a transaction from its financials.
//
// Every optional figure is a *float64: nil means "not determinable from the
// data" and is never replaced by zero. The functions here are pure; they do not
// mutate their input and hold no state.
package fees

import (
	"strings"

	"feeview/internal/models"
	"feeview/internal/money"
)

// IVASource tells where Breakdown.IVAAmount came from.
type IVASource string

const (
	IVASourceNone      IVASource = ""
	IVASourceSnapshot  IVASource = "snapshot"
	IVASourceEstimated IVASource = "estimated"
)

// Breakdown is the display-ready fee breakdown of one transaction.
type Breakdown struct {
	Currency              string    `json:"currency"`
	AmountGross           float64   `json:"amount_gross"`
	AmountNet             *float64  `json:"amount_net"`
	FixedFee              *float64  `json:"fixed_fee"`
	PercentageFee         *float64  `json:"percentage_fee"`
	IVAPercentage         *float64  `json:"iva_percentage"`
	TotalFee              *float64  `json:"total_fee"`
	IVAAmount             *float64  `json:"iva_amount"`
	IVASource             IVASource `json:"iva_source,omitempty"`
	ProviderFeeAmount     *float64  `json:"provider_fee_amount"`
	ProviderFeePercentage *float64  `json:"provider_fee_percentage"`
	PlatformMargin        *float64  `json:"platform_margin"`
}

// Settled reports whether the net amount is known.
func (b Breakdown) Settled() bool {
	return b.AmountNet != nil
}

// IVAEstimated reports whether IVAAmount was derived from the percentage rather
// than billed in the snapshot.
func (b Breakdown) IVAEstimated() bool {
	return b.IVASource == IVASourceEstimated
}

// ComputeBreakdown derives the fee breakdown of f.
//
// The snapshot's iva_amount is authoritative; the IVA is only estimated from
// iva_percentage when the snapshot carries no amount but at least one
// commission term, and the result is then tagged IVASourceEstimated.
// PlatformMargin is set only when both TotalFee and ProviderFeeAmount are
// known. Parse errors from any amount are returned as is.
func ComputeBreakdown(f models.Financials) (Breakdown, error) {
	if !money.IsPresent(f.AmountGross) {
		return Breakdown{}, &ValidationError{Field: "amount_gross"}
	}
	currency := strings.ToUpper(strings.TrimSpace(f.Currency))
	if currency == "" {
		return Breakdown{}, &ValidationError{Field: "currency"}
	}

	gross, err := money.ToNumber(f.AmountGross)
	if err != nil {
		return Breakdown{}, fieldError("amount_gross", err)
	}

	b := Breakdown{Currency: currency, AmountGross: gross}
	if b.AmountNet, err = optional("amount_net", f.AmountNet); err != nil {
		return Breakdown{}, err
	}
	if b.AmountNet != nil {
		total := gross - *b.AmountNet
		b.TotalFee = &total
	}

	var snap models.FeeSnapshot
	if f.FeeSnapshot != nil {
		snap = *f.FeeSnapshot
	}

	fields := []struct {
		name string
		in   *money.Value
		out  **float64
	}{
		{"fee_snapshot.fixed", snap.Fixed, &b.FixedFee},
		{"fee_snapshot.percentage", snap.Percentage, &b.PercentageFee},
		{"fee_snapshot.iva_percentage", snap.IVAPercentage, &b.IVAPercentage},
		{"fee_snapshot.provider_fee_amount", snap.ProviderFeeAmount, &b.ProviderFeeAmount},
		{"fee_snapshot.provider_fee_percentage", snap.ProviderFeePercentage, &b.ProviderFeePercentage},
	}
	for _, fld := range fields {
		if *fld.out, err = optional(fld.name, fld.in); err != nil {
			return Breakdown{}, err
		}
	}

	billedIVA, err := optional("fee_snapshot.iva_amount", snap.IVAAmount)
	if err != nil {
		return Breakdown{}, err
	}
	switch {
	case billedIVA != nil:
		b.IVAAmount = billedIVA
		b.IVASource = IVASourceSnapshot
	case b.IVAPercentage != nil:
		if base, ok := commission(gross, b.FixedFee, b.PercentageFee); ok {
			estimate := base * *b.IVAPercentage / 100
			b.IVAAmount = &estimate
			b.IVASource = IVASourceEstimated
		}
	}

	if b.TotalFee != nil && b.ProviderFeeAmount != nil {
		margin := *b.TotalFee - *b.ProviderFeeAmount
		b.PlatformMargin = &margin
	}

	return b, nil
}

// commission is the platform fee before IVA: fixed + gross × percentage / 100.
// ok is false when the snapshot carries neither term.
func commission(gross float64, fixed, percentage *float64) (c float64, ok bool) {
	if fixed != nil {
		c += *fixed
		ok = true
	}
	if percentage != nil {
		c += gross * *percentage / 100
		ok = true
	}
	return c, ok
}

func optional(field string, v *money.Value) (*float64, error) {
	if !money.IsPresent(v) {
		return nil, nil
	}
	n, err := money.ToNumber(v)
	if err != nil {
		return nil, fieldError(field, err)
	}
	return &n, nil
}
