package models

import "feeview/internal/money"

// PricingRule is the per-payment-method fee configuration: a fixed amount plus
// a percentage of the gross, with IVA levied on top of the commission.
type PricingRule struct {
	PaymentMethod string       `json:"payment_method"`
	Fixed         *money.Value `json:"fixed,omitempty"`
	Percentage    *money.Value `json:"percentage,omitempty"`
	IVAPercentage *money.Value `json:"iva_percentage,omitempty"`
}

// QuoteRequest is what the pricing screen sends to preview a rule.
type QuoteRequest struct {
	PricingRule
	Amount   *money.Value `json:"amount"`
	Currency string       `json:"currency"`
}
