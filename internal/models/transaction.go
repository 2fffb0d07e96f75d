package models

import (
	"time"

	"feeview/internal/money"
)

// Transaction statuses reported by the backend
const (
	TransactionStatusPending    = "pending"
	TransactionStatusAuthorized = "authorized"
	TransactionStatusSettled    = "settled"
	TransactionStatusFailed     = "failed"
	TransactionStatusRefunded   = "refunded"
)

// FeeSnapshot holds the fee terms captured when the transaction was created.
// It is never recomputed from live pricing rules.
type FeeSnapshot struct {
	Fixed                 *money.Value `json:"fixed,omitempty"`
	Percentage            *money.Value `json:"percentage,omitempty"`
	IVAPercentage         *money.Value `json:"iva_percentage,omitempty"`
	IVAAmount             *money.Value `json:"iva_amount,omitempty"`
	ProviderFeeAmount     *money.Value `json:"provider_fee_amount,omitempty"`
	ProviderFeePercentage *money.Value `json:"provider_fee_percentage,omitempty"`
}

// Financials is the money side of a transaction. AmountNet stays nil until
// the transaction settles.
type Financials struct {
	AmountGross *money.Value `json:"amount_gross"`
	AmountNet   *money.Value `json:"amount_net,omitempty"`
	Currency    string       `json:"currency"`
	FeeSnapshot *FeeSnapshot `json:"fee_snapshot,omitempty"`
}

type Transaction struct {
	ID            string     `json:"id"`
	Reference     string     `json:"reference,omitempty"`
	MerchantID    string     `json:"merchant_id"`
	MerchantName  string     `json:"merchant_name,omitempty"`
	PartnerID     string     `json:"partner_id,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	Status        string     `json:"status"`
	Description   string     `json:"description,omitempty"`
	Financials    Financials `json:"financials"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	MerchantIDs []string
	PartnerID   string
	Status      string
	Limit       int
	Offset      int
}
