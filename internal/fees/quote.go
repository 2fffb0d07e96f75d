package fees

import (
	"strings"

	"github.com/shopspring/decimal"

	"feeview/internal/models"
	"feeview/internal/money"
)

var hundred = decimal.NewFromInt(100)

// Quote is the expected charge for an amount under a pricing rule.
type Quote struct {
	PaymentMethod string  `json:"payment_method,omitempty"`
	Currency      string  `json:"currency"`
	Amount        float64 `json:"amount"`
	Commission    float64 `json:"commission"`
	IVAAmount     float64 `json:"iva_amount"`
	TotalFee      float64 `json:"total_fee"`
	Net           float64 `json:"net"`
}

// QuoteFee applies rule to amount using exact decimal arithmetic. The
// percentage applies to the gross amount and IVA applies to the resulting
// commission.
func QuoteFee(rule models.PricingRule, amount *money.Value, currency string) (Quote, error) {
	if !money.IsPresent(amount) {
		return Quote{}, &ValidationError{Field: "amount"}
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return Quote{}, &ValidationError{Field: "currency"}
	}

	gross, err := money.Decimal(amount)
	if err != nil {
		return Quote{}, fieldError("amount", err)
	}
	if gross.IsNegative() {
		return Quote{}, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	fixed, err := money.Decimal(rule.Fixed)
	if err != nil {
		return Quote{}, fieldError("fixed", err)
	}
	pct, err := money.Decimal(rule.Percentage)
	if err != nil {
		return Quote{}, fieldError("percentage", err)
	}
	ivaPct, err := money.Decimal(rule.IVAPercentage)
	if err != nil {
		return Quote{}, fieldError("iva_percentage", err)
	}

	comm := fixed.Add(gross.Mul(pct).Div(hundred))
	iva := comm.Mul(ivaPct).Div(hundred)
	total := comm.Add(iva)

	return Quote{
		PaymentMethod: rule.PaymentMethod,
		Currency:      currency,
		Amount:        gross.InexactFloat64(),
		Commission:    comm.InexactFloat64(),
		IVAAmount:     iva.InexactFloat64(),
		TotalFee:      total.InexactFloat64(),
		Net:           gross.Sub(total).InexactFloat64(),
	}, nil
}
