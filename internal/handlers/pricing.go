package handlers

import (
	"github.com/gofiber/fiber/v2"

	"feeview/internal/currency"
	"feeview/internal/fees"
	"feeview/internal/models"
	"feeview/internal/utils/response"
)

type PricingHandler struct {
	defaultLocale string
}

func NewPricingHandler(defaultLocale string) *PricingHandler {
	return &PricingHandler{defaultLocale: defaultLocale}
}

// Quote previews what a pricing rule charges for an amount.
func (h *PricingHandler) Quote(c *fiber.Ctx) error {
	var req models.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	quote, err := fees.QuoteFee(req.PricingRule, req.Amount, req.Currency)
	if err != nil {
		return respondError(c, err)
	}

	locale := c.Query("locale", h.defaultLocale)
	f := currency.NewFormatter(locale)
	format := func(v float64) string {
		return f.FormatOrRaw(v, quote.Currency)
	}

	return response.Success(c, "Quote computed", fiber.Map{
		"quote": quote,
		"display": fiber.Map{
			"amount":     format(quote.Amount),
			"commission": format(quote.Commission),
			"iva_amount": format(quote.IVAAmount),
			"total_fee":  format(quote.TotalFee),
			"net":        format(quote.Net),
		},
	})
}
