package handlers

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"feeview/internal/middleware"
	"feeview/internal/models"
	"feeview/internal/services/breakdown"
	"feeview/internal/utils/pagination"
)

const exportMaxLimit = 1000

// BreakdownHandler serves transactions with their fee breakdowns to both the
// admin and the partner console. The caller's scope comes from its token.
type BreakdownHandler struct {
	service *breakdown.Service
}

func NewBreakdownHandler(service *breakdown.Service) *BreakdownHandler {
	return &BreakdownHandler{service: service}
}

// ListTransactions returns a page of transactions with their breakdowns.
func (h *BreakdownHandler) ListTransactions(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c, pagination.MaxLimit)
	page, err := h.service.List(c.UserContext(), filterFrom(c, p), scopeFrom(c), c.Query("locale"))
	if err != nil {
		return respondError(c, err)
	}
	p.Total = page.Total
	return c.JSON(pagination.Response(p, page.Results))
}

// Summary totals one page of transactions per currency.
func (h *BreakdownHandler) Summary(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c, exportMaxLimit)
	page, err := h.service.List(c.UserContext(), filterFrom(c, p), scopeFrom(c), c.Query("locale"))
	if err != nil {
		return respondError(c, err)
	}
	p.Total = page.Total
	summary := breakdown.Summarize(page.Results, h.service.Formatter(c.Query("locale")))
	return c.JSON(pagination.Response(p, summary))
}

// ExportCSV streams one page of transactions as CSV.
func (h *BreakdownHandler) ExportCSV(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c, exportMaxLimit)
	page, err := h.service.List(c.UserContext(), filterFrom(c, p), scopeFrom(c), "")
	if err != nil {
		return respondError(c, err)
	}

	var buf bytes.Buffer
	if err := breakdown.WriteCSV(&buf, page.Results); err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("transactions-%s-p%d.csv", time.Now().UTC().Format("20060102"), p.Page)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// GetTransaction returns a transaction for the detail screen. A breakdown that
// cannot be computed is reported in the result's error, not as a failure.
func (h *BreakdownHandler) GetTransaction(c *fiber.Ctx) error {
	result, err := h.service.Detail(c.UserContext(), c.Params("id"), scopeFrom(c), c.Query("locale"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GetBreakdown returns the breakdown of one transaction.
func (h *BreakdownHandler) GetBreakdown(c *fiber.Ctx) error {
	result, err := h.service.Get(c.UserContext(), c.Params("id"), scopeFrom(c), c.Query("locale"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"transaction_id": result.Transaction.ID,
		"breakdown":      result.Breakdown,
		"display":        result.Display,
	})
}

func scopeFrom(c *fiber.Ctx) breakdown.Scope {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok || claims.IsAdmin() {
		return breakdown.Scope{}
	}
	return breakdown.Scope{PartnerID: claims.PartnerID}
}

func filterFrom(c *fiber.Ctx, p pagination.Pagination) models.TransactionFilter {
	filter := models.TransactionFilter{
		PartnerID: c.Query("partner_id"),
		Status:    c.Query("status"),
		Limit:     p.Limit,
		Offset:    p.Offset,
	}
	for _, id := range strings.Split(c.Query("merchant_id"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			filter.MerchantIDs = append(filter.MerchantIDs, id)
		}
	}
	return filter
}
