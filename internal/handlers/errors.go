package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	apperrors "feeview/internal/errors"
	"feeview/internal/fees"
	"feeview/internal/middleware"
	"feeview/internal/money"
	"feeview/internal/utils/response"
)

// Error codes returned alongside 422 responses.
const (
	CodeDataUnavailable = "data_unavailable"
	CodeInvalidAmount   = "invalid_amount"
	CodeInvalidEncoding = "invalid_encoding"
	CodeInternal        = "internal_error"
)

// respondError maps service errors to HTTP responses.
func respondError(c *fiber.Ctx, err error) error {
	var domainErr *apperrors.DomainError
	switch {
	case errors.As(err, &domainErr):
		return response.ErrorCode(c, domainErr.Status, domainErr.Code, domainErr.Message)
	case errors.Is(err, money.ErrParse):
		return response.ErrorCode(c, fiber.StatusUnprocessableEntity, CodeInvalidAmount, err.Error())
	case errors.Is(err, fees.ErrValidation):
		return response.ErrorCode(c, fiber.StatusUnprocessableEntity, CodeDataUnavailable, err.Error())
	case errors.Is(err, money.ErrUnsupportedEncoding):
		return response.ErrorCode(c, fiber.StatusBadGateway, CodeInvalidEncoding, err.Error())
	}

	slog.Error("request failed", "path", c.Path(), "error", err, "request_id", middleware.RequestIDFrom(c))
	return response.ErrorCode(c, fiber.StatusInternalServerError, CodeInternal, "internal server error")
}
