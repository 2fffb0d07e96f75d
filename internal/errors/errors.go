// Package errors holds the domain errors shared by sources, services and handlers.
package errors

import "github.com/gofiber/fiber/v2"

// DomainError is a sentinel carrying a stable code and the HTTP status it maps to.
type DomainError struct {
	Code    string
	Message string
	Status  int
}

func (e *DomainError) Error() string {
	return e.Message
}

var (
	ErrTransactionNotFound = &DomainError{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
		Status:  fiber.StatusNotFound,
	}
	ErrOutOfScope = &DomainError{
		Code:    "OUT_OF_SCOPE",
		Message: "transaction does not belong to this partner",
		Status:  fiber.StatusForbidden,
	}
	ErrBackendUnavailable = &DomainError{
		Code:    "BACKEND_UNAVAILABLE",
		Message: "transaction backend unavailable",
		Status:  fiber.StatusBadGateway,
	}
	ErrInvalidRequest = &DomainError{
		Code:    "INVALID_REQUEST",
		Message: "invalid request",
		Status:  fiber.StatusBadRequest,
	}
)
