// Package breakdown fetches transactions and turns them into fee breakdowns
// for the admin and partner consoles.
package breakdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"feeview/internal/currency"
	apperrors "feeview/internal/errors"
	"feeview/internal/fees"
	"feeview/internal/models"
	"feeview/internal/money"
	"feeview/internal/repositories"
)

// Row error codes
const (
	CodeParseError      = "parse_error"
	CodeValidationError = "validation_error"
)

// Scope restricts what a caller may see. The zero Scope is the admin view.
type Scope struct {
	PartnerID string
}

// Allows reports whether tx is visible within the scope.
func (s Scope) Allows(tx *models.Transaction) bool {
	return s.PartnerID == "" || tx.PartnerID == s.PartnerID
}

// RowError explains why a transaction has no breakdown.
type RowError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result pairs a transaction with its breakdown, or with the reason it has none.
type Result struct {
	Transaction models.Transaction `json:"transaction"`
	Breakdown   *fees.Breakdown    `json:"breakdown,omitempty"`
	Display     *Display           `json:"display,omitempty"`
	Error       *RowError          `json:"error,omitempty"`
}

// Page is one page of results.
type Page struct {
	Results []Result
	Total   int64
}

type Service struct {
	source        repositories.TransactionSource
	defaultLocale string
}

func NewService(source repositories.TransactionSource, defaultLocale string) *Service {
	return &Service{source: source, defaultLocale: defaultLocale}
}

// Formatter returns a formatter for locale, or for the default locale when
// locale is empty.
func (s *Service) Formatter(locale string) *currency.Formatter {
	if locale == "" {
		locale = s.defaultLocale
	}
	return currency.NewFormatter(locale)
}

// Transaction fetches one transaction within scope.
func (s *Service) Transaction(ctx context.Context, id string, scope Scope) (*models.Transaction, error) {
	tx, err := s.source.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(tx) {
		slog.Warn("partner requested transaction outside its scope", "transaction_id", id, "partner_id", scope.PartnerID)
		return nil, apperrors.ErrOutOfScope
	}
	return tx, nil
}

// Get computes the breakdown of one transaction. Parse and validation errors
// are returned to the caller unchanged.
func (s *Service) Get(ctx context.Context, id string, scope Scope, locale string) (*Result, error) {
	tx, err := s.Transaction(ctx, id, scope)
	if err != nil {
		return nil, err
	}

	b, err := fees.ComputeBreakdown(tx.Financials)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	d := Render(b, s.Formatter(locale))
	return &Result{Transaction: *tx, Breakdown: &b, Display: &d}, nil
}

// Detail is Get for the transaction screen: a broken breakdown is reported in
// Result.Error so the rest of the transaction can still be shown.
func (s *Service) Detail(ctx context.Context, id string, scope Scope, locale string) (*Result, error) {
	tx, err := s.Transaction(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	r := evaluate(*tx, s.Formatter(locale))
	return &r, nil
}

// List returns a page of results. A transaction whose breakdown fails carries
// a RowError; it never fails the page.
func (s *Service) List(ctx context.Context, filter models.TransactionFilter, scope Scope, locale string) (Page, error) {
	if scope.PartnerID != "" {
		filter.PartnerID = scope.PartnerID
	}

	txs, total, err := s.source.ListTransactions(ctx, filter)
	if err != nil {
		return Page{}, err
	}

	f := s.Formatter(locale)
	results := make([]Result, 0, len(txs))
	for _, tx := range txs {
		if !scope.Allows(&tx) {
			continue
		}
		results = append(results, evaluate(tx, f))
	}
	return Page{Results: results, Total: total}, nil
}

func evaluate(tx models.Transaction, f *currency.Formatter) Result {
	b, err := fees.ComputeBreakdown(tx.Financials)
	if err != nil {
		slog.Warn("fee breakdown unavailable", "transaction_id", tx.ID, "error", err)
		return Result{Transaction: tx, Error: rowError(err)}
	}
	d := Render(b, f)
	return Result{Transaction: tx, Breakdown: &b, Display: &d}
}

func rowError(err error) *RowError {
	code := CodeValidationError
	if errors.Is(err, money.ErrParse) {
		code = CodeParseError
	}
	return &RowError{Code: code, Message: err.Error()}
}
