// Package backend is a thin client of the payment backend's transaction API.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "feeview/internal/errors"
	"feeview/internal/models"
)

// Client fetches transactions from the backend over REST.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// NewClient creates a backend client. token is sent as a bearer service token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wireTransaction accepts the backend's Mongo-style "_id" alongside "id".
type wireTransaction struct {
	models.Transaction
	MongoID string `json:"_id"`
}

func (w wireTransaction) model() models.Transaction {
	tx := w.Transaction
	if tx.ID == "" {
		tx.ID = w.MongoID
	}
	return tx
}

type listResponse struct {
	Data  []wireTransaction `json:"data"`
	Total int64             `json:"total"`
}

// GetTransaction calls GET /transactions/:id.
func (c *Client) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("transaction id is required: %w", apperrors.ErrInvalidRequest)
	}

	var wire wireTransaction
	if err := c.get(ctx, "/transactions/"+url.PathEscape(id), nil, &wire); err != nil {
		return nil, err
	}
	tx := wire.model()
	return &tx, nil
}

// ListTransactions calls GET /transactions with paging and filters.
func (c *Client) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, int64, error) {
	q := url.Values{}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
		q.Set("page", strconv.Itoa(filter.Offset/filter.Limit+1))
	}
	if len(filter.MerchantIDs) > 0 {
		q.Set("merchant_id", strings.Join(filter.MerchantIDs, ","))
	}
	if filter.PartnerID != "" {
		q.Set("partner_id", filter.PartnerID)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}

	var resp listResponse
	if err := c.get(ctx, "/transactions", q, &resp); err != nil {
		return nil, 0, err
	}

	txs := make([]models.Transaction, 0, len(resp.Data))
	for _, w := range resp.Data {
		txs = append(txs, w.model())
	}
	return txs, resp.Total, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("backend request failed", "path", path, "error", err)
		return fmt.Errorf("%w: %v", apperrors.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.ErrTransactionNotFound
	case resp.StatusCode >= 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Warn("backend returned server error", "path", path, "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("%w: status %d", apperrors.ErrBackendUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}
