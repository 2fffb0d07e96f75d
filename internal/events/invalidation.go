package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Routing keys published by the payment backend.
const (
	RoutingKeyTransactionSettled = "transaction.settled"
	RoutingKeyTransactionUpdated = "transaction.updated"
)

// TransactionEvent is the payload of a transaction.* event.
type TransactionEvent struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status,omitempty"`
}

// Invalidator evicts cached transactions.
type Invalidator interface {
	Invalidate(ctx context.Context, id string) error
}

// InvalidationHandler returns a Handler that evicts the transaction named in
// the event. Malformed events are dropped; failed evictions are re-queued.
func InvalidationHandler(inv Invalidator, timeout time.Duration) Handler {
	return func(body []byte) bool {
		var ev TransactionEvent
		if err := json.Unmarshal(body, &ev); err != nil || ev.TransactionID == "" {
			slog.Warn("dropping malformed transaction event", "error", err)
			return true
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := inv.Invalidate(ctx, ev.TransactionID); err != nil {
			slog.Error("failed to invalidate cached transaction", "transaction_id", ev.TransactionID, "error", err)
			return false
		}
		slog.Debug("invalidated cached transaction", "transaction_id", ev.TransactionID, "status", ev.Status)
		return true
	}
}

// Bindings wires the invalidation handler to every transaction event.
func Bindings(inv Invalidator, timeout time.Duration) map[string]Handler {
	h := InvalidationHandler(inv, timeout)
	return map[string]Handler{
		RoutingKeyTransactionSettled: h,
		RoutingKeyTransactionUpdated: h,
	}
}
