package repositories

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"feeview/internal/models"
	"feeview/internal/repositories/cache"
)

// TransactionSource is anything that can fetch transactions: the backend REST
// client or the replica repository.
type TransactionSource interface {
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, int64, error)
}

// CachedSource caches single-transaction lookups. Only fetched transactions
// are cached, never computed breakdowns. Listings always go to the source.
type CachedSource struct {
	source TransactionSource
	store  cache.Store
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats counts single-transaction lookups served from the cache.
type CacheStats struct {
	Hits   int64   `json:"hits"`
	Misses int64   `json:"misses"`
	Ratio  float64 `json:"ratio"`
}

func NewCachedSource(source TransactionSource, store cache.Store, ttl time.Duration) *CachedSource {
	return &CachedSource{source: source, store: store, ttl: ttl}
}

func TransactionCacheKey(id string) string {
	return cache.GenerateKey("transaction", "id", id)
}

func (s *CachedSource) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	key := TransactionCacheKey(id)

	var cached models.Transaction
	found, err := s.store.Get(ctx, key, &cached)
	if err != nil {
		slog.Warn("transaction cache read failed", "key", key, "error", err)
	}
	if found {
		s.hits.Add(1)
		return &cached, nil
	}
	s.misses.Add(1)

	tx, err := s.source.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.ttl > 0 {
		if err := s.store.SetWithTTL(ctx, key, tx, s.ttl); err != nil {
			slog.Warn("transaction cache write failed", "key", key, "error", err)
		}
	}
	return tx, nil
}

func (s *CachedSource) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, int64, error) {
	return s.source.ListTransactions(ctx, filter)
}

// Invalidate evicts a cached transaction.
func (s *CachedSource) Invalidate(ctx context.Context, id string) error {
	return s.store.Delete(ctx, TransactionCacheKey(id))
}

// Stats returns the hit ratio of GetTransaction since startup.
func (s *CachedSource) Stats() CacheStats {
	hits, misses := s.hits.Load(), s.misses.Load()
	stats := CacheStats{Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		stats.Ratio = float64(hits) / float64(total) * 100
	}
	return stats
}
