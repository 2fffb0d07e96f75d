package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"feeview/internal/repositories"
	"feeview/internal/repositories/cache"
)

// CacheStatser reports transaction cache hit ratios.
type CacheStatser interface {
	Stats() repositories.CacheStats
}

type HealthHandler struct {
	store   cache.Store
	stats   CacheStatser
	version string
}

func NewHealthHandler(store cache.Store, stats CacheStatser, version string) *HealthHandler {
	return &HealthHandler{store: store, stats: stats, version: version}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	cacheStatus := "connected"
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.store.HealthCheck(ctx); err != nil {
			cacheStatus = "unavailable"
		}
	}

	body := fiber.Map{
		"status":  "ok",
		"version": h.version,
		"services": fiber.Map{
			"cache": cacheStatus,
		},
	}
	if h.stats != nil {
		body["cache_stats"] = h.stats.Stats()
	}
	return c.JSON(body)
}
