package service

import (
	"context"
	"sync"
	"time"

	"kursbot/internal/domain"
	"kursbot/internal/infra"
)

// OrganizationProvider is the outbound port to the rate aggregator.
type OrganizationProvider interface {
	FetchOrganizations(ctx context.Context) ([]domain.Organization, error)
}

// RateCache serves the last fetched organization list while bounding the
// number of outbound provider calls. Refresh is lazy: the next read that
// observes a stale snapshot triggers it, there is no background poller.
type RateCache struct {
	provider OrganizationProvider
	ttl      time.Duration
	now      func() time.Time

	mu        sync.RWMutex
	snapshot  []domain.Organization
	fetchedAt time.Time
}

// NewRateCache creates a cache over the given provider. ttl is the
// freshness window: a snapshot older than ttl is refetched on read.
func NewRateCache(provider OrganizationProvider, ttl time.Duration) *RateCache {
	return &RateCache{
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetData returns the cached snapshot, refreshing it when stale or absent.
// On provider failure the previous snapshot is kept for the next attempt
// and the error propagates. Two stale readers may race to refetch; both
// fetches are equivalent snapshots and the last write wins.
func (c *RateCache) GetData(ctx context.Context) ([]domain.Organization, error) {
	c.mu.RLock()
	snapshot, fetchedAt := c.snapshot, c.fetchedAt
	c.mu.RUnlock()

	if snapshot != nil && c.now().Sub(fetchedAt) <= c.ttl {
		infra.GlobalMetrics.RecordCacheHit()
		return snapshot, nil
	}

	organizations, err := c.provider.FetchOrganizations(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot = organizations
	c.fetchedAt = c.now()
	c.mu.Unlock()

	return organizations, nil
}
