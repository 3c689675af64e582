package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"kursbot/internal/domain"
)

const currencyCashPath = "/ru/public/currency-cash.json"

// financeResponse is the aggregator payload: every exchange outlet in the
// country with its per-currency cash quotes.
type financeResponse struct {
	Organizations []domain.Organization `json:"organizations"`
}

// FinanceClient fetches cash exchange rate listings from the aggregator API.
type FinanceClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewFinanceClient creates a client for the given aggregator base URL.
// The timeout bounds one request end to end.
func NewFinanceClient(baseURL string, timeout time.Duration) *FinanceClient {
	return &FinanceClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchOrganizations fetches the current organization list with retry logic.
func (c *FinanceClient) FetchOrganizations(ctx context.Context) ([]domain.Organization, error) {
	var lastErr error
	for i := 0; i < 3; i++ {
		if i > 0 {
			// Exponential backoff: 1s, 2s
			delay := time.Duration(1<<uint(i-1)) * time.Second
			slog.Debug("Retrying organizations fetch", slog.Int("attempt", i), slog.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, domain.NewFetchError("fetch organizations", ctx.Err())
			case <-time.After(delay):
			}
		}

		orgs, err := c.doFetch(ctx)
		if err == nil {
			return orgs, nil
		}
		lastErr = err
		slog.Warn("Organizations fetch attempt failed", slog.Int("attempt", i+1), slog.Any("error", err))
	}

	GlobalMetrics.RecordError()
	return nil, domain.NewFetchError("fetch organizations", lastErr)
}

func (c *FinanceClient) doFetch(ctx context.Context) ([]domain.Organization, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+currencyCashPath, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	GlobalMetrics.RecordProviderCall(time.Since(started).Nanoseconds())

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var data financeResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}

	return data.Organizations, nil
}
