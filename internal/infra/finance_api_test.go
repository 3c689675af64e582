package infra

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kursbot/internal/domain"
)

const mockFinanceBody = `{
	"organizations": [
		{
			"id": "7oiylpmiow8iy1smadda",
			"oldId": 1046,
			"title": "ПостФинанс",
			"phone": "0800505555",
			"address": "ул. Пушкинская, 1",
			"currencies": {
				"USD": {"bid": "27.0", "ask": "27.5"},
				"EUR": {"bid": "31.1", "ask": "31.6"}
			}
		},
		{
			"id": "bmrtbvxogsqgvwvse0ds",
			"oldId": 830,
			"title": "Центр Обмена",
			"currencies": {
				"USD": {"bid": "27.2", "ask": "27.6"},
				"PLN": {"bid": "", "ask": "7.1"}
			}
		}
	]
}`

func TestFinanceClient_FetchOrganizations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != currencyCashPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(mockFinanceBody))
	}))
	defer server.Close()

	client := NewFinanceClient(server.URL, 5*time.Second)

	orgs, err := client.FetchOrganizations(context.Background())
	if err != nil {
		t.Fatalf("FetchOrganizations failed: %v", err)
	}

	if len(orgs) != 2 {
		t.Fatalf("expected 2 organizations, got %d", len(orgs))
	}

	q, ok := orgs[0].QuoteFor(domain.USD)
	if !ok {
		t.Fatal("expected USD quote for first organization")
	}
	if q.Bid != "27.0" || q.Ask != "27.5" {
		t.Errorf("unexpected USD quote %+v", q)
	}

	// One-sided quote still counts
	if _, ok := orgs[1].QuoteFor(domain.PLN); !ok {
		t.Error("expected one-sided PLN quote for second organization")
	}
	if _, ok := orgs[1].QuoteFor(domain.EUR); ok {
		t.Error("second organization does not quote EUR")
	}
}

func TestFinanceClient_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewFinanceClient(server.URL, 5*time.Second)

	_, err := client.FetchOrganizations(context.Background())
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}

	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("expected FetchError, got %T", err)
	}
	if !domain.IsRetriable(err) {
		t.Error("provider failure should be retriable")
	}
}

func TestFinanceClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewFinanceClient(server.URL, 5*time.Second)

	if _, err := client.FetchOrganizations(context.Background()); err == nil {
		t.Fatal("expected error on malformed body")
	}
}

func TestFinanceClient_RetryOnFailure(t *testing.T) {
	callCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		if callCount < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(mockFinanceBody))
	}))
	defer server.Close()

	client := NewFinanceClient(server.URL, 5*time.Second)

	// Should retry twice and succeed on the 3rd attempt
	orgs, err := client.FetchOrganizations(context.Background())
	if err != nil {
		t.Fatalf("FetchOrganizations should succeed after retries: %v", err)
	}
	if len(orgs) != 2 {
		t.Errorf("expected 2 organizations, got %d", len(orgs))
	}

	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestFinanceClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewFinanceClient(server.URL, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// First attempt fails, retry loop must stop on the dead context
	// instead of sleeping out the backoff.
	start := time.Now()
	_, err := client.FetchOrganizations(ctx)
	if err == nil {
		t.Fatal("expected error with cancelled context")
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("cancelled fetch should return promptly")
	}
}
