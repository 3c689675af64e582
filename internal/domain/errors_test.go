package domain

import (
	"errors"
	"testing"
)

func TestFetchError(t *testing.T) {
	baseErr := errors.New("connection refused")

	t.Run("wraps and formats", func(t *testing.T) {
		err := NewFetchError("fetch organizations", baseErr)

		if err.Error() != "fetch organizations: connection refused" {
			t.Errorf("Error message = %q, want %q", err.Error(), "fetch organizations: connection refused")
		}

		if !errors.Is(err, baseErr) {
			t.Error("Expected error to wrap baseErr")
		}
	})

	t.Run("always retriable", func(t *testing.T) {
		err := NewFetchError("fetch organizations", baseErr)

		if !err.IsRetriable() {
			t.Error("Expected fetch error to be retriable")
		}
	})

	t.Run("IsRetriable helper", func(t *testing.T) {
		fetch := NewFetchError("fetch organizations", baseErr)
		cfg := &ConfigError{Field: "token", Err: baseErr}
		plain := errors.New("plain error")

		if !IsRetriable(fetch) {
			t.Error("IsRetriable should return true for fetch error")
		}

		if IsRetriable(cfg) {
			t.Error("IsRetriable should return false for config error")
		}

		if IsRetriable(plain) {
			t.Error("IsRetriable should return false for plain error")
		}
	})
}

func TestConfigError(t *testing.T) {
	baseErr := errors.New("missing value")
	err := &ConfigError{Field: "telegram.token", Err: baseErr}

	if err.IsRetriable() {
		t.Error("ConfigError should never be retriable")
	}

	expected := "config error [telegram.token]: missing value"
	if err.Error() != expected {
		t.Errorf("Error message = %q, want %q", err.Error(), expected)
	}
}
