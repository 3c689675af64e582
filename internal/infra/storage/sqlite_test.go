package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"kursbot/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *Storage {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return &Storage{db: db}
}

func TestUpsertUser_CreatesWithDefaults(t *testing.T) {
	s := setupTestDB(t)

	created, err := s.UpsertUser(&domain.User{ID: 100, FirstName: "Olena", Username: "olena"})
	if err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}

	assertCurrencies(t, created.CurrencyList(), []domain.Currency{domain.EUR, domain.USD})
	if created.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set on first insert")
	}
}

func TestUpsertUser_UpdatesMetadataOnly(t *testing.T) {
	s := setupTestDB(t)

	created, err := s.UpsertUser(&domain.User{ID: 100, FirstName: "Olena"})
	if err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}

	// User customizes their set, then re-runs /start
	if _, err := s.ToggleCurrency(100, domain.GBP); err != nil {
		t.Fatalf("ToggleCurrency failed: %v", err)
	}

	updated, err := s.UpsertUser(&domain.User{ID: 100, FirstName: "Olena", LastName: "K"})
	if err != nil {
		t.Fatalf("second UpsertUser failed: %v", err)
	}

	if updated.LastName != "K" {
		t.Errorf("metadata not updated, LastName = %q", updated.LastName)
	}
	assertCurrencies(t, updated.CurrencyList(), []domain.Currency{domain.EUR, domain.USD, domain.GBP})
	if d := updated.CreatedAt.Sub(created.CreatedAt); d < -time.Second || d > time.Second {
		t.Errorf("CreatedAt changed on upsert: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
}

func TestCurrenciesForUser(t *testing.T) {
	s := setupTestDB(t)

	t.Run("existing user", func(t *testing.T) {
		if _, err := s.UpsertUser(&domain.User{ID: 7}); err != nil {
			t.Fatalf("UpsertUser failed: %v", err)
		}

		currencies, err := s.CurrenciesForUser(7)
		if err != nil {
			t.Fatalf("CurrenciesForUser failed: %v", err)
		}
		assertCurrencies(t, currencies, []domain.Currency{domain.EUR, domain.USD})
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.CurrenciesForUser(404)
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestToggleCurrency(t *testing.T) {
	s := setupTestDB(t)

	if _, err := s.UpsertUser(&domain.User{ID: 555}); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}

	// Add GBP to the default set
	user, err := s.ToggleCurrency(555, domain.GBP)
	if err != nil {
		t.Fatalf("ToggleCurrency failed: %v", err)
	}
	assertCurrencies(t, user.CurrencyList(), []domain.Currency{domain.EUR, domain.USD, domain.GBP})

	// Toggle again: back to the default set
	user, err = s.ToggleCurrency(555, domain.GBP)
	if err != nil {
		t.Fatalf("second ToggleCurrency failed: %v", err)
	}
	assertCurrencies(t, user.CurrencyList(), []domain.Currency{domain.EUR, domain.USD})
}

func TestToggleCurrency_UnknownUser(t *testing.T) {
	s := setupTestDB(t)

	_, err := s.ToggleCurrency(404, domain.USD)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestToggleCurrency_PersistsAcrossReads(t *testing.T) {
	s := setupTestDB(t)

	if _, err := s.UpsertUser(&domain.User{ID: 9}); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	if _, err := s.ToggleCurrency(9, domain.USD); err != nil {
		t.Fatalf("ToggleCurrency failed: %v", err)
	}

	currencies, err := s.CurrenciesForUser(9)
	if err != nil {
		t.Fatalf("CurrenciesForUser failed: %v", err)
	}
	assertCurrencies(t, currencies, []domain.Currency{domain.EUR})
}

func assertCurrencies(t *testing.T, got, want []domain.Currency) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("currencies = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("currencies = %v, want %v", got, want)
		}
	}
}
