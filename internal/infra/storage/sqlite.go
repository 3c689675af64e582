package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"kursbot/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage persists per-user currency preferences in sqlite.
type Storage struct {
	db *gorm.DB
}

// NewStorage opens (or creates) the database at the given path.
func NewStorage(path string) (*Storage, error) {
	// Ensure directory exists
	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// UpsertUser creates the user with the default currency set on first
// contact. An existing record only has its display metadata refreshed;
// currencies and CreatedAt are preserved. The whole operation runs in one
// transaction.
func (s *Storage) UpsertUser(user *domain.User) (*domain.User, error) {
	var out domain.User

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing domain.User
		err := tx.First(&existing, "id = ?", user.ID).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			fresh := domain.User{
				ID:        user.ID,
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Username:  user.Username,
			}
			fresh.SetCurrencyList(domain.DefaultCurrencies())
			if err := tx.Create(&fresh).Error; err != nil {
				return err
			}
			out = fresh
			return nil
		}
		if err != nil {
			return err
		}

		existing.FirstName = user.FirstName
		existing.LastName = user.LastName
		existing.Username = user.Username
		if err := tx.Model(&existing).
			Select("first_name", "last_name", "username").
			Updates(&existing).Error; err != nil {
			return err
		}
		out = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// GetUser retrieves a user by chat id.
func (s *Storage) GetUser(id int64) (*domain.User, error) {
	var user domain.User
	err := s.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrenciesForUser returns the user's active currency set in enumeration
// order.
func (s *Storage) CurrenciesForUser(id int64) ([]domain.Currency, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	return user.CurrencyList(), nil
}

// ToggleCurrency flips membership of one currency in the user's set:
// present is removed, absent is added. Read and write happen inside a
// single transaction, so two overlapping toggles for the same user cannot
// lose an update.
func (s *Storage) ToggleCurrency(id int64, currency domain.Currency) (*domain.User, error) {
	var out domain.User

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user domain.User
		err := tx.First(&user, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		if err != nil {
			return err
		}

		user.SetCurrencyList(domain.ToggleCurrency(user.CurrencyList(), currency))
		if err := tx.Model(&user).Update("currencies", user.Currencies).Error; err != nil {
			return err
		}
		out = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}
