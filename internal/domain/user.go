package domain

import (
	"strings"
	"time"
)

// User is a chat user together with their active currency set.
// The set is serialized as a comma-joined string in enumeration order to
// keep the sqlite schema flat.
type User struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Username   string `json:"username"`
	Currencies string `json:"currencies"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CurrencyList decodes the stored currency set. Codes that no longer
// parse are dropped rather than crashing a user's session.
func (u *User) CurrencyList() []Currency {
	if u.Currencies == "" {
		return nil
	}

	parts := strings.Split(u.Currencies, ",")
	out := make([]Currency, 0, len(parts))
	for _, p := range parts {
		c, err := ParseCurrency(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return NormalizeCurrencies(out)
}

// SetCurrencyList normalizes and serializes the given set.
func (u *User) SetCurrencyList(set []Currency) {
	normalized := NormalizeCurrencies(set)
	codes := make([]string, len(normalized))
	for i, c := range normalized {
		codes[i] = string(c)
	}
	u.Currencies = strings.Join(codes, ",")
}
