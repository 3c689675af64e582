package domain

import "fmt"

// Currency is a cash currency code reported by the bot.
// The set is closed: adding a code means updating Flag and Currencies,
// both of which fail loudly on drift.
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	RUB Currency = "RUB"
	PLN Currency = "PLN"
	GBP Currency = "GBP"
	ILS Currency = "ILS"
)

// Currencies lists every supported code in fixed display order.
// Settings keyboards and stored preference sets follow this order.
var Currencies = []Currency{EUR, USD, RUB, PLN, GBP, ILS}

// DefaultCurrencies is the set every new user starts with.
func DefaultCurrencies() []Currency {
	return []Currency{EUR, USD}
}

// ParseCurrency validates an inbound code (callback data, stored value).
func ParseCurrency(s string) (Currency, error) {
	c := Currency(s)
	for _, known := range Currencies {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
}

// Flag returns the display flag emoji for the currency.
// Unknown codes are a programming error, not user input: panic so that
// enumeration drift surfaces immediately instead of rendering garbage.
func (c Currency) Flag() string {
	switch c {
	case EUR:
		return "🇪🇺"
	case USD:
		return "🇺🇸"
	case RUB:
		return "🇷🇺"
	case PLN:
		return "🇵🇱"
	case GBP:
		return "🇬🇧"
	case ILS:
		return "🇮🇱"
	default:
		panic(fmt.Sprintf("unknown currency %q has no flag", string(c)))
	}
}

// WithFlag renders the code with its flag, e.g. "USD 🇺🇸".
func (c Currency) WithFlag() string {
	return string(c) + " " + c.Flag()
}

// NormalizeCurrencies drops duplicates and unknown codes and returns the
// set in the fixed enumeration order, so rendering stays deterministic.
func NormalizeCurrencies(set []Currency) []Currency {
	present := make(map[Currency]bool, len(set))
	for _, c := range set {
		present[c] = true
	}

	out := make([]Currency, 0, len(present))
	for _, c := range Currencies {
		if present[c] {
			out = append(out, c)
		}
	}
	return out
}

// ToggleCurrency returns the symmetric difference of set and {c}:
// remove c if present, add it if absent. The result is normalized.
func ToggleCurrency(set []Currency, c Currency) []Currency {
	found := false
	out := make([]Currency, 0, len(set)+1)
	for _, cur := range set {
		if cur == c {
			found = true
			continue
		}
		out = append(out, cur)
	}
	if !found {
		out = append(out, c)
	}
	return NormalizeCurrencies(out)
}
