package domain

import "errors"

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// FetchError represents a failed provider call. Network errors, timeouts
// and bad payloads all look the same to the caller: the next cache read
// simply tries again.
type FetchError struct {
	Op  string // Operation that failed (e.g., "fetch organizations")
	Err error  // Underlying error
}

func (e *FetchError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *FetchError) IsRetriable() bool {
	return true
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps a provider failure
func NewFetchError(op string, err error) *FetchError {
	return &FetchError{Op: op, Err: err}
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	// ErrUserNotFound is returned when a preference operation targets an
	// id that was never upserted. A state error, not user input.
	ErrUserNotFound = errors.New("user not found")

	// ErrUnknownCurrency is returned when an inbound code is outside the
	// closed currency set.
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrConfigNotFound is returned when configuration file is missing
	ErrConfigNotFound = errors.New("configuration not found")
)
