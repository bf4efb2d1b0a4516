package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrUserNotFound          = errors.New("user_not_found")
	ErrOrderNotFound         = errors.New("order_not_found")
	ErrInstrumentNotFound    = errors.New("instrument_not_found")
	ErrInstrumentExists      = errors.New("instrument_already_exists")
	ErrForbidden             = errors.New("forbidden")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInsufficientFunds     = errors.New("insufficient_funds")
	ErrInsufficientLiquidity = errors.New("insufficient_liquidity")
	ErrInvalidOrderState     = errors.New("invalid_order_state")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
