package domain

import "errors"

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrCustomerNotFound   = errors.New("customer not found")

	ErrIdempotencyInProgress = errors.New("a request with this idempotency key is still in progress")
)

// ValidationError describes malformed or missing client input. It is always
// client-caused and safe to echo back.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + " " + e.Reason
}

// NewValidationError builds a ValidationError that carries a free-form message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Reason: msg}
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
