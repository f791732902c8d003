package application

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials deliberately covers both "no such user" and
	// "wrong password" so login failures do not leak account existence.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrEmailTaken          = errors.New("email is already registered")
	ErrUserNotFound        = errors.New("user not found")
	ErrJobNotFound         = errors.New("job not found")
	ErrInvalidRefreshToken = errors.New("refresh token is invalid or expired")
)

// ValidationError marks malformed or missing input. Handlers map it to 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
