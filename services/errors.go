package services

import (
	"errors"
	"fmt"
)

var (
	ErrReservationConflict = errors.New("this table is already reserved around that time, please choose another time or table")
	ErrMenuNotFound        = errors.New("menu not found")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrItemNotInCart       = errors.New("item is not in the cart")
	ErrInvalidCredentials  = errors.New("invalid username or password")
)

// ValidationError is returned for input rejected before it reaches storage.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
