package entity

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidData      = errors.New("invalid checkout data")
	ErrProviderConfig   = errors.New("payment provider configuration incomplete")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrDuplicateEvent   = errors.New("webhook event already processed")
	ErrConfigPathNotSet = errors.New("CONFIG_PATH not set and -config flag not provided")
)

// ValidationError carries the first failing form field and its
// buyer-facing message. Unwraps to ErrInvalidData.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidData
}

// ProviderError is a non-2xx answer from an external payment API.
// Status and body are passed through to the caller; no retry is ever
// attempted.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: provider returned %d: %s", e.Provider, e.Status, e.Body)
}

// AsProviderError unwraps err into a *ProviderError when one is in the
// chain.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
