package models

import (
	"errors"
	"fmt"
)

var (
	ErrAuthentication  = errors.New("authentication failed")
	ErrUpstream        = errors.New("brokerage call failed")
	ErrMissingCurrency = errors.New("currency missing from balance summary")
	ErrInvalidCashRate = errors.New("target cash rate must be between 0 and 100")
)

// AuthenticationError means no session could be established. The user must
// obtain a new access code out-of-band.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

func (e *AuthenticationError) Is(target error) bool { return target == ErrAuthentication }

// UpstreamError wraps a failed brokerage data call.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// Upstream wraps err as an UpstreamError unless it already is one or is an
// AuthenticationError.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUpstream) || errors.Is(err, ErrAuthentication) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}

// MissingCurrencyError is returned when a balance lookup names a currency
// the account does not hold.
type MissingCurrencyError struct {
	Currency string
}

func (e *MissingCurrencyError) Error() string {
	return fmt.Sprintf("currency %s not in balance summary", e.Currency)
}

func (e *MissingCurrencyError) Is(target error) bool { return target == ErrMissingCurrency }
