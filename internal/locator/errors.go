// File: internal/locator/errors.go
package locator

import (
	"errors"
	"fmt"

	"github.com/xkilldash9x/suture-cli/api/schemas"
)

// ErrorCode classifies locator failures. The closed set lets consumers (the
// bridge, tests) branch on failure class without string matching.
type ErrorCode string

const (
	// ErrCodeElementNotFound means the chain completed without an
	// acceptable candidate.
	ErrCodeElementNotFound ErrorCode = "ELEMENT_NOT_FOUND"
	// ErrCodeAmbiguousMatch means multiple high-confidence candidates
	// could not be told apart.
	ErrCodeAmbiguousMatch ErrorCode = "AMBIGUOUS_MATCH"
	// ErrCodeInvalidAnchor means the anchor descriptor itself is malformed.
	ErrCodeInvalidAnchor ErrorCode = "INVALID_ANCHOR"
	// ErrCodeHealFailed means a self-heal attempt could not substitute a
	// working anchor.
	ErrCodeHealFailed ErrorCode = "HEAL_FAILED"
	// ErrCodeCdp means the CDP transport itself failed.
	ErrCodeCdp ErrorCode = "CDP_ERROR"
	// ErrCodeTimeout means a strategy exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeStrategyFailed means one strategy errored while querying the
	// page. The chain treats it as skippable.
	ErrCodeStrategyFailed ErrorCode = "STRATEGY_FAILED"
	// ErrCodeInternal is a bug or an unclassifiable failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Error is the typed error for the locator core. Strategy is set when the
// failure is attributable to a single strategy in the chain.
type Error struct {
	Code     ErrorCode
	Strategy schemas.LocatorStrategy
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Strategy != "" && e.Message != "":
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Strategy, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	default:
		return string(e.Code)
	}
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the failure is transient from the caller's point
// of view. Transient failures never consume the anchor's heal slot.
func (e *Error) Retryable() bool {
	switch e.Code {
	case ErrCodeCdp, ErrCodeTimeout, ErrCodeStrategyFailed:
		return true
	}
	return false
}

// NewError builds a locator Error without strategy attribution.
func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Err: cause}
}

// NewStrategyError builds a locator Error attributed to one strategy.
func NewStrategyError(strategy schemas.LocatorStrategy, message string, cause error) *Error {
	return &Error{Code: ErrCodeStrategyFailed, Strategy: strategy, Message: message, Err: cause}
}

// CodeOf extracts the locator ErrorCode from err, or ErrCodeInternal when err
// is not a locator Error.
func CodeOf(err error) ErrorCode {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ErrCodeInternal
}

// IsRetryable reports whether err carries a retryable locator Error.
func IsRetryable(err error) bool {
	var le *Error
	return errors.As(err, &le) && le.Retryable()
}
