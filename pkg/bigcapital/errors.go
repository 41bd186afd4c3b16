package bigcapital

import (
	"errors"

	internalTypes "github.com/eshaffer321/bigcapital-go/internal/types"
)

// Error represents an API error
type Error = internalTypes.Error

var (
	// ErrNotAuthenticated is returned when a request is made without a session
	ErrNotAuthenticated = internalTypes.ErrNotAuthenticated

	// ErrMissingCredentials is returned when no email and password are available
	ErrMissingCredentials = internalTypes.ErrMissingCredentials

	// ErrUnauthorized matches API errors with status 401 or 403
	ErrUnauthorized = internalTypes.ErrUnauthorized

	// ErrNotFound matches API errors with status 404
	ErrNotFound = internalTypes.ErrNotFound

	// ErrRateLimited matches API errors with status 429
	ErrRateLimited = internalTypes.ErrRateLimited

	// ErrServerError matches API errors with status >= 500
	ErrServerError = internalTypes.ErrServerError

	// ErrAuthenticationFailed is returned when the login endpoint rejects the credentials
	ErrAuthenticationFailed = internalTypes.ErrAuthenticationFailed

	// ErrAccountInvalid is returned once re-authentication has failed too many times.
	// The stored credential record has been cleared; the user must log in again.
	ErrAccountInvalid = internalTypes.ErrAccountInvalid

	// ErrAPI matches any non-2xx API response
	ErrAPI = internalTypes.ErrAPI

	// ErrNetwork matches connection failures, timeouts and cancellation
	ErrNetwork = internalTypes.ErrNetwork

	// ErrMalformedRecord is returned when a stored credential record cannot be decoded
	ErrMalformedRecord = internalTypes.ErrMalformedRecord
)

// IsAuthError checks if error is authentication related
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrAuthenticationFailed) ||
		errors.Is(err, ErrAccountInvalid) ||
		errors.Is(err, ErrUnauthorized)
}

// IsRetryable checks if error is retryable
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrServerError) ||
		errors.Is(err, ErrNetwork) {
		return true
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}

	return false
}
