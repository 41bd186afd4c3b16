package types

import (
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	CodeAccountInvalid       = "ACCOUNT_INVALID"
	CodeAPIError             = "API_ERROR"
	CodeNetworkError         = "NETWORK_ERROR"
	CodeMalformedRecord      = "MALFORMED_CREDENTIAL_RECORD"
)

// Error represents an API error
type Error struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"statusCode"`
	Details    map[string]interface{} `json:"details,omitempty"`
	RequestID  string                 `json:"requestId,omitempty"`
	Err        error                  `json:"-"`
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("error: %s", e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by code (and status code when the target sets one),
// and the status sentinels by status code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Code != e.Code {
			return false
		}
		return t.StatusCode == 0 || t.StatusCode == e.StatusCode
	}

	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrServerError:
		return e.StatusCode >= 500
	}
	return false
}

// Error kinds. Compare with errors.Is; concrete errors carry status and message.
var (
	// ErrAuthenticationFailed is returned when the login endpoint rejects the credentials
	ErrAuthenticationFailed = &Error{Code: CodeAuthenticationFailed, Message: "authentication failed"}

	// ErrAccountInvalid is returned once the re-authentication budget is exhausted
	ErrAccountInvalid = &Error{Code: CodeAccountInvalid, Message: "bigcapital account is invalid"}

	// ErrAPI matches any non-2xx API response
	ErrAPI = &Error{Code: CodeAPIError, Message: "API error"}

	// ErrNetwork matches transport-level failures
	ErrNetwork = &Error{Code: CodeNetworkError, Message: "network error"}

	// ErrMalformedRecord is returned when a stored credential record cannot be decoded
	ErrMalformedRecord = &Error{Code: CodeMalformedRecord, Message: "malformed credential record"}
)

// NewAuthenticationFailed builds the error for a rejected login; body is the raw response body
func NewAuthenticationFailed(statusCode int, body string) *Error {
	return &Error{
		Code:       CodeAuthenticationFailed,
		Message:    fmt.Sprintf("login failed: %s", body),
		StatusCode: statusCode,
		Details:    map[string]interface{}{"body": body},
	}
}

// NewAccountInvalid builds the terminal error raised after attempts failed logins
func NewAccountInvalid(attempts int, cause error) *Error {
	return &Error{
		Code:    CodeAccountInvalid,
		Message: fmt.Sprintf("bigcapital account is invalid: failed to authenticate after %d attempts, please re-enter your credentials", attempts),
		Err:     cause,
	}
}

// NewAPIError builds the error for a non-2xx API response
func NewAPIError(statusCode int, message string) *Error {
	return &Error{
		Code:       CodeAPIError,
		Message:    fmt.Sprintf("API error %d: %s", statusCode, message),
		StatusCode: statusCode,
		Details:    map[string]interface{}{"message": message},
	}
}

// NewNetworkError wraps a transport failure
func NewNetworkError(op string, cause error) *Error {
	return &Error{
		Code:    CodeNetworkError,
		Message: op,
		Err:     cause,
	}
}
