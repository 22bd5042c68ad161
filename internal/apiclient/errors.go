package apiclient

import (
	"errors"
	"net/http"
	"strings"
)

// Messages shown when the backend does not supply one.
const (
	MsgCreateFailed     = "Failed to create paste"
	MsgFetchFailed      = "Failed to fetch paste"
	MsgNotFound         = "Paste not found or expired"
	MsgPasswordRequired = "Password required"
)

// NetworkError means the API could not be reached at all.
type NetworkError struct {
	BaseURL string
	Hint    string
	Err     error
}

func (e *NetworkError) Error() string {
	var b strings.Builder
	b.WriteString("Unable to reach API. Ensure the backend is running")
	if e.BaseURL != "" {
		b.WriteString(" at ")
		b.WriteString(e.BaseURL)
	}
	b.WriteString(".")
	if e.Hint != "" {
		b.WriteString(" ")
		b.WriteString(e.Hint)
	}
	return b.String()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-success response from the API.
type HTTPError struct {
	Status  int
	Message string
	Hint    string
}

func (e *HTTPError) Error() string {
	if e.Hint == "" {
		return e.Message
	}
	return e.Message + ". " + e.Hint
}

// NotFound reports whether the paste is missing or expired.
func (e *HTTPError) NotFound() bool { return e.Status == http.StatusNotFound }

// PasswordRequiredError means the paste is password protected and no valid
// password was supplied.
type PasswordRequiredError struct{}

func (*PasswordRequiredError) Error() string { return MsgPasswordRequired }

// RequiresPassword is always true; it lets callers branch on behavior.
func (*PasswordRequiredError) RequiresPassword() bool { return true }

// IsPasswordRequired reports whether err is, or wraps, a PasswordRequiredError.
func IsPasswordRequired(err error) bool {
	var pr *PasswordRequiredError
	return errors.As(err, &pr)
}

// IsNotFound reports whether err is a 404 HTTPError.
func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.NotFound()
}
