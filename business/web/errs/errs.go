// Package errs provides types and support related to web v1 functionality.
package errs

import (
	"errors"
	"net/http"

	"github.com/ardanlabs/starnotary/foundation/blockchain/challenge"
	"github.com/ardanlabs/starnotary/foundation/blockchain/database"
	"github.com/ardanlabs/starnotary/foundation/blockchain/state"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (re *Trusted) Error() string {
	return re.Err.Error()
}

// Unwrap returns the wrapped error.
func (re *Trusted) Unwrap() error {
	return re.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var re *Trusted
	return errors.As(err, &re)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var re *Trusted
	if !errors.As(err, &re) {
		return nil
	}
	return re
}

// =============================================================================

// FromSubmit converts an error from a record submission into a trusted error
// with the status the client should see. Unknown errors are returned as is.
func FromSubmit(err error) error {
	switch {
	case errors.Is(err, challenge.ErrMalformed):
		return NewTrusted(err, http.StatusBadRequest)

	case errors.Is(err, challenge.ErrExpired),
		errors.Is(err, challenge.ErrMismatch),
		errors.Is(err, challenge.ErrReused),
		errors.Is(err, state.ErrInvalidSignature):
		return NewTrusted(err, http.StatusUnauthorized)

	case errors.Is(err, database.ErrChainIntegrity):
		return NewTrusted(errors.New("chain integrity check failed, record not stored"), http.StatusInternalServerError)
	}

	return err
}

// Reason returns a short label for a submission error, used to count
// rejections by cause.
func Reason(err error) string {
	switch {
	case errors.Is(err, challenge.ErrMalformed):
		return "malformed"
	case errors.Is(err, challenge.ErrExpired):
		return "expired"
	case errors.Is(err, challenge.ErrMismatch):
		return "mismatch"
	case errors.Is(err, challenge.ErrReused):
		return "reused"
	case errors.Is(err, state.ErrInvalidSignature):
		return "signature"
	case errors.Is(err, database.ErrChainIntegrity):
		return "integrity"
	}

	return "other"
}

// FromDecode converts a request decoding error into a trusted error. A body
// larger than the configured limit is reported as too large.
func FromDecode(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return NewTrusted(err, http.StatusRequestEntityTooLarge)
	}

	return NewTrusted(err, http.StatusBadRequest)
}
