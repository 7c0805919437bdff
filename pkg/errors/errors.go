package errors

import (
	"errors"
	"net/http"

	"github.com/differentroads/dr-checkout/pkg/status"
)

// ApplicationError carries the HTTP status code and the application status
// keyword alongside the human readable message.
type ApplicationError struct {
	HTTPStatusCode int
	Status         string
	Message        string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

func New(httpStatusCode int, status string, message string) error {
	return &ApplicationError{
		HTTPStatusCode: httpStatusCode,
		Status:         status,
		Message:        message,
	}
}

// Destruct extracts an ApplicationError out of err. Unknown error types are
// mapped onto an internal server error so handlers never leak raw errors.
func Destruct(err error) *ApplicationError {
	var ae *ApplicationError
	if errors.As(err, &ae) {
		return ae
	}

	return &ApplicationError{
		HTTPStatusCode: http.StatusInternalServerError,
		Status:         status.INTERNAL_SERVER_ERROR,
		Message:        err.Error(),
	}
}

// Is reports whether err carries the given application status keyword.
func Is(err error, st string) bool {
	var ae *ApplicationError
	if errors.As(err, &ae) {
		return ae.Status == st
	}

	return false
}
