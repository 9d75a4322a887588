package status

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error carries the status a failure should be answered with.
type Error struct {
	cause  error
	Status Status
}

func NewError(err error, status Status) Error {
	return Error{cause: err, Status: status}
}

func (e Error) Error() string {
	cause := ""
	if e.cause != nil {
		cause = e.cause.Error()
	}

	return fmt.Sprintf("%d %s: %q", e.Status.Code, e.Status.ReasonPhrase, cause)
}

func (e Error) Cause() error  { return e.cause }
func (e Error) Unwrap() error { return e.cause }

// Of returns the status err asks for, or 500 when it carries none.
func Of(err error) Status {
	var statusErr Error
	if errors.As(err, &statusErr) {
		return statusErr.Status
	}
	return InternalServerError
}
