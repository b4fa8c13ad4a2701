package extraction

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse matches any ResponseError caused by a response that
// arrived but could not be used.
var ErrInvalidResponse = errors.New("invalid extraction response")

// ResponseError represents a failed or unusable extraction response.
type ResponseError struct {
	Message string
	// Invalid is set when the service answered with an unusable payload, as
	// opposed to the request itself failing.
	Invalid bool
	Cause   error
}

func (e *ResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error: %s", e.Message)
}

func (e *ResponseError) Unwrap() error {
	return e.Cause
}

// Is reports whether the error is an invalid response.
func (e *ResponseError) Is(target error) bool {
	return target == ErrInvalidResponse && e.Invalid
}
