package analysis

import (
	"errors"
	"fmt"
)

// ErrDecode wraps a response body that could not be parsed as a Result.
var ErrDecode = errors.New("failed to decode analysis response")

// StatusError is returned for any non-2xx backend response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("analysis backend error: %s", e.Status)
}
