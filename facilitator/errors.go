package facilitator

import (
	"errors"
	"fmt"
)

// ErrUnavailable wraps network-level failures reaching the facilitator.
var ErrUnavailable = errors.New("facilitator unavailable")

// HTTPError is returned when the facilitator answers with a non-200 status.
type HTTPError struct {
	Op     string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("facilitator %s: unexpected status %d: %s", e.Op, e.Status, e.Body)
}
