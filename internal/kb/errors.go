package kb

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a resource lookup misses. It is a
// distinguished outcome, not a failure: the upsert path creates the
// resource when it sees this.
var ErrNotFound = errors.New("resource not found")

// RemoteError is any knowledge-base failure other than a lookup miss.
// It propagates to callers unchanged; retry policy belongs to them.
type RemoteError struct {
	// Op is the gateway operation that failed (e.g. "search", "upload").
	Op string
	// StatusCode is the HTTP status returned by the service, or 0 when
	// the request never completed.
	StatusCode int
	// Message is a short server-provided detail, possibly empty.
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("kb %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("kb %s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// IsNotFound reports whether err is (or wraps) a lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
