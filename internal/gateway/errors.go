package gateway

import (
	"errors"
	"fmt"
)

// Persistence failure classes. Handlers and the retry policy branch on these
// with errors.Is; only server errors and missing responses are worth
// retrying.
var (
	ErrNotFound         = errors.New("project not found on server")
	ErrPermissionDenied = errors.New("permission denied")
	ErrServer           = errors.New("server error")
	ErrNoResponse       = errors.New("no response from server")
)

// StatusError wraps an HTTP status code in its failure class.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Is maps the status code onto the sentinel classes.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == 404
	case ErrPermissionDenied:
		return e.Status == 403
	case ErrServer:
		return e.Status >= 500
	}
	return false
}

// Retryable reports whether a persistence failure is transient: a 5xx
// response or no response at all.
func Retryable(err error) bool {
	return errors.Is(err, ErrServer) || errors.Is(err, ErrNoResponse)
}
