package upstream

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("upstream: resource not found")
	ErrSlotTaken        = errors.New("upstream: slot is no longer available")
	ErrUnauthorized     = errors.New("upstream: request rejected by the clinic API")
	ErrUnexpectedStatus = errors.New("upstream: unexpected response from the clinic API")
)

// APIError carries the backend-provided error detail so callers can surface
// it verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("clinic API returned status %d", e.StatusCode)
	}
	return e.Message
}

// Detail returns the backend-provided message from err, if any.
func Detail(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}
