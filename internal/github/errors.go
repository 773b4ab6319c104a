package github

import (
	"errors"
	"fmt"
	"net/http"
)

// Client errors.
var (
	ErrOrgNameEmpty      = errors.New("organization name must not be empty")
	ErrUnexpectedPayload = errors.New("unexpected payload shape")
	ErrHTTPStatus        = errors.New("unexpected HTTP status")
)

// StatusError is returned by HTTPGetter when the API answers with a non-2xx
// status. Message carries the "message" field of GitHub's error body when
// there is one.
type StatusError struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is makes errors.Is(err, ErrHTTPStatus) true for every *StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
