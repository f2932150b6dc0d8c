package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	"tasklist/internal/service"
)

// apiError carries a user-facing message while keeping the cause reachable
// through errors.As / errors.Is.
type apiError struct {
	msg string
	err error
}

func (e *apiError) Error() string { return e.msg }
func (e *apiError) Unwrap() error { return e.err }

// statusError builds the error for a response whose status was not the
// expected one. The server's {"error": "..."} message is used when present.
func statusError(res *http.Response, body []byte) *googleapi.Error {
	gerr := &googleapi.Error{
		Code:   res.StatusCode,
		Body:   string(body),
		Header: res.Header,
	}

	var reply struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &reply); err == nil {
		gerr.Message = reply.Error
		if gerr.Message == "" {
			gerr.Message = reply.Message
		}
	}
	if gerr.Message == "" {
		gerr.Message = http.StatusText(res.StatusCode)
	}
	return gerr
}

// wrapError wraps transport and status errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &apiError{msg: "request timed out", err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &apiError{msg: "request canceled", err: err}
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == http.StatusNotFound {
			return &apiError{msg: "not found", err: fmt.Errorf("%w: %w", service.ErrNotFound, err)}
		}
		msg := strings.TrimSpace(gerr.Message)
		return &apiError{msg: fmt.Sprintf("unexpected status %d: %s", gerr.Code, msg), err: err}
	}

	return err
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not a
// status failure (for example a network error).
func StatusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the task API.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
