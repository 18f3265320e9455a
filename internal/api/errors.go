package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
)

// APIError is the single normalized failure shape for every gateway call.
// Transport failures, timeouts, and non-success HTTP responses all resolve
// to this type so callers have one presentation path.
type APIError struct {
	// Message is a short human-readable summary.
	Message string `json:"message"`

	// Detail carries server-supplied context when available.
	Detail string `json:"detail,omitempty"`

	// FieldErrors maps field names to validation messages. The server
	// emits these under "errors" for rejected create/update payloads.
	FieldErrors map[string][]string `json:"errors,omitempty"`

	// StatusCode is the HTTP status that produced this error, or 0 for
	// transport-level failures.
	StatusCode int `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// DisplayText returns the text an operator should see: the server detail
// when present, otherwise the summary message.
func (e *APIError) DisplayText() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

// FlattenedFieldErrors joins all per-field validation messages into a single
// space-separated string, in stable field order. Returns "" when the error
// carries no field errors.
func (e *APIError) FlattenedFieldErrors() string {
	if len(e.FieldErrors) == 0 {
		return ""
	}
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var msgs []string
	for _, f := range fields {
		msgs = append(msgs, e.FieldErrors[f]...)
	}
	return strings.Join(msgs, " ")
}

// IsTimeout reports whether the error is the request-timeout failure.
func IsTimeout(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Message == timeoutMessage
}

// IsAuth reports whether the error came from a 401 response.
func IsAuth(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether the error came from a 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

const (
	timeoutMessage = "Request Timed Out"
	timeoutDetail  = "The server did not respond in time."

	// authFailedDetail always replaces the server body on a 401. The
	// backend's 401 bodies vary by middleware, so the override keeps the
	// operator-visible message stable.
	authFailedDetail = "Authentication failed."

	genericBodyDetail = "Server returned an unexpected response."
)

func newTimeoutError() *APIError {
	return &APIError{Message: timeoutMessage, Detail: timeoutDetail}
}

// newTransportError normalizes a transport-level failure (connection
// refused, DNS, aborted context) into an APIError.
func newTransportError(err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return newTimeoutError()
	}
	return &APIError{
		Message: "Request Failed",
		Detail:  err.Error(),
	}
}

// newStatusError normalizes a non-success HTTP response. The body is parsed
// as an APIError document when possible; otherwise a synthetic error is
// built from the status code and raw body. A 401 always reports an
// authentication failure regardless of what the body said.
func newStatusError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		detail := strings.TrimSpace(string(body))
		if detail == "" {
			detail = genericBodyDetail
		}
		apiErr = &APIError{
			Message: fmt.Sprintf("HTTP error! status: %d", statusCode),
			Detail:  detail,
		}
	}
	apiErr.StatusCode = statusCode
	if statusCode == http.StatusUnauthorized {
		apiErr.Detail = authFailedDetail
	}
	return apiErr
}
