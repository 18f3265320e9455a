package api

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNewStatusError_ParsesServerBody(t *testing.T) {
	body := `{"message":"Validation Failed","detail":"The request was rejected.","errors":{"samAccountName":["already in use"]}}`

	apiErr := newStatusError(400, []byte(body))

	if apiErr.Message != "Validation Failed" {
		t.Errorf("Message = %q, want Validation Failed", apiErr.Message)
	}
	if apiErr.Detail != "The request was rejected." {
		t.Errorf("Detail = %q, want The request was rejected.", apiErr.Detail)
	}
	if apiErr.StatusCode != 400 {
		t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
	}
	if got := apiErr.FieldErrors["samAccountName"]; len(got) != 1 || got[0] != "already in use" {
		t.Errorf("FieldErrors = %v, want samAccountName -> already in use", apiErr.FieldErrors)
	}
}

func TestNewStatusError_FallbackForUnparseableBody(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantDetail string
	}{
		{"html body", "<html>Bad Gateway</html>", "<html>Bad Gateway</html>"},
		{"empty body", "", "Server returned an unexpected response."},
		{"blank body", "   ", "Server returned an unexpected response."},
		{"json without message", `{"code":500}`, `{"code":500}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := newStatusError(502, []byte(tt.body))

			if apiErr.Message != "HTTP error! status: 502" {
				t.Errorf("Message = %q, want HTTP error! status: 502", apiErr.Message)
			}
			if apiErr.Detail != tt.wantDetail {
				t.Errorf("Detail = %q, want %q", apiErr.Detail, tt.wantDetail)
			}
		})
	}
}

func TestNewStatusError_UnauthorizedAlwaysUniform(t *testing.T) {
	// The operator-visible text for a 401 must not depend on the body
	bodies := []string{
		"",
		"<html>IIS rejected you</html>",
		`{"message":"Token Expired","detail":"renew your token"}`,
	}

	for _, body := range bodies {
		apiErr := newStatusError(401, []byte(body))

		if apiErr.Detail != "Authentication failed." {
			t.Errorf("body %q: Detail = %q, want Authentication failed.", body, apiErr.Detail)
		}
		if !IsAuth(apiErr) {
			t.Errorf("body %q: IsAuth = false, want true", body)
		}
		if apiErr.DisplayText() != "Authentication failed." {
			t.Errorf("body %q: DisplayText = %q", body, apiErr.DisplayText())
		}
	}
}

func TestNewTransportError_TimeoutClassification(t *testing.T) {
	apiErr := newTransportError(context.DeadlineExceeded)

	if apiErr.Message != "Request Timed Out" {
		t.Errorf("Message = %q, want Request Timed Out", apiErr.Message)
	}
	if apiErr.Detail != "The server did not respond in time." {
		t.Errorf("Detail = %q", apiErr.Detail)
	}
	if !IsTimeout(apiErr) {
		t.Error("IsTimeout = false, want true")
	}
}

func TestNewTransportError_WrappedDeadline(t *testing.T) {
	wrapped := fmt.Errorf("Get \"https://x/api/healthcheck\": %w", context.DeadlineExceeded)

	if !IsTimeout(newTransportError(wrapped)) {
		t.Error("wrapped deadline should classify as timeout")
	}
}

func TestNewTransportError_Generic(t *testing.T) {
	apiErr := newTransportError(errors.New("connection refused"))

	if apiErr.Message != "Request Failed" {
		t.Errorf("Message = %q, want Request Failed", apiErr.Message)
	}
	if IsTimeout(apiErr) {
		t.Error("IsTimeout = true for non-timeout failure")
	}
}

func TestFlattenedFieldErrors(t *testing.T) {
	apiErr := &APIError{
		FieldErrors: map[string][]string{
			"lastName":  {"Last name is required."},
			"firstName": {"First name is required.", "First name is too short."},
		},
	}

	// Stable field order: firstName before lastName
	want := "First name is required. First name is too short. Last name is required."
	if got := apiErr.FlattenedFieldErrors(); got != want {
		t.Errorf("FlattenedFieldErrors = %q, want %q", got, want)
	}

	empty := &APIError{Message: "x"}
	if got := empty.FlattenedFieldErrors(); got != "" {
		t.Errorf("FlattenedFieldErrors on empty = %q, want \"\"", got)
	}
}

func TestAPIError_Error(t *testing.T) {
	withDetail := &APIError{Message: "Connection Error", Detail: "no route to host"}
	if got := withDetail.Error(); got != "Connection Error: no route to host" {
		t.Errorf("Error = %q", got)
	}

	bare := &APIError{Message: "Connection Error"}
	if got := bare.Error(); got != "Connection Error" {
		t.Errorf("Error = %q", got)
	}
}
