package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mkarlsen/adcon/internal/logging"
)

const (
	// DefaultTimeout bounds every gateway call. A call that has not
	// settled by then aborts and resolves to the timeout APIError.
	DefaultTimeout = 15 * time.Second

	apiPrefix = "/api"
)

// Client is the single gateway for all traffic to the administrative API.
// It attaches credential-bearing transport state (a cookie jar, so the
// remote side can assert identity without callers handling tokens),
// serializes bodies to JSON, bounds each call with a timeout, and
// normalizes every failure into an *APIError.
type Client struct {
	// BaseURL is the server root, e.g. "https://admin.corp.example".
	// The /api prefix is appended per call.
	BaseURL string

	// HTTPClient is the underlying transport. It carries the cookie jar.
	HTTPClient *http.Client

	// Timeout bounds each call. Zero means DefaultTimeout.
	Timeout time.Duration

	busy BusyGauge
}

// NewClient creates a gateway for the given server root. The cookie jar is
// shared across all calls so authentication cookies set by the server
// persist for the session.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Jar: jar},
		Timeout:    DefaultTimeout,
	}
}

// SetInsecureTLS disables certificate verification. Intended for intranet
// deployments still running on self-signed certificates.
func (c *Client) SetInsecureTLS(insecure bool) {
	c.HTTPClient.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure},
	}
}

// Busy exposes the in-flight gauge for UI observation.
func (c *Client) Busy() *BusyGauge {
	return &c.busy
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// call performs one request/response round trip. On success it returns the
// HTTP status so typed wrappers can distinguish an explicit 204 empty
// result from a value-bearing response; out is left untouched on 204.
// The busy gauge is held for exactly the duration of the call.
func (c *Client) call(ctx context.Context, method, path string, body any, out any) (int, *APIError) {
	c.busy.enter()
	defer c.busy.exit()

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			encoded, err := json.Marshal(body)
			if err != nil {
				return 0, &APIError{Message: "Request Failed", Detail: fmt.Sprintf("encoding request body: %v", err)}
			}
			reader = bytes.NewReader(encoded)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+apiPrefix+path, reader)
	if err != nil {
		return 0, &APIError{Message: "Request Failed", Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		apiErr := newTransportError(err)
		logging.Warn("API call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("error", apiErr.Message),
			zap.Duration("elapsed", time.Since(start)),
		)
		return 0, apiErr
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, newTransportError(err)
	}

	logging.Debug("API call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, newStatusError(resp.StatusCode, raw)
	}

	if resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, &APIError{
				Message: "Invalid Response",
				Detail:  fmt.Sprintf("decoding response body: %v", err),
			}
		}
	}
	return resp.StatusCode, nil
}

// Healthcheck probes server liveness. The response body is ignored.
func (c *Client) Healthcheck(ctx context.Context) *APIError {
	_, apiErr := c.call(ctx, http.MethodGet, "/healthcheck", nil, nil)
	return apiErr
}

// Me queries the identity endpoint for the calling operator's session.
func (c *Client) Me(ctx context.Context) (*Session, *APIError) {
	var s Session
	if _, apiErr := c.call(ctx, http.MethodGet, "/auth/me", nil, &s); apiErr != nil {
		return nil, apiErr
	}
	return &s, nil
}

// Settings fetches the tenant configuration.
func (c *Client) Settings(ctx context.Context) (*Settings, *APIError) {
	var s Settings
	if _, apiErr := c.call(ctx, http.MethodGet, "/config/settings", nil, &s); apiErr != nil {
		return nil, apiErr
	}
	return &s, nil
}

// ListUsers runs the account listing with the given query constraints.
func (c *Client) ListUsers(ctx context.Context, q ListQuery) ([]AccountSummary, *APIError) {
	params := url.Values{}
	params.Set("domain", q.Domain)
	if q.NameFilter != "" {
		params.Set("nameFilter", q.NameFilter)
	}
	if q.StatusFilter != "" {
		params.Set("statusFilter", q.StatusFilter)
	}
	if q.HasAdminAccount != "" {
		params.Set("hasAdminAccount", q.HasAdminAccount)
	}

	var users []AccountSummary
	if _, apiErr := c.call(ctx, http.MethodGet, "/users/list?"+params.Encode(), nil, &users); apiErr != nil {
		return nil, apiErr
	}
	return users, nil
}

// UserDetails fetches the full account record for the edit form. A nil
// detail with nil error means the server reported an explicit empty result
// (204): the account is gone or outside the configured search scope.
func (c *Client) UserDetails(ctx context.Context, domain, samAccountName string) (*AccountDetail, *APIError) {
	path := fmt.Sprintf("/users/details/%s/%s", url.PathEscape(domain), url.PathEscape(samAccountName))
	var detail AccountDetail
	status, apiErr := c.call(ctx, http.MethodGet, path, nil, &detail)
	if apiErr != nil {
		return nil, apiErr
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	return &detail, nil
}

// CreateUser provisions a new account, optionally with a paired admin
// account and group associations.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*CreateUserResult, *APIError) {
	var result CreateUserResult
	if _, apiErr := c.call(ctx, http.MethodPost, "/users/create", req, &result); apiErr != nil {
		return nil, apiErr
	}
	return &result, nil
}

// UpdateUser applies profile, expiration, and privilege-gated changes.
func (c *Client) UpdateUser(ctx context.Context, req UpdateUserRequest) *APIError {
	_, apiErr := c.call(ctx, http.MethodPut, "/users/update", req, nil)
	return apiErr
}

// ResetPassword generates a new random credential for the account.
func (c *Client) ResetPassword(ctx context.Context, domain, samAccountName string) (*ResetPasswordResult, *APIError) {
	var result ResetPasswordResult
	ref := AccountRef{Domain: domain, SamAccountName: samAccountName}
	if _, apiErr := c.call(ctx, http.MethodPost, "/users/reset-password", ref, &result); apiErr != nil {
		return nil, apiErr
	}
	return &result, nil
}

// Unlock clears the account lockout state.
func (c *Client) Unlock(ctx context.Context, domain, samAccountName string) *APIError {
	return c.accountAction(ctx, "/users/unlock", domain, samAccountName)
}

// Disable sets the account to disabled.
func (c *Client) Disable(ctx context.Context, domain, samAccountName string) *APIError {
	return c.accountAction(ctx, "/users/disable", domain, samAccountName)
}

// Enable sets the account to enabled.
func (c *Client) Enable(ctx context.Context, domain, samAccountName string) *APIError {
	return c.accountAction(ctx, "/users/enable", domain, samAccountName)
}

func (c *Client) accountAction(ctx context.Context, path, domain, samAccountName string) *APIError {
	ref := AccountRef{Domain: domain, SamAccountName: samAccountName}
	_, apiErr := c.call(ctx, http.MethodPost, path, ref, nil)
	return apiErr
}
